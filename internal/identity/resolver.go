// Package identity сопоставляет табельные номера сотрудников с должностями.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmeshcher/sizbot-system/internal/dialog"
	"github.com/mmeshcher/sizbot-system/internal/model"
	"github.com/mmeshcher/sizbot-system/internal/repository"
	"github.com/mmeshcher/sizbot-system/internal/validation"
)

// DefaultRole назначается сотруднику при первом обращении.
// Принятая политика: любой корректный табельный номер принимается,
// закрытого списка известных номеров нет.
const DefaultRole = "Инженер"

// UserStore описывает контракт хранилища сотрудников.
type UserStore interface {
	UpsertUser(ctx context.Context, tabel, fullName, role string) error
	GetUserByTabel(ctx context.Context, tabel string) (*model.User, error)
}

// Resolver принимает любой корректный табельный номер: при первом
// обращении сотруднику назначается должность по умолчанию и создаётся
// запись; повторное обращение обновляет отображаемое имя, табельный
// номер остаётся уникальным ключом, должность сохраняется.
type Resolver struct {
	users UserStore
}

// NewResolver создаёт резолвер над указанным хранилищем сотрудников.
func NewResolver(users UserStore) *Resolver {
	return &Resolver{users: users}
}

// Resolve проверяет табельный номер и возвращает должность сотрудника.
func (r *Resolver) Resolve(ctx context.Context, tabel, fullName string) (string, error) {
	if !validation.IsValidTabelNumber(tabel) {
		return "", fmt.Errorf("%w: %q", dialog.ErrBadTabelNumber, tabel)
	}

	role := DefaultRole

	existing, err := r.users.GetUserByTabel(ctx, tabel)
	switch {
	case err == nil:
		role = existing.Role
		if fullName == "" {
			fullName = existing.FullName
		}
	case errors.Is(err, repository.ErrUserNotFound):
		// первый визит
	default:
		return "", fmt.Errorf("get user: %w", err)
	}

	if err := r.users.UpsertUser(ctx, tabel, fullName, role); err != nil {
		return "", fmt.Errorf("upsert user: %w", err)
	}

	return role, nil
}
