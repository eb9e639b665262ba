// Package dialog реализует конечный автомат диалога сервиса заказа СИЗ.
//
// Автомат обрабатывает нормализованные события транспортного адаптера,
// хранит состояние и рабочие данные каждой сессии и обращается к
// справочнику СИЗ, журналу записей и резолверу табельных номеров
// как к побочным эффектам переходов.
package dialog

import (
	"context"
	"errors"

	"github.com/mmeshcher/sizbot-system/internal/model"
)

// ErrBadTabelNumber возвращается резолвером при некорректном табельном номере.
var ErrBadTabelNumber = errors.New("bad tabel number")

// CatalogStore описывает контракт справочника СИЗ.
// LookupCatalog возвращает позиции в порядке заполнения справочника;
// пустой результат — не ошибка.
type CatalogStore interface {
	LookupCatalog(ctx context.Context, role, season string) ([]model.CatalogEntry, error)
	CatalogRoles(ctx context.Context) ([]string, error)
}

// RecordStore описывает контракт журнала заказов и сообщений о нарушениях.
// Записи только добавляются; агрегаты отражают все добавленные записи.
type RecordStore interface {
	AddOrder(ctx context.Context, order model.Order) (int64, error)
	AddComplaint(ctx context.Context, complaint model.Complaint) (int64, error)
	CountOrdersByTabel(ctx context.Context, tabel string) (int, error)
	CountComplaintsByTabel(ctx context.Context, tabel string) (int, error)
	CountAllComplaints(ctx context.Context) (int, error)
	CountComplaintsByTabelByCategory(ctx context.Context, tabel string) (map[string]int, error)
}

// IdentityResolver сопоставляет табельный номер с должностью.
type IdentityResolver interface {
	Resolve(ctx context.Context, tabel, fullName string) (string, error)
}

// DocumentProvider сообщает о наличии нормативного документа для должности.
type DocumentProvider interface {
	Has(role string) bool
}
