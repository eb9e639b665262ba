package dialog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mmeshcher/sizbot-system/internal/model"
)

// Engine — конечный автомат диалога: по одному нормализованному событию
// вычисляет следующий шаг сессии и исходящий ответ.
type Engine struct {
	catalog  CatalogStore
	records  RecordStore
	identity IdentityResolver
	docs     DocumentProvider
	logger   *zap.Logger
	sessions *sessionStore
}

// NewEngine создаёт автомат диалога с указанными хранилищами и резолвером.
func NewEngine(catalog CatalogStore, records RecordStore, identity IdentityResolver, docs DocumentProvider, logger *zap.Logger) *Engine {
	return &Engine{
		catalog:  catalog,
		records:  records,
		identity: identity,
		docs:     docs,
		logger:   logger,
		sessions: newSessionStore(),
	}
}

// HandleEvent обрабатывает один ход диалога: единственная операция,
// доступная транспортному адаптеру. Ходы одной сессии строго
// последовательны. При ошибке хранилища состояние сессии не меняется,
// пользователю возвращается общий текст сбоя вместе с ошибкой.
func (e *Engine) HandleEvent(ctx context.Context, sessionID string, ev model.Event) (model.Prompt, error) {
	slot := e.sessions.acquire(sessionID)
	slot.mu.Lock()
	defer slot.mu.Unlock()

	// Ход выполняется над копией: фиксация только после успешных
	// побочных эффектов.
	s := slot.session

	prompt, err := e.step(ctx, &s, ev)
	if err != nil {
		e.logger.Error("dialog turn failed",
			zap.String("sessionID", sessionID),
			zap.String("state", string(slot.session.State)),
			zap.Error(err),
		)
		return model.Prompt{Text: textStorageFailure}, err
	}

	slot.session = s
	return prompt, nil
}

// Session возвращает копию сессии, если она существует.
func (e *Engine) Session(sessionID string) (model.Session, bool) {
	return e.sessions.snapshot(sessionID)
}

func (e *Engine) step(ctx context.Context, s *model.Session, ev model.Event) (model.Prompt, error) {
	switch ev.Kind {
	case model.EventStart, model.EventCancel:
		resetSession(s)
		return greetingPrompt(), nil
	case model.EventText, model.EventButton:
		// кнопка и текст несут одинаковую надпись
	default:
		return e.promptForState(ctx, s), nil
	}

	switch s.State {
	case model.StateAwaitingTabel:
		return e.stepAwaitingTabel(ctx, s, ev)
	case model.StateMainMenu:
		return e.stepMainMenu(ctx, s, ev)
	case model.StateSeasonSelect:
		return e.stepSeasonSelect(ctx, s, ev)
	case model.StateItemSelect:
		return e.stepItemSelect(ctx, s, ev)
	case model.StateComplaintText:
		return e.stepComplaintText(ctx, s, ev)
	case model.StateNormativeRoleSelect:
		return e.stepNormativeRoleSelect(ctx, s, ev)
	default:
		// Неизвестное состояние восстановимо только сбросом.
		resetSession(s)
		return greetingPrompt(), nil
	}
}

func (e *Engine) stepAwaitingTabel(ctx context.Context, s *model.Session, ev model.Event) (model.Prompt, error) {
	tabel := strings.TrimSpace(ev.Text)

	role, err := e.identity.Resolve(ctx, tabel, ev.From)
	if err != nil {
		if errors.Is(err, ErrBadTabelNumber) {
			return model.Prompt{Text: textBadTabel}, nil
		}
		return model.Prompt{}, fmt.Errorf("resolve tabel number: %w", err)
	}

	s.TabelNumber = tabel
	s.Role = role
	s.State = model.StateMainMenu
	return mainMenuPrompt(fmt.Sprintf("Табельный номер %s принят!\n%s", tabel, textMainMenu)), nil
}

func (e *Engine) stepMainMenu(ctx context.Context, s *model.Session, ev model.Event) (model.Prompt, error) {
	if s.TabelNumber == "" {
		resetSession(s)
		return greetingPrompt(), nil
	}

	switch ev.Text {
	case ButtonOrder:
		s.State = model.StateSeasonSelect
		return seasonPrompt(textChooseSeason), nil

	case ButtonComplaint:
		s.State = model.StateComplaintText
		return complaintPrompt(), nil

	case ButtonStats:
		text, err := e.statsText(ctx, s.TabelNumber)
		if err != nil {
			return model.Prompt{}, err
		}
		return mainMenuPrompt(text), nil

	case ButtonDocuments:
		roles, err := e.catalog.CatalogRoles(ctx)
		if err != nil {
			return model.Prompt{}, fmt.Errorf("list catalog roles: %w", err)
		}
		s.State = model.StateNormativeRoleSelect
		return rolesPrompt(textChooseRole, roles), nil

	default:
		return mainMenuPrompt(textChooseFromMenu), nil
	}
}

func (e *Engine) stepSeasonSelect(ctx context.Context, s *model.Session, ev model.Event) (model.Prompt, error) {
	if s.TabelNumber == "" || s.Role == "" {
		resetSession(s)
		return greetingPrompt(), nil
	}

	switch ev.Text {
	case ButtonBack:
		backToMainMenu(s)
		return mainMenuPrompt(textMainMenu), nil

	case SeasonSummer, SeasonWinter:
		items, err := e.catalog.LookupCatalog(ctx, s.Role, ev.Text)
		if err != nil {
			return model.Prompt{}, fmt.Errorf("lookup catalog: %w", err)
		}
		if len(items) == 0 {
			backToMainMenu(s)
			return mainMenuPrompt(textNoItems), nil
		}

		s.PendingSeason = ev.Text
		s.PendingItems = items
		s.State = model.StateItemSelect
		return itemsPrompt(fmt.Sprintf("Выберите СИЗ для сезона «%s»:", ev.Text), items), nil

	default:
		return seasonPrompt(textChooseSeasonBtn), nil
	}
}

func (e *Engine) stepItemSelect(ctx context.Context, s *model.Session, ev model.Event) (model.Prompt, error) {
	if s.TabelNumber == "" {
		resetSession(s)
		return greetingPrompt(), nil
	}
	// Снимок каталога мог пропасть, например после перезапуска процесса:
	// сессия восстановима возвратом в главное меню.
	if len(s.PendingItems) == 0 || s.PendingSeason == "" {
		backToMainMenu(s)
		return mainMenuPrompt(textMainMenu), nil
	}

	if ev.Text == ButtonBack {
		backToMainMenu(s)
		return mainMenuPrompt(textMainMenu), nil
	}

	entry, ok := matchSnapshotItem(ev.Text, s.PendingItems)
	if !ok {
		return itemsPrompt(textChooseItem, s.PendingItems), nil
	}

	order := model.Order{
		TabelNumber: s.TabelNumber,
		Role:        s.Role,
		Season:      s.PendingSeason,
		Item:        entry.Item,
		// Количество всегда берётся из нормы снимка каталога,
		// пользователь выбирает только позицию.
		Quantity: entry.StandardQuantity,
	}
	if _, err := e.records.AddOrder(ctx, order); err != nil {
		return model.Prompt{}, fmt.Errorf("append order: %w", err)
	}

	season := s.PendingSeason
	backToMainMenu(s)
	return mainMenuPrompt(fmt.Sprintf(
		"✅ Заказ оформлен!\n\nСИЗ: %s\nСезон: %s\nКоличество: %d шт.\n\nЗаказ передан в отдел снабжения.",
		entry.Item, season, entry.StandardQuantity,
	)), nil
}

func (e *Engine) stepComplaintText(ctx context.Context, s *model.Session, ev model.Event) (model.Prompt, error) {
	if s.TabelNumber == "" {
		resetSession(s)
		return greetingPrompt(), nil
	}

	if ev.Text == ButtonCancel {
		backToMainMenu(s)
		return mainMenuPrompt(textMainMenu), nil
	}

	complaint := model.Complaint{
		TabelNumber: s.TabelNumber,
		Category:    ComplaintCategory,
		Description: ev.Text,
	}
	if _, err := e.records.AddComplaint(ctx, complaint); err != nil {
		return model.Prompt{}, fmt.Errorf("append complaint: %w", err)
	}

	backToMainMenu(s)
	// Подтверждение не содержит табельный номер отправителя.
	return mainMenuPrompt(textComplaintDone), nil
}

func (e *Engine) stepNormativeRoleSelect(ctx context.Context, s *model.Session, ev model.Event) (model.Prompt, error) {
	if s.TabelNumber == "" {
		resetSession(s)
		return greetingPrompt(), nil
	}

	if ev.Text == ButtonBack {
		backToMainMenu(s)
		return mainMenuPrompt(textMainMenu), nil
	}

	roles, err := e.catalog.CatalogRoles(ctx)
	if err != nil {
		return model.Prompt{}, fmt.Errorf("list catalog roles: %w", err)
	}

	for _, role := range roles {
		if role != ev.Text {
			continue
		}
		backToMainMenu(s)
		if !e.docs.Has(role) {
			return mainMenuPrompt(textNoDocument), nil
		}
		prompt := mainMenuPrompt(fmt.Sprintf("Нормативный документ для должности «%s»:", role))
		prompt.DocumentRole = role
		return prompt, nil
	}

	return rolesPrompt(textChooseRole, roles), nil
}

// statsText собирает сводку по нарушениям и заказам вызывающего.
func (e *Engine) statsText(ctx context.Context, tabel string) (string, error) {
	total, err := e.records.CountAllComplaints(ctx)
	if err != nil {
		return "", fmt.Errorf("count all complaints: %w", err)
	}
	own, err := e.records.CountComplaintsByTabel(ctx, tabel)
	if err != nil {
		return "", fmt.Errorf("count own complaints: %w", err)
	}
	orders, err := e.records.CountOrdersByTabel(ctx, tabel)
	if err != nil {
		return "", fmt.Errorf("count own orders: %w", err)
	}
	byCategory, err := e.records.CountComplaintsByTabelByCategory(ctx, tabel)
	if err != nil {
		return "", fmt.Errorf("count complaints by category: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Статистика\n\n")
	fmt.Fprintf(&b, "Всего нарушений в системе: %d\n", total)
	fmt.Fprintf(&b, "Вами зафиксировано: %d\n", own)
	fmt.Fprintf(&b, "Ваших заказов СИЗ: %d\n", orders)

	if len(byCategory) > 0 {
		categories := make([]string, 0, len(byCategory))
		for c := range byCategory {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		b.WriteString("\nПо категориям:\n")
		for _, c := range categories {
			fmt.Fprintf(&b, "• %s: %d\n", c, byCategory[c])
		}
	}

	return b.String(), nil
}

// promptForState строит канонический ответ текущего состояния,
// чтобы любой ход завершался определённым ответом.
func (e *Engine) promptForState(ctx context.Context, s *model.Session) model.Prompt {
	switch s.State {
	case model.StateMainMenu:
		return mainMenuPrompt(textMainMenu)
	case model.StateSeasonSelect:
		return seasonPrompt(textChooseSeason)
	case model.StateItemSelect:
		if len(s.PendingItems) > 0 {
			return itemsPrompt(textChooseItem, s.PendingItems)
		}
		backToMainMenu(s)
		return mainMenuPrompt(textMainMenu)
	case model.StateComplaintText:
		return complaintPrompt()
	case model.StateNormativeRoleSelect:
		roles, err := e.catalog.CatalogRoles(ctx)
		if err == nil {
			return rolesPrompt(textChooseRole, roles)
		}
		backToMainMenu(s)
		return mainMenuPrompt(textMainMenu)
	default:
		return greetingPrompt()
	}
}

func resetSession(s *model.Session) {
	s.State = model.StateAwaitingTabel
	s.TabelNumber = ""
	s.Role = ""
	clearScratch(s)
}

func backToMainMenu(s *model.Session) {
	s.State = model.StateMainMenu
	clearScratch(s)
}

func clearScratch(s *model.Session) {
	s.PendingSeason = ""
	s.PendingItems = nil
}
