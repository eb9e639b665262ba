// Package model содержит доменные сущности сервиса заказа СИЗ.
package model

import "time"

// SessionState описывает текущее состояние диалога с пользователем.
type SessionState string

const (
	StateAwaitingTabel       SessionState = "AWAITING_TABEL"
	StateMainMenu            SessionState = "MAIN_MENU"
	StateSeasonSelect        SessionState = "SEASON_SELECT"
	StateItemSelect          SessionState = "ITEM_SELECT"
	StateComplaintText       SessionState = "COMPLAINT_TEXT"
	StateNormativeRoleSelect SessionState = "NORMATIVE_ROLE_SELECT"
)

// Session хранит состояние одного активного диалога.
// Табельный номер фиксируется один раз и не меняется до сброса сессии.
type Session struct {
	ID            string
	State         SessionState
	TabelNumber   string
	Role          string
	PendingSeason string
	// PendingItems — снимок каталога, показанный пользователю при выборе
	// сезона. Выбор позиции разрешается только против этого снимка.
	PendingItems []CatalogEntry
}

// EventKind описывает вид нормализованного входящего события.
type EventKind string

const (
	EventStart  EventKind = "START"
	EventText   EventKind = "TEXT"
	EventButton EventKind = "BUTTON"
	EventCancel EventKind = "CANCEL"
)

// Event — нормализованное входящее событие от транспортного адаптера.
// From — отображаемое имя отправителя, если канал его сообщает.
type Event struct {
	Kind EventKind
	Text string
	From string
}

// Prompt — исходящий ответ шага диалога: текст, варианты выбора
// и необязательная ссылка на документ по ключу должности. Разметка и
// оформление — забота транспортного адаптера.
type Prompt struct {
	Text         string
	Options      [][]string
	DocumentRole string
}

// CatalogEntry — строка справочника СИЗ: норма выдачи позиции
// для должности в заданном сезоне.
type CatalogEntry struct {
	Role             string
	Season           string
	Item             string
	StandardQuantity int
}

// Order — факт заказа СИЗ. Записи заказов не изменяются и не удаляются.
type Order struct {
	ID          int64
	TabelNumber string
	Role        string
	Season      string
	Item        string
	Quantity    int
	CreatedAt   time.Time
}

// Complaint — факт анонимного сообщения о нарушении. Табельный номер
// сохраняется только для служебного разбора и никогда не показывается
// в подтверждении отправителю.
type Complaint struct {
	ID          int64
	TabelNumber string
	Category    string
	Description string
	CreatedAt   time.Time
}

// User — зарегистрированный сотрудник. Уникальный ключ — табельный номер.
type User struct {
	ID          int64
	TabelNumber string
	FullName    string
	Role        string
	CreatedAt   time.Time
}
