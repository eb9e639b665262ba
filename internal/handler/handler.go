// Package handler содержит HTTP-адаптер транспорта сервиса заказа СИЗ.
//
// Адаптер принимает нормализованные события диалога в виде JSON,
// передаёт их автомату и возвращает плоский ответ; ссылка на
// нормативный документ отдаётся отдельным маршрутом скачивания.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/sizbot-system/internal/document"
	"github.com/mmeshcher/sizbot-system/internal/middleware"
	"github.com/mmeshcher/sizbot-system/internal/model"
)

// Dialog определяет контракт автомата диалога, используемый адаптером.
type Dialog interface {
	HandleEvent(ctx context.Context, sessionID string, ev model.Event) (model.Prompt, error)
}

// Documents определяет контракт провайдера нормативных документов.
type Documents interface {
	Open(role string) (io.ReadCloser, string, error)
}

// Handler реализует HTTP-обработчики транспортного адаптера.
type Handler struct {
	dialog Dialog
	docs   Documents
	logger *zap.Logger
	secret *middleware.SecretMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(d Dialog, docs Documents, logger *zap.Logger, secret *middleware.SecretMiddleware) *Handler {
	return &Handler{
		dialog: d,
		docs:   docs,
		logger: logger,
		secret: secret,
	}
}

type eventRequest struct {
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
	Text      string `json:"text,omitempty"`
	From      string `json:"from,omitempty"`
}

type promptResponse struct {
	Text        string     `json:"text"`
	Options     [][]string `json:"options,omitempty"`
	DocumentURL string     `json:"document_url,omitempty"`
}

var eventKinds = map[string]model.EventKind{
	string(model.EventStart):  model.EventStart,
	string(model.EventText):   model.EventText,
	string(model.EventButton): model.EventButton,
	string(model.EventCancel): model.EventCancel,
}

// BotEvent обрабатывает один ход диалога: нормализованное событие на
// входе, плоский ответ на выходе.
func (h *Handler) BotEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.SessionID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	kind, ok := eventKinds[req.Kind]
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	prompt, err := h.dialog.HandleEvent(r.Context(), req.SessionID, model.Event{
		Kind: kind,
		Text: req.Text,
		From: req.From,
	})

	status := http.StatusOK
	if err != nil {
		h.logger.Error("handle event error", zap.Error(err), zap.String("sessionID", req.SessionID))
		status = http.StatusInternalServerError
	}

	resp := promptResponse{
		Text:    prompt.Text,
		Options: prompt.Options,
	}
	if prompt.DocumentRole != "" {
		resp.DocumentURL = "/api/documents/" + url.PathEscape(prompt.DocumentRole)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}

// GetDocument отдаёт нормативный документ для указанной должности.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "role")

	rc, name, err := h.docs.Open(role)
	if err != nil {
		if errors.Is(err, document.ErrDocumentNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("open document error", zap.Error(err), zap.String("role", role))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error("stream document error", zap.Error(err), zap.String("role", role))
	}
}

// Ping отвечает на проверку живости сервиса.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
