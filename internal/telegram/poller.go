package telegram

import (
	"context"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/sizbot-system/internal/model"
)

// Dialog определяет контракт автомата диалога, используемый поллером.
type Dialog interface {
	HandleEvent(ctx context.Context, sessionID string, ev model.Event) (model.Prompt, error)
}

// Documents определяет контракт провайдера нормативных документов.
type Documents interface {
	Open(role string) (io.ReadCloser, string, error)
}

// Poller запускает long polling Bot API и прогоняет сообщения через
// автомат диалога. Идентификатором сессии служит ID чата.
type Poller struct {
	client      *Client
	dialog      Dialog
	docs        Documents
	logger      *zap.Logger
	pollTimeout time.Duration
}

// NewPoller создаёт поллер обновлений поверх клиента Bot API.
func NewPoller(client *Client, dialog Dialog, docs Documents, logger *zap.Logger) *Poller {
	return &Poller{
		client:      client,
		dialog:      dialog,
		docs:        docs,
		logger:      logger,
		pollTimeout: 30 * time.Second,
	}
}

// Run опрашивает обновления до отмены контекста.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64

	for {
		updates, err := p.client.GetUpdates(ctx, offset, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Error("get updates error", zap.Error(err))

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			p.handleUpdate(ctx, upd)
		}
	}
}

func (p *Poller) handleUpdate(ctx context.Context, upd Update) {
	if upd.Message == nil {
		return
	}

	msg := upd.Message
	sessionID := strconv.FormatInt(msg.Chat.ID, 10)
	ev := normalizeMessage(msg)

	prompt, err := p.dialog.HandleEvent(ctx, sessionID, ev)
	if err != nil {
		p.logger.Error("handle event error", zap.Error(err), zap.String("sessionID", sessionID))
	}

	if prompt.Text != "" {
		if err := p.client.SendMessage(ctx, msg.Chat.ID, prompt.Text, prompt.Options); err != nil {
			p.logger.Error("send message error", zap.Error(err), zap.String("sessionID", sessionID))
		}
	}

	if prompt.DocumentRole != "" {
		p.sendDocument(ctx, msg.Chat.ID, prompt.DocumentRole)
	}
}

func (p *Poller) sendDocument(ctx context.Context, chatID int64, role string) {
	rc, name, err := p.docs.Open(role)
	if err != nil {
		p.logger.Error("open document error", zap.Error(err), zap.String("role", role))
		return
	}
	defer rc.Close()

	if err := p.client.SendDocument(ctx, chatID, name, rc); err != nil {
		p.logger.Error("send document error", zap.Error(err), zap.String("role", role))
	}
}

// normalizeMessage переводит сообщение чата в событие диалога.
// Команды /start и /cancel становятся управляющими событиями,
// остальной текст приходит как обычное событие ввода.
func normalizeMessage(msg *Message) model.Event {
	from := msg.From.DisplayName()

	switch msg.Text {
	case "/start":
		return model.Event{Kind: model.EventStart, From: from}
	case "/cancel":
		return model.Event{Kind: model.EventCancel, From: from}
	default:
		return model.Event{Kind: model.EventText, Text: msg.Text, From: from}
	}
}
