package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func apiOK(t *testing.T, w http.ResponseWriter, result any) {
	t.Helper()

	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"ok":     true,
		"result": json.RawMessage(raw),
	}); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestGetUpdates_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/botTOKEN/getUpdates" {
			t.Fatalf("path = %s, want /botTOKEN/getUpdates", r.URL.Path)
		}

		var payload struct {
			Offset  int64 `json:"offset"`
			Timeout int   `json:"timeout"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.Offset != 7 {
			t.Fatalf("offset = %d, want 7", payload.Offset)
		}

		apiOK(t, w, []Update{
			{
				UpdateID: 7,
				Message: &Message{
					Chat: Chat{ID: 42},
					From: &User{FirstName: "Иван", LastName: "Иванов"},
					Text: "привет",
				},
			},
		})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "TOKEN")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	updates, err := client.GetUpdates(ctx, 7, 30*time.Second)
	if err != nil {
		t.Fatalf("GetUpdates error: %v", err)
	}
	if len(updates) != 1 {
		t.Fatalf("len(updates) = %d, want 1", len(updates))
	}
	if updates[0].Message == nil || updates[0].Message.Chat.ID != 42 {
		t.Fatalf("unexpected update: %+v", updates[0])
	}
	if got := updates[0].Message.From.DisplayName(); got != "Иван Иванов" {
		t.Fatalf("display name = %q, want %q", got, "Иван Иванов")
	}
}

func TestGetUpdates_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "TOKEN")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := client.GetUpdates(ctx, 0, time.Second); err == nil {
		t.Fatal("expected error for ok=false response")
	}
}

func TestSendMessage_Keyboard(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Fatalf("path = %s, want /botTOKEN/sendMessage", r.URL.Path)
		}

		var payload struct {
			ChatID      int64  `json:"chat_id"`
			Text        string `json:"text"`
			ReplyMarkup struct {
				Keyboard       [][]keyboardButton `json:"keyboard"`
				RemoveKeyboard bool               `json:"remove_keyboard"`
			} `json:"reply_markup"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.ChatID != 42 {
			t.Fatalf("chat_id = %d, want 42", payload.ChatID)
		}
		if payload.Text != "Выберите действие:" {
			t.Fatalf("text = %q", payload.Text)
		}
		if len(payload.ReplyMarkup.Keyboard) != 2 {
			t.Fatalf("keyboard rows = %d, want 2", len(payload.ReplyMarkup.Keyboard))
		}
		if payload.ReplyMarkup.Keyboard[0][0].Text != "🛡️ Заказать СИЗ" {
			t.Fatalf("unexpected first button: %+v", payload.ReplyMarkup.Keyboard[0])
		}

		apiOK(t, w, Message{Chat: Chat{ID: 42}})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "TOKEN")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	options := [][]string{
		{"🛡️ Заказать СИЗ"},
		{"🚨 Сообщить о нарушении"},
	}
	if err := client.SendMessage(ctx, 42, "Выберите действие:", options); err != nil {
		t.Fatalf("SendMessage error: %v", err)
	}
}

func TestSendMessage_NoOptionsRemovesKeyboard(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			ReplyMarkup struct {
				RemoveKeyboard bool `json:"remove_keyboard"`
			} `json:"reply_markup"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if !payload.ReplyMarkup.RemoveKeyboard {
			t.Fatal("expected remove_keyboard = true")
		}

		apiOK(t, w, Message{Chat: Chat{ID: 42}})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "TOKEN")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := client.SendMessage(ctx, 42, "Введите табельный номер:", nil); err != nil {
		t.Fatalf("SendMessage error: %v", err)
	}
}

func TestSendDocument_Multipart(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendDocument" {
			t.Fatalf("path = %s, want /botTOKEN/sendDocument", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("chat_id"); got != "42" {
			t.Fatalf("chat_id = %q, want 42", got)
		}

		file, header, err := r.FormFile("document")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "инженер.pdf" {
			t.Fatalf("filename = %q, want инженер.pdf", header.Filename)
		}

		apiOK(t, w, Message{Chat: Chat{ID: 42}})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "TOKEN")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := client.SendDocument(ctx, 42, "инженер.pdf", strings.NewReader("%PDF-1.4")); err != nil {
		t.Fatalf("SendDocument error: %v", err)
	}
}
