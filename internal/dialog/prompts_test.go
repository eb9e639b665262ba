package dialog

import (
	"testing"

	"github.com/mmeshcher/sizbot-system/internal/model"
)

func TestItemLabelRoundTrip(t *testing.T) {
	items := []model.CatalogEntry{
		{Role: "Электрик", Season: SeasonSummer, Item: "Перчатки диэлектрические", StandardQuantity: 2},
		{Role: "Электрик", Season: SeasonSummer, Item: "Очки защитные", StandardQuantity: 1},
	}

	for _, it := range items {
		label := ItemLabel(it)
		got, ok := matchSnapshotItem(label, items)
		if !ok {
			t.Fatalf("label %q did not match its own snapshot", label)
		}
		if got != it {
			t.Fatalf("matched %+v, want %+v", got, it)
		}
	}
}

func TestMatchSnapshotItem(t *testing.T) {
	items := []model.CatalogEntry{
		{Item: "Каска защитная", StandardQuantity: 1},
		{Item: "Перчатки", StandardQuantity: 4},
	}

	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{name: "full label", text: "Перчатки (норма: 4 шт.)", want: "Перчатки", ok: true},
		{name: "bare item name", text: "Каска защитная", want: "Каска защитная", ok: true},
		{name: "unknown item", text: "Сапоги", ok: false},
		{name: "stale quantity still matches by prefix", text: "Перчатки (норма: 99 шт.)", want: "Перчатки", ok: true},
		{name: "empty", text: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := matchSnapshotItem(tt.text, items)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got.Item != tt.want {
				t.Fatalf("item = %q, want %q", got.Item, tt.want)
			}
		})
	}
}
