package document

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFSProvider(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "инженер.pdf"), []byte("%PDF-1.4 test"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	p := NewFSProvider(dir)

	t.Run("has existing document", func(t *testing.T) {
		if !p.Has("Инженер") {
			t.Fatalf("Has(Инженер) = false, want true")
		}
	})

	t.Run("has missing document", func(t *testing.T) {
		if p.Has("Сварщик") {
			t.Fatalf("Has(Сварщик) = true, want false")
		}
	})

	t.Run("open existing", func(t *testing.T) {
		rc, name, err := p.Open("Инженер")
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		defer rc.Close()

		if name != "инженер.pdf" {
			t.Fatalf("name = %q, want инженер.pdf", name)
		}
		data, err := io.ReadAll(rc)
		if err != nil || len(data) == 0 {
			t.Fatalf("read document: %v", err)
		}
	})

	t.Run("open missing returns sentinel", func(t *testing.T) {
		_, _, err := p.Open("Сварщик")
		if !errors.Is(err, ErrDocumentNotFound) {
			t.Fatalf("err = %v, want ErrDocumentNotFound", err)
		}
	})

	t.Run("path-like role rejected", func(t *testing.T) {
		for _, role := range []string{"../инженер", "a/b", `a\b`, ""} {
			if p.Has(role) {
				t.Fatalf("Has(%q) = true, want false", role)
			}
			if _, _, err := p.Open(role); !errors.Is(err, ErrDocumentNotFound) {
				t.Fatalf("Open(%q) = %v, want ErrDocumentNotFound", role, err)
			}
		}
	})
}
