// Package document отдаёт нормативные документы по ключу должности.
package document

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrDocumentNotFound возвращается, если для должности нет документа.
var ErrDocumentNotFound = errors.New("document not found")

// FSProvider хранит документы в каталоге на диске: по одному
// PDF-файлу на должность, имя файла — должность в нижнем регистре.
type FSProvider struct {
	dir string
}

// NewFSProvider создаёт провайдер над указанным каталогом.
func NewFSProvider(dir string) *FSProvider {
	return &FSProvider{dir: dir}
}

// Has сообщает, есть ли документ для должности.
func (p *FSProvider) Has(role string) bool {
	path, ok := p.path(role)
	if !ok {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Open открывает документ для чтения и возвращает имя файла.
func (p *FSProvider) Open(role string) (io.ReadCloser, string, error) {
	path, ok := p.path(role)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrDocumentNotFound, role)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s", ErrDocumentNotFound, role)
		}
		return nil, "", fmt.Errorf("open document: %w", err)
	}

	return f, filepath.Base(path), nil
}

// path строит путь к файлу должности. Ключ, похожий на путь,
// отвергается: имена файлов не должны выходить за пределы каталога.
func (p *FSProvider) path(role string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(role))
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", false
	}
	return filepath.Join(p.dir, name+".pdf"), true
}
