package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const tokenFileName = "session"

// FileBackend stores the credential in a single 0600 file inside dir.
type FileBackend struct {
	path string
}

func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{path: filepath.Join(dir, tokenFileName)}
}

func (b *FileBackend) Load(_ context.Context) (string, error) {
	raw, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func (b *FileBackend) Save(_ context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(b.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (b *FileBackend) Delete(_ context.Context) error {
	if err := os.Remove(b.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
