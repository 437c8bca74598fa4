package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// An OffsetStore remembers the id of the last update that was handled, so
// a restarted bot doesn't handle it twice.
type OffsetStore interface {
	// LastUpdateID returns false if no update was ever handled.
	LastUpdateID(ctx context.Context) (int64, bool, error)
	SaveUpdateID(ctx context.Context, id int64) error
}

// FileOffsetStore keeps the last update id as a line of text in a file.
type FileOffsetStore struct {
	Path string
}

func (f FileOffsetStore) LastUpdateID(ctx context.Context) (int64, bool, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	s := strings.TrimSpace(string(data))
	if s == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("bad update id in %v: %w", f.Path, err)
	}
	return id, true, nil
}

func (f FileOffsetStore) SaveUpdateID(ctx context.Context, id int64) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}
	// Write then rename, so a crash never leaves a truncated file.
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.FormatInt(id, 10)+"\n"), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}
