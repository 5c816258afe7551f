package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalFolder saves files into a directory on disk
type LocalFolder struct {
	dir string
}

// NewLocalFolder returns a folder rooted at dir. The directory is created by Check.
func NewLocalFolder(dir string) *LocalFolder {
	return &LocalFolder{dir: dir}
}

func (l *LocalFolder) Check(_ context.Context) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("local folder %s is not accessible: %w", l.dir, err)
	}
	info, err := os.Stat(l.dir)
	if err != nil {
		return fmt.Errorf("local folder %s is not accessible: %w", l.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("local folder %s is not a directory", l.dir)
	}
	return nil
}

// Save writes data under a sanitized name and returns the name the file was
// stored under. Existing files are never overwritten: a numbered suffix is
// added instead, mirroring Drive's duplicate names.
func (l *LocalFolder) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	base := SanitizeName(name)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	candidate := base
	for i := 2; ; i++ {
		path := filepath.Join(l.dir, candidate)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, os.ErrExist) {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("error creating %s: %w", path, err)
		}
		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("error writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("error closing %s: %w", path, err)
		}
		return candidate, nil
	}
}

// SanitizeName replaces characters that are not allowed in file names on common file systems
func SanitizeName(name string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", "\x00", "_",
	)
	name = strings.TrimSpace(replacer.Replace(name))
	if name == "" || name == "." || name == ".." {
		return "unnamed"
	}
	return name
}
