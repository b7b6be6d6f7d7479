package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const fileExtension = ".json"

// FileStore keeps each key in its own file under rootDir.
type FileStore struct {
	rootDir    string
	quotaBytes int64
}

func NewFileStore(rootDir string, quotaBytes int64) *FileStore {
	return &FileStore{
		rootDir:    rootDir,
		quotaBytes: quotaBytes,
	}
}

func (f *FileStore) filePath(key string) string {
	// keys never contain path separators in practice, but never let one escape rootDir
	name := strings.ReplaceAll(key, string(filepath.Separator), "_")
	return filepath.Join(f.rootDir, name+fileExtension)
}

func (f *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	contents, err := os.ReadFile(f.filePath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("os.ReadFile > %w", err)
	}
	return string(contents), true, nil
}

func (f *FileStore) Set(_ context.Context, key, value string) error {
	if err := os.MkdirAll(f.rootDir, 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w: %w", f.rootDir, ErrUnavailable, err)
	}

	path := f.filePath(key)
	if f.quotaBytes > 0 {
		used, err := f.usedBytes(path)
		if err != nil {
			return fmt.Errorf("f.usedBytes > %w", err)
		}
		if used+int64(len(value)) > f.quotaBytes {
			return fmt.Errorf("write %s (%d of %d bytes) > %w", path, used+int64(len(value)), f.quotaBytes, ErrQuotaExceeded)
		}
	}

	tmp, err := os.CreateTemp(f.rootDir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp > %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file.WriteString > %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file.Close > %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("os.Rename > %w", err)
	}
	return nil
}

// usedBytes sums the size of every stored value except the one at skipPath.
func (f *FileStore) usedBytes(skipPath string) (int64, error) {
	entries, err := os.ReadDir(f.rootDir)
	if err != nil {
		return 0, fmt.Errorf("os.ReadDir > %w", err)
	}
	var total int64
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != fileExtension {
			continue
		}
		if filepath.Join(f.rootDir, entry.Name()) == skipPath {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return 0, fmt.Errorf("entry.Info > %w", err)
		}
		total += info.Size()
	}
	return total, nil
}
