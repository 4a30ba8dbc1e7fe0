package seen

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pevans/newswatch"
)

// FileStore keeps one identifier per line in a flat text file. Lines are
// written newest item first.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path. The file is
// created on the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the file. A missing or empty file is an empty set.
func (s *FileStore) Load(_ context.Context) (*newswatch.Set, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return newswatch.NewSet(), nil
		}
		return nil, fmt.Errorf("failed to read seen file: %w", err)
	}

	set := newswatch.NewSet()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			set.Add(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse seen file: %w", err)
	}

	return set, nil
}

// Save replaces the file's content with set.
func (s *FileStore) Save(_ context.Context, set *newswatch.Set) error {
	var buf bytes.Buffer
	for _, id := range set.Sorted() {
		buf.WriteString(id)
		buf.WriteByte('\n')
	}

	if err := writeFileAtomic(s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write seen file: %w", err)
	}
	return nil
}

// writeFileAtomic writes data next to path and renames it into place, so a
// crash never leaves a half-written file behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	// 0700: owner-only access
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	// 0600: owner-only read/write
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
