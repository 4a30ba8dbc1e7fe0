package seen

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pevans/newswatch"
	"go.uber.org/zap"
)

// ErrNotFound is returned by a Mirror when nothing is stored at the path.
var ErrNotFound = errors.New("remote copy not found")

// Mirror reads and writes whole blobs at a path in a remote object store.
// Upload always overwrites; there is no conditional write.
type Mirror interface {
	Download(ctx context.Context, path string) ([]byte, error)
	Upload(ctx context.Context, path string, data []byte) error
}

// MirrorError wraps a failed remote transfer.
type MirrorError struct {
	Op   string
	Path string
	Err  error
}

func (e *MirrorError) Error() string {
	return fmt.Sprintf("remote mirror %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *MirrorError) Unwrap() error {
	return e.Err
}

// Mirrored decorates a file-backed Store with a remote copy of its backing
// file: Load pulls the remote copy over the local file first, Save pushes the
// local file after writing it.
//
// The push is an unconditional overwrite. Two runs writing concurrently will
// clobber each other, so runs must not overlap.
type Mirrored struct {
	inner      Store
	localPath  string
	mirror     Mirror
	remotePath string
	logger     *zap.Logger
}

// NewMirrored wraps inner, whose data lives in localPath, with mirror at
// remotePath.
func NewMirrored(inner Store, localPath string, mirror Mirror, remotePath string, logger *zap.Logger) *Mirrored {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirrored{
		inner:      inner,
		localPath:  localPath,
		mirror:     mirror,
		remotePath: remotePath,
		logger:     logger.With(zap.String("remote_path", remotePath)),
	}
}

// Load pulls the remote copy, then loads the local store. A failed pull falls
// back to whatever local state exists.
func (m *Mirrored) Load(ctx context.Context) (*newswatch.Set, error) {
	if err := m.Pull(ctx); err != nil {
		m.logger.Warn("remote mirror unavailable, using local state", zap.Error(err))
	}
	return m.inner.Load(ctx)
}

// Save writes the local store, then pushes it. When only the push fails the
// local state is saved and a *MirrorError is returned.
func (m *Mirrored) Save(ctx context.Context, set *newswatch.Set) error {
	if err := m.inner.Save(ctx, set); err != nil {
		return err
	}
	return m.Push(ctx)
}

// Pull replaces the local file with the remote copy. A missing remote copy
// leaves the local file untouched and is not an error.
func (m *Mirrored) Pull(ctx context.Context) error {
	data, err := m.mirror.Download(ctx, m.remotePath)
	if errors.Is(err, ErrNotFound) {
		m.logger.Info("no remote copy yet, starting from local state")
		return nil
	}
	if err != nil {
		return &MirrorError{Op: "download", Path: m.remotePath, Err: err}
	}

	if err := writeFileAtomic(m.localPath, data); err != nil {
		return fmt.Errorf("failed to write pulled copy: %w", err)
	}

	m.logger.Debug("pulled remote copy", zap.Int("bytes", len(data)))
	return nil
}

// Push uploads the local file.
func (m *Mirrored) Push(ctx context.Context) error {
	data, err := os.ReadFile(m.localPath)
	if err != nil {
		return &MirrorError{Op: "upload", Path: m.remotePath, Err: err}
	}

	if err := m.mirror.Upload(ctx, m.remotePath, data); err != nil {
		return &MirrorError{Op: "upload", Path: m.remotePath, Err: err}
	}

	m.logger.Debug("pushed local copy", zap.Int("bytes", len(data)))
	return nil
}
