package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yungbote/processhub-backend/internal/platform/logger"
)

// ErrNotFound is returned by Open when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// Store persists uploaded execution inputs. Put returns the path recorded as
// the execution's input source.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// CleanKey normalizes a caller-supplied key to a relative slash path with no
// parent traversal.
func CleanKey(key string) (string, error) {
	k := strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	k = strings.TrimLeft(path.Clean("/"+k), "/")
	if k == "" || k == "." {
		return "", fmt.Errorf("empty object key")
	}
	return k, nil
}

type localStore struct {
	log  *logger.Logger
	root string
}

// NewLocalStore writes objects under dir, creating it when missing.
func NewLocalStore(log *logger.Logger, dir string) (Store, error) {
	root := strings.TrimSpace(dir)
	if root == "" {
		return nil, fmt.Errorf("local store directory required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	storeLog := log.With("service", "LocalStore")
	storeLog.Info("Object storage initialized", "mode", ModeLocal, "dir", root)
	return &localStore{log: storeLog, root: root}, nil
}

func (s *localStore) resolve(key string) (string, error) {
	k, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(k)), nil
}

func (s *localStore) Put(ctx context.Context, key string, body io.Reader, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create object file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write object file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("close object file: %w", err)
	}
	return dst, nil
}

func (s *localStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(src)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open object file: %w", err)
	}
	return f, nil
}

func (s *localStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete object file: %w", err)
	}
	return nil
}
