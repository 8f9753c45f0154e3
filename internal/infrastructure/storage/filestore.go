package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the blob interface behind resource uploads. Keys are
// namespaced per user: "<user_id>/<name>".
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	DeleteUserObjects(ctx context.Context, userID uuid.UUID) error
}

// FileStore keeps blobs on the local filesystem under a root directory.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("empty storage dir")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{root: root}, nil
}

var _ ObjectStore = (*FileStore)(nil)

// ObjectKey builds a fresh per-user key; the random name avoids collisions
// and never echoes the uploaded filename.
func ObjectKey(userID uuid.UUID, ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	name := uuid.NewString()
	if ext != "" {
		name += "." + ext
	}
	return userID.String() + "/" + name
}

func (s *FileStore) Put(_ context.Context, key string, r io.Reader) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func (s *FileStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrObjectNotFound
		}
		return err
	}
	return nil
}

func (s *FileStore) DeleteUserObjects(_ context.Context, userID uuid.UUID) error {
	return os.RemoveAll(filepath.Join(s.root, userID.String()))
}

// resolve rejects keys that would escape the root directory.
func (s *FileStore) resolve(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("empty object key")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid object key: %s", key)
	}
	return filepath.Join(s.root, clean), nil
}
