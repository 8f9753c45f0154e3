package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"teachassist/internal/domain/resource"
	"teachassist/internal/infrastructure/cache"
	"teachassist/internal/infrastructure/storage"
	"teachassist/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoFile       = errors.New("resource has no stored file")
	ErrInternal     = errors.New("internal error")
)

type LinkInput struct {
	Title       string
	Description string
	Type        resource.Type
	URL         string
}

type UploadInput struct {
	Title       string
	Description string
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type Service struct {
	resources repository.ResourceRepository
	store     storage.ObjectStore
	cache     *cache.Redis
}

func NewService(resources repository.ResourceRepository, store storage.ObjectStore, listCache *cache.Redis) *Service {
	return &Service{resources: resources, store: store, cache: listCache}
}

// List returns the user's resources, newest first, optionally narrowed by a
// case-insensitive substring match on title and description. The unfiltered
// list is what gets cached; filtering happens on the way out.
func (s *Service) List(ctx context.Context, userID uuid.UUID, query string) ([]resource.Resource, error) {
	key := cache.ResourceListKey(userID)

	var all []resource.Resource
	if hit, err := s.cache.GetJSON(ctx, key, &all); err != nil || !hit {
		var repoErr error
		all, repoErr = s.resources.ListByUser(ctx, userID)
		if repoErr != nil {
			return nil, ErrInternal
		}
		_ = s.cache.SetJSON(ctx, key, all)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all, nil
	}

	out := make([]resource.Resource, 0, len(all))
	for _, r := range all {
		if strings.Contains(strings.ToLower(r.Title), query) ||
			strings.Contains(strings.ToLower(r.Description), query) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (resource.Resource, error) {
	res, err := s.resources.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return resource.Resource{}, err
		}
		return resource.Resource{}, ErrInternal
	}
	return res, nil
}

// CreateLink records a link or folder entry. No file is involved.
func (s *Service) CreateLink(ctx context.Context, userID uuid.UUID, in LinkInput) (resource.Resource, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || !in.Type.Valid() {
		return resource.Resource{}, ErrInvalidInput
	}
	if in.Type == resource.TypeLink && strings.TrimSpace(in.URL) == "" {
		return resource.Resource{}, ErrInvalidInput
	}

	res := resource.Resource{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Type:        in.Type,
		URL:         strings.TrimSpace(in.URL),
	}

	created, err := s.resources.Create(ctx, res)
	if err != nil {
		return resource.Resource{}, ErrInternal
	}

	_ = s.cache.InvalidateUserResources(ctx, userID)
	return created, nil
}

// Upload validates the file against the size ceiling and MIME allow-list,
// writes the blob first and then the row; a row failure removes the blob so
// no orphaned object survives a partial write.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, in UploadInput) (resource.Resource, error) {
	if in.Content == nil {
		return resource.Resource{}, ErrInvalidInput
	}
	if err := resource.ValidateFile(in.Size, in.ContentType); err != nil {
		return resource.Resource{}, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		base := filepath.Base(in.Filename)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if title == "" {
		return resource.Resource{}, ErrInvalidInput
	}

	id := uuid.New()
	key := storage.ObjectKey(userID, filepath.Ext(in.Filename))

	if err := s.store.Put(ctx, key, in.Content); err != nil {
		return resource.Resource{}, ErrInternal
	}

	res := resource.Resource{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Type:        resource.TypeDocument,
		URL:         fmt.Sprintf("/api/v1/resources/%s/download", id),
		FilePath:    key,
		FileType:    in.ContentType,
		FileSize:    in.Size,
	}

	created, err := s.resources.Create(ctx, res)
	if err != nil {
		_ = s.store.Delete(ctx, key)
		return resource.Resource{}, ErrInternal
	}

	_ = s.cache.InvalidateUserResources(ctx, userID)
	return created, nil
}

func (s *Service) Download(ctx context.Context, userID, id uuid.UUID) (resource.Resource, io.ReadCloser, error) {
	res, err := s.resources.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return resource.Resource{}, nil, err
		}
		return resource.Resource{}, nil, ErrInternal
	}
	if !res.HasFile() {
		return resource.Resource{}, nil, ErrNoFile
	}

	rc, err := s.store.Get(ctx, res.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return resource.Resource{}, nil, ErrNoFile
		}
		return resource.Resource{}, nil, ErrInternal
	}
	return res, rc, nil
}

// Delete removes the blob first when one exists, then the row.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.resources.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return err
		}
		return ErrInternal
	}

	if res.HasFile() {
		if err := s.store.Delete(ctx, res.FilePath); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			return ErrInternal
		}
	}

	if err := s.resources.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return err
		}
		return ErrInternal
	}

	_ = s.cache.InvalidateUserResources(ctx, userID)
	return nil
}
