package resource

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	resourcedomain "teachassist/internal/domain/resource"
	"teachassist/internal/infrastructure/storage"
)

type mockResourceRepo struct {
	items     []resourcedomain.Resource
	createErr error
	deleted   []uuid.UUID
}

func (m *mockResourceRepo) ListByUser(context.Context, uuid.UUID) ([]resourcedomain.Resource, error) {
	return m.items, nil
}

func (m *mockResourceRepo) GetByID(_ context.Context, id, _ uuid.UUID) (resourcedomain.Resource, error) {
	for _, r := range m.items {
		if r.ID == id {
			return r, nil
		}
	}
	return resourcedomain.Resource{}, resourcedomain.ErrNotFound
}

func (m *mockResourceRepo) Create(_ context.Context, r resourcedomain.Resource) (resourcedomain.Resource, error) {
	if m.createErr != nil {
		return resourcedomain.Resource{}, m.createErr
	}
	m.items = append(m.items, r)
	return r, nil
}

func (m *mockResourceRepo) Delete(_ context.Context, id, _ uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockResourceRepo) CountByUser(context.Context, uuid.UUID) (int, error) {
	return len(m.items), nil
}

type mockObjectStore struct {
	objects map[string][]byte
	putErr  error
}

func newMockObjectStore() *mockObjectStore {
	return &mockObjectStore{objects: map[string][]byte{}}
}

func (m *mockObjectStore) Put(_ context.Context, key string, r io.Reader) error {
	if m.putErr != nil {
		return m.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = b
	return nil
}

func (m *mockObjectStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *mockObjectStore) Delete(_ context.Context, key string) error {
	if _, ok := m.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *mockObjectStore) DeleteUserObjects(_ context.Context, userID uuid.UUID) error {
	prefix := userID.String() + "/"
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			delete(m.objects, k)
		}
	}
	return nil
}

func TestList_Filter(t *testing.T) {
	repo := &mockResourceRepo{items: []resourcedomain.Resource{
		{ID: uuid.New(), Title: "Photosynthesis slides", Type: resourcedomain.TypeDocument},
		{ID: uuid.New(), Title: "Grading rubric", Description: "photosynthesis unit", Type: resourcedomain.TypeDocument},
		{ID: uuid.New(), Title: "Field trip form", Type: resourcedomain.TypeDocument},
	}}
	svc := NewService(repo, newMockObjectStore(), nil)

	got, err := svc.List(context.Background(), uuid.New(), "PHOTO")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}

	all, err := svc.List(context.Background(), uuid.New(), "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected full list, got %d", len(all))
	}
}

func TestCreateLink_Validation(t *testing.T) {
	svc := NewService(&mockResourceRepo{}, newMockObjectStore(), nil)

	cases := []LinkInput{
		{Title: "", Type: resourcedomain.TypeLink, URL: "https://example.com"},
		{Title: "Syllabus", Type: "video", URL: "https://example.com"},
		{Title: "Syllabus", Type: resourcedomain.TypeLink, URL: "  "},
	}
	for _, in := range cases {
		if _, err := svc.CreateLink(context.Background(), uuid.New(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}

	if _, err := svc.CreateLink(context.Background(), uuid.New(), LinkInput{
		Title: "Unit folder", Type: resourcedomain.TypeFolder,
	}); err != nil {
		t.Fatalf("folder without url rejected: %v", err)
	}
}

func TestUpload_Success(t *testing.T) {
	repo := &mockResourceRepo{}
	store := newMockObjectStore()
	svc := NewService(repo, store, nil)
	userID := uuid.New()

	res, err := svc.Upload(context.Background(), userID, UploadInput{
		Filename:    "lesson-plan.pdf",
		ContentType: "application/pdf",
		Size:        2048,
		Content:     strings.NewReader("pdf bytes"),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Title != "lesson-plan" {
		t.Fatalf("title not derived from filename: %q", res.Title)
	}
	if res.Type != resourcedomain.TypeDocument || !res.HasFile() {
		t.Fatalf("unexpected resource: %+v", res)
	}
	if !strings.HasPrefix(res.FilePath, userID.String()+"/") {
		t.Fatalf("blob not namespaced to user: %q", res.FilePath)
	}
	if len(store.objects) != 1 {
		t.Fatalf("blob missing from store")
	}
}

func TestUpload_RejectsBadFiles(t *testing.T) {
	svc := NewService(&mockResourceRepo{}, newMockObjectStore(), nil)

	_, err := svc.Upload(context.Background(), uuid.New(), UploadInput{
		Filename:    "huge.pdf",
		ContentType: "application/pdf",
		Size:        resourcedomain.MaxFileSize + 1,
		Content:     strings.NewReader("x"),
	})
	if !errors.Is(err, resourcedomain.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}

	_, err = svc.Upload(context.Background(), uuid.New(), UploadInput{
		Filename:    "cat.png",
		ContentType: "image/png",
		Size:        1024,
		Content:     strings.NewReader("x"),
	})
	if !errors.Is(err, resourcedomain.ErrFileTypeDenied) {
		t.Fatalf("expected ErrFileTypeDenied, got %v", err)
	}
}

func TestUpload_RowFailureRemovesBlob(t *testing.T) {
	repo := &mockResourceRepo{createErr: errors.New("db down")}
	store := newMockObjectStore()
	svc := NewService(repo, store, nil)

	_, err := svc.Upload(context.Background(), uuid.New(), UploadInput{
		Filename:    "notes.txt",
		ContentType: "text/plain",
		Size:        64,
		Content:     strings.NewReader("notes"),
	})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if len(store.objects) != 0 {
		t.Fatalf("orphaned blob left after row failure")
	}
}

func TestDownload(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()
	key := userID.String() + "/blob.pdf"

	store := newMockObjectStore()
	store.objects[key] = []byte("pdf bytes")
	repo := &mockResourceRepo{items: []resourcedomain.Resource{
		{ID: id, UserID: userID, Title: "Lesson plan", Type: resourcedomain.TypeDocument, FilePath: key, FileType: "application/pdf"},
		{ID: uuid.New(), UserID: userID, Title: "Link only", Type: resourcedomain.TypeLink, URL: "https://example.com"},
	}}
	svc := NewService(repo, store, nil)

	res, rc, err := svc.Download(context.Background(), userID, id)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "pdf bytes" || res.FileType != "application/pdf" {
		t.Fatalf("unexpected download: %q %q", b, res.FileType)
	}

	_, _, err = svc.Download(context.Background(), userID, repo.items[1].ID)
	if !errors.Is(err, ErrNoFile) {
		t.Fatalf("expected ErrNoFile for link resource, got %v", err)
	}
}

func TestDelete_RemovesBlobFirst(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()
	key := userID.String() + "/blob.txt"

	store := newMockObjectStore()
	store.objects[key] = []byte("x")
	repo := &mockResourceRepo{items: []resourcedomain.Resource{
		{ID: id, UserID: userID, Title: "Notes", Type: resourcedomain.TypeDocument, FilePath: key},
	}}
	svc := NewService(repo, store, nil)

	if err := svc.Delete(context.Background(), userID, id); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(store.objects) != 0 {
		t.Fatalf("blob still present")
	}
	if len(repo.deleted) != 1 {
		t.Fatalf("row not deleted")
	}
}
