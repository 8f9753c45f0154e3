package dto

import (
	"time"

	"github.com/google/uuid"

	"teachassist/internal/domain/resource"
)

type ResourceResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	FileType    string    `json:"file_type,omitempty"`
	FileSize    int64     `json:"file_size,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewResourceResponse(r resource.Resource) ResourceResponse {
	return ResourceResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Type:        string(r.Type),
		URL:         r.URL,
		FileType:    r.FileType,
		FileSize:    r.FileSize,
		CreatedAt:   r.CreatedAt,
	}
}

func NewResourceListResponse(resources []resource.Resource) []ResourceResponse {
	out := make([]ResourceResponse, 0, len(resources))
	for _, r := range resources {
		out = append(out, NewResourceResponse(r))
	}
	return out
}
