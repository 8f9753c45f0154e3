package resource

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("resource not found")
	ErrFileTooLarge   = errors.New("file size must be less than 10MB")
	ErrFileTypeDenied = errors.New("file type not allowed")
)

type Type string

const (
	TypeDocument Type = "document"
	TypeLink     Type = "link"
	TypeFolder   Type = "folder"
)

func (t Type) Valid() bool {
	switch t {
	case TypeDocument, TypeLink, TypeFolder:
		return true
	}
	return false
}

type Resource struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	Type        Type
	URL         string
	FilePath    string
	FileType    string
	FileSize    int64
	CreatedAt   time.Time
}

func (r Resource) HasFile() bool {
	return r.FilePath != ""
}

// MaxFileSize caps uploads at 10 MB.
const MaxFileSize = 10 * 1024 * 1024

// allowedFileTypes restricts uploads to common classroom document formats:
// PDF, Word, Excel, PowerPoint and plain text.
var allowedFileTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"application/vnd.ms-powerpoint":                                     {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"text/plain": {},
}

func AllowedFileType(contentType string) bool {
	_, ok := allowedFileTypes[contentType]
	return ok
}

// ValidateFile applies the upload rules: size ceiling and MIME allow-list.
func ValidateFile(size int64, contentType string) error {
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	if !AllowedFileType(contentType) {
		return fmt.Errorf("%w: %s", ErrFileTypeDenied, contentType)
	}
	return nil
}
