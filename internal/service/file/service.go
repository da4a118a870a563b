package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

// ImportKind groups archived uploads by what they were imported into.
type ImportKind string

const (
	ImportKeyResults ImportKind = "key-results"
	ImportCalendar   ImportKind = "calendar"
)

var allowedExts = map[ImportKind][]string{
	ImportKeyResults: {".xlsx"},
	ImportCalendar:   {".ics"},
}

var ErrInvalidFileType = errors.New("invalid file type")

type FileService interface {
	// ArchiveImport stores an uploaded import file and returns its storage path
	ArchiveImport(ctx context.Context, organizationID string, kind ImportKind, file io.Reader, filename string) (string, error)

	// CheckImportFile validates the file extension for an import kind
	CheckImportFile(kind ImportKind, filename string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
	}
}

func (s *fileServiceImpl) CheckImportFile(kind ImportKind, filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	allowed, ok := allowedExts[kind]
	if !ok || !slices.Contains(allowed, ext) {
		return fmt.Errorf("%w: %s imports accept %s", ErrInvalidFileType, kind, strings.Join(allowed, ", "))
	}
	return nil
}

// ArchiveImport writes to imports/{organization}/{kind}/{date}/{uuid}{ext}
func (s *fileServiceImpl) ArchiveImport(ctx context.Context, organizationID string, kind ImportKind, file io.Reader, filename string) (string, error) {
	if err := s.CheckImportFile(kind, filename); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	dateStr := s.now().Format("2006-01-02")
	p := path.Join("imports", organizationID, string(kind), dateStr, uuid.NewString()+ext)

	uploadedPath, err := s.storage.Upload(ctx, file, p)
	if err != nil {
		return "", fmt.Errorf("failed to archive %s import: %w", kind, err)
	}

	return uploadedPath, nil
}
