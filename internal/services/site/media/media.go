// Package media stores uploaded images on disk and records them as documents
// of the media collection.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rust-in/site/internal/platform/id"
	"github.com/rust-in/site/internal/services/site/collections"
	"github.com/rust-in/site/internal/services/site/storage"
	"go.uber.org/zap"
)

// MaxUploadBytes caps one uploaded file.
const MaxUploadBytes = 10 << 20

// URLPrefix is where blobs are served.
const URLPrefix = "/media/"

var (
	// ErrTooLarge reports an upload above MaxUploadBytes.
	ErrTooLarge = errors.New("file exceeds 10 MiB")
	// ErrNotImage reports an upload whose content is not an image.
	ErrNotImage = errors.New("file is not an image")
)

var blobName = regexp.MustCompile(`^[a-z0-9]+(\.[a-z0-9]+)?$`)

var extensions = map[string]string{
	"image/jpeg":   ".jpg",
	"image/png":    ".png",
	"image/gif":    ".gif",
	"image/webp":   ".webp",
	"image/bmp":    ".bmp",
	"image/x-icon": ".ico",
}

// Blobs is a directory of uploaded files.
type Blobs struct {
	dir string
}

// OpenBlobs prepares dir for storing uploads.
func OpenBlobs(dir string) (*Blobs, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("media directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}
	return &Blobs{dir: filepath.Clean(dir)}, nil
}

// Dir returns the directory holding blobs.
func (b *Blobs) Dir() string {
	return b.dir
}

// FS exposes blobs read-only for serving.
func (b *Blobs) FS() http.FileSystem {
	return http.Dir(b.dir)
}

func (b *Blobs) path(name string) (string, error) {
	if !blobName.MatchString(name) {
		return "", fmt.Errorf("invalid blob name %q", name)
	}
	return filepath.Join(b.dir, name), nil
}

// Write stores content under name, replacing nothing: an existing name fails.
func (b *Blobs) Write(name string, content []byte) error {
	target, err := b.path(name)
	if err != nil {
		return err
	}
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create blob: %w", err)
	}
	if _, err := file.Write(content); err != nil {
		_ = file.Close()
		_ = os.Remove(target)
		return fmt.Errorf("write blob: %w", err)
	}
	return file.Close()
}

// Remove deletes the blob called name. A missing blob is not an error.
func (b *Blobs) Remove(name string) error {
	target, err := b.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

// Upload is one received file.
type Upload struct {
	Filename string
	Alt      string
	Content  io.Reader
}

// Service records uploads as media documents.
type Service struct {
	blobs  *Blobs
	docs   storage.DocumentStore
	logger *zap.Logger
	newID  func() (string, error)
}

// NewService builds a media service.
func NewService(blobs *Blobs, docs storage.DocumentStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{blobs: blobs, docs: docs, logger: logger, newID: id.NewID}
}

// Save stores an image upload and creates its media document. The content
// type is sniffed from the bytes, never taken from the client.
func (s *Service) Save(ctx context.Context, upload Upload) (storage.Document, error) {
	if s == nil || s.blobs == nil || s.docs == nil {
		return storage.Document{}, errors.New("media service is not configured")
	}
	if upload.Content == nil {
		return storage.Document{}, errors.New("file content is required")
	}
	content, err := io.ReadAll(io.LimitReader(upload.Content, MaxUploadBytes+1))
	if err != nil {
		return storage.Document{}, fmt.Errorf("read upload: %w", err)
	}
	if len(content) > MaxUploadBytes {
		return storage.Document{}, ErrTooLarge
	}
	mimeType := DetectType(content)
	ext, ok := extensions[mimeType]
	if !ok {
		return storage.Document{}, ErrNotImage
	}
	mediaID, err := s.newID()
	if err != nil {
		return storage.Document{}, err
	}
	name := mediaID + ext
	if err := s.blobs.Write(name, content); err != nil {
		return storage.Document{}, err
	}

	filename := path.Base(strings.ReplaceAll(strings.TrimSpace(upload.Filename), `\`, "/"))
	if filename == "." || filename == "/" {
		filename = name
	}
	doc := storage.Document{
		Collection: collections.Media,
		ID:         mediaID,
		Data: map[string]any{
			"filename": filename,
			"alt":      strings.TrimSpace(upload.Alt),
			"mimeType": mimeType,
			"size":     float64(len(content)),
			"blob":     name,
		},
	}
	if err := s.docs.CreateDocument(ctx, doc); err != nil {
		_ = s.blobs.Remove(name)
		return storage.Document{}, fmt.Errorf("create media document: %w", err)
	}
	s.logger.Info("media uploaded",
		zap.String("media_id", mediaID),
		zap.String("mime_type", mimeType),
		zap.Int("size", len(content)),
	)
	return doc, nil
}

// Delete removes a media document and its blob.
func (s *Service) Delete(ctx context.Context, mediaID string) error {
	doc, err := s.docs.GetDocument(ctx, collections.Media, mediaID)
	if err != nil {
		return err
	}
	if err := s.docs.DeleteDocument(ctx, collections.Media, mediaID); err != nil {
		return err
	}
	if name, _ := doc.Data["blob"].(string); name != "" {
		if err := s.blobs.Remove(name); err != nil {
			s.logger.Warn("media blob not removed", zap.String("media_id", mediaID), zap.Error(err))
		}
	}
	return nil
}

// DetectType sniffs the content type of an upload without parameters. SVG
// is reported as text and therefore rejected.
func DetectType(content []byte) string {
	detected := http.DetectContentType(content)
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = detected[:i]
	}
	return detected
}

// URL returns the public URL of a media document.
func URL(doc storage.Document) string {
	name, _ := doc.Data["blob"].(string)
	if name == "" {
		return ""
	}
	return URLPrefix + name
}
