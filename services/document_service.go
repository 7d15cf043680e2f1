package services

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/anjiri1684/quiz_connect/auth"
	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/anjiri1684/quiz_connect/logger"
	"github.com/anjiri1684/quiz_connect/models"
	"github.com/anjiri1684/quiz_connect/storage"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var allowedExtensions = map[string]string{
	".pdf":  "pdf",
	".mp4":  "video",
	".avi":  "video",
	".mov":  "video",
	".wmv":  "video",
	".jpg":  "image",
	".jpeg": "image",
	".png":  "image",
	".gif":  "image",
}

type (
	UploadInput struct {
		Title        string `form:"title" validate:"required,max=100"`
		Type         string `form:"type" validate:"omitempty,max=20"`
		Downloadable bool   `form:"downloadable"`
	}

	DownloadableInput struct {
		Downloadable *bool `json:"downloadable" validate:"required"`
	}

	DocumentService struct {
		db    *gorm.DB
		store storage.Store
		log   logger.Logger
	}
)

func NewDocumentService(db *gorm.DB, store storage.Store, log logger.Logger) *DocumentService {
	return &DocumentService{db: db, store: store, log: log}
}

// AllowedFile reports whether the file name has an accepted extension.
func AllowedFile(name string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// List returns the documents whose stored object still exists. Entries the
// store cannot vouch for are left out.
func (s *DocumentService) List(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	if err := s.db.Order("uploaded_at desc").Order("id desc").Find(&docs).Error; err != nil {
		return nil, errors.Wrap(err, "listing documents")
	}

	present := docs[:0]
	for _, d := range docs {
		ok, err := s.store.Exists(ctx, d.Path)
		if err != nil {
			s.log.Warn("Error checking document file", err, map[string]interface{}{"document_id": d.ID, "path": d.Path})
			continue
		}
		if !ok {
			s.log.Warn("Document file missing", map[string]interface{}{"document_id": d.ID, "path": d.Path})
			continue
		}
		present = append(present, d)
	}
	return present, nil
}

// Upload stores the file under a fresh key and records it.
func (s *DocumentService) Upload(ctx context.Context, uploader uint, in UploadInput, filename string, r io.Reader, contentType string) (models.Document, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	kind, ok := allowedExtensions[ext]
	if !ok {
		return models.Document{}, errs.Invalid("file", "file type not allowed")
	}
	if t := strings.TrimSpace(in.Type); t != "" {
		kind = t
	}

	key := uuid.NewString() + ext
	if err := s.store.Put(ctx, key, r, contentType); err != nil {
		return models.Document{}, errors.Wrap(err, "storing file")
	}

	doc := models.Document{
		Title:        strings.TrimSpace(in.Title),
		Type:         kind,
		Path:         key,
		Downloadable: in.Downloadable,
		UploadedBy:   uploader,
		UploadedAt:   time.Now().UTC(),
	}
	if err := s.db.Create(&doc).Error; err != nil {
		if derr := s.store.Delete(ctx, key); derr != nil {
			s.log.Error("Failed to remove orphan upload", derr, map[string]interface{}{"path": key})
		}
		return models.Document{}, errors.Wrap(err, "creating document")
	}
	return doc, nil
}

func (s *DocumentService) Get(id uint) (models.Document, error) {
	var doc models.Document
	if err := s.db.First(&doc, id).Error; err != nil {
		return doc, lookupErr(err, "document")
	}
	return doc, nil
}

// Open returns the document and a reader over its bytes. Downloads of a
// non-downloadable document are reserved to document managers.
func (s *DocumentService) Open(ctx context.Context, p auth.Principal, id uint, download bool) (models.Document, io.ReadCloser, error) {
	doc, err := s.Get(id)
	if err != nil {
		return doc, nil, err
	}
	if download && !doc.Downloadable && !p.Can(auth.ManageDocuments) {
		return doc, nil, errs.ErrForbidden
	}
	rc, err := s.store.Open(ctx, doc.Path)
	if errors.Is(err, storage.ErrNotExist) {
		s.log.Warn("Document file missing", map[string]interface{}{"document_id": doc.ID, "path": doc.Path})
		return doc, nil, errs.NotFound("file")
	}
	if err != nil {
		return doc, nil, errors.Wrap(err, "opening file")
	}
	return doc, rc, nil
}

func (s *DocumentService) SetDownloadable(id uint, downloadable bool) (models.Document, error) {
	doc, err := s.Get(id)
	if err != nil {
		return doc, err
	}
	if err := s.db.Model(&doc).Update("downloadable", downloadable).Error; err != nil {
		return doc, errors.Wrap(err, "updating document")
	}
	doc.Downloadable = downloadable
	return doc, nil
}

// Delete removes the record. A failure to remove the stored object is logged only.
func (s *DocumentService) Delete(ctx context.Context, id uint) error {
	doc, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, doc.Path); err != nil {
		s.log.Error("Failed to delete document file", err, map[string]interface{}{"document_id": doc.ID, "path": doc.Path})
	}
	if err := s.db.Delete(&doc).Error; err != nil {
		return errors.Wrap(err, "deleting document")
	}
	return nil
}

// Cleanup deletes records whose stored object is gone and returns how many.
func (s *DocumentService) Cleanup(ctx context.Context) (int, error) {
	var docs []models.Document
	if err := s.db.Find(&docs).Error; err != nil {
		return 0, errors.Wrap(err, "listing documents")
	}

	var orphans []uint
	for _, d := range docs {
		ok, err := s.store.Exists(ctx, d.Path)
		if err != nil {
			return 0, errors.Wrapf(err, "checking document %d", d.ID)
		}
		if !ok {
			orphans = append(orphans, d.ID)
		}
	}
	if len(orphans) == 0 {
		return 0, nil
	}
	if err := s.db.Delete(&models.Document{}, orphans).Error; err != nil {
		return 0, errors.Wrap(err, "deleting orphan documents")
	}
	s.log.Info("Removed orphan documents", map[string]interface{}{"count": len(orphans)})
	return len(orphans), nil
}
