package service

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"realestate/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/samber/oops"
)

const (
	noticeUploading  = "Uploading document..."
	noticeScanning   = "Scanning ID document..."
	noticeIDUploaded = "ID document scanned and uploaded successfully"
	noticeUploaded   = "Document uploaded successfully"

	defaultFileName     = "New Document"
	defaultDocumentSize = "1.5MB"
	documentDateLayout  = "2006-01-02"
	documentsSeededKey  = "documents_seeded"
	defaultDocumentsCnt = 3
)

var documentTitlePrefixes = map[string]string{
	model.DocumentTypeID:       "ID Document: ",
	model.DocumentTypeProperty: "Property Document: ",
	model.DocumentTypePayment:  "Payment Document: ",
}

var sampleDocuments = []model.Document{
	{Title: "National ID Card", Type: model.DocumentTypeID, Size: "1.2MB", Date: "2024-01-15"},
	{Title: "Property Agreement", Type: model.DocumentTypeProperty, Size: "2.5MB", Date: "2024-02-10"},
	{Title: "Payment Receipt", Type: model.DocumentTypePayment, Size: "1.0MB", Date: "2024-03-05"},
}

// DocumentTimings are the simulated processing delays of an upload
type DocumentTimings struct {
	Upload time.Duration
	Scan   time.Duration
}

// DocumentService manages per-user document metadata
type DocumentService struct {
	docs     DocumentStore
	settings SettingsStore
	timings  DocumentTimings
	now      func() time.Time
	logger   *slog.Logger

	seedMu  sync.Mutex
	seeding map[string]*seedLock
}

// seedLock serializes the first access of one user
type seedLock struct {
	sync.Mutex
	refs int
}

// NewDocumentService creates a new document service
func NewDocumentService(docs DocumentStore, settings SettingsStore, timings DocumentTimings, logger *slog.Logger) *DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{
		docs:     docs,
		settings: settings,
		timings:  timings,
		now:      time.Now,
		logger:   logger.With("component", "documents"),
		seeding:  make(map[string]*seedLock),
	}
}

// List returns the user's documents, newest first. The sample documents
// are added on first access.
func (s *DocumentService) List(ctx context.Context, userID string) (*model.DocumentsResponse, error) {
	if err := s.ensureSeeded(ctx, userID); err != nil {
		return nil, err
	}
	docs, err := s.docs.ListDocuments(ctx, userID)
	if err != nil {
		return nil, oops.In("documents").Wrapf(err, "failed to list documents")
	}
	if docs == nil {
		docs = []model.Document{}
	}
	count, err := s.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.DocumentsResponse{Documents: docs, Empty: len(docs) == 0, Count: count}, nil
}

// Upload records a new document of the requested type. It blocks for the
// simulated upload (and, for ID documents, scanning) delay.
func (s *DocumentService) Upload(ctx context.Context, userID string, req *model.UploadDocumentRequest) (*model.UploadResult, error) {
	prefix, ok := documentTitlePrefixes[req.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocumentType, req.Type)
	}
	if err := s.ensureSeeded(ctx, userID); err != nil {
		return nil, err
	}

	notices := []string{noticeUploading}
	if err := sleep(ctx, s.timings.Upload); err != nil {
		return nil, err
	}

	isID := req.Type == model.DocumentTypeID
	if isID {
		notices = append(notices, noticeScanning)
		if err := sleep(ctx, s.timings.Scan); err != nil {
			return nil, err
		}
	}

	now := s.now()
	doc := model.Document{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     prefix + fileBaseName(req.FileName),
		Type:      req.Type,
		Size:      formatSize(req.Size),
		Date:      now.Format(documentDateLayout),
		CreatedAt: now,
	}
	if err := s.docs.CreateDocument(ctx, &doc); err != nil {
		return nil, oops.In("documents").With("type", req.Type).Wrapf(err, "failed to store document")
	}

	count, err := s.settings.Increment(ctx, userID, keyDocumentsCount, defaultDocumentsCnt)
	if err != nil {
		s.logger.Warn("Failed to update documents count", "user_id", userID, "error", err)
		count, _ = s.settings.GetInt(ctx, userID, keyDocumentsCount, defaultDocumentsCnt)
	}

	if isID {
		notices = append(notices, noticeIDUploaded)
	} else {
		notices = append(notices, noticeUploaded)
	}

	s.logger.Info("Document uploaded", "user_id", userID, "type", req.Type, "document_id", doc.ID)

	return &model.UploadResult{
		Document: doc,
		Notices:  notices,
		Count:    count,
		OpenView: isID,
	}, nil
}

// Count returns the documents counter shown on the profile
func (s *DocumentService) Count(ctx context.Context, userID string) (int, error) {
	n, err := s.settings.GetInt(ctx, userID, keyDocumentsCount, defaultDocumentsCnt)
	if err != nil {
		return 0, oops.In("documents").Wrapf(err, "failed to read documents count")
	}
	return n, nil
}

func (s *DocumentService) lockUser(userID string) func() {
	s.seedMu.Lock()
	l, ok := s.seeding[userID]
	if !ok {
		l = &seedLock{}
		s.seeding[userID] = l
	}
	l.refs++
	s.seedMu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.seedMu.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.seeding, userID)
		}
		s.seedMu.Unlock()
	}
}

func (s *DocumentService) ensureSeeded(ctx context.Context, userID string) error {
	unlock := s.lockUser(userID)
	defer unlock()

	seeded, err := s.settings.GetBool(ctx, userID, documentsSeededKey, false)
	if err != nil {
		return oops.In("documents").Wrapf(err, "failed to read documents state")
	}
	if seeded {
		return nil
	}

	base := s.now()
	for i, sample := range sampleDocuments {
		doc := sample
		doc.ID = uuid.NewString()
		doc.UserID = userID
		// Older samples sort after newer ones
		doc.CreatedAt = base.Add(-time.Duration(i) * time.Second)
		if err := s.docs.CreateDocument(ctx, &doc); err != nil {
			return oops.In("documents").Wrapf(err, "failed to seed documents")
		}
	}
	if err := s.settings.SetBool(ctx, userID, documentsSeededKey, true); err != nil {
		return oops.In("documents").Wrapf(err, "failed to save documents state")
	}
	return nil
}

func fileBaseName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return defaultFileName
	}
	base := path.Base(name)
	if base == "." || base == "/" {
		return defaultFileName
	}
	return base
}

func formatSize(size int64) string {
	if size <= 0 {
		return defaultDocumentSize
	}
	return humanize.Bytes(uint64(size))
}

// sleep waits for d unless ctx ends first
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
