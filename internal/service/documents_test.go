package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"realestate/internal/model"
	"realestate/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocuments() (*DocumentService, *repository.MemoryRepository) {
	repo := repository.NewMemoryRepository()
	svc := NewDocumentService(repo, repo, DocumentTimings{}, nil)
	clock := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, repo
}

func TestDocumentsSeededOnFirstList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestDocuments()

	resp, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, resp.Empty)
	require.Len(t, resp.Documents, 3)
	assert.Equal(t, "National ID Card", resp.Documents[0].Title)
	assert.Equal(t, "Payment Receipt", resp.Documents[2].Title)

	resp, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, resp.Documents, 3, "samples are added once")

	n, err := svc.Count(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, resp.Count)
}

// slowFlags delays every flag read so first requests overlap
type slowFlags struct {
	*repository.MemoryRepository
	delay time.Duration
}

func (s slowFlags) GetBool(ctx context.Context, userID, key string, def bool) (bool, error) {
	v, err := s.MemoryRepository.GetBool(ctx, userID, key, def)
	time.Sleep(s.delay)
	return v, err
}

func TestDocumentsSeededOnceUnderConcurrentFirstAccess(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := NewDocumentService(repo, slowFlags{MemoryRepository: repo, delay: 2 * time.Millisecond}, DocumentTimings{}, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.List(ctx, "u1")
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := svc.Upload(ctx, "u2", &model.UploadDocumentRequest{Type: model.DocumentTypePayment})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, resp.Documents, 3)

	resp, err = svc.List(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, resp.Documents, 7, "three samples plus four uploads")
	assert.Equal(t, 7, resp.Count)

	assert.Empty(t, svc.seeding)
}

func TestDocumentsUpload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		req         model.UploadDocumentRequest
		wantTitle   string
		wantSize    string
		wantNotices []string
		wantOpen    bool
	}{
		{
			name:        "ID document is scanned",
			req:         model.UploadDocumentRequest{Type: model.DocumentTypeID, FileName: `C:\scans\passport.png`, Size: 2048},
			wantTitle:   "ID Document: passport.png",
			wantSize:    "2.0 kB",
			wantNotices: []string{noticeUploading, noticeScanning, noticeIDUploaded},
			wantOpen:    true,
		},
		{
			name:        "Property document without file name",
			req:         model.UploadDocumentRequest{Type: model.DocumentTypeProperty},
			wantTitle:   "Property Document: New Document",
			wantSize:    "1.5MB",
			wantNotices: []string{noticeUploading, noticeUploaded},
		},
		{
			name:        "Payment document",
			req:         model.UploadDocumentRequest{Type: model.DocumentTypePayment, FileName: "/tmp/receipt.pdf", Size: 3_500_000},
			wantTitle:   "Payment Document: receipt.pdf",
			wantSize:    "3.5 MB",
			wantNotices: []string{noticeUploading, noticeUploaded},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestDocuments()
			req := tt.req

			result, err := svc.Upload(ctx, "u1", &req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, result.Document.Title)
			assert.Equal(t, tt.wantSize, result.Document.Size)
			assert.Equal(t, tt.wantNotices, result.Notices)
			assert.Equal(t, tt.wantOpen, result.OpenView)
			assert.Equal(t, 4, result.Count)
			assert.Equal(t, "2024-05-01", result.Document.Date)
			assert.NotEmpty(t, result.Document.ID)

			list, err := svc.List(ctx, "u1")
			require.NoError(t, err)
			require.Len(t, list.Documents, 4)
			assert.Equal(t, result.Document.ID, list.Documents[0].ID, "newest first")
		})
	}
}

func TestDocumentsUploadUnknownType(t *testing.T) {
	svc, repo := newTestDocuments()

	_, err := svc.Upload(context.Background(), "u1", &model.UploadDocumentRequest{Type: "Passport"})
	assert.ErrorIs(t, err, ErrUnknownDocumentType)

	docs, err := repo.ListDocuments(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentsUploadCancelled(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := NewDocumentService(repo, repo, DocumentTimings{Upload: time.Minute, Scan: time.Minute}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Upload(ctx, "u1", &model.UploadDocumentRequest{Type: model.DocumentTypeID})
	assert.ErrorIs(t, err, context.Canceled)

	n, err := svc.Count(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestFileBaseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "photo.jpg", want: "photo.jpg"},
		{in: "/var/tmp/photo.jpg", want: "photo.jpg"},
		{in: `C:\Users\me\id.png`, want: "id.png"},
		{in: "", want: "New Document"},
		{in: "  ", want: "New Document"},
		{in: "/", want: "New Document"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, fileBaseName(tt.in), tt.in)
	}
}
