package model

import "time"

// Document types accepted by the documents manager
const (
	DocumentTypeID       = "ID"
	DocumentTypeProperty = "Property"
	DocumentTypePayment  = "Payment"
)

// Document is synthetic metadata for an uploaded file. No file content is
// kept.
type Document struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"-" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Type      string    `json:"type" db:"type"`
	Size      string    `json:"size" db:"size"`
	Date      string    `json:"date" db:"date"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// UploadDocumentRequest represents a metadata-only upload
type UploadDocumentRequest struct {
	Type     string `json:"type" form:"type" binding:"required,oneof=ID Property Payment"`
	FileName string `json:"file_name" form:"file_name"`
	Size     int64  `json:"size" form:"size"`
}

// UploadResult is a created document plus the notices shown while it was
// processed
type UploadResult struct {
	Document Document `json:"document"`
	Notices  []string `json:"notices"`
	Count    int      `json:"documents_count"`
	OpenView bool     `json:"open_view"`
}

// DocumentsResponse represents the documents screen
type DocumentsResponse struct {
	Documents []Document `json:"documents"`
	Empty     bool       `json:"empty"`
	Count     int        `json:"documents_count"`
}
