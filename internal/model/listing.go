package model

import "time"

// ResultRecord is a static listing card shown to the user. Records are
// never persisted.
type ResultRecord struct {
	Title    string `json:"title"`
	Price    string `json:"price"`
	Location string `json:"location"`
	ImageURL string `json:"image_url"`
}

// Listing modes served by the catalog
const (
	ModeBuy         = "buy"
	ModeRent        = "rent"
	ModeSaved       = "saved"
	ModeViewed      = "viewed"
	ModeRecommended = "recommended"
)

// ListingsResponse represents a listing page
type ListingsResponse struct {
	Mode    string         `json:"mode"`
	Title   string         `json:"title"`
	Results []ResultRecord `json:"results"`
	Total   int            `json:"total"`
}

// SearchResponse represents a search result response
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []ResultRecord `json:"results"`
	Empty   bool           `json:"empty"`
	Took    int64          `json:"took_ms"`
}

// SearchHistoryItem is one logged search
type SearchHistoryItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    string    `json:"-" db:"user_id"`
	Query     string    `json:"query" db:"query"`
	Results   int       `json:"result_count" db:"result_count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SellPropertyRequest is the list-your-property form. Photos are the
// names or URLs of the picked images.
type SellPropertyRequest struct {
	Title        string   `json:"title" validate:"required"`
	Price        string   `json:"price" validate:"required"`
	Address      string   `json:"address" validate:"required"`
	Description  string   `json:"description"`
	PropertyType string   `json:"property_type"`
	Bedrooms     string   `json:"bedrooms"`
	Photos       []string `json:"photos" validate:"min=1"`
}

// SubmittedListing is a property accepted from the sell form
type SubmittedListing struct {
	ID           string       `json:"id"`
	Record       ResultRecord `json:"record"`
	Description  string       `json:"description,omitempty"`
	PropertyType string       `json:"property_type,omitempty"`
	Bedrooms     string       `json:"bedrooms,omitempty"`
	Photos       []string     `json:"photos"`
	SubmittedAt  time.Time    `json:"submitted_at"`
}

// SellPropertyResponse confirms a submitted listing
type SellPropertyResponse struct {
	Listing SubmittedListing `json:"listing"`
	Notice  string           `json:"notice"`
}
