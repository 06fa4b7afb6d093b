package service

import (
	"context"

	"realestate/internal/model"
)

// SettingsStore is a per-user key-value store for flags and counters
type SettingsStore interface {
	GetBool(ctx context.Context, userID, key string, def bool) (bool, error)
	SetBool(ctx context.Context, userID, key string, value bool) error
	GetInt(ctx context.Context, userID, key string, def int) (int, error)
	Increment(ctx context.Context, userID, key string, def int) (int, error)
}

// ProfileStore adds free-text profile fields to the settings store
type ProfileStore interface {
	SettingsStore
	GetStrings(ctx context.Context, userID string, keys []string) (map[string]string, error)
	SetStrings(ctx context.Context, userID string, values map[string]string) error
}

// DocumentStore keeps document metadata
type DocumentStore interface {
	ListDocuments(ctx context.Context, userID string) ([]model.Document, error)
	CreateDocument(ctx context.Context, doc *model.Document) error
}

// SearchLogStore records searches for the history screen
type SearchLogStore interface {
	LogSearch(ctx context.Context, userID, query string, resultCount int) error
	RecentSearches(ctx context.Context, userID string, limit int) ([]model.SearchHistoryItem, error)
}
