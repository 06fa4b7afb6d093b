package repository

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"realestate/internal/model"

	"github.com/samber/oops"
)

// MemoryRepository keeps settings, documents and search history in
// process memory. It is used when no database is configured.
type MemoryRepository struct {
	mu        sync.RWMutex
	values    map[string]map[string]string
	documents map[string][]model.Document
	searches  map[string][]model.SearchHistoryItem
	nextID    int64
	now       func() time.Time
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		values:    make(map[string]map[string]string),
		documents: make(map[string][]model.Document),
		searches:  make(map[string][]model.SearchHistoryItem),
		now:       time.Now,
	}
}

// Ping always succeeds
func (r *MemoryRepository) Ping(context.Context) error {
	return nil
}

func (r *MemoryRepository) get(userID, key string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[userID][key]
	return v, ok
}

func (r *MemoryRepository) set(userID, key, value string) {
	if r.values[userID] == nil {
		r.values[userID] = make(map[string]string)
	}
	r.values[userID][key] = value
}

// GetBool returns a flag, or def when it was never written
func (r *MemoryRepository) GetBool(_ context.Context, userID, key string, def bool) (bool, error) {
	v, ok := r.get(userID, key)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, oops.In("repository").With("key", key).Wrapf(err, "setting is not a flag")
	}
	return b, nil
}

// SetBool writes a flag
func (r *MemoryRepository) SetBool(_ context.Context, userID, key string, value bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set(userID, key, strconv.FormatBool(value))
	return nil
}

// GetInt returns a counter, or def when it was never written
func (r *MemoryRepository) GetInt(_ context.Context, userID, key string, def int) (int, error) {
	v, ok := r.get(userID, key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, oops.In("repository").With("key", key).Wrapf(err, "setting is not a counter")
	}
	return n, nil
}

// Increment adds one to a counter that starts at def and returns the new
// value
func (r *MemoryRepository) Increment(_ context.Context, userID, key string, def int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := def
	if v, ok := r.values[userID][key]; ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, oops.In("repository").With("key", key).Wrapf(err, "setting is not a counter")
		}
		n = parsed
	}
	n++
	r.set(userID, key, strconv.Itoa(n))
	return n, nil
}

// GetStrings returns the stored values of keys
func (r *MemoryRepository) GetStrings(_ context.Context, userID string, keys []string) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	values := make(map[string]string, len(keys))
	for _, key := range keys {
		if v, ok := r.values[userID][key]; ok {
			values[key] = v
		}
	}
	return values, nil
}

// SetStrings writes all values at once
func (r *MemoryRepository) SetStrings(_ context.Context, userID string, values map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, value := range values {
		r.set(userID, key, value)
	}
	return nil
}

// ListDocuments returns a user's documents, newest first. Documents
// created at the same instant are returned latest insert first.
func (r *MemoryRepository) ListDocuments(_ context.Context, userID string) ([]model.Document, error) {
	r.mu.RLock()
	stored := r.documents[userID]
	docs := make([]model.Document, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		docs = append(docs, stored[i])
	}
	r.mu.RUnlock()

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

// CreateDocument stores document metadata
func (r *MemoryRepository) CreateDocument(_ context.Context, doc *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = r.now()
	}
	r.documents[doc.UserID] = append(r.documents[doc.UserID], *doc)
	return nil
}

// LogSearch records a search query
func (r *MemoryRepository) LogSearch(_ context.Context, userID, query string, resultCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.searches[userID] = append(r.searches[userID], model.SearchHistoryItem{
		ID:        r.nextID,
		UserID:    userID,
		Query:     query,
		Results:   resultCount,
		CreatedAt: r.now(),
	})
	return nil
}

// RecentSearches returns the latest searches of a user, newest first
func (r *MemoryRepository) RecentSearches(_ context.Context, userID string, limit int) ([]model.SearchHistoryItem, error) {
	r.mu.RLock()
	items := make([]model.SearchHistoryItem, len(r.searches[userID]))
	copy(items, r.searches[userID])
	r.mu.RUnlock()

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ID > items[j].ID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
