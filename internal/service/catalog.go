package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"realestate/internal/model"
	"realestate/internal/utils"

	"github.com/elliotchance/pie/v2"
	"github.com/google/uuid"
	"github.com/samber/oops"
)

// PlaceholderImageURL is shown for records without an image
const PlaceholderImageURL = "https://via.placeholder.com/300x200"

const unsplashParams = "?ixlib=rb-1.2.1&auto=format&fit=crop&w=500&q=60"

func unsplash(photo string) string {
	return "https://images.unsplash.com/photo-" + photo + unsplashParams
}

var (
	recommendedListings = []model.ResultRecord{
		{Title: "Modern Downtown Apartment", Price: "PKR 9,500,000", Location: "Islamabad, F-7 Markaz", ImageURL: unsplash("1540518614846-7eded433c457")},
		{Title: "Luxury Villa with Pool", Price: "PKR 25,000,000", Location: "DHA Phase 5, Lahore", ImageURL: unsplash("1564013799919-ab600027ffc6")},
		{Title: "Cozy Family Home", Price: "PKR 7,000,000", Location: "Gulberg, Lahore", ImageURL: unsplash("1576941089067-2de3c901e126")},
		{Title: "Bahria Town Penthouse", Price: "PKR 15,500,000", Location: "Bahria Town, Karachi", ImageURL: unsplash("1493809842364-78817add7ffb")},
	}

	rentListings = []model.ResultRecord{
		{Title: "Furnished Apartment", Price: "PKR 45,000/month", Location: "DHA Phase 2, Karachi", ImageURL: unsplash("1522708323590-d24dbb6b0267")},
		{Title: "2 Bedroom Flat", Price: "PKR 35,000/month", Location: "Bahria Town, Rawalpindi", ImageURL: unsplash("1560448204-603b3fc33ddc")},
		{Title: "Modern Studio Apartment", Price: "PKR 25,000/month", Location: "Johar Town, Lahore", ImageURL: unsplash("1502672260266-1c1ef2d93688")},
	}

	savedListings = []model.ResultRecord{
		{Title: "Luxury Villa", Price: "PKR 50,000,000", Location: "DHA Phase 6, Karachi"},
		{Title: "Modern Apartment", Price: "PKR 15,000,000", Location: "Gulberg, Lahore"},
	}

	viewedListings = []model.ResultRecord{
		{Title: "Modern Apartment in F-7", Price: "PKR 12,500,000", Location: "F-7 Markaz, Islamabad"},
		{Title: "Luxury Villa in DHA", Price: "PKR 35,000,000", Location: "DHA Phase 5, Lahore"},
		{Title: "Commercial Plaza for Sale", Price: "PKR 85,000,000", Location: "Blue Area, Islamabad"},
	}

	searchableListings = []model.ResultRecord{
		{Title: "Luxury Apartment in DHA", Price: "PKR 15,000,000", Location: "DHA Phase 6, Karachi"},
		{Title: "Modern House in Bahria Town", Price: "PKR 25,000,000", Location: "Bahria Town, Lahore"},
		{Title: "Commercial Plaza", Price: "PKR 50,000,000", Location: "Blue Area, Islamabad"},
	}

	sampleSearchHistory = []struct {
		query string
		date  string
	}{
		{"Houses in DHA Phase 6", "2024-04-25"},
		{"2 Bedroom Apartment", "2024-04-24"},
		{"Properties near F-7 Markaz", "2024-04-23"},
		{"Luxury Villas in Bahria Town", "2024-04-22"},
		{"Commercial Plazas in Blue Area", "2024-04-21"},
	}
)

var listingTitles = map[string]string{
	model.ModeBuy:         "Properties for Sale",
	model.ModeRent:        "Properties for Rent",
	model.ModeSaved:       "Saved Properties",
	model.ModeViewed:      "Recently Viewed",
	model.ModeRecommended: "Recommended for You",
}

// Catalog serves the static listing pages and the search screens
type Catalog struct {
	searches     SearchLogStore
	settings     SettingsStore
	historyLimit int
	logger       *slog.Logger
}

// NewCatalog creates a new catalog
func NewCatalog(searches SearchLogStore, settings SettingsStore, historyLimit int, logger *slog.Logger) *Catalog {
	if historyLimit <= 0 {
		historyLimit = 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		searches:     searches,
		settings:     settings,
		historyLimit: historyLimit,
		logger:       logger.With("component", "catalog"),
	}
}

// Listings returns the records of a listing page
func (c *Catalog) Listings(mode string) (*model.ListingsResponse, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = model.ModeRecommended
	}

	var records []model.ResultRecord
	switch mode {
	case model.ModeBuy:
		records = recommendedListings[:3]
	case model.ModeRent:
		records = rentListings
	case model.ModeSaved:
		records = savedListings
	case model.ModeViewed:
		records = viewedListings
	case model.ModeRecommended:
		records = recommendedListings
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	results := withImages(records)
	return &model.ListingsResponse{
		Mode:    mode,
		Title:   listingTitles[mode],
		Results: results,
		Total:   len(results),
	}, nil
}

// Search returns the results of a free-text query. Non-empty queries are
// recorded in the user's history and counted on the profile.
func (c *Catalog) Search(ctx context.Context, userID, query string) (*model.SearchResponse, error) {
	startTime := time.Now()
	query = strings.TrimSpace(query)

	if query == "" {
		return &model.SearchResponse{Query: query, Results: []model.ResultRecord{}, Empty: true}, nil
	}

	results := []model.ResultRecord{
		{Title: "Apartment in " + query, Price: "AED 1,000,000", Location: query, ImageURL: PlaceholderImageURL},
		{Title: "Villa in " + query, Price: "AED 2,000,000", Location: query, ImageURL: PlaceholderImageURL},
	}

	if err := c.searches.LogSearch(ctx, userID, query, len(results)); err != nil {
		return nil, oops.In("catalog").With("query", query).Wrapf(err, "failed to log search")
	}
	searches := incrementable[model.StatSearches]
	if _, err := c.settings.Increment(ctx, userID, searches.key, searches.def); err != nil {
		c.logger.Warn("Failed to update searches count", "user_id", userID, "error", err)
	}

	return &model.SearchResponse{
		Query:   query,
		Results: results,
		Empty:   false,
		Took:    time.Since(startTime).Milliseconds(),
	}, nil
}

// Filter narrows the searchable listings to those whose title or location
// contains the query, ignoring case. An empty query matches everything.
func (c *Catalog) Filter(query string) *model.SearchResponse {
	startTime := time.Now()
	query = strings.TrimSpace(query)

	matched := pie.Filter(searchableListings, func(r model.ResultRecord) bool {
		return utils.ContainsFold(r.Title, query) || utils.ContainsFold(r.Location, query)
	})
	results := withImages(matched)
	if results == nil {
		results = []model.ResultRecord{}
	}

	return &model.SearchResponse{
		Query:   query,
		Results: results,
		Empty:   len(results) == 0,
		Took:    time.Since(startTime).Milliseconds(),
	}
}

// History returns the user's latest searches, newest first. Users who have
// not searched yet get the sample history.
func (c *Catalog) History(ctx context.Context, userID string) ([]model.SearchHistoryItem, error) {
	items, err := c.searches.RecentSearches(ctx, userID, c.historyLimit)
	if err != nil {
		return nil, oops.In("catalog").Wrapf(err, "failed to load search history")
	}
	if len(items) > 0 {
		return items, nil
	}

	items = make([]model.SearchHistoryItem, 0, len(sampleSearchHistory))
	for _, h := range sampleSearchHistory {
		created, _ := time.Parse("2006-01-02", h.date)
		items = append(items, model.SearchHistoryItem{UserID: userID, Query: h.query, CreatedAt: created})
	}
	return items, nil
}

const noticePropertySubmitted = "Property submitted successfully!"

var sellFormMessages = map[string]string{
	"title.required":   "Please enter a title",
	"price.required":   "Please enter a price",
	"address.required": "Please enter an address",
	"photos.min":       "Please add at least one photo",
}

// Submit accepts a property from the sell form. The listing is returned to
// the seller but does not join the fixed catalog pages.
func (c *Catalog) Submit(userID string, req *model.SellPropertyRequest) (*model.SellPropertyResponse, error) {
	photos := pie.Filter(pie.Map(req.Photos, strings.TrimSpace), func(p string) bool {
		return p != ""
	})
	form := model.SellPropertyRequest{
		Title:        strings.TrimSpace(req.Title),
		Price:        strings.TrimSpace(req.Price),
		Address:      strings.TrimSpace(req.Address),
		Description:  strings.TrimSpace(req.Description),
		PropertyType: strings.TrimSpace(req.PropertyType),
		Bedrooms:     strings.TrimSpace(req.Bedrooms),
		Photos:       photos,
	}
	if err := validateForm(&form, sellFormMessages); err != nil {
		return nil, err
	}

	listing := model.SubmittedListing{
		ID: uuid.NewString(),
		Record: model.ResultRecord{
			Title:    form.Title,
			Price:    form.Price,
			Location: form.Address,
			ImageURL: form.Photos[0],
		},
		Description:  form.Description,
		PropertyType: form.PropertyType,
		Bedrooms:     form.Bedrooms,
		Photos:       form.Photos,
		SubmittedAt:  time.Now(),
	}
	c.logger.Info("Property submitted", "user_id", userID, "listing_id", listing.ID, "photos", len(form.Photos))

	return &model.SellPropertyResponse{Listing: listing, Notice: noticePropertySubmitted}, nil
}

// withImages copies records, substituting the placeholder for missing
// images
func withImages(records []model.ResultRecord) []model.ResultRecord {
	return pie.Map(records, func(r model.ResultRecord) model.ResultRecord {
		if r.ImageURL == "" {
			r.ImageURL = PlaceholderImageURL
		}
		return r
	})
}
