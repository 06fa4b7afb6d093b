package service

import (
	"context"
	"fmt"
	"strings"

	"realestate/internal/model"

	"github.com/samber/oops"
)

const (
	memberSinceLayout   = "January 2006"
	memberSinceFallback = "January 2024"
	defaultDisplayName  = "User"

	noticeProfileUpdated = "Profile updated successfully"

	helpTitle   = "Help & Support"
	helpMessage = "This is the Real Estate App help center. For assistance, please contact support@realestateapp.com or call our helpline at +92-123-4567890."
)

// Counter keys in the settings store
const (
	keySavedCount     = "saved_properties_count"
	keySearchesCount  = "searches_count"
	keyViewsCount     = "views_count"
	keyDocumentsCount = "documents_count"
)

// Profile field keys in the settings store
const (
	keyProfileName     = "profile_name"
	keyProfilePhone    = "profile_phone"
	keyProfileLocation = "profile_location"
	keyProfileBio      = "profile_bio"
)

var profileFieldKeys = []string{keyProfileName, keyProfilePhone, keyProfileLocation, keyProfileBio}

var profileFormMessages = map[string]string{
	"name.required": "Name cannot be empty",
	"name.min":      "Name is too short",
	"phone.min":     "Enter a valid phone number",
}

var faq = []model.FAQItem{
	{
		Question: "How do I search for properties?",
		Answer:   "Use the search bar on the home screen or the Search tab. Type a city, area or property type to narrow the results.",
	},
	{
		Question: "How do I save a property?",
		Answer:   "Tap the heart icon on any listing. Saved properties are listed under Saved on your profile.",
	},
	{
		Question: "How do I contact an agent?",
		Answer:   "Open a listing and tap Contact Agent to call or email the agent directly.",
	},
	{
		Question: "How do I list my property?",
		Answer:   "Tap Sell, enter the title, price and address, add at least one photo and submit.",
	},
	{
		Question: "Which payment methods are accepted?",
		Answer:   "Bank transfer and card payments are accepted. Keep your receipts in the Documents section.",
	},
}

type statDef struct {
	name  string
	label string
	key   string
	def   int
}

var profileStats = []statDef{
	{model.StatSaved, "Saved", keySavedCount, 12},
	{model.StatSearches, "Searches", keySearchesCount, 25},
	{model.StatViews, "Views", keyViewsCount, 48},
}

// incrementable lists the counters the profile lets a user bump
var incrementable = map[string]statDef{
	model.StatSearches: profileStats[1],
	model.StatViews:    profileStats[2],
}

// ProfileService handles the profile, edit profile and help screens
type ProfileService struct {
	store ProfileStore
}

// NewProfileService creates a new profile service
func NewProfileService(store ProfileStore) *ProfileService {
	return &ProfileService{store: store}
}

// Get builds the profile of the signed-in principal
func (s *ProfileService) Get(ctx context.Context, p *model.Principal) (*model.Profile, error) {
	profile := &model.Profile{
		Name:        p.DisplayName,
		Email:       p.Email,
		PhotoURL:    p.PhotoURL,
		MemberSince: "Member since: " + memberSinceFallback,
		Help:        model.HelpInfo{Title: helpTitle, Message: helpMessage},
	}

	fields, err := s.store.GetStrings(ctx, p.ID, profileFieldKeys)
	if err != nil {
		return nil, oops.In("profile").Wrapf(err, "failed to read profile")
	}
	if name := fields[keyProfileName]; name != "" {
		profile.Name = name
	}
	profile.Phone = fields[keyProfilePhone]
	profile.Location = fields[keyProfileLocation]
	profile.Bio = fields[keyProfileBio]

	if profile.Name == "" {
		profile.Name = defaultDisplayName
	}
	if profile.PhotoURL == "" {
		profile.PhotoURL = PlaceholderImageURL
	}
	if !p.CreatedAt.IsZero() {
		profile.MemberSince = "Member since: " + p.CreatedAt.Format(memberSinceLayout)
	}

	for _, st := range profileStats {
		v, err := s.store.GetInt(ctx, p.ID, st.key, st.def)
		if err != nil {
			return nil, oops.In("profile").With("stat", st.name).Wrapf(err, "failed to read statistic")
		}
		profile.Stats = append(profile.Stats, model.ProfileStatistic{Name: st.name, Label: st.label, Value: v})
	}
	return profile, nil
}

// Increment bumps the searches or views counter and returns the new value
func (s *ProfileService) Increment(ctx context.Context, userID, name string) (*model.ProfileStatistic, error) {
	st, ok := incrementable[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatistic, name)
	}
	v, err := s.store.Increment(ctx, userID, st.key, st.def)
	if err != nil {
		return nil, oops.In("profile").With("stat", name).Wrapf(err, "failed to increment statistic")
	}
	return &model.ProfileStatistic{Name: st.name, Label: st.label, Value: v}, nil
}

// Update saves the edit profile form and returns the refreshed profile
func (s *ProfileService) Update(ctx context.Context, p *model.Principal, req *model.UpdateProfileRequest) (*model.UpdateProfileResponse, error) {
	form := model.UpdateProfileRequest{
		Name:     strings.TrimSpace(req.Name),
		Phone:    strings.TrimSpace(req.Phone),
		Location: strings.TrimSpace(req.Location),
		Bio:      strings.TrimSpace(req.Bio),
	}
	if err := validateForm(&form, profileFormMessages); err != nil {
		return nil, err
	}

	err := s.store.SetStrings(ctx, p.ID, map[string]string{
		keyProfileName:     form.Name,
		keyProfilePhone:    form.Phone,
		keyProfileLocation: form.Location,
		keyProfileBio:      form.Bio,
	})
	if err != nil {
		return nil, oops.In("profile").Wrapf(err, "failed to save profile")
	}

	profile, err := s.Get(ctx, p)
	if err != nil {
		return nil, err
	}
	return &model.UpdateProfileResponse{Profile: profile, Notice: noticeProfileUpdated}, nil
}

// FAQ returns the help center questions
func (s *ProfileService) FAQ() []model.FAQItem {
	out := make([]model.FAQItem, len(faq))
	copy(out, faq)
	return out
}
