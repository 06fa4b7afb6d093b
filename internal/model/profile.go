package model

import "time"

// Principal is the signed-in user as asserted by the identity provider
type Principal struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Profile represents the profile screen
type Profile struct {
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	PhotoURL    string             `json:"photo_url"`
	MemberSince string             `json:"member_since"`
	Phone       string             `json:"phone,omitempty"`
	Location    string             `json:"location,omitempty"`
	Bio         string             `json:"bio,omitempty"`
	Stats       []ProfileStatistic `json:"stats"`
	Help        HelpInfo           `json:"help"`
}

// ProfileStatistic is one counter on the profile screen
type ProfileStatistic struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// HelpInfo is the static help & support text
type HelpInfo struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// UpdateProfileRequest is the edit profile form. The phone number is
// optional.
type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Phone    string `json:"phone" validate:"omitempty,min=10"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

// UpdateProfileResponse is the saved profile and the confirmation text
type UpdateProfileResponse struct {
	Profile *Profile `json:"profile"`
	Notice  string   `json:"notice"`
}

// FAQItem is one entry of the help center
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Statistic counter names
const (
	StatSaved     = "saved"
	StatSearches  = "searches"
	StatViews     = "views"
	StatDocuments = "documents"
)
