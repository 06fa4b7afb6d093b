package model

// Question is one onboarding question with its fixed options
type Question struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// OnboardingSnapshot is the observable state of the questionnaire
type OnboardingSnapshot struct {
	Index       int               `json:"index"`
	Total       int               `json:"total"`
	Progress    int               `json:"progress"`
	ProgressTxt string            `json:"progress_text"`
	Question    Question          `json:"question"`
	Selected    string            `json:"selected,omitempty"`
	CanGoBack   bool              `json:"can_go_back"`
	CanProceed  bool              `json:"can_proceed"`
	NextLabel   string            `json:"next_label"`
	Status      string            `json:"status"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

// Onboarding statuses
const (
	OnboardingAsking    = "asking"
	OnboardingAnalyzing = "analyzing"
	OnboardingFinished  = "finished"
)
