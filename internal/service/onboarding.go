package service

import (
	"fmt"
	"log/slog"
	"time"

	"realestate/internal/model"

	"github.com/elliotchance/pie/v2"
)

const onboardingAnalyzing = "AI is analyzing your preferences..."

// DefaultQuestions is the preference questionnaire shown after sign-up
var DefaultQuestions = []model.Question{
	{Text: "What type of property are you looking for?", Options: []string{"Apartment", "House", "Villa", "Commercial"}},
	{Text: "Which area do you prefer?", Options: []string{"City Center", "Suburbs", "Countryside", "Coastal Area"}},
	{Text: "What's your budget range?", Options: []string{"Under $100k", "$100k - $300k", "$300k - $500k", "Above $500k"}},
	{Text: "How urgent is your requirement?", Options: []string{"Immediate", "Within 3 months", "Within 6 months", "Just exploring"}},
	{Text: "Which amenities are important to you?", Options: []string{"Parking", "Swimming Pool", "Gym", "Security"}},
}

// Onboarding walks through the questionnaire one question at a time.
// All methods must run on the scheduler's loop.
type Onboarding struct {
	sched     Scheduler
	questions []model.Question
	analyze   time.Duration
	publish   EventSink
	logger    *slog.Logger

	index       int
	selected    string
	status      string
	preferences map[string]string
}

// NewOnboarding creates a questionnaire positioned on the first question
func NewOnboarding(sched Scheduler, questions []model.Question, analyze time.Duration, publish EventSink, logger *slog.Logger) *Onboarding {
	if len(questions) == 0 {
		questions = DefaultQuestions
	}
	if publish == nil {
		publish = discardEvents
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Onboarding{
		sched:       sched,
		questions:   questions,
		analyze:     analyze,
		publish:     publish,
		logger:      logger.With("component", "onboarding"),
		status:      model.OnboardingAsking,
		preferences: make(map[string]string),
	}
}

// Select records the answer to the current question
func (o *Onboarding) Select(option string) (model.OnboardingSnapshot, error) {
	if o.status != model.OnboardingAsking {
		return o.Snapshot(), ErrOnboardingComplete
	}
	q := o.questions[o.index]
	if !pie.Contains(q.Options, option) {
		return o.Snapshot(), fmt.Errorf("%w: %q", ErrInvalidOption, option)
	}
	o.selected = option
	o.preferences[q.Text] = option
	return o.changed(), nil
}

// Next moves to the following question, or starts the analysis after the
// last one
func (o *Onboarding) Next() (model.OnboardingSnapshot, error) {
	if o.status != model.OnboardingAsking {
		return o.Snapshot(), ErrOnboardingComplete
	}
	if o.selected == "" {
		return o.Snapshot(), ErrSelectionRequired
	}

	if o.index < len(o.questions)-1 {
		o.show(o.index + 1)
		return o.changed(), nil
	}

	o.status = model.OnboardingAnalyzing
	o.sched.After(o.analyze, func() {
		if !o.sched.Alive() {
			return
		}
		o.status = model.OnboardingFinished
		o.logger.Info("Onboarding finished", "answers", len(o.preferences))
		o.changed()
	})
	return o.changed(), nil
}

// Back returns to the previous question. On the first question it does
// nothing.
func (o *Onboarding) Back() (model.OnboardingSnapshot, error) {
	if o.status != model.OnboardingAsking {
		return o.Snapshot(), ErrOnboardingComplete
	}
	if o.index > 0 {
		o.show(o.index - 1)
		return o.changed(), nil
	}
	return o.Snapshot(), nil
}

// Preferences returns the answers keyed by question text
func (o *Onboarding) Preferences() map[string]string {
	out := make(map[string]string, len(o.preferences))
	for k, v := range o.preferences {
		out[k] = v
	}
	return out
}

// Snapshot returns the observable state of the questionnaire
func (o *Onboarding) Snapshot() model.OnboardingSnapshot {
	total := len(o.questions)
	snap := model.OnboardingSnapshot{
		Index:       o.index,
		Total:       total,
		Progress:    (o.index + 1) * 100 / total,
		ProgressTxt: fmt.Sprintf("Question %d of %d", o.index+1, total),
		Selected:    o.selected,
		Status:      o.status,
		NextLabel:   "Next",
	}
	if o.index == total-1 {
		snap.NextLabel = "Finish"
	}

	switch o.status {
	case model.OnboardingAsking:
		q := o.questions[o.index]
		snap.Question = model.Question{Text: q.Text, Options: append([]string(nil), q.Options...)}
		snap.CanGoBack = o.index > 0
		snap.CanProceed = o.selected != ""
	case model.OnboardingAnalyzing:
		snap.Question = model.Question{Text: onboardingAnalyzing}
	case model.OnboardingFinished:
		snap.Preferences = o.Preferences()
	}
	return snap
}

// show positions on a question with nothing selected yet
func (o *Onboarding) show(index int) {
	o.index = index
	o.selected = ""
}

func (o *Onboarding) changed() model.OnboardingSnapshot {
	snap := o.Snapshot()
	o.publish(model.ChatEvent{
		Channel: model.ChannelOnboard,
		Type:    model.EventOnboarding,
		Data:    map[string]any{"state": snap},
	})
	return snap
}
