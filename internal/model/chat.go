package model

import (
	"fmt"
	"strings"
)

// ConversationStep is the stage of the scripted buy/rent conversation
type ConversationStep int

const (
	StepAwaitingAction ConversationStep = iota
	StepAwaitingBudget
	StepAwaitingCity
	StepProcessing
	StepDone
)

var stepNames = [...]string{
	StepAwaitingAction: "awaiting_action",
	StepAwaitingBudget: "awaiting_budget",
	StepAwaitingCity:   "awaiting_city",
	StepProcessing:     "processing",
	StepDone:           "done",
}

func (s ConversationStep) String() string {
	if s < StepAwaitingAction || s > StepDone {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// MarshalText implements encoding.TextMarshaler
func (s ConversationStep) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *ConversationStep) UnmarshalText(text []byte) error {
	name := strings.TrimSpace(string(text))
	for i, n := range stepNames {
		if n == name {
			*s = ConversationStep(i)
			return nil
		}
	}
	return fmt.Errorf("unknown conversation step %q", name)
}

// Origin identifies who produced a chat entry
type Origin string

const (
	OriginUser    Origin = "user"
	OriginSystem  Origin = "system"
	OriginPending Origin = "pending" // typing placeholder, carries no text
)

// ChatEntry is one line in a conversation view
type ChatEntry struct {
	Origin Origin `json:"origin"`
	Text   string `json:"text,omitempty"`
}

// IsPending reports whether the entry is the transient typing placeholder
func (e ChatEntry) IsPending() bool {
	return e.Origin == OriginPending
}

// Chat event types published to session subscribers
const (
	EventEntryAppended  = "entry_appended"
	EventEntryRemoved   = "entry_removed"
	EventOptions        = "options"
	EventStep           = "step"
	EventSuccessMessage = "success_message"
	EventResults        = "results"
	EventOnboarding     = "onboarding"
)

// Chat channels inside a session
const (
	ChannelFlow      = "flow"
	ChannelAssistant = "assistant"
	ChannelOnboard   = "onboarding"
)

// ChatEvent describes a single observable change of a session view
type ChatEvent struct {
	Channel  string         `json:"channel"`
	Type     string         `json:"type"`
	Index    int            `json:"index"`
	Entry    *ChatEntry     `json:"entry,omitempty"`
	ScrollTo int            `json:"scroll_to"`
	Data     map[string]any `json:"data,omitempty"`
}

// ConversationEffect is the outcome of submitting a selection to the flow
type ConversationEffect struct {
	Accepted       bool             `json:"accepted"`
	Step           ConversationStep `json:"step"`
	Options        []string         `json:"options"`
	OptionsVisible bool             `json:"options_visible"`
}

// FlowSnapshot is the full observable state of the scripted flow
type FlowSnapshot struct {
	Step           ConversationStep `json:"step"`
	Entries        []ChatEntry      `json:"entries"`
	ChatVisible    bool             `json:"chat_visible"`
	Options        []string         `json:"options"`
	OptionsVisible bool             `json:"options_visible"`
	SuccessMessage string           `json:"success_message,omitempty"`
	SuccessVisible bool             `json:"success_visible"`
	Results        []ResultRecord   `json:"results"`
	ResultsVisible bool             `json:"results_visible"`
	Action         string           `json:"action,omitempty"`
	Budget         string           `json:"budget,omitempty"`
	City           string           `json:"city,omitempty"`
}

// AssistantSnapshot is the observable state of the AI chat screen
type AssistantSnapshot struct {
	Entries  []ChatEntry `json:"entries"`
	ScrollTo int         `json:"scroll_to"`
}
