package model

import "time"

// SessionInfo describes a client session
type SessionInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// SelectRequest carries the label of the control the user activated
type SelectRequest struct {
	Selection string `json:"selection"`
}

// ChatMessageRequest carries free text typed into the assistant
type ChatMessageRequest struct {
	Text string `json:"text"`
}

// OnboardingSelectRequest picks an option for the current question
type OnboardingSelectRequest struct {
	Option string `json:"option" binding:"required"`
}
