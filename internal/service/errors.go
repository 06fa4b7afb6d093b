package service

import "errors"

var (
	// ErrLoopClosed is returned when work is submitted to a closed loop
	ErrLoopClosed = errors.New("event loop closed")
	// ErrSessionNotFound is returned for unknown or expired session ids
	ErrSessionNotFound = errors.New("session not found")
	// ErrTooManySessions is returned when the session limit is reached
	ErrTooManySessions = errors.New("too many sessions")
	// ErrInvalidOption is returned when a choice is not offered by the
	// current question
	ErrInvalidOption = errors.New("invalid option")
	// ErrSelectionRequired is returned when moving on without answering
	ErrSelectionRequired = errors.New("an option must be selected first")
	// ErrOnboardingComplete is returned once the questionnaire is finished
	ErrOnboardingComplete = errors.New("onboarding already finished")
	// ErrUnknownDocumentType is returned for uploads outside ID, Property
	// and Payment
	ErrUnknownDocumentType = errors.New("unknown document type")
	// ErrUnknownSetting is returned for flags the settings screen does not
	// have
	ErrUnknownSetting = errors.New("unknown setting")
	// ErrUnknownStatistic is returned for counters the profile does not
	// track
	ErrUnknownStatistic = errors.New("unknown statistic")
	// ErrUnknownMode is returned for listing modes the catalog does not
	// serve
	ErrUnknownMode = errors.New("unknown listing mode")
	// ErrInvalidInput is wrapped by ValidationError for rejected forms
	ErrInvalidInput = errors.New("invalid input")
)
