package service

import (
	"log/slog"
	"strings"
	"time"

	"realestate/internal/model"
)

const (
	assistantWelcome    = "Hello! I'm your AI property assistant. How can I help you find your perfect property today?"
	assistantSuggestion = "I can help you search for properties, provide market insights, or answer questions about neighborhoods. What are you interested in today?"
)

// AssistantTimings are the artificial delays of the AI chat screen.
// Jitter values add a uniform random amount to the base delay.
type AssistantTimings struct {
	TypingMin      time.Duration
	TypingJitter   time.Duration
	FollowUpMin    time.Duration
	FollowUpJitter time.Duration
	IdleNudge      time.Duration
	IdleTyping     time.Duration
}

// DefaultAssistantTimings returns the delays used by the mobile client
func DefaultAssistantTimings() AssistantTimings {
	return AssistantTimings{
		TypingMin:      time.Second,
		TypingJitter:   2 * time.Second,
		FollowUpMin:    1500 * time.Millisecond,
		FollowUpJitter: time.Second,
		IdleNudge:      5 * time.Second,
		IdleTyping:     2 * time.Second,
	}
}

// Assistant drives the free-text AI chat. All methods must run on the
// scheduler's loop.
type Assistant struct {
	sched     Scheduler
	responder *Responder
	messages  *MessageList
	timings   AssistantTimings
	logger    *slog.Logger
}

// NewAssistant creates an assistant with an empty transcript
func NewAssistant(sched Scheduler, responder *Responder, timings AssistantTimings, publish EventSink, logger *slog.Logger) *Assistant {
	if responder == nil {
		responder = NewResponder(nil, nil, 70)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{
		sched:     sched,
		responder: responder,
		messages:  NewMessageList(model.ChannelAssistant, publish),
		timings:   timings,
		logger:    logger.With("component", "assistant"),
	}
}

// Start greets the user and schedules the idle suggestion
func (a *Assistant) Start() {
	a.messages.System(assistantWelcome)
	a.sched.After(a.timings.IdleNudge, a.nudge)
}

// nudge fires only while the welcome is the only entry
func (a *Assistant) nudge() {
	if !a.sched.Alive() || a.messages.Len() != 1 {
		return
	}
	a.messages.ShowPending()
	a.sched.After(a.timings.IdleTyping, func() {
		if !a.sched.Alive() {
			return
		}
		a.messages.Reveal(assistantSuggestion)
	})
}

// Send posts a user message and schedules the reply. Blank text is
// ignored and reported as false.
func (a *Assistant) Send(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	a.messages.User(text)
	a.messages.ShowPending()

	topic := a.responder.Classify(text)
	a.logger.Debug("Message received", "topic", topic)

	a.sched.After(a.jitter(a.timings.TypingMin, a.timings.TypingJitter), func() {
		if !a.sched.Alive() {
			return
		}
		a.messages.Reveal(a.responder.Respond(text))

		if !a.responder.ShouldFollowUp() {
			return
		}
		a.messages.ShowPending()
		a.sched.After(a.jitter(a.timings.FollowUpMin, a.timings.FollowUpJitter), func() {
			if !a.sched.Alive() {
				return
			}
			a.messages.Reveal(a.responder.FollowUp())
		})
	})

	return true
}

// Messages exposes the transcript
func (a *Assistant) Messages() *MessageList {
	return a.messages
}

// Snapshot returns the observable state of the chat
func (a *Assistant) Snapshot() model.AssistantSnapshot {
	return model.AssistantSnapshot{
		Entries:  a.messages.Entries(),
		ScrollTo: a.messages.ScrollTo(),
	}
}

func (a *Assistant) jitter(base, spread time.Duration) time.Duration {
	ms := a.responder.Jitter(int(base.Milliseconds()), int(spread.Milliseconds()))
	return time.Duration(ms) * time.Millisecond
}
