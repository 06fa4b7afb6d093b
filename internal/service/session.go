package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"realestate/internal/model"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// SessionConfig controls session limits and the behaviour of the chat
// components each session owns
type SessionConfig struct {
	MaxSessions       int
	IdleTTL           time.Duration
	QueueSize         int
	SubscriberBuffer  int
	Flow              FlowTimings
	Assistant         AssistantTimings
	FollowUpPercent   int
	OnboardingAnalyze time.Duration
	Random            RandomSource
}

// Session is one client's set of open chat screens. Its components live on
// a private event loop.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time

	loop       *EventLoop
	flow       *Flow
	assistant  *Assistant
	onboarding *Onboarding
	logger     *slog.Logger

	mu          sync.Mutex
	subscribers map[int]chan model.ChatEvent
	nextSub     int
	subBuffer   int
	lastSeen    time.Time
	closed      bool
}

// Info describes the session
func (s *Session) Info() model.SessionInfo {
	return model.SessionInfo{ID: s.ID, CreatedAt: s.CreatedAt}
}

// publish runs on the loop
func (s *Session) publish(ev model.ChatEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			s.logger.Debug("Dropping event for slow subscriber", "subscriber", id, "type", ev.Type)
		}
	}
}

// Subscribe returns a stream of view changes. The channel is closed when
// the session closes or cancel is called.
func (s *Session) Subscribe() (<-chan model.ChatEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan model.ChatEvent, s.subBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// FlowSnapshot returns the scripted conversation state
func (s *Session) FlowSnapshot(ctx context.Context) (model.FlowSnapshot, error) {
	return onLoop(ctx, s, s.flow.Snapshot)
}

// SubmitFlow feeds an option label into the scripted conversation
func (s *Session) SubmitFlow(ctx context.Context, selection string) (model.ConversationEffect, error) {
	return onLoop(ctx, s, func() model.ConversationEffect {
		return s.flow.Submit(selection)
	})
}

// AssistantSnapshot returns the AI chat state
func (s *Session) AssistantSnapshot(ctx context.Context) (model.AssistantSnapshot, error) {
	return onLoop(ctx, s, s.assistant.Snapshot)
}

// SendMessage posts free text to the AI chat. It reports false for blank
// text.
func (s *Session) SendMessage(ctx context.Context, text string) (bool, error) {
	return onLoop(ctx, s, func() bool {
		return s.assistant.Send(text)
	})
}

// OnboardingSnapshot returns the questionnaire state
func (s *Session) OnboardingSnapshot(ctx context.Context) (model.OnboardingSnapshot, error) {
	return onLoop(ctx, s, s.onboarding.Snapshot)
}

// SelectOnboardingOption answers the current question
func (s *Session) SelectOnboardingOption(ctx context.Context, option string) (model.OnboardingSnapshot, error) {
	return onLoopErr(ctx, s, func() (model.OnboardingSnapshot, error) {
		return s.onboarding.Select(option)
	})
}

// NextOnboardingQuestion moves forward in the questionnaire
func (s *Session) NextOnboardingQuestion(ctx context.Context) (model.OnboardingSnapshot, error) {
	return onLoopErr(ctx, s, s.onboarding.Next)
}

// PreviousOnboardingQuestion moves back in the questionnaire
func (s *Session) PreviousOnboardingQuestion(ctx context.Context) (model.OnboardingSnapshot, error) {
	return onLoopErr(ctx, s, s.onboarding.Back)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// idleSince reports when the session was last used, or false while a
// subscriber is attached
func (s *Session) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subscribers) > 0 {
		return time.Time{}, false
	}
	return s.lastSeen, true
}

// close stops the loop, so pending reveals never fire, and ends all
// subscriptions
func (s *Session) close() {
	s.loop.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}

func onLoop[T any](ctx context.Context, s *Session, fn func() T) (T, error) {
	var out T
	err := s.loop.Do(ctx, func() { out = fn() })
	if errors.Is(err, ErrLoopClosed) {
		err = ErrSessionNotFound
	}
	return out, err
}

func onLoopErr[T any](ctx context.Context, s *Session, fn func() (T, error)) (T, error) {
	var (
		out   T
		fnErr error
	)
	err := s.loop.Do(ctx, func() { out, fnErr = fn() })
	if errors.Is(err, ErrLoopClosed) {
		return out, ErrSessionNotFound
	}
	if err != nil {
		return out, err
	}
	return out, fnErr
}

// SessionManager owns all live sessions
type SessionManager struct {
	cfg          SessionConfig
	materializer *Materializer
	bank         *ResponseBank
	logger       *slog.Logger
	now          func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates an empty manager
func NewSessionManager(cfg SessionConfig, logger *slog.Logger) *SessionManager {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1000
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.SubscriberBuffer <= 0 {
		cfg.SubscriberBuffer = 32
	}
	if cfg.Random == nil {
		cfg.Random = DefaultRandom
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		cfg:          cfg,
		materializer: NewMaterializer(),
		bank:         DefaultResponseBank(),
		logger:       logger.With("component", "sessions"),
		now:          time.Now,
		sessions:     make(map[string]*Session),
	}
}

// Create opens a session for the user and starts its conversations
func (m *SessionManager) Create(ctx context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	if len(m.sessions) >= m.cfg.MaxSessions {
		m.mu.Unlock()
		return nil, oops.In("session").With("limit", m.cfg.MaxSessions).Wrapf(ErrTooManySessions, "cannot open session")
	}

	now := m.now()
	s := &Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		CreatedAt:   now,
		loop:        NewEventLoop(m.cfg.QueueSize),
		subscribers: make(map[int]chan model.ChatEvent),
		subBuffer:   m.cfg.SubscriberBuffer,
		lastSeen:    now,
	}
	s.logger = m.logger.With("session_id", s.ID)
	s.flow = NewFlow(s.loop, m.materializer, m.cfg.Flow, s.publish, s.logger)
	s.assistant = NewAssistant(s.loop, NewResponder(m.bank, m.cfg.Random, m.cfg.FollowUpPercent), m.cfg.Assistant, s.publish, s.logger)
	s.onboarding = NewOnboarding(s.loop, DefaultQuestions, m.cfg.OnboardingAnalyze, s.publish, s.logger)
	m.sessions[s.ID] = s
	m.mu.Unlock()

	if err := s.loop.Do(ctx, func() {
		s.flow.Start()
		s.assistant.Start()
	}); err != nil {
		m.remove(s.ID)
		s.close()
		return nil, oops.In("session").Wrapf(err, "failed to start session")
	}

	s.logger.Info("Session created", "user_id", userID)
	return s, nil
}

// Get returns a session owned by userID
func (m *SessionManager) Get(id, userID string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	s.touch(m.now())
	return s, nil
}

// Close ends a session owned by userID
func (m *SessionManager) Close(id, userID string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	m.mu.Unlock()

	s.close()
	s.logger.Info("Session closed")
	return nil
}

// Count returns the number of live sessions
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep closes sessions idle for longer than the TTL and returns how many
// were closed
func (m *SessionManager) Sweep() int {
	cutoff := m.now().Add(-m.cfg.IdleTTL)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		last, idle := s.idleSince()
		if idle && last.Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
		s.logger.Info("Session expired")
	}
	return len(expired)
}

// Run sweeps idle sessions until ctx is done
func (m *SessionManager) Run(ctx context.Context) {
	interval := m.cfg.IdleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug("Swept idle sessions", "count", n, "remaining", m.Count())
			}
		}
	}
}

// Shutdown closes every session
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}

func (m *SessionManager) remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
