package handler

import (
	"net/http"
	"time"

	"realestate/internal/model"
	"realestate/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultHeartbeat = 15 * time.Second

// SessionHandler handles the chat screens of a client session
type SessionHandler struct {
	sessions  *service.SessionManager
	heartbeat time.Duration
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionManager) *SessionHandler {
	return &SessionHandler{
		sessions:  sessions,
		heartbeat: defaultHeartbeat,
	}
}

// session loads the session named in the path, owned by the caller
func (h *SessionHandler) session(c *gin.Context) (*service.Session, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		return nil, false
	}
	s, err := h.sessions.Get(c.Param("id"), p.ID)
	if err != nil {
		respondError(c, err, "Failed to load session")
		return nil, false
	}
	return s, true
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	s, err := h.sessions.Create(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err, "Failed to create session")
		return
	}
	c.JSON(http.StatusCreated, s.Info())
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	if err := h.sessions.Close(c.Param("id"), p.ID); err != nil {
		respondError(c, err, "Failed to close session")
		return
	}
	c.Status(http.StatusNoContent)
}

// Flow handles GET /api/v1/sessions/:id/flow
func (h *SessionHandler) Flow(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := s.FlowSnapshot(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load conversation")
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SelectFlow handles POST /api/v1/sessions/:id/flow/select. Selections the
// current step does not accept come back with accepted=false.
func (h *SessionHandler) SelectFlow(c *gin.Context) {
	var req model.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	effect, err := s.SubmitFlow(c.Request.Context(), req.Selection)
	if err != nil {
		respondError(c, err, "Failed to submit selection")
		return
	}
	c.JSON(http.StatusOK, effect)
}

// Chat handles GET /api/v1/sessions/:id/chat
func (h *SessionHandler) Chat(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := s.AssistantSnapshot(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load chat")
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SendMessage handles POST /api/v1/sessions/:id/chat/messages. Replies
// arrive later on the event stream.
func (h *SessionHandler) SendMessage(c *gin.Context) {
	var req model.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	accepted, err := s.SendMessage(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err, "Failed to send message")
		return
	}
	status := http.StatusAccepted
	if !accepted {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"accepted": accepted})
}

// Onboarding handles GET /api/v1/sessions/:id/onboarding
func (h *SessionHandler) Onboarding(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := s.OnboardingSnapshot(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load onboarding")
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SelectOnboarding handles POST /api/v1/sessions/:id/onboarding/select
func (h *SessionHandler) SelectOnboarding(c *gin.Context) {
	var req model.OnboardingSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := s.SelectOnboardingOption(c.Request.Context(), req.Option)
	if err != nil {
		respondError(c, err, "Failed to select option")
		return
	}
	c.JSON(http.StatusOK, snap)
}

// NextOnboarding handles POST /api/v1/sessions/:id/onboarding/next
func (h *SessionHandler) NextOnboarding(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := s.NextOnboardingQuestion(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to continue")
		return
	}
	c.JSON(http.StatusOK, snap)
}

// BackOnboarding handles POST /api/v1/sessions/:id/onboarding/back
func (h *SessionHandler) BackOnboarding(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := s.PreviousOnboardingQuestion(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to go back")
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Events handles GET /api/v1/sessions/:id/events - SSE stream of view
// changes. The first event carries the current state of every screen.
func (h *SessionHandler) Events(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	events, cancel := s.Subscribe()
	defer cancel()

	ctx := c.Request.Context()
	flow, err := s.FlowSnapshot(ctx)
	if err != nil {
		respondError(c, err, "Failed to load conversation")
		return
	}
	chat, err := s.AssistantSnapshot(ctx)
	if err != nil {
		respondError(c, err, "Failed to load chat")
		return
	}
	onboarding, err := s.OnboardingSnapshot(ctx)
	if err != nil {
		respondError(c, err, "Failed to load onboarding")
		return
	}

	setSSEHeaders(c)
	c.Status(http.StatusOK)

	sendSSE(c, "snapshot", gin.H{
		"session":    s.Info(),
		"flow":       flow,
		"chat":       chat,
		"onboarding": onboarding,
	})
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-events:
			if !open {
				sendSSE(c, "closed", nil)
				flusher.Flush()
				return
			}
			sendSSE(c, ev.Type, ev)
			flusher.Flush()
		case <-ticker.C:
			sendSSEComment(c, "ping")
			flusher.Flush()
		}
	}
}
