package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"realestate/internal/config"
	"realestate/internal/middleware"
	"realestate/internal/model"
	"realestate/internal/repository"
	"realestate/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

type testAPI struct {
	router   *gin.Engine
	sessions *service.SessionManager
}

func newTestAPI(t *testing.T, maxSessions int) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepository()
	sessions := service.NewSessionManager(service.SessionConfig{
		MaxSessions: maxSessions,
		Flow: service.FlowTimings{
			Typing:         time.Millisecond,
			Processing:     time.Millisecond,
			Reveal:         time.Millisecond,
			SuccessVisible: time.Millisecond,
		},
		Assistant: service.AssistantTimings{
			TypingMin: time.Millisecond,
			IdleNudge: time.Hour,
		},
		OnboardingAnalyze: time.Millisecond,
	}, nil)
	t.Cleanup(sessions.Shutdown)

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(config.AuthConfig{JWTSecret: testSecret, AllowedAlgs: []string{"HS256"}}))
	RegisterRoutes(api, Handlers{
		Sessions:  NewSessionHandler(sessions),
		Catalog:   NewCatalogHandler(service.NewCatalog(repo, repo, 20, nil)),
		Documents: NewDocumentHandler(service.NewDocumentService(repo, repo, service.DocumentTimings{}, nil)),
		Settings:  NewSettingsHandler(service.NewSettingsService(repo)),
		Profile:   NewProfileHandler(service.NewProfileService(repo)),
	})

	return &testAPI{router: router, sessions: sessions}
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := middleware.SignToken(testSecret, &model.Principal{
		ID:          userID,
		DisplayName: "Test " + userID,
		Email:       userID + "@example.com",
	}, time.Hour)
	require.NoError(t, err)
	return token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *testAPI) createSession(t *testing.T, token string) model.SessionInfo {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/sessions", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	info := decode[model.SessionInfo](t, w)
	require.NotEmpty(t, info.ID)
	return info
}

func TestRequiresToken(t *testing.T) {
	api := newTestAPI(t, 10)

	for _, path := range []string{"/api/v1/profile", "/api/v1/settings", "/api/v1/listings"} {
		w := api.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestSessionFlowEndpoints(t *testing.T) {
	api := newTestAPI(t, 10)
	token := tokenFor(t, "u1")
	info := api.createSession(t, token)
	base := "/api/v1/sessions/" + info.ID

	w := api.do(t, http.MethodGet, base+"/flow", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[model.FlowSnapshot](t, w)
	assert.Equal(t, model.StepAwaitingAction, snap.Step)
	assert.Equal(t, []string{"Buy", "Rent"}, snap.Options)

	w = api.do(t, http.MethodPost, base+"/flow/select", token, model.SelectRequest{Selection: "Maybe"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[model.ConversationEffect](t, w).Accepted)

	w = api.do(t, http.MethodPost, base+"/flow/select", token, model.SelectRequest{Selection: "Buy"})
	require.Equal(t, http.StatusOK, w.Code)
	effect := decode[model.ConversationEffect](t, w)
	assert.True(t, effect.Accepted)
	assert.Equal(t, model.StepAwaitingBudget, effect.Step)

	other := tokenFor(t, "u2")
	w = api.do(t, http.MethodGet, base+"/flow", other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(t, http.MethodDelete, base, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodDelete, base, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(t, http.MethodGet, base+"/flow", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionLimit(t *testing.T) {
	api := newTestAPI(t, 1)
	token := tokenFor(t, "u1")

	api.createSession(t, token)
	w := api.do(t, http.MethodPost, "/api/v1/sessions", token, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestChatEndpoints(t *testing.T) {
	api := newTestAPI(t, 10)
	token := tokenFor(t, "u1")
	base := "/api/v1/sessions/" + api.createSession(t, token).ID

	w := api.do(t, http.MethodPost, base+"/chat/messages", token, model.ChatMessageRequest{Text: "   "})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]bool{"accepted": false}, decode[map[string]bool](t, w))

	w = api.do(t, http.MethodPost, base+"/chat/messages", token, model.ChatMessageRequest{Text: "What's the price range?"})
	require.Equal(t, http.StatusAccepted, w.Code)

	require.Eventually(t, func() bool {
		w := api.do(t, http.MethodGet, base+"/chat", token, nil)
		if w.Code != http.StatusOK {
			return false
		}
		snap := decode[model.AssistantSnapshot](t, w)
		return len(snap.Entries) >= 3 && !snap.Entries[2].IsPending()
	}, 2*time.Second, 5*time.Millisecond)
}

func TestOnboardingEndpoints(t *testing.T) {
	api := newTestAPI(t, 10)
	token := tokenFor(t, "u1")
	base := "/api/v1/sessions/" + api.createSession(t, token).ID

	w := api.do(t, http.MethodPost, base+"/onboarding/next", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, base+"/onboarding/select", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, base+"/onboarding/select", token, model.OnboardingSelectRequest{Option: "Castle"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, base+"/onboarding/select", token, model.OnboardingSelectRequest{Option: "Villa"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Villa", decode[model.OnboardingSnapshot](t, w).Selected)

	w = api.do(t, http.MethodPost, base+"/onboarding/next", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[model.OnboardingSnapshot](t, w)
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, "Question 2 of 5", snap.ProgressTxt)

	w = api.do(t, http.MethodPost, base+"/onboarding/back", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[model.OnboardingSnapshot](t, w).Index)

	w = api.do(t, http.MethodGet, base+"/onboarding", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.OnboardingAsking, decode[model.OnboardingSnapshot](t, w).Status)
}

func TestListingsEndpoint(t *testing.T) {
	api := newTestAPI(t, 10)
	token := tokenFor(t, "u1")

	w := api.do(t, http.MethodGet, "/api/v1/listings?mode=rent", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[model.ListingsResponse](t, w)
	assert.Equal(t, "Properties for Rent", resp.Title)
	assert.Equal(t, 3, resp.Total)

	w = api.do(t, http.MethodGet, "/api/v1/listings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decode[model.ListingsResponse](t, w).Total)

	w = api.do(t, http.MethodGet, "/api/v1/listings?mode=auction", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchEndpoints(t *testing.T) {
	api := newTestAPI(t, 10)
	token := tokenFor(t, "u1")

	w := api.do(t, http.MethodGet, "/api/v1/search?q=Dubai", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[model.SearchResponse](t, w)
	assert.Len(t, resp.Results, 2)
	assert.False(t, resp.Empty)

	w = api.do(t, http.MethodGet, "/api/v1/search?q=", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[model.SearchResponse](t, w).Empty)

	w = api.do(t, http.MethodGet, "/api/v1/search/filter?q=islamabad", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	filtered := decode[model.SearchResponse](t, w)
	require.Len(t, filtered.Results, 1)
	assert.Equal(t, "Commercial Plaza", filtered.Results[0].Title)

	w = api.do(t, http.MethodGet, "/api/v1/search/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[struct {
		History []model.SearchHistoryItem `json:"history"`
		Total   int                       `json:"total"`
	}](t, w)
	require.Equal(t, 1, history.Total)
	assert.Equal(t, "Dubai", history.History[0].Query)
}

func TestDocumentEndpoints(t *testing.T) {
	api := newTestAPI(t, 10)
	token := tokenFor(t, "u1")

	w := api.do(t, http.MethodGet, "/api/v1/documents", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[model.DocumentsResponse](t, w).Documents, 3)

	w = api.do(t, http.MethodPost, "/api/v1/documents", token, model.UploadDocumentRequest{Type: "Passport"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/documents", token, model.UploadDocumentRequest{Type: model.DocumentTypePayment, FileName: "receipt.pdf"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	result := decode[model.UploadResult](t, w)
	assert.Equal(t, "Payment Document: receipt.pdf", result.Document.Title)
	assert.False(t, result.OpenView)
	assert.Equal(t, 4, result.Count)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("type", model.DocumentTypeID))
	part, err := mw.CreateFormFile("file", "cnic.jpg")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0xff}, 1500))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	result = decode[model.UploadResult](t, w)
	assert.Equal(t, "ID Document: cnic.jpg", result.Document.Title)
	assert.Equal(t, "1.5 kB", result.Document.Size)
	assert.True(t, result.OpenView)
	assert.Len(t, result.Notices, 3)
	assert.Equal(t, 5, result.Count)
}

func TestSettingsEndpoints(t *testing.T) {
	api := newTestAPI(t, 10)
	token := tokenFor(t, "u1")

	w := api.do(t, http.MethodGet, "/api/v1/settings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	settings := decode[model.Settings](t, w)
	assert.True(t, settings.Notifications)
	assert.Equal(t, "1.0.0", settings.Version)

	w = api.do(t, http.MethodPut, "/api/v1/settings/dark_mode", token, map[string]bool{"enabled": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dark mode enabled", decode[model.UpdateSettingResponse](t, w).Notice)

	w = api.do(t, http.MethodPut, "/api/v1/settings/dark_mode", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, "/api/v1/settings/volume", token, map[string]bool{"enabled": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/settings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[model.Settings](t, w).DarkMode)
}

func TestProfileEndpoints(t *testing.T) {
	api := newTestAPI(t, 10)
	token := tokenFor(t, "u1")

	w := api.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[model.Profile](t, w)
	assert.Equal(t, "Test u1", profile.Name)
	assert.Equal(t, "u1@example.com", profile.Email)
	assert.Equal(t, service.PlaceholderImageURL, profile.PhotoURL)
	assert.Equal(t, "Member since: January 2024", profile.MemberSince)

	w = api.do(t, http.MethodPost, "/api/v1/profile/stats/views/increment", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 49, decode[model.ProfileStatistic](t, w).Value)

	w = api.do(t, http.MethodPost, "/api/v1/profile/stats/saved/increment", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileUpdateEndpoint(t *testing.T) {
	api := newTestAPI(t, 10)
	token := tokenFor(t, "u1")

	w := api.do(t, http.MethodPut, "/api/v1/profile", token, model.UpdateProfileRequest{Name: "Al", Phone: "123"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[struct {
		Fields map[string]string `json:"fields"`
	}](t, w)
	assert.Equal(t, map[string]string{
		"name":  "Name is too short",
		"phone": "Enter a valid phone number",
	}, body.Fields)

	w = api.do(t, http.MethodPut, "/api/v1/profile", token, model.UpdateProfileRequest{
		Name:     "Ali Raza",
		Phone:    "03211234567",
		Location: "Karachi",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Profile updated successfully", decode[model.UpdateProfileResponse](t, w).Notice)

	w = api.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[model.Profile](t, w)
	assert.Equal(t, "Ali Raza", profile.Name)
	assert.Equal(t, "03211234567", profile.Phone)
	assert.Equal(t, "Karachi", profile.Location)
}

func TestSellEndpoint(t *testing.T) {
	api := newTestAPI(t, 10)
	token := tokenFor(t, "u1")

	w := api.do(t, http.MethodPost, "/api/v1/listings", token, model.SellPropertyRequest{
		Title:   "Studio near Blue Area",
		Price:   "PKR 4,500,000",
		Address: "Blue Area, Islamabad",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please add at least one photo")

	w = api.do(t, http.MethodPost, "/api/v1/listings", token, model.SellPropertyRequest{
		Title:   "Studio near Blue Area",
		Price:   "PKR 4,500,000",
		Address: "Blue Area, Islamabad",
		Photos:  []string{"studio.jpg"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[model.SellPropertyResponse](t, w)
	assert.Equal(t, "Property submitted successfully!", resp.Notice)
	assert.Equal(t, "Blue Area, Islamabad", resp.Listing.Record.Location)

	w = api.do(t, http.MethodPost, "/api/v1/listings", "", model.SellPropertyRequest{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFAQEndpoint(t *testing.T) {
	api := newTestAPI(t, 10)

	w := api.do(t, http.MethodGet, "/api/v1/help/faq", tokenFor(t, "u1"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		FAQ   []model.FAQItem `json:"faq"`
		Total int             `json:"total"`
	}](t, w)
	assert.Len(t, body.FAQ, 5)
	assert.Equal(t, 5, body.Total)
}
