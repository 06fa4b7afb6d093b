package handler

import "github.com/gin-gonic/gin"

// Handlers groups the API handlers registered by RegisterRoutes
type Handlers struct {
	Sessions  *SessionHandler
	Catalog   *CatalogHandler
	Documents *DocumentHandler
	Settings  *SettingsHandler
	Profile   *ProfileHandler
}

// RegisterRoutes mounts the API on group. Authentication middleware must
// already be applied to the group.
func RegisterRoutes(api *gin.RouterGroup, h Handlers) {
	// Session endpoints
	sessions := api.Group("/sessions")
	{
		sessions.POST("", h.Sessions.Create)
		sessions.DELETE("/:id", h.Sessions.Delete)
		sessions.GET("/:id/flow", h.Sessions.Flow)
		sessions.POST("/:id/flow/select", h.Sessions.SelectFlow)
		sessions.GET("/:id/chat", h.Sessions.Chat)
		sessions.POST("/:id/chat/messages", h.Sessions.SendMessage)
		sessions.GET("/:id/events", h.Sessions.Events) // Streaming view changes
		sessions.GET("/:id/onboarding", h.Sessions.Onboarding)
		sessions.POST("/:id/onboarding/select", h.Sessions.SelectOnboarding)
		sessions.POST("/:id/onboarding/next", h.Sessions.NextOnboarding)
		sessions.POST("/:id/onboarding/back", h.Sessions.BackOnboarding)
	}

	// Catalog endpoints
	api.GET("/listings", h.Catalog.Listings)
	api.POST("/listings", h.Catalog.Submit)
	api.GET("/search", h.Catalog.Search)
	api.GET("/search/filter", h.Catalog.Filter)
	api.GET("/search/history", h.Catalog.History)

	// Documents
	api.GET("/documents", h.Documents.List)
	api.POST("/documents", h.Documents.Upload)

	// Settings and profile
	api.GET("/settings", h.Settings.Get)
	api.PUT("/settings/:name", h.Settings.Update)
	api.GET("/profile", h.Profile.Get)
	api.PUT("/profile", h.Profile.Update)
	api.POST("/profile/stats/:name/increment", h.Profile.IncrementStat)
	api.GET("/help/faq", h.Profile.FAQ)
}
