package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"escape-ops-console/config"
	"escape-ops-console/internal/mw"
)

// NewRouter creates and configures the console API router.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	limit := rate.Limit(10)
	if cfg.RateLimitPerSec > 0 {
		limit = rate.Limit(cfg.RateLimitPerSec)
	}
	rateLimiter := mw.RateLimiter(limit, 5, cfg.RequestIPHeader)

	cacheTTL := 10 * time.Second
	if cfg.CacheTTLSeconds > 0 {
		cacheTTL = time.Duration(cfg.CacheTTLSeconds) * time.Second
	}
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	console := r.Group("/console")
	console.Use(rateLimiter)
	{
		console.GET("/board", h.GetBoard)
		console.GET("/rooms", h.GetRooms)
		console.PUT("/rooms/:id", h.UpdateRoom)
		console.DELETE("/rooms/:id", h.DeleteRoom)

		console.GET("/alert", h.GetAlert)
		console.POST("/alert/ignore", h.IgnoreAlert)
		console.POST("/alert/resolve", h.ResolveAlert)
		console.GET("/errors", h.GetErrorHistory)
		console.POST("/errors/:id/resolve", h.ResolveErrorByID)

		console.GET("/escort", h.GetEscort)
		console.POST("/escort/guided", h.MarkGuided)

		console.GET("/registration", h.GetRegistration)
		console.POST("/registration", h.SubmitRegistration)
		console.POST("/registration/confirm", h.ConfirmRegistration)
		console.POST("/registration/decline", h.DeclineRegistration)

		console.GET("/groups", h.GetGroups)
		console.POST("/groups/:id/certificate", h.PrintCertificate)
		console.POST("/groups/:id/snack", h.GiveSnack)

		console.GET("/rankings", h.GetRankings)
		console.GET("/journal", h.GetJournal)

		// Stats are a stateless passthrough and safe to memoize.
		console.GET("/stats", caching, h.GetQuestionStats)
		console.GET("/stats/:id", caching, h.GetQuestionDetail)

		console.GET("/subscriptions", h.GetSubscription)
		console.PUT("/subscriptions", h.PutSubscription)
		console.DELETE("/subscriptions", h.DeleteSubscription)
		console.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
