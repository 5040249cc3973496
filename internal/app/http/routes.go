package routes

import (
	authapi "deckshare-app/internal/api/auth"
	decklistsapi "deckshare-app/internal/api/decklists"
	decksapi "deckshare-app/internal/api/decks"
	"deckshare-app/internal/api/donations"
	socialapi "deckshare-app/internal/api/social"
	"deckshare-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.POST("/donations/webhook", donations.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/verify", authapi.Verify)
	public.POST("/resend-verification", authapi.ResendVerification)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Readable without an account; identity only refines the response.
	browse := r.Group("/")
	browse.Use(middleware.OptionalAuth())
	browse.GET("/decklists/search-form", decklistsapi.SearchForm)
	browse.GET("/decklists/list/:type", decklistsapi.List)
	browse.GET("/decklists/:id", decklistsapi.View)
	browse.GET("/decklists/:id/export", decklistsapi.Download)
	browse.GET("/donators", donations.Donators)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(), middleware.SanitizeAndCleanInputMiddleware())

	auth.GET("/profile", authapi.Profile)
	auth.PUT("/profile", authapi.UpdateProfile)

	auth.GET("/decks", decksapi.List)
	auth.GET("/decks/:uuid", decksapi.View)
	auth.POST("/decks", decksapi.Create)
	auth.PUT("/decks/:uuid", decksapi.Save)
	auth.DELETE("/decks/:uuid", decksapi.Delete)

	auth.GET("/decks/:uuid/publish", decklistsapi.PublishForm)
	auth.POST("/decklists", decklistsapi.Create)
	auth.PUT("/decklists/:id", decklistsapi.Save)
	auth.DELETE("/decklists/:id", decklistsapi.Delete)

	auth.POST("/social/favorite", socialapi.Favorite)
	auth.POST("/social/like", socialapi.Vote)
	auth.POST("/social/comment", socialapi.Comment)
	auth.PUT("/social/comments/:id/visibility", socialapi.SetCommentVisibility)

	auth.POST("/donations/checkout", donations.CreateCheckoutSession)

	// Admin
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"), middleware.SanitizeAndCleanInputMiddleware())

	admin.POST("/tournaments", decklistsapi.CreateTournament)
	admin.PUT("/tournaments/:id", decklistsapi.UpdateTournament)
}
