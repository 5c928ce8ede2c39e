package http

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/auth"
	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/config"
	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/store"
	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/ws"
)

// Env carries the dependencies every handler needs.
type Env struct {
	Store *store.Store
	Hub   *ws.Hub
	Auth  *auth.Manager
}

// SetupRoutes configures all application routes and middleware. Background
// work started here stops when ctx is done.
func SetupRoutes(ctx context.Context, router *gin.Engine, env *Env, cfg config.Config) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: cfg.CORSOrigin != "*",
	}))

	loginLimiter := NewIPRateLimiter(rate.Limit(cfg.LoginRateRPS), cfg.LoginRateBurst)
	go loginLimiter.janitor(ctx, 10*time.Minute, 30*time.Minute)

	voteLimiter := NewIPRateLimiter(rate.Limit(cfg.VoteRateRPS), cfg.VoteRateBurst)
	go voteLimiter.janitor(ctx, 10*time.Minute, 30*time.Minute)
	bySession := func(c *gin.Context) string { return sessionFrom(c).Subject }

	router.GET("/health", env.Health)

	api := router.Group("/api")
	{
		api.GET("/candidates", env.ListCandidates)
		api.GET("/candidates/:id", env.GetCandidate)
		api.GET("/results", env.GetResults)
		api.GET("/settings", env.GetSettings)
		api.GET("/news", env.GetNews)
		api.GET("/timeline", env.GetTimeline)

		login := api.Group("/auth", RateLimitMiddleware(loginLimiter))
		login.POST("/student/login", env.StudentLogin)
		login.POST("/admin/login", env.AdminLogin)

		student := api.Group("", StudentAuthMiddleware(env.Auth))
		student.GET("/me", env.Me)
		student.POST("/vote", KeyedRateLimitMiddleware(voteLimiter, bySession), env.SubmitVote)
	}

	admin := api.Group("/admin", AdminAuthMiddleware(env.Auth))
	{
		admin.GET("/stats", env.GetStats)

		admin.POST("/candidates", env.CreateCandidate)
		admin.PUT("/candidates/:id", env.UpdateCandidate)
		admin.DELETE("/candidates/:id", env.DeleteCandidate)
		admin.DELETE("/candidates", env.DeleteAllCandidates)
		admin.POST("/candidates/import", env.ImportCandidates)
		admin.GET("/candidates/export", env.ExportCandidates)

		admin.GET("/voters", env.ListVoters)
		admin.PUT("/voters/:nis", env.SaveVoter)
		admin.DELETE("/voters/:nis", env.DeleteVoter)
		admin.DELETE("/voters", env.DeleteAllVoters)
		admin.POST("/voters/import", env.ImportVoters)
		admin.GET("/voters/export", env.ExportVoters)

		admin.PUT("/settings", env.UpdateSettings)
		admin.GET("/results/export", env.ExportResults)

		admin.GET("/users", env.ListAdmins)
		admin.PUT("/users/:username", env.SaveAdmin)
		admin.DELETE("/users/:username", env.DeleteAdmin)
	}

	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(env.Hub, c.Writer, c.Request)
	})
}
