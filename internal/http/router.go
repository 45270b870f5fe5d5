// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, the auto-ban
// gate, CORS, and security headers.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/stagemate/go-community-backend/docs"
	"github.com/stagemate/go-community-backend/internal/auth"
	"github.com/stagemate/go-community-backend/internal/cache"
	"github.com/stagemate/go-community-backend/internal/config"
	"github.com/stagemate/go-community-backend/internal/http/handlers"
	"github.com/stagemate/go-community-backend/internal/http/middleware"
	"github.com/stagemate/go-community-backend/internal/oauth"
	"github.com/stagemate/go-community-backend/internal/services"
	"github.com/stagemate/go-community-backend/internal/uploads"
)

// Deps bundles the external dependencies injected into the router.
type Deps struct {
	DB        *gorm.DB
	Store     *cache.Store
	Tokens    *auth.Service
	OAuth     oauth.Verifier
	Presigner *uploads.Presigner // optional, nil disables uploads
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine: observability (tracing, metrics), the auto-ban gate, CORS and
// security headers, health and metrics endpoints, and the public API under
// the configured base path.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. Auto-ban gate (shared per-IP budget)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB); uploads go straight to S3
	r.Use(limitBody(1 << 20))

	// 6) Gzip for listing-heavy JSON payloads
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Shared per-IP request budget with auto-ban
	r.Use(middleware.AutoBan(deps.Store, cfg.AutoBan))

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/store
	notifSvc := &services.NotificationService{DB: deps.DB}
	expSvc := &services.ExpService{DB: deps.DB, Cfg: cfg.Exp, Notifier: notifSvc}
	authSvc := &services.AuthService{DB: deps.DB, Tokens: deps.Tokens, OAuth: deps.OAuth}
	postSvc := &services.PostService{DB: deps.DB, Exp: expSvc}
	reactionSvc := &services.ReactionService{DB: deps.DB, Notifier: notifSvc}
	commentSvc := &services.CommentService{DB: deps.DB, Exp: expSvc, Notifier: notifSvc}
	bookmarkSvc := &services.BookmarkService{DB: deps.DB}
	eventSvc := &services.EventService{DB: deps.DB}

	var uploadSvc handlers.UploadService
	if deps.Presigner != nil {
		uploadSvc = deps.Presigner
	}
	h := handlers.New(authSvc, postSvc, reactionSvc, commentSvc, bookmarkSvc, eventSvc, notifSvc, uploadSvc)

	requireAuth := middleware.RequireAuth(deps.Tokens)
	// Public reads accept an access token when present so access logs carry
	// the user id, but never require one.
	optionalAuth := middleware.OptionalAuth(deps.Tokens)
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRPS, cfg.LoginBurst).Handler()

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Auth
		api.POST("/auth/login/:provider", loginLimiter, h.Login)
		api.POST("/auth/signup", loginLimiter, h.Signup)
		api.POST("/auth/refresh", loginLimiter, h.Refresh)
		api.POST("/auth/logout", requireAuth, h.Logout)

		// Users
		api.GET("/users/me", requireAuth, h.Me)
		api.GET("/users/me/bookmarks", requireAuth, h.ListBookmarks)
		api.GET("/users/me/notifications", requireAuth, h.ListNotifications)
		api.PUT("/users/me/notifications/:id/read", requireAuth, h.ReadNotification)

		// Events
		api.GET("/events", optionalAuth, h.ListEvents)
		api.GET("/events/:id", optionalAuth, h.GetEvent)
		api.POST("/events/:id/bookmark", requireAuth, h.ToggleBookmark)

		// Posts
		api.GET("/posts", optionalAuth, h.ListPosts)
		api.POST("/posts", requireAuth, h.CreatePost)
		api.GET("/posts/:id", optionalAuth, h.GetPost)
		api.PUT("/posts/:id", requireAuth, h.UpdatePost)
		api.DELETE("/posts/:id", requireAuth, h.DeletePost)
		api.POST("/posts/:id/reaction", requireAuth, h.ToggleReaction)
		api.POST("/posts/:id/report", requireAuth, h.ReportPost)

		// Comments
		api.GET("/posts/:id/comments", optionalAuth, h.ListComments)
		api.POST("/posts/:id/comments", requireAuth, h.CreateComment)
		api.PUT("/comments/:id", requireAuth, h.UpdateComment)
		api.DELETE("/comments/:id", requireAuth, h.DeleteComment)

		// Uploads
		api.POST("/uploads/presign", requireAuth, h.PresignUpload)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
