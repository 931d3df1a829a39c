package bootstrap

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/go-storybook/storybook/internal/config"
	"github.com/go-storybook/storybook/internal/handlers"
	"github.com/go-storybook/storybook/internal/metrics"
	"github.com/go-storybook/storybook/internal/middleware"
	"github.com/go-storybook/storybook/internal/store"
	"github.com/go-storybook/storybook/internal/templates"
)

// setupRouter creates and configures the gin router
func setupRouter(
	cfg *config.Config,
	db *store.Store,
	h handlerSet,
	metricsRecorder metrics.Recorder,
	webFS fs.FS,
) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(metrics.HTTPMetricsMiddleware(metricsRecorder))

	setupSessionMiddleware(r, cfg)
	r.Use(middleware.LoadPrincipal(h.userService))

	tmpl, err := templates.Load(webFS)
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	if err := setupStaticFiles(r, webFS); err != nil {
		return nil, err
	}

	setupHealthEndpoint(r, db)
	setupMetricsEndpoint(r, cfg)
	setupRoutes(r, h)

	return r, nil
}

// setupSessionMiddleware configures the signed cookie session store
func setupSessionMiddleware(r *gin.Engine, cfg *config.Config) {
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(middleware.SessionName, sessionStore))
}

// setupStaticFiles serves the embedded stylesheet and asset tree
func setupStaticFiles(r *gin.Engine, webFS fs.FS) error {
	staticFS, err := fs.Sub(webFS, "web/static")
	if err != nil {
		return err
	}
	r.StaticFS("/static", http.FS(staticFS))
	return nil
}

// setupHealthEndpoint registers the liveness probe
func setupHealthEndpoint(r *gin.Engine, db *store.Store) {
	r.GET("/health", func(c *gin.Context) {
		if err := db.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})
}

// setupMetricsEndpoint registers the Prometheus scrape endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	if !cfg.MetricsEnabled {
		return
	}
	r.GET("/metrics",
		middleware.MetricsAuth(cfg.MetricsToken),
		gin.WrapH(promhttp.Handler()),
	)
}

// setupRoutes configures all application routes
func setupRoutes(r *gin.Engine, h handlerSet) {
	// Public pages
	r.GET("/", middleware.RequireGuest(), h.page.Home)
	r.GET("/about", h.page.About)

	// OAuth login flow
	authGroup := r.Group("/auth")
	{
		authGroup.GET("/:provider", h.oauth.LoginWithProvider)
		authGroup.GET("/:provider/callback", h.oauth.OAuthCallback)
	}
	r.GET("/logout", h.auth.Logout)

	// Everything below requires a signed-in member
	protected := r.Group("", middleware.RequireAuth())
	{
		protected.GET("/profile", h.user.Profile)
		protected.GET("/users", h.user.ListUsers)
		protected.GET("/user/:id", h.user.ShowUser)
		protected.POST("/addEmail", h.user.AddEmail)
		protected.POST("/addPhone", h.user.AddPhone)
		protected.POST("/addLocation", h.user.AddLocation)

		protected.GET("/addPost", h.post.AddPostPage)
		protected.POST("/savePost", h.post.SavePost)
		protected.GET("/editPost/:id", h.post.EditPostPage)
		protected.PUT("/editingPost/:id", h.post.UpdatePost)
		protected.DELETE("/:id", h.post.DeletePost)
		protected.GET("/posts", h.post.PublicPosts)
		protected.GET("/showposts/:id", h.post.UserPosts)
		protected.POST("/addComment/:id", h.post.AddComment)
	}

	r.NoRoute(handlers.NotFound)
}
