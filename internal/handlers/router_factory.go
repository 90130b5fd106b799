package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"studyapp/internal/config"
	"studyapp/internal/middleware"
	"studyapp/internal/observability"
	"studyapp/internal/shell"
	"studyapp/internal/version"
)

// IMPORTANT: When adding new API endpoints, make sure to:
// 1. Add them to middleware/openapi/openapi.yaml, undocumented /v1 routes answer 404
// 2. Name the request body schema there if the endpoint takes one
// 3. Update any relevant tests

// RouterDeps are the services the router hands to its handlers.
type RouterDeps struct {
	Content  shell.ContentProvider
	Registry *shell.Registry
	Schemas  *middleware.SchemaLoader
	Limiter  *middleware.RateLimiter
}

// NewRouter creates a new router with all the necessary middleware and routes
func NewRouter(cfg *config.Config, deps RouterDeps, logger *observability.Logger) *gin.Engine {
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	// Setup Gin mode
	switch {
	case cfg.IsTest:
		gin.SetMode(gin.TestMode)
	case cfg.Server.Debug:
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.ErrorRecoveryMiddleware(logger))

	// Add HTTP request logging middleware using our observability logger
	router.Use(func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		fields := map[string]interface{}{
			"http.method":      c.Request.Method,
			"http.path":        c.Request.URL.Path,
			"http.status_code": statusCode,
			"http.latency_ms":  latency.Milliseconds(),
			"http.client_ip":   c.ClientIP(),
			"http.user_agent":  c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			fields["http.error"] = c.Errors.String()
		}
		if statusCode >= 400 {
			fields["http.response_size"] = c.Writer.Size()
			if statusCode >= 500 {
				fields["http.error_type"] = "server_error"
			} else {
				fields["http.error_type"] = "client_error"
			}
		}

		if statusCode >= 500 {
			logger.Error(c.Request.Context(), "HTTP request failed", nil, fields)
		} else if statusCode >= 400 {
			logger.Warn(c.Request.Context(), "HTTP request warning", fields)
		} else {
			logger.Debug(c.Request.Context(), "HTTP request", fields)
		}
	})

	// Health check endpoint (defined before the tracing middleware)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.OpenTelemetry.ServiceName})
	})

	// Add OpenTelemetry middleware for HTTP tracing and context propagation with automatic error attributes
	router.Use(observability.GinTracing(cfg.OpenTelemetry.ServiceName)...)

	router.RedirectTrailingSlash = false

	// Setup CORS middleware
	if len(cfg.Server.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.Server.CORSOrigins
		corsConfig.AllowCredentials = true
		corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-Requested-With"}
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
		router.Use(cors.New(corsConfig))
	}

	// Setup session middleware
	store := cookie.NewStore([]byte(cfg.Server.SessionSecret))
	sessionOpts := sessions.Options{
		Path:     config.SessionPath,
		MaxAge:   int(config.SessionMaxAge.Seconds()),
		HttpOnly: config.SessionHTTPOnly,
		Secure:   config.SessionSecure,
	}
	if cfg.Server.Debug {
		sessionOpts.SameSite = http.SameSiteDefaultMode
	} else {
		sessionOpts.SameSite = http.SameSiteLaxMode
	}
	store.Options(sessionOpts)
	router.Use(sessions.Sessions(config.SessionName, store))

	// Security middleware
	secureConfig := secure.DefaultConfig()
	secureConfig.SSLRedirect = false
	secureConfig.IsDevelopment = cfg.Server.Debug || cfg.IsTest
	secureConfig.ContentSecurityPolicy = config.DefaultCSP
	router.Use(secure.New(secureConfig))

	router.StaticFS("/assets", http.FS(assets()))
	router.GET("/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", middleware.OpenAPISpec())
	})

	shellHandler := NewShellHandler(deps.Registry, logger)
	grammarHandler := NewGrammarHandler(logger)
	contentHandler := NewContentHandler(deps.Content, logger)
	routeListing := NewRouteListingHandler(cfg.OpenTelemetry.ServiceName, deps.Schemas)

	router.GET("/", middleware.RequireSession(logger), shellHandler.GetPage)

	v1 := router.Group("/v1")
	v1.Use(middleware.RequestValidationMiddleware(deps.Schemas, logger))
	{
		v1.GET("/version", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"service":   cfg.OpenTelemetry.ServiceName,
				"version":   version.Version,
				"commit":    version.Commit,
				"buildTime": version.BuildTime,
			})
		})
		v1.GET("/routes", routeListing.GetRouteListingJSON)

		// Stateless content and paradigm endpoints
		v1.GET("/pillars", grammarHandler.GetPillars)
		v1.GET("/pillars/:pillar", grammarHandler.GetPillar)
		v1.GET("/paradigm", grammarHandler.GetParadigm)
		v1.GET("/verbs/:type", contentHandler.GetVerbs)
		v1.GET("/conversations", contentHandler.GetConversations)
		v1.GET("/grammar/:list", contentHandler.GetGrammarList)

		// Per-session view state
		session := v1.Group("")
		session.Use(middleware.RequireSession(logger))
		{
			session.GET("/tabs", shellHandler.GetTabs)
			session.GET("/tabs/:tab", shellHandler.GetTab)
			session.GET("/tabs/:tab/html", shellHandler.GetTabHTML)
			session.GET("/search", shellHandler.Search)
			session.GET("/preferences", shellHandler.GetPreferences)
			session.PUT("/preferences", shellHandler.PutPreferences)
			session.POST("/preferences/theme/toggle", shellHandler.ToggleTheme)
			session.POST("/preferences/translations/toggle", shellHandler.ToggleTranslations)
			session.POST("/speech", deps.Limiter.Middleware(logger), shellHandler.Speak)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/v1/") || strings.HasPrefix(c.Request.URL.Path, "/assets/") {
			StandardizeHTTPError(c, http.StatusNotFound, "Not found", c.Request.Method+" "+c.Request.URL.Path)
			return
		}
		c.Redirect(http.StatusFound, "/")
	})

	routeListing.CollectRoutes(router)
	return router
}
