package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dataviz-ai/chart-insights/internal/api/handlers"
	"github.com/dataviz-ai/chart-insights/internal/api/middleware"
	"github.com/dataviz-ai/chart-insights/internal/api/response"
	"github.com/dataviz-ai/chart-insights/internal/config"
	"github.com/dataviz-ai/chart-insights/internal/repository"
	"github.com/dataviz-ai/chart-insights/internal/suggest"
	"github.com/dataviz-ai/chart-insights/pkg/auth"
)

// NewRouter creates and configures the Gin router with all routes and middleware.
func NewRouter(pool *pgxpool.Pool, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.CorrelationMiddleware())
	r.Use(middleware.StructuredLogging())

	// Health check (no auth required)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "chart-insights",
		})
	})

	// Initialize repositories
	uploadRepo := repository.NewUploadRepository(pool)
	chartRepo := repository.NewChartRepository(pool)

	// Initialize the suggestion engine once at startup; handlers share it.
	engine := suggest.NewEngine(cfg.OpenAI)

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(uploadRepo, cfg)
	analyzeHandler := handlers.NewAnalyzeHandler(engine, cfg)
	chartHandler := handlers.NewChartHandler(chartRepo)

	// API v1 routes (authenticated)
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(&cfg.JWT))
	{
		// Analysis — open to every plan
		v1.POST("/analyze", analyzeHandler.HandleAnalyze)

		// Uploads
		v1.POST("/uploads", uploadHandler.HandleUpload)
		v1.GET("/uploads", uploadHandler.HandleListUploads)
		v1.GET("/uploads/:upload_id", uploadHandler.HandleGetUpload)

		// Saved charts — saving is a paid-tier feature
		v1.POST("/charts",
			middleware.RequirePlan("pro", "admin"),
			chartHandler.HandleSaveChart,
		)
		v1.GET("/charts", chartHandler.HandleListCharts)
		v1.DELETE("/charts/:chart_id", chartHandler.HandleDeleteChart)
	}

	// Token generation endpoint (dev only — generates test JWTs)
	r.POST("/dev/token", devTokenHandler(cfg))

	return r
}

// devTokenHandler returns a handler that generates test JWTs for development.
func devTokenHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			UserID string `json:"user_id"`
			Email  string `json:"email"`
			Plan   string `json:"plan"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "invalid request"})
			return
		}

		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			c.JSON(400, gin.H{"error": "invalid user_id"})
			return
		}
		if req.Plan == "" {
			req.Plan = "free"
		}

		token, err := auth.GenerateToken(cfg.JWT.Secret, cfg.JWT.Issuer, userID, req.Email, req.Plan, cfg.JWT.ExpiryHours)
		if err != nil {
			response.InternalError(c, "failed to generate token")
			return
		}

		c.JSON(200, gin.H{"token": token})
	}
}
