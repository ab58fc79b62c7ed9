package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "github.com/ranznz/wage-survey/internal/auth"
	"github.com/ranznz/wage-survey/internal/handlers"
	"github.com/ranznz/wage-survey/internal/middleware"
	"github.com/ranznz/wage-survey/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers the
// survey intake and staff routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	// Basic rate limiting: 100 requests/minute per IP+path
	r.Use(middleware.RateLimit(100, time.Minute))

	// Health endpoint (public)
	r.GET("/health", handlers.Health(db))

	credentials, err := iauth.NewCredentialService(db)
	if err != nil {
		return nil, err
	}
	surveys, err := services.NewSurveyService(db)
	if err != nil {
		return nil, err
	}
	exports, err := services.NewExportService(db)
	if err != nil {
		return nil, err
	}

	authHandler := handlers.NewAuthHandler(credentials, jwt)
	surveyHandler := handlers.NewSurveyHandler(surveys)
	exportHandler := handlers.NewExportHandler(exports)

	// Public routes
	r.POST("/api/submit-survey", surveyHandler.Submit)
	r.POST("/api/auth/login", authHandler.Login)

	// The change-password route accepts tokens with a pending forced change;
	// everything else behind Auth rejects them.
	r.POST("/api/auth/change-password", middleware.AuthAllowPendingPassword(jwt), authHandler.ChangePassword)

	admin := r.Group("/api/admin")
	admin.Use(middleware.Auth(jwt))
	{
		admin.GET("/export", exportHandler.Export)
	}

	// Metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Fallbacks
	r.NoRoute(middleware.NotFoundHandler)
	r.NoMethod(middleware.MethodNotAllowedHandler)

	return r, nil
}
