package v1

import (
	"time"

	"job-management-backend/config"
	"job-management-backend/internal/delivery/http/middleware"
	"job-management-backend/internal/domain"
	"job-management-backend/internal/usecase"
	"job-management-backend/pkg/validation"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type RouterDeps struct {
	CandidateUC domain.CandidateUsecase
	HealthUC    usecase.HealthUsecase
	Translator  *validation.Translator
	Locales     *validation.LocaleMatcher
	Tokens      middleware.TokenParser
	RateLimiter *middleware.RateLimiter
	Config      *config.Config
	Logger      *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Content-Language", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.Locale(deps.Locales))
	r.Use(middleware.ErrorHandler(deps.Translator, deps.Logger))

	v1 := r.Group("/v1")

	NewHealthHandler(v1, deps.HealthUC)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authLimit := deps.RateLimiter.Middleware(middleware.AuthRateLimitConfig(deps.Config.RateLimitAuth, deps.Config.RateLimitWindow))
	NewCandidateHandler(v1, deps.CandidateUC, middleware.AuthMiddleware(deps.Tokens), authLimit)

	return r
}
