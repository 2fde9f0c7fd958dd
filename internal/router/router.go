package router

import (
	"context"

	"innovatube/backend/internal/auth"
	"innovatube/backend/internal/handlers"
	"innovatube/backend/internal/middleware"
	"innovatube/backend/internal/services"
	"innovatube/backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps reúne tudo o que as rotas precisam; montado em cmd/server.
type Deps struct {
	Config    *config.AppConfig
	Log       *zap.Logger
	Sessions  auth.SessionValidator
	Auth      *services.AuthService
	Favorites *services.FavoriteService
	Videos    handlers.VideoSearcher
	Ping      handlers.PingFunc
}

// SetupRouter configura e retorna uma instância do Gin Engine.
// ctx limita a vida das goroutines de limpeza dos rate limiters.
func SetupRouter(ctx context.Context, deps Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(middleware.GinZap(deps.Log))
	router.Use(middleware.GinRecovery(deps.Log))
	router.Use(middleware.CORS(deps.Config.CORSAllowedOrigins, deps.Config.CORSAllowVercel))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", handlers.HealthCheck(deps.Ping, deps.Log))

	authLimiter := middleware.NewRateLimiter(ctx, deps.Config.AuthRateLimitRPS, deps.Config.AuthRateLimitBurst, deps.Log)
	apiLimiter := middleware.NewRateLimiter(ctx, deps.Config.APIRateLimitRPS, deps.Config.APIRateLimitBurst, deps.Log)
	requireAuth := auth.AuthMiddleware(deps.Sessions)

	api := router.Group("/api")
	setupAuthRoutes(api, deps, authLimiter.Middleware(), requireAuth)
	setupYouTubeRoutes(api, deps, apiLimiter.Middleware(), requireAuth)
	setupFavoritesRoutes(api, deps, apiLimiter.Middleware(), requireAuth)

	return router
}

func setupAuthRoutes(api *gin.RouterGroup, deps Deps, limiter, requireAuth gin.HandlerFunc) {
	h := handlers.NewAuthHandler(deps.Auth, deps.Log)
	authRoutes := api.Group("/auth", limiter)
	{
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/forgot-password", h.ForgotPassword)
		authRoutes.POST("/reset-password", h.ResetPassword)
		authRoutes.GET("/me", requireAuth, h.Me)
	}
}

func setupYouTubeRoutes(api *gin.RouterGroup, deps Deps, limiter, requireAuth gin.HandlerFunc) {
	h := handlers.NewYouTubeHandler(deps.Videos, deps.Log)
	youtubeRoutes := api.Group("/youtube", limiter, requireAuth)
	{
		// GET /api/youtube/search?q=query&pageToken=token&maxResults=12
		youtubeRoutes.GET("/search", h.Search)
		youtubeRoutes.GET("/video/:id", h.GetVideo)
	}
}

func setupFavoritesRoutes(api *gin.RouterGroup, deps Deps, limiter, requireAuth gin.HandlerFunc) {
	h := handlers.NewFavoritesHandler(deps.Favorites, deps.Log)
	favoritesRoutes := api.Group("/favorites", limiter, requireAuth)
	{
		favoritesRoutes.POST("", h.Add)
		favoritesRoutes.GET("", h.List)
		favoritesRoutes.GET("/check/:videoId", h.Check)
		favoritesRoutes.DELETE("/:videoId", h.Remove)
	}
}
