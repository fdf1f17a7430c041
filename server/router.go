package server

import (
	"time"

	"creator-hub/domain/repository"
	"creator-hub/infrastructure/realtime"
	httpHandler "creator-hub/interfaces/http"
	"creator-hub/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	tiktokAuthHandler httpHandler.ITikTokAuthHandler,
	tiktokAccountHandler httpHandler.ITikTokAccountHandler,
	publishHandler httpHandler.IPublishHandler,
	aiVideoHandler httpHandler.IAiVideoHandler,
	pricingHandler httpHandler.IPricingHandler,
	userRepository repository.IUser,
	hub *realtime.Hub,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://app.creator-hub.io", "http://localhost:3000", "https://localhost:3000", "http://localhost:3001"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return origin == "https://app.creator-hub.io" || origin == "http://localhost:3000" || origin == "https://localhost:3000" || origin == "http://localhost:3001"
		},
		MaxAge: 12 * time.Hour,
	}))

	api := router.Group("api")
	api.Use(middleware.Auth(userRepository))

	router.POST("/login", userHandler.Login)
	router.POST("/register", userHandler.Register)

	// OAuth consent runs outside the API group; TikTok calls the
	// callback without a bearer token.
	router.GET("/auth/tiktok", tiktokAuthHandler.GetAuthURL)
	router.GET("/auth/tiktok/callback", tiktokAuthHandler.Callback)

	tiktok := api.Group("/tiktok")
	{
		tiktok.GET("/account", tiktokAccountHandler.Status)
		tiktok.DELETE("/account", tiktokAccountHandler.Disconnect)
		tiktok.POST("/creator-info", tiktokAccountHandler.CreatorInfo)
		tiktok.POST("/publish", publishHandler.Publish)
		tiktok.POST("/publish-status", publishHandler.PublishStatus)
	}

	if hub != nil {
		api.GET("/publish/stream", hub.Serve)
	}

	aiVideos := api.Group("/ai-videos")
	{
		aiVideos.GET("", aiVideoHandler.Library)
		aiVideos.POST("/generate", aiVideoHandler.Generate)
	}

	api.POST("/pricing/quote", pricingHandler.Quote)

	return router
}
