package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/gravity-four/backend/internal/transport/http/middleware"
	"github.com/iamasit07/gravity-four/backend/pkg/auth"
)

type RouterConfig struct {
	Sessions       SessionService
	Games          GameService
	Verifier       *auth.Verifier
	AllowedOrigins []string
	// WebSocket serves GET /ws, optional
	WebSocket http.HandlerFunc
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sessionHandler := NewSessionHandler(cfg.Sessions)
	gameHandler := NewGameHandler(cfg.Games)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.Verifier))
	{
		api.POST("/sessions", sessionHandler.CreateSession)
		api.GET("/sessions/:id", sessionHandler.GetSession)
		api.GET("/sessions/:id/games", sessionHandler.GetGames)
		api.POST("/sessions/:id/games", sessionHandler.AddGame)
		api.GET("/sessions/:id/active-game", sessionHandler.GetActiveGame)
		api.POST("/sessions/:id/active-game/complete", sessionHandler.CompleteActiveGame)
		api.POST("/sessions/:id/moves", sessionHandler.SubmitMove)

		api.POST("/games", gameHandler.CreateGame)
		api.GET("/games/:id", gameHandler.GetGame)
		api.POST("/games/:id/moves", gameHandler.SubmitMove)
	}

	// spectators need no token
	if cfg.WebSocket != nil {
		router.GET("/ws", gin.WrapF(cfg.WebSocket))
	}

	return router
}
