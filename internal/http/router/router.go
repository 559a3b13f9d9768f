package router

import (
	"github.com/gin-gonic/gin"

	"chatbuff.app/backend/internal/http/handler"
)

// Handlers bundles the constructed handlers for route registration.
type Handlers struct {
	Info       *handler.InfoHandler
	Suggestion *handler.SuggestionHandler
	Assistant  *handler.AssistantHandler
	Transcribe *handler.TranscribeHandler
	News       *handler.NewsHandler
	WS         *handler.WSHandler
}

func SetupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/", h.Info.Info)

	api := router.Group("/api")
	{
		api.POST("/suggestion", h.Suggestion.Generate)
		api.GET("/quotes", h.Suggestion.ListQuotes)
		api.POST("/transcribe", h.Transcribe.Transcribe)

		AssistantRouter(api.Group("/assistant"), h.Assistant)
		NewsRouter(api.Group("/news"), h.News)

		api.GET("/ws/status", h.WS.Status)
	}

	router.GET("/ws", h.WS.Serve)
	router.GET("/ws/:client_id", h.WS.Serve)
}
