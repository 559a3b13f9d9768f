package router

import (
	"github.com/gin-gonic/gin"

	"chatbuff.app/backend/internal/http/handler"
)

func AssistantRouter(router *gin.RouterGroup, handler *handler.AssistantHandler) {
	router.POST("/process", handler.Process)
	router.GET("/history", handler.History)
	router.POST("/reset", handler.Reset)
}
