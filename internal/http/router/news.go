package router

import (
	"github.com/gin-gonic/gin"

	"chatbuff.app/backend/internal/http/handler"
)

func NewsRouter(router *gin.RouterGroup, handler *handler.NewsHandler) {
	router.POST("", handler.Fetch)
	router.GET("/relevant", handler.Relevant)
}
