package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "bot-service",
		})
	})

	webhookHandler := handler.NewWebhookHandler(deps)

	// Twilio posts every inbound WhatsApp message here
	r.POST("/webhook/whatsapp", webhookHandler.HandleWhatsApp)

	return r
}
