package handler

import (
	"log/slog"

	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger *slog.Logger
	Engine *bot.Engine
}

// WebhookHandler handles inbound WhatsApp webhook requests
type WebhookHandler struct {
	logger *slog.Logger
	engine *bot.Engine
}

// NewWebhookHandler creates a new WebhookHandler instance
func NewWebhookHandler(deps *Dependencies) *WebhookHandler {
	return &WebhookHandler{
		logger: deps.Logger,
		engine: deps.Engine,
	}
}
