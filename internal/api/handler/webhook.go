package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/domain"
)

const replyUnexpectedError = "⚠️ Unexpected error. Try again."

// HandleWhatsApp receives one Twilio WhatsApp webhook POST, runs it through
// the engine, and answers with TwiML. Infrastructure failures turn into an
// apology reply rather than a transport error: Twilio retries non-2xx
// responses and the customer would see nothing in the meantime.
func (h *WebhookHandler) HandleWhatsApp(c *gin.Context) {
	msg := domain.InboundMessage{
		From: c.PostForm("From"),
		Body: c.PostForm("Body"),
	}
	if n, err := strconv.Atoi(c.PostForm("NumMedia")); err == nil && n > 0 {
		msg.MediaURL = c.PostForm("MediaUrl0")
	}

	reply, err := h.engine.HandleMessage(c.Request.Context(), msg)
	if err != nil {
		h.logger.Error("Message handling failed",
			slog.String("from", msg.From),
			slog.String("error", err.Error()),
		)
		renderTwiML(c, replyUnexpectedError)
		return
	}

	renderTwiML(c, reply)
}
