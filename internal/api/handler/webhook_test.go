package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/api/handler"
	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/api/router"
	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot"
	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/domain"
	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/notify"
	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/storage/storagetest"
)

type nopPublisher struct{}

func (nopPublisher) PublishWithRetry(context.Context, []byte, string) error { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := storagetest.New(t)
	require.NoError(t, s.Queries().UpsertPrice(context.Background(), &domain.PriceEntry{
		Model:      "14pro",
		UnitPrice:  decimal.RequireFromString("170"),
		CableAdder: decimal.RequireFromString("10"),
	}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := bot.Config{HomeTimezone: "Asia/Dubai", LaborRate: decimal.RequireFromString("50")}
	engine := bot.NewEngine(cfg, s, notify.NewRouter(nopPublisher{}, logger), nil, logger)

	return router.SetupRouter(&handler.Dependencies{Logger: logger, Engine: engine})
}

func postWebhook(t *testing.T, r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhook_TextMessageGetsTwiMLReply(t *testing.T) {
	r := newTestRouter(t)

	w := postWebhook(t, r, url.Values{
		"From": {"whatsapp:+15550001111"},
		"Body": {"/help"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<Response><Message>")
	assert.Contains(t, w.Body.String(), "MDTS Service Bot")
}

func TestWebhook_PhotoStartsIntake(t *testing.T) {
	r := newTestRouter(t)

	w := postWebhook(t, r, url.Values{
		"From":      {"whatsapp:+15550001111"},
		"Body":      {""},
		"NumMedia":  {"1"},
		"MediaUrl0": {"https://media.example/photos/9.jpg"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Got your photo")
	assert.Contains(t, w.Body.String(), "Step 1/4")
}

func TestWebhook_ZeroNumMediaIsTextOnly(t *testing.T) {
	r := newTestRouter(t)

	// a stale MediaUrl0 with NumMedia=0 must not start an intake
	w := postWebhook(t, r, url.Values{
		"From":      {"whatsapp:+15550001111"},
		"Body":      {"hello"},
		"NumMedia":  {"0"},
		"MediaUrl0": {"https://media.example/photos/9.jpg"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MDTS Service Bot")
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
