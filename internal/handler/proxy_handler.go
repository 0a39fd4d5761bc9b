package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edge-social/edge-sync/internal/utils"
)

// ProxyHandler forwards RPC envelopes to the Apps Script deployment. The
// browser cannot call the script directly (CORS), so every app request
// funnels through this single endpoint.
type ProxyHandler struct {
	scriptURL string
	client    *http.Client
	logger    zerolog.Logger
}

// NewProxyHandler builds the forwarding handler for the given script URL.
func NewProxyHandler(scriptURL string, logger zerolog.Logger) *ProxyHandler {
	return &ProxyHandler{
		scriptURL: scriptURL,
		// Redirects must be followed: Apps Script answers with a 302 to the
		// content host.
		client: &http.Client{},
		logger: logger.With().Str("component", "proxy_handler").Logger(),
	}
}

// Forward relays the request body to the script unchanged and returns the
// upstream response as-is. An empty upstream body reads as a bare success;
// any transport or parse failure surfaces as an error envelope.
func (h *ProxyHandler) Forward(c *fiber.Ctx) error {
	req, err := http.NewRequestWithContext(c.UserContext(), http.MethodPost, h.scriptURL, bytes.NewReader(c.Body()))
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Error().Err(err).Msg("upstream call failed")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read upstream response")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return c.Status(fiber.StatusOK).JSON(utils.Envelope{Status: "success"})
	}

	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		h.logger.Error().Err(err).Int("upstream_status", resp.StatusCode).Msg("upstream returned malformed json")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusOK).JSON(parsed)
}
