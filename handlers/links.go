package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shortlink/logging"
	"shortlink/models"
	"shortlink/services"
)

// Handler carries the dependencies of every HTTP endpoint. Nothing here is
// global; main constructs one and hands it to the router.
type Handler struct {
	links   *services.LinkService
	relay   *logging.Relay
	logger  *slog.Logger
	baseURL string
}

func New(links *services.LinkService, relay *logging.Relay, logger *slog.Logger, baseURL string) *Handler {
	return &Handler{
		links:   links,
		relay:   relay,
		logger:  logger.With(logging.PackageKey, "handler"),
		baseURL: baseURL,
	}
}

type createRequest struct {
	URL       string `json:"url"`
	Validity  *int   `json:"validity"`
	Shortcode string `json:"shortcode"`
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// CreateShortLink handles POST /shorturls.
func (h *Handler) CreateShortLink(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("create request rejected", "error", "malformed body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	h.logger.Info("create request", "shortcode", orAuto(req.Shortcode), "url", req.URL)

	link, err := h.links.Create(c.Request.Context(), req.URL, req.Validity, req.Shortcode)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"shortLink": h.shortLink(link.Shortcode),
		"expiry":    link.ExpiryAt.UTC().Format(time.RFC3339),
	})
}

// GetStats handles GET /shorturls/:shortcode.
func (h *Handler) GetStats(c *gin.Context) {
	code := c.Param("shortcode")
	h.logger.Info("stats requested", "shortcode", code)

	link, clicks, err := h.links.GetDetails(c.Request.Context(), code)
	if err != nil {
		h.fail(c, err)
		return
	}

	clickData := make([]gin.H, 0, len(clicks))
	for _, click := range clicks {
		clickData = append(clickData, gin.H{
			"timestamp": click.Timestamp.UTC().Format(time.RFC3339),
			"referrer":  click.Referrer,
			"location":  click.Country,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"shortcode": link.Shortcode,
		"shortLink": h.shortLink(link.Shortcode),
		"url":       link.OriginalURL,
		"createdAt": link.CreatedAt.UTC().Format(time.RFC3339),
		"expiry":    link.ExpiryAt.UTC().Format(time.RFC3339),
		"clicks":    link.ClickCount,
		"clickData": clickData,
	})
}

// ListLinks handles GET /shorturls.
func (h *Handler) ListLinks(c *gin.Context) {
	h.logger.Info("list all short urls requested")

	links, err := h.links.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]gin.H, 0, len(links))
	for _, link := range links {
		out = append(out, h.summary(link))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) summary(link models.ShortLink) gin.H {
	return gin.H{
		"id":        link.ID,
		"shortcode": link.Shortcode,
		"shortLink": h.shortLink(link.Shortcode),
		"url":       link.OriginalURL,
		"clicks":    link.ClickCount,
		"createdAt": link.CreatedAt.UTC().Format(time.RFC3339),
		"expiry":    link.ExpiryAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) shortLink(code string) string {
	return h.baseURL + "/" + code
}

// fail logs the error with its severity and writes the mapped response.
// Response bodies carry the sentinel message only, never internals.
func (h *Handler) fail(c *gin.Context, err error) {
	status, level, msg := classify(err)
	h.logger.Log(c.Request.Context(), level, msg, "status", status)
	c.JSON(status, gin.H{"error": msg})
}

func classify(err error) (int, slog.Level, string) {
	switch {
	case errors.Is(err, services.ErrInvalidURL),
		errors.Is(err, services.ErrInvalidValidity),
		errors.Is(err, services.ErrInvalidShortcode):
		return http.StatusBadRequest, slog.LevelError, err.Error()
	case errors.Is(err, services.ErrCodeTaken):
		return http.StatusConflict, slog.LevelWarn, err.Error()
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, slog.LevelWarn, err.Error()
	case errors.Is(err, services.ErrLinkExpired):
		return http.StatusGone, slog.LevelWarn, err.Error()
	case errors.Is(err, services.ErrGenerationExhausted):
		return http.StatusInternalServerError, slog.LevelError, err.Error()
	default:
		return http.StatusInternalServerError, logging.LevelFatal, "internal error"
	}
}

func orAuto(code string) string {
	if code == "" {
		return "auto"
	}
	return code
}
