package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shortlink/services"
)

// Redirect handles GET /:shortcode. The lookup result classifies the visit
// as missing (404), expired (410), or live; only a live link records a
// click, and click recording never blocks the redirect.
func (h *Handler) Redirect(c *gin.Context) {
	code := c.Param("shortcode")

	link, err := h.links.Resolve(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			h.logger.Warn("redirect not found", "shortcode", code)
			c.JSON(http.StatusNotFound, gin.H{"error": "link expired or invalid"})
		case errors.Is(err, services.ErrLinkExpired):
			h.logger.Warn("redirect expired", "shortcode", code)
			c.JSON(http.StatusGone, gin.H{"error": "link expired or invalid"})
		default:
			h.fail(c, err)
		}
		return
	}

	h.logger.Info("redirect hit", "shortcode", code, "ip", c.ClientIP())

	referrer := c.Request.Referer()
	country := countryFromRequest(c.Request)
	if err := h.links.RecordClick(c.Request.Context(), link.ID, time.Now(), referrer, country); err != nil {
		// Analytics is best-effort; the redirect still goes out.
		h.logger.Error("click record failed", "shortcode", code, "error", err)
	} else {
		h.logger.Debug("click recorded", "shortcode", code)
	}

	c.Redirect(http.StatusFound, link.OriginalURL)
}
