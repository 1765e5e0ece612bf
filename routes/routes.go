package routes

import (
	"github.com/gin-gonic/gin"

	"shortlink/handlers"
)

// Register wires every endpoint onto the router. The catch-all shortcode
// route sits at the root; gin prefers the static /shorturls and /internal
// prefixes over the :shortcode parameter.
func Register(r *gin.Engine, h *handlers.Handler) {
	r.GET("/health", h.Health)

	r.POST("/shorturls", h.CreateShortLink)
	r.GET("/shorturls", h.ListLinks)
	r.GET("/shorturls/:shortcode", h.GetStats)

	r.POST("/internal/log", h.IngestFrontendLog)

	r.GET("/:shortcode", h.Redirect)
}
