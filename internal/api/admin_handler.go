package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/page-comments-api/internal/config"
	"github.com/page-comments-api/internal/models"
	"github.com/page-comments-api/internal/service"
	"github.com/page-comments-api/internal/validation"
	"github.com/rs/zerolog"
)

// AdminHandler handles the setup, moderation and widget pages
type AdminHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// SetupPage handles GET /setup
func (h *AdminHandler) SetupPage(c *gin.Context) {
	renderPage(c, h.log, "setup.html", nil)
}

// UpdateSecret handles POST /setup
func (h *AdminHandler) UpdateSecret(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.SecretUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.services.Secret.Update(ctx, req.CurrentSecret, req.NewSecret); err != nil {
		switch {
		case errors.Is(err, service.ErrSecretTooShort):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("newSecret must be at least %d characters", models.MinSecretLen),
			})
		case errors.Is(err, service.ErrWrongSecret):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		default:
			h.log.Error().Err(err).Msg("Failed to update admin secret")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update secret"})
		}
		return
	}

	adminURL := fmt.Sprintf("%s/admin?secret=%s", h.cfg.Admin.BaseURL, url.QueryEscape(req.NewSecret))
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Admin secret updated",
		"adminUrl": adminURL,
	})
}

// AdminPage handles GET /admin?secret=<s>
func (h *AdminHandler) AdminPage(c *gin.Context) {
	ctx := c.Request.Context()

	secret := c.Query("secret")
	if !h.services.Secret.IsAuthorized(ctx, secret) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	comments, err := h.services.Comment.ListAll(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load comments for admin page")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
		return
	}

	renderPage(c, h.log, "admin.html", gin.H{
		"Comments": comments,
		"Count":    len(comments),
		"Secret":   secret,
	})
}

// WidgetPage handles GET /comment-widget?page_url=<url>
// The rendered page targets /api/comments for the given page_url.
func (h *AdminHandler) WidgetPage(c *gin.Context) {
	pageURL := c.Query("page_url")
	if pageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_url query parameter is required"})
		return
	}
	if err := validation.ValidatePageURL(pageURL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_url must be a valid URL"})
		return
	}

	renderPage(c, h.log, "widget.html", gin.H{
		"PageURL": pageURL,
	})
}
