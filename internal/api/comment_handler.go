package api

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/page-comments-api/internal/models"
	"github.com/page-comments-api/internal/service"
	"github.com/page-comments-api/internal/validation"
	"github.com/rs/zerolog"
)

var commentIDPattern = regexp.MustCompile(`^\d+$`)

// CommentHandler handles the comment API endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// ListByPage handles GET /api/comments?page_url=<url>
func (h *CommentHandler) ListByPage(c *gin.Context) {
	ctx := c.Request.Context()

	pageURL := c.Query("page_url")
	if pageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_url query parameter is required"})
		return
	}
	if err := validation.ValidatePageURL(pageURL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_url must be a valid URL"})
		return
	}

	comments, err := h.services.Comment.ListByPage(ctx, pageURL)
	if err != nil {
		h.log.Error().Err(err).Str("page_url", pageURL).Msg("Failed to list comments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
		return
	}

	public := make([]*models.PublicComment, 0, len(comments))
	for _, comment := range comments {
		public = append(public, comment.Public())
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": public,
		"count":    len(public),
	})
}

// Create handles POST /api/comments
func (h *CommentHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var sub models.CommentSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// Validation runs on the raw submission before any store interaction;
	// every violated rule is reported in one combined message.
	if violations := validation.ValidateSubmission(&sub); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Combine(violations)})
		return
	}

	comment, err := h.services.Comment.Create(ctx, &sub)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create comment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"comment": comment.Public(),
	})
}

// Delete handles DELETE /api/comments/:id?secret=<s>
// Authorization is checked before existence, so probing ids without the
// secret always yields 401.
func (h *CommentHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	idParam := c.Param("id")
	if !commentIDPattern.MatchString(idParam) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	if !h.services.Secret.IsAuthorized(ctx, c.Query("secret")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.services.Comment.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
			return
		}
		h.log.Error().Err(err).Int64("comment_id", id).Msg("Failed to delete comment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Comment deleted",
	})
}

// ListAll handles GET /api/comments/all?secret=<s> for the moderation view.
// Unlike the public listing, it returns every comment with its status.
func (h *CommentHandler) ListAll(c *gin.Context) {
	ctx := c.Request.Context()

	if !h.services.Secret.IsAuthorized(ctx, c.Query("secret")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	comments, err := h.services.Comment.ListAll(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list all comments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"count":    len(comments),
	})
}
