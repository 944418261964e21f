package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/courseforge/backend/internal/middleware"
	"github.com/courseforge/backend/internal/models"
)

// DiscussionService is the interface that wraps methods for comment business logic.
type DiscussionService interface {
	// Method ListComments retrieves the two-level comment tree of a published
	// content unit, newest first on both levels.
	//
	// Returns apperrors.ErrNotFound when the unit is absent or unpublished.
	ListComments(ctx context.Context, contentUnitID string) ([]models.CommentWithReplies, error)
	// Method AddComment attaches a comment to a published content unit.
	//
	// Returns apperrors.ErrNotFound when the unit is absent or unpublished and
	// apperrors.ErrInvalidParent when parentId does not resolve to a comment on
	// the same unit. The returned comment carries its author info so clients
	// can prepend it without re-fetching the tree.
	AddComment(ctx context.Context, callerID string, req models.CreateCommentRequest) (*models.Comment, error)
}

// CommentHandler handles HTTP requests for comments
type CommentHandler struct {
	BaseHandler
	service DiscussionService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(svc DiscussionService, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all comment handler routes
func (h *CommentHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Get("/api/v1/units/{id}/comments", h.List)
	r.With(auth).Post("/api/v1/comments", h.Create)
}

// List handles GET /api/v1/units/{id}/comments
// @Summary List comments of a content unit
// @Description List the comment tree of a published content unit, newest first
// @Tags comments
// @Produce json
// @Param id path string true "Content unit ID"
// @Success 200 {array} models.CommentWithReplies
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/units/{id}/comments [get]
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	unitID := chi.URLParam(r, "id")

	comments, err := h.service.ListComments(r.Context(), unitID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if comments == nil {
		comments = []models.CommentWithReplies{}
	}

	h.respondJSON(w, http.StatusOK, comments)
}

// Create handles POST /api/v1/comments
// @Summary Add a comment
// @Description Add a comment or reply to a published content unit
// @Tags comments
// @Accept json
// @Produce json
// @Param request body models.CreateCommentRequest true "Comment to add"
// @Success 201 {object} models.Comment
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/comments [post]
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.service.AddComment(r.Context(), callerID, req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, comment)
}
