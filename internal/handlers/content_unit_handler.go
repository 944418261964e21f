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

// ContentUnitService is the interface that wraps methods for lesson and post business logic.
type ContentUnitService interface {
	// Method CreateContentUnit creates a lesson or post in a course the caller owns.
	//
	// A missing course and a foreign course both return apperrors.ErrForbidden.
	// A duplicate slug within the course returns apperrors.ErrTaken.
	CreateContentUnit(ctx context.Context, callerID string, kind models.UnitKind, req models.CreateContentUnitRequest) (*models.ContentUnit, error)
	// Method GetPublicContentUnit retrieves a published unit by course name and
	// slug. Drafts and absent units both return apperrors.ErrNotFound.
	GetPublicContentUnit(ctx context.Context, courseName, slug string) (*models.ContentUnit, error)
	// Method GetOwnerContentUnit retrieves a unit for its course owner, drafts
	// included. Missing and foreign units both return apperrors.ErrForbidden.
	GetOwnerContentUnit(ctx context.Context, callerID, unitID string) (*models.ContentUnit, error)
	// Method ListOwnerContentUnits retrieves all units of one kind in the
	// caller's course, drafts included.
	ListOwnerContentUnits(ctx context.Context, callerID, courseID string, kind models.UnitKind) ([]models.ContentUnit, error)
}

// ContentUnitHandler handles HTTP requests for lessons and posts
type ContentUnitHandler struct {
	BaseHandler
	service ContentUnitService
}

// NewContentUnitHandler creates a new content unit handler
func NewContentUnitHandler(svc ContentUnitService, logger *zap.Logger) *ContentUnitHandler {
	return &ContentUnitHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all content unit handler routes
func (h *ContentUnitHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Get("/api/v1/courses/{courseName}/units/{slug}", h.GetPublicUnit)
	r.With(auth).Post("/api/v1/lessons", h.CreateLesson)
	r.With(auth).Get("/api/v1/lessons", h.ListLessons)
	r.With(auth).Post("/api/v1/posts", h.CreatePost)
	r.With(auth).Get("/api/v1/posts", h.ListPosts)
	r.With(auth).Get("/api/v1/units/{id}", h.GetOwnerUnit)
}

// CreateLesson handles POST /api/v1/lessons
// @Summary Create a lesson
// @Description Create a lesson in a course the caller owns
// @Tags lessons
// @Accept json
// @Produce json
// @Param request body models.CreateContentUnitRequest true "Lesson to create"
// @Success 201 {object} models.ContentUnit
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/lessons [post]
func (h *ContentUnitHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, models.UnitKindLesson)
}

// CreatePost handles POST /api/v1/posts
// @Summary Create a post
// @Description Create a post in a course the caller owns
// @Tags posts
// @Accept json
// @Produce json
// @Param request body models.CreateContentUnitRequest true "Post to create"
// @Success 201 {object} models.ContentUnit
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/posts [post]
func (h *ContentUnitHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, models.UnitKindPost)
}

func (h *ContentUnitHandler) create(w http.ResponseWriter, r *http.Request, kind models.UnitKind) {
	callerID, _ := middleware.GetUserID(r.Context())

	var req models.CreateContentUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	unit, err := h.service.CreateContentUnit(r.Context(), callerID, kind, req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, unit)
}

// ListLessons handles GET /api/v1/lessons
// @Summary List lessons of an owned course
// @Description List all lessons of a course the caller owns, drafts included
// @Tags lessons
// @Produce json
// @Param courseId query string true "Course ID"
// @Success 200 {array} models.ContentUnit
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/lessons [get]
func (h *ContentUnitHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.UnitKindLesson)
}

// ListPosts handles GET /api/v1/posts
// @Summary List posts of an owned course
// @Description List all posts of a course the caller owns, drafts included
// @Tags posts
// @Produce json
// @Param courseId query string true "Course ID"
// @Success 200 {array} models.ContentUnit
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/posts [get]
func (h *ContentUnitHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.UnitKindPost)
}

func (h *ContentUnitHandler) list(w http.ResponseWriter, r *http.Request, kind models.UnitKind) {
	callerID, _ := middleware.GetUserID(r.Context())

	courseID := r.URL.Query().Get("courseId")
	if courseID == "" {
		h.respondError(w, http.StatusBadRequest, "courseId query parameter is required")
		return
	}

	units, err := h.service.ListOwnerContentUnits(r.Context(), callerID, courseID, kind)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if units == nil {
		units = []models.ContentUnit{}
	}

	h.respondJSON(w, http.StatusOK, units)
}

// GetPublicUnit handles GET /api/v1/courses/{courseName}/units/{slug}
// @Summary Get a published lesson or post
// @Description Get a published content unit by course name and slug; drafts are not found
// @Tags units
// @Produce json
// @Param courseName path string true "Course name"
// @Param slug path string true "Unit slug"
// @Success 200 {object} models.ContentUnit
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/courses/{courseName}/units/{slug} [get]
func (h *ContentUnitHandler) GetPublicUnit(w http.ResponseWriter, r *http.Request) {
	courseName := chi.URLParam(r, "courseName")
	slug := chi.URLParam(r, "slug")

	unit, err := h.service.GetPublicContentUnit(r.Context(), courseName, slug)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, unit)
}

// GetOwnerUnit handles GET /api/v1/units/{id}
// @Summary Get an owned lesson or post
// @Description Get a content unit the caller owns, regardless of publish state
// @Tags units
// @Produce json
// @Param id path string true "Unit ID"
// @Success 200 {object} models.ContentUnit
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/units/{id} [get]
func (h *ContentUnitHandler) GetOwnerUnit(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())
	unitID := chi.URLParam(r, "id")

	unit, err := h.service.GetOwnerContentUnit(r.Context(), callerID, unitID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, unit)
}
