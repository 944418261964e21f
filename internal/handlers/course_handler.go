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

// CourseService is the interface that wraps methods for course business logic.
type CourseService interface {
	// Method CreateCourse creates a course owned by the caller.
	//
	// The course name must satisfy the slug rule and be globally unique.
	// Returns apperrors.ErrUnauthenticated without a caller, apperrors.ErrInvalid
	// for a malformed request and apperrors.ErrTaken when the name is in use.
	CreateCourse(ctx context.Context, callerID string, req models.CreateCourseRequest) (*models.Course, error)
	// Method ListOwnerCourses retrieves the caller's own courses.
	ListOwnerCourses(ctx context.Context, callerID string) ([]models.Course, error)
	// Method ListPublicCourses retrieves all courses for anonymous browsing.
	ListPublicCourses(ctx context.Context) ([]models.Course, error)
	// Method GetPublicCourse retrieves a course by name with its owner display
	// info and published units. Returns apperrors.ErrNotFound when absent.
	GetPublicCourse(ctx context.Context, courseName string) (*models.CourseDetailResponse, error)
}

// CourseHandler handles HTTP requests for courses
type CourseHandler struct {
	BaseHandler
	service CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(svc CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all course handler routes. The auth middleware
// guards the owner-only routes; public routes stay open.
func (h *CourseHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Get("/api/v1/courses", h.ListPublic)
	r.With(auth).Post("/api/v1/courses", h.Create)
	r.With(auth).Get("/api/v1/courses/my", h.ListMine)
	r.Get("/api/v1/courses/{courseName}", h.GetPublic)
}

// Create handles POST /api/v1/courses
// @Summary Create a course
// @Description Create a course owned by the authenticated caller
// @Tags courses
// @Accept json
// @Produce json
// @Param request body models.CreateCourseRequest true "Course to create"
// @Success 201 {object} models.Course
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/courses [post]
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())

	var req models.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	course, err := h.service.CreateCourse(r.Context(), callerID, req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, course)
}

// ListPublic handles GET /api/v1/courses
// @Summary List all courses
// @Description List all courses for public browsing
// @Tags courses
// @Produce json
// @Success 200 {array} models.Course
// @Failure 500 {object} map[string]string
// @Router /api/v1/courses [get]
func (h *CourseHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.ListPublicCourses(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if courses == nil {
		courses = []models.Course{}
	}

	h.respondJSON(w, http.StatusOK, courses)
}

// ListMine handles GET /api/v1/courses/my
// @Summary List own courses
// @Description List the courses owned by the authenticated caller
// @Tags courses
// @Produce json
// @Success 200 {array} models.Course
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/courses/my [get]
func (h *CourseHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())

	courses, err := h.service.ListOwnerCourses(r.Context(), callerID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if courses == nil {
		courses = []models.Course{}
	}

	h.respondJSON(w, http.StatusOK, courses)
}

// GetPublic handles GET /api/v1/courses/{courseName}
// @Summary Get a course
// @Description Get a course by its unique name with owner info and published units
// @Tags courses
// @Produce json
// @Param courseName path string true "Course name"
// @Success 200 {object} models.CourseDetailResponse
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/courses/{courseName} [get]
func (h *CourseHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	courseName := chi.URLParam(r, "courseName")

	course, err := h.service.GetPublicCourse(r.Context(), courseName)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, course)
}
