package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/courseforge/backend/internal/apperrors"
	"github.com/courseforge/backend/internal/models"
)

// CourseRepository is the interface that wraps methods for courses table data access
type CourseRepository interface {
	// Method GetByCourseName retrieves a course by its globally unique course name.
	//
	// Returns apperrors.ErrNotFound when no course carries that name.
	GetByCourseName(ctx context.Context, courseName string) (*models.Course, error)
	// Method GetByID retrieves a course by its ID.
	//
	// Returns apperrors.ErrNotFound when the course does not exist.
	GetByID(ctx context.Context, id string) (*models.Course, error)
	// Method ListByOwner retrieves every course owned by a user, most recently updated first.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Course, error)
	// Method ListAll retrieves every course for public browsing, most recently updated first.
	ListAll(ctx context.Context) ([]models.Course, error)
	// Method ExistsByCourseName reports whether a course name is already in use.
	ExistsByCourseName(ctx context.Context, courseName string) (bool, error)
	// Method Create persists a new course, assigning its ID and timestamps.
	//
	// A duplicate course name returns apperrors.ErrTaken, whether it was caught
	// here or by the database's unique constraint.
	Create(ctx context.Context, course *models.Course) error
}

// ContentUnitRepository is the interface that wraps methods for content_units table data access
type ContentUnitRepository interface {
	// Method GetByID retrieves a content unit by its ID.
	//
	// Returns apperrors.ErrNotFound when the unit does not exist.
	GetByID(ctx context.Context, id string) (*models.ContentUnit, error)
	// Method GetByCourseAndSlug retrieves a content unit by its course-scoped slug.
	//
	// Returns apperrors.ErrNotFound when no unit in the course carries that slug.
	GetByCourseAndSlug(ctx context.Context, courseID, slug string) (*models.ContentUnit, error)
	// Method ListByCourse retrieves all units of one kind in a course, drafts included.
	ListByCourse(ctx context.Context, courseID string, kind models.UnitKind) ([]models.ContentUnit, error)
	// Method ListPublishedByCourse retrieves only the published units of a course.
	ListPublishedByCourse(ctx context.Context, courseID string) ([]models.ContentUnit, error)
	// Method ExistsByCourseAndSlug reports whether a slug is already in use within a course.
	ExistsByCourseAndSlug(ctx context.Context, courseID, slug string) (bool, error)
	// Method Create persists a new content unit, assigning its ID and timestamps.
	//
	// A duplicate (course, slug) pair returns apperrors.ErrTaken, whether it was
	// caught here or by the database's unique constraint.
	Create(ctx context.Context, unit *models.ContentUnit) error
}

// UserRepository is the interface that wraps methods for users table data access
type UserRepository interface {
	// Method GetByID retrieves a user by their ID.
	//
	// Returns apperrors.ErrNotFound when the user does not exist.
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type contentService struct {
	courses  CourseRepository
	units    ContentUnitRepository
	users    UserRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewContentService creates a new content service
func NewContentService(courses CourseRepository, units ContentUnitRepository, users UserRepository, logger *zap.Logger) *contentService {
	return &contentService{
		courses:  courses,
		units:    units,
		users:    users,
		validate: newValidator(),
		logger:   logger,
	}
}

// CreateCourse creates a course owned by the caller.
//
// The course name must satisfy the slug rule and be globally unique. The
// existence pre-check produces the friendly Taken error in the common case;
// a concurrent duplicate loses against the unique constraint and surfaces as
// the same error, so callers cannot tell which layer caught it.
func (s *contentService) CreateCourse(ctx context.Context, callerID string, req models.CreateCourseRequest) (*models.Course, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	if err := validateSlug("courseName", req.CourseName); err != nil {
		return nil, err
	}

	taken, err := s.courses.ExistsByCourseName(ctx, req.CourseName)
	if err != nil {
		s.logger.Error("failed to check course name", zap.Error(err))
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	if taken {
		return nil, apperrors.Taken("courseName")
	}

	course := &models.Course{
		Name:        req.Name,
		Description: req.Description,
		CourseName:  req.CourseName,
		OwnerID:     callerID,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		if errors.Is(err, apperrors.ErrTaken) {
			return nil, err
		}
		s.logger.Error("failed to create course", zap.Error(err))
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	return course, nil
}

// CreateContentUnit creates a lesson or post in a course the caller owns.
//
// A missing course and a course owned by someone else fail with the same
// Forbidden error, so callers cannot probe which course IDs exist.
func (s *contentService) CreateContentUnit(ctx context.Context, callerID string, kind models.UnitKind, req models.CreateContentUnitRequest) (*models.ContentUnit, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	if err := validateSlug("slug", req.Slug); err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrForbidden
		}
		s.logger.Error("failed to load course", zap.Error(err))
		return nil, fmt.Errorf("failed to create content unit: %w", err)
	}
	if err := authorize(callerID, course.OwnerID); err != nil {
		return nil, err
	}

	taken, err := s.units.ExistsByCourseAndSlug(ctx, course.ID, req.Slug)
	if err != nil {
		s.logger.Error("failed to check slug", zap.Error(err))
		return nil, fmt.Errorf("failed to create content unit: %w", err)
	}
	if taken {
		return nil, apperrors.Taken("slug")
	}

	unit := &models.ContentUnit{
		Kind:      kind,
		CourseID:  course.ID,
		Title:     req.Title,
		Slug:      req.Slug,
		Content:   req.Content,
		Published: req.Published,
		Tags:      req.Tags,
	}
	if err := s.units.Create(ctx, unit); err != nil {
		if errors.Is(err, apperrors.ErrTaken) {
			return nil, err
		}
		s.logger.Error("failed to create content unit", zap.Error(err))
		return nil, fmt.Errorf("failed to create content unit: %w", err)
	}

	return unit, nil
}

// GetPublicContentUnit retrieves a published unit by course name and slug.
//
// Drafts are invisible here even when the exact address is known: an
// unpublished unit returns NotFound, indistinguishable from an absent one.
func (s *contentService) GetPublicContentUnit(ctx context.Context, courseName, slug string) (*models.ContentUnit, error) {
	course, err := s.courses.GetByCourseName(ctx, courseName)
	if err != nil {
		return nil, s.wrapLookup("failed to get content unit", err)
	}

	unit, err := s.units.GetByCourseAndSlug(ctx, course.ID, slug)
	if err != nil {
		return nil, s.wrapLookup("failed to get content unit", err)
	}
	if !unit.Published {
		return nil, apperrors.ErrNotFound
	}

	return unit, nil
}

// GetOwnerContentUnit retrieves a unit for its course owner, drafts included.
//
// A missing unit and a unit in someone else's course fail with the same
// Forbidden error.
func (s *contentService) GetOwnerContentUnit(ctx context.Context, callerID, unitID string) (*models.ContentUnit, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}

	unit, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrForbidden
		}
		s.logger.Error("failed to load content unit", zap.Error(err))
		return nil, fmt.Errorf("failed to get content unit: %w", err)
	}

	course, err := s.courses.GetByID(ctx, unit.CourseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrForbidden
		}
		s.logger.Error("failed to load course", zap.Error(err))
		return nil, fmt.Errorf("failed to get content unit: %w", err)
	}
	if err := authorize(callerID, course.OwnerID); err != nil {
		return nil, err
	}

	return unit, nil
}

// ListOwnerCourses retrieves the caller's own courses, drafts of their units included elsewhere
func (s *contentService) ListOwnerCourses(ctx context.Context, callerID string) ([]models.Course, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}

	courses, err := s.courses.ListByOwner(ctx, callerID)
	if err != nil {
		s.logger.Error("failed to list owner courses", zap.Error(err))
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	return courses, nil
}

// ListPublicCourses retrieves all courses for anonymous browsing. Courses carry
// no publish flag themselves, so nothing here leaks draft content.
func (s *contentService) ListPublicCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courses.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list courses", zap.Error(err))
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	return courses, nil
}

// GetPublicCourse retrieves a course by name with its owner display info and
// published units for the public course page
func (s *contentService) GetPublicCourse(ctx context.Context, courseName string) (*models.CourseDetailResponse, error) {
	course, err := s.courses.GetByCourseName(ctx, courseName)
	if err != nil {
		return nil, s.wrapLookup("failed to get course", err)
	}

	owner, err := s.users.GetByID(ctx, course.OwnerID)
	if err != nil {
		s.logger.Error("failed to load course owner", zap.Error(err), zap.String("course_id", course.ID))
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	units, err := s.units.ListPublishedByCourse(ctx, course.ID)
	if err != nil {
		s.logger.Error("failed to list published units", zap.Error(err))
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if units == nil {
		units = []models.ContentUnit{}
	}

	return &models.CourseDetailResponse{
		Course: *course,
		Owner:  models.UserInfo{Name: owner.Name, Image: owner.Image},
		Units:  units,
	}, nil
}

// ListOwnerContentUnits retrieves all units of one kind in the caller's
// course, drafts included. Missing and foreign courses both return Forbidden.
func (s *contentService) ListOwnerContentUnits(ctx context.Context, callerID, courseID string, kind models.UnitKind) ([]models.ContentUnit, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrForbidden
		}
		s.logger.Error("failed to load course", zap.Error(err))
		return nil, fmt.Errorf("failed to list content units: %w", err)
	}
	if err := authorize(callerID, course.OwnerID); err != nil {
		return nil, err
	}

	units, err := s.units.ListByCourse(ctx, course.ID, kind)
	if err != nil {
		s.logger.Error("failed to list content units", zap.Error(err))
		return nil, fmt.Errorf("failed to list content units: %w", err)
	}

	return units, nil
}

// wrapLookup passes NotFound through untouched and wraps anything else as an
// opaque storage failure
func (s *contentService) wrapLookup(msg string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	s.logger.Error(msg, zap.Error(err))
	return fmt.Errorf("%s: %w", msg, err)
}
