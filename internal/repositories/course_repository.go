package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/courseforge/backend/internal/apperrors"
	"github.com/courseforge/backend/internal/models"
)

// duplicateEntryCode is the MySQL error number for a unique key violation.
// The unique constraints in the schema are the authoritative uniqueness
// mechanism; the services' existence pre-checks only provide friendlier
// errors in the common case.
const duplicateEntryCode = 1062

// isDuplicateEntry reports whether err is a unique constraint violation
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == duplicateEntryCode
}

type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

// GetByCourseName retrieves a course by its unique course name
func (r *courseRepository) GetByCourseName(ctx context.Context, courseName string) (*models.Course, error) {
	query := `
		SELECT id, name, description, course_name, owner_id, created_at, updated_at
		FROM courses
		WHERE course_name = ?
		LIMIT 1
	`

	return r.scanCourse(r.db.QueryRowContext(ctx, query, courseName))
}

// GetByID retrieves a course by its ID
func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	query := `
		SELECT id, name, description, course_name, owner_id, created_at, updated_at
		FROM courses
		WHERE id = ?
		LIMIT 1
	`

	return r.scanCourse(r.db.QueryRowContext(ctx, query, id))
}

func (r *courseRepository) scanCourse(row *sql.Row) (*models.Course, error) {
	var course models.Course
	var description sql.NullString
	err := row.Scan(
		&course.ID,
		&course.Name,
		&description,
		&course.CourseName,
		&course.OwnerID,
		&course.CreatedAt,
		&course.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	course.Description = description.String
	return &course, nil
}

// ListByOwner retrieves all courses owned by a user, most recently updated first
func (r *courseRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Course, error) {
	query := `
		SELECT id, name, description, course_name, owner_id, created_at, updated_at
		FROM courses
		WHERE owner_id = ?
		ORDER BY updated_at DESC
	`

	return r.queryCourses(ctx, query, ownerID)
}

// ListAll retrieves all courses for public browsing, most recently updated first
func (r *courseRepository) ListAll(ctx context.Context) ([]models.Course, error) {
	query := `
		SELECT id, name, description, course_name, owner_id, created_at, updated_at
		FROM courses
		ORDER BY updated_at DESC
	`

	return r.queryCourses(ctx, query)
}

func (r *courseRepository) queryCourses(ctx context.Context, query string, args ...any) ([]models.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var course models.Course
		var description sql.NullString
		err := rows.Scan(
			&course.ID,
			&course.Name,
			&description,
			&course.CourseName,
			&course.OwnerID,
			&course.CreatedAt,
			&course.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		course.Description = description.String
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return courses, nil
}

// ExistsByCourseName checks if a course with the given course name exists
func (r *courseRepository) ExistsByCourseName(ctx context.Context, courseName string) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM courses WHERE course_name = ?)"
	var exists bool
	err := r.db.QueryRowContext(ctx, query, courseName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check course name existence: %w", err)
	}
	return exists, nil
}

// Create creates a new course. A concurrent create of the same course name
// loses against the unique constraint and surfaces as a Taken error, exactly
// like the pre-check would have reported.
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Second)
	course.CreatedAt = now
	course.UpdatedAt = now

	query := `
		INSERT INTO courses (id, name, description, course_name, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var description any
	if course.Description != "" {
		description = course.Description
	}

	_, err := r.db.ExecContext(ctx, query,
		course.ID,
		course.Name,
		description,
		course.CourseName,
		course.OwnerID,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperrors.Taken("courseName")
		}
		return fmt.Errorf("failed to create course: %w", err)
	}

	return nil
}
