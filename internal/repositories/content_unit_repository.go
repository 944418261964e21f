package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/courseforge/backend/internal/apperrors"
	"github.com/courseforge/backend/internal/models"
)

type contentUnitRepository struct {
	db *sql.DB
}

// NewContentUnitRepository creates a new content unit repository
func NewContentUnitRepository(db *sql.DB) *contentUnitRepository {
	return &contentUnitRepository{
		db: db,
	}
}

// GetByID retrieves a content unit by its ID
func (r *contentUnitRepository) GetByID(ctx context.Context, id string) (*models.ContentUnit, error) {
	query := `
		SELECT id, kind, course_id, title, slug, content, published, tags, created_at, updated_at
		FROM content_units
		WHERE id = ?
		LIMIT 1
	`

	return scanContentUnit(r.db.QueryRowContext(ctx, query, id))
}

// GetByCourseAndSlug retrieves a content unit by its course-scoped slug
func (r *contentUnitRepository) GetByCourseAndSlug(ctx context.Context, courseID, slug string) (*models.ContentUnit, error) {
	query := `
		SELECT id, kind, course_id, title, slug, content, published, tags, created_at, updated_at
		FROM content_units
		WHERE course_id = ? AND slug = ?
		LIMIT 1
	`

	return scanContentUnit(r.db.QueryRowContext(ctx, query, courseID, slug))
}

func scanContentUnit(row *sql.Row) (*models.ContentUnit, error) {
	var unit models.ContentUnit
	var tagsJSON []byte
	err := row.Scan(
		&unit.ID,
		&unit.Kind,
		&unit.CourseID,
		&unit.Title,
		&unit.Slug,
		&unit.Content,
		&unit.Published,
		&tagsJSON,
		&unit.CreatedAt,
		&unit.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content unit: %w", err)
	}

	if err := unmarshalTags(tagsJSON, &unit.Tags); err != nil {
		return nil, err
	}
	return &unit, nil
}

// ListByCourse retrieves all content units of one kind in a course, drafts
// included, most recently updated first
func (r *contentUnitRepository) ListByCourse(ctx context.Context, courseID string, kind models.UnitKind) ([]models.ContentUnit, error) {
	query := `
		SELECT id, kind, course_id, title, slug, content, published, tags, created_at, updated_at
		FROM content_units
		WHERE course_id = ? AND kind = ?
		ORDER BY updated_at DESC
	`

	return r.queryContentUnits(ctx, query, courseID, kind)
}

// ListPublishedByCourse retrieves the published content units of a course,
// most recently updated first
func (r *contentUnitRepository) ListPublishedByCourse(ctx context.Context, courseID string) ([]models.ContentUnit, error) {
	query := `
		SELECT id, kind, course_id, title, slug, content, published, tags, created_at, updated_at
		FROM content_units
		WHERE course_id = ? AND published = TRUE
		ORDER BY updated_at DESC
	`

	return r.queryContentUnits(ctx, query, courseID)
}

func (r *contentUnitRepository) queryContentUnits(ctx context.Context, query string, args ...any) ([]models.ContentUnit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query content units: %w", err)
	}
	defer rows.Close()

	var units []models.ContentUnit
	for rows.Next() {
		var unit models.ContentUnit
		var tagsJSON []byte
		err := rows.Scan(
			&unit.ID,
			&unit.Kind,
			&unit.CourseID,
			&unit.Title,
			&unit.Slug,
			&unit.Content,
			&unit.Published,
			&tagsJSON,
			&unit.CreatedAt,
			&unit.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content unit: %w", err)
		}
		if err := unmarshalTags(tagsJSON, &unit.Tags); err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return units, nil
}

// ExistsByCourseAndSlug checks if a content unit with the given slug exists
// within a course
func (r *contentUnitRepository) ExistsByCourseAndSlug(ctx context.Context, courseID, slug string) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM content_units WHERE course_id = ? AND slug = ?)"
	var exists bool
	err := r.db.QueryRowContext(ctx, query, courseID, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}
	return exists, nil
}

// Create creates a new content unit. A concurrent create of the same
// (course, slug) pair loses against the unique constraint and surfaces as
// the same Taken error the pre-check produces.
func (r *contentUnitRepository) Create(ctx context.Context, unit *models.ContentUnit) error {
	if unit.ID == "" {
		unit.ID = uuid.New().String()
	}
	if unit.Tags == nil {
		unit.Tags = []string{}
	}
	now := time.Now().UTC().Truncate(time.Second)
	unit.CreatedAt = now
	unit.UpdatedAt = now

	tagsJSON, err := json.Marshal(unit.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
		INSERT INTO content_units (id, kind, course_id, title, slug, content, published, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		unit.ID,
		unit.Kind,
		unit.CourseID,
		unit.Title,
		unit.Slug,
		unit.Content,
		unit.Published,
		tagsJSON,
		unit.CreatedAt,
		unit.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperrors.Taken("slug")
		}
		return fmt.Errorf("failed to create content unit: %w", err)
	}

	return nil
}

// unmarshalTags decodes the stored JSON tag array, preserving order
func unmarshalTags(data []byte, tags *[]string) error {
	if len(data) == 0 {
		*tags = []string{}
		return nil
	}
	if err := json.Unmarshal(data, tags); err != nil {
		return fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	return nil
}
