package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/courseforge/backend/internal/apperrors"
	"github.com/courseforge/backend/internal/models"
)

type commentRepository struct {
	db *sql.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *sql.DB) *commentRepository {
	return &commentRepository{
		db: db,
	}
}

const commentColumns = `
	c.id, c.content_unit_id, c.author_id, c.parent_id, c.content, c.created_at,
	u.name, COALESCE(u.image, '')
`

// GetByID retrieves a comment by its ID
func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = ?
		LIMIT 1
	`, commentColumns)

	var comment models.Comment
	var parentID sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID,
		&comment.ContentUnitID,
		&comment.AuthorID,
		&parentID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.Author.Name,
		&comment.Author.Image,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	if parentID.Valid {
		comment.ParentID = &parentID.String
	}
	return &comment, nil
}

// ListTopLevel retrieves the top-level comments of a content unit, newest
// first. Ties on created_at are broken by the insertion sequence, so two
// comments posted in the same microsecond still list latest-posted first.
func (r *commentRepository) ListTopLevel(ctx context.Context, contentUnitID string) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.content_unit_id = ? AND c.parent_id IS NULL
		ORDER BY c.created_at DESC, c.seq DESC
	`, commentColumns)

	return r.queryComments(ctx, query, contentUnitID)
}

// ListReplies retrieves every reply on a content unit (all comments with a
// parent), newest first. The discussion service groups them under their
// top-level ancestors, so replies chained onto other replies still surface.
func (r *commentRepository) ListReplies(ctx context.Context, contentUnitID string) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.content_unit_id = ? AND c.parent_id IS NOT NULL
		ORDER BY c.created_at DESC, c.seq DESC
	`, commentColumns)

	return r.queryComments(ctx, query, contentUnitID)
}

func (r *commentRepository) queryComments(ctx context.Context, query string, args ...any) ([]models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		var parentID sql.NullString
		err := rows.Scan(
			&comment.ID,
			&comment.ContentUnitID,
			&comment.AuthorID,
			&parentID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.Author.Name,
			&comment.Author.Image,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if parentID.Valid {
			comment.ParentID = &parentID.String
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return comments, nil
}

// Create creates a new comment
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	comment.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO comments (id, content_unit_id, author_id, parent_id, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var parentID any
	if comment.ParentID != nil {
		parentID = *comment.ParentID
	}

	_, err := r.db.ExecContext(ctx, query,
		comment.ID,
		comment.ContentUnitID,
		comment.AuthorID,
		parentID,
		comment.Content,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}
