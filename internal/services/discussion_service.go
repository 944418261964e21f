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

// CommentRepository is the interface that wraps methods for comments table data access
type CommentRepository interface {
	// Method GetByID retrieves a comment with its author display info.
	//
	// Returns apperrors.ErrNotFound when the comment does not exist.
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	// Method ListTopLevel retrieves the top-level comments of a content unit,
	// newest first with ties broken by id.
	ListTopLevel(ctx context.Context, contentUnitID string) ([]models.Comment, error)
	// Method ListReplies retrieves every reply on a content unit, newest first
	// with ties broken by id. Replies to replies are included; the service
	// flattens them under their top-level ancestors.
	ListReplies(ctx context.Context, contentUnitID string) ([]models.Comment, error)
	// Method Create persists a new comment, assigning its ID and creation time.
	Create(ctx context.Context, comment *models.Comment) error
}

type discussionService struct {
	comments CommentRepository
	units    ContentUnitRepository
	users    UserRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewDiscussionService creates a new discussion service
func NewDiscussionService(comments CommentRepository, units ContentUnitRepository, users UserRepository, logger *zap.Logger) *discussionService {
	return &discussionService{
		comments: comments,
		units:    units,
		users:    users,
		validate: newValidator(),
		logger:   logger,
	}
}

// ListComments retrieves the comment tree of a published content unit.
//
// The tree is exactly two levels deep. If the storage layer holds replies
// chained onto other replies, they are flattened into the reply list of
// their top-level ancestor rather than nested further.
func (s *discussionService) ListComments(ctx context.Context, contentUnitID string) ([]models.CommentWithReplies, error) {
	unit, err := s.units.GetByID(ctx, contentUnitID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to load content unit", zap.Error(err))
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if !unit.Published {
		return nil, apperrors.ErrNotFound
	}

	topLevel, err := s.comments.ListTopLevel(ctx, contentUnitID)
	if err != nil {
		s.logger.Error("failed to list top-level comments", zap.Error(err))
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	replies, err := s.comments.ListReplies(ctx, contentUnitID)
	if err != nil {
		s.logger.Error("failed to list replies", zap.Error(err))
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return buildCommentTree(topLevel, replies), nil
}

// buildCommentTree groups replies under their top-level ancestors, keeping
// the newest-first order of both input slices
func buildCommentTree(topLevel, replies []models.Comment) []models.CommentWithReplies {
	parents := make(map[string]*string, len(topLevel)+len(replies))
	for i := range topLevel {
		parents[topLevel[i].ID] = nil
	}
	for i := range replies {
		parents[replies[i].ID] = replies[i].ParentID
	}

	tree := make([]models.CommentWithReplies, len(topLevel))
	index := make(map[string]int, len(topLevel))
	for i, comment := range topLevel {
		tree[i] = models.CommentWithReplies{Comment: comment, Replies: []models.Comment{}}
		index[comment.ID] = i
	}

	for _, reply := range replies {
		ancestor := topLevelAncestor(reply, parents)
		if ancestor == "" {
			// orphaned reply, parent was on another unit or is gone
			continue
		}
		if i, ok := index[ancestor]; ok {
			tree[i].Replies = append(tree[i].Replies, reply)
		}
	}

	return tree
}

// topLevelAncestor walks the parent chain of a reply up to a comment with no
// parent and returns its ID, or "" when the chain leaves the known set
func topLevelAncestor(reply models.Comment, parents map[string]*string) string {
	id := reply.ID
	parent := reply.ParentID
	for parent != nil {
		id = *parent
		next, ok := parents[id]
		if !ok {
			return ""
		}
		parent = next
	}
	if reply.ParentID == nil {
		return ""
	}
	return id
}

// AddComment attaches a comment to a published content unit.
//
// Commenting on a draft is denied for everyone, the owner included, so the
// publish gate is one policy rather than two. A parentId must resolve to a
// comment on the same unit; anything else is rejected before persisting.
// The created comment is returned with its author info so clients can
// prepend it locally instead of re-fetching the tree.
func (s *discussionService) AddComment(ctx context.Context, callerID string, req models.CreateCommentRequest) (*models.Comment, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	unit, err := s.units.GetByID(ctx, req.ContentUnitID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to load content unit", zap.Error(err))
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	if !unit.Published {
		return nil, apperrors.ErrNotFound
	}

	if req.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.ErrInvalidParent
			}
			s.logger.Error("failed to load parent comment", zap.Error(err))
			return nil, fmt.Errorf("failed to add comment: %w", err)
		}
		if parent.ContentUnitID != unit.ID {
			return nil, apperrors.ErrInvalidParent
		}
	}

	author, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		s.logger.Error("failed to load comment author", zap.Error(err))
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	comment := &models.Comment{
		ContentUnitID: unit.ID,
		AuthorID:      callerID,
		ParentID:      req.ParentID,
		Content:       req.Content,
		Author:        models.UserInfo{Name: author.Name, Image: author.Image},
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error("failed to create comment", zap.Error(err))
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return comment, nil
}
