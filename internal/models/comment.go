package models

import "time"

// Comment represents a comment on a published content unit
type Comment struct {
	ID            string    `json:"id"`
	ContentUnitID string    `json:"contentUnitId"`
	AuthorID      string    `json:"authorId"`
	ParentID      *string   `json:"parentId,omitempty"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
	Author        UserInfo  `json:"author"`
}

// CommentWithReplies represents a top-level comment with its nested replies.
// The tree is exactly two levels deep; replies never carry replies of their own.
type CommentWithReplies struct {
	Comment
	Replies []Comment `json:"replies"`
}

// CreateCommentRequest represents a request to add a comment or reply
type CreateCommentRequest struct {
	ContentUnitID string  `json:"contentUnitId" validate:"required,uuid4"`
	Content       string  `json:"content" validate:"required,max=5000"`
	ParentID      *string `json:"parentId" validate:"omitempty,uuid4"`
}
