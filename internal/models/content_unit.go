package models

import "time"

// UnitKind distinguishes the two content unit variants of a course
type UnitKind string

const (
	UnitKindLesson UnitKind = "lesson"
	UnitKindPost   UnitKind = "post"
)

// ContentUnit represents a lesson or post inside a course.
// Lessons and posts share every field and every rule (ownership,
// per-course slug uniqueness, publish gating), so they are one type
// with a kind tag rather than two parallel models.
type ContentUnit struct {
	ID        string    `json:"id"`
	Kind      UnitKind  `json:"kind"`
	CourseID  string    `json:"courseId"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateContentUnitRequest represents a request to create a lesson or post
type CreateContentUnitRequest struct {
	CourseID  string   `json:"courseId" validate:"required,uuid4"`
	Title     string   `json:"title" validate:"required,max=255"`
	Slug      string   `json:"slug" validate:"required"`
	Content   string   `json:"content" validate:"required"`
	Published bool     `json:"published"`
	Tags      []string `json:"tags" validate:"omitempty,dive,required,max=50"`
}
