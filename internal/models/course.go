package models

import "time"

// Course represents a course owned by a user
type Course struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CourseName  string    `json:"courseName"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	CourseName  string `json:"courseName" validate:"required"`
}

// CourseDetailResponse represents a course together with its published
// content units and owner display info for the public course page
type CourseDetailResponse struct {
	Course
	Owner UserInfo      `json:"owner"`
	Units []ContentUnit `json:"units"`
}
