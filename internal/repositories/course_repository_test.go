package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseforge/backend/internal/apperrors"
	"github.com/courseforge/backend/internal/models"
)

const courseColumnsList = `id, name, description, course_name, owner_id, created_at, updated_at`

// setupCourseRepository creates a course repository with a mock database
func setupCourseRepository(t *testing.T) (*courseRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewCourseRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func courseRows(t *testing.T, courses ...models.Course) *sqlmock.Rows {
	t.Helper()
	rows := sqlmock.NewRows([]string{"id", "name", "description", "course_name", "owner_id", "created_at", "updated_at"})
	for _, c := range courses {
		rows.AddRow(c.ID, c.Name, c.Description, c.CourseName, c.OwnerID, c.CreatedAt, c.UpdatedAt)
	}
	return rows
}

func TestNewCourseRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewCourseRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestCourseRepository_GetByCourseName(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	tests := []struct {
		name          string
		courseName    string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		expectedID    string
	}{
		{
			name:       "success",
			courseName: "go-basics",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := courseRows(t, models.Course{
					ID:         "course-1",
					Name:       "Go Basics",
					CourseName: "go-basics",
					OwnerID:    "owner-1",
					CreatedAt:  now,
					UpdatedAt:  now,
				})
				mock.ExpectQuery(`SELECT ` + courseColumnsList + ` FROM courses WHERE course_name = \? LIMIT 1`).
					WithArgs("go-basics").
					WillReturnRows(rows)
			},
			expectedID: "course-1",
		},
		{
			name:       "not found",
			courseName: "missing",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT ` + courseColumnsList + ` FROM courses WHERE course_name = \? LIMIT 1`).
					WithArgs("missing").
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: apperrors.ErrNotFound,
		},
		{
			name:       "database error",
			courseName: "go-basics",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT ` + courseColumnsList + ` FROM courses WHERE course_name = \? LIMIT 1`).
					WithArgs("go-basics").
					WillReturnError(errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			result, err := repo.GetByCourseName(context.Background(), tt.courseName)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Nil(t, result)
				if errors.Is(tt.expectedError, apperrors.ErrNotFound) {
					assert.ErrorIs(t, err, apperrors.ErrNotFound)
				}
			} else {
				assert.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, tt.expectedID, result.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_GetByID(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	tests := []struct {
		name          string
		id            string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		notFound      bool
	}{
		{
			name: "success",
			id:   "course-1",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := courseRows(t, models.Course{
					ID:          "course-1",
					Name:        "Go Basics",
					Description: "An introduction",
					CourseName:  "go-basics",
					OwnerID:     "owner-1",
					CreatedAt:   now,
					UpdatedAt:   now,
				})
				mock.ExpectQuery(`SELECT ` + courseColumnsList + ` FROM courses WHERE id = \? LIMIT 1`).
					WithArgs("course-1").
					WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			id:   "missing",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT ` + courseColumnsList + ` FROM courses WHERE id = \? LIMIT 1`).
					WithArgs("missing").
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: true,
			notFound:      true,
		},
		{
			name: "null description",
			id:   "course-2",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "name", "description", "course_name", "owner_id", "created_at", "updated_at"}).
					AddRow("course-2", "Go Basics", nil, "go-basics", "owner-1", now, now)
				mock.ExpectQuery(`SELECT ` + courseColumnsList + ` FROM courses WHERE id = \? LIMIT 1`).
					WithArgs("course-2").
					WillReturnRows(rows)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			result, err := repo.GetByID(context.Background(), tt.id)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, result)
				if tt.notFound {
					assert.ErrorIs(t, err, apperrors.ErrNotFound)
				}
			} else {
				assert.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, tt.id, result.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_ListByOwner(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	tests := []struct {
		name          string
		ownerID       string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedCount int
	}{
		{
			name:    "success",
			ownerID: "owner-1",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := courseRows(t,
					models.Course{ID: "course-2", Name: "Advanced Go", CourseName: "advanced-go", OwnerID: "owner-1", CreatedAt: now, UpdatedAt: now.Add(time.Hour)},
					models.Course{ID: "course-1", Name: "Go Basics", CourseName: "go-basics", OwnerID: "owner-1", CreatedAt: now, UpdatedAt: now},
				)
				mock.ExpectQuery(`SELECT ` + courseColumnsList + ` FROM courses WHERE owner_id = \? ORDER BY updated_at DESC`).
					WithArgs("owner-1").
					WillReturnRows(rows)
			},
			expectedCount: 2,
		},
		{
			name:    "empty result",
			ownerID: "owner-2",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := courseRows(t)
				mock.ExpectQuery(`SELECT ` + courseColumnsList + ` FROM courses WHERE owner_id = \? ORDER BY updated_at DESC`).
					WithArgs("owner-2").
					WillReturnRows(rows)
			},
			expectedCount: 0,
		},
		{
			name:    "database error",
			ownerID: "owner-1",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT ` + courseColumnsList + ` FROM courses WHERE owner_id = \? ORDER BY updated_at DESC`).
					WithArgs("owner-1").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
		{
			name:    "scan error",
			ownerID: "owner-1",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "name", "description", "course_name", "owner_id", "created_at", "updated_at"}).
					AddRow("course-1", "Go Basics", nil, "go-basics", "owner-1", "not-a-time", now)
				mock.ExpectQuery(`SELECT ` + courseColumnsList + ` FROM courses WHERE owner_id = \? ORDER BY updated_at DESC`).
					WithArgs("owner-1").
					WillReturnRows(rows)
			},
			expectedError: true,
		},
		{
			name:    "rows iteration error",
			ownerID: "owner-1",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := courseRows(t, models.Course{ID: "course-1", Name: "Go Basics", CourseName: "go-basics", OwnerID: "owner-1", CreatedAt: now, UpdatedAt: now}).
					RowError(0, errors.New("row error"))
				mock.ExpectQuery(`SELECT ` + courseColumnsList + ` FROM courses WHERE owner_id = \? ORDER BY updated_at DESC`).
					WithArgs("owner-1").
					WillReturnRows(rows)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			result, err := repo.ListByOwner(context.Background(), tt.ownerID)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Len(t, result, tt.expectedCount)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_ListAll(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := setupCourseRepository(t)
		defer cleanup()

		rows := courseRows(t,
			models.Course{ID: "course-1", Name: "Go Basics", CourseName: "go-basics", OwnerID: "owner-1", CreatedAt: now, UpdatedAt: now},
			models.Course{ID: "course-2", Name: "Rust Basics", CourseName: "rust-basics", OwnerID: "owner-2", CreatedAt: now, UpdatedAt: now},
		)
		mock.ExpectQuery(`SELECT ` + courseColumnsList + ` FROM courses ORDER BY updated_at DESC`).
			WillReturnRows(rows)

		result, err := repo.ListAll(context.Background())

		assert.NoError(t, err)
		assert.Len(t, result, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, cleanup := setupCourseRepository(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT ` + courseColumnsList + ` FROM courses ORDER BY updated_at DESC`).
			WillReturnError(errors.New("database error"))

		result, err := repo.ListAll(context.Background())

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCourseRepository_ExistsByCourseName(t *testing.T) {
	tests := []struct {
		name          string
		courseName    string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expected      bool
	}{
		{
			name:       "exists",
			courseName: "go-basics",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"exists"}).AddRow(true)
				mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM courses WHERE course_name = \?\)`).
					WithArgs("go-basics").
					WillReturnRows(rows)
			},
			expected: true,
		},
		{
			name:       "does not exist",
			courseName: "missing",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"exists"}).AddRow(false)
				mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM courses WHERE course_name = \?\)`).
					WithArgs("missing").
					WillReturnRows(rows)
			},
			expected: false,
		},
		{
			name:       "database error",
			courseName: "go-basics",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM courses WHERE course_name = \?\)`).
					WithArgs("go-basics").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			exists, err := repo.ExistsByCourseName(context.Background(), tt.courseName)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, exists)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		course        models.Course
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		takenField    string
	}{
		{
			name: "success",
			course: models.Course{
				Name:        "Go Basics",
				Description: "An introduction",
				CourseName:  "go-basics",
				OwnerID:     "owner-1",
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO courses \(id, name, description, course_name, owner_id, created_at, updated_at\) VALUES \(\?, \?, \?, \?, \?, \?, \?\)`).
					WithArgs(sqlmock.AnyArg(), "Go Basics", "An introduction", "go-basics", "owner-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "empty description stored as null",
			course: models.Course{
				Name:       "Go Basics",
				CourseName: "go-basics",
				OwnerID:    "owner-1",
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO courses \(id, name, description, course_name, owner_id, created_at, updated_at\) VALUES \(\?, \?, \?, \?, \?, \?, \?\)`).
					WithArgs(sqlmock.AnyArg(), "Go Basics", nil, "go-basics", "owner-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "duplicate course name",
			course: models.Course{
				Name:       "Go Basics",
				CourseName: "go-basics",
				OwnerID:    "owner-1",
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO courses \(id, name, description, course_name, owner_id, created_at, updated_at\) VALUES \(\?, \?, \?, \?, \?, \?, \?\)`).
					WithArgs(sqlmock.AnyArg(), "Go Basics", nil, "go-basics", "owner-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnError(&mysql.MySQLError{Number: duplicateEntryCode, Message: "Duplicate entry 'go-basics' for key 'uq_courses_course_name'"})
			},
			expectedError: true,
			takenField:    "courseName",
		},
		{
			name: "database error",
			course: models.Course{
				Name:       "Go Basics",
				CourseName: "go-basics",
				OwnerID:    "owner-1",
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO courses \(id, name, description, course_name, owner_id, created_at, updated_at\) VALUES \(\?, \?, \?, \?, \?, \?, \?\)`).
					WithArgs(sqlmock.AnyArg(), "Go Basics", nil, "go-basics", "owner-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			course := tt.course
			err := repo.Create(context.Background(), &course)

			if tt.expectedError {
				assert.Error(t, err)
				if tt.takenField != "" {
					assert.ErrorIs(t, err, apperrors.ErrTaken)
					assert.Equal(t, tt.takenField, apperrors.Field(err))
				}
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, course.ID)
				assert.False(t, course.CreatedAt.IsZero())
				assert.Equal(t, course.CreatedAt, course.UpdatedAt)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIsDuplicateEntry(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "duplicate entry",
			err:      &mysql.MySQLError{Number: duplicateEntryCode, Message: "Duplicate entry"},
			expected: true,
		},
		{
			name:     "other mysql error",
			err:      &mysql.MySQLError{Number: 1452, Message: "foreign key constraint fails"},
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("database error"),
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isDuplicateEntry(tt.err))
		})
	}
}
