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

const contentUnitColumnsList = `id, kind, course_id, title, slug, content, published, tags, created_at, updated_at`

// setupContentUnitRepository creates a content unit repository with a mock database
func setupContentUnitRepository(t *testing.T) (*contentUnitRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewContentUnitRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func contentUnitRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "kind", "course_id", "title", "slug", "content", "published", "tags", "created_at", "updated_at"})
}

func TestContentUnitRepository_GetByID(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	tests := []struct {
		name          string
		id            string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		notFound      bool
		expectedTags  []string
	}{
		{
			name: "success with tags",
			id:   "unit-1",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := contentUnitRows().
					AddRow("unit-1", "lesson", "course-1", "Intro", "intro", "Welcome", true, []byte(`["go","basics"]`), now, now)
				mock.ExpectQuery(`SELECT ` + contentUnitColumnsList + ` FROM content_units WHERE id = \? LIMIT 1`).
					WithArgs("unit-1").
					WillReturnRows(rows)
			},
			expectedTags: []string{"go", "basics"},
		},
		{
			name: "success with null tags",
			id:   "unit-2",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := contentUnitRows().
					AddRow("unit-2", "post", "course-1", "News", "news", "Update", false, nil, now, now)
				mock.ExpectQuery(`SELECT ` + contentUnitColumnsList + ` FROM content_units WHERE id = \? LIMIT 1`).
					WithArgs("unit-2").
					WillReturnRows(rows)
			},
			expectedTags: []string{},
		},
		{
			name: "not found",
			id:   "missing",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT ` + contentUnitColumnsList + ` FROM content_units WHERE id = \? LIMIT 1`).
					WithArgs("missing").
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: true,
			notFound:      true,
		},
		{
			name: "malformed tags",
			id:   "unit-3",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := contentUnitRows().
					AddRow("unit-3", "lesson", "course-1", "Intro", "intro", "Welcome", true, []byte(`not json`), now, now)
				mock.ExpectQuery(`SELECT ` + contentUnitColumnsList + ` FROM content_units WHERE id = \? LIMIT 1`).
					WithArgs("unit-3").
					WillReturnRows(rows)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupContentUnitRepository(t)
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
				assert.Equal(t, tt.expectedTags, result.Tags)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestContentUnitRepository_GetByCourseAndSlug(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	tests := []struct {
		name          string
		courseID      string
		slug          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		notFound      bool
	}{
		{
			name:     "success",
			courseID: "course-1",
			slug:     "intro",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := contentUnitRows().
					AddRow("unit-1", "lesson", "course-1", "Intro", "intro", "Welcome", true, []byte(`[]`), now, now)
				mock.ExpectQuery(`SELECT ` + contentUnitColumnsList + ` FROM content_units WHERE course_id = \? AND slug = \? LIMIT 1`).
					WithArgs("course-1", "intro").
					WillReturnRows(rows)
			},
		},
		{
			name:     "not found",
			courseID: "course-1",
			slug:     "missing",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT ` + contentUnitColumnsList + ` FROM content_units WHERE course_id = \? AND slug = \? LIMIT 1`).
					WithArgs("course-1", "missing").
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: true,
			notFound:      true,
		},
		{
			name:     "same slug different course is not found",
			courseID: "course-2",
			slug:     "intro",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT ` + contentUnitColumnsList + ` FROM content_units WHERE course_id = \? AND slug = \? LIMIT 1`).
					WithArgs("course-2", "intro").
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: true,
			notFound:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupContentUnitRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			result, err := repo.GetByCourseAndSlug(context.Background(), tt.courseID, tt.slug)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, result)
				if tt.notFound {
					assert.ErrorIs(t, err, apperrors.ErrNotFound)
				}
			} else {
				assert.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, tt.slug, result.Slug)
				assert.Equal(t, tt.courseID, result.CourseID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestContentUnitRepository_ListByCourse(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	tests := []struct {
		name          string
		courseID      string
		kind          models.UnitKind
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedCount int
	}{
		{
			name:     "lessons including drafts",
			courseID: "course-1",
			kind:     models.UnitKindLesson,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := contentUnitRows().
					AddRow("unit-2", "lesson", "course-1", "Draft", "draft", "WIP", false, []byte(`[]`), now, now.Add(time.Hour)).
					AddRow("unit-1", "lesson", "course-1", "Intro", "intro", "Welcome", true, []byte(`[]`), now, now)
				mock.ExpectQuery(`SELECT ` + contentUnitColumnsList + ` FROM content_units WHERE course_id = \? AND kind = \? ORDER BY updated_at DESC`).
					WithArgs("course-1", models.UnitKindLesson).
					WillReturnRows(rows)
			},
			expectedCount: 2,
		},
		{
			name:     "empty result",
			courseID: "course-1",
			kind:     models.UnitKindPost,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT ` + contentUnitColumnsList + ` FROM content_units WHERE course_id = \? AND kind = \? ORDER BY updated_at DESC`).
					WithArgs("course-1", models.UnitKindPost).
					WillReturnRows(contentUnitRows())
			},
			expectedCount: 0,
		},
		{
			name:     "database error",
			courseID: "course-1",
			kind:     models.UnitKindLesson,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT ` + contentUnitColumnsList + ` FROM content_units WHERE course_id = \? AND kind = \? ORDER BY updated_at DESC`).
					WithArgs("course-1", models.UnitKindLesson).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
		{
			name:     "rows iteration error",
			courseID: "course-1",
			kind:     models.UnitKindLesson,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := contentUnitRows().
					AddRow("unit-1", "lesson", "course-1", "Intro", "intro", "Welcome", true, []byte(`[]`), now, now).
					RowError(0, errors.New("row error"))
				mock.ExpectQuery(`SELECT ` + contentUnitColumnsList + ` FROM content_units WHERE course_id = \? AND kind = \? ORDER BY updated_at DESC`).
					WithArgs("course-1", models.UnitKindLesson).
					WillReturnRows(rows)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupContentUnitRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			result, err := repo.ListByCourse(context.Background(), tt.courseID, tt.kind)

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

func TestContentUnitRepository_ListPublishedByCourse(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := setupContentUnitRepository(t)
		defer cleanup()

		rows := contentUnitRows().
			AddRow("unit-1", "lesson", "course-1", "Intro", "intro", "Welcome", true, []byte(`["go"]`), now, now).
			AddRow("unit-3", "post", "course-1", "News", "news", "Update", true, []byte(`[]`), now, now)
		mock.ExpectQuery(`SELECT ` + contentUnitColumnsList + ` FROM content_units WHERE course_id = \? AND published = TRUE ORDER BY updated_at DESC`).
			WithArgs("course-1").
			WillReturnRows(rows)

		result, err := repo.ListPublishedByCourse(context.Background(), "course-1")

		assert.NoError(t, err)
		require.Len(t, result, 2)
		for _, unit := range result {
			assert.True(t, unit.Published)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, cleanup := setupContentUnitRepository(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT ` + contentUnitColumnsList + ` FROM content_units WHERE course_id = \? AND published = TRUE ORDER BY updated_at DESC`).
			WithArgs("course-1").
			WillReturnError(errors.New("database error"))

		result, err := repo.ListPublishedByCourse(context.Background(), "course-1")

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestContentUnitRepository_ExistsByCourseAndSlug(t *testing.T) {
	tests := []struct {
		name          string
		courseID      string
		slug          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expected      bool
	}{
		{
			name:     "exists",
			courseID: "course-1",
			slug:     "intro",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"exists"}).AddRow(true)
				mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM content_units WHERE course_id = \? AND slug = \?\)`).
					WithArgs("course-1", "intro").
					WillReturnRows(rows)
			},
			expected: true,
		},
		{
			name:     "does not exist",
			courseID: "course-1",
			slug:     "new-slug",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"exists"}).AddRow(false)
				mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM content_units WHERE course_id = \? AND slug = \?\)`).
					WithArgs("course-1", "new-slug").
					WillReturnRows(rows)
			},
			expected: false,
		},
		{
			name:     "database error",
			courseID: "course-1",
			slug:     "intro",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM content_units WHERE course_id = \? AND slug = \?\)`).
					WithArgs("course-1", "intro").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupContentUnitRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			exists, err := repo.ExistsByCourseAndSlug(context.Background(), tt.courseID, tt.slug)

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

func TestContentUnitRepository_Create(t *testing.T) {
	insertPattern := `INSERT INTO content_units \(id, kind, course_id, title, slug, content, published, tags, created_at, updated_at\) VALUES \(\?, \?, \?, \?, \?, \?, \?, \?, \?, \?\)`

	tests := []struct {
		name          string
		unit          models.ContentUnit
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		takenField    string
	}{
		{
			name: "success",
			unit: models.ContentUnit{
				Kind:      models.UnitKindLesson,
				CourseID:  "course-1",
				Title:     "Intro",
				Slug:      "intro",
				Content:   "Welcome",
				Published: true,
				Tags:      []string{"go", "basics"},
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(insertPattern).
					WithArgs(sqlmock.AnyArg(), models.UnitKindLesson, "course-1", "Intro", "intro", "Welcome", true, []byte(`["go","basics"]`), sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "nil tags stored as empty array",
			unit: models.ContentUnit{
				Kind:     models.UnitKindPost,
				CourseID: "course-1",
				Title:    "News",
				Slug:     "news",
				Content:  "Update",
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(insertPattern).
					WithArgs(sqlmock.AnyArg(), models.UnitKindPost, "course-1", "News", "news", "Update", false, []byte(`[]`), sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "duplicate slug",
			unit: models.ContentUnit{
				Kind:     models.UnitKindLesson,
				CourseID: "course-1",
				Title:    "Intro",
				Slug:     "intro",
				Content:  "Welcome",
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(insertPattern).
					WithArgs(sqlmock.AnyArg(), models.UnitKindLesson, "course-1", "Intro", "intro", "Welcome", false, []byte(`[]`), sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnError(&mysql.MySQLError{Number: duplicateEntryCode, Message: "Duplicate entry 'course-1-intro' for key 'uq_content_units_course_slug'"})
			},
			expectedError: true,
			takenField:    "slug",
		},
		{
			name: "database error",
			unit: models.ContentUnit{
				Kind:     models.UnitKindLesson,
				CourseID: "course-1",
				Title:    "Intro",
				Slug:     "intro",
				Content:  "Welcome",
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(insertPattern).
					WithArgs(sqlmock.AnyArg(), models.UnitKindLesson, "course-1", "Intro", "intro", "Welcome", false, []byte(`[]`), sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupContentUnitRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			unit := tt.unit
			err := repo.Create(context.Background(), &unit)

			if tt.expectedError {
				assert.Error(t, err)
				if tt.takenField != "" {
					assert.ErrorIs(t, err, apperrors.ErrTaken)
					assert.Equal(t, tt.takenField, apperrors.Field(err))
				}
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, unit.ID)
				assert.NotNil(t, unit.Tags)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
