package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"stableford/internal/course/models"
	"stableford/internal/platform/postgres"
	id "stableford/pkg/domain"
	"stableford/pkg/platform/sentinel"
)

// PostgresStore reads course reference data from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// SaveCourse upserts a course and replaces its layout in one transaction.
func (s *PostgresStore) SaveCourse(ctx context.Context, course models.Course, holes []models.Hole) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save course: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO courses (id, name, holes_count) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, holes_count = EXCLUDED.holes_count
	`, uuid.UUID(course.ID), course.Name, course.HolesCount)
	if err != nil {
		return fmt.Errorf("save course: %w", postgres.TranslateWriteErr(err))
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM holes WHERE course_id = $1`, uuid.UUID(course.ID)); err != nil {
		return fmt.Errorf("clear holes: %w", err)
	}
	for _, h := range holes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO holes (course_id, hole_number, par, stroke_index) VALUES ($1, $2, $3, $4)
		`, uuid.UUID(course.ID), h.Number, h.Par, h.StrokeIndex)
		if err != nil {
			return fmt.Errorf("save hole %d: %w", h.Number, postgres.TranslateWriteErr(err))
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save course: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveTeeSet(ctx context.Context, tee models.TeeSet) error {
	var womenCourse, womenSlope sql.NullFloat64
	if tee.Women != nil {
		womenCourse = sql.NullFloat64{Float64: tee.Women.CourseRating, Valid: true}
		womenSlope = sql.NullFloat64{Float64: tee.Women.SlopeRating, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tee_sets (id, course_id, name, course_rating_men, slope_rating_men, course_rating_women, slope_rating_women)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			course_rating_men = EXCLUDED.course_rating_men,
			slope_rating_men = EXCLUDED.slope_rating_men,
			course_rating_women = EXCLUDED.course_rating_women,
			slope_rating_women = EXCLUDED.slope_rating_women
	`, uuid.UUID(tee.ID), uuid.UUID(tee.CourseID), tee.Name, tee.Men.CourseRating, tee.Men.SlopeRating, womenCourse, womenSlope)
	if err != nil {
		return fmt.Errorf("save tee set: %w", postgres.TranslateWriteErr(err))
	}
	return nil
}

func (s *PostgresStore) FindCourse(ctx context.Context, courseID id.CourseID) (*models.Course, error) {
	var (
		c   models.Course
		raw uuid.UUID
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, holes_count FROM courses WHERE id = $1`, uuid.UUID(courseID),
	).Scan(&raw, &c.Name, &c.HolesCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	c.ID = id.CourseID(raw)
	return &c, nil
}

func (s *PostgresStore) HolesForCourse(ctx context.Context, courseID id.CourseID) ([]models.Hole, error) {
	if _, err := s.FindCourse(ctx, courseID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT hole_number, par, stroke_index FROM holes WHERE course_id = $1 ORDER BY hole_number`,
		uuid.UUID(courseID),
	)
	if err != nil {
		return nil, fmt.Errorf("list holes: %w", err)
	}
	defer rows.Close()

	var holes []models.Hole
	for rows.Next() {
		h := models.Hole{CourseID: courseID}
		if err := rows.Scan(&h.Number, &h.Par, &h.StrokeIndex); err != nil {
			return nil, fmt.Errorf("scan hole: %w", err)
		}
		holes = append(holes, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holes: %w", err)
	}
	return holes, nil
}

func (s *PostgresStore) FindTeeSet(ctx context.Context, teeSetID id.TeeSetID) (*models.TeeSet, error) {
	var (
		t                       models.TeeSet
		rawID, rawCourse        uuid.UUID
		womenCourse, womenSlope sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, course_id, name, course_rating_men, slope_rating_men, course_rating_women, slope_rating_women
		FROM tee_sets WHERE id = $1
	`, uuid.UUID(teeSetID)).Scan(&rawID, &rawCourse, &t.Name, &t.Men.CourseRating, &t.Men.SlopeRating, &womenCourse, &womenSlope)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find tee set: %w", err)
	}
	t.ID = id.TeeSetID(rawID)
	t.CourseID = id.CourseID(rawCourse)
	if womenCourse.Valid || womenSlope.Valid {
		t.Women = &models.Rating{CourseRating: womenCourse.Float64, SlopeRating: womenSlope.Float64}
	}
	return &t, nil
}
