package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"stableford/internal/platform/postgres"
	playermodels "stableford/internal/player/models"
	"stableford/internal/round/models"
	id "stableford/pkg/domain"
	"stableford/pkg/platform/sentinel"
)

// PostgresStore persists rounds and their scores in PostgreSQL. Save writes
// several statements and must run inside a unit of work.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const roundColumns = `id, player_id, course_id, tee_set_id, date_played, course_rating, slope_rating,
	rating_variant, handicap_used, course_handicap, expected_holes, total_strokes, total_points,
	differential, finalized_at, created_at, updated_at`

func (s *PostgresStore) FindByID(ctx context.Context, roundID id.RoundID) (*models.Round, error) {
	conn := postgres.Conn(ctx, s.db)
	row := conn.QueryRowContext(ctx, `SELECT `+roundColumns+` FROM rounds WHERE id = $1`, uuid.UUID(roundID))
	round, err := scanRound(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	scores, err := s.scoresFor(ctx, conn, []string{roundID.String()})
	if err != nil {
		return nil, err
	}
	round.Scores = scores[round.ID]
	return round, nil
}

func (s *PostgresStore) ListByPlayer(ctx context.Context, playerID id.PlayerID) ([]*models.Round, error) {
	conn := postgres.Conn(ctx, s.db)
	rows, err := conn.QueryContext(ctx,
		`SELECT `+roundColumns+` FROM rounds WHERE player_id = $1 ORDER BY date_played DESC, created_at DESC`,
		uuid.UUID(playerID),
	)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var (
		out []*models.Round
		ids []string
	)
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
		ids = append(ids, r.ID.String())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rounds: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}
	scores, err := s.scoresFor(ctx, conn, ids)
	if err != nil {
		return nil, err
	}
	for _, r := range out {
		r.Scores = scores[r.ID]
	}
	return out, nil
}

// Save upserts the round row and replaces its scores.
func (s *PostgresStore) Save(ctx context.Context, round *models.Round) error {
	conn := postgres.Conn(ctx, s.db)
	_, err := conn.ExecContext(ctx, `
		INSERT INTO rounds (`+roundColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			date_played = EXCLUDED.date_played,
			handicap_used = EXCLUDED.handicap_used,
			course_handicap = EXCLUDED.course_handicap,
			total_strokes = EXCLUDED.total_strokes,
			total_points = EXCLUDED.total_points,
			differential = EXCLUDED.differential,
			finalized_at = EXCLUDED.finalized_at,
			updated_at = EXCLUDED.updated_at
	`,
		uuid.UUID(round.ID),
		uuid.UUID(round.PlayerID),
		uuid.UUID(round.CourseID),
		uuid.UUID(round.TeeSetID),
		round.DatePlayed.Time(),
		round.Ratings.CourseRating,
		round.Ratings.SlopeRating,
		string(round.Ratings.Variant),
		nullFloat(round.HandicapUsed),
		nullInt(round.CourseHandicap),
		round.ExpectedHoles,
		nullInt(round.TotalStrokes),
		nullInt(round.TotalPoints),
		nullFloat(round.Differential),
		nullTime(round.FinalizedAt),
		round.CreatedAt,
		round.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save round %s: %w", round.ID, postgres.TranslateWriteErr(err))
	}

	if _, err := conn.ExecContext(ctx, `DELETE FROM scores WHERE round_id = $1`, uuid.UUID(round.ID)); err != nil {
		return fmt.Errorf("clear scores: %w", postgres.TranslateWriteErr(err))
	}
	for _, score := range round.Scores {
		_, err := conn.ExecContext(ctx,
			`INSERT INTO scores (round_id, hole_number, strokes, points) VALUES ($1, $2, $3, $4)`,
			uuid.UUID(round.ID), score.HoleNumber, score.Strokes, nullInt(score.Points),
		)
		if err != nil {
			return fmt.Errorf("save score for hole %d: %w", score.HoleNumber, postgres.TranslateWriteErr(err))
		}
	}
	return nil
}

// Delete removes a round; its scores go with it through ON DELETE CASCADE.
func (s *PostgresStore) Delete(ctx context.Context, roundID id.RoundID) error {
	res, err := postgres.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM rounds WHERE id = $1`, uuid.UUID(roundID))
	if err != nil {
		return fmt.Errorf("delete round %s: %w", roundID, postgres.TranslateWriteErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete round %s: %w", roundID, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) scoresFor(ctx context.Context, conn postgres.Executor, roundIDs []string) (map[id.RoundID][]models.Score, error) {
	rows, err := conn.QueryContext(ctx,
		`SELECT round_id, hole_number, strokes, points FROM scores WHERE round_id = ANY($1::uuid[]) ORDER BY round_id, hole_number`,
		pq.Array(roundIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	out := make(map[id.RoundID][]models.Score, len(roundIDs))
	for rows.Next() {
		var (
			roundID uuid.UUID
			score   models.Score
			points  sql.NullInt64
		)
		if err := rows.Scan(&roundID, &score.HoleNumber, &score.Strokes, &points); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		if points.Valid {
			p := int(points.Int64)
			score.Points = &p
		}
		out[id.RoundID(roundID)] = append(out[id.RoundID(roundID)], score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRound(row rowScanner) (*models.Round, error) {
	var (
		r              models.Round
		roundID        uuid.UUID
		playerID       uuid.UUID
		courseID       uuid.UUID
		teeSetID       uuid.UUID
		played         time.Time
		variant        string
		handicapUsed   sql.NullFloat64
		courseHandicap sql.NullInt64
		totalStrokes   sql.NullInt64
		totalPoints    sql.NullInt64
		differential   sql.NullFloat64
		finalizedAt    sql.NullTime
	)
	err := row.Scan(
		&roundID, &playerID, &courseID, &teeSetID, &played,
		&r.Ratings.CourseRating, &r.Ratings.SlopeRating, &variant,
		&handicapUsed, &courseHandicap, &r.ExpectedHoles,
		&totalStrokes, &totalPoints, &differential,
		&finalizedAt, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan round: %w", err)
	}
	r.ID = id.RoundID(roundID)
	r.PlayerID = id.PlayerID(playerID)
	r.CourseID = id.CourseID(courseID)
	r.TeeSetID = id.TeeSetID(teeSetID)
	r.DatePlayed = id.DateOf(played)
	r.Ratings.Variant = playermodels.Gender(variant)
	if handicapUsed.Valid {
		v := handicapUsed.Float64
		r.HandicapUsed = &v
	}
	r.CourseHandicap = intPtr(courseHandicap)
	r.TotalStrokes = intPtr(totalStrokes)
	r.TotalPoints = intPtr(totalPoints)
	if differential.Valid {
		v := differential.Float64
		r.Differential = &v
	}
	if finalizedAt.Valid {
		t := finalizedAt.Time
		r.FinalizedAt = &t
	}
	return &r, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
