package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"stableford/internal/handicap/models"
	"stableford/internal/platform/postgres"
	id "stableford/pkg/domain"
	"stableford/pkg/platform/sentinel"
)

// PostgresStore persists handicap records in PostgreSQL. Inside a unit of
// work it uses the transaction carried by the context.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const recordColumns = `id, player_id, author_id, value, start_date, end_date, reason, created_at, updated_at`

func (s *PostgresStore) ListByPlayer(ctx context.Context, playerID id.PlayerID) ([]*models.Record, error) {
	rows, err := postgres.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT `+recordColumns+` FROM handicap_records WHERE player_id = $1 ORDER BY start_date ASC`,
		uuid.UUID(playerID),
	)
	if err != nil {
		return nil, fmt.Errorf("list handicap records: %w", err)
	}
	defer rows.Close()

	var out []*models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate handicap records: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, recordID id.HandicapRecordID) (*models.Record, error) {
	row := postgres.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM handicap_records WHERE id = $1`,
		uuid.UUID(recordID),
	)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *PostgresStore) SaveRecords(ctx context.Context, records []*models.Record) error {
	conn := postgres.Conn(ctx, s.db)
	for _, rec := range records {
		var end sql.NullTime
		if rec.End != nil {
			end = sql.NullTime{Time: rec.End.Time(), Valid: true}
		}
		var author *uuid.UUID
		if !rec.AuthorID.IsNil() {
			a := uuid.UUID(rec.AuthorID)
			author = &a
		}
		_, err := conn.ExecContext(ctx, `
			INSERT INTO handicap_records (`+recordColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				value = EXCLUDED.value,
				end_date = EXCLUDED.end_date,
				reason = EXCLUDED.reason,
				updated_at = EXCLUDED.updated_at
		`,
			uuid.UUID(rec.ID),
			uuid.UUID(rec.PlayerID),
			author,
			rec.Value,
			rec.Start.Time(),
			end,
			rec.Reason,
			rec.CreatedAt,
			rec.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("save handicap record %s: %w", rec.ID, postgres.TranslateWriteErr(err))
		}
	}
	return nil
}

func (s *PostgresStore) DeleteRecords(ctx context.Context, recordIDs []id.HandicapRecordID) error {
	if len(recordIDs) == 0 {
		return nil
	}
	raw := make([]string, len(recordIDs))
	for i, recordID := range recordIDs {
		raw[i] = recordID.String()
	}
	_, err := postgres.Conn(ctx, s.db).ExecContext(ctx,
		`DELETE FROM handicap_records WHERE id = ANY($1::uuid[])`, pq.Array(raw),
	)
	if err != nil {
		return fmt.Errorf("delete handicap records: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.Record, error) {
	var (
		rec       models.Record
		recordID  uuid.UUID
		playerID  uuid.UUID
		authorID  uuid.NullUUID
		start     time.Time
		end       sql.NullTime
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&recordID, &playerID, &authorID, &rec.Value, &start, &end, &rec.Reason, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan handicap record: %w", err)
	}
	rec.ID = id.HandicapRecordID(recordID)
	rec.PlayerID = id.PlayerID(playerID)
	if authorID.Valid {
		rec.AuthorID = id.PlayerID(authorID.UUID)
	}
	rec.Start = id.DateOf(start)
	if end.Valid {
		rec.End = id.DatePtr(id.DateOf(end.Time))
	}
	rec.CreatedAt = createdAt
	rec.UpdatedAt = updatedAt
	return &rec, nil
}
