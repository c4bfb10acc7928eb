package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"stableford/internal/player/models"
	id "stableford/pkg/domain"
	"stableford/pkg/platform/sentinel"
)

// PostgresStore reads players from the shared players table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, p *models.Player) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, name, gender)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, gender = EXCLUDED.gender
	`, uuid.UUID(p.ID), p.Name, string(p.Gender))
	if err != nil {
		return fmt.Errorf("save player: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindPlayer(ctx context.Context, playerID id.PlayerID) (*models.Player, error) {
	var (
		p      models.Player
		raw    uuid.UUID
		gender string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, gender FROM players WHERE id = $1`, uuid.UUID(playerID),
	).Scan(&raw, &p.Name, &gender)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find player: %w", err)
	}
	p.ID = id.PlayerID(raw)
	p.Gender = models.Gender(gender)
	return &p, nil
}
