package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/daanhekking/ping-pong-august/internal/models"
	"github.com/daanhekking/ping-pong-august/pkg/database"
)

// ErrDuplicate is returned when an insert hits a unique constraint.
var ErrDuplicate = errors.New("duplicate row")

type PlayerRepository struct {
	db *database.DB
}

func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Create registers a player with the initial rating and zero counters.
func (r *PlayerRepository) Create(name string) (*models.Player, error) {
	query := `
		INSERT INTO players (name, elo_rating, matches_played, matches_won, matches_lost)
		VALUES ($1, $2, 0, 0, 0)
		RETURNING id, name, elo_rating, matches_played, matches_won, matches_lost, created_at
	`

	player := &models.Player{}
	err := r.db.QueryRow(query, name, models.InitialRating).Scan(
		&player.ID,
		&player.Name,
		&player.Rating,
		&player.MatchesPlayed,
		&player.MatchesWon,
		&player.MatchesLost,
		&player.CreatedAt,
	)

	if err != nil {
		// The unique index on LOWER(name) catches registrations that
		// race past the service-level duplicate check.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

// FindByID returns nil without error when the player does not exist.
func (r *PlayerRepository) FindByID(id string) (*models.Player, error) {
	query := `
		SELECT id, name, elo_rating, matches_played, matches_won, matches_lost, created_at
		FROM players
		WHERE id = $1
	`

	player := &models.Player{}
	err := r.db.QueryRow(query, id).Scan(
		&player.ID,
		&player.Name,
		&player.Rating,
		&player.MatchesPlayed,
		&player.MatchesWon,
		&player.MatchesLost,
		&player.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find player: %w", err)
	}

	return player, nil
}

// FindByName matches case-insensitively, used for duplicate checks.
func (r *PlayerRepository) FindByName(name string) (*models.Player, error) {
	query := `
		SELECT id, name, elo_rating, matches_played, matches_won, matches_lost, created_at
		FROM players
		WHERE LOWER(name) = LOWER($1)
	`

	player := &models.Player{}
	err := r.db.QueryRow(query, name).Scan(
		&player.ID,
		&player.Name,
		&player.Rating,
		&player.MatchesPlayed,
		&player.MatchesWon,
		&player.MatchesLost,
		&player.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find player by name: %w", err)
	}

	return player, nil
}

// FindAll returns every player ordered by rating descending.
func (r *PlayerRepository) FindAll() ([]*models.Player, error) {
	query := `
		SELECT id, name, elo_rating, matches_played, matches_won, matches_lost, created_at
		FROM players
		ORDER BY elo_rating DESC, created_at ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player := &models.Player{}
		err := rows.Scan(
			&player.ID,
			&player.Name,
			&player.Rating,
			&player.MatchesPlayed,
			&player.MatchesWon,
			&player.MatchesLost,
			&player.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}

	return players, rows.Err()
}

// Count returns the total number of registered players.
func (r *PlayerRepository) Count() (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM players`

	err := r.db.QueryRow(query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}

	return count, nil
}
