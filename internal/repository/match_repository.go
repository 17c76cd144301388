package repository

import (
	"fmt"
	"time"

	"github.com/daanhekking/ping-pong-august/internal/models"
	"github.com/daanhekking/ping-pong-august/pkg/database"
)

type MatchRepository struct {
	db *database.DB
}

func NewMatchRepository(db *database.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchColumns = `
	m.id, m.player1_id, m.player2_id, m.player1_score, m.player2_score,
	m.winner_id, m.player1_elo_change, m.player2_elo_change,
	m.played_at, m.created_at,
	p1.name AS player1_name, p2.name AS player2_name, w.name AS winner_name
`

const matchJoins = `
	FROM matches m
	JOIN players p1 ON p1.id = m.player1_id
	JOIN players p2 ON p2.id = m.player2_id
	JOIN players w  ON w.id  = m.winner_id
`

// CreateWithStats inserts the match and applies both players' rating
// deltas and win/loss counters in a single transaction. The read of
// the pre-match ratings happens before this call, so two concurrent
// submissions for the same pair can still race; see DESIGN.md.
func (r *MatchRepository) CreateWithStats(m *models.Match) (*models.Match, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO matches (player1_id, player2_id, player1_score, player2_score,
		                     winner_id, player1_elo_change, player2_elo_change, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
		RETURNING id, played_at, created_at
	`

	created := *m
	err = tx.QueryRow(insert,
		m.Player1ID,
		m.Player2ID,
		m.Player1Score,
		m.Player2Score,
		m.WinnerID,
		m.Player1EloChange,
		m.Player2EloChange,
		m.PlayedAt,
	).Scan(&created.ID, &created.PlayedAt, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert match: %w", err)
	}

	updateStats := `
		UPDATE players
		SET elo_rating = elo_rating + $1,
		    matches_played = matches_played + 1,
		    matches_won = matches_won + $2,
		    matches_lost = matches_lost + $3
		WHERE id = $4
	`

	p1Won := m.WinnerID == m.Player1ID
	if _, err := tx.Exec(updateStats, m.Player1EloChange, boolToInc(p1Won), boolToInc(!p1Won), m.Player1ID); err != nil {
		return nil, fmt.Errorf("failed to update player1 stats: %w", err)
	}
	if _, err := tx.Exec(updateStats, m.Player2EloChange, boolToInc(!p1Won), boolToInc(p1Won), m.Player2ID); err != nil {
		return nil, fmt.Errorf("failed to update player2 stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match: %w", err)
	}

	return &created, nil
}

func boolToInc(b bool) int {
	if b {
		return 1
	}
	return 0
}

// FindAll returns matches ordered by play time descending, with
// player names joined in for display.
func (r *MatchRepository) FindAll() ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + matchJoins + `
		ORDER BY COALESCE(m.played_at, m.created_at) DESC
	`
	return r.queryMatches(query)
}

// FindByPlayerID returns a player's matches, newest first.
func (r *MatchRepository) FindByPlayerID(playerID string) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + matchJoins + `
		WHERE m.player1_id = $1 OR m.player2_id = $1
		ORDER BY COALESCE(m.played_at, m.created_at) DESC
	`
	return r.queryMatches(query, playerID)
}

// FindByPeriod returns matches whose play time falls in [start, end),
// ascending, the order the period aggregator folds them in.
func (r *MatchRepository) FindByPeriod(start, end time.Time) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + matchJoins + `
		WHERE COALESCE(m.played_at, m.created_at) >= $1
		  AND COALESCE(m.played_at, m.created_at) < $2
		ORDER BY COALESCE(m.played_at, m.created_at) ASC
	`
	return r.queryMatches(query, start, end)
}

func (r *MatchRepository) queryMatches(query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match := &models.Match{}
		err := rows.Scan(
			&match.ID,
			&match.Player1ID,
			&match.Player2ID,
			&match.Player1Score,
			&match.Player2Score,
			&match.WinnerID,
			&match.Player1EloChange,
			&match.Player2EloChange,
			&match.PlayedAt,
			&match.CreatedAt,
			&match.Player1Name,
			&match.Player2Name,
			&match.WinnerName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}

	return matches, rows.Err()
}
