package models

import "time"

// Match is immutable once created. Winner must be the higher-scoring
// side and the two rating changes negate each other.
type Match struct {
	ID               string     `json:"id" db:"id"`
	Player1ID        string     `json:"player1_id" db:"player1_id"`
	Player2ID        string     `json:"player2_id" db:"player2_id"`
	Player1Score     int        `json:"player1_score" db:"player1_score"`
	Player2Score     int        `json:"player2_score" db:"player2_score"`
	WinnerID         string     `json:"winner_id" db:"winner_id"`
	Player1EloChange int        `json:"player1_elo_change" db:"player1_elo_change"`
	Player2EloChange int        `json:"player2_elo_change" db:"player2_elo_change"`
	PlayedAt         *time.Time `json:"played_at,omitempty" db:"played_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`

	// Denormalized display names, populated on reads via join.
	Player1Name string `json:"player1_name,omitempty" db:"player1_name"`
	Player2Name string `json:"player2_name,omitempty" db:"player2_name"`
	WinnerName  string `json:"winner_name,omitempty" db:"winner_name"`
}

// Time reports when the match was played, falling back to the
// creation time when played_at is absent.
func (m *Match) Time() time.Time {
	if m.PlayedAt != nil {
		return *m.PlayedAt
	}
	return m.CreatedAt
}

type CreateMatchRequest struct {
	Player1ID    string     `json:"player1_id" binding:"required"`
	Player2ID    string     `json:"player2_id" binding:"required"`
	Player1Score int        `json:"player1_score"`
	Player2Score int        `json:"player2_score"`
	WinnerID     string     `json:"winner_id"`
	PlayedAt     *time.Time `json:"played_at"`
}
