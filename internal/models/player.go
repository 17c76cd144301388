package models

import "time"

// Player is a registered participant. Counters only move as a side
// effect of match recording; there is no delete path.
type Player struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Rating        int       `json:"elo_rating" db:"elo_rating"`
	MatchesPlayed int       `json:"matches_played" db:"matches_played"`
	MatchesWon    int       `json:"matches_won" db:"matches_won"`
	MatchesLost   int       `json:"matches_lost" db:"matches_lost"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// InitialRating is assigned to every newly registered player.
const InitialRating = 1000

type CreatePlayerRequest struct {
	Name string `json:"name" binding:"required"`
}
