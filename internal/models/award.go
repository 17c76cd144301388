package models

import "time"

// AwardCategory enumerates the monthly award categories.
type AwardCategory string

const (
	CategoryMostPoints      AwardCategory = "mostPoints"
	CategoryHighestElo      AwardCategory = "highestElo"
	CategoryWinningStreak   AwardCategory = "winningStreak"
	CategoryGiantKiller     AwardCategory = "giantKiller"
	CategorySocialButterfly AwardCategory = "socialButterfly"
	CategoryBestDefense     AwardCategory = "bestDefense"
	CategoryHighestMatch    AwardCategory = "highestMatch"
	CategoryEloSwing        AwardCategory = "eloSwing"
	CategoryBiggestLoser    AwardCategory = "biggestLoser"
	CategoryRivalry         AwardCategory = "rivalryAward"
)

// AllCategories lists every category in the order awards are saved.
var AllCategories = []AwardCategory{
	CategoryMostPoints,
	CategoryHighestElo,
	CategoryWinningStreak,
	CategoryGiantKiller,
	CategorySocialButterfly,
	CategoryBestDefense,
	CategoryHighestMatch,
	CategoryEloSwing,
	CategoryBiggestLoser,
	CategoryRivalry,
}

// MonthlyAward is one category winner for one calendar month.
// (player_id, category, month, year) is unique; saving again upserts.
type MonthlyAward struct {
	ID        string        `json:"id" db:"id"`
	PlayerID  string        `json:"player_id" db:"player_id"`
	Category  AwardCategory `json:"category" db:"category"`
	Month     int           `json:"month" db:"month"`
	Year      int           `json:"year" db:"year"`
	MonthName string        `json:"month_name" db:"month_name"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`

	// Populated on reads via join.
	PlayerName string `json:"player_name,omitempty" db:"player_name"`
}

type AwardRow struct {
	PlayerID  string        `json:"player_id" binding:"required"`
	Category  AwardCategory `json:"category" binding:"required"`
	Month     int           `json:"month"`
	Year      int           `json:"year" binding:"required"`
	MonthName string        `json:"month_name"`
}

type SaveAwardsRequest struct {
	Awards []AwardRow `json:"awards" binding:"required"`
}
