package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/daanhekking/ping-pong-august/internal/models"
	"github.com/daanhekking/ping-pong-august/internal/repository"
	"github.com/daanhekking/ping-pong-august/pkg/cache"
	"github.com/daanhekking/ping-pong-august/pkg/logger"
)

// PlayerPeriodStats accumulates one player's derived statistics over
// a period of matches.
type PlayerPeriodStats struct {
	Player           *models.Player `json:"player"`
	MatchesPlayed    int            `json:"matches_played"`
	TotalPoints      int            `json:"total_points"`
	AvgPointsAgainst float64        `json:"avg_points_against"`
	MaxPointsInMatch int            `json:"max_points_in_match"`
	BiggestEloSwing  int            `json:"biggest_elo_swing"`
	Losses           int            `json:"losses"`
	CurrentStreak    int            `json:"current_streak"`
	LongestStreak    int            `json:"longest_streak"`
	GiantKillerWins  int            `json:"giant_killer_wins"`
	UniqueOpponents  int            `json:"unique_opponents"`

	pointsAgainst int
	opponents     map[string]struct{}
}

// Rivalry counts matches between one unordered pair of players.
type Rivalry struct {
	Player1    *models.Player `json:"player1"`
	Player2    *models.Player `json:"player2"`
	MatchCount int            `json:"match_count"`
}

// CategoryResults holds every category's ranking for one period,
// each ordered best first.
type CategoryResults struct {
	MostPoints      []*PlayerPeriodStats `json:"mostPoints"`
	HighestElo      []*models.Player     `json:"highestElo"`
	WinningStreak   []*PlayerPeriodStats `json:"winningStreak"`
	GiantKiller     []*PlayerPeriodStats `json:"giantKiller"`
	SocialButterfly []*PlayerPeriodStats `json:"socialButterfly"`
	BestDefense     []*PlayerPeriodStats `json:"bestDefense"`
	HighestMatch    []*PlayerPeriodStats `json:"highestMatch"`
	EloSwing        []*PlayerPeriodStats `json:"eloSwing"`
	BiggestLoser    []*PlayerPeriodStats `json:"biggestLoser"`
	TopRivalries    []*Rivalry           `json:"topRivalries"`
}

// WinnerFor returns the top-ranked player ID for a single-player
// category, or false when the category has no entries.
func (r *CategoryResults) WinnerFor(category models.AwardCategory) (string, bool) {
	var ranking []*PlayerPeriodStats

	switch category {
	case models.CategoryHighestElo:
		if len(r.HighestElo) == 0 {
			return "", false
		}
		return r.HighestElo[0].ID, true
	case models.CategoryMostPoints:
		ranking = r.MostPoints
	case models.CategoryWinningStreak:
		ranking = r.WinningStreak
	case models.CategoryGiantKiller:
		ranking = r.GiantKiller
	case models.CategorySocialButterfly:
		ranking = r.SocialButterfly
	case models.CategoryBestDefense:
		ranking = r.BestDefense
	case models.CategoryHighestMatch:
		ranking = r.HighestMatch
	case models.CategoryEloSwing:
		ranking = r.EloSwing
	case models.CategoryBiggestLoser:
		ranking = r.BiggestLoser
	default:
		return "", false
	}

	if len(ranking) == 0 {
		return "", false
	}
	return ranking[0].Player.ID, true
}

// ComputeCategoryWinners folds the matches inside [periodStart,
// periodEnd) into per-player stats and ranks every category. Returns
// nil when no matches fall inside the period.
//
// Matches are processed in ascending play time; streak state depends
// on that order. Giant-killer wins compare against the opponent's
// current rating, not the rating at match time (see DESIGN.md).
func ComputeCategoryWinners(
	players []*models.Player,
	matches []*models.Match,
	periodStart, periodEnd time.Time,
) *CategoryResults {
	var filtered []*models.Match
	for _, m := range matches {
		at := m.Time()
		if !at.Before(periodStart) && at.Before(periodEnd) {
			filtered = append(filtered, m)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Time().Before(filtered[j].Time())
	})

	stats := make(map[string]*PlayerPeriodStats, len(players))
	for _, p := range players {
		stats[p.ID] = &PlayerPeriodStats{
			Player:    p,
			opponents: make(map[string]struct{}),
		}
	}

	rivalries := make(map[string]*Rivalry)

	for _, m := range filtered {
		p1 := stats[m.Player1ID]
		p2 := stats[m.Player2ID]
		if p1 == nil || p2 == nil {
			// Match references an unknown player; skip it rather
			// than corrupt the fold.
			continue
		}

		p1.MatchesPlayed++
		p2.MatchesPlayed++

		p1.TotalPoints += m.Player1Score
		p2.TotalPoints += m.Player2Score

		p1.pointsAgainst += m.Player2Score
		p2.pointsAgainst += m.Player1Score

		p1.MaxPointsInMatch = max(p1.MaxPointsInMatch, m.Player1Score)
		p2.MaxPointsInMatch = max(p2.MaxPointsInMatch, m.Player2Score)

		p1.BiggestEloSwing = max(p1.BiggestEloSwing, abs(m.Player1EloChange))
		p2.BiggestEloSwing = max(p2.BiggestEloSwing, abs(m.Player2EloChange))

		switch m.WinnerID {
		case m.Player1ID:
			p2.Losses++
			p2.CurrentStreak = 0
			p1.CurrentStreak++
			p1.LongestStreak = max(p1.LongestStreak, p1.CurrentStreak)
			if p1.Player.Rating < p2.Player.Rating {
				p1.GiantKillerWins++
			}
		case m.Player2ID:
			p1.Losses++
			p1.CurrentStreak = 0
			p2.CurrentStreak++
			p2.LongestStreak = max(p2.LongestStreak, p2.CurrentStreak)
			if p2.Player.Rating < p1.Player.Rating {
				p2.GiantKillerWins++
			}
		}

		p1.opponents[m.Player2ID] = struct{}{}
		p2.opponents[m.Player1ID] = struct{}{}

		pairKey := m.Player1ID + "-" + m.Player2ID
		if m.Player2ID < m.Player1ID {
			pairKey = m.Player2ID + "-" + m.Player1ID
		}
		if rivalries[pairKey] == nil {
			rivalries[pairKey] = &Rivalry{Player1: p1.Player, Player2: p2.Player}
		}
		rivalries[pairKey].MatchCount++
	}

	// Players with no matches in the period cannot win a ranked
	// category; they stay eligible for highestElo only.
	var active []*PlayerPeriodStats
	for _, ps := range stats {
		if ps.MatchesPlayed == 0 {
			continue
		}
		ps.AvgPointsAgainst = float64(ps.pointsAgainst) / float64(ps.MatchesPlayed)
		ps.UniqueOpponents = len(ps.opponents)
		active = append(active, ps)
	}

	results := &CategoryResults{
		MostPoints:      rankDesc(active, func(s *PlayerPeriodStats) float64 { return float64(s.TotalPoints) }),
		WinningStreak:   rankDesc(active, func(s *PlayerPeriodStats) float64 { return float64(s.LongestStreak) }),
		GiantKiller:     rankDesc(active, func(s *PlayerPeriodStats) float64 { return float64(s.GiantKillerWins) }),
		SocialButterfly: rankDesc(active, func(s *PlayerPeriodStats) float64 { return float64(s.UniqueOpponents) }),
		BestDefense:     rankAsc(active, func(s *PlayerPeriodStats) float64 { return s.AvgPointsAgainst }),
		HighestMatch:    rankDesc(active, func(s *PlayerPeriodStats) float64 { return float64(s.MaxPointsInMatch) }),
		EloSwing:        rankDesc(active, func(s *PlayerPeriodStats) float64 { return float64(s.BiggestEloSwing) }),
		BiggestLoser:    rankDesc(active, func(s *PlayerPeriodStats) float64 { return float64(s.Losses) }),
	}

	// highestElo ranks all players by current rating, period
	// activity not required.
	results.HighestElo = append([]*models.Player(nil), players...)
	sort.Slice(results.HighestElo, func(i, j int) bool {
		a, b := results.HighestElo[i], results.HighestElo[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.ID < b.ID
	})

	for _, riv := range rivalries {
		results.TopRivalries = append(results.TopRivalries, riv)
	}
	sort.Slice(results.TopRivalries, func(i, j int) bool {
		a, b := results.TopRivalries[i], results.TopRivalries[j]
		if a.MatchCount != b.MatchCount {
			return a.MatchCount > b.MatchCount
		}
		return a.Player1.ID < b.Player1.ID
	})

	return results
}

// rankDesc orders by metric descending; ties break on player ID so
// identical metrics always rank deterministically.
func rankDesc(stats []*PlayerPeriodStats, metric func(*PlayerPeriodStats) float64) []*PlayerPeriodStats {
	out := append([]*PlayerPeriodStats(nil), stats...)
	sort.Slice(out, func(i, j int) bool {
		a, b := metric(out[i]), metric(out[j])
		if a != b {
			return a > b
		}
		return out[i].Player.ID < out[j].Player.ID
	})
	return out
}

func rankAsc(stats []*PlayerPeriodStats, metric func(*PlayerPeriodStats) float64) []*PlayerPeriodStats {
	out := append([]*PlayerPeriodStats(nil), stats...)
	sort.Slice(out, func(i, j int) bool {
		a, b := metric(out[i]), metric(out[j])
		if a != b {
			return a < b
		}
		return out[i].Player.ID < out[j].Player.ID
	})
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// AwardsService wires the period aggregator to storage.
type AwardsService struct {
	playerRepo *repository.PlayerRepository
	matchRepo  *repository.MatchRepository
	awardRepo  *repository.AwardRepository
	cache      *cache.Cache
}

func NewAwardsService(
	playerRepo *repository.PlayerRepository,
	matchRepo *repository.MatchRepository,
	awardRepo *repository.AwardRepository,
	c *cache.Cache,
) *AwardsService {
	return &AwardsService{
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		awardRepo:  awardRepo,
		cache:      c,
	}
}

// MonthBounds returns the [start, end) range of a calendar month.
func MonthBounds(month time.Month, year int) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// ComputeMonth aggregates one calendar month. Returns nil results
// (no error) when the month has no matches.
func (s *AwardsService) ComputeMonth(month time.Month, year int) (*CategoryResults, error) {
	start, end := MonthBounds(month, year)

	players, err := s.playerRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}

	matches, err := s.matchRepo.FindByPeriod(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}

	return ComputeCategoryWinners(players, matches, start, end), nil
}

// SaveComputedAwards persists one award row per category winner for
// the month. The rivalry pair is display-only and never persisted.
// No-winner categories are skipped.
func (s *AwardsService) SaveComputedAwards(ctx context.Context, results *CategoryResults, month time.Month, year int) (int, error) {
	if results == nil {
		return 0, nil
	}

	var rows []*models.MonthlyAward
	for _, category := range models.AllCategories {
		if category == models.CategoryRivalry {
			continue
		}
		playerID, ok := results.WinnerFor(category)
		if !ok {
			continue
		}
		rows = append(rows, &models.MonthlyAward{
			PlayerID:  playerID,
			Category:  category,
			Month:     int(month),
			Year:      year,
			MonthName: month.String(),
		})
	}

	if len(rows) == 0 {
		return 0, nil
	}

	if err := s.awardRepo.UpsertBatch(rows); err != nil {
		return 0, fmt.Errorf("failed to save awards: %w", err)
	}

	if err := s.cache.Invalidate(ctx, cache.KeyMonthlyAwards); err != nil {
		logger.Warn("Failed to invalidate awards cache", "error", err)
	}

	logger.Info("Monthly awards saved", "month", month.String(), "year", year, "count", len(rows))

	return len(rows), nil
}

// SaveBatch upserts caller-supplied award rows (manual backfill).
func (s *AwardsService) SaveBatch(ctx context.Context, rows []models.AwardRow) error {
	awards := make([]*models.MonthlyAward, 0, len(rows))
	for _, row := range rows {
		if row.PlayerID == "" || row.Category == "" {
			return ErrInvalidInput
		}
		// Out-of-range rows would only fail later on the table's
		// CHECK constraints; reject them before persistence.
		if row.Month < 1 || row.Month > 12 || row.Year <= 0 {
			return ErrInvalidInput
		}
		monthName := row.MonthName
		if monthName == "" {
			monthName = time.Month(row.Month).String()
		}
		awards = append(awards, &models.MonthlyAward{
			PlayerID:  row.PlayerID,
			Category:  row.Category,
			Month:     row.Month,
			Year:      row.Year,
			MonthName: monthName,
		})
	}

	if err := s.awardRepo.UpsertBatch(awards); err != nil {
		return fmt.Errorf("failed to save awards: %w", err)
	}

	if err := s.cache.Invalidate(ctx, cache.KeyMonthlyAwards); err != nil {
		logger.Warn("Failed to invalidate awards cache", "error", err)
	}

	return nil
}

// List returns stored awards, newest month first, through the cache.
func (s *AwardsService) List(ctx context.Context) ([]*models.MonthlyAward, error) {
	var cached []*models.MonthlyAward
	if err := s.cache.GetJSON(ctx, cache.KeyMonthlyAwards, &cached); err == nil {
		return cached, nil
	}

	awards, err := s.awardRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list awards: %w", err)
	}

	if err := s.cache.SetJSON(ctx, cache.KeyMonthlyAwards, awards); err != nil {
		logger.Warn("Failed to cache awards", "error", err)
	}

	return awards, nil
}
