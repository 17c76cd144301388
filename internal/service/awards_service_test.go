package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/daanhekking/ping-pong-august/internal/models"
)

var periodStart = time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
var periodEnd = periodStart.AddDate(0, 1, 0)

func newTestPlayer(name string, rating int) *models.Player {
	return &models.Player{
		ID:            uuid.NewString(),
		Name:          name,
		Rating:        rating,
		MatchesPlayed: 1,
	}
}

func playedAt(offset time.Duration) *time.Time {
	at := periodStart.Add(offset)
	return &at
}

func testMatch(winner, loser *models.Player, winnerScore, loserScore int, offset time.Duration) *models.Match {
	return &models.Match{
		ID:               uuid.NewString(),
		Player1ID:        winner.ID,
		Player2ID:        loser.ID,
		Player1Score:     winnerScore,
		Player2Score:     loserScore,
		WinnerID:         winner.ID,
		Player1EloChange: 16,
		Player2EloChange: -16,
		PlayedAt:         playedAt(offset),
	}
}

func statsFor(t *testing.T, ranking []*PlayerPeriodStats, playerID string) *PlayerPeriodStats {
	t.Helper()
	for _, s := range ranking {
		if s.Player.ID == playerID {
			return s
		}
	}
	t.Fatalf("player %s not found in ranking", playerID)
	return nil
}

func TestComputeCategoryWinners_Streaks(t *testing.T) {
	alice := newTestPlayer("Alice", 1000)
	bob := newTestPlayer("Bob", 1000)

	// Alice: W, W, L, W in chronological order.
	matches := []*models.Match{
		testMatch(alice, bob, 11, 5, 1*time.Hour),
		testMatch(alice, bob, 11, 9, 2*time.Hour),
		testMatch(bob, alice, 11, 3, 3*time.Hour),
		testMatch(alice, bob, 11, 7, 4*time.Hour),
	}

	results := ComputeCategoryWinners([]*models.Player{alice, bob}, matches, periodStart, periodEnd)
	if results == nil {
		t.Fatal("expected results, got nil")
	}

	aliceStats := statsFor(t, results.WinningStreak, alice.ID)
	if aliceStats.LongestStreak != 2 {
		t.Errorf("longest streak = %d, want 2", aliceStats.LongestStreak)
	}
	if aliceStats.CurrentStreak != 1 {
		t.Errorf("current streak = %d, want 1", aliceStats.CurrentStreak)
	}

	if winner, ok := results.WinnerFor(models.CategoryWinningStreak); !ok || winner != alice.ID {
		t.Errorf("winningStreak winner = %q, want %q", winner, alice.ID)
	}
}

func TestComputeCategoryWinners_StreakOrderIndependentOfInput(t *testing.T) {
	alice := newTestPlayer("Alice", 1000)
	bob := newTestPlayer("Bob", 1000)

	// Same matches handed over newest first; the fold must re-sort by
	// play time before counting streaks.
	matches := []*models.Match{
		testMatch(alice, bob, 11, 7, 4*time.Hour),
		testMatch(bob, alice, 11, 3, 3*time.Hour),
		testMatch(alice, bob, 11, 9, 2*time.Hour),
		testMatch(alice, bob, 11, 5, 1*time.Hour),
	}

	results := ComputeCategoryWinners([]*models.Player{alice, bob}, matches, periodStart, periodEnd)

	aliceStats := statsFor(t, results.WinningStreak, alice.ID)
	if aliceStats.LongestStreak != 2 || aliceStats.CurrentStreak != 1 {
		t.Errorf("streaks = (%d, %d), want (2, 1)",
			aliceStats.LongestStreak, aliceStats.CurrentStreak)
	}
}

func TestComputeCategoryWinners_GiantKiller(t *testing.T) {
	underdog := newTestPlayer("Underdog", 900)
	favorite := newTestPlayer("Favorite", 1100)

	matches := []*models.Match{
		testMatch(underdog, favorite, 11, 8, 1*time.Hour),
		testMatch(favorite, underdog, 11, 2, 2*time.Hour),
	}

	results := ComputeCategoryWinners([]*models.Player{underdog, favorite}, matches, periodStart, periodEnd)

	if got := statsFor(t, results.GiantKiller, underdog.ID).GiantKillerWins; got != 1 {
		t.Errorf("underdog giant-killer wins = %d, want 1", got)
	}
	if got := statsFor(t, results.GiantKiller, favorite.ID).GiantKillerWins; got != 0 {
		t.Errorf("favorite giant-killer wins = %d, want 0", got)
	}

	if winner, ok := results.WinnerFor(models.CategoryGiantKiller); !ok || winner != underdog.ID {
		t.Errorf("giantKiller winner = %q, want %q", winner, underdog.ID)
	}
}

func TestComputeCategoryWinners_BestDefenseAscending(t *testing.T) {
	wall := newTestPlayer("Wall", 1000)
	sieve := newTestPlayer("Sieve", 1000)
	third := newTestPlayer("Third", 1000)

	// Wall concedes 2 and 4, sieve concedes 11 twice, third concedes
	// 2+11 across its two matches.
	matches := []*models.Match{
		testMatch(wall, third, 11, 2, 1*time.Hour),
		testMatch(wall, sieve, 11, 4, 2*time.Hour),
		testMatch(third, sieve, 11, 2, 3*time.Hour),
	}

	results := ComputeCategoryWinners([]*models.Player{wall, sieve, third}, matches, periodStart, periodEnd)

	if results.BestDefense[0].Player.ID != wall.ID {
		t.Errorf("bestDefense winner = %s, want %s", results.BestDefense[0].Player.Name, wall.Name)
	}
	if got := statsFor(t, results.BestDefense, wall.ID).AvgPointsAgainst; got != 3.0 {
		t.Errorf("wall avg points against = %v, want 3.0", got)
	}

	for i := 1; i < len(results.BestDefense); i++ {
		if results.BestDefense[i-1].AvgPointsAgainst > results.BestDefense[i].AvgPointsAgainst {
			t.Fatalf("bestDefense not ascending at index %d", i)
		}
	}
}

func TestComputeCategoryWinners_Idempotent(t *testing.T) {
	alice := newTestPlayer("Alice", 1000)
	bob := newTestPlayer("Bob", 950)
	players := []*models.Player{alice, bob}

	matches := []*models.Match{
		testMatch(alice, bob, 11, 5, 1*time.Hour),
		testMatch(bob, alice, 13, 11, 2*time.Hour),
		testMatch(alice, bob, 11, 0, 3*time.Hour),
	}

	first := ComputeCategoryWinners(players, matches, periodStart, periodEnd)
	second := ComputeCategoryWinners(players, matches, periodStart, periodEnd)

	for _, category := range models.AllCategories {
		if category == models.CategoryRivalry {
			continue
		}
		w1, ok1 := first.WinnerFor(category)
		w2, ok2 := second.WinnerFor(category)
		if ok1 != ok2 || w1 != w2 {
			t.Errorf("category %s winner changed between runs: %q vs %q", category, w1, w2)
		}
	}
}

func TestComputeCategoryWinners_EmptyPeriod(t *testing.T) {
	alice := newTestPlayer("Alice", 1000)
	bob := newTestPlayer("Bob", 1000)

	// Match played the month before the window.
	before := periodStart.Add(-24 * time.Hour)
	m := testMatch(alice, bob, 11, 5, 0)
	m.PlayedAt = &before

	results := ComputeCategoryWinners([]*models.Player{alice, bob}, []*models.Match{m}, periodStart, periodEnd)
	if results != nil {
		t.Errorf("expected nil results for an empty period, got %+v", results)
	}
}

func TestComputeCategoryWinners_HighestEloIncludesInactivePlayers(t *testing.T) {
	idle := newTestPlayer("Idle", 1400)
	alice := newTestPlayer("Alice", 1000)
	bob := newTestPlayer("Bob", 1000)

	matches := []*models.Match{
		testMatch(alice, bob, 11, 5, 1*time.Hour),
	}

	results := ComputeCategoryWinners([]*models.Player{idle, alice, bob}, matches, periodStart, periodEnd)

	// Idle played nothing this period but still tops highestElo.
	if results.HighestElo[0].ID != idle.ID {
		t.Errorf("highestElo winner = %s, want %s", results.HighestElo[0].Name, idle.Name)
	}

	// Activity-gated categories must not include the idle player.
	for _, s := range results.MostPoints {
		if s.Player.ID == idle.ID {
			t.Error("inactive player ranked in mostPoints")
		}
	}
}

func TestComputeCategoryWinners_TopRivalry(t *testing.T) {
	alice := newTestPlayer("Alice", 1000)
	bob := newTestPlayer("Bob", 1000)
	carol := newTestPlayer("Carol", 1000)

	// Alice and Bob meet three times, both orderings of the pair.
	matches := []*models.Match{
		testMatch(alice, bob, 11, 5, 1*time.Hour),
		testMatch(bob, alice, 11, 9, 2*time.Hour),
		testMatch(alice, bob, 12, 10, 3*time.Hour),
		testMatch(alice, carol, 11, 2, 4*time.Hour),
	}

	results := ComputeCategoryWinners([]*models.Player{alice, bob, carol}, matches, periodStart, periodEnd)

	if len(results.TopRivalries) != 2 {
		t.Fatalf("rivalry count = %d, want 2", len(results.TopRivalries))
	}
	top := results.TopRivalries[0]
	if top.MatchCount != 3 {
		t.Errorf("top rivalry match count = %d, want 3", top.MatchCount)
	}
	pair := map[string]bool{top.Player1.ID: true, top.Player2.ID: true}
	if !pair[alice.ID] || !pair[bob.ID] {
		t.Errorf("top rivalry pair = %s vs %s, want Alice vs Bob", top.Player1.Name, top.Player2.Name)
	}
}

func TestComputeCategoryWinners_TieBreaksOnPlayerID(t *testing.T) {
	a := &models.Player{ID: "00000000-0000-0000-0000-00000000000a", Name: "A", Rating: 1000}
	b := &models.Player{ID: "00000000-0000-0000-0000-00000000000b", Name: "B", Rating: 1000}
	c := &models.Player{ID: "00000000-0000-0000-0000-00000000000c", Name: "C", Rating: 1000}

	// Everyone scores the same total points.
	matches := []*models.Match{
		testMatch(a, b, 11, 0, 1*time.Hour),
		testMatch(b, c, 11, 0, 2*time.Hour),
		testMatch(c, a, 11, 0, 3*time.Hour),
	}

	results := ComputeCategoryWinners([]*models.Player{c, b, a}, matches, periodStart, periodEnd)

	want := []string{a.ID, b.ID, c.ID}
	for i, id := range want {
		if results.MostPoints[i].Player.ID != id {
			t.Fatalf("mostPoints[%d] = %s, want %s", i, results.MostPoints[i].Player.ID, id)
		}
	}
}

func TestAwardsService_SaveBatchRejectsBadInput(t *testing.T) {
	// Rows must fail validation before any storage access.
	svc := &AwardsService{}

	tests := []struct {
		name string
		row  models.AwardRow
	}{
		{
			name: "month zero",
			row:  models.AwardRow{PlayerID: "p1", Category: models.CategoryMostPoints, Month: 0, Year: 2026},
		},
		{
			name: "month thirteen",
			row:  models.AwardRow{PlayerID: "p1", Category: models.CategoryMostPoints, Month: 13, Year: 2026},
		},
		{
			name: "zero year",
			row:  models.AwardRow{PlayerID: "p1", Category: models.CategoryMostPoints, Month: 7, Year: 0},
		},
		{
			name: "missing player",
			row:  models.AwardRow{Category: models.CategoryMostPoints, Month: 7, Year: 2026},
		},
		{
			name: "missing category",
			row:  models.AwardRow{PlayerID: "p1", Month: 7, Year: 2026},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SaveBatch(context.Background(), []models.AwardRow{tt.row})
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("SaveBatch() error = %v, want %v", err, ErrInvalidInput)
			}
		})
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(time.December, 2025)

	if !start.Equal(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v, want first instant of January 2026", end)
	}
}
