package service

import (
	"context"
	"fmt"

	"github.com/daanhekking/ping-pong-august/internal/models"
	"github.com/daanhekking/ping-pong-august/pkg/cache"
	"github.com/daanhekking/ping-pong-august/pkg/logger"
)

// WinningScore is the minimum score the winner must reach. The rule
// is enforced here, in one place, for every submission path.
const WinningScore = 11

// MatchStore persists matches together with their player-stat updates.
type MatchStore interface {
	CreateWithStats(m *models.Match) (*models.Match, error)
	FindAll() ([]*models.Match, error)
	FindByPlayerID(playerID string) ([]*models.Match, error)
}

// PlayerFinder loads players for validation and display names.
type PlayerFinder interface {
	FindByID(id string) (*models.Player, error)
}

// ReadCache is the slice of the redis cache the services use.
type ReadCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}) error
	Invalidate(ctx context.Context, keys ...string) error
}

type MatchService struct {
	matchRepo  MatchStore
	playerRepo PlayerFinder
	eloService *ELOService
	cache      ReadCache
}

func NewMatchService(
	matchRepo MatchStore,
	playerRepo PlayerFinder,
	eloService *ELOService,
	c ReadCache,
) *MatchService {
	return &MatchService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		eloService: eloService,
		cache:      c,
	}
}

// ValidateScores checks a submitted result and returns the winning
// side (1 or 2). Draws are out of domain and the winner must reach
// WinningScore.
func ValidateScores(player1ID, player2ID string, score1, score2 int) (int, error) {
	if player1ID == "" || player2ID == "" {
		return 0, ErrInvalidInput
	}
	if player1ID == player2ID {
		return 0, ErrSamePlayer
	}
	if score1 < 0 || score2 < 0 {
		return 0, ErrNegativeScore
	}
	if score1 == score2 {
		return 0, ErrTiedScore
	}
	if score1 < WinningScore && score2 < WinningScore {
		return 0, ErrBelowWinningScore
	}

	if score1 > score2 {
		return 1, nil
	}
	return 2, nil
}

// Create validates the submitted result, computes both rating deltas
// from the players' current ratings, and persists the match together
// with both players' counter updates.
func (s *MatchService) Create(ctx context.Context, req *models.CreateMatchRequest) (*models.Match, error) {
	winnerSide, err := ValidateScores(req.Player1ID, req.Player2ID, req.Player1Score, req.Player2Score)
	if err != nil {
		return nil, err
	}

	player1, err := s.playerRepo.FindByID(req.Player1ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player1: %w", err)
	}
	if player1 == nil {
		return nil, ErrPlayerNotFound
	}

	player2, err := s.playerRepo.FindByID(req.Player2ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player2: %w", err)
	}
	if player2 == nil {
		return nil, ErrPlayerNotFound
	}

	winnerID := player1.ID
	if winnerSide == 2 {
		winnerID = player2.ID
	}

	// A client-supplied winner must agree with the scores.
	if req.WinnerID != "" && req.WinnerID != winnerID {
		return nil, ErrWinnerMismatch
	}

	player1Change := s.eloService.ComputeRatingDelta(
		player1.Rating, player2.Rating, req.Player1Score, req.Player2Score)
	player2Change := -player1Change

	match := &models.Match{
		Player1ID:        player1.ID,
		Player2ID:        player2.ID,
		Player1Score:     req.Player1Score,
		Player2Score:     req.Player2Score,
		WinnerID:         winnerID,
		Player1EloChange: player1Change,
		Player2EloChange: player2Change,
		PlayedAt:         req.PlayedAt,
	}

	created, err := s.matchRepo.CreateWithStats(match)
	if err != nil {
		return nil, fmt.Errorf("failed to record match: %w", err)
	}

	created.Player1Name = player1.Name
	created.Player2Name = player2.Name
	if winnerID == player1.ID {
		created.WinnerName = player1.Name
	} else {
		created.WinnerName = player2.Name
	}

	if err := s.cache.Invalidate(ctx, cache.KeyMatches, cache.KeyPlayers); err != nil {
		logger.Warn("Failed to invalidate cache after match", "error", err)
	}

	logger.Info("Match recorded",
		"matchId", created.ID,
		"winner", created.WinnerName,
		"score", fmt.Sprintf("%d-%d", created.Player1Score, created.Player2Score),
		"eloChange", player1Change,
	)

	return created, nil
}

// List returns all matches, newest first, through the read cache.
func (s *MatchService) List(ctx context.Context) ([]*models.Match, error) {
	var cached []*models.Match
	if err := s.cache.GetJSON(ctx, cache.KeyMatches, &cached); err == nil {
		return cached, nil
	}

	matches, err := s.matchRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	if err := s.cache.SetJSON(ctx, cache.KeyMatches, matches); err != nil {
		logger.Warn("Failed to cache matches", "error", err)
	}

	return matches, nil
}

// ListByPlayer returns one player's match history, newest first.
func (s *MatchService) ListByPlayer(playerID string) ([]*models.Match, error) {
	matches, err := s.matchRepo.FindByPlayerID(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list player matches: %w", err)
	}
	return matches, nil
}
