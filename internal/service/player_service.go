package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/daanhekking/ping-pong-august/internal/models"
	"github.com/daanhekking/ping-pong-august/internal/repository"
	"github.com/daanhekking/ping-pong-august/pkg/cache"
	"github.com/daanhekking/ping-pong-august/pkg/logger"
)

// PlayerStore is the player persistence surface the service needs.
type PlayerStore interface {
	Create(name string) (*models.Player, error)
	FindByID(id string) (*models.Player, error)
	FindByName(name string) (*models.Player, error)
	FindAll() ([]*models.Player, error)
}

type PlayerService struct {
	playerRepo PlayerStore
	cache      ReadCache
}

func NewPlayerService(playerRepo PlayerStore, c ReadCache) *PlayerService {
	return &PlayerService{
		playerRepo: playerRepo,
		cache:      c,
	}
}

// Create registers a player. Names are trimmed and must be unique
// ignoring case.
func (s *PlayerService) Create(ctx context.Context, name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.playerRepo.FindByName(name)
	if err != nil {
		return nil, fmt.Errorf("failed to check player name: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	player, err := s.playerRepo.Create(name)
	if err != nil {
		// A concurrent registration can slip past the check above and
		// land on the unique index instead.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	if err := s.cache.Invalidate(ctx, cache.KeyPlayers); err != nil {
		logger.Warn("Failed to invalidate player cache", "error", err)
	}

	logger.Info("Player registered", "playerId", player.ID, "name", player.Name)

	return player, nil
}

// List returns all players by rating descending, through the read cache.
func (s *PlayerService) List(ctx context.Context) ([]*models.Player, error) {
	var cached []*models.Player
	if err := s.cache.GetJSON(ctx, cache.KeyPlayers, &cached); err == nil {
		return cached, nil
	}

	players, err := s.playerRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	if err := s.cache.SetJSON(ctx, cache.KeyPlayers, players); err != nil {
		logger.Warn("Failed to cache players", "error", err)
	}

	return players, nil
}

// GetByID fetches a single player.
func (s *PlayerService) GetByID(id string) (*models.Player, error) {
	player, err := s.playerRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	return player, nil
}

// Leaderboard returns the top players by rating.
func (s *PlayerService) Leaderboard(ctx context.Context, limit int) ([]*models.Player, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	players, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(players) > limit {
		players = players[:limit]
	}

	return players, nil
}
