package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daanhekking/ping-pong-august/internal/models"
	"github.com/daanhekking/ping-pong-august/internal/service"
)

type PlayerHandler struct {
	playerService *service.PlayerService
	matchService  *service.MatchService
}

func NewPlayerHandler(playerService *service.PlayerService, matchService *service.MatchService) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
		matchService:  matchService,
	}
}

// ListPlayers returns all players ordered by rating descending.
func (h *PlayerHandler) ListPlayers(c *gin.Context) {
	players, err := h.playerService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get players",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"players": players,
		"total":   len(players),
	})
}

// CreatePlayer registers a new player with the default rating.
func (h *PlayerHandler) CreatePlayer(c *gin.Context) {
	var req models.CreatePlayerRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Player name is required",
		})
		return
	}

	player, err := h.playerService.Create(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Player name is required",
			})
			return
		}
		if errors.Is(err, service.ErrDuplicateName) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "A player with this name already exists",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create player",
		})
		return
	}

	c.JSON(http.StatusCreated, player)
}

// GetPlayer returns one player with their match history.
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	id := c.Param("id")

	player, err := h.playerService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Player not found",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get player",
		})
		return
	}

	matches, err := h.matchService.ListByPlayer(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get player matches",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"player":  player,
		"matches": matches,
	})
}
