package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daanhekking/ping-pong-august/internal/models"
	"github.com/daanhekking/ping-pong-august/internal/service"
)

type MatchHandler struct {
	matchService *service.MatchService
}

func NewMatchHandler(matchService *service.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

// ListMatches returns all matches, newest first.
func (h *MatchHandler) ListMatches(c *gin.Context) {
	matches, err := h.matchService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get matches",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"total":   len(matches),
	})
}

// CreateMatch validates and records a match result. Rating deltas
// are always computed server-side from current ratings.
func (h *MatchHandler) CreateMatch(c *gin.Context) {
	var req models.CreateMatchRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Both player IDs are required",
		})
		return
	}

	match, err := h.matchService.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlayerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		case errors.Is(err, service.ErrSamePlayer),
			errors.Is(err, service.ErrTiedScore),
			errors.Is(err, service.ErrNegativeScore),
			errors.Is(err, service.ErrBelowWinningScore),
			errors.Is(err, service.ErrWinnerMismatch),
			errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record match"})
		}
		return
	}

	c.JSON(http.StatusCreated, match)
}
