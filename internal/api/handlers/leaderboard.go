package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/daanhekking/ping-pong-august/internal/service"
)

type LeaderboardHandler struct {
	playerService *service.PlayerService
}

func NewLeaderboardHandler(playerService *service.PlayerService) *LeaderboardHandler {
	return &LeaderboardHandler{
		playerService: playerService,
	}
}

// GetLeaderboard returns the top players ranked by rating.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	players, err := h.playerService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get leaderboard",
		})
		return
	}

	type entry struct {
		Rank          int    `json:"rank"`
		ID            string `json:"id"`
		Name          string `json:"name"`
		Rating        int    `json:"elo_rating"`
		MatchesPlayed int    `json:"matches_played"`
		MatchesWon    int    `json:"matches_won"`
		MatchesLost   int    `json:"matches_lost"`
	}

	entries := make([]entry, 0, len(players))
	for i, p := range players {
		entries = append(entries, entry{
			Rank:          i + 1,
			ID:            p.ID,
			Name:          p.Name,
			Rating:        p.Rating,
			MatchesPlayed: p.MatchesPlayed,
			MatchesWon:    p.MatchesWon,
			MatchesLost:   p.MatchesLost,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"total":       len(entries),
	})
}
