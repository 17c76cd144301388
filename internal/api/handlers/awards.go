package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/daanhekking/ping-pong-august/internal/models"
	"github.com/daanhekking/ping-pong-august/internal/service"
)

type AwardsHandler struct {
	awardsService *service.AwardsService
}

func NewAwardsHandler(awardsService *service.AwardsService) *AwardsHandler {
	return &AwardsHandler{
		awardsService: awardsService,
	}
}

// ListAwards returns all stored monthly awards, newest month first.
func (h *AwardsHandler) ListAwards(c *gin.Context) {
	awards, err := h.awardsService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get monthly awards",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"awards": awards,
		"total":  len(awards),
	})
}

// SaveAwards upserts a batch of award rows (manual backfill).
func (h *AwardsHandler) SaveAwards(c *gin.Context) {
	var req models.SaveAwardsRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Awards array is required",
		})
		return
	}

	if err := h.awardsService.SaveBatch(c.Request.Context(), req.Awards); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Each award needs a player_id, category, month 1-12, and year",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save awards",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"saved": len(req.Awards),
	})
}

// GetWinners computes the category winners for one calendar month
// without persisting anything.
func (h *AwardsHandler) GetWinners(c *gin.Context) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "month must be 1-12",
		})
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "year is required",
		})
		return
	}

	results, err := h.awardsService.ComputeMonth(time.Month(month), year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute winners",
		})
		return
	}

	if results == nil {
		c.JSON(http.StatusOK, gin.H{
			"month":   month,
			"year":    year,
			"winners": nil,
			"message": "No matches in this period",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"month":   month,
		"year":    year,
		"winners": results,
	})
}
