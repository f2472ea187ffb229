package http

import (
	"errors"
	"net/http"

	"contest-arena/pkg/logger"
	"contest-arena/services/leaderboard/internal/entity"
	"contest-arena/services/leaderboard/internal/usecase"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboardUseCase usecase.LeaderboardUseCase
	logger             *logger.Logger
}

func NewLeaderboardHandler(leaderboardUseCase usecase.LeaderboardUseCase, logger *logger.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardUseCase: leaderboardUseCase,
		logger:             logger,
	}
}

type UpdateScoreRequest struct {
	Username string   `json:"username" binding:"required"`
	Score    *float64 `json:"score" binding:"required"`
}

// UpdateScore godoc
// @Summary      Submit score
// @Description  Submit or overwrite the authenticated user's score on a contest leaderboard
// @Tags         leaderboards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Contest ID"
// @Param        request body UpdateScoreRequest true "Score"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /leaderboards/{id}/score [post]
func (h *LeaderboardHandler) UpdateScore(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "username and score are required",
		})
		return
	}

	err := h.leaderboardUseCase.UpdateEntry(c.Request.Context(), c.Param("id"), userID, req.Username, *req.Score)
	if err != nil {
		h.respondLeaderboardError(c, err, "Failed to update score")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Score updated",
	})
}

// GetLeaderboard godoc
// @Summary      Get leaderboard
// @Description  Get the ranked live leaderboard for a contest
// @Tags         leaderboards
// @Produce      json
// @Param        id path string true "Contest ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /leaderboards/{id} [get]
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	ranked, err := h.leaderboardUseCase.GetLeaderboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondLeaderboardError(c, err, "Failed to get leaderboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Leaderboard retrieved",
		"data": gin.H{
			"entries": ranked,
			"count":   len(ranked),
		},
	})
}

// Complete godoc
// @Summary      Settle contest
// @Description  Pay out winners, archive the leaderboard and mark the contest completed (admin only)
// @Tags         leaderboards
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Contest ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /leaderboards/{id}/complete [post]
func (h *LeaderboardHandler) Complete(c *gin.Context) {
	result, err := h.leaderboardUseCase.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondLeaderboardError(c, err, "Failed to settle contest")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contest settled successfully",
		"data":    result,
	})
}

// GetHistory godoc
// @Summary      Get historical leaderboard
// @Description  Get the archived leaderboard of a settled contest
// @Tags         leaderboards
// @Produce      json
// @Param        id path string true "Contest ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /leaderboards/{id}/history [get]
func (h *LeaderboardHandler) GetHistory(c *gin.Context) {
	result, err := h.leaderboardUseCase.GetHistoricalLeaderboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondLeaderboardError(c, err, "Failed to get historical leaderboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Historical leaderboard retrieved",
		"data":    result,
	})
}

func (h *LeaderboardHandler) respondLeaderboardError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, entity.ErrContestNotFound), errors.Is(err, entity.ErrLeaderboardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, entity.ErrContestNotActive),
		errors.Is(err, entity.ErrNoLeaderboardData),
		errors.Is(err, entity.ErrInvalidPrizePool),
		errors.Is(err, entity.ErrInvalidScore):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		h.logger.Error("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": fallback})
	}
}
