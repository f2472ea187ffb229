package http

import (
	"errors"
	"net/http"

	"contest-arena/pkg/ledger"
	"contest-arena/pkg/logger"
	"contest-arena/services/contest/internal/entity"
	"contest-arena/services/contest/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ContestHandler struct {
	contestUseCase usecase.ContestUseCase
	logger         *logger.Logger
}

func NewContestHandler(contestUseCase usecase.ContestUseCase, logger *logger.Logger) *ContestHandler {
	return &ContestHandler{
		contestUseCase: contestUseCase,
		logger:         logger,
	}
}

type CreateContestRequest struct {
	GameID      string  `json:"game_id" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	StartTime   string  `json:"start_time" binding:"required"`
	EndTime     string  `json:"end_time" binding:"required"`
	EntryFee    float64 `json:"entry_fee"`
	PrizePool   float64 `json:"prize_pool" binding:"required"`
}

// CreateContest godoc
// @Summary      Create contest
// @Description  Create a new contest for a game (admin only)
// @Tags         contests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateContestRequest true "Contest details"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /contests [post]
func (h *ContestHandler) CreateContest(c *gin.Context) {
	var req CreateContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "game_id, title, start_time, end_time and prize_pool are required",
		})
		return
	}

	contest, err := h.contestUseCase.CreateContest(
		c.Request.Context(),
		req.GameID, req.Title, req.Description,
		req.StartTime, req.EndTime,
		req.EntryFee, req.PrizePool,
	)
	if err != nil {
		h.respondContestError(c, err, "Failed to create contest")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Contest created successfully",
		"data":    contest,
	})
}

// ListContests godoc
// @Summary      List active contests
// @Description  List contests that are active and currently running
// @Tags         contests
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /contests [get]
func (h *ContestHandler) ListContests(c *gin.Context) {
	contests, err := h.contestUseCase.ListActiveContests(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list contests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to list contests",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contests retrieved",
		"data": gin.H{
			"contests": contests,
			"count":    len(contests),
		},
	})
}

// GetContest godoc
// @Summary      Get contest
// @Description  Get a contest by id
// @Tags         contests
// @Produce      json
// @Param        id path string true "Contest ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /contests/{id} [get]
func (h *ContestHandler) GetContest(c *gin.Context) {
	contest, err := h.contestUseCase.GetContest(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondContestError(c, err, "Failed to get contest")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contest retrieved",
		"data":    contest,
	})
}

// JoinContest godoc
// @Summary      Join contest
// @Description  Join a contest before it starts, paying the entry fee from the wallet
// @Tags         contests
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Contest ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /contests/{id}/join [post]
func (h *ContestHandler) JoinContest(c *gin.Context) {
	userID := c.GetString("user_id")

	result, err := h.contestUseCase.JoinContest(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.respondContestError(c, err, "Failed to join contest")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Joined contest successfully",
		"data":    result,
	})
}

// CancelContest godoc
// @Summary      Cancel contest
// @Description  Cancel a contest and refund all participants (admin only)
// @Tags         contests
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Contest ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /contests/{id}/cancel [post]
func (h *ContestHandler) CancelContest(c *gin.Context) {
	result, err := h.contestUseCase.CancelContest(c.Request.Context(), c.Param("id"))
	if err != nil {
		if result != nil && len(result.Pending) > 0 {
			h.logger.Error("Cancel aborted with pending refunds: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Cancellation aborted, some refunds are pending; retry to resume",
				"data":    result,
			})
			return
		}
		h.respondContestError(c, err, "Failed to cancel contest")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contest canceled and participants refunded",
		"data":    result,
	})
}

func (h *ContestHandler) respondContestError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, entity.ErrContestNotFound), errors.Is(err, entity.ErrGameNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, entity.ErrAlreadyJoined), errors.Is(err, entity.ErrAlreadyCanceled):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, entity.ErrContestStarted),
		errors.Is(err, entity.ErrContestNotActive),
		errors.Is(err, entity.ErrContestCompleted),
		errors.Is(err, entity.ErrScheduleOverlap),
		errors.Is(err, entity.ErrInvalidSchedule),
		errors.Is(err, entity.ErrInvalidEntryFee),
		errors.Is(err, entity.ErrInvalidPrizePool),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrWalletNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		h.logger.Error("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": fallback})
	}
}
