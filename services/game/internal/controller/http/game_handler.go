package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"contest-arena/pkg/logger"
	"contest-arena/services/game/internal/entity"
	"contest-arena/services/game/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GameHandler struct {
	gameUseCase usecase.GameUseCase
	logger      *logger.Logger
}

func NewGameHandler(gameUseCase usecase.GameUseCase, logger *logger.Logger) *GameHandler {
	return &GameHandler{
		gameUseCase: gameUseCase,
		logger:      logger,
	}
}

// CreateGame godoc
// @Summary      Create game
// @Description  Add a game to the catalog with an optional thumbnail (admin only)
// @Tags         games
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title formData string true "Title"
// @Param        category formData string true "Category"
// @Param        description formData string true "Description"
// @Param        release_year formData int true "Release year"
// @Param        thumbnail formData file false "Thumbnail image"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /games [post]
func (h *GameHandler) CreateGame(c *gin.Context) {
	title := c.PostForm("title")
	category := c.PostForm("category")
	description := c.PostForm("description")
	yearStr := c.PostForm("release_year")

	if title == "" || category == "" || description == "" || yearStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "title, category, description and release_year are required",
		})
		return
	}

	releaseYear, err := strconv.Atoi(yearStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "release_year must be a number",
		})
		return
	}

	var thumbnail io.Reader
	var thumbnailKey, contentType string
	if fileHeader, err := c.FormFile("thumbnail"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "failed to read thumbnail",
			})
			return
		}
		defer file.Close()

		thumbnail = file
		thumbnailKey = fmt.Sprintf("games/%s%s", uuid.New().String(), filepath.Ext(fileHeader.Filename))
		contentType = fileHeader.Header.Get("Content-Type")
	}

	game, err := h.gameUseCase.CreateGame(c.Request.Context(), title, category, description, releaseYear, thumbnail, thumbnailKey, contentType)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidReleaseYear) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		h.logger.Error("Failed to create game: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create game"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Game created successfully",
		"data":    game,
	})
}

// ListGames godoc
// @Summary      List games
// @Description  List catalog games with optional category filter
// @Tags         games
// @Produce      json
// @Param        limit query int false "Number of games"
// @Param        offset query int false "Offset"
// @Param        category query string false "Category filter"
// @Success      200  {object}  map[string]interface{}
// @Router       /games [get]
func (h *GameHandler) ListGames(c *gin.Context) {
	limit := 20
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	games, err := h.gameUseCase.ListGames(c.Request.Context(), limit, offset, c.Query("category"))
	if err != nil {
		h.logger.Error("Failed to list games: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to list games"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Games retrieved",
		"data": gin.H{
			"games": games,
			"count": len(games),
		},
	})
}

// GetGame godoc
// @Summary      Get game
// @Description  Get a game by id
// @Tags         games
// @Produce      json
// @Param        id path string true "Game ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /games/{id} [get]
func (h *GameHandler) GetGame(c *gin.Context) {
	game, err := h.gameUseCase.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, entity.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Game not found"})
			return
		}
		h.logger.Error("Failed to get game: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get game"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Game retrieved",
		"data":    game,
	})
}

// GetPopularity godoc
// @Summary      Get game popularity
// @Description  Get the popularity score derived from the average rating
// @Tags         games
// @Produce      json
// @Param        id path string true "Game ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /games/{id}/popularity [get]
func (h *GameHandler) GetPopularity(c *gin.Context) {
	popularity, err := h.gameUseCase.GetPopularity(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, entity.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Game not found"})
			return
		}
		h.logger.Error("Failed to get popularity: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get popularity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Popularity retrieved",
		"data":    gin.H{"popularity": popularity},
	})
}
