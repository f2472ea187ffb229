package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"contest-arena/pkg/ledger"
	"contest-arena/pkg/logger"
	"contest-arena/pkg/models"
	"contest-arena/services/contest/internal/entity"
	"contest-arena/services/contest/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockContestUseCase is a mock implementation of ContestUseCase
type MockContestUseCase struct {
	mock.Mock
}

func (m *MockContestUseCase) CreateContest(ctx context.Context, gameID, title, description, startStr, endStr string, entryFee, prizePool float64) (*models.Contest, error) {
	args := m.Called(gameID, title, description, startStr, endStr, entryFee, prizePool)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contest), args.Error(1)
}

func (m *MockContestUseCase) GetContest(ctx context.Context, contestID string) (*models.Contest, error) {
	args := m.Called(contestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contest), args.Error(1)
}

func (m *MockContestUseCase) ListActiveContests(ctx context.Context) ([]models.Contest, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Contest), args.Error(1)
}

func (m *MockContestUseCase) JoinContest(ctx context.Context, contestID, userID string) (*entity.JoinResult, error) {
	args := m.Called(contestID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.JoinResult), args.Error(1)
}

func (m *MockContestUseCase) CancelContest(ctx context.Context, contestID string) (*entity.CancelResult, error) {
	args := m.Called(contestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CancelResult), args.Error(1)
}

var _ usecase.ContestUseCase = (*MockContestUseCase)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestCreateContest_Created(t *testing.T) {
	mockUseCase := new(MockContestUseCase)
	handler := NewContestHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/contests", handler.CreateContest)

	contest := &models.Contest{ID: "contest-1", GameID: "game-1", Status: models.ContestStatusActive}
	mockUseCase.On("CreateContest", "game-1", "Spring Cup", "", "2026-03-01 12:00:00", "2026-03-01 14:00:00", 10.0, 100.0).
		Return(contest, nil)

	body := `{"game_id":"game-1","title":"Spring Cup","start_time":"2026-03-01 12:00:00","end_time":"2026-03-01 14:00:00","entry_fee":10,"prize_pool":100}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/contests", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestCreateContest_Overlap(t *testing.T) {
	mockUseCase := new(MockContestUseCase)
	handler := NewContestHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/contests", handler.CreateContest)

	mockUseCase.On("CreateContest", "game-1", "Cup", "", "2026-03-01 12:00:00", "2026-03-01 14:00:00", 10.0, 100.0).
		Return(nil, entity.ErrScheduleOverlap)

	body := `{"game_id":"game-1","title":"Cup","start_time":"2026-03-01 12:00:00","end_time":"2026-03-01 14:00:00","entry_fee":10,"prize_pool":100}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/contests", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestCreateContest_MissingFields(t *testing.T) {
	mockUseCase := new(MockContestUseCase)
	handler := NewContestHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/contests", handler.CreateContest)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/contests", bytes.NewBufferString(`{"title":"Cup"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertNotCalled(t, "CreateContest")
}

func TestJoinContest_Success(t *testing.T) {
	mockUseCase := new(MockContestUseCase)
	handler := NewContestHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/contests/:id/join", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		handler.JoinContest(c)
	})

	balance := 80.0
	result := &entity.JoinResult{ContestID: "contest-1", EntryFee: 20, Balance: &balance}
	mockUseCase.On("JoinContest", "contest-1", "user-1").Return(result, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/contests/contest-1/join", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, 80.0, data["balance"])

	mockUseCase.AssertExpectations(t)
}

func TestJoinContest_AlreadyJoined(t *testing.T) {
	mockUseCase := new(MockContestUseCase)
	handler := NewContestHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/contests/:id/join", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		handler.JoinContest(c)
	})

	mockUseCase.On("JoinContest", "contest-1", "user-1").Return(nil, entity.ErrAlreadyJoined)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/contests/contest-1/join", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestJoinContest_InsufficientFunds(t *testing.T) {
	mockUseCase := new(MockContestUseCase)
	handler := NewContestHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/contests/:id/join", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		handler.JoinContest(c)
	})

	mockUseCase.On("JoinContest", "contest-1", "user-1").Return(nil, ledger.ErrInsufficientFunds)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/contests/contest-1/join", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestGetContest_NotFound(t *testing.T) {
	mockUseCase := new(MockContestUseCase)
	handler := NewContestHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/contests/:id", handler.GetContest)

	mockUseCase.On("GetContest", "missing").Return(nil, entity.ErrContestNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/contests/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestCancelContest_Success(t *testing.T) {
	mockUseCase := new(MockContestUseCase)
	handler := NewContestHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/contests/:id/cancel", handler.CancelContest)

	result := &entity.CancelResult{Refunded: []string{"user-1", "user-2"}, Pending: []string{}}
	mockUseCase.On("CancelContest", "contest-1").Return(result, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/contests/contest-1/cancel", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestCancelContest_AlreadyCanceled(t *testing.T) {
	mockUseCase := new(MockContestUseCase)
	handler := NewContestHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/contests/:id/cancel", handler.CancelContest)

	mockUseCase.On("CancelContest", "contest-1").Return(nil, entity.ErrAlreadyCanceled)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/contests/contest-1/cancel", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockUseCase.AssertExpectations(t)
}
