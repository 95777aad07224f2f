package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MaxonPy/kanban/internal/model"
	"github.com/MaxonPy/kanban/internal/repository"
)

type BoardHandler struct {
	boardRepo *repository.BoardRepository
	taskRepo  *repository.TaskRepository
}

func NewBoardHandler(boardRepo *repository.BoardRepository, taskRepo *repository.TaskRepository) *BoardHandler {
	return &BoardHandler{
		boardRepo: boardRepo,
		taskRepo:  taskRepo,
	}
}

// CreateBoardRequest представляет запрос на создание доски
type CreateBoardRequest struct {
	Name   string `json:"name" binding:"required"`
	UserID uint   `json:"user_id" binding:"required,gt=0"`
}

// UpdateBoardRequest представляет частичное обновление доски
type UpdateBoardRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1"`
	UserID *uint   `json:"user_id" binding:"omitempty,gt=0"`
}

// BoardResponse представляет ответ с данными доски
type BoardResponse struct {
	BoardID   uint      `json:"board_id"`
	Name      string    `json:"name"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newBoardResponse(board model.Board) BoardResponse {
	return BoardResponse{
		BoardID:   board.ID,
		Name:      board.Name,
		UserID:    board.UserID,
		CreatedAt: board.CreatedAt,
		UpdatedAt: board.UpdatedAt,
	}
}

// Create создает новую доску
func (h *BoardHandler) Create(c *gin.Context) {
	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board := &model.Board{
		Name:   req.Name,
		UserID: req.UserID,
	}

	if err := h.boardRepo.Create(c.Request.Context(), board); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board"})
		return
	}

	c.JSON(http.StatusCreated, newBoardResponse(*board))
}

// GetAll получает список всех досок
func (h *BoardHandler) GetAll(c *gin.Context) {
	boards, err := h.boardRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boards"})
		return
	}

	response := make([]BoardResponse, len(boards))
	for i, board := range boards {
		response[i] = newBoardResponse(board)
	}
	c.JSON(http.StatusOK, response)
}

// GetByID получает доску по ID
func (h *BoardHandler) GetByID(c *gin.Context) {
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		}
		return
	}

	c.JSON(http.StatusOK, newBoardResponse(*board))
}

// Update обновляет только переданные поля доски
func (h *BoardHandler) Update(c *gin.Context) {
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		}
		return
	}

	if req.Name != nil {
		board.Name = *req.Name
	}
	if req.UserID != nil {
		board.UserID = *req.UserID
	}

	if err := h.boardRepo.Update(c.Request.Context(), board); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	c.JSON(http.StatusOK, newBoardResponse(*board))
}

// Delete удаляет доску по ID
func (h *BoardHandler) Delete(c *gin.Context) {
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.boardRepo.Delete(c.Request.Context(), boardID); err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete board"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Board deleted successfully"})
}

// Search выполняет поиск досок по названию
func (h *BoardHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter is required"})
		return
	}

	boards, err := h.boardRepo.SearchByName(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search boards"})
		return
	}

	response := make([]BoardResponse, len(boards))
	for i, board := range boards {
		response[i] = newBoardResponse(board)
	}
	c.JSON(http.StatusOK, response)
}

// GetTasks получает задачи доски
func (h *BoardHandler) GetTasks(c *gin.Context) {
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tasks, err := h.taskRepo.ByBoard(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, newTaskListResponse(tasks))
}

// Stats возвращает статистику по задачам доски
func (h *BoardHandler) Stats(c *gin.Context) {
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		}
		return
	}

	stats, err := h.taskRepo.StatsForBoard(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"board_name":      board.Name,
		"total_tasks":     stats.TotalTasks,
		"tasks_by_status": stats.TasksByStatus,
	})
}
