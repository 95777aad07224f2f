package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MaxonPy/kanban/internal/model"
	"github.com/MaxonPy/kanban/internal/repository"
)

type UserHandler struct {
	userRepo repository.UserRepositoryInterface
	taskRepo *repository.TaskRepository
}

func NewUserHandler(userRepo repository.UserRepositoryInterface, taskRepo *repository.TaskRepository) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
		taskRepo: taskRepo,
	}
}

// CreateUserRequest defines the expected request body for creating a user
type CreateUserRequest struct {
	TelegramID int64  `json:"telegram_id" binding:"required,gt=0"`
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Role       string `json:"role" binding:"required,oneof=teacher student admin"`
	Email      string `json:"email" binding:"required,email"`
}

// UpdateUserRequest defines a partial user update
type UpdateUserRequest struct {
	TelegramID *int64  `json:"telegram_id" binding:"omitempty,gt=0"`
	Name       *string `json:"name" binding:"omitempty,min=2,max=100"`
	Role       *string `json:"role" binding:"omitempty,oneof=teacher student admin"`
	Email      *string `json:"email" binding:"omitempty,email"`
}

// UserResponse defines the user representation returned by the API
type UserResponse struct {
	UserID     uint      `json:"user_id"`
	TelegramID int64     `json:"telegram_id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}

func newUserResponse(user model.User) UserResponse {
	return UserResponse{
		UserID:     user.ID,
		TelegramID: user.TelegramID,
		Name:       user.Name,
		Role:       string(user.Role),
		Email:      user.Email,
		CreatedAt:  user.CreatedAt,
	}
}

// Create creates a new user
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user := &model.User{
		TelegramID: req.TelegramID,
		Name:       req.Name,
		Role:       model.Role(req.Role),
		Email:      req.Email,
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(*user))
}

// GetAll returns all users
func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.userRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	response := make([]UserResponse, len(users))
	for i, user := range users {
		response[i] = newUserResponse(user)
	}
	c.JSON(http.StatusOK, response)
}

// GetByID returns one user
func (h *UserHandler) GetByID(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	c.JSON(http.StatusOK, newUserResponse(*user))
}

// Update applies only the supplied user fields
func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	if req.TelegramID != nil {
		user.TelegramID = *req.TelegramID
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = model.Role(*req.Role)
	}
	if req.Email != nil {
		user.Email = *req.Email
	}

	if err := h.userRepo.Update(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, newUserResponse(*user))
}

// GetTasks returns the tasks assigned to the user
func (h *UserHandler) GetTasks(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.userRepo.GetByID(c.Request.Context(), userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	tasks, err := h.userRepo.GetTasks(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, newTaskListResponse(tasks))
}

// GetBoards returns the boards owned by the user
func (h *UserHandler) GetBoards(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	boards, err := h.userRepo.GetBoards(c.Request.Context(), userID)
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

// Stats returns task statistics for the user
func (h *UserHandler) Stats(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.userRepo.GetByID(c.Request.Context(), userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	stats, err := h.taskRepo.StatsForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
