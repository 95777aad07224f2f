package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MaxonPy/kanban/internal/model"
	"github.com/MaxonPy/kanban/internal/repository"
)

type GroupHandler struct {
	groupRepo *repository.GroupRepository
	userRepo  repository.UserRepositoryInterface
	taskRepo  *repository.TaskRepository
}

func NewGroupHandler(
	groupRepo *repository.GroupRepository,
	userRepo repository.UserRepositoryInterface,
	taskRepo *repository.TaskRepository,
) *GroupHandler {
	return &GroupHandler{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		taskRepo:  taskRepo,
	}
}

// CreateGroupRequest представляет запрос на создание группы
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateGroupRequest представляет частичное обновление группы
type UpdateGroupRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Description *string `json:"description"`
}

// GroupResponse представляет ответ с данными группы
type GroupResponse struct {
	GroupID     uint      `json:"group_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func newGroupResponse(group model.Group) GroupResponse {
	return GroupResponse{
		GroupID:     group.ID,
		Name:        group.Name,
		Description: group.Description,
		CreatedAt:   group.CreatedAt,
	}
}

// Create создает новую группу
func (h *GroupHandler) Create(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	group := &model.Group{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.groupRepo.Create(c.Request.Context(), group); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, newGroupResponse(*group))
}

// GetAll получает список всех групп
func (h *GroupHandler) GetAll(c *gin.Context) {
	groups, err := h.groupRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve groups"})
		return
	}

	response := make([]GroupResponse, len(groups))
	for i, group := range groups {
		response[i] = newGroupResponse(group)
	}
	c.JSON(http.StatusOK, response)
}

// GetByID получает группу по ID
func (h *GroupHandler) GetByID(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	group, err := h.groupRepo.GetByID(c.Request.Context(), groupID)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve group"})
		}
		return
	}

	c.JSON(http.StatusOK, newGroupResponse(*group))
}

// Update обновляет только переданные поля группы
func (h *GroupHandler) Update(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	group, err := h.groupRepo.GetByID(c.Request.Context(), groupID)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve group"})
		}
		return
	}

	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.Description != nil {
		group.Description = *req.Description
	}

	if err := h.groupRepo.Update(c.Request.Context(), group); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group"})
		return
	}

	c.JSON(http.StatusOK, newGroupResponse(*group))
}

// Delete удаляет группу по ID
func (h *GroupHandler) Delete(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.groupRepo.Delete(c.Request.Context(), groupID); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete group"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Group deleted successfully"})
}

// AddUser добавляет пользователя в группу
func (h *GroupHandler) AddUser(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if _, err := h.groupRepo.GetByID(c.Request.Context(), groupID); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve group"})
		}
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

	if err := h.groupRepo.AddUser(c.Request.Context(), groupID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add user to group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "User added to group successfully"})
}

// RemoveUser удаляет пользователя из группы
func (h *GroupHandler) RemoveUser(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.groupRepo.RemoveUser(c.Request.Context(), groupID, userID); err != nil {
		if errors.Is(err, repository.ErrMembershipNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User is not a member of the group"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove user from group"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "User removed from group successfully"})
}

// GetUsers получает участников группы
func (h *GroupHandler) GetUsers(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	users, err := h.groupRepo.GetUsers(c.Request.Context(), groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve group users"})
		return
	}

	response := make([]UserResponse, len(users))
	for i, user := range users {
		response[i] = newUserResponse(user)
	}
	c.JSON(http.StatusOK, response)
}

// Stats возвращает статистику по задачам группы
func (h *GroupHandler) Stats(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.groupRepo.GetByID(c.Request.Context(), groupID); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve group"})
		}
		return
	}

	stats, err := h.taskRepo.StatsForGroup(c.Request.Context(), groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
