package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MaxonPy/kanban/internal/model"
	"github.com/MaxonPy/kanban/internal/repository"
	"github.com/MaxonPy/kanban/internal/service"
)

// TaskManager — операции менеджера задач, используемые обработчиками
type TaskManager interface {
	CreateTask(ctx context.Context, in service.CreateTaskInput) (*service.CreatedTask, error)
	GetTask(ctx context.Context, id uint) (*model.Task, error)
	ListTasks(ctx context.Context, groupID *uint) ([]model.Task, error)
	UpdateTask(ctx context.Context, id uint, patch service.TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, id uint) error
	AssignTaskToUser(ctx context.Context, userID, taskID uint) error
	RemoveTaskAssignment(ctx context.Context, userID, taskID uint) error
	BulkUpdateStatus(ctx context.Context, ids []uint, status model.TaskStatus) (int64, error)
}

type TaskHandler struct {
	tasks    TaskManager
	taskRepo *repository.TaskRepository
}

func NewTaskHandler(tasks TaskManager, taskRepo *repository.TaskRepository) *TaskHandler {
	return &TaskHandler{
		tasks:    tasks,
		taskRepo: taskRepo,
	}
}

// CreateTaskRequest представляет запрос на создание задачи
type CreateTaskRequest struct {
	Title         string     `json:"title" binding:"required,max=200"`
	Description   string     `json:"description" binding:"omitempty,max=1000"`
	Deadline      *time.Time `json:"deadline"`
	Priority      *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	AssignedFiles []string   `json:"assigned_files"`
	GroupID       *uint      `json:"group_id" binding:"omitempty,gt=0"`
	BoardID       *uint      `json:"board_id" binding:"omitempty,gt=0"`
	UserID        *uint      `json:"user_id" binding:"omitempty,gt=0"`
	AssignerID    *uint      `json:"assigner_id" binding:"omitempty,gt=0"`
}

// UpdateTaskRequest представляет частичное обновление задачи
type UpdateTaskRequest struct {
	Title         *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description   *string    `json:"description" binding:"omitempty,max=1000"`
	Status        *string    `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	Priority      *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	Deadline      *time.Time `json:"deadline"`
	AssignedFiles *[]string  `json:"assigned_files"`
	GroupID       *uint      `json:"group_id" binding:"omitempty,gt=0"`
	BoardID       *uint      `json:"board_id" binding:"omitempty,gt=0"`
}

// AssignTaskRequest представляет запрос на назначение задачи пользователю
type AssignTaskRequest struct {
	UserID uint `json:"user_id" binding:"required,gt=0"`
}

// BulkStatusRequest представляет массовое обновление статуса
type BulkStatusRequest struct {
	TaskIDs []uint `json:"task_ids" binding:"required,min=1"`
	Status  string `json:"status" binding:"required,oneof=todo in_progress done"`
}

// TaskResponse представляет ответ с данными задачи
type TaskResponse struct {
	TaskID        uint       `json:"task_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Status        string     `json:"status"`
	Priority      *string    `json:"priority,omitempty"`
	AssignedFiles []string   `json:"assigned_files"`
	GroupID       *uint      `json:"group_id,omitempty"`
	BoardID       *uint      `json:"board_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	UserIDs       []uint     `json:"user_ids,omitempty"`
	AssignerID    *uint      `json:"assigner_id,omitempty"`
}

func newTaskResponse(task model.Task) TaskResponse {
	files := []string(task.AssignedFiles)
	if files == nil {
		files = []string{}
	}

	var priority *string
	if task.Priority != nil {
		p := string(*task.Priority)
		priority = &p
	}

	return TaskResponse{
		TaskID:        task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Deadline:      task.Deadline,
		Status:        string(task.Status),
		Priority:      priority,
		AssignedFiles: files,
		GroupID:       task.GroupID,
		BoardID:       task.BoardID,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
}

func newTaskListResponse(tasks []model.Task) []TaskResponse {
	response := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}
	return response
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}

// Create создает новую задачу
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	in := service.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Deadline:      req.Deadline,
		AssignedFiles: req.AssignedFiles,
		GroupID:       req.GroupID,
		BoardID:       req.BoardID,
		AssigneeID:    req.UserID,
		AssignerID:    req.AssignerID,
	}
	if req.Priority != nil {
		priority := model.TaskPriority(*req.Priority)
		in.Priority = &priority
	}

	created, err := h.tasks.CreateTask(c.Request.Context(), in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	response := newTaskResponse(created.Task)
	response.UserIDs = created.AssigneeIDs
	assignerID := created.AssignerID
	response.AssignerID = &assignerID

	c.JSON(http.StatusCreated, response)
}

// GetByID получает задачу по ID
func (h *TaskHandler) GetByID(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(*task))
}

// GetAll получает список всех задач, опционально в рамках группы
func (h *TaskHandler) GetAll(c *gin.Context) {
	var groupID *uint
	if raw := c.Query("group_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group_id format"})
			return
		}
		parsed := uint(id)
		groupID = &parsed
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, newTaskListResponse(tasks))
}

// Update обновляет только переданные поля задачи
func (h *TaskHandler) Update(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	patch := service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		GroupID:     req.GroupID,
		BoardID:     req.BoardID,
	}
	if req.Status != nil {
		status := model.TaskStatus(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := model.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}
	if req.AssignedFiles != nil {
		files := model.FileList(*req.AssignedFiles)
		patch.AssignedFiles = &files
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), taskID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		}
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(*task))
}

// Delete удаляет задачу вместе с назначениями
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Task deleted successfully"})
}

// Assign назначает задачу пользователю
func (h *TaskHandler) Assign(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err := h.tasks.AssignTaskToUser(c.Request.Context(), req.UserID, taskID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"detail": "User assigned to task successfully"})
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, repository.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, repository.ErrAlreadyAssigned):
		c.JSON(http.StatusConflict, gin.H{"error": "User already assigned to task"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign user to task"})
	}
}

// Unassign снимает назначение пользователя с задачи
func (h *TaskHandler) Unassign(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.tasks.RemoveTaskAssignment(c.Request.Context(), userID, taskID); err != nil {
		if errors.Is(err, repository.ErrAssignmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unassign user from task"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "User unassigned from task successfully"})
}

// BulkUpdateStatus массово обновляет статус задач
func (h *TaskHandler) BulkUpdateStatus(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	count, err := h.tasks.BulkUpdateStatus(c.Request.Context(), req.TaskIDs, model.TaskStatus(req.Status))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": count, "status": req.Status})
}

// GetByStatus получает задачи по статусу
func (h *TaskHandler) GetByStatus(c *gin.Context) {
	status := model.TaskStatus(c.Param("status"))
	if status != model.StatusTodo && status != model.StatusInProgress && status != model.StatusDone {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	tasks, err := h.taskRepo.ByStatus(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, newTaskListResponse(tasks))
}

// GetByPriority получает задачи по приоритету
func (h *TaskHandler) GetByPriority(c *gin.Context) {
	priority := model.TaskPriority(c.Param("priority"))
	if priority != model.PriorityLow && priority != model.PriorityMedium && priority != model.PriorityHigh {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
		return
	}

	tasks, err := h.taskRepo.ByPriority(c.Request.Context(), priority)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, newTaskListResponse(tasks))
}

// GetByGroup получает задачи группы
func (h *TaskHandler) GetByGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tasks, err := h.taskRepo.ByGroup(c.Request.Context(), groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, newTaskListResponse(tasks))
}

// Search выполняет поиск задач по названию
func (h *TaskHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter is required"})
		return
	}

	tasks, err := h.taskRepo.SearchByTitle(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search tasks"})
		return
	}

	c.JSON(http.StatusOK, newTaskListResponse(tasks))
}

// Upcoming получает незавершенные задачи с дедлайном в ближайшие N дней
func (h *TaskHandler) Upcoming(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days format"})
			return
		}
		days = parsed
	}

	var groupID *uint
	if raw := c.Query("group_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group_id format"})
			return
		}
		parsed := uint(id)
		groupID = &parsed
	}

	tasks, err := h.taskRepo.Upcoming(c.Request.Context(), days, groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, newTaskListResponse(tasks))
}

// Stats возвращает статистику по всем задачам
func (h *TaskHandler) Stats(c *gin.Context) {
	stats, err := h.taskRepo.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
