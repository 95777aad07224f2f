package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MaxonPy/kanban/internal/handler"
	"github.com/MaxonPy/kanban/internal/model"
	"github.com/MaxonPy/kanban/internal/repository"
	"github.com/MaxonPy/kanban/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Мок менеджера задач
type MockTaskManager struct {
	mock.Mock
}

func (m *MockTaskManager) CreateTask(ctx context.Context, in service.CreateTaskInput) (*service.CreatedTask, error) {
	args := m.Called(ctx, in)
	created := args.Get(0)
	if created == nil {
		return nil, args.Error(1)
	}
	return created.(*service.CreatedTask), args.Error(1)
}

func (m *MockTaskManager) GetTask(ctx context.Context, id uint) (*model.Task, error) {
	args := m.Called(ctx, id)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskManager) ListTasks(ctx context.Context, groupID *uint) ([]model.Task, error) {
	args := m.Called(ctx, groupID)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

func (m *MockTaskManager) UpdateTask(ctx context.Context, id uint, patch service.TaskPatch) (*model.Task, error) {
	args := m.Called(ctx, id, patch)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskManager) DeleteTask(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskManager) AssignTaskToUser(ctx context.Context, userID, taskID uint) error {
	args := m.Called(ctx, userID, taskID)
	return args.Error(0)
}

func (m *MockTaskManager) RemoveTaskAssignment(ctx context.Context, userID, taskID uint) error {
	args := m.Called(ctx, userID, taskID)
	return args.Error(0)
}

func (m *MockTaskManager) BulkUpdateStatus(ctx context.Context, ids []uint, status model.TaskStatus) (int64, error) {
	args := m.Called(ctx, ids, status)
	return args.Get(0).(int64), args.Error(1)
}

func setupTest() (*gin.Engine, *MockTaskManager) {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	mockManager := new(MockTaskManager)
	taskHandler := handler.NewTaskHandler(mockManager, nil)

	r.POST("/tasks", taskHandler.Create)
	r.GET("/tasks/:id", taskHandler.GetByID)
	r.PUT("/tasks/bulk/status", taskHandler.BulkUpdateStatus)
	r.DELETE("/tasks/:id", taskHandler.Delete)
	r.POST("/tasks/:id/assign", taskHandler.Assign)

	return r, mockManager
}

func TestCreateTask_Success(t *testing.T) {
	// Arrange
	router, mockManager := setupTest()

	created := &service.CreatedTask{
		Task: model.Task{
			ID:            1,
			Title:         "Лабораторная 1",
			Status:        model.StatusTodo,
			AssignedFiles: model.FileList{},
		},
		AssigneeIDs: []uint{5},
		AssignerID:  1,
	}
	mockManager.On("CreateTask", mock.Anything, mock.AnythingOfType("service.CreateTaskInput")).
		Return(created, nil)

	reqBody := handler.CreateTaskRequest{
		Title:  "Лабораторная 1",
		UserID: uintPtr(5),
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.TaskResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), response.TaskID)
	assert.Equal(t, "todo", response.Status)
	assert.Equal(t, []uint{5}, response.UserIDs)
	// assigned_files в ответе всегда список
	assert.NotNil(t, response.AssignedFiles)

	mockManager.AssertExpectations(t)
}

func TestCreateTask_MissingTitle(t *testing.T) {
	// Arrange
	router, mockManager := setupTest()

	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBufferString(`{"description":"без названия"}`))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockManager.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
}

func TestGetTask_NotFound(t *testing.T) {
	// Arrange
	router, mockManager := setupTest()

	mockManager.On("GetTask", mock.Anything, uint(999)).Return(nil, repository.ErrTaskNotFound)

	req, _ := http.NewRequest("GET", "/tasks/999", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)

	var response map[string]string
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Task not found", response["error"])
}

func TestGetTask_InvalidID(t *testing.T) {
	// Arrange
	router, mockManager := setupTest()

	req, _ := http.NewRequest("GET", "/tasks/abc", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockManager.AssertNotCalled(t, "GetTask", mock.Anything, mock.Anything)
}

func TestAssignTask_Conflict(t *testing.T) {
	// Arrange
	router, mockManager := setupTest()

	mockManager.On("AssignTaskToUser", mock.Anything, uint(5), uint(7)).
		Return(repository.ErrAlreadyAssigned)

	req, _ := http.NewRequest("POST", "/tasks/7/assign", bytes.NewBufferString(`{"user_id":5}`))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusConflict, resp.Code)

	var response map[string]string
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "User already assigned to task", response["error"])
}

func TestAssignTask_UserNotFound(t *testing.T) {
	// Arrange
	router, mockManager := setupTest()

	mockManager.On("AssignTaskToUser", mock.Anything, uint(999), uint(7)).
		Return(repository.ErrUserNotFound)

	req, _ := http.NewRequest("POST", "/tasks/7/assign", bytes.NewBufferString(`{"user_id":999}`))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)

	var response map[string]string
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "User not found", response["error"])
}

func TestBulkUpdateStatus_Success(t *testing.T) {
	// Arrange
	router, mockManager := setupTest()

	mockManager.On("BulkUpdateStatus", mock.Anything, []uint{1, 2, 999}, model.StatusDone).
		Return(int64(2), nil)

	req, _ := http.NewRequest("PUT", "/tasks/bulk/status", bytes.NewBufferString(`{"task_ids":[1,2,999],"status":"done"}`))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response map[string]interface{}
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, float64(2), response["updated"])
}

func TestBulkUpdateStatus_InvalidStatus(t *testing.T) {
	// Arrange
	router, mockManager := setupTest()

	req, _ := http.NewRequest("PUT", "/tasks/bulk/status", bytes.NewBufferString(`{"task_ids":[1],"status":"archived"}`))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockManager.AssertNotCalled(t, "BulkUpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteTask_Success(t *testing.T) {
	// Arrange
	router, mockManager := setupTest()

	mockManager.On("DeleteTask", mock.Anything, uint(10)).Return(nil)

	req, _ := http.NewRequest("DELETE", "/tasks/10", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response map[string]string
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Task deleted successfully", response["detail"])
	mockManager.AssertExpectations(t)
}

func uintPtr(v uint) *uint {
	return &v
}
