package service

import (
	"context"
	"errors"
	"time"

	"github.com/MaxonPy/kanban/internal/model"
	"github.com/MaxonPy/kanban/internal/repository"
	"github.com/MaxonPy/kanban/internal/ws"
)

// TaskStore abstracts the persistence operations the task manager needs
type TaskStore interface {
	Create(ctx context.Context, task *model.Task, assigneeID, assignerID *uint) error
	GetByID(ctx context.Context, id uint) (*model.Task, error)
	List(ctx context.Context, groupID *uint) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	DeleteWithAssignments(ctx context.Context, id uint) error
	BulkUpdateStatus(ctx context.Context, ids []uint, status model.TaskStatus) (int64, error)
	AssigneeIDs(ctx context.Context, taskID uint) ([]uint, error)
	AssignerIDs(ctx context.Context, taskID uint) ([]uint, error)
	GetAssignment(ctx context.Context, userID, taskID uint) (*model.Assignment, error)
	CreateAssignment(ctx context.Context, assignment *model.Assignment) error
	DeleteAssignment(ctx context.Context, userID, taskID uint) error
}

// UserStore resolves users referenced by task operations
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
}

// Notifier fans a task event out to live subscribers
type Notifier interface {
	Broadcast(event ws.Event)
}

// TaskService владеет всеми мутациями задач и их бизнес-правилами.
// Изменяющие операции после фиксации в БД рассылают события подписчикам.
type TaskService struct {
	tasks            TaskStore
	users            UserStore
	notifier         Notifier
	notifyBulkUpdate bool
}

func NewTaskService(tasks TaskStore, users UserStore, notifier Notifier, notifyBulkUpdate bool) *TaskService {
	return &TaskService{
		tasks:            tasks,
		users:            users,
		notifier:         notifier,
		notifyBulkUpdate: notifyBulkUpdate,
	}
}

// CreateTaskInput — входные данные создания задачи
type CreateTaskInput struct {
	Title         string
	Description   string
	Deadline      *time.Time
	Priority      *model.TaskPriority
	AssignedFiles model.FileList
	GroupID       *uint
	BoardID       *uint
	AssigneeID    *uint
	AssignerID    *uint
}

// CreatedTask — созданная задача вместе со списком исполнителей и назначившим
type CreatedTask struct {
	Task        model.Task
	AssigneeIDs []uint
	AssignerID  uint
}

// TaskPatch lists the optional-and-settable task fields. Only non-nil
// fields are applied, so a partial update cannot touch anything else.
type TaskPatch struct {
	Title         *string
	Description   *string
	Status        *model.TaskStatus
	Priority      *model.TaskPriority
	Deadline      *time.Time
	AssignedFiles *model.FileList
	GroupID       *uint
	BoardID       *uint
}

func (p TaskPatch) apply(task *model.Task) {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	if p.Priority != nil {
		task.Priority = p.Priority
	}
	if p.Deadline != nil {
		task.Deadline = p.Deadline
	}
	if p.AssignedFiles != nil {
		task.AssignedFiles = *p.AssignedFiles
	}
	if p.GroupID != nil {
		task.GroupID = p.GroupID
	}
	if p.BoardID != nil {
		task.BoardID = p.BoardID
	}
}

// CreateTask создает задачу со статусом todo. Группа, доска и назначивший
// по умолчанию — сущности с ID = 1. Если указан исполнитель, создается
// одна запись назначения. Задача, назначение и связь с назначившим
// фиксируются одной транзакцией. Уведомление при создании не отправляется.
func (s *TaskService) CreateTask(ctx context.Context, in CreateTaskInput) (*CreatedTask, error) {
	groupID := model.DefaultGroupID
	if in.GroupID != nil {
		groupID = *in.GroupID
	}
	boardID := model.DefaultBoardID
	if in.BoardID != nil {
		boardID = *in.BoardID
	}
	assignerID := model.SystemUserID
	if in.AssignerID != nil {
		assignerID = *in.AssignerID
	}

	// Исполнитель добавляется только если такой пользователь существует
	var assigneeID *uint
	if in.AssigneeID != nil {
		_, err := s.users.GetByID(ctx, *in.AssigneeID)
		if err == nil {
			assigneeID = in.AssigneeID
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
	}

	// Назначивший связывается с задачей, если он существует
	var assignerLink *uint
	if _, err := s.users.GetByID(ctx, assignerID); err == nil {
		assignerLink = &assignerID
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	files := in.AssignedFiles
	if files == nil {
		files = model.FileList{}
	}

	task := &model.Task{
		Title:         in.Title,
		Description:   in.Description,
		Deadline:      in.Deadline,
		Status:        model.StatusTodo,
		Priority:      in.Priority,
		AssignedFiles: files,
		GroupID:       &groupID,
		BoardID:       &boardID,
	}

	if err := s.tasks.Create(ctx, task, assigneeID, assignerLink); err != nil {
		return nil, err
	}

	assignees, err := s.tasks.AssigneeIDs(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	return &CreatedTask{
		Task:        *task,
		AssigneeIDs: assignees,
		AssignerID:  assignerID,
	}, nil
}

// GetTask возвращает задачу по ID
func (s *TaskService) GetTask(ctx context.Context, id uint) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	normalizeFiles(task)
	return task, nil
}

// ListTasks возвращает все задачи, при необходимости в рамках одной группы
func (s *TaskService) ListTasks(ctx context.Context, groupID *uint) ([]model.Task, error) {
	tasks, err := s.tasks.List(ctx, groupID)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		normalizeFiles(&tasks[i])
	}
	return tasks, nil
}

// UpdateTask применяет частичное обновление и рассылает событие update_status
// всем исполнителям и назначившим. Прежний статус фиксируется строго до
// применения изменений.
func (s *TaskService) UpdateTask(ctx context.Context, id uint, patch TaskPatch) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := task.Status
	patch.apply(task)

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	recipients, err := s.taskRecipients(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, userID := range recipients {
		event := ws.NewEvent(ws.EventUpdateStatus, userID, id)
		event.Status = string(task.Status)
		event.OldStatus = string(oldStatus)
		s.notifier.Broadcast(event)
	}

	normalizeFiles(task)
	return task, nil
}

// DeleteTask удаляет задачу вместе с назначениями и рассылает delete_task
// каждому, кто был исполнителем на момент удаления.
func (s *TaskService) DeleteTask(ctx context.Context, id uint) error {
	if _, err := s.tasks.GetByID(ctx, id); err != nil {
		return err
	}

	// Список исполнителей фиксируется до удаления
	assignees, err := s.tasks.AssigneeIDs(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tasks.DeleteWithAssignments(ctx, id); err != nil {
		return err
	}

	for _, userID := range assignees {
		s.notifier.Broadcast(ws.NewEvent(ws.EventDeleteTask, userID, id))
	}
	return nil
}

// AssignTaskToUser назначает задачу пользователю и отправляет ему new_task.
// Повторное назначение той же пары отклоняется.
func (s *TaskService) AssignTaskToUser(ctx context.Context, userID, taskID uint) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return err
	}

	_, err := s.tasks.GetAssignment(ctx, userID, taskID)
	if err == nil {
		return repository.ErrAlreadyAssigned
	}
	if !errors.Is(err, repository.ErrAssignmentNotFound) {
		return err
	}

	assignment := &model.Assignment{
		UserID:     userID,
		TaskID:     taskID,
		AssignedAt: time.Now(),
	}
	if err := s.tasks.CreateAssignment(ctx, assignment); err != nil {
		return err
	}

	s.notifier.Broadcast(ws.NewEvent(ws.EventNewTask, userID, taskID))
	return nil
}

// RemoveTaskAssignment снимает назначение; уведомление не отправляется
func (s *TaskService) RemoveTaskAssignment(ctx context.Context, userID, taskID uint) error {
	return s.tasks.DeleteAssignment(ctx, userID, taskID)
}

// BulkUpdateStatus переводит все существующие задачи из списка в новый статус
// и возвращает число обновленных. Отсутствующие ID молча пропускаются.
// Рассылка событий включается флагом конфигурации.
func (s *TaskService) BulkUpdateStatus(ctx context.Context, ids []uint, status model.TaskStatus) (int64, error) {
	if !s.notifyBulkUpdate {
		return s.tasks.BulkUpdateStatus(ctx, ids, status)
	}

	// Прежние статусы фиксируются до массового обновления
	oldStatuses := make(map[uint]model.TaskStatus, len(ids))
	for _, id := range ids {
		task, err := s.tasks.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrTaskNotFound) {
				continue
			}
			return 0, err
		}
		oldStatuses[task.ID] = task.Status
	}

	count, err := s.tasks.BulkUpdateStatus(ctx, ids, status)
	if err != nil {
		return 0, err
	}

	for taskID, oldStatus := range oldStatuses {
		recipients, err := s.taskRecipients(ctx, taskID)
		if err != nil {
			return count, err
		}
		for _, userID := range recipients {
			event := ws.NewEvent(ws.EventUpdateStatus, userID, taskID)
			event.Status = string(status)
			event.OldStatus = string(oldStatus)
			s.notifier.Broadcast(event)
		}
	}
	return count, nil
}

// taskRecipients возвращает объединение исполнителей и назначивших задачи
func (s *TaskService) taskRecipients(ctx context.Context, taskID uint) ([]uint, error) {
	assignees, err := s.tasks.AssigneeIDs(ctx, taskID)
	if err != nil {
		return nil, err
	}
	assigners, err := s.tasks.AssignerIDs(ctx, taskID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(assignees)+len(assigners))
	union := make([]uint, 0, len(assignees)+len(assigners))
	for _, id := range append(assignees, assigners...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		union = append(union, id)
	}
	return union, nil
}

// assigned_files никогда не отдается как nil
func normalizeFiles(task *model.Task) {
	if task.AssignedFiles == nil {
		task.AssignedFiles = model.FileList{}
	}
}
