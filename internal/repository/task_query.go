package repository

import (
	"context"
	"time"

	"github.com/MaxonPy/kanban/internal/model"
)

// TaskStats агрегирует количество задач по статусам
type TaskStats struct {
	TotalTasks    int64            `json:"total_tasks"`
	TasksByStatus map[string]int64 `json:"tasks_by_status"`
}

// GroupStats — статистика по задачам группы
type GroupStats struct {
	TaskStats
	TotalUsers int64 `json:"total_users"`
}

// UserStats — статистика по задачам пользователя
type UserStats struct {
	TaskStats
	TotalBoards int64 `json:"total_boards"`
}

type statusCount struct {
	Status string
	Count  int64
}

// ByStatus retrieves tasks with the given status
func (r *TaskRepository) ByStatus(ctx context.Context, status model.TaskStatus) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Where("status = ?", status).Order("id").Find(&tasks).Error
	return tasks, err
}

// ByPriority retrieves tasks with the given priority
func (r *TaskRepository) ByPriority(ctx context.Context, priority model.TaskPriority) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Where("priority = ?", priority).Order("id").Find(&tasks).Error
	return tasks, err
}

// ByGroup retrieves tasks belonging to the given group
func (r *TaskRepository) ByGroup(ctx context.Context, groupID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Where("group_id = ?", groupID).Order("id").Find(&tasks).Error
	return tasks, err
}

// ByBoard retrieves tasks belonging to the given board
func (r *TaskRepository) ByBoard(ctx context.Context, boardID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("id").Find(&tasks).Error
	return tasks, err
}

// SearchByTitle performs a case-insensitive substring search over task titles
func (r *TaskRepository) SearchByTitle(ctx context.Context, query string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Where("title ILIKE ?", "%"+query+"%").Order("id").Find(&tasks).Error
	return tasks, err
}

// Upcoming retrieves unfinished tasks whose deadline falls within the next N days,
// optionally scoped to a group
func (r *TaskRepository) Upcoming(ctx context.Context, days int, groupID *uint) ([]model.Task, error) {
	deadline := time.Now().AddDate(0, 0, days)

	q := r.db.WithContext(ctx).
		Where("deadline IS NOT NULL AND deadline <= ?", deadline).
		Where("status <> ?", model.StatusDone)
	if groupID != nil {
		q = q.Where("group_id = ?", *groupID)
	}

	var tasks []model.Task
	err := q.Order("deadline").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) statusBreakdown(ctx context.Context, scope string, args ...interface{}) (*TaskStats, error) {
	q := r.db.WithContext(ctx).Model(&model.Task{})
	if scope != "" {
		q = q.Where(scope, args...)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	q = r.db.WithContext(ctx).Model(&model.Task{})
	if scope != "" {
		q = q.Where(scope, args...)
	}

	var rows []statusCount
	if err := q.Select("status, count(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &TaskStats{TotalTasks: total, TasksByStatus: make(map[string]int64, len(rows))}
	for _, row := range rows {
		stats.TasksByStatus[row.Status] = row.Count
	}
	return stats, nil
}

// Stats aggregates task counts across the whole store
func (r *TaskRepository) Stats(ctx context.Context) (*TaskStats, error) {
	return r.statusBreakdown(ctx, "")
}

// StatsForBoard aggregates task counts for one board
func (r *TaskRepository) StatsForBoard(ctx context.Context, boardID uint) (*TaskStats, error) {
	return r.statusBreakdown(ctx, "board_id = ?", boardID)
}

// StatsForGroup aggregates task counts for one group, with the group's member count
func (r *TaskRepository) StatsForGroup(ctx context.Context, groupID uint) (*GroupStats, error) {
	breakdown, err := r.statusBreakdown(ctx, "group_id = ?", groupID)
	if err != nil {
		return nil, err
	}

	var users int64
	if err := r.db.WithContext(ctx).Model(&model.UserGroup{}).
		Where("group_id = ?", groupID).
		Count(&users).Error; err != nil {
		return nil, err
	}

	return &GroupStats{TaskStats: *breakdown, TotalUsers: users}, nil
}

// StatsForUser aggregates counts of tasks assigned to one user, with the user's board count
func (r *TaskRepository) StatsForUser(ctx context.Context, userID uint) (*UserStats, error) {
	q := r.db.WithContext(ctx).Model(&model.Task{}).
		Joins("JOIN users_tasks ON users_tasks.task_id = tasks.id").
		Where("users_tasks.user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Joins("JOIN users_tasks ON users_tasks.task_id = tasks.id").
		Where("users_tasks.user_id = ?", userID).
		Select("tasks.status, count(*) as count").
		Group("tasks.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var boards int64
	if err := r.db.WithContext(ctx).Model(&model.Board{}).
		Where("user_id = ?", userID).
		Count(&boards).Error; err != nil {
		return nil, err
	}

	stats := &UserStats{
		TaskStats:   TaskStats{TotalTasks: total, TasksByStatus: make(map[string]int64, len(rows))},
		TotalBoards: boards,
	}
	for _, row := range rows {
		stats.TasksByStatus[row.Status] = row.Count
	}
	return stats, nil
}
