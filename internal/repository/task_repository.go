package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/MaxonPy/kanban/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts the task together with its initial assignment and assigner
// link in one transaction. A failure mid-sequence rolls the whole insert back.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task, assigneeID, assignerID *uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		if assigneeID != nil {
			assignment := &model.Assignment{
				UserID:     *assigneeID,
				TaskID:     task.ID,
				AssignedAt: time.Now(),
			}
			if err := tx.Create(assignment).Error; err != nil {
				return err
			}
		}

		if assignerID != nil {
			if err := tx.Exec(
				"INSERT INTO task_assigners (task_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
				task.ID, *assignerID,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// List retrieves all tasks, optionally scoped to a group
func (r *TaskRepository) List(ctx context.Context, groupID *uint) ([]model.Task, error) {
	var tasks []model.Task
	q := r.db.WithContext(ctx)
	if groupID != nil {
		q = q.Where("group_id = ?", *groupID)
	}
	if err := q.Order("id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update saves an existing task
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// DeleteWithAssignments removes a task and its assignment rows in one transaction.
// Any failure mid-sequence rolls the whole transaction back.
func (r *TaskRepository) DeleteWithAssignments(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.Assignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.TaskAssigner{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Task{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}

// BulkUpdateStatus sets the status on every task whose id is in ids.
// Missing ids are skipped; the number of updated rows is returned.
func (r *TaskRepository) BulkUpdateStatus(ctx context.Context, ids []uint, status model.TaskStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id IN ?", ids).
		Update("status", status)

	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// AssigneeIDs returns the ids of users assigned to the task
func (r *TaskRepository) AssigneeIDs(ctx context.Context, taskID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("task_id = ?", taskID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// AssignerIDs returns the ids of users who assigned the task
func (r *TaskRepository) AssignerIDs(ctx context.Context, taskID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.TaskAssigner{}).
		Where("task_id = ?", taskID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// GetAssignment retrieves the assignment row for a (user, task) pair
func (r *TaskRepository) GetAssignment(ctx context.Context, userID, taskID uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND task_id = ?", userID, taskID).
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssignmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CreateAssignment inserts an assignment row for a (user, task) pair
func (r *TaskRepository) CreateAssignment(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

// DeleteAssignment removes the assignment row for a (user, task) pair
func (r *TaskRepository) DeleteAssignment(ctx context.Context, userID, taskID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND task_id = ?", userID, taskID).
		Delete(&model.Assignment{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}
