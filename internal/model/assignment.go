package model

import (
	"time"
)

// Assignment связывает исполнителя с задачей. Составной первичный ключ
// не допускает повторного назначения той же пары (user, task).
type Assignment struct {
	UserID     uint      `gorm:"primaryKey"`
	TaskID     uint      `gorm:"primaryKey"`
	AssignedAt time.Time `gorm:"autoCreateTime"`
}

func (Assignment) TableName() string {
	return "users_tasks"
}

// TaskAssigner связывает задачу с пользователем, который её назначил
type TaskAssigner struct {
	TaskID uint `gorm:"primaryKey"`
	UserID uint `gorm:"primaryKey"`
}

func (TaskAssigner) TableName() string {
	return "task_assigners"
}
