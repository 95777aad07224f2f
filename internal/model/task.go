package model

import (
	"time"
)

type TaskStatus string

// Статусы задачи
const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

type TaskPriority string

// Приоритеты задачи
const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Сущности по умолчанию: системный пользователь, группа и доска с ID = 1
const (
	SystemUserID   uint = 1
	DefaultGroupID uint = 1
	DefaultBoardID uint = 1
)

type Task struct {
	ID            uint   `gorm:"primaryKey"`
	Title         string `gorm:"size:200;not null"`
	Description   string `gorm:"type:text"`
	Deadline      *time.Time
	Status        TaskStatus    `gorm:"type:varchar(20);not null;default:'todo'"`
	Priority      *TaskPriority `gorm:"type:varchar(10)"`
	AssignedFiles FileList      `gorm:"type:text"`
	GroupID       *uint         `gorm:"index"`
	BoardID       *uint         `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Group     *Group `gorm:"foreignKey:GroupID"`
	Board     *Board `gorm:"foreignKey:BoardID"`
	Assignees []User `gorm:"many2many:users_tasks;joinForeignKey:TaskID;joinReferences:UserID"`
	Assigners []User `gorm:"many2many:task_assigners;joinForeignKey:TaskID;joinReferences:UserID"`
}
