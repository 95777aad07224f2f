package model

import (
	"time"
)

type Role string

// Роли пользователей
const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID         uint   `gorm:"primaryKey"`
	TelegramID int64  `gorm:"uniqueIndex;not null"`
	Name       string `gorm:"not null"`
	Role       Role   `gorm:"type:varchar(10);not null"`
	Email      string `gorm:"uniqueIndex"`
	CreatedAt  time.Time

	Boards []Board `gorm:"foreignKey:UserID"`
	Groups []Group `gorm:"many2many:user_groups;joinForeignKey:UserID;joinReferences:GroupID"`
	Tasks  []Task  `gorm:"many2many:users_tasks;joinForeignKey:UserID;joinReferences:TaskID"`
}
