package model

import (
	"time"
)

type Group struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time

	Tasks []Task `gorm:"foreignKey:GroupID"`
	Users []User `gorm:"many2many:user_groups;joinForeignKey:GroupID;joinReferences:UserID"`
}

// UserGroup представляет членство пользователя в группе
type UserGroup struct {
	UserID  uint `gorm:"primaryKey"`
	GroupID uint `gorm:"primaryKey"`
}

func (UserGroup) TableName() string {
	return "user_groups"
}
