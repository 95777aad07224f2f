package model

import (
	"time"
)

type Board struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	UserID    uint   `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User  *User  `gorm:"foreignKey:UserID"`
	Tasks []Task `gorm:"foreignKey:BoardID"`
}
