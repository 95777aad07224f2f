package ws

import (
	"time"
)

// Типы событий, рассылаемых подписчикам
const (
	EventNewTask      = "new_task"
	EventUpdateStatus = "update_status"
	EventDeleteTask   = "delete_task"
)

// Event — полезная нагрузка уведомления о задаче. UserID указывает
// получателя, для которого событие сформировано.
type Event struct {
	Event     string `json:"event"`
	UserID    uint   `json:"user_id"`
	TaskID    uint   `json:"task_id"`
	Timestamp int64  `json:"timestamp"`
	Status    string `json:"status,omitempty"`
	OldStatus string `json:"old_status,omitempty"`
}

// NewEvent builds an event stamped with the current time in milliseconds
func NewEvent(kind string, userID, taskID uint) Event {
	return Event{
		Event:     kind,
		UserID:    userID,
		TaskID:    taskID,
		Timestamp: time.Now().UnixMilli(),
	}
}
