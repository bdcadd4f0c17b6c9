package task

import (
	"time"

	"github.com/cypherab01/task-manager-api/domain/user"
)

// Status represents the state of a task.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// ValidStatuses lists every accepted status in workflow order.
var ValidStatuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// ParseStatus converts raw input into a Status. The match is exact.
func ParseStatus(s string) (Status, bool) {
	for _, status := range ValidStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// ValidStatusNames returns ValidStatuses as plain strings.
func ValidStatusNames() []string {
	names := make([]string, 0, len(ValidStatuses))
	for _, status := range ValidStatuses {
		names = append(names, string(status))
	}
	return names
}

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	Title       string     `gorm:"not null;type:text" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	Status      Status     `gorm:"not null;type:text;default:PENDING" json:"status"`
	UserID      string     `gorm:"not null;type:text;index" json:"userId"`
	User        *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// OwnedBy reports whether userID owns the task.
func (t *Task) OwnedBy(userID string) bool {
	return t != nil && userID != "" && t.UserID == userID
}
