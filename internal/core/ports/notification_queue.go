package ports

import "github.com/trackly/project-tracker/internal/core/domain"

// NotificationQueue holds user-facing messages until they are dismissed.
type NotificationQueue interface {
	Push(kind domain.NotificationType, title, message string) domain.Notification
	Success(title, message string) domain.Notification
	Error(title, message string) domain.Notification
	Warning(title, message string) domain.Notification
	Info(title, message string) domain.Notification
	Dismiss(id string) bool
	Clear()
	// List returns a snapshot, oldest first.
	List() []domain.Notification
	Len() int
}
