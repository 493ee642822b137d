package service

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trackly/project-tracker/internal/core/domain"
)

// NotificationQueue is the in-process list of user-facing messages. Entries
// stay until dismissed; there is no cap and no expiry.
type NotificationQueue struct {
	mu    sync.Mutex
	items []domain.Notification
	log   zerolog.Logger
}

func NewNotificationQueue(log zerolog.Logger) *NotificationQueue {
	return &NotificationQueue{log: log}
}

func (q *NotificationQueue) Push(kind domain.NotificationType, title, message string) domain.Notification {
	n := domain.Notification{
		ID:      "notification-" + uuid.NewString(),
		Type:    kind,
		Title:   title,
		Message: message,
	}

	q.mu.Lock()
	q.items = append(q.items, n)
	q.mu.Unlock()

	q.log.Debug().Str("id", n.ID).Str("type", string(kind)).Str("title", title).Msg("notification pushed")
	return n
}

func (q *NotificationQueue) Success(title, message string) domain.Notification {
	return q.Push(domain.NotificationSuccess, title, message)
}

func (q *NotificationQueue) Error(title, message string) domain.Notification {
	return q.Push(domain.NotificationError, title, message)
}

func (q *NotificationQueue) Warning(title, message string) domain.Notification {
	return q.Push(domain.NotificationWarning, title, message)
}

func (q *NotificationQueue) Info(title, message string) domain.Notification {
	return q.Push(domain.NotificationInfo, title, message)
}

// Dismiss removes the notification with id and reports whether it existed.
func (q *NotificationQueue) Dismiss(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := slices.IndexFunc(q.items, func(n domain.Notification) bool { return n.ID == id })
	if i < 0 {
		return false
	}
	q.items = slices.Delete(q.items, i, i+1)
	q.log.Debug().Str("id", id).Msg("notification dismissed")
	return true
}

func (q *NotificationQueue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}

// List returns a copy of the queue, oldest first.
func (q *NotificationQueue) List() []domain.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.Notification, len(q.items))
	copy(out, q.items)
	return out
}

func (q *NotificationQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
