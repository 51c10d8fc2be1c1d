package notificationqueue

import (
	"time"

	"github.com/google/uuid"
)

// DispatchJob carries one stored notification through the delivery queue.
type DispatchJob struct {
	NotificationID uuid.UUID `json:"notification_id"`
}

// Kind returns the job type identifier for River.
func (DispatchJob) Kind() string { return "notification_dispatch" }

// ReminderJob fans an upcoming event out to its registered participants. It is
// scheduled ahead of the event's start time.
type ReminderJob struct {
	EventID   uuid.UUID `json:"event_id"`
	EventName string    `json:"event_name"`
	StartsAt  time.Time `json:"starts_at"`
}

func (ReminderJob) Kind() string { return "event_reminder" }
