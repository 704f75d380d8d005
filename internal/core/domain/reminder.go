package domain

import (
	"sort"
	"time"
)

// Reminder is a scheduled appointment or task notice.
// Triggered moves from false to true once, when the notification has been delivered.
type Reminder struct {
	ID            string    `json:"id"`
	Title         string    `json:"title" validate:"required"`
	DateTime      time.Time `json:"dateTime" validate:"required"`
	Triggered     bool      `json:"triggered"`
	ClinicName    string    `json:"clinicName,omitempty"`
	ClinicAddress string    `json:"clinicAddress,omitempty"`
	Doctor        string    `json:"doctor,omitempty"`
	Content       string    `json:"content,omitempty"`
}

// IsDue reports whether an untriggered reminder has reached its time
func (r Reminder) IsDue(now time.Time) bool {
	return !r.Triggered && !now.Before(r.DateTime)
}

// UpcomingReminders returns reminders scheduled strictly after now, soonest first
func UpcomingReminders(reminders []Reminder, now time.Time) []Reminder {
	var out []Reminder
	for _, r := range reminders {
		if r.DateTime.After(now) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateTime.Before(out[j].DateTime)
	})
	return out
}

// NotificationPermission mirrors the platform permission states
type NotificationPermission string

const (
	PermissionGranted NotificationPermission = "granted"
	PermissionDenied  NotificationPermission = "denied"
	PermissionDefault NotificationPermission = "default"
)

// ParsePermission maps a config string to a permission, defaulting to PermissionDefault
func ParsePermission(s string) NotificationPermission {
	switch NotificationPermission(s) {
	case PermissionGranted, PermissionDenied:
		return NotificationPermission(s)
	default:
		return PermissionDefault
	}
}

// ReminderNotificationTitle is the heading every reminder notification carries
const ReminderNotificationTitle = "Pregnancy reminder"

// Notification is a user-facing notice requested by the reminder sweep
type Notification struct {
	ReminderID string    `json:"reminder_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	DueAt      time.Time `json:"due_at"`
}

// NotificationFor builds the notice delivered for a due reminder
func NotificationFor(r Reminder) Notification {
	return Notification{
		ReminderID: r.ID,
		Title:      ReminderNotificationTitle,
		Body:       r.Title,
		DueAt:      r.DateTime,
	}
}
