package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminder_IsDue(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	r := Reminder{Title: "Visit", DateTime: at}

	assert.False(t, r.IsDue(at.Add(-time.Second)))
	assert.True(t, r.IsDue(at))
	assert.True(t, r.IsDue(at.Add(time.Minute)))

	r.Triggered = true
	assert.False(t, r.IsDue(at.Add(time.Minute)))
}

func TestUpcomingReminders(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	reminders := []Reminder{
		{ID: "far", DateTime: now.Add(72 * time.Hour)},
		{ID: "past", DateTime: now.Add(-time.Hour)},
		{ID: "exact", DateTime: now},
		{ID: "soon", DateTime: now.Add(time.Hour), Triggered: true},
	}
	got := UpcomingReminders(reminders, now)
	require.Len(t, got, 2)
	assert.Equal(t, "soon", got[0].ID)
	assert.Equal(t, "far", got[1].ID)
}

func TestParsePermission(t *testing.T) {
	assert.Equal(t, PermissionGranted, ParsePermission("granted"))
	assert.Equal(t, PermissionDenied, ParsePermission("denied"))
	assert.Equal(t, PermissionDefault, ParsePermission(""))
	assert.Equal(t, PermissionDefault, ParsePermission("maybe"))
}

func TestNotificationFor(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	n := NotificationFor(Reminder{ID: "r1", Title: "Glucose test", DateTime: at})
	assert.Equal(t, Notification{ReminderID: "r1", Title: "Pregnancy reminder", Body: "Glucose test", DueAt: at}, n)
}
