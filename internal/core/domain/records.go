package domain

import "time"

// RecordKey names one entry in the persistent key-value store.
// Each entity lives under exactly one key, so distinct entities never contend.
type RecordKey string

const (
	KeySettings     RecordKey = "app-settings"
	KeyMotherInfo   RecordKey = "motherInfo"
	KeyFatherInfo   RecordKey = "fatherInfo"
	KeyCheckups     RecordKey = "checkups"
	KeyCountdown    RecordKey = "countdownData"
	KeyReminders    RecordKey = "reminders"
	KeySavedClinics RecordKey = "savedClinics"
)

// AllRecordKeys returns the fixed set of keys the tracker persists
func AllRecordKeys() []RecordKey {
	return []RecordKey{
		KeySettings,
		KeyMotherInfo,
		KeyFatherInfo,
		KeyCheckups,
		KeyCountdown,
		KeyReminders,
		KeySavedClinics,
	}
}

func (k RecordKey) String() string { return string(k) }

// ChangeEvent is published after a record has been written
type ChangeEvent struct {
	Key       RecordKey `json:"key"`
	ChangedAt time.Time `json:"changed_at"`
}
