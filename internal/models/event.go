package models

import "time"

// TimeLayout is the timestamp format used in the durable store files,
// local time with one-second precision.
const TimeLayout = "2006-01-02 15:04:05"

// Event sources
const (
	SourceUI     = "UI"
	SourceDevice = "DEVICE"
)

// RetentionWindow is how long trigger events are kept before being pruned.
const RetentionWindow = 7 * 24 * time.Hour

// Event represents a single button trigger: the resolved phrase plus where it
// came from. Events are immutable once created.
type Event struct {
	TS       string `json:"ts"`
	Source   string `json:"source"`
	Button   string `json:"button"`
	Language string `json:"language"`
	Text     string `json:"text"`
	DeviceID string `json:"device_id"`
	UserID   string `json:"user_id"`
}

// Time parses the event timestamp in local time.
func (e *Event) Time() (time.Time, error) {
	return time.ParseInLocation(TimeLayout, e.TS, time.Local)
}

// Expired reports whether the event falls outside the retention window
// relative to now. Events with unparseable timestamps count as expired.
func (e *Event) Expired(now time.Time) bool {
	ts, err := e.Time()
	if err != nil {
		return true
	}
	return ts.Before(now.Add(-RetentionWindow))
}

// FormatTime renders a timestamp in the store format.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}
