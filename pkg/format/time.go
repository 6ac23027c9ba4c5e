package format

import "time"

const (
	timestampLayout = "2006-01-02 15:04"
	dateLayout      = "2006-01-02"
)

// Timestamp renders t as "2006-01-02 15:04", or a dash when unknown.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format(timestampLayout)
}

// Date renders the calendar date of t, or a dash when unknown.
func Date(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format(dateLayout)
}

// Clock renders the time of day of t.
func Clock(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("15:04:05")
}
