package actions

import "time"

const (
	weekdayLayout   = "Monday (UTC-07:00)"
	timestampLayout = "2006-01-02 15:04:05.000"
)

// DateTimeLines renders now as the weekday with its UTC offset followed by a
// millisecond timestamp.
func DateTimeLines(now time.Time) []string {
	return []string{now.Format(weekdayLayout), now.Format(timestampLayout)}
}

// ShowCurrentDateAndTime shows now in a notice that stays until dismissed.
func (r *Runner) ShowCurrentDateAndTime(now time.Time) {
	r.svc.Notify(0, DateTimeLines(now)...)
}
