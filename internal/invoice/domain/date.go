package domain

import "time"

const dayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD value into local midday. Midday keeps the
// calendar day stable across timezone conversions on either side of UTC.
func ParseDay(value string) (time.Time, error) {
	day, err := time.ParseInLocation(dayLayout, value, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return day.Add(12 * time.Hour), nil
}

// FormatDay renders the calendar day of a timestamp in local time.
func FormatDay(t time.Time) string {
	return t.In(time.Local).Format(dayLayout)
}
