package interval

import "time"

const dateKeyLayout = "2006-01-02"

// DateKey buckets an instant into its local calendar day as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// ParseDateKey converts a YYYY-MM-DD key back to midnight local time.
func ParseDateKey(key string) (time.Time, error) {
	return time.ParseInLocation(dateKeyLayout, key, time.Local)
}

// Calendar describes the layout of one month for the history grid.
type Calendar struct {
	FirstWeekday time.Weekday
	Days         int
}

// MonthCalendar returns the layout of the given month.
func MonthCalendar(year int, month time.Month) Calendar {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return Calendar{
		FirstWeekday: first.Weekday(),
		Days:         first.AddDate(0, 1, -1).Day(),
	}
}

// SameMonth reports whether a dateKey falls inside the given month.
func SameMonth(key string, year int, month time.Month) bool {
	t, err := ParseDateKey(key)
	if err != nil {
		return false
	}
	return t.Year() == year && t.Month() == month
}
