package weather

import "time"

// Period is a forecast interval: a day label ("Today" or a weekday name)
// and whether it is the night half of that day.
type Period struct {
	Day   string
	Night bool
}

// Label is the human-readable name of the period.
func (p Period) Label() string {
	switch {
	case !p.Night:
		return p.Day
	case p.Day == Today:
		return "Tonight"
	default:
		return p.Day + " Night"
	}
}

const Today = "Today"

// Classify names the period a forecast timestamp starts. Timestamps on the
// same calendar date as now are "Today"; hours at or after nightHour are
// night periods.
func Classify(ts, now time.Time, nightHour int) Period {
	p := Period{Night: ts.Hour() >= nightHour}

	ty, tm, td := ts.Date()
	ny, nm, nd := now.Date()
	if ty == ny && tm == nm && td == nd {
		p.Day = Today
	} else {
		p.Day = ts.Weekday().String()
	}
	return p
}
