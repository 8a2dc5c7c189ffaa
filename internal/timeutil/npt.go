package timeutil

import (
	"time"
)

// NPT is the Nepal Time location (UTC+5:45)
var NPT *time.Location

func init() {
	var err error
	NPT, err = time.LoadLocation("Asia/Kathmandu")
	if err != nil {
		// Fallback: create fixed zone if Asia/Kathmandu not available
		NPT = time.FixedZone("NPT", 5*60*60+45*60)
	}
}

// Now returns the current time in NPT
func Now() time.Time {
	return time.Now().In(NPT)
}

// ToNPT converts any time to NPT
func ToNPT(t time.Time) time.Time {
	return t.In(NPT)
}

// ParseInNPT parses a time string in NPT
func ParseInNPT(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, NPT)
}

// StartOfDay returns 00:00:00 NPT of the given time's calendar day
func StartOfDay(t time.Time) time.Time {
	n := t.In(NPT)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, NPT)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
