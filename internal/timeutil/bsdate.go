package timeutil

import (
	"errors"
	"fmt"
	"time"
)

// BSDate is a Bikram Sambat calendar date.
type BSDate struct {
	Year  int
	Month int
	Day   int
}

func (d BSDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ErrBSOutOfRange is returned for dates outside the month table.
var ErrBSOutOfRange = errors.New("date outside supported Bikram Sambat range")

// BS 2070-01-01 (Baisakh 1) fell on AD 2013-04-14.
const bsFirstYear = 2070

var adReference = time.Date(2013, time.April, 14, 0, 0, 0, 0, time.UTC)

// bsMonthDays holds the length of each month for BS years starting at bsFirstYear.
var bsMonthDays = [][12]int{
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30}, // 2070
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2071
	{31, 32, 31, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2072
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2073
	{31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30}, // 2074
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2075
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30}, // 2076
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31}, // 2077
	{31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30}, // 2078
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2079
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30}, // 2080
	{31, 31, 32, 32, 31, 30, 30, 30, 29, 30, 30, 30}, // 2081
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30}, // 2082
	{31, 31, 32, 31, 31, 30, 30, 30, 29, 30, 30, 30}, // 2083
	{31, 31, 32, 31, 31, 30, 30, 30, 29, 30, 30, 30}, // 2084
	{31, 32, 31, 32, 30, 31, 30, 30, 29, 30, 30, 30}, // 2085
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30}, // 2086
	{31, 31, 32, 31, 31, 31, 30, 30, 29, 30, 30, 30}, // 2087
	{30, 31, 32, 32, 30, 31, 30, 30, 29, 30, 30, 30}, // 2088
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30}, // 2089
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30}, // 2090
}

// ToBS converts the NPT calendar day of t to Bikram Sambat.
func ToBS(t time.Time) (BSDate, error) {
	n := t.In(NPT)
	day := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	offset := int(day.Sub(adReference).Hours() / 24)
	if offset < 0 {
		return BSDate{}, ErrBSOutOfRange
	}

	for i, months := range bsMonthDays {
		for m, days := range months {
			if offset < days {
				return BSDate{Year: bsFirstYear + i, Month: m + 1, Day: offset + 1}, nil
			}
			offset -= days
		}
	}
	return BSDate{}, ErrBSOutOfRange
}

// FormatBS returns the BS date string for t, or "" when t is out of range.
// The Gregorian timestamp stays authoritative; BS is display-only.
func FormatBS(t time.Time) string {
	d, err := ToBS(t)
	if err != nil {
		return ""
	}
	return d.String()
}
