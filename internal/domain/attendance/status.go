package attendance

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StandardWorkHours = 8.0
	HalfDayMinHours   = 4.0
	FullDayMinHours   = 8.0
)

type DayStatus string

const (
	DayStatusAbsent  DayStatus = "Absent"
	DayStatusLOP     DayStatus = "LOP"
	DayStatusHalfDay DayStatus = "Half Day"
	DayStatusFullDay DayStatus = "Full Day"
)

type OverallStatus string

const (
	OverallCheckedIn  OverallStatus = "Checked In"
	OverallCheckedOut OverallStatus = "Checked Out"
	OverallAbsent     OverallStatus = "Absent"
)

type SegmentStatus string

const (
	SegmentCompleted SegmentStatus = "Completed"
	SegmentCheckedIn SegmentStatus = "Checked In"
)

// RoundHours rounds half away from zero to two decimal places, working on the
// decimal value so 1.005 becomes 1.01 rather than 1.00.
func RoundHours(h float64) float64 {
	rounded, _ := decimal.NewFromFloat(h).Round(2).Float64()
	return rounded
}

// SegmentHours is |checkout - checkin| in hours, rounded. A checkout that
// precedes its checkin is accepted and counted by magnitude.
func SegmentHours(checkin, checkout time.Time) float64 {
	return RoundHours(math.Abs(checkout.Sub(checkin).Hours()))
}

// ElapsedHours is the running length of an open segment. Clock skew that puts
// now before checkin yields zero rather than a negative contribution.
func ElapsedHours(checkin, now time.Time) float64 {
	if now.Before(checkin) {
		return 0
	}
	return now.Sub(checkin).Hours()
}

// DayStatusFor classifies a day's worked hours. Thresholds apply to the value
// rounded to two decimals, so 3.999 counts as 4.00.
func DayStatusFor(totalHours float64) DayStatus {
	h := RoundHours(totalHours)
	switch {
	case h <= 0:
		return DayStatusAbsent
	case h < HalfDayMinHours:
		return DayStatusLOP
	case h < FullDayMinHours:
		return DayStatusHalfDay
	default:
		return DayStatusFullDay
	}
}

// Overtime is the time worked beyond the standard day, never negative.
func Overtime(totalHours float64) float64 {
	return RoundHours(math.Max(0, totalHours-StandardWorkHours))
}

// DayTotals is the aggregate of one user's segments for one civil day.
type DayTotals struct {
	TotalHours    float64
	Overtime      float64
	DayStatus     DayStatus
	OverallStatus OverallStatus
}

// Aggregate sums closed segment hours and, for every open segment, the time
// elapsed until now.
func Aggregate(segments []Segment, now time.Time) DayTotals {
	var total float64
	open := false
	for _, s := range segments {
		if s.IsOpen() {
			open = true
		}
		total += s.WorkedHours(now)
	}

	overall := OverallAbsent
	switch {
	case open:
		overall = OverallCheckedIn
	case total > 0:
		overall = OverallCheckedOut
	}

	return DayTotals{
		TotalHours:    RoundHours(total),
		Overtime:      Overtime(total),
		DayStatus:     DayStatusFor(total),
		OverallStatus: overall,
	}
}

// CurrentStatus reports the live state of a user's day from its segments.
func CurrentStatus(segments []Segment) OverallStatus {
	if len(segments) == 0 {
		return OverallAbsent
	}
	for _, s := range segments {
		if s.IsOpen() {
			return OverallCheckedIn
		}
	}
	return OverallCheckedOut
}
