package attendance

import (
	"time"

	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/civil"
)

const StatusPresent = "present"

// Segment is one check-in/check-out pair. Checkout fields stay nil while the
// segment is open and are written exactly once when it closes.
type Segment struct {
	ID               string
	UserID           string
	WorkDate         civil.Date
	CheckinOfficeID  string
	CheckinLatitude  float64
	CheckinLongitude float64
	CheckinTime      time.Time

	CheckoutOfficeID  *string
	CheckoutLatitude  *float64
	CheckoutLongitude *float64
	CheckoutTime      *time.Time
	TotalHours        *float64

	Status    string
	CreatedAt time.Time

	// DTO / Join
	CheckinOfficeName  *string
	CheckoutOfficeName *string
}

func (s Segment) IsOpen() bool {
	return s.CheckoutTime == nil
}

// WorkedHours returns the recorded hours of a closed segment or the unrounded
// hours elapsed until now for an open one.
func (s Segment) WorkedHours(now time.Time) float64 {
	if !s.IsOpen() {
		if s.TotalHours == nil {
			return 0
		}
		return *s.TotalHours
	}
	return ElapsedHours(s.CheckinTime, now)
}

// CloseSegment carries the fields written when a segment is checked out.
type CloseSegment struct {
	OfficeID     string
	Latitude     float64
	Longitude    float64
	CheckoutTime time.Time
	TotalHours   float64
}
