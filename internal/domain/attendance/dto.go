package attendance

import (
	"time"

	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/civil"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/validator"
)

// ========================================
// REQUESTS
// ========================================

type CoordinatesRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *CoordinatesRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude is required",
		})
	} else if !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude is required",
		})
	} else if !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ParseDateParam parses a YYYY-MM-DD query value. An empty value is an error
// only when required is set; otherwise ok is false.
func ParseDateParam(value string, required bool) (date civil.Date, ok bool, err error) {
	if validator.IsEmpty(value) {
		if required {
			return civil.Date{}, false, validator.ValidationErrors{{
				Field:   "date",
				Message: "date query parameter is required",
			}}
		}
		return civil.Date{}, false, nil
	}

	date, err = civil.ParseDate(value)
	if err != nil {
		return civil.Date{}, false, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return date, true, nil
}

// ========================================
// RESPONSES
// ========================================

type SegmentResponse struct {
	ID                string   `json:"id"`
	UserID            string   `json:"user_id"`
	CheckinOfficeID   string   `json:"checkin_office_id"`
	CheckinOffice     *string  `json:"checkin_office_name,omitempty"`
	CheckinLatitude   float64  `json:"checkin_latitude"`
	CheckinLongitude  float64  `json:"checkin_longitude"`
	CheckinTime       string   `json:"checkin_time"`
	CheckoutOfficeID  *string  `json:"checkout_office_id"`
	CheckoutOffice    *string  `json:"checkout_office_name,omitempty"`
	CheckoutLatitude  *float64 `json:"checkout_latitude"`
	CheckoutLongitude *float64 `json:"checkout_longitude"`
	CheckoutTime      *string  `json:"checkout_time"`
	TotalHours        *float64 `json:"total_hours"`
	Status            string   `json:"status"`
}

type CheckResponse struct {
	Attendance SegmentResponse `json:"attendance"`
}

type StatusResponse struct {
	Status OverallStatus `json:"status"`
}

type LogEntry struct {
	ID                 string        `json:"id"`
	CheckInTimeIST     string        `json:"check_in_time_ist"`
	CheckOutTimeIST    *string       `json:"check_out_time_ist"`
	Status             SegmentStatus `json:"status"`
	TotalHours         *float64      `json:"total_hours"`
	CheckinOfficeName  string        `json:"checkin_office_name"`
	CheckoutOfficeName string        `json:"checkout_office_name"`
}

type DaySummary struct {
	TotalHoursSum    float64       `json:"total_hours_sum"`
	TotalOvertimeSum float64       `json:"total_overtime_sum"`
	Date             string        `json:"date"`
	DayStatus        DayStatus     `json:"day_status"`
	OverallStatus    OverallStatus `json:"overall_status"`
}

type LogsResponse struct {
	Logs    []LogEntry `json:"logs"`
	Summary DaySummary `json:"summary"`
}

type RosterRow struct {
	UserID          string        `json:"user_id"`
	EmployeeID      *string       `json:"employee_id"`
	Name            string        `json:"name"`
	Email           string        `json:"email"`
	TotalHoursToday float64       `json:"total_hours_today"`
	OverallStatus   OverallStatus `json:"overall_status"`
	DayStatus       DayStatus     `json:"day_status"`
	CheckinOffice   *string       `json:"checkin_office"`
	CheckoutOffice  *string       `json:"checkout_office"`
}

type RosterResponse struct {
	Date   string      `json:"date"`
	Report []RosterRow `json:"report"`
}

const (
	unknownOffice = "Unknown"
	inSession     = "In Session"
)

// ToSegmentResponse renders s with timestamps in loc.
func ToSegmentResponse(s Segment, loc *time.Location) SegmentResponse {
	resp := SegmentResponse{
		ID:                s.ID,
		UserID:            s.UserID,
		CheckinOfficeID:   s.CheckinOfficeID,
		CheckinOffice:     s.CheckinOfficeName,
		CheckinLatitude:   s.CheckinLatitude,
		CheckinLongitude:  s.CheckinLongitude,
		CheckinTime:       civil.Format(s.CheckinTime, loc),
		CheckoutOfficeID:  s.CheckoutOfficeID,
		CheckoutOffice:    s.CheckoutOfficeName,
		CheckoutLatitude:  s.CheckoutLatitude,
		CheckoutLongitude: s.CheckoutLongitude,
		TotalHours:        s.TotalHours,
		Status:            s.Status,
	}
	if s.CheckoutTime != nil {
		out := civil.Format(*s.CheckoutTime, loc)
		resp.CheckoutTime = &out
	}
	return resp
}

// ToLogEntry renders s as one row of a day's log.
func ToLogEntry(s Segment, loc *time.Location) LogEntry {
	entry := LogEntry{
		ID:                 s.ID,
		CheckInTimeIST:     civil.Format(s.CheckinTime, loc),
		Status:             SegmentCompleted,
		TotalHours:         s.TotalHours,
		CheckinOfficeName:  unknownOffice,
		CheckoutOfficeName: unknownOffice,
	}
	if s.CheckinOfficeName != nil {
		entry.CheckinOfficeName = *s.CheckinOfficeName
	}
	if s.CheckoutOfficeName != nil {
		entry.CheckoutOfficeName = *s.CheckoutOfficeName
	}
	if s.IsOpen() {
		entry.Status = SegmentCheckedIn
		entry.CheckoutOfficeName = inSession
	} else {
		out := civil.Format(*s.CheckoutTime, loc)
		entry.CheckOutTimeIST = &out
	}
	return entry
}
