package attendance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/smarttrack/smarttrack-backend-go/internal/domain/attendance"
	"github.com/smarttrack/smarttrack-backend-go/internal/domain/office"
	"github.com/smarttrack/smarttrack-backend-go/internal/domain/user"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/civil"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/geo"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/lock"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	office.OfficeRepository
	user.UserRepository
	locker lock.Locker
	loc    *time.Location
	now    func() time.Time
}

type Option func(*AttendanceServiceImpl)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *AttendanceServiceImpl) {
		s.now = now
	}
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	officeRepo office.OfficeRepository,
	userRepo user.UserRepository,
	locker lock.Locker,
	loc *time.Location,
	opts ...Option,
) attendance.AttendanceService {
	s := &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		OfficeRepository:     officeRepo,
		UserRepository:       userRepo,
		locker:               locker,
		loc:                  loc,
		now:                  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func lockKey(userID string) string {
	return "attendance:" + userID
}

// today returns the current instant and the civil window that contains it.
func (s *AttendanceServiceImpl) today() (time.Time, civil.Date, civil.Window) {
	now := s.now().UTC()
	date := civil.Today(now, s.loc)
	return now, date, civil.DayWindow(date, s.loc)
}

// locate resolves point against the current office list.
func (s *AttendanceServiceImpl) locate(ctx context.Context, point geo.Point) (office.Office, error) {
	offices, err := s.OfficeRepository.List(ctx)
	if err != nil {
		return office.Office{}, fmt.Errorf("failed to list offices: %w", err)
	}
	matched, ok := geo.Locate(point, offices)
	if !ok {
		return office.Office{}, attendance.ErrOutsideGeofence
	}
	return matched, nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, userID string, req attendance.CoordinatesRequest) (attendance.CheckResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckResponse{}, err
	}

	unlock, err := s.locker.Lock(ctx, lockKey(userID))
	if err != nil {
		return attendance.CheckResponse{}, fmt.Errorf("failed to lock attendance: %w", err)
	}
	defer unlock()

	now, date, window := s.today()

	open, err := s.FindOpenSegment(ctx, userID, window)
	if err != nil {
		return attendance.CheckResponse{}, fmt.Errorf("failed to find open segment: %w", err)
	}
	if open != nil {
		return attendance.CheckResponse{}, attendance.ErrAlreadyCheckedIn
	}

	point := geo.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}
	matched, err := s.locate(ctx, point)
	if err != nil {
		return attendance.CheckResponse{}, err
	}

	created, err := s.InsertSegment(ctx, attendance.Segment{
		UserID:           userID,
		WorkDate:         date,
		CheckinOfficeID:  matched.ID,
		CheckinLatitude:  point.Latitude,
		CheckinLongitude: point.Longitude,
		CheckinTime:      now,
		Status:           attendance.StatusPresent,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.CheckResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.CheckResponse{}, fmt.Errorf("failed to create segment: %w", err)
	}

	return attendance.CheckResponse{Attendance: attendance.ToSegmentResponse(created, s.loc)}, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, userID string, req attendance.CoordinatesRequest) (attendance.CheckResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckResponse{}, err
	}

	unlock, err := s.locker.Lock(ctx, lockKey(userID))
	if err != nil {
		return attendance.CheckResponse{}, fmt.Errorf("failed to lock attendance: %w", err)
	}
	defer unlock()

	now, _, window := s.today()

	open, err := s.FindOpenSegment(ctx, userID, window)
	if err != nil {
		return attendance.CheckResponse{}, fmt.Errorf("failed to find open segment: %w", err)
	}
	if open == nil {
		return attendance.CheckResponse{}, attendance.ErrNoOpenSession
	}

	// the checkout office is resolved on its own and may differ from checkin
	point := geo.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}
	matched, err := s.locate(ctx, point)
	if err != nil {
		return attendance.CheckResponse{}, err
	}

	closed, err := s.CloseSegment(ctx, open.ID, attendance.CloseSegment{
		OfficeID:     matched.ID,
		Latitude:     point.Latitude,
		Longitude:    point.Longitude,
		CheckoutTime: now,
		TotalHours:   attendance.SegmentHours(open.CheckinTime, now),
	})
	if err != nil {
		if errors.Is(err, attendance.ErrNoOpenSession) {
			return attendance.CheckResponse{}, attendance.ErrNoOpenSession
		}
		return attendance.CheckResponse{}, fmt.Errorf("failed to close segment: %w", err)
	}

	return attendance.CheckResponse{Attendance: attendance.ToSegmentResponse(closed, s.loc)}, nil
}

// Status implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Status(ctx context.Context, userID string) (attendance.StatusResponse, error) {
	_, _, window := s.today()

	segments, err := s.ListSegmentsInWindow(ctx, userID, window)
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to list segments: %w", err)
	}

	return attendance.StatusResponse{Status: attendance.CurrentStatus(segments)}, nil
}

// Logs implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Logs(ctx context.Context, userID string, date string) (attendance.LogsResponse, error) {
	day, _, err := attendance.ParseDateParam(date, true)
	if err != nil {
		return attendance.LogsResponse{}, err
	}

	segments, err := s.ListSegmentsInWindow(ctx, userID, civil.DayWindow(day, s.loc))
	if err != nil {
		return attendance.LogsResponse{}, fmt.Errorf("failed to list segments: %w", err)
	}

	logs := make([]attendance.LogEntry, 0, len(segments))
	for _, seg := range segments {
		logs = append(logs, attendance.ToLogEntry(seg, s.loc))
	}

	totals := attendance.Aggregate(segments, s.now().UTC())

	return attendance.LogsResponse{
		Logs: logs,
		Summary: attendance.DaySummary{
			TotalHoursSum:    totals.TotalHours,
			TotalOvertimeSum: totals.Overtime,
			Date:             day.String(),
			DayStatus:        totals.DayStatus,
			OverallStatus:    totals.OverallStatus,
		},
	}, nil
}

// Roster implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Roster(ctx context.Context, date string) (attendance.RosterResponse, error) {
	now, today, _ := s.today()

	day, ok, err := attendance.ParseDateParam(date, false)
	if err != nil {
		return attendance.RosterResponse{}, err
	}
	if !ok {
		day = today
	}
	isToday := day.Equal(today)

	employees, err := s.ListByRole(ctx, user.RoleEmployee)
	if err != nil {
		return attendance.RosterResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	segments, err := s.ListAllSegmentsInWindow(ctx, civil.DayWindow(day, s.loc))
	if err != nil {
		return attendance.RosterResponse{}, fmt.Errorf("failed to list segments: %w", err)
	}

	byUser := make(map[string][]attendance.Segment)
	for _, seg := range segments {
		byUser[seg.UserID] = append(byUser[seg.UserID], seg)
	}

	report := make([]attendance.RosterRow, 0, len(employees))
	for _, emp := range employees {
		report = append(report, rosterRow(emp, byUser[emp.ID], now, isToday))
	}

	sort.SliceStable(report, func(i, j int) bool {
		a, b := strings.ToLower(report[i].Name), strings.ToLower(report[j].Name)
		if a == b {
			return report[i].UserID < report[j].UserID
		}
		return a < b
	})

	return attendance.RosterResponse{Date: day.String(), Report: report}, nil
}

// rosterRow sums every segment's recorded hours but takes the live status and
// offices from the latest-starting segment. Elapsed time of an open latest
// segment counts only on the current day.
func rosterRow(u user.User, segments []attendance.Segment, now time.Time, isToday bool) attendance.RosterRow {
	row := attendance.RosterRow{
		UserID:        u.ID,
		EmployeeID:    u.EmployeeID,
		Name:          u.Name,
		Email:         u.Email,
		OverallStatus: attendance.OverallAbsent,
		DayStatus:     attendance.DayStatusAbsent,
	}
	if len(segments) == 0 {
		return row
	}

	latest := segments[0]
	var total float64
	for _, seg := range segments {
		if seg.TotalHours != nil {
			total += *seg.TotalHours
		}
		if seg.CheckinTime.After(latest.CheckinTime) {
			latest = seg
		}
	}

	row.OverallStatus = attendance.OverallCheckedOut
	if latest.IsOpen() {
		row.OverallStatus = attendance.OverallCheckedIn
		if isToday {
			total += attendance.ElapsedHours(latest.CheckinTime, now)
		}
	}

	row.TotalHoursToday = attendance.RoundHours(total)
	row.DayStatus = attendance.DayStatusFor(total)
	row.CheckinOffice = latest.CheckinOfficeName
	row.CheckoutOffice = latest.CheckoutOfficeName
	return row
}
