package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/smarttrack/smarttrack-backend-go/internal/domain/attendance"
	"github.com/smarttrack/smarttrack-backend-go/internal/domain/office"
	"github.com/smarttrack/smarttrack-backend-go/internal/domain/user"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/civil"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/lock"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/validator"
	"github.com/smarttrack/smarttrack-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	hqPoint    = [2]float64{12.9716, 77.5946}
	annexPoint = [2]float64{12.9352, 77.6245}
	farPoint   = [2]float64{13.0616, 77.5946} // ~10km north of HQ
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type noopLocker struct{}

func (noopLocker) Lock(ctx context.Context, key string) (lock.Unlock, error) {
	return func() {}, nil
}

type attendanceFixture struct {
	svc      attendance.AttendanceService
	repo     *memory.AttendanceRepository
	users    *memory.UserRepository
	clock    *testClock
	hq       office.Office
	annex    office.Office
	employee user.User
}

func strPtr(s string) *string { return &s }

func coords(p [2]float64) attendance.CoordinatesRequest {
	lat, lng := p[0], p[1]
	return attendance.CoordinatesRequest{Latitude: &lat, Longitude: &lng}
}

// attendanceTestInit starts the clock at 09:00 IST on 2024-03-15.
func attendanceTestInit(t *testing.T, locker lock.Locker) *attendanceFixture {
	t.Helper()
	offices := memory.NewOfficeRepository()
	hq := offices.Add(office.Office{Name: "HQ", Latitude: hqPoint[0], Longitude: hqPoint[1], Radius: 150})
	annex := offices.Add(office.Office{Name: "Annex", Latitude: annexPoint[0], Longitude: annexPoint[1], Radius: 200})

	users := memory.NewUserRepository()
	employee := users.Add(user.User{EmployeeID: strPtr("EMP-001"), Name: "Ravi", Email: "ravi@example.com", Role: user.RoleEmployee})

	repo := memory.NewAttendanceRepository(offices)
	clock := &testClock{now: time.Date(2024, 3, 15, 9, 0, 0, 0, civil.IST)}
	svc := NewAttendanceService(repo, offices, users, locker, civil.IST, WithClock(clock.Now))

	return &attendanceFixture{
		svc: svc, repo: repo, users: users, clock: clock,
		hq: hq, annex: annex, employee: employee,
	}
}

func TestAttendanceService_SingleSegmentFullDay(t *testing.T) {
	ctx := context.Background()
	f := attendanceTestInit(t, lock.NewKeyedMutex())

	in, err := f.svc.CheckIn(ctx, f.employee.ID, coords(hqPoint))
	require.NoError(t, err)
	assert.Equal(t, f.hq.ID, in.Attendance.CheckinOfficeID)
	assert.Equal(t, attendance.StatusPresent, in.Attendance.Status)
	assert.Nil(t, in.Attendance.CheckoutTime)
	assert.Nil(t, in.Attendance.TotalHours)

	status, err := f.svc.Status(ctx, f.employee.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.OverallCheckedIn, status.Status)

	f.clock.Advance(8*time.Hour + 30*time.Minute)

	out, err := f.svc.CheckOut(ctx, f.employee.ID, coords(hqPoint))
	require.NoError(t, err)
	require.NotNil(t, out.Attendance.TotalHours)
	assert.Equal(t, 8.5, *out.Attendance.TotalHours)
	require.NotNil(t, out.Attendance.CheckoutOfficeID)
	assert.Equal(t, f.hq.ID, *out.Attendance.CheckoutOfficeID)
	assert.Equal(t, attendance.StatusPresent, out.Attendance.Status)

	logs, err := f.svc.Logs(ctx, f.employee.ID, "2024-03-15")
	require.NoError(t, err)
	require.Len(t, logs.Logs, 1)
	assert.Equal(t, attendance.SegmentCompleted, logs.Logs[0].Status)
	assert.Equal(t, "HQ", logs.Logs[0].CheckinOfficeName)
	assert.Equal(t, "HQ", logs.Logs[0].CheckoutOfficeName)
	assert.Equal(t, attendance.DaySummary{
		TotalHoursSum:    8.5,
		TotalOvertimeSum: 0.5,
		Date:             "2024-03-15",
		DayStatus:        attendance.DayStatusFullDay,
		OverallStatus:    attendance.OverallCheckedOut,
	}, logs.Summary)

	status, err = f.svc.Status(ctx, f.employee.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.OverallCheckedOut, status.Status)
}

func TestAttendanceService_MultiSegmentHalfDay(t *testing.T) {
	ctx := context.Background()
	f := attendanceTestInit(t, lock.NewKeyedMutex())

	_, err := f.svc.CheckIn(ctx, f.employee.ID, coords(hqPoint))
	require.NoError(t, err)
	f.clock.Advance(2 * time.Hour)
	_, err = f.svc.CheckOut(ctx, f.employee.ID, coords(hqPoint))
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	_, err = f.svc.CheckIn(ctx, f.employee.ID, coords(annexPoint))
	require.NoError(t, err)
	f.clock.Advance(3*time.Hour + 30*time.Minute)
	out, err := f.svc.CheckOut(ctx, f.employee.ID, coords(hqPoint))
	require.NoError(t, err)
	assert.Equal(t, f.annex.ID, out.Attendance.CheckinOfficeID)
	assert.Equal(t, f.hq.ID, *out.Attendance.CheckoutOfficeID)

	logs, err := f.svc.Logs(ctx, f.employee.ID, "2024-03-15")
	require.NoError(t, err)
	require.Len(t, logs.Logs, 2)
	assert.Equal(t, "Annex", logs.Logs[1].CheckinOfficeName)
	assert.Equal(t, "HQ", logs.Logs[1].CheckoutOfficeName)
	assert.Equal(t, 5.5, logs.Summary.TotalHoursSum)
	assert.Equal(t, attendance.DayStatusHalfDay, logs.Summary.DayStatus)
	assert.Equal(t, 0.0, logs.Summary.TotalOvertimeSum)
}

func TestAttendanceService_RejectedOutsideGeofence(t *testing.T) {
	ctx := context.Background()
	f := attendanceTestInit(t, lock.NewKeyedMutex())

	_, err := f.svc.CheckIn(ctx, f.employee.ID, coords(farPoint))
	assert.ErrorIs(t, err, attendance.ErrOutsideGeofence)
	assert.Equal(t, 0, f.repo.OpenCount(f.employee.ID))

	status, err := f.svc.Status(ctx, f.employee.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.OverallAbsent, status.Status)
}

func TestAttendanceService_CheckOutOutsideGeofenceKeepsSegmentOpen(t *testing.T) {
	ctx := context.Background()
	f := attendanceTestInit(t, lock.NewKeyedMutex())

	_, err := f.svc.CheckIn(ctx, f.employee.ID, coords(hqPoint))
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	_, err = f.svc.CheckOut(ctx, f.employee.ID, coords(farPoint))
	assert.ErrorIs(t, err, attendance.ErrOutsideGeofence)
	assert.Equal(t, 1, f.repo.OpenCount(f.employee.ID))
}

func TestAttendanceService_DoubleCheckIn(t *testing.T) {
	ctx := context.Background()
	f := attendanceTestInit(t, lock.NewKeyedMutex())

	_, err := f.svc.CheckIn(ctx, f.employee.ID, coords(hqPoint))
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	_, err = f.svc.CheckIn(ctx, f.employee.ID, coords(hqPoint))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.Equal(t, 1, f.repo.OpenCount(f.employee.ID))
}

func TestAttendanceService_CheckOutWithoutOpenSession(t *testing.T) {
	ctx := context.Background()
	f := attendanceTestInit(t, lock.NewKeyedMutex())

	_, err := f.svc.CheckOut(ctx, f.employee.ID, coords(hqPoint))
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestAttendanceService_OpenSegmentFromYesterdayIsNotToday(t *testing.T) {
	ctx := context.Background()
	f := attendanceTestInit(t, lock.NewKeyedMutex())

	_, err := f.svc.CheckIn(ctx, f.employee.ID, coords(hqPoint))
	require.NoError(t, err)

	f.clock.Advance(24 * time.Hour)

	_, err = f.svc.CheckOut(ctx, f.employee.ID, coords(hqPoint))
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)

	_, err = f.svc.CheckIn(ctx, f.employee.ID, coords(hqPoint))
	assert.NoError(t, err)
}

func TestAttendanceService_InvalidCoordinates(t *testing.T) {
	ctx := context.Background()
	f := attendanceTestInit(t, lock.NewKeyedMutex())

	_, err := f.svc.CheckIn(ctx, f.employee.ID, attendance.CoordinatesRequest{})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "latitude")

	_, err = f.svc.CheckOut(ctx, f.employee.ID, coords([2]float64{100, 0}))
	require.True(t, errors.As(err, &verrs))
}

func TestAttendanceService_StatusIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := attendanceTestInit(t, lock.NewKeyedMutex())

	_, err := f.svc.CheckIn(ctx, f.employee.ID, coords(hqPoint))
	require.NoError(t, err)

	first, err := f.svc.Status(ctx, f.employee.ID)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		f.clock.Advance(time.Minute)
		again, err := f.svc.Status(ctx, f.employee.ID)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestAttendanceService_LogsIncludeRunningSegment(t *testing.T) {
	ctx := context.Background()
	f := attendanceTestInit(t, lock.NewKeyedMutex())

	_, err := f.svc.CheckIn(ctx, f.employee.ID, coords(hqPoint))
	require.NoError(t, err)
	f.clock.Advance(4*time.Hour + 15*time.Minute)

	logs, err := f.svc.Logs(ctx, f.employee.ID, "2024-03-15")
	require.NoError(t, err)
	require.Len(t, logs.Logs, 1)
	assert.Equal(t, attendance.SegmentCheckedIn, logs.Logs[0].Status)
	assert.Equal(t, "In Session", logs.Logs[0].CheckoutOfficeName)
	assert.Nil(t, logs.Logs[0].TotalHours)
	assert.Equal(t, 4.25, logs.Summary.TotalHoursSum)
	assert.Equal(t, attendance.DayStatusHalfDay, logs.Summary.DayStatus)
	assert.Equal(t, attendance.OverallCheckedIn, logs.Summary.OverallStatus)
}

func TestAttendanceService_LogsValidation(t *testing.T) {
	ctx := context.Background()
	f := attendanceTestInit(t, lock.NewKeyedMutex())

	var verrs validator.ValidationErrors
	_, err := f.svc.Logs(ctx, f.employee.ID, "")
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "date query parameter is required", verrs.ToMap()["date"])

	_, err = f.svc.Logs(ctx, f.employee.ID, "15-03-2024")
	require.True(t, errors.As(err, &verrs))

	empty, err := f.svc.Logs(ctx, f.employee.ID, "2024-03-14")
	require.NoError(t, err)
	assert.Empty(t, empty.Logs)
	assert.Equal(t, attendance.DayStatusAbsent, empty.Summary.DayStatus)
	assert.Equal(t, attendance.OverallAbsent, empty.Summary.OverallStatus)
}

func TestAttendanceService_ConcurrentCheckIn(t *testing.T) {
	lockers := map[string]lock.Locker{
		"keyed mutex":            lock.NewKeyedMutex(),
		"store constraint alone": noopLocker{},
	}
	for name, locker := range lockers {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := attendanceTestInit(t, locker)

			const n = 25
			var wg sync.WaitGroup
			var mu sync.Mutex
			succeeded, rejected := 0, 0

			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := f.svc.CheckIn(ctx, f.employee.ID, coords(hqPoint))
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						succeeded++
					case errors.Is(err, attendance.ErrAlreadyCheckedIn):
						rejected++
					default:
						t.Errorf("unexpected error: %v", err)
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, succeeded)
			assert.Equal(t, n-1, rejected)
			assert.Equal(t, 1, f.repo.OpenCount(f.employee.ID))
		})
	}
}

func TestAttendanceService_Roster(t *testing.T) {
	ctx := context.Background()
	f := attendanceTestInit(t, lock.NewKeyedMutex())

	anita := f.users.Add(user.User{Name: "anita", Email: "anita@example.com", Role: user.RoleEmployee})
	zoya := f.users.Add(user.User{Name: "Zoya", Email: "zoya@example.com", Role: user.RoleEmployee})
	f.users.Add(user.User{Name: "Harini", Email: "hr@example.com", Role: user.RoleHR})

	// Ravi: 09:00-11:00 at HQ, then 12:00 still open at Annex
	_, err := f.svc.CheckIn(ctx, f.employee.ID, coords(hqPoint))
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, zoya.ID, coords(hqPoint))
	require.NoError(t, err)
	f.clock.Advance(2 * time.Hour)
	_, err = f.svc.CheckOut(ctx, f.employee.ID, coords(hqPoint))
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.svc.CheckIn(ctx, f.employee.ID, coords(annexPoint))
	require.NoError(t, err)
	f.clock.Advance(3 * time.Hour)
	// Zoya: 09:00-15:00 at HQ
	_, err = f.svc.CheckOut(ctx, zoya.ID, coords(hqPoint))
	require.NoError(t, err)

	roster, err := f.svc.Roster(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", roster.Date)
	require.Len(t, roster.Report, 3)

	assert.Equal(t, []string{"anita", "Ravi", "Zoya"}, []string{
		roster.Report[0].Name, roster.Report[1].Name, roster.Report[2].Name,
	})

	absent := roster.Report[0]
	assert.Equal(t, anita.ID, absent.UserID)
	assert.Equal(t, 0.0, absent.TotalHoursToday)
	assert.Equal(t, attendance.OverallAbsent, absent.OverallStatus)
	assert.Equal(t, attendance.DayStatusAbsent, absent.DayStatus)
	assert.Nil(t, absent.CheckinOffice)
	assert.Nil(t, absent.CheckoutOffice)

	ravi := roster.Report[1]
	assert.Equal(t, "EMP-001", *ravi.EmployeeID)
	assert.Equal(t, 5.0, ravi.TotalHoursToday)
	assert.Equal(t, attendance.OverallCheckedIn, ravi.OverallStatus)
	assert.Equal(t, attendance.DayStatusHalfDay, ravi.DayStatus)
	require.NotNil(t, ravi.CheckinOffice)
	assert.Equal(t, "Annex", *ravi.CheckinOffice)
	assert.Nil(t, ravi.CheckoutOffice)

	z := roster.Report[2]
	assert.Equal(t, 6.0, z.TotalHoursToday)
	assert.Equal(t, attendance.OverallCheckedOut, z.OverallStatus)
	assert.Equal(t, "HQ", *z.CheckoutOffice)

	explicit, err := f.svc.Roster(ctx, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, roster, explicit)
}

func TestAttendanceService_RosterPastDayIgnoresElapsed(t *testing.T) {
	ctx := context.Background()
	f := attendanceTestInit(t, lock.NewKeyedMutex())

	_, err := f.svc.CheckIn(ctx, f.employee.ID, coords(hqPoint))
	require.NoError(t, err)
	f.clock.Advance(24 * time.Hour)

	roster, err := f.svc.Roster(ctx, "2024-03-15")
	require.NoError(t, err)
	require.Len(t, roster.Report, 1)
	assert.Equal(t, attendance.OverallCheckedIn, roster.Report[0].OverallStatus)
	assert.Equal(t, 0.0, roster.Report[0].TotalHoursToday)
	assert.Equal(t, attendance.DayStatusAbsent, roster.Report[0].DayStatus)

	today, err := f.svc.Roster(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-16", today.Date)
	assert.Equal(t, attendance.OverallAbsent, today.Report[0].OverallStatus)

	_, err = f.svc.Roster(ctx, "yesterday")
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}
