package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/smarttrack/smarttrack-backend-go/internal/domain/attendance"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/civil"
)

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	loc            *time.Location
	interval       time.Duration
	now            func() time.Time
}

func NewAttendanceJobs(attendanceRepo attendance.AttendanceRepository, loc *time.Location, interval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		loc:            loc,
		interval:       interval,
		now:            time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("report_stale_open_segments", j.interval, j.ReportStaleOpenSegments)
}

// StaleOpenSegments lists segments that were never checked out and started
// before the current civil day. Check-out only looks at today's window, so
// these can no longer be closed through the API.
func (j *AttendanceJobs) StaleOpenSegments(ctx context.Context) ([]attendance.Segment, error) {
	today := civil.Today(j.now(), j.loc)
	start := civil.DayWindow(today, j.loc).Start

	stale, err := j.attendanceRepo.ListOpenSegmentsBefore(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale segments: %w", err)
	}
	return stale, nil
}

// ReportStaleOpenSegments logs stale segments. It never closes them because a
// checkout needs coordinates.
func (j *AttendanceJobs) ReportStaleOpenSegments(ctx context.Context) error {
	stale, err := j.StaleOpenSegments(ctx)
	if err != nil {
		return err
	}

	if len(stale) == 0 {
		slog.Debug("Cron: No stale open segments found")
		return nil
	}

	for _, seg := range stale {
		slog.Warn("Cron: open segment left from a previous day",
			"user_id", seg.UserID,
			"segment_id", seg.ID,
			"work_date", seg.WorkDate.String(),
			"checkin_time", civil.Format(seg.CheckinTime, j.loc),
		)
	}
	slog.Info("Cron: stale open segments reported", "count", len(stale))
	return nil
}
