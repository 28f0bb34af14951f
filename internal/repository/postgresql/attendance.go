package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/smarttrack/smarttrack-backend-go/internal/domain/attendance"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/civil"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/database"
)

const openSegmentIndex = "attendance_one_open_per_day"

// segmentColumns selects a segment with its office names joined. The row
// source must be aliased a.
const segmentColumns = `
	a.id, a.user_id, a.work_date, a.checkin_office_id, a.checkin_latitude, a.checkin_longitude, a.checkin_time,
	a.checkout_office_id, a.checkout_latitude, a.checkout_longitude, a.checkout_time, a.total_hours,
	a.status, a.created_at, ci.name, co.name
`

const segmentJoins = `
	LEFT JOIN offices ci ON ci.id = a.checkin_office_id
	LEFT JOIN offices co ON co.id = a.checkout_office_id
`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanSegment(row pgx.Row) (attendance.Segment, error) {
	var s attendance.Segment
	var workDate time.Time
	err := row.Scan(
		&s.ID, &s.UserID, &workDate, &s.CheckinOfficeID, &s.CheckinLatitude, &s.CheckinLongitude, &s.CheckinTime,
		&s.CheckoutOfficeID, &s.CheckoutLatitude, &s.CheckoutLongitude, &s.CheckoutTime, &s.TotalHours,
		&s.Status, &s.CreatedAt, &s.CheckinOfficeName, &s.CheckoutOfficeName,
	)
	if err != nil {
		return attendance.Segment{}, err
	}
	s.WorkDate = civil.DateOf(workDate)
	return s, nil
}

func collectSegments(rows pgx.Rows) ([]attendance.Segment, error) {
	defer rows.Close()

	segments := make([]attendance.Segment, 0)
	for rows.Next() {
		s, err := scanSegment(rows)
		if err != nil {
			return nil, err
		}
		segments = append(segments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return segments, nil
}

// FindOpenSegment implements attendance.AttendanceRepository.
func (r *attendanceRepository) FindOpenSegment(ctx context.Context, userID string, window civil.Window) (*attendance.Segment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + segmentColumns + `
		FROM attendance a` + segmentJoins + `
		WHERE a.user_id = $1
		  AND a.checkout_time IS NULL
		  AND a.checkin_time >= $2
		  AND a.checkin_time <= $3
		ORDER BY a.checkin_time DESC
		LIMIT 1
	`

	s, err := scanSegment(q.QueryRow(ctx, query, userID, window.Start, window.End))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find open segment: %w", err)
	}
	return &s, nil
}

// InsertSegment implements attendance.AttendanceRepository.
func (r *attendanceRepository) InsertSegment(ctx context.Context, segment attendance.Segment) (attendance.Segment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH a AS (
			INSERT INTO attendance (
				user_id, work_date, checkin_office_id, checkin_latitude, checkin_longitude, checkin_time, status
			) VALUES (
				$1, $2::date, $3, $4, $5, $6, $7
			) RETURNING *
		)
		SELECT ` + segmentColumns + ` FROM a` + segmentJoins

	created, err := scanSegment(q.QueryRow(ctx, query,
		segment.UserID,
		segment.WorkDate.String(),
		segment.CheckinOfficeID,
		segment.CheckinLatitude,
		segment.CheckinLongitude,
		segment.CheckinTime,
		segment.Status,
	))
	if err != nil {
		if database.IsUniqueViolation(err, openSegmentIndex) {
			return attendance.Segment{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Segment{}, fmt.Errorf("failed to insert segment: %w", err)
	}
	return created, nil
}

// CloseSegment implements attendance.AttendanceRepository.
func (r *attendanceRepository) CloseSegment(ctx context.Context, id string, closing attendance.CloseSegment) (attendance.Segment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH a AS (
			UPDATE attendance
			SET checkout_office_id = $2,
				checkout_latitude = $3,
				checkout_longitude = $4,
				checkout_time = $5,
				total_hours = $6
			WHERE id = $1
			  AND checkout_time IS NULL
			RETURNING *
		)
		SELECT ` + segmentColumns + ` FROM a` + segmentJoins

	updated, err := scanSegment(q.QueryRow(ctx, query,
		id,
		closing.OfficeID,
		closing.Latitude,
		closing.Longitude,
		closing.CheckoutTime,
		closing.TotalHours,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Segment{}, attendance.ErrNoOpenSession
		}
		return attendance.Segment{}, fmt.Errorf("failed to close segment: %w", err)
	}
	return updated, nil
}

// ListSegmentsInWindow implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListSegmentsInWindow(ctx context.Context, userID string, window civil.Window) ([]attendance.Segment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + segmentColumns + `
		FROM attendance a` + segmentJoins + `
		WHERE a.user_id = $1
		  AND a.checkin_time >= $2
		  AND a.checkin_time <= $3
		ORDER BY a.checkin_time ASC, a.id ASC
	`

	rows, err := q.Query(ctx, query, userID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	segments, err := collectSegments(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan segments: %w", err)
	}
	return segments, nil
}

// ListAllSegmentsInWindow implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListAllSegmentsInWindow(ctx context.Context, window civil.Window) ([]attendance.Segment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + segmentColumns + `
		FROM attendance a` + segmentJoins + `
		WHERE a.checkin_time >= $1
		  AND a.checkin_time <= $2
		ORDER BY a.checkin_time ASC, a.id ASC
	`

	rows, err := q.Query(ctx, query, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	segments, err := collectSegments(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan segments: %w", err)
	}
	return segments, nil
}

// ListOpenSegmentsBefore implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListOpenSegmentsBefore(ctx context.Context, before time.Time) ([]attendance.Segment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + segmentColumns + `
		FROM attendance a` + segmentJoins + `
		WHERE a.checkout_time IS NULL
		  AND a.checkin_time < $1
		ORDER BY a.checkin_time ASC
	`

	rows, err := q.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list open segments: %w", err)
	}
	segments, err := collectSegments(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan segments: %w", err)
	}
	return segments, nil
}
