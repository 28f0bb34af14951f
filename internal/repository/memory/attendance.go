// Package memory holds map-backed repositories with the same contracts as the
// Postgres ones, including the one-open-segment-per-day constraint.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smarttrack/smarttrack-backend-go/internal/domain/attendance"
	"github.com/smarttrack/smarttrack-backend-go/internal/domain/office"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/civil"
)

type openKey struct {
	userID string
	date   civil.Date
}

type AttendanceRepository struct {
	mu       sync.RWMutex
	segments map[string]attendance.Segment
	open     map[openKey]string
	offices  office.OfficeRepository
}

// NewAttendanceRepository resolves office names through offices, which may be nil.
func NewAttendanceRepository(offices office.OfficeRepository) *AttendanceRepository {
	return &AttendanceRepository{
		segments: make(map[string]attendance.Segment),
		open:     make(map[openKey]string),
		offices:  offices,
	}
}

func (r *AttendanceRepository) withOfficeNames(ctx context.Context, segments []attendance.Segment) ([]attendance.Segment, error) {
	if r.offices == nil || len(segments) == 0 {
		return segments, nil
	}
	offices, err := r.offices.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(offices))
	for _, o := range offices {
		names[o.ID] = o.Name
	}
	for i := range segments {
		if name, ok := names[segments[i].CheckinOfficeID]; ok {
			segments[i].CheckinOfficeName = &name
		}
		if segments[i].CheckoutOfficeID != nil {
			if name, ok := names[*segments[i].CheckoutOfficeID]; ok {
				segments[i].CheckoutOfficeName = &name
			}
		}
	}
	return segments, nil
}

func (r *AttendanceRepository) one(ctx context.Context, s attendance.Segment) (attendance.Segment, error) {
	out, err := r.withOfficeNames(ctx, []attendance.Segment{s})
	if err != nil {
		return attendance.Segment{}, err
	}
	return out[0], nil
}

func (r *AttendanceRepository) filter(keep func(attendance.Segment) bool) []attendance.Segment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]attendance.Segment, 0)
	for _, s := range r.segments {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CheckinTime.Equal(out[j].CheckinTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].CheckinTime.Before(out[j].CheckinTime)
	})
	return out
}

// FindOpenSegment implements attendance.AttendanceRepository.
func (r *AttendanceRepository) FindOpenSegment(ctx context.Context, userID string, window civil.Window) (*attendance.Segment, error) {
	open := r.filter(func(s attendance.Segment) bool {
		return s.UserID == userID && s.IsOpen() && window.Contains(s.CheckinTime)
	})
	if len(open) == 0 {
		return nil, nil
	}
	s, err := r.one(ctx, open[len(open)-1])
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// InsertSegment implements attendance.AttendanceRepository.
func (r *AttendanceRepository) InsertSegment(ctx context.Context, segment attendance.Segment) (attendance.Segment, error) {
	r.mu.Lock()
	key := openKey{userID: segment.UserID, date: segment.WorkDate}
	if _, exists := r.open[key]; exists {
		r.mu.Unlock()
		return attendance.Segment{}, attendance.ErrAlreadyCheckedIn
	}

	segment.ID = uuid.NewString()
	segment.CheckoutOfficeID = nil
	segment.CheckoutLatitude = nil
	segment.CheckoutLongitude = nil
	segment.CheckoutTime = nil
	segment.TotalHours = nil
	if segment.Status == "" {
		segment.Status = attendance.StatusPresent
	}
	segment.CreatedAt = time.Now().UTC()

	r.segments[segment.ID] = segment
	r.open[key] = segment.ID
	r.mu.Unlock()

	return r.one(ctx, segment)
}

// CloseSegment implements attendance.AttendanceRepository.
func (r *AttendanceRepository) CloseSegment(ctx context.Context, id string, closing attendance.CloseSegment) (attendance.Segment, error) {
	r.mu.Lock()
	s, ok := r.segments[id]
	if !ok || !s.IsOpen() {
		r.mu.Unlock()
		return attendance.Segment{}, attendance.ErrNoOpenSession
	}

	officeID := closing.OfficeID
	lat, lng := closing.Latitude, closing.Longitude
	out := closing.CheckoutTime
	hours := closing.TotalHours
	s.CheckoutOfficeID = &officeID
	s.CheckoutLatitude = &lat
	s.CheckoutLongitude = &lng
	s.CheckoutTime = &out
	s.TotalHours = &hours

	r.segments[id] = s
	delete(r.open, openKey{userID: s.UserID, date: s.WorkDate})
	r.mu.Unlock()

	return r.one(ctx, s)
}

// ListSegmentsInWindow implements attendance.AttendanceRepository.
func (r *AttendanceRepository) ListSegmentsInWindow(ctx context.Context, userID string, window civil.Window) ([]attendance.Segment, error) {
	return r.withOfficeNames(ctx, r.filter(func(s attendance.Segment) bool {
		return s.UserID == userID && window.Contains(s.CheckinTime)
	}))
}

// ListAllSegmentsInWindow implements attendance.AttendanceRepository.
func (r *AttendanceRepository) ListAllSegmentsInWindow(ctx context.Context, window civil.Window) ([]attendance.Segment, error) {
	return r.withOfficeNames(ctx, r.filter(func(s attendance.Segment) bool {
		return window.Contains(s.CheckinTime)
	}))
}

// ListOpenSegmentsBefore implements attendance.AttendanceRepository.
func (r *AttendanceRepository) ListOpenSegmentsBefore(ctx context.Context, before time.Time) ([]attendance.Segment, error) {
	return r.withOfficeNames(ctx, r.filter(func(s attendance.Segment) bool {
		return s.IsOpen() && s.CheckinTime.Before(before)
	}))
}

// OpenCount returns the number of open segments held for userID.
func (r *AttendanceRepository) OpenCount(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.segments {
		if s.UserID == userID && s.IsOpen() {
			n++
		}
	}
	return n
}
