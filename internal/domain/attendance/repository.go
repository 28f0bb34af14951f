package attendance

import (
	"context"
	"time"

	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/civil"
)

type AttendanceRepository interface {
	// FindOpenSegment returns the most recently opened segment of the user
	// whose checkin falls in window and has no checkout, or nil.
	FindOpenSegment(ctx context.Context, userID string, window civil.Window) (*Segment, error)
	// InsertSegment returns ErrAlreadyCheckedIn when the user already holds an
	// open segment for the segment's work date.
	InsertSegment(ctx context.Context, segment Segment) (Segment, error)
	// CloseSegment returns ErrNoOpenSession when the segment is missing or already closed.
	CloseSegment(ctx context.Context, id string, closing CloseSegment) (Segment, error)
	ListSegmentsInWindow(ctx context.Context, userID string, window civil.Window) ([]Segment, error)
	ListAllSegmentsInWindow(ctx context.Context, window civil.Window) ([]Segment, error)
	ListOpenSegmentsBefore(ctx context.Context, before time.Time) ([]Segment, error)
}
