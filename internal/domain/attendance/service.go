package attendance

import (
	"context"
)

type AttendanceService interface {
	CheckIn(ctx context.Context, userID string, req CoordinatesRequest) (CheckResponse, error)
	CheckOut(ctx context.Context, userID string, req CoordinatesRequest) (CheckResponse, error)
	Status(ctx context.Context, userID string) (StatusResponse, error)
	// Logs requires date in YYYY-MM-DD form.
	Logs(ctx context.Context, userID string, date string) (LogsResponse, error)
	// Roster defaults to today when date is empty.
	Roster(ctx context.Context, date string) (RosterResponse, error)
}
