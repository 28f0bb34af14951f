package office

import "context"

type OfficeRepository interface {
	// List returns every office ordered by creation time. Geofence matching
	// walks this order.
	List(ctx context.Context) ([]Office, error)
}
