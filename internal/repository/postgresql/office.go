package postgresql

import (
	"context"
	"fmt"

	"github.com/smarttrack/smarttrack-backend-go/internal/domain/office"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/database"
)

type officeRepository struct {
	db *database.DB
}

func NewOfficeRepository(db *database.DB) office.OfficeRepository {
	return &officeRepository{db: db}
}

// List implements office.OfficeRepository.
func (r *officeRepository) List(ctx context.Context) ([]office.Office, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, latitude, longitude, radius, created_at
		FROM offices
		ORDER BY created_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list offices: %w", err)
	}
	defer rows.Close()

	offices := make([]office.Office, 0)
	for rows.Next() {
		var o office.Office
		if err := rows.Scan(&o.ID, &o.Name, &o.Latitude, &o.Longitude, &o.Radius, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan office: %w", err)
		}
		offices = append(offices, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate offices: %w", err)
	}
	return offices, nil
}
