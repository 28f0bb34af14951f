package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smarttrack/smarttrack-backend-go/internal/domain/office"
)

// OfficeRepository keeps offices in insertion order.
type OfficeRepository struct {
	mu      sync.RWMutex
	offices []office.Office
}

func NewOfficeRepository(offices ...office.Office) *OfficeRepository {
	r := &OfficeRepository{}
	for _, o := range offices {
		r.Add(o)
	}
	return r
}

// Add stores o, assigning an ID when it has none, and returns the stored copy.
func (r *OfficeRepository) Add(o office.Office) office.Office {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	r.offices = append(r.offices, o)
	return o
}

// List implements office.OfficeRepository.
func (r *OfficeRepository) List(ctx context.Context) ([]office.Office, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]office.Office, len(r.offices))
	copy(out, r.offices)
	return out, nil
}
