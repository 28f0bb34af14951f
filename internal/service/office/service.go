package office

import (
	"context"
	"fmt"

	"github.com/smarttrack/smarttrack-backend-go/internal/domain/office"
)

type OfficeServiceImpl struct {
	office.OfficeRepository
}

func NewOfficeService(officeRepository office.OfficeRepository) office.OfficeService {
	return &OfficeServiceImpl{OfficeRepository: officeRepository}
}

// List implements office.OfficeService.
func (s *OfficeServiceImpl) List(ctx context.Context) ([]office.OfficeResponse, error) {
	offices, err := s.OfficeRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list offices: %w", err)
	}

	resp := make([]office.OfficeResponse, 0, len(offices))
	for _, o := range offices {
		resp = append(resp, office.ToResponse(o))
	}
	return resp, nil
}
