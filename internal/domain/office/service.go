package office

import "context"

type OfficeService interface {
	List(ctx context.Context) ([]OfficeResponse, error)
}
