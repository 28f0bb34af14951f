package http

import (
	"net/http"

	"github.com/smarttrack/smarttrack-backend-go/internal/domain/office"
	"github.com/smarttrack/smarttrack-backend-go/internal/handler/http/response"
)

type OfficeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type officeHandlerImpl struct {
	officeService office.OfficeService
}

func NewOfficeHandler(officeService office.OfficeService) OfficeHandler {
	return &officeHandlerImpl{
		officeService: officeService,
	}
}

// List implements OfficeHandler.
func (h *officeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	offices, err := h.officeService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, offices)
}
