package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/smarttrack/smarttrack-backend-go/internal/domain/attendance"
	"github.com/smarttrack/smarttrack-backend-go/internal/handler/http/response"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/jwt"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	Logs(w http.ResponseWriter, r *http.Request)
	Roster(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

func decodeCoordinates(w http.ResponseWriter, r *http.Request) (attendance.CoordinatesRequest, bool) {
	var req attendance.CoordinatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode coordinates", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return req, false
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return req, false
	}
	return req, true
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	principal, err := jwt.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req, ok := decodeCoordinates(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), principal.UserID, req)
	if err != nil {
		slog.Info("Check-in rejected", "user_id", principal.UserID, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Checked in", "user_id", principal.UserID, "office_id", result.Attendance.CheckinOfficeID)
	response.Created(w, "Checked in successfully", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	principal, err := jwt.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req, ok := decodeCoordinates(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), principal.UserID, req)
	if err != nil {
		slog.Info("Check-out rejected", "user_id", principal.UserID, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Checked out", "user_id", principal.UserID, "segment_id", result.Attendance.ID)
	response.SuccessWithMessage(w, "Checked out successfully", result)
}

// Status implements AttendanceHandler.
func (h *attendanceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	principal, err := jwt.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Status(r.Context(), principal.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Logs implements AttendanceHandler.
func (h *attendanceHandlerImpl) Logs(w http.ResponseWriter, r *http.Request) {
	principal, err := jwt.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Logs(r.Context(), principal.UserID, r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Roster implements AttendanceHandler.
func (h *attendanceHandlerImpl) Roster(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.Roster(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
