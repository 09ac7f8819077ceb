package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/logger"
	"fleetrental-backend/internal/service"
)

type ReservationHandler struct {
	svc service.ReservationService
}

func NewReservationHandler(svc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

type createReservationRequest struct {
	VehicleID      int32  `json:"vehicle_id"`
	PickupDate     string `json:"pickup_date"`
	ReturnDate     string `json:"return_date"`
	DriverRequired bool   `json:"driver_required"`
	DriverID       *int32 `json:"driver_id,omitempty"`
	PickupLocation string `json:"pickup_location"`
	ReturnLocation string `json:"return_location"`
	Notes          string `json:"notes,omitempty"`
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pickup, err := parseDate(req.PickupDate)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid pickup_date")
		return
	}
	ret, err := parseDate(req.ReturnDate)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid return_date")
		return
	}

	res, err := h.svc.Create(r.Context(), service.CreateReservationInput{
		VehicleID:      req.VehicleID,
		UserID:         actor.UserID,
		PickupDate:     pickup,
		ReturnDate:     ret,
		DriverRequired: req.DriverRequired,
		DriverID:       req.DriverID,
		PickupLocation: req.PickupLocation,
		ReturnLocation: req.ReturnLocation,
		Notes:          req.Notes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *ReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := parseInt32(r.URL.Query().Get("vehicle_id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid vehicle_id")
		return
	}
	pickup, err := parseDate(r.URL.Query().Get("pickup_date"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid pickup_date")
		return
	}
	ret, err := parseDate(r.URL.Query().Get("return_date"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid return_date")
		return
	}

	result, err := h.svc.CheckAvailability(r.Context(), vehicleID, pickup, ret)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	res, err := h.svc.Get(r.Context(), actor, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type listResponse struct {
	Reservations []domain.Reservation `json:"reservations"`
	TotalCount   int32                `json:"total_count"`
}

func (h *ReservationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	page, pageSize := pagination(r)

	reservations, count, err := h.svc.ListForUser(r.Context(), actor.UserID, page, pageSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Reservations: reservations, TotalCount: count})
}

func (h *ReservationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	page, pageSize := pagination(r)

	reservations, count, err := h.svc.ListAll(r.Context(), actor, r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Reservations: reservations, TotalCount: count})
}

func (h *ReservationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.TransitionStatus(r.Context(), actor, id, domain.ReservationStatus(req.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) SetTripStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	var req struct {
		TripStatus string `json:"trip_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.UpdateTripStatus(r.Context(), actor, id, domain.TripStatus(req.TripStatus))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) SetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	var req struct {
		PaymentStatus string `json:"payment_status"`
		BillDetails   string `json:"bill_details,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.SetPaymentStatus(r.Context(), actor, id, domain.PaymentStatus(req.PaymentStatus), req.BillDetails)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func pathID(r *http.Request) (int32, error) {
	return parseInt32(mux.Vars(r)["id"])
}

func parseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// parseDate accepts RFC 3339 timestamps and bare yyyy-mm-dd dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func pagination(r *http.Request) (int32, int32) {
	page := int32(1)
	pageSize := int32(20)
	if v, err := parseInt32(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := parseInt32(r.URL.Query().Get("page_size")); err == nil && v > 0 && v <= 100 {
		pageSize = v
	}
	return page, pageSize
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps the domain failure taxonomy onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		validationErr    *domain.ValidationError
		conflictErr      *domain.ConflictError
		notFoundErr      *domain.NotFoundError
		authErr          *domain.AuthorizationError
		stateErr         *domain.StateError
		inconsistencyErr *domain.ResourceInconsistencyError
	)
	switch {
	case errors.As(err, &validationErr):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &conflictErr):
		writeJSONError(w, http.StatusConflict, err.Error())
	case errors.As(err, &notFoundErr):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &authErr):
		writeJSONError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &stateErr):
		writeJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrVersionConflict):
		writeJSONError(w, http.StatusConflict, "the reservation was modified concurrently, please retry")
	case errors.As(err, &inconsistencyErr):
		logger.Error("resource inconsistency detected", "error", err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	default:
		logger.Error("unexpected error", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}
