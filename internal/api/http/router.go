package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"fleetrental-backend/internal/security"
	"fleetrental-backend/internal/service"
)

// NewRouter wires the reservation API. Availability stays outside the auth
// wall so booking flows can quote a price before login.
func NewRouter(svc service.ReservationService, tm security.TokenManager) *mux.Router {
	handler := NewReservationHandler(svc)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/reservations/availability", handler.CheckAvailability).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(tm))
	authed.HandleFunc("/reservations", handler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/reservations", handler.ListAll).Methods(http.MethodGet)
	authed.HandleFunc("/users/me/reservations", handler.ListMine).Methods(http.MethodGet)
	authed.HandleFunc("/reservations/{id:[0-9]+}", handler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/reservations/{id:[0-9]+}/status", handler.SetStatus).Methods(http.MethodPut)
	authed.HandleFunc("/reservations/{id:[0-9]+}/trip-status", handler.SetTripStatus).Methods(http.MethodPut)
	authed.HandleFunc("/reservations/{id:[0-9]+}/payment-status", handler.SetPaymentStatus).Methods(http.MethodPut)

	return r
}
