package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"shareit/internal/config"
	"shareit/internal/service"

	"github.com/rs/zerolog"
)

// UserIDHeader carries the caller identity on every authenticated route.
const UserIDHeader = "X-Sharer-User-Id"

// Server exposes the marketplace REST API.
type Server struct {
	cfg      config.ServerConfig
	users    *service.UserService
	items    *service.ItemService
	requests *service.RequestService
	bookings *service.BookingService
	exports  *Exporter
	logger   *zerolog.Logger
	server   *http.Server
}

func NewServer(
	cfg config.ServerConfig,
	users *service.UserService,
	items *service.ItemService,
	requests *service.RequestService,
	bookings *service.BookingService,
	exports *Exporter,
	logger *zerolog.Logger,
) *Server {
	srv := &Server{
		cfg:      cfg,
		users:    users,
		items:    items,
		requests: requests,
		bookings: bookings,
		exports:  exports,
		logger:   logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", srv.handleHealth)

	mux.HandleFunc("POST /users", srv.handleCreateUser)
	mux.HandleFunc("PATCH /users/{userId}", srv.handleUpdateUser)
	mux.HandleFunc("DELETE /users/{userId}", srv.handleDeleteUser)
	mux.HandleFunc("GET /users/{userId}", srv.handleFindUserByID)
	mux.HandleFunc("GET /users", srv.handleFindAllUsers)

	mux.HandleFunc("POST /items", srv.handleCreateItem)
	mux.HandleFunc("PATCH /items/{itemId}", srv.handleUpdateItem)
	mux.HandleFunc("DELETE /items/{itemId}", srv.handleDeleteItem)
	mux.HandleFunc("GET /items/{itemId}", srv.handleFindItemByID)
	mux.HandleFunc("GET /items", srv.handleFindUserItems)
	mux.HandleFunc("GET /items/search", srv.handleSearchItems)
	mux.HandleFunc("POST /items/{itemId}/comment", srv.handleAddComment)
	mux.HandleFunc("PATCH /items/{itemId}/comment/{commentId}", srv.handleUpdateComment)
	mux.HandleFunc("DELETE /items/{itemId}/comment/{commentId}", srv.handleDeleteComment)

	mux.HandleFunc("POST /requests", srv.handleCreateRequest)
	mux.HandleFunc("PATCH /requests/{requestId}", srv.handleUpdateRequest)
	mux.HandleFunc("DELETE /requests/{requestId}", srv.handleDeleteRequest)
	mux.HandleFunc("GET /requests/{requestId}", srv.handleFindRequestByID)
	mux.HandleFunc("GET /requests", srv.handleFindUserRequests)
	mux.HandleFunc("GET /requests/all", srv.handleFindAllRequests)

	mux.HandleFunc("POST /bookings", srv.handleCreateBooking)
	mux.HandleFunc("PATCH /bookings/{bookingId}", srv.handleApproveBooking)
	mux.HandleFunc("DELETE /bookings/{bookingId}", srv.handleDeleteBooking)
	mux.HandleFunc("GET /bookings/{bookingId}", srv.handleFindBookingByID)
	mux.HandleFunc("GET /bookings", srv.handleFindUserBookings)
	mux.HandleFunc("GET /bookings/owner", srv.handleFindOwnerBookings)
	mux.HandleFunc("GET /bookings/owner/export", srv.handleExportOwnerBookings)

	handler := requestIDMiddleware(loggingMiddleware(logger, mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Handler returns the root handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// headerUserID parses the identity header. Missing or malformed values map
// to 0, which the services reject as unauthorized.
func headerUserID(r *http.Request) int64 {
	raw := r.Header.Get(UserIDHeader)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// queryInt reads an integer query parameter with a default.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
