package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"shareit/internal/config"
	"shareit/internal/models"
	"shareit/internal/validation"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const userIDHeader = "X-Sharer-User-Id"

// Server is the public entry point. It validates request shapes, applies
// per-caller rate limits and proxies everything else to the backend API.
type Server struct {
	cfg     config.GatewayConfig
	client  *Client
	cache   *Cache
	limiter *rateLimiter
	logger  *zerolog.Logger
	server  *http.Server
}

type rateLimiter struct {
	limiters sync.Map
	cfg      config.RateLimitConfig
}

func newRateLimiter(cfg config.RateLimitConfig) *rateLimiter {
	return &rateLimiter{cfg: cfg}
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	burst := l.cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(l.cfg.RPS), burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}
	return lim
}

func NewServer(cfg config.GatewayConfig, client *Client, cache *Cache, logger *zerolog.Logger) *Server {
	srv := &Server{
		cfg:     cfg,
		client:  client,
		cache:   cache,
		limiter: newRateLimiter(cfg.RateLimit),
		logger:  logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", srv.handleHealth)

	mux.HandleFunc("POST /users", srv.withChecks(srv.checkCreateUser))
	mux.HandleFunc("PATCH /users/{userId}", srv.proxy)
	mux.HandleFunc("DELETE /users/{userId}", srv.proxy)
	mux.HandleFunc("GET /users/{userId}", srv.proxy)
	mux.HandleFunc("GET /users", srv.proxy)

	mux.HandleFunc("POST /items", srv.withChecks(srv.checkIdentity, srv.checkCreateItem))
	mux.HandleFunc("PATCH /items/{itemId}", srv.withChecks(srv.checkIdentity))
	mux.HandleFunc("DELETE /items/{itemId}", srv.withChecks(srv.checkIdentity))
	mux.HandleFunc("GET /items/{itemId}", srv.withChecks(srv.checkIdentity))
	mux.HandleFunc("GET /items", srv.withChecks(srv.checkIdentity, srv.checkPagination))
	mux.HandleFunc("GET /items/search", srv.withChecks(srv.checkIdentity, srv.checkPagination))
	mux.HandleFunc("POST /items/{itemId}/comment", srv.withChecks(srv.checkIdentity, srv.checkComment))
	mux.HandleFunc("PATCH /items/{itemId}/comment/{commentId}", srv.withChecks(srv.checkIdentity, srv.checkComment))
	mux.HandleFunc("DELETE /items/{itemId}/comment/{commentId}", srv.withChecks(srv.checkIdentity))

	mux.HandleFunc("POST /requests", srv.withChecks(srv.checkIdentity, srv.checkCreateRequest))
	mux.HandleFunc("PATCH /requests/{requestId}", srv.withChecks(srv.checkIdentity, srv.checkCreateRequest))
	mux.HandleFunc("DELETE /requests/{requestId}", srv.withChecks(srv.checkIdentity))
	mux.HandleFunc("GET /requests/{requestId}", srv.withChecks(srv.checkIdentity))
	mux.HandleFunc("GET /requests", srv.withChecks(srv.checkIdentity))
	mux.HandleFunc("GET /requests/all", srv.withChecks(srv.checkIdentity, srv.checkPagination))

	mux.HandleFunc("POST /bookings", srv.withChecks(srv.checkIdentity, srv.checkCreateBooking))
	mux.HandleFunc("PATCH /bookings/{bookingId}", srv.withChecks(srv.checkIdentity, srv.checkApproved))
	mux.HandleFunc("DELETE /bookings/{bookingId}", srv.withChecks(srv.checkIdentity))
	mux.HandleFunc("GET /bookings/{bookingId}", srv.withChecks(srv.checkIdentity))
	mux.HandleFunc("GET /bookings", srv.withChecks(srv.checkIdentity, srv.checkState, srv.checkPagination))
	mux.HandleFunc("GET /bookings/owner", srv.withChecks(srv.checkIdentity, srv.checkState, srv.checkPagination))
	mux.HandleFunc("GET /bookings/owner/export", srv.withChecks(srv.checkIdentity, srv.checkState))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.rateLimitMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

// Handler returns the root handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("gateway listening")
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

// rateLimitMiddleware throttles per caller. Identified callers share a
// limiter keyed by user id, anonymous ones by remote address.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(userIDHeader)
		if key == "" {
			key = r.RemoteAddr
		}
		if !s.limiter.getLimiter(key).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// check inspects the request and returns a client-facing message when the
// request must be rejected before reaching the backend. Body bytes are
// passed in so checks never compete over r.Body.
type check func(r *http.Request, body []byte) error

func (s *Server) withChecks(checks ...check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read request body")
			return
		}
		for _, c := range checks {
			if err := c(r, body); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		s.forward(w, r, body)
	}
}

func (s *Server) proxy(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}
	s.forward(w, r, body)
}

func (s *Server) forward(w http.ResponseWriter, r *http.Request, body []byte) {
	var key string
	if s.cache != nil && r.Method == http.MethodGet {
		key = cacheKey(r.Header.Get(userIDHeader), r.URL.Path, r.URL.RawQuery)
		if cached, ok := s.cache.Get(r.Context(), key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}
	}

	status, respBody, contentType, err := s.client.Forward(r.Context(), r.Method, r.URL.Path, r.URL.RawQuery, r.Header, body)
	if err != nil {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("backend unavailable")
		writeError(w, http.StatusBadGateway, "backend unavailable")
		return
	}

	if key != "" && status == http.StatusOK && contentType == "application/json" {
		s.cache.Set(r.Context(), key, respBody)
	}

	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(respBody)
}

func (s *Server) checkIdentity(r *http.Request, _ []byte) error {
	id, err := strconv.ParseInt(r.Header.Get(userIDHeader), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("header %s must carry a positive user id", userIDHeader)
	}
	return nil
}

func (s *Server) checkCreateUser(_ *http.Request, body []byte) error {
	var payload struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return validation.User(payload.Name, payload.Email)
}

func (s *Server) checkCreateItem(_ *http.Request, body []byte) error {
	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Available   *bool  `json:"available"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return validation.Item(payload.Name, payload.Description, payload.Available)
}

func (s *Server) checkComment(_ *http.Request, body []byte) error {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return validation.CommentText(payload.Text)
}

func (s *Server) checkCreateRequest(_ *http.Request, body []byte) error {
	var payload struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return validation.RequestDescription(payload.Description)
}

func (s *Server) checkCreateBooking(_ *http.Request, body []byte) error {
	var payload struct {
		ItemID int64      `json:"itemId"`
		Start  *time.Time `json:"start"`
		End    *time.Time `json:"end"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	if payload.ItemID <= 0 {
		return fmt.Errorf("itemId must be a positive id")
	}
	return validation.BookingTimes(payload.Start, payload.End, time.Now())
}

func (s *Server) checkApproved(r *http.Request, _ []byte) error {
	return validation.Approved(r.URL.Query().Get("approved"))
}

func (s *Server) checkState(r *http.Request, _ []byte) error {
	_, err := models.ParseState(r.URL.Query().Get("state"))
	return err
}

func (s *Server) checkPagination(r *http.Request, _ []byte) error {
	from, size := 0, models.DefaultPageSize
	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = strconv.Atoi(raw); err != nil {
			return fmt.Errorf("from must be an integer")
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		if size, err = strconv.Atoi(raw); err != nil {
			return fmt.Errorf("size must be an integer")
		}
	}
	return validation.Pagination(from, size)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
