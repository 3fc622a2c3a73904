package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"shareit/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, backend http.Handler, cache *Cache) (*Server, *int64) {
	var hits int64
	counting := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		backend.ServeHTTP(w, r)
	})
	upstream := httptest.NewServer(counting)
	t.Cleanup(upstream.Close)

	logger := zerolog.Nop()
	cfg := config.GatewayConfig{
		Port:      0,
		ServerURL: upstream.URL,
		RateLimit: config.RateLimitConfig{RPS: 1000, Burst: 1000},
	}
	client := NewClient(upstream.URL, &logger)
	return NewServer(cfg, client, cache, &logger), &hits
}

func jsonBackend(status int, payload any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	})
}

func doGatewayRequest(srv *Server, method, path, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}

	recorder := httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, req)
	return recorder
}

func TestGateway_ValidationShortCircuits(t *testing.T) {
	srv, hits := newTestGateway(t, jsonBackend(http.StatusOK, map[string]string{}), nil)

	t.Run("MissingIdentityHeader", func(t *testing.T) {
		recorder := doGatewayRequest(srv, http.MethodGet, "/items", "", "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("BadApprovedParam", func(t *testing.T) {
		recorder := doGatewayRequest(srv, http.MethodPatch, "/bookings/1?approved=maybe", "1", "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("BookingEndBeforeStart", func(t *testing.T) {
		start := time.Now().Add(2 * time.Hour).Format(time.RFC3339)
		end := time.Now().Add(time.Hour).Format(time.RFC3339)
		body := `{"itemId":1,"start":"` + start + `","end":"` + end + `"}`
		recorder := doGatewayRequest(srv, http.MethodPost, "/bookings", "1", body)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("BookingMissingItemID", func(t *testing.T) {
		start := time.Now().Add(time.Hour).Format(time.RFC3339)
		end := time.Now().Add(2 * time.Hour).Format(time.RFC3339)
		body := `{"start":"` + start + `","end":"` + end + `"}`
		recorder := doGatewayRequest(srv, http.MethodPost, "/bookings", "1", body)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("ItemWithoutName", func(t *testing.T) {
		recorder := doGatewayRequest(srv, http.MethodPost, "/items", "1", `{"description":"x","available":true}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("EmptyComment", func(t *testing.T) {
		recorder := doGatewayRequest(srv, http.MethodPost, "/items/1/comment", "1", `{"text":"  "}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("UnknownState", func(t *testing.T) {
		recorder := doGatewayRequest(srv, http.MethodGet, "/bookings?state=SOMETIME", "1", "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("NegativePageOffset", func(t *testing.T) {
		recorder := doGatewayRequest(srv, http.MethodGet, "/items?from=-1", "1", "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	assert.Zero(t, atomic.LoadInt64(hits), "invalid requests must not reach the backend")
}

func TestGateway_ForwardsBackendResponse(t *testing.T) {
	srv, hits := newTestGateway(t, jsonBackend(http.StatusConflict, map[string]string{"error": "email taken"}), nil)

	recorder := doGatewayRequest(srv, http.MethodPost, "/users", "", `{"name":"Bob","email":"bob@example.com"}`)
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.JSONEq(t, `{"error":"email taken"}`, recorder.Body.String())
	assert.Equal(t, int64(1), atomic.LoadInt64(hits))
}

func TestGateway_CachesGETResponses(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewCache(client, 30*time.Second)
	srv, hits := newTestGateway(t, jsonBackend(http.StatusOK, []map[string]any{{"id": 1}}), cache)

	first := doGatewayRequest(srv, http.MethodGet, "/items", "1", "")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, int64(1), atomic.LoadInt64(hits))

	second := doGatewayRequest(srv, http.MethodGet, "/items", "1", "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, int64(1), atomic.LoadInt64(hits), "cached response must not hit the backend")
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	t.Run("DifferentUserMisses", func(t *testing.T) {
		recorder := doGatewayRequest(srv, http.MethodGet, "/items", "2", "")
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, int64(2), atomic.LoadInt64(hits))
	})
}

func TestGateway_RateLimit(t *testing.T) {
	upstream := httptest.NewServer(jsonBackend(http.StatusOK, map[string]string{}))
	t.Cleanup(upstream.Close)

	logger := zerolog.Nop()
	cfg := config.GatewayConfig{
		ServerURL: upstream.URL,
		RateLimit: config.RateLimitConfig{RPS: 0.001, Burst: 1},
	}
	srv := NewServer(cfg, NewClient(upstream.URL, &logger), nil, &logger)

	first := doGatewayRequest(srv, http.MethodGet, "/users", "1", "")
	assert.Equal(t, http.StatusOK, first.Code)

	second := doGatewayRequest(srv, http.MethodGet, "/users", "1", "")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	t.Run("SeparateCallersHaveSeparateBudgets", func(t *testing.T) {
		recorder := doGatewayRequest(srv, http.MethodGet, "/users", "2", "")
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestGateway_BackendDown(t *testing.T) {
	logger := zerolog.Nop()
	cfg := config.GatewayConfig{
		ServerURL: "http://127.0.0.1:1",
		RateLimit: config.RateLimitConfig{RPS: 1000, Burst: 1000},
	}
	srv := NewServer(cfg, NewClient(cfg.ServerURL, &logger), nil, &logger)

	recorder := doGatewayRequest(srv, http.MethodGet, "/users", "1", "")
	assert.Equal(t, http.StatusBadGateway, recorder.Code)
}
