package travel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skysdk/pkg/skyclient"
)

// memoryCache is a map-backed Cache for handler tests.
type memoryCache struct {
	mu    sync.Mutex
	items map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string]string)}
}

func (m *memoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *memoryCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[key], nil
}

func (m *memoryCache) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func newTestRouter(api API) (*gin.Engine, *memoryCache) {
	gin.SetMode(gin.TestMode)

	n := newTestNormalizer()
	service := NewService(api, n, n.logger)
	mem := newMemoryCache()
	handler := NewHandler(service, mem, 15, n.logger)

	router := gin.New()
	handler.RegisterRoutes(router)
	return router, mem
}

func TestSearchFlightsHandler_OK(t *testing.T) {
	calls := 0
	api := &fakeAPI{
		searchFlightsFn: func(ctx context.Context, q skyclient.FlightQuery) (json.RawMessage, error) {
			calls++
			return flightSearchPayload(), nil
		},
	}
	router, _ := newTestRouter(api)

	body := `{"origin": "SDF", "origin_entity_id": "95673506", "destination": "LAS", "destination_entity_id": "95673753", "date": "2025-03-30"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/flights/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp FlightSearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalResults)

	// Second identical request is served from the cache.
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/v1/flights/search", strings.NewReader(body))
	req2.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w2, req2)

	require.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, 1, calls)
}

func TestSearchFlightsHandler_BadBody(t *testing.T) {
	router, _ := newTestRouter(&fakeAPI{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/flights/search", strings.NewReader(`{"origin": "SDF"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchFlightsHandler_AuthFailureIsBadGateway(t *testing.T) {
	api := &fakeAPI{
		searchFlightsFn: func(ctx context.Context, q skyclient.FlightQuery) (json.RawMessage, error) {
			return nil, &skyclient.AuthError{Status: http.StatusForbidden}
		},
	}
	router, _ := newTestRouter(api)

	body := `{"origin": "SDF", "origin_entity_id": "95673506", "destination": "LAS", "destination_entity_id": "95673753", "date": "2025-03-30"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/flights/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_REJECTED")
}

func TestSearchLocationsHandler(t *testing.T) {
	api := &fakeAPI{
		searchAirportsFn: func(ctx context.Context, query, locale string) (json.RawMessage, error) {
			return airportPayload("95673506", "SDF", "Louisville"), nil
		},
	}
	router, _ := newTestRouter(api)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/locations/search?query=louisville", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp LocationSearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalResults)
	assert.Equal(t, "SDF", resp.Locations[0].Code)
}

func TestSearchLocationsHandler_MissingQuery(t *testing.T) {
	router, _ := newTestRouter(&fakeAPI{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/locations/search", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlightDetailsHandler(t *testing.T) {
	api := &fakeAPI{
		flightDetailsFn: func(ctx context.Context, itineraryID, sessionID string) (json.RawMessage, error) {
			assert.Equal(t, "itin-9", itineraryID)
			assert.Equal(t, "sess-9", sessionID)
			return json.RawMessage(`{
				"status": true,
				"data": {"itinerary": ` + directItinerary + `}
			}`), nil
		},
	}
	router, _ := newTestRouter(api)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/flights/itin-9/details?session_id=sess-9", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var flight Flight
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &flight))
	assert.Equal(t, "itin-sdf-las", flight.ItineraryID)
}
