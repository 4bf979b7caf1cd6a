package skyclient

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skysdk/pkg/logger"
)

func testLogger() logger.Client {
	return logger.NewWithWriter("development", &bytes.Buffer{})
}

// testClient points the adapter at a local httptest server.
func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Config{APIKey: "test-key", APIHost: "example.test"}, srv.Client(), testLogger())
	c.baseURL = srv.URL + "/api"
	return c
}

func TestRequest_SetsAuthHeaders(t *testing.T) {
	var gotKey, gotHost string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-rapidapi-key")
		gotHost = r.Header.Get("x-rapidapi-host")
		w.Write([]byte(`{"status":true}`))
	})

	_, err := c.Request(context.Background(), http.MethodGet, "v1/flights/searchAirport", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "example.test", gotHost)
}

func TestRequest_OmitsEmptyParams(t *testing.T) {
	var gotQuery string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	})

	params := map[string]string{
		"date":       "2025-03-30",
		"returnDate": "",
	}
	_, err := c.Request(context.Background(), http.MethodGet, "v2/flights/searchFlights", params, nil)
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "date=2025-03-30")
	assert.NotContains(t, gotQuery, "returnDate")
}

func TestRequest_ForbiddenReturnsAuthError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.Request(context.Background(), http.MethodGet, "v1/flights/searchAirport", nil, nil)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusForbidden, authErr.Status)
}

func TestRequest_ServerErrorReturnsTransportError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Request(context.Background(), http.MethodGet, "v1/flights/searchAirport", nil, nil)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusInternalServerError, transportErr.Status)
}

func TestRequest_NonJSONBodyReturnsDecodeError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>rate limited</html>"))
	})

	_, err := c.Request(context.Background(), http.MethodGet, "v1/flights/searchAirport", nil, nil)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestSearchFlights_UsesUpstreamParamNames(t *testing.T) {
	var gotQuery string
	var gotPath string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"status":true}`))
	})

	_, err := c.SearchFlights(context.Background(), FlightQuery{
		OriginSkyID:         "SDF",
		DestinationSkyID:    "LAS",
		OriginEntityID:      "95673506",
		DestinationEntityID: "95673753",
		Date:                "2025-03-30",
		CabinClass:          "economy",
		Adults:              1,
		Currency:            "USD",
		Market:              "en-US",
		CountryCode:         "US",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(gotPath, "/v2/flights/searchFlights"))
	assert.Contains(t, gotQuery, "originSkyId=SDF")
	assert.Contains(t, gotQuery, "destinationSkyId=LAS")
	assert.Contains(t, gotQuery, "originEntityId=95673506")
	assert.Contains(t, gotQuery, "destinationEntityId=95673753")
	assert.Contains(t, gotQuery, "cabinClass=economy")
	assert.Contains(t, gotQuery, "adults=1")
	assert.NotContains(t, gotQuery, "returnDate")
	assert.NotContains(t, gotQuery, "childrens")
}

func TestFlightDetails_PathAndSession(t *testing.T) {
	var gotPath, gotQuery string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"status":true}`))
	})

	_, err := c.FlightDetails(context.Background(), "itin-123", "sess-456")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(gotPath, "/v3/flights/details/itin-123"))
	assert.Contains(t, gotQuery, "sessionId=sess-456")
}
