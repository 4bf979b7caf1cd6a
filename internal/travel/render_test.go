package travel

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFlight(t *testing.T) Flight {
	t.Helper()
	n := newTestNormalizer()
	flight, err := n.Flight(json.RawMessage(directItinerary), FlightContext{SessionID: "sess-1"})
	require.NoError(t, err)
	return flight
}

func TestFlightSearchResponse_TotalMatchesFlights(t *testing.T) {
	resp := NewFlightSearchResponse([]Flight{sampleFlight(t)}, "USD", "en-US", "en-US", "US")

	assert.Equal(t, len(resp.Flights), resp.TotalResults)
	assert.Equal(t, "Found 1 flights", resp.Summary())
}

func TestFlightSearchResponse_RenderIsDeterministic(t *testing.T) {
	resp := NewFlightSearchResponse([]Flight{sampleFlight(t)}, "USD", "en-US", "en-US", "US")

	first := resp.Render()
	second := resp.Render()
	assert.Equal(t, first, second)

	assert.Contains(t, first, "Spirit Airlines 2269")
	assert.Contains(t, first, "From: Louisville (SDF)")
	assert.Contains(t, first, "To: Las Vegas (LAS)")
	assert.Contains(t, first, "Departure: Sunday, March 30 at 01:40pm")
	assert.Contains(t, first, "Duration: 4h 10m")
	assert.Contains(t, first, "Direct flight")
	assert.Contains(t, first, "Price: 578.48 USD")
	assert.Contains(t, first, "Book at: https://agents.example/book/1")
}

func TestFlightSearchResponse_RenderListsStops(t *testing.T) {
	n := newTestNormalizer()
	flight, err := n.Flight(json.RawMessage(twoSegmentItinerary), FlightContext{})
	require.NoError(t, err)

	out := NewFlightSearchResponse([]Flight{flight}, "USD", "en-US", "en-US", "US").Render()

	assert.Contains(t, out, "Stops: 1")
	assert.Contains(t, out, "1. Dallas (DFW) - 1h 10m")
	assert.NotContains(t, out, "Direct flight")
}

func TestFlightSearchResponse_SaveJSON(t *testing.T) {
	resp := NewFlightSearchResponse([]Flight{sampleFlight(t)}, "USD", "en-US", "en-US", "US")
	path := filepath.Join(t.TempDir(), "flights.json")

	require.NoError(t, resp.SaveJSON(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var flights []Flight
	require.NoError(t, json.Unmarshal(raw, &flights))
	require.Len(t, flights, 1)
	assert.Equal(t, resp.Flights[0].ItineraryID, flights[0].ItineraryID)
	assert.Equal(t, resp.Flights[0].Price, flights[0].Price)
}

func TestLocationSearchResponse_Render(t *testing.T) {
	n := newTestNormalizer()
	locations := n.LocationList(json.RawMessage(`{"places": [` + placesItem + `]}`))
	resp := NewLocationSearchResponse(locations)

	assert.Equal(t, 1, resp.TotalResults)
	assert.Equal(t, "1 locations found", resp.Summary())

	out := resp.Render()
	assert.Contains(t, out, "Louisville Muhammad Ali International")
	assert.Contains(t, out, "Code: SDF")
	assert.Contains(t, out, "Entity ID: SDF.AIRPORT")
	assert.Contains(t, out, "Region: Kentucky")
	assert.Contains(t, out, "Distance to city: 8.5 km")
}
