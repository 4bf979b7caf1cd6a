package travel

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FlightSearchResponse wraps one search's normalized flights plus the
// search echo metadata.
type FlightSearchResponse struct {
	Flights      []Flight `json:"flights"`
	TotalResults int      `json:"total_results"`
	Currency     string   `json:"currency"`
	Market       string   `json:"market"`
	Locale       string   `json:"locale"`
	CountryCode  string   `json:"country_code"`
}

// NewFlightSearchResponse builds the envelope; TotalResults always equals
// the flight count.
func NewFlightSearchResponse(flights []Flight, currency, market, locale, countryCode string) *FlightSearchResponse {
	return &FlightSearchResponse{
		Flights:      flights,
		TotalResults: len(flights),
		Currency:     currency,
		Market:       market,
		Locale:       locale,
		CountryCode:  countryCode,
	}
}

func (r *FlightSearchResponse) Summary() string {
	return fmt.Sprintf("Found %d flights", r.TotalResults)
}

// Render returns a deterministic multi-line listing of every flight,
// intended for CLI display.
func (r *FlightSearchResponse) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d flights:\n", r.TotalResults)

	for i, f := range r.Flights {
		fmt.Fprintf(&b, "\n%d. %s %s\n", i+1, f.Airline, f.FlightNumber)
		fmt.Fprintf(&b, "   ID: %s Session ID: %s\n", f.ID, f.SessionID)
		fmt.Fprintf(&b, "   From: %s (%s)\n", f.OriginCity, f.Origin.Code)
		fmt.Fprintf(&b, "   To: %s (%s)\n", f.DestinationCity, f.Destination.Code)
		fmt.Fprintf(&b, "   Departure: %s at %s\n", f.Departure.Date, f.Departure.Time)
		fmt.Fprintf(&b, "   Arrival: %s at %s\n", f.Arrival.Date, f.Arrival.Time)
		fmt.Fprintf(&b, "   Duration: %s\n", f.TotalDuration)

		if len(f.Stops) > 0 {
			fmt.Fprintf(&b, "   Stops: %d\n", len(f.Stops))
			for j, stop := range f.Stops {
				fmt.Fprintf(&b, "      %d. %s (%s) - %s\n", j+1, stop.City, stop.Airport, stop.Duration)
			}
		} else {
			b.WriteString("   Direct flight\n")
		}

		fmt.Fprintf(&b, "   Price: %.2f %s\n", f.Price.Amount, f.Price.Currency)
		if f.BookingURL != "" {
			fmt.Fprintf(&b, "   Book at: %s\n", f.BookingURL)
		}
	}

	return b.String()
}

// SaveJSON writes the flight list to a file for later inspection.
func (r *FlightSearchResponse) SaveJSON(path string) error {
	encoded, err := json.MarshalIndent(r.Flights, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize flights: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LocationSearchResponse wraps normalized location results.
type LocationSearchResponse struct {
	Locations    []Location `json:"locations"`
	TotalResults int        `json:"total_results"`
}

func NewLocationSearchResponse(locations []Location) *LocationSearchResponse {
	return &LocationSearchResponse{
		Locations:    locations,
		TotalResults: len(locations),
	}
}

func (r *LocationSearchResponse) Summary() string {
	return fmt.Sprintf("%d locations found", r.TotalResults)
}

// Render returns a deterministic multi-line listing of every location.
func (r *LocationSearchResponse) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d locations:\n", r.TotalResults)

	for i, loc := range r.Locations {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, loc.Name)
		fmt.Fprintf(&b, "   Code: %s\n", loc.Code)
		fmt.Fprintf(&b, "   Type: %s\n", loc.Type)
		fmt.Fprintf(&b, "   Entity ID: %s\n", loc.EntityID)
		if loc.CityName != "" {
			fmt.Fprintf(&b, "   City: %s\n", loc.CityName)
		}
		if loc.RegionName != "" {
			fmt.Fprintf(&b, "   Region: %s\n", loc.RegionName)
		}
		fmt.Fprintf(&b, "   Country: %s\n", loc.CountryName)
		if loc.DistanceToCityValue != nil {
			fmt.Fprintf(&b, "   Distance to city: %g %s\n", *loc.DistanceToCityValue, loc.DistanceToCityUnit)
		}
	}

	return b.String()
}
