package travel

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"skysdk/pkg/logger"
)

// FlightContext carries search-level values that are not present on the
// individual itinerary records: the caller's cabin class and currency, and
// the session token echoed at the root of the search response.
type FlightContext struct {
	CabinClass string
	Currency   string
	SessionID  string
}

// flexName tolerates the upstream's two encodings of a place name:
// a bare string ("Louisville") or an object ({"name": "Louisville"}).
type flexName struct {
	Value string
}

func (f *flexName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Value = s
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	f.Value = obj.Name
	return nil
}

type rawPlace struct {
	ID            string   `json:"id"`
	EntityID      string   `json:"entityId"`
	FlightPlaceID string   `json:"flightPlaceId"`
	DisplayCode   string   `json:"displayCode"`
	Name          string   `json:"name"`
	City          flexName `json:"city"`
	Country       string   `json:"country"`
}

type rawCarrier struct {
	Name        string `json:"name"`
	AlternateID string `json:"alternateId"`
}

type rawSegment struct {
	Origin           rawPlace   `json:"origin"`
	Destination      rawPlace   `json:"destination"`
	Departure        string     `json:"departure"`
	Arrival          string     `json:"arrival"`
	FlightNumber     string     `json:"flightNumber"`
	MarketingCarrier rawCarrier `json:"marketingCarrier"`
}

type rawLeg struct {
	Origin            rawPlace     `json:"origin"`
	Destination       rawPlace     `json:"destination"`
	Departure         string       `json:"departure"`
	Arrival           string       `json:"arrival"`
	DurationInMinutes int          `json:"durationInMinutes"`
	Duration          int          `json:"duration"`
	StopCount         int          `json:"stopCount"`
	Segments          []rawSegment `json:"segments"`
	Carriers          struct {
		Marketing []rawCarrier `json:"marketing"`
	} `json:"carriers"`
}

type rawItineraryPrice struct {
	Raw      float64 `json:"raw"`
	Currency string  `json:"currency"`
}

type rawAgent struct {
	Name  string  `json:"name"`
	URL   string  `json:"url"`
	Price float64 `json:"price"`
}

type rawPricingOption struct {
	Agents []rawAgent `json:"agents"`
	Items  []struct {
		URL string `json:"url"`
	} `json:"items"`
}

type rawItinerary struct {
	ID             string             `json:"id"`
	Legs           []rawLeg           `json:"legs"`
	Price          rawItineraryPrice  `json:"price"`
	PricingOptions []rawPricingOption `json:"pricingOptions"`
	CabinClass     string             `json:"cabinClass"`
}

// Flight normalizes one itinerary record from a list-search response.
func (n *Normalizer) Flight(raw json.RawMessage, fctx FlightContext) (Flight, error) {
	var itin rawItinerary
	if err := json.Unmarshal(raw, &itin); err != nil {
		return Flight{}, err
	}
	return buildFlight(itin, fctx)
}

// buildFlight maps an already-decoded itinerary onto the canonical Flight.
// Only the first leg is surfaced; return legs of round trips are discarded.
func buildFlight(itin rawItinerary, fctx FlightContext) (Flight, error) {
	if len(itin.Legs) == 0 {
		return Flight{}, errors.New("itinerary has no legs")
	}
	leg := itin.Legs[0]

	// The first segment carries the marketing carrier and the precise
	// departure airport; fall back to leg-level fields when absent.
	var seg rawSegment
	if len(leg.Segments) > 0 {
		seg = leg.Segments[0]
	} else {
		seg = rawSegment{
			Origin:      leg.Origin,
			Destination: leg.Destination,
			Departure:   leg.Departure,
			Arrival:     leg.Arrival,
		}
		if len(leg.Carriers.Marketing) > 0 {
			seg.MarketingCarrier = leg.Carriers.Marketing[0]
		}
	}

	departAt, err := parseFlightTime(seg.Departure)
	if err != nil {
		return Flight{}, fmt.Errorf("bad departure time: %w", err)
	}
	arriveAt, err := parseFlightTime(seg.Arrival)
	if err != nil {
		return Flight{}, fmt.Errorf("bad arrival time: %w", err)
	}

	minutes := leg.DurationInMinutes
	if minutes == 0 {
		minutes = leg.Duration
	}

	stops, err := deriveStops(leg.Segments)
	if err != nil {
		return Flight{}, err
	}

	origin := placeToLocation(seg.Origin)
	destination := placeToLocation(seg.Destination)

	currency := itin.Price.Currency
	if currency == "" {
		currency = fctx.Currency
	}
	if currency == "" {
		currency = defaultCurrency
	}

	cabin := itin.CabinClass
	if cabin == "" {
		cabin = fctx.CabinClass
	}
	if cabin == "" {
		cabin = "ECONOMY"
	}

	return Flight{
		ID:              itin.ID,
		ItineraryID:     itin.ID,
		SessionID:       fctx.SessionID,
		Airline:         seg.MarketingCarrier.Name,
		FlightNumber:    seg.FlightNumber,
		Origin:          origin,
		Destination:     destination,
		OriginCity:      origin.CityName,
		DestinationCity: destination.CityName,
		Departure:       displayTime(departAt),
		Arrival:         displayTime(arriveAt),
		TotalDuration:   formatMinutes(minutes),
		CabinClass:      strings.ToUpper(cabin),
		Price: Price{
			Amount:   itin.Price.Raw,
			Currency: currency,
		},
		Stops:      stops,
		BookingURL: bookingURL(itin.PricingOptions),
	}, nil
}

// deriveStops emits one Stop per internal segment boundary. The stop
// duration is the layover gap between one segment's arrival and the next
// segment's departure.
func deriveStops(segments []rawSegment) ([]Stop, error) {
	stops := make([]Stop, 0)
	for i := 0; i+1 < len(segments); i++ {
		arriveAt, err := parseFlightTime(segments[i].Arrival)
		if err != nil {
			return nil, fmt.Errorf("bad segment arrival time: %w", err)
		}
		departAt, err := parseFlightTime(segments[i+1].Departure)
		if err != nil {
			return nil, fmt.Errorf("bad segment departure time: %w", err)
		}

		layover := int(departAt.Sub(arriveAt).Minutes())
		stops = append(stops, Stop{
			Airport:  segments[i].Destination.DisplayCode,
			City:     segments[i].Destination.City.Value,
			Duration: formatMinutes(layover),
		})
	}
	return stops, nil
}

func placeToLocation(p rawPlace) Location {
	entityID := p.EntityID
	if entityID == "" {
		entityID = p.ID
	}
	if entityID == "" {
		entityID = p.FlightPlaceID
	}
	if entityID == "" {
		entityID = p.DisplayCode
	}
	return Location{
		EntityID:    entityID,
		Code:        p.DisplayCode,
		Name:        p.Name,
		Type:        LocationTypeAirport,
		CityName:    p.City.Value,
		CountryName: p.Country,
	}
}

func bookingURL(options []rawPricingOption) string {
	if len(options) == 0 {
		return ""
	}
	if len(options[0].Items) > 0 && options[0].Items[0].URL != "" {
		return options[0].Items[0].URL
	}
	if len(options[0].Agents) > 0 {
		return options[0].Agents[0].URL
	}
	return ""
}

// flightSearchEnvelope models the v2 search response; older payloads carry
// the itineraries at the top level instead of under data.
type flightSearchEnvelope struct {
	Status *bool `json:"status"`
	Data   struct {
		Context struct {
			SessionID string `json:"sessionId"`
		} `json:"context"`
		Itineraries []json.RawMessage `json:"itineraries"`
	} `json:"data"`
	Itineraries []json.RawMessage `json:"itineraries"`
}

// FlightList normalizes a whole flight-search response. Itineraries that
// fail to normalize are dropped with a warning; a false status flag fails
// the whole call.
func (n *Normalizer) FlightList(raw json.RawMessage, fctx FlightContext) ([]Flight, error) {
	var envelope flightSearchEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected flight search payload: %w", err)
	}

	if envelope.Status != nil && !*envelope.Status {
		return nil, ErrUpstreamStatus
	}

	items := envelope.Data.Itineraries
	if len(items) == 0 {
		items = envelope.Itineraries
	}

	// The session token is scoped to the whole search call.
	fctx.SessionID = envelope.Data.Context.SessionID

	flights := make([]Flight, 0, len(items))
	for _, item := range items {
		flight, err := n.Flight(item, fctx)
		if err != nil {
			n.logger.Warn("dropping unparseable itinerary", logger.Err(err))
			continue
		}
		flights = append(flights, flight)
	}
	return flights, nil
}

type flightDetailEnvelope struct {
	Status    *bool  `json:"status"`
	SessionID string `json:"sessionId"`
	Data      struct {
		Itinerary json.RawMessage `json:"itinerary"`
	} `json:"data"`
	Itinerary json.RawMessage `json:"itinerary"`
}

// FlightDetail normalizes a single-itinerary detail response. Unlike list
// normalization, a record that cannot be mapped is an error here, and cabin
// class and currency come from the payload itself.
func (n *Normalizer) FlightDetail(raw json.RawMessage) (Flight, error) {
	var envelope flightDetailEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Flight{}, &NormalizationError{Reason: "unexpected detail payload", Err: err}
	}

	if envelope.Status != nil && !*envelope.Status {
		return Flight{}, &NormalizationError{Reason: "detail response status is false"}
	}

	rawItin := envelope.Data.Itinerary
	if len(rawItin) == 0 {
		rawItin = envelope.Itinerary
	}
	if len(rawItin) == 0 {
		return Flight{}, &NormalizationError{Reason: "detail response has no itinerary"}
	}

	var itin rawItinerary
	if err := json.Unmarshal(rawItin, &itin); err != nil {
		return Flight{}, &NormalizationError{Reason: "malformed itinerary", Err: err}
	}

	flight, err := buildFlight(itin, FlightContext{SessionID: envelope.SessionID})
	if err != nil {
		return Flight{}, &NormalizationError{Reason: "itinerary missing required fields", Err: err}
	}

	// Detail payloads price through booking agents rather than a raw amount.
	if flight.Price.Amount == 0 {
		if agentPrice, ok := firstAgentPrice(itin.PricingOptions); ok {
			flight.Price.Amount = agentPrice
		}
	}

	return flight, nil
}

func firstAgentPrice(options []rawPricingOption) (float64, bool) {
	if len(options) == 0 || len(options[0].Agents) == 0 {
		return 0, false
	}
	return options[0].Agents[0].Price, true
}

// flightTimeLayout is the upstream's timezone-less timestamp format.
const flightTimeLayout = "2006-01-02T15:04:05"

func parseFlightTime(value string) (time.Time, error) {
	t, err := time.Parse(flightTimeLayout, value)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(time.RFC3339, value)
	if err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse time %q", value)
}

// displayTime renders a timestamp as the display pair the SDK exposes,
// e.g. {"Sunday, March 30", "01:40pm"}.
func displayTime(t time.Time) DisplayTime {
	return DisplayTime{
		Date: t.Format("Monday, January 2"),
		Time: t.Format("03:04pm"),
	}
}

// formatMinutes renders a minute count as "4h 10m", or "45m" under an hour.
func formatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
