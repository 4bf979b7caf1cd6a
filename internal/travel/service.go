package travel

import (
	"context"
	"encoding/json"
	"fmt"

	"skysdk/pkg/logger"
	"skysdk/pkg/skyclient"
)

// API is the slice of the upstream client the services depend on.
type API interface {
	SearchAirports(ctx context.Context, query, locale string) (json.RawMessage, error)
	SearchFlights(ctx context.Context, q skyclient.FlightQuery) (json.RawMessage, error)
	FlightDetails(ctx context.Context, itineraryID, sessionID string) (json.RawMessage, error)
}

// Service orchestrates client calls and normalization for the search use
// cases. One request at a time; no caching, no retries.
type Service struct {
	api        API
	normalizer *Normalizer
	logger     logger.Client
}

func NewService(api API, normalizer *Normalizer, logger logger.Client) *Service {
	return &Service{
		api:        api,
		normalizer: normalizer,
		logger:     logger,
	}
}

// statusProbe reads only the upstream business-status flag.
type statusProbe struct {
	Status *bool `json:"status"`
}

// SearchLocations looks up places matching the query. With airportsOnly the
// result is filtered to AIRPORT entries, which is what flight-search
// resolution wants.
func (s *Service) SearchLocations(ctx context.Context, query string, airportsOnly bool) (*LocationSearchResponse, error) {
	if query == "" {
		return nil, &LocationSearchError{Err: fmt.Errorf("query must not be empty")}
	}

	raw, err := s.api.SearchAirports(ctx, query, "en-US")
	if err != nil {
		return nil, &LocationSearchError{Err: err}
	}

	var probe statusProbe
	if err := json.Unmarshal(raw, &probe); err == nil && probe.Status != nil && !*probe.Status {
		return nil, &LocationSearchError{Err: ErrUpstreamStatus}
	}

	locations := s.normalizer.LocationList(raw)
	if airportsOnly {
		airports := make([]Location, 0, len(locations))
		for _, loc := range locations {
			if loc.Type == LocationTypeAirport {
				airports = append(airports, loc)
			}
		}
		locations = airports
	}

	return NewLocationSearchResponse(locations), nil
}

// ResolveAirport returns the first AIRPORT match for a free-text query.
func (s *Service) ResolveAirport(ctx context.Context, query string) (Location, error) {
	resp, err := s.SearchLocations(ctx, query, true)
	if err != nil {
		return Location{}, err
	}
	if resp.TotalResults == 0 {
		return Location{}, &LocationSearchError{Err: fmt.Errorf("no airport found for %q", query)}
	}
	return resp.Locations[0], nil
}

// SearchFlights runs a flight search. Free-text origin and destination are
// resolved to sky/entity ids first, costing one location round trip each.
// Every internal failure surfaces as a *FlightSearchError.
func (s *Service) SearchFlights(ctx context.Context, req SearchRequest) (*FlightSearchResponse, error) {
	if req.Origin == "" || req.Destination == "" || req.Date == "" {
		return nil, &FlightSearchError{Err: fmt.Errorf("origin, destination and date are required")}
	}
	req = req.withDefaults()

	query, err := s.buildQuery(ctx, req)
	if err != nil {
		return nil, &FlightSearchError{Err: err}
	}

	raw, err := s.api.SearchFlights(ctx, query)
	if err != nil {
		return nil, &FlightSearchError{Err: err}
	}

	flights, err := s.normalizer.FlightList(raw, FlightContext{
		CabinClass: req.CabinClass,
		Currency:   req.Currency,
	})
	if err != nil {
		return nil, &FlightSearchError{Err: err}
	}

	if req.WithDetails {
		flights = s.enrichWithDetails(ctx, flights)
	}

	return NewFlightSearchResponse(flights, req.Currency, req.Market, req.Locale, req.CountryCode), nil
}

// buildQuery maps the caller request onto upstream query parameters,
// resolving locations where entity ids were not supplied.
func (s *Service) buildQuery(ctx context.Context, req SearchRequest) (skyclient.FlightQuery, error) {
	originSkyID, originEntityID := req.Origin, req.OriginEntityID
	if originEntityID == "" {
		loc, err := s.ResolveAirport(ctx, req.Origin)
		if err != nil {
			return skyclient.FlightQuery{}, fmt.Errorf("resolve origin: %w", err)
		}
		originSkyID, originEntityID = loc.Code, loc.EntityID
	}

	destSkyID, destEntityID := req.Destination, req.DestinationEntityID
	if destEntityID == "" {
		loc, err := s.ResolveAirport(ctx, req.Destination)
		if err != nil {
			return skyclient.FlightQuery{}, fmt.Errorf("resolve destination: %w", err)
		}
		destSkyID, destEntityID = loc.Code, loc.EntityID
	}

	return skyclient.FlightQuery{
		OriginSkyID:         originSkyID,
		DestinationSkyID:    destSkyID,
		OriginEntityID:      originEntityID,
		DestinationEntityID: destEntityID,
		Date:                req.Date,
		ReturnDate:          req.ReturnDate,
		CabinClass:          req.CabinClass,
		Adults:              req.Adults,
		Children:            req.Children,
		Infants:             req.Infants,
		Currency:            req.Currency,
		Market:              req.Market,
		CountryCode:         req.CountryCode,
	}, nil
}

// enrichWithDetails performs the second phase of a two-phase search: one
// detail round trip per itinerary for full stop, price and booking-url
// fidelity. A failed detail fetch keeps the list-level flight.
func (s *Service) enrichWithDetails(ctx context.Context, flights []Flight) []Flight {
	enriched := make([]Flight, 0, len(flights))
	for _, flight := range flights {
		detail, err := s.fetchDetail(ctx, flight.ItineraryID, flight.SessionID)
		if err != nil {
			s.logger.Warn("detail fetch failed, keeping list-level flight",
				logger.Field{Key: "itinerary_id", Value: flight.ItineraryID},
				logger.Err(err),
			)
			enriched = append(enriched, flight)
			continue
		}
		if detail.SessionID == "" {
			detail.SessionID = flight.SessionID
		}
		enriched = append(enriched, *detail)
	}
	return enriched
}

// FlightDetails fetches and normalizes one itinerary. The session id must
// come from the originating search response.
func (s *Service) FlightDetails(ctx context.Context, itineraryID, sessionID string) (*Flight, error) {
	if itineraryID == "" {
		return nil, &FlightSearchError{Err: fmt.Errorf("itinerary id is required")}
	}

	flight, err := s.fetchDetail(ctx, itineraryID, sessionID)
	if err != nil {
		return nil, &FlightSearchError{Err: err}
	}
	return flight, nil
}

func (s *Service) fetchDetail(ctx context.Context, itineraryID, sessionID string) (*Flight, error) {
	raw, err := s.api.FlightDetails(ctx, itineraryID, sessionID)
	if err != nil {
		return nil, err
	}

	flight, err := s.normalizer.FlightDetail(raw)
	if err != nil {
		return nil, err
	}
	return &flight, nil
}
