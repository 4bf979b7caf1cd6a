package travel

// Location entity types as the upstream reports them.
const (
	LocationTypeAirport = "AIRPORT"
	LocationTypeCity    = "CITY"
)

// defaultCurrency is assumed whenever the upstream payload omits a currency
// code. Several response shapes never carry one.
const defaultCurrency = "USD"

// Location is the canonical form of an upstream place record.
type Location struct {
	EntityID            string   `json:"entity_id"`
	Code                string   `json:"code"`
	Name                string   `json:"name"`
	Type                string   `json:"type"`
	CityName            string   `json:"city_name,omitempty"`
	RegionName          string   `json:"region_name,omitempty"`
	CountryName         string   `json:"country_name,omitempty"`
	DistanceToCityValue *float64 `json:"distance_to_city_value,omitempty"`
	DistanceToCityUnit  string   `json:"distance_to_city_unit,omitempty"`
}

// Stop is one intermediate landing within a leg. Duration is the layover
// time before the next segment departs, rendered as "XhYm" or "Ym".
type Stop struct {
	Airport  string `json:"airport"`
	City     string `json:"city"`
	Duration string `json:"duration"`
}

type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// DisplayTime is a departure or arrival rendered for display,
// e.g. {Date: "Sunday, March 30", Time: "01:40pm"}.
type DisplayTime struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// Flight is one normalized itinerary offer. Only the first leg of a
// round-trip or multi-city itinerary is surfaced.
type Flight struct {
	ID              string      `json:"id"`
	ItineraryID     string      `json:"itinerary_id"`
	SessionID       string      `json:"session_id,omitempty"`
	Airline         string      `json:"airline"`
	FlightNumber    string      `json:"flight_number"`
	Origin          Location    `json:"origin"`
	Destination     Location    `json:"destination"`
	OriginCity      string      `json:"origin_city"`
	DestinationCity string      `json:"destination_city"`
	Departure       DisplayTime `json:"departure"`
	Arrival         DisplayTime `json:"arrival"`
	TotalDuration   string      `json:"total_duration"`
	CabinClass      string      `json:"cabin_class"`
	Price           Price       `json:"price"`
	Stops           []Stop      `json:"stops"`
	BookingURL      string      `json:"booking_url,omitempty"`
}

// Direct reports whether the flight has no intermediate stops.
func (f *Flight) Direct() bool {
	return len(f.Stops) == 0
}

// SearchRequest is the caller-facing input for a flight search. Origin and
// Destination accept either free text (resolved via location search) or a
// sky-id paired with an explicit entity id.
type SearchRequest struct {
	Origin              string `json:"origin" binding:"required"`
	Destination         string `json:"destination" binding:"required"`
	OriginEntityID      string `json:"origin_entity_id"`
	DestinationEntityID string `json:"destination_entity_id"`
	Date                string `json:"date" binding:"required"`
	ReturnDate          string `json:"return_date"`
	Adults              int    `json:"adults"`
	Children            int    `json:"children"`
	Infants             int    `json:"infants"`
	CabinClass          string `json:"cabin_class"`
	Currency            string `json:"currency"`
	Market              string `json:"market"`
	Locale              string `json:"locale"`
	CountryCode         string `json:"country_code"`
	WithDetails         bool   `json:"with_details"`
}

func (r SearchRequest) withDefaults() SearchRequest {
	if r.Adults <= 0 {
		r.Adults = 1
	}
	if r.CabinClass == "" {
		r.CabinClass = "economy"
	}
	if r.Currency == "" {
		r.Currency = defaultCurrency
	}
	if r.Market == "" {
		r.Market = "en-US"
	}
	if r.Locale == "" {
		r.Locale = "en-US"
	}
	if r.CountryCode == "" {
		r.CountryCode = "US"
	}
	return r
}
