package skyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"skysdk/pkg/logger"
)

// Config carries the RapidAPI credentials for one client instance.
type Config struct {
	APIKey  string
	APIHost string
}

// Client is a thin adapter over the sky-scrapper RapidAPI gateway.
// Safe for reuse across sequential calls; no retries, no caching.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	apiHost    string
	logger     logger.Client
}

func NewClient(cfg Config, httpClient *http.Client, logger logger.Client) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    fmt.Sprintf("https://%s/api", cfg.APIHost),
		apiKey:     cfg.APIKey,
		apiHost:    cfg.APIHost,
		logger:     logger,
	}
}

// FlightQuery holds the upstream query parameters for a flight search,
// named exactly as the gateway expects them.
type FlightQuery struct {
	OriginSkyID         string
	DestinationSkyID    string
	OriginEntityID      string
	DestinationEntityID string
	Date                string
	ReturnDate          string
	CabinClass          string
	Adults              int
	Children            int
	Infants             int
	Currency            string
	Market              string
	CountryCode         string
}

// Request issues one call against the gateway and returns the raw JSON body.
// Empty-valued params are dropped before sending, so an absent returnDate
// never appears in the query string.
func (c *Client) Request(ctx context.Context, method, endpoint string, params map[string]string, body any) (json.RawMessage, error) {
	reqURL := c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("skyclient: failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("skyclient: failed to build request: %w", err)
	}

	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			if v == "" {
				continue
			}
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		c.logger.Warn("api key rejected", logger.Field{Key: "endpoint", Value: endpoint})
		return nil, &AuthError{Status: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	var parsed json.RawMessage
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &DecodeError{Err: err}
	}

	return parsed, nil
}

// SearchAirports queries the v1 location-search endpoint.
func (c *Client) SearchAirports(ctx context.Context, query, locale string) (json.RawMessage, error) {
	params := map[string]string{
		"query":  query,
		"locale": locale,
	}
	return c.Request(ctx, http.MethodGet, "v1/flights/searchAirport", params, nil)
}

// SearchFlights queries the v2 flight-search endpoint.
func (c *Client) SearchFlights(ctx context.Context, q FlightQuery) (json.RawMessage, error) {
	params := map[string]string{
		"originSkyId":         q.OriginSkyID,
		"destinationSkyId":    q.DestinationSkyID,
		"originEntityId":      q.OriginEntityID,
		"destinationEntityId": q.DestinationEntityID,
		"date":                q.Date,
		"returnDate":          q.ReturnDate,
		"cabinClass":          q.CabinClass,
		"adults":              positiveString(q.Adults),
		"childrens":           positiveString(q.Children),
		"infants":             positiveString(q.Infants),
		"currency":            q.Currency,
		"market":              q.Market,
		"countryCode":         q.CountryCode,
	}
	return c.Request(ctx, http.MethodGet, "v2/flights/searchFlights", params, nil)
}

// FlightDetails fetches a single itinerary from the v3 detail endpoint.
// The session token is scoped to the whole search, not to one itinerary.
func (c *Client) FlightDetails(ctx context.Context, itineraryID, sessionID string) (json.RawMessage, error) {
	params := map[string]string{
		"sessionId": sessionID,
	}
	endpoint := "v3/flights/details/" + url.PathEscape(itineraryID)
	return c.Request(ctx, http.MethodGet, endpoint, params, nil)
}

func positiveString(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}
