package travel

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"skysdk/pkg/cache"
	"skysdk/pkg/logger"
	"skysdk/pkg/skyclient"
)

// Handler exposes the SDK over HTTP. Whole search responses are cached
// here, in the serving layer; the SDK core always issues fresh calls.
type Handler struct {
	service *Service
	cache   cache.Cache
	ttl     time.Duration
	logger  logger.Client
}

func NewHandler(service *Service, cache cache.Cache, ttlMinutes int, logger logger.Client) *Handler {
	return &Handler{
		service: service,
		cache:   cache,
		ttl:     time.Duration(ttlMinutes) * time.Minute,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/v1/locations/search", h.SearchLocationsHandler)
	router.POST("/v1/flights/search", h.SearchFlightsHandler)
	router.GET("/v1/flights/:itineraryId/details", h.FlightDetailsHandler)
}

func (h *Handler) SearchLocationsHandler(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}
	airportsOnly := c.Query("airports_only") == "true"

	response, err := h.service.SearchLocations(c.Request.Context(), query, airportsOnly)
	if err != nil {
		h.sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) SearchFlightsHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request format: %v", err)})
		return
	}

	cacheKey := h.searchCacheKey(req)
	if cached, ok := h.cachedResponse(c.Request.Context(), cacheKey); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	response, err := h.service.SearchFlights(c.Request.Context(), req)
	if err != nil {
		h.sendError(c, err)
		return
	}

	h.storeResponse(c.Request.Context(), cacheKey, response)
	c.JSON(http.StatusOK, response)
}

func (h *Handler) FlightDetailsHandler(c *gin.Context) {
	itineraryID := c.Param("itineraryId")
	sessionID := c.Query("session_id")

	flight, err := h.service.FlightDetails(c.Request.Context(), itineraryID, sessionID)
	if err != nil {
		h.sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, flight)
}

// searchCacheKey builds a deterministic key from the search parameters.
func (h *Handler) searchCacheKey(req SearchRequest) string {
	key := fmt.Sprintf("flight:%s:%s:%s:%s:%d:%d:%d:%s:%s:%t",
		req.Origin,
		req.Destination,
		req.Date,
		req.ReturnDate,
		req.Adults,
		req.Children,
		req.Infants,
		req.CabinClass,
		req.Currency,
		req.WithDetails,
	)

	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("flight:search:%x", hash[:16])
}

func (h *Handler) cachedResponse(ctx context.Context, key string) (*FlightSearchResponse, bool) {
	cached, err := h.cache.Get(ctx, key)
	if err != nil || cached == "" {
		return nil, false
	}

	var response FlightSearchResponse
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		h.logger.Error("failed to unmarshal cached response", logger.Err(err))
		return nil, false
	}

	h.logger.Info("cache hit for flight search", logger.Field{Key: "cache_key", Value: key})
	return &response, true
}

func (h *Handler) storeResponse(ctx context.Context, key string, response *FlightSearchResponse) {
	encoded, err := json.Marshal(response)
	if err != nil {
		h.logger.Error("failed to marshal response for caching", logger.Err(err))
		return
	}
	if err := h.cache.Set(ctx, key, string(encoded), h.ttl); err != nil {
		h.logger.Error("failed to cache search response", logger.Err(err))
	}
}

func (h *Handler) sendError(c *gin.Context, err error) {
	var authErr *skyclient.AuthError
	if errors.As(err, &authErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": authErr.Error(), "code": "AUTH_REJECTED"})
		return
	}

	var transportErr *skyclient.TransportError
	if errors.As(err, &transportErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": transportErr.Error(), "code": "UPSTREAM_FAILURE"})
		return
	}

	var decodeErr *skyclient.DecodeError
	if errors.As(err, &decodeErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": decodeErr.Error(), "code": "UPSTREAM_FAILURE"})
		return
	}

	var normErr *NormalizationError
	if errors.As(err, &normErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": normErr.Error(), "code": "BAD_UPSTREAM_PAYLOAD"})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "code": "INTERNAL_FAILURE"})
}
