package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/dharmasatrya/travelsearch/internal/aggregator"
	"github.com/dharmasatrya/travelsearch/internal/filter"
	"github.com/dharmasatrya/travelsearch/internal/models"
	"github.com/dharmasatrya/travelsearch/internal/pagination"
	"github.com/dharmasatrya/travelsearch/internal/store"
	"github.com/dharmasatrya/travelsearch/internal/validation"
)

type flightSession struct {
	request models.FlightSearchRequest
	results *store.Store[models.Itinerary]
	pages   *pagination.Tracker
	bounds  filter.Bounds
}

type FlightResultsView struct {
	models.FlightResultsResponse
	Bounds   filter.Bounds   `json:"bounds"`
	Criteria filter.Criteria `json:"criteria"`
	CacheHit bool            `json:"cache_hit"`
}

type FlightHandler struct {
	aggregator *aggregator.Aggregator
	validator  *validation.Validator
	sessions   *store.Sessions[*flightSession]
	opts       Options
	log        logrus.FieldLogger
}

func NewFlightHandler(agg *aggregator.Aggregator, v *validation.Validator, opts Options) *FlightHandler {
	opts = opts.withDefaults()

	sessions := store.NewSessions[*flightSession](opts.SessionTTL)
	sessions.OnExpire(func(id string, s *flightSession) {
		s.results.Clear()
	})

	return &FlightHandler{
		aggregator: agg,
		validator:  v,
		sessions:   sessions,
		opts:       opts,
		log:        opts.Logger.WithField("handler", "flights"),
	}
}

func (h *FlightHandler) Register(g *echo.Group) {
	g.GET("/flights/airports/nearby", h.NearbyAirports)
	g.POST("/flights/search", h.Search)
	g.GET("/flights/searches/:id", h.Results)
	g.GET("/flights/searches/:id/itineraries/:itineraryId", h.Detail)
	g.DELETE("/flights/searches/:id", h.Clear)
}

func itineraryID(it models.Itinerary) string { return it.ID }

func (h *FlightHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	var form models.FlightSearchForm
	if err := c.Bind(&form); err != nil {
		return badRequest(c, "Failed to parse request body: "+err.Error())
	}

	req, errs := h.validator.ValidateFlightSearch(form)
	if len(errs) > 0 {
		return validationFailed(c, errs)
	}

	results := store.New(itineraryID)
	cacheHit := false
	err := results.Search(ctx, func(ctx context.Context) (store.Batch[models.Itinerary], error) {
		found, hit, err := h.aggregator.SearchFlights(ctx, req)
		cacheHit = hit
		return store.Batch[models.Itinerary]{Items: found.Results, Token: found.SessionID}, err
	})
	if err != nil {
		return upstreamFailed(c, h.log, "search_flights", err)
	}

	snap := results.Snapshot()
	sess := &flightSession{
		request: req,
		results: results,
		pages:   pagination.NewTracker(),
		bounds:  filter.ComputeBounds(snap.Results),
	}
	id := h.sessions.Create(sess)

	h.log.WithFields(logrus.Fields{
		"session":   id,
		"origin":    req.Origin.Value,
		"dest":      req.Destination.Value,
		"results":   len(snap.Results),
		"cache_hit": cacheHit,
	}).Info("flight search completed")

	criteria := filter.DefaultCriteria(sess.bounds)
	sorted := filter.SortWithWeights(snap.Results, filter.SortBest, h.opts.Weights)
	page := pagination.Paginate(sorted, 1, h.opts.PageSize)

	return c.JSON(http.StatusOK, FlightResultsView{
		FlightResultsResponse: models.FlightResultsResponse{
			SessionID: id,
			SortBy:    string(filter.SortBest),
			Page:      pageInfo(page),
			Results:   page.Items,
			Message:   noResultsMessage(len(sorted)),
		},
		Bounds:   sess.bounds,
		Criteria: criteria,
		CacheHit: cacheHit,
	})
}

// Results filters, sorts and paginates a stored search. Changing any filter
// or the sort key returns to page 1.
func (h *FlightHandler) Results(c echo.Context) error {
	id := c.Param("id")
	sess, ok := h.sessions.Get(id)
	if !ok {
		return notFound(c, "Search session not found or expired")
	}

	q := c.QueryParams()
	criteria, err := parseCriteria(q, sess.bounds)
	if err != nil {
		return badRequest(c, err.Error())
	}
	key, known := filter.ParseSortKey(q.Get("sort"))
	if !known {
		return badRequest(c, "Unknown sort key: "+q.Get("sort"))
	}
	requested, err := parsePage(q)
	if err != nil {
		return badRequest(c, err.Error())
	}

	snap := sess.results.Snapshot()
	filtered := filter.Apply(snap.Results, criteria)
	sorted := filter.SortWithWeights(filtered, key, h.opts.Weights)

	page := pagination.Paginate(sorted, sess.pages.Resolve(viewKey(q), requested), h.opts.PageSize)
	sess.pages.Set(page.Number)

	return c.JSON(http.StatusOK, FlightResultsView{
		FlightResultsResponse: models.FlightResultsResponse{
			SessionID: id,
			SortBy:    string(key),
			Page:      pageInfo(page),
			Results:   page.Items,
			Message:   noResultsMessage(len(sorted)),
		},
		Bounds:   sess.bounds,
		Criteria: criteria,
	})
}

func (h *FlightHandler) Detail(c echo.Context) error {
	sess, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		return notFound(c, "Search session not found or expired")
	}

	it, err := sess.results.Select(c.Param("itineraryId"))
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, "Itinerary not found in this search")
	}

	detail, err := h.aggregator.FlightDetail(c.Request().Context(), it, sess.results.Snapshot().Token, sess.request)
	if err != nil {
		return upstreamFailed(c, h.log, "flight_details", err)
	}

	return c.JSON(http.StatusOK, detail)
}

func (h *FlightHandler) Clear(c echo.Context) error {
	if !h.sessions.Delete(c.Param("id")) {
		return notFound(c, "Search session not found or expired")
	}
	return c.NoContent(http.StatusNoContent)
}

// NearbyAirports lists airports near lat/lng. Missing or unusable
// coordinates fall back to the default location with a warning.
func (h *FlightHandler) NearbyAirports(c echo.Context) error {
	var at *models.Coordinates
	lat, latErr := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if latErr == nil && lngErr == nil && lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180 {
		at = &models.Coordinates{Latitude: lat, Longitude: lng}
	}

	resp, err := h.aggregator.NearbyAirports(c.Request().Context(), at)
	if err != nil {
		return upstreamFailed(c, h.log, "nearby_airports", err)
	}

	return c.JSON(http.StatusOK, resp)
}
