package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/dharmasatrya/travelsearch/internal/aggregator"
	"github.com/dharmasatrya/travelsearch/internal/filter"
	"github.com/dharmasatrya/travelsearch/internal/models"
	"github.com/dharmasatrya/travelsearch/internal/pagination"
	"github.com/dharmasatrya/travelsearch/internal/store"
	"github.com/dharmasatrya/travelsearch/internal/validation"
)

type hotelSession struct {
	request models.HotelSearchRequest
	results *store.Store[models.Hotel]
	pages   *pagination.Tracker
	bounds  filter.HotelBounds
}

type HotelResultsView struct {
	models.HotelResultsResponse
	Bounds   filter.HotelBounds   `json:"bounds"`
	Criteria filter.HotelCriteria `json:"criteria"`
	Nights   int                  `json:"nights"`
	CacheHit bool                 `json:"cache_hit"`
}

type HotelHandler struct {
	aggregator *aggregator.Aggregator
	validator  *validation.Validator
	sessions   *store.Sessions[*hotelSession]
	opts       Options
	log        logrus.FieldLogger
}

func NewHotelHandler(agg *aggregator.Aggregator, v *validation.Validator, opts Options) *HotelHandler {
	opts = opts.withDefaults()

	sessions := store.NewSessions[*hotelSession](opts.SessionTTL)
	sessions.OnExpire(func(id string, s *hotelSession) {
		s.results.Clear()
	})

	return &HotelHandler{
		aggregator: agg,
		validator:  v,
		sessions:   sessions,
		opts:       opts,
		log:        opts.Logger.WithField("handler", "hotels"),
	}
}

func (h *HotelHandler) Register(g *echo.Group) {
	g.POST("/hotels/search", h.Search)
	g.GET("/hotels/searches/:id", h.Results)
	g.GET("/hotels/searches/:id/hotels/:hotelId", h.Detail)
	g.DELETE("/hotels/searches/:id", h.Clear)
}

func hotelID(h models.Hotel) string { return h.ID }

func (h *HotelHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	var form models.HotelSearchForm
	if err := c.Bind(&form); err != nil {
		return badRequest(c, "Failed to parse request body: "+err.Error())
	}

	req, errs := h.validator.ValidateHotelSearch(form)
	if len(errs) > 0 {
		return validationFailed(c, errs)
	}

	results := store.New(hotelID)
	cacheHit := false
	err := results.Search(ctx, func(ctx context.Context) (store.Batch[models.Hotel], error) {
		found, hit, err := h.aggregator.SearchHotels(ctx, req)
		cacheHit = hit
		return store.Batch[models.Hotel]{Items: found.Results}, err
	})
	if err != nil {
		return upstreamFailed(c, h.log, "search_hotels", err)
	}

	snap := results.Snapshot()
	sess := &hotelSession{
		request: req,
		results: results,
		pages:   pagination.NewTracker(),
		bounds:  filter.ComputeHotelBounds(snap.Results),
	}
	id := h.sessions.Create(sess)

	h.log.WithFields(logrus.Fields{
		"session":   id,
		"entity":    req.EntityID,
		"results":   len(snap.Results),
		"cache_hit": cacheHit,
	}).Info("hotel search completed")

	page := pagination.Paginate(snap.Results, 1, h.opts.PageSize)

	return c.JSON(http.StatusOK, HotelResultsView{
		HotelResultsResponse: models.HotelResultsResponse{
			SessionID: id,
			SortBy:    string(filter.HotelSortRelevance),
			Page:      pageInfo(page),
			Results:   page.Items,
			Message:   noResultsMessage(len(snap.Results)),
		},
		Bounds:   sess.bounds,
		Criteria: filter.DefaultHotelCriteria(sess.bounds),
		Nights:   req.Nights(),
		CacheHit: cacheHit,
	})
}

func (h *HotelHandler) Results(c echo.Context) error {
	id := c.Param("id")
	sess, ok := h.sessions.Get(id)
	if !ok {
		return notFound(c, "Search session not found or expired")
	}

	q := c.QueryParams()
	criteria, err := parseHotelCriteria(q, sess.bounds)
	if err != nil {
		return badRequest(c, err.Error())
	}
	key, known := filter.ParseHotelSortKey(q.Get("sort"))
	if !known {
		return badRequest(c, "Unknown sort key: "+q.Get("sort"))
	}
	requested, err := parsePage(q)
	if err != nil {
		return badRequest(c, err.Error())
	}

	snap := sess.results.Snapshot()
	sorted := filter.SortHotels(filter.ApplyHotels(snap.Results, criteria), key)

	page := pagination.Paginate(sorted, sess.pages.Resolve(viewKey(q), requested), h.opts.PageSize)
	sess.pages.Set(page.Number)

	return c.JSON(http.StatusOK, HotelResultsView{
		HotelResultsResponse: models.HotelResultsResponse{
			SessionID: id,
			SortBy:    string(key),
			Page:      pageInfo(page),
			Results:   page.Items,
			Message:   noResultsMessage(len(sorted)),
		},
		Bounds:   sess.bounds,
		Criteria: criteria,
		Nights:   sess.request.Nights(),
	})
}

// Detail returns the hotel overview. A missing nearby map is reported in the
// overview's warning rather than as a failure.
func (h *HotelHandler) Detail(c echo.Context) error {
	sess, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		return notFound(c, "Search session not found or expired")
	}

	hotel, err := sess.results.Select(c.Param("hotelId"))
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, "Hotel not found in this search")
	}

	overview, err := h.aggregator.HotelOverview(c.Request().Context(), hotel, sess.request)
	if err != nil {
		return upstreamFailed(c, h.log, "hotel_details", err)
	}

	return c.JSON(http.StatusOK, overview)
}

func (h *HotelHandler) Clear(c echo.Context) error {
	if !h.sessions.Delete(c.Param("id")) {
		return notFound(c, "Search session not found or expired")
	}
	return c.NoContent(http.StatusNoContent)
}
