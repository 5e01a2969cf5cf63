package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/dharmasatrya/travelsearch/internal/autocomplete"
	"github.com/dharmasatrya/travelsearch/internal/models"
)

// HeaderClientID identifies a client across autocomplete calls so that its
// keystrokes share one debounced stream.
const HeaderClientID = "X-Client-ID"

type SuggestHandler struct {
	registry *autocomplete.Registry
	log      logrus.FieldLogger
}

func NewSuggestHandler(registry *autocomplete.Registry, logger logrus.FieldLogger) *SuggestHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SuggestHandler{
		registry: registry,
		log:      logger.WithField("handler", "suggest"),
	}
}

func (h *SuggestHandler) Register(g *echo.Group) {
	g.GET("/flights/airports", h.Airports)
	g.GET("/hotels/destinations", h.Destinations)
}

func (h *SuggestHandler) Airports(c echo.Context) error {
	stream := c.QueryParam("stream")
	switch stream {
	case "":
		stream = autocomplete.StreamOrigin
	case autocomplete.StreamOrigin, autocomplete.StreamDestination:
	default:
		return badRequest(c, "stream must be origin or destination")
	}
	return h.suggest(c, stream)
}

func (h *SuggestHandler) Destinations(c echo.Context) error {
	return h.suggest(c, autocomplete.StreamHotelDestination)
}

// suggest answers directly when the caller sends no client id. Otherwise the
// query goes through the client's debounced stream and a call superseded by
// a newer one answers 204.
func (h *SuggestHandler) suggest(c echo.Context, stream string) error {
	query := c.QueryParam("query")
	clientID := c.Request().Header.Get(HeaderClientID)

	if clientID == "" {
		lookup, err := h.registry.Lookup(stream)
		if err != nil {
			return badRequest(c, err.Error())
		}
		res, err := lookup.Find(c.Request().Context(), query)
		if errors.Is(err, context.Canceled) {
			return c.NoContent(http.StatusNoContent)
		}
		if err != nil {
			return upstreamFailed(c, h.log, "suggest_"+stream, err)
		}
		return c.JSON(http.StatusOK, suggestions(res))
	}

	s, err := h.registry.Stream(clientID, stream)
	if err != nil {
		return badRequest(c, err.Error())
	}

	select {
	case outcome, ok := <-s.Search(query):
		if !ok {
			return c.NoContent(http.StatusNoContent)
		}
		if outcome.Err != nil {
			return upstreamFailed(c, h.log, "suggest_"+stream, outcome.Err)
		}
		return c.JSON(http.StatusOK, suggestions(outcome.Result))
	case <-c.Request().Context().Done():
		return c.NoContent(http.StatusNoContent)
	}
}

func suggestions(res autocomplete.Result) models.SuggestionsResponse {
	opts := res.Options
	if opts == nil {
		opts = []models.Place{}
	}
	return models.SuggestionsResponse{
		Query:     res.Query,
		Options:   opts,
		FromCache: res.FromCache,
	}
}
