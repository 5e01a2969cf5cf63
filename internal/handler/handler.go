package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/dharmasatrya/travelsearch/internal/models"
	"github.com/dharmasatrya/travelsearch/internal/pagination"
	"github.com/dharmasatrya/travelsearch/internal/providers"
	"github.com/dharmasatrya/travelsearch/internal/ranking"
	"github.com/dharmasatrya/travelsearch/internal/validation"
)

const upstreamFailureMessage = "Search failed, please try again"

type Options struct {
	SessionTTL time.Duration
	Weights    ranking.Weights
	PageSize   int
	Logger     logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = pagination.PageSize
	}
	if o.Weights == (ranking.Weights{}) {
		o.Weights = ranking.DefaultWeights()
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "invalid_request",
		Message: msg,
		Code:    http.StatusBadRequest,
	})
}

func notFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "not_found",
		Message: msg,
		Code:    http.StatusNotFound,
	})
}

func validationFailed(c echo.Context, errs validation.FieldErrors) error {
	return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
		Error:   "validation_error",
		Message: "Please correct the highlighted fields",
		Code:    http.StatusUnprocessableEntity,
		Fields:  errs,
	})
}

// upstreamFailed logs err and answers 502. Malformed upstream payloads and
// transport failures look the same to the client.
func upstreamFailed(c echo.Context, log logrus.FieldLogger, op string, err error) error {
	entry := log.WithFields(logrus.Fields{
		"op":         op,
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		"error":      err.Error(),
	})

	var perr *providers.ParseError
	if errors.As(err, &perr) {
		entry.Error("malformed upstream response")
	} else {
		entry.Warn("upstream call failed")
	}

	return c.JSON(http.StatusBadGateway, models.ErrorResponse{
		Error:   "upstream_error",
		Message: upstreamFailureMessage,
		Code:    http.StatusBadGateway,
	})
}

func pageInfo[T any](p pagination.Page[T]) models.PageInfo {
	return models.PageInfo{
		Page:         p.Number,
		PageSize:     p.Size,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalItems,
		ShowControls: p.ShowControls,
	}
}

func noResultsMessage(n int) string {
	if n == 0 {
		return models.NoResultsMessage
	}
	return ""
}
