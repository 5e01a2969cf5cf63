package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/travelsearch/internal/models"
	"github.com/dharmasatrya/travelsearch/internal/passengers"
)

type passengerChange struct {
	Passengers models.PassengerCounts `json:"passengers"`
	Kind       string                 `json:"kind"`
	Action     string                 `json:"action"`
}

type passengerChangeResult struct {
	Passengers models.PassengerCounts `json:"passengers"`
	Changed    bool                   `json:"changed"`
}

// AdjustPassengers applies one stepper action to the submitted counts and
// returns the counts to display.
func AdjustPassengers(c echo.Context) error {
	var body passengerChange
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Failed to parse request body: "+err.Error())
	}

	kind, err := passengers.ParseKind(body.Kind)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result := passengerChangeResult{}
	sel := passengers.NewSelector(body.Passengers, func(counts models.PassengerCounts) {
		result.Changed = true
	})

	switch body.Action {
	case "increment":
		sel.Increment(kind)
	case "decrement":
		sel.Decrement(kind)
	default:
		return badRequest(c, "action must be increment or decrement")
	}

	result.Passengers = sel.Counts()
	return c.JSON(http.StatusOK, result)
}
