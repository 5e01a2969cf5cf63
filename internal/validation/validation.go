package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dharmasatrya/travelsearch/internal/models"
	"github.com/dharmasatrya/travelsearch/internal/timezone"
)

const MaxPassengers = 10

// FieldErrors maps a form field to its first violated rule.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + f[k]
	}
	return strings.Join(parts, "; ")
}

func (f FieldErrors) add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New builds a validator. now supplies "today" for date rules; nil means time.Now.
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}

	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      now,
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.validate.RegisterStructValidation(v.flightRules, models.FlightSearchForm{})
	v.validate.RegisterStructValidation(v.hotelRules, models.HotelSearchForm{})

	return v
}

func (v *Validator) today() time.Time {
	return timezone.DateOnly(v.now())
}

// ValidateFlightSearch checks every rule and returns either a normalized
// request or all field errors.
func (v *Validator) ValidateFlightSearch(form models.FlightSearchForm) (models.FlightSearchRequest, FieldErrors) {
	form = normalizeFlightForm(form)

	if errs := v.run(form); len(errs) > 0 {
		return models.FlightSearchRequest{}, errs
	}

	departure, _ := timezone.ParseDate(form.DepartureDate)
	req := models.FlightSearchRequest{
		Origin:        *form.Origin,
		Destination:   *form.Destination,
		DepartureDate: departure,
		Passengers:    form.Passengers,
		CabinClass:    form.CabinClass,
	}
	if form.TripType == models.TripRoundTrip {
		ret, _ := timezone.ParseDate(form.ReturnDate)
		req.ReturnDate = &ret
	}

	return req, nil
}

func (v *Validator) ValidateHotelSearch(form models.HotelSearchForm) (models.HotelSearchRequest, FieldErrors) {
	form.Destination = strings.TrimSpace(form.Destination)
	form.EntityID = strings.TrimSpace(form.EntityID)
	form.CheckIn = strings.TrimSpace(form.CheckIn)
	form.CheckOut = strings.TrimSpace(form.CheckOut)

	if errs := v.run(form); len(errs) > 0 {
		return models.HotelSearchRequest{}, errs
	}

	checkIn, _ := timezone.ParseDate(form.CheckIn)
	checkOut, _ := timezone.ParseDate(form.CheckOut)

	return models.HotelSearchRequest{
		Destination: form.Destination,
		EntityID:    form.EntityID,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Adults:      form.Adults,
		Children:    form.Children,
		Rooms:       form.Rooms,
	}, nil
}

func (v *Validator) run(form any) FieldErrors {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"form": err.Error()}
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		path := strings.Split(fe.Namespace(), ".")[1:]
		if len(path) == 0 {
			continue
		}
		if len(path) > 1 {
			out.add(path[0], "must be selected from the suggestions")
			continue
		}
		out.add(path[0], message(fe))
	}
	return out
}

func normalizeFlightForm(form models.FlightSearchForm) models.FlightSearchForm {
	form.TripType = strings.ToLower(strings.TrimSpace(form.TripType))
	form.CabinClass = strings.ToLower(strings.TrimSpace(form.CabinClass))
	form.DepartureDate = strings.TrimSpace(form.DepartureDate)
	form.ReturnDate = strings.TrimSpace(form.ReturnDate)
	form.Origin = trimPlace(form.Origin)
	form.Destination = trimPlace(form.Destination)
	return form
}

func trimPlace(p *models.Place) *models.Place {
	if p == nil {
		return nil
	}
	out := *p
	out.Label = strings.TrimSpace(out.Label)
	out.Value = strings.TrimSpace(out.Value)
	out.City = strings.TrimSpace(out.City)
	out.Country = strings.TrimSpace(out.Country)
	out.EntityID = strings.TrimSpace(out.EntityID)
	return &out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "must be at least " + fe.Param()
	case "ltefield":
		return "cannot exceed " + strings.ToLower(fe.Param())
	case "date":
		return "must be a date in YYYY-MM-DD format"
	case "not_past":
		return "cannot be in the past"
	case "required_round_trip":
		return "is required for round trips"
	case "not_before_departure":
		return "must be on or after the departure date"
	case "after_check_in":
		return "must be after check-in"
	case "passenger_total":
		return fmt.Sprintf("must be between 1 and %d travellers", MaxPassengers)
	case "infants_per_adult":
		return "each infant must travel with an adult"
	case "non_negative":
		return "cannot be negative"
	default:
		return "is invalid"
	}
}
