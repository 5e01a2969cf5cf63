package validation

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dharmasatrya/travelsearch/internal/models"
	"github.com/dharmasatrya/travelsearch/internal/timezone"
)

// date reports a required date field and returns its parsed value when valid.
func (v *Validator) date(sl validator.StructLevel, raw, field, structField string) (time.Time, bool) {
	if raw == "" {
		sl.ReportError(raw, field, structField, "required", "")
		return time.Time{}, false
	}
	t, err := timezone.ParseDate(raw)
	if err != nil {
		sl.ReportError(raw, field, structField, "date", "")
		return time.Time{}, false
	}
	return t, true
}

func (v *Validator) flightRules(sl validator.StructLevel) {
	form := sl.Current().Interface().(models.FlightSearchForm)

	departure, depOK := v.date(sl, form.DepartureDate, "departure_date", "DepartureDate")
	if depOK && departure.Before(v.today()) {
		sl.ReportError(form.DepartureDate, "departure_date", "DepartureDate", "not_past", "")
	}

	if form.TripType == models.TripRoundTrip {
		if form.ReturnDate == "" {
			sl.ReportError(form.ReturnDate, "return_date", "ReturnDate", "required_round_trip", "")
		} else if ret, ok := v.date(sl, form.ReturnDate, "return_date", "ReturnDate"); ok && depOK && ret.Before(departure) {
			sl.ReportError(form.ReturnDate, "return_date", "ReturnDate", "not_before_departure", "")
		}
	}

	p := form.Passengers
	switch {
	case p.Adults < 1:
		sl.ReportError(p.Adults, "passengers", "Passengers", "min", "1 adult")
	case p.Children < 0 || p.Infants < 0:
		sl.ReportError(p, "passengers", "Passengers", "non_negative", "")
	case p.Total() > MaxPassengers:
		sl.ReportError(p, "passengers", "Passengers", "passenger_total", "")
	case p.Infants > p.Adults:
		sl.ReportError(p, "passengers", "Passengers", "infants_per_adult", "")
	}
}

func (v *Validator) hotelRules(sl validator.StructLevel) {
	form := sl.Current().Interface().(models.HotelSearchForm)

	checkIn, inOK := v.date(sl, form.CheckIn, "check_in", "CheckIn")
	if inOK && checkIn.Before(v.today()) {
		sl.ReportError(form.CheckIn, "check_in", "CheckIn", "not_past", "")
	}

	checkOut, outOK := v.date(sl, form.CheckOut, "check_out", "CheckOut")
	if inOK && outOK && !checkOut.After(checkIn) {
		sl.ReportError(form.CheckOut, "check_out", "CheckOut", "after_check_in", "")
	}
}
