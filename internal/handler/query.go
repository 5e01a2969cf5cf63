package handler

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/dharmasatrya/travelsearch/internal/filter"
)

// viewKey identifies a filter and sort combination; the page tracker resets
// to page 1 whenever it changes.
func viewKey(q url.Values) string {
	view := url.Values{}
	for k, v := range q {
		if k != "page" {
			view[k] = v
		}
	}
	return view.Encode()
}

func parsePage(q url.Values) (int, error) {
	raw := q.Get("page")
	if raw == "" {
		return 0, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("page must be a positive integer")
	}
	return page, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloat(q url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &v, nil
}

// parseRange reads an inclusive range from minKey and maxKey. Missing ends
// default to the given bounds; nil means neither end was set.
func parseRange(q url.Values, minKey, maxKey string, bounds filter.Range) (*filter.Range, error) {
	lo, err := parseFloat(q, minKey)
	if err != nil {
		return nil, err
	}
	hi, err := parseFloat(q, maxKey)
	if err != nil {
		return nil, err
	}
	if lo == nil && hi == nil {
		return nil, nil
	}

	if lo != nil && hi != nil && *lo > *hi {
		return nil, fmt.Errorf("%s cannot exceed %s", minKey, maxKey)
	}

	r := bounds
	if lo != nil {
		r.Min = *lo
	}
	if hi != nil {
		r.Max = *hi
	}
	return &r, nil
}

func parseStops(raw string) ([]int, error) {
	var stops []int
	for _, part := range splitList(raw) {
		if strings.HasSuffix(part, "+") {
			n, err := strconv.Atoi(strings.TrimSuffix(part, "+"))
			if err != nil || n != filter.StopsBucketFloor {
				return nil, fmt.Errorf("stops bucket must be %d+", filter.StopsBucketFloor)
			}
			stops = append(stops, filter.TwoOrMoreStops)
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("stops must be non-negative integers")
		}
		stops = append(stops, n)
	}
	return stops, nil
}

func parseTriState(q url.Values, key string) (filter.TriState, error) {
	switch t := filter.TriState(strings.ToLower(strings.TrimSpace(q.Get(key)))); t {
	case filter.Either, filter.Yes, filter.No:
		return t, nil
	case "any", "either":
		return filter.Either, nil
	default:
		return filter.Either, fmt.Errorf("%s must be yes, no or either", key)
	}
}

// parseCriteria builds flight criteria from query parameters. Unset ranges
// keep the defaults derived from bounds.
func parseCriteria(q url.Values, bounds filter.Bounds) (filter.Criteria, error) {
	c := filter.DefaultCriteria(bounds)

	stops, err := parseStops(q.Get("stops"))
	if err != nil {
		return c, err
	}
	c.Stops = stops
	c.Airlines = splitList(q.Get("airlines"))

	if r, err := parseRange(q, "price_min", "price_max", bounds.Price); err != nil {
		return c, err
	} else if r != nil {
		c.Price = r
	}
	if r, err := parseRange(q, "duration_min", "duration_max", bounds.Duration); err != nil {
		return c, err
	} else if r != nil {
		c.Duration = r
	}
	if r, err := parseRange(q, "departure_from", "departure_to", filter.FullDay); err != nil {
		return c, err
	} else if r != nil {
		c.DepartureHours = r
	}
	if r, err := parseRange(q, "arrival_from", "arrival_to", filter.FullDay); err != nil {
		return c, err
	} else if r != nil {
		c.ArrivalHours = r
	}

	if c.Refundable, err = parseTriState(q, "refundable"); err != nil {
		return c, err
	}
	if c.Changeable, err = parseTriState(q, "changeable"); err != nil {
		return c, err
	}

	return c, nil
}

func parseHotelCriteria(q url.Values, bounds filter.HotelBounds) (filter.HotelCriteria, error) {
	c := filter.DefaultHotelCriteria(bounds)

	if r, err := parseRange(q, "price_min", "price_max", bounds.Price); err != nil {
		return c, err
	} else if r != nil {
		c.Price = r
	}

	if score, err := parseFloat(q, "min_rating"); err != nil {
		return c, err
	} else if score != nil {
		c.MinReviewScore = *score
	}

	for _, s := range splitList(q.Get("stars")) {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > 5 {
			return c, fmt.Errorf("stars must be integers between 0 and 5")
		}
		c.Stars = append(c.Stars, n)
	}
	sort.Ints(c.Stars)

	c.Discounts = splitList(q.Get("discounts"))
	c.Amenities = splitList(q.Get("amenities"))
	c.AccommodationTypes = splitList(q.Get("types"))
	c.PopularWith = splitList(q.Get("popular_with"))

	return c, nil
}
