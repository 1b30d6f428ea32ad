package models

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var ErrInvalidFilter = errors.New("invalid filter")

// FilterCriteria is the user's current selection. Empty slices and nil
// bounds do not restrict.
type FilterCriteria struct {
	From            *time.Time
	To              *time.Time
	MovementTypes   []string
	Representatives []string
	Customers       []string
	Products        []string
}

var filterDateLayouts = []string{"2006-01-02", "02/01/2006"}

// ParseFilterCriteria reads from, to, movement_type, representative,
// customer and product query parameters. Categorical parameters may be
// repeated.
func ParseFilterCriteria(q url.Values) (FilterCriteria, error) {
	var c FilterCriteria
	var err error
	if c.From, err = parseFilterDate(q.Get("from")); err != nil {
		return FilterCriteria{}, fmt.Errorf("%w: from: %v", ErrInvalidFilter, err)
	}
	if c.To, err = parseFilterDate(q.Get("to")); err != nil {
		return FilterCriteria{}, fmt.Errorf("%w: to: %v", ErrInvalidFilter, err)
	}
	if c.From != nil && c.To != nil && c.To.Before(*c.From) {
		return FilterCriteria{}, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidFilter)
	}
	c.MovementTypes = nonEmpty(q["movement_type"])
	c.Representatives = nonEmpty(q["representative"])
	c.Customers = nonEmpty(q["customer"])
	c.Products = nonEmpty(q["product"])
	return c, nil
}

func parseFilterDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range filterDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognised date %q", s)
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
