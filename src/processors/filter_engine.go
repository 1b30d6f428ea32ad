package processors

import (
	"sort"
	"time"

	"github.com/username/faturamento/backend/src/models"
	"github.com/username/faturamento/backend/src/utils"
)

// Filter names reported in FilterOptions.Unavailable.
const (
	FilterDate           = "date"
	FilterMovementType   = "movement_type"
	FilterRepresentative = "representative"
	FilterCustomer       = "customer"
	FilterProduct        = "product"
)

var unavailableMessages = map[string]string{
	FilterDate:           "Coluna de data não encontrada ou formato inválido para filtro.",
	FilterMovementType:   "Coluna de tipo de movimento não encontrada.",
	FilterRepresentative: "Coluna de representante não encontrada.",
	FilterCustomer:       "Coluna de cliente não encontrada.",
	FilterProduct:        "Coluna de produto não encontrada.",
}

// categorical ties a filter to the record field it matches.
type categorical struct {
	name   string
	field  string
	values func(models.FilterCriteria) []string
}

// Sidebar order; each option list is computed after the filters before it.
var categoricalFilters = []categorical{
	{FilterMovementType, models.FieldMovementType, func(c models.FilterCriteria) []string { return c.MovementTypes }},
	{FilterRepresentative, models.FieldRepresentative, func(c models.FilterCriteria) []string { return c.Representatives }},
	{FilterCustomer, models.FieldCustomer, func(c models.FilterCriteria) []string { return c.Customers }},
	{FilterProduct, models.FieldDescription, func(c models.FilterCriteria) []string { return c.Products }},
}

type filterEngineImpl struct{}

func NewFilterEngine() FilterEngine {
	return &filterEngineImpl{}
}

// Filter returns the records matching every criterion. Empty criteria and
// criteria on columns the file does not have do not restrict.
func (f *filterEngineImpl) Filter(ds *models.Dataset, criteria models.FilterCriteria) []models.Record {
	out := make([]models.Record, 0, len(ds.Records))
	for _, r := range ds.Records {
		if matchesDate(ds.Capabilities, r, criteria) && matchesCategories(ds.Capabilities, r, criteria, len(categoricalFilters)) {
			out = append(out, r)
		}
	}
	return out
}

// Options lists the values each filter can take. Lists cascade: the
// representatives offered are those left after the date and movement type
// filters, and so on.
func (f *filterEngineImpl) Options(ds *models.Dataset, criteria models.FilterCriteria) models.FilterOptions {
	opts := models.FilterOptions{
		MovementTypes:   []string{},
		Representatives: []string{},
		Customers:       []string{},
		Products:        []string{},
	}
	caps := ds.Capabilities

	if caps.HasSource(models.FieldDate) {
		opts.DateMin, opts.DateMax = DateRange(ds.Records)
	} else {
		markUnavailable(&opts, FilterDate)
	}

	view := make([]models.Record, 0, len(ds.Records))
	for _, r := range ds.Records {
		if matchesDate(caps, r, criteria) {
			view = append(view, r)
		}
	}

	for i, cf := range categoricalFilters {
		if !caps.HasSource(cf.field) {
			markUnavailable(&opts, cf.name)
			continue
		}
		values := distinct(view, cf.field)
		switch cf.name {
		case FilterMovementType:
			opts.MovementTypes = values
		case FilterRepresentative:
			opts.Representatives = values
		case FilterCustomer:
			opts.Customers = values
		case FilterProduct:
			opts.Products = values
		}

		next := view[:0:0]
		for _, r := range view {
			if matchesCategories(caps, r, criteria, i+1) {
				next = append(next, r)
			}
		}
		view = next
	}
	return opts
}

func markUnavailable(opts *models.FilterOptions, name string) {
	if opts.Unavailable == nil {
		opts.Unavailable = make(map[string]string)
	}
	opts.Unavailable[name] = unavailableMessages[name]
}

func matchesDate(caps models.Capabilities, r models.Record, c models.FilterCriteria) bool {
	if !caps.HasSource(models.FieldDate) {
		return true
	}
	d := utils.CalendarDate(r.Date)
	if c.From != nil && d.Before(utils.CalendarDate(*c.From)) {
		return false
	}
	if c.To != nil && d.After(utils.CalendarDate(*c.To)) {
		return false
	}
	return true
}

// matchesCategories applies the first n categorical filters.
func matchesCategories(caps models.Capabilities, r models.Record, c models.FilterCriteria, n int) bool {
	for _, cf := range categoricalFilters[:n] {
		selected := cf.values(c)
		if len(selected) == 0 || !caps.HasSource(cf.field) {
			continue
		}
		if !contains(selected, r.Text(cf.field)) {
			return false
		}
	}
	return true
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func distinct(records []models.Record, field string) []string {
	set := make(map[string]bool)
	for _, r := range records {
		if v := r.Text(field); v != "" {
			set[v] = true
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// DateRange returns the calendar bounds of the records, or nils when there
// are none.
func DateRange(records []models.Record) (*time.Time, *time.Time) {
	if len(records) == 0 {
		return nil, nil
	}
	lo, hi := records[0].Date, records[0].Date
	for _, r := range records[1:] {
		if r.Date.Before(lo) {
			lo = r.Date
		}
		if r.Date.After(hi) {
			hi = r.Date
		}
	}
	lo, hi = utils.CalendarDate(lo), utils.CalendarDate(hi)
	return &lo, &hi
}
