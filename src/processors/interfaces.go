package processors

import (
	"github.com/username/faturamento/backend/src/models"
)

// SchemaNormalizer maps the columns of a raw table onto the canonical vocabulary.
type SchemaNormalizer interface {
	Normalize(raw *models.RawTable) (*models.NormalizedTable, error)
}

// ValueCoercer converts locale formatted cells into typed records.
type ValueCoercer interface {
	Coerce(table *models.NormalizedTable) (*models.CoercedTable, error)
}

// MarginEngine guarantees a margin percentage on every record.
type MarginEngine interface {
	Apply(table *models.CoercedTable) *models.Dataset
}

// FilterEngine selects the records matching the user's criteria.
type FilterEngine interface {
	Filter(ds *models.Dataset, criteria models.FilterCriteria) []models.Record
	Options(ds *models.Dataset, criteria models.FilterCriteria) models.FilterOptions
}

// Aggregator groups records into a margin breakdown.
type Aggregator interface {
	Aggregate(records []models.Record, caps models.Capabilities, opts models.AggregateOptions) (*models.MarginBreakdown, error)
}
