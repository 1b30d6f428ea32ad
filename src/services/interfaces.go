package services

import (
	"io"

	"github.com/username/faturamento/backend/src/models"
)

// UploadFile is one file of a multi-file upload.
type UploadFile struct {
	Name    string
	Content io.Reader
}

// ExportFile is a rendered download.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ReportService runs the ingest pipeline and answers dashboard queries over
// the stored datasets.
type ReportService interface {
	Upload(files []UploadFile) []models.DatasetInfo
	ListDatasets() []models.DatasetInfo
	Discard(id string) error
	FilterOptions(id string, criteria models.FilterCriteria) (*models.FilterOptions, error)
	Records(id string, criteria models.FilterCriteria) (*models.TableView, error)
	Summary(id string, criteria models.FilterCriteria) (*models.SummaryView, error)
	Margins(id string, dimension models.Dimension, topN int, criteria models.FilterCriteria) (*models.ChartView, error)
	Report(id string, criteria models.FilterCriteria, topN int) (*models.Report, error)
	Export(id string, format string, criteria models.FilterCriteria) (*ExportFile, error)
}
