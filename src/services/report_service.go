// backend/src/services/report_service.go
package services

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/faturamento/backend/src/exporters"
	"github.com/username/faturamento/backend/src/logger"
	"github.com/username/faturamento/backend/src/models"
	"github.com/username/faturamento/backend/src/parsers"
	"github.com/username/faturamento/backend/src/processors"
)

const ckDataset = "dataset_%s"

// WarnNoRecords is attached to datasets that kept no rows after cleaning.
const WarnNoRecords = "Nenhum registro válido encontrado no arquivo após a limpeza dos dados."

type reportServiceImpl struct {
	normalizer   processors.SchemaNormalizer
	coercer      processors.ValueCoercer
	marginEngine processors.MarginEngine
	filterEngine processors.FilterEngine
	aggregator   processors.Aggregator
	datasetCache *cache.Cache
}

func NewReportService(
	normalizer processors.SchemaNormalizer,
	coercer processors.ValueCoercer,
	marginEngine processors.MarginEngine,
	filterEngine processors.FilterEngine,
	aggregator processors.Aggregator,
	datasetCache *cache.Cache,
) ReportService {
	return &reportServiceImpl{
		normalizer:   normalizer,
		coercer:      coercer,
		marginEngine: marginEngine,
		filterEngine: filterEngine,
		aggregator:   aggregator,
		datasetCache: datasetCache,
	}
}

// Upload ingests every file independently. A file that fails is reported in
// its DatasetInfo and does not affect the others.
func (s *reportServiceImpl) Upload(files []UploadFile) []models.DatasetInfo {
	infos := make([]models.DatasetInfo, 0, len(files))
	for _, file := range files {
		ds, err := s.ingest(file)
		if err != nil {
			logger.L.Warn("Dataset ingest failed", "filename", file.Name, "error", err)
			infos = append(infos, models.DatasetInfo{FileName: file.Name, Error: err.Error()})
			continue
		}
		s.datasetCache.Set(fmt.Sprintf(ckDataset, ds.ID), ds, cache.DefaultExpiration)
		infos = append(infos, ds.Info())
	}
	return infos
}

func (s *reportServiceImpl) ingest(file UploadFile) (*models.Dataset, error) {
	startTime := time.Now()
	logger.L.Info("Ingest START", "filename", file.Name)

	parser, err := parsers.GetParser(file.Name)
	if err != nil {
		return nil, err
	}
	raw, err := parser.Parse(file.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	normalized, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	coerced, err := s.coercer.Coerce(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	ds := s.marginEngine.Apply(coerced)
	ds.ID = uuid.NewString()
	ds.FileName = file.Name
	ds.UploadedAt = time.Now().UTC()
	if len(ds.Records) == 0 {
		ds.Warnings = append(ds.Warnings, WarnNoRecords)
	}

	logger.L.Info("Ingest END",
		"filename", file.Name,
		"datasetID", ds.ID,
		"records", len(ds.Records),
		"marginScaled", ds.MarginScaled,
		"duration", time.Since(startTime))
	return ds, nil
}

func (s *reportServiceImpl) dataset(id string) (*models.Dataset, error) {
	cached, found := s.datasetCache.Get(fmt.Sprintf(ckDataset, id))
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	return cached.(*models.Dataset), nil
}

func (s *reportServiceImpl) ListDatasets() []models.DatasetInfo {
	items := s.datasetCache.Items()
	infos := make([]models.DatasetInfo, 0, len(items))
	for key, item := range items {
		if !strings.HasPrefix(key, "dataset_") {
			continue
		}
		if ds, ok := item.Object.(*models.Dataset); ok {
			infos = append(infos, ds.Info())
		}
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].UploadedAt.Equal(infos[j].UploadedAt) {
			return infos[i].UploadedAt.Before(infos[j].UploadedAt)
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}

func (s *reportServiceImpl) Discard(id string) error {
	if _, err := s.dataset(id); err != nil {
		return err
	}
	s.datasetCache.Delete(fmt.Sprintf(ckDataset, id))
	logger.L.Info("Dataset discarded", "datasetID", id)
	return nil
}

func (s *reportServiceImpl) FilterOptions(id string, criteria models.FilterCriteria) (*models.FilterOptions, error) {
	ds, err := s.dataset(id)
	if err != nil {
		return nil, err
	}
	opts := s.filterEngine.Options(ds, criteria)
	return &opts, nil
}

func (s *reportServiceImpl) Records(id string, criteria models.FilterCriteria) (*models.TableView, error) {
	ds, err := s.dataset(id)
	if err != nil {
		return nil, err
	}
	return buildTable(s.filterEngine.Filter(ds, criteria), ds.Capabilities), nil
}

func (s *reportServiceImpl) Summary(id string, criteria models.FilterCriteria) (*models.SummaryView, error) {
	ds, err := s.dataset(id)
	if err != nil {
		return nil, err
	}
	return buildSummary(processors.Summarize(s.filterEngine.Filter(ds, criteria))), nil
}

func (s *reportServiceImpl) Margins(id string, dimension models.Dimension, topN int, criteria models.FilterCriteria) (*models.ChartView, error) {
	ds, err := s.dataset(id)
	if err != nil {
		return nil, err
	}
	return s.chart(ds, s.filterEngine.Filter(ds, criteria), dimension, topN), nil
}

func (s *reportServiceImpl) chart(ds *models.Dataset, records []models.Record, d models.Dimension, topN int) *models.ChartView {
	b, err := s.aggregator.Aggregate(records, ds.Capabilities, models.AggregateOptions{Dimension: d, TopN: topN})
	if err != nil {
		logger.L.Info("Chart skipped", "datasetID", ds.ID, "dimension", d, "reason", err)
	}
	return buildChart(d, topN, b, err)
}

// Report assembles everything one dashboard render needs from a single
// filtered view.
func (s *reportServiceImpl) Report(id string, criteria models.FilterCriteria, topN int) (*models.Report, error) {
	ds, err := s.dataset(id)
	if err != nil {
		return nil, err
	}
	records := s.filterEngine.Filter(ds, criteria)

	report := &models.Report{
		Dataset:  ds.Info(),
		Filters:  s.filterEngine.Options(ds, criteria),
		Summary:  *buildSummary(processors.Summarize(records)),
		Table:    *buildTable(records, ds.Capabilities),
		Warnings: ds.Warnings,
	}
	for _, d := range models.Dimensions {
		report.Charts = append(report.Charts, *s.chart(ds, records, d, topN))
	}
	return report, nil
}

func (s *reportServiceImpl) Export(id string, format string, criteria models.FilterCriteria) (*ExportFile, error) {
	ds, err := s.dataset(id)
	if err != nil {
		return nil, err
	}
	exporter, err := exporters.GetExporter(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	table := buildTable(s.filterEngine.Filter(ds, criteria), ds.Capabilities)
	var buf bytes.Buffer
	if err := exporter.Export(&buf, *table); err != nil {
		return nil, fmt.Errorf("failed to export dataset %s: %w", id, err)
	}

	return &ExportFile{
		FileName:    exportName(ds.FileName) + exporter.Extension(),
		ContentType: exporter.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

// exportName derives the download name from the uploaded file name.
func exportName(uploaded string) string {
	base := uploaded
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	base = strings.Map(func(r rune) rune {
		if r == '"' || r == '/' || r == '\\' || r < 0x20 {
			return -1
		}
		return r
	}, base)
	if strings.TrimSpace(base) == "" {
		base = "faturamento"
	}
	return base + "_filtrado"
}
