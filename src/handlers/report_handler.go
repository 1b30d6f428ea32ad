// backend/src/handlers/report_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/username/faturamento/backend/src/logger"
	"github.com/username/faturamento/backend/src/models"
	"github.com/username/faturamento/backend/src/services"
	"github.com/username/faturamento/backend/src/utils"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(service services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: service,
	}
}

// criteria reads the filter selection from the query string, answering 400
// itself when it is malformed.
func criteria(w http.ResponseWriter, r *http.Request) (models.FilterCriteria, bool) {
	c, err := models.ParseFilterCriteria(r.URL.Query())
	if err != nil {
		logger.L.Warn("Invalid filter parameters", "query", r.URL.RawQuery, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return models.FilterCriteria{}, false
	}
	return c, true
}

// topN reads the optional top query parameter. Zero means the default.
func topN(w http.ResponseWriter, r *http.Request) (int, bool) {
	s := strings.TrimSpace(r.URL.Query().Get("top"))
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("invalid top parameter %q", s), http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

func (h *ReportHandler) HandleFilterOptions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, ok := criteria(w, r)
	if !ok {
		return
	}
	opts, err := h.reportService.FilterOptions(id, c)
	if err != nil {
		sendServiceError(w, err, id)
		return
	}
	utils.SendJSON(w, opts, http.StatusOK)
}

func (h *ReportHandler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, ok := criteria(w, r)
	if !ok {
		return
	}
	table, err := h.reportService.Records(id, c)
	if err != nil {
		sendServiceError(w, err, id)
		return
	}
	sendWithETag(w, r, table, id)
}

func (h *ReportHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, ok := criteria(w, r)
	if !ok {
		return
	}
	summary, err := h.reportService.Summary(id, c)
	if err != nil {
		sendServiceError(w, err, id)
		return
	}
	utils.SendJSON(w, summary, http.StatusOK)
}

func (h *ReportHandler) HandleMargins(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	dimension, err := models.ParseDimension(r.PathValue("dimension"))
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	c, ok := criteria(w, r)
	if !ok {
		return
	}
	n, ok := topN(w, r)
	if !ok {
		return
	}
	chart, err := h.reportService.Margins(id, dimension, n, c)
	if err != nil {
		sendServiceError(w, err, id)
		return
	}
	utils.SendJSON(w, chart, http.StatusOK)
}

func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, ok := criteria(w, r)
	if !ok {
		return
	}
	n, ok := topN(w, r)
	if !ok {
		return
	}
	logger.L.Debug("Handling report request with ETag support", "datasetID", id)
	report, err := h.reportService.Report(id, c, n)
	if err != nil {
		sendServiceError(w, err, id)
		return
	}
	sendWithETag(w, r, report, id)
}

func (h *ReportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, ok := criteria(w, r)
	if !ok {
		return
	}
	file, err := h.reportService.Export(id, r.URL.Query().Get("format"), c)
	if err != nil {
		sendServiceError(w, err, id)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		logger.L.Error("Error writing export response", "datasetID", id, "error", err)
	}
}

// sendWithETag answers 304 when the client already holds this exact payload.
func sendWithETag(w http.ResponseWriter, r *http.Request, data interface{}, datasetID string) {
	currentETag, etagErr := utils.GenerateETag(data)
	if etagErr != nil {
		logger.L.Error("Failed to generate ETag", "datasetID", datasetID, "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		clientETag := r.Header.Get("If-None-Match")
		for _, cETag := range strings.Split(clientETag, ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				logger.L.Info("ETag match", "datasetID", datasetID, "etag", currentETag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
		if clientETag != "" {
			logger.L.Debug("ETag mismatch", "datasetID", datasetID, "clientETags", clientETag, "serverETag", quotedETag)
		}
	}

	utils.SendJSON(w, data, http.StatusOK)
}
