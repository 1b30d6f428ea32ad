package handlers

import "net/http"

// RegisterRoutes mounts the dataset API on mux.
func RegisterRoutes(mux *http.ServeMux, datasets *DatasetHandler, reports *ReportHandler) {
	mux.HandleFunc("POST /api/datasets", datasets.HandleUpload)
	mux.HandleFunc("GET /api/datasets", datasets.HandleList)
	mux.HandleFunc("DELETE /api/datasets/{id}", datasets.HandleDiscard)

	mux.HandleFunc("GET /api/datasets/{id}/filters", reports.HandleFilterOptions)
	mux.HandleFunc("GET /api/datasets/{id}/records", reports.HandleRecords)
	mux.HandleFunc("GET /api/datasets/{id}/summary", reports.HandleSummary)
	mux.HandleFunc("GET /api/datasets/{id}/margins/{dimension}", reports.HandleMargins)
	mux.HandleFunc("GET /api/datasets/{id}/report", reports.HandleReport)
	mux.HandleFunc("GET /api/datasets/{id}/export", reports.HandleExport)
}
