// backend/src/handlers/dataset_handler.go
package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/username/faturamento/backend/src/config"
	"github.com/username/faturamento/backend/src/logger"
	"github.com/username/faturamento/backend/src/models"
	"github.com/username/faturamento/backend/src/security/validation"
	"github.com/username/faturamento/backend/src/services"
	"github.com/username/faturamento/backend/src/utils"
)

// Multipart field names accepted by HandleUpload.
const (
	formFieldFile  = "file"
	formFieldFiles = "files"
)

type DatasetHandler struct {
	reportService services.ReportService
}

func NewDatasetHandler(service services.ReportService) *DatasetHandler {
	return &DatasetHandler{
		reportService: service,
	}
}

// HandleUpload ingests one or more ledger files. Each file gets its own entry
// in the response, in upload order; a rejected file does not fail the request.
func (h *DatasetHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := config.Cfg.MaxUploadSizeBytes
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", maxBytes)
		utils.SendJSONError(w, fmt.Sprintf("Falha ao ler o formulário ou arquivo muito grande (máx. %d MB)", maxBytes/(1024*1024)), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := append(r.MultipartForm.File[formFieldFile], r.MultipartForm.File[formFieldFiles]...)
	if len(headers) == 0 {
		logger.L.Warn("Upload request without files")
		utils.SendJSONError(w, "Nenhum arquivo enviado. Use o campo 'file' ou 'files'.", http.StatusBadRequest)
		return
	}

	results := make([]models.DatasetInfo, len(headers))
	var accepted []services.UploadFile
	var positions []int
	for i, fh := range headers {
		file, err := openValidated(fh, maxBytes)
		if err != nil {
			results[i] = models.DatasetInfo{FileName: fh.Filename, Error: err.Error()}
			continue
		}
		defer file.Close()
		accepted = append(accepted, services.UploadFile{Name: fh.Filename, Content: file})
		positions = append(positions, i)
	}

	if len(accepted) > 0 {
		for j, info := range h.reportService.Upload(accepted) {
			results[positions[j]] = info
		}
	}
	logger.L.Info("Upload request processed", "files", len(headers), "accepted", len(accepted))
	utils.SendJSON(w, results, http.StatusOK)
}

// openValidated applies the size, declared type and magic byte checks to one
// uploaded file and returns it rewound.
func openValidated(fh *multipart.FileHeader, maxBytes int64) (multipart.File, error) {
	if fh.Size > maxBytes {
		logger.L.Warn("Uploaded file header reports size too large", "filename", fh.Filename, "fileSize", fh.Size, "limit", maxBytes)
		return nil, fmt.Errorf("%w: arquivo muito grande, máx. %d MB", validation.ErrValidationFailed, maxBytes/(1024*1024))
	}

	ext, err := validation.ValidateFileName(fh.Filename)
	if err != nil {
		logger.L.Warn("Rejected upload by file name", "filename", fh.Filename, "error", err)
		return nil, err
	}
	clientContentType := fh.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(ext, clientContentType); err != nil {
		logger.L.Warn("Invalid client-declared file type", "filename", fh.Filename, "contentType", clientContentType, "error", err)
		return nil, err
	}

	file, err := fh.Open()
	if err != nil {
		logger.L.Error("Failed to open uploaded file", "filename", fh.Filename, "error", err)
		return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file, ext)
	if err != nil {
		file.Close()
		logger.L.Warn("Server-side file content validation failed", "filename", fh.Filename, "error", err)
		return nil, err
	}
	logger.L.Debug("File content validated by magic bytes", "filename", fh.Filename, "clientType", clientContentType, "detectedType", detectedContentType)
	return file, nil
}

func (h *DatasetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, h.reportService.ListDatasets(), http.StatusOK)
}

func (h *DatasetHandler) HandleDiscard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.reportService.Discard(id); err != nil {
		sendServiceError(w, err, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sendServiceError maps service errors to HTTP responses.
func sendServiceError(w http.ResponseWriter, err error, datasetID string) {
	switch {
	case errors.Is(err, services.ErrDatasetNotFound):
		utils.SendJSONError(w, "Conjunto de dados não encontrado ou expirado. Envie o arquivo novamente.", http.StatusNotFound)
	case errors.Is(err, services.ErrInvalidFilter):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrUnsupportedFormat), errors.Is(err, validation.ErrValidationFailed):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrParsingFailed):
		utils.SendJSONError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		logger.L.Error("Internal error handling dataset request", "datasetID", datasetID, "error", err)
		utils.SendJSONError(w, "Ocorreu um erro interno. Tente novamente mais tarde.", http.StatusInternalServerError)
	}
}
