package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/username/faturamento/backend/src/logger"
)

// ErrValidationFailed wraps every upload rejected before parsing.
var ErrValidationFailed = errors.New("file validation failed")

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// AllowedClientContentTypes maps each supported extension to the
// client-declared MIME types accepted for it.
var AllowedClientContentTypes = map[string]map[string]bool{
	".csv": {
		"text/csv":                 true,
		"application/csv":          true,
		"application/vnd.ms-excel": true, // Often used for CSV by older Excel
		"text/plain":               true,
		"application/octet-stream": true,
	},
	".xlsx": {
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
		"application/zip":          true,
		"application/octet-stream": true,
	},
	".xls": {
		"application/vnd.ms-excel": true,
		"application/octet-stream": true,
	},
}

// ValidateFileName checks that the upload has a supported extension and
// returns it lower-cased.
func ValidateFileName(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedClientContentTypes[ext]; !ok {
		logger.L.Warn("Disallowed file extension", "filename", filename)
		return "", fmt.Errorf("%w: extension '%s' is not supported, use .csv, .xlsx or .xls", ErrValidationFailed, ext)
	}
	return ext, nil
}

// ValidateClientContentType checks the Content-Type header provided by the client.
// An empty header is accepted; the magic byte check still applies.
func ValidateClientContentType(ext, contentType string) error {
	if contentType == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	if !AllowedClientContentTypes[ext][strings.ToLower(mediaType)] {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType, "extension", ext)
		return fmt.Errorf("%w: client-declared file type '%s' is not allowed for %s upload", ErrValidationFailed, contentType, ext)
	}
	return nil
}

// ValidateFileContentByMagicBytes checks the actual file content signature (magic bytes).
// It returns the detected content type and an error if validation fails.
func ValidateFileContentByMagicBytes(file io.ReadSeeker, ext string) (string, error) {
	if file == nil {
		return "", fmt.Errorf("%w: file is nil", ErrValidationFailed)
	}

	buffer := make([]byte, 512) // Read first 512 bytes for MIME detection
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file for content type checking: %w", err)
	}

	// Reset the read pointer so the parser can read the full file.
	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("failed to reset file read pointer: %w", seekErr)
	}
	head := buffer[:n]

	detectedContentType := http.DetectContentType(head)
	detectedContentType = strings.ToLower(strings.Split(detectedContentType, ";")[0]) // Normalize (e.g. "text/plain; charset=utf-8")

	var ok bool
	switch ext {
	case ".csv":
		// Delimited ledgers must be text; parsing rejects anything malformed later.
		ok = detectedContentType == "text/plain" || detectedContentType == "text/csv" ||
			detectedContentType == "application/octet-stream"
	case ".xlsx":
		ok = bytes.HasPrefix(head, zipMagic)
	case ".xls":
		ok = bytes.HasPrefix(head, oleMagic)
	}

	if !ok {
		logger.L.Warn("Disallowed detected file content type (magic bytes)", "detectedContentType", detectedContentType, "extension", ext)
		return detectedContentType, fmt.Errorf("%w: detected file content type '%s' is not consistent with a %s file", ErrValidationFailed, detectedContentType, ext)
	}

	logger.L.Debug("File content type (magic bytes) validated", "detectedContentType", detectedContentType, "extension", ext)
	return detectedContentType, nil
}
