package services

import (
	"errors"

	"github.com/username/faturamento/backend/src/models"
	"github.com/username/faturamento/backend/src/parsers"
)

var (
	ErrDatasetNotFound = errors.New("dataset not found or expired")
	ErrParsingFailed   = errors.New("failed to parse file")
	// ErrUnsupportedFormat covers unknown upload and export formats.
	ErrUnsupportedFormat = parsers.ErrUnsupportedFormat
	ErrInvalidFilter     = models.ErrInvalidFilter
)
