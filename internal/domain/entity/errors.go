package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFile no usable lines, sheets or data rows after decoding
	ErrEmptyFile = errors.New("file has no data rows")

	ErrFacingNotFound = errors.New("facing entry not found")
	ErrRowOutOfRange  = errors.New("planogram row index out of range")
	ErrDraftNotFound  = errors.New("draft not found")

	// ErrStaleUpload a newer upload was started on the same draft
	ErrStaleUpload = errors.New("upload superseded by a newer one")
)

// MissingColumnError required header absent; the whole import is aborted
type MissingColumnError struct {
	Field string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found in header", e.Field)
}

// UnsupportedFileTypeError extension is not csv, xlsx or xls
type UnsupportedFileTypeError struct {
	Extension string
}

func (e *UnsupportedFileTypeError) Error() string {
	if e.Extension == "" {
		return "unsupported file type: file has no extension"
	}
	return fmt.Sprintf("unsupported file type: %s", e.Extension)
}

// DuplicateSkuError manual add targeting an existing facings key
type DuplicateSkuError struct {
	SkuID string
}

func (e *DuplicateSkuError) Error() string {
	return fmt.Sprintf("sku %s already has a facings entry", e.SkuID)
}

// InvalidFacingsError facings value is not a non-negative integer. Row is the 1-based
// data row for file imports and 0 for manual entry.
type InvalidFacingsError struct {
	Value string
	Row   int
}

func (e *InvalidFacingsError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("invalid facings %q in data row %d: must be a non-negative integer", e.Value, e.Row)
	}
	return fmt.Sprintf("invalid facings %q: must be a non-negative integer", e.Value)
}

// UnknownSkuError SKU is not registered in the organization catalog
type UnknownSkuError struct {
	SkuID string
}

func (e *UnknownSkuError) Error() string {
	return fmt.Sprintf("sku %s is not in the catalog", e.SkuID)
}

// InvalidShopFieldError identity field empty after trimming
type InvalidShopFieldError struct {
	Field string
}

func (e *InvalidShopFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// SubmissionError failure reported by the shop endpoint, passed through verbatim
type SubmissionError struct {
	Reason string
}

func (e *SubmissionError) Error() string {
	return e.Reason
}
