package repository

import (
	"context"

	"github.com/yourusername/shelf-planogram/internal/domain/entity"
)

// FileSource file reading capability, so decoding never depends on where bytes come from
type FileSource interface {
	// ReadAsText delimited text content
	ReadAsText(ctx context.Context) (string, error)

	// ReadAsWorkbook raw spreadsheet bytes
	ReadAsWorkbook(ctx context.Context) ([]byte, error)

	// Name file name including extension
	Name() string
}

// TabularDecoder decodes csv and spreadsheet files into one grid shape
type TabularDecoder interface {
	// Decode grid from raw file bytes
	Decode(ctx context.Context, data []byte, filename string) (*entity.Grid, error)

	// DecodeSource reads through a FileSource
	DecodeSource(ctx context.Context, src FileSource) (*entity.Grid, error)
}

// PlanogramParser turns an uploaded file into the planogram sequence and facings map
type PlanogramParser interface {
	// ParseFromBytes parse raw file bytes
	ParseFromBytes(ctx context.Context, data []byte, filename string) (*entity.ImportResult, error)

	// ParseSource parse through a FileSource
	ParseSource(ctx context.Context, src FileSource) (*entity.ImportResult, error)
}
