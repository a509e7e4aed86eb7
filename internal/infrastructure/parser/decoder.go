package parser

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/shelf-planogram/internal/domain/entity"
	"github.com/yourusername/shelf-planogram/internal/domain/repository"
	"go.uber.org/zap"
)

// FileFormat supported upload encodings
type FileFormat string

const (
	FormatCSV  FileFormat = "csv"
	FormatXLSX FileFormat = "xlsx"
	FormatXLS  FileFormat = "xls"
)

// DefaultDelimiter csv field separator
const DefaultDelimiter = ","

// DetectFormat maps a file name to its format by lower-cased extension
func DetectFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	default:
		return "", &entity.UnsupportedFileTypeError{Extension: ext}
	}
}

type tabularDecoder struct {
	delimiter string
	logger    *zap.Logger
}

// NewTabularDecoder creates a decoder; an empty delimiter falls back to DefaultDelimiter
func NewTabularDecoder(delimiter string, logger *zap.Logger) repository.TabularDecoder {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tabularDecoder{delimiter: delimiter, logger: logger}
}

// Decode grid from raw file bytes
func (d *tabularDecoder) Decode(ctx context.Context, data []byte, filename string) (*entity.Grid, error) {
	return d.DecodeSource(ctx, NewBytesSource(filename, data))
}

// DecodeSource dispatches on the file extension; both branches yield the same grid shape
func (d *tabularDecoder) DecodeSource(ctx context.Context, src repository.FileSource) (*entity.Grid, error) {
	format, err := DetectFormat(src.Name())
	if err != nil {
		return nil, err
	}

	var lines [][]string
	switch format {
	case FormatCSV:
		text, err := src.ReadAsText(ctx)
		if err != nil {
			return nil, err
		}
		lines = d.splitDelimited(text)
	default:
		data, err := src.ReadAsWorkbook(ctx)
		if err != nil {
			return nil, err
		}
		lines, err = d.readWorkbook(data)
		if err != nil {
			return nil, err
		}
	}

	if len(lines) == 0 {
		return nil, entity.ErrEmptyFile
	}

	d.logger.Debug("decoded file",
		zap.String("file", src.Name()),
		zap.String("format", string(format)),
		zap.Strings("header", lines[0]),
		zap.Int("data_rows", len(lines)-1))

	return &entity.Grid{Header: lines[0], Rows: lines[1:]}, nil
}

// splitDelimited splits on line breaks and then on the delimiter. Lines whose cells are
// all blank (",," included) are dropped, as readWorkbook drops blank sheet rows.
// Cells are not trimmed here.
func (d *tabularDecoder) splitDelimited(text string) [][]string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines [][]string
	for _, line := range strings.Split(text, "\n") {
		cells := strings.Split(line, d.delimiter)
		if isEmptyRow(cells) {
			continue
		}
		lines = append(lines, cells)
	}
	return lines
}

// readWorkbook first sheet only; formulas are read as their cached values
func (d *tabularDecoder) readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, entity.ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	lines := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		lines = append(lines, row)
	}
	return lines, nil
}

// isEmptyRow reports whether every cell is blank
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
