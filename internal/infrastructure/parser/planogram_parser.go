package parser

import (
	"context"

	"github.com/yourusername/shelf-planogram/internal/domain/entity"
	"github.com/yourusername/shelf-planogram/internal/domain/repository"
	"go.uber.org/zap"
)

type planogramParser struct {
	decoder repository.TabularDecoder
	logger  *zap.Logger
}

// NewPlanogramParser one decode/normalize stage feeding the sequencer and aggregator
func NewPlanogramParser(decoder repository.TabularDecoder, logger *zap.Logger) repository.PlanogramParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &planogramParser{decoder: decoder, logger: logger}
}

// ParseFromBytes parse raw file bytes
func (p *planogramParser) ParseFromBytes(ctx context.Context, data []byte, filename string) (*entity.ImportResult, error) {
	return p.ParseSource(ctx, NewBytesSource(filename, data))
}

// ParseSource decode, resolve columns, then build both structures. Any error aborts
// the import with nothing returned.
func (p *planogramParser) ParseSource(ctx context.Context, src repository.FileSource) (*entity.ImportResult, error) {
	grid, err := p.decoder.DecodeSource(ctx, src)
	if err != nil {
		return nil, err
	}

	cols, err := ResolveColumns(grid.Header)
	if err != nil {
		p.logger.Warn("column resolution failed", zap.String("file", src.Name()), zap.Error(err))
		return nil, err
	}
	p.logger.Debug("column mapping",
		zap.Int("sku_id", cols.SkuID),
		zap.Int("sku_name", cols.SkuName),
		zap.Int("facings", cols.Facings))

	if len(grid.Rows) == 0 {
		return nil, entity.ErrEmptyFile
	}

	planogram, dropped := BuildPlanogram(grid, cols)

	facings, err := BuildFacings(grid, cols)
	if err != nil {
		p.logger.Warn("facings rejected", zap.String("file", src.Name()), zap.Error(err))
		return nil, err
	}

	p.logger.Info("file parsed",
		zap.String("file", src.Name()),
		zap.Int("data_rows", len(grid.Rows)),
		zap.Int("planogram_rows", len(planogram)),
		zap.Int("dropped_rows", dropped),
		zap.Bool("has_facings", cols.HasFacings()),
		zap.Int("facings_entries", len(facings)))

	return &entity.ImportResult{
		Planogram:        planogram,
		Facings:          facings,
		HasFacingsColumn: cols.HasFacings(),
		DataRows:         len(grid.Rows),
		DroppedRows:      dropped,
		Source:           src.Name(),
	}, nil
}
