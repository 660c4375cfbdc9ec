package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/kurochkinivan/cdr_converter/internal/domain"
)

type ReportGenerator interface {
	GenerateReport(outputPath, timestamp string, result *domain.ProcessingResult) error
}

type RunSaver interface {
	SaveRun(ctx context.Context, run *domain.Run) error
	SaveRecords(ctx context.Context, runID uuid.UUID, records []domain.Record) error
}

type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
