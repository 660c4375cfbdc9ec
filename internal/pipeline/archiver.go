package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kurochkinivan/cdr_converter/internal/domain"
)

// Archiver stores a processing result as a run in a single transaction.
type Archiver struct {
	log        *slog.Logger
	runSaver   RunSaver
	transactor Transactor
}

func NewArchiver(log *slog.Logger, runSaver RunSaver, transactor Transactor) *Archiver {
	return &Archiver{
		log:        log,
		runSaver:   runSaver,
		transactor: transactor,
	}
}

func (a *Archiver) Archive(ctx context.Context, result *domain.ProcessingResult, runAt time.Time) (*domain.Run, error) {
	run := domain.NewRun(result, runAt)

	log := a.log.With(
		slog.String("run_id", run.ID.String()),
		slog.Int("records_count", run.RecordCount),
	)

	log.DebugContext(ctx, "saving run to database")

	err := a.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		if err := a.runSaver.SaveRun(ctx, run); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}

		if err := a.runSaver.SaveRecords(ctx, run.ID, result.Records); err != nil {
			return fmt.Errorf("failed to save records: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "run saved")

	return run, nil
}
