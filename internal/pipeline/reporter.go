package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/kurochkinivan/cdr_converter/internal/domain"
)

type Reporter struct {
	log             *slog.Logger
	outputDir       string
	reportGenerator ReportGenerator
}

func NewReporter(log *slog.Logger, outputDir string, reportGenerator ReportGenerator) *Reporter {
	return &Reporter{
		log:             log,
		outputDir:       outputDir,
		reportGenerator: reportGenerator,
	}
}

// Report renders a PDF summary of the run next to the other artifacts.
func (r *Reporter) Report(ctx context.Context, result *domain.ProcessingResult, timestamp string) (string, error) {
	path := filepath.Join(r.outputDir, ArtifactName("report", timestamp, result.Trimmed, ".pdf"))

	log := r.log.With(
		slog.String("path", path),
		slog.Int("files_count", len(result.Files)),
	)

	log.InfoContext(ctx, "generating report")

	if err := r.reportGenerator.GenerateReport(path, timestamp, result); err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}

	log.DebugContext(ctx, "report generated")

	return path, nil
}
