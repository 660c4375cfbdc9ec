package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/kurochkinivan/cdr_converter/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Report_HappyPath(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	dir := t.TempDir()
	result := newResult(dir, true)
	wantPath := filepath.Join(dir, "report-20240305_070809-trimmed.pdf")

	generator := NewMockReportGenerator(t)
	generator.On("GenerateReport", wantPath, "20240305_070809", result).Return(nil)

	path, err := pipeline.NewReporter(log, dir, generator).Report(context.Background(), result, "20240305_070809")
	require.NoError(t, err)
	assert.Equal(t, wantPath, path)
}

func TestReporter_Report_GeneratorError(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	dir := t.TempDir()
	result := newResult(dir, false)
	genErr := errors.New("disk full")

	generator := NewMockReportGenerator(t)
	generator.On("GenerateReport", filepath.Join(dir, "report-20240305_070809.pdf"), "20240305_070809", result).Return(genErr)

	_, err := pipeline.NewReporter(log, dir, generator).Report(context.Background(), result, "20240305_070809")
	require.ErrorIs(t, err, genErr)
}
