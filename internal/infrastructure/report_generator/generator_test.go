package report_generator_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kurochkinivan/cdr_converter/internal/domain"
	"github.com/kurochkinivan/cdr_converter/internal/infrastructure/report_generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_GenerateReport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	result := domain.NewProcessingResult(dir, false)
	result.Schemas[domain.RecordTypeCDR] = domain.NewSchema([]string{"id", "caller"}, []string{"INTEGER", "TEXT"})
	result.Schemas[domain.RecordTypeCMR] = domain.NewSchema([]string{"code"}, []string{"TEXT"})
	result.Records = append(result.Records, domain.Record{"id": int64(1), "caller": "+4912345"})
	result.Files = append(result.Files, "cdr_1", "cmr_1")

	path := filepath.Join(dir, "report-20240305_070809.pdf")

	err := report_generator.New().GenerateReport(path, "20240305_070809", result)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestGenerator_GenerateReport_BadPath(t *testing.T) {
	t.Parallel()

	result := domain.NewProcessingResult("", false)
	path := filepath.Join(t.TempDir(), "missing", "report.pdf")

	err := report_generator.New().GenerateReport(path, "20240305_070809", result)
	require.Error(t, err)
}
