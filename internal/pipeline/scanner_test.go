package pipeline_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/kurochkinivan/cdr_converter/internal/domain"
	"github.com/kurochkinivan/cdr_converter/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_Scan(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	dir := t.TempDir()

	for _, name := range []string{
		"cmr_0002",
		"cdr_0001",
		"cdr_0003.csv",
		"CDR_upper",
		"calls_cdr",
		"cmrcdr",
		"readme",
	} {
		writeFile(t, dir, name, "a", "b")
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "cdr_dir"), 0o755))

	files, err := pipeline.NewScanner(log, dir).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.FileDescriptor{
		{Name: "cdr_0001", RecordType: domain.RecordTypeCDR},
		{Name: "cmr_0002", RecordType: domain.RecordTypeCMR},
		{Name: "cmrcdr", RecordType: domain.RecordTypeCDR},
	}, files)
}

func TestScanner_Scan_MissingDirectory(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)

	_, err := pipeline.NewScanner(log, filepath.Join(t.TempDir(), "missing")).Scan(context.Background())

	require.ErrorIs(t, err, os.ErrNotExist)
}
