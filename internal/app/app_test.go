package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurochkinivan/cdr_converter/internal/config"
	"github.com/kurochkinivan/cdr_converter/internal/domain"
)

var fixedNow = time.Date(2024, 3, 15, 10, 20, 30, 0, time.Local)

func newTestApp(cfg *config.Config) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}

	a := New(slog.New(slog.DiscardHandler), cfg)
	a.out = out
	a.now = func() time.Time { return fixedNow }

	return a, out
}

func writeFile(t *testing.T, dir, name string, lines ...string) {
	t.Helper()

	content := strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRun_NoDirectoryPrintsStatus(t *testing.T) {
	t.Parallel()

	a, out := newTestApp(&config.Config{
		App: config.App{HeaderCheck: domain.HeaderCheckWarn, Trim: true},
	})

	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "no directory given")
	assert.Contains(t, out.String(), "header check: warn")
	assert.Contains(t, out.String(), "trim:         true")
	assert.Contains(t, out.String(), "postgresql:   disabled")
}

func TestRun_WritesArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "cdr_1", "id,name", "INTEGER,TEXT", "1,alice", "2,bob")
	writeFile(t, dir, "cmr_1", "code", "INTEGER", "7")
	writeFile(t, dir, "notes.txt", "ignored")

	a, out := newTestApp(&config.Config{App: config.App{Directory: dir}})

	require.NoError(t, a.Run(context.Background()))
	assert.Empty(t, out.String())

	data, err := os.ReadFile(filepath.Join(dir, "data-20240315_102030.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"alice"},{"id":2,"name":"bob"},{"code":7}]`, string(data))

	schemas, err := os.ReadFile(filepath.Join(dir, "schemas-20240315_102030.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":{"id":"INTEGER","name":"TEXT"},"2":{"code":"INTEGER"}}`, string(schemas))

	manifest, err := os.ReadFile(filepath.Join(dir, "files-20240315_102030.log"))
	require.NoError(t, err)
	assert.Equal(t, "cdr_1\ncmr_1\n", string(manifest))
}

func TestRun_TrimmedWithReport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "cdr_1", "id,note", "INTEGER,TEXT", "1,", "0,x")

	a, _ := newTestApp(&config.Config{App: config.App{Directory: dir, Trim: true, PDFReport: true}})

	require.NoError(t, a.Run(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, "data-20240315_102030-trimmed.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1},{"note":"x"}]`, string(data))

	assert.FileExists(t, filepath.Join(dir, "schemas-20240315_102030-trimmed.json"))
	assert.FileExists(t, filepath.Join(dir, "files-20240315_102030.log"))
	assert.FileExists(t, filepath.Join(dir, "report-20240315_102030-trimmed.pdf"))
}

func TestRun_NoDataWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "readme", "nothing to see")

	a, _ := newTestApp(&config.Config{App: config.App{Directory: dir}})

	require.NoError(t, a.Run(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRun_MissingDirectory(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(&config.Config{App: config.App{Directory: filepath.Join(t.TempDir(), "missing")}})

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestServe_RequiresPostgreSQL(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(&config.Config{})

	assert.ErrorIs(t, a.Serve(context.Background()), ErrStorageNotConfigured)
}
