package pipeline

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kurochkinivan/cdr_converter/internal/domain"
)

const (
	TimestampLayout = "20060102_150405"
	trimmedSuffix   = "-trimmed"
)

func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

type Artifacts struct {
	Data     string
	Schemas  string
	Manifest string
}

func (a *Artifacts) Paths() []string {
	return []string{a.Data, a.Schemas, a.Manifest}
}

type Writer struct {
	log *slog.Logger
	dir string
}

func NewWriter(log *slog.Logger, dir string) *Writer {
	return &Writer{
		log: log,
		dir: dir,
	}
}

// Write stores the records, the schemas and the processed files manifest in
// the directory. Every artifact carries the same timestamp.
func (w *Writer) Write(ctx context.Context, result *domain.ProcessingResult, timestamp string) (*Artifacts, error) {
	aggregate, err := result.Aggregated()
	if err != nil {
		return nil, err
	}

	artifacts := &Artifacts{
		Data:     filepath.Join(w.dir, ArtifactName("data", timestamp, result.Trimmed, ".json")),
		Schemas:  filepath.Join(w.dir, ArtifactName("schemas", timestamp, result.Trimmed, ".json")),
		Manifest: filepath.Join(w.dir, ArtifactName("files", timestamp, false, ".log")),
	}

	if err := writeJSON(artifacts.Data, aggregate.Data); err != nil {
		return nil, fmt.Errorf("failed to write data: %w", err)
	}

	if err := writeJSON(artifacts.Schemas, aggregate.Schemas); err != nil {
		return nil, fmt.Errorf("failed to write schemas: %w", err)
	}

	if err := writeManifest(artifacts.Manifest, result.Files); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	w.log.InfoContext(ctx, "artifacts written",
		slog.String("data", artifacts.Data),
		slog.String("schemas", artifacts.Schemas),
		slog.String("manifest", artifacts.Manifest),
	)

	return artifacts, nil
}

// ArtifactName builds "<kind>-<timestamp>[-trimmed]<ext>".
func ArtifactName(kind, timestamp string, trimmed bool, ext string) string {
	name := kind + "-" + timestamp
	if trimmed {
		name += trimmedSuffix
	}
	return name + ext
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)

	return enc.Encode(v)
}

// writeManifest writes one raw file name per line.
func writeManifest(path string, files []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	w := bufio.NewWriter(f)
	for _, name := range files {
		if _, err := w.WriteString(name + "\n"); err != nil {
			return fmt.Errorf("failed to write %q: %w", name, err)
		}
	}

	return w.Flush()
}
