package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kurochkinivan/cdr_converter/internal/domain"
)

var filePrefixes = []string{"cdr", "cmr"}

type Scanner struct {
	log *slog.Logger
	dir string
}

func NewScanner(log *slog.Logger, dir string) *Scanner {
	return &Scanner{
		log: log,
		dir: dir,
	}
}

// Scan lists the directory in name order and keeps record files: names
// starting with "cdr" or "cmr" that have no extension.
func (s *Scanner) Scan(ctx context.Context) ([]domain.FileDescriptor, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %q: %w", s.dir, err)
	}

	files := make([]domain.FileDescriptor, 0, len(entries))
	for _, entry := range entries {
		if !isRecordFile(entry) {
			continue
		}

		files = append(files, domain.FileDescriptor{
			Name:       entry.Name(),
			RecordType: domain.ClassifyRecordType(entry.Name()),
		})
	}

	s.log.DebugContext(ctx, "scanned directory",
		slog.String("dir", s.dir),
		slog.Int("entries", len(entries)),
		slog.Int("record_files", len(files)),
	)

	return files, nil
}

func isRecordFile(entry os.DirEntry) bool {
	if entry.IsDir() {
		return false
	}

	name := entry.Name()
	if filepath.Ext(name) != "" {
		return false
	}

	for _, prefix := range filePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}

	return false
}
