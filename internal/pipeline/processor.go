package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/kurochkinivan/cdr_converter/internal/domain"
)

type Options struct {
	Trim        bool
	HeaderCheck domain.HeaderCheck
}

// Processor turns a directory of record files into a ProcessingResult. It
// keeps no state between calls and must not be shared by concurrent callers
// of Process.
type Processor struct {
	log     *slog.Logger
	dir     string
	opts    Options
	scanner *Scanner
	parser  *Parser
}

func NewProcessor(log *slog.Logger, dir string, opts Options) *Processor {
	return &Processor{
		log:     log,
		dir:     dir,
		opts:    opts,
		scanner: NewScanner(log, dir),
		parser:  NewParser(log, NewCoercer(opts.Trim)),
	}
}

func (p *Processor) Process(ctx context.Context) (*domain.ProcessingResult, error) {
	files, err := p.scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := domain.NewProcessingResult(p.dir, p.opts.Trim)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := p.processFile(ctx, result, file); err != nil {
			return nil, err
		}
	}

	p.log.InfoContext(ctx, "directory processed",
		slog.String("dir", p.dir),
		slog.Int("files", len(result.Files)),
		slog.Int("schemas", len(result.Schemas)),
		slog.Int("records", len(result.Records)),
	)

	return result, nil
}

func (p *Processor) processFile(ctx context.Context, result *domain.ProcessingResult, file domain.FileDescriptor) error {
	log := p.log.With(
		slog.String("filename", file.Name),
		slog.String("record_type", file.RecordType.String()),
	)

	log.DebugContext(ctx, "processing file")

	records, err := p.parser.ParseFile(filepath.Join(p.dir, file.Name), func(header *domain.Schema) (*domain.Schema, error) {
		return p.resolveSchema(ctx, log, result, file.RecordType, header)
	})

	var decodeErr *DecodeError
	switch {
	case errors.Is(err, domain.ErrInvalidHeader), errors.Is(err, domain.ErrHeaderMismatch):
		log.ErrorContext(ctx, "skipping file", slog.String("err", err.Error()))
		return nil

	case errors.As(err, &decodeErr):
		log.ErrorContext(ctx, "failed to decode row, skipping the rest of the file",
			slog.Int("line", decodeErr.Line),
			slog.Int("records_kept", len(records)),
			slog.String("err", decodeErr.Err.Error()),
		)

	case err != nil:
		return fmt.Errorf("failed to process file %q: %w", file.Name, err)
	}

	result.Records = append(result.Records, records...)
	result.Files = append(result.Files, file.Name)

	return nil
}

// resolveSchema stores the first header seen for a record type. Later files of
// the same type are paired with that first schema.
func (p *Processor) resolveSchema(
	ctx context.Context,
	log *slog.Logger,
	result *domain.ProcessingResult,
	recordType domain.RecordType,
	header *domain.Schema,
) (*domain.Schema, error) {
	stored, ok := result.Schemas[recordType]
	if !ok {
		result.Schemas[recordType] = header
		return header, nil
	}

	if stored.SameFieldNames(header) {
		return stored, nil
	}

	switch p.opts.HeaderCheck {
	case domain.HeaderCheckWarn:
		log.WarnContext(ctx, "header differs from stored schema, pairing rows with stored schema",
			slog.Any("stored", stored.FieldNames()),
			slog.Any("header", header.FieldNames()),
		)
	case domain.HeaderCheckReject:
		return nil, fmt.Errorf("%w: record type %s", domain.ErrHeaderMismatch, recordType)
	}

	return stored, nil
}
