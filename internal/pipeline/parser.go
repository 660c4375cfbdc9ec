package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kurochkinivan/cdr_converter/internal/domain"
)

// SchemaResolver receives the header of a file and returns the schema its rows
// must be paired with.
type SchemaResolver func(header *domain.Schema) (*domain.Schema, error)

type Parser struct {
	log     *slog.Logger
	coercer *Coercer
}

func NewParser(log *slog.Logger, coercer *Coercer) *Parser {
	return &Parser{
		log:     log,
		coercer: coercer,
	}
}

// ParseFile returns the records read before a *DecodeError together with it.
func (p *Parser) ParseFile(filename string, resolve SchemaResolver) (_ []domain.Record, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	return p.parseRecords(filename, f, resolve)
}

func (p *Parser) parseRecords(filename string, r io.Reader, resolve SchemaResolver) ([]domain.Record, error) {
	rows := newRowReader(filename, r)

	header, err := p.readSchema(rows)
	if err != nil {
		return nil, err
	}

	schema, err := resolve(header)
	if err != nil {
		return nil, err
	}

	p.log.Debug("parsing records", slog.String("filename", filename), slog.Int("fields", schema.Len()))

	records := make([]domain.Record, 0)
	for {
		row, err := rows.next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return records, err
		}

		records = append(records, p.coercer.Coerce(row, schema))
	}

	p.log.Debug("successfully parsed records", slog.String("filename", filename), slog.Int("record_count", len(records)))

	return records, nil
}

func (p *Parser) readSchema(rows *rowReader) (*domain.Schema, error) {
	names, err := rows.next()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: names row is missing", domain.ErrInvalidHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidHeader, err)
	}

	types, err := rows.next()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: types row is missing", domain.ErrInvalidHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidHeader, err)
	}

	return domain.NewSchema(names, types), nil
}
