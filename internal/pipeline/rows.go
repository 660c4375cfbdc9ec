package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

var errInvalidUTF8 = errors.New("invalid UTF-8 sequence")

// DecodeError is a row that could not be decoded. Rows after it in the same
// file are not read.
type DecodeError struct {
	File string
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type rowReader struct {
	file string
	r    *csv.Reader
}

func newRowReader(file string, r io.Reader) *rowReader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	return &rowReader{
		file: file,
		r:    reader,
	}
}

// next returns io.EOF after the last row and *DecodeError for broken rows.
func (rr *rowReader) next() ([]string, error) {
	row, err := rr.r.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}

	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, &DecodeError{File: rr.file, Line: parseErr.Line, Err: parseErr.Err}
		}
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	for _, field := range row {
		if !utf8.ValidString(field) {
			line, _ := rr.r.FieldPos(0)
			return nil, &DecodeError{File: rr.file, Line: line, Err: errInvalidUTF8}
		}
	}

	return row, nil
}
