package domain

import (
	"fmt"
	"maps"
	"slices"
)

// ProcessingResult is everything one directory run produced.
type ProcessingResult struct {
	Directory string
	Trimmed   bool
	Schemas   map[RecordType]*Schema
	Records   []Record
	Files     []string
}

func NewProcessingResult(dir string, trimmed bool) *ProcessingResult {
	return &ProcessingResult{
		Directory: dir,
		Trimmed:   trimmed,
		Schemas:   make(map[RecordType]*Schema),
		Records:   make([]Record, 0),
		Files:     make([]string, 0),
	}
}

// Aggregate is the serializable view of a result.
type Aggregate struct {
	Data    []Record           `json:"data"`
	Schemas map[string]*Schema `json:"schemas"`
}

// Aggregated fails with ErrNoData when the run produced no records.
func (r *ProcessingResult) Aggregated() (*Aggregate, error) {
	if r == nil || len(r.Records) == 0 {
		return nil, ErrNoData
	}

	schemas := make(map[string]*Schema, len(r.Schemas))
	for t, s := range r.Schemas {
		schemas[t.Key()] = s
	}

	return &Aggregate{
		Data:    r.Records,
		Schemas: schemas,
	}, nil
}

// RecordTypes returns the record types with a stored schema, ascending.
func (r *ProcessingResult) RecordTypes() []RecordType {
	return slices.Sorted(maps.Keys(r.Schemas))
}

func (r *ProcessingResult) String() string {
	return fmt.Sprintf("processed %q: %d files, %d schemas, %d records",
		r.Directory, len(r.Files), len(r.Schemas), len(r.Records))
}
