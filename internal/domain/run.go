package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Run is a stored processing result.
type Run struct {
	ID          uuid.UUID              `db:"id"           json:"id"`
	Directory   string                 `db:"directory"    json:"directory"`
	Trimmed     bool                   `db:"trimmed"      json:"trimmed"`
	RunAt       time.Time              `db:"run_at"       json:"run_at"`
	RecordCount int                    `db:"record_count" json:"record_count"`
	Files       []*RunFile             `db:"-"            json:"files,omitempty"`
	Schemas     map[RecordType]*Schema `db:"-"            json:"schemas,omitempty"`
}

type RunFile struct {
	Position   int        `db:"position"    json:"position"`
	Name       string     `db:"name"        json:"name"`
	RecordType RecordType `db:"record_type" json:"record_type"`
}

// StoredRecord keeps the JSON form of a record as it was saved.
type StoredRecord struct {
	N    int             `db:"n"    json:"n"`
	Data json.RawMessage `db:"data" json:"data"`
}

func NewRun(result *ProcessingResult, runAt time.Time) *Run {
	files := make([]*RunFile, len(result.Files))
	for i, name := range result.Files {
		files[i] = &RunFile{
			Position:   i + 1,
			Name:       name,
			RecordType: ClassifyRecordType(name),
		}
	}

	return &Run{
		ID:          uuid.New(),
		Directory:   result.Directory,
		Trimmed:     result.Trimmed,
		RunAt:       runAt,
		RecordCount: len(result.Records),
		Files:       files,
		Schemas:     result.Schemas,
	}
}
