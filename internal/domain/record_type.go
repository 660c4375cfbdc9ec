package domain

import (
	"strconv"
	"strings"
)

type RecordType int

const (
	RecordTypeUnknown RecordType = iota
	RecordTypeCDR
	RecordTypeCMR
)

// ClassifyRecordType derives the record type from a file name.
// "cdr" is checked first, so a name containing both substrings is a CDR.
func ClassifyRecordType(filename string) RecordType {
	name := strings.ToLower(filename)

	switch {
	case strings.Contains(name, "cdr"):
		return RecordTypeCDR
	case strings.Contains(name, "cmr"):
		return RecordTypeCMR
	default:
		return RecordTypeUnknown
	}
}

// Key is the form used for JSON object keys and database columns.
func (t RecordType) Key() string {
	return strconv.Itoa(int(t))
}

func (t RecordType) String() string {
	switch t {
	case RecordTypeCDR:
		return "cdr"
	case RecordTypeCMR:
		return "cmr"
	default:
		return "unknown"
	}
}
