package domain

import "errors"

var (
	ErrNoData         = errors.New("no data, was the directory processed?")
	ErrHeaderMismatch = errors.New("header differs from the schema of the record type")
	ErrInvalidHeader  = errors.New("file has no valid name and type header rows")
	ErrRunNotFound    = errors.New("run not found")
)
