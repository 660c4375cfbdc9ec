package domain

// Record is a single coerced row. Values are int64, string or nil.
type Record map[string]any

type FileDescriptor struct {
	Name       string
	RecordType RecordType
}
