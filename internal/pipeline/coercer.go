package pipeline

import (
	"strconv"
	"strings"

	"github.com/kurochkinivan/cdr_converter/internal/domain"
)

type Coercer struct {
	trim bool
}

func NewCoercer(trim bool) *Coercer {
	return &Coercer{trim: trim}
}

// Coerce pairs row values with the schema's field names positionally and
// converts them by declared type.
//
// With trimming on, "" and "0" values are dropped. INTEGER fields become
// int64; an empty INTEGER value becomes nil and any other unparsable value is
// dropped. Everything else is kept as the raw string.
func (c *Coercer) Coerce(row []string, schema *domain.Schema) domain.Record {
	names := schema.FieldNames()
	n := min(len(names), len(row))

	record := make(domain.Record, n)
	for i := range n {
		name, value := names[i], row[i]

		if c.trim && isBlank(value) {
			continue
		}

		if !schema.IsInteger(name) {
			record[name] = value
			continue
		}

		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		switch {
		case err == nil:
			record[name] = parsed
		case value == "":
			record[name] = nil
		}
	}

	return record
}

func isBlank(value string) bool {
	return value == "" || value == "0"
}
