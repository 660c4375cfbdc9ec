package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

const integerTag = "INTEGER"

type Field struct {
	Name string `json:"name" db:"field_name"`
	Type string `json:"type" db:"field_type"`
}

// Schema maps field names to declared type tags, keeping header order.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema pairs names with type tags positionally. Pairing stops at the
// shorter of the two rows. A repeated name keeps its first position and takes
// the last type seen.
func NewSchema(names, types []string) *Schema {
	n := min(len(names), len(types))

	s := &Schema{
		fields: make([]Field, 0, n),
		index:  make(map[string]int, n),
	}

	for i := range n {
		s.Set(names[i], types[i])
	}

	return s
}

// Set adds a field or overwrites the type of an existing one.
func (s *Schema) Set(name, typ string) {
	if s.index == nil {
		s.index = make(map[string]int)
	}

	if i, ok := s.index[name]; ok {
		s.fields[i].Type = typ
		return
	}

	s.index[name] = len(s.fields)
	s.fields = append(s.fields, Field{Name: name, Type: typ})
}

func (s *Schema) Len() int {
	return len(s.fields)
}

func (s *Schema) Fields() []Field {
	return slices.Clone(s.fields)
}

func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

func (s *Schema) Type(name string) (string, bool) {
	i, ok := s.index[name]
	if !ok {
		return "", false
	}
	return s.fields[i].Type, true
}

// IsInteger reports whether the field's tag contains "INTEGER" anywhere.
func (s *Schema) IsInteger(name string) bool {
	typ, ok := s.Type(name)
	return ok && strings.Contains(typ, integerTag)
}

// SameFieldNames reports whether both schemas name the same fields in the same
// order. Type tags are not compared.
func (s *Schema) SameFieldNames(other *Schema) bool {
	return slices.Equal(s.FieldNames(), other.FieldNames())
}

// MarshalJSON encodes the schema as an object whose keys follow header order.
func (s *Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, f := range s.fields {
		if i > 0 {
			buf.WriteByte(',')
		}

		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to encode field name %q: %w", f.Name, err)
		}

		typ, err := json.Marshal(f.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to encode type of field %q: %w", f.Name, err)
		}

		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(typ)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
