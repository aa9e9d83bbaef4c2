package validate

import (
	"fmt"
	"sort"
	"strings"
)

// FieldsError maps a field path to a translated validation message.
type FieldsError struct {
	Fields map[string]string `json:"fields"`
}

func NewFieldsError(fields map[string]string) *FieldsError {
	return &FieldsError{
		Fields: fields,
	}
}

func (f *FieldsError) Error() string {
	if len(f.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(f.Fields))
	for k := range f.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, f.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
