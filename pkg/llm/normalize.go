package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StringList is a []string that tolerates the shapes models actually return
// for list-valued fields. Schemas used with CompleteWithSchema declare their
// list fields as StringList so that a non-compliant response (a comma-joined
// string, a single bare string, or null where an array was requested) still
// decodes instead of failing the whole enrichment.
type StringList []string

// UnmarshalJSON accepts a JSON array of strings, a single string (split on
// commas), or null (empty list).
func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*l = StringList{}
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = normalizeList(arr)
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = normalizeList(strings.Split(single, ","))
		return nil
	}

	// Mixed arrays: keep the string elements, stringify nothing else.
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("string list: cannot decode %s", trimmed)
	}
	out := make([]string, 0, len(raw))
	for _, elem := range raw {
		if s, ok := elem.(string); ok {
			out = append(out, s)
		}
	}
	*l = normalizeList(out)
	return nil
}

// MarshalJSON always emits a plain JSON array so persisted records stay
// uniform regardless of what shape the model answered with.
func (l StringList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(l))
}

// Strings returns the list as a plain []string, never nil.
func (l StringList) Strings() []string {
	if l == nil {
		return []string{}
	}
	return append([]string{}, l...)
}

// normalizeList trims whitespace and drops empty elements.
func normalizeList(in []string) StringList {
	out := make(StringList, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
