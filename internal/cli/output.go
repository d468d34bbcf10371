package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// writeJSON pretty-prints v as JSON to w.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeResult emits v as JSON or as a one-line text summary, per the format
// flag.
func writeResult(w io.Writer, format string, v any, text string) error {
	if format == "json" {
		return writeJSON(w, v)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
