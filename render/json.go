package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/morphrob/search"
)

// JSONRenderer writes search matches as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Render serializes the matches as a JSON array.
func (r *JSONRenderer) Render(matches []search.Match) error {
	return json.NewEncoder(r.W).Encode(matches)
}
