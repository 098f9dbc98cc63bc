package labels

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// JSONParser reads labels in the extractor's own output format.
type JSONParser struct{}

func (p *JSONParser) Parse(r io.Reader, filename string) (doctree.Result, error) {
	var res doctree.Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return doctree.Result{}, fmt.Errorf("parse json labels: %w", err)
	}
	return doctree.NewResult(res.Title, res.Outline), nil
}
