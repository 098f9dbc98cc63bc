package labels

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// CSVParser handles level,text,page rows. A row with level "title" sets the
// title; a header row is skipped.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (doctree.Result, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return doctree.Result{}, fmt.Errorf("parse csv: %w", err)
	}

	var b outlineBuilder
	for i, row := range records {
		if len(row) < 2 {
			continue
		}
		kind := strings.TrimSpace(row[0])
		if i == 0 && strings.EqualFold(kind, "level") {
			continue
		}
		if strings.EqualFold(kind, "title") {
			b.setTitle(row[1])
			continue
		}
		level, err := doctree.ParseLevel(kind)
		if err != nil {
			return doctree.Result{}, fmt.Errorf("csv row %d: %w", i+1, err)
		}
		page := 0
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			page, err = strconv.Atoi(strings.TrimSpace(row[2]))
			if err != nil {
				return doctree.Result{}, fmt.Errorf("csv row %d: invalid page %q", i+1, row[2])
			}
		}
		b.entries = append(b.entries, doctree.Entry{Level: level, Text: strings.Join(strings.Fields(row[1]), " "), Page: page})
	}
	return b.result(), nil
}
