package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
)

// suggestionCSVHeaders is the header row of search and typeahead CSV output.
var suggestionCSVHeaders = []string{"kind", "id", "title", "subtitle", "slug", "category"}

// resolvedCSVHeaders is the header row of resolve CSV output.
var resolvedCSVHeaders = []string{"kind", "id", "name", "detail", "resolved_by"}

// OutputFormatter writes command results as text, JSON or CSV.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// JSON writes v as a single JSON document followed by a newline.
func (f *OutputFormatter) JSON(v any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// JSONLine writes v as one compact JSON line, for streamed output.
func (f *OutputFormatter) JSONLine(v any) error {
	return json.NewEncoder(f.Writer).Encode(v)
}

// Line writes one text line.
func (f *OutputFormatter) Line(format string, args ...any) error {
	_, err := fmt.Fprintf(f.Writer, format+"\n", args...)
	return err
}

// CSV writes header followed by records.
func (f *OutputFormatter) CSV(header []string, records [][]string) error {
	w := csv.NewWriter(f.Writer)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return w.Error()
}

// CSVRows writes records without a header, continuing earlier CSV output.
func (f *OutputFormatter) CSVRows(records [][]string) error {
	w := csv.NewWriter(f.Writer)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return w.Error()
}

// suggestionRecord encodes a suggestion as a CSV row.
func suggestionRecord(s domain.Suggestion) []string {
	return []string{string(s.Kind), s.ID.String(), s.Title, s.Subtitle, s.Slug, s.Category}
}

// suggestionLine renders a suggestion as one text line, e.g.
// "equipment  Big Red  (Tractor | Unit 7)  /big-red".
func suggestionLine(s domain.Suggestion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-11s %s", s.Kind, s.Title)
	if s.Subtitle != "" {
		fmt.Fprintf(&b, "  (%s)", s.Subtitle)
	}
	fmt.Fprintf(&b, "  /%s", s.LinkKey())
	return b.String()
}

// displayLabel is the text rendering of a resolved record. Equipment uses
// its "Unit n - nickname" label; other kinds use their headline.
func displayLabel(e domain.Entity) string {
	switch eq := e.(type) {
	case domain.Equipment:
		return eq.Label()
	case domain.EquipmentDetail:
		return eq.Label()
	}
	return e.Headline()
}
