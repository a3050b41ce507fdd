// Package export writes classified review history as CSV or XLSX.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/scry-srs/internal/domain/history"
	"github.com/xuri/excelize/v2"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet holding the rows of an XLSX export.
const SheetName = "History"

// ErrUnknownFormat is returned for formats other than csv and xlsx.
var ErrUnknownFormat = errors.New("unknown export format")

// Header is the first row of every export.
var Header = []string{
	"card_id",
	"rating",
	"rating_label",
	"reviewed_at",
	"scheduled_days",
	"elapsed_days",
	"stage",
	"mode",
	"state_change",
}

// ParseFormat parses a case-insensitive format name. An empty name is CSV.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ContentType is the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns "<base>.<ext>".
func (f Format) Filename(base string) string {
	return base + "." + string(f)
}

// Write writes rows to w in format f.
func Write(w io.Writer, f Format, rows []history.Row) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Record flattens a row into export fields, in Header order.
func Record(r history.Row) []string {
	return []string{
		r.CardID.String(),
		strconv.Itoa(r.Rating),
		r.RatingLabel,
		r.ReviewedAt.UTC().Format(time.RFC3339Nano),
		formatDays(r.ScheduledDays),
		formatDays(r.ElapsedDays),
		r.Stage,
		r.Mode,
		string(r.Change),
	}
}

func formatDays(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}

// WriteCSV writes a header line followed by one line per row.
func WriteCSV(w io.Writer, rows []history.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(Record(r)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook. Rating and day columns are
// stored as numbers so they can be summed in a spreadsheet.
func WriteXLSX(w io.Writer, rows []history.Row) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write xlsx header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.CardID.String(),
			r.Rating,
			r.RatingLabel,
			r.ReviewedAt.UTC().Format(time.RFC3339Nano),
			r.ScheduledDays,
			r.ElapsedDays,
			r.Stage,
			r.Mode,
			string(r.Change),
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write xlsx row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}
