// Package export renders record collections as CSV, JSON, or Parquet and
// publishes the rendered files to blob storage.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/parquet-go/parquet-go"

	"github.com/JaimeStill/taxon/internal/records"
)

// Export errors.
var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrUnknownLocale = errors.New("unknown export locale")
)

// MapHTTPStatus maps export errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnknownFormat) || errors.Is(err, ErrUnknownLocale) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Format is an export file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// ParseFormat resolves a format name. An empty name is CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON, FormatParquet:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatParquet:
		return "application/vnd.apache.parquet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Locale selects CSV header labels and enum display values.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleZH Locale = "zh"
)

// ParseLocale resolves a locale name. An empty name is English.
func ParseLocale(s string) (Locale, error) {
	switch l := Locale(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return LocaleEN, nil
	case LocaleEN, LocaleZH:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLocale, s)
}

// Options controls rendering.
type Options struct {
	Format Format
	Locale Locale
}

// Write renders rs to w in the requested format. Locale applies to CSV only;
// JSON and Parquet always carry the canonical attribute names and values.
func Write(w io.Writer, rs []records.Record, opts Options) error {
	switch opts.Format {
	case FormatCSV, "":
		return writeCSV(w, rs, opts.Locale)
	case FormatJSON:
		return writeJSON(w, rs)
	case FormatParquet:
		return writeParquet(w, rs)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
}

func writeCSV(w io.Writer, rs []records.Record, locale Locale) error {
	fields := records.Fields()

	header := make([]string, len(fields))
	for i, f := range fields {
		switch locale {
		case LocaleZH:
			header[i] = f.LabelZH
		default:
			header[i] = f.Label
		}
	}

	if locale == LocaleZH {
		// spreadsheet tools need the BOM to read UTF-8 Chinese text
		if _, err := io.WriteString(w, "\ufeff"); err != nil {
			return fmt.Errorf("write bom: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(fields))
	for _, r := range rs {
		for i, f := range fields {
			row[i] = cellValue(r, f.Name, locale)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func cellValue(r records.Record, field string, locale Locale) string {
	if locale == LocaleZH {
		switch field {
		case records.FieldSensitivity:
			return r.Sensitivity.LabelZH()
		case records.FieldTaggingMethod:
			return r.TaggingMethod.LabelZH()
		}
	}
	v, _ := r.Value(field)
	return v
}

func writeJSON(w io.Writer, rs []records.Record) error {
	if rs == nil {
		rs = []records.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rs); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeParquet(w io.Writer, rs []records.Record) error {
	pw := parquet.NewGenericWriter[records.Record](w, parquet.Compression(&parquet.Snappy))
	if _, err := pw.Write(rs); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}
