// Package ingest reads field inventories and labeled record sheets from CSV.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Ingest errors.
var (
	ErrEmpty         = errors.New("empty file: no header row found")
	ErrNoRows        = errors.New("file contains no data rows")
	ErrMissingColumn = errors.New("missing required column")
	ErrEncoding      = errors.New("unsupported text encoding")
)

// MapHTTPStatus maps ingest errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmpty), errors.Is(err, ErrNoRows), errors.Is(err, ErrMissingColumn), errors.Is(err, ErrEncoding):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

// Warning is a non-fatal issue on one input record. Row is the 1-based
// physical line the record starts on, with the header on line 1, so quoted
// cells spanning several lines do not shift later rows.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result holds parsed items with any warnings and the detected encoding.
type Result[T any] struct {
	Items    []T       `json:"items"`
	Warnings []Warning `json:"warnings"`
	Encoding string    `json:"encoding"`
}

type sheet struct {
	headers  []string
	rows     [][]string
	lines    []int
	warnings []Warning
	encoding string
}

// column returns the index of the first header matching one of the aliases.
func (s *sheet) column(aliases ...string) int {
	for _, a := range aliases {
		for i, h := range s.headers {
			if strings.EqualFold(h, a) {
				return i
			}
		}
	}
	return -1
}

func read(r io.Reader) (*sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	decoded, enc, err := Decode(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("read header row: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	s := &sheet{headers: headers, encoding: enc}
	n := len(headers)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.StartLine
			}
			s.warnings = append(s.warnings, Warning{Row: line, Message: fmt.Sprintf("parse error: %v", err)})
			continue
		}
		line, _ := reader.FieldPos(0)

		if blank(row) {
			continue
		}

		switch {
		case len(row) < n:
			s.warnings = append(s.warnings, Warning{
				Row:     line,
				Message: fmt.Sprintf("row has %d columns, expected %d; padding with empty values", len(row), n),
			})
			padded := make([]string, n)
			copy(padded, row)
			row = padded
		case len(row) > n:
			s.warnings = append(s.warnings, Warning{
				Row:     line,
				Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(row), n),
			})
			row = row[:n]
		}

		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		s.rows = append(s.rows, row)
		s.lines = append(s.lines, line)
	}

	if len(s.rows) == 0 {
		return nil, ErrNoRows
	}
	return s, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, i int) string {
	if i < 0 {
		return ""
	}
	return row[i]
}

