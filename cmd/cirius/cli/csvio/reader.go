// Package csvio reads the semicolon-delimited table exports. Each table is a
// header row naming the fields followed by data rows; rows come back as
// ordered records in source order.
package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/cirius-dev/cirius-cli/cmd/cirius/cli/record"
)

// Warning is a non-fatal issue found while reading a table, such as a row
// with the wrong column count.
type Warning struct {
	Row     int // 1-indexed data row number; the header is row 0
	Message string
}

// Table holds one fully read table.
type Table struct {
	Header   []string
	Rows     []*record.Record
	Warnings []Warning
}

// ReadTable reads the table at path. A ".zst" suffix means the file is
// zstd-compressed. The whole table is read into memory; the output tree
// holds every row anyway.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open zstd %s: %w", path, err)
		}
		defer dec.Close()
		src = dec
	}

	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	decoded, err := decodeToUTF8(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	table, err := parse(decoded)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return table, nil
}

func parse(data []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = ';'
	// Column-count mismatches are padded or truncated below, not fatal.
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty table: no header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	table := &Table{Header: header}
	rowNum := 0

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			table.Warnings = append(table.Warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("skipping unparseable row: %v", err),
			})
			continue
		}

		if len(row) < len(header) {
			table.Warnings = append(table.Warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; padding with empty values", len(row), len(header)),
			})
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		} else if len(row) > len(header) {
			table.Warnings = append(table.Warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(row), len(header)),
			})
			row = row[:len(header)]
		}

		rec := record.New()
		for i, h := range header {
			rec.Set(h, row[i])
		}
		table.Rows = append(table.Rows, rec)
	}

	return table, nil
}
