package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// csvDecoder returns a decoder for delimited text with a header row.
func csvDecoder(comma rune) func(io.Reader) (*Table, error) {
	return func(r io.Reader) (*Table, error) {
		cr := csv.NewReader(r)
		cr.Comma = comma
		cr.LazyQuotes = true

		header, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("no header row: %w", ErrMalformed)
		}
		if err != nil {
			return nil, fmt.Errorf("read header: %v: %w", err, ErrMalformed)
		}
		header = append([]string(nil), header...)

		// Cells are gathered per column so each column's type can be inferred.
		raw := make([][]string, len(header))
		for {
			rec, err := cr.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("%v: %w", err, ErrMalformed)
			}
			for j, cell := range rec {
				raw[j] = append(raw[j], cell)
			}
		}

		nrows := 0
		if len(raw) > 0 {
			nrows = len(raw[0])
		}
		cols := make([][]Value, len(header))
		for j := range raw {
			cols[j] = inferColumn(raw[j])
		}

		rows := make([][]Value, nrows)
		for i := range rows {
			row := make([]Value, len(header))
			for j := range header {
				row[j] = cols[j][i]
			}
			rows[i] = row
		}
		return New(header, rows)
	}
}

// csvEncoder returns an encoder for delimited text.
// The first column holds the row index under an empty header.
func csvEncoder(comma rune) func(io.Writer, *Table) error {
	return func(w io.Writer, t *Table) error {
		cw := csv.NewWriter(w)
		cw.Comma = comma

		header := append([]string{""}, t.columns...)
		if err := cw.Write(header); err != nil {
			return err
		}

		rec := make([]string, len(header))
		for i, id := range t.index {
			rec[0] = strconv.Itoa(id)
			for j, v := range t.Row(i) {
				cell, err := formatCell(v)
				if err != nil {
					return fmt.Errorf("row %d: %w", id, err)
				}
				rec[j+1] = cell
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}

		cw.Flush()
		return cw.Error()
	}
}
