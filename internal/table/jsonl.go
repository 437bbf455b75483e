package table

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	json "github.com/goccy/go-json"
)

// maxJSONLLine bounds a single record line.
const maxJSONLLine = 16 * 1024 * 1024

// decodeJSONL reads one JSON object per non-blank line.
// Columns appear in the order their keys are first seen; a row missing a
// key gets a null cell.
func decodeJSONL(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxJSONLLine)

	var (
		columns []string
		seen    = make(map[string]int)
		records []map[string]Value
		line    int
	)

	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}

		keys, rec, err := decodeObject(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", line, err, ErrMalformed)
		}
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = len(columns)
				columns = append(columns, k)
			}
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", line+1, err)
	}

	rows := make([][]Value, len(records))
	for i, rec := range records {
		row := make([]Value, len(columns))
		for k, v := range rec {
			row[seen[k]] = v
		}
		rows[i] = row
	}
	return New(columns, rows)
}

// decodeObject parses a single JSON object, returning its keys in document
// order alongside the decoded values.
func decodeObject(data []byte) ([]string, map[string]Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	rec := make(map[string]Value)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("value of %q: %w", key, err)
		}
		if _, dup := rec[key]; !dup {
			keys = append(keys, key)
		}
		rec[key] = normalizeJSON(v)
	}

	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, nil, errors.New("trailing data after object")
	}
	return keys, rec, nil
}

// normalizeJSON converts json.Number leaves to int64 or float64.
func normalizeJSON(v any) Value {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		f, _ := x.Float64()
		return f
	case []any:
		for i := range x {
			x[i] = normalizeJSON(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = normalizeJSON(x[k])
		}
		return x
	default:
		return v
	}
}

// encodeJSONL writes one object per row with keys in column order.
// The row index is not written.
func encodeJSONL(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	var buf bytes.Buffer

	for i := range t.index {
		row := t.Row(i)
		buf.Reset()
		buf.WriteByte('{')
		for j, c := range t.columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(c)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')

			val, err := json.Marshal(jsonCell(row[j]))
			if err != nil {
				return fmt.Errorf("row %d column %q: %w", t.index[i], c, err)
			}
			buf.Write(val)
		}
		buf.WriteString("}\n")

		if _, err := bw.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// jsonCell maps values JSON cannot carry onto null.
func jsonCell(v Value) Value {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}
