package table

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Format is a table encoding selected by file extension.
type Format struct {
	// Name is the extension without the leading dot.
	Name   string
	decode func(r io.Reader) (*Table, error)
	encode func(w io.Writer, t *Table) error
}

// formats maps an extension to its codec.
var formats = map[string]Format{
	"csv":   {Name: "csv", decode: csvDecoder(','), encode: csvEncoder(',')},
	"tsv":   {Name: "tsv", decode: csvDecoder('\t'), encode: csvEncoder('\t')},
	"jsonl": {Name: "jsonl", decode: decodeJSONL, encode: encodeJSONL},
}

// SupportedFormats returns the recognized extensions, sorted.
func SupportedFormats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// FormatFor selects the format for path from its extension.
// The comparison is case-sensitive and ignores the leading dot.
func FormatFor(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	f, ok := formats[ext]
	if !ok {
		return Format{}, fmt.Errorf("file format not recognized, should be one of %s, received %q: %w",
			strings.Join(SupportedFormats(), ", "), ext, ErrUnsupportedFormat)
	}
	return f, nil
}

// Load reads the table stored at path.
// The format is checked before the file is touched.
func Load(path string) (*Table, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	return f.Load(path)
}

// Load reads the table stored at path using this format.
func (f Format) Load(path string) (_ *Table, err error) {
	// #nosec G304 -- path is the user-provided input file
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	data, err := readText(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t, err := f.decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Write stores t at path, encoded according to the path's extension.
// The format is checked before anything is written.
func Write(t *Table, path string) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	return f.Write(t, path)
}

// Write stores t at path using this format.
//
// The table is encoded into a temporary file next to path which is then
// renamed over it, so readers never observe a partial file and a failed
// write leaves any previous file in place.
func (f Format) Write(t *Table, path string) error {
	if err := checkWritable(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cannot create output file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	writeErr := func() error {
		if err := f.encode(tmp, t); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := tmp.Sync(); err != nil {
			return fmt.Errorf("failed to flush %s: %w", path, err)
		}
		return nil
	}()
	if closeErr := tmp.Close(); writeErr == nil && closeErr != nil {
		writeErr = fmt.Errorf("failed to close %s: %w", path, closeErr)
	}
	if writeErr == nil {
		writeErr = os.Chmod(tmpPath, outputMode(path))
	}
	if writeErr == nil {
		writeErr = os.Rename(tmpPath, path)
	}

	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return writeErr
	}
	return nil
}

// checkWritable refuses to replace an existing file the caller may not
// write to. The rename alone only needs write access to the directory.
func checkWritable(path string) error {
	// #nosec G304 -- path is the user-provided output file
	file, err := os.OpenFile(path, os.O_WRONLY, 0)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return file.Close()
}

// outputMode keeps the permissions of an existing file at path.
func outputMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0644
}

// readText reads r fully, dropping a leading byte order mark as spreadsheet
// exports commonly start with one. Content that is not valid UTF-8 is
// rejected rather than repaired.
func readText(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("input is not valid UTF-8: %w", ErrMalformed)
	}
	return data, nil
}
