package table

import "errors"

var (
	// ErrUnsupportedFormat indicates a file extension outside csv, tsv, jsonl.
	ErrUnsupportedFormat = errors.New("unsupported table format")

	// ErrMalformed indicates the file content could not be parsed as a table.
	ErrMalformed = errors.New("malformed table")

	// ErrColumnNotFound indicates a requested column is absent from the table.
	ErrColumnNotFound = errors.New("column not found")

	// ErrColumnExists indicates an appended column clashes with an existing one.
	ErrColumnExists = errors.New("column already exists")

	// ErrLengthMismatch indicates appended values do not match the row count.
	ErrLengthMismatch = errors.New("column length does not match row count")
)
