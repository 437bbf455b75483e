// Package infer annotates a table with a predicted gender per row.
//
// Names are read from one column, optionally trimmed of their last token,
// sent to a classifier in fixed-size batches, and joined back positionally
// as new columns. The input table is never modified.
package infer

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/alnah/go-genderize/internal/batch"
	"github.com/alnah/go-genderize/internal/classify"
	"github.com/alnah/go-genderize/internal/table"
)

// Output column names.
const (
	GenderColumn     = "gender"
	ConfidenceColumn = "gender_confidence"
)

// DefaultBatchSize is the number of names sent per classifier call.
const DefaultBatchSize = 32

// Options controls a Run.
type Options struct {
	// NameColumn holds the names to classify. Required.
	NameColumn string
	// BatchSize must be at least 1.
	BatchSize int
	// RemoveLastToken drops the final whitespace-separated token of each name.
	RemoveLastToken bool
	// DropConfidence omits the confidence column from the output.
	DropConfidence bool
	// OnProgress, if set, is called after each batch completes.
	OnProgress func(done, total int)
}

// Run classifies every row of t and returns a copy with the result columns
// appended. It fails before any classifier call if the name column is
// missing, a result column already exists, or the batch size is invalid.
// A classifier error aborts the run; nothing is retried.
func Run(ctx context.Context, t *table.Table, c classify.Classifier, opts Options) (*table.Table, error) {
	names, err := t.Strings(opts.NameColumn)
	if err != nil {
		return nil, err
	}
	if err := checkOutputColumns(t, opts.DropConfidence); err != nil {
		return nil, err
	}

	if opts.RemoveLastToken {
		for i, n := range names {
			names[i] = StripLastToken(n)
		}
	}

	batches, err := batch.Batches(slices.Values(names), opts.BatchSize)
	if err != nil {
		return nil, err
	}

	total := batch.Count(len(names), opts.BatchSize)
	preds := make([]classify.Prediction, 0, len(names))
	done := 0
	for b := range batches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		got, err := c.Classify(ctx, b)
		if err != nil {
			return nil, fmt.Errorf("batch %d/%d: %w", done+1, total, err)
		}
		if len(got) != len(b) {
			return nil, fmt.Errorf("batch %d/%d: got %d predictions for %d names: %w",
				done+1, total, len(got), len(b), ErrAlignment)
		}
		preds = append(preds, got...)

		done++
		if opts.OnProgress != nil {
			opts.OnProgress(done, total)
		}
	}

	return join(t, preds, opts.DropConfidence)
}

// StripLastToken removes the final whitespace-separated token of name and
// rejoins the rest with single spaces. Names with one token or none
// become empty.
func StripLastToken(name string) string {
	fields := strings.Fields(name)
	if len(fields) <= 1 {
		return ""
	}
	return strings.Join(fields[:len(fields)-1], " ")
}

func checkOutputColumns(t *table.Table, dropConfidence bool) error {
	cols := []string{GenderColumn}
	if !dropConfidence {
		cols = append(cols, ConfidenceColumn)
	}
	for _, col := range cols {
		if t.HasColumn(col) {
			return fmt.Errorf("%q: %w", col, table.ErrColumnExists)
		}
	}
	return nil
}

// join appends predictions to t by row position.
func join(t *table.Table, preds []classify.Prediction, dropConfidence bool) (*table.Table, error) {
	if len(preds) != t.Len() {
		return nil, fmt.Errorf("got %d predictions for %d rows: %w", len(preds), t.Len(), ErrAlignment)
	}

	labels := make([]table.Value, len(preds))
	scores := make([]table.Value, len(preds))
	for i, p := range preds {
		labels[i] = p.Label
		scores[i] = p.Score
	}

	out, err := t.WithColumn(GenderColumn, labels)
	if err != nil {
		return nil, err
	}
	if dropConfidence {
		return out, nil
	}
	return out.WithColumn(ConfidenceColumn, scores)
}
