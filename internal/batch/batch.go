// Package batch splits an ordered sequence into bounded, ordered batches.
package batch

import (
	"errors"
	"fmt"
	"iter"
)

// ErrInvalidSize indicates a batch size below 1.
var ErrInvalidSize = errors.New("batch size must be at least 1")

// Batches returns a lazy sequence of consecutive batches of at most n items
// drawn from seq. Every batch holds exactly n items except possibly the last,
// which is never empty. Concatenating the batches in order reproduces seq.
//
// Only one batch is buffered at a time, so seq may be arbitrarily long.
// The returned sequence is single-use: ranging over it again yields nothing.
// Call Batches again for a second pass.
func Batches[T any](seq iter.Seq[T], n int) (iter.Seq[[]T], error) {
	if n < 1 {
		return nil, fmt.Errorf("got %d: %w", n, ErrInvalidSize)
	}

	used := false
	return func(yield func([]T) bool) {
		if used {
			return
		}
		used = true

		buf := make([]T, 0, n)
		for v := range seq {
			buf = append(buf, v)
			if len(buf) < n {
				continue
			}
			if !yield(buf) {
				return
			}
			buf = make([]T, 0, n)
		}
		if len(buf) > 0 {
			yield(buf)
		}
	}, nil
}

// Count returns how many batches of size n cover total items.
// It returns 0 when n is below 1.
func Count(total, n int) int {
	if n < 1 || total <= 0 {
		return 0
	}
	return (total + n - 1) / n
}
