package table_test

// Notes:
// - Black-box tests of the in-memory Table via package table_test.
// - Codec tests live in format_test.go.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/go-genderize/internal/table"
)

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New([]string{"name", "age"}, [][]table.Value{
		{"Alice Smith", int64(31)},
		{"Bob", nil},
		{"", int64(7)},
	})
	require.NoError(t, err)
	return tbl
}

// ---------------------------------------------------------------------------
// TestNew - construction and validation
// ---------------------------------------------------------------------------

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("assigns positional row identity", func(t *testing.T) {
		t.Parallel()
		tbl := sampleTable(t)

		assert.Equal(t, 3, tbl.Len())
		assert.Equal(t, []int{0, 1, 2}, tbl.Index())
		assert.Equal(t, []string{"name", "age"}, tbl.Columns())
		assert.Equal(t, []table.Value{"Bob", nil}, tbl.Row(1))
	})

	t.Run("rejects ragged rows", func(t *testing.T) {
		t.Parallel()
		_, err := table.New([]string{"a", "b"}, [][]table.Value{{"x"}})
		assert.ErrorIs(t, err, table.ErrMalformed)
	})

	t.Run("rejects duplicate columns", func(t *testing.T) {
		t.Parallel()
		_, err := table.New([]string{"a", "a"}, nil)
		assert.ErrorIs(t, err, table.ErrMalformed)
	})

	t.Run("empty table", func(t *testing.T) {
		t.Parallel()
		tbl, err := table.New([]string{"name"}, nil)
		require.NoError(t, err)
		assert.Zero(t, tbl.Len())
		assert.Empty(t, tbl.Index())
	})
}

// ---------------------------------------------------------------------------
// TestStrings - name sequence extraction
// ---------------------------------------------------------------------------

func TestStrings(t *testing.T) {
	t.Parallel()

	tbl, err := table.New([]string{"v"}, [][]table.Value{
		{"Ada"}, {nil}, {int64(42)}, {1.5}, {true},
	})
	require.NoError(t, err)

	got, err := tbl.Strings("v")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada", "", "42", "1.5", "True"}, got)

	_, err = tbl.Strings("missing")
	assert.ErrorIs(t, err, table.ErrColumnNotFound)
}

func TestColumn(t *testing.T) {
	t.Parallel()

	tbl := sampleTable(t)

	col, err := tbl.Column("age")
	require.NoError(t, err)
	assert.Equal(t, []table.Value{int64(31), nil, int64(7)}, col)

	col[0] = "mutated"
	again, err := tbl.Column("age")
	require.NoError(t, err)
	assert.Equal(t, int64(31), again[0], "Column must return a copy")

	_, err = tbl.Column("nope")
	assert.ErrorIs(t, err, table.ErrColumnNotFound)
	assert.False(t, tbl.HasColumn("nope"))
	assert.True(t, tbl.HasColumn("name"))
}

// ---------------------------------------------------------------------------
// TestWithColumn - copy-on-write positional append
// ---------------------------------------------------------------------------

func TestWithColumn(t *testing.T) {
	t.Parallel()

	t.Run("appends without touching the receiver", func(t *testing.T) {
		t.Parallel()
		tbl := sampleTable(t)

		out, err := tbl.WithColumn("gender", []table.Value{"female", "male", "unknown"})
		require.NoError(t, err)

		assert.Equal(t, []string{"name", "age", "gender"}, out.Columns())
		assert.Equal(t, tbl.Index(), out.Index())
		assert.Equal(t, []table.Value{"Bob", nil, "male"}, out.Row(1))

		assert.Equal(t, []string{"name", "age"}, tbl.Columns())
		assert.False(t, tbl.HasColumn("gender"))
	})

	t.Run("rejects length mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := sampleTable(t).WithColumn("gender", []table.Value{"female"})
		assert.ErrorIs(t, err, table.ErrLengthMismatch)
	})

	t.Run("rejects existing column", func(t *testing.T) {
		t.Parallel()
		_, err := sampleTable(t).WithColumn("name", make([]table.Value, 3))
		assert.ErrorIs(t, err, table.ErrColumnExists)
	})
}
