package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadetboard/internal/config"
	"cadetboard/internal/models"
)

func newTestLocal(t *testing.T) *LocalStore {
	cfg := &config.Config{}
	cfg.Store.Database.Type = "sqlite"
	cfg.Store.Database.SQLite.Path = filepath.Join(t.TempDir(), "store_test.db")

	db, err := models.InitDB(cfg)
	require.NoError(t, err)

	return NewLocal(db)
}

func TestLocalAppendAndRead(t *testing.T) {
	ctx := context.Background()
	st := newTestLocal(t)

	require.NoError(t, st.EnsureSheet(ctx, "Sheet1", []string{"A", "B"}))

	idx, err := st.AppendRow(ctx, "Sheet1", []string{"one", "two"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), idx, "first data row lands under the header")

	idx, err = st.AppendRow(ctx, "Sheet1", []string{"three"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), idx)

	rows, err := st.ReadRows(ctx, "Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"A", "B"}, rows[0])
	assert.Equal(t, []string{"one", "two"}, rows[1])
	assert.Equal(t, []string{"three"}, rows[2])
}

func TestLocalEnsureSheetIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestLocal(t)

	require.NoError(t, st.EnsureSheet(ctx, "Sheet1", []string{"A"}))
	_, err := st.AppendRow(ctx, "Sheet1", []string{"data"})
	require.NoError(t, err)

	require.NoError(t, st.EnsureSheet(ctx, "Sheet1", []string{"A"}))

	rows, err := st.ReadRows(ctx, "Sheet1")
	require.NoError(t, err)
	assert.Len(t, rows, 2, "re-seeding must not duplicate the header")
}

func TestLocalUpdateCells(t *testing.T) {
	ctx := context.Background()
	st := newTestLocal(t)

	require.NoError(t, st.EnsureSheet(ctx, "Sheet1", []string{"A", "B", "C"}))
	idx, err := st.AppendRow(ctx, "Sheet1", []string{"a", "b", "c", "d"})
	require.NoError(t, err)

	require.NoError(t, st.UpdateCells(ctx, "Sheet1", idx, 2, []string{"x", "y"}))

	rows, err := st.ReadRows(ctx, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "x", "y"}, rows[1])
}

func TestLocalUpdateCellsExtendsShortRow(t *testing.T) {
	ctx := context.Background()
	st := newTestLocal(t)

	require.NoError(t, st.EnsureSheet(ctx, "Sheet1", []string{"A"}))
	idx, err := st.AppendRow(ctx, "Sheet1", []string{"a"})
	require.NoError(t, err)

	require.NoError(t, st.UpdateCells(ctx, "Sheet1", idx, 3, []string{"x"}))

	rows, err := st.ReadRows(ctx, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "", "x"}, rows[1])
}

func TestLocalRowNotFound(t *testing.T) {
	ctx := context.Background()
	st := newTestLocal(t)

	require.NoError(t, st.EnsureSheet(ctx, "Sheet1", []string{"A"}))

	err := st.UpdateCells(ctx, "Sheet1", 99, 0, []string{"x"})
	assert.ErrorIs(t, err, ErrRowNotFound)

	err = st.SetCellNote(ctx, "Sheet1", 99, 0, "note")
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestLocalSetCellNote(t *testing.T) {
	ctx := context.Background()
	st := newTestLocal(t)

	require.NoError(t, st.EnsureSheet(ctx, "Sheet1", []string{"A"}))
	idx, err := st.AppendRow(ctx, "Sheet1", []string{"evidence text"})
	require.NoError(t, err)

	require.NoError(t, st.SetCellNote(ctx, "Sheet1", idx, 0, "full evidence"))

	// The note lives beside the cells, never inside them
	rows, err := st.ReadRows(ctx, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []string{"evidence text"}, rows[1])
}
