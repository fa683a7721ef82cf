// Package store abstracts the tabular system of record. The production
// backend is a Google spreadsheet; a gorm-backed emulation serves local
// development and tests. Row indexes are 1-based and include the header
// row, matching spreadsheet addressing.
package store

import (
	"context"
	"errors"
)

var (
	ErrRowNotFound   = errors.New("store: row not found")
	ErrSheetNotFound = errors.New("store: sheet not found")
)

type Store interface {
	// AppendRow adds a row after the last populated row and returns its
	// 1-based index.
	AppendRow(ctx context.Context, sheet string, row []string) (int64, error)

	// ReadRows returns every row of the sheet in store order, header
	// included. Cell values are rendered as strings.
	ReadRows(ctx context.Context, sheet string) ([][]string, error)

	// UpdateCells overwrites len(values) cells in place starting at the
	// 0-based column startCol of the given row.
	UpdateCells(ctx context.Context, sheet string, rowIndex int64, startCol int, values []string) error

	// SetCellNote attaches a note to a single cell.
	SetCellNote(ctx context.Context, sheet string, rowIndex int64, col int, note string) error
}
