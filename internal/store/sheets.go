package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"cadetboard/internal/config"
)

// SheetsStore talks to the Google Sheets API with service account
// credentials. Every outbound call is bounded by the configured timeout;
// there is no retry, a failed call is reported once to the caller.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	timeout       time.Duration

	mu       sync.Mutex
	sheetIDs map[string]int64
}

func NewSheets(ctx context.Context, cfg *config.Config) (*SheetsStore, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.Store.Sheets.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets service: %w", err)
	}

	return &SheetsStore{
		svc:           svc,
		spreadsheetID: cfg.Store.Sheets.SpreadsheetID,
		timeout:       cfg.StoreTimeout(),
		sheetIDs:      make(map[string]int64),
	}, nil
}

func (s *SheetsStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *SheetsStore) AppendRow(ctx context.Context, sheet string, row []string) (int64, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	resp, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, dataRange(sheet), &sheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("sheets append failed: %w", err)
	}
	if resp.Updates == nil {
		return 0, fmt.Errorf("sheets append returned no update info")
	}

	idx, err := rowIndexFromRange(resp.Updates.UpdatedRange)
	if err != nil {
		return 0, fmt.Errorf("sheets append: %w", err)
	}
	return idx, nil
}

func (s *SheetsStore) ReadRows(ctx context.Context, sheet string) ([][]string, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, dataRange(sheet)).
		ValueRenderOption("FORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("sheets read failed: %w", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = cellString(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *SheetsStore) UpdateCells(ctx context.Context, sheet string, rowIndex int64, startCol int, values []string) error {
	if rowIndex < 1 || len(values) == 0 {
		return fmt.Errorf("sheets update: invalid range")
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}

	rng := fmt.Sprintf("'%s'!%s%d:%s%d", sheet,
		columnName(startCol), rowIndex,
		columnName(startCol+len(values)-1), rowIndex)

	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rng, &sheets.ValueRange{Values: [][]interface{}{cells}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets update failed: %w", err)
	}
	return nil
}

func (s *SheetsStore) SetCellNote(ctx context.Context, sheet string, rowIndex int64, col int, note string) error {
	sheetID, err := s.sheetID(ctx, sheet)
	if err != nil {
		return err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				UpdateCells: &sheets.UpdateCellsRequest{
					Rows: []*sheets.RowData{
						{Values: []*sheets.CellData{{Note: note}}},
					},
					Fields: "note",
					Range: &sheets.GridRange{
						SheetId:          sheetID,
						StartRowIndex:    rowIndex - 1,
						EndRowIndex:      rowIndex,
						StartColumnIndex: int64(col),
						EndColumnIndex:   int64(col) + 1,
					},
				},
			},
		},
	}

	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets note update failed: %w", err)
	}
	return nil
}

// sheetID resolves a sheet title to its numeric id, memoized for the
// process lifetime (sheet tabs are not renamed in practice).
func (s *SheetsStore) sheetID(ctx context.Context, sheet string) (int64, error) {
	s.mu.Lock()
	if id, ok := s.sheetIDs[sheet]; ok {
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	ctx, cancel := s.bound(ctx)
	defer cancel()

	resp, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("sheets metadata read failed: %w", err)
	}

	for _, sh := range resp.Sheets {
		if sh.Properties != nil && sh.Properties.Title == sheet {
			s.mu.Lock()
			s.sheetIDs[sheet] = sh.Properties.SheetId
			s.mu.Unlock()
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
}

func dataRange(sheet string) string {
	return fmt.Sprintf("'%s'!A:Z", sheet)
}

func cellString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		return fmt.Sprint(c)
	}
}

// rowIndexFromRange extracts the row number from an updated range such as
// "'Экзамены LVPD'!A5:I5".
func rowIndexFromRange(updatedRange string) (int64, error) {
	ref := updatedRange
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		ref = ref[i+1:]
	} else if i := strings.LastIndex(ref, "!"); i >= 0 {
		ref = ref[i+1:]
	}
	digits := strings.TrimLeftFunc(ref, func(r rune) bool {
		return r < '0' || r > '9'
	})
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse updated range %q", updatedRange)
	}
	return n, nil
}

// columnName converts a 0-based column index to A1 letters.
func columnName(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}
