package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"cadetboard/internal/models"
)

// LocalStore emulates the spreadsheet on a relational database (sqlite or
// mysql, selected by config). It exists for development and tests; the
// sheets backend is the production system of record.
type LocalStore struct {
	db *gorm.DB
}

func NewLocal(db *gorm.DB) *LocalStore {
	return &LocalStore{db: db}
}

// EnsureSheet seeds the header row of an empty sheet so that row indexing
// matches the real spreadsheet, where row 1 is always the header.
func (s *LocalStore) EnsureSheet(ctx context.Context, sheet string, header []string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.SheetRow{}).Where("sheet = ?", sheet).Count(&count).Error; err != nil {
		return fmt.Errorf("local store: count failed: %w", err)
	}
	if count > 0 {
		return nil
	}

	row := models.SheetRow{
		Sheet:    sheet,
		Position: 1,
		Cells:    models.StringArray(header),
		Notes:    models.StringMap{},
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("local store: header seed failed: %w", err)
	}
	return nil
}

func (s *LocalStore) AppendRow(ctx context.Context, sheet string, row []string) (int64, error) {
	var position int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last models.SheetRow
		err := tx.Where("sheet = ?", sheet).Order("position desc").First(&last).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			position = 1
		case err != nil:
			return err
		default:
			position = last.Position + 1
		}

		return tx.Create(&models.SheetRow{
			Sheet:    sheet,
			Position: position,
			Cells:    models.StringArray(row),
			Notes:    models.StringMap{},
		}).Error
	})
	if err != nil {
		return 0, fmt.Errorf("local store: append failed: %w", err)
	}
	return position, nil
}

func (s *LocalStore) ReadRows(ctx context.Context, sheet string) ([][]string, error) {
	var stored []models.SheetRow
	if err := s.db.WithContext(ctx).Where("sheet = ?", sheet).Order("position asc").Find(&stored).Error; err != nil {
		return nil, fmt.Errorf("local store: read failed: %w", err)
	}

	rows := make([][]string, 0, len(stored))
	for _, r := range stored {
		rows = append(rows, []string(r.Cells))
	}
	return rows, nil
}

func (s *LocalStore) UpdateCells(ctx context.Context, sheet string, rowIndex int64, startCol int, values []string) error {
	row, err := s.row(ctx, sheet, rowIndex)
	if err != nil {
		return err
	}

	cells := []string(row.Cells)
	for len(cells) < startCol+len(values) {
		cells = append(cells, "")
	}
	copy(cells[startCol:], values)
	row.Cells = models.StringArray(cells)

	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return fmt.Errorf("local store: update failed: %w", err)
	}
	return nil
}

func (s *LocalStore) SetCellNote(ctx context.Context, sheet string, rowIndex int64, col int, note string) error {
	row, err := s.row(ctx, sheet, rowIndex)
	if err != nil {
		return err
	}

	if row.Notes == nil {
		row.Notes = models.StringMap{}
	}
	row.Notes[strconv.Itoa(col)] = note

	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return fmt.Errorf("local store: note update failed: %w", err)
	}
	return nil
}

func (s *LocalStore) row(ctx context.Context, sheet string, position int64) (*models.SheetRow, error) {
	var row models.SheetRow
	err := s.db.WithContext(ctx).Where("sheet = ? AND position = ?", sheet, position).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("local store: lookup failed: %w", err)
	}
	return &row, nil
}
