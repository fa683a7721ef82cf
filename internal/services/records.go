package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cadetboard/internal/config"
	"cadetboard/internal/events"
	"cadetboard/internal/models"
	"cadetboard/internal/store"
)

// SubmitInput carries the caller-supplied fields of a new submission.
// Anything missing takes the placeholder defaults the sheet consumers
// expect.
type SubmitInput struct {
	Submitter string
	Subject   string
	Category  string
	Score     string
	Evidence  string
}

type RecordService struct {
	cfg      *config.Config
	store    store.Store
	notifier Notifier
	events   EventPublisher
	log      *slog.Logger

	now func() time.Time
}

func NewRecordService(cfg *config.Config, st store.Store, notifier Notifier, publisher EventPublisher, log *slog.Logger) *RecordService {
	return &RecordService{
		cfg:      cfg,
		store:    st,
		notifier: notifier,
		events:   publisher,
		log:      log,
		now:      time.Now,
	}
}

// Submit appends a new record with status pending and reviewer N/A, then
// attaches the full evidence text as a note on the evidence cell. The note
// step is best-effort: the row is already the system of record, a lost note
// is logged and accepted.
func (s *RecordService) Submit(ctx context.Context, in SubmitInput) (string, error) {
	timestamp := s.now().Format(models.TimestampLayout)

	rec := models.Record{
		Timestamp: timestamp,
		Submitter: defaultIfEmpty(in.Submitter, "Unknown"),
		Subject:   defaultIfEmpty(in.Subject, "Unknown"),
		Category:  defaultIfEmpty(in.Category, "Dialogue"),
		Score:     defaultIfEmpty(in.Score, "N/A"),
		Evidence:  defaultIfEmpty(in.Evidence, "No evidence provided"),
		Reviewer:  "N/A",
		Status:    models.StatusPending,
		Notes:     "",
	}

	rowIndex, err := s.store.AppendRow(ctx, s.cfg.Store.RecordsSheet, rec.Row())
	if err != nil {
		return "", fmt.Errorf("failed to append record: %w", err)
	}

	if err := s.store.SetCellNote(ctx, s.cfg.Store.RecordsSheet, rowIndex, models.ColEvidence, rec.Evidence); err != nil {
		s.log.Error("evidence note not attached", "timestamp", timestamp, "error", err)
	}

	s.notify(ctx, fmt.Sprintf("New record pending review: %s — %s (%s)", timestamp, rec.Submitter, rec.Category))
	s.publish(ctx, events.TypeRecordSubmitted, timestamp, rec)

	return timestamp, nil
}

// Review rewrites the reviewer and status cells of the row whose timestamp
// matches exactly, leaving every other cell untouched. There is no
// transition guard: reviewers may re-review an already decided record.
func (s *RecordService) Review(ctx context.Context, timestamp, reviewer, status string) error {
	literal, ok := models.StatusFromAlias(status)
	if !ok {
		return ErrInvalidStatus
	}

	rows, err := s.store.ReadRows(ctx, s.cfg.Store.RecordsSheet)
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}

	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) == 0 || row[models.ColTimestamp] != timestamp {
			continue
		}

		rowIndex := int64(i + 1)
		if err := s.store.UpdateCells(ctx, s.cfg.Store.RecordsSheet, rowIndex, models.ColReviewer, []string{reviewer, literal}); err != nil {
			return fmt.Errorf("failed to update record: %w", err)
		}

		s.notify(ctx, fmt.Sprintf("Record %s reviewed by %s: %s", timestamp, reviewer, models.StatusAlias(literal)))
		s.publish(ctx, events.TypeRecordReviewed, timestamp, map[string]string{
			"reviewer": reviewer,
			"status":   literal,
		})
		return nil
	}

	return ErrRecordNotFound
}

// ListByStatus scans the records sheet in store order and returns the rows
// whose status cell matches. Short rows are back-filled with placeholders,
// never dropped; an empty sheet yields an empty slice.
func (s *RecordService) ListByStatus(ctx context.Context, status string) ([]models.Record, error) {
	literal, ok := models.StatusFromAlias(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	rows, err := s.store.ReadRows(ctx, s.cfg.Store.RecordsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	records := []models.Record{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) == 0 || strings.TrimSpace(row[models.ColTimestamp]) == "" {
			continue
		}
		if len(row) > models.ColStatus && row[models.ColStatus] == literal {
			records = append(records, models.RecordFromRow(row))
		}
	}
	return records, nil
}

func (s *RecordService) notify(ctx context.Context, text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, text); err != nil {
		s.log.Error("notification not delivered", "error", err)
	}
}

func (s *RecordService) publish(ctx context.Context, eventType, timestamp string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, timestamp, payload); err != nil {
		s.log.Error("event not published", "type", eventType, "error", err)
	}
}

func defaultIfEmpty(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
