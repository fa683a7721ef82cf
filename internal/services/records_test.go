package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadetboard/internal/config"
	"cadetboard/internal/models"
	"cadetboard/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.Store.Backend = "local"
	cfg.Store.RecordsSheet = "Экзамены LVPD"
	cfg.Store.RosterSheet = "ScriptUserAuth"
	cfg.Store.CadetsSheet = "CadetsSysLog"
	cfg.Store.Database.Type = "sqlite"
	cfg.Store.Database.SQLite.Path = filepath.Join(t.TempDir(), "services_test.db")
	cfg.JWT = config.JWTConfig{Secret: "test-secret-key-for-testing-only", ExpiresIn: "24h", Issuer: "cadetboard-test"}
	cfg.Access = config.AccessConfig{EditLimitMinutes: 5, EditLimitCount: 2, RoleCacheTTLSeconds: 300}
	cfg.Security.BcryptCost = 10
	return cfg
}

func testStore(t *testing.T, cfg *config.Config) *store.LocalStore {
	db, err := models.InitDB(cfg)
	require.NoError(t, err)

	st := store.NewLocal(db)
	ctx := context.Background()
	require.NoError(t, st.EnsureSheet(ctx, cfg.Store.RecordsSheet, models.RecordsHeader))
	require.NoError(t, st.EnsureSheet(ctx, cfg.Store.RosterSheet, models.RosterHeader))
	require.NoError(t, st.EnsureSheet(ctx, cfg.Store.CadetsSheet, models.CadetsHeader))
	return st
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRecordService(t *testing.T) (*RecordService, *store.LocalStore, *config.Config) {
	cfg := testConfig(t)
	st := testStore(t, cfg)
	return NewRecordService(cfg, st, nil, nil, testLogger()), st, cfg
}

func TestSubmitAndListPending(t *testing.T) {
	svc, _, _ := newRecordService(t)
	ctx := context.Background()

	svc.now = func() time.Time { return time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC) }

	ts, err := svc.Submit(ctx, SubmitInput{
		Submitter: "John Doe",
		Subject:   "Jane Instructor",
		Category:  "Exam",
		Score:     "5",
		Evidence:  "full dialogue text",
	})
	require.NoError(t, err)
	assert.Equal(t, "01.01.2025 10:00:00", ts)

	records, err := svc.ListByStatus(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ts, records[0].Timestamp)
	assert.Equal(t, models.StatusPending, records[0].Status)
	assert.Equal(t, "N/A", records[0].Reviewer)
	assert.Equal(t, "John Doe", records[0].Submitter)
}

func TestSubmitDefaults(t *testing.T) {
	svc, _, _ := newRecordService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitInput{})
	require.NoError(t, err)

	records, err := svc.ListByStatus(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Unknown", records[0].Submitter)
	assert.Equal(t, "Dialogue", records[0].Category)
	assert.Equal(t, "N/A", records[0].Score)
	assert.Equal(t, "No evidence provided", records[0].Evidence)
}

func TestReviewScenario(t *testing.T) {
	svc, st, cfg := newRecordService(t)
	ctx := context.Background()

	svc.now = func() time.Time { return time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC) }
	ts, err := svc.Submit(ctx, SubmitInput{Submitter: "John", Evidence: "text"})
	require.NoError(t, err)

	before, err := st.ReadRows(ctx, cfg.Store.RecordsSheet)
	require.NoError(t, err)

	require.NoError(t, svc.Review(ctx, ts, "Reviewer1", "Одобрено"))

	approved, err := svc.ListByStatus(ctx, "approved")
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, ts, approved[0].Timestamp)
	assert.Equal(t, "Reviewer1", approved[0].Reviewer)

	pending, err := svc.ListByStatus(ctx, "pending")
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Only the reviewer and status cells changed
	after, err := st.ReadRows(ctx, cfg.Store.RecordsSheet)
	require.NoError(t, err)
	require.Equal(t, len(before), len(after))
	for col := 0; col < models.RecordColumns; col++ {
		if col == models.ColReviewer || col == models.ColStatus {
			continue
		}
		assert.Equal(t, before[1][col], after[1][col], "column %d must be untouched", col)
	}
	assert.Equal(t, "Reviewer1", after[1][models.ColReviewer])
	assert.Equal(t, models.StatusApproved, after[1][models.ColStatus])
}

func TestReviewAliasStatus(t *testing.T) {
	svc, _, _ := newRecordService(t)
	ctx := context.Background()

	ts, err := svc.Submit(ctx, SubmitInput{Submitter: "John"})
	require.NoError(t, err)

	// API-side alias resolves to the sheet literal
	require.NoError(t, svc.Review(ctx, ts, "Reviewer1", "declined"))

	declined, err := svc.ListByStatus(ctx, models.StatusDeclined)
	require.NoError(t, err)
	require.Len(t, declined, 1)
	assert.Equal(t, models.StatusDeclined, declined[0].Status)
}

func TestReviewIsUnguarded(t *testing.T) {
	svc, _, _ := newRecordService(t)
	ctx := context.Background()

	ts, err := svc.Submit(ctx, SubmitInput{Submitter: "John"})
	require.NoError(t, err)

	// An already decided record can be re-reviewed in any direction
	require.NoError(t, svc.Review(ctx, ts, "Reviewer1", "approved"))
	require.NoError(t, svc.Review(ctx, ts, "Reviewer2", "declined"))
	require.NoError(t, svc.Review(ctx, ts, "Reviewer3", "pending"))

	pending, err := svc.ListByStatus(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Reviewer3", pending[0].Reviewer)
}

func TestReviewNotFound(t *testing.T) {
	svc, st, cfg := newRecordService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitInput{Submitter: "John"})
	require.NoError(t, err)

	before, err := st.ReadRows(ctx, cfg.Store.RecordsSheet)
	require.NoError(t, err)

	err = svc.Review(ctx, "31.12.1999 23:59:59", "Reviewer1", "approved")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	after, err := st.ReadRows(ctx, cfg.Store.RecordsSheet)
	require.NoError(t, err)
	assert.Equal(t, before, after, "a failed review must not mutate the sheet")
}

func TestReviewInvalidStatus(t *testing.T) {
	svc, _, _ := newRecordService(t)

	err := svc.Review(context.Background(), "01.01.2025 10:00:00", "Reviewer1", "banana")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestListByStatusEmptyStore(t *testing.T) {
	svc, _, _ := newRecordService(t)

	records, err := svc.ListByStatus(context.Background(), "pending")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestListByStatusBackfillsShortRows(t *testing.T) {
	svc, st, cfg := newRecordService(t)
	ctx := context.Background()

	// A row cut short after the status column, as legacy sheet data can be
	_, err := st.AppendRow(ctx, cfg.Store.RecordsSheet, []string{
		"01.01.2025 10:00:00", "", "", "", "", "", "", models.StatusPending,
	})
	require.NoError(t, err)

	records, err := svc.ListByStatus(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Unknown Submitter", records[0].Submitter)
	assert.Equal(t, "No Score", records[0].Score)
	assert.Equal(t, "No Reviewer", records[0].Reviewer)
	assert.Equal(t, "No Notes", records[0].Notes)
}
