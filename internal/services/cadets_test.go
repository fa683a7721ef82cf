package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCadetService(t *testing.T) *CadetService {
	cfg := testConfig(t)
	st := testStore(t, cfg)
	ctx := context.Background()

	rows := [][]string{
		{"John Doe", "TRUE", "FALSE", "TRUE", "FALSE", "cadet"},
		{"Jane Roe", "TRUE", "TRUE", "TRUE", "TRUE", "officer"},
		{"Short Row"},
	}
	for _, row := range rows {
		_, err := st.AppendRow(ctx, cfg.Store.CadetsSheet, row)
		require.NoError(t, err)
	}

	return NewCadetService(cfg, st)
}

func TestCadetInfo(t *testing.T) {
	svc := newCadetService(t)

	// In-game names use underscores where the sheet uses spaces
	cadet, err := svc.CadetInfo(context.Background(), "john_doe")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", cadet.Nickname)
	assert.True(t, cadet.Lecture)
	assert.False(t, cadet.Theory)
	assert.True(t, cadet.Code1055)
	assert.Equal(t, "cadet", cadet.Forma)
}

func TestCadetInfoNotFound(t *testing.T) {
	svc := newCadetService(t)

	_, err := svc.CadetInfo(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrCadetNotFound)
}

func TestCadetInfoShortRow(t *testing.T) {
	svc := newCadetService(t)

	cadet, err := svc.CadetInfo(context.Background(), "short_row")
	require.NoError(t, err)
	assert.False(t, cadet.Lecture)
	assert.Equal(t, "unknown", cadet.Forma)
}

func TestCheckOnline(t *testing.T) {
	svc := newCadetService(t)

	cadets, err := svc.CheckOnline(context.Background(), []string{"John_Doe", "Stranger", "JANE_ROE"})
	require.NoError(t, err)
	require.Len(t, cadets, 2)
	assert.Equal(t, "John Doe", cadets[0].Nickname)
	assert.Equal(t, "Jane Roe", cadets[1].Nickname)
}

func TestCheckOnlineNobodyMatches(t *testing.T) {
	svc := newCadetService(t)

	cadets, err := svc.CheckOnline(context.Background(), []string{"Stranger"})
	require.NoError(t, err)
	assert.NotNil(t, cadets)
	assert.Empty(t, cadets)
}
