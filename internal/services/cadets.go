package services

import (
	"context"
	"fmt"
	"strings"

	"cadetboard/internal/config"
	"cadetboard/internal/models"
	"cadetboard/internal/store"
)

type CadetService struct {
	cfg   *config.Config
	store store.Store
}

func NewCadetService(cfg *config.Config, st store.Store) *CadetService {
	return &CadetService{cfg: cfg, store: st}
}

// CadetInfo looks up a single cadet by nickname. In-game names use
// underscores where the sheet uses spaces, so both sides are normalized
// before comparing.
func (s *CadetService) CadetInfo(ctx context.Context, nickname string) (models.Cadet, error) {
	rows, err := s.store.ReadRows(ctx, s.cfg.Store.CadetsSheet)
	if err != nil {
		return models.Cadet{}, fmt.Errorf("failed to read cadets: %w", err)
	}

	want := normalizeNickname(nickname)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) > 0 && normalizeNickname(row[0]) == want {
			return models.CadetFromRow(row), nil
		}
	}
	return models.Cadet{}, ErrCadetNotFound
}

// CheckOnline intersects a list of online player names with the cadet
// sheet and returns the matched cadets with their progress flags.
func (s *CadetService) CheckOnline(ctx context.Context, onlinePlayers []string) ([]models.Cadet, error) {
	rows, err := s.store.ReadRows(ctx, s.cfg.Store.CadetsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read cadets: %w", err)
	}

	online := make(map[string]struct{}, len(onlinePlayers))
	for _, name := range onlinePlayers {
		online[normalizeNickname(name)] = struct{}{}
	}

	cadets := []models.Cadet{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) == 0 {
			continue
		}
		if _, ok := online[normalizeNickname(row[0])]; ok {
			cadets = append(cadets, models.CadetFromRow(row))
		}
	}
	return cadets, nil
}

func normalizeNickname(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", " ")
}
