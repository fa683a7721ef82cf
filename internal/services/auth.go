package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cadetboard/internal/config"
	"cadetboard/internal/models"
	"cadetboard/internal/rbac"
	"cadetboard/internal/store"
)

// Roster sheet column layout: [username, role, reserved, lastSeen].
const (
	rosterColUsername = 0
	rosterColRole     = 1
	rosterColLastSeen = 3
)

type AuthService struct {
	cfg    *config.Config
	store  store.Store
	cache  *rbac.RoleCache
	engine *rbac.Engine
	log    *slog.Logger

	now func() time.Time
}

func NewAuthService(cfg *config.Config, st store.Store, cache *rbac.RoleCache, engine *rbac.Engine, log *slog.Logger) *AuthService {
	return &AuthService{
		cfg:    cfg,
		store:  st,
		cache:  cache,
		engine: engine,
		log:    log,
		now:    time.Now,
	}
}

// Authenticate resolves a username to a permission decision. A username the
// roster has never seen is appended as pending and denied; the roster entry
// is the administrator's queue for granting access.
func (s *AuthService) Authenticate(ctx context.Context, username string) (models.Decision, error) {
	norm := NormalizeUsername(username)
	now := s.now()

	role, _, found, err := s.lookupRole(ctx, norm, now)
	if err != nil {
		return models.Decision{}, err
	}

	if !found {
		if err := s.appendPending(ctx, username, now); err != nil {
			return models.Decision{}, err
		}
		return models.Decision{
			Allowed: false,
			Reason:  "User added to pending list",
		}, nil
	}

	return s.engine.Evaluate(norm, role, now), nil
}

// RegisterUser appends a roster entry unless the username already exists
// (case-insensitively).
func (s *AuthService) RegisterUser(ctx context.Context, username string, role models.Role) error {
	rows, err := s.store.ReadRows(ctx, s.cfg.Store.RosterSheet)
	if err != nil {
		return fmt.Errorf("roster read failed: %w", err)
	}

	norm := NormalizeUsername(username)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) > rosterColUsername && NormalizeUsername(row[rosterColUsername]) == norm {
			return ErrUserExists
		}
	}

	row := []string{username, strconv.Itoa(int(role)), "", s.now().Format(models.TimestampLayout)}
	if _, err := s.store.AppendRow(ctx, s.cfg.Store.RosterSheet, row); err != nil {
		return fmt.Errorf("roster append failed: %w", err)
	}
	return nil
}

// lookupRole consults the cache first and falls back to a roster scan. The
// scan result is cached; a total miss is not, so an admin approving the
// user is visible on their next attempt.
func (s *AuthService) lookupRole(ctx context.Context, norm string, now time.Time) (models.Role, string, bool, error) {
	if role, lastSeen, ok := s.cache.Get(norm, now); ok {
		return role, lastSeen, true, nil
	}

	rows, err := s.store.ReadRows(ctx, s.cfg.Store.RosterSheet)
	if err != nil {
		return models.RoleUnknown, "", false, fmt.Errorf("roster read failed: %w", err)
	}

	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) <= rosterColRole || NormalizeUsername(row[rosterColUsername]) != norm {
			continue
		}

		role := models.RoleFromCell(row[rosterColRole])
		lastSeen := ""
		if len(row) > rosterColLastSeen {
			lastSeen = row[rosterColLastSeen]
		}
		s.cache.Put(norm, role, lastSeen, now)
		return role, lastSeen, true, nil
	}

	return models.RoleUnknown, "", false, nil
}

func (s *AuthService) appendPending(ctx context.Context, username string, now time.Time) error {
	row := []string{username, strconv.Itoa(int(models.RolePending)), "", now.Format(models.TimestampLayout)}
	if _, err := s.store.AppendRow(ctx, s.cfg.Store.RosterSheet, row); err != nil {
		return fmt.Errorf("failed to add user to pending list: %w", err)
	}
	s.log.Info("first-seen user added to pending list", "username", username)
	return nil
}

// Claims carried by the bearer token issued on a successful authenticate.
type Claims struct {
	Username       string `json:"username"`
	Role           int    `json:"role"`
	CanEdit        bool   `json:"can_edit"`
	CanEditButtons bool   `json:"can_edit_buttons"`
	jwt.RegisteredClaims
}

// IssueToken signs a short-lived token embedding the decision, so protected
// routes can gate on permissions without re-running the policy engine (and
// without burning instructor rate-limit grants per request).
func (s *AuthService) IssueToken(username string, role models.Role, d models.Decision) (string, time.Time, error) {
	expiresIn, err := time.ParseDuration(s.cfg.JWT.ExpiresIn)
	if err != nil {
		expiresIn = 24 * time.Hour
	}

	now := s.now()
	expiresAt := now.Add(expiresIn)

	claims := Claims{
		Username:       NormalizeUsername(username),
		Role:           int(role),
		CanEdit:        d.CanEdit,
		CanEditButtons: d.CanEditButtons,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.JWT.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret()))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken validates a bearer token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret()), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (s *AuthService) secret() string {
	if s.cfg.JWT.Secret != "" {
		return s.cfg.JWT.Secret
	}
	return "cadetboard-default-secret-change-in-production"
}
