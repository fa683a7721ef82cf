// Package rbac implements the role-based access and rate-limit decision
// engine: a pure policy function over (role, activity history, now), plus
// the injected mutable state it consults — the activity tracker and the
// role cache.
package rbac

import (
	"time"

	"cadetboard/internal/models"
)

// Engine evaluates permission decisions. Admins and blocked users resolve
// from role alone; instructors are throttled through the activity tracker's
// sliding window.
type Engine struct {
	tracker *Tracker
	window  time.Duration
	limit   int
}

func NewEngine(tracker *Tracker, editLimitMinutes, editLimitCount int) *Engine {
	return &Engine{
		tracker: tracker,
		window:  time.Duration(editLimitMinutes) * time.Minute,
		limit:   editLimitCount,
	}
}

// Evaluate returns the permission tuple for a user. The only side effect is
// the instructor branch recording a grant in the activity tracker.
func (e *Engine) Evaluate(username string, role models.Role, now time.Time) models.Decision {
	switch role {
	case models.RoleBlocked:
		return models.Decision{
			Allowed: false,
			Reason:  "Access Denied: User is blocked",
		}

	case models.RoleAdmin:
		return models.Decision{
			Allowed:        true,
			Reason:         "Admin access granted",
			CanOpen:        true,
			CanEdit:        true,
			CanEditButtons: true,
		}

	case models.RoleInstructor:
		if e.tracker.RecordAndCheck(username, now, e.window, e.limit) {
			return models.Decision{
				Allowed:        true,
				Reason:         "Access granted: Instructor edit allowed",
				CanOpen:        true,
				CanEditButtons: true,
			}
		}
		return models.Decision{
			Allowed: true,
			Reason:  "Access granted: Edit limit exceeded, view only",
			CanOpen: true,
		}

	default:
		// pending, unknown, or unparseable roster cell
		return models.Decision{
			Allowed: false,
			Reason:  "User role not recognized",
		}
	}
}
