package rbac

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cadetboard/internal/models"
)

func newTestEngine() *Engine {
	return NewEngine(NewTracker(), 5, 2)
}

func TestEvaluateBlocked(t *testing.T) {
	engine := newTestEngine()
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	want := models.Decision{
		Allowed: false,
		Reason:  "Access Denied: User is blocked",
	}

	// Pure function of role alone: identical across calls and windows
	for i := 0; i < 5; i++ {
		got := engine.Evaluate("eve", models.RoleBlocked, base.Add(time.Duration(i)*time.Hour))
		assert.Equal(t, want, got)
	}
}

func TestEvaluateAdmin(t *testing.T) {
	engine := newTestEngine()
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	want := models.Decision{
		Allowed:        true,
		Reason:         "Admin access granted",
		CanOpen:        true,
		CanEdit:        true,
		CanEditButtons: true,
	}

	for i := 0; i < 5; i++ {
		got := engine.Evaluate("alice", models.RoleAdmin, base.Add(time.Duration(i)*time.Minute))
		assert.Equal(t, want, got)
	}
}

func TestEvaluateInstructorWindow(t *testing.T) {
	engine := newTestEngine()
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	// Calls 1 and 2 within the window grant button access
	d1 := engine.Evaluate("bob", models.RoleInstructor, base)
	d2 := engine.Evaluate("bob", models.RoleInstructor, base.Add(time.Minute))
	assert.True(t, d1.CanEditButtons)
	assert.True(t, d2.CanEditButtons)
	assert.True(t, d1.Allowed)
	assert.True(t, d1.CanOpen)
	assert.False(t, d1.CanEdit, "instructors never get global edit")

	// Call 3 inside the same window is view-only
	d3 := engine.Evaluate("bob", models.RoleInstructor, base.Add(2*time.Minute))
	assert.Equal(t, models.Decision{
		Allowed: true,
		Reason:  "Access granted: Edit limit exceeded, view only",
		CanOpen: true,
	}, d3)

	// After the window fully elapses the grants return
	d4 := engine.Evaluate("bob", models.RoleInstructor, base.Add(6*time.Minute+time.Second))
	assert.True(t, d4.CanEditButtons)
}

func TestEvaluateInstructorViewOnlyKeepsHistory(t *testing.T) {
	engine := newTestEngine()
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	engine.Evaluate("bob", models.RoleInstructor, base)
	engine.Evaluate("bob", models.RoleInstructor, base)

	// Denied calls must not extend the window
	for i := 0; i < 10; i++ {
		d := engine.Evaluate("bob", models.RoleInstructor, base.Add(time.Duration(i)*time.Second))
		assert.False(t, d.CanEditButtons)
	}

	d := engine.Evaluate("bob", models.RoleInstructor, base.Add(5*time.Minute))
	assert.True(t, d.CanEditButtons)
}

func TestEvaluateUnrecognized(t *testing.T) {
	engine := newTestEngine()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	want := models.Decision{
		Allowed: false,
		Reason:  "User role not recognized",
	}

	for _, role := range []models.Role{models.RolePending, models.RoleUnknown, models.Role(42)} {
		t.Run(fmt.Sprintf("role_%d", role), func(t *testing.T) {
			assert.Equal(t, want, engine.Evaluate("nobody", role, now))
		})
	}
}
