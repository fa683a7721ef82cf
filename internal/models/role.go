package models

import (
	"strconv"
	"strings"
)

// Role is the access level stored in column B of the roster sheet.
type Role int

const (
	RolePending    Role = 0
	RoleInstructor Role = 1
	RoleAdmin      Role = 2
	RoleBlocked    Role = 3

	// RoleUnknown marks a roster cell that does not parse as a role.
	RoleUnknown Role = -1
)

func (r Role) String() string {
	switch r {
	case RolePending:
		return "pending"
	case RoleInstructor:
		return "instructor"
	case RoleAdmin:
		return "admin"
	case RoleBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// RoleFromCell parses a roster cell. Anything that is not one of the four
// known numeric values denies access downstream.
func RoleFromCell(cell string) Role {
	n, err := strconv.Atoi(strings.TrimSpace(cell))
	if err != nil || n < 0 || n > 3 {
		return RoleUnknown
	}
	return Role(n)
}

// Decision is the permission tuple returned by the policy engine.
type Decision struct {
	Allowed        bool   `json:"allowed"`
	Reason         string `json:"reason"`
	CanOpen        bool   `json:"can_open"`
	CanEdit        bool   `json:"can_edit"`
	CanEditButtons bool   `json:"can_edit_buttons"`
}
