package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cadetboard/internal/config"
	"cadetboard/internal/models"
	"cadetboard/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

type AuthRequest struct {
	Username string `json:"username" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Role     *int   `json:"role"`
}

// Authenticate resolves the caller's permissions and, when the role grants
// access, issues the bearer token for the protected routes.
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Username is required"})
		return
	}

	decision, err := h.authService.Authenticate(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(500, gin.H{"error": "Authentication failed"})
		return
	}

	if !decision.Allowed {
		c.JSON(403, gin.H{
			"error":            decision.Reason,
			"can_open":         decision.CanOpen,
			"can_edit":         decision.CanEdit,
			"can_edit_buttons": decision.CanEditButtons,
		})
		return
	}

	resp := gin.H{
		"message":          decision.Reason,
		"can_open":         decision.CanOpen,
		"can_edit":         decision.CanEdit,
		"can_edit_buttons": decision.CanEditButtons,
	}

	if decision.CanOpen {
		role := models.Role(roleFromReason(decision))
		token, expiresAt, err := h.authService.IssueToken(req.Username, role, decision)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}
		resp["token"] = token
		resp["expires_at"] = expiresAt
	}

	c.JSON(200, resp)
}

// Register adds a user to the roster with pending access (or an explicit
// role).
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Username is required"})
		return
	}

	role := models.RolePending
	if req.Role != nil {
		role = models.Role(*req.Role)
	}

	err := h.authService.RegisterUser(c.Request.Context(), req.Username, role)
	if errors.Is(err, services.ErrUserExists) {
		c.JSON(200, gin.H{"message": "User already exists"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to add user to pending list"})
		return
	}

	c.JSON(200, gin.H{"message": "User added to pending list"})
}

// roleFromReason recovers the role behind an allowed decision without a
// second roster read. Only admins get can_edit; everyone else allowed
// through is an instructor.
func roleFromReason(d models.Decision) models.Role {
	if d.CanEdit {
		return models.RoleAdmin
	}
	return models.RoleInstructor
}
