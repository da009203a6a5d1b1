// api/handlers/user_handler.go
package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/healthtrack/healthtrack-backend/api/models"
	"github.com/healthtrack/healthtrack-backend/config"
	"github.com/healthtrack/healthtrack-backend/internal/auth"
	"github.com/healthtrack/healthtrack-backend/internal/core"
	"github.com/healthtrack/healthtrack-backend/internal/domain"
	"github.com/healthtrack/healthtrack-backend/internal/storage"
)

// UserHandler holds dependencies for user account handlers.
type UserHandler struct {
	DB   *sql.DB
	Cfg  *config.Config
	Gate *auth.Gate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *sql.DB, cfg *config.Config) *UserHandler {
	return &UserHandler{
		DB:   db,
		Cfg:  cfg,
		Gate: auth.NewGate(&storage.UserDirectory{DB: db}, cfg.HashedCredentials),
	}
}

// Login verifies credentials and returns the actor summary, role and a
// session token.
func (h *UserHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("Login binding error: %v", err)
		_ = c.Error(err)
		return
	}

	user, err := h.Gate.VerifyCredentials(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	token, err := auth.GenerateJWT(user.ID, h.Cfg.JWTSecret, h.Cfg.JWTExpiration)
	if err != nil {
		_ = c.Error(err)
		return
	}

	role := "user"
	if user.IsAdmin {
		role = "admin"
	}

	customLog.Printf("User logged in: %s", user.ID)
	c.JSON(http.StatusOK, models.LoginResponse{
		UserResponse: models.NewUserResponse(user),
		Role:         role,
		Token:        token,
	})
}

// Register creates a user account on behalf of an administrator. The admin
// may set the IsAdmin flag on the new account.
func (h *UserHandler) Register(c *gin.Context) {
	var req models.AdminRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("Register binding error: %v", err)
		_ = c.Error(err)
		return
	}

	if _, err := h.Gate.VerifyAdmin(c.Request.Context(), req.AdminID, req.AdminPassword); err != nil {
		_ = c.Error(err)
		return
	}

	h.createUser(c, req.User, req.User.IsAdmin)
}

// PublicRegister creates a user account without prior authentication. The
// account is always non-admin regardless of the supplied flag.
func (h *UserHandler) PublicRegister(c *gin.Context) {
	var payload models.UserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		customLog.Warnf("PublicRegister binding error: %v", err)
		_ = c.Error(err)
		return
	}

	h.createUser(c, payload, false)
}

// createUser validates and persists a new account for both registration
// paths.
func (h *UserHandler) createUser(c *gin.Context, payload models.UserPayload, isAdmin bool) {
	if _, missing := core.FirstMissing(
		core.Field{Label: "ID", Value: payload.ID},
		core.Field{Label: "Password", Value: payload.Password},
		core.Field{Label: "Name", Value: payload.Name},
	); missing {
		customLog.Warnf("Invalid user data: ID, Password, and Name are required")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "ID, Password, and Name are required"})
		return
	}

	if _, over := core.ExceedsLimits(
		core.Field{Label: "ID", Value: payload.ID, Max: core.MaxUserIDLen},
		core.Field{Label: "Name", Value: payload.Name, Max: core.MaxNameLen},
		core.Field{Label: "Password", Value: payload.Password, Max: core.MaxPasswordLen},
		core.Field{Label: "Sex", Value: payload.Sex, Max: core.MaxSexLen},
	); over {
		customLog.Warnf("Invalid user data: ID, Name, or Password exceeds length limits")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "ID (max 50), Name (max 100), or Password (max 255) too long"})
		return
	}

	secret, err := auth.SecretForStorage(payload.Password, h.Cfg.HashedCredentials)
	if err != nil {
		_ = c.Error(err)
		return
	}

	age := payload.Age
	if age < 0 {
		age = 0
	}

	user := &domain.User{
		ID:        payload.ID,
		Name:      strings.TrimSpace(payload.Name),
		Password:  secret,
		Age:       age,
		Sex:       sexOrUnknown(payload.Sex),
		CreatedAt: time.Now().UTC(),
		IsAdmin:   isAdmin,
	}

	if err := storage.CreateUser(c.Request.Context(), h.DB, user); err != nil {
		customLog.Warnf("Failed to create user %s: %v", user.ID, err)
		_ = c.Error(err)
		return
	}

	customLog.Printf("User registered: %s", user.ID)
	c.JSON(http.StatusCreated, models.NewUserResponse(user))
}

// GetUser returns one account; allowed for the account owner or an admin.
func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")

	actor, err := resolveActor(c, h.Gate, h.DB, h.Cfg,
		c.Query("requestingUserId"), c.Query("requestingUserPassword"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.Gate.Authorize(actor, id); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := storage.FindUserByID(c.Request.Context(), h.DB, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.NewUserResponse(user))
}

// UpdateUser applies a partial account update. Admin-only; empty fields
// leave the stored values unchanged, and the admin flag is always applied as
// supplied.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")

	var req models.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("UpdateUser binding error: %v", err)
		_ = c.Error(err)
		return
	}

	if _, err := h.Gate.VerifyAdmin(c.Request.Context(), req.AdminID, req.AdminPassword); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := storage.FindUserByID(c.Request.Context(), h.DB, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	updated := req.User
	if updated.ID != "" && updated.ID != id {
		customLog.Warnf("UpdateUser ID mismatch: %s vs %s", id, updated.ID)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "ID mismatch"})
		return
	}

	if updated.Name != "" {
		user.Name = strings.TrimSpace(updated.Name)
	}
	if updated.Age > 0 {
		user.Age = updated.Age
	}
	if updated.Sex != "" {
		user.Sex = strings.TrimSpace(updated.Sex)
	}
	user.IsAdmin = updated.IsAdmin
	if updated.Password != "" {
		secret, err := auth.SecretForStorage(strings.TrimSpace(updated.Password), h.Cfg.HashedCredentials)
		if err != nil {
			_ = c.Error(err)
			return
		}
		user.Password = secret
	}

	if err := storage.UpdateUser(c.Request.Context(), h.DB, user); err != nil {
		_ = c.Error(err)
		return
	}

	customLog.Printf("User updated: %s", id)
	c.Status(http.StatusNoContent)
}

// ResetPassword stores a new secret for the target user. Admin-only.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("ResetPassword binding error: %v", err)
		_ = c.Error(err)
		return
	}

	if _, err := h.Gate.VerifyAdmin(c.Request.Context(), req.AdminID, req.AdminPassword); err != nil {
		_ = c.Error(err)
		return
	}

	secret, err := auth.SecretForStorage(req.NewPassword, h.Cfg.HashedCredentials)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := storage.UpdatePassword(c.Request.Context(), h.DB, req.UserID, secret); err != nil {
		_ = c.Error(err)
		return
	}

	customLog.Printf("Password reset for user: %s", req.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// DeleteUser removes an account together with its activity records and
// their exercise rows. Admin-only.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	var req models.AdminCredentials
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("DeleteUser binding error: %v", err)
		_ = c.Error(err)
		return
	}

	if _, err := h.Gate.VerifyAdmin(c.Request.Context(), req.AdminID, req.AdminPassword); err != nil {
		_ = c.Error(err)
		return
	}

	if err := storage.DeleteUserCascade(c.Request.Context(), h.DB, id); err != nil {
		_ = c.Error(err)
		return
	}

	customLog.Printf("User deleted: %s", id)
	c.Status(http.StatusNoContent)
}

// ListUsers returns every account. Admin-only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	if _, err := h.Gate.VerifyAdmin(c.Request.Context(),
		c.Query("adminId"), c.Query("adminPassword")); err != nil {
		_ = c.Error(err)
		return
	}

	users, err := storage.ListUsers(c.Request.Context(), h.DB)
	if err != nil {
		_ = c.Error(err)
		return
	}

	out := make([]models.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, models.NewUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GetUserStars returns the distinct-activity-type counts per user, highest
// first. No authentication required.
func (h *UserHandler) GetUserStars(c *gin.Context) {
	stars, err := storage.UserStars(c.Request.Context(), h.DB)
	if err != nil {
		_ = c.Error(err)
		return
	}

	customLog.Printf("Returning %d user star counts", len(stars))
	c.JSON(http.StatusOK, stars)
}

func sexOrUnknown(sex string) string {
	trimmed := strings.TrimSpace(sex)
	if trimmed == "" {
		return "Unknown"
	}
	return trimmed
}
