// api/handlers/actor.go
package handlers

import (
	"database/sql"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/healthtrack/healthtrack-backend/config"
	"github.com/healthtrack/healthtrack-backend/internal/auth"
	"github.com/healthtrack/healthtrack-backend/internal/domain"
	"github.com/healthtrack/healthtrack-backend/internal/logger"
	"github.com/healthtrack/healthtrack-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

// resolveActor authenticates the requester. Embedded credentials are the
// canonical path and take precedence; a "Bearer {token}" Authorization
// header issued at login is accepted as fallback when no credentials are
// supplied.
func resolveActor(c *gin.Context, gate *auth.Gate, db *sql.DB, cfg *config.Config, id, password string) (*domain.User, error) {
	if id != "" || password != "" {
		return gate.VerifyCredentials(c.Request.Context(), id, password)
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, auth.ErrCredentialsRequired
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, auth.ErrTokenMalformed
	}

	userID, err := auth.ValidateJWT(parts[1], cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	user, err := storage.FindUserByID(c.Request.Context(), db, userID)
	if err != nil {
		// Account removed after the token was issued.
		customLog.Warnf("Actor: token holder %s no longer exists: %v", userID, err)
		return nil, auth.ErrInvalidCredentials
	}
	return user, nil
}
