// internal/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthtrack/healthtrack-backend/internal/domain"
	"github.com/healthtrack/healthtrack-backend/internal/logger"
)

var (
	ErrCredentialsRequired     = errors.New("credentials are required")
	ErrInvalidCredentials      = errors.New("invalid id or password")
	ErrForbidden               = errors.New("insufficient privileges for this resource")
	ErrTokenMalformed          = errors.New("malformed token")
	ErrTokenExpired            = errors.New("token is expired or not valid yet")
	ErrTokenInvalid            = errors.New("invalid token")
	ErrTokenClaimsInvalid      = errors.New("invalid token claims")
	ErrUnexpectedSigningMethod = errors.New("unexpected token signing method")
	customLog                  = logger.NewLogger()
)

// UserSource is the user-lookup capability the gate depends on. The storage
// package provides the production implementation.
type UserSource interface {
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
}

// Gate resolves actors from supplied credentials and authorizes actions
// against resource owners. When HashedCredentials is set, stored secrets are
// bcrypt hashes; otherwise comparison is verbatim string equality, matching
// the original deployment.
type Gate struct {
	Users             UserSource
	HashedCredentials bool
}

// NewGate creates a Gate backed by the given user source.
func NewGate(users UserSource, hashedCredentials bool) *Gate {
	return &Gate{Users: users, HashedCredentials: hashedCredentials}
}

// VerifyCredentials resolves the actor for the given id/password pair.
// Unknown ids and wrong passwords both report ErrInvalidCredentials so the
// caller cannot distinguish the two.
func (g *Gate) VerifyCredentials(ctx context.Context, id, password string) (*domain.User, error) {
	if id == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	user, err := g.Users.FindUserByID(ctx, id)
	if err != nil {
		customLog.Warnf("Auth: credential lookup failed for user %s: %v", id, err)
		return nil, ErrInvalidCredentials
	}

	if !secretMatches(user.Password, password, g.HashedCredentials) {
		customLog.Warnf("Auth: invalid password for user %s", id)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// VerifyAdmin resolves the actor and requires the admin flag. A valid
// non-admin credential still reports ErrInvalidCredentials: the original
// admin paths never reveal that the id exists without the privilege.
func (g *Gate) VerifyAdmin(ctx context.Context, id, password string) (*domain.User, error) {
	admin, err := g.VerifyCredentials(ctx, id, password)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin {
		customLog.Warnf("Auth: user %s attempted an admin operation without the admin flag", id)
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// Authorize applies the admin-or-self rule: the action is allowed when the
// actor is an administrator or owns the resource.
func (g *Gate) Authorize(actor *domain.User, ownerID string) error {
	if actor == nil {
		return ErrForbidden
	}
	if actor.IsAdmin || actor.ID == ownerID {
		return nil
	}
	customLog.Warnf("Auth: user %s denied access to resource owned by %s", actor.ID, ownerID)
	return ErrForbidden
}

// SecretForStorage prepares a password for persistence. With hashing enabled
// it returns the bcrypt hash, otherwise the password verbatim.
func SecretForStorage(password string, hashed bool) (string, error) {
	if !hashed {
		return password, nil
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		customLog.Warnf("Error generating bcrypt hash: %v", err)
		return "", fmt.Errorf("failed to hash password")
	}
	return string(bytes), nil
}

func secretMatches(stored, supplied string, hashed bool) bool {
	if !hashed {
		return stored == supplied
	}
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		customLog.Warnf("Unexpected error comparing password hash: %v", err)
	}
	return err == nil
}

// --- JWT Utilities ---

// Claims carries the authenticated user id inside the login token.
type Claims struct {
	UserID string `json:"userID"`
	jwt.RegisteredClaims
}

// GenerateJWT creates a signed JWT string for a given userID. The token is a
// convenience issued at login; embedded credentials remain the canonical
// authentication path.
func GenerateJWT(userID, jwtSecret string, jwtExpiration time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "healthtrack-backend",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		customLog.Warnf("Error signing JWT for user %s: %v", userID, err)
		return "", fmt.Errorf("failed to generate token")
	}

	return signedToken, nil
}

// ValidateJWT parses and validates a JWT string, returning the UserID if valid.
func ValidateJWT(tokenString, jwtSecret string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			customLog.Warnf("ValidateJWT: Unexpected signing method: %v", token.Header["alg"])
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedSigningMethod, token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})

	if err != nil {
		customLog.Warnf("ValidateJWT: Token parsing error: %v", err)
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
			return "", ErrTokenExpired
		case errors.Is(err, ErrUnexpectedSigningMethod):
			return "", err
		default:
			return "", ErrTokenInvalid
		}
	}

	if !token.Valid {
		return "", ErrTokenInvalid
	}

	if claims.UserID == "" {
		customLog.Warnf("ValidateJWT: UserID missing in token claims")
		return "", ErrTokenClaimsInvalid
	}

	return claims.UserID, nil
}
