// internal/storage/user_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/healthtrack/healthtrack-backend/internal/domain"
)

// Specific errors for user operations
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user id already exists")
)

// UserDirectory adapts the user table to the auth.UserSource capability.
type UserDirectory struct {
	DB *sql.DB
}

// FindUserByID satisfies auth.UserSource.
func (d *UserDirectory) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	return FindUserByID(ctx, d.DB, id)
}

// CreateUser inserts a new user. A duplicate id reports ErrUserExists; the
// existing row is never overwritten.
func CreateUser(ctx context.Context, db *sql.DB, user *domain.User) error {
	sqlStatement := `INSERT INTO users (id, name, password, age, sex, is_admin, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, sqlStatement,
		user.ID, user.Name, user.Password, user.Age, user.Sex, user.IsAdmin, user.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return ErrUserExists
		}
		customLog.Warnf("Storage: Failed to insert user %s: %v", user.ID, err)
		return fmt.Errorf("database error during user creation: %w", err)
	}
	return nil
}

// FindUserByID retrieves a user by id.
func FindUserByID(ctx context.Context, db *sql.DB, id string) (*domain.User, error) {
	sqlStatement := `SELECT id, name, password, age, sex, is_admin, created_at FROM users WHERE id = ? LIMIT 1`
	row := db.QueryRowContext(ctx, sqlStatement, id)

	var user domain.User
	err := row.Scan(&user.ID, &user.Name, &user.Password, &user.Age, &user.Sex, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		customLog.Warnf("Storage: Failed to find user %s: %v", id, err)
		return nil, fmt.Errorf("database error finding user: %w", err)
	}
	return &user, nil
}

// ListUsers retrieves all users ordered by creation time.
func ListUsers(ctx context.Context, db *sql.DB) ([]domain.User, error) {
	sqlStatement := `SELECT id, name, password, age, sex, is_admin, created_at FROM users ORDER BY created_at`
	rows, err := db.QueryContext(ctx, sqlStatement)
	if err != nil {
		customLog.Warnf("Storage: Failed to list users: %v", err)
		return nil, fmt.Errorf("database error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Password, &user.Age, &user.Sex, &user.IsAdmin, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed reading user row: %w", err)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating users: %w", err)
	}
	return users, nil
}

// UpdateUser writes the merged user row. On a write that matches no row the
// existence re-check distinguishes a vanished user from a conflict.
func UpdateUser(ctx context.Context, db *sql.DB, user *domain.User) error {
	sqlStatement := `UPDATE users SET name = ?, password = ?, age = ?, sex = ?, is_admin = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, sqlStatement,
		user.Name, user.Password, user.Age, user.Sex, user.IsAdmin, user.ID)
	if err != nil {
		customLog.Warnf("Storage: Failed to update user %s: %v", user.ID, err)
		return fmt.Errorf("database error during user update: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed confirming user update: %w", err)
	}
	if rowsAffected == 0 {
		if _, err := FindUserByID(ctx, db, user.ID); errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("database conflict updating user %s", user.ID)
	}
	return nil
}

// UpdatePassword stores a new secret for the given user.
func UpdatePassword(ctx context.Context, db *sql.DB, id, secret string) error {
	result, err := db.ExecContext(ctx, `UPDATE users SET password = ? WHERE id = ?`, secret, id)
	if err != nil {
		customLog.Warnf("Storage: Failed to reset password for user %s: %v", id, err)
		return fmt.Errorf("database error during password reset: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed confirming password reset: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUserCascade removes a user together with all their activity records
// and the exercise rows derived from those records, in one transaction.
func DeleteUserCascade(ctx context.Context, db *sql.DB, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start user delete: %w", err)
	}
	defer tx.Rollback()

	// Children first: the records foreign key forbids removing a user that
	// still has rows referencing it.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM exercises WHERE record_id IN (SELECT id FROM records WHERE user_id = ?)`, id); err != nil {
		customLog.Warnf("Storage: Failed to delete exercises for user %s: %v", id, err)
		return fmt.Errorf("database error during user delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE user_id = ?`, id); err != nil {
		customLog.Warnf("Storage: Failed to delete records for user %s: %v", id, err)
		return fmt.Errorf("database error during user delete: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		customLog.Warnf("Storage: Failed to delete user %s: %v", id, err)
		return fmt.Errorf("database error during user delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed confirming user delete: %w", err)
	}
	if rowsAffected == 0 {
		// Deferred rollback undoes the child deletes.
		return ErrUserNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user delete: %w", err)
	}
	return nil
}

// UserStars counts distinct activity types per user, omitting users with
// none, ordered by descending count. The username falls back to the id when
// the name is empty.
func UserStars(ctx context.Context, db *sql.DB) ([]domain.UserStars, error) {
	sqlStatement := `
	SELECT COALESCE(NULLIF(u.name, ''), u.id) AS username,
	       COUNT(DISTINCT r.activity_type) AS star_count
	FROM users u
	JOIN records r ON r.user_id = u.id
	GROUP BY u.id
	HAVING star_count > 0
	ORDER BY star_count DESC`
	rows, err := db.QueryContext(ctx, sqlStatement)
	if err != nil {
		customLog.Warnf("Storage: Failed to aggregate user stars: %v", err)
		return nil, fmt.Errorf("database error aggregating user stars: %w", err)
	}
	defer rows.Close()

	stars := make([]domain.UserStars, 0)
	for rows.Next() {
		var s domain.UserStars
		if err := rows.Scan(&s.Username, &s.StarCount); err != nil {
			return nil, fmt.Errorf("failed reading star row: %w", err)
		}
		stars = append(stars, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating star rows: %w", err)
	}
	return stars, nil
}
