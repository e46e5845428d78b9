package users

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/user/turismo-go/apperror"
	"github.com/user/turismo-go/auth"
)

const pgUniqueViolation = "23505"

// Service provides the admin user operations.
type Service struct {
	db         *pgxpool.Pool
	log        *zap.Logger
	bcryptCost int
	uploadDir  string
}

// NewService wires the user service. uploadDir is needed so deleting a user
// can also clean up the image file the row referenced.
func NewService(db *pgxpool.Pool, log *zap.Logger, bcryptCost int, uploadDir string) *Service {
	return &Service{db: db, log: log, bcryptCost: bcryptCost, uploadDir: uploadDir}
}

const userColumns = `id, username, email, role, profile_image, created_at`

// List returns all users, never including credential material.
func (s *Service) List(ctx context.Context) ([]UserResponse, error) {
	rows, err := s.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list users", err)
	}
	defer rows.Close()

	users := []UserResponse{}
	for rows.Next() {
		var u UserResponse
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.ProfileImage, &u.CreatedAt); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to list users", err)
	}
	return users, nil
}

// Get returns a single user by id.
func (s *Service) Get(ctx context.Context, id int) (*UserResponse, error) {
	var u UserResponse
	err := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.ProfileImage, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return &u, nil
}

// Create inserts a user with the default role, hashing the supplied password
// first. Concurrent duplicates are arbitrated by the unique constraints.
func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	hashed, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to create user", err)
	}

	u := UserResponse{
		Username: req.Username,
		Email:    strings.ToLower(req.Email),
		Role:     auth.RoleUser,
	}
	err = s.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password, role) VALUES ($1, $2, $3, $4)
         RETURNING id, created_at`,
		u.Username, u.Email, hashed, u.Role).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("username or email already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return &u, nil
}

// Update applies a typed partial update and returns the refreshed record.
func (s *Service) Update(ctx context.Context, id int, req UpdateUserRequest) (*UserResponse, error) {
	patch := UserPatch{Username: req.Username}
	if req.Email != nil {
		lower := strings.ToLower(*req.Email)
		patch.Email = &lower
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password, s.bcryptCost)
		if err != nil {
			return nil, apperror.NewInternalError("failed to update user", err)
		}
		patch.PasswordHash = &hashed
	}
	if patch.IsEmpty() {
		return nil, apperror.NewValidationError("no fields provided for update", nil)
	}

	query, args := buildUserUpdate(id, patch)

	var u UserResponse
	err := s.db.QueryRow(ctx, query, args...).
		Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.ProfileImage, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("username or email already exists in another account", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update user", err)
	}
	return &u, nil
}

// buildUserUpdate turns a patch into a parameterized UPDATE. Only column
// names chosen here appear in the SQL text; every value is a placeholder.
func buildUserUpdate(id int, patch UserPatch) (string, []interface{}) {
	var setClauses []string
	var args []interface{}
	argID := 1

	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}
	if patch.Username != nil {
		add("username", *patch.Username)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.PasswordHash != nil {
		add("password", *patch.PasswordHash)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(setClauses, ", "), argID)
	return query, args
}

// Delete removes a user irreversibly and cleans up the image file the row
// referenced. A missing id is a 404.
func (s *Service) Delete(ctx context.Context, id int) error {
	var profileImage *string
	err := s.db.QueryRow(ctx, `DELETE FROM users WHERE id = $1 RETURNING profile_image`, id).
		Scan(&profileImage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFoundError("user not found", nil)
		}
		return apperror.NewDatabaseError("failed to delete user", err)
	}

	if profileImage != nil {
		// Best effort: a stale file is not worth failing the delete over.
		path := filepath.Join(s.uploadDir, filepath.Base(*profileImage))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.log.Warn("failed to remove profile image file", zap.String("path", path), zap.Error(err))
		}
	}
	return nil
}

// SetProfileImage stores the relative image path on the user row.
func (s *Service) SetProfileImage(ctx context.Context, id int, relPath string) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET profile_image = $1 WHERE id = $2`, relPath, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to update profile image", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("user not found", nil)
	}
	return nil
}
