package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/user/turismo-go/apperror"
	"github.com/user/turismo-go/config"
	"github.com/user/turismo-go/mailer"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations; it is the arbiter for concurrent duplicate registrations.
const pgUniqueViolation = "23505"

// Service implements registration, login, the two-phase password-reset flow
// and the self-service profile updates.
type Service struct {
	db      *pgxpool.Pool
	tokens  *TokenManager
	mail    mailer.Sender
	cfg     config.AuthConfig
	baseURL string
	log     *zap.Logger
}

// NewService wires the auth service. All collaborators are constructed at
// startup and injected; the service holds no lazily-initialized state.
func NewService(db *pgxpool.Pool, tokens *TokenManager, mail mailer.Sender, cfg config.AuthConfig, publicBaseURL string, log *zap.Logger) *Service {
	return &Service{
		db:      db,
		tokens:  tokens,
		mail:    mail,
		cfg:     cfg,
		baseURL: publicBaseURL,
		log:     log,
	}
}

// Register creates a new user with the default role. Duplicate username and
// email are reported as distinct conflicts, matching the registration form's
// per-field error display.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	hashed, err := HashPassword(req.Password, s.cfg.PasswordBcryptCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to register user", err)
	}

	user := &User{
		Username:       req.Username,
		Email:          strings.ToLower(req.Email),
		HashedPassword: hashed,
		Role:           RoleUser,
	}

	query := `INSERT INTO users (username, email, password, role)
              VALUES ($1, $2, $3, $4)
              RETURNING id, created_at`
	err = s.db.QueryRow(ctx, query, user.Username, user.Email, user.HashedPassword, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return nil, apperror.NewConflictError("username is already taken, please choose another", nil)
			}
			if strings.Contains(pgErr.ConstraintName, "email") {
				return nil, apperror.NewConflictError("email address is already registered, please use another", nil)
			}
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return user, nil
}

// Login authenticates by username and issues a session token. Unknown
// username and wrong password collapse into one generic outcome so valid
// usernames cannot be probed.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.getUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewAuthError("invalid username or password", nil)
		}
		s.log.Error("login lookup failed", zap.Error(err))
		return nil, apperror.NewDatabaseError("failed to log in", err)
	}

	if !VerifyPassword(req.Password, user.HashedPassword) {
		return nil, apperror.NewAuthError("invalid username or password", nil)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.log.Error("token issuance failed", zap.Error(err))
		return nil, apperror.NewInternalError("failed to log in", err)
	}

	return &LoginResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		ProfileImage: user.ProfileImage,
		AccessToken:  token,
	}, nil
}

// ForgotPassword starts the reset flow. A missing account is not an error:
// the caller's response is identical either way, only the server log notes
// the absence. A fresh token overwrites any prior one, so at most one reset
// is in flight per user.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(email)

	var userID int
	var userEmail string
	err := s.db.QueryRow(ctx, `SELECT id, email FROM users WHERE email = $1`, email).
		Scan(&userID, &userEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.log.Info("password reset requested for unknown email", zap.String("email", email))
			return nil
		}
		s.log.Error("forgot-password lookup failed", zap.Error(err))
		return apperror.NewDatabaseError("failed to process request", err)
	}

	token, err := NewResetToken()
	if err != nil {
		return apperror.NewInternalError("failed to process request", err)
	}
	expiry := time.Now().Add(s.cfg.ResetTokenTTL)

	_, err = s.db.Exec(ctx,
		`UPDATE users SET reset_password_token = $1, reset_password_expires = $2 WHERE id = $3`,
		token, expiry, userID)
	if err != nil {
		s.log.Error("failed to persist reset token", zap.Error(err))
		return apperror.NewDatabaseError("failed to process request", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.baseURL, token)
	if err := s.mail.Send(mailer.PasswordResetMessage(userEmail, resetURL)); err != nil {
		// The generic message keeps delivery failures from leaking whether
		// the account exists or whether the token was persisted.
		s.log.Error("failed to send reset email", zap.Int("user_id", userID), zap.Error(err))
		return apperror.NewMailError("error processing your request, please try again later", err)
	}

	s.log.Info("password reset email sent", zap.Int("user_id", userID))
	return nil
}

// ResetPassword completes the flow. The token match, the expiry check, the
// credential overwrite and the token clearing happen in one conditional
// UPDATE, so a token can be consumed exactly once even under concurrent
// attempts. Wrong and expired tokens are indistinguishable to the caller.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	hashed, err := HashPassword(newPassword, s.cfg.PasswordBcryptCost)
	if err != nil {
		return apperror.NewInternalError("failed to reset password", err)
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE users
         SET password = $1, reset_password_token = NULL, reset_password_expires = NULL
         WHERE reset_password_token = $2 AND reset_password_expires > now()`,
		hashed, token)
	if err != nil {
		s.log.Error("password reset update failed", zap.Error(err))
		return apperror.NewDatabaseError("failed to reset password", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewBadRequestError("reset token is invalid or has expired", nil)
	}
	return nil
}

// UpdateUsername renames the authenticated user. Uniqueness is arbitrated by
// the database constraint rather than a racy pre-check.
func (s *Service) UpdateUsername(ctx context.Context, userID int, username string) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET username = $1 WHERE id = $2`, username, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.NewConflictError("this username is already in use by another account", nil)
		}
		return apperror.NewDatabaseError("failed to update username", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("user not found", nil)
	}
	return nil
}

// UpdateEmail changes the authenticated user's email address.
func (s *Service) UpdateEmail(ctx context.Context, userID int, email string) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET email = $1 WHERE id = $2`, strings.ToLower(email), userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.NewConflictError("this email address is already in use by another account", nil)
		}
		return apperror.NewDatabaseError("failed to update email", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("user not found", nil)
	}
	return nil
}

// UpdatePassword changes the password after re-proving the current one.
func (s *Service) UpdatePassword(ctx context.Context, userID int, currentPassword, newPassword string) error {
	var storedHash string
	err := s.db.QueryRow(ctx, `SELECT password FROM users WHERE id = $1`, userID).Scan(&storedHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFoundError("user not found", nil)
		}
		return apperror.NewDatabaseError("failed to update password", err)
	}

	if !VerifyPassword(currentPassword, storedHash) {
		return apperror.NewAuthError("current password is incorrect", nil)
	}

	hashed, err := HashPassword(newPassword, s.cfg.PasswordBcryptCost)
	if err != nil {
		return apperror.NewInternalError("failed to update password", err)
	}

	if _, err := s.db.Exec(ctx, `UPDATE users SET password = $1 WHERE id = $2`, hashed, userID); err != nil {
		return apperror.NewDatabaseError("failed to update password", err)
	}
	return nil
}

func (s *Service) getUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	query := `SELECT id, username, email, password, role, profile_image, created_at
              FROM users WHERE username = $1`
	err := s.db.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.Role,
		&user.ProfileImage,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
