package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/awaaz-labs/civic-portal/internal/auth"
	"github.com/awaaz-labs/civic-portal/internal/config"
	"github.com/awaaz-labs/civic-portal/internal/domain"
	"github.com/awaaz-labs/civic-portal/internal/events"
	"github.com/awaaz-labs/civic-portal/internal/repository"
	apperrors "github.com/awaaz-labs/civic-portal/pkg/util"
)

const minPasswordLength = 6

// RegisterInput describes a registration payload.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
	Phone    string
	Address  string
}

// AuthService coordinates registration, session and profile flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	limiter    *auth.LoginLimiter
	dispatcher events.Dispatcher
	adminEmail string
	bcryptCost int
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Limiter    *auth.LoginLimiter
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.CitizenTokenTTLHours, cfg.Auth.AdminTokenTTLHours),
		limiter:    deps.Limiter,
		dispatcher: deps.Dispatcher,
		adminEmail: strings.ToLower(cfg.Auth.AdminEmail),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account. Duplicate emails yield a conflict and no
// new record.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)

	if email == "" || input.Password == "" || name == "" || input.Role == "" {
		return nil, apperrors.NewValidationError("email, password, name and role are required", nil)
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password must be at least 6 characters", nil)
	}
	if input.Role == domain.RoleCitizen && strings.TrimSpace(input.Phone) == "" {
		return nil, apperrors.NewValidationError("phone number is required for citizen accounts", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("an account with this email already exists", nil)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         input.Role,
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		Verified:     false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.NewConflict("an account with this email already exists", nil)
		}
		return nil, err
	}

	s.publishEvent(ctx, events.EventUserRegistered, events.UserRegisteredPayload{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Role:   user.Role,
	})
	return user, nil
}

// LoginCitizen authenticates a citizen and issues a session token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) LoginCitizen(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email and password are required", nil)
	}
	if !s.limiter.Allow(ctx, email) {
		return nil, "", time.Time{}, apperrors.NewDomainError("RATE_LIMITED", "too many login attempts", http.StatusTooManyRequests, nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if user.Role == domain.RoleAdmin {
		return nil, "", time.Time{}, apperrors.NewForbidden("admin accounts must use the admin login portal")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	s.limiter.Reset(ctx, email)
	return user, token, exp, nil
}

// LoginAdmin authenticates the pre-authorized admin account. Only the
// configured admin email can ever receive an admin session, regardless of
// what role other accounts carry.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email and password are required", nil)
	}
	if email != s.adminEmail {
		return nil, "", time.Time{}, apperrors.NewForbidden("only authorized officials can access the admin portal")
	}
	if !s.limiter.Allow(ctx, email) {
		return nil, "", time.Time{}, apperrors.NewDomainError("RATE_LIMITED", "too many login attempts", http.StatusTooManyRequests, nil)
	}

	admin, err := s.users.GetAdminByEmail(ctx, s.adminEmail)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("admin account not found")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if !admin.Verified {
		return nil, "", time.Time{}, apperrors.NewForbidden("admin account is not verified")
	}

	token, exp, err := s.tokenMgr.GenerateToken(admin.ID.Hex(), admin.Email, admin.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	s.limiter.Reset(ctx, email)
	return admin, token, exp, nil
}

// Profile fetches fresh account data for the authenticated user.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid session subject")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile overwrites the mutable profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update repository.ProfileUpdate) (*domain.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid session subject")
	}
	if strings.TrimSpace(update.Name) == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	user, err := s.users.UpdateProfile(ctx, id, update)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperrors.NewUnauthorized("invalid session subject")
	}
	if currentPassword == "" || newPassword == "" {
		return apperrors.NewValidationError("current and new password are required", nil)
	}
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("new password must be at least 6 characters", nil)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewValidationError("current password is incorrect", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, id, hash)
}

// ListUsers returns all accounts for the admin dashboard. Sensitive fields
// are stripped at the DTO layer.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publishEvent(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}
