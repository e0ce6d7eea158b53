package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/grocerly/pos-backend/models"
	"github.com/grocerly/pos-backend/notifications"
	"github.com/grocerly/pos-backend/repository"
)

// lockoutThreshold is the number of consecutive failures that raises a
// security alert.
const lockoutThreshold = 5

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotApproved        = errors.New("account is not approved")
	ErrUsernameTaken      = errors.New("username is already taken")
)

// SecurityStore is the runtime-state side of auth: failure counters and the
// revoked-session blacklist.
type SecurityStore interface {
	RecordLoginFailure(ctx context.Context, username string) (int64, error)
	ClearLoginFailures(ctx context.Context, username string) error
	RevokeSession(ctx context.Context, tokenID string, until time.Time) error
	SessionRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuditPublisher is the event-log side; a nil implementation is acceptable.
type AuditPublisher interface {
	Publish(ctx context.Context, event models.AuditEvent) error
}

type AuthService struct {
	users     repository.UserRepo
	store     SecurityStore
	notifier  *notifications.Notifier
	audit     AuditPublisher
	jwtSecret []byte
}

func NewAuthService(users repository.UserRepo, store SecurityStore, notifier *notifications.Notifier, audit AuditPublisher, jwtSecret []byte) *AuthService {
	return &AuthService{
		users:     users,
		store:     store,
		notifier:  notifier,
		audit:     audit,
		jwtSecret: jwtSecret,
	}
}

// Register creates a pending account and notifies approvers.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
		FullName: req.FullName,
		Role:     req.Role,
		Status:   models.StatusPending,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.notifier.NotifyNewUserRegistration(user.ID.Hex(), user.Username, user.Role)
	s.notifyPendingCount(ctx)

	if s.audit != nil {
		_ = s.audit.Publish(ctx, models.AuditEvent{
			Event:  models.AuditUserRegistered,
			UserID: user.ID.Hex(),
			Data:   map[string]interface{}{"username": user.Username, "role": user.Role},
		})
	}
	return user, nil
}

// Login verifies credentials and issues a session token. Pending and
// rejected accounts cannot log in even with the right password.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest, ip string) (string, *models.User, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.recordFailure(ctx, req.Username, ip)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.recordFailure(ctx, req.Username, ip)
		s.notifier.NotifyLoginActivity(notifications.LoginActivity{
			UserID:   user.ID.Hex(),
			Username: user.Username,
			Role:     user.Role,
			Success:  false,
			IP:       ip,
		})
		return "", nil, ErrInvalidCredentials
	}

	if user.Status != models.StatusApproved {
		return "", nil, ErrNotApproved
	}

	if err := s.store.ClearLoginFailures(ctx, req.Username); err != nil {
		zap.L().Warn("failed to clear login failures", zap.Error(err))
	}

	token, err := GenerateJWT(user.ID.Hex(), user.Username, user.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	if err := s.users.Update(ctx, user.ID, map[string]interface{}{"last_login": now}); err != nil {
		zap.L().Warn("failed to record last login", zap.Error(err))
	}
	user.LastLogin = &now

	s.notifier.NotifyLoginActivity(notifications.LoginActivity{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		Role:     user.Role,
		Success:  true,
		IP:       ip,
	})
	return token, user, nil
}

// Logout revokes the session so the token stops working before its expiry.
func (s *AuthService) Logout(ctx context.Context, claims *SessionClaims) error {
	return s.store.RevokeSession(ctx, claims.TokenID, claims.Expiry)
}

// SessionRevoked reports whether a token id has been blacklisted.
func (s *AuthService) SessionRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.store.SessionRevoked(ctx, tokenID)
}

func (s *AuthService) recordFailure(ctx context.Context, username, ip string) {
	count, err := s.store.RecordLoginFailure(ctx, username)
	if err != nil {
		zap.L().Warn("failed to record login failure", zap.Error(err))
		return
	}
	if count == lockoutThreshold {
		s.notifier.NotifySecurityAlert(notifications.SecurityAlert{
			Type:     notifications.TypeSecurityAlert,
			Username: username,
			Severity: "high",
			Message:  "5 consecutive failed login attempts for " + username,
		})
		zap.L().Warn("repeated login failures",
			zap.String("username", username), zap.String("ip", ip))
	}
}

func (s *AuthService) notifyPendingCount(ctx context.Context) {
	count, err := s.users.CountPending(ctx)
	if err != nil {
		zap.L().Warn("failed to count pending users", zap.Error(err))
		return
	}
	s.notifier.NotifyPendingApprovalsUpdate(models.RoleManager, count)
	s.notifier.NotifyPendingApprovalsUpdate(models.RoleSuperadmin, count)
}
