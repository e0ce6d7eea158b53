package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/grocerly/pos-backend/models"
	"github.com/grocerly/pos-backend/notifications"
	"github.com/grocerly/pos-backend/repository"
)

var ErrAlreadyDecided = errors.New("user approval already decided")

type UserService struct {
	users    repository.UserRepo
	notifier *notifications.Notifier
}

func NewUserService(users repository.UserRepo, notifier *notifications.Notifier) *UserService {
	return &UserService{users: users, notifier: notifier}
}

func (s *UserService) List(ctx context.Context, status string, limit, skip int) ([]models.User, int64, error) {
	return s.users.Find(ctx, status, limit, skip)
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// Decide approves or rejects a pending registration and notifies the
// approver roles plus the pending-approvals badges.
func (s *UserService) Decide(ctx context.Context, id primitive.ObjectID, approve bool, actor string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Status != models.StatusPending {
		return nil, ErrAlreadyDecided
	}

	status := models.StatusRejected
	if approve {
		status = models.StatusApproved
	}
	updates := map[string]interface{}{
		"status":      status,
		"approved_by": actor,
	}
	if err := s.users.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	user.Status = status
	user.ApprovedBy = actor

	s.notifier.NotifyUserApproval(user.ID.Hex(), user.Username, user.Role, approve, actor)
	s.notifyPendingCount(ctx)
	return user, nil
}

// Delete soft-deletes an account and pushes a forced logout to any live
// session that user still holds.
func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID, actor string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.notifier.NotifySecurityAlert(notifications.SecurityAlert{
		Type:     notifications.TypeSessionTerminated,
		UserID:   user.ID.Hex(),
		Username: user.Username,
		Severity: "medium",
		Message:  "Account " + user.Username + " was deleted by " + actor,
	})
	return nil
}

func (s *UserService) notifyPendingCount(ctx context.Context) {
	count, err := s.users.CountPending(ctx)
	if err != nil {
		zap.L().Warn("failed to count pending users", zap.Error(err))
		return
	}
	s.notifier.NotifyPendingApprovalsUpdate(models.RoleManager, count)
	s.notifier.NotifyPendingApprovalsUpdate(models.RoleSuperadmin, count)
}
