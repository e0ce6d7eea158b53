package services

import (
	"context"

	"github.com/grocerly/pos-backend/notifications"
)

// MaintenanceStore persists the maintenance flag across restarts.
type MaintenanceStore interface {
	MaintenanceEnabled(ctx context.Context) (bool, error)
	SetMaintenance(ctx context.Context, enabled bool) error
}

type SystemService struct {
	store    MaintenanceStore
	notifier *notifications.Notifier
}

func NewSystemService(store MaintenanceStore, notifier *notifications.Notifier) *SystemService {
	return &SystemService{store: store, notifier: notifier}
}

func (s *SystemService) MaintenanceEnabled(ctx context.Context) (bool, error) {
	return s.store.MaintenanceEnabled(ctx)
}

// SetMaintenance flips the flag and broadcasts the change to every
// connected client.
func (s *SystemService) SetMaintenance(ctx context.Context, enabled bool, actor string) error {
	if err := s.store.SetMaintenance(ctx, enabled); err != nil {
		return err
	}
	s.notifier.NotifyMaintenanceMode(enabled, actor)
	return nil
}
