package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerly/pos-backend/models"
	"github.com/grocerly/pos-backend/notifications"
	"github.com/grocerly/pos-backend/services"
)

func TestSetMaintenanceBroadcasts(t *testing.T) {
	store := newFakeSystemStore()
	emitter := &fakeEmitter{}
	svc := services.NewSystemService(store, notifications.New(emitter))

	require.NoError(t, svc.SetMaintenance(context.Background(), true, "root"))

	enabled, err := svc.MaintenanceEnabled(context.Background())
	require.NoError(t, err)
	assert.True(t, enabled)

	require.Len(t, emitter.calls, 1)
	assert.Equal(t, "all", emitter.calls[0].target)
	assert.Equal(t, notifications.EventMaintenance, emitter.calls[0].event)
}

func TestCategoryDeleteBlockedWhileInUse(t *testing.T) {
	categories := newMockCategoryRepo()
	svc := services.NewCategoryService(categories)

	created, err := svc.Create(context.Background(), models.CategoryRequest{Name: "Dairy"})
	require.NoError(t, err)

	categories.inUse[created.ID] = true
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), services.ErrCategoryInUse)

	categories.inUse[created.ID] = false
	assert.NoError(t, svc.Delete(context.Background(), created.ID))
}
