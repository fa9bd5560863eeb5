package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
)

func window(t *testing.T, startH, endH int) model.TimeWindow {
	t.Helper()
	return model.TimeWindow{
		Start: time.Date(2026, 3, 1, startH, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 1, endH, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStoreResourceVersioning(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	r := &model.Resource{ID: "cam-1", Type: model.ResourceEquipment, Subtype: "camera", Availability: model.AvailabilityAvailable}
	require.NoError(t, store.InsertResource(ctx, r))
	assert.Equal(t, int64(1), r.Version)

	// first writer wins
	loaded, err := store.GetResource(ctx, "cam-1")
	require.NoError(t, err)
	loaded.Availability = model.AvailabilityAssigned
	require.NoError(t, store.UpdateResource(ctx, loaded))
	assert.Equal(t, int64(2), loaded.Version)

	// second writer carrying the old version is rejected
	stale := &model.Resource{ID: "cam-1", Version: 1, Availability: model.AvailabilityMaintenance}
	err = store.UpdateResource(ctx, stale)
	assert.ErrorIs(t, err, ErrVersionConflict)

	// stored state reflects only the successful write
	current, err := store.GetResource(ctx, "cam-1")
	require.NoError(t, err)
	assert.Equal(t, model.AvailabilityAssigned, current.Availability)
}

func TestMemoryStoreEventRevisionGuard(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	ev := &model.Event{ID: "ev-1", Window: window(t, 10, 11), Status: model.EventScheduled, Revision: 1}
	require.NoError(t, store.InsertEvent(ctx, ev))

	ev.Window = window(t, 12, 13)
	require.NoError(t, store.UpdateEvent(ctx, ev, 1))
	assert.Equal(t, int64(2), ev.Revision)

	err := store.UpdateEvent(ctx, ev, 1)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestMemoryStoreListActiveEventsOverlapping(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.InsertEvent(ctx, &model.Event{ID: "a", Window: window(t, 10, 11), Status: model.EventScheduled}))
	require.NoError(t, store.InsertEvent(ctx, &model.Event{ID: "b", Window: window(t, 10, 12), Status: model.EventCancelled}))
	require.NoError(t, store.InsertEvent(ctx, &model.Event{ID: "c", Window: window(t, 14, 15), Status: model.EventInProgress}))

	got, err := store.ListActiveEventsOverlapping(ctx, window(t, 10, 15), 20)
	require.NoError(t, err)
	require.Len(t, got, 2, "cancelled events are not conflict candidates")
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	capped, err := store.ListActiveEventsOverlapping(ctx, window(t, 10, 15), 1)
	require.NoError(t, err)
	assert.Len(t, capped, 1)
}

func TestMemoryStoreEscalationStateDefault(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	st, err := store.GetEscalationState(ctx, EscalationKindRequest, "req-1")
	require.NoError(t, err)
	assert.Equal(t, 0, st.Tier, "unescalated items start at tier zero")

	st.Tier = 2
	st.LastEscalatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpsertEscalationState(ctx, st))

	got, err := store.GetEscalationState(ctx, EscalationKindRequest, "req-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Tier)
}
