package conflict

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
)

// mockEventSource implements EventSource for testing
type mockEventSource struct {
	events  []model.Event
	listErr error
	gotLimit int
}

func (m *mockEventSource) ListActiveEventsOverlapping(ctx context.Context, window model.TimeWindow, limit int) ([]model.Event, error) {
	m.gotLimit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Event
	for _, ev := range m.events {
		if ev.Status.ActiveEvent() && ev.Window.Overlaps(window) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func win(t *testing.T, startH, endH int) model.TimeWindow {
	t.Helper()
	return model.TimeWindow{
		Start: time.Date(2026, 3, 1, startH, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 1, endH, 0, 0, 0, time.UTC),
	}
}

func TestFindTemporalConflicts(t *testing.T) {
	ctx := context.Background()
	loc := &model.GeoPoint{Lat: 9.0054, Lon: 38.7636}

	eventX := model.Event{
		ID:       "x",
		Window:   win(t, 10, 11),
		Status:   model.EventScheduled,
		Location: model.Location{Name: "HQ", Coordinates: loc},
	}
	source := &mockEventSource{events: []model.Event{eventX}}
	detector := NewDetector(source, 5, 20)

	// overlapping window at the same location: temporal and spatial
	set, err := detector.Find(ctx, win(t, 10, 12), loc, "")
	require.NoError(t, err)
	require.Len(t, set.Temporal, 1)
	assert.Equal(t, "x", set.Temporal[0].ID)
	require.Len(t, set.Spatial, 1)
	assert.InDelta(t, 0, set.Spatial[0].DistanceKm, 1e-9)
	assert.False(t, set.Empty())

	// disjoint window: no conflicts
	set, err = detector.Find(ctx, win(t, 12, 13), loc, "")
	require.NoError(t, err)
	assert.True(t, set.Empty())

	// half-open: adjacent window does not conflict
	set, err = detector.Find(ctx, win(t, 11, 12), loc, "")
	require.NoError(t, err)
	assert.True(t, set.Empty())
}

func TestFindSpatialRadius(t *testing.T) {
	ctx := context.Background()

	near := model.Event{
		ID:     "near",
		Window: win(t, 10, 11),
		Status: model.EventScheduled,
		// ~1.1 km north of the probe point
		Location: model.Location{Coordinates: &model.GeoPoint{Lat: 9.01, Lon: 38.76}},
	}
	far := model.Event{
		ID:     "far",
		Window: win(t, 10, 11),
		Status: model.EventScheduled,
		// ~111 km north
		Location: model.Location{Coordinates: &model.GeoPoint{Lat: 10.0, Lon: 38.76}},
	}
	noCoords := model.Event{
		ID:       "nocoords",
		Window:   win(t, 10, 11),
		Status:   model.EventScheduled,
		Location: model.Location{Name: "unknown"},
	}

	source := &mockEventSource{events: []model.Event{near, far, noCoords}}
	detector := NewDetector(source, 5, 20)

	probe := &model.GeoPoint{Lat: 9.0, Lon: 38.76}
	set, err := detector.Find(ctx, win(t, 10, 11), probe, "")
	require.NoError(t, err)

	// all three overlap in time
	assert.Len(t, set.Temporal, 3)

	// only the near event is a spatial conflict; events without coordinates
	// cannot be
	require.Len(t, set.Spatial, 1)
	assert.Equal(t, "near", set.Spatial[0].Event.ID)
}

func TestFindWithoutLocation(t *testing.T) {
	ctx := context.Background()
	source := &mockEventSource{events: []model.Event{{
		ID:       "x",
		Window:   win(t, 10, 11),
		Status:   model.EventScheduled,
		Location: model.Location{Coordinates: &model.GeoPoint{Lat: 9, Lon: 38}},
	}}}
	detector := NewDetector(source, 5, 20)

	set, err := detector.Find(ctx, win(t, 10, 11), nil, "")
	require.NoError(t, err)
	assert.Len(t, set.Temporal, 1)
	assert.Empty(t, set.Spatial)
}

func TestFindExcludesRescheduledEvent(t *testing.T) {
	ctx := context.Background()
	source := &mockEventSource{events: []model.Event{{
		ID:     "self",
		Window: win(t, 10, 11),
		Status: model.EventScheduled,
	}}}
	detector := NewDetector(source, 5, 20)

	set, err := detector.Find(ctx, win(t, 10, 11), nil, "self")
	require.NoError(t, err)
	assert.True(t, set.Empty(), "an event does not conflict with itself on reschedule")
}

func TestFindConflictSymmetry(t *testing.T) {
	ctx := context.Background()

	a := model.Event{ID: "a", Window: win(t, 10, 11), Status: model.EventScheduled}
	b := model.Event{ID: "b", Window: win(t, 10, 12), Status: model.EventInProgress}
	source := &mockEventSource{events: []model.Event{a, b}}
	detector := NewDetector(source, 5, 20)

	setA, err := detector.Find(ctx, a.Window, nil, "a")
	require.NoError(t, err)
	setB, err := detector.Find(ctx, b.Window, nil, "b")
	require.NoError(t, err)

	require.Len(t, setA.Temporal, 1)
	require.Len(t, setB.Temporal, 1)
	assert.Equal(t, "b", setA.Temporal[0].ID)
	assert.Equal(t, "a", setB.Temporal[0].ID)
}

func TestFindInvalidWindow(t *testing.T) {
	detector := NewDetector(&mockEventSource{}, 5, 20)

	now := time.Now()
	_, err := detector.Find(context.Background(), model.TimeWindow{Start: now, End: now}, nil, "")
	assert.Error(t, err)
}

func TestFindSourceError(t *testing.T) {
	source := &mockEventSource{listErr: errors.New("db down")}
	detector := NewDetector(source, 5, 20)

	_, err := detector.Find(context.Background(), win(t, 10, 11), nil, "")
	assert.Error(t, err)
}

func TestNewDetectorDefaults(t *testing.T) {
	source := &mockEventSource{}
	detector := NewDetector(source, 0, 0)

	_, err := detector.Find(context.Background(), win(t, 10, 11), nil, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultResultLimit, source.gotLimit)
	assert.Equal(t, DefaultRadiusKm, detector.radiusKm)
}
