package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, start, end string) TimeWindow {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	require.NoError(t, err)
	e, err := time.Parse(time.RFC3339, end)
	require.NoError(t, err)
	return TimeWindow{Start: s, End: e}
}

func TestTimeWindowValidate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		window  TimeWindow
		wantErr bool
	}{
		{"valid", TimeWindow{Start: now, End: now.Add(time.Hour)}, false},
		{"end equals start", TimeWindow{Start: now, End: now}, true},
		{"end before start", TimeWindow{Start: now, End: now.Add(-time.Minute)}, true},
		{"zero start", TimeWindow{End: now}, true},
		{"zero end", TimeWindow{Start: now}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.window.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTimeWindowOverlaps(t *testing.T) {
	base := mustWindow(t, "2026-03-01T10:00:00Z", "2026-03-01T11:00:00Z")

	tests := []struct {
		name  string
		other TimeWindow
		want  bool
	}{
		{"partial overlap at end", mustWindow(t, "2026-03-01T10:30:00Z", "2026-03-01T11:30:00Z"), true},
		{"partial overlap at start", mustWindow(t, "2026-03-01T09:30:00Z", "2026-03-01T10:30:00Z"), true},
		{"contained", mustWindow(t, "2026-03-01T10:15:00Z", "2026-03-01T10:45:00Z"), true},
		{"containing", mustWindow(t, "2026-03-01T09:00:00Z", "2026-03-01T12:00:00Z"), true},
		{"identical", base, true},
		{"adjacent after", mustWindow(t, "2026-03-01T11:00:00Z", "2026-03-01T12:00:00Z"), false},
		{"adjacent before", mustWindow(t, "2026-03-01T09:00:00Z", "2026-03-01T10:00:00Z"), false},
		{"disjoint after", mustWindow(t, "2026-03-01T12:00:00Z", "2026-03-01T13:00:00Z"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			// overlap is symmetric
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestTimeWindowContains(t *testing.T) {
	w := mustWindow(t, "2026-03-01T10:00:00Z", "2026-03-01T11:00:00Z")

	assert.True(t, w.Contains(w.Start), "start is inside a half-open window")
	assert.True(t, w.Contains(w.Start.Add(30*time.Minute)))
	assert.False(t, w.Contains(w.End), "end is outside a half-open window")
	assert.False(t, w.Contains(w.Start.Add(-time.Second)))
}
