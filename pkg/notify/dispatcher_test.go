package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockNotifier implements Notifier for testing
type mockNotifier struct {
	sent    []string
	failFor map[string]error
}

func (m *mockNotifier) Notify(ctx context.Context, recipientID, message string, priority Priority) error {
	if err, ok := m.failFor[recipientID]; ok {
		return err
	}
	m.sent = append(m.sent, recipientID)
	return nil
}

func TestDispatcherSendBestEffort(t *testing.T) {
	notifier := &mockNotifier{failFor: map[string]error{"down": errors.New("smtp timeout")}}
	d := NewDispatcher(notifier, 0, zap.NewNop())

	sent := d.Send(context.Background(), []string{"lead-1", "down", "lead-2"}, "overdue", PriorityHigh)

	// a failed delivery does not stop the fan-out and is not an error
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"lead-1", "lead-2"}, notifier.sent)
}

func TestDispatcherRespectsContextCancellation(t *testing.T) {
	notifier := &mockNotifier{}
	// burst of 1 forces the second send to wait on the limiter
	d := NewDispatcher(notifier, 1, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sent := d.Send(ctx, []string{"a", "b"}, "msg", PriorityCritical)
	assert.Equal(t, 0, sent)
}

func TestRosterDirectory(t *testing.T) {
	d := &RosterDirectory{Roster: map[string][]string{
		"functional_lead":      {"lead-global"},
		"functional_lead/news": {"lead-news"},
	}}

	users, err := d.UsersWithRole(context.Background(), "functional_lead", "news")
	require.NoError(t, err)
	assert.Equal(t, []string{"lead-news"}, users)

	users, err = d.UsersWithRole(context.Background(), "functional_lead", "sports")
	require.NoError(t, err)
	assert.Equal(t, []string{"lead-global"}, users)

	users, err = d.UsersWithRole(context.Background(), "unknown_role", "")
	require.NoError(t, err)
	assert.Empty(t, users)
}
