// Package notify defines the outbound collaborator capabilities: deciding who
// to tell is this system's job, delivering the message is not. Notifier and
// Directory are implemented elsewhere (email, SMS, chat, HR directory); this
// package ships a logging notifier and a roster-backed directory for local
// operation.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Priority of an outbound notification
type Priority string

const (
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Notifier delivers a message to one recipient. Delivery failures are the
// transport's problem; callers treat notification as best-effort.
type Notifier interface {
	Notify(ctx context.Context, recipientID, message string, priority Priority) error
}

// Directory resolves users holding a role, optionally filtered by department
// (empty string means any department).
type Directory interface {
	UsersWithRole(ctx context.Context, role, department string) ([]string, error)
}

// LogNotifier writes notifications to the log instead of delivering them.
// Used by the CLI when no transport is wired in.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) Notify(ctx context.Context, recipientID, message string, priority Priority) error {
	n.Logger.Info("notification",
		zap.String("recipient", recipientID),
		zap.String("priority", string(priority)),
		zap.String("message", message))
	return nil
}

// RosterDirectory resolves roles from a static in-config roster. Keys are
// "role" or "role/department"; the departmental entry wins when present.
type RosterDirectory struct {
	Roster map[string][]string
}

func (d *RosterDirectory) UsersWithRole(ctx context.Context, role, department string) ([]string, error) {
	if department != "" {
		if users, ok := d.Roster[role+"/"+department]; ok {
			return users, nil
		}
	}
	return d.Roster[role], nil
}
