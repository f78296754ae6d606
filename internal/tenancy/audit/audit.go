// Package audit records security relevant actions as structured log events.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

// Action names recorded by the service layer.
const (
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionRegister       = "register"
	ActionInvite         = "invite"
	ActionInviteRevoke   = "invite_revoke"
	ActionInviteAccept   = "invite_accept"
	ActionRoleChange     = "role_change"
	ActionStatusChange   = "status_change"
	ActionPasswordChange = "password_change"
	ActionTenantCreate   = "tenant_create"
	ActionBootstrap      = "bootstrap"
	ActionAccessDenied   = "access_denied"

	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusDenied  = "denied"
)

type Logger struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewLogger returns an audit logger writing through logger. A nil logger
// drops every event.
func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slogx.Discard()
	}
	return &Logger{logger: logger.With("log_type", "audit"), now: time.Now}
}

func (al *Logger) LogAction(ctx context.Context, tenantID, userID, action, resource, resourceID, status, details string) {
	if al == nil {
		return
	}
	al.logger.LogAttrs(ctx, slog.LevelInfo, "audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("tenant_id", tenantID),
		slog.String("user_id", userID),
		slog.String("status", status),
		slog.String("details", details),
		slog.String("request_id", slogx.RequestID(ctx)),
		slog.Time("timestamp", al.now().UTC()),
	)
}

// LogDenied records a request refused by an authorization check.
func (al *Logger) LogDenied(ctx context.Context, tenantID, userID, resource, reason string) {
	al.LogAction(ctx, tenantID, userID, ActionAccessDenied, resource, "", StatusDenied, reason)
}
