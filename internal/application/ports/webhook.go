package ports

import "context"

// Event names emitted for admin actions and notifications.
const (
	EventCommissionCreated = "commission.created"
	EventCommissionEdited  = "commission.edited"
	EventCommissionDeleted = "commission.deleted"
	EventUpdateAdded       = "commission.update_added"
	EventUpdateToggled     = "commission.update_toggled"
	EventUpdateDeleted     = "commission.update_deleted"
	EventUpdateVisible     = "commission.update_visible"
	EventLogin             = "session.login"
	EventLogout            = "session.logout"
)

// AuditEvent is a single audit event for logging or webhooks.
type AuditEvent struct {
	Event        string `json:"event"`
	ActorID      string `json:"actor_id,omitempty"`
	OwnerID      string `json:"owner_id,omitempty"`
	CommissionID string `json:"commission_id,omitempty"`
	UpdateID     string `json:"update_id,omitempty"`
	Text         string `json:"text,omitempty"`
	IP           string `json:"ip,omitempty"`
	Success      bool   `json:"success"`
	Err          string `json:"error,omitempty"`
}

// WebhookEmitter sends audit events to an external endpoint.
type WebhookEmitter interface {
	Emit(ctx context.Context, event AuditEvent) error
}
