package ports

import "context"

// TaskEnqueuer enqueues async tasks (image cleanup, webhook delivery).
type TaskEnqueuer interface {
	EnqueueImageCleanup(ctx context.Context, refs []string) error
	EnqueueWebhook(ctx context.Context, event AuditEvent) error
}
