package queue

import (
	"context"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
)

// InlineEnqueuer runs tasks in the calling goroutine when Redis/Asynq is not
// configured. Failures are logged by the processor and not retried.
type InlineEnqueuer struct {
	p *Processor
}

func NewInlineEnqueuer(p *Processor) *InlineEnqueuer {
	return &InlineEnqueuer{p: p}
}

func (q *InlineEnqueuer) EnqueueImageCleanup(ctx context.Context, refs []string) error {
	return q.p.RemoveImages(context.WithoutCancel(ctx), refs)
}

func (q *InlineEnqueuer) EnqueueWebhook(ctx context.Context, event ports.AuditEvent) error {
	return q.p.Deliver(context.WithoutCancel(ctx), event)
}

var _ ports.TaskEnqueuer = (*InlineEnqueuer)(nil)
