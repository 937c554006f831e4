package queue

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
)

// Processor does the work behind each task type. Both the asynq worker and
// the inline enqueuer delegate to it.
type Processor struct {
	images  ports.ImageStore
	emitter ports.WebhookEmitter
	log     zerolog.Logger
}

func NewProcessor(images ports.ImageStore, emitter ports.WebhookEmitter, log zerolog.Logger) *Processor {
	return &Processor{images: images, emitter: emitter, log: log}
}

// RemoveImages removes every ref and returns the joined failures.
func (p *Processor) RemoveImages(ctx context.Context, refs []string) error {
	var errs []error
	for _, ref := range refs {
		if err := p.images.Remove(ctx, ref); err != nil {
			p.log.Warn().Err(err).Str("ref", ref).Msg("remove image failed")
			errs = append(errs, err)
			continue
		}
		p.log.Debug().Str("ref", ref).Msg("image removed")
	}
	return errors.Join(errs...)
}

// Deliver sends one event to the webhook endpoint.
func (p *Processor) Deliver(ctx context.Context, event ports.AuditEvent) error {
	if err := p.emitter.Emit(ctx, event); err != nil {
		p.log.Warn().Err(err).Str("event", event.Event).Msg("webhook delivery failed")
		return err
	}
	return nil
}
