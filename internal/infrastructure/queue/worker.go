package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
)

// Worker runs Asynq task handlers (image cleanup, webhook delivery).
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
	p   *Processor
	log zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. Call Run() to start.
func NewWorker(redisOpt asynq.RedisClientOpt, p *Processor, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.WarnLevel,
	})
	w := &Worker{srv: srv, mux: asynq.NewServeMux(), p: p, log: log}
	w.mux.HandleFunc(TypeImageCleanup, w.handleImageCleanup)
	w.mux.HandleFunc(TypeWebhook, w.handleWebhook)
	return w
}

func (w *Worker) handleImageCleanup(ctx context.Context, t *asynq.Task) error {
	var p imageCleanupPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("image cleanup task payload invalid")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return w.p.RemoveImages(ctx, p.Refs)
}

func (w *Worker) handleWebhook(ctx context.Context, t *asynq.Task) error {
	var event ports.AuditEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		w.log.Error().Err(err).Msg("webhook task payload invalid")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return w.p.Deliver(ctx, event)
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
