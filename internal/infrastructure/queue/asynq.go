package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
)

const (
	TypeImageCleanup = "images:cleanup"
	TypeWebhook      = "webhook:emit"
)

// imageCleanupPayload is the JSON body of a TypeImageCleanup task.
type imageCleanupPayload struct {
	Refs []string `json:"refs"`
}

type TaskEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisClientOpt, log zerolog.Logger) *TaskEnqueuer {
	return &TaskEnqueuer{client: asynq.NewClient(redisOpt), log: log}
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

func (q *TaskEnqueuer) EnqueueImageCleanup(ctx context.Context, refs []string) error {
	if len(refs) == 0 {
		return nil
	}
	payload, err := json.Marshal(imageCleanupPayload{Refs: refs})
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, asynq.NewTask(TypeImageCleanup, payload), asynq.MaxRetry(5))
	if err != nil {
		q.log.Warn().Err(err).Strs("refs", refs).Msg("enqueue image cleanup failed")
		return err
	}
	return nil
}

func (q *TaskEnqueuer) EnqueueWebhook(ctx context.Context, event ports.AuditEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, asynq.NewTask(TypeWebhook, payload), asynq.MaxRetry(10), asynq.Timeout(30*time.Second))
	if err != nil {
		q.log.Warn().Err(err).Str("event", event.Event).Msg("enqueue webhook failed")
		return err
	}
	return nil
}

var _ ports.TaskEnqueuer = (*TaskEnqueuer)(nil)
