package jobs

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
)

// Client enqueues one-off runs of the scheduled tasks.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) (*Client, error) {
	return &Client{client: asynq.NewClient(redisOpts)}, nil
}

// EnqueuePartnerExpiry enqueues an immediate expiry run.
func (c *Client) EnqueuePartnerExpiry(ctx context.Context, payload PartnerExpiryPayload) (*asynq.TaskInfo, error) {
	task, err := NewPartnerExpiryTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(3))
}

// EnqueueIdempotencyCleanup enqueues an immediate idempotency key sweep.
func (c *Client) EnqueueIdempotencyCleanup(ctx context.Context, retention time.Duration) (*asynq.TaskInfo, error) {
	task, err := NewIdempotencyCleanupTask(retention)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(1))
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
