package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/odyssey-erp/rentaldesk/internal/jobs"
)

// Expirer is implemented by partners.Service.
type Expirer interface {
	ExpireOverdue(ctx context.Context, today time.Time) (int64, error)
}

// PartnerExpiryJob moves active partner contracts past their end date to
// the expired status.
type PartnerExpiryJob struct {
	Expirer Expirer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewPartnerExpiryJob initialises the expiry handler.
func NewPartnerExpiryJob(expirer Expirer, logger *slog.Logger, metrics *jobmetrics.Metrics) *PartnerExpiryJob {
	return &PartnerExpiryJob{
		Expirer: expirer,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes TaskPartnerExpiry tasks.
func (j *PartnerExpiryJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("partner expiry: handler not configured")
	}
	var payload PartnerExpiryPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("partner expiry payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	day := j.clock()
	if payload.Day != "" {
		parsed, err := time.Parse(time.DateOnly, payload.Day)
		if err != nil {
			return fmt.Errorf("partner expiry day: %v: %w", err, asynq.SkipRetry)
		}
		day = parsed
	}
	_, err := j.Run(ctx, day)
	return err
}

// Run expires contracts that ended before day and returns how many changed.
func (j *PartnerExpiryJob) Run(ctx context.Context, day time.Time) (expired int64, err error) {
	if j.Expirer == nil {
		return 0, errors.New("partner expiry: expirer not configured")
	}
	tracker := j.Metrics.Track(TaskPartnerExpiry)
	defer func() { err = tracker.End(err) }()

	logger := j.logger().With(slog.String("day", day.Format(time.DateOnly)))
	start := time.Now()
	expired, err = j.Expirer.ExpireOverdue(ctx, day)
	if err != nil {
		logger.Error("partner expiry failed", slog.Any("error", err))
		return 0, err
	}
	j.Metrics.AddAffected(TaskPartnerExpiry, expired)
	logger.Info("partner expiry completed",
		slog.Int64("expired", expired),
		slog.Duration("duration", time.Since(start)),
	)
	return expired, nil
}

func (j *PartnerExpiryJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
