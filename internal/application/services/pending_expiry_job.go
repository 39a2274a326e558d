package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/infrastructure/observability"
)

// PendingExpiryJob periodically cancels Pending reservations whose dates have
// all passed, so they no longer show up for approval.
type PendingExpiryJob struct {
	reservations *ReservationService
	schedule     string
	cron         *cron.Cron
	now          func() time.Time
}

// NewPendingExpiryJob creates a job that runs on schedule, a standard cron
// expression or descriptor such as "@daily".
func NewPendingExpiryJob(reservations *ReservationService, schedule string) *PendingExpiryJob {
	return &PendingExpiryJob{
		reservations: reservations,
		schedule:     schedule,
		now:          time.Now,
	}
}

// Start schedules the job. It returns an error for an invalid schedule.
func (j *PendingExpiryJob) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(j.schedule, func() {
		if _, err := j.RunOnce(context.Background()); err != nil {
			observability.GetLogger().Error().Err(err).Msg("Pending expiry run failed")
		}
	}); err != nil {
		return fmt.Errorf("invalid pending expiry schedule %q: %w", j.schedule, err)
	}

	j.cron = c
	c.Start()
	observability.GetLogger().Info().Str("schedule", j.schedule).Msg("Pending expiry job started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (j *PendingExpiryJob) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
	observability.GetLogger().Info().Msg("Pending expiry job stopped")
}

// RunOnce expires stale Pending reservations as of today and returns how
// many were cancelled.
func (j *PendingExpiryJob) RunOnce(ctx context.Context) (int, error) {
	ctx, span := observability.StartSpan(ctx, "PendingExpiryJob.RunOnce")
	defer span.End()

	today := entities.Today(j.now())
	expired, err := j.reservations.ExpireStalePending(ctx, today)
	if err != nil {
		observability.RecordError(span, err)
		return expired, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("today", today).
		Int("expired", expired).
		Msg("Expired stale pending reservations")
	return expired, nil
}
