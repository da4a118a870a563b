package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/calendar"
)

// CalendarSyncer pulls calendar events for every connected user.
type CalendarSyncer interface {
	SyncAll(ctx context.Context) (calendar.SyncAllResult, error)
}

type CalendarJobs struct {
	syncer   CalendarSyncer
	interval time.Duration
}

func NewCalendarJobs(syncer CalendarSyncer, interval time.Duration) *CalendarJobs {
	return &CalendarJobs{syncer: syncer, interval: interval}
}

func (j *CalendarJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("sync_google_calendars", j.interval, j.SyncCalendars)
}

func (j *CalendarJobs) SyncCalendars(ctx context.Context) error {
	slog.Info("Cron: Starting calendar sync job")

	result, err := j.syncer.SyncAll(ctx)
	if err != nil {
		return err
	}

	slog.Info("Cron: Calendar sync job completed",
		"users", result.Users,
		"failed", result.Failed,
		"events", result.Events,
	)
	return nil
}
