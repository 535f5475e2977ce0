package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/lametric/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// StartPoller launches a background goroutine that refreshes the store. The
// wait between polls doubles with every consecutive failure up to
// maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, fetcher Fetcher, interval time.Duration, log logrus.FieldLogger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			refresh(ctx, store, fetcher, log)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

// calculateBackoff returns base doubled once per failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}

func refresh(ctx context.Context, store *state.Store, fetcher Fetcher, log logrus.FieldLogger) error {
	device, err := fetcher.FetchState(ctx)
	if err != nil {
		return fail(ctx, store, log, "device", err)
	}
	apps, err := fetcher.FetchApps(ctx)
	if err != nil {
		return fail(ctx, store, log, "apps", err)
	}
	queue, err := fetcher.FetchNotifications(ctx)
	if err != nil {
		return fail(ctx, store, log, "notifications", err)
	}
	store.Update(&device, apps, queue, nil)
	return nil
}

func fail(ctx context.Context, store *state.Store, log logrus.FieldLogger, what string, err error) error {
	if ctx.Err() != nil {
		return err
	}
	store.Update(nil, nil, nil, err)
	log.WithFields(logrus.Fields{
		"resource": what,
		"failures": store.Snapshot().ConsecutiveFailures,
	}).WithError(err).Warn("poll failed")
	return err
}
