package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/lametric"
	"github.com/five82/lametric/internal/prefs"
	"github.com/five82/lametric/internal/state"
	"github.com/five82/lametric/internal/ui"
)

// Options configure the dashboard.
type Options struct {
	Client    *lametric.Client
	Logger    logrus.FieldLogger
	Target    string // shown in the header
	PrefsPath string // empty uses default ~/.config/lametric/prefs.toml
	PollEvery time.Duration
}

// Run boots the dashboard until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Client == nil {
		return fmt.Errorf("dashboard requires a client")
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	interval := opts.PollEvery
	if interval <= 0 {
		interval = defaultPollInterval
	}

	device := NewDevice(opts.Client)
	store := &state.Store{}

	// Populate the store before the first frame; failures show in the header.
	_ = refresh(ctx, store, device, log)
	StartPoller(ctx, store, device, interval, log)

	log.WithFields(logrus.Fields{
		"target":   opts.Target,
		"interval": interval,
		"theme":    userPrefs.Theme,
	}).Debug("starting dashboard")

	return ui.Run(ui.Options{
		Context:    ctx,
		Controller: device,
		Store:      store,
		Target:     opts.Target,
		PollTick:   time.Second,
		ThemeName:  userPrefs.Theme,
		ViewName:   userPrefs.View,
		PrefsPath:  prefsPath,
	})
}
