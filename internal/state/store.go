package state

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/five82/lametric"
)

// Snapshot represents the latest device data available to the dashboard.
type Snapshot struct {
	Device              lametric.DeviceState
	HasDevice           bool
	Apps                lametric.AppList
	Notifications       []lametric.NotificationQueueItem
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the device has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// WidgetRow is one widget of the apps view.
type WidgetRow struct {
	Package  string
	WidgetID string
	Index    int
	Visible  bool
}

// Widgets flattens the installed apps into rows ordered by package, then
// widget index.
func (s Snapshot) Widgets() []WidgetRow {
	pkgs := make([]string, 0, len(s.Apps))
	for pkg := range s.Apps {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	var rows []WidgetRow
	for _, pkg := range pkgs {
		app := s.Apps[pkg]
		for _, id := range app.WidgetIDs() {
			w := app.Widgets[id]
			rows = append(rows, WidgetRow{Package: pkg, WidgetID: id, Index: w.Index, Visible: w.IsVisible()})
		}
	}
	return rows
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(device *lametric.DeviceState, apps lametric.AppList, queue []lametric.NotificationQueueItem, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if device != nil {
		s.snapshot.Device = *device
		s.snapshot.HasDevice = true
	} else {
		s.snapshot.HasDevice = false
	}
	s.snapshot.Apps = cloneApps(apps)
	s.snapshot.Notifications = cloneQueue(queue)
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Apps = cloneApps(s.snapshot.Apps)
	snap.Notifications = cloneQueue(s.snapshot.Notifications)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneQueue(items []lametric.NotificationQueueItem) []lametric.NotificationQueueItem {
	if len(items) == 0 {
		return nil
	}
	dup := make([]lametric.NotificationQueueItem, len(items))
	copy(dup, items)
	return dup
}

func cloneApps(apps lametric.AppList) lametric.AppList {
	if len(apps) == 0 {
		return nil
	}
	dup := make(lametric.AppList, len(apps))
	for pkg, app := range apps {
		widgets := make(map[string]lametric.Widget, len(app.Widgets))
		for id, w := range app.Widgets {
			widgets[id] = w
		}
		app.Widgets = widgets
		dup[pkg] = app
	}
	return dup
}
