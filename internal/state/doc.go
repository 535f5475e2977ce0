// Package state provides thread-safe state sharing for the `lametric watch`
// dashboard.
//
// # Overview
//
// The background poller writes the latest device state, installed apps and
// notification queue into a Store; the UI reads copies of it on every
// refresh tick.
//
//	Producer (poller):              Consumer (UI):
//	┌──────────────────┐           ┌──────────────────┐
//	│ Device().State() │           │                  │
//	│ Apps().List()    │           │                  │
//	│ Notifications()  │           │                  │
//	│       ↓          │           │                  │
//	│ store.Update()   │──────────→│ store.Snapshot() │
//	└──────────────────┘  (mutex)  └──────────────────┘
//
// # Update Semantics
//
// A successful poll replaces the whole snapshot and resets the failure
// counter. A failed poll keeps the previous data, records the error and
// increments ConsecutiveFailures, so the dashboard keeps showing the last
// known state with an error banner. IsOffline reports two or more failures
// in a row.
//
// # Copy Semantics
//
// Snapshot returns copies of the notification slice and of the app and
// widget maps, so callers may modify what they receive. LastError is wrapped
// in a new error value that still matches the original with errors.Is.
package state
