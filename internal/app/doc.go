// Package app wires the `lametric watch` dashboard together.
//
// Run wraps a lametric.Client in a Device adapter, fills a state.Store once,
// starts the background poller and hands control to the Bubble Tea UI.
//
//	Run()
//	  ├─> prefs.Load()     theme and last view
//	  ├─> refresh()        first snapshot
//	  ├─> StartPoller()    background updates
//	  └─> ui.Run()         blocks until quit
//
// Each poll fetches the device state, the installed apps and the notification
// queue, in that order, and stores them together. A failed poll keeps the
// previous data, records the error and is logged with logrus. The wait between
// polls starts at the configured interval (default 2 seconds) and doubles with
// every consecutive failure, capped at 30 seconds.
package app
