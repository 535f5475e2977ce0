// Package cli implements the lametric command line.
//
// Commands are grouped the way the device API is: device, display,
// notifications, apps, list-endpoints and the watch dashboard. Each command
// parses its own flag.FlagSet with the shared connection options, resolves
// them through package config and talks to the device with one
// lametric.Client call per step.
//
// Run returns 0 on success, 1 when the device call fails and 2 for invalid
// invocations.
package cli
