// Package ui implements the `lametric watch` dashboard on Bubble Tea.
//
// The model never talks to the network while rendering. A background poller
// (package app) fills a state.Store; the model copies a snapshot from it on
// every tick. Device actions (switching apps, showing a widget, dismissing or
// sending a notification) run as tea.Cmds through a Controller and report
// their outcome in the footer.
//
// Views:
//
//   - Device: identity, mode, display and screensaver settings
//   - Apps: every widget of every installed app; enter shows the selected one
//   - Notifications: the device queue; d dismisses the selected entry
//
// Theme and last view are persisted with package prefs.
package ui
