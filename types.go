package lametric

import (
	"encoding/json"
	"sort"
)

// Mode is the app switching mode of the device.
type Mode string

const (
	// ModeAuto switches between apps automatically.
	ModeAuto Mode = "auto"
	// ModeManual switches apps on click.
	ModeManual Mode = "manual"
	// ModeSchedule switches apps according to a schedule.
	ModeSchedule Mode = "schedule"
	// ModeKiosk locks a single app on the device.
	ModeKiosk Mode = "kiosk"
)

// Modes lists every device mode.
var Modes = []Mode{ModeAuto, ModeManual, ModeSchedule, ModeKiosk}

// DeviceState mirrors GET /device.
type DeviceState struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	SerialNumber string  `json:"serial_number"`
	OSVersion    string  `json:"os_version"`
	Mode         Mode    `json:"mode"`
	Model        string  `json:"model"`
	Display      Display `json:"display"`
}

// BrightnessMode selects automatic or manual brightness.
type BrightnessMode string

const (
	BrightnessAuto   BrightnessMode = "auto"
	BrightnessManual BrightnessMode = "manual"
)

// DisplayType describes the panel technology.
type DisplayType string

const (
	DisplayMonochrome DisplayType = "monochrome"
	DisplayGrayscale  DisplayType = "grayscale"
	DisplayColor      DisplayType = "color"
	DisplayMixed      DisplayType = "mixed"
	DisplayFullRGB    DisplayType = "full_rgb"
)

// ValueRange is an inclusive min/max pair.
type ValueRange[T any] struct {
	Min T `json:"min"`
	Max T `json:"max"`
}

// Display mirrors GET /device/display.
type Display struct {
	Brightness      int             `json:"brightness"`
	BrightnessMode  BrightnessMode  `json:"brightness_mode"`
	Height          int             `json:"height"`
	Width           int             `json:"width"`
	Type            DisplayType     `json:"type"`
	BrightnessRange ValueRange[int] `json:"brightness_range"`
	BrightnessLimit ValueRange[int] `json:"brightness_limit"`
	Screensaver     *Screensaver    `json:"screensaver,omitempty"`
}

// Screensaver is the screensaver block of the display state (API 2.1.0+).
type Screensaver struct {
	Enabled bool             `json:"enabled"`
	Modes   ScreensaverModes `json:"modes"`
	Widget  string           `json:"widget"`
}

// ScreensaverModes holds the settings of each screensaver trigger.
type ScreensaverModes struct {
	TimeBased TimeBasedMode `json:"time_based"`
	WhenDark  WhenDarkMode  `json:"when_dark"`
}

// TimeBasedMode turns the screensaver on between two GMT times.
type TimeBasedMode struct {
	Enabled        bool   `json:"enabled"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	LocalStartTime string `json:"local_start_time,omitempty"`
	LocalEndTime   string `json:"local_end_time,omitempty"`
}

// WhenDarkMode turns the screensaver on when the room is dark.
type WhenDarkMode struct {
	Enabled bool `json:"enabled"`
}

// ScreensaverMode names a screensaver trigger in updates.
type ScreensaverMode string

const (
	ScreensaverWhenDarkMode  ScreensaverMode = "when_dark"
	ScreensaverTimeBasedMode ScreensaverMode = "time_based"
)

// DisplayUpdate is the partial body of PUT /device/display. Nil fields are
// left untouched on the device.
type DisplayUpdate struct {
	Brightness     *int               `json:"brightness,omitempty"`
	BrightnessMode *BrightnessMode    `json:"brightness_mode,omitempty"`
	Screensaver    *ScreensaverUpdate `json:"screensaver,omitempty"`
}

// ScreensaverUpdate changes the screensaver configuration.
type ScreensaverUpdate struct {
	Enabled    *bool                  `json:"enabled,omitempty"`
	Mode       *ScreensaverMode       `json:"mode,omitempty"`
	ModeParams *ScreensaverModeParams `json:"mode_params,omitempty"`
}

// ScreensaverModeParams are the parameters of the selected mode. Times are
// GMT in HH:mm:ss.
type ScreensaverModeParams struct {
	Enabled   *bool   `json:"enabled,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}

// ScreensaverWhenDark enables the screensaver and selects the when-dark mode.
func ScreensaverWhenDark(enabled bool) *ScreensaverUpdate {
	mode := ScreensaverWhenDarkMode
	return &ScreensaverUpdate{
		Enabled:    Ptr(true),
		Mode:       &mode,
		ModeParams: &ScreensaverModeParams{Enabled: Ptr(enabled)},
	}
}

// ScreensaverTimeBased enables the screensaver and selects the time-based mode.
func ScreensaverTimeBased(enabled bool, startTime, endTime string) *ScreensaverUpdate {
	mode := ScreensaverTimeBasedMode
	return &ScreensaverUpdate{
		Enabled: Ptr(true),
		Mode:    &mode,
		ModeParams: &ScreensaverModeParams{
			Enabled:   Ptr(enabled),
			StartTime: Ptr(startTime),
			EndTime:   Ptr(endTime),
		},
	}
}

// ScreensaverDisabled turns the screensaver off.
func ScreensaverDisabled() *ScreensaverUpdate {
	return &ScreensaverUpdate{Enabled: Ptr(false)}
}

// App mirrors one installed app.
type App struct {
	Package     string                       `json:"package"`
	Vendor      string                       `json:"vendor"`
	Version     string                       `json:"version"`
	VersionCode string                       `json:"version_code"`
	Widgets     map[string]Widget            `json:"widgets"`
	Actions     map[string]map[string]Action `json:"actions,omitempty"`
}

// WidgetIDs returns the widget ids sorted by widget index, then id.
func (a App) WidgetIDs() []string {
	ids := make([]string, 0, len(a.Widgets))
	for id := range a.Widgets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		wi, wj := a.Widgets[ids[i]], a.Widgets[ids[j]]
		if wi.Index != wj.Index {
			return wi.Index < wj.Index
		}
		return ids[i] < ids[j]
	})
	return ids
}

// ActionIDs returns the app's action ids in lexical order.
func (a App) ActionIDs() []string {
	ids := make([]string, 0, len(a.Actions))
	for id := range a.Actions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Widget is a running instance of an app.
type Widget struct {
	Index   int    `json:"index"`
	Package string `json:"package"`
	// Visible is reported from API 2.3.0 on.
	Visible *bool `json:"visible,omitempty"`
}

// IsVisible reports whether the widget is on screen; unknown counts as not.
func (w Widget) IsVisible() bool {
	return w.Visible != nil && *w.Visible
}

// DataType is the type of an action parameter.
type DataType string

const (
	DataTypeBool   DataType = "bool"
	DataTypeInt    DataType = "int"
	DataTypeString DataType = "string"
)

// Action describes one parameter of an app action.
type Action struct {
	DataType DataType `json:"data_type"`
	Name     string   `json:"name"`
	Required bool     `json:"required"`
	Format   string   `json:"format,omitempty"`
}

// AppAction is the body of POST .../widgets/{id}/actions.
type AppAction struct {
	ID       string           `json:"id"`
	Params   map[string]Value `json:"params,omitempty"`
	Activate *bool            `json:"activate,omitempty"`
}

// Priority orders notifications in the device queue.
type Priority string

const (
	PriorityInfo     Priority = "info"
	PriorityWarning  Priority = "warning"
	PriorityCritical Priority = "critical"
)

// IconType is the system icon shown before a notification.
type IconType string

const (
	IconNone  IconType = "none"
	IconInfo  IconType = "info"
	IconAlert IconType = "alert"
)

// Model is the visual content of a notification.
type Model struct {
	Frames []Frame `json:"frames"`
	Sound  *Sound  `json:"sound,omitempty"`
	Cycles *int    `json:"cycles,omitempty"`
}

// Notification is the body of POST /device/notifications.
type Notification struct {
	Model    Model    `json:"model"`
	Priority Priority `json:"priority,omitempty"`
	IconType IconType `json:"icon_type"`
	// Lifetime is in milliseconds.
	Lifetime *int `json:"lifetime,omitempty"`
}

// NewNotification builds a notification with the given frames and the
// "none" icon type.
func NewNotification(frames ...Frame) Notification {
	return Notification{Model: Model{Frames: frames}, IconType: IconNone}
}

// MarshalJSON defaults an empty icon type to "none".
func (n Notification) MarshalJSON() ([]byte, error) {
	type plain Notification
	if n.IconType == "" {
		n.IconType = IconNone
	}
	return json.Marshal(plain(n))
}

// NotificationType tells whether a queued notification came from the
// device itself or from an API client.
type NotificationType string

const (
	NotificationInternal NotificationType = "internal"
	NotificationExternal NotificationType = "external"
)

// NotificationQueueItem mirrors one entry of GET /device/notifications.
type NotificationQueueItem struct {
	ID             string           `json:"id"`
	Type           NotificationType `json:"type"`
	Priority       Priority         `json:"priority"`
	Created        string           `json:"created"`
	ExpirationDate string           `json:"expiration_date"`
	Model          Model            `json:"model"`
}

// Ptr returns a pointer to v, for the optional fields of request bodies.
func Ptr[T any](v T) *T {
	return &v
}
