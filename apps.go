package lametric

import (
	"context"
	"fmt"
)

// Package names of the built-in apps with convenience actions.
const (
	PackageClock     = "com.lametric.clock"
	PackageRadio     = "com.lametric.radio"
	PackageCountdown = "com.lametric.countdown"
	PackageStopwatch = "com.lametric.stopwatch"
	PackageWeather   = "com.lametric.weather"
)

// AppsService manages installed apps and their widgets.
type AppsService struct {
	transport Transport
}

// List returns the installed apps keyed by package name.
func (s AppsService) List(ctx context.Context) (Response[AppList], error) {
	return execute[AppList](ctx, s.transport, appsEndpoint{op: appsList})
}

// Get returns one installed app.
func (s AppsService) Get(ctx context.Context, pkg string) (Response[App], error) {
	return execute[App](ctx, s.transport, appsEndpoint{op: appsGet, pkg: pkg})
}

// Next switches to the next app.
func (s AppsService) Next(ctx context.Context) (Response[SwitchAppResponse], error) {
	return execute[SwitchAppResponse](ctx, s.transport, appsEndpoint{op: appsNext})
}

// Previous switches to the previous app.
func (s AppsService) Previous(ctx context.Context) (Response[SwitchAppResponse], error) {
	return execute[SwitchAppResponse](ctx, s.transport, appsEndpoint{op: appsPrevious})
}

// SendAction sends an app specific action to a widget. When action.Activate
// is set the device also brings the widget on screen.
func (s AppsService) SendAction(ctx context.Context, pkg, widgetID string, action AppAction) (Response[ActionResponse], error) {
	return execute[ActionResponse](ctx, s.transport, appsEndpoint{
		op:       appsSendAction,
		pkg:      pkg,
		widgetID: widgetID,
		action:   action,
	})
}

// ActivateWidget brings a widget on screen.
func (s AppsService) ActivateWidget(ctx context.Context, pkg, widgetID string) (Response[ActivateWidgetResponse], error) {
	return execute[ActivateWidgetResponse](ctx, s.transport, appsEndpoint{op: appsActivate, pkg: pkg, widgetID: widgetID})
}

// AlarmSettings configures the clock app alarm. Nil fields are not sent.
type AlarmSettings struct {
	Enabled *bool
	// Time is the local alarm time, HH:mm or HH:mm:ss.
	Time          *string
	WakeWithRadio *bool
}

// ConfigureAlarm updates the alarm of a clock widget.
func (s AppsService) ConfigureAlarm(ctx context.Context, widgetID string, settings AlarmSettings) (Response[ActionResponse], error) {
	params := map[string]Value{}
	if settings.Enabled != nil {
		params["enabled"] = BoolValue(*settings.Enabled)
	}
	if settings.Time != nil {
		params["time"] = StringValue(*settings.Time)
	}
	if settings.WakeWithRadio != nil {
		params["wake_with_radio"] = BoolValue(*settings.WakeWithRadio)
	}
	return s.SendAction(ctx, PackageClock, widgetID, activatingAction("clock.alarm", params))
}

// RadioAction is a playback command for the radio app.
type RadioAction int

const (
	RadioPlay RadioAction = iota
	RadioStop
	RadioNext
	RadioPrevious
)

func (a RadioAction) actionID() (string, error) {
	switch a {
	case RadioPlay:
		return "radio.play", nil
	case RadioStop:
		return "radio.stop", nil
	case RadioNext:
		return "radio.next", nil
	case RadioPrevious:
		return "radio.prev", nil
	default:
		return "", fmt.Errorf("unknown radio action %d", a)
	}
}

// ControlRadio drives playback of a radio widget.
func (s AppsService) ControlRadio(ctx context.Context, widgetID string, action RadioAction) (Response[ActionResponse], error) {
	id, err := action.actionID()
	if err != nil {
		return Response[ActionResponse]{}, err
	}
	return s.SendAction(ctx, PackageRadio, widgetID, activatingAction(id, nil))
}

// CountdownSettings configures the countdown app. Nil fields are not sent.
type CountdownSettings struct {
	// Duration is in seconds.
	Duration *int
	StartNow *bool
}

// ConfigureCountdown sets the duration of a countdown widget.
func (s AppsService) ConfigureCountdown(ctx context.Context, widgetID string, settings CountdownSettings) (Response[ActionResponse], error) {
	params := map[string]Value{}
	if settings.Duration != nil {
		params["duration"] = IntValue(int64(*settings.Duration))
	}
	if settings.StartNow != nil {
		params["start_now"] = BoolValue(*settings.StartNow)
	}
	return s.SendAction(ctx, PackageCountdown, widgetID, activatingAction("countdown.configure", params))
}

// TimerAction is a start/pause/reset command shared by the countdown and
// stopwatch apps.
type TimerAction int

const (
	TimerStart TimerAction = iota
	TimerPause
	TimerReset
)

func (a TimerAction) actionID(app string) (string, error) {
	switch a {
	case TimerStart:
		return app + ".start", nil
	case TimerPause:
		return app + ".pause", nil
	case TimerReset:
		return app + ".reset", nil
	default:
		return "", fmt.Errorf("unknown %s action %d", app, a)
	}
}

// ControlCountdown starts, pauses or resets a countdown widget.
func (s AppsService) ControlCountdown(ctx context.Context, widgetID string, action TimerAction) (Response[ActionResponse], error) {
	id, err := action.actionID("countdown")
	if err != nil {
		return Response[ActionResponse]{}, err
	}
	return s.SendAction(ctx, PackageCountdown, widgetID, activatingAction(id, nil))
}

// ControlStopwatch starts, pauses or resets a stopwatch widget.
func (s AppsService) ControlStopwatch(ctx context.Context, widgetID string, action TimerAction) (Response[ActionResponse], error) {
	id, err := action.actionID("stopwatch")
	if err != nil {
		return Response[ActionResponse]{}, err
	}
	return s.SendAction(ctx, PackageStopwatch, widgetID, activatingAction(id, nil))
}

// ShowWeatherForecast shows the forecast on a weather widget.
func (s AppsService) ShowWeatherForecast(ctx context.Context, widgetID string) (Response[ActionResponse], error) {
	return s.SendAction(ctx, PackageWeather, widgetID, activatingAction("weather.forecast", nil))
}

// activatingAction builds an action that brings its widget on screen. Empty
// params are left out of the body.
func activatingAction(id string, params map[string]Value) AppAction {
	if len(params) == 0 {
		params = nil
	}
	return AppAction{ID: id, Params: params, Activate: Ptr(true)}
}
