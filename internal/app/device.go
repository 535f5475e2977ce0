package app

import (
	"context"
	"fmt"

	"github.com/five82/lametric"
)

// Fetcher reads the device data shown by the dashboard.
type Fetcher interface {
	FetchState(ctx context.Context) (lametric.DeviceState, error)
	FetchApps(ctx context.Context) (lametric.AppList, error)
	FetchNotifications(ctx context.Context) ([]lametric.NotificationQueueItem, error)
}

// Device adapts a lametric.Client to the poller and the dashboard actions.
// Every call fails unless the device answers with a decodable 2xx body.
type Device struct {
	client *lametric.Client
}

// NewDevice wraps client.
func NewDevice(client *lametric.Client) *Device {
	return &Device{client: client}
}

// FetchState returns the device state.
func (d *Device) FetchState(ctx context.Context) (lametric.DeviceState, error) {
	resp, err := d.client.Device().State(ctx)
	if err != nil {
		return lametric.DeviceState{}, fmt.Errorf("fetch device state: %w", err)
	}
	state, err := resp.Required()
	if err != nil {
		return lametric.DeviceState{}, fmt.Errorf("fetch device state: %w", err)
	}
	return state, nil
}

// FetchApps returns the installed apps.
func (d *Device) FetchApps(ctx context.Context) (lametric.AppList, error) {
	resp, err := d.client.Apps().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch apps: %w", err)
	}
	apps, err := resp.Required()
	if err != nil {
		return nil, fmt.Errorf("fetch apps: %w", err)
	}
	return apps, nil
}

// FetchNotifications returns the notification queue.
func (d *Device) FetchNotifications(ctx context.Context) ([]lametric.NotificationQueueItem, error) {
	resp, err := d.client.Notifications().Queue(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch notifications: %w", err)
	}
	queue, err := resp.Required()
	if err != nil {
		return nil, fmt.Errorf("fetch notifications: %w", err)
	}
	return queue, nil
}

// NextApp switches the device to the next app.
func (d *Device) NextApp(ctx context.Context) error {
	resp, err := d.client.Apps().Next(ctx)
	return required(resp, err)
}

// PreviousApp switches the device to the previous app.
func (d *Device) PreviousApp(ctx context.Context) error {
	resp, err := d.client.Apps().Previous(ctx)
	return required(resp, err)
}

// ActivateWidget brings a widget to the front.
func (d *Device) ActivateWidget(ctx context.Context, pkg, widgetID string) error {
	resp, err := d.client.Apps().ActivateWidget(ctx, pkg, widgetID)
	return required(resp, err)
}

// Dismiss removes a notification from the queue.
func (d *Device) Dismiss(ctx context.Context, notificationID string) error {
	resp, err := d.client.Notifications().Remove(ctx, notificationID)
	if err != nil {
		return err
	}
	result, err := resp.Required()
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("device refused to remove notification %s", notificationID)
	}
	return nil
}

// Notify sends a one-frame text notification and returns its id.
func (d *Device) Notify(ctx context.Context, text string) (string, error) {
	n := lametric.NewNotification(lametric.TextFrame(text))
	n.Priority = lametric.PriorityInfo
	resp, err := d.client.Notifications().Send(ctx, n)
	if err != nil {
		return "", err
	}
	created, err := resp.Required()
	if err != nil {
		return "", err
	}
	return created.Success.ID, nil
}

func required[T any](resp lametric.Response[T], err error) error {
	if err != nil {
		return err
	}
	_, err = resp.Required()
	return err
}
