package lametric

import "context"

// DeviceService reads and changes the device state.
type DeviceService struct {
	transport Transport
}

// State returns the current device state.
func (s DeviceService) State(ctx context.Context) (Response[DeviceState], error) {
	return execute[DeviceState](ctx, s.transport, deviceEndpoint{op: deviceState})
}

// SetMode switches the app switching mode.
func (s DeviceService) SetMode(ctx context.Context, mode Mode) (Response[SetModeResponse], error) {
	return execute[SetModeResponse](ctx, s.transport, deviceEndpoint{op: deviceSetMode, mode: mode})
}

// DisplayService reads and changes the display settings.
type DisplayService struct {
	transport Transport
}

// State returns the current display state.
func (s DisplayService) State(ctx context.Context) (Response[Display], error) {
	return execute[Display](ctx, s.transport, displayEndpoint{})
}

// Update applies a partial display update.
func (s DisplayService) Update(ctx context.Context, update DisplayUpdate) (Response[DisplayUpdateResponse], error) {
	return execute[DisplayUpdateResponse](ctx, s.transport, displayEndpoint{update: &update})
}

// NotificationsService manages the notification queue.
type NotificationsService struct {
	transport Transport
}

// Send queues a notification.
func (s NotificationsService) Send(ctx context.Context, n Notification) (Response[NotificationSendResponse], error) {
	return execute[NotificationSendResponse](ctx, s.transport, notificationsEndpoint{op: notificationsSend, notification: n})
}

// Queue lists the queued notifications.
func (s NotificationsService) Queue(ctx context.Context) (Response[NotificationQueue], error) {
	return execute[NotificationQueue](ctx, s.transport, notificationsEndpoint{op: notificationsQueue})
}

// Remove removes a notification from the queue, or dismisses it when it is
// on screen.
func (s NotificationsService) Remove(ctx context.Context, id string) (Response[RemoveNotificationResult], error) {
	return execute[RemoveNotificationResult](ctx, s.transport, notificationsEndpoint{op: notificationsRemove, id: id})
}
