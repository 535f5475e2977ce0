package lametric

// SuccessResponse is the {"success": {...}} envelope.
type SuccessResponse[T any] struct {
	Success T `json:"success"`
}

// SuccessData is the inner block of a SuccessDataResponse.
type SuccessData[T any] struct {
	Data T      `json:"data"`
	Path string `json:"path"`
}

// SuccessDataResponse is the {"success": {"data": ..., "path": ...}} envelope
// returned by most mutating endpoints.
type SuccessDataResponse[T any] struct {
	Success SuccessData[T] `json:"success"`
}

// SimpleSuccessResponse is the {"success": true} envelope.
type SimpleSuccessResponse struct {
	Success bool `json:"success"`
}

// Empty decodes an empty JSON object.
type Empty struct{}

// SetModeData is the data block returned after a mode change.
type SetModeData struct {
	Mode Mode `json:"mode"`
}

// NotificationCreated carries the id assigned to a new notification.
type NotificationCreated struct {
	ID string `json:"id"`
}

// ListEndpointsResponse mirrors GET /api/v2.
type ListEndpointsResponse struct {
	APIVersion string            `json:"api_version"`
	Endpoints  map[string]string `json:"endpoints"`
}

type (
	SetModeResponse          = SuccessDataResponse[SetModeData]
	DisplayUpdateResponse    = SuccessDataResponse[Display]
	AppList                  = map[string]App
	ActionResponse           = SuccessDataResponse[map[string]string]
	ActivateWidgetResponse   = SuccessDataResponse[Empty]
	SwitchAppResponse        = SuccessDataResponse[Empty]
	NotificationSendResponse = SuccessResponse[NotificationCreated]
	NotificationQueue        = []NotificationQueueItem
	RemoveNotificationResult = SimpleSuccessResponse
)
