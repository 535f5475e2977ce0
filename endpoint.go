package lametric

import "net/http"

const devicePrefix = "device"

// Endpoint describes one API call independently of how it is executed.
// Body is nil for GET and DELETE endpoints.
type Endpoint interface {
	// Prefix is the resource segment inserted before Path, or "".
	Prefix() string
	Path() string
	Method() string
	Body() any
}

type deviceOp int

const (
	deviceState deviceOp = iota
	deviceSetMode
)

type deviceEndpoint struct {
	op   deviceOp
	mode Mode
}

func (e deviceEndpoint) Prefix() string { return devicePrefix }
func (e deviceEndpoint) Path() string   { return "" }

func (e deviceEndpoint) Method() string {
	if e.op == deviceSetMode {
		return http.MethodPut
	}
	return http.MethodGet
}

func (e deviceEndpoint) Body() any {
	if e.op == deviceSetMode {
		return SetModeData{Mode: e.mode}
	}
	return nil
}

type displayEndpoint struct {
	update *DisplayUpdate
}

func (e displayEndpoint) Prefix() string { return devicePrefix }
func (e displayEndpoint) Path() string   { return "display" }

func (e displayEndpoint) Method() string {
	if e.update != nil {
		return http.MethodPut
	}
	return http.MethodGet
}

func (e displayEndpoint) Body() any {
	if e.update != nil {
		return *e.update
	}
	return nil
}

type appsOp int

const (
	appsList appsOp = iota
	appsGet
	appsNext
	appsPrevious
	appsSendAction
	appsActivate
)

type appsEndpoint struct {
	op       appsOp
	pkg      string
	widgetID string
	action   AppAction
}

func (e appsEndpoint) Prefix() string { return devicePrefix }

func (e appsEndpoint) Path() string {
	switch e.op {
	case appsGet:
		return "apps/" + e.pkg
	case appsNext:
		return "apps/next"
	case appsPrevious:
		return "apps/prev"
	case appsSendAction:
		return "apps/" + e.pkg + "/widgets/" + e.widgetID + "/actions"
	case appsActivate:
		return "apps/" + e.pkg + "/widgets/" + e.widgetID + "/activate"
	default:
		return "apps"
	}
}

func (e appsEndpoint) Method() string {
	switch e.op {
	case appsNext, appsPrevious, appsActivate:
		return http.MethodPut
	case appsSendAction:
		return http.MethodPost
	default:
		return http.MethodGet
	}
}

func (e appsEndpoint) Body() any {
	if e.op == appsSendAction {
		return e.action
	}
	return nil
}

type notificationsOp int

const (
	notificationsSend notificationsOp = iota
	notificationsQueue
	notificationsRemove
)

type notificationsEndpoint struct {
	op           notificationsOp
	notification Notification
	id           string
}

func (e notificationsEndpoint) Prefix() string { return devicePrefix }

func (e notificationsEndpoint) Path() string {
	if e.op == notificationsRemove {
		return "notifications/" + e.id
	}
	return "notifications"
}

func (e notificationsEndpoint) Method() string {
	switch e.op {
	case notificationsSend:
		return http.MethodPost
	case notificationsRemove:
		return http.MethodDelete
	default:
		return http.MethodGet
	}
}

func (e notificationsEndpoint) Body() any {
	if e.op == notificationsSend {
		return e.notification
	}
	return nil
}

// listEndpoint is the API root; it lives outside the device prefix.
type listEndpoint struct{}

func (listEndpoint) Prefix() string { return "" }
func (listEndpoint) Path() string   { return "" }
func (listEndpoint) Method() string { return http.MethodGet }
func (listEndpoint) Body() any      { return nil }

// endpointURL joins base, prefix and path. Path segments are used verbatim.
func endpointURL(base string, e Endpoint) string {
	if prefix := e.Prefix(); prefix != "" {
		return base + prefix + "/" + e.Path()
	}
	return base + e.Path()
}
