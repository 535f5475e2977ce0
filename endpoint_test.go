package lametric

import (
	"net/http"
	"testing"
)

func TestEndpointURL(t *testing.T) {
	base := "http://LM1234.local:8080/api/v2/"
	tests := []struct {
		name     string
		endpoint Endpoint
		method   string
		url      string
		hasBody  bool
	}{
		{"device state", deviceEndpoint{op: deviceState}, http.MethodGet, base + "device/", false},
		{"set mode", deviceEndpoint{op: deviceSetMode, mode: ModeKiosk}, http.MethodPut, base + "device/", true},
		{"display state", displayEndpoint{}, http.MethodGet, base + "device/display", false},
		{"display update", displayEndpoint{update: &DisplayUpdate{Brightness: Ptr(50)}}, http.MethodPut, base + "device/display", true},
		{"apps", appsEndpoint{op: appsList}, http.MethodGet, base + "device/apps", false},
		{"app", appsEndpoint{op: appsGet, pkg: PackageClock}, http.MethodGet, base + "device/apps/com.lametric.clock", false},
		{"next", appsEndpoint{op: appsNext}, http.MethodPut, base + "device/apps/next", false},
		{"previous", appsEndpoint{op: appsPrevious}, http.MethodPut, base + "device/apps/prev", false},
		{
			"action",
			appsEndpoint{op: appsSendAction, pkg: PackageRadio, widgetID: "w1", action: AppAction{ID: "radio.play"}},
			http.MethodPost, base + "device/apps/com.lametric.radio/widgets/w1/actions", true,
		},
		{
			"activate",
			appsEndpoint{op: appsActivate, pkg: PackageWeather, widgetID: "w2"},
			http.MethodPut, base + "device/apps/com.lametric.weather/widgets/w2/activate", false,
		},
		{"send notification", notificationsEndpoint{op: notificationsSend}, http.MethodPost, base + "device/notifications", true},
		{"queue", notificationsEndpoint{op: notificationsQueue}, http.MethodGet, base + "device/notifications", false},
		{"remove", notificationsEndpoint{op: notificationsRemove, id: "42"}, http.MethodDelete, base + "device/notifications/42", false},
		{"list", listEndpoint{}, http.MethodGet, base, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.endpoint.Method(); got != tt.method {
				t.Fatalf("Method = %s, want %s", got, tt.method)
			}
			if got := endpointURL(base, tt.endpoint); got != tt.url {
				t.Fatalf("URL = %s, want %s", got, tt.url)
			}
			if got := tt.endpoint.Body() != nil; got != tt.hasBody {
				t.Fatalf("has body = %v, want %v", got, tt.hasBody)
			}
		})
	}
}

func TestSetModeBody(t *testing.T) {
	body, err := wire.Marshal(deviceEndpoint{op: deviceSetMode, mode: ModeSchedule}.Body())
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(body) != `{"mode":"schedule"}` {
		t.Fatalf("body = %s, want {\"mode\":\"schedule\"}", body)
	}
}

func TestDisplayUpdateBody(t *testing.T) {
	update := DisplayUpdate{
		BrightnessMode: Ptr(BrightnessManual),
		Screensaver:    ScreensaverTimeBased(true, "22:00:00", "06:30:00"),
	}
	body, err := wire.Marshal(displayEndpoint{update: &update}.Body())
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	want := `{"brightness_mode":"manual","screensaver":{"enabled":true,"mode":"time_based","mode_params":{"enabled":true,"start_time":"22:00:00","end_time":"06:30:00"}}}`
	if string(body) != want {
		t.Fatalf("body = %s, want %s", body, want)
	}
}
