package lametric

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

type recordedRequest struct {
	method      string
	path        string
	body        string
	auth        string
	contentType string
}

// newTestServer serves reply for every request and records the last one.
func newTestServer(t *testing.T, status int, reply string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.body = string(body)
		rec.auth = r.Header.Get("Authorization")
		rec.contentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(server.Close)
	return server, rec
}

func connectionFor(t *testing.T, server *httptest.Server) Connection {
	t.Helper()
	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse server URL: %v", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("split host: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	return RemoteConnection(SchemeHTTP, host, port)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNew_RejectsBadAPIKey(t *testing.T) {
	for _, key := range []string{"", "\xff\xfe"} {
		if _, err := New(key, LocalConnection("LM1234.local", 0)); !errors.Is(err, ErrInvalidAPIKey) {
			t.Fatalf("New(%q) error = %v, want ErrInvalidAPIKey", key, err)
		}
	}
}

func TestNew_RejectsBadConnection(t *testing.T) {
	conn := Connection{Scheme: SchemeHTTPS, Host: "LM1234.local", Local: true}
	if _, err := New("key", conn); !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("New error = %v, want ErrInvalidURL", err)
	}
}

func TestClient_SendNotification(t *testing.T) {
	t.Parallel()

	server, rec := newTestServer(t, http.StatusCreated, `{"success":{"id":"abc123"}}`)
	c, err := New("secret", connectionFor(t, server))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	n := NewNotification(TextFrame("Hello"))
	n.Priority = PriorityInfo
	resp, err := c.Notifications().Send(testContext(t), n)
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if rec.method != http.MethodPost || rec.path != "/api/v2/device/notifications" {
		t.Fatalf("request = %s %s, want POST /api/v2/device/notifications", rec.method, rec.path)
	}
	wantBody := `{"model":{"frames":[{"text":"Hello"}]},"priority":"info","icon_type":"none"}`
	if rec.body != wantBody {
		t.Fatalf("body = %s, want %s", rec.body, wantBody)
	}
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("dev:secret"))
	if rec.auth != wantAuth {
		t.Fatalf("Authorization = %q, want %q", rec.auth, wantAuth)
	}
	if rec.contentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", rec.contentType)
	}

	created, err := resp.Required()
	if err != nil {
		t.Fatalf("Required returned error: %v", err)
	}
	if created.Success.ID != "abc123" {
		t.Fatalf("id = %q, want abc123", created.Success.ID)
	}
}

func TestClient_SetMode(t *testing.T) {
	t.Parallel()

	server, rec := newTestServer(t, http.StatusOK, `{"success":{"data":{"mode":"kiosk"},"path":"/device/mode"}}`)
	c, err := New("secret", connectionFor(t, server))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	resp, err := c.Device().SetMode(testContext(t), ModeKiosk)
	if err != nil {
		t.Fatalf("SetMode returned error: %v", err)
	}
	if rec.method != http.MethodPut || rec.path != "/api/v2/device/" {
		t.Fatalf("request = %s %s, want PUT /api/v2/device/", rec.method, rec.path)
	}
	if rec.body != `{"mode":"kiosk"}` {
		t.Fatalf("body = %s, want {\"mode\":\"kiosk\"}", rec.body)
	}
	got, err := resp.Required()
	if err != nil {
		t.Fatalf("Required returned error: %v", err)
	}
	if got.Success.Data.Mode != ModeKiosk {
		t.Fatalf("mode = %q, want kiosk", got.Success.Data.Mode)
	}
}

func TestClient_GetRequestsHaveNoBody(t *testing.T) {
	t.Parallel()

	server, rec := newTestServer(t, http.StatusOK, `{"api_version":"2.3.0","endpoints":{"device_url":"http://x/api/v2/device"}}`)
	c, err := New("secret", connectionFor(t, server))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	resp, err := c.ListEndpoints(testContext(t))
	if err != nil {
		t.Fatalf("ListEndpoints returned error: %v", err)
	}
	if rec.method != http.MethodGet || rec.path != "/api/v2/" || rec.body != "" {
		t.Fatalf("request = %s %s body %q, want GET /api/v2/ without body", rec.method, rec.path, rec.body)
	}
	got, err := resp.Required()
	if err != nil {
		t.Fatalf("Required returned error: %v", err)
	}
	if got.APIVersion != "2.3.0" || got.Endpoints["device_url"] == "" {
		t.Fatalf("ListEndpoints = %#v", got)
	}
}

func TestClient_StatusErrorIsNotATransportError(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, http.StatusUnauthorized, `{"errors":[{"message":"Authorization is required"}]}`)
	c, err := New("wrong", connectionFor(t, server))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	resp, err := c.Display().State(testContext(t))
	if err != nil {
		t.Fatalf("State returned error: %v", err)
	}
	if resp.StatusCode() != http.StatusUnauthorized || resp.Valid() {
		t.Fatalf("status = %d valid = %v, want 401 invalid", resp.StatusCode(), resp.Valid())
	}
	if _, err := resp.Required(); !errors.Is(err, ErrInvalidStatusCode) {
		t.Fatalf("Required error = %v, want ErrInvalidStatusCode", err)
	}
}

func TestClient_TimeoutMapsToErrTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	c, err := New("secret", connectionFor(t, server), WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = c.Device().State(testContext(t))
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("State error = %v, want ErrTimeout", err)
	}
}

func TestClient_VerboseTrace(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, http.StatusOK, `{"success":{"data":{"mode":"auto"},"path":"/device/mode"}}`)
	var trace bytes.Buffer
	c, err := New("secret", connectionFor(t, server), WithVerbose(&trace))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := c.Device().SetMode(testContext(t), ModeAuto); err != nil {
		t.Fatalf("SetMode returned error: %v", err)
	}
	out := trace.String()
	for _, want := range []string{"PUT", c.BaseURL() + "device/", `"mode": "auto"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("trace %q does not contain %q", out, want)
		}
	}
}

func TestClient_ConvenienceActions(t *testing.T) {
	t.Parallel()

	server, rec := newTestServer(t, http.StatusOK, `{"success":{"data":{},"path":"/device/apps/x/widgets/w1/actions"}}`)
	c, err := New("secret", connectionFor(t, server))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := testContext(t)
	apps := c.Apps()

	tests := []struct {
		name string
		call func() (Response[ActionResponse], error)
		path string
		body string
	}{
		{
			"alarm",
			func() (Response[ActionResponse], error) {
				return apps.ConfigureAlarm(ctx, "w1", AlarmSettings{Enabled: Ptr(true), Time: Ptr("07:30")})
			},
			"/api/v2/device/apps/com.lametric.clock/widgets/w1/actions",
			`{"id":"clock.alarm","params":{"enabled":true,"time":"07:30"},"activate":true}`,
		},
		{
			"radio",
			func() (Response[ActionResponse], error) { return apps.ControlRadio(ctx, "w2", RadioNext) },
			"/api/v2/device/apps/com.lametric.radio/widgets/w2/actions",
			`{"id":"radio.next","activate":true}`,
		},
		{
			"countdown",
			func() (Response[ActionResponse], error) {
				return apps.ConfigureCountdown(ctx, "w3", CountdownSettings{Duration: Ptr(90), StartNow: Ptr(false)})
			},
			"/api/v2/device/apps/com.lametric.countdown/widgets/w3/actions",
			`{"id":"countdown.configure","params":{"duration":90,"start_now":false},"activate":true}`,
		},
		{
			"stopwatch",
			func() (Response[ActionResponse], error) { return apps.ControlStopwatch(ctx, "w4", TimerReset) },
			"/api/v2/device/apps/com.lametric.stopwatch/widgets/w4/actions",
			`{"id":"stopwatch.reset","activate":true}`,
		},
		{
			"weather",
			func() (Response[ActionResponse], error) { return apps.ShowWeatherForecast(ctx, "w5") },
			"/api/v2/device/apps/com.lametric.weather/widgets/w5/actions",
			`{"id":"weather.forecast","activate":true}`,
		},
	}
	for _, tt := range tests {
		resp, err := tt.call()
		if err != nil {
			t.Fatalf("%s returned error: %v", tt.name, err)
		}
		if _, err := resp.Required(); err != nil {
			t.Fatalf("%s Required returned error: %v", tt.name, err)
		}
		if rec.method != http.MethodPost || rec.path != tt.path {
			t.Fatalf("%s request = %s %s, want POST %s", tt.name, rec.method, rec.path, tt.path)
		}
		if rec.body != tt.body {
			t.Fatalf("%s body = %s, want %s", tt.name, rec.body, tt.body)
		}
	}
}

type fakeTransport struct {
	endpoints []Endpoint
	raw       RawResponse
	err       error
}

func (f *fakeTransport) Execute(_ context.Context, e Endpoint) (RawResponse, error) {
	f.endpoints = append(f.endpoints, e)
	return f.raw, f.err
}

func TestClient_WithTransport(t *testing.T) {
	fake := &fakeTransport{raw: RawResponse{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"package":"com.lametric.clock","vendor":"LaMetric","version":"1.0.0","version_code":"1","widgets":{"b":{"index":1,"package":"com.lametric.clock"},"a":{"index":0,"package":"com.lametric.clock","visible":true}}}`),
	}}
	c, err := New("secret", LocalConnection("LM1234.local", 0), WithTransport(fake))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	resp, err := c.Apps().Get(context.Background(), PackageClock)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(fake.endpoints) != 1 || fake.endpoints[0].Path() != "apps/com.lametric.clock" {
		t.Fatalf("endpoints = %#v, want apps/com.lametric.clock", fake.endpoints)
	}
	app, err := resp.Required()
	if err != nil {
		t.Fatalf("Required returned error: %v", err)
	}
	if ids := app.WidgetIDs(); len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("WidgetIDs = %v, want [a b]", ids)
	}
	if !app.Widgets["a"].IsVisible() || app.Widgets["b"].IsVisible() {
		t.Fatalf("visibility = %#v", app.Widgets)
	}

	fake.err = errors.New("boom")
	if _, err := c.Apps().Next(context.Background()); err == nil || err.Error() != "boom" {
		t.Fatalf("Next error = %v, want boom", err)
	}
}
