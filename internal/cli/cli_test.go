package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/five82/lametric"
)

type request struct {
	method string
	path   string
	body   string
}

type fakeDevice struct {
	mu       sync.Mutex
	requests []request
}

func (d *fakeDevice) record(r *http.Request) request {
	body, _ := io.ReadAll(r.Body)
	req := request{method: r.Method, path: r.URL.Path, body: string(body)}
	d.mu.Lock()
	d.requests = append(d.requests, req)
	d.mu.Unlock()
	return req
}

func (d *fakeDevice) all() []request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]request(nil), d.requests...)
}

// startDevice serves reply for every request and returns the connection
// flags pointing at it.
func startDevice(t *testing.T, reply func(req request) (int, string)) (*fakeDevice, []string) {
	t.Helper()
	for _, name := range []string{"LAMETRIC_API_KEY", "LAMETRIC_DEVICE_NAME", "LAMETRIC_HOST", "LAMETRIC_PORT", "LAMETRIC_SCHEME", "VERBOSE"} {
		t.Setenv(name, "")
	}

	dev := &fakeDevice{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status, body := reply(dev.record(r))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse server URL: %v", err)
	}
	host, port, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("split host: %v", err)
	}
	return dev, []string{
		"--host", host,
		"--port", port,
		"--scheme", "http",
		"-k", "secret",
		"--config", filepath.Join(t.TempDir(), "missing.toml"),
	}
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var stdout, stderr bytes.Buffer
	code := Run(ctx, args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func ok(body string) func(request) (int, string) {
	return func(request) (int, string) { return http.StatusOK, body }
}

func TestDeviceInfo(t *testing.T) {
	dev, conn := startDevice(t, ok(`{"id":"1","name":"Kitchen","serial_number":"SA1","os_version":"2.3.9","mode":"auto","model":"LM 37X8","display":{"brightness":40,"brightness_mode":"auto","width":37,"height":8,"type":"mixed"}}`))

	code, stdout, stderr := run(t, append([]string{"device", "info"}, conn...)...)
	if code != ExitOK {
		t.Fatalf("exit = %d, want 0; stderr=%s", code, stderr)
	}
	for _, want := range []string{"Kitchen info:", "SA1", "2.3.9", "40% (auto)", "37x8"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("stdout missing %q:\n%s", want, stdout)
		}
	}
	reqs := dev.all()
	if len(reqs) != 1 || reqs[0].method != http.MethodGet || reqs[0].path != "/api/v2/device/" {
		t.Fatalf("requests = %+v, want GET /api/v2/device/", reqs)
	}
}

func TestDeviceSetMode(t *testing.T) {
	dev, conn := startDevice(t, ok(`{"success":{"data":{"mode":"kiosk"},"path":"/api/v2/device"}}`))

	code, stdout, stderr := run(t, append([]string{"device", "set-mode", "kiosk"}, conn...)...)
	if code != ExitOK {
		t.Fatalf("exit = %d, want 0; stderr=%s", code, stderr)
	}
	if !strings.Contains(stdout, "Device mode set to 'kiosk' successfully") {
		t.Fatalf("stdout = %q", stdout)
	}
	reqs := dev.all()
	if len(reqs) != 1 || reqs[0].method != http.MethodPut || reqs[0].body != `{"mode":"kiosk"}` {
		t.Fatalf("requests = %+v, want PUT with kiosk body", reqs)
	}
}

func TestUsageErrorsDoNotCallDevice(t *testing.T) {
	dev, conn := startDevice(t, ok(`{}`))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown mode", []string{"device", "set-mode", "party"}, `unknown mode "party"`},
		{"brightness out of range", []string{"display", "set-brightness", "150"}, "between 0 and 100"},
		{"screensaver without mode", []string{"display", "screensaver"}, "exactly one"},
		{"screensaver bad time", []string{"display", "screensaver", "-time-based", "-start", "25:00", "-end", "06:00"}, "invalid time"},
		{"send without text", []string{"notifications", "send"}, "-text is required"},
		{"unknown sound", []string{"notifications", "send", "--text", "x", "--sound", "bogus"}, "unknown notification sound: bogus"},
		{"bad params", []string{"apps", "action", "pkg", "w", "a", "--params", `{"a":{"b":1}}`}, "invalid JSON parameters"},
		{"unknown radio action", []string{"apps", "radio", "shuffle"}, `unknown radio action "shuffle"`},
		{"missing args", []string{"apps", "activate", "pkg"}, "usage: lametric apps activate"},
		{"unknown command", []string{"frobnicate"}, `unknown command "frobnicate"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := run(t, append(tt.args, conn...)...)
			if code != ExitUsage {
				t.Fatalf("exit = %d, want 2; stderr=%s", code, stderr)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Fatalf("stderr = %q, want it to contain %q", stderr, tt.want)
			}
		})
	}
	if reqs := dev.all(); len(reqs) != 0 {
		t.Fatalf("requests = %+v, want none", reqs)
	}
}

func TestMissingAPIKeyIsUsageError(t *testing.T) {
	_, conn := startDevice(t, ok(`{}`))
	// Drop "-k secret".
	var args []string
	for i := 0; i < len(conn); i++ {
		if conn[i] == "-k" {
			i++
			continue
		}
		args = append(args, conn[i])
	}

	code, _, stderr := run(t, append([]string{"device", "info"}, args...)...)
	if code != ExitUsage {
		t.Fatalf("exit = %d, want 2", code)
	}
	if !strings.Contains(stderr, "API key") {
		t.Fatalf("stderr = %q, want API key hint", stderr)
	}
}

func TestStatusErrorExitsWithFailure(t *testing.T) {
	_, conn := startDevice(t, func(request) (int, string) {
		return http.StatusNotFound, `{"errors":[{"message":"not found"}]}`
	})

	code, _, stderr := run(t, append([]string{"apps", "get", "com.example.missing"}, conn...)...)
	if code != ExitFailure {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.HasPrefix(stderr, "lametric: ") || !strings.Contains(stderr, "404") {
		t.Fatalf("stderr = %q, want lametric: prefix and status", stderr)
	}
}

func TestNotificationsSend(t *testing.T) {
	dev, conn := startDevice(t, ok(`{"success":{"id":"12"}}`))

	args := append([]string{"notifications", "send", "--text", "Hello", "--icon", "i298", "--priority", "warning", "--sound", "cat", "--lifetime", "5000"}, conn...)
	code, stdout, stderr := run(t, args...)
	if code != ExitOK {
		t.Fatalf("exit = %d, want 0; stderr=%s", code, stderr)
	}
	if !strings.Contains(stdout, "Notification sent successfully. Id: 12") {
		t.Fatalf("stdout = %q", stdout)
	}

	reqs := dev.all()
	if len(reqs) != 1 || reqs[0].method != http.MethodPost || reqs[0].path != "/api/v2/device/notifications" {
		t.Fatalf("requests = %+v", reqs)
	}
	want := `{"model":{"frames":[{"icon":"i298","text":"Hello"}],"sound":{"category":"notifications","id":"cat","repeat":1},"cycles":1},"priority":"warning","icon_type":"none","lifetime":5000}`
	if reqs[0].body != want {
		t.Fatalf("body =\n%s\nwant\n%s", reqs[0].body, want)
	}
}

func TestNotificationsListEmpty(t *testing.T) {
	_, conn := startDevice(t, ok(`[]`))
	code, stdout, _ := run(t, append([]string{"notifications", "list"}, conn...)...)
	if code != ExitOK || !strings.Contains(stdout, "No notifications in queue") {
		t.Fatalf("exit=%d stdout=%q", code, stdout)
	}
}

func TestNotificationsRemoveRefused(t *testing.T) {
	_, conn := startDevice(t, ok(`{"success":false}`))
	code, _, stderr := run(t, append([]string{"notifications", "remove", "7"}, conn...)...)
	if code != ExitFailure || !strings.Contains(stderr, "did not remove notification 7") {
		t.Fatalf("exit=%d stderr=%q", code, stderr)
	}
}

func TestAppsActionWithParams(t *testing.T) {
	dev, conn := startDevice(t, ok(`{"success":{"data":{},"path":"/x"}}`))

	// Flags may follow the positional arguments.
	args := append([]string{"apps", "action", "com.lametric.countdown", "w1", "countdown.configure",
		"--params", `{"start_now":false,"duration":90}`, "--activate"}, conn...)
	code, stdout, stderr := run(t, args...)
	if code != ExitOK {
		t.Fatalf("exit = %d, want 0; stderr=%s", code, stderr)
	}
	if !strings.Contains(stdout, "Action 'countdown.configure' sent to com.lametric.countdown") {
		t.Fatalf("stdout = %q", stdout)
	}

	reqs := dev.all()
	if len(reqs) != 1 || reqs[0].path != "/api/v2/device/apps/com.lametric.countdown/widgets/w1/actions" {
		t.Fatalf("requests = %+v", reqs)
	}
	want := `{"id":"countdown.configure","params":{"duration":90,"start_now":false},"activate":true}`
	if reqs[0].body != want {
		t.Fatalf("body = %s, want %s", reqs[0].body, want)
	}
}

func TestAppsRadioLooksUpWidget(t *testing.T) {
	dev, conn := startDevice(t, func(req request) (int, string) {
		if req.method == http.MethodGet {
			return http.StatusOK, `{"package":"com.lametric.radio","widgets":{"r2":{"index":1},"r1":{"index":0}}}`
		}
		return http.StatusOK, `{"success":{"data":{},"path":"/x"}}`
	})

	code, stdout, stderr := run(t, append([]string{"apps", "radio", "next"}, conn...)...)
	if code != ExitOK {
		t.Fatalf("exit = %d, want 0; stderr=%s", code, stderr)
	}
	if !strings.Contains(stdout, "Radio next sent to widget r1") {
		t.Fatalf("stdout = %q", stdout)
	}
	reqs := dev.all()
	if len(reqs) != 2 {
		t.Fatalf("requests = %+v, want lookup and action", reqs)
	}
	if reqs[0].path != "/api/v2/device/apps/com.lametric.radio" {
		t.Fatalf("lookup path = %s", reqs[0].path)
	}
	if reqs[1].body != `{"id":"radio.next","activate":true}` {
		t.Fatalf("action body = %s", reqs[1].body)
	}
}

func TestAppsCountdownConfigure(t *testing.T) {
	dev, conn := startDevice(t, ok(`{"success":{"data":{},"path":"/x"}}`))
	code, _, stderr := run(t, append([]string{"apps", "countdown", "configure", "cd1", "--duration", "300", "--start-now"}, conn...)...)
	if code != ExitOK {
		t.Fatalf("exit = %d, want 0; stderr=%s", code, stderr)
	}
	reqs := dev.all()
	want := `{"id":"countdown.configure","params":{"duration":300,"start_now":true},"activate":true}`
	if len(reqs) != 1 || reqs[0].body != want {
		t.Fatalf("requests = %+v, want body %s", reqs, want)
	}
}

func TestDisplayScreensaverTimeBased(t *testing.T) {
	dev, conn := startDevice(t, ok(`{"success":{"data":{"brightness":40},"path":"/x"}}`))
	code, stdout, stderr := run(t, append([]string{"display", "screensaver", "--time-based", "--start", "22:00", "--end", "06:30:00"}, conn...)...)
	if code != ExitOK {
		t.Fatalf("exit = %d, want 0; stderr=%s", code, stderr)
	}
	if !strings.Contains(stdout, "from 22:00:00 to 06:30:00 GMT") {
		t.Fatalf("stdout = %q", stdout)
	}
	want := `{"screensaver":{"enabled":true,"mode":"time_based","mode_params":{"enabled":true,"start_time":"22:00:00","end_time":"06:30:00"}}}`
	if reqs := dev.all(); len(reqs) != 1 || reqs[0].body != want {
		t.Fatalf("requests = %+v, want body %s", reqs, want)
	}
}

func TestDisplayDefaultsToGetState(t *testing.T) {
	dev, conn := startDevice(t, ok(`{"brightness":70,"brightness_mode":"manual","width":37,"height":8,"type":"mixed"}`))
	code, stdout, stderr := run(t, append([]string{"display"}, conn...)...)
	if code != ExitOK {
		t.Fatalf("exit = %d, want 0; stderr=%s", code, stderr)
	}
	if !strings.Contains(stdout, "70% (manual)") {
		t.Fatalf("stdout = %q", stdout)
	}
	if reqs := dev.all(); len(reqs) != 1 || reqs[0].path != "/api/v2/device/display" {
		t.Fatalf("requests = %+v", reqs)
	}
}

func TestListEndpointsSorted(t *testing.T) {
	_, conn := startDevice(t, ok(`{"api_version":"2.3.0","endpoints":{"device_url":"http://x/api/v2/device","apps_list_url":"http://x/api/v2/device/apps"}}`))
	code, stdout, _ := run(t, append([]string{"list-endpoints"}, conn...)...)
	if code != ExitOK {
		t.Fatalf("exit = %d, want 0", code)
	}
	if !strings.Contains(stdout, "API version 2.3.0") {
		t.Fatalf("stdout = %q", stdout)
	}
	if strings.Index(stdout, "apps_list_url") > strings.Index(stdout, "device_url") {
		t.Fatalf("endpoints not sorted:\n%s", stdout)
	}
}

func TestVerboseTracesRequests(t *testing.T) {
	_, conn := startDevice(t, ok(`{"success":{"id":"3"}}`))
	code, _, stderr := run(t, append([]string{"notifications", "send", "--text", "Hi", "-v"}, conn...)...)
	if code != ExitOK {
		t.Fatalf("exit = %d, want 0", code)
	}
	if !strings.Contains(stderr, "POST") || !strings.Contains(stderr, "/api/v2/device/notifications") {
		t.Fatalf("stderr = %q, want request trace", stderr)
	}
}

func TestHelpExitsZero(t *testing.T) {
	code, _, stderr := run(t, "help")
	if code != ExitOK {
		t.Fatalf("exit = %d, want 0", code)
	}
	for _, want := range []string{"device", "notifications", "watch", "-local-device-name"} {
		if !strings.Contains(stderr, want) {
			t.Fatalf("help missing %q:\n%s", want, stderr)
		}
	}
	if code, _, _ := run(t); code != ExitUsage {
		t.Fatalf("exit without args = %d, want 2", code)
	}
}

func TestParseParams(t *testing.T) {
	params, err := parseParams(`{"enabled":true,"time":"07:30","volume":0.5,"count":3}`)
	if err != nil {
		t.Fatalf("parseParams: %v", err)
	}
	kinds := map[string]lametric.ValueKind{
		"enabled": lametric.KindBool,
		"time":    lametric.KindString,
		"volume":  lametric.KindFloat,
		"count":   lametric.KindInt,
	}
	for name, want := range kinds {
		if got := params[name].Kind(); got != want {
			t.Fatalf("%s kind = %v, want %v", name, got, want)
		}
	}

	if params, err := parseParams("  "); err != nil || params != nil {
		t.Fatalf("parseParams(blank) = %v, %v; want nil, nil", params, err)
	}
	for _, raw := range []string{`null`, `[1]`, `{"a":null}`, `{"a":[1]}`, `{"a":1} {}`} {
		if _, err := parseParams(raw); err == nil {
			t.Fatalf("parseParams(%s) err = nil, want error", raw)
		}
	}
}

func TestNormalizeClock(t *testing.T) {
	tests := map[string]string{"7:30": "07:30:00", "22:00": "22:00:00", "06:30:15": "06:30:15"}
	for in, want := range tests {
		got, err := normalizeClock(in)
		if err != nil || got != want {
			t.Fatalf("normalizeClock(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, in := range []string{"", "24:00", "noon"} {
		if _, err := normalizeClock(in); err == nil {
			t.Fatalf("normalizeClock(%q) err = nil, want error", in)
		}
	}
}

func TestIsSettingsError(t *testing.T) {
	if !isSettingsError(lametric.ErrInvalidURL) {
		t.Fatalf("ErrInvalidURL not treated as a settings error")
	}
	if isSettingsError(errors.New("boom")) {
		t.Fatalf("arbitrary error treated as a settings error")
	}
}
