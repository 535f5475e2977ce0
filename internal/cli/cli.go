package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/five82/lametric"
	"github.com/five82/lametric/internal/config"
)

const userAgent = "lametric-cli"

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// command is one node of the command tree. Leaves have run set; groups have
// subcommands and optionally a fallback used when no subcommand is named.
type command struct {
	name     string
	args     string
	summary  string
	run      func(e *env, args []string) error
	subs     []*command
	fallback string
}

func commands() []*command {
	return []*command{
		{name: "device", summary: "Manage device settings", subs: []*command{
			{name: "info", summary: "Get the device state", run: deviceInfo},
			{name: "set-mode", args: "<auto|manual|schedule|kiosk>", summary: "Change the device mode", run: deviceSetMode},
		}},
		{name: "display", summary: "Manage display settings", fallback: "get-state", subs: []*command{
			{name: "get-state", summary: "Get the current display state", run: displayState},
			{name: "set-brightness", args: "<0-100>", summary: "Set the display brightness", run: displaySetBrightness},
			{name: "screensaver", summary: "Configure the screensaver", run: displayScreensaver},
		}},
		{name: "notifications", summary: "Manage notifications", subs: []*command{
			{name: "send", summary: "Send a notification to the device", run: notificationsSend},
			{name: "list", summary: "List notifications in the device queue", run: notificationsList},
			{name: "remove", args: "<id>", summary: "Remove a notification from the device queue", run: notificationsRemove},
		}},
		{name: "apps", summary: "Manage device apps", subs: []*command{
			{name: "list", summary: "List all installed apps", run: appsList},
			{name: "get", args: "<package>", summary: "Get details about a specific app", run: appsGet},
			{name: "next", summary: "Switch to the next app", run: appsNext},
			{name: "previous", summary: "Switch to the previous app", run: appsPrevious},
			{name: "activate", args: "<package> <widget>", summary: "Activate a specific widget", run: appsActivate},
			{name: "action", args: "<package> <widget> <action>", summary: "Send a custom action to a widget", run: appsAction},
			{name: "alarm", args: "[widget]", summary: "Configure the clock alarm", run: appsAlarm},
			{name: "radio", args: "<play|stop|next|previous> [widget]", summary: "Control the radio", run: appsRadio},
			{name: "countdown", args: "<configure|start|pause|reset> [widget]", summary: "Control the countdown", run: appsCountdown},
			{name: "stopwatch", args: "<start|pause|reset> [widget]", summary: "Control the stopwatch", run: appsStopwatch},
			{name: "weather", args: "[widget]", summary: "Show the weather forecast", run: appsWeather},
		}},
		{name: "list-endpoints", summary: "List the available API endpoints", run: listEndpoints},
		{name: "watch", summary: "Open the live dashboard", run: watch},
	}
}

// usageError marks errors caused by invalid invocations. shown is set when
// the flag package already reported it.
type usageError struct {
	err   error
	shown bool
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// Run executes the command line args (without the program name) and returns
// the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	log := newLogger(stderr)
	e := &env{
		ctx:    ctx,
		stdout: stdout,
		stderr: stderr,
		out:    newPrinter(stdout),
		log:    log,
	}

	err := dispatch(e, commands(), args, "lametric")
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}

	var usage *usageError
	if errors.As(err, &usage) {
		if !usage.shown {
			fmt.Fprintf(stderr, "lametric: %v\n", err)
			fmt.Fprintln(stderr, "Run 'lametric help' for usage.")
		}
		return ExitUsage
	}

	fmt.Fprintf(stderr, "lametric: %v\n", err)
	return ExitFailure
}

func dispatch(e *env, cmds []*command, args []string, path string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printCommands(e.stderr, cmds, path)
		if len(args) == 0 {
			return &usageError{err: errors.New("missing command"), shown: true}
		}
		return flag.ErrHelp
	}

	name := args[0]
	for _, c := range cmds {
		if c.name != name {
			continue
		}
		if c.run != nil {
			e.path = path + " " + c.name
			e.args = c.args
			return c.run(e, args[1:])
		}
		rest := args[1:]
		if c.fallback != "" && (len(rest) == 0 || strings.HasPrefix(rest[0], "-")) {
			rest = append([]string{c.fallback}, rest...)
		}
		return dispatch(e, c.subs, rest, path+" "+c.name)
	}
	return usagef("unknown command %q for %s", name, path)
}

func printCommands(w io.Writer, cmds []*command, path string) {
	fmt.Fprintf(w, "Usage: %s <command> [options]\n\nCommands:\n", path)
	for _, c := range cmds {
		fmt.Fprintf(w, "  %-16s %s\n", c.name, c.summary)
	}
	if path == "lametric" {
		fmt.Fprintln(w, "\nEvery command accepts the connection options:")
		fs := flag.NewFlagSet(path, flag.ContinueOnError)
		fs.SetOutput(w)
		(&commonFlags{}).register(fs)
		fs.PrintDefaults()
	}
}

// commonFlags are the connection options shared by every command.
type commonFlags struct {
	settings   config.Settings
	configPath string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.settings.DeviceName, "local-device-name", "", "device name in the local network (env LAMETRIC_DEVICE_NAME)")
	fs.StringVar(&c.settings.DeviceName, "n", "", "shorthand for -local-device-name")
	fs.StringVar(&c.settings.Host, "host", "", "host exposing the device (env LAMETRIC_HOST)")
	fs.IntVar(&c.settings.Port, "port", 0, "port; defaults to 8080 with a device name")
	fs.StringVar(&c.settings.Scheme, "scheme", "", "http or https; defaults to https with -host")
	fs.StringVar(&c.settings.APIKey, "api-key", "", "device API key (env LAMETRIC_API_KEY)")
	fs.StringVar(&c.settings.APIKey, "k", "", "shorthand for -api-key")
	fs.BoolVar(&c.settings.Verbose, "verbose", false, "print every request and the decoded responses (env VERBOSE)")
	fs.BoolVar(&c.settings.Verbose, "v", false, "shorthand for -verbose")
	fs.StringVar(&c.configPath, "config", "", "config file (default ~/.config/lametric/config.toml)")
}

// env carries what a command needs while it runs.
type env struct {
	ctx    context.Context
	stdout io.Writer
	stderr io.Writer
	out    *printer
	log    *logrus.Logger

	path    string
	args    string
	common  commonFlags
	verbose bool
}

// flagSet returns a flag set for the running command with the connection
// options registered.
func (e *env) flagSet() *flag.FlagSet {
	fs := flag.NewFlagSet(e.path, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	e.common.register(fs)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: %s [options] %s\n\nOptions:\n", e.path, e.args)
		fs.PrintDefaults()
	}
	return fs
}

// parse parses fs, allowing flags after positional arguments, and checks
// the number of positional arguments.
func (e *env) parse(fs *flag.FlagSet, args []string, minArgs, maxArgs int) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, err
			}
			return nil, &usageError{err: err, shown: true}
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
	if len(positional) < minArgs || len(positional) > maxArgs {
		if e.args == "" {
			return nil, usagef("%s takes no arguments", e.path)
		}
		return nil, usagef("usage: %s [options] %s", e.path, e.args)
	}
	return positional, nil
}

// connect resolves the connection settings and builds a client.
func (e *env) connect(trace bool) (*lametric.Client, config.Resolved, error) {
	if e.common.settings.Verbose {
		e.log.SetLevel(logrus.DebugLevel)
	}
	resolved, err := config.Resolve(e.common.configPath, e.common.settings, e.log)
	if err != nil {
		if isSettingsError(err) {
			return nil, config.Resolved{}, &usageError{err: err}
		}
		return nil, config.Resolved{}, err
	}
	e.verbose = resolved.Verbose
	if e.verbose {
		e.log.SetLevel(logrus.DebugLevel)
	}

	opts := []lametric.Option{lametric.WithUserAgent(userAgent)}
	if e.verbose && trace {
		opts = append(opts, lametric.WithVerbose(e.stderr))
	}
	client, err := lametric.New(resolved.APIKey, resolved.Connection, opts...)
	if err != nil {
		return nil, config.Resolved{}, &usageError{err: err}
	}
	e.log.WithFields(logrus.Fields{
		"target": resolved.Connection.String(),
		"local":  resolved.Connection.Local,
	}).Debug("client ready")
	return client, resolved, nil
}

func isSettingsError(err error) bool {
	for _, target := range []error{
		config.ErrMissingAPIKey,
		config.ErrMissingTarget,
		config.ErrAmbiguousTarget,
		config.ErrHTTPSWithoutHost,
		lametric.ErrInvalidURL,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func newLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(logrus.WarnLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return log
}
