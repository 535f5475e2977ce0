package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/five82/lametric"
)

func displayState(e *env, args []string) error {
	fs := e.flagSet()
	if _, err := e.parse(fs, args, 0, 0); err != nil {
		return err
	}
	client, _, err := e.connect(true)
	if err != nil {
		return err
	}

	resp, err := client.Display().State(e.ctx)
	if err != nil {
		return err
	}
	display, err := resp.Required()
	if err != nil {
		return err
	}
	e.out.Success("Display state:")
	e.out.Fields(displayFields(display))
	return nil
}

func displaySetBrightness(e *env, args []string) error {
	fs := e.flagSet()
	mode := fs.String("mode", string(lametric.BrightnessManual), "brightness mode: auto or manual")
	pos, err := e.parse(fs, args, 1, 1)
	if err != nil {
		return err
	}
	brightness, err := strconv.Atoi(pos[0])
	if err != nil || brightness < 0 || brightness > 100 {
		return usagef("brightness must be between 0 and 100, got %q", pos[0])
	}
	brightnessMode := lametric.BrightnessMode(strings.ToLower(*mode))
	if brightnessMode != lametric.BrightnessAuto && brightnessMode != lametric.BrightnessManual {
		return usagef("unknown brightness mode %q (want auto or manual)", *mode)
	}

	client, _, err := e.connect(true)
	if err != nil {
		return err
	}
	resp, err := client.Display().Update(e.ctx, lametric.DisplayUpdate{
		Brightness:     lametric.Ptr(brightness),
		BrightnessMode: lametric.Ptr(brightnessMode),
	})
	if err != nil {
		return err
	}
	result, err := resp.Required()
	if err != nil {
		return err
	}

	if e.verbose {
		e.out.Heading("Display info:")
		e.out.Fields(displayFields(result.Success.Data))
		e.out.Blank()
	}
	e.out.Success("Display brightness set to %d%% (%s mode)", brightness, brightnessMode)
	return nil
}

func displayScreensaver(e *env, args []string) error {
	fs := e.flagSet()
	whenDark := fs.Bool("when-dark", false, "enable the screensaver when the room is dark")
	timeBased := fs.Bool("time-based", false, "enable the screensaver between -start and -end")
	start := fs.String("start", "", "GMT start time, HH:MM or HH:MM:SS")
	end := fs.String("end", "", "GMT end time, HH:MM or HH:MM:SS")
	off := fs.Bool("off", false, "disable the screensaver")
	if _, err := e.parse(fs, args, 0, 0); err != nil {
		return err
	}

	selected := 0
	for _, set := range []bool{*whenDark, *timeBased, *off} {
		if set {
			selected++
		}
	}
	if selected != 1 {
		return usagef("choose exactly one of -when-dark, -time-based or -off")
	}

	var (
		update *lametric.ScreensaverUpdate
		done   string
	)
	switch {
	case *off:
		update = lametric.ScreensaverDisabled()
		done = "Screensaver disabled"
	case *whenDark:
		update = lametric.ScreensaverWhenDark(true)
		done = "Screensaver enabled when dark"
	default:
		startTime, err := normalizeClock(*start)
		if err != nil {
			return usagef("-start: %v", err)
		}
		endTime, err := normalizeClock(*end)
		if err != nil {
			return usagef("-end: %v", err)
		}
		update = lametric.ScreensaverTimeBased(true, startTime, endTime)
		done = "Screensaver enabled from " + startTime + " to " + endTime + " GMT"
	}

	client, _, err := e.connect(true)
	if err != nil {
		return err
	}
	resp, err := client.Display().Update(e.ctx, lametric.DisplayUpdate{Screensaver: update})
	if err != nil {
		return err
	}
	if _, err := resp.Required(); err != nil {
		return err
	}
	e.out.Success("%s", done)
	return nil
}

// normalizeClock accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func normalizeClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("time is required")
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("invalid time %q (want HH:MM or HH:MM:SS)", s)
}
