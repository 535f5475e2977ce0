package cli

import (
	"fmt"
	"strings"

	"github.com/five82/lametric"
)

type sendFlags struct {
	text     string
	icon     string
	priority string
	iconType string
	cycles   int
	sound    string
	alarm    string
	soundURL string
	repeat   int
	lifetime int
}

func notificationsSend(e *env, args []string) error {
	fs := e.flagSet()
	var f sendFlags
	fs.StringVar(&f.text, "text", "", "notification text (required)")
	fs.StringVar(&f.icon, "icon", "", "icon id, e.g. i298, or a data URI")
	fs.StringVar(&f.priority, "priority", string(lametric.PriorityInfo), "info, warning or critical")
	fs.StringVar(&f.iconType, "icon-type", string(lametric.IconNone), "system icon shown first: none, info or alert")
	fs.IntVar(&f.cycles, "cycles", 1, "times to show the notification; 0 keeps it until dismissed")
	fs.StringVar(&f.sound, "sound", "", "built-in notification sound, e.g. cat")
	fs.StringVar(&f.alarm, "alarm", "", "built-in alarm sound, e.g. alarm1")
	fs.StringVar(&f.soundURL, "sound-url", "", "mp3 to play; -sound or -alarm is the fallback")
	fs.IntVar(&f.repeat, "repeat", 1, "times to play the sound")
	fs.IntVar(&f.lifetime, "lifetime", 0, "milliseconds the notification stays in the queue")
	if _, err := e.parse(fs, args, 0, 0); err != nil {
		return err
	}

	n, err := buildNotification(f)
	if err != nil {
		return err
	}

	client, _, err := e.connect(true)
	if err != nil {
		return err
	}
	resp, err := client.Notifications().Send(e.ctx, n)
	if err != nil {
		return err
	}
	created, err := resp.Required()
	if err != nil {
		return err
	}

	if e.verbose {
		e.out.Payload("Sent notification:", resp.PrettyPrinted())
	}
	e.out.Success("Notification sent successfully. Id: %s", created.Success.ID)
	return nil
}

func buildNotification(f sendFlags) (lametric.Notification, error) {
	if strings.TrimSpace(f.text) == "" {
		return lametric.Notification{}, usagef("-text is required")
	}

	priority := lametric.Priority(strings.ToLower(f.priority))
	switch priority {
	case lametric.PriorityInfo, lametric.PriorityWarning, lametric.PriorityCritical:
	default:
		return lametric.Notification{}, usagef("unknown priority %q (want info, warning or critical)", f.priority)
	}

	iconType := lametric.IconType(strings.ToLower(f.iconType))
	switch iconType {
	case lametric.IconNone, lametric.IconInfo, lametric.IconAlert:
	default:
		return lametric.Notification{}, usagef("unknown icon type %q (want none, info or alert)", f.iconType)
	}

	if f.cycles < 0 {
		return lametric.Notification{}, usagef("-cycles must not be negative")
	}
	if f.lifetime < 0 {
		return lametric.Notification{}, usagef("-lifetime must not be negative")
	}

	n := lametric.NewNotification(lametric.SimpleFrame(f.icon, f.text))
	n.Priority = priority
	n.IconType = iconType
	n.Model.Cycles = lametric.Ptr(f.cycles)
	if f.lifetime > 0 {
		n.Lifetime = lametric.Ptr(f.lifetime)
	}

	sound, err := buildSound(f)
	if err != nil {
		return lametric.Notification{}, err
	}
	n.Model.Sound = sound
	return n, nil
}

func buildSound(f sendFlags) (*lametric.Sound, error) {
	if f.sound != "" && f.alarm != "" {
		return nil, usagef("-sound and -alarm are mutually exclusive")
	}

	var builtIn *lametric.BuiltInSound
	switch {
	case f.sound != "":
		id := lametric.NotificationSound(f.sound)
		if !id.Valid() {
			return nil, &usageError{err: &lametric.UnknownSoundError{Category: lametric.CategoryNotifications, ID: f.sound}}
		}
		builtIn = lametric.Ptr(lametric.BuiltInNotification(id))
	case f.alarm != "":
		id := lametric.AlarmSound(f.alarm)
		if !id.Valid() {
			return nil, &usageError{err: &lametric.UnknownSoundError{Category: lametric.CategoryAlarms, ID: f.alarm}}
		}
		builtIn = lametric.Ptr(lametric.BuiltInAlarm(id))
	}

	if f.soundURL != "" {
		if builtIn == nil {
			return nil, usagef("-sound-url needs -sound or -alarm as fallback")
		}
		return lametric.Ptr(lametric.CustomSound(f.soundURL, *builtIn, f.repeat)), nil
	}
	if builtIn == nil {
		return nil, nil
	}
	if f.alarm != "" {
		return lametric.Ptr(lametric.AlarmSoundOf(lametric.AlarmSound(f.alarm), f.repeat)), nil
	}
	return lametric.Ptr(lametric.NotificationSoundOf(lametric.NotificationSound(f.sound), f.repeat)), nil
}

func notificationsList(e *env, args []string) error {
	fs := e.flagSet()
	if _, err := e.parse(fs, args, 0, 0); err != nil {
		return err
	}
	client, _, err := e.connect(true)
	if err != nil {
		return err
	}

	resp, err := client.Notifications().Queue(e.ctx)
	if err != nil {
		return err
	}
	queue, err := resp.Required()
	if err != nil {
		return err
	}

	if len(queue) == 0 {
		e.out.Success("No notifications in queue")
		return nil
	}
	e.out.Success("%d notification(s) in queue:", len(queue))
	for i, item := range queue {
		e.out.Line("%d. ID: %s", i+1, item.ID)
		e.out.Line("   Type: %s", item.Type)
		e.out.Line("   Priority: %s", item.Priority)
		e.out.Line("   Created: %s", item.Created)
		e.out.Blank()
	}
	return nil
}

func notificationsRemove(e *env, args []string) error {
	fs := e.flagSet()
	pos, err := e.parse(fs, args, 1, 1)
	if err != nil {
		return err
	}
	id := pos[0]

	client, _, err := e.connect(true)
	if err != nil {
		return err
	}
	resp, err := client.Notifications().Remove(e.ctx, id)
	if err != nil {
		return err
	}
	result, err := resp.Required()
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("the device did not remove notification %s", id)
	}
	e.out.Success("Notification with id %s removed successfully", id)
	return nil
}
