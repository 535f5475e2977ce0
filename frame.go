package lametric

import (
	"encoding/json"
	"fmt"
)

// FrameKind identifies the shape of a notification frame.
type FrameKind int

const (
	FrameSimple FrameKind = iota
	FrameGoal
	FrameChart
)

func (k FrameKind) String() string {
	switch k {
	case FrameGoal:
		return "goal"
	case FrameChart:
		return "chart"
	default:
		return "simple"
	}
}

// GoalData describes the progress bar of a goal frame.
type GoalData struct {
	Start   int    `json:"start"`
	Current int    `json:"current"`
	End     int    `json:"end"`
	Unit    string `json:"unit"`
}

// Frame is one screen of a notification: a simple icon/text frame, a goal
// frame or a spike chart. The wire format carries no discriminator; the kind
// follows from which keys are present.
type Frame struct {
	kind  FrameKind
	icon  *string
	text  *string
	goal  GoalData
	chart []int
}

// SimpleFrame builds an icon/text frame. Empty strings are omitted.
func SimpleFrame(icon, text string) Frame {
	return Frame{kind: FrameSimple, icon: optionalString(icon), text: optionalString(text)}
}

// TextFrame builds a text-only frame.
func TextFrame(text string) Frame { return SimpleFrame("", text) }

// IconFrame builds an icon-only frame.
func IconFrame(icon string) Frame { return SimpleFrame(icon, "") }

// GoalFrame builds a goal frame; icon may be empty.
func GoalFrame(icon string, goal GoalData) Frame {
	return Frame{kind: FrameGoal, icon: optionalString(icon), goal: goal}
}

// ChartFrame builds a spike chart frame.
func ChartFrame(data ...int) Frame {
	return Frame{kind: FrameChart, chart: append([]int{}, data...)}
}

// Kind reports the frame shape.
func (f Frame) Kind() FrameKind { return f.kind }

// Icon returns the icon id when present.
func (f Frame) Icon() (string, bool) { return deref(f.icon) }

// Text returns the frame text when present.
func (f Frame) Text() (string, bool) { return deref(f.text) }

// Goal returns the goal data of a goal frame.
func (f Frame) Goal() (GoalData, bool) { return f.goal, f.kind == FrameGoal }

// ChartData returns a copy of the chart points of a chart frame.
func (f Frame) ChartData() ([]int, bool) {
	if f.kind != FrameChart {
		return nil, false
	}
	return append([]int{}, f.chart...), true
}

type frameWire struct {
	Icon      *string   `json:"icon,omitempty"`
	Text      *string   `json:"text,omitempty"`
	GoalData  *GoalData `json:"goal_data,omitempty"`
	ChartData []int     `json:"chart_data,omitempty"`
}

// MarshalJSON emits only the keys of the held kind.
func (f Frame) MarshalJSON() ([]byte, error) {
	var w frameWire
	switch f.kind {
	case FrameSimple:
		w.Icon, w.Text = f.icon, f.text
	case FrameGoal:
		goal := f.goal
		w.Icon, w.GoalData = f.icon, &goal
	case FrameChart:
		w.ChartData = f.chart
		if w.ChartData == nil {
			w.ChartData = []int{}
		}
		// omitempty would drop an empty chart and turn it into a simple frame.
		return json.Marshal(struct {
			ChartData []int `json:"chart_data"`
		}{w.ChartData})
	default:
		return nil, fmt.Errorf("unsupported frame kind %d", f.kind)
	}
	return json.Marshal(w)
}

var (
	chartKeys = []string{"chart_data", "chartData"}
	goalKeys  = []string{"goal_data", "goalData"}
)

// classifyFrame picks the frame kind from key presence: chart data wins over
// goal data, which wins over the simple fallback.
func classifyFrame(fields map[string]json.RawMessage) FrameKind {
	if _, ok := firstPresent(fields, chartKeys); ok {
		return FrameChart
	}
	if _, ok := firstPresent(fields, goalKeys); ok {
		return FrameGoal
	}
	return FrameSimple
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Frame) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}

	var icon, text *string
	if raw, ok := fields["icon"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &icon); err != nil {
			return fmt.Errorf("decode frame icon: %w", err)
		}
	}

	switch classifyFrame(fields) {
	case FrameChart:
		raw, _ := firstPresent(fields, chartKeys)
		var chart []int
		if err := json.Unmarshal(raw, &chart); err != nil {
			return fmt.Errorf("decode frame chart_data: %w", err)
		}
		*f = Frame{kind: FrameChart, chart: chart}
	case FrameGoal:
		raw, _ := firstPresent(fields, goalKeys)
		var goal GoalData
		if err := json.Unmarshal(raw, &goal); err != nil {
			return fmt.Errorf("decode frame goal_data: %w", err)
		}
		*f = Frame{kind: FrameGoal, icon: icon, goal: goal}
	default:
		if raw, ok := fields["text"]; ok && !isNull(raw) {
			if err := json.Unmarshal(raw, &text); err != nil {
				return fmt.Errorf("decode frame text: %w", err)
			}
		}
		*f = Frame{kind: FrameSimple, icon: icon, text: text}
	}
	return nil
}

func firstPresent(fields map[string]json.RawMessage, keys []string) (json.RawMessage, bool) {
	for _, key := range keys {
		if raw, ok := fields[key]; ok && !isNull(raw) {
			return raw, true
		}
	}
	return nil, false
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}
