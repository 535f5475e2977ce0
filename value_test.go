package lametric

import (
	"encoding/json"
	"testing"
)

func TestValue_DecodeOrder(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind ValueKind
	}{
		{"bool", `true`, KindBool},
		{"int", `42`, KindInt},
		{"negative int", `-7`, KindInt},
		{"float", `3.14`, KindFloat},
		{"exponent", `1e3`, KindFloat},
		{"string", `"s"`, KindString},
		{"numeric string", `"42"`, KindString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			if err := json.Unmarshal([]byte(tt.raw), &v); err != nil {
				t.Fatalf("Unmarshal(%s) returned error: %v", tt.raw, err)
			}
			if v.Kind() != tt.kind {
				t.Fatalf("Kind = %v, want %v", v.Kind(), tt.kind)
			}
		})
	}
}

func TestValue_RoundTrip(t *testing.T) {
	for _, raw := range []string{`true`, `42`, `3.14`, `"s"`} {
		var v Value
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			t.Fatalf("Unmarshal(%s) returned error: %v", raw, err)
		}
		got, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("Marshal returned error: %v", err)
		}
		if string(got) != raw {
			t.Fatalf("round trip of %s = %s", raw, got)
		}
	}
}

func TestValue_IntegerIsNeverStringOrBool(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`42`), &v); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if _, ok := v.Bool(); ok {
		t.Fatalf("42 decoded as bool")
	}
	if n, ok := v.Int(); !ok || n != 42 {
		t.Fatalf("Int = %d, %v, want 42, true", n, ok)
	}
}

func TestValue_RejectsNonScalars(t *testing.T) {
	for _, raw := range []string{`null`, `[1]`, `{"a":1}`} {
		var v Value
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			t.Fatalf("Unmarshal(%s) returned nil error, want error", raw)
		}
	}
}

func TestValue_DecodesParamMap(t *testing.T) {
	var params map[string]Value
	if err := wire.Unmarshal([]byte(`{"enabled":true,"time":"07:30","duration":90}`), &params); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if b, ok := params["enabled"].Bool(); !ok || !b {
		t.Fatalf("enabled = %v, want bool true", params["enabled"])
	}
	if params["time"].String() != "07:30" || params["time"].Kind() != KindString {
		t.Fatalf("time = %v, want string 07:30", params["time"])
	}
	if n, ok := params["duration"].Int(); !ok || n != 90 {
		t.Fatalf("duration = %v, want int 90", params["duration"])
	}
}
