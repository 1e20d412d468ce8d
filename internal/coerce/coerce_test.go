package coerce

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func TestCastPrimitives(t *testing.T) {
	tests := []struct {
		name   string
		raw    any
		target reflect.Type
		want   any
	}{
		{"string", 42, reflect.TypeOf(""), "42"},
		{"int", "42", reflect.TypeOf(int(0)), 42},
		{"int64", "42", reflect.TypeOf(int64(0)), int64(42)},
		{"int lenient", "forty-two", reflect.TypeOf(int(0)), 0},
		{"float", "3.5", reflect.TypeOf(float64(0)), 3.5},
		{"bool true", "true", reflect.TypeOf(false), true},
		{"bool false literal", "false", reflect.TypeOf(false), false},
		{"bool anything else", "yes", reflect.TypeOf(false), false},
		{"pointer target", "7", reflect.TypeOf((*int)(nil)), 7},
		{"nil passthrough", nil, reflect.TypeOf(""), nil},
		{"no target", "raw", nil, "raw"},
		{"struct passthrough", "raw", reflect.TypeOf(struct{}{}), "raw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cast(tt.raw, tt.target, nil); got != tt.want {
				t.Errorf("Cast(%v) = %v (%T), want %v (%T)", tt.raw, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestCastFloatNaN(t *testing.T) {
	got := Cast("not-a-number", reflect.TypeOf(float64(0)), nil)
	f, ok := got.(float64)
	if !ok || !math.IsNaN(f) {
		t.Errorf("Cast(not-a-number) = %v, want NaN", got)
	}
}

func TestCastTime(t *testing.T) {
	want := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	got := Cast("2024-05-01T12:30:00Z", reflect.TypeOf(time.Time{}), nil)
	if !got.(time.Time).Equal(want) {
		t.Errorf("Cast(dateTime) = %v, want %v", got, want)
	}

	got = Cast("2024-05-01", reflect.TypeOf(time.Time{}), nil)
	if got.(time.Time).Year() != 2024 || got.(time.Time).Month() != time.May {
		t.Errorf("Cast(date) = %v", got)
	}

	epoch := Cast("1714566600000", reflect.TypeOf(time.Time{}), nil)
	if !epoch.(time.Time).Equal(time.UnixMilli(1714566600000)) {
		t.Errorf("Cast(epoch) = %v", epoch)
	}

	// Unparseable dates pass through rather than erroring.
	if got := Cast("next tuesday", reflect.TypeOf(time.Time{}), nil); got != "next tuesday" {
		t.Errorf("Cast(bad date) = %v, want passthrough", got)
	}
}

func TestCastEnum(t *testing.T) {
	numeric := &Enum{
		Values: []any{int64(1), int64(2)},
		Names:  map[string]any{"First": int64(1), "Second": int64(2)},
	}

	if got := Cast(int64(1), nil, numeric); got != int64(1) {
		t.Errorf("declared value = %v, want 1", got)
	}
	if got := Cast("2", nil, numeric); got != int64(2) {
		t.Errorf("text of declared value = %v, want 2", got)
	}
	if got := Cast("Second", nil, numeric); got != int64(2) {
		t.Errorf("name lookup = %v, want 2", got)
	}
	if got := Cast(int64(999), nil, numeric); got != int64(999) {
		t.Errorf("unknown value = %v, want lenient passthrough", got)
	}

	strEnum := &Enum{
		Values: []any{"red", "green"},
		Names:  map[string]any{"Red": "red", "Green": "green"},
	}
	if got := Cast("green", nil, strEnum); got != "green" {
		t.Errorf("string enum value = %v, want green", got)
	}
	if got := Cast("violet", nil, strEnum); got != "violet" {
		t.Errorf("unknown string enum = %v, want passthrough", got)
	}
}

func TestText(t *testing.T) {
	when := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"time", when, "2024-05-01T12:30:00Z"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"int", 42, "42"},
		{"float", 3.5, "3.5"},
		{"string", "x", "x"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.v); got != tt.want {
				t.Errorf("Text(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}
