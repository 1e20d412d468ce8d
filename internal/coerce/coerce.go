// Package coerce converts between XML text and typed Go values. Parsing is
// deliberately permissive: unparseable input degrades to a zero-ish value or
// passes through unchanged, it never produces an error.
package coerce

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// Enum describes an enumeration target: the declared values and the
// name->value pairs. Both string and numeric enums use the same shape.
type Enum struct {
	Values []any
	Names  map[string]any
}

var timeType = reflect.TypeOf(time.Time{})

// Cast converts a raw value (typically XML text) toward a target type.
//
// Nil raw values and nil targets pass through unchanged. Enum targets take
// precedence over the kind of the underlying type: a declared value is
// returned unchanged, a valid name maps to its value, and anything else
// passes through rather than failing. Unrecognized target kinds (structs,
// slices, maps) pass through; nested shapes are the engines' concern.
func Cast(raw any, target reflect.Type, enum *Enum) any {
	if raw == nil {
		return raw
	}
	if enum != nil {
		if v, ok := castEnum(raw, enum); ok {
			return v
		}
		// Unknown enum input continues with the plain cast so typed
		// targets still receive a value; with no target it passes
		// through unchanged.
	}
	if target == nil {
		return raw
	}
	for target.Kind() == reflect.Pointer {
		target = target.Elem()
	}

	switch {
	case target == timeType:
		return castTime(raw)
	case target.Kind() == reflect.String:
		return reflect.ValueOf(fmt.Sprint(raw)).Convert(target).Interface()
	case target.Kind() == reflect.Bool:
		return raw == true || raw == "true"
	case isInt(target.Kind()):
		n, err := strconv.ParseInt(fmt.Sprint(raw), 10, 64)
		if err != nil {
			n = 0
		}
		return reflect.ValueOf(n).Convert(target).Interface()
	case isFloat(target.Kind()):
		f, err := strconv.ParseFloat(fmt.Sprint(raw), 64)
		if err != nil {
			f = math.NaN()
		}
		return reflect.ValueOf(f).Convert(target).Interface()
	default:
		return raw
	}
}

func castEnum(raw any, enum *Enum) (any, bool) {
	for _, v := range enum.Values {
		if v == raw {
			return v, true
		}
		if fmt.Sprint(v) == fmt.Sprint(raw) {
			return v, true
		}
	}
	if v, ok := enum.Names[fmt.Sprint(raw)]; ok {
		return v, true
	}
	return raw, false
}

// Date layouts tried in order. RFC 3339 covers the schema dateTime lexical
// space; the bare date form covers xs:date.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func castTime(raw any) any {
	if t, ok := raw.(time.Time); ok {
		return t
	}
	text := fmt.Sprint(raw)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}
	// Numeric epoch in milliseconds.
	if ms, err := strconv.ParseInt(text, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return raw
}

// Text serializes a typed value to its XML text form: RFC 3339 for times,
// lowercase literals for booleans, decimal for numbers, and the plain string
// form for everything else. Nil yields the empty string; callers skip nil
// fields before emitting.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format(time.RFC3339)
	case bool:
		return strconv.FormatBool(t)
	case string:
		return t
	default:
		return fmt.Sprint(v)
	}
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
