package model

import (
	"math"
	"strconv"
	"strings"
)

// FacetKind tags the variant held by a FacetValue.
type FacetKind uint8

const (
	FacetNumber FacetKind = iota
	FacetString
	FacetBool
)

func (k FacetKind) String() string {
	switch k {
	case FacetNumber:
		return "number"
	case FacetString:
		return "string"
	case FacetBool:
		return "boolean"
	default:
		return "unknown"
	}
}

// FacetValue is a tagged union of the value types a facet can hold.
// String values are stored lowercased so equality is case-insensitive.
type FacetValue struct {
	Kind FacetKind
	Str  string
	Num  float64
	Bool bool
}

// StringValue builds a string facet value.
func StringValue(s string) FacetValue {
	return FacetValue{Kind: FacetString, Str: strings.ToLower(s)}
}

// NumberValue builds a numeric facet value.
func NumberValue(n float64) FacetValue {
	return FacetValue{Kind: FacetNumber, Num: n}
}

// BoolValue builds a boolean facet value.
func BoolValue(b bool) FacetValue {
	return FacetValue{Kind: FacetBool, Bool: b}
}

// FacetValueOf converts a decoded JSON value. NaN and infinities are rejected.
func FacetValueOf(v interface{}) (FacetValue, bool) {
	switch t := v.(type) {
	case string:
		return StringValue(t), true
	case bool:
		return BoolValue(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return FacetValue{}, false
		}
		return NumberValue(t), true
	case float32:
		return FacetValueOf(float64(t))
	case int:
		return NumberValue(float64(t)), true
	case int64:
		return NumberValue(float64(t)), true
	case int32:
		return NumberValue(float64(t)), true
	case uint32:
		return NumberValue(float64(t)), true
	}
	return FacetValue{}, false
}

// Compare orders values by kind (numbers, then strings, then booleans) and
// then by value.
func (v FacetValue) Compare(o FacetValue) int {
	if v.Kind != o.Kind {
		if v.Kind < o.Kind {
			return -1
		}
		return 1
	}
	switch v.Kind {
	case FacetNumber:
		switch {
		case v.Num < o.Num:
			return -1
		case v.Num > o.Num:
			return 1
		}
		return 0
	case FacetString:
		return strings.Compare(v.Str, o.Str)
	default:
		switch {
		case v.Bool == o.Bool:
			return 0
		case !v.Bool:
			return -1
		}
		return 1
	}
}

func (v FacetValue) String() string {
	switch v.Kind {
	case FacetNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case FacetBool:
		return strconv.FormatBool(v.Bool)
	default:
		return strconv.Quote(v.Str)
	}
}
