package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe types and helpers for length and line-height.

// Unit records the unit of a length value as written in configuration.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToMM converts the length to millimeters. Unit-less values are taken as millimeters.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// ToPT converts the length to points.
func (l Length) ToPT() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.ToMM() * MmToPt
}

// String formats the length the way it is written in configuration, e.g. "11pt".
func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ParseRawLengthStr parses a length string such as "11pt" or "10mm", preserving its unit.
// Invalid input yields a zero Length.
func ParseRawLengthStr(value string) Length {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}
	}
	return Length{Value: f, Unit: unit}
}

// LineHeightKind distinguishes factor-based vs absolute line-height specification.
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec is either a factor of the font size (e.g. 1.4x) or an absolute length (e.g. 10mm).
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// ParseLineHeightSpec parses "1.4x" or an absolute length. ok is false for invalid input.
func ParseLineHeightSpec(value string) (LineHeightSpec, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return LineHeightSpec{}, false
	}
	if strings.HasSuffix(v, "x") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64)
		if err != nil || f <= 0 {
			return LineHeightSpec{}, false
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: f}, true
	}
	l := ParseRawLengthStr(v)
	if l.Value <= 0 {
		return LineHeightSpec{}, false
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, true
}

// ResolveMM computes the absolute line height in millimeters for the given font size.
func (s LineHeightSpec) ResolveMM(fontSize Length) float64 {
	switch s.Kind {
	case LineHeightFactor:
		return fontSize.ToMM() * s.Factor
	case LineHeightAbsolute:
		return s.Len.ToMM()
	default:
		return fontSize.ToMM() * 1.4
	}
}
