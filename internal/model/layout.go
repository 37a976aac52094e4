package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit tags the physical meaning of a layout parameter.
type Unit int

const (
	UnitMillimeter Unit = iota // Lengths on the sheet
	UnitPoint                  // Font sizes
	UnitScale                  // Dimensionless barcode module multiplier
)

// Suffix returns the unit suffix used in the persisted form.
func (u Unit) Suffix() string {
	switch u {
	case UnitMillimeter:
		return "mm"
	case UnitPoint:
		return "pt"
	default:
		return ""
	}
}

func (u Unit) String() string {
	switch u {
	case UnitMillimeter:
		return "Millimeter"
	case UnitPoint:
		return "Point"
	default:
		return "Scale"
	}
}

// LayoutKey names one of the fixed layout parameters.
type LayoutKey string

const (
	KeySmallTop   LayoutKey = "small-top"
	KeySmallLeft  LayoutKey = "small-left"
	KeyLargeTop   LayoutKey = "large-top"
	KeyLargeLeft  LayoutKey = "large-left"
	KeySpacedTop  LayoutKey = "spaced-top"
	KeySpacedLeft LayoutKey = "spaced-left"
	KeyTitleTop   LayoutKey = "title-top"
	KeyTitleLeft  LayoutKey = "title-left"
	KeySpacedSize LayoutKey = "spaced-size"
	KeyTitleSize  LayoutKey = "title-size"
	KeySmallScale LayoutKey = "small-scale"
	KeyLargeScale LayoutKey = "large-scale"
)

// LayoutConfig is the spatial layout of a label. Every field always holds a
// value; there is no partially defined configuration.
type LayoutConfig struct {
	SmallTop   float64 // mm
	SmallLeft  float64 // mm
	LargeTop   float64 // mm
	LargeLeft  float64 // mm
	SpacedTop  float64 // mm
	SpacedLeft float64 // mm
	TitleTop   float64 // mm
	TitleLeft  float64 // mm
	SpacedSize float64 // pt
	TitleSize  float64 // pt
	SmallScale float64
	LargeScale float64
}

type keySpec struct {
	key   LayoutKey
	unit  Unit
	field func(c *LayoutConfig) *float64
}

// keySpecs is the binding table between keys and fields, in canonical order.
var keySpecs = []keySpec{
	{KeySmallTop, UnitMillimeter, func(c *LayoutConfig) *float64 { return &c.SmallTop }},
	{KeySmallLeft, UnitMillimeter, func(c *LayoutConfig) *float64 { return &c.SmallLeft }},
	{KeyLargeTop, UnitMillimeter, func(c *LayoutConfig) *float64 { return &c.LargeTop }},
	{KeyLargeLeft, UnitMillimeter, func(c *LayoutConfig) *float64 { return &c.LargeLeft }},
	{KeySpacedTop, UnitMillimeter, func(c *LayoutConfig) *float64 { return &c.SpacedTop }},
	{KeySpacedLeft, UnitMillimeter, func(c *LayoutConfig) *float64 { return &c.SpacedLeft }},
	{KeyTitleTop, UnitMillimeter, func(c *LayoutConfig) *float64 { return &c.TitleTop }},
	{KeyTitleLeft, UnitMillimeter, func(c *LayoutConfig) *float64 { return &c.TitleLeft }},
	{KeySpacedSize, UnitPoint, func(c *LayoutConfig) *float64 { return &c.SpacedSize }},
	{KeyTitleSize, UnitPoint, func(c *LayoutConfig) *float64 { return &c.TitleSize }},
	{KeySmallScale, UnitScale, func(c *LayoutConfig) *float64 { return &c.SmallScale }},
	{KeyLargeScale, UnitScale, func(c *LayoutConfig) *float64 { return &c.LargeScale }},
}

func lookupKey(key LayoutKey) (keySpec, bool) {
	for _, s := range keySpecs {
		if s.key == key {
			return s, true
		}
	}
	return keySpec{}, false
}

// DefaultLayout returns the compiled-in layout.
func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		SmallTop:   15,
		SmallLeft:  15,
		LargeTop:   70,
		LargeLeft:  148.5,
		SpacedTop:  145,
		SpacedLeft: 148.5,
		TitleTop:   165,
		TitleLeft:  148.5,
		SpacedSize: 20,
		TitleSize:  24,
		SmallScale: 1.5,
		LargeScale: 2.5,
	}
}

// LayoutKeys returns all parameter keys in canonical order.
func LayoutKeys() []LayoutKey {
	keys := make([]LayoutKey, len(keySpecs))
	for i, s := range keySpecs {
		keys[i] = s.key
	}
	return keys
}

// IsKnown reports whether key is one of the fixed layout parameters.
func (k LayoutKey) IsKnown() bool {
	_, ok := lookupKey(k)
	return ok
}

// Unit returns the unit of the parameter. Unknown keys report UnitScale.
func (k LayoutKey) Unit() Unit {
	s, ok := lookupKey(k)
	if !ok {
		return UnitScale
	}
	return s.unit
}

// Get returns the value bound to key.
func (c LayoutConfig) Get(key LayoutKey) (float64, bool) {
	s, ok := lookupKey(key)
	if !ok {
		return 0, false
	}
	return *s.field(&c), true
}

// Set replaces the value bound to key. Unknown keys are ignored and reported
// with false.
func (c *LayoutConfig) Set(key LayoutKey, v float64) bool {
	s, ok := lookupKey(key)
	if !ok {
		return false
	}
	*s.field(c) = v
	return true
}

// Clone returns an independent copy of the configuration.
func (c LayoutConfig) Clone() LayoutConfig {
	return c
}

// FormatValue renders a parameter value with its unit suffix, e.g. "15mm".
func FormatValue(key LayoutKey, v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + key.Unit().Suffix()
}

// ParseValue parses a unit-suffixed value for key. The suffix must match the
// key's unit.
func ParseValue(key LayoutKey, s string) (float64, error) {
	spec, ok := lookupKey(key)
	if !ok {
		return 0, fmt.Errorf("unknown layout key %q", key)
	}
	s = strings.TrimSpace(s)
	suffix := spec.unit.Suffix()
	if suffix != "" {
		if !strings.HasSuffix(s, suffix) {
			return 0, fmt.Errorf("value %q for %s is missing unit %q", s, key, suffix)
		}
		s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q for %s: %w", s, key, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value %q for %s is not finite", s, key)
	}
	return v, nil
}

// Strings returns the persisted form: every key mapped to its suffixed value.
func (c LayoutConfig) Strings() map[string]string {
	out := make(map[string]string, len(keySpecs))
	for _, s := range keySpecs {
		out[string(s.key)] = FormatValue(s.key, *s.field(&c))
	}
	return out
}

// MarshalJSON encodes the configuration as an object of suffixed strings.
// encoding/json sorts map keys, so equal configurations give equal bytes.
func (c LayoutConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Strings())
}

// UnmarshalJSON merges a persisted object over the defaults. Keys that are
// absent or fail validation keep their default value.
func (c *LayoutConfig) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = MergeLayout(raw)
	return nil
}

// MergeLayout builds a configuration from persisted values, using the
// default for every key that is missing or invalid.
func MergeLayout(values map[string]string) LayoutConfig {
	cfg := DefaultLayout()
	for _, s := range keySpecs {
		raw, ok := values[string(s.key)]
		if !ok {
			continue
		}
		v, err := ParseValue(s.key, raw)
		if err != nil {
			continue
		}
		*s.field(&cfg) = v
	}
	return cfg
}
