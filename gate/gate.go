// Package gate implements the feature gate: a bitset of optional
// target-syntax features that guards which IR node kinds the parser may
// produce and which syntax forms the emitter may choose between.
package gate

import (
	"fmt"
	"sort"

	"golang.org/x/mod/semver"
)

// Flag identifies one optional feature of the target evaluator.
type Flag uint32

const (
	AggregateError Flag = 1 << iota
	ArrayPrototypeValues
	ArrowFunction
	BigInt
	ErrorPrototypeStack
	Map
	MethodShorthand
	ObjectAssign
	Promise
	Set
	Symbol
	TypedArray
	BigIntTypedArray
	WebAPI
)

var names = map[Flag]string{
	AggregateError:       "AggregateError",
	ArrayPrototypeValues: "ArrayPrototypeValues",
	ArrowFunction:        "ArrowFunction",
	BigInt:               "BigInt",
	ErrorPrototypeStack:  "ErrorPrototypeStack",
	Map:                  "Map",
	MethodShorthand:      "MethodShorthand",
	ObjectAssign:         "ObjectAssign",
	Promise:              "Promise",
	Set:                  "Set",
	Symbol:               "Symbol",
	TypedArray:           "TypedArray",
	BigIntTypedArray:     "BigIntTypedArray",
	WebAPI:               "WebAPI",
}

// All is the mask containing every known flag — the "latest" default.
var All = func() Mask {
	var m Mask
	for f := range names {
		m |= Mask(f)
	}
	return m
}()

// Mask is a combination of Flags. The zero Mask has no features enabled.
type Mask uint32

// Has reports whether every bit in flag is set in m.
func (m Mask) Has(f Flag) bool {
	return Mask(f)&m == Mask(f)
}

// Without returns m with the bits in f cleared.
func (m Mask) Without(f Flag) Mask {
	return m &^ Mask(f)
}

// With returns m with the bits in f set.
func (m Mask) With(f Flag) Mask {
	return m | Mask(f)
}

// Combine ORs together any number of masks and flags.
func Combine(masks ...Mask) Mask {
	var m Mask
	for _, x := range masks {
		m |= x
	}
	return m
}

// String lists the set flags in a stable, alphabetic order — useful for
// error messages ("requires Map, Set") and test fixtures.
func (m Mask) String() string {
	var present []string
	for f, name := range names {
		if m.Has(f) {
			present = append(present, name)
		}
	}
	sort.Strings(present)
	if len(present) == 0 {
		return "(none)"
	}
	out := present[0]
	for _, n := range present[1:] {
		out += "," + n
	}
	return out
}

// preset pins a named, monotonic feature level to a synthetic semver string
// so presets can be compared and composed with golang.org/x/mod/semver
// instead of a hand-rolled ordinal table.
type preset struct {
	version string // synthetic "vMAJOR.MINOR.0", strictly increasing per preset
	adds    Mask   // flags newly available at this level
}

var presets = map[string]preset{
	"es2015": {version: "v1.0.0", adds: Combine(Mask(Map), Mask(Set), Mask(Symbol), Mask(ArrowFunction), Mask(MethodShorthand))},
	"es2017": {version: "v2.0.0", adds: Combine(Mask(ObjectAssign), Mask(TypedArray))},
	"es2020": {version: "v3.0.0", adds: Combine(Mask(BigInt), Mask(BigIntTypedArray), Mask(Promise))},
	"latest": {version: "v4.0.0", adds: Combine(Mask(AggregateError), Mask(ArrayPrototypeValues), Mask(ErrorPrototypeStack), Mask(WebAPI))},
}

// Preset resolves a named feature level (e.g. "es2017") to the cumulative
// mask of every preset at or below that level, using semver ordering so
// presets compose the way a real target-version ladder would: "es2020"
// carries everything "es2017" carries, plus its own additions.
func Preset(name string) (Mask, error) {
	target, ok := presets[name]
	if !ok {
		return 0, fmt.Errorf("gate: unknown preset %q", name)
	}

	var m Mask
	for _, p := range presets {
		if semver.Compare(p.version, target.version) <= 0 {
			m |= p.adds
		}
	}
	return m, nil
}

// PresetNames returns the recognized preset names, for error suggestions.
func PresetNames() []string {
	out := make([]string, 0, len(presets))
	for name := range presets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Require returns an error naming any flags in need that are absent from m.
// The parser calls this when a value needs a feature the gate has disabled;
// the caller turns it into a graphcode.Error{Kind: FeatureMissing}.
func Require(m Mask, need Flag) error {
	if m.Has(need) {
		return nil
	}
	return fmt.Errorf("gate: feature %s is required but disabled", names[Flag(need)])
}
