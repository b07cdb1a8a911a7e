// Package options implements the public configuration surface, plus a
// preset convenience on top: naming a target syntax level (`"es2017"`)
// instead of hand-assembling a disabled-feature bitmask. Unrecognized
// keys and preset names get a fuzzy "did you mean" suggestion rather than
// being silently ignored.
package options

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/aledsdavies/graphcode/gate"
)

// Options configures one serialize/toJSON call. The zero value resolves to
// gate.All with no preset applied.
type Options struct {
	// Preset names a target syntax level ("es2015", "es2017", "es2020",
	// "latest"); empty means gate.All.
	Preset string

	// DisabledFeatures is a bitmask of features to remove from the
	// resolved base mask.
	DisabledFeatures gate.Mask
}

// Resolve computes the effective feature gate: the preset's mask (or
// gate.All with no preset), minus DisabledFeatures.
func (o Options) Resolve() (gate.Mask, error) {
	base := gate.All
	if o.Preset != "" {
		m, err := gate.Preset(o.Preset)
		if err != nil {
			return 0, presetSuggestionError(o.Preset)
		}
		base = m
	}
	return base &^ o.DisabledFeatures, nil
}

var recognizedKeys = []string{"preset", "disabledFeatures"}

// flagNames duplicates gate's flag-name table rather than exporting one
// from gate itself, since this mapping exists only to let ParseMap accept
// flag names as strings instead of requiring callers to hand-assemble a
// bitmask.
var flagNames = map[string]gate.Flag{
	"AggregateError":       gate.AggregateError,
	"ArrayPrototypeValues": gate.ArrayPrototypeValues,
	"ArrowFunction":        gate.ArrowFunction,
	"BigInt":               gate.BigInt,
	"ErrorPrototypeStack":  gate.ErrorPrototypeStack,
	"Map":                  gate.Map,
	"MethodShorthand":      gate.MethodShorthand,
	"ObjectAssign":         gate.ObjectAssign,
	"Promise":              gate.Promise,
	"Set":                  gate.Set,
	"Symbol":               gate.Symbol,
	"TypedArray":           gate.TypedArray,
	"BigIntTypedArray":     gate.BigIntTypedArray,
	"WebAPI":               gate.WebAPI,
}

// ParseMap builds Options from an untyped configuration bag — the shape a
// host embedding graphcode behind a dynamic settings object would hand in.
// Unrecognized keys and flag names fail with a "did you mean" suggestion
// instead of being silently ignored.
func ParseMap(raw map[string]any) (Options, error) {
	var out Options

	for key, val := range raw {
		switch key {
		case "preset":
			s, ok := val.(string)
			if !ok {
				return Options{}, fmt.Errorf("options: %q must be a string", key)
			}
			out.Preset = s

		case "disabledFeatures":
			mask, err := parseDisabledFeatures(val)
			if err != nil {
				return Options{}, err
			}
			out.DisabledFeatures = mask

		default:
			return Options{}, unrecognizedKeyError(key)
		}
	}

	return out, nil
}

func parseDisabledFeatures(val any) (gate.Mask, error) {
	switch v := val.(type) {
	case gate.Mask:
		return v, nil
	case int:
		return gate.Mask(v), nil
	case float64:
		return gate.Mask(v), nil
	case []string:
		return namesToMask(v)
	case []any:
		names := make([]string, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return 0, fmt.Errorf("options: disabledFeatures[%d] must be a string flag name", i)
			}
			names[i] = s
		}
		return namesToMask(names)
	default:
		return 0, fmt.Errorf("options: disabledFeatures must be a bitmask integer or an array of flag names, got %T", val)
	}
}

func namesToMask(names []string) (gate.Mask, error) {
	var mask gate.Mask
	for _, name := range names {
		flag, ok := flagNames[name]
		if !ok {
			return 0, flagSuggestionError(name)
		}
		mask |= gate.Mask(flag)
	}
	return mask, nil
}

func unrecognizedKeyError(key string) error {
	best := closest(key, recognizedKeys)
	if best == "" {
		return fmt.Errorf("options: unrecognized key %q", key)
	}
	return fmt.Errorf("options: unrecognized key %q — did you mean %q?", key, best)
}

func flagSuggestionError(name string) error {
	candidates := make([]string, 0, len(flagNames))
	for n := range flagNames {
		candidates = append(candidates, n)
	}
	sort.Strings(candidates)
	best := closest(name, candidates)
	if best == "" {
		return fmt.Errorf("options: unrecognized feature flag %q", name)
	}
	return fmt.Errorf("options: unrecognized feature flag %q — did you mean %q?", name, best)
}

func presetSuggestionError(name string) error {
	best := closest(name, gate.PresetNames())
	if best == "" {
		return fmt.Errorf("options: unrecognized preset %q", name)
	}
	return fmt.Errorf("options: unrecognized preset %q — did you mean %q?", name, best)
}

func closest(target string, candidates []string) string {
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		sort.Slice(ranks, func(i, j int) bool { return ranks[i].Distance < ranks[j].Distance })
		return ranks[0].Target
	}
	// No candidate contains target's characters in order (a substituted or
	// extra character, as in "es2016" or "Mapp"): fall back to the nearest
	// candidate within an edit distance of 2.
	best, bestDist := "", 3
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(target, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
