// Package matrix holds the pure skills-matrix computations: key
// normalization, category classification, metric derivation, the
// per-employee join and the organization-level reductions. Nothing in here
// performs I/O.
package matrix

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"skillsmatrix/models"
)

// ReadableKey turns a camelCase skill key into a display name:
// "problemSolving" becomes "Problem Solving". Every ASCII capital starts a
// new word, so an already readable key is not guaranteed to round-trip.
func ReadableKey(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	s := b.String()
	if s != "" {
		r, size := utf8.DecodeRuneInString(s)
		s = string(unicode.ToUpper(r)) + s[size:]
	}
	return strings.TrimSpace(s)
}

// NormalizeKeys flattens a possibly nested skill map into display names.
// Nested keys are joined to their parent's readable key with a space.
// Values that are neither finite numbers nor maps are dropped. Ordered BSON
// documents nest like maps. A nil map yields an empty map.
func NormalizeKeys(in map[string]any) map[string]float64 {
	out := make(map[string]float64, len(in))
	normalizeInto(out, "", in)
	return out
}

// NormalizeRatings is NormalizeKeys for a flat rating map.
func NormalizeRatings(in models.SkillRatings) map[string]float64 {
	return NormalizeKeys(ratingsAsAny(in))
}

func normalizeInto(out map[string]float64, parent string, in map[string]any) {
	for key, value := range in {
		name := ReadableKey(key)
		if parent != "" {
			name = parent + " " + name
		}

		switch v := value.(type) {
		case map[string]any:
			normalizeInto(out, name, v)
		case primitive.M:
			normalizeInto(out, name, map[string]any(v))
		case primitive.D:
			normalizeInto(out, name, elementsAsAny(v))
		case models.SkillRatings:
			normalizeInto(out, name, ratingsAsAny(v))
		case map[string]float64:
			normalizeInto(out, name, ratingsAsAny(v))
		default:
			if f, ok := toFloat(v); ok {
				out[name] = f
			}
		}
	}
}

func ratingsAsAny(in map[string]float64) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func elementsAsAny(d primitive.D) map[string]any {
	out := make(map[string]any, len(d))
	for _, e := range d {
		out[e.Key] = e.Value
	}
	return out
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return 0, false
	}
	return f, finite(f)
}

// SortedKeys returns the keys of a rating map in ascending order so that
// reductions iterate deterministically.
func SortedKeys(m models.SkillRatings) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
