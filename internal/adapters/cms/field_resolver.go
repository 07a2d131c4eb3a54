// Package cms maps loosely-typed CMS records onto canonical directory
// entities. Collections upstream enforce no schema and key names have
// drifted over time, so every field access resolves across a fixed
// priority list of candidate keys declared in one place.
package cms

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/medatlas/directory-api/internal/infrastructure/clients/wixdata"
)

// Resolve returns the value of the first candidate key that is present,
// non-nil and not an empty string. Iteration order is the declaration order
// of keys, so resolution is deterministic. Returns nil when nothing matches.
func Resolve(rec wixdata.Record, keys ...string) any {
	for _, key := range keys {
		value, ok := rec[key]
		if !ok || value == nil {
			continue
		}
		if s, isString := value.(string); isString && s == "" {
			continue
		}
		return value
	}
	return nil
}

// ResolveString resolves like Resolve but stringifies non-string scalars.
// Returns "" when no candidate matches.
func ResolveString(rec wixdata.Record, keys ...string) string {
	value := Resolve(rec, keys...)
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ResolveStringOr resolves a string field, substituting fallback when every
// candidate key is absent or empty.
func ResolveStringOr(rec wixdata.Record, fallback string, keys ...string) string {
	if s := ResolveString(rec, keys...); s != "" {
		return s
	}
	return fallback
}

// NormalizeRefs flattens a CMS reference field into a list of identifier
// strings. Accepted shapes: a bare ID string, an expanded object carrying an
// identifier field, or an array mixing both. Unresolvable elements are
// dropped silently; order is preserved and duplicates are kept. The result
// is never nil.
func NormalizeRefs(value any) []string {
	refs := []string{}
	switch v := value.(type) {
	case nil:
		return refs
	case string:
		if v != "" {
			refs = append(refs, v)
		}
	case []any:
		for _, elem := range v {
			if id := singleRef(elem); id != "" {
				refs = append(refs, id)
			}
		}
	case []string:
		for _, elem := range v {
			if elem != "" {
				refs = append(refs, elem)
			}
		}
	default:
		if id := singleRef(value); id != "" {
			refs = append(refs, id)
		}
	}
	return refs
}

// FirstRef returns the first resolvable identifier of a reference field, or
// "" when there is none.
func FirstRef(value any) string {
	refs := NormalizeRefs(value)
	if len(refs) == 0 {
		return ""
	}
	return refs[0]
}

func singleRef(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]any:
		for _, key := range []string{"_id", "id", "ID"} {
			if id, ok := v[key].(string); ok && id != "" {
				return id
			}
		}
	}
	return ""
}

// InlineRefObjects collects the expanded objects of a reference field keyed
// by their identifier. Bare-ID elements contribute nothing; the caller uses
// these to synthesize placeholder records for IDs missing from an index.
func InlineRefObjects(value any) map[string]wixdata.Record {
	out := map[string]wixdata.Record{}
	collect := func(elem any) {
		obj, ok := elem.(map[string]any)
		if !ok {
			return
		}
		if id := singleRef(obj); id != "" {
			out[id] = obj
		}
	}
	switch v := value.(type) {
	case []any:
		for _, elem := range v {
			collect(elem)
		}
	default:
		collect(value)
	}
	return out
}

// SafeInt coerces a loosely-typed numeric value to an int, substituting
// fallback for anything unparseable or non-finite.
func SafeInt(value any, fallback int) int {
	f, ok := toFloat(value)
	if !ok {
		return fallback
	}
	return int(f)
}

// SafeFloat coerces a loosely-typed numeric value to a float64, substituting
// fallback for anything unparseable or non-finite.
func SafeFloat(value any, fallback float64) float64 {
	f, ok := toFloat(value)
	if !ok {
		return fallback
	}
	return f
}

func toFloat(value any) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsTruthy reports whether a flag field holds any of the accepted truthy
// encodings: boolean true, "true"/"1"/"yes" in any case, or numeric 1.
func IsTruthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true
		}
		return false
	case float64:
		return v == 1
	case int:
		return v == 1
	case json.Number:
		f, err := v.Float64()
		return err == nil && f == 1
	}
	return false
}

// StringList flattens a field that may arrive as a delimited string or an
// array of strings into a trimmed list. Comma and pipe are both accepted as
// delimiters. The result is never nil.
func StringList(value any) []string {
	out := []string{}
	appendParts := func(s string) {
		for _, part := range strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == '|'
		}) {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	switch v := value.(type) {
	case nil:
	case string:
		appendParts(v)
	case []string:
		for _, elem := range v {
			appendParts(elem)
		}
	case []any:
		for _, elem := range v {
			if s, ok := elem.(string); ok {
				appendParts(s)
			}
		}
	}
	return out
}
