package schema

import (
	"fmt"
	"strings"
)

// Placeholder is the value a display record carries for a field whose storage
// counterpart was absent from the raw record.
const Placeholder = "-"

// nullTokens are textual values treated as "no value". Matched after
// trimming and uppercasing.
var nullTokens = map[string]bool{
	"NAN":  true,
	"NONE": true,
	"NULL": true,
}

// Normalize converts a raw storage record into a complete display-shaped
// record. The input maps storage column names to values of arbitrary type;
// fields may be missing or nil.
//
// Rules, per canonical field:
//   - storage counterpart absent from the input: Placeholder
//   - otherwise: value rendered to text, trimmed, uppercased
//   - nil values and null-like tokens (NAN/NONE/NULL): empty string
//
// The output always contains exactly the canonical display field set, and
// normalizing an already-normalized record yields the same record.
func Normalize(raw map[string]any) map[string]string {
	out := make(map[string]string, len(fieldPairs))
	for _, p := range fieldPairs {
		v, ok := raw[p.Storage]
		if !ok {
			out[p.Display] = Placeholder
			continue
		}
		out[p.Display] = NormalizeValue(v)
	}
	return out
}

// NormalizeValue renders a single raw value to normalized display text.
func NormalizeValue(v any) string {
	if v == nil {
		return ""
	}
	s := strings.ToUpper(strings.TrimSpace(toText(v)))
	if nullTokens[s] {
		return ""
	}
	return s
}

// ToStorage translates a display-shaped record into a storage-shaped payload.
// Keys with no storage counterpart are silently dropped; this permissiveness
// lets bulk imports carry extra columns without failing.
func ToStorage(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if col, ok := toStorage[k]; ok {
			out[col] = v
		}
	}
	return out
}

// ToDisplay translates a storage-shaped payload back to display field names.
// Unrecognized columns are dropped.
func ToDisplay(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if name, ok := toDisplay[k]; ok {
			out[name] = v
		}
	}
	return out
}

func toText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	case float64:
		// Whole floats render without the trailing ".0" the raw store
		// produces for numeric columns.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", v)
	}
}
