package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Tags is an ordered list of tags stored as a JSON column. Scanning tolerates
// values written by older code paths (NULL or a bare JSON string).
type Tags []string

// Scan implements sql.Scanner
func (t *Tags) Scan(src interface{}) error {
	if t == nil {
		return fmt.Errorf("models: Scan on nil *Tags")
	}

	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("models: cannot scan type %T into Tags", src)
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// Not JSON at all: treat the raw text like any other string input.
		*t = NormalizeTags(string(raw))
		return nil
	}
	*t = NormalizeTags(decoded)
	return nil
}

// Value implements driver.Valuer
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// MarshalJSON encodes nil as an empty array
func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// NormalizeTags coerces any tag input into a list. It never fails:
//
//	nil                 -> []
//	"ai, ml"            -> ["ai", "ml"]
//	`["x", "y"]`        -> ["x", "y"]
//	"  "                -> []
//	[]string{"x"}       -> ["x"] (unchanged)
//	[]interface{}{"x"}  -> ["x"] (non-string elements dropped)
//	anything else       -> []
func NormalizeTags(v interface{}) []string {
	switch tags := v.(type) {
	case nil:
		return []string{}
	case []string:
		if tags == nil {
			return []string{}
		}
		return tags
	case Tags:
		if tags == nil {
			return []string{}
		}
		return []string(tags)
	case string:
		return parseTagString(tags)
	case []interface{}:
		out := make([]string, 0, len(tags))
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// parseTagString accepts a JSON array or a comma separated list
func parseTagString(s string) []string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return []string{}
	}

	if strings.HasPrefix(trimmed, "[") {
		var decoded []interface{}
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			return NormalizeTags(decoded)
		}
	}

	parts := strings.Split(trimmed, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
