package gateway

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// sanitizeStringForSQL strips every Unicode control character (including
// null, tab, DEL, and the C1 range) and doubles single quotes, the two
// defenses the original's sanitize_string_for_sql applies before a
// string is ever embedded as a SQL literal rather than passed as a bind
// parameter. unicode.IsControl matches Rust's char::is_control exactly,
// the filter the original's `!c.is_control()` uses.
func sanitizeStringForSQL(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ReplaceAll(b.String(), "'", "''")
}

// jsonValueToSQLLiteral renders a JSON-decoded value (string, float64,
// bool, nil, map, slice) as a HANA SQL literal for inlining into a CALL
// statement: NULL/TRUE/FALSE bare, numbers bare, strings sanitized and
// quoted, and composite values serialized to JSON text and then quoted
// as a string literal (HANA has no array/object literal syntax, so the
// original passes nested JSON through to a JSON-column parameter as
// text). Grounded on server.rs's json_value_to_sql_literal.
func jsonValueToSQLLiteral(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "NULL", nil
	case bool:
		if val {
			return "TRUE", nil
		}
		return "FALSE", nil
	case float64:
		return formatNumber(val), nil
	case json.Number:
		return val.String(), nil
	case string:
		return "'" + sanitizeStringForSQL(val) + "'", nil
	case map[string]any, []any:
		encoded, err := json.Marshal(val)
		if err != nil {
			return "", fmt.Errorf("encoding composite parameter as JSON: %w", err)
		}
		return "'" + sanitizeStringForSQL(string(encoded)) + "'", nil
	default:
		return "", fmt.Errorf("unsupported parameter value type %T", v)
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
