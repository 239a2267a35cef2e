package postgres

import (
	"regexp"
	"strings"
)

var (
	// trailing type cast, e.g. ::character varying, ::timestamp(3) without time zone or ::"bit"
	castSuffix = regexp.MustCompile(`::"?[a-zA-Z_][\w ]*"?(\(\d+(,\s*\d+)?\))?(\[\])?$`)

	bitString = regexp.MustCompile(`(?i)^b'([01]*)'$`)
	bitDigits = regexp.MustCompile(`^[01]+$`)

	nowCall = regexp.MustCompile(`(?i)^(now\(\)|transaction_timestamp\(\)|current_timestamp)$`)
)

// normalizeDefault rewrites a pg_get_expr default into the literal form
// MySQL reports: casts and quotes stripped, now() spelled CURRENT_TIMESTAMP.
// Sequence defaults are dropped; the column is flagged auto_increment instead.
func normalizeDefault(raw *string) *string {
	if raw == nil {
		return nil
	}
	v := strings.TrimSpace(*raw)

	if strings.HasPrefix(strings.ToLower(v), "nextval(") {
		return nil
	}

	for {
		stripped := castSuffix.ReplaceAllString(v, "")
		stripped = unwrapParens(stripped)
		if stripped == v {
			break
		}
		v = stripped
	}

	if strings.EqualFold(v, "null") {
		return nil
	}
	if m := bitString.FindStringSubmatch(v); m != nil {
		v = "b'" + m[1] + "'"
		return &v
	}
	if nowCall.MatchString(v) {
		v = "CURRENT_TIMESTAMP"
	}
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		v = strings.ReplaceAll(v[1:len(v)-1], "''", "'")
	}
	return &v
}

// unwrapParens removes one pair of enclosing parentheses, as in (-1)::integer.
func unwrapParens(s string) string {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return s
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return s
			}
		}
	}
	return s[1 : len(s)-1]
}

// columnDefault normalises the default of a column of physical type typ.
func columnDefault(typ string, raw *string) *string {
	v := normalizeDefault(raw)
	switch {
	case typ == "bool":
		return boolDefault(v)
	case typ == "bit" || strings.HasPrefix(typ, "bit("):
		return bitDefault(v)
	}
	return v
}

// bitDefault spells a bit string default as the b'...' literal MySQL reports.
func bitDefault(v *string) *string {
	if v == nil || !bitDigits.MatchString(*v) {
		return v
	}
	out := "b'" + *v + "'"
	return &out
}

// boolDefault spells a boolean default the way MySQL stores tinyint(1) flags.
func boolDefault(v *string) *string {
	if v == nil {
		return nil
	}
	var out string
	switch strings.ToLower(*v) {
	case "true", "t", "yes", "on", "1":
		out = "1"
	case "false", "f", "no", "off", "0":
		out = "0"
	default:
		return v
	}
	return &out
}
