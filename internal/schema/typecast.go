package schema

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var (
	currentTimestamp = regexp.MustCompile(`(?i)^\s*current_timestamp(?:\((\d*)\))?\s*$`)
	bitLiteral       = regexp.MustCompile(`(?i)^b'([01]*)'$`)
)

// Typecast converts a raw catalog value into the Go type matching the
// column's RepType. It never fails: a value it cannot convert is returned
// as the raw string.
//
// Database-computed defaults on temporal columns come back as an Expression,
// and bit literals such as b'1010' as their unsigned integer value.
func (c *Column) Typecast(value any) any {
	if s, ok := value.(string); ok {
		if c.Type.IsTemporal() {
			if m := currentTimestamp.FindStringSubmatch(s); m != nil {
				return currentTimestampExpr(m)
			}
		}
		if s == "" && !c.Type.IsTextual() {
			return nil
		}
		if c.BaseType() == "bit" && bitLiteral.MatchString(s) {
			return c.castBits(s)
		}
	}

	if value == nil || c.matchesRep(value) {
		return value
	}

	switch c.RepType {
	case RepString, RepResource:
		return toString(value)
	case RepInteger:
		return toInteger(value)
	case RepBoolean:
		return toBoolean(value)
	case RepDouble:
		return toDouble(value)
	default:
		return value
	}
}

// currentTimestampExpr spells the expression canonically. An empty or zero
// precision, as in MariaDB's current_timestamp(), is the plain form.
func currentTimestampExpr(m []string) Expression {
	if m[1] == "" || strings.Trim(m[1], "0") == "" {
		return Expression("CURRENT_TIMESTAMP")
	}
	return Expression("CURRENT_TIMESTAMP(" + strings.TrimLeft(m[1], "0") + ")")
}

// castBits decodes b'...' into its unsigned integer value, bit(1) included.
// A string-rep column gets the decimal digits instead. Literals wider than
// 64 bits are kept as written.
func (c *Column) castBits(s string) any {
	digits := bitLiteral.FindStringSubmatch(s)[1]
	if digits == "" {
		digits = "0"
	}
	n, err := strconv.ParseUint(digits, 2, 64)
	if err != nil {
		return s
	}
	switch {
	case c.RepType == RepString:
		return strconv.FormatUint(n, 10)
	case n <= math.MaxInt64:
		return int64(n)
	default:
		return n
	}
}

func (c *Column) matchesRep(value any) bool {
	switch value.(type) {
	case string:
		return c.RepType == RepString
	case []byte:
		return c.RepType == RepResource
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return c.RepType == RepInteger
	case float32, float64:
		return c.RepType == RepDouble
	case bool:
		return c.RepType == RepBoolean
	}
	return c.RepType == RepArray
}

func toString(value any) any {
	switch v := value.(type) {
	case []byte:
		return v
	case bool:
		if v {
			return "1"
		}
		return ""
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if s, err := cast.ToStringE(value); err == nil {
		return s
	}
	return value
}

func toInteger(value any) any {
	s, ok := value.(string)
	if !ok {
		if n, err := cast.ToInt64E(value); err == nil {
			return n
		}
		return value
	}

	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int64(f)
	}
	return value
}

func toBoolean(value any) any {
	switch v := value.(type) {
	case string:
		switch {
		case v == "", v == "0", v == "\x00":
			return false
		case strings.EqualFold(v, "false"):
			return false
		}
		return true
	case []byte:
		return !(len(v) == 0 || (len(v) == 1 && (v[0] == 0 || v[0] == '0')))
	}
	if f, err := cast.ToFloat64E(value); err == nil {
		return f != 0
	}
	return true
}

func toDouble(value any) any {
	s, ok := value.(string)
	if !ok {
		if f, err := cast.ToFloat64E(value); err == nil {
			return f
		}
		return value
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return f
	}
	return value
}
