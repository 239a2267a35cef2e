package schema

import (
	"regexp"
	"strings"
)

// leading type identifier; "double precision" is the one two-word name
var typeName = regexp.MustCompile(`(?i)^\s*(double\s+precision|[a-z_][a-z0-9_]*)`)

// ParsedType is a physical type string split into its parts.
type ParsedType struct {
	// Base is the lower-cased type name, e.g. "decimal".
	Base string

	// Unsigned is set when the modifiers after the argument group
	// contain the keyword "unsigned".
	Unsigned bool

	// Args holds the raw argument tokens split on top-level commas,
	// e.g. ["10", "2"] or ["'a'", "'b,c'"]. Empty without arguments.
	Args []string

	// Literals holds the unquoted option values of an enum or set,
	// in declaration order.
	Literals []string
}

// ParseType splits a physical type such as "decimal(10,2) unsigned" or
// "enum('a','b,c')". It never fails: a string it cannot make sense of is
// returned whole, lower-cased, as the base name.
func ParseType(physical string) ParsedType {
	m := typeName.FindStringSubmatchIndex(physical)
	if m == nil {
		return ParsedType{Base: strings.ToLower(strings.TrimSpace(physical))}
	}

	p := ParsedType{
		Base: strings.ToLower(strings.Join(strings.Fields(physical[m[2]:m[3]]), " ")),
	}

	rest := strings.TrimLeft(physical[m[1]:], " \t")
	tail := rest
	if strings.HasPrefix(rest, "(") {
		end := closingParen(rest)
		if end < 0 {
			// unterminated argument group: keep only the name
			return p
		}
		inner := rest[1:end]
		tail = rest[end+1:]

		p.Args = splitArgs(inner)
		if p.Base == "enum" || p.Base == "set" {
			p.Literals = scanLiterals(inner)
		}
	}

	p.Unsigned = strings.Contains(strings.ToLower(tail), "unsigned")
	return p
}

// closingParen returns the index of the parenthesis closing s[0], skipping
// over quoted literals, or -1 when there is none.
func closingParen(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			j := skipLiteral(s, i)
			if j < 0 {
				return -1
			}
			i = j
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// skipLiteral returns the index of the quote closing the literal that opens
// at s[start], honouring doubled quotes and backslash escapes.
func skipLiteral(s string, start int) int {
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '\'':
			if i+1 < len(s) && s[i+1] == '\'' {
				i++
				continue
			}
			return i
		}
	}
	return -1
}

// splitArgs splits an argument group on commas outside quoted literals.
func splitArgs(inner string) []string {
	var args []string
	start := 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '\'':
			if j := skipLiteral(inner, i); j >= 0 {
				i = j
			} else {
				i = len(inner)
			}
		case ',':
			args = append(args, strings.TrimSpace(inner[start:i]))
			start = i + 1
		}
	}
	if last := strings.TrimSpace(inner[start:]); last != "" || len(args) > 0 {
		args = append(args, last)
	}
	return args
}

// scanLiterals extracts the quoted values of an enum or set argument group.
func scanLiterals(inner string) []string {
	var values []string
	for i := 0; i < len(inner); i++ {
		if inner[i] != '\'' {
			continue
		}
		var sb strings.Builder
		j := i + 1
		for ; j < len(inner); j++ {
			c := inner[j]
			if c == '\\' && j+1 < len(inner) {
				j++
				sb.WriteByte(unescape(inner[j]))
				continue
			}
			if c == '\'' {
				if j+1 < len(inner) && inner[j+1] == '\'' {
					sb.WriteByte('\'')
					j++
					continue
				}
				break
			}
			sb.WriteByte(c)
		}
		values = append(values, sb.String())
		i = j
	}
	return values
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return c
	}
}
