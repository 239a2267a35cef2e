// Package convention interprets the metadata conventions carried in column
// comments and table names. The schema reader keeps comments verbatim;
// consumers decide whether to apply these rules.
package convention

import (
	"regexp"
	"strings"
	"unicode"
)

var foreignKeyComment = regexp.MustCompile(`^fk:(\w+)\.(\w+)$`)

// ForeignKey is a reference declared in a column comment as
// "fk:<table>.<column>".
type ForeignKey struct {
	Table  string `json:"table" yaml:"table"`
	Column string `json:"column" yaml:"column"`
}

// ParseForeignKey reads a foreign key reference from comment.
func ParseForeignKey(comment string) (ForeignKey, bool) {
	m := foreignKeyComment.FindStringSubmatch(strings.TrimSpace(comment))
	if m == nil {
		return ForeignKey{}, false
	}
	return ForeignKey{Table: m[1], Column: m[2]}, true
}

// EnumLabel pairs an enum value with its human readable label.
type EnumLabel struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// ParseEnumLabels reads value labels from an enum column comment of the form
// "<description>,<value>:<label>|<value>:<label>". Labels keep the order
// they are written in.
func ParseEnumLabels(comment string) ([]EnumLabel, bool) {
	_, mapping, found := strings.Cut(comment, ",")
	mapping = strings.TrimSpace(mapping)
	if !found || mapping == "" {
		return nil, false
	}

	parts := strings.Split(mapping, "|")
	labels := make([]EnumLabel, 0, len(parts))
	for _, part := range parts {
		value, label, ok := strings.Cut(part, ":")
		if !ok {
			return nil, false
		}
		labels = append(labels, EnumLabel{Value: strings.TrimSpace(value), Label: strings.TrimSpace(label)})
	}
	return labels, true
}

// ClassName turns a table name into a singular StudlyCase type name,
// e.g. "order_items" -> "OrderItem".
func ClassName(table string) string {
	words := splitWords(table)
	if len(words) == 0 {
		return ""
	}
	words[len(words)-1] = singular(words[len(words)-1])

	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(capitalize(w))
	}
	return sb.String()
}

// CaseName turns an enum value into an UPPER_SNAKE constant name. A leading
// digit gets an underscore prefix so the result is a valid identifier.
func CaseName(value string) string {
	words := splitWords(value)
	for i, w := range words {
		words[i] = strings.ToUpper(w)
	}
	name := strings.Join(words, "_")
	if name != "" && unicode.IsDigit(rune(name[0])) {
		name = "_" + name
	}
	return name
}

// splitWords breaks s on non-alphanumerics and lower-to-upper case changes.
func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	prev := rune(0)
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return words
}

func capitalize(w string) string {
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// singular strips common English plural endings. It does not know
// irregular nouns.
func singular(w string) string {
	switch {
	case len(w) > 3 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "sses"), strings.HasSuffix(w, "shes"),
		strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "xes"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "ss"), strings.HasSuffix(w, "us"), strings.HasSuffix(w, "is"):
		return w
	case len(w) > 1 && strings.HasSuffix(w, "s"):
		return w[:len(w)-1]
	}
	return w
}
