package schema

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Expression is a default evaluated by the database rather than a constant,
// e.g. CURRENT_TIMESTAMP(3). Generators emit it verbatim.
type Expression string

// Column is the normalised metadata of one table column.
//
// A Column is built once per introspection call and never modified
// afterwards; consumers read its fields directly.
type Column struct {
	Name   string `json:"name" yaml:"name"`
	DBType string `json:"dbType" yaml:"dbType"` // physical type, e.g. "decimal(10,2) unsigned"

	Type    AbstractType         `json:"type" yaml:"type"`
	RepType RepresentationalType `json:"repType" yaml:"repType"`

	AllowNull     bool `json:"allowNull" yaml:"allowNull"`
	IsPrimaryKey  bool `json:"isPrimaryKey" yaml:"isPrimaryKey"`
	AutoIncrement bool `json:"autoIncrement" yaml:"autoIncrement"`
	Unsigned      bool `json:"unsigned" yaml:"unsigned"` // numeric types only

	Size      *int `json:"size,omitempty" yaml:"size,omitempty"`
	Precision *int `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale     *int `json:"scale,omitempty" yaml:"scale,omitempty"`

	// EnumValues lists the options of an enum column in DDL order.
	EnumValues []string `json:"enumValues,omitempty" yaml:"enumValues,omitempty"`
	// SetValues lists the members of a set column in DDL order.
	SetValues []string `json:"setValues,omitempty" yaml:"setValues,omitempty"`

	// Default is nil when the column has no default (always for primary
	// keys), an Expression for database-computed defaults, and otherwise a
	// value of the Go type matching RepType: int64, float64, bool, string
	// or []byte. Bit literals are the exception: they decode to their
	// integer value, so a bit(1) default is int64 0 or 1.
	Default any `json:"default,omitempty" yaml:"default,omitempty"`

	// Comment is kept verbatim; see package convention for its encodings.
	Comment   string  `json:"comment,omitempty" yaml:"comment,omitempty"`
	Collation *string `json:"collation,omitempty" yaml:"collation,omitempty"`
	Extra     string  `json:"extra,omitempty" yaml:"extra,omitempty"`

	base string // physical base name before classification, e.g. "bit"
}

// NewColumn builds a column from its name and physical type, classifying it
// for a consumer with the given native integer width (32 or 64).
// Catalog flags and the default are left for the caller to fill in.
func NewColumn(name, dbType string, intSize int) *Column {
	p := ParseType(dbType)
	c := &Column{
		Name:     name,
		DBType:   dbType,
		Type:     Classify(p.Base),
		Unsigned: p.Unsigned,
		base:     p.Base,
	}
	c.applyArgs(p)
	c.RepType = Representation(c.Type, c.Unsigned, intSize)
	return c
}

// applyArgs refines the column from its type arguments: enum and set
// literals, size, precision and scale, and the bit width.
func (c *Column) applyArgs(p ParsedType) {
	switch p.Base {
	case "enum":
		c.EnumValues = p.Literals
		return
	case "set":
		c.SetValues = p.Literals
		return
	}
	if len(p.Args) == 0 {
		return
	}

	if size, err := strconv.Atoi(p.Args[0]); err == nil {
		precision := size
		c.Size = &size
		c.Precision = &precision
	}
	if len(p.Args) > 1 {
		if scale, err := strconv.Atoi(p.Args[1]); err == nil {
			c.Scale = &scale
		}
	}

	if p.Base == "bit" && c.Size != nil {
		switch {
		case *c.Size == 1:
			c.Type = TypeBoolean
		case *c.Size > 32:
			c.Type = TypeBigInt
		default:
			c.Type = TypeInteger
		}
	}
}

// BaseType returns the lower-cased physical type name, e.g. "bit" for
// "bit(8)".
func (c *Column) BaseType() string {
	if c.base != "" {
		return c.base
	}
	return ParseType(c.DBType).Base
}

// IsEnum reports whether the column is an enum with known options.
func (c *Column) IsEnum() bool {
	return len(c.EnumValues) > 0
}

// HasDefault reports whether the column carries a default value.
func (c *Column) HasDefault() bool {
	return c.Default != nil
}

// IsExpressionDefault reports whether the default is computed by the database.
func (c *Column) IsExpressionDefault() bool {
	_, ok := c.Default.(Expression)
	return ok
}

// DefaultString renders the default for text templates; "" when absent.
func (c *Column) DefaultString() string {
	switch v := c.Default.(type) {
	case nil:
		return ""
	case Expression:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []byte:
		return string(v)
	default:
		return cast.ToString(v)
	}
}

// AnnotationType returns the OpenAPI property type used when documenting
// the column.
func (c *Column) AnnotationType() string {
	if c.IsEnum() {
		return "string"
	}
	switch c.RepType {
	case RepInteger:
		return "integer"
	case RepDouble:
		return "number"
	case RepBoolean:
		return "boolean"
	case RepArray:
		return "object"
	default:
		return "string"
	}
}

// Table is a table name with its columns in DDL order.
type Table struct {
	Name    string    `json:"name" yaml:"name"`
	Columns []*Column `json:"columns" yaml:"columns"`
}

// Column returns the column called name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// PrimaryKey returns the names of the primary key columns in order.
func (t *Table) PrimaryKey() []string {
	var pk []string
	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			pk = append(pk, c.Name)
		}
	}
	return pk
}
