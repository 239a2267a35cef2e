// Package export writes schema snapshots to object storage and reads them
// back, so code generators can run without a live database.
package export

import (
	"github.com/koustreak/colmeta/internal/convention"
	"github.com/koustreak/colmeta/internal/schema"
)

// Document is the snapshot of one table: its columns plus the conventions
// decoded from their comments.
type Document struct {
	Table      string           `json:"table" yaml:"table"`
	Class      string           `json:"class" yaml:"class"`
	PrimaryKey []string         `json:"primaryKey,omitempty" yaml:"primaryKey,omitempty"`
	Columns    []*schema.Column `json:"columns" yaml:"columns"`

	// Relations maps column names to the foreign keys declared in their comments.
	Relations map[string]convention.ForeignKey `json:"relations,omitempty" yaml:"relations,omitempty"`

	// EnumLabels maps enum column names to their labelled values.
	EnumLabels map[string][]convention.EnumLabel `json:"enumLabels,omitempty" yaml:"enumLabels,omitempty"`

	// Properties maps column names to how generators annotate them.
	Properties map[string]Property `json:"properties" yaml:"properties"`
}

// Property is the generator-facing view of one column.
type Property struct {
	// Type is the OpenAPI property type.
	Type     string `json:"type" yaml:"type"`
	Nullable bool   `json:"nullable,omitempty" yaml:"nullable,omitempty"`

	// Default is the default rendered as text. HasDefault tells an empty
	// string default apart from none.
	Default    string `json:"default,omitempty" yaml:"default,omitempty"`
	HasDefault bool   `json:"hasDefault,omitempty" yaml:"hasDefault,omitempty"`

	// Cases holds the constant names of an enum's values, in value order.
	Cases []string `json:"cases,omitempty" yaml:"cases,omitempty"`
}

func newProperty(c *schema.Column) Property {
	p := Property{
		Type:       c.AnnotationType(),
		Nullable:   c.AllowNull,
		HasDefault: c.HasDefault(),
		Default:    c.DefaultString(),
	}
	for _, v := range c.EnumValues {
		p.Cases = append(p.Cases, convention.CaseName(v))
	}
	return p
}

// NewDocument builds the snapshot document of t.
func NewDocument(t *schema.Table) *Document {
	doc := &Document{
		Table:      t.Name,
		Class:      convention.ClassName(t.Name),
		PrimaryKey: t.PrimaryKey(),
		Columns:    t.Columns,
		Properties: make(map[string]Property, len(t.Columns)),
	}

	for _, c := range t.Columns {
		doc.Properties[c.Name] = newProperty(c)
		if fk, ok := convention.ParseForeignKey(c.Comment); ok {
			if doc.Relations == nil {
				doc.Relations = make(map[string]convention.ForeignKey)
			}
			doc.Relations[c.Name] = fk
		}
		if !c.IsEnum() {
			continue
		}
		if labels, ok := convention.ParseEnumLabels(c.Comment); ok {
			if doc.EnumLabels == nil {
				doc.EnumLabels = make(map[string][]convention.EnumLabel)
			}
			doc.EnumLabels[c.Name] = labels
		}
	}
	return doc
}
