package schema

import (
	"bytes"
	"encoding/json"
	"strconv"

	"go.yaml.in/yaml/v3"
)

// columnFields is Column without its methods, so the codecs below can
// encode it without recursing.
type columnFields Column

// columnDoc is the serialised form of a Column. DefaultExpression marks a
// database-computed default, which would otherwise read back as a plain string.
type columnDoc struct {
	columnFields      `yaml:",inline"`
	DefaultExpression bool `json:"defaultExpression,omitempty" yaml:"defaultExpression,omitempty"`
}

func (c Column) MarshalJSON() ([]byte, error) {
	return json.Marshal(columnDoc{columnFields: columnFields(c), DefaultExpression: c.IsExpressionDefault()})
}

func (c *Column) UnmarshalJSON(data []byte) error {
	var doc struct {
		columnFields
		Default           json.RawMessage `json:"default"`
		DefaultExpression bool            `json:"defaultExpression"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	*c = Column(doc.columnFields)
	c.Default = nil
	c.base = ParseType(c.DBType).Base

	if len(doc.Default) == 0 || string(doc.Default) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(doc.Default))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	c.Default = restoreDefault(v, doc.DefaultExpression, c.RepType)
	return nil
}

func (c Column) MarshalYAML() (any, error) {
	return columnDoc{columnFields: columnFields(c), DefaultExpression: c.IsExpressionDefault()}, nil
}

func (c *Column) UnmarshalYAML(node *yaml.Node) error {
	var doc columnDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}
	*c = Column(doc.columnFields)
	c.base = ParseType(c.DBType).Base
	if c.Default != nil {
		c.Default = restoreDefault(c.Default, doc.DefaultExpression, c.RepType)
	}
	return nil
}

// restoreDefault brings a decoded default back to the Go types a freshly
// read Column carries. Whole floats are written without a fraction, so rep
// decides between int64 and float64.
func restoreDefault(v any, expression bool, rep RepresentationalType) any {
	switch d := v.(type) {
	case string:
		if expression {
			return Expression(d)
		}
		return d
	case json.Number:
		if rep != RepDouble {
			if i, err := d.Int64(); err == nil {
				return i
			}
			if u, err := strconv.ParseUint(d.String(), 10, 64); err == nil {
				return u
			}
		}
		if f, err := d.Float64(); err == nil {
			return f
		}
		return d.String()
	case int:
		if rep == RepDouble {
			return float64(d)
		}
		return int64(d)
	default:
		return v
	}
}
