package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func sampleTable() *Table {
	id := NewColumn("id", "bigint", 64)
	id.IsPrimaryKey = true
	id.AutoIncrement = true

	created := NewColumn("created_at", "datetime(3)", 64)
	created.Default = created.Typecast("current_timestamp(3)")

	qty := NewColumn("qty", "int", 64)
	qty.Default = qty.Typecast("5")

	ratio := NewColumn("ratio", "double", 64)
	ratio.Default = ratio.Typecast("2")

	note := NewColumn("note", "varchar(10)", 64)
	note.Default = note.Typecast("CURRENT_TIMESTAMP")

	return &Table{Name: "orders", Columns: []*Column{id, created, qty, ratio, note}}
}

func TestColumnJSON(t *testing.T) {
	in := sampleTable()

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"defaultExpression":true`)

	var out Table
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, &out)
	assert.Equal(t, Expression("CURRENT_TIMESTAMP(3)"), out.Columns[1].Default)
	assert.Equal(t, int64(5), out.Columns[2].Default)
	assert.Equal(t, "CURRENT_TIMESTAMP", out.Columns[4].Default)
}

func TestColumnYAML(t *testing.T) {
	in := sampleTable()

	data, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), "defaultExpression: true")

	var out Table
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, in, &out)
}

func TestRestoreDefault(t *testing.T) {
	assert.Equal(t, Expression("NOW()"), restoreDefault("NOW()", true, RepString))
	assert.Equal(t, "NOW()", restoreDefault("NOW()", false, RepString))
	assert.Equal(t, int64(3), restoreDefault(json.Number("3"), false, RepInteger))
	assert.Equal(t, uint64(18446744073709551615), restoreDefault(json.Number("18446744073709551615"), false, RepInteger))
	assert.Equal(t, 1.5, restoreDefault(json.Number("1.5"), false, RepDouble))
	assert.Equal(t, float64(2), restoreDefault(json.Number("2"), false, RepDouble))
	assert.Equal(t, int64(7), restoreDefault(7, false, RepInteger))
	assert.Equal(t, float64(7), restoreDefault(7, false, RepDouble))
	assert.Equal(t, true, restoreDefault(true, false, RepBoolean))
}
