package schema

import "strings"

// AbstractType is a portable column type tag, independent of how any one
// DBMS spells its types.
type AbstractType string

const (
	TypePK        AbstractType = "pk"
	TypeUPK       AbstractType = "upk"
	TypeBigPK     AbstractType = "bigpk"
	TypeUBigPK    AbstractType = "ubigpk"
	TypeChar      AbstractType = "char"
	TypeString    AbstractType = "string"
	TypeText      AbstractType = "text"
	TypeTinyInt   AbstractType = "tinyint"
	TypeSmallInt  AbstractType = "smallint"
	TypeInteger   AbstractType = "integer"
	TypeBigInt    AbstractType = "bigint"
	TypeFloat     AbstractType = "float"
	TypeDouble    AbstractType = "double"
	TypeDecimal   AbstractType = "decimal"
	TypeDateTime  AbstractType = "datetime"
	TypeTimestamp AbstractType = "timestamp"
	TypeTime      AbstractType = "time"
	TypeDate      AbstractType = "date"
	TypeBinary    AbstractType = "binary"
	TypeBoolean   AbstractType = "boolean"
	TypeMoney     AbstractType = "money"
	TypeJSON      AbstractType = "json"
)

// IsTemporal reports whether t holds dates or times.
func (t AbstractType) IsTemporal() bool {
	switch t {
	case TypeDate, TypeTime, TypeDateTime, TypeTimestamp:
		return true
	}
	return false
}

// IsTextual reports whether an empty string is a meaningful value of t.
func (t AbstractType) IsTextual() bool {
	switch t {
	case TypeText, TypeString, TypeBinary, TypeChar:
		return true
	}
	return false
}

// RepresentationalType is the host value category a column's data is held in.
type RepresentationalType string

const (
	RepInteger  RepresentationalType = "integer"
	RepDouble   RepresentationalType = "double"
	RepBoolean  RepresentationalType = "boolean"
	RepResource RepresentationalType = "resource" // binary blob, kept as []byte
	RepArray    RepresentationalType = "array"    // decoded JSON document
	RepString   RepresentationalType = "string"
)

// Classify maps a lower-cased physical base type name to its AbstractType.
// Unknown names classify as TypeString. Arguments never influence the
// result; the bit width refinement happens on the column.
func Classify(name string) AbstractType {
	t, _ := lookupType(name)
	return t
}

// lookupType is Classify that also reports whether name was recognised.
func lookupType(name string) (AbstractType, bool) {
	switch strings.ToLower(strings.Join(strings.Fields(name), " ")) {
	case "tinyint", "bool", "boolean":
		return TypeTinyInt, true
	case "smallint", "int2", "smallserial", "serial2":
		return TypeSmallInt, true
	case "bit", "mediumint", "int", "integer", "int4", "serial", "serial4":
		return TypeInteger, true
	case "bigint", "int8", "bigserial", "serial8":
		return TypeBigInt, true
	case "float", "real", "float4":
		return TypeFloat, true
	case "double", "double precision", "float8":
		return TypeDouble, true
	case "decimal", "numeric", "dec", "fixed":
		return TypeDecimal, true
	case "money":
		return TypeMoney, true
	case "tinytext", "text", "mediumtext", "longtext":
		return TypeText, true
	case "varchar", "string":
		return TypeString, true
	case "char", "bpchar":
		return TypeChar, true
	case "binary", "varbinary", "tinyblob", "blob", "mediumblob", "longblob", "bytea":
		return TypeBinary, true
	case "datetime":
		return TypeDateTime, true
	case "timestamp", "timestamptz":
		return TypeTimestamp, true
	case "time", "timetz":
		return TypeTime, true
	case "date", "year":
		return TypeDate, true
	case "json", "jsonb":
		return TypeJSON, true
	case "enum", "set":
		return TypeString, true
	default:
		return TypeString, false
	}
}

// Representation derives the representational type of a column.
// intSize is the native integer width of the consumer (32 or 64): a 64-bit
// value that does not fit is held as a string instead of being truncated.
func Representation(t AbstractType, unsigned bool, intSize int) RepresentationalType {
	switch t {
	case TypeTinyInt, TypeSmallInt:
		return RepInteger
	case TypeInteger:
		if intSize < 64 && unsigned {
			return RepString
		}
		return RepInteger
	case TypeBigInt:
		if intSize >= 64 && !unsigned {
			return RepInteger
		}
		return RepString
	case TypeBoolean:
		return RepBoolean
	case TypeFloat, TypeDouble:
		return RepDouble
	case TypeBinary:
		return RepResource
	case TypeJSON:
		return RepArray
	default:
		return RepString
	}
}
