package export

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/koustreak/colmeta/internal/errs"
	"go.yaml.in/yaml/v3"
)

// Format is a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml", in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errs.Newf(errs.ErrKindInvalidInput, "unknown format %q, want json or yaml", s)
}

// Ext is the file extension objects in this format are stored under.
func (f Format) Ext() string {
	return string(f)
}

// ContentType is the MIME type objects in this format are stored with.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Encode writes v to w in format f.
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// Decode reads one value in format f from r into v.
func Decode(r io.Reader, f Format, v any) error {
	if f == FormatYAML {
		return yaml.NewDecoder(r).Decode(v)
	}
	return json.NewDecoder(r).Decode(v)
}
