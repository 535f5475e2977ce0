package lametric

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
)

// wireCodec is the single JSON configuration used for every request body and
// response payload. Model types carry snake_case tags, so the codec itself
// only has to pin down the encoder/decoder settings shared by all call sites.
type wireCodec struct {
	indent     string
	escapeHTML bool
}

// wire is immutable after package init.
var wire = wireCodec{indent: "  ", escapeHTML: false}

func (c wireCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(c.escapeHTML)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (c wireCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Indent pretty-prints an already encoded JSON document.
func (c wireCodec) Indent(data []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", c.indent); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MarshalIndent encodes v and pretty-prints the result.
func (c wireCodec) MarshalIndent(v any) (string, error) {
	raw, err := c.Marshal(v)
	if err != nil {
		return "", err
	}
	return c.Indent(raw)
}

// snakeCase applies the wire naming rule: an underscore before each interior
// capital, then lowercase. Runs of capitals are treated as one word so Go
// initialisms (ID, OSVersion) map the same way the API spells them.
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
