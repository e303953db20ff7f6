package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const indentUnit = "  "

// Encode renders doc as two-space indented JSON. Slashes and HTML characters
// are left unescaped, and an array holding exactly one string stays on one
// line. The output carries no trailing newline.
func Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, doc, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any, depth int) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case *Document:
		return encodeObject(buf, t, depth)
	case []any:
		return encodeArray(buf, t, depth)
	case string:
		return encodeString(buf, t)
	case json.Number:
		buf.WriteString(t.String())
	case bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	default:
		// Plain Go values (maps, slices, numbers) are normalised through
		// encoding/json first so they follow the same layout rules.
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encoding %T: %w", t, err)
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		norm, err := decodeValue(dec)
		if err != nil {
			return fmt.Errorf("normalising %T: %w", t, err)
		}
		return encodeValue(buf, norm, depth)
	}
	return nil
}

func encodeObject(buf *bytes.Buffer, doc *Document, depth int) error {
	if doc == nil {
		buf.WriteString("null")
		return nil
	}
	if doc.Len() == 0 {
		buf.WriteString("{}")
		return nil
	}

	inner := strings.Repeat(indentUnit, depth+1)
	buf.WriteString("{\n")
	for i, key := range doc.keys {
		buf.WriteString(inner)
		if err := encodeString(buf, key); err != nil {
			return err
		}
		buf.WriteString(": ")
		if err := encodeValue(buf, doc.values[key], depth+1); err != nil {
			return err
		}
		if i < len(doc.keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(strings.Repeat(indentUnit, depth))
	buf.WriteByte('}')
	return nil
}

func encodeArray(buf *bytes.Buffer, list []any, depth int) error {
	if len(list) == 0 {
		buf.WriteString("[]")
		return nil
	}
	if s, ok := list[0].(string); ok && len(list) == 1 {
		buf.WriteByte('[')
		if err := encodeString(buf, s); err != nil {
			return err
		}
		buf.WriteByte(']')
		return nil
	}

	inner := strings.Repeat(indentUnit, depth+1)
	buf.WriteString("[\n")
	for i, item := range list {
		buf.WriteString(inner)
		if err := encodeValue(buf, item, depth+1); err != nil {
			return err
		}
		if i < len(list)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(strings.Repeat(indentUnit, depth))
	buf.WriteByte(']')
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
