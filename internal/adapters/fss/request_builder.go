package fss

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// BuildRequest serializes fields as a declaration header followed by one
// flat element per field, in field order
func BuildRequest(fields Fields) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	for _, f := range fields.entries {
		if err := enc.EncodeElement(f.Value, xml.StartElement{Name: xml.Name{Local: f.Key}}); err != nil {
			return nil, fmt.Errorf("failed to encode field %q: %w", f.Key, err)
		}
		if err := enc.Flush(); err != nil {
			return nil, fmt.Errorf("failed to flush field %q: %w", f.Key, err)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
