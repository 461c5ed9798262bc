package fss

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Response is the flattened processor reply keyed by lower-cased field name
type Response map[string]string

// Get returns the value for key, or "" when absent
func (r Response) Get(key string) string {
	return r[key]
}

// Lookup returns the value for key and whether it was present
func (r Response) Lookup(key string) (string, bool) {
	v, ok := r[key]
	return v, ok
}

type element struct {
	name     string
	text     string
	children []*element
}

// ParseResponse flattens an FSS XML reply. The reply is a root-less sequence of
// elements: a leaf contributes name -> text, an element with children
// contributes parent_child -> child text for each child. Later duplicates
// overwrite earlier ones. An empty body yields an empty Response. A declared
// non-UTF-8 encoding is decoded to UTF-8.
//
// On malformed input the entries read before the error are returned with it.
func ParseResponse(body []byte) (Response, error) {
	resp := Response{}
	if len(bytes.TrimSpace(body)) == 0 {
		return resp, nil
	}

	d := xml.NewDecoder(bytes.NewReader(body))
	d.Strict = false
	d.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return resp, nil
		}
		if err != nil {
			return resp, fmt.Errorf("failed to parse FSS response: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		el, err := readElement(d, start)
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return resp, fmt.Errorf("failed to parse FSS response element %q: %w", el.name, err)
		}
		resp.add(el)
	}
}

func (r Response) add(el *element) {
	if len(el.children) == 0 {
		r[el.name] = el.text
		return
	}
	for _, child := range el.children {
		r[el.name+"_"+child.name] = child.text
	}
}

// readElement consumes tokens up to the matching end element. text is the
// concatenated character data of the element and all its descendants.
func readElement(d *xml.Decoder, start xml.StartElement) (*element, error) {
	el := &element{name: strings.ToLower(start.Name.Local)}
	var text strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			el.text = text.String()
			return el, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := readElement(d, t)
			text.WriteString(child.text)
			el.children = append(el.children, child)
			if err != nil {
				el.text = text.String()
				return el, err
			}
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			el.text = text.String()
			return el, nil
		}
	}
}
