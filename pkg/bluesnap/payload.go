package bluesnap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Payload is the decoded body of a response. It is one of *XMLPayload,
// *TablePayload or *TextPayload; nil means the body was empty.
type Payload interface {
	isPayload()
}

// XMLPayload is a parsed XML document.
type XMLPayload struct {
	Root *etree.Element
}

// TablePayload is a JSON document. Reports carry their rows under "data".
type TablePayload struct {
	Rows     []Row
	HasData  bool
	Document map[string]any
}

// TextPayload is a body that was neither JSON nor XML.
type TextPayload struct {
	Text string
}

func (*XMLPayload) isPayload()   {}
func (*TablePayload) isPayload() {}
func (*TextPayload) isPayload()  {}

// Row is one report line keyed by the report's column names.
type Row map[string]string

// Value returns the column value and whether the column exists.
func (r Row) Value(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

// parsePayload classifies a body: JSON when the content type says so,
// otherwise XML, otherwise the trimmed text.
func parsePayload(contentType string, raw []byte) Payload {
	body := trimmed(raw)
	if strings.Contains(strings.ToLower(contentType), "json") {
		if p, ok := parseTable(raw); ok {
			return p
		}
		return textPayload(body)
	}
	if body == "" {
		return nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err == nil && doc.Root() != nil {
		return &XMLPayload{Root: doc.Root()}
	}
	return &TextPayload{Text: body}
}

func textPayload(s string) Payload {
	if s == "" {
		return nil
	}
	return &TextPayload{Text: s}
}

func parseTable(raw []byte) (*TablePayload, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, false
	}

	p := &TablePayload{Document: doc}
	data, ok := doc["data"].([]any)
	if !ok {
		return p, true
	}
	p.HasData = true
	for _, item := range data {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		row := make(Row, len(obj))
		for k, v := range obj {
			row[k] = stringify(v)
		}
		p.Rows = append(p.Rows, row)
	}
	return p, true
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "1"
		}
		return ""
	default:
		return fmt.Sprint(val)
	}
}

// child walks a path of element names from el, taking the first match at
// each step. It returns nil when any step is missing.
func child(el *etree.Element, path ...string) *etree.Element {
	for _, name := range path {
		if el == nil {
			return nil
		}
		el = el.SelectElement(name)
	}
	return el
}

// text returns the text at path and whether the element exists. An empty
// element exists.
func text(el *etree.Element, path ...string) (string, bool) {
	found := child(el, path...)
	if found == nil {
		return "", false
	}
	return found.Text(), true
}

// textOrEmpty returns the text at path or "".
func textOrEmpty(el *etree.Element, path ...string) string {
	s, _ := text(el, path...)
	return s
}
