package soap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// node is a namespace-stripped XML element.
type node struct {
	name     string
	nilled   bool
	children []*node
	text     strings.Builder
}

func (n *node) child(local string) *node {
	for _, c := range n.children {
		if strings.EqualFold(c.name, local) {
			return c
		}
	}
	return nil
}

// value converts the element into a generic value: text for leaves, nil for
// xsi:nil elements, a map for containers. Repeated children become a list.
func (n *node) value() any {
	if n.nilled {
		return nil
	}
	if len(n.children) == 0 {
		return strings.TrimSpace(n.text.String())
	}
	return n.fields()
}

func (n *node) fields() map[string]any {
	counts := make(map[string]int, len(n.children))
	for _, c := range n.children {
		counts[c.name]++
	}

	m := make(map[string]any, len(counts))
	for _, c := range n.children {
		if counts[c.name] > 1 {
			list, _ := m[c.name].([]any)
			m[c.name] = append(list, c.value())
			continue
		}
		m[c.name] = c.value()
	}
	return m
}

func parseTree(data []byte) (*node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	root := &node{}
	stack := []*node{root}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid XML response: %w", err)
		}

		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local}
			for _, a := range t.Attr {
				if a.Name.Local == "nil" && a.Value == "true" {
					n.nilled = true
				}
			}
			top.children = append(top.children, n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			top.text.Write(t)
		}
	}

	if len(root.children) == 0 {
		return nil, errors.New("empty XML response")
	}
	return root.children[0], nil
}

// decodeResponse extracts the operation result from a SOAP envelope.
// A SOAP fault is returned as *Fault.
func decodeResponse(data []byte) (map[string]any, error) {
	envelope, err := parseTree(data)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(envelope.name, "Envelope") {
		return nil, fmt.Errorf("unexpected root element %q", envelope.name)
	}

	body := envelope.child("Body")
	if body == nil {
		return nil, errors.New("SOAP envelope has no body")
	}
	if len(body.children) == 0 {
		return map[string]any{}, nil
	}

	payload := body.children[0]
	if strings.EqualFold(payload.name, "Fault") {
		return nil, decodeFault(payload)
	}

	if len(payload.children) == 0 {
		return map[string]any{"return": payload.value()}, nil
	}
	return payload.fields(), nil
}

// decodeFault reads SOAP 1.1 and SOAP 1.2 faults.
func decodeFault(n *node) *Fault {
	f := &Fault{}
	if c := n.child("faultcode"); c != nil {
		f.Code = strings.TrimSpace(c.text.String())
	}
	if c := n.child("faultstring"); c != nil {
		f.String = strings.TrimSpace(c.text.String())
	}
	if code := n.child("Code"); code != nil {
		if v := code.child("Value"); v != nil {
			f.Code = strings.TrimSpace(v.text.String())
		}
	}
	if reason := n.child("Reason"); reason != nil {
		if t := reason.child("Text"); t != nil {
			f.String = strings.TrimSpace(t.text.String())
		}
	}
	detail := n.child("detail")
	if detail == nil {
		detail = n.child("Detail")
	}
	if detail != nil {
		f.Detail = strings.Join(strings.Fields(collectText(detail)), " ")
	}
	return f
}

func collectText(n *node) string {
	var sb strings.Builder
	sb.WriteString(n.text.String())
	for _, c := range n.children {
		sb.WriteByte(' ')
		sb.WriteString(collectText(c))
	}
	return sb.String()
}
