package markup

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/milkwidget/milk/internal/diag"
	"github.com/milkwidget/milk/internal/style"
)

// Parse reads one markup document. The root element is either a single
// widget or a widgets/milk collection of widget elements; any other
// root yields an empty tree and a diagnostic. Unrecognized child tags
// are skipped along with their subtrees. Malformed markup aborts the
// whole parse: the tree comes back empty with a single structural
// diagnostic carrying the line number, never partially built.
//
// path is used to tag diagnostics and may be empty.
func Parse(r io.Reader, path string) (*Tree, diag.List) {
	var diags diag.List
	dec := xml.NewDecoder(r)

	root, err := nextStart(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			diags.Structural(path, 0, 0, "empty document")
		} else {
			addSyntaxDiag(&diags, path, err)
		}
		return &Tree{}, diags
	}

	tree := &Tree{}
	switch strings.ToLower(root.Name.Local) {
	case "widget":
		node, err := parsePanel(dec, root)
		if err != nil {
			addSyntaxDiag(&diags, path, err)
			return &Tree{}, diags
		}
		tree.Widgets = append(tree.Widgets, node)

	case "widgets", "milk":
		widgets, err := parseCollection(dec)
		if err != nil {
			addSyntaxDiag(&diags, path, err)
			return &Tree{}, diags
		}
		tree.Widgets = widgets

	default:
		diags.Unsupported(path, 0, "unsupported root element %q", root.Name.Local)
	}

	return tree, diags
}

// ParseString parses an in-memory document.
func ParseString(src string) (*Tree, diag.List) {
	return Parse(strings.NewReader(src), "")
}

// ParseFile parses a markup file. An unreadable file is reported as an
// IO diagnostic with an empty tree.
func ParseFile(path string) (*Tree, diag.List) {
	f, err := os.Open(path)
	if err != nil {
		var diags diag.List
		diags.IO(path, err)
		return &Tree{}, diags
	}
	defer f.Close()
	return Parse(f, path)
}

// nextStart advances to the first element, skipping prolog tokens.
func nextStart(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

// parseCollection reads the children of a widgets/milk root. Only
// widget elements produce nodes; anything else is skipped.
func parseCollection(dec *xml.Decoder) ([]*WidgetNode, error) {
	var widgets []*WidgetNode
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if strings.ToLower(t.Name.Local) != "widget" {
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			node, err := parsePanel(dec, t)
			if err != nil {
				return nil, err
			}
			widgets = append(widgets, node)
		case xml.EndElement:
			return widgets, nil
		}
	}
}

// parsePanel builds a top-level widget node and its children.
func parsePanel(dec *xml.Decoder, start xml.StartElement) (*WidgetNode, error) {
	n := newNode("widget", start)
	coercePanel(n, "widget")
	if err := parseChildren(dec, n); err != nil {
		return nil, err
	}
	return n, nil
}

// parseChildren consumes tokens until the parent closes, appending a
// node for each recognized child tag and skipping the rest.
func parseChildren(dec *xml.Decoder, parent *WidgetNode) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			def, ok := Lookup(t.Name.Local)
			if !ok {
				if err := dec.Skip(); err != nil {
					return err
				}
				continue
			}
			child, err := parseChild(dec, t, def)
			if err != nil {
				return err
			}
			parent.Children = append(parent.Children, child)
		case xml.EndElement:
			return nil
		}
	}
}

func parseChild(dec *xml.Decoder, start xml.StartElement, def Definition) (*WidgetNode, error) {
	n := newNode(def.Tag, start)
	if def.Coerce != nil {
		def.Coerce(n, strings.ToLower(start.Name.Local))
	}

	switch {
	case def.Container:
		if err := parseChildren(dec, n); err != nil {
			return nil, err
		}
	case def.Textual:
		text, err := collectText(dec)
		if err != nil {
			return nil, err
		}
		n.Text = text
	default:
		if err := dec.Skip(); err != nil {
			return nil, err
		}
	}

	return n, nil
}

// collectText accumulates character data until the element closes,
// descending through nested elements. Whitespace is preserved as
// written.
func collectText(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return b.String(), nil
			}
			depth--
		}
	}
}

func newNode(canon string, start xml.StartElement) *WidgetNode {
	return &WidgetNode{
		Tag:    canon,
		Attrs:  collectAttrs(start.Attr),
		Inline: style.New(),
	}
}

// collectAttrs lowers attribute keys and folds duplicates, keeping the
// first position with the last value.
func collectAttrs(xattrs []xml.Attr) []Attr {
	if len(xattrs) == 0 {
		return nil
	}
	attrs := make([]Attr, 0, len(xattrs))
	index := make(map[string]int, len(xattrs))
	for _, a := range xattrs {
		key := strings.ToLower(a.Name.Local)
		if i, ok := index[key]; ok {
			attrs[i].Value = a.Value
			continue
		}
		index[key] = len(attrs)
		attrs = append(attrs, Attr{Key: key, Value: a.Value})
	}
	return attrs
}

func addSyntaxDiag(diags *diag.List, path string, err error) {
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		diags.Structural(path, se.Line, 0, "%s", se.Msg)
		return
	}
	diags.Structural(path, 0, 0, "%s", err)
}
