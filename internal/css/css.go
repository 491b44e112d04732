// Package css parses the CSS-like stylesheet dialect into a table of
// named style rules. Selectors are either ".class" names or bare widget
// type names; properties cover the visual fields of style.StyleSheet.
// The dialect is a small subset: no nesting, no specificity, no
// at-rules. Lookup is by exact selector string and a later rule for the
// same selector replaces the earlier one outright.
package css

import (
	"os"
	"sort"
	"strings"

	"github.com/milkwidget/milk/internal/diag"
	"github.com/milkwidget/milk/internal/style"
)

// Table maps selectors to their parsed style rules.
type Table map[string]style.StyleSheet

// Resolve returns the rule for a selector. An absent selector yields a
// fully unset sheet, never an error.
func (t Table) Resolve(selector string) style.StyleSheet {
	if sheet, ok := t[selector]; ok {
		return sheet
	}
	return style.New()
}

// Class resolves a ".name" rule. The leading dot is optional.
func (t Table) Class(name string) style.StyleSheet {
	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}
	return t.Resolve(name)
}

// Type resolves the rule for a widget type name.
func (t Table) Type(tag string) style.StyleSheet {
	return t.Resolve(tag)
}

// Has reports whether a selector was defined by the stylesheet.
func (t Table) Has(selector string) bool {
	_, ok := t[selector]
	return ok
}

// Selectors lists the defined selectors in sorted order.
func (t Table) Selectors() []string {
	out := make([]string, 0, len(t))
	for sel := range t {
		out = append(out, sel)
	}
	sort.Strings(out)
	return out
}

// ParseFile parses a stylesheet file. An unreadable file is reported as
// an IO diagnostic with an empty table.
func ParseFile(path string) (Table, diag.List) {
	data, err := os.ReadFile(path)
	if err != nil {
		var diags diag.List
		diags.IO(path, err)
		return Table{}, diags
	}
	return Parse(string(data), path)
}
