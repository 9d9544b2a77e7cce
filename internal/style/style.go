// Package style reads and writes SVG inline style attributes and lengths.
package style

import (
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Declarations is an ordered set of CSS declarations from a style attribute.
type Declarations struct {
	names  []string
	values map[string]string
}

// Parse parses an inline style attribute such as "fill:#fff;stroke:none".
// Malformed declarations are skipped.
func Parse(s string) *Declarations {
	d := &Declarations{values: make(map[string]string)}
	if strings.TrimSpace(s) == "" {
		return d
	}

	p := css.NewParser(parse.NewInputString(s), true)
	for {
		gt, _, data := p.Next()
		if gt == css.ErrorGrammar {
			if p.Err() == io.EOF {
				break
			}
			continue
		}
		if gt != css.DeclarationGrammar && gt != css.CustomPropertyGrammar {
			continue
		}

		var value strings.Builder
		for _, tok := range p.Values() {
			value.Write(tok.Data)
		}
		d.Set(strings.ToLower(string(data)), strings.TrimSpace(value.String()))
	}
	return d
}

// Get returns the value of a property and whether it is declared.
func (d *Declarations) Get(name string) (string, bool) {
	v, ok := d.values[name]
	return v, ok
}

// Has reports whether the property is declared.
func (d *Declarations) Has(name string) bool {
	_, ok := d.values[name]
	return ok
}

// Set declares or replaces a property. New properties are appended.
func (d *Declarations) Set(name, value string) {
	if _, ok := d.values[name]; !ok {
		d.names = append(d.names, name)
	}
	d.values[name] = value
}

// Len returns the number of declarations.
func (d *Declarations) Len() int {
	return len(d.names)
}

// Format renders the declarations back into attribute form.
func (d *Declarations) Format() string {
	parts := make([]string, 0, len(d.names))
	for _, name := range d.names {
		parts = append(parts, name+":"+d.values[name])
	}
	return strings.Join(parts, ";")
}
