package svgdoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pathops/pathops/internal/style"
)

// Style returns the parsed inline style of an element. Missing elements and
// elements without a style attribute yield empty declarations.
func (d *Document) Style(id string) *style.Declarations {
	raw, _ := d.Attr(id, "style")
	return style.Parse(raw)
}

// SetStyle replaces the inline style of an element.
func (d *Document) SetStyle(id string, decls *style.Declarations) error {
	return d.SetAttr(id, "style", decls.Format())
}

// UserUnitsPerPixel returns the document scale derived from the root width
// and viewBox. Documents without both attributes use 1.
func (d *Document) UserUnitsPerPixel() float64 {
	root := d.doc.Root()
	width := root.SelectAttrValue("width", "")
	viewBox := strings.Fields(strings.ReplaceAll(root.SelectAttrValue("viewBox", ""), ",", " "))
	if width == "" || len(viewBox) != 4 || strings.HasSuffix(width, "%") {
		return 1
	}

	px, err := style.ToPixels(width)
	if err != nil || px <= 0 {
		return 1
	}
	vbWidth, err := strconv.ParseFloat(viewBox[2], 64)
	if err != nil || vbWidth <= 0 {
		return 1
	}
	return vbWidth / px
}

// NormalizeStroke gives an element a visible stroke so that it can act as a
// cutting line. The stroke takes the element's fill colour when it has a plain
// fill, and defaultStroke otherwise. A missing stroke width is set to
// defaultWidth converted to user units.
func (d *Document) NormalizeStroke(id, defaultStroke, defaultWidth string) error {
	decls := d.Style(id)

	fill, _ := decls.Get("fill")
	if fill == "none" || strings.HasPrefix(fill, "url(") {
		fill = ""
	}
	strokeColor := fill
	if strokeColor == "" {
		strokeColor = defaultStroke
	}

	width, err := style.ToUserUnits(defaultWidth, d.UserUnitsPerPixel())
	if err != nil {
		return fmt.Errorf("invalid default stroke width: %w", err)
	}

	if v, ok := decls.Get("stroke"); !ok || v == "none" {
		decls.Set("stroke", strokeColor)
	}
	if v, ok := d.Attr(id, "stroke"); ok && v == "none" {
		if err := d.SetAttr(id, "stroke", strokeColor); err != nil {
			return err
		}
	}
	if !decls.Has("stroke-width") {
		decls.Set("stroke-width", style.FormatNumber(width))
	}
	return d.SetStyle(id, decls)
}
