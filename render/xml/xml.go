// Package xml renders a commonmark-gfm AST as CommonMark XML, the
// dialect the reference cmark implementation's --to xml mode emits:
// one element per node kind, nested to match the tree, with a handful
// of kind-specific attributes (§1, "(d) CommonMark XML").
package xml

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	cm "github.com/ttencate/commonmark-gfm"
)

const namespace = "http://commonmark.org/xml/1.0"

// Render writes root's CommonMark XML rendering to w under opts.
func Render(w io.Writer, root *cm.Node, opts cm.Options) error {
	r := &renderer{w: w, opts: opts}
	r.writeString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(r.w, "<document xmlns=\"%s\">\n", namespace)
	for _, c := range root.Children() {
		r.node(c, 1)
	}
	r.writeString("</document>\n")
	return r.err
}

// RenderString is the buffer-backed convenience wrapper Render lacks.
func RenderString(root *cm.Node, opts cm.Options) (string, error) {
	var buf strings.Builder
	err := Render(&buf, root, opts)
	return buf.String(), err
}

type renderer struct {
	w    io.Writer
	opts cm.Options
	err  error
}

func (r *renderer) writeString(s string) {
	if r.err != nil {
		return
	}
	if _, err := io.WriteString(r.w, s); err != nil {
		r.err = err
	}
}

func (r *renderer) open(tag string, depth int, attrs ...string) {
	r.writeString(strings.Repeat(" ", depth))
	r.writeString("<" + tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		fmt.Fprintf(r.w, " %s=\"%s\"", attrs[i], escapeXML(attrs[i+1]))
	}
	r.writeString(">\n")
}

func (r *renderer) selfClose(tag string, depth int, attrs ...string) {
	r.writeString(strings.Repeat(" ", depth))
	r.writeString("<" + tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		fmt.Fprintf(r.w, " %s=\"%s\"", attrs[i], escapeXML(attrs[i+1]))
	}
	r.writeString(" />\n")
}

func (r *renderer) close(tag string, depth int) {
	r.writeString(strings.Repeat(" ", depth))
	r.writeString("</" + tag + ">\n")
}

func (r *renderer) leaf(tag string, depth int, text string, attrs ...string) {
	r.writeString(strings.Repeat(" ", depth))
	r.writeString("<" + tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		fmt.Fprintf(r.w, " %s=\"%s\"", attrs[i], escapeXML(attrs[i+1]))
	}
	if text == "" {
		r.writeString(" />\n")
		return
	}
	r.writeString(">")
	r.writeString(escapeXML(text))
	r.writeString("</" + tag + ">\n")
}

func (r *renderer) children(n *cm.Node, depth int) {
	for _, c := range n.Children() {
		r.node(c, depth)
	}
}

func (r *renderer) node(n *cm.Node, depth int) {
	switch v := n.Value().(type) {
	case *cm.BlockQuoteValue:
		r.open("block_quote", depth)
		r.children(n, depth+1)
		r.close("block_quote", depth)
	case *cm.MultilineBlockQuoteValue:
		r.open("block_quote", depth)
		r.children(n, depth+1)
		r.close("block_quote", depth)
	case *cm.AlertValue:
		r.open("alert", depth, "type", v.AlertType, "title", v.Title)
		r.children(n, depth+1)
		r.close("alert", depth)
	case *cm.ListValue:
		kind := "bullet"
		attrs := []string{"type", kind, "tight", strconv.FormatBool(v.Tight)}
		if v.Type == cm.OrderedList {
			attrs = []string{"type", "ordered", "tight", strconv.FormatBool(v.Tight),
				"start", strconv.Itoa(v.Start), "delim", string(v.Delimiter)}
		}
		r.open("list", depth, attrs...)
		r.children(n, depth+1)
		r.close("list", depth)
	case *cm.ItemValue:
		r.open("item", depth)
		r.children(n, depth+1)
		r.close("item", depth)
	case *cm.TaskItemValue:
		r.open("item", depth, "checked", strconv.FormatBool(v.Checked))
		r.children(n, depth+1)
		r.close("item", depth)
	case *cm.DescriptionListValue:
		r.open("description_list", depth)
		r.children(n, depth+1)
		r.close("description_list", depth)
	case *cm.DescriptionItemValue:
		r.open("description_item", depth, "tight", strconv.FormatBool(v.Tight))
		r.children(n, depth+1)
		r.close("description_item", depth)
	case *cm.DescriptionTermValue:
		r.open("description_term", depth)
		r.children(n, depth+1)
		r.close("description_term", depth)
	case *cm.DescriptionDetailsValue:
		r.open("description_details", depth)
		r.children(n, depth+1)
		r.close("description_details", depth)
	case *cm.CodeBlockValue:
		r.leaf("code_block", depth, v.Literal, "info", v.Info)
	case *cm.HTMLBlockValue:
		r.leaf("html_block", depth, v.Literal)
	case *cm.ParagraphValue:
		r.open("paragraph", depth, greentextAttr(v)...)
		r.children(n, depth+1)
		r.close("paragraph", depth)
	case *cm.HeadingValue:
		r.open("heading", depth, "level", strconv.Itoa(v.Level))
		r.children(n, depth+1)
		r.close("heading", depth)
	case *cm.ThematicBreakValue:
		r.selfClose("thematic_break", depth)
	case *cm.TableValue:
		r.renderTable(n, v, depth)
	case *cm.FootnoteDefinitionValue:
		r.open("footnote_definition", depth, "label", v.Name, "index", strconv.Itoa(v.Index))
		r.children(n, depth+1)
		r.close("footnote_definition", depth)
	case *cm.FrontMatterValue:
		r.leaf("front_matter", depth, v.Raw, "delimiter", v.Delimiter)

	case *cm.TextValue:
		r.leaf("text", depth, v.Literal)
	case *cm.SoftBreakValue:
		r.selfClose("softbreak", depth)
	case *cm.LineBreakValue:
		r.selfClose("linebreak", depth)
	case *cm.CodeValue:
		r.leaf("code", depth, v.Literal)
	case *cm.HTMLInlineValue:
		r.leaf("html_inline", depth, v.Literal)
	case *cm.EmphValue:
		r.open("emph", depth)
		r.children(n, depth+1)
		r.close("emph", depth)
	case *cm.StrongValue:
		r.open("strong", depth)
		r.children(n, depth+1)
		r.close("strong", depth)
	case *cm.StrikethroughValue:
		r.open("strikethrough", depth)
		r.children(n, depth+1)
		r.close("strikethrough", depth)
	case *cm.SuperscriptValue:
		r.open("superscript", depth)
		r.children(n, depth+1)
		r.close("superscript", depth)
	case *cm.SubscriptValue:
		r.open("subscript", depth)
		r.children(n, depth+1)
		r.close("subscript", depth)
	case *cm.UnderlineValue:
		r.open("underline", depth)
		r.children(n, depth+1)
		r.close("underline", depth)
	case *cm.SpoileredTextValue:
		r.open("spoiler", depth)
		r.children(n, depth+1)
		r.close("spoiler", depth)
	case *cm.LinkValue:
		r.open("link", depth, "destination", v.URL, "title", v.Title)
		r.children(n, depth+1)
		r.close("link", depth)
	case *cm.ImageValue:
		r.open("image", depth, "destination", v.URL, "title", v.Title)
		r.children(n, depth+1)
		r.close("image", depth)
	case *cm.WikiLinkValue:
		r.open("wikilink", depth, "destination", v.URL)
		r.children(n, depth+1)
		r.close("wikilink", depth)
	case *cm.FootnoteReferenceValue:
		r.selfClose("footnote_reference", depth, "label", v.Name, "index", strconv.Itoa(v.Index))
	case *cm.MathValue:
		attrs := []string{"display", strconv.FormatBool(v.DisplayMath)}
		r.leaf("math", depth, v.Literal, attrs...)
	case *cm.EscapedValue:
		r.leaf("text", depth, v.Literal)
	case *cm.EscapedTagValue:
		r.leaf("text", depth, v.Literal)
	case *cm.ShortCodeValue:
		r.leaf("emoji", depth, v.Emoji, "code", v.Code)
	default:
		log.Panicf("render/xml: no converter registered for %T", n.Value())
	}
}

func greentextAttr(v *cm.ParagraphValue) []string {
	if v.Greentext {
		return []string{"greentext", "true"}
	}
	if v.Subtext {
		return []string{"subtext", "true"}
	}
	return nil
}

func (r *renderer) renderTable(n *cm.Node, v *cm.TableValue, depth int) {
	r.open("table", depth, "columns", strconv.Itoa(v.NumColumns))
	for _, row := range n.Children() {
		rv := row.Value().(*cm.TableRowValue)
		r.open("table_row", depth+1, "header", strconv.FormatBool(rv.IsHeader))
		for i, cell := range row.Children() {
			align := cm.AlignNone
			if i < len(v.Alignments) {
				align = v.Alignments[i]
			}
			r.open("table_cell", depth+2, "align", alignName(align))
			r.children(cell, depth+3)
			r.close("table_cell", depth+2)
		}
		r.close("table_row", depth+1)
	}
	r.close("table", depth)
}

func alignName(a cm.TableAlignment) string {
	switch a {
	case cm.AlignLeft:
		return "left"
	case cm.AlignCenter:
		return "center"
	case cm.AlignRight:
		return "right"
	}
	return "none"
}

var xmlEscapes = map[byte]string{
	'&':  "&amp;",
	'<':  "&lt;",
	'>':  "&gt;",
	'"':  "&quot;",
	'\'': "&apos;",
}

func escapeXML(s string) string {
	var sb strings.Builder
	start := 0
	for i := 0; i < len(s); i++ {
		if esc, ok := xmlEscapes[s[i]]; ok {
			sb.WriteString(s[start:i])
			sb.WriteString(esc)
			start = i + 1
		}
	}
	sb.WriteString(s[start:])
	return sb.String()
}
