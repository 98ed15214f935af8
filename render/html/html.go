// Package html renders a commonmark-gfm AST to HTML, the way the
// teacher's html.go renders its own Block/Inline trees: a type switch
// over the node's kind, writing directly to an io.Writer, panicking on
// a kind the switch doesn't know about rather than silently dropping it.
package html

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	commonmark "github.com/ttencate/commonmark-gfm"
)

// Render writes root's HTML rendering to w under opts.
func Render(w io.Writer, root *commonmark.Node, opts commonmark.Options) error {
	r := &renderer{w: w, opts: opts, headingIDs: map[string]int{}}
	r.block(root)
	return r.err
}

// RenderString is a convenience wrapper around Render for callers that
// don't already have an io.Writer (the CLI's non-streaming paths, tests).
func RenderString(root *commonmark.Node, opts commonmark.Options) (string, error) {
	var buf strings.Builder
	err := Render(&buf, root, opts)
	return buf.String(), err
}

type renderer struct {
	w          io.Writer
	opts       commonmark.Options
	headingIDs map[string]int
	err        error
}

func (r *renderer) writeString(s string) {
	if r.err != nil {
		return
	}
	if _, err := io.WriteString(r.w, s); err != nil {
		r.err = err
	}
}

func (r *renderer) block(n *commonmark.Node) {
	switch v := n.Value().(type) {
	case *commonmark.DocumentValue:
		r.renderDocumentBody(n)
	case *commonmark.BlockQuoteValue:
		r.writeString("<blockquote>\n")
		for _, c := range n.Children() {
			r.block(c)
		}
		r.writeString("</blockquote>\n")
	case *commonmark.MultilineBlockQuoteValue:
		r.writeString("<blockquote>\n")
		for _, c := range n.Children() {
			r.block(c)
		}
		r.writeString("</blockquote>\n")
	case *commonmark.AlertValue:
		r.renderAlert(n, v)
	case *commonmark.ListValue:
		r.renderList(n, v)
	case *commonmark.ItemValue:
		r.renderItem(n, false, false)
	case *commonmark.TaskItemValue:
		r.renderTaskItem(n, v)
	case *commonmark.DescriptionListValue:
		r.writeString("<dl>\n")
		for _, c := range n.Children() {
			r.block(c)
		}
		r.writeString("</dl>\n")
	case *commonmark.DescriptionItemValue:
		for _, c := range n.Children() {
			r.block(c)
		}
	case *commonmark.DescriptionTermValue:
		r.writeString("<dt>")
		for _, c := range n.Children() {
			r.inline(c)
		}
		r.writeString("</dt>\n")
	case *commonmark.DescriptionDetailsValue:
		r.writeString("<dd>")
		for _, c := range n.Children() {
			r.block(c)
		}
		r.writeString("</dd>\n")
	case *commonmark.CodeBlockValue:
		r.renderCodeBlock(v)
	case *commonmark.HTMLBlockValue:
		r.renderRawHTML(v.Literal, true)
	case *commonmark.ParagraphValue:
		r.renderParagraph(n, v)
	case *commonmark.HeadingValue:
		r.renderHeading(n, v)
	case *commonmark.ThematicBreakValue:
		r.writeString("<hr />\n")
	case *commonmark.TableValue:
		r.renderTable(n, v)
	case *commonmark.FootnoteDefinitionValue:
		// Only reached via renderDocumentBody (the Document case above),
		// which peels footnote definitions off before the generic block
		// loop.
		r.renderFootnoteDefinition(n, v)
	case *commonmark.FrontMatterValue:
		// Front matter carries document metadata, not rendered content.
	default:
		log.Panicf("render/html: no block converter registered for %T", n.Value())
	}
}

// renderDocumentBody walks root's children, rendering ordinary blocks
// in place and collecting any trailing FootnoteDefinition children
// (reorderFootnotes moves every referenced one to the end of the
// Document, in index order) into a single trailing footnotes section.
func (r *renderer) renderDocumentBody(root *commonmark.Node) {
	children := root.Children()
	var footnotes []*commonmark.Node
	for _, c := range children {
		if _, ok := c.Value().(*commonmark.FootnoteDefinitionValue); ok {
			footnotes = append(footnotes, c)
			continue
		}
		r.block(c)
	}
	if len(footnotes) == 0 {
		return
	}
	r.writeString("<section class=\"footnotes\">\n<ol>\n")
	for _, fn := range footnotes {
		r.block(fn)
	}
	r.writeString("</ol>\n</section>\n")
}

func (r *renderer) renderFootnoteDefinition(n *commonmark.Node, v *commonmark.FootnoteDefinitionValue) {
	fmt.Fprintf(r.w, "<li id=\"fn-%d\">\n", v.Index)
	for _, c := range n.Children() {
		r.block(c)
	}
	r.writeString("</li>\n")
}

func (r *renderer) renderAlert(n *commonmark.Node, v *commonmark.AlertValue) {
	class := "markdown-alert-" + v.AlertType
	fmt.Fprintf(r.w, "<div class=\"markdown-alert %s\">\n<p class=\"markdown-alert-title\">%s</p>\n", class, escapeHTML(v.Title))
	for _, c := range n.Children() {
		r.block(c)
	}
	r.writeString("</div>\n")
}

func (r *renderer) renderList(n *commonmark.Node, v *commonmark.ListValue) {
	tag := "ul"
	var attrs string
	if v.Type == commonmark.OrderedList {
		tag = "ol"
		if v.Start != 1 {
			attrs = fmt.Sprintf(" start=\"%d\"", v.Start)
		}
	}
	fmt.Fprintf(r.w, "<%s%s>\n", tag, attrs)
	for _, c := range n.Children() {
		if tv, ok := c.Value().(*commonmark.TaskItemValue); ok {
			r.renderTaskItem(c, tv)
			continue
		}
		r.renderItem(c, !v.Tight, v.Type == commonmark.OrderedList)
	}
	fmt.Fprintf(r.w, "</%s>\n", tag)
}

func (r *renderer) renderItem(n *commonmark.Node, loose, ordered bool) {
	_ = ordered
	r.writeString("<li>")
	children := n.Children()
	for i, c := range children {
		if _, ok := c.Value().(*commonmark.ParagraphValue); ok && !loose {
			for _, ic := range c.Children() {
				r.inline(ic)
			}
			continue
		}
		if i == 0 && !loose {
			r.writeString("\n")
		}
		r.block(c)
	}
	r.writeString("</li>\n")
}

func (r *renderer) renderTaskItem(n *commonmark.Node, v *commonmark.TaskItemValue) {
	r.writeString("<li>")
	checked := ""
	if v.Checked {
		checked = " checked=\"\""
	}
	fmt.Fprintf(r.w, "<input type=\"checkbox\" disabled=\"\"%s /> ", checked)
	for i, c := range n.Children() {
		if p, ok := c.Value().(*commonmark.ParagraphValue); ok {
			_ = p
			for _, ic := range c.Children() {
				r.inline(ic)
			}
			continue
		}
		if i == 0 {
			r.writeString("\n")
		}
		r.block(c)
	}
	r.writeString("</li>\n")
}

func (r *renderer) renderCodeBlock(v *commonmark.CodeBlockValue) {
	info := v.Info
	lang := info
	if i := strings.IndexAny(info, " \t"); i >= 0 {
		lang = info[:i]
	}
	if lang == "" {
		r.writeString("<pre><code>")
	} else if r.opts.Render.GithubPreLang {
		fmt.Fprintf(r.w, "<pre lang=\"%s\"><code>", escapeHTML(lang))
	} else {
		fmt.Fprintf(r.w, "<pre><code class=\"language-%s\">", escapeHTML(lang))
	}
	r.writeString(escapeHTML(v.Literal))
	r.writeString("</code></pre>\n")
}

func (r *renderer) renderParagraph(n *commonmark.Node, v *commonmark.ParagraphValue) {
	class := ""
	if v.Greentext {
		class = " class=\"greentext\""
	} else if v.Subtext {
		class = " class=\"subtext\""
	}
	fmt.Fprintf(r.w, "<p%s>", class)
	for _, c := range n.Children() {
		r.inline(c)
	}
	r.writeString("</p>\n")
}

func (r *renderer) renderHeading(n *commonmark.Node, v *commonmark.HeadingValue) {
	id := ""
	if r.opts.Extension.HeaderIDs != nil {
		id = fmt.Sprintf(" id=\"%s\"", r.headingID(n))
	}
	fmt.Fprintf(r.w, "<h%d%s>", v.Level, id)
	for _, c := range n.Children() {
		r.inline(c)
	}
	fmt.Fprintf(r.w, "</h%d>\n", v.Level)
}

func (r *renderer) headingID(n *commonmark.Node) string {
	prefix := *r.opts.Extension.HeaderIDs
	slug := slugify(headingText(n))
	id := prefix + slug
	count := r.headingIDs[id]
	r.headingIDs[id] = count + 1
	if count > 0 {
		id = fmt.Sprintf("%s-%d", id, count)
	}
	return id
}

func headingText(n *commonmark.Node) string {
	var sb strings.Builder
	for _, c := range n.Descendants() {
		sb.WriteString(c.Literal())
	}
	return sb.String()
}

func slugify(s string) string {
	var sb strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-' || r == '_':
			if !lastDash && sb.Len() > 0 {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

func (r *renderer) renderTable(n *commonmark.Node, v *commonmark.TableValue) {
	r.writeString("<table>\n")
	rows := n.Children()
	var bodyRows []*commonmark.Node
	for i, row := range rows {
		rv := row.Value().(*commonmark.TableRowValue)
		if rv.IsHeader {
			r.writeString("<thead>\n")
			r.renderTableRow(row, rv, v.Alignments)
			r.writeString("</thead>\n")
			continue
		}
		bodyRows = append(bodyRows, rows[i])
	}
	if len(bodyRows) > 0 {
		r.writeString("<tbody>\n")
		for _, row := range bodyRows {
			r.renderTableRow(row, row.Value().(*commonmark.TableRowValue), v.Alignments)
		}
		r.writeString("</tbody>\n")
	}
	r.writeString("</table>\n")
}

func (r *renderer) renderTableRow(row *commonmark.Node, rv *commonmark.TableRowValue, aligns []commonmark.TableAlignment) {
	r.writeString("<tr>\n")
	cellTag := "td"
	if rv.IsHeader {
		cellTag = "th"
	}
	for i, cell := range row.Children() {
		align := commonmark.AlignNone
		if i < len(aligns) {
			align = aligns[i]
		}
		style := ""
		switch align {
		case commonmark.AlignLeft:
			style = " style=\"text-align: left\""
		case commonmark.AlignCenter:
			style = " style=\"text-align: center\""
		case commonmark.AlignRight:
			style = " style=\"text-align: right\""
		}
		fmt.Fprintf(r.w, "<%s%s>", cellTag, style)
		for _, ic := range cell.Children() {
			r.inline(ic)
		}
		fmt.Fprintf(r.w, "</%s>\n", cellTag)
	}
	r.writeString("</tr>\n")
}

func (r *renderer) inline(n *commonmark.Node) {
	switch v := n.Value().(type) {
	case *commonmark.TextValue:
		r.writeString(escapeHTML(v.Literal))
	case *commonmark.SoftBreakValue:
		if r.opts.Render.HardBreaks {
			r.writeString("<br />\n")
		} else {
			r.writeString("\n")
		}
	case *commonmark.LineBreakValue:
		r.writeString("<br />\n")
	case *commonmark.CodeValue:
		r.writeString("<code>")
		r.writeString(escapeHTML(v.Literal))
		r.writeString("</code>")
	case *commonmark.HTMLInlineValue:
		r.renderRawHTML(v.Literal, false)
	case *commonmark.TaskItemValue:
		// A childless TaskItem inside a table cell is the
		// tasklist-in-table checkbox marker.
		checked := ""
		if v.Checked {
			checked = " checked=\"\""
		}
		fmt.Fprintf(r.w, "<input type=\"checkbox\" disabled=\"\"%s /> ", checked)
	case *commonmark.EmphValue:
		r.wrapInline(n, "em")
	case *commonmark.StrongValue:
		r.wrapInline(n, "strong")
	case *commonmark.StrikethroughValue:
		r.wrapInline(n, "del")
	case *commonmark.SuperscriptValue:
		r.wrapInline(n, "sup")
	case *commonmark.SubscriptValue:
		r.wrapInline(n, "sub")
	case *commonmark.UnderlineValue:
		r.wrapInline(n, "u")
	case *commonmark.SpoileredTextValue:
		r.writeString("<span class=\"spoiler\">")
		for _, c := range n.Children() {
			r.inline(c)
		}
		r.writeString("</span>")
	case *commonmark.LinkValue:
		r.renderLink(n, v.URL, v.Title)
	case *commonmark.ImageValue:
		r.renderImage(n, v.URL, v.Title)
	case *commonmark.WikiLinkValue:
		url := v.URL
		if r.opts.Extension.LinkURLRewriter != nil {
			url = r.opts.Extension.LinkURLRewriter(url)
		}
		fmt.Fprintf(r.w, "<a href=\"%s\" class=\"wikilink\">", escapeHTMLAttr(url))
		for _, c := range n.Children() {
			r.inline(c)
		}
		r.writeString("</a>")
	case *commonmark.FootnoteReferenceValue:
		r.renderFootnoteReference(v)
	case *commonmark.MathValue:
		r.renderMath(v)
	case *commonmark.EscapedValue:
		r.writeString(escapeHTML(v.Literal))
	case *commonmark.EscapedTagValue:
		r.writeString(escapeHTML(v.Literal))
	case *commonmark.ShortCodeValue:
		if v.Emoji != "" {
			r.writeString(v.Emoji)
		} else {
			fmt.Fprintf(r.w, ":%s:", escapeHTML(v.Code))
		}
	default:
		log.Panicf("render/html: no inline converter registered for %T", n.Value())
	}
}

func (r *renderer) wrapInline(n *commonmark.Node, tag string) {
	fmt.Fprintf(r.w, "<%s>", tag)
	for _, c := range n.Children() {
		r.inline(c)
	}
	fmt.Fprintf(r.w, "</%s>", tag)
}

func (r *renderer) renderLink(n *commonmark.Node, url, title string) {
	if r.opts.Extension.LinkURLRewriter != nil {
		url = r.opts.Extension.LinkURLRewriter(url)
	}
	titleAttr := ""
	if title != "" {
		titleAttr = fmt.Sprintf(" title=\"%s\"", escapeHTMLAttr(title))
	}
	fmt.Fprintf(r.w, "<a href=\"%s\"%s>", escapeHTMLAttr(url), titleAttr)
	for _, c := range n.Children() {
		r.inline(c)
	}
	r.writeString("</a>")
}

func (r *renderer) renderImage(n *commonmark.Node, url, title string) {
	if r.opts.Extension.ImageURLRewriter != nil {
		url = r.opts.Extension.ImageURLRewriter(url)
	}
	titleAttr := ""
	if title != "" {
		titleAttr = fmt.Sprintf(" title=\"%s\"", escapeHTMLAttr(title))
	}
	fmt.Fprintf(r.w, "<img src=\"%s\" alt=\"%s\"%s />", escapeHTMLAttr(url), escapeHTMLAttr(plainText(n)), titleAttr)
}

func plainText(n *commonmark.Node) string {
	var sb strings.Builder
	for _, c := range n.Descendants() {
		sb.WriteString(c.Literal())
	}
	return sb.String()
}

func (r *renderer) renderFootnoteReference(v *commonmark.FootnoteReferenceValue) {
	id := strconv.Itoa(v.Index)
	fmt.Fprintf(r.w, "<sup class=\"footnote-ref\"><a href=\"#fn-%s\" id=\"fnref-%s-%d\">%s</a></sup>",
		id, id, v.RefCount, id)
}

func (r *renderer) renderMath(v *commonmark.MathValue) {
	class := "math-inline"
	if v.DisplayMath {
		class = "math-display"
	}
	fmt.Fprintf(r.w, "<span class=\"%s\">", class)
	r.writeString(escapeHTML(v.Literal))
	r.writeString("</span>")
}

// renderRawHTML passes raw HTML through verbatim unless UnsafeHTML is
// unset, in which case it is escaped, and (independently) runs it
// through the tagfilter extension's neutralization when enabled (§4.5.8,
// GFM tagfilter).
func (r *renderer) renderRawHTML(s string, block bool) {
	if r.opts.Extension.Tagfilter {
		s = commonmark.FilterTags(s)
	}
	if !r.opts.Render.UnsafeHTML {
		r.writeString(escapeHTML(s))
		if block {
			r.writeString("\n")
		}
		return
	}
	r.writeString(s)
}

var htmlEscapes = map[byte]string{
	'&': "&amp;",
	'<': "&lt;",
	'>': "&gt;",
	'"': "&quot;",
}

// escapeHTML mirrors the teacher's writeEscaped: only the four bytes
// CommonMark requires escaping for HTML output, nothing else.
func escapeHTML(s string) string {
	var sb strings.Builder
	start := 0
	for i := 0; i < len(s); i++ {
		if esc, ok := htmlEscapes[s[i]]; ok {
			sb.WriteString(s[start:i])
			sb.WriteString(esc)
			start = i + 1
		}
	}
	sb.WriteString(s[start:])
	return sb.String()
}

func escapeHTMLAttr(s string) string {
	return escapeHTML(s)
}
