// Package commonmark re-serializes a commonmark-gfm AST back into
// CommonMark source text (§8.1's round-trip property), following the
// same type-switch-over-the-node-kind shape as render/html.
package commonmark

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	cm "github.com/ttencate/commonmark-gfm"
)

// Render writes root's CommonMark rendering to w under opts.
func Render(w io.Writer, root *cm.Node, opts cm.Options) error {
	r := &renderer{w: w, opts: opts}
	r.block(root, 0)
	return r.err
}

// RenderString is the buffer-backed convenience wrapper Render lacks.
func RenderString(root *cm.Node, opts cm.Options) (string, error) {
	var buf strings.Builder
	err := Render(&buf, root, opts)
	return buf.String(), err
}

type renderer struct {
	w   io.Writer
	opts cm.Options
	err error
}

func (r *renderer) writeString(s string) {
	if r.err != nil {
		return
	}
	if _, err := io.WriteString(r.w, s); err != nil {
		r.err = err
	}
}

// block renders n, ending with a newline (the Document case puts a blank
// line between consecutive blocks), at the given list-item indent depth (in spaces, already including any ancestor quote/list
// markers the caller has accounted for).
func (r *renderer) block(n *cm.Node, depth int) {
	switch v := n.Value().(type) {
	case *cm.DocumentValue:
		children := n.Children()
		for i, c := range children {
			r.block(c, depth)
			if i < len(children)-1 {
				r.writeString("\n")
			}
		}
	case *cm.BlockQuoteValue, *cm.MultilineBlockQuoteValue:
		r.renderQuoteLike(n, "> ", depth)
	case *cm.AlertValue:
		marker := fmt.Sprintf("> [!%s]\n", strings.ToUpper(v.AlertType))
		r.writeString(indent(depth))
		r.writeString(marker)
		r.renderQuoteLikeBody(n, "> ", depth)
	case *cm.ListValue:
		r.renderList(n, v, depth)
	case *cm.CodeBlockValue:
		r.renderCodeBlock(v, depth)
	case *cm.HTMLBlockValue:
		r.writeString(v.Literal)
	case *cm.ParagraphValue:
		r.writeString(indent(depth))
		if v.Subtext {
			r.writeString("-# ")
		}
		for _, c := range n.Children() {
			r.inline(c)
		}
		r.writeString("\n")
	case *cm.HeadingValue:
		r.renderHeading(n, v, depth)
	case *cm.ThematicBreakValue:
		r.writeString(indent(depth))
		r.writeString("---\n")
	case *cm.TableValue:
		r.renderTable(n, v, depth)
	case *cm.FootnoteDefinitionValue:
		fmt.Fprintf(r.w, "[^%s]: ", v.Name)
		children := n.Children()
		for i, c := range children {
			if i > 0 {
				r.writeString(indent(depth + 4))
			}
			r.block(c, 0)
		}
	case *cm.DescriptionListValue, *cm.DescriptionItemValue:
		for _, c := range n.Children() {
			r.block(c, depth)
		}
	case *cm.DescriptionTermValue:
		r.writeString(indent(depth))
		for _, c := range n.Children() {
			r.inline(c)
		}
		r.writeString("\n")
	case *cm.DescriptionDetailsValue:
		r.writeString(indent(depth))
		r.writeString(": ")
		children := n.Children()
		for _, c := range children {
			r.block(c, 0)
		}
		if len(children) == 0 {
			r.writeString("\n")
		}
	case *cm.FrontMatterValue:
		fmt.Fprintf(r.w, "%s\n%s\n%s\n", v.Delimiter, v.Raw, v.Delimiter)
	default:
		log.Panicf("render/commonmark: no block converter registered for %T", n.Value())
	}
}

func indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(" ", depth)
}

func (r *renderer) renderQuoteLike(n *cm.Node, prefix string, depth int) {
	r.renderQuoteLikeBody(n, prefix, depth)
}

func (r *renderer) renderQuoteLikeBody(n *cm.Node, prefix string, depth int) {
	var sb strings.Builder
	sub := &renderer{w: &sb, opts: r.opts}
	children := n.Children()
	for i, c := range children {
		sub.block(c, 0)
		if i < len(children)-1 {
			sub.writeString("\n")
		}
	}
	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		r.writeString(indent(depth))
		r.writeString(prefix)
		r.writeString(line)
		r.writeString("\n")
	}
}

func (r *renderer) renderList(n *cm.Node, v *cm.ListValue, depth int) {
	num := v.Start
	for _, item := range n.Children() {
		marker := string(v.BulletChar) + " "
		if v.Type == cm.OrderedList {
			marker = strconv.Itoa(num) + string(v.Delimiter) + " "
			num++
		}
		r.renderItem(item, marker, depth)
	}
}

func (r *renderer) renderItem(n *cm.Node, marker string, depth int) {
	var sb strings.Builder
	sub := &renderer{w: &sb, opts: r.opts}
	children := n.Children()
	taskPrefix := ""
	if tv, ok := n.Value().(*cm.TaskItemValue); ok {
		sym := " "
		if tv.Checked {
			sym = "x"
		}
		taskPrefix = fmt.Sprintf("[%s] ", sym)
	}
	for i, c := range children {
		sub.block(c, 0)
		if i < len(children)-1 {
			sub.writeString("\n")
		}
	}
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	pad := strings.Repeat(" ", len(marker))
	for i, line := range lines {
		r.writeString(indent(depth))
		if i == 0 {
			r.writeString(marker)
			r.writeString(taskPrefix)
		} else if line != "" {
			r.writeString(pad)
		}
		r.writeString(line)
		r.writeString("\n")
	}
}

func (r *renderer) renderCodeBlock(v *cm.CodeBlockValue, depth int) {
	if !v.Fenced {
		for _, line := range strings.Split(strings.TrimRight(v.Literal, "\n"), "\n") {
			r.writeString(indent(depth + 4))
			r.writeString(line)
			r.writeString("\n")
		}
		return
	}
	fence := strings.Repeat(string(v.FenceChar), max(v.FenceLength, 3))
	r.writeString(indent(depth))
	r.writeString(fence)
	r.writeString(v.Info)
	r.writeString("\n")
	r.writeString(v.Literal)
	if !strings.HasSuffix(v.Literal, "\n") {
		r.writeString("\n")
	}
	r.writeString(indent(depth))
	r.writeString(fence)
	r.writeString("\n")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (r *renderer) renderHeading(n *cm.Node, v *cm.HeadingValue, depth int) {
	if v.Setext {
		var sb strings.Builder
		sub := &renderer{w: &sb, opts: r.opts}
		for _, c := range n.Children() {
			sub.inline(c)
		}
		r.writeString(indent(depth))
		r.writeString(sb.String())
		r.writeString("\n")
		underline := "="
		if v.Level == 2 {
			underline = "-"
		}
		r.writeString(indent(depth))
		r.writeString(strings.Repeat(underline, max(len(sb.String()), 1)))
		r.writeString("\n")
		return
	}
	r.writeString(indent(depth))
	r.writeString(strings.Repeat("#", v.Level))
	r.writeString(" ")
	for _, c := range n.Children() {
		r.inline(c)
	}
	r.writeString("\n")
}

func (r *renderer) renderTable(n *cm.Node, v *cm.TableValue, depth int) {
	rows := n.Children()
	widths := make([]int, v.NumColumns)
	cellText := func(cell *cm.Node) string {
		var sb strings.Builder
		sub := &renderer{w: &sb, opts: r.opts}
		for _, c := range cell.Children() {
			sub.inline(c)
		}
		return sb.String()
	}
	rendered := make([][]string, len(rows))
	for ri, row := range rows {
		cells := row.Children()
		rendered[ri] = make([]string, v.NumColumns)
		for ci := 0; ci < v.NumColumns; ci++ {
			if ci < len(cells) {
				rendered[ri][ci] = cellText(cells[ci])
			}
			if len(rendered[ri][ci]) > widths[ci] {
				widths[ci] = len(rendered[ri][ci])
			}
		}
	}
	for ri, row := range rows {
		writeRow(r, rendered[ri], widths, depth)
		if row.Value().(*cm.TableRowValue).IsHeader {
			writeDelimiterRow(r, v.Alignments, widths, depth)
		}
	}
}

func writeRow(r *renderer, cells []string, widths []int, depth int) {
	r.writeString(indent(depth))
	r.writeString("|")
	for i, c := range cells {
		fmt.Fprintf(r.w, " %-*s |", widths[i], c)
	}
	r.writeString("\n")
}

func writeDelimiterRow(r *renderer, aligns []cm.TableAlignment, widths []int, depth int) {
	r.writeString(indent(depth))
	r.writeString("|")
	for i, w := range widths {
		align := cm.AlignNone
		if i < len(aligns) {
			align = aligns[i]
		}
		cell := strings.Repeat("-", max(w, 3))
		switch align {
		case cm.AlignLeft:
			cell = ":" + strings.Repeat("-", max(w-1, 2))
		case cm.AlignRight:
			cell = strings.Repeat("-", max(w-1, 2)) + ":"
		case cm.AlignCenter:
			cell = ":" + strings.Repeat("-", max(w-2, 1)) + ":"
		}
		fmt.Fprintf(r.w, " %s |", cell)
	}
	r.writeString("\n")
}

func (r *renderer) inline(n *cm.Node) {
	switch v := n.Value().(type) {
	case *cm.TextValue:
		r.writeString(escapeMarkdown(v.Literal))
	case *cm.SoftBreakValue:
		r.writeString("\n")
	case *cm.LineBreakValue:
		r.writeString("  \n")
	case *cm.CodeValue:
		r.writeString(wrapCodeSpan(v.Literal))
	case *cm.HTMLInlineValue:
		r.writeString(v.Literal)
	case *cm.TaskItemValue:
		sym := " "
		if v.Checked {
			sym = "x"
		}
		fmt.Fprintf(r.w, "[%s] ", sym)
	case *cm.EmphValue:
		r.wrapInline(n, "*")
	case *cm.StrongValue:
		r.wrapInline(n, "**")
	case *cm.StrikethroughValue:
		r.wrapInline(n, "~~")
	case *cm.SuperscriptValue:
		r.wrapInline(n, "^")
	case *cm.SubscriptValue:
		r.wrapInline(n, "~")
	case *cm.UnderlineValue:
		r.wrapInline(n, "__")
	case *cm.SpoileredTextValue:
		r.wrapInline(n, "||")
	case *cm.LinkValue:
		r.writeString("[")
		for _, c := range n.Children() {
			r.inline(c)
		}
		r.writeString("]")
		r.writeString(renderDestTitle(v.URL, v.Title))
	case *cm.ImageValue:
		r.writeString("![")
		for _, c := range n.Children() {
			r.inline(c)
		}
		r.writeString("]")
		r.writeString(renderDestTitle(v.URL, v.Title))
	case *cm.WikiLinkValue:
		fmt.Fprintf(r.w, "[[%s]]", v.URL)
	case *cm.FootnoteReferenceValue:
		fmt.Fprintf(r.w, "[^%s]", v.Name)
	case *cm.MathValue:
		r.renderMath(v)
	case *cm.EscapedValue:
		r.writeString("\\" + v.Literal)
	case *cm.EscapedTagValue:
		r.writeString("\\" + v.Literal)
	case *cm.ShortCodeValue:
		fmt.Fprintf(r.w, ":%s:", v.Code)
	default:
		log.Panicf("render/commonmark: no inline converter registered for %T", n.Value())
	}
}

func (r *renderer) wrapInline(n *cm.Node, marker string) {
	r.writeString(marker)
	for _, c := range n.Children() {
		r.inline(c)
	}
	r.writeString(marker)
}

func renderDestTitle(url, title string) string {
	if title == "" {
		return fmt.Sprintf("(%s)", url)
	}
	return fmt.Sprintf("(%s \"%s\")", url, strings.ReplaceAll(title, "\"", "\\\""))
}

func (r *renderer) renderMath(v *cm.MathValue) {
	delim := "$"
	if v.DisplayMath {
		delim = "$$"
	}
	if v.CodeFence {
		fmt.Fprintf(r.w, "%s`%s`%s", delim, v.Literal, delim)
		return
	}
	fmt.Fprintf(r.w, "%s%s%s", delim, v.Literal, delim)
}

func wrapCodeSpan(literal string) string {
	n := 1
	for strings.Contains(literal, strings.Repeat("`", n)) {
		n++
	}
	fence := strings.Repeat("`", n)
	pad := ""
	if strings.HasPrefix(literal, "`") || strings.HasSuffix(literal, "`") || literal == "" {
		pad = " "
	}
	return fence + pad + literal + pad + fence
}

func escapeMarkdown(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '`', '*', '_', '[', ']', '<', '>', '#', '|':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
