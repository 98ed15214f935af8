package commonmark

import "strings"

// postprocess runs every whole-document pass that has to see the fully
// built, fully inline-parsed tree rather than a single node in isolation
// (§4.4.6): text consolidation, the bare-URL/www/email autolink sweep,
// table-cell checkbox rewriting, and footnote reordering/renumbering.
// List-item checkbox recognition is handled eagerly in list.go rather
// than here; see DESIGN.md.
func postprocess(p *Parser, root *Node) {
	consolidateText(root)
	sweepAutolinks(p, root)
	rewriteTableCellCheckboxes(p, root)
	reorderFootnotes(p)
	fillInlineContainerSpans(root)
}

// fillInlineContainerSpans gives inline containers assembled during
// emphasis/bracket resolution (which had no single consumption step to
// inherit a span from) the union of their children's spans.
func fillInlineContainerSpans(root *Node) {
	var fill func(n *Node)
	fill = func(n *Node) {
		for c := n.firstChild; c != nil; c = c.next {
			fill(c)
		}
		if !n.sourcepos.IsZero() || !isInlineContainerKind(n.kind) {
			return
		}
		if n.firstChild == nil {
			return
		}
		n.sourcepos = Span{Start: n.firstChild.sourcepos.Start, End: n.lastChild.sourcepos.End}
	}
	fill(root)
}

// consolidateText merges runs of adjacent Text siblings produced by
// wrapping operations (emphasis, paired markers, bracket resolution)
// that leave the text either side of a removed marker as separate
// nodes.
func consolidateText(root *Node) {
	for _, n := range root.Descendants() {
		child := n.firstChild
		for child != nil {
			next := child.next
			tv, ok := child.value.(*TextValue)
			if ok && next != nil {
				if ntv, ok := next.value.(*TextValue); ok {
					tv.Literal += ntv.Literal
					next.Detach()
					continue
				}
			}
			child = next
		}
	}
}

// sweepAutolinks applies applyAutolinksToText to every Text node in the
// tree that isn't already inside a Link, so the extension never nests a
// link inside another link's (or an image's alt text's) contents
// (§4.5.6).
func sweepAutolinks(p *Parser, root *Node) {
	if !p.options.Extension.Autolink {
		return
	}
	for _, n := range root.Descendants() {
		if n.kind != Text || insideLink(n) {
			continue
		}
		applyAutolinksToText(n, p.options)
	}
}

func insideLink(n *Node) bool {
	for a := n.parent; a != nil; a = a.parent {
		if a.kind == Link || a.kind == Image {
			return true
		}
	}
	return false
}

// rewriteTableCellCheckboxes applies tasklist checkbox recognition
// inside table cells when both the tasklist and tasklist_in_table
// options are on: a cell whose text starts with the checkbox pattern
// gets the marker replaced by a childless TaskItem node, which renderers
// draw as a checkbox control.
func rewriteTableCellCheckboxes(p *Parser, root *Node) {
	if !p.options.Extension.Tasklist || !p.options.Parse.TasklistInTable {
		return
	}
	for _, cell := range root.Descendants() {
		if cell.kind != TableCell || cell.firstChild == nil {
			continue
		}
		tv, ok := cell.firstChild.value.(*TextValue)
		if !ok {
			continue
		}
		isTask, symbol, checked, width := scanTaskCheckbox(p.options, []byte(tv.Literal))
		if !isTask {
			continue
		}
		box := NewNode(TaskItem, &TaskItemValue{Symbol: symbol, Checked: checked})
		box.open = false
		box.sourcepos = cell.firstChild.sourcepos
		cell.firstChild.InsertBefore(box)
		rest := strings.TrimLeft(tv.Literal[width:], " \t")
		if rest == "" {
			box.next.Detach()
		} else {
			tv.Literal = rest
		}
	}
}
