package commonmark

// isBlockKind reports whether k is one of the block variants (§3.2).
func isBlockKind(k NodeKind) bool {
	switch k {
	case Document, BlockQuote, List, Item, TaskItem, DescriptionList,
		DescriptionItem, DescriptionTerm, DescriptionDetails, CodeBlock,
		HTMLBlock, Paragraph, Heading, ThematicBreak, Table, TableRow,
		TableCell, FootnoteDefinition, MultilineBlockQuote, Alert, FrontMatter:
		return true
	}
	return false
}

// acceptsLines reports whether blocks of kind k accumulate raw content
// lines into Node.content during the continuation/text phases (§4.4.2
// step 3). Container blocks never accept lines directly; their content
// lives entirely in their children.
func acceptsLines(k NodeKind) bool {
	switch k {
	case Paragraph, Heading, CodeBlock:
		return true
	}
	return false
}

// acceptsLiteralLines reports whether k's content is opaque raw text
// that the block parser must not scan for nested block starts (fenced
// and indented code blocks, and HTML blocks). Unlike acceptsLines it
// leaves out Paragraph and Heading and includes HTMLBlock, whose content
// is scanned for an end condition but never for new block starts.
func acceptsLiteralLines(k NodeKind) bool {
	switch k {
	case CodeBlock, HTMLBlock:
		return true
	}
	return false
}

// containsInlines reports whether k's children are produced by the
// inline parser rather than the block parser (§4.3).
func containsInlines(k NodeKind) bool {
	switch k {
	case Paragraph, Heading, TableCell, DescriptionTerm:
		return true
	}
	return false
}

// isInlineContainerKind reports whether k is an inline kind whose
// children are themselves inlines (as opposed to a leaf inline that
// never has children, like Text or Code).
func isInlineContainerKind(k NodeKind) bool {
	switch k {
	case Emph, Strong, Strikethrough, Superscript, Subscript, Underline,
		SpoileredText, Link, Image, WikiLink:
		return true
	}
	return false
}

// tableCellAllowedInline restricts the inline grammar permitted inside a
// TableCell, per §4.3: "TableCell further restricts to a subset (text,
// code, emphasis, link, image, html-inline, strikethrough, math,
// wikilink)". Block-like inline triggers that don't apply inside a
// single table cell (footnote refs, shortcode, sub/sup/underline/spoiler)
// are still parsed for simplicity but this predicate documents the
// restriction for renderers/validators that want to enforce it strictly.
func tableCellAllowedInline(k NodeKind) bool {
	switch k {
	case Text, Code, Emph, Strong, Link, Image, HTMLInline, Strikethrough,
		Math, WikiLink, SoftBreak, LineBreak:
		return true
	}
	return false
}

// CanContain implements the structural schema of §4.3 / §4.4: whether a
// node of kind parent may directly contain a node of kind child.
func CanContain(parent, child NodeKind) bool {
	switch parent {
	case Document, BlockQuote, Item, TaskItem, Alert, MultilineBlockQuote, DescriptionDetails, FootnoteDefinition:
		return isBlockKind(child) && child != Document && child != Item
	case List:
		return child == Item || child == TaskItem
	case DescriptionList:
		return child == DescriptionItem
	case DescriptionItem:
		return child == DescriptionTerm || child == DescriptionDetails
	case Table:
		return child == TableRow
	case TableRow:
		return child == TableCell
	case TableCell:
		// TaskItem appears here only as the childless checkbox marker the
		// tasklist_in_table rewrite leaves at the front of a cell.
		return child == TaskItem || !isBlockKind(child)
	case Paragraph, Heading:
		return !isBlockKind(child)
	default:
		if isInlineContainerKind(parent) {
			return !isBlockKind(child)
		}
		return false
	}
}
