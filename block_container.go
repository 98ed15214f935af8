package commonmark

import "bytes"

// continueBlock tests whether node's continuation condition holds for
// the current line, given the indent and post-indent remainder (rest) of
// a non-mutating lookahead from cursor's current position, and whether
// rest is blank. On success it advances cursor — from that same
// unmutated starting position — past whatever indent and marker the
// container consumes (§4.4.2 step 1). A branch that doesn't consume
// anything (List, Paragraph, ...) must leave cursor untouched so the
// next ancestor's own lookahead still sees the full indent.
func (p *Parser) continueBlock(node *Node, cursor *columnTracker, indent int, rest []byte, blank bool) bool {
	switch v := node.value.(type) {
	case *BlockQuoteValue:
		if indent > 3 || len(rest) == 0 || rest[0] != '>' {
			return false
		}
		cursor.advanceColumns(indent + 1)
		if cursor.peek() == ' ' || cursor.peek() == '\t' {
			cursor.advanceColumns(1)
		}
		return true

	case *AlertValue:
		if v.Multiline {
			if scanCodeFenceClose(cursor.line[cursor.offset:], '>', v.FenceLength) {
				cursor.offset = len(cursor.line)
				node.lastLineBlank = false
				p.consumedWholeLine = true
				p.closeMultilineFence(node, cursor.line)
				return false
			}
			return true
		}
		if indent > 3 || len(rest) == 0 || rest[0] != '>' {
			return false
		}
		cursor.advanceColumns(indent + 1)
		if cursor.peek() == ' ' || cursor.peek() == '\t' {
			cursor.advanceColumns(1)
		}
		return true

	case *MultilineBlockQuoteValue:
		if scanCodeFenceClose(cursor.line[cursor.offset:], '>', v.FenceLength) {
			cursor.offset = len(cursor.line)
			p.consumedWholeLine = true
			p.closeMultilineFence(node, cursor.line)
			return false
		}
		return true

	case *ListValue:
		// Lists themselves never fail continuation directly; their
		// Item children carry the real test. A List stays open as long
		// as at least one Item does.
		return true

	case *ItemValue, *TaskItemValue:
		offset := itemMarkerWidth(node.value)
		if indent >= offset {
			cursor.advanceColumns(offset)
			return true
		}
		if blank && node.firstChild != nil {
			return true
		}
		return false

	case *CodeBlockValue:
		if v.Fenced {
			if scanCodeFenceClose(cursor.line[cursor.offset:], v.FenceChar, v.FenceLength) {
				cursor.offset = len(cursor.line)
				p.consumedWholeLine = true
				p.closeFencedCodeBlock(node, cursor.line)
				return false
			}
			cursor.advanceColumns(v.FenceOffset)
			return true
		}
		if indent >= 4 {
			cursor.advanceColumns(4)
			return true
		}
		return blank

	case *ParagraphValue:
		return !blank

	case *TableValue:
		tableRest := cursor.line[cursor.offset:]
		if !scanTableRow(tableRest) {
			return false
		}
		if p.tableCellsUsed+v.NumColumns > maxTableCells {
			return false
		}
		p.appendTableDataRow(node, tableRest)
		p.tableCellsUsed += v.NumColumns
		cursor.offset = len(cursor.line)
		p.consumedWholeLine = true
		node.sourcepos.End = LineColumn{Line: p.lineNo, Column: lineWidth(cursor.line)}
		return true

	case *FootnoteDefinitionValue:
		if indent >= 4 {
			cursor.advanceColumns(4)
			return true
		}
		return blank

	case *DescriptionDetailsValue:
		if indent >= 2 {
			cursor.advanceColumns(2)
			return true
		}
		return blank

	case *DescriptionItemValue, *DescriptionListValue, *DescriptionTermValue:
		return true

	case *HTMLBlockValue:
		// Types 1-5 end on a content condition tested in the text phase;
		// 6 and 7 end on the first blank line.
		return v.BlockType <= 5 || !blank

	case *HeadingValue, *TableRowValue, *TableCellValue:
		return false

	default:
		return true
	}
}

// itemMarkerWidth returns marker_offset + padding for an Item/TaskItem.
func itemMarkerWidth(v NodeValue) int {
	switch t := v.(type) {
	case *ItemValue:
		return t.MarkerOffset + t.Padding
	case *TaskItemValue:
		return t.MarkerOffset + t.Padding
	}
	return 0
}

// lineWidth is a line's column width without its terminator, floored at
// 1 so a bare newline still produces a valid end column.
func lineWidth(line []byte) int {
	w := len(line)
	for w > 0 && (line[w-1] == '\n' || line[w-1] == '\r') {
		w--
	}
	if w < 1 {
		w = 1
	}
	return w
}

func (p *Parser) closeFencedCodeBlock(node *Node, line []byte) {
	p.finalize(node)
	node.sourcepos.End = LineColumn{Line: p.lineNo, Column: lineWidth(line)}
}

func (p *Parser) closeMultilineFence(node *Node, line []byte) {
	p.finalize(node)
	node.sourcepos.End = LineColumn{Line: p.lineNo, Column: lineWidth(line)}
}

// tryOpenBlock attempts to open exactly one new block as a child of
// cur, per the priority order of §4.4.2 step 2. It returns opened=true
// if a block was opened (cursor has been advanced past its marker), and
// consumedEntireLine=true if the new-block phase should stop processing
// this line entirely (used for ATX headings, fenced code openings, HTML
// blocks, setext conversion, thematic breaks, and table headers). A
// blank rest of line opens nothing and returns false for both.
func (p *Parser) tryOpenBlock(cur *Node, cursor *columnTracker, line []byte) (opened, consumedEntireLine bool) {
	indent, rest := lookaheadIndent(cursor)

	if isBlankBytes(rest) {
		return false, false
	}

	para, isParagraph := cur.value.(*ParagraphValue)

	// Everything below except the indented code block requires an
	// indent of 3 columns or less; at 4+ columns the line is either an
	// indented code block or (inside a list item) already consumed by
	// the container's own continuation test before reaching here.
	if indent < 4 {
		// Block quote marker. Under the greentext extension, '>' never
		// starts a block quote at all; it's left as ordinary paragraph
		// text and the paragraph is flagged for the renderer instead
		// (SPEC_FULL §5, comrak's greentext extension).
		if len(rest) > 0 && rest[0] == '>' && !p.options.Extension.Greentext {
			if p.options.Extension.Alerts || p.options.Extension.MultilineBlockQuotes {
				if opened := p.tryOpenAlertOrMultiline(cursor, line); opened {
					return true, false
				}
			}
			bq := NewNode(BlockQuote, &BlockQuoteValue{})
			p.addChild(bq, p.lineNo, cursor.column+1)
			cursor.advanceColumns(indent + 1)
			if cursor.peek() == ' ' || cursor.peek() == '\t' {
				cursor.advanceColumns(1)
			}
			return true, false
		}

		// Multiline block quote fence (checked even without a leading '>').
		if p.options.Extension.MultilineBlockQuotes {
			if _, _, ok := scanMultilineBlockQuoteFence(rest); ok {
				if opened := p.tryOpenAlertOrMultiline(cursor, line); opened {
					return true, false
				}
			}
		}

		// ATX heading.
		if level, contentStart, ok := scanATXHeadingStart(rest); ok {
			content := extractATXContent(rest[contentStart:])
			h := NewNode(Heading, &HeadingValue{Level: level})
			p.addChild(h, p.lineNo, cursor.column+1)
			h.content = content
			p.finalize(h)
			h.sourcepos.End = LineColumn{Line: p.lineNo, Column: len(line)}
			p.openBlocks = p.openBlocks[:len(p.openBlocks)-1]
			return true, true
		}

		// Fenced code block.
		if ch, length, fenceIndent, ok := scanCodeFence(rest); ok {
			cb := NewNode(CodeBlock, &CodeBlockValue{Fenced: true, FenceChar: ch, FenceLength: length, FenceOffset: fenceIndent})
			p.addChild(cb, p.lineNo, cursor.column+1)
			infoStart := fenceIndent + length
			info := unescapeInfoString(bytes.TrimSpace(rest[infoStart:]))
			if info == "" {
				info = p.options.Parse.DefaultInfoString
			}
			cb.value.(*CodeBlockValue).Info = info
			return true, true
		}

		// HTML block.
		if bt := htmlBlockStartType(rest, isParagraph); bt != 0 {
			hb := NewNode(HTMLBlock, &HTMLBlockValue{BlockType: bt})
			p.addChild(hb, p.lineNo, cursor.column+1)
			appendLineToBlock(hb, rest, p.lineNo)
			if bt <= 5 && htmlBlockEnd(bt, rest) {
				p.finalizeAndPop(hb)
			}
			return true, true
		}

		// Setext underline, only against an open paragraph.
		if !p.options.Parse.IgnoreSetext && isParagraph && len(cur.content) > 0 {
			if level, ok := scanSetextUnderline(rest); ok {
				h := NewNode(Heading, &HeadingValue{Level: level, Setext: true})
				h.open = false
				h.content = bytes.TrimSpace(cur.content)
				h.sourcepos = cur.sourcepos
				h.sourcepos.End = LineColumn{Line: p.lineNo, Column: lineWidth(line)}
				cur.InsertBefore(h)
				cur.Detach()
				p.openBlocks = p.openBlocks[:len(p.openBlocks)-1]
				return true, true
			}
			_ = para
		}

		// Thematic break.
		if scanThematicBreak(rest) {
			tb := NewNode(ThematicBreak, &ThematicBreakValue{})
			p.addChild(tb, p.lineNo, cursor.column+1)
			p.finalize(tb)
			tb.sourcepos.End = LineColumn{Line: p.lineNo, Column: len(line)}
			p.openBlocks = p.openBlocks[:len(p.openBlocks)-1]
			return true, true
		}

		// Footnote definition.
		if p.options.Extension.Footnotes {
			if label, consumed, ok := scanFootnoteDefinitionStart(rest); ok {
				fd := NewNode(FootnoteDefinition, &FootnoteDefinitionValue{Name: label})
				p.addChild(fd, p.lineNo, cursor.column+1)
				cursor.advanceColumns(consumed)
				return true, false
			}
		}

		// List marker.
		if opened := p.tryOpenListItem(cur, cursor, rest); opened {
			return true, false
		}

		// Table header (two-line pattern): the open paragraph's last line
		// is the candidate header row. Earlier paragraph lines, if any,
		// survive as a plain paragraph immediately before the table.
		if p.options.Extension.Table && isParagraph && len(cur.content) > 0 {
			if table, preface, ok := p.tryOpenTable(cur, rest); ok {
				if preface != nil {
					cur.InsertBefore(preface)
				}
				cur.Replace(table)
				p.openBlocks[len(p.openBlocks)-1] = table
				p.finishTableHeaderRow(table, rest)
				return true, true
			}
		}

		// Description list details marker (`: text`).
		if p.options.Extension.DescriptionLists && isParagraph {
			if opened := p.tryOpenDescriptionDetails(cur, cursor, rest); opened {
				return true, false
			}
		}

		return false, false
	}

	// Indented code block. It can neither interrupt a paragraph nor
	// swallow a line that may yet be a lazy paragraph continuation.
	maybeLazy := !p.unmatchedClosed && p.current().kind == Paragraph
	if !isParagraph && !maybeLazy {
		cb := NewNode(CodeBlock, &CodeBlockValue{Fenced: false})
		p.addChild(cb, p.lineNo, cursor.column+1)
		cursor.advanceColumns(4)
		return true, false
	}

	return false, false
}

// lookaheadIndent scans past leading spaces, tabs, and any tab already
// partially consumed at cursor's current position, without mutating
// cursor, returning the indent width in columns and the byte slice
// following it. Kept non-mutating so callers can test the indent
// magnitude against CommonMark's 0-3 vs. 4+ thresholds before deciding
// how many columns (if any) to actually consume.
func lookaheadIndent(cursor *columnTracker) (indent int, rest []byte) {
	tmp := *cursor
	startColumn := tmp.column
	for {
		ch := tmp.peek()
		if ch != ' ' && ch != '\t' {
			break
		}
		tmp.advanceColumns(1)
	}
	return tmp.column - startColumn, tmp.line[tmp.offset:]
}

func hasOneLine(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	for i := 0; i < len(content)-1; i++ {
		if content[i] == '\n' {
			return false
		}
	}
	return true
}

func extractATXContent(b []byte) []byte {
	line := bytes.TrimRight(b, "\r\n")
	trimEnd := len(line)
	for trimEnd > 0 && line[trimEnd-1] == ' ' {
		trimEnd--
	}
	hashEnd := trimEnd
	for hashEnd > 0 && line[hashEnd-1] == '#' {
		hashEnd--
	}
	if hashEnd < trimEnd && (hashEnd == 0 || line[hashEnd-1] == ' ') {
		trimEnd = hashEnd
		for trimEnd > 0 && line[trimEnd-1] == ' ' {
			trimEnd--
		}
	}
	return bytes.TrimLeft(line[:trimEnd], " ")
}

func unescapeInfoString(b []byte) string {
	return unescapeBackslashAndEntities(string(b))
}
