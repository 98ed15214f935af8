package commonmark

import "bytes"

// Parser runs the two-phase CommonMark engine: block parsing line by
// line, followed by one inline-parsing pass per block that contains
// inlines, followed by postprocessing (§2). A Parser is single-use: call
// Feed zero or more times, then Finish once.
type Parser struct {
	options Options

	root       *Node
	openBlocks []*Node // root.. current, mirrors the teacher's openBlocks stack

	refMap *referenceMap

	buffer   []byte
	lineNo   int
	finished bool

	// footnoteOrder records the order in which footnote references were
	// first encountered, and footnoteDefs indexes definitions by
	// normalized name for the postprocessing reorder pass (§4.4.6).
	footnoteDefs  map[string]*Node
	footnoteOrder []string
	footnoteSeen  map[string]bool

	// frontMatterChecked is set once the leading front-matter block (if
	// any) has been handled, so later lines starting with the same
	// delimiter are not mistaken for a second one.
	frontMatterChecked bool
	frontMatterOpen    bool

	// tableCellsUsed counts cells created across every table in this
	// parse, bounded by maxTableCells (§5).
	tableCellsUsed int

	// Per-line state shared between the continuation, new-block, and text
	// phases. lastMatched is the index into openBlocks of the deepest
	// block whose continuation condition held; unmatchedClosed records
	// whether the blocks deeper than it have been finalized yet. Closing
	// is deferred so a paragraph that failed its container's prefix can
	// still absorb the line as a lazy continuation.
	lastMatched       int
	unmatchedClosed   bool
	consumedWholeLine bool

	inlineFootnoteCount int
}

// NewParser creates a Parser ready to accept input via Feed.
func NewParser(options Options) *Parser {
	doc := NewNode(Document, &DocumentValue{})
	doc.sourcepos.Start = LineColumn{Line: 1, Column: 1}
	p := &Parser{
		options:      options,
		root:         doc,
		openBlocks:   []*Node{doc},
		refMap:       newReferenceMap(),
		footnoteDefs: make(map[string]*Node),
		footnoteSeen: make(map[string]bool),
	}
	return p
}

// ParseDocument parses a complete document in one call, equivalent to
// feeding all of data with eof=true and then calling Finish (§6.2).
func ParseDocument(data []byte, options Options) *Node {
	p := NewParser(options)
	p.Feed(data, true)
	return p.Finish()
}

// Feed accepts one or more complete or partial UTF-8 chunks. Calling
// Feed multiple times before Finish is equivalent to concatenating all
// fed bytes and calling Finish once (§4.4, §6.2).
func (p *Parser) Feed(data []byte, eofFlag bool) error {
	if p.finished {
		panic("commonmark: Feed called after Finish")
	}
	p.buffer = append(p.buffer, sanitizeBytes(data)...)
	for {
		line, consumed, found := nextLine(p.buffer)
		if !found {
			if eofFlag && len(p.buffer) > 0 {
				p.processLine(withTrailingNewline(p.buffer))
				p.buffer = nil
			}
			return nil
		}
		p.processLine(withTrailingNewline(line))
		p.buffer = p.buffer[consumed:]
	}
}

// Finish completes any buffered partial line, closes all open blocks,
// runs inline parsing over every inline-bearing block, and runs
// postprocessing (§6.2). It returns the Document root.
func (p *Parser) Finish() *Node {
	if !p.finished {
		if len(p.buffer) > 0 {
			p.processLine(withTrailingNewline(p.buffer))
			p.buffer = nil
		}
		for i := len(p.openBlocks) - 1; i >= 0; i-- {
			p.finalize(p.openBlocks[i])
			closeSourcepos(p.openBlocks[i])
		}
		p.openBlocks = p.openBlocks[:0]
		p.finished = true

		p.parseAllInlines(p.root)
		postprocess(p, p.root)
	}
	return p.root
}

// sanitizeBytes replaces NUL with U+FFFD, per §4.4.1.
func sanitizeBytes(data []byte) []byte {
	if bytes.IndexByte(data, 0) >= 0 {
		data = bytes.ReplaceAll(data, []byte{0}, []byte("�"))
	}
	return data
}

// nextLine finds the next LF/CR/CRLF-terminated line in buf. It returns
// found=false if no terminator is present yet (the caller should wait
// for more data unless at EOF).
func nextLine(buf []byte) (line []byte, consumed int, found bool) {
	for i := 0; i < len(buf); i++ {
		switch buf[i] {
		case '\n':
			return buf[:i], i + 1, true
		case '\r':
			if i+1 < len(buf) {
				if buf[i+1] == '\n' {
					return buf[:i], i + 2, true
				}
				return buf[:i], i + 1, true
			}
			// Might be the first half of a CRLF split across Feed
			// calls; let the caller decide based on eofFlag.
			return nil, 0, false
		}
	}
	return nil, 0, false
}

// withTrailingNewline copies line (minus any stray trailing CR) and
// completes it with an LF, per §4.4.1. Every line handed to processLine
// goes through this, so the per-block content buffers always hold
// LF-terminated logical lines regardless of the source's line endings.
func withTrailingNewline(line []byte) []byte {
	for len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	out := make([]byte, len(line)+1)
	copy(out, line)
	out[len(line)] = '\n'
	return out
}

func (p *Parser) current() *Node {
	return p.openBlocks[len(p.openBlocks)-1]
}

// finalize closes node and performs kind-specific finalization work
// (§4.4.5). It assumes node is (or was) the deepest open block, i.e. all
// of its descendants (if any) have already been finalized.
func (p *Parser) finalize(node *Node) {
	if !node.open {
		return
	}
	node.open = false
	switch v := node.value.(type) {
	case *ParagraphValue:
		p.finalizeParagraph(node)
	case *CodeBlockValue:
		finalizeCodeBlock(node, v)
	case *HTMLBlockValue:
		v.Literal = string(node.content)
		node.content = nil
	case *ListValue:
		finalizeList(node)
	case *FootnoteDefinitionValue:
		p.footnoteDefs[normalizeLabel(v.Name)] = node
	case *FrontMatterValue:
		if v.Raw == "" {
			v.Raw = string(node.content)
		}
		finalizeFrontMatter(v)
		node.content = nil
	}
}

// closeSourcepos fills in a closed block's end position from its last
// child when nothing better was recorded while it was open. Leaves that
// accumulated content already carry an exact end from appendLineToBlock
// and keep it.
func closeSourcepos(node *Node) {
	if node.lastChild != nil {
		if end := node.lastChild.sourcepos.End; end.Line != 0 && node.sourcepos.End.Less(end) {
			node.sourcepos.End = end
		}
	}
	if node.sourcepos.End.Line == 0 {
		node.sourcepos.End = node.sourcepos.Start
	}
}

// addChild walks up from the current open block to find the nearest
// ancestor that CanContain child, finalizing incompatible descendants
// along the way, then appends child and pushes it onto the open stack
// (§3.3, mirrors the teacher's addChild in the GOPATH block.go). Any
// blocks that failed this line's continuation phase are closed first:
// opening a new block is what rules out lazy continuation.
func (p *Parser) addChild(child *Node, startLine, startCol int) {
	p.closeUnmatched()
	for i := len(p.openBlocks) - 1; i >= 0; i-- {
		parent := p.openBlocks[i]
		if CanContain(parent.kind, child.kind) {
			p.closeBlocksDeeperThan(i)
			parent.AppendChild(child)
			child.sourcepos.Start = LineColumn{Line: startLine, Column: startCol}
			p.openBlocks = append(p.openBlocks, child)
			return
		}
	}
	panic("commonmark: no open ancestor can contain " + child.kind.String())
}

// closeBlocksDeeperThan finalizes every open block deeper than index i,
// shrinking the open stack to i+1 entries.
func (p *Parser) closeBlocksDeeperThan(i int) {
	for len(p.openBlocks) > i+1 {
		last := p.openBlocks[len(p.openBlocks)-1]
		p.finalize(last)
		closeSourcepos(last)
		p.openBlocks = p.openBlocks[:len(p.openBlocks)-1]
	}
}

// closeUnmatched finalizes the blocks that failed this line's
// continuation phase. It runs at most once per line; until it runs the
// old tip is still open, which is what makes lazy continuation possible.
func (p *Parser) closeUnmatched() {
	if p.unmatchedClosed {
		return
	}
	p.closeBlocksDeeperThan(p.lastMatched)
	p.unmatchedClosed = true
}

// processLine runs the per-line algorithm of §4.4.2 on one physical
// line (including its terminating '\n').
func (p *Parser) processLine(line []byte) {
	p.lineNo++

	if !p.frontMatterChecked {
		p.frontMatterChecked = true
		if p.options.Extension.FrontMatterDelimiter != nil && p.lineNo == 1 {
			if p.tryConsumeFrontMatter(line) {
				return
			}
		}
	}

	if p.frontMatterOpen {
		fm := p.current()
		v := fm.value.(*FrontMatterValue)
		appendLineToBlock(fm, line, p.lineNo)
		if frontMatterClosingLine(line, v.Delimiter) {
			v.Raw = string(fm.content)
			p.frontMatterOpen = false
			p.finalizeAndPop(fm)
		}
		return
	}

	cursor := newColumnTracker(line)

	// --- 1. Continuation phase ---
	p.lastMatched = 0
	p.unmatchedClosed = false
	p.consumedWholeLine = false
	for i := 1; i < len(p.openBlocks); i++ {
		node := p.openBlocks[i]
		// indent/rest are a non-mutating lookahead from cursor's current
		// position: a container that doesn't itself consume columns (List)
		// must leave cursor untouched so the next ancestor down (its Item)
		// still sees the same indent, rather than finding it already eaten.
		indent, rest := lookaheadIndent(cursor)
		blank := isBlankBytes(rest)

		if !p.continueBlock(node, cursor, indent, rest, blank) {
			break
		}
		p.lastMatched = i
	}

	// A closing fence or a table data row eats the whole line during the
	// continuation walk; there is no text phase and no blank-line
	// bookkeeping for it.
	if p.consumedWholeLine {
		p.closeUnmatched()
		return
	}

	// --- 2. New-block phase ---
	// The unmatched tail of the open chain is deliberately NOT closed
	// yet: tryOpenBlock's addChild closes it on the first real open, and
	// if nothing opens, the line may still be a lazy continuation of the
	// old tip.
	for {
		cur := p.current()
		if !p.unmatchedClosed {
			cur = p.openBlocks[p.lastMatched]
		}
		if acceptsLiteralLines(cur.kind) {
			break
		}
		opened, consumedEntireLine := p.tryOpenBlock(cur, cursor, line)
		if !opened {
			break
		}
		if consumedEntireLine {
			return
		}
		if acceptsLines(p.current().kind) {
			break
		}
	}

	// --- 3. Text phase ---
	if p.consumedWholeLine {
		return
	}
	rest := line[cursor.offset:]

	if isBlankBytes(rest) {
		p.closeUnmatched()
		cur := p.current()
		if cur.lastChild != nil {
			cur.lastChild.lastLineBlank = true
		}
		cur.lastLineBlank = true
		return
	}

	// Lazy continuation: when no new block opened and the not-yet-closed
	// tip is a paragraph, the line is paragraph text no matter which
	// container prefix went missing.
	if !p.unmatchedClosed {
		tip := p.current()
		if tip.kind == Paragraph {
			markGreentext(p, tip, rest)
			appendLineToBlock(tip, trimParagraphLine(rest), p.lineNo)
			return
		}
		p.closeUnmatched()
	}

	cur := p.current()

	if cur.kind == HTMLBlock {
		if v, ok := cur.value.(*HTMLBlockValue); ok {
			appendLineToBlock(cur, rest, p.lineNo)
			if v.BlockType <= 5 && htmlBlockEnd(v.BlockType, rest) {
				p.finalizeAndPop(cur)
			}
			return
		}
	}

	if acceptsLines(cur.kind) {
		if cur.kind == Paragraph {
			rest = trimParagraphLine(rest)
		}
		appendLineToBlock(cur, rest, p.lineNo)
		return
	}

	para := NewNode(Paragraph, &ParagraphValue{})
	p.addChild(para, p.lineNo, cursor.column+1)
	markGreentext(p, para, rest)
	rest = stripSubtextMarker(p, para, trimParagraphLine(rest))
	appendLineToBlock(para, rest, p.lineNo)
}

// trimParagraphLine drops a paragraph line's leading whitespace; the
// raw content of a paragraph is its lines with initial whitespace
// removed.
func trimParagraphLine(rest []byte) []byte {
	return bytes.TrimLeft(rest, " \t")
}

// markGreentext flags para when the greentext extension is on and rest
// begins with '>', since the block-quote branch of tryOpenBlock left
// that byte as ordinary text instead of opening a BlockQuote.
func markGreentext(p *Parser, para *Node, rest []byte) {
	if !p.options.Extension.Greentext || len(rest) == 0 || rest[0] != '>' {
		return
	}
	if v, ok := para.value.(*ParagraphValue); ok {
		v.Greentext = true
	}
}

// stripSubtextMarker recognizes the subtext extension's "-# " line
// marker on a just-opened paragraph, flagging para and returning rest
// with the marker removed so it never becomes part of the rendered text.
func stripSubtextMarker(p *Parser, para *Node, rest []byte) []byte {
	if !p.options.Extension.Subtext {
		return rest
	}
	if len(rest) < 2 || rest[0] != '-' || rest[1] != '#' {
		return rest
	}
	after := rest[2:]
	if len(after) > 0 && after[0] != ' ' && after[0] != '\t' && after[0] != '\n' {
		return rest
	}
	if v, ok := para.value.(*ParagraphValue); ok {
		v.Subtext = true
	}
	for len(after) > 0 && (after[0] == ' ' || after[0] == '\t') {
		after = after[1:]
	}
	return after
}

// finalizeAndPop finalizes node and pops every block from the open
// stack down to and including it (used when an HTML block's end
// condition is matched on the same line it was opened or continued).
func (p *Parser) finalizeAndPop(node *Node) {
	p.finalize(node)
	closeSourcepos(node)
	for len(p.openBlocks) > 0 && p.openBlocks[len(p.openBlocks)-1] != node {
		p.openBlocks = p.openBlocks[:len(p.openBlocks)-1]
	}
	if len(p.openBlocks) > 0 {
		p.openBlocks = p.openBlocks[:len(p.openBlocks)-1]
	}
}

// appendLineToBlock records line into node.content and its lineOffsets,
// tracking the source line it came from for sourcepos purposes.
func appendLineToBlock(node *Node, line []byte, lineNo int) {
	node.lineOffsets = append(node.lineOffsets, len(node.content))
	node.content = append(node.content, line...)
	width := len(line)
	for width > 0 && (line[width-1] == '\n' || line[width-1] == '\r') {
		width--
	}
	if width < 1 {
		width = 1
	}
	node.sourcepos.End = LineColumn{Line: lineNo, Column: width}
	if node.sourcepos.Start.Line == 0 {
		node.sourcepos.Start = LineColumn{Line: lineNo, Column: 1}
	}
}

func isBlankBytes(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return false
		}
	}
	return true
}
