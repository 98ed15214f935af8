package commonmark

import "bytes"

// finalizeParagraph strips any leading run of link reference definitions
// from node's content, registering each in the parser's reference map,
// before the paragraph (if anything remains) is handed to the inline
// parser (§3.5, §4.4.5). A paragraph that reduces entirely to reference
// definitions is detached from the tree.
func (p *Parser) finalizeParagraph(node *Node) {
	lines := splitLines(node.content, node.lineOffsets)
	idx := 0
outer:
	for idx < len(lines) {
		for window := 1; window <= 3 && idx+window <= len(lines); window++ {
			joined := bytes.Join(lines[idx:idx+window], nil)
			label, url, title, ok := parseReferenceDefinition(joined)
			if ok {
				p.refMap.define(label, url, title)
				idx += window
				continue outer
			}
		}
		break
	}

	if idx == 0 {
		return
	}
	if idx >= len(lines) {
		node.Detach()
		return
	}
	node.content = bytes.Join(lines[idx:], nil)
	node.lineOffsets = node.lineOffsets[idx:]
	base := node.lineOffsets[0]
	for i := range node.lineOffsets {
		node.lineOffsets[i] -= base
	}
}

// splitLines reconstructs per-line byte slices of content from the
// offsets recorded while lines were being appended during parsing.
func splitLines(content []byte, offsets []int) [][]byte {
	if len(offsets) == 0 {
		if len(content) == 0 {
			return nil
		}
		return [][]byte{content}
	}
	lines := make([][]byte, 0, len(offsets))
	for i, start := range offsets {
		end := len(content)
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		lines = append(lines, content[start:end])
	}
	return lines
}

// parseReferenceDefinition attempts to parse b in full as one link
// reference definition: "[label]:" destination, optional title, and
// nothing but trailing whitespace after (§3.5).
func parseReferenceDefinition(b []byte) (label, url, title string, ok bool) {
	i := scanSpaces(b)
	if i > 3 {
		return "", "", "", false
	}
	lbl, consumed, labelOK := scanLinkLabelBytes(b[i:])
	if !labelOK || len(bytes.TrimSpace([]byte(lbl))) == 0 {
		return "", "", "", false
	}
	i += consumed
	if i >= len(b) || b[i] != ':' {
		return "", "", "", false
	}
	i++
	i += scanOptionalLineBreakSpace(b[i:])

	dest, consumed, destOK := scanLinkDestinationBytes(b[i:])
	if !destOK {
		return "", "", "", false
	}
	i += consumed

	// No title: whatever is left must be pure trailing whitespace.
	if len(bytes.TrimSpace(b[i:])) == 0 {
		return unescapeBackslashAndEntities(lbl), unescapeBackslashAndEntities(dest), "", true
	}

	gap := scanOptionalLineBreakSpace(b[i:])
	if gap == 0 {
		return "", "", "", false
	}
	i += gap

	t, tconsumed, tOK := scanLinkTitle(b[i:])
	if !tOK {
		return "", "", "", false
	}
	i += tconsumed
	if len(bytes.TrimSpace(b[i:])) != 0 {
		return "", "", "", false
	}
	return unescapeBackslashAndEntities(lbl), unescapeBackslashAndEntities(dest), unescapeBackslashAndEntities(string(t)), true
}

// scanOptionalLineBreakSpace consumes whitespace that may include at most
// one line break, as permitted between a reference definition's label,
// destination, and title.
func scanOptionalLineBreakSpace(b []byte) int {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	if i < len(b) && (b[i] == '\n' || b[i] == '\r') {
		i++
		for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
			i++
		}
	}
	return i
}

// finalizeCodeBlock promotes the accumulated content into v.Literal, per
// §4.4.5. A fenced code block's first line (the fence itself) was never
// appended to content by the block driver, so no trimming is needed
// there; an indented code block keeps its content verbatim (it was fed
// rest-after-4-columns by the block driver) except for trailing blank
// lines, which are trimmed to a single terminating newline.
func finalizeCodeBlock(node *Node, v *CodeBlockValue) {
	content := node.content
	if !v.Fenced {
		content = bytes.TrimRight(content, "\n")
		if len(content) > 0 {
			content = append(content, '\n')
		}
	}
	v.Literal = string(content)
	node.content = nil
}

// finalizeList computes the list's tightness: a list is tight unless any
// of its items (except possibly the last) is followed by a blank line,
// or any item's content itself contains a blank line between its own
// blocks (§4.4.4).
func finalizeList(node *Node) {
	lv, ok := node.value.(*ListValue)
	if !ok {
		return
	}
	tight := true
	items := node.Children()
	for idx, item := range items {
		if item.lastLineBlank && idx != len(items)-1 {
			tight = false
			break
		}
		children := item.Children()
		for ci, child := range children {
			if child.lastLineBlank && ci != len(children)-1 {
				tight = false
				break
			}
		}
		if !tight {
			break
		}
	}
	lv.Tight = tight
}

// finalizeFrontMatter decodes v.Raw as YAML into v.Data, recording any
// decode error rather than failing the parse (§4.4.1 supplement).
func finalizeFrontMatter(v *FrontMatterValue) {
	decodeFrontMatterYAML(v)
}
