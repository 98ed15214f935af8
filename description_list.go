package commonmark

import "bytes"

// tryOpenDescriptionDetails recognizes the description-list extension's
// "term" / ": details" two-line pattern: a just-opened single-line
// paragraph becomes a DescriptionTerm once the following line starts
// with a colon-space, opening (or extending) a DescriptionList.
func (p *Parser) tryOpenDescriptionDetails(cur *Node, cursor *columnTracker, rest []byte) bool {
	if !hasOneLine(cur.content) {
		return false
	}
	if len(rest) < 2 || rest[0] != ':' || (rest[1] != ' ' && rest[1] != '\t') {
		return false
	}

	termText := bytes.TrimRight(cur.content, "\n\r")
	termSourcepos := cur.sourcepos

	p.openBlocks = p.openBlocks[:len(p.openBlocks)-1]
	cur.Detach()

	listIdx := -1
	for i := len(p.openBlocks) - 1; i >= 0; i-- {
		if _, ok := p.openBlocks[i].value.(*DescriptionListValue); ok {
			listIdx = i
			break
		}
	}
	if listIdx >= 0 {
		p.closeBlocksDeeperThan(listIdx)
	} else {
		attachIdx := len(p.openBlocks) - 1
		for attachIdx >= 0 && !CanContain(p.openBlocks[attachIdx].kind, DescriptionList) {
			attachIdx--
		}
		p.closeBlocksDeeperThan(attachIdx)
		dl := NewNode(DescriptionList, &DescriptionListValue{})
		p.addChild(dl, termSourcepos.Start.Line, 1)
	}

	item := NewNode(DescriptionItem, &DescriptionItemValue{})
	p.addChild(item, termSourcepos.Start.Line, 1)

	term := NewNode(DescriptionTerm, &DescriptionTermValue{})
	item.AppendChild(term)
	term.content = append([]byte(nil), termText...)
	term.sourcepos = termSourcepos
	term.open = false

	details := NewNode(DescriptionDetails, &DescriptionDetailsValue{})
	p.addChild(details, p.lineNo, cursor.column+1)
	cursor.advanceColumns(2)
	return true
}
