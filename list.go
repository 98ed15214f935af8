package commonmark

// tryOpenListItem recognizes a bullet or ordered list marker at the
// front of rest and, if one matches, opens a new Item (or TaskItem, under
// the tasklist extension) as a child of the appropriate List — reusing
// an already-open List of the same type/delimiter if the current nesting
// position has one, otherwise closing it and starting a fresh List
// (§4.4.3, §4.4.4).
func (p *Parser) tryOpenListItem(cur *Node, cursor *columnTracker, rest []byte) bool {
	var (
		ordered    bool
		bulletChar byte
		ordStart   int
		delim      byte
		bareWidth  int
	)
	if ch, _, ok := scanListBullet(rest); ok {
		bulletChar = ch
		bareWidth = 1
	} else if start, d, consumed, ok := scanListOrdered(rest); ok {
		ordered = true
		ordStart = start
		delim = d
		bareWidth = consumed
		for bareWidth > 0 && (rest[bareWidth-1] == ' ' || rest[bareWidth-1] == '\t') {
			bareWidth--
		}
	} else {
		return false
	}

	spaceCount := 0
	for bareWidth+spaceCount < len(rest) && rest[bareWidth+spaceCount] == ' ' {
		spaceCount++
	}
	afterContent := rest[bareWidth+spaceCount:]
	blankAfterMarker := isBlankBytes(afterContent)
	if spaceCount == 0 && !blankAfterMarker {
		return false
	}

	_, isParagraph := cur.value.(*ParagraphValue)
	if isParagraph {
		if ordered && ordStart != 1 {
			return false
		}
		if blankAfterMarker {
			return false
		}
	}

	var padding int
	switch {
	case blankAfterMarker:
		padding = 1
	case spaceCount >= 1 && spaceCount <= 4:
		padding = spaceCount
	default:
		padding = 1
	}

	isTask, symbol, checked, checkboxWidth := scanTaskCheckbox(p.options, afterContent)
	if isTask {
		padding += checkboxWidth
	}

	wantType := BulletList
	if ordered {
		wantType = OrderedList
	}

	// A new item extends cur only when cur is itself a list of the same
	// type, delimiter, and bullet character (§4.4.3); a marker reached
	// through any other container starts a fresh (possibly nested) list.
	sameList := false
	if lv, ok := cur.value.(*ListValue); ok {
		if lv.Type == wantType &&
			((wantType == BulletList && lv.BulletChar == bulletChar) ||
				(wantType == OrderedList && lv.Delimiter == delim)) {
			sameList = true
		}
	}

	if !sameList {
		list := NewNode(List, &ListValue{
			Type:       wantType,
			BulletChar: bulletChar,
			Delimiter:  delim,
			Start:      ordStart,
		})
		p.addChild(list, p.lineNo, cursor.column+1)
	}

	markerOffset := bareWidth
	var item *Node
	if isTask {
		item = NewNode(TaskItem, &TaskItemValue{
			ItemValue: ItemValue{MarkerOffset: markerOffset, Padding: padding},
			Symbol:    symbol,
			Checked:   checked,
		})
	} else {
		item = NewNode(Item, &ItemValue{MarkerOffset: markerOffset, Padding: padding})
	}
	p.addChild(item, p.lineNo, cursor.column+1)
	cursor.advanceColumns(markerOffset + padding)
	return true
}

// scanTaskCheckbox recognizes a GFM tasklist checkbox ("[ ]", "[x]",
// "[X]", or any single character under relaxed matching) immediately
// following a list marker's required padding.
func scanTaskCheckbox(opts Options, b []byte) (isTask bool, symbol byte, checked bool, width int) {
	if !opts.Extension.Tasklist {
		return false, 0, false, 0
	}
	if len(b) < 3 || b[0] != '[' || b[2] != ']' {
		return false, 0, false, 0
	}
	sym := b[1]
	valid := sym == ' ' || sym == 'x' || sym == 'X' || opts.Parse.RelaxedTasklistMatching
	if !valid {
		return false, 0, false, 0
	}
	if len(b) > 3 {
		next := b[3]
		if next != ' ' && next != '\t' && next != '\n' && next != '\r' {
			return false, 0, false, 0
		}
	}
	width = 3
	if len(b) > 3 && (b[3] == ' ' || b[3] == '\t') {
		width = 4
	}
	checked = sym == 'x' || sym == 'X' || (opts.Parse.RelaxedTasklistMatching && sym != ' ')
	return true, sym, checked, width
}
