package commonmark

import "bytes"

// maxTableCells bounds the total number of cells (header and data rows,
// including cells synthesized to pad short rows) a single parse may
// create across all tables, one of the anti-quadratic bounds of §5.
const maxTableCells = 500_000

// tryOpenTable recognizes the GFM two-line table header: the open
// paragraph's last content line is a candidate header row, and rest
// (the current line) is a matching delimiter row. On success it returns
// the Table node plus, when the paragraph had earlier lines, a preface
// Paragraph to insert before it; the caller swaps both into the tree and
// calls finishTableHeaderRow to populate the header TableRow.
func (p *Parser) tryOpenTable(paragraph *Node, rest []byte) (table *Node, preface *Node, ok bool) {
	lines := splitLines(paragraph.content, paragraph.lineOffsets)
	if len(lines) == 0 {
		return nil, nil, false
	}
	headerLine := bytes.TrimRight(lines[len(lines)-1], "\n\r")
	if !scanTableRow(headerLine) {
		return nil, nil, false
	}
	aligns, ok := scanTableDelimiterRow(rest)
	if !ok {
		return nil, nil, false
	}
	headerCells := splitTableCells(headerLine)
	if len(aligns) != len(headerCells) {
		if len(aligns) < len(headerCells) {
			return nil, nil, false
		}
		for len(headerCells) < len(aligns) {
			headerCells = append(headerCells, nil)
		}
	}

	if p.tableCellsUsed+len(aligns) > maxTableCells {
		return nil, nil, false
	}
	tv := &TableValue{Alignments: aligns, NumColumns: len(aligns)}
	tv.headerRaw = append([]byte(nil), headerLine...)
	table = NewNode(Table, tv)
	table.sourcepos = paragraph.sourcepos

	// Paragraph text before the header line survives as its own
	// paragraph in front of the table, and the table starts where the
	// header line started.
	if n := len(lines); n > 1 {
		preface = NewNode(Paragraph, &ParagraphValue{})
		preface.open = false
		preface.content = bytes.Join(lines[:n-1], nil)
		for i := 0; i < n-1; i++ {
			preface.lineOffsets = append(preface.lineOffsets, paragraph.lineOffsets[i])
		}
		preface.sourcepos.Start = paragraph.sourcepos.Start
		preface.sourcepos.End = LineColumn{
			Line:   paragraph.sourcepos.Start.Line + n - 2,
			Column: lineWidth(lines[n-2]),
		}
		table.sourcepos.Start = LineColumn{Line: preface.sourcepos.End.Line + 1, Column: 1}
	}

	p.tableCellsUsed += len(aligns)
	return table, preface, true
}

// finishTableHeaderRow appends the header TableRow (built from the
// original paragraph line, stashed on table's value by tryOpenTable) as
// table's first child, then marks it the header.
func (p *Parser) finishTableHeaderRow(table *Node, delimiterLine []byte) {
	v := table.value.(*TableValue)
	cells := splitTableCells(v.headerRaw)
	v.headerRaw = nil
	table.sourcepos.End = LineColumn{Line: p.lineNo, Column: lineWidth(delimiterLine)}
	row := NewNode(TableRow, &TableRowValue{IsHeader: true})
	table.AppendChild(row)
	for i := 0; i < v.NumColumns; i++ {
		align := AlignNone
		if i < len(v.Alignments) {
			align = v.Alignments[i]
		}
		cell := NewNode(TableCell, &TableCellValue{Alignment: align})
		if i < len(cells) {
			cell.content = trimCellWhitespace(cells[i])
		}
		row.AppendChild(cell)
	}
}

// appendTableDataRow parses rest as a data row and appends it as a child
// of table, padding or truncating to table's column count per GFM.
func (p *Parser) appendTableDataRow(table *Node, rest []byte) {
	v := table.value.(*TableValue)
	line := bytes.TrimRight(rest, "\n\r")
	cells := splitTableCells(line)
	row := NewNode(TableRow, &TableRowValue{})
	table.AppendChild(row)
	for i := 0; i < v.NumColumns; i++ {
		align := AlignNone
		if i < len(v.Alignments) {
			align = v.Alignments[i]
		}
		cell := NewNode(TableCell, &TableCellValue{Alignment: align})
		if i < len(cells) {
			cell.content = trimCellWhitespace(cells[i])
		}
		row.AppendChild(cell)
	}
}

// splitTableCells strips a line's surrounding pipes and splits it on
// unescaped, non-code pipes into raw (still-escaped) cell contents.
func splitTableCells(line []byte) [][]byte {
	trimmed := bytes.TrimSpace(line)
	trimmed = bytes.TrimPrefix(trimmed, []byte("|"))
	trimmed = bytes.TrimSuffix(trimmed, []byte("|"))
	return splitUnescapedPipes(trimmed)
}

func trimCellWhitespace(b []byte) []byte {
	return bytes.TrimSpace(b)
}
