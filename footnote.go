package commonmark

import (
	"bytes"
	"strconv"
)

// parseInlineFootnote handles "^[text]" when the inline_footnotes
// extension is on: the bracketed text becomes the body of a synthesized
// FootnoteDefinition appended to the document, and the span itself
// becomes a reference to it. Definitions get generated names of the form
// "__inlineN" (N counts inline footnotes in order); an authored label
// spelled the same way is not kept apart from them.
func (ip *inlineParser) parseInlineFootnote(parent *Node) bool {
	b := ip.content
	i := ip.pos + 2
	depth := 1
	for i < len(b) {
		switch b[i] {
		case '\\':
			i++
		case '\n':
			return false
		case '[':
			depth++
		case ']':
			depth--
		}
		if depth == 0 {
			break
		}
		i++
	}
	if depth != 0 {
		return false
	}
	inner := b[ip.pos+2 : i]
	if len(bytes.TrimSpace(inner)) == 0 {
		return false
	}

	p := ip.parser
	p.inlineFootnoteCount++
	name := "__inline" + strconv.Itoa(p.inlineFootnoteCount)

	def := NewNode(FootnoteDefinition, &FootnoteDefinitionValue{Name: name})
	def.open = false
	para := NewNode(Paragraph, &ParagraphValue{})
	para.open = false
	def.AppendChild(para)
	sub := &inlineParser{parser: p, content: append([]byte(nil), inner...)}
	sub.run(para)
	p.root.AppendChild(def)

	norm := normalizeLabel(name)
	p.footnoteDefs[norm] = def
	if !p.footnoteSeen[norm] {
		p.footnoteSeen[norm] = true
		p.footnoteOrder = append(p.footnoteOrder, norm)
	}
	parent.AppendChild(NewNode(FootnoteReference, &FootnoteReferenceValue{Name: name, RefCount: 1}))
	ip.pos = i + 1
	return true
}

// reorderFootnotes assigns each footnote reference a sequential index in
// the order it was first encountered, moves every referenced definition
// to the end of the Document in that order, and drops definitions that
// were never referenced unless LeaveFootnoteDefinitions is set (§4.4.6).
func reorderFootnotes(p *Parser) {
	if !p.options.Extension.Footnotes && !p.options.Extension.InlineFootnotes {
		return
	}

	index := make(map[string]int, len(p.footnoteOrder))
	for i, name := range p.footnoteOrder {
		index[name] = i + 1
	}

	refCounts := make(map[string]int)
	for _, n := range p.root.Descendants() {
		fr, ok := n.value.(*FootnoteReferenceValue)
		if !ok {
			continue
		}
		norm := normalizeLabel(fr.Name)
		fr.Index = index[norm]
		refCounts[norm]++
		fr.RefCount = refCounts[norm]
	}

	for _, def := range p.footnoteDefs {
		v := def.value.(*FootnoteDefinitionValue)
		v.Index = index[normalizeLabel(v.Name)]
	}

	for _, name := range p.footnoteOrder {
		def, ok := p.footnoteDefs[name]
		if !ok {
			continue
		}
		def.Detach()
		p.root.AppendChild(def)
	}

	if !p.options.Parse.LeaveFootnoteDefinitions {
		for name, def := range p.footnoteDefs {
			if index[name] == 0 {
				def.Detach()
			}
		}
	}
}
