package commonmark

import "bytes"

// bracket is one entry of the inline parser's bracket stack, pushed at
// '[' or '![' and popped (or matched) at ']' (§4.5.1, §4.5.4).
type bracket struct {
	node     *Node // the Text node holding the '[' or '![' marker
	position int   // byte offset in content just after the marker
	isImage  bool
	active   bool // deactivated once a surrounding link has matched, to forbid links-in-links

	// delimiterCountAtOpen is the length of ip.delimiters when this
	// bracket was pushed; processEmphasis is re-run from this floor once
	// the bracket resolves, so emphasis never crosses a bracket boundary
	// it didn't open inside of.
	delimiterCountAtOpen int
}

// parseOpenBracket handles '[' or '![': it appends the marker text and
// pushes a bracket stack entry (§4.5.2).
func (ip *inlineParser) parseOpenBracket(parent *Node, isImage bool) {
	marker := "["
	if isImage {
		marker = "!["
	}
	t := NewNode(Text, &TextValue{Literal: marker})
	parent.AppendChild(t)
	ip.noMerge = t
	ip.pos += len(marker)
	ip.brackets = append(ip.brackets, &bracket{
		node:                 t,
		position:             ip.pos,
		isImage:              isImage,
		active:               true,
		delimiterCountAtOpen: len(ip.delimiters),
	})
}

// parseCloseBracket handles ']': it tries an inline link, then a
// reference link, then (with footnotes enabled) a footnote reference,
// falling back to a literal ']' if nothing resolves (§4.5.4).
func (ip *inlineParser) parseCloseBracket(parent *Node) {
	if len(ip.brackets) == 0 {
		ip.appendText(parent, "]")
		ip.pos++
		return
	}
	b := ip.brackets[len(ip.brackets)-1]
	if !b.active {
		ip.brackets = ip.brackets[:len(ip.brackets)-1]
		ip.appendText(parent, "]")
		ip.pos++
		return
	}

	textEnd := ip.pos
	afterBracket := ip.pos + 1

	if url, title, consumed, ok := ip.scanInlineLinkTail(afterBracket); ok {
		ip.commitBracket(parent, b, url, title, afterBracket+consumed)
		return
	}

	if url, title, consumed, ok := ip.scanReferenceLinkTail(afterBracket, b, textEnd); ok {
		ip.commitBracket(parent, b, url, title, afterBracket+consumed)
		return
	}

	if ip.parser.options.Extension.Footnotes {
		raw := string(ip.content[b.position:textEnd])
		if len(raw) > 0 && raw[0] == '^' {
			ip.commitFootnoteRef(parent, b, raw[1:], afterBracket)
			return
		}
	}

	ip.brackets = ip.brackets[:len(ip.brackets)-1]
	ip.appendText(parent, "]")
	ip.pos = afterBracket
}

// scanInlineLinkTail recognizes "(" url [title] ")" starting at pos.
func (ip *inlineParser) scanInlineLinkTail(pos int) (url, title string, consumed int, ok bool) {
	b := ip.content
	if pos >= len(b) || b[pos] != '(' {
		return "", "", 0, false
	}
	i := pos + 1
	i += scanOptionalLineBreakSpace(b[i:])
	dest, n, destOK := scanLinkDestinationBytes(b[i:])
	if destOK {
		i += n
	} else {
		dest = ""
	}
	gap := scanOptionalLineBreakSpace(b[i:])
	i += gap
	if i < len(b) && b[i] != ')' {
		t, tn, tOK := scanLinkTitle(b[i:])
		if !tOK {
			return "", "", 0, false
		}
		title = unescapeBackslashAndEntities(string(t))
		i += tn
		i += scanOptionalLineBreakSpace(b[i:])
	}
	if i >= len(b) || b[i] != ')' {
		return "", "", 0, false
	}
	return unescapeBackslashAndEntities(dest), title, i + 1 - pos, true
}

// scanReferenceLinkTail recognizes a full "[label]", a collapsed "[]",
// or a shortcut reference (no trailing brackets at all; the bracket's
// own text span is the label), then resolves it against the reference
// map and the broken-link callback.
func (ip *inlineParser) scanReferenceLinkTail(pos int, br *bracket, textEnd int) (url, title string, consumed int, ok bool) {
	b := ip.content
	label := string(b[br.position:textEnd])
	n := 0
	if pos < len(b) && b[pos] == '[' {
		if lbl, ln, lok := scanLinkLabelBytes(b[pos:]); lok {
			n = ln
			if trimmed := bytes.TrimSpace([]byte(lbl)); len(trimmed) > 0 {
				label = lbl
			}
		} else {
			return "", "", 0, false
		}
	}
	ref, found := ip.parser.refMap.lookup(label)
	if found {
		return ref.url, ref.title, n, true
	}
	if cb := ip.parser.options.Parse.BrokenLinkCallback; cb != nil {
		norm := normalizeLabel(label)
		if u, t, cbOK := cb(norm, label); cbOK {
			return u, t, n, true
		}
	}
	return "", "", 0, false
}

// commitBracket builds the Link or Image node replacing everything from
// br.node (the opening marker text) through the current ']', runs
// process_emphasis over the gathered children, and (for non-image links)
// deactivates every other open non-image bracket below it on the stack
// so links cannot nest (§4.5.4).
func (ip *inlineParser) commitBracket(parent *Node, br *bracket, url, title string, newPos int) {
	kind := Link
	var value NodeValue = &LinkValue{URL: url, Title: title}
	if br.isImage {
		kind = Image
		value = &ImageValue{URL: url, Title: title}
	}
	wrapper := NewNode(kind, value)
	first := br.node.next
	br.node.InsertAfter(wrapper)
	for c := first; c != nil; {
		next := c.next
		c.Detach()
		wrapper.AppendChild(c)
		c = next
	}
	br.node.Detach()

	idx := len(ip.brackets) - 1
	ip.brackets = ip.brackets[:idx]

	innerIP := &inlineParser{parser: ip.parser, delimiters: ip.delimiters[br.delimiterCountAtOpen:]}
	ip.delimiters = ip.delimiters[:br.delimiterCountAtOpen]
	innerIP.processEmphasis(0)

	if !br.isImage {
		for _, other := range ip.brackets {
			if !other.isImage {
				other.active = false
			}
		}
	}

	ip.pos = newPos
}

// commitFootnoteRef builds a FootnoteReference from a "[^name]" bracket,
// recording first-encounter order for the postprocessing reorder pass
// (§4.4.6).
func (ip *inlineParser) commitFootnoteRef(parent *Node, br *bracket, name string, newPos int) {
	for c := br.node.next; c != nil; {
		next := c.next
		c.Detach()
		c = next
	}
	br.node.Detach()
	ip.brackets = ip.brackets[:len(ip.brackets)-1]

	p := ip.parser
	norm := normalizeLabel(name)
	if !p.footnoteSeen[norm] {
		p.footnoteSeen[norm] = true
		p.footnoteOrder = append(p.footnoteOrder, norm)
	}
	refCount := 1
	for _, c := range parent.Children() {
		if fr, ok := c.value.(*FootnoteReferenceValue); ok && normalizeLabel(fr.Name) == norm {
			refCount++
		}
	}
	parent.AppendChild(NewNode(FootnoteReference, &FootnoteReferenceValue{Name: name, RefCount: refCount}))
	ip.pos = newPos
}
