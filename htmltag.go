package commonmark

import "bytes"

// parseSpoiler handles GFM's "||spoiler text||" extension, dispatched on
// a lookahead of two '|' bytes from parseOne. It shares the non-nesting
// paired-marker machinery subscript's single '~' uses (§4.5.2).
func (ip *inlineParser) parseSpoiler(parent *Node) bool {
	return ip.parsePairedMarker(parent, "||", SpoileredText)
}

// parseAutolinkOrHTML handles everything that can start with '<':
// an autolink URI, an autolink email, or one of the five inline raw-HTML
// forms (open tag, closing tag, comment, processing instruction,
// declaration/CDATA) (§4.5.6, §4.5.8). Returns false, consuming nothing,
// if none match, so the caller falls back to a literal '<'.
func (ip *inlineParser) parseAutolinkOrHTML(parent *Node) bool {
	b := ip.content
	rest := b[ip.pos:]

	if n, ok := scanAutolinkURI(rest); ok {
		uri := string(rest[1 : n-1])
		ip.appendAutolink(parent, uri, uri)
		ip.pos += n
		return true
	}
	if n, ok := scanAutolinkEmail(rest); ok {
		addr := string(rest[1 : n-1])
		ip.appendAutolink(parent, "mailto:"+addr, addr)
		ip.pos += n
		return true
	}
	if n, ok := scanInlineHTML(rest); ok {
		parent.AppendChild(NewNode(HTMLInline, &HTMLInlineValue{Literal: string(rest[:n])}))
		ip.pos += n
		return true
	}
	return false
}

func (ip *inlineParser) appendAutolink(parent *Node, url, text string) {
	link := NewNode(Link, &LinkValue{URL: url})
	link.AppendChild(NewNode(Text, &TextValue{Literal: text}))
	parent.AppendChild(link)
}

// scanInlineHTML recognizes any of the five raw-HTML inline spans at the
// start of b: an open or closing tag, an HTML comment, a processing
// instruction, or a declaration (which also covers CDATA sections).
// Returns the number of bytes consumed.
func scanInlineHTML(b []byte) (int, bool) {
	if len(b) == 0 || b[0] != '<' {
		return 0, false
	}
	if n, ok := scanHTMLComment(b); ok {
		return n, true
	}
	if n, ok := scanHTMLProcessingInstruction(b); ok {
		return n, true
	}
	if n, ok := scanHTMLDeclarationOrCDATA(b); ok {
		return n, true
	}
	if n, ok := scanHTMLOpenOrCloseTag(b); ok {
		return n, true
	}
	return 0, false
}

func scanHTMLComment(b []byte) (int, bool) {
	if !bytes.HasPrefix(b, []byte("<!--")) {
		return 0, false
	}
	idx := bytes.Index(b[4:], []byte("-->"))
	if idx < 0 {
		return 0, false
	}
	end := 4 + idx + 3
	body := b[4 : 4+idx]
	if bytes.HasPrefix(body, []byte("-")) || bytes.HasSuffix(body, []byte("-")) || bytes.Contains(body, []byte("--")) {
		return 0, false
	}
	return end, true
}

func scanHTMLProcessingInstruction(b []byte) (int, bool) {
	if !bytes.HasPrefix(b, []byte("<?")) {
		return 0, false
	}
	idx := bytes.Index(b[2:], []byte("?>"))
	if idx < 0 {
		return 0, false
	}
	return 2 + idx + 2, true
}

func scanHTMLDeclarationOrCDATA(b []byte) (int, bool) {
	if bytes.HasPrefix(b, []byte("<![CDATA[")) {
		idx := bytes.Index(b[9:], []byte("]]>"))
		if idx < 0 {
			return 0, false
		}
		return 9 + idx + 3, true
	}
	if bytes.HasPrefix(b, []byte("<!")) && len(b) > 2 && isASCIIAlphaByte(b[2]) {
		idx := bytes.IndexByte(b[2:], '>')
		if idx < 0 {
			return 0, false
		}
		return 2 + idx + 1, true
	}
	return 0, false
}
