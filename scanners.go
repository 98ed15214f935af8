package commonmark

import "bytes"

// Scanners recognize bounded lexical shapes against a byte window and
// report how many bytes were consumed. None of them mutate state or
// look past the supplied window except to detect termination (§4.2).
// Each returns (n, true) on a match, consuming n bytes, or (0, false).

// scanSpaces consumes a run of spaces and tabs.
func scanSpaces(b []byte) int {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	return i
}

// scanATXHeadingStart recognizes "0-3 leading spaces, 1-6 '#', followed
// by end-of-line or one required space then text".
func scanATXHeadingStart(b []byte) (level int, contentStart int, ok bool) {
	i := scanLeadingIndent(b)
	if i > 3 {
		return 0, 0, false
	}
	start := i
	for i < len(b) && b[i] == '#' {
		i++
	}
	level = i - start
	if level < 1 || level > 6 {
		return 0, 0, false
	}
	if i >= len(b) || b[i] == '\n' || b[i] == '\r' {
		return level, i, true
	}
	if b[i] == ' ' || b[i] == '\t' {
		return level, i + 1, true
	}
	return 0, 0, false
}

// scanLeadingIndent returns the number of leading space bytes, capped at
// the point a tab or non-space is hit (tabs are expected to already have
// been expanded to columns by the caller when indent matters).
func scanLeadingIndent(b []byte) int {
	i := 0
	for i < len(b) && b[i] == ' ' {
		i++
	}
	return i
}

// scanThematicBreak recognizes "0-3 leading spaces, then >=3 of -, _, or
// *, interleavable with spaces/tabs, to end of line".
func scanThematicBreak(b []byte) bool {
	i := scanLeadingIndent(b)
	if i > 3 {
		return false
	}
	var ch byte
	count := 0
	for ; i < len(b); i++ {
		c := b[i]
		switch c {
		case '\n', '\r':
			return count >= 3
		case ' ', '\t':
			continue
		case '-', '_', '*':
			if ch == 0 {
				ch = c
			} else if c != ch {
				return false
			}
			count++
		default:
			return false
		}
	}
	return count >= 3
}

// scanCodeFence recognizes "0-3 leading spaces then >=3 of ` or ~ (same
// char)" and returns the fence character, length, and the column at
// which the fence begins (its indentation).
func scanCodeFence(b []byte) (ch byte, length int, indent int, ok bool) {
	indent = scanLeadingIndent(b)
	if indent > 3 {
		return 0, 0, 0, false
	}
	i := indent
	if i >= len(b) {
		return 0, 0, 0, false
	}
	c := b[i]
	if c != '`' && c != '~' {
		return 0, 0, 0, false
	}
	start := i
	for i < len(b) && b[i] == c {
		i++
	}
	length = i - start
	if length < 3 {
		return 0, 0, 0, false
	}
	// A backtick fence's info string cannot contain a backtick.
	if c == '`' && bytes.IndexByte(b[i:], '`') >= 0 {
		rest := b[i:]
		for _, r := range rest {
			if r == '\n' {
				break
			}
			if r == '`' {
				return 0, 0, 0, false
			}
		}
	}
	return c, length, indent, true
}

// scanCodeFenceClose recognizes a closing fence: same char, count >=
// opening count, and only spaces/tabs afterward.
func scanCodeFenceClose(b []byte, ch byte, minLength int) bool {
	i := scanLeadingIndent(b)
	if i > 3 {
		return false
	}
	start := i
	for i < len(b) && b[i] == ch {
		i++
	}
	length := i - start
	if length < minLength || length < 3 {
		return false
	}
	rest := b[i:]
	for _, c := range rest {
		if c == '\n' || c == '\r' {
			break
		}
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}

// scanSetextUnderline recognizes a line of only '=' or only '-',
// optionally followed by trailing spaces, returning the heading level.
func scanSetextUnderline(b []byte) (level int, ok bool) {
	i := scanLeadingIndent(b)
	if i > 3 || i >= len(b) {
		return 0, false
	}
	c := b[i]
	if c != '=' && c != '-' {
		return 0, false
	}
	start := i
	for i < len(b) && b[i] == c {
		i++
	}
	_ = start
	for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	if i < len(b) && b[i] != '\n' && b[i] != '\r' {
		return 0, false
	}
	if c == '=' {
		return 1, true
	}
	return 2, true
}

// scanMultilineBlockQuoteFence recognizes ">>>"-style fence runs of
// length >= 3 (comrak's multiline_block_quotes extension). The rest of
// the line is the caller's problem: a plain fence requires it blank,
// while the alerts extension allows an "[!TYPE]" marker there.
func scanMultilineBlockQuoteFence(b []byte) (length, indent int, ok bool) {
	indent = scanLeadingIndent(b)
	if indent > 3 {
		return 0, 0, false
	}
	i := indent
	start := i
	for i < len(b) && b[i] == '>' {
		i++
	}
	length = i - start
	if length < 3 {
		return 0, 0, false
	}
	return length, indent, true
}

// scanAlertMarker recognizes a GFM alert marker "[!TYPE]" as the entire
// remaining content of the current line inside a block quote's first
// line, e.g. "> [!NOTE]".
func scanAlertMarker(b []byte) (alertType string, ok bool) {
	if len(b) < 3 || b[0] != '[' || b[1] != '!' {
		return "", false
	}
	end := bytes.IndexByte(b, ']')
	if end < 0 {
		return "", false
	}
	name := b[2:end]
	rest := bytes.TrimRight(b[end+1:], " \t\r\n")
	if len(rest) != 0 {
		return "", false
	}
	upper := bytes.ToUpper(name)
	switch string(upper) {
	case "NOTE", "TIP", "IMPORTANT", "WARNING", "CAUTION":
		return string(bytes.ToLower(name)), true
	}
	return "", false
}

// scanFootnoteDefinitionStart recognizes "[^label]:" plus optional space.
func scanFootnoteDefinitionStart(b []byte) (label string, consumed int, ok bool) {
	i := scanLeadingIndent(b)
	if i > 3 || i+1 >= len(b) || b[i] != '[' || b[i+1] != '^' {
		return "", 0, false
	}
	start := i + 2
	j := start
	for j < len(b) && b[j] != ']' && b[j] != '\n' {
		j++
	}
	if j >= len(b) || b[j] != ']' || j == start {
		return "", 0, false
	}
	label = string(b[start:j])
	j++
	if j >= len(b) || b[j] != ':' {
		return "", 0, false
	}
	j++
	if j < len(b) && (b[j] == ' ' || b[j] == '\t') {
		j++
	}
	return label, j, true
}

// scanListBullet recognizes "-", "+", or "*" followed by at least one
// space/tab, or end of line (an empty bullet item).
func scanListBullet(b []byte) (char byte, consumed int, ok bool) {
	if len(b) == 0 {
		return 0, 0, false
	}
	c := b[0]
	if c != '-' && c != '+' && c != '*' {
		return 0, 0, false
	}
	if len(b) == 1 || b[1] == '\n' || b[1] == '\r' {
		return c, 1, true
	}
	if b[1] == ' ' || b[1] == '\t' {
		return c, 2, true
	}
	return 0, 0, false
}

// scanListOrdered recognizes "1-9 digits" followed by '.' or ')' then a
// space/tab or end of line.
func scanListOrdered(b []byte) (start int, delim byte, consumed int, ok bool) {
	i := 0
	for i < len(b) && i < 9 && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, 0, 0, false
	}
	if i >= len(b) || (b[i] != '.' && b[i] != ')') {
		return 0, 0, 0, false
	}
	delim = b[i]
	n := 0
	for _, c := range b[:i] {
		n = n*10 + int(c-'0')
	}
	i++
	if i >= len(b) || b[i] == '\n' || b[i] == '\r' {
		return n, delim, i, true
	}
	if b[i] == ' ' || b[i] == '\t' {
		return n, delim, i + 1, true
	}
	return 0, 0, 0, false
}

// htmlBlockStartType returns the 1-7 classification of an HTML block
// start per CommonMark, or 0 if none match. paragraphOpen indicates
// whether the currently open leaf block is a paragraph (type 7 is
// disallowed in that case).
func htmlBlockStartType(b []byte, paragraphOpen bool) int {
	i := scanLeadingIndent(b)
	if i > 3 || i >= len(b) || b[i] != '<' {
		return 0
	}
	rest := b[i:]
	lower := bytes.ToLower(rest)

	// Type 2: comment.
	if bytes.HasPrefix(lower, []byte("<!--")) {
		return 2
	}
	// Type 3: processing instruction.
	if bytes.HasPrefix(lower, []byte("<?")) {
		return 3
	}
	// Type 4: declaration.
	if bytes.HasPrefix(lower, []byte("<!")) && len(lower) > 2 && isASCIIAlphaByte(lower[2]) {
		return 4
	}
	// Type 5: CDATA.
	if bytes.HasPrefix(rest, []byte("<![CDATA[")) {
		return 5
	}
	// Type 1: script/pre/style/textarea.
	for _, tag := range []string{"<script", "<pre", "<style", "<textarea"} {
		if bytes.HasPrefix(lower, []byte(tag)) {
			after := lower[len(tag):]
			if len(after) == 0 || after[0] == ' ' || after[0] == '\t' || after[0] == '\n' || after[0] == '>' || after[0] == '\r' {
				return 1
			}
		}
	}
	// Type 6: block-level tag names.
	if tag, closing, ok := scanHTMLTagName(rest); ok {
		_ = closing
		if html6Tags[tag] {
			after := rest[1+len(tag):]
			if closing {
				after = rest[2+len(tag):]
			}
			if len(after) == 0 || after[0] == ' ' || after[0] == '\t' || after[0] == '\n' || after[0] == '\r' || after[0] == '>' ||
				(len(after) > 1 && after[0] == '/' && after[1] == '>') {
				return 6
			}
		}
	}
	// Type 7: any complete open or closing tag, on a line by itself,
	// not inside a paragraph.
	if !paragraphOpen {
		if n, ok := scanHTMLOpenOrCloseTag(rest); ok {
			after := bytes.TrimRight(rest[n:], " \t\r")
			if len(after) == 0 || after[0] == '\n' {
				return 7
			}
		}
	}
	return 0
}

func isASCIIAlphaByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

var html6Tags = func() map[string]bool {
	names := []string{
		"address", "article", "aside", "base", "basefont", "blockquote",
		"body", "caption", "center", "col", "colgroup", "dd", "details",
		"dialog", "dir", "div", "dl", "dt", "fieldset", "figcaption",
		"figure", "footer", "form", "frame", "frameset", "h1", "h2", "h3",
		"h4", "h5", "h6", "head", "header", "hr", "html", "iframe", "legend",
		"li", "link", "main", "menu", "menuitem", "nav", "noframes", "ol",
		"optgroup", "option", "p", "param", "search", "section", "summary",
		"table", "tbody", "td", "tfoot", "th", "thead", "title", "tr",
		"track", "ul",
	}
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}()

// scanHTMLTagName scans a leading "<name" or "</name" and returns the
// lowercased tag name.
func scanHTMLTagName(b []byte) (name string, closing bool, ok bool) {
	if len(b) == 0 || b[0] != '<' {
		return "", false, false
	}
	i := 1
	if i < len(b) && b[i] == '/' {
		closing = true
		i++
	}
	start := i
	for i < len(b) && (isASCIIAlphaByte(b[i]) || (i > start && (b[i] >= '0' && b[i] <= '9' || b[i] == '-'))) {
		i++
	}
	if i == start {
		return "", false, false
	}
	return string(bytes.ToLower(b[start:i])), closing, true
}

// scanHTMLOpenOrCloseTag scans a complete open tag (with optional
// attributes) or closing tag, as used by type-7 HTML blocks and inline
// HTML tag recognition. Returns the number of bytes consumed.
func scanHTMLOpenOrCloseTag(b []byte) (int, bool) {
	if len(b) == 0 || b[0] != '<' {
		return 0, false
	}
	i := 1
	closing := false
	if i < len(b) && b[i] == '/' {
		closing = true
		i++
	}
	start := i
	for i < len(b) && (isASCIIAlphaByte(b[i]) || (i > start && (b[i] >= '0' && b[i] <= '9' || b[i] == '-'))) {
		i++
	}
	if i == start {
		return 0, false
	}
	if closing {
		for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
			i++
		}
		if i < len(b) && b[i] == '>' {
			return i + 1, true
		}
		return 0, false
	}
	for {
		for i < len(b) && (b[i] == ' ' || b[i] == '\t' || b[i] == '\n') {
			i++
		}
		if i < len(b) && b[i] == '/' {
			i++
		}
		if i < len(b) && b[i] == '>' {
			return i + 1, true
		}
		// attribute name
		attrStart := i
		for i < len(b) && isAttrNameByte(b[i]) {
			i++
		}
		if i == attrStart {
			return 0, false
		}
		for i < len(b) && (b[i] == ' ' || b[i] == '\t' || b[i] == '\n') {
			i++
		}
		if i < len(b) && b[i] == '=' {
			i++
			for i < len(b) && (b[i] == ' ' || b[i] == '\t' || b[i] == '\n') {
				i++
			}
			if i >= len(b) {
				return 0, false
			}
			switch b[i] {
			case '"':
				end := bytes.IndexByte(b[i+1:], '"')
				if end < 0 {
					return 0, false
				}
				i = i + 1 + end + 1
			case '\'':
				end := bytes.IndexByte(b[i+1:], '\'')
				if end < 0 {
					return 0, false
				}
				i = i + 1 + end + 1
			default:
				vstart := i
				for i < len(b) && !isASCIISpaceByte(b[i]) && b[i] != '>' && b[i] != '"' && b[i] != '\'' && b[i] != '=' && b[i] != '<' && b[i] != '`' {
					i++
				}
				if i == vstart {
					return 0, false
				}
			}
		}
	}
}

func isAttrNameByte(c byte) bool {
	return isASCIIAlphaByte(c) || c == '_' || c == ':' || (c >= '0' && c <= '9') || c == '-' || c == '.'
}

func isASCIISpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// htmlBlockEnd reports whether line satisfies the end condition for the
// given HTML block type (1-5 have explicit end conditions; 6 and 7 end
// on the next blank line, tested by the block driver, not here).
func htmlBlockEnd(blockType int, line []byte) bool {
	lower := bytes.ToLower(line)
	switch blockType {
	case 1:
		return bytes.Contains(lower, []byte("</script>")) || bytes.Contains(lower, []byte("</pre>")) ||
			bytes.Contains(lower, []byte("</style>")) || bytes.Contains(lower, []byte("</textarea>"))
	case 2:
		return bytes.Contains(line, []byte("-->"))
	case 3:
		return bytes.Contains(line, []byte("?>"))
	case 4:
		return bytes.IndexByte(line, '>') >= 0
	case 5:
		return bytes.Contains(line, []byte("]]>"))
	}
	return false
}

// scanAutolinkURI recognizes "scheme ':' non-space-body '>'" per the
// CommonMark autolink grammar. Returns bytes consumed including both
// angle brackets.
func scanAutolinkURI(b []byte) (int, bool) {
	if len(b) == 0 || b[0] != '<' {
		return 0, false
	}
	i := 1
	start := i
	for i < len(b) && isSchemeByte(b[i]) {
		i++
	}
	if i-start < 2 || i-start > 32 || i >= len(b) || b[i] != ':' {
		return 0, false
	}
	i++
	for i < len(b) {
		c := b[i]
		if c == '>' {
			return i + 1, true
		}
		if c == '<' || c == ' ' || c == '\t' || c == '\n' || c <= 0x1f {
			return 0, false
		}
		i++
	}
	return 0, false
}

func isSchemeByte(c byte) bool {
	return isASCIIAlphaByte(c) || c >= '0' && c <= '9' || c == '+' || c == '.' || c == '-'
}

// scanAutolinkEmail recognizes an RFC-5322-like autolink email address.
func scanAutolinkEmail(b []byte) (int, bool) {
	if len(b) == 0 || b[0] != '<' {
		return 0, false
	}
	i := 1
	start := i
	for i < len(b) && isEmailLocalByte(b[i]) {
		i++
	}
	if i == start || i >= len(b) || b[i] != '@' {
		return 0, false
	}
	i++
	labelCount := 0
	for {
		lstart := i
		for i < len(b) && isEmailDomainByte(b[i]) {
			i++
		}
		if i == lstart {
			return 0, false
		}
		labelCount++
		if i < len(b) && b[i] == '.' {
			i++
			continue
		}
		break
	}
	if labelCount < 1 || i >= len(b) || b[i] != '>' {
		return 0, false
	}
	return i + 1, true
}

func isEmailLocalByte(c byte) bool {
	if isASCIIAlphaByte(c) || c >= '0' && c <= '9' {
		return true
	}
	switch c {
	case '.', '!', '#', '$', '%', '&', '\'', '*', '+', '/', '=', '?', '^', '_', '`', '{', '|', '}', '~', '-':
		return true
	}
	return false
}

func isEmailDomainByte(c byte) bool {
	return isASCIIAlphaByte(c) || c >= '0' && c <= '9' || c == '-'
}

// scanLinkTitle recognizes one of the three quoting forms: "...",
// '...', or (...). Backslash-escaped quote/paren characters inside do
// not terminate the title.
func scanLinkTitle(b []byte) (title []byte, consumed int, ok bool) {
	if len(b) == 0 {
		return nil, 0, false
	}
	var closer byte
	switch b[0] {
	case '"':
		closer = '"'
	case '\'':
		closer = '\''
	case '(':
		closer = ')'
	default:
		return nil, 0, false
	}
	i := 1
	for i < len(b) {
		c := b[i]
		if c == '\\' && i+1 < len(b) {
			i += 2
			continue
		}
		if c == closer {
			return b[1:i], i + 1, true
		}
		if closer == ')' && c == '(' {
			return nil, 0, false
		}
		i++
	}
	return nil, 0, false
}

// scanEntityReference recognizes "&" + name/numeric + ";" starting at
// b[0]=='&', returning the full match length including the ampersand
// and semicolon.
func scanEntityReference(b []byte) (int, bool) {
	if len(b) < 3 || b[0] != '&' {
		return 0, false
	}
	semi := bytes.IndexByte(b[1:], ';')
	if semi < 0 {
		return 0, false
	}
	semi += 1
	body := b[1:semi]
	if len(body) == 0 {
		return 0, false
	}
	if body[0] == '#' {
		digits := body[1:]
		if len(digits) > 0 && (digits[0] == 'x' || digits[0] == 'X') {
			digits = digits[1:]
			if len(digits) < 1 || len(digits) > 6 || !allHexDigits(digits) {
				return 0, false
			}
		} else {
			if len(digits) < 1 || len(digits) > 7 || !allDecimalDigits(digits) {
				return 0, false
			}
		}
		return semi + 1, true
	}
	if _, ok := namedEntities[string(body)]; ok {
		return semi + 1, true
	}
	return 0, false
}

func allHexDigits(b []byte) bool {
	for _, c := range b {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

func allDecimalDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// scanTableDelimiterRow recognizes a GFM table delimiter line:
// "|? (:?-+:? |)* :?-+:?" and returns the per-column alignments.
func scanTableDelimiterRow(line []byte) ([]TableAlignment, bool) {
	trimmed := bytes.TrimSpace(line)
	trimmed = bytes.Trim(trimmed, "|")
	if len(trimmed) == 0 {
		return nil, false
	}
	cells := splitUnescapedPipes(trimmed)
	if len(cells) == 0 {
		return nil, false
	}
	aligns := make([]TableAlignment, 0, len(cells))
	for _, cell := range cells {
		c := bytes.TrimSpace(cell)
		if len(c) == 0 {
			return nil, false
		}
		left := c[0] == ':'
		right := c[len(c)-1] == ':'
		if left {
			c = c[1:]
		}
		if right && len(c) > 0 {
			c = c[:len(c)-1]
		}
		if len(c) == 0 {
			return nil, false
		}
		for _, ch := range c {
			if ch != '-' {
				return nil, false
			}
		}
		switch {
		case left && right:
			aligns = append(aligns, AlignCenter)
		case left:
			aligns = append(aligns, AlignLeft)
		case right:
			aligns = append(aligns, AlignRight)
		default:
			aligns = append(aligns, AlignNone)
		}
	}
	return aligns, true
}

// splitUnescapedPipes splits a table row on '|' characters that are not
// backslash-escaped and not inside a backtick code span.
func splitUnescapedPipes(line []byte) [][]byte {
	var cells [][]byte
	var cur []byte
	inCode := false
	var codeTicks int
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '`' && !inCode:
			n := 1
			for i+n < len(line) && line[i+n] == '`' {
				n++
			}
			inCode = true
			codeTicks = n
			cur = append(cur, line[i:i+n]...)
			i += n - 1
		case c == '`' && inCode:
			n := 1
			for i+n < len(line) && line[i+n] == '`' {
				n++
			}
			if n == codeTicks {
				inCode = false
			}
			cur = append(cur, line[i:i+n]...)
			i += n - 1
		case c == '\\' && i+1 < len(line) && !inCode:
			cur = append(cur, line[i], line[i+1])
			i++
		case c == '|' && !inCode:
			cells = append(cells, cur)
			cur = nil
		default:
			cur = append(cur, c)
		}
	}
	cells = append(cells, cur)
	return cells
}

// scanTableRow reports whether line has the shape of a table row: it
// contains at least one unescaped, non-code pipe, after accounting for
// a possible leading/trailing pipe.
func scanTableRow(line []byte) bool {
	trimmed := bytes.TrimRight(line, "\n\r")
	trimmed = bytes.TrimSpace(trimmed)
	if len(trimmed) == 0 {
		return false
	}
	return len(splitUnescapedPipes(trimmed)) > 1 || bytes.HasPrefix(trimmed, []byte("|"))
}

// scanShortCode recognizes ":name:" with name restricted to
// alphanumerics, underscore, and '+'/'-' (GitHub emoji shortcode rules).
func scanShortCode(b []byte) (int, bool) {
	if len(b) == 0 || b[0] != ':' {
		return 0, false
	}
	i := 1
	start := i
	for i < len(b) && isShortCodeByte(b[i]) {
		i++
	}
	if i == start || i >= len(b) || b[i] != ':' {
		return 0, false
	}
	return i + 1, true
}

func isShortCodeByte(c byte) bool {
	return isASCIIAlphaByte(c) || c >= '0' && c <= '9' || c == '_' || c == '+' || c == '-'
}
