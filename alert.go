package commonmark

import (
	"bytes"
	"strings"
)

// tryOpenAlertOrMultiline recognizes the GFM alert marker ("> [!NOTE]"
// or, with multiline block quotes also enabled, ">>> [!NOTE]") and the
// plain ">>>"-fenced multiline block quote. It is tried ahead of the
// ordinary single-line block quote marker so an alert's '>' prefix isn't
// mistaken for a plain quote.
func (p *Parser) tryOpenAlertOrMultiline(cursor *columnTracker, line []byte) bool {
	indent, rest := lookaheadIndent(cursor)
	if indent > 3 {
		return false
	}

	if p.options.Extension.MultilineBlockQuotes {
		if length, fenceIndent, ok := scanMultilineBlockQuoteFence(rest); ok {
			afterFence := bytes.TrimSpace(bytes.TrimRight(rest[fenceIndent+length:], "\r\n"))
			if p.options.Extension.Alerts && len(afterFence) > 0 {
				if alertType, ok := scanAlertMarker(afterFence); ok {
					al := NewNode(Alert, &AlertValue{
						AlertType:   alertType,
						Title:       titleCase(alertType),
						Multiline:   true,
						FenceLength: length,
						FenceOffset: fenceIndent,
					})
					p.addChild(al, p.lineNo, cursor.column+1)
					cursor.offset = len(line)
					p.consumedWholeLine = true
					return true
				}
			}
			if len(afterFence) == 0 {
				mbq := NewNode(MultilineBlockQuote, &MultilineBlockQuoteValue{FenceLength: length, FenceOffset: fenceIndent})
				p.addChild(mbq, p.lineNo, cursor.column+1)
				cursor.offset = len(line)
				p.consumedWholeLine = true
				return true
			}
		}
	}

	if p.options.Extension.Alerts && len(rest) > 0 && rest[0] == '>' {
		after := rest[1:]
		if len(after) > 0 && (after[0] == ' ' || after[0] == '\t') {
			after = after[1:]
		}
		if alertType, ok := scanAlertMarker(bytes.TrimRight(after, "\r\n")); ok {
			al := NewNode(Alert, &AlertValue{AlertType: alertType, Title: titleCase(alertType)})
			p.addChild(al, p.lineNo, cursor.column+1)
			cursor.offset = len(line)
			p.consumedWholeLine = true
			return true
		}
	}

	return false
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
