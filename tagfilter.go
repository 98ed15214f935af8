package commonmark

import (
	"bytes"
	"strings"
)

// tagfilterTags is the fixed set of tag names GFM's tagfilter extension
// neutralizes wherever they appear as raw HTML (inline or block), to
// close off the classic script/style/iframe injection vectors without
// disabling raw HTML altogether.
var tagfilterTags = []string{
	"title", "textarea", "style", "xmp", "iframe",
	"noembed", "noframes", "script", "plaintext",
}

// FilterTags rewrites every occurrence of "<" immediately followed by
// (optionally "/") one of tagfilterTags, case-insensitively, into
// "&lt;", leaving the rest of the tag as literal text. It is applied by
// the HTML renderer to HTMLInline/HTMLBlock literals when
// Options.Extension.Tagfilter is set; the core parser itself never
// rejects or rewrites raw HTML (§7: the parser is total).
func FilterTags(s string) string {
	lower := strings.ToLower(s)
	var out bytes.Buffer
	i := 0
	for i < len(s) {
		if s[i] != '<' {
			out.WriteByte(s[i])
			i++
			continue
		}
		rest := lower[i+1:]
		rest = strings.TrimPrefix(rest, "/")
		matched := false
		for _, tag := range tagfilterTags {
			if strings.HasPrefix(rest, tag) {
				after := rest[len(tag):]
				if len(after) == 0 || after[0] == ' ' || after[0] == '>' || after[0] == '\n' || after[0] == '/' {
					matched = true
					break
				}
			}
		}
		if matched {
			out.WriteString("&lt;")
			i++
			continue
		}
		out.WriteByte(s[i])
		i++
	}
	return out.String()
}
