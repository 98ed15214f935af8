package commonmark

// parseShortcode handles the ":name:" emoji shortcode extension
// (§4.2, §4.5.2). Unrecognized names still produce a ShortCode node
// (with an empty Emoji field) rather than falling back to literal text,
// matching GitHub's behavior of rendering :unknown-name: verbatim as
// text anyway via the renderer, not the parser.
func (ip *inlineParser) parseShortcode(parent *Node) bool {
	b := ip.content
	n, ok := scanShortCode(b[ip.pos:])
	if !ok {
		return false
	}
	code := string(b[ip.pos+1 : ip.pos+n-1])
	parent.AppendChild(NewNode(ShortCode, &ShortCodeValue{Code: code, Emoji: shortCodeEmoji[code]}))
	ip.pos += n
	return true
}

// shortCodeEmoji maps a subset of GitHub's emoji shortcode names to
// their Unicode rendering. Not exhaustive, the same "immutable read-only
// data, not exhaustive" allowance spec §9 grants the named-entity table.
var shortCodeEmoji = map[string]string{
	"smile":          "😄",
	"laughing":       "😆",
	"blush":          "😊",
	"wink":           "😉",
	"heart":          "❤️",
	"thumbsup":       "👍",
	"thumbsdown":     "👎",
	"+1":             "👍",
	"-1":             "👎",
	"tada":           "🎉",
	"rocket":         "🚀",
	"fire":           "🔥",
	"eyes":           "👀",
	"warning":        "⚠️",
	"white_check_mark": "✅",
	"x":              "❌",
	"bug":            "🐛",
	"sparkles":       "✨",
	"memo":           "📝",
	"bulb":           "💡",
	"rotating_light": "🚨",
	"construction":   "🚧",
	"octocat":        "🐙",
	"smiley":         "😃",
	"joy":            "😂",
	"cry":            "😢",
	"sob":            "😭",
	"clap":           "👏",
	"pray":           "🙏",
	"100":            "💯",
}
