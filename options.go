package commonmark

// Options is the immutable configuration value read by the parser and,
// where noted, by renderers. It partitions into Extension, Parse, and
// Render groups exactly as spec.md §6.1 describes. Construct one with
// NewOptions and a chain of Option funcs; never read from a process-wide
// singleton (design note, §9).
type Options struct {
	Extension ExtensionOptions
	Parse     ParseOptions
	Render    RenderOptions
}

// ExtensionOptions enables grammar variants beyond base CommonMark.
type ExtensionOptions struct {
	Strikethrough            bool
	Tagfilter                bool
	Table                    bool
	Autolink                 bool
	Tasklist                 bool
	Superscript              bool
	Subscript                bool
	Underline                bool
	Spoiler                  bool
	Greentext                bool
	Alerts                   bool
	MultilineBlockQuotes     bool
	MathDollars              bool
	MathCode                 bool
	DescriptionLists         bool
	Footnotes                bool
	InlineFootnotes          bool
	Shortcodes               bool
	CJKFriendlyEmphasis      bool
	Subtext                  bool
	WikilinksTitleBeforePipe bool
	WikilinksTitleAfterPipe  bool

	// HeaderIDs, when non-nil, turns on automatic heading-id generation
	// with the given string prepended to every generated id.
	HeaderIDs *string

	// FrontMatterDelimiter, when non-nil, is the byte sequence (e.g.
	// "---" or "+++") that opens and closes a front matter block at the
	// very start of the document.
	FrontMatterDelimiter *string

	// ImageURLRewriter and LinkURLRewriter are consulted only by
	// renderers, never by the parser; they are carried on Options
	// because both producer (parser, for front-matter-style delimiters)
	// and consumer (renderer) read from the same immutable value.
	ImageURLRewriter func(url string) string
	LinkURLRewriter  func(url string) string
}

// ParseOptions affect the parser's own behavior.
type ParseOptions struct {
	Smart                    bool
	DefaultInfoString        string
	RelaxedTasklistMatching  bool
	TasklistInTable          bool
	RelaxedAutolinks         bool
	IgnoreSetext             bool
	EscapedCharSpans         bool
	LeaveFootnoteDefinitions bool

	// BrokenLinkCallback is consulted when a reference link/image fails
	// to resolve against the reference map. normalized is the
	// normalized label; original is the raw bracketed text. Returning
	// ok=false leaves the bracket text as literal.
	BrokenLinkCallback func(normalized, original string) (url, title string, ok bool)
}

// RenderOptions affect rendering only. (EscapedCharSpans, which makes the
// inline parser wrap backslash-escaped characters in an Escaped node, is
// in ParseOptions above.)
type RenderOptions struct {
	HardBreaks        bool
	UnsafeHTML        bool
	EscapeHTML        bool
	GithubPreLang     bool
	FullInfoString    bool
	Width             int
	ListStyle         string
}

// Option mutates an Options value being built by NewOptions.
type Option func(*Options)

// NewOptions builds an Options value from zero or more Option funcs.
// The zero value already matches plain CommonMark with no extensions.
func NewOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithStrikethrough() Option { return func(o *Options) { o.Extension.Strikethrough = true } }
func WithTagfilter() Option     { return func(o *Options) { o.Extension.Tagfilter = true } }
func WithTable() Option         { return func(o *Options) { o.Extension.Table = true } }
func WithAutolink() Option      { return func(o *Options) { o.Extension.Autolink = true } }
func WithTasklist() Option      { return func(o *Options) { o.Extension.Tasklist = true } }
func WithSuperscript() Option   { return func(o *Options) { o.Extension.Superscript = true } }
func WithSubscript() Option     { return func(o *Options) { o.Extension.Subscript = true } }
func WithUnderline() Option     { return func(o *Options) { o.Extension.Underline = true } }
func WithSpoiler() Option       { return func(o *Options) { o.Extension.Spoiler = true } }
func WithGreentext() Option     { return func(o *Options) { o.Extension.Greentext = true } }
func WithAlerts() Option        { return func(o *Options) { o.Extension.Alerts = true } }
func WithMultilineBlockQuotes() Option {
	return func(o *Options) { o.Extension.MultilineBlockQuotes = true }
}
func WithMathDollars() Option     { return func(o *Options) { o.Extension.MathDollars = true } }
func WithMathCode() Option        { return func(o *Options) { o.Extension.MathCode = true } }
func WithDescriptionLists() Option { return func(o *Options) { o.Extension.DescriptionLists = true } }
func WithFootnotes() Option       { return func(o *Options) { o.Extension.Footnotes = true } }
func WithInlineFootnotes() Option { return func(o *Options) { o.Extension.InlineFootnotes = true } }
func WithShortcodes() Option      { return func(o *Options) { o.Extension.Shortcodes = true } }
func WithCJKFriendlyEmphasis() Option {
	return func(o *Options) { o.Extension.CJKFriendlyEmphasis = true }
}
func WithSubtext() Option { return func(o *Options) { o.Extension.Subtext = true } }
func WithWikilinksTitleBeforePipe() Option {
	return func(o *Options) { o.Extension.WikilinksTitleBeforePipe = true }
}
func WithWikilinksTitleAfterPipe() Option {
	return func(o *Options) { o.Extension.WikilinksTitleAfterPipe = true }
}
func WithHeaderIDs(prefix string) Option {
	return func(o *Options) { o.Extension.HeaderIDs = &prefix }
}
func WithFrontMatterDelimiter(delim string) Option {
	return func(o *Options) { o.Extension.FrontMatterDelimiter = &delim }
}
func WithGFM() Option {
	return func(o *Options) {
		WithStrikethrough()(o)
		WithTagfilter()(o)
		WithTable()(o)
		WithAutolink()(o)
		WithTasklist()(o)
	}
}

func WithSmart() Option            { return func(o *Options) { o.Parse.Smart = true } }
func WithRelaxedAutolinks() Option { return func(o *Options) { o.Parse.RelaxedAutolinks = true } }
func WithIgnoreSetext() Option     { return func(o *Options) { o.Parse.IgnoreSetext = true } }
func WithEscapedCharSpans() Option { return func(o *Options) { o.Parse.EscapedCharSpans = true } }
func WithDefaultInfoString(info string) Option {
	return func(o *Options) { o.Parse.DefaultInfoString = info }
}
func WithRelaxedTasklistMatching() Option {
	return func(o *Options) { o.Parse.RelaxedTasklistMatching = true }
}
func WithTasklistInTable() Option { return func(o *Options) { o.Parse.TasklistInTable = true } }
func WithLeaveFootnoteDefinitions() Option {
	return func(o *Options) { o.Parse.LeaveFootnoteDefinitions = true }
}
func WithBrokenLinkCallback(cb func(normalized, original string) (string, string, bool)) Option {
	return func(o *Options) { o.Parse.BrokenLinkCallback = cb }
}

func WithHardBreaks() Option { return func(o *Options) { o.Render.HardBreaks = true } }
func WithUnsafeHTML() Option { return func(o *Options) { o.Render.UnsafeHTML = true } }
