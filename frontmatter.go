package commonmark

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// tryConsumeFrontMatter recognizes a front matter block at the very
// start of the document: a line consisting solely of the configured
// delimiter, followed by zero or more lines, followed by a line
// consisting solely of the same delimiter. It only handles the opening
// delimiter line (the caller only calls this for line 1): it opens the
// FrontMatter node and sets p.frontMatterOpen, and processLine then
// appends each following line until the closing delimiter is seen or the
// input runs out.
func (p *Parser) tryConsumeFrontMatter(line []byte) bool {
	delim := *p.options.Extension.FrontMatterDelimiter
	trimmed := bytes.TrimRight(line, "\n\r")
	if string(trimmed) != delim {
		return false
	}

	fm := NewNode(FrontMatter, &FrontMatterValue{Delimiter: delim})
	p.addChild(fm, p.lineNo, 1)
	appendLineToBlock(fm, line, p.lineNo)
	p.frontMatterOpen = true
	return true
}

// frontMatterClosingLine reports whether line is itself a closing
// delimiter line for a front matter block opened with delim.
func frontMatterClosingLine(line []byte, delim string) bool {
	return string(bytes.TrimRight(line, "\n\r")) == delim
}

// decodeFrontMatterYAML parses the front matter body (the lines between
// the two delimiter lines) as YAML into v.Data. Raw holds the whole
// block including both delimiter lines, which must not reach the YAML
// decoder ("---" would read as a document separator).
func decodeFrontMatterYAML(v *FrontMatterValue) {
	lines := bytes.Split([]byte(v.Raw), []byte("\n"))
	if len(lines) > 0 && string(bytes.TrimRight(lines[0], "\r")) == v.Delimiter {
		lines = lines[1:]
	}
	for len(lines) > 0 && len(bytes.TrimSpace(lines[len(lines)-1])) == 0 {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > 0 && string(bytes.TrimRight(lines[len(lines)-1], "\r")) == v.Delimiter {
		lines = lines[:len(lines)-1]
	}
	body := bytes.Join(lines, []byte("\n"))

	var data map[string]interface{}
	if err := yaml.Unmarshal(body, &data); err != nil {
		v.DecodeErr = err
		return
	}
	v.Data = data
}
