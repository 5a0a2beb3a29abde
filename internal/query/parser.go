package query

import (
	"regexp"
	"strconv"
	"strings"
)

// Parse parses a selector chain. Stages are separated by `|`; each stage runs
// against the results of the previous one.
func Parse(queryText string) (Chain, error) {
	p := &parser{query: queryText}
	p.skipSpaces()
	if p.eof() {
		return nil, p.errorf(p.pos, "empty query")
	}

	var chain Chain
	for {
		sel, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		chain = append(chain, sel)

		p.skipSpaces()
		if p.eof() {
			return chain, nil
		}
		if !p.consume("|") {
			return nil, p.errorf(p.pos, "expected '|' or end of query")
		}
		p.skipSpaces()
		if p.eof() {
			return nil, p.errorf(p.pos, "expected selector after '|'")
		}
	}
}

type parser struct {
	query string
	pos   int
}

func (p *parser) parseSelector() (Selector, error) {
	switch {
	case p.consume("#"):
		m, err := p.parseMatcher("|")
		if err != nil {
			return nil, err
		}
		return &SectionSelector{Title: m}, nil

	case p.consume("!["):
		return p.parseLink(true)

	case p.consume("["):
		return p.parseLink(false)

	case p.consume("```"):
		return p.parseCodeBlock()

	case p.consume("+++"):
		m, err := p.parseMatcher("|")
		if err != nil {
			return nil, err
		}
		return &FrontMatterSelector{Text: m}, nil

	case p.consume("</>"):
		m, err := p.parseMatcher("|")
		if err != nil {
			return nil, err
		}
		return &HTMLSelector{Text: m}, nil

	case p.consume(">"):
		m, err := p.parseMatcher("|")
		if err != nil {
			return nil, err
		}
		return &BlockquoteSelector{Text: m}, nil

	case p.consume("P:"):
		m, err := p.parseMatcher("|")
		if err != nil {
			return nil, err
		}
		return &ParagraphSelector{Text: m}, nil

	case p.consume(":-:"):
		return p.parseTable()

	case p.consume("-"):
		return p.parseListItem(false)

	case p.consumeOrderedMarker():
		return p.parseListItem(true)

	default:
		return nil, p.errorf(p.pos, "expected valid query")
	}
}

func (p *parser) parseListItem(ordered bool) (Selector, error) {
	p.skipSpaces()

	task := TaskAny
	if p.at("[") {
		switch {
		case p.consume("[ ]"):
			task = TaskUnchecked
		case p.consume("[x]"):
			task = TaskChecked
		case p.consume("[?]"):
			task = TaskEither
		default:
			return nil, p.errorf(p.pos, "expected [ ], [x], or [?]")
		}
	}

	m, err := p.parseMatcher("|")
	if err != nil {
		return nil, err
	}
	return &ListItemSelector{Ordered: ordered, Task: task, Text: m}, nil
}

func (p *parser) parseLink(image bool) (Selector, error) {
	text, err := p.parseMatcher("]")
	if err != nil {
		return nil, err
	}
	if !p.consume("]") {
		return nil, p.errorf(p.pos, "expected ']'")
	}
	if !p.consume("(") {
		return nil, p.errorf(p.pos, "expected '('")
	}
	url, err := p.parseMatcher(")")
	if err != nil {
		return nil, err
	}
	if !p.consume(")") {
		return nil, p.errorf(p.pos, "expected ')'")
	}
	return &LinkSelector{Text: text, URL: url, Image: image}, nil
}

func (p *parser) parseCodeBlock() (Selector, error) {
	// The language sticks to the fence, as in markdown itself: ```go
	lang := StringMatcher{Any: true}
	start := p.pos
	for !p.eof() && isLanguageChar(p.query[p.pos]) {
		p.pos++
	}
	if word := p.query[start:p.pos]; word != "" && word != "*" {
		lang = StringMatcher{Pattern: word}
	}

	content, err := p.parseMatcher("|")
	if err != nil {
		return nil, err
	}
	return &CodeBlockSelector{Language: lang, Content: content}, nil
}

func (p *parser) parseTable() (Selector, error) {
	column, err := p.parseMatcher("|", ":-:")
	if err != nil {
		return nil, err
	}
	row := StringMatcher{Any: true}
	if p.consume(":-:") {
		row, err = p.parseMatcher("|")
		if err != nil {
			return nil, err
		}
	}
	return &TableSelector{Column: column, Row: row}, nil
}

// parseMatcher reads one matcher, stopping before any of the stop tokens.
func (p *parser) parseMatcher(stops ...string) (StringMatcher, error) {
	p.skipSpaces()
	if p.eof() || p.atAny(stops) {
		return StringMatcher{Any: true}, nil
	}

	var m StringMatcher
	if p.consume("^") {
		m.AnchorStart = true
	}

	switch {
	case p.consume("*"):
		if m.AnchorStart {
			return m, p.errorf(p.pos-1, "'*' cannot be anchored")
		}
		m.Any = true
		p.skipSpaces()
		if !p.eof() && !p.atAny(stops) {
			return m, p.errorf(p.pos, "unexpected text after '*'")
		}
		return m, nil

	case p.at("\"") || p.at("'"):
		pattern, err := p.parseQuoted()
		if err != nil {
			return m, err
		}
		m.Pattern = pattern
		m.CaseSensitive = true

	case p.at("/"):
		re, err := p.parseRegex()
		if err != nil {
			return m, err
		}
		m.Regex = re
		return m, nil

	default:
		raw := p.readUntilAny(stops)
		raw = strings.TrimSpace(raw)
		if strings.HasSuffix(raw, "$") {
			m.AnchorEnd = true
			raw = strings.TrimRight(strings.TrimSuffix(raw, "$"), " ")
		}
		if raw == "" && !m.AnchorStart && !m.AnchorEnd {
			m.Any = true
			return m, nil
		}
		m.Pattern = raw
		return m, nil
	}

	if p.consume("$") {
		m.AnchorEnd = true
	}
	return m, nil
}

func (p *parser) parseQuoted() (string, error) {
	start := p.pos
	quote := p.query[p.pos]
	p.pos++

	var sb strings.Builder
	for !p.eof() {
		c := p.query[p.pos]
		switch {
		case c == quote:
			p.pos++
			return sb.String(), nil
		case c == '\\':
			p.pos++
			if p.eof() {
				return "", p.errorf(p.pos, "unterminated escape sequence")
			}
			esc := p.query[p.pos]
			p.pos++
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '\'', '"':
				sb.WriteByte(esc)
			case 'u':
				r, err := p.parseUnicodeEscape()
				if err != nil {
					return "", err
				}
				sb.WriteRune(r)
			default:
				return "", p.errorf(p.pos-1, "unknown escape sequence")
			}
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf(start, "unterminated quoted string")
}

func (p *parser) parseUnicodeEscape() (rune, error) {
	if !p.consume("{") {
		return 0, p.errorf(p.pos, "expected '{' after \\u")
	}
	start := p.pos
	end := strings.IndexByte(p.query[start:], '}')
	if end < 0 {
		return 0, p.errorf(start, "unterminated unicode sequence")
	}
	v, err := strconv.ParseUint(p.query[start:start+end], 16, 32)
	if err != nil {
		return 0, p.errorf(start, "invalid unicode sequence")
	}
	p.pos = start + end + 1
	return rune(v), nil
}

func (p *parser) parseRegex() (*regexp.Regexp, error) {
	start := p.pos
	p.pos++ // opening slash

	var sb strings.Builder
	for !p.eof() {
		c := p.query[p.pos]
		if c == '/' {
			p.pos++
			re, err := regexp.Compile(sb.String())
			if err != nil {
				return nil, p.errorf(start, "invalid regex: "+err.Error())
			}
			return re, nil
		}
		if c == '\\' && p.pos+1 < len(p.query) && p.query[p.pos+1] == '/' {
			sb.WriteByte('/')
			p.pos += 2
			continue
		}
		sb.WriteByte(c)
		p.pos++
	}
	return nil, p.errorf(start, "unterminated regex")
}

func (p *parser) consumeOrderedMarker() bool {
	i := p.pos
	for i < len(p.query) && p.query[i] >= '0' && p.query[i] <= '9' {
		i++
	}
	if i == p.pos || i >= len(p.query) || p.query[i] != '.' {
		return false
	}
	p.pos = i + 1
	return true
}

func (p *parser) readUntilAny(stops []string) string {
	start := p.pos
	for !p.eof() && !p.atAny(stops) {
		p.pos++
	}
	return p.query[start:p.pos]
}

func (p *parser) eof() bool { return p.pos >= len(p.query) }

func (p *parser) at(prefix string) bool {
	return strings.HasPrefix(p.query[p.pos:], prefix)
}

func (p *parser) atAny(stops []string) bool {
	for _, s := range stops {
		if p.at(s) {
			return true
		}
	}
	return false
}

func (p *parser) consume(prefix string) bool {
	if !p.at(prefix) {
		return false
	}
	p.pos += len(prefix)
	return true
}

func (p *parser) skipSpaces() {
	for !p.eof() && (p.query[p.pos] == ' ' || p.query[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) errorf(pos int, message string) *ParseError {
	return &ParseError{Query: p.query, Pos: pos, Message: message}
}

func isLanguageChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-' || c == '+' || c == '*':
		return true
	}
	return false
}
