package dynamizer

import (
	"go.uber.org/zap"
	"regexp"
	"strings"
)

// Kind of a span recognized by a Matcher.
type Kind int

const (
	Literal  Kind = iota // text between recognized spans
	Comment              // block or line comment
	Module               // module declaration
	Function             // function declaration carrying the configured prefix
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Comment:
		return "comment"
	case Module:
		return "module"
	case Function:
		return "function"
	default:
		return "unknown"
	}
}

// Match is one span of a document. Start and End are byte offsets, Text is the span itself.
type Match struct {
	Kind       Kind
	Start, End int
	Text       string
	ReturnType string // Function only
	Name       string // Function only, prefix included
	Params     string // Function only, parentheses included
	Module     string // Module only, the dotted path
}

const (
	comment    = `/\*(?s:.*?)\*/|//.*`
	identifier = `[\p{L}_][\p{L}\p{Nd}_]*`
	module     = `\bmodule\s+(?P<path>` + identifier + `(?:\.` + identifier + `)*);`

	// the return type starts on a non blank character, stays on the line and never crosses a statement
	// or block boundary. Only block comments closed on the same line may appear inside.
	inlineComment = `/\*(?:[^*\n]|\*+[^*/\n])*\*+/`
	returnType    = `[^\s/;{}](?:[^\n/;{}]|/[^\n/*;{}]|` + inlineComment + `)*?`
	suffix        = `[\p{L}\p{Nd}_]+`
	params        = `\((?s:.*?)\)`
)

// Matcher recognizes comments, module declarations and prefixed function declarations.
// It is immutable once compiled and serves a whole run.
type Matcher struct {
	config Config
	re     *regexp.Regexp

	comment, module, path, function, ret, name, params int
}

// Compile builds the Matcher of cfg.
//
// The alternatives are tried in priority order at each position: block comment, line comment,
// module declaration then function declaration, so a commented out declaration is never rewritten.
func Compile(cfg Config) (m *Matcher, err error) {
	if err = cfg.Validate(); err != nil {
		return
	}
	pattern := `(?P<comment>` + comment + `)` +
		`|(?P<module>` + module + `)` +
		`|(?P<function>(?P<ret>` + returnType + `)[ \t]+` +
		`(?P<name>` + regexp.QuoteMeta(cfg.Prefix) + suffix + `)[ \t]*` +
		`(?P<params>` + params + `)[ \t]*;)`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return
	}
	m = &Matcher{
		config:   cfg,
		re:       re,
		comment:  re.SubexpIndex("comment"),
		module:   re.SubexpIndex("module"),
		path:     re.SubexpIndex("path"),
		function: re.SubexpIndex("function"),
		ret:      re.SubexpIndex("ret"),
		name:     re.SubexpIndex("name"),
		params:   re.SubexpIndex("params"),
	}
	Logger().Debug("compiled matcher",
		zap.String("prefix", cfg.Prefix),
		zap.String("version", cfg.Version),
		zap.String("pattern", pattern))
	return
}

// Config returns the configuration m was compiled from.
func (m *Matcher) Config() Config {
	return m.config
}

// Matches returns the recognized spans of text in document order, literal spans excluded.
func (m *Matcher) Matches(text string) (v []Match) {
	for _, loc := range m.re.FindAllStringSubmatchIndex(text, -1) {
		v = append(v, m.match(text, loc))
	}
	return
}

// Scan returns a Scanner over text.
func (m *Matcher) Scan(text string) *Scanner {
	return &Scanner{m: m, text: text, locs: m.re.FindAllStringSubmatchIndex(text, -1)}
}

func (m *Matcher) match(text string, loc []int) (x Match) {
	group := func(i int) string {
		if i < 0 || loc[2*i] < 0 {
			return ""
		}
		return text[loc[2*i]:loc[2*i+1]]
	}
	x.Start, x.End = loc[0], loc[1]
	x.Text = text[x.Start:x.End]
	switch {
	case loc[2*m.comment] >= 0:
		x.Kind = Comment
	case loc[2*m.module] >= 0:
		x.Kind = Module
		x.Module = group(m.path)
	default:
		x.Kind = Function
		x.ReturnType = group(m.ret)
		x.Name = group(m.name)
		x.Params = group(m.params)
	}
	return
}

// Scanner walks a document span by span. Joining the Text of every span yields the document again.
type Scanner struct {
	m    *Matcher
	text string
	locs [][]int
	pos  int
	next int
}

// Next returns the next span, ok is false once the document is exhausted.
func (s *Scanner) Next() (x Match, ok bool) {
	if s.pos >= len(s.text) {
		return
	}
	if s.next < len(s.locs) {
		loc := s.locs[s.next]
		if loc[0] > s.pos {
			x = s.literal(loc[0])
			return x, true
		}
		s.next++
		s.pos = loc[1]
		return s.m.match(s.text, loc), true
	}
	return s.literal(len(s.text)), true
}

func (s *Scanner) literal(end int) (x Match) {
	x = Match{Kind: Literal, Start: s.pos, End: end, Text: s.text[s.pos:end]}
	s.pos = end
	return
}

// Line returns the 1-based line number of offset in text.
func Line(text string, offset int) int {
	return strings.Count(text[:offset], "\n") + 1
}
