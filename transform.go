package dynamizer

import (
	"strings"
)

// Result of transforming one document.
type Result struct {
	Text      string   // rewritten document
	Entries   []string // loader entries in document order
	Functions int      // dynamized function declarations
	Modules   int      // module declarations
}

// Transform rewrites every prefixed function declaration of text into a static/dynamic version block
// and collects the loader entries of the document.
//
// Comments, module declarations and any other text are copied unchanged.
func (m *Matcher) Transform(text string) (r Result) {
	var b strings.Builder
	b.Grow(len(text) + len(text)/2)
	nl := newline(text)
	s := m.Scan(text)
	for x, ok := s.Next(); ok; x, ok = s.Next() {
		switch x.Kind {
		case Function:
			m.rewrite(&b, x, nl, leading(text, x.Start))
			r.Entries = append(r.Entries, BindSymbol(x.Name))
			r.Functions++
		case Module:
			b.WriteString(x.Text)
			r.Entries = append(r.Entries, ImportModule(x.Module))
			r.Modules++
		default:
			b.WriteString(x.Text)
		}
	}
	r.Text = b.String()
	return
}

// rewrite writes the version block of function x, every generated line starting with lead:
//
//	version(Static)
//		int x_init(int a, int b);
//	else
//	{
//		private alias fp_x_init = int function(int a, int b);
//		__gshared fp_x_init x_init;
//	}
//
// The first line is not prefixed, lead already precedes x in the document.
func (m *Matcher) rewrite(b *strings.Builder, x Match, nl, lead string) {
	c := m.config
	alias := c.PointerPrefix + x.Name
	line := func(s string) {
		b.WriteString(nl)
		b.WriteString(lead)
		b.WriteString(s)
	}
	b.WriteString("version(")
	b.WriteString(c.Version)
	b.WriteString(")")
	line(indent(x.Text, c.Indent))
	line("else")
	line("{")
	line(indent("private alias "+alias+" = "+x.ReturnType+" function"+x.Params+";", c.Indent))
	line(indent("__gshared "+alias+" "+x.Name+";", c.Indent))
	line("}")
}

// leading returns the blanks opening the line of offset, empty when anything else precedes offset on that line.
func leading(text string, offset int) string {
	i := strings.LastIndexByte(text[:offset], '\n') + 1
	if s := text[i:offset]; strings.Trim(s, " \t") == "" {
		return s
	}
	return ""
}

// indent prefixes s and every line continuation inside s with one indent unit.
func indent(s, unit string) string {
	return unit + strings.ReplaceAll(s, "\n", "\n"+unit)
}

// newline returns the line terminator of the first line of text, "\n" when there is none.
func newline(text string) string {
	if i := strings.IndexByte(text, '\n'); i > 0 && text[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
