package css

import (
	"strings"

	"github.com/milkwidget/milk/internal/diag"
	"github.com/milkwidget/milk/internal/style"
)

// Parse scans rule blocks out of a stylesheet document. Comments are
// skipped wherever they appear. A structural fault (unclosed block,
// nested block, stray brace, unterminated comment) aborts the whole
// parse: the table comes back empty with a single diagnostic carrying
// the line number. Unknown properties inside well-formed rules are
// ignored.
//
// path is used to tag diagnostics and may be empty.
func Parse(src, path string) (Table, diag.List) {
	var diags diag.List
	table := Table{}
	s := &scanner{src: src, line: 1}

	for {
		selector, ok, err := s.readSelector()
		if err != nil {
			diags.Structural(path, err.line, 0, "%s", err.msg)
			return Table{}, diags
		}
		if !ok {
			return table, diags
		}

		body, err := s.readBody()
		if err != nil {
			diags.Structural(path, err.line, 0, "%s", err.msg)
			return Table{}, diags
		}

		sheet := style.New()
		for _, decl := range splitDeclarations(body) {
			colon := strings.IndexByte(decl, ':')
			if colon < 0 {
				continue
			}
			property := strings.ToLower(strings.TrimSpace(decl[:colon]))
			value := strings.TrimSpace(decl[colon+1:])
			applyProperty(&sheet, property, value)
		}

		// comma selectors each get their own copy of the sheet
		for _, sel := range strings.Split(selector, ",") {
			sel = strings.TrimSpace(sel)
			if sel == "" {
				continue
			}
			table[sel] = sheet
		}
	}
}

type scanError struct {
	line int
	msg  string
}

// scanner walks the source byte-wise, tracking the current line.
type scanner struct {
	src  string
	pos  int
	line int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) advance() byte {
	c := s.src[s.pos]
	if c == '\n' {
		s.line++
	}
	s.pos++
	return c
}

// skipComment consumes a comment if one starts at the current position.
func (s *scanner) skipComment() (bool, *scanError) {
	if !strings.HasPrefix(s.src[s.pos:], "/*") {
		return false, nil
	}
	start := s.line
	s.pos += 2
	for {
		if s.eof() {
			return false, &scanError{start, "unterminated comment"}
		}
		if strings.HasPrefix(s.src[s.pos:], "*/") {
			s.pos += 2
			return true, nil
		}
		s.advance()
	}
}

// readSelector accumulates text up to the opening brace of the next
// rule. ok is false at a clean end of input.
func (s *scanner) readSelector() (string, bool, *scanError) {
	var b strings.Builder
	for {
		if s.eof() {
			if strings.TrimSpace(b.String()) != "" {
				return "", false, &scanError{s.line, "rule is missing its { } block"}
			}
			return "", false, nil
		}
		if skipped, err := s.skipComment(); err != nil {
			return "", false, err
		} else if skipped {
			continue
		}
		switch s.src[s.pos] {
		case '{':
			s.advance()
			selector := strings.TrimSpace(b.String())
			if selector == "" {
				return "", false, &scanError{s.line, "rule block has no selector"}
			}
			return selector, true, nil
		case '}':
			return "", false, &scanError{s.line, "unexpected '}' outside a rule block"}
		default:
			b.WriteByte(s.advance())
		}
	}
}

// readBody accumulates declaration text up to the closing brace.
func (s *scanner) readBody() (string, *scanError) {
	start := s.line
	var b strings.Builder
	for {
		if s.eof() {
			return "", &scanError{start, "unclosed rule block"}
		}
		if skipped, err := s.skipComment(); err != nil {
			return "", err
		} else if skipped {
			continue
		}
		switch s.src[s.pos] {
		case '{':
			return "", &scanError{s.line, "nested rule blocks are not supported"}
		case '}':
			s.advance()
			return b.String(), nil
		default:
			b.WriteByte(s.advance())
		}
	}
}

// splitDeclarations splits a rule body on semicolons outside
// parentheses, so functional values like rgba(...) survive intact.
func splitDeclarations(body string) []string {
	var decls []string
	depth := 0
	start := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				decls = append(decls, body[start:i])
				start = i + 1
			}
		}
	}
	return append(decls, body[start:])
}
