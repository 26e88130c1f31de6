// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package strip removes comments from TypeScript and JavaScript source.
//
// Source is tokenized with the tdewolff JavaScript lexer. Comment tokens are
// dropped and every other token is copied through unchanged, so comment
// markers inside string, template and regular expression literals are kept.
package strip

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

// SyntaxError reports source that could not be scanned.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Strip returns src with all comments removed.
//
// Lines left blank by a removed comment are dropped, trailing whitespace is
// trimmed outside of literals, line endings become "\n", and leading and
// trailing blank lines are removed. A non-empty result ends in one newline.
func Strip(src string) (string, error) {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")

	s := &scanner{
		src:          src,
		regexOK:      true,
		commentLines: make(map[int]bool),
		literalLines: make(map[int]bool),
	}
	s.shebang()
	if err := s.run(); err != nil {
		return "", err
	}
	return s.finish(), nil
}

// Words after which a slash starts a regular expression rather than a division.
var regexKeywords = map[string]bool{
	"return":     true,
	"typeof":     true,
	"instanceof": true,
	"in":         true,
	"of":         true,
	"new":        true,
	"delete":     true,
	"void":       true,
	"throw":      true,
	"case":       true,
	"do":         true,
	"else":       true,
	"yield":      true,
	"await":      true,
}

// Keywords whose parenthesized head is followed by a statement, so a slash
// after the closing paren starts a regular expression.
var controlKeywords = map[string]bool{
	"if":    true,
	"while": true,
	"for":   true,
	"with":  true,
}

type scanner struct {
	src   string
	pos   int
	lexer *js.Lexer

	out     strings.Builder
	line    int
	lastOut byte

	// commentLines are output lines a comment was removed from.
	commentLines map[int]bool
	// literalLines are output lines that end inside a string or template.
	literalLines map[int]bool

	// regexOK is set when a slash at this point starts a regular expression.
	regexOK bool
	// prevWord is the previous significant token when it was a word.
	prevWord string
	// parens records, per open paren, whether it follows a control keyword.
	parens []bool
	// templates holds source offsets of templates waiting for their closing backtick.
	templates []int
	// skipSpace drops the blanks that follow an inline comment at line start.
	skipSpace bool
}

func (s *scanner) emit(b byte) {
	s.out.WriteByte(b)
	s.lastOut = b
	if b == '\n' {
		s.line++
	}
}

func (s *scanner) emitText(text string) {
	for i := 0; i < len(text); i++ {
		s.emit(text[i])
	}
}

// emitLiteral writes text that belongs to a string or template literal.
func (s *scanner) emitLiteral(text string) {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			s.literalLines[s.line] = true
		}
		s.emit(text[i])
	}
}

func (s *scanner) errorAt(offset int, format string, args ...any) error {
	return &SyntaxError{
		Line: 1 + strings.Count(s.src[:offset], "\n"),
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (s *scanner) shebang() {
	if !strings.HasPrefix(s.src, "#!") {
		return
	}
	end := strings.IndexByte(s.src, '\n')
	if end < 0 {
		end = len(s.src)
	}
	s.emitText(s.src[:end])
	s.pos = end
}

func (s *scanner) restart() {
	s.lexer = js.NewLexer(parse.NewInputString(s.src[s.pos:]))
}

func (s *scanner) run() error {
	s.restart()
	for {
		tt, data := s.lexer.Next()
		if tt == js.ErrorToken {
			if s.pos >= len(s.src) {
				break
			}
			// Decorators are not ECMAScript tokens; copy the sign and lex on.
			if s.src[s.pos] == '@' {
				s.emit('@')
				s.pos++
				s.regexOK, s.prevWord = true, ""
				s.restart()
				continue
			}
			if err := s.lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return s.errorAt(s.pos, "unexpected character %q", s.src[s.pos])
			}
			return s.errorAt(s.pos, "unexpected end of input")
		}

		start := s.pos
		text := string(data)
		s.pos += len(text)

		if s.skipSpace {
			s.skipSpace = false
			if tt == js.WhitespaceToken {
				continue
			}
		}

		var err error
		switch tt {
		case js.WhitespaceToken, js.LineTerminatorToken:
			s.emitText(text)
		case js.CommentToken, js.CommentLineTerminatorToken:
			err = s.comment(start, text)
		case js.StringToken:
			err = s.stringLiteral(start, text)
		case js.TemplateToken, js.TemplateStartToken, js.TemplateMiddleToken, js.TemplateEndToken:
			err = s.template(start, text)
		case js.DivToken, js.DivEqToken:
			if s.regexOK {
				err = s.regex(start)
			} else {
				s.punct(text)
			}
		default:
			s.token(text)
		}
		if err != nil {
			return err
		}
	}

	if n := len(s.templates); n > 0 {
		return s.errorAt(s.templates[n-1], "unterminated template literal")
	}
	return nil
}

func (s *scanner) comment(start int, text string) error {
	s.commentLines[s.line] = true
	if !strings.HasPrefix(text, "/*") {
		if strings.HasSuffix(text, "\n") {
			s.emit('\n')
		}
		return nil
	}
	if len(text) < 4 || !strings.HasSuffix(text, "*/") {
		return s.errorAt(start, "unterminated block comment")
	}

	switch {
	case strings.Contains(text, "\n"):
		// Keep the line break so automatic semicolon insertion is unchanged.
		s.emit('\n')
		s.commentLines[s.line] = true
	case isIdentByte(s.lastOut) && s.pos < len(s.src) && isIdentByte(s.src[s.pos]):
		s.emit(' ')
	case isBlank(s.lastOut):
		s.skipSpace = true
	}
	return nil
}

func (s *scanner) stringLiteral(start int, text string) error {
	if len(text) < 2 || text[len(text)-1] != text[0] || escaped(text) || strings.Contains(text, "\n") && !strings.Contains(text, "\\\n") {
		return s.errorAt(start, "unterminated string literal")
	}
	s.emitLiteral(text)
	s.regexOK, s.prevWord = false, ""
	return nil
}

func (s *scanner) template(start int, text string) error {
	continued := text[0] == '}'
	if strings.HasSuffix(text, "${") {
		if !continued {
			s.templates = append(s.templates, start)
		}
		s.emitLiteral(text)
		s.regexOK, s.prevWord = true, ""
		return nil
	}

	if len(text) < 2 || text[len(text)-1] != '`' || escaped(text) {
		if continued && len(s.templates) > 0 {
			start = s.templates[len(s.templates)-1]
		}
		return s.errorAt(start, "unterminated template literal")
	}
	if continued && len(s.templates) > 0 {
		s.templates = s.templates[:len(s.templates)-1]
	}
	s.emitLiteral(text)
	s.regexOK, s.prevWord = false, ""
	return nil
}

func (s *scanner) regex(start int) error {
	tt, data := s.lexer.RegExp()
	text := string(data)
	if tt == js.ErrorToken || !strings.HasPrefix(text, "/") || strings.LastIndexByte(text, '/') == 0 || strings.Contains(text, "\n") {
		return s.errorAt(start, "unterminated regular expression")
	}
	s.pos = start + len(text)
	s.emitText(text)
	s.regexOK, s.prevWord = false, ""
	return nil
}

// token copies an identifier, keyword, number or punctuator.
func (s *scanner) token(text string) {
	c := text[0]
	switch {
	case isDigit(c) || (c == '.' && len(text) > 1):
		s.emitText(text)
		s.regexOK, s.prevWord = false, ""
	case isIdentByte(c) || c == '#' || c == '\\':
		s.emitText(text)
		s.regexOK, s.prevWord = regexKeywords[text], text
	default:
		s.punct(text)
	}
}

func (s *scanner) punct(text string) {
	s.emitText(text)
	switch text {
	case "(":
		s.parens = append(s.parens, controlKeywords[s.prevWord])
		s.regexOK = true
	case ")":
		s.regexOK = false
		if n := len(s.parens); n > 0 {
			s.regexOK = s.parens[n-1]
			s.parens = s.parens[:n-1]
		}
	case "]", "++", "--":
		// Postfix increments end an operand like a closing bracket does.
		s.regexOK = false
	default:
		s.regexOK = true
	}
	s.prevWord = ""
}

func (s *scanner) finish() string {
	lines := strings.Split(s.out.String(), "\n")
	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		if s.literalLines[i] {
			kept = append(kept, line)
			continue
		}
		line = strings.TrimRight(line, " \t")
		if line == "" && s.commentLines[i] {
			continue
		}
		kept = append(kept, line)
	}

	result := strings.Trim(strings.Join(kept, "\n"), "\n")
	if result == "" {
		return ""
	}
	return result + "\n"
}

// escaped reports whether the last byte of text is preceded by an odd run of
// backslashes.
func escaped(text string) bool {
	n := 0
	for i := len(text) - 2; i >= 0 && text[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// isBlank reports whether c leaves the output at the start of a line or after
// whitespace.
func isBlank(c byte) bool {
	return c == 0 || c == '\n' || c == ' ' || c == '\t'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || isDigit(c) ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}
