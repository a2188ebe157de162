// Package sbllex implements the Snowball lexer: it turns UTF-8 source text
// into a lazy sequence of Token values, expanding {name} string
// escapes inline so that downstream stages only ever see raw Unicode
// strings (spec.md section 4.1).
package sbllex

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vippsas/snowballc/sbltoken"
)

// Token is one lexical item. Lit holds the decoded literal for IntToken
// (as a string form convertible via strconv) and StringToken (already
// escape-expanded); for KeywordToken it holds the lower-case keyword
// spelling, mirroring sqlparser.Scanner.ReservedWord().
type Token struct {
	Type sbltoken.Type
	Lit  string
	Pos  sbltoken.Pos
}

func (t Token) IntValue() int {
	n, _ := strconv.Atoi(t.Lit)
	return n
}

// Lexer is a cursor over the input buffer together with the currently
// active string-escape configuration. Unlike sqlparser.Scanner it is not
// fused with parsing; sblparse.Parser drives it by repeated calls to
// Next(), but pushes stringescapes/stringdef declarations back into it as
// they are parsed, since escape expansion happens inline during scanning.
type Lexer struct {
	input string

	startIndex int
	curIndex   int
	line, col  int // position of startIndex

	escOpen, escClose rune
	escapesSet        bool // stringescapes seen; false -> accept defaults lazily
	defs              map[string]rune

	err *Error
}

// Error is a lexical error; it aborts translation (spec.md section 7).
type Error struct {
	Pos     sbltoken.Pos
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(input string) *Lexer {
	return &Lexer{
		input:   input,
		line:    1,
		col:     1,
		escOpen: '{', escClose: '}',
		defs: make(map[string]rune),
	}
}

// Err returns the lexical error raised by the most recent Next() call, if
// any token came back as an error token.
func (l *Lexer) Err() *Error { return l.err }

// SetStringEscapes installs the two-character escape delimiter pair
// declared by a `stringescapes` directive. Per spec.md's open question,
// this must be called before any `stringdef` is registered, and before any
// string literal that uses the new delimiters is scanned.
func (l *Lexer) SetStringEscapes(open, closeCh rune) {
	l.escOpen, l.escClose = open, closeCh
	l.escapesSet = true
}

// DefineStringDef binds name to a literal rune for subsequent {name}
// expansions inside string literals.
func (l *Lexer) DefineStringDef(name string, r rune) {
	l.defs[name] = r
}

func (l *Lexer) pos() sbltoken.Pos {
	return sbltoken.Pos{Line: l.line, Col: l.col}
}

func (l *Lexer) advance(n int) {
	for _, r := range l.input[l.curIndex : l.curIndex+n] {
		if r == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}
	l.curIndex += n
}

// Next scans and returns the next token, advancing the lexer's position.
func (l *Lexer) Next() Token {
	l.skipWhitespaceAndComments()
	l.startIndex = l.curIndex
	start := l.pos()

	r, w := utf8.DecodeRuneInString(l.input[l.curIndex:])
	if w == 0 {
		return Token{Type: sbltoken.EOFToken, Pos: start}
	}

	switch r {
	case '(':
		l.advance(w)
		return Token{Type: sbltoken.LParenToken, Pos: start}
	case ')':
		l.advance(w)
		return Token{Type: sbltoken.RParenToken, Pos: start}
	case '[':
		l.advance(w)
		return Token{Type: sbltoken.LBracketToken, Pos: start}
	case ']':
		l.advance(w)
		return Token{Type: sbltoken.RBracketToken, Pos: start}
	case '=':
		l.advance(w)
		return Token{Type: sbltoken.EqualToken, Pos: start}
	case '+':
		l.advance(w)
		return Token{Type: sbltoken.PlusToken, Pos: start}
	case '$':
		l.advance(w)
		return Token{Type: sbltoken.DollarToken, Pos: start}
	case '<':
		r2, w2 := utf8.DecodeRuneInString(l.input[l.curIndex+w:])
		if r2 == '-' {
			l.advance(w + w2)
			return Token{Type: sbltoken.ArrowToken, Pos: start}
		}
		if r2 == '=' {
			l.advance(w + w2)
			return Token{Type: sbltoken.LessEqToken, Pos: start}
		}
		l.advance(w)
		return Token{Type: sbltoken.LessToken, Pos: start}
	case '-':
		l.advance(w)
		return Token{Type: sbltoken.MinusToken, Pos: start}
	case '>':
		r2, w2 := utf8.DecodeRuneInString(l.input[l.curIndex+w:])
		if r2 == '=' {
			l.advance(w + w2)
			return Token{Type: sbltoken.GreaterEqToken, Pos: start}
		}
		l.advance(w)
		return Token{Type: sbltoken.GreaterToken, Pos: start}
	case '\'':
		l.advance(w)
		return l.scanString(start)
	}

	if r >= '0' && r <= '9' {
		return l.scanInt(start)
	}
	if isIdentStart(r) {
		return l.scanIdentOrKeyword(start)
	}

	l.advance(w)
	l.err = &Error{Pos: start, Message: "unexpected character " + strconv.QuoteRune(r)}
	return Token{Type: sbltoken.UnexpectedCharErrorToken, Lit: string(r), Pos: start}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		r, w := utf8.DecodeRuneInString(l.input[l.curIndex:])
		if w == 0 {
			return
		}
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.advance(w)
		case r == '/' && strings.HasPrefix(l.input[l.curIndex:], "//"):
			end := strings.IndexByte(l.input[l.curIndex:], '\n')
			if end == -1 {
				l.advance(len(l.input) - l.curIndex)
			} else {
				l.advance(end)
			}
		case r == '/' && strings.HasPrefix(l.input[l.curIndex:], "/*"):
			end := strings.Index(l.input[l.curIndex+2:], "*/")
			if end == -1 {
				l.advance(len(l.input) - l.curIndex)
			} else {
				l.advance(end + 4)
			}
		default:
			return
		}
	}
}

// ReadTwoEscapeChars reads the two raw delimiter characters following a
// `stringescapes` keyword directly from the input, bypassing normal
// tokenization: the delimiters are written unquoted in source (e.g.
// `stringescapes { }`) and need not be members of the regular token set.
func (l *Lexer) ReadTwoEscapeChars() (open, closeCh rune, err *Error) {
	l.skipWhitespaceAndComments()
	pos := l.pos()
	r1, w1 := utf8.DecodeRuneInString(l.input[l.curIndex:])
	if w1 == 0 {
		return 0, 0, &Error{Pos: pos, Message: "expected escape-open character, got EOF"}
	}
	l.advance(w1)
	l.skipWhitespaceAndComments()
	pos2 := l.pos()
	r2, w2 := utf8.DecodeRuneInString(l.input[l.curIndex:])
	if w2 == 0 {
		return 0, 0, &Error{Pos: pos2, Message: "expected escape-close character, got EOF"}
	}
	l.advance(w2)
	return r1, r2, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func (l *Lexer) scanIdentOrKeyword(start sbltoken.Pos) Token {
	for {
		r, w := utf8.DecodeRuneInString(l.input[l.curIndex:])
		if w == 0 || !isIdentCont(r) {
			break
		}
		l.advance(w)
	}
	lit := l.input[l.startIndex:l.curIndex]
	if _, ok := sbltoken.Keywords[lit]; ok {
		return Token{Type: sbltoken.KeywordToken, Lit: lit, Pos: start}
	}
	return Token{Type: sbltoken.IdentToken, Lit: lit, Pos: start}
}

func (l *Lexer) scanInt(start sbltoken.Pos) Token {
	for {
		r, w := utf8.DecodeRuneInString(l.input[l.curIndex:])
		if w == 0 || r < '0' || r > '9' {
			break
		}
		l.advance(w)
	}
	return Token{Type: sbltoken.IntToken, Lit: l.input[l.startIndex:l.curIndex], Pos: start}
}

// scanString scans a single-quoted literal, expanding {name} escapes using
// the lexer's current stringescapes delimiters and stringdef table.
// Assumes the opening quote has already been consumed.
func (l *Lexer) scanString(start sbltoken.Pos) Token {
	var sb strings.Builder
	for {
		r, w := utf8.DecodeRuneInString(l.input[l.curIndex:])
		if w == 0 {
			l.err = &Error{Pos: start, Message: "unterminated string literal"}
			return Token{Type: sbltoken.UnterminatedStringErrorToken, Pos: start}
		}
		if r == '\'' {
			l.advance(w)
			return Token{Type: sbltoken.StringToken, Lit: sb.String(), Pos: start}
		}
		if r == l.escOpen {
			namePos := l.pos()
			l.advance(w)
			nameStart := l.curIndex
			for {
				r2, w2 := utf8.DecodeRuneInString(l.input[l.curIndex:])
				if w2 == 0 || r2 == l.escClose {
					break
				}
				l.advance(w2)
			}
			name := l.input[nameStart:l.curIndex]
			r2, w2 := utf8.DecodeRuneInString(l.input[l.curIndex:])
			if w2 == 0 || r2 != l.escClose {
				l.err = &Error{Pos: namePos, Message: "unterminated escape reference {" + name}
				return Token{Type: sbltoken.InvalidEscapeErrorToken, Pos: namePos}
			}
			l.advance(w2)
			ch, ok := l.defs[name]
			if !ok {
				l.err = &Error{Pos: namePos, Message: "unknown string escape name " + strconv.Quote(name)}
				return Token{Type: sbltoken.InvalidEscapeErrorToken, Lit: name, Pos: namePos}
			}
			sb.WriteRune(ch)
			continue
		}
		sb.WriteRune(r)
		l.advance(w)
	}
}
