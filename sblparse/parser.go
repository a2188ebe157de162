// Package sblparse implements the Snowball recursive-descent parser
// (spec.md section 4.2): it drives sbllex.Lexer and produces a
// sblast.Program.
package sblparse

import (
	"strconv"

	"github.com/vippsas/snowballc/sblast"
	"github.com/vippsas/snowballc/sbllex"
	"github.com/vippsas/snowballc/sbltoken"
)

// Parser is a single-pass recursive-descent parser over one source file.
//
// CONVENTION (mirrors sqlparser.Parse's documented contract): every parse*
// method expects `p.tok` positioned on its first token, and leaves `p.tok`
// positioned on the first token past what it consumed.
type Parser struct {
	lex *sbllex.Lexer
	tok sbllex.Token

	sawStringDef bool
}

// Parse parses a complete Snowball source file.
func Parse(source string) (prog *sblast.Program, err error) {
	p := &Parser{lex: sbllex.New(source)}
	prog = &sblast.Program{
		StringEscapeOpen:  '{',
		StringEscapeClose: '}',
		BackwardModeNames: make(map[string]bool),
	}

	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*Error); ok {
				err = pe
				return
			}
			panic(r)
		}
	}()

	p.next()
	for p.tok.Type != sbltoken.EOFToken {
		p.parseTopLevel(prog)
	}
	return prog, nil
}

func (p *Parser) next() {
	p.tok = p.lex.Next()
	if lexErr := p.lex.Err(); lexErr != nil {
		p.fail(&Error{Pos: lexErr.Pos, Expected: "valid token", Got: lexErr.Message})
	}
}

func (p *Parser) fail(e *Error) {
	panic(e)
}

func (p *Parser) errorf(expected string) {
	p.fail(&Error{Pos: p.tok.Pos, Expected: expected, Got: describe(p.tok)})
}

func describe(t sbllex.Token) string {
	if t.Type == sbltoken.KeywordToken || t.Type == sbltoken.IdentToken || t.Type == sbltoken.StringToken || t.Type == sbltoken.IntToken {
		return t.Type.String() + " " + strconv.Quote(t.Lit)
	}
	return t.Type.String()
}

func (p *Parser) isKeyword(lit string) bool {
	return p.tok.Type == sbltoken.KeywordToken && p.tok.Lit == lit
}

func (p *Parser) expectIdent() string {
	if p.tok.Type != sbltoken.IdentToken {
		p.errorf("identifier")
	}
	name := p.tok.Lit
	p.next()
	return name
}

func (p *Parser) expectString() string {
	if p.tok.Type != sbltoken.StringToken {
		p.errorf("string literal")
	}
	lit := p.tok.Lit
	p.next()
	return lit
}

func (p *Parser) expect(tt sbltoken.Type) {
	if p.tok.Type != tt {
		p.errorf(tt.String())
	}
	p.next()
}

// --- top level ---

func (p *Parser) parseTopLevel(prog *sblast.Program) {
	switch {
	case p.isKeyword("routines"):
		p.next()
		prog.RoutineNames = append(prog.RoutineNames, p.parseNameList()...)
	case p.isKeyword("externals"):
		p.next()
		prog.ExternalNames = append(prog.ExternalNames, p.parseNameList()...)
	case p.isKeyword("integers"):
		p.next()
		prog.IntegerNames = append(prog.IntegerNames, p.parseNameList()...)
	case p.isKeyword("booleans"):
		p.next()
		prog.BooleanNames = append(prog.BooleanNames, p.parseNameList()...)
	case p.isKeyword("groupings"):
		p.next()
		prog.GroupingNames = append(prog.GroupingNames, p.parseNameList()...)
	case p.isKeyword("strings"):
		p.next()
		p.parseNameList() // accepted for grammar completeness, unused downstream
	case p.isKeyword("stringescapes"):
		// the delimiters are read raw from the lexer, so the keyword is not
		// advanced past with p.next() here
		if p.sawStringDef {
			p.fail(&Error{Pos: p.tok.Pos, Expected: "stringescapes before any stringdef", Got: "stringescapes after stringdef"})
		}
		open, closeCh, lexErr := p.lex.ReadTwoEscapeChars()
		if lexErr != nil {
			p.fail(&Error{Pos: lexErr.Pos, Expected: "two escape delimiter characters", Got: lexErr.Message})
		}
		prog.StringEscapeOpen, prog.StringEscapeClose = open, closeCh
		p.lex.SetStringEscapes(open, closeCh)
		p.next()
	case p.isKeyword("stringdef"):
		p.parseStringDef(prog)
	case p.isKeyword("backwardmode"):
		p.next()
		p.expect(sbltoken.LParenToken)
		for !p.isRParen() {
			if !p.isKeyword("define") {
				p.errorf("define")
			}
			name := p.parseDefine(prog)
			prog.BackwardModeNames[name] = true
		}
		p.expect(sbltoken.RParenToken)
	case p.isKeyword("define"):
		p.parseDefine(prog)
	default:
		p.errorf("top-level declaration")
	}
}

func (p *Parser) isRParen() bool { return p.tok.Type == sbltoken.RParenToken }

func (p *Parser) parseNameList() []string {
	p.expect(sbltoken.LParenToken)
	var names []string
	for p.tok.Type == sbltoken.IdentToken {
		names = append(names, p.tok.Lit)
		p.next()
	}
	p.expect(sbltoken.RParenToken)
	return names
}

func (p *Parser) parseStringDef(prog *sblast.Program) {
	p.next() // consume 'stringdef'
	p.sawStringDef = true
	name := p.expectIdent()

	var base int
	switch {
	case p.isKeyword("hex"):
		base = 16
		p.next()
	case p.isKeyword("decimal"):
		base = 10
		p.next()
	default:
		p.errorf("hex or decimal")
	}

	lit := p.expectString()
	n, convErr := strconv.ParseInt(lit, base, 32)
	if convErr != nil {
		p.fail(&Error{Pos: p.tok.Pos, Expected: "valid code point literal", Got: strconv.Quote(lit)})
	}
	r := rune(n)
	p.lex.DefineStringDef(name, r)
	prog.StringDefs = append(prog.StringDefs, sblast.StringDefDecl{Name: name, Rune: r})
}

// parseDefine handles `define NAME as CMD` (routine) and `define NAME
// EXPR` (grouping, disambiguated by the absence of `as`). It returns the
// defined name so callers inside backwardmode(...) can mark it.
func (p *Parser) parseDefine(prog *sblast.Program) string {
	p.next() // consume 'define'
	name := p.expectIdent()
	if p.isKeyword("as") {
		p.next()
		body := p.parseOr()
		prog.Defines = append(prog.Defines, sblast.RoutineDef{Name: name, Body: body})
		return name
	}
	expr := p.parseGroupingExpr()
	prog.Groupings = append(prog.Groupings, sblast.GroupingDecl{Name: name, Expr: expr})
	return name
}

func (p *Parser) parseGroupingExpr() sblast.GroupingExpr {
	left := p.parseGroupingAtom()
	for p.tok.Type == sbltoken.PlusToken || p.tok.Type == sbltoken.MinusToken {
		isPlus := p.tok.Type == sbltoken.PlusToken
		p.next()
		right := p.parseGroupingAtom()
		if isPlus {
			left = sblast.GroupingUnion{A: left, B: right}
		} else {
			left = sblast.GroupingDiff{A: left, B: right}
		}
	}
	return left
}

func (p *Parser) parseGroupingAtom() sblast.GroupingExpr {
	switch p.tok.Type {
	case sbltoken.StringToken:
		s := p.tok.Lit
		p.next()
		return sblast.GroupingLiteral{Str: s}
	case sbltoken.IdentToken:
		name := p.tok.Lit
		p.next()
		return sblast.GroupingRef{Name: name}
	default:
		p.errorf("string literal or grouping name")
		return nil
	}
}

// --- command expressions ---

// commandStartKeywords is the set of reserved words that may begin a
// command (spec.md section 4.2's atomic/unary-prefix commands).
var commandStartKeywords = map[string]bool{
	"not": true, "test": true, "try": true, "do": true, "fail": true,
	"reverse": true, "backwards": true, "repeat": true, "loop": true,
	"atleast": true, "goto": true, "gopast": true, "next": true, "hop": true,
	"setmark": true, "tomark": true, "atmark": true, "insert": true,
	"attach": true, "delete": true, "slice": true, "among": true, "substring": true,
}

func (p *Parser) canStartCommand() bool {
	switch p.tok.Type {
	case sbltoken.LParenToken, sbltoken.StringToken, sbltoken.IdentToken,
		sbltoken.LBracketToken, sbltoken.RBracketToken, sbltoken.ArrowToken,
		sbltoken.DollarToken:
		return true
	case sbltoken.KeywordToken:
		return commandStartKeywords[p.tok.Lit]
	default:
		return false
	}
}

func (p *Parser) parseOr() sblast.Command {
	left := p.parseSeq()
	for p.isKeyword("or") {
		p.next()
		right := p.parseSeq()
		left = sblast.Alternative{Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseSeq() sblast.Command {
	var cmds []sblast.Command
	for p.canStartCommand() {
		cmds = append(cmds, p.parseUnary())
		if p.isKeyword("and") {
			p.next()
		}
	}
	if len(cmds) == 0 {
		p.errorf("command")
	}
	if len(cmds) == 1 {
		return cmds[0]
	}
	return sblast.Sequence{Cmds: cmds}
}

func (p *Parser) parseUnary() sblast.Command {
	switch {
	case p.isKeyword("not"):
		p.next()
		return sblast.Not{Cmd: p.parseUnary()}
	case p.isKeyword("test"):
		p.next()
		return sblast.Test{Cmd: p.parseUnary()}
	case p.isKeyword("try"):
		p.next()
		return sblast.Try{Cmd: p.parseUnary()}
	case p.isKeyword("do"):
		p.next()
		return sblast.Do{Cmd: p.parseUnary()}
	case p.isKeyword("fail"):
		p.next()
		return sblast.Fail{Cmd: p.parseUnary()}
	case p.isKeyword("reverse"):
		p.next()
		return sblast.Reverse{Cmd: p.parseUnary()}
	case p.isKeyword("backwards"):
		p.next()
		return sblast.Backwards{Cmd: p.parseUnary()}
	case p.isKeyword("repeat"):
		p.next()
		return sblast.Repeat{Cmd: p.parseUnary()}
	case p.isKeyword("loop"):
		p.next()
		n := p.parseIntExpr()
		return sblast.Loop{N: n, Cmd: p.parseUnary()}
	case p.isKeyword("atleast"):
		p.next()
		n := p.parseIntExpr()
		return sblast.AtLeast{N: n, Cmd: p.parseUnary()}
	case p.isKeyword("goto"):
		p.next()
		return sblast.Goto{Cmd: p.parseUnary()}
	case p.isKeyword("gopast"):
		p.next()
		return sblast.GoPast{Cmd: p.parseUnary()}
	default:
		return p.parseAtom()
	}
}

func (p *Parser) parseAtom() sblast.Command {
	switch p.tok.Type {
	case sbltoken.LParenToken:
		p.next()
		c := p.parseOr()
		p.expect(sbltoken.RParenToken)
		return c
	case sbltoken.StringToken:
		s := p.tok.Lit
		p.next()
		return sblast.Literal{Str: s}
	case sbltoken.LBracketToken:
		p.next()
		return sblast.Bra{}
	case sbltoken.RBracketToken:
		p.next()
		return sblast.Ket{}
	case sbltoken.ArrowToken:
		p.next()
		return sblast.SetTo{Str: p.expectString()}
	case sbltoken.DollarToken:
		p.next()
		name := p.expectIdent()
		op := p.parseIntOpKind()
		return sblast.IntOp{Slot: name, Op: op, Expr: p.parseIntExpr()}
	case sbltoken.IdentToken:
		name := p.tok.Lit
		p.next()
		return sblast.NameRef{Name: name}
	case sbltoken.KeywordToken:
		return p.parseKeywordAtom()
	default:
		p.errorf("command")
		return nil
	}
}

func (p *Parser) parseKeywordAtom() sblast.Command {
	switch p.tok.Lit {
	case "next":
		p.next()
		return sblast.Next{}
	case "hop":
		p.next()
		return sblast.Hop{N: p.parseIntExpr()}
	case "setmark":
		p.next()
		return sblast.SetMark{Name: p.expectIdent()}
	case "tomark":
		p.next()
		return sblast.ToMark{Name: p.expectIdent()}
	case "atmark":
		p.next()
		return sblast.AtMark{Name: p.expectIdent()}
	case "insert":
		p.next()
		return sblast.Insert{Str: p.expectString()}
	case "attach":
		p.next()
		return sblast.Attach{Str: p.expectString()}
	case "delete":
		p.next()
		return sblast.Delete{}
	case "slice":
		p.next()
		switch {
		case p.isKeyword("from"):
			p.next()
			return sblast.SliceFrom{}
		case p.isKeyword("to"):
			p.next()
			return sblast.SliceTo{}
		default:
			p.errorf("from or to")
			return nil
		}
	case "substring":
		p.next()
		return sblast.Substring{}
	case "among":
		return p.parseAmong()
	default:
		p.errorf("command")
		return nil
	}
}

// parseAmong parses `among ( pat pat (action) pat (action) ... )`: a flat
// run of string patterns with an optional trailing parenthesized action;
// patterns accumulate until an action closes the arm (spec.md section
// 4.2/4.3 "strings with no action share the nearest trailing action").
func (p *Parser) parseAmong() sblast.Command {
	p.next() // consume 'among'
	p.expect(sbltoken.LParenToken)

	var arms []sblast.AmongArm
	var pending []string
	for !p.isRParen() {
		switch p.tok.Type {
		case sbltoken.StringToken:
			pending = append(pending, p.tok.Lit)
			p.next()
		case sbltoken.LParenToken:
			p.next()
			action := p.parseOr()
			p.expect(sbltoken.RParenToken)
			arms = append(arms, sblast.AmongArm{Patterns: pending, Action: action})
			pending = nil
		default:
			p.errorf("string literal or action in among")
		}
	}
	if len(pending) > 0 {
		arms = append(arms, sblast.AmongArm{Patterns: pending, Action: nil})
	}
	p.expect(sbltoken.RParenToken)
	return sblast.Among{Arms: arms}
}

// --- integer expressions ---

func (p *Parser) parseIntOpKind() sblast.IntOpKind {
	switch p.tok.Type {
	case sbltoken.EqualToken:
		p.next()
		return sblast.OpAssign
	case sbltoken.LessToken:
		p.next()
		return sblast.OpLess
	case sbltoken.LessEqToken:
		p.next()
		return sblast.OpLessEq
	case sbltoken.GreaterToken:
		p.next()
		return sblast.OpGreater
	case sbltoken.GreaterEqToken:
		p.next()
		return sblast.OpGreaterEq
	default:
		p.errorf("=, <, <=, > or >=")
		return sblast.OpAssign
	}
}

func (p *Parser) parseIntExpr() sblast.IntExpr {
	left := p.parseIntAtom()
	for p.tok.Type == sbltoken.PlusToken || p.tok.Type == sbltoken.MinusToken {
		op := byte('+')
		if p.tok.Type == sbltoken.MinusToken {
			op = '-'
		}
		p.next()
		right := p.parseIntAtom()
		left = sblast.IntBinOp{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseIntAtom() sblast.IntExpr {
	switch p.tok.Type {
	case sbltoken.IntToken:
		n := p.tok.IntValue()
		p.next()
		return sblast.IntLiteral{N: n}
	case sbltoken.MinusToken:
		p.next()
		return sblast.IntBinOp{Op: '-', Left: sblast.IntLiteral{N: 0}, Right: p.parseIntAtom()}
	case sbltoken.LParenToken:
		p.next()
		e := p.parseIntExpr()
		p.expect(sbltoken.RParenToken)
		return e
	case sbltoken.DollarToken:
		p.next()
		return sblast.IntSlotRef{Name: p.expectIdent()}
	case sbltoken.KeywordToken:
		switch p.tok.Lit {
		case "maxint":
			p.next()
			return sblast.IntMaxInt{}
		case "minint":
			p.next()
			return sblast.IntMinInt{}
		case "cursor":
			p.next()
			return sblast.IntCursor{}
		case "limit":
			p.next()
			return sblast.IntLimit{}
		case "size":
			p.next()
			return sblast.IntSize{}
		case "sizeof":
			p.next()
			return sblast.IntSizeOf{Str: p.expectString()}
		case "true":
			p.next()
			return sblast.IntTrue{}
		case "false":
			p.next()
			return sblast.IntFalse{}
		}
	}
	p.errorf("integer expression")
	return nil
}
