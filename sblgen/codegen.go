package sblgen

import (
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"

	"github.com/vippsas/snowballc/sblast"
	"github.com/vippsas/snowballc/sblsem"
)

// Generate lowers an analyzed program into a formatted Go source file
// exposing one exported function per external routine, following the
// package-per-stemmer layout spec.md section 5 describes.
func Generate(pkgName string, prog *sblsem.Program) (string, error) {
	g := &generator{prog: prog, decls: &strings.Builder{}}

	g.genGroupingVars()

	for _, name := range prog.RoutineOrder {
		r := prog.Routines[name]
		g.genRoutine(r)
	}

	g.genExternals()

	full := fmt.Sprintf(runtimePreamble, pkgName) + g.decls.String()

	formatted, err := format.Source([]byte(full))
	if err != nil {
		// Surface the unformatted source alongside the error so a caller
		// can inspect what codegen actually produced.
		return full, fmt.Errorf("formatting generated source: %w", err)
	}
	return string(formatted), nil
}

type generator struct {
	prog  *sblsem.Program
	decls *strings.Builder

	amongCounter int
	lastAmong    string // most recently emitted among-trie var, for `substring` sugar
}

func (g *generator) genGroupingVars() {
	names := make([]string, 0, len(g.prog.Groupings))
	for name := range g.prog.Groupings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		set := g.prog.Groupings[name]
		var parts []string
		for _, r := range set.Runes {
			parts = append(parts, strconv.QuoteRune(r))
		}
		fmt.Fprintf(g.decls, "var sblGroup_%s = sblRuneSet{%s}\n\n", name, strings.Join(parts, ", "))
	}
}

// genRoutine emits one or two Go functions for r, per
// sblsem.Routine.NeedsBothForms.
func (g *generator) genRoutine(r *sblsem.Routine) {
	g.lastAmong = ""
	if r.NeedsBothForms() {
		implName := "r_" + r.Name + "_impl"
		body := g.genCmd(r.Body)
		fmt.Fprintf(g.decls, "func %s(s *sblState) bool {\nreturn %s\n}\n\n", implName, body)
		fmt.Fprintf(g.decls, "func r_%s_fwd(s *sblState) bool { return sblRunForward(s, func() bool { return %s(s) }) }\n\n", r.Name, implName)
		fmt.Fprintf(g.decls, "func r_%s_bwd(s *sblState) bool { return sblRunBackward(s, func() bool { return %s(s) }) }\n\n", r.Name, implName)
		return
	}
	body := g.genCmd(r.Body)
	fmt.Fprintf(g.decls, "func r_%s(s *sblState) bool {\nreturn %s\n}\n\n", r.Name, body)
}

// genExternals emits one exported Stem-style wrapper per external,
// constructing a fresh state and returning the resulting buffer as a
// string (unchanged if the routine fails, per spec.md section 5's
// "stemming never errors, only a parse/analysis failure does").
func (g *generator) genExternals() {
	for _, name := range g.prog.Externals {
		r := g.prog.Routines[name]
		fn := "r_" + name
		if r.NeedsBothForms() {
			fn = "r_" + name + "_fwd"
		}
		fmt.Fprintf(g.decls, "func %s(input string) string {\ns := newSblState(input)\n%s(s)\nreturn s.String()\n}\n\n", exportedName(name), fn)
	}
}

func exportedName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// genCmd renders cmd as a Go expression of type bool. Combinators receive
// their sub-commands as func() bool literals, and commands that need local
// statements (setmark, tomark, among, ...) are wrapped in an
// immediately-invoked function literal, so renderings nest uniformly.
func (g *generator) genCmd(cmd sblast.Command) string {
	switch c := cmd.(type) {
	case sblast.Literal:
		return fmt.Sprintf("sblMatchLit(s, %s)", quoteGo(c.Str))
	case sblast.GroupingCmd:
		return fmt.Sprintf("sblMatchGroup(s, sblGroup_%s)", c.Name)
	case sblast.Call:
		target := g.prog.Routines[c.Name]
		if target != nil && target.NeedsBothForms() {
			// A call site runs the callee in whichever direction is in
			// effect right here, which is what the shared _impl body does
			// since it reads direction from s.backward; the call therefore
			// goes to _impl directly. The direction-pinning _fwd entry
			// point is only called by the external wrappers (genExternals).
			return fmt.Sprintf("r_%s_impl(s)", c.Name)
		}
		return fmt.Sprintf("r_%s(s)", c.Name)
	case sblast.Next:
		return "sblNext(s)"
	case sblast.Hop:
		return fmt.Sprintf("sblHop(s, %s)", g.genIntExpr(c.N))
	case sblast.Goto:
		return fmt.Sprintf("sblGoto(s, func() bool { return %s })", g.genCmd(c.Cmd))
	case sblast.GoPast:
		return fmt.Sprintf("sblGoPast(s, func() bool { return %s })", g.genCmd(c.Cmd))
	case sblast.Bra:
		return "sblBra(s)"
	case sblast.Ket:
		return "sblKet(s)"
	case sblast.SliceFrom:
		return "sblSliceFrom(s)"
	case sblast.SliceTo:
		return "sblSliceTo(s)"
	case sblast.SetTo:
		return fmt.Sprintf("sblSetTo(s, %s)", quoteGo(c.Str))
	case sblast.Insert:
		return fmt.Sprintf("sblInsert(s, %s)", quoteGo(c.Str))
	case sblast.Attach:
		return fmt.Sprintf("sblAttach(s, %s)", quoteGo(c.Str))
	case sblast.Delete:
		return "sblDelete(s)"
	case sblast.SetMark:
		return fmt.Sprintf("func() bool { s.ints[%q] = s.cursor; return true }()", c.Name)
	case sblast.ToMark:
		return fmt.Sprintf(`func() bool {
	m := s.ints[%q]
	if s.backward {
		if m > s.cursor { return false }
	} else if m < s.cursor { return false }
	s.cursor = m
	return true
}()`, c.Name)
	case sblast.AtMark:
		return fmt.Sprintf("func() bool { return s.cursor == s.ints[%q] }()", c.Name)
	case sblast.Fail:
		return fmt.Sprintf("sblFail(s, func() bool { return %s })", g.genCmd(c.Cmd))
	case sblast.Try:
		return fmt.Sprintf("sblTry(s, func() bool { return %s })", g.genCmd(c.Cmd))
	case sblast.Do:
		return fmt.Sprintf("sblDo(s, func() bool { return %s })", g.genCmd(c.Cmd))
	case sblast.Not:
		return fmt.Sprintf("sblNot(s, func() bool { return %s })", g.genCmd(c.Cmd))
	case sblast.Test:
		return fmt.Sprintf("sblTest(s, func() bool { return %s })", g.genCmd(c.Cmd))
	case sblast.Repeat:
		return fmt.Sprintf("sblRepeat(s, func() bool { return %s })", g.genCmd(c.Cmd))
	case sblast.Loop:
		return fmt.Sprintf("sblLoop(s, %s, func() bool { return %s })", g.genIntExpr(c.N), g.genCmd(c.Cmd))
	case sblast.AtLeast:
		return fmt.Sprintf("sblAtLeast(s, %s, func() bool { return %s })", g.genIntExpr(c.N), g.genCmd(c.Cmd))
	case sblast.Backwards:
		return fmt.Sprintf("sblBackwards(s, func() bool { return %s })", g.genCmd(c.Cmd))
	case sblast.Reverse:
		// supplemented alias of Backwards, per spec.md section 4.2's
		// precedence table listing reverse alongside backwards
		return fmt.Sprintf("sblBackwards(s, func() bool { return %s })", g.genCmd(c.Cmd))
	case sblast.Substring:
		if g.lastAmong == "" {
			return "false"
		}
		return fmt.Sprintf("func() bool { _, ok := sblAmong(s, %s); return ok }()", g.lastAmong)
	case sblast.Among:
		return g.genAmong(c)
	case sblast.Sequence:
		parts := make([]string, len(c.Cmds))
		for i, sub := range c.Cmds {
			parts[i] = fmt.Sprintf("func() bool { return %s }", g.genCmd(sub))
		}
		return fmt.Sprintf("sblSeq(s, %s)", strings.Join(parts, ", "))
	case sblast.Alternative:
		return fmt.Sprintf("sblOr(s, func() bool { return %s }, func() bool { return %s })", g.genCmd(c.Left), g.genCmd(c.Right))
	case sblast.IntOp:
		return g.genIntOp(c)
	default:
		return "false"
	}
}

func (g *generator) genAmong(c sblast.Among) string {
	trie := sblsem.CompileAmong(c.Arms, false)
	varName := fmt.Sprintf("sblAmong_%d", g.amongCounter)
	g.amongCounter++
	g.lastAmong = varName

	var entries []string
	for _, e := range trie.Entries {
		entries = append(entries, fmt.Sprintf("{Key: %s, Arm: %d}", quoteGo(e.Key), e.Arm))
	}
	fmt.Fprintf(g.decls, "var %s = []sblAmongEntry{%s}\n\n", varName, strings.Join(entries, ", "))

	var cases strings.Builder
	for i, arm := range c.Arms {
		if arm.Action == nil {
			fmt.Fprintf(&cases, "case %d:\nreturn true\n", i)
			continue
		}
		fmt.Fprintf(&cases, "case %d:\nreturn %s\n", i, g.genCmd(arm.Action))
	}

	return fmt.Sprintf(`func() bool {
	arm, ok := sblAmong(s, %s)
	if !ok {
		return false
	}
	switch arm {
	%s
	default:
		return true
	}
}()`, varName, cases.String())
}

func (g *generator) genIntOp(c sblast.IntOp) string {
	switch c.Expr.(type) {
	case sblast.IntTrue:
		return fmt.Sprintf("func() bool { s.bools[%q] = true; return true }()", c.Slot)
	case sblast.IntFalse:
		return fmt.Sprintf("func() bool { s.bools[%q] = false; return true }()", c.Slot)
	}

	expr := g.genIntExpr(c.Expr)
	switch c.Op {
	case sblast.OpAssign:
		return fmt.Sprintf("func() bool { s.ints[%q] = %s; return true }()", c.Slot, expr)
	case sblast.OpPlusAssign:
		return fmt.Sprintf("func() bool { s.ints[%q] += %s; return true }()", c.Slot, expr)
	case sblast.OpMinusAssign:
		return fmt.Sprintf("func() bool { s.ints[%q] -= %s; return true }()", c.Slot, expr)
	case sblast.OpLess:
		return fmt.Sprintf("(s.ints[%q] < %s)", c.Slot, expr)
	case sblast.OpLessEq:
		return fmt.Sprintf("(s.ints[%q] <= %s)", c.Slot, expr)
	case sblast.OpGreater:
		return fmt.Sprintf("(s.ints[%q] > %s)", c.Slot, expr)
	case sblast.OpGreaterEq:
		return fmt.Sprintf("(s.ints[%q] >= %s)", c.Slot, expr)
	case sblast.OpEqual:
		return fmt.Sprintf("(s.ints[%q] == %s)", c.Slot, expr)
	default:
		return "false"
	}
}

func (g *generator) genIntExpr(e sblast.IntExpr) string {
	switch x := e.(type) {
	case sblast.IntLiteral:
		return strconv.Itoa(x.N)
	case sblast.IntCursor:
		return "s.cursor"
	case sblast.IntLimit:
		return "s.limit"
	case sblast.IntSize:
		return "len(s.buf)"
	case sblast.IntSizeOf:
		return fmt.Sprintf("len([]rune(%s))", quoteGo(x.Str))
	case sblast.IntMaxInt:
		return "sblMaxInt"
	case sblast.IntMinInt:
		return "sblMinInt"
	case sblast.IntSlotRef:
		return fmt.Sprintf("s.ints[%q]", x.Name)
	case sblast.IntTrue:
		return "true"
	case sblast.IntFalse:
		return "false"
	case sblast.IntBinOp:
		return fmt.Sprintf("(%s %c %s)", g.genIntExpr(x.Left), x.Op, g.genIntExpr(x.Right))
	default:
		return "0"
	}
}

func quoteGo(s string) string {
	return strconv.Quote(s)
}
