// Package sblsem implements the Snowball semantic analyzer (spec.md
// section 4.3): symbol resolution, mode (forward/backward) computation,
// grouping materialization, among-trie compilation and command-legality
// validation.
package sblsem

import (
	"github.com/vippsas/snowballc/sblast"
)

type Mode int

const (
	Forward Mode = iota
	Backward
)

// Routine is one analyzed routine, with NameRef nodes in Body resolved to
// GroupingCmd/Call.
type Routine struct {
	Name     string
	Body     sblast.Command
	External bool

	// InvokedForward/InvokedBackward record which direction(s) this
	// routine is ever reached in, computed by the call-graph walk
	// (spec.md section 4.3 point 2).
	InvokedForward  bool
	InvokedBackward bool

	// DirectionSensitive is true if Body itself (not callees) contains a
	// command whose behavior differs between forward and backward mode.
	DirectionSensitive bool
}

// NeedsBothForms reports whether codegen must emit two specialized
// functions for this routine (spec.md section 4.3 point 2: "A routine
// called from both modes generates two specialized forms only if it
// contains direction-sensitive commands; otherwise one suffices.")
func (r *Routine) NeedsBothForms() bool {
	return r.InvokedForward && r.InvokedBackward && r.DirectionSensitive
}

// Program is the fully analyzed translation unit, ready for sblgen.
type Program struct {
	Routines     map[string]*Routine
	RoutineOrder []string // declaration order, for deterministic codegen output
	Externals    []string // declaration order

	IntegerNames []string
	BooleanNames []string

	Groupings map[string]RuneSet
}

// Analyze runs the full semantic pass over a parsed Program.
func Analyze(prog *sblast.Program) (*Program, error) {
	st, err := buildSymtab(prog)
	if err != nil {
		return nil, err
	}

	groupings, err := resolveGroupings(prog, st)
	if err != nil {
		return nil, err
	}

	out := &Program{
		Routines:     make(map[string]*Routine),
		Externals:    append([]string(nil), prog.ExternalNames...),
		IntegerNames: append([]string(nil), prog.IntegerNames...),
		BooleanNames: append([]string(nil), prog.BooleanNames...),
		Groupings:    groupings,
	}

	externalSet := make(map[string]bool, len(prog.ExternalNames))
	for _, e := range prog.ExternalNames {
		externalSet[e] = true
	}

	seen := make(map[string]bool)
	for _, def := range prog.Defines {
		if !st.isKind(def.Name, "routines") {
			return nil, &Error{Kind: NameError, Routine: def.Name, Message: "define target is not a declared routine"}
		}
		if seen[def.Name] {
			return nil, &Error{Kind: NameError, Routine: def.Name, Message: "routine defined more than once"}
		}
		seen[def.Name] = true

		body, err := resolveCommand(def.Name, def.Body, st)
		if err != nil {
			return nil, err
		}
		if err := checkBraKetLegality(def.Name, body); err != nil {
			return nil, err
		}
		r := &Routine{
			Name:               def.Name,
			Body:               body,
			External:           externalSet[def.Name],
			DirectionSensitive: isDirectionSensitive(body),
		}
		out.Routines[def.Name] = r
		out.RoutineOrder = append(out.RoutineOrder, def.Name)
	}

	for _, name := range prog.RoutineNames {
		if _, ok := out.Routines[name]; !ok {
			return nil, &Error{Kind: NameError, Routine: name, Message: "routine declared but never defined"}
		}
	}
	for _, name := range prog.ExternalNames {
		if _, ok := out.Routines[name]; !ok {
			return nil, &Error{Kind: NameError, Routine: name, Message: "external declared but never defined"}
		}
	}

	computeModes(out, prog.BackwardModeNames)

	return out, nil
}

func resolveGroupings(prog *sblast.Program, st *symtab) (map[string]RuneSet, error) {
	resolved := make(map[string]RuneSet)
	for _, decl := range prog.Groupings {
		if !st.isKind(decl.Name, "groupings") {
			return nil, &Error{Kind: NameError, Message: "grouping " + decl.Name + " defined but not declared in groupings(...)"}
		}
		rs, err := resolveGrouping(decl.Expr, resolved)
		if err != nil {
			return nil, err
		}
		resolved[decl.Name] = rs
	}
	for _, name := range prog.GroupingNames {
		if _, ok := resolved[name]; !ok {
			return nil, &Error{Kind: NameError, Message: "grouping " + name + " declared but never defined"}
		}
	}
	return resolved, nil
}

// --- NameRef resolution, integer-slot validation, bra/ket legality ---

func resolveCommand(routine string, cmd sblast.Command, st *symtab) (sblast.Command, error) {
	switch c := cmd.(type) {
	case sblast.NameRef:
		switch {
		case st.isKind(c.Name, "groupings"):
			return sblast.GroupingCmd{Name: c.Name}, nil
		case st.isKind(c.Name, "routines"):
			return sblast.Call{Name: c.Name}, nil
		default:
			return nil, &Error{Kind: NameError, Routine: routine, Message: "undeclared name " + c.Name}
		}
	case sblast.Sequence:
		cmds := make([]sblast.Command, len(c.Cmds))
		for i, sub := range c.Cmds {
			r, err := resolveCommand(routine, sub, st)
			if err != nil {
				return nil, err
			}
			cmds[i] = r
		}
		return sblast.Sequence{Cmds: cmds}, nil
	case sblast.Alternative:
		l, err := resolveCommand(routine, c.Left, st)
		if err != nil {
			return nil, err
		}
		r, err := resolveCommand(routine, c.Right, st)
		if err != nil {
			return nil, err
		}
		return sblast.Alternative{Left: l, Right: r}, nil
	case sblast.Not:
		inner, err := resolveCommand(routine, c.Cmd, st)
		return sblast.Not{Cmd: inner}, err
	case sblast.Try:
		inner, err := resolveCommand(routine, c.Cmd, st)
		return sblast.Try{Cmd: inner}, err
	case sblast.Do:
		inner, err := resolveCommand(routine, c.Cmd, st)
		return sblast.Do{Cmd: inner}, err
	case sblast.Fail:
		inner, err := resolveCommand(routine, c.Cmd, st)
		return sblast.Fail{Cmd: inner}, err
	case sblast.Test:
		inner, err := resolveCommand(routine, c.Cmd, st)
		return sblast.Test{Cmd: inner}, err
	case sblast.Repeat:
		inner, err := resolveCommand(routine, c.Cmd, st)
		return sblast.Repeat{Cmd: inner}, err
	case sblast.Loop:
		inner, err := resolveCommand(routine, c.Cmd, st)
		if err != nil {
			return nil, err
		}
		if err := validateIntExpr(routine, c.N, st); err != nil {
			return nil, err
		}
		return sblast.Loop{N: c.N, Cmd: inner}, nil
	case sblast.AtLeast:
		inner, err := resolveCommand(routine, c.Cmd, st)
		if err != nil {
			return nil, err
		}
		if err := validateIntExpr(routine, c.N, st); err != nil {
			return nil, err
		}
		return sblast.AtLeast{N: c.N, Cmd: inner}, nil
	case sblast.Backwards:
		inner, err := resolveCommand(routine, c.Cmd, st)
		return sblast.Backwards{Cmd: inner}, err
	case sblast.Reverse:
		inner, err := resolveCommand(routine, c.Cmd, st)
		return sblast.Reverse{Cmd: inner}, err
	case sblast.Goto:
		inner, err := resolveCommand(routine, c.Cmd, st)
		return sblast.Goto{Cmd: inner}, err
	case sblast.GoPast:
		inner, err := resolveCommand(routine, c.Cmd, st)
		return sblast.GoPast{Cmd: inner}, err
	case sblast.Hop:
		if err := validateIntExpr(routine, c.N, st); err != nil {
			return nil, err
		}
		return c, nil
	case sblast.SetMark:
		if !st.isKind(c.Name, "integers") {
			return nil, &Error{Kind: NameError, Routine: routine, Message: "setmark target " + c.Name + " is not a declared integer"}
		}
		return c, nil
	case sblast.ToMark:
		if !st.isKind(c.Name, "integers") {
			return nil, &Error{Kind: NameError, Routine: routine, Message: "tomark target " + c.Name + " is not a declared integer"}
		}
		return c, nil
	case sblast.AtMark:
		if !st.isKind(c.Name, "integers") {
			return nil, &Error{Kind: NameError, Routine: routine, Message: "atmark target " + c.Name + " is not a declared integer"}
		}
		return c, nil
	case sblast.IntOp:
		isBool := false
		switch c.Expr.(type) {
		case sblast.IntTrue, sblast.IntFalse:
			isBool = true
		}
		if isBool {
			if !st.isKind(c.Slot, "booleans") {
				return nil, &Error{Kind: NameError, Routine: routine, Message: "boolean slot " + c.Slot + " not declared"}
			}
		} else {
			if !st.isKind(c.Slot, "integers") {
				return nil, &Error{Kind: NameError, Routine: routine, Message: "integer slot " + c.Slot + " not declared"}
			}
			if err := validateIntExpr(routine, c.Expr, st); err != nil {
				return nil, err
			}
		}
		return c, nil
	case sblast.Among:
		arms := make([]sblast.AmongArm, len(c.Arms))
		for i, arm := range c.Arms {
			var action sblast.Command
			if arm.Action != nil {
				r, err := resolveCommand(routine, arm.Action, st)
				if err != nil {
					return nil, err
				}
				action = r
			}
			arms[i] = sblast.AmongArm{Patterns: arm.Patterns, Action: action}
		}
		return sblast.Among{Arms: arms}, nil
	default:
		// atomic commands with no nested structure: Literal, GroupingCmd,
		// Call, Next, Bra, Ket, SliceFrom, SliceTo, SetTo, Insert, Attach,
		// Delete, Substring.
		return cmd, nil
	}
}

func validateIntExpr(routine string, e sblast.IntExpr, st *symtab) error {
	switch x := e.(type) {
	case sblast.IntSlotRef:
		if !st.isKind(x.Name, "integers") {
			return &Error{Kind: NameError, Routine: routine, Message: "integer slot " + x.Name + " not declared"}
		}
	case sblast.IntBinOp:
		if err := validateIntExpr(routine, x.Left, st); err != nil {
			return err
		}
		return validateIntExpr(routine, x.Right, st)
	}
	return nil
}

// checkBraKetLegality enforces spec.md section 4.3 point 5 over an entire
// routine body in one pass: "[" must precede "]", and slice operations
// ("<-", delete) require an established bra. It walks the whole body
// rather than one Sequence node at a time because bra is a single piece
// of state that stays set across nested scopes — e.g. an among(...) arm's
// action routinely does `delete` relying on a `[` from the enclosing
// sequence (the idiom real Snowball stemmers use: `[ among(... (delete)
// ...) ]`). Ket ("]") itself is optional: when absent, the runtime treats
// the current cursor as the implicit end of the slice.
func checkBraKetLegality(routine string, body sblast.Command) error {
	seenBra := false
	var walk func(sblast.Command) error
	walk = func(cmd sblast.Command) error {
		switch c := cmd.(type) {
		case sblast.Bra:
			seenBra = true
		case sblast.Ket:
			if !seenBra {
				return &Error{Kind: ModeError, Routine: routine, Message: "] appears without a preceding ["}
			}
		case sblast.SetTo, sblast.Delete:
			if !seenBra {
				return &Error{Kind: ModeError, Routine: routine, Message: "slice operation used without a preceding ["}
			}
		case sblast.Sequence:
			for _, sub := range c.Cmds {
				if err := walk(sub); err != nil {
					return err
				}
			}
		case sblast.Alternative:
			if err := walk(c.Left); err != nil {
				return err
			}
			return walk(c.Right)
		case sblast.Not:
			return walk(c.Cmd)
		case sblast.Try:
			return walk(c.Cmd)
		case sblast.Do:
			return walk(c.Cmd)
		case sblast.Fail:
			return walk(c.Cmd)
		case sblast.Test:
			return walk(c.Cmd)
		case sblast.Repeat:
			return walk(c.Cmd)
		case sblast.Loop:
			return walk(c.Cmd)
		case sblast.AtLeast:
			return walk(c.Cmd)
		case sblast.Backwards:
			return walk(c.Cmd)
		case sblast.Reverse:
			return walk(c.Cmd)
		case sblast.Goto:
			return walk(c.Cmd)
		case sblast.GoPast:
			return walk(c.Cmd)
		case sblast.Among:
			for _, arm := range c.Arms {
				if arm.Action != nil {
					if err := walk(arm.Action); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}
	return walk(body)
}

// isDirectionSensitive reports whether cmd's own commands (not those of
// callees reached via Call) behave differently in forward vs backward
// mode (spec.md section 4.3 point 2 / section 4.4's command table).
func isDirectionSensitive(cmd sblast.Command) bool {
	switch c := cmd.(type) {
	case sblast.Next, sblast.Hop, sblast.Literal, sblast.GroupingCmd, sblast.Goto, sblast.GoPast, sblast.Among, sblast.Substring, sblast.ToMark:
		return true
	case sblast.Sequence:
		for _, sub := range c.Cmds {
			if isDirectionSensitive(sub) {
				return true
			}
		}
		return false
	case sblast.Alternative:
		return isDirectionSensitive(c.Left) || isDirectionSensitive(c.Right)
	case sblast.Not:
		return isDirectionSensitive(c.Cmd)
	case sblast.Try:
		return isDirectionSensitive(c.Cmd)
	case sblast.Do:
		return isDirectionSensitive(c.Cmd)
	case sblast.Fail:
		return isDirectionSensitive(c.Cmd)
	case sblast.Test:
		return isDirectionSensitive(c.Cmd)
	case sblast.Repeat:
		return isDirectionSensitive(c.Cmd)
	case sblast.Loop:
		return isDirectionSensitive(c.Cmd)
	case sblast.AtLeast:
		return isDirectionSensitive(c.Cmd)
	default:
		// Backwards/Reverse flip mode for their child but do not themselves
		// make the ENCLOSING routine direction sensitive: the enclosing
		// body always forces backward there regardless of caller mode, so
		// it behaves identically under either outer mode. Call boundaries
		// are opaque here by design (callee direction sensitivity is the
		// callee's own concern).
		return false
	}
}
