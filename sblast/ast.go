// Package sblast defines the Abstract Syntax Tree produced by sblparse,
// following the node shapes enumerated in spec.md section 3.
package sblast

import "github.com/alecthomas/repr"

// Program is the root of a parsed Snowball source file.
type Program struct {
	RoutineNames  []string
	ExternalNames []string
	IntegerNames  []string
	BooleanNames  []string

	GroupingNames []string
	Groupings     []GroupingDecl
	StringDefs    []StringDefDecl

	// StringEscapeOpen/Close are the delimiter pair in effect at end of
	// parse; defaults to '{' and '}' per spec.md's open question unless a
	// stringescapes directive overrode them.
	StringEscapeOpen, StringEscapeClose rune

	Defines []RoutineDef

	// BackwardModeNames records routine names that were textually declared
	// inside a backwardmode(...) block (spec.md section 4.2/4.3).
	BackwardModeNames map[string]bool
}

// GroupingDecl is a `groupings` member: name = expr built from string
// literals via + (union) and - (difference).
type GroupingDecl struct {
	Name string
	Expr GroupingExpr
}

type GroupingExpr interface{ isGroupingExpr() }

type GroupingLiteral struct{ Str string }
type GroupingRef struct{ Name string }
type GroupingUnion struct{ A, B GroupingExpr }
type GroupingDiff struct{ A, B GroupingExpr }

func (GroupingLiteral) isGroupingExpr() {}
func (GroupingRef) isGroupingExpr()     {}
func (GroupingUnion) isGroupingExpr()   {}
func (GroupingDiff) isGroupingExpr()    {}

// StringDefDecl binds a name to a literal rune: `stringdef NAME hex 'XX'`
// or `stringdef NAME decimal 'NNN'`.
type StringDefDecl struct {
	Name string
	Rune rune
}

// RoutineDef is `define NAME as CMD`.
type RoutineDef struct {
	Name string
	Body Command
}

// Command is any node appearing in a routine body or nested command
// expression.
type Command interface{ isCommand() }

// --- atomic commands ---

type Literal struct{ Str string }
type GroupingCmd struct{ Name string } // bare grouping reference used as a match command
type Call struct{ Name string }

// NameRef is an unresolved bare identifier used as a command: the parser
// cannot tell whether it names a grouping or a routine without the symbol
// table, so sblsem rewrites every NameRef into a GroupingCmd or a Call.
type NameRef struct{ Name string }
type Next struct{}
type Hop struct{ N IntExpr }
type Goto struct{ Cmd Command }
type GoPast struct{ Cmd Command }
type Bra struct{}  // [
type Ket struct{}  // ]
type SliceFrom struct{}
type SliceTo struct{}
type SetTo struct{ Str string }   // <- 'str'
type Insert struct{ Str string } // insert 'str'
type Attach struct{ Str string } // attach 'str'
type Delete struct{}
type SetMark struct{ Name string }
type ToMark struct{ Name string }
type AtMark struct{ Name string }
type Fail struct{ Cmd Command }
type Try struct{ Cmd Command }
type Do struct{ Cmd Command }
type Not struct{ Cmd Command }
type Test struct{ Cmd Command }
type Repeat struct{ Cmd Command }
type Loop struct {
	N   IntExpr
	Cmd Command
}
type AtLeast struct {
	N   IntExpr
	Cmd Command
}
type Backwards struct{ Cmd Command }
type Reverse struct{ Cmd Command } // supplemented alias of Backwards (spec.md section 4.2 precedence table)
type Substring struct{}            // dispatch the most recently compiled Among trie

// Among is a multi-alternative longest-match dispatcher.
type Among struct {
	Arms []AmongArm
}

// AmongArm groups one or more pattern strings that share a trailing action;
// an arm with no patterns (empty string) is the default, firing only when
// no non-empty pattern matched (spec.md section 4.2/4.3).
type AmongArm struct {
	Patterns []string
	Action   Command // may be nil (no action, just succeed)
}

// Sequence is juxtaposition (or explicit `and`) of commands, left to right.
type Sequence struct{ Cmds []Command }

// Alternative is `C1 or C2`: try C1, on failure try C2.
type Alternative struct{ Left, Right Command }

// IntOp is an integer-slot comparison or assignment: `$x = expr`, `$x < expr`.
type IntOp struct {
	Slot string
	Op   IntOpKind
	Expr IntExpr
}

type IntOpKind int

const (
	OpAssign IntOpKind = iota
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpEqual
	OpPlusAssign
	OpMinusAssign
)

func (Literal) isCommand()     {}
func (GroupingCmd) isCommand() {}
func (Call) isCommand()        {}
func (NameRef) isCommand()     {}
func (Next) isCommand()        {}
func (Hop) isCommand()         {}
func (Goto) isCommand()        {}
func (GoPast) isCommand()      {}
func (Bra) isCommand()         {}
func (Ket) isCommand()         {}
func (SliceFrom) isCommand()   {}
func (SliceTo) isCommand()     {}
func (SetTo) isCommand()       {}
func (Insert) isCommand()      {}
func (Attach) isCommand()      {}
func (Delete) isCommand()      {}
func (SetMark) isCommand()     {}
func (ToMark) isCommand()      {}
func (AtMark) isCommand()      {}
func (Fail) isCommand()        {}
func (Try) isCommand()         {}
func (Do) isCommand()          {}
func (Not) isCommand()         {}
func (Test) isCommand()        {}
func (Repeat) isCommand()      {}
func (Loop) isCommand()        {}
func (AtLeast) isCommand()     {}
func (Backwards) isCommand()   {}
func (Reverse) isCommand()     {}
func (Substring) isCommand()   {}
func (Among) isCommand()       {}
func (Sequence) isCommand()    {}
func (Alternative) isCommand() {}
func (IntOp) isCommand()       {}

// --- integer expressions ---

type IntExpr interface{ isIntExpr() }

type IntLiteral struct{ N int }
type IntCursor struct{}
type IntLimit struct{}
type IntSize struct{}
type IntSizeOf struct{ Str string }
type IntMaxInt struct{}
type IntMinInt struct{}
type IntSlotRef struct{ Name string }
type IntTrue struct{}
type IntFalse struct{}
type IntBinOp struct {
	Op    byte // '+' or '-'
	Left  IntExpr
	Right IntExpr
}

func (IntLiteral) isIntExpr() {}
func (IntCursor) isIntExpr()  {}
func (IntLimit) isIntExpr()   {}
func (IntSize) isIntExpr()    {}
func (IntSizeOf) isIntExpr()  {}
func (IntMaxInt) isIntExpr()  {}
func (IntMinInt) isIntExpr()  {}
func (IntSlotRef) isIntExpr() {}
func (IntTrue) isIntExpr()    {}
func (IntFalse) isIntExpr()   {}
func (IntBinOp) isIntExpr()   {}

// Dump pretty-prints a Program (or any AST value) for --dump-ast and test
// failure messages, grounded on the pack's use of alecthomas/repr for
// structural debug printing.
func Dump(v interface{}) string {
	return repr.String(v, repr.Indent("  "))
}
