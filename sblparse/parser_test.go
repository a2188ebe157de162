package sblparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vippsas/snowballc/sblast"
)

func TestParse_HeaderSections(t *testing.T) {
	prog, err := Parse(`
		routines ( mark_regions )
		externals ( stem )
		integers ( p1 p2 )
		booleans ( Y_found )
		groupings ( v )
		define v 'aeiou'
		define mark_regions as ( next )
		define stem as ( mark_regions )
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"mark_regions"}, prog.RoutineNames)
	assert.Equal(t, []string{"stem"}, prog.ExternalNames)
	assert.Equal(t, []string{"p1", "p2"}, prog.IntegerNames)
	assert.Equal(t, []string{"Y_found"}, prog.BooleanNames)
	assert.Equal(t, []string{"v"}, prog.GroupingNames)
	require.Len(t, prog.Groupings, 1)
	assert.Equal(t, "v", prog.Groupings[0].Name)
	require.Len(t, prog.Defines, 2)
}

func TestParse_MinimalStemmer(t *testing.T) {
	prog, err := Parse(`
		externals ( stem )
		define stem as ( backwards ( [ 'ly' ] delete ) )
	`)
	require.NoError(t, err)
	require.Len(t, prog.Defines, 1)

	bw, ok := prog.Defines[0].Body.(sblast.Backwards)
	require.True(t, ok, "expected top-level Backwards, got %T", prog.Defines[0].Body)

	seq, ok := bw.Cmd.(sblast.Sequence)
	require.True(t, ok, "expected Sequence inside backwards, got %T", bw.Cmd)
	require.Len(t, seq.Cmds, 4)
	assert.Equal(t, sblast.Bra{}, seq.Cmds[0])
	assert.Equal(t, sblast.Literal{Str: "ly"}, seq.Cmds[1])
	assert.Equal(t, sblast.Ket{}, seq.Cmds[2])
	assert.Equal(t, sblast.Delete{}, seq.Cmds[3])
}

func TestParse_SequenceAndAlternative(t *testing.T) {
	prog, err := Parse(`
		externals ( stem )
		define stem as ( next and next or next )
	`)
	require.NoError(t, err)
	alt, ok := prog.Defines[0].Body.(sblast.Alternative)
	require.True(t, ok, "expected top-level Alternative, got %T", prog.Defines[0].Body)

	seq, ok := alt.Left.(sblast.Sequence)
	require.True(t, ok)
	assert.Len(t, seq.Cmds, 2)
	assert.Equal(t, sblast.Next{}, alt.Right)
}

func TestParse_UnaryPrefixCommands(t *testing.T) {
	prog, err := Parse(`
		externals ( stem )
		define stem as ( try not test repeat loop 3 next atleast 2 hop 1 )
	`)
	require.NoError(t, err)
	// prefix commands bind tighter than sequence, so the body is two chains
	seq, ok := prog.Defines[0].Body.(sblast.Sequence)
	require.True(t, ok, "expected top-level Sequence, got %T", prog.Defines[0].Body)
	require.Len(t, seq.Cmds, 2)
	try, ok := seq.Cmds[0].(sblast.Try)
	require.True(t, ok)
	not, ok := try.Cmd.(sblast.Not)
	require.True(t, ok)
	test, ok := not.Cmd.(sblast.Test)
	require.True(t, ok)
	repeat, ok := test.Cmd.(sblast.Repeat)
	require.True(t, ok)
	loop, ok := repeat.Cmd.(sblast.Loop)
	require.True(t, ok)
	assert.Equal(t, sblast.IntLiteral{N: 3}, loop.N)
	next, ok := loop.Cmd.(sblast.Next)
	require.True(t, ok)
	_ = next
	atleast, ok := seq.Cmds[1].(sblast.AtLeast)
	require.True(t, ok)
	assert.Equal(t, sblast.IntLiteral{N: 2}, atleast.N)
}

func TestParse_IntOpAssignmentAndComparison(t *testing.T) {
	prog, err := Parse(`
		externals ( stem )
		integers ( p1 )
		define stem as ( $p1 = cursor and $p1 >= 3 )
	`)
	require.NoError(t, err)
	seq, ok := prog.Defines[0].Body.(sblast.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Cmds, 2)

	assign := seq.Cmds[0].(sblast.IntOp)
	assert.Equal(t, "p1", assign.Slot)
	assert.Equal(t, sblast.OpAssign, assign.Op)
	assert.Equal(t, sblast.IntCursor{}, assign.Expr)

	cmp := seq.Cmds[1].(sblast.IntOp)
	assert.Equal(t, sblast.OpGreaterEq, cmp.Op)
	assert.Equal(t, sblast.IntLiteral{N: 3}, cmp.Expr)
}

func TestParse_Among(t *testing.T) {
	prog, err := Parse(`
		externals ( stem )
		define stem as (
			among (
				'ing' 'ed' (delete)
				'ly' (<- 'X')
			)
		)
	`)
	require.NoError(t, err)
	among, ok := prog.Defines[0].Body.(sblast.Among)
	require.True(t, ok)
	require.Len(t, among.Arms, 2)
	assert.Equal(t, []string{"ing", "ed"}, among.Arms[0].Patterns)
	assert.Equal(t, sblast.Delete{}, among.Arms[0].Action)
	assert.Equal(t, []string{"ly"}, among.Arms[1].Patterns)
	assert.Equal(t, sblast.SetTo{Str: "X"}, among.Arms[1].Action)
}

func TestParse_StringDefAndEscapes(t *testing.T) {
	prog, err := Parse(`
		groupings ( v )
		stringdef ae hex 'E4'
		define v 'a{ae}'
	`)
	require.NoError(t, err)
	require.Len(t, prog.StringDefs, 1)
	assert.Equal(t, "ae", prog.StringDefs[0].Name)
	assert.Equal(t, rune(0xE4), prog.StringDefs[0].Rune)

	lit := prog.Groupings[0].Expr.(sblast.GroupingLiteral)
	assert.Equal(t, "aä", lit.Str)
}

func TestParse_CustomStringEscapes(t *testing.T) {
	prog, err := Parse(`
		stringescapes [ ]
		groupings ( v )
		stringdef ae hex 'E4'
		define v 'a[ae]'
	`)
	require.NoError(t, err)
	assert.Equal(t, '[', prog.StringEscapeOpen)
	assert.Equal(t, ']', prog.StringEscapeClose)
	lit := prog.Groupings[0].Expr.(sblast.GroupingLiteral)
	assert.Equal(t, "aä", lit.Str)
}

func TestParse_StringEscapesAfterStringDefIsError(t *testing.T) {
	_, err := Parse(`
		stringdef ae hex 'E4'
		stringescapes [ ]
	`)
	require.Error(t, err)
}

func TestParse_GroupingUnionAndDiff(t *testing.T) {
	prog, err := Parse(`
		groupings ( v w )
		define v 'aeiou'
		define w v - 'u' + 'y'
	`)
	require.NoError(t, err)
	require.Len(t, prog.Groupings, 2)
	diff := prog.Groupings[1].Expr.(sblast.GroupingUnion)
	inner := diff.A.(sblast.GroupingDiff)
	assert.Equal(t, sblast.GroupingRef{Name: "v"}, inner.A)
	assert.Equal(t, sblast.GroupingLiteral{Str: "u"}, inner.B)
	assert.Equal(t, sblast.GroupingLiteral{Str: "y"}, diff.B)
}

func TestParse_BackwardMode(t *testing.T) {
	prog, err := Parse(`
		routines ( postlude )
		backwardmode (
			define postlude as ( next )
		)
	`)
	require.NoError(t, err)
	assert.True(t, prog.BackwardModeNames["postlude"])
}

func TestParse_SyntaxErrorHasPosition(t *testing.T) {
	_, err := Parse("externals ( stem")
	require.Error(t, err)
	pe, ok := err.(*Error)
	require.True(t, ok)
	assert.Greater(t, pe.Pos.Line, 0)
}
