package sblsem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vippsas/snowballc/sblast"
	"github.com/vippsas/snowballc/sblparse"
)

func analyzeSource(t *testing.T, src string) (*Program, error) {
	t.Helper()
	prog, err := sblparse.Parse(src)
	require.NoError(t, err, "source must parse")
	return Analyze(prog)
}

func TestAnalyze_MinimalStemmer(t *testing.T) {
	p, err := analyzeSource(t, `
		externals ( stem )
		define stem as ( backwards ( [ 'ly' ] delete ) )
	`)
	require.NoError(t, err)
	r := p.Routines["stem"]
	require.NotNil(t, r)
	assert.True(t, r.External)
	assert.True(t, r.InvokedForward)
	assert.False(t, r.InvokedBackward)
}

func TestAnalyze_ExternalImpliesRoutine(t *testing.T) {
	// externals(...) entries need not also be repeated in routines(...).
	p, err := analyzeSource(t, `
		externals ( stem )
		define stem as ( next )
	`)
	require.NoError(t, err)
	assert.Contains(t, p.Routines, "stem")
}

func TestAnalyze_UndeclaredNameIsError(t *testing.T) {
	_, err := analyzeSource(t, `
		externals ( stem )
		define stem as ( nosuchthing )
	`)
	require.Error(t, err)
	se, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, NameError, se.Kind)
}

func TestAnalyze_DuplicateNameAcrossSections(t *testing.T) {
	_, err := analyzeSource(t, `
		externals ( stem )
		integers ( stem )
		define stem as ( next )
	`)
	require.Error(t, err)
}

func TestAnalyze_KetWithoutBraIsError(t *testing.T) {
	_, err := analyzeSource(t, `
		externals ( stem )
		define stem as ( ] )
	`)
	require.Error(t, err)
	se, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ModeError, se.Kind)
}

func TestAnalyze_DeleteWithoutBraIsError(t *testing.T) {
	_, err := analyzeSource(t, `
		externals ( stem )
		define stem as ( delete )
	`)
	require.Error(t, err)
}

func TestAnalyze_DeleteInsideAmongArmUsesEnclosingBra(t *testing.T) {
	// bra established by the enclosing [ ... ] is visible to an among arm's
	// action, which is the idiom real Snowball stemmers rely on.
	p, err := analyzeSource(t, `
		externals ( stem )
		define stem as ( [ among ( 'ing' (delete) ) ] )
	`)
	require.NoError(t, err)
	assert.Contains(t, p.Routines, "stem")
}

func TestAnalyze_GroupingResolution(t *testing.T) {
	p, err := analyzeSource(t, `
		externals ( stem )
		groupings ( v w )
		define v 'aeiou'
		define w v - 'u' + 'y'
		define stem as ( v )
	`)
	require.NoError(t, err)
	vSet := p.Groupings["v"]
	for _, r := range "aeiou" {
		assert.True(t, vSet.Contains(r))
	}
	wSet := p.Groupings["w"]
	assert.False(t, wSet.Contains('u'))
	assert.True(t, wSet.Contains('y'))
	assert.True(t, wSet.Contains('a'))

	body := p.Routines["stem"].Body
	assert.Equal(t, sblast.GroupingCmd{Name: "v"}, body)
}

func TestAnalyze_UndefinedGroupingIsError(t *testing.T) {
	_, err := analyzeSource(t, `
		groupings ( v )
	`)
	require.Error(t, err)
}

func TestAnalyze_ModePropagation(t *testing.T) {
	p, err := analyzeSource(t, `
		routines ( helper )
		externals ( stem )
		define helper as ( next )
		define stem as ( helper and backwards ( helper ) )
	`)
	require.NoError(t, err)
	helper := p.Routines["helper"]
	assert.True(t, helper.InvokedForward)
	assert.True(t, helper.InvokedBackward)
	assert.True(t, helper.DirectionSensitive)
	assert.True(t, helper.NeedsBothForms())
}

func TestAnalyze_BackwardModeSeedsBackward(t *testing.T) {
	p, err := analyzeSource(t, `
		routines ( postlude )
		backwardmode (
			define postlude as ( next )
		)
	`)
	require.NoError(t, err)
	post := p.Routines["postlude"]
	require.NotNil(t, post)
	assert.True(t, post.InvokedBackward)
	assert.False(t, post.InvokedForward)
}

func TestAnalyze_NotDirectionSensitiveNeedsOneForm(t *testing.T) {
	p, err := analyzeSource(t, `
		routines ( helper )
		externals ( stem )
		integers ( p1 )
		define helper as ( $p1 = cursor )
		define stem as ( helper and backwards ( helper ) )
	`)
	require.NoError(t, err)
	helper := p.Routines["helper"]
	assert.True(t, helper.InvokedForward)
	assert.True(t, helper.InvokedBackward)
	assert.False(t, helper.DirectionSensitive)
	assert.False(t, helper.NeedsBothForms())
}

func TestCompileAmong_LongestMatchFirstDeclarationOrderTiebreak(t *testing.T) {
	arms := []sblast.AmongArm{
		{Patterns: []string{"e"}},
		{Patterns: []string{"ing", "ed"}},
		{Patterns: []string{"ed"}}, // duplicate length/text, later declared
	}
	trie := CompileAmong(arms, false)
	require.Len(t, trie.Entries, 4)
	assert.Equal(t, "ing", trie.Entries[0].Key)
	// both "ed" entries are length 2 > length 1 "e"; first declared (arm 1) wins the tie
	assert.Equal(t, "ed", trie.Entries[1].Key)
	assert.Equal(t, 1, trie.Entries[1].Arm)
	assert.Equal(t, "ed", trie.Entries[2].Key)
	assert.Equal(t, 2, trie.Entries[2].Arm)
	assert.Equal(t, "e", trie.Entries[3].Key)
}
