package snowball

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateFile_Minimal(t *testing.T) {
	out, err := TranslateFile(filepath.Join("..", "testdata", "minimal.sbl"), "stemmer")
	require.NoError(t, err)
	assert.Contains(t, out, "package stemmer")
	assert.Contains(t, out, "func Stem(input string) string")
	assert.Contains(t, out, "sblBackwards(s")
}

func TestTranslateFile_German2(t *testing.T) {
	out, err := TranslateFile(filepath.Join("..", "testdata", "german2.sbl"), "stemmer")
	require.NoError(t, err)
	assert.Contains(t, out, "func Stem(input string) string")
	assert.Contains(t, out, "var sblGroup_v = sblRuneSet{")
	assert.Contains(t, out, "var sblGroup_nonv = sblRuneSet{")
	assert.Contains(t, out, "sblAmong(s,")
	// mark_regions and R1 are not external, so they're only reachable
	// through r_stem and should not get their own exported wrapper.
	assert.NotContains(t, out, "func Mark_regions(")
	assert.NotContains(t, out, "func R1(")
}

func TestTranslateFile_MissingFile(t *testing.T) {
	_, err := TranslateFile(filepath.Join("..", "testdata", "does_not_exist.sbl"), "stemmer")
	require.Error(t, err)
}

func TestTranslateString_LexErrorIsDiagnostic(t *testing.T) {
	_, err := TranslateString(`
		externals ( stem )
		define stem as ( 'unterminated )
	`, "stemmer")
	require.Error(t, err)
	d, ok := err.(Diagnostic)
	require.True(t, ok, "expected Diagnostic, got %T: %v", err, err)
	assert.Equal(t, PhaseParse, d.Phase)
}

func TestTranslateString_ParseErrorIsDiagnostic(t *testing.T) {
	_, err := TranslateString(`externals ( stem`, "stemmer")
	require.Error(t, err)
	d, ok := err.(Diagnostic)
	require.True(t, ok, "expected Diagnostic, got %T: %v", err, err)
	assert.Equal(t, PhaseParse, d.Phase)
	assert.Greater(t, d.Line, 0)
}

func TestTranslateString_AnalyzeErrorIsDiagnostic(t *testing.T) {
	_, err := TranslateString(`
		externals ( stem )
		define stem as ( nosuchroutine )
	`, "stemmer")
	require.Error(t, err)
	d, ok := err.(Diagnostic)
	require.True(t, ok, "expected Diagnostic, got %T: %v", err, err)
	assert.Equal(t, PhaseAnalyze, d.Phase)
	assert.Contains(t, d.Message, "stem")
}

func TestDiagnostic_ErrorFormatting(t *testing.T) {
	withPos := Diagnostic{Phase: PhaseParse, Line: 3, Col: 5, Message: "unexpected token"}
	assert.Equal(t, "parse:3:5: unexpected token", withPos.Error())

	noPos := Diagnostic{Phase: PhaseAnalyze, Message: "undeclared name"}
	assert.Equal(t, "analyze: undeclared name", noPos.Error())
}

func TestDiagnostics_ErrorFormatting(t *testing.T) {
	assert.Equal(t, "no diagnostics", Diagnostics(nil).Error())
	ds := Diagnostics{{Phase: PhaseGen, Message: "boom"}}
	assert.Equal(t, "codegen: boom", ds.Error())
}

func TestTranslateFile_OutputRoundTripsThroughDisk(t *testing.T) {
	out, err := TranslateFile(filepath.Join("..", "testdata", "minimal.sbl"), "stemmer")
	require.NoError(t, err)

	dir := t.TempDir()
	outPath := filepath.Join(dir, "stem.go")
	require.NoError(t, os.WriteFile(outPath, []byte(out), 0o644))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, out, string(data))
}
