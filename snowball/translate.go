package snowball

import (
	"os"

	"golang.org/x/text/unicode/norm"

	"github.com/vippsas/snowballc/sblgen"
	"github.com/vippsas/snowballc/sblparse"
	"github.com/vippsas/snowballc/sblsem"
)

// TranslateString runs the full lex/parse/analyze/codegen pipeline over
// source and returns the generated Go source for a package named pkgName.
//
// Source is normalized to NFC first: a stringdef's hex code point (e.g.
// 'E4' for ä) is meant to match one precomposed rune, but a source file
// saved with a combining-accent sequence for the same accented letter
// would otherwise desync the lexer's rune-for-rune comparison against it.
func TranslateString(source, pkgName string) (string, error) {
	source = norm.NFC.String(source)
	prog, err := sblparse.Parse(source)
	if err != nil {
		if pe, ok := err.(*sblparse.Error); ok {
			return "", Diagnostic{Phase: PhaseParse, Line: pe.Pos.Line, Col: pe.Pos.Col, Message: pe.Error()}
		}
		return "", Diagnostic{Phase: PhaseParse, Message: err.Error()}
	}

	analyzed, err := sblsem.Analyze(prog)
	if err != nil {
		if se, ok := err.(*sblsem.Error); ok {
			msg := se.Message
			if se.Routine != "" {
				msg = se.Routine + ": " + msg
			}
			return "", Diagnostic{Phase: PhaseAnalyze, Message: msg}
		}
		return "", Diagnostic{Phase: PhaseAnalyze, Message: err.Error()}
	}

	out, err := sblgen.Generate(pkgName, analyzed)
	if err != nil {
		return "", Diagnostic{Phase: PhaseGen, Message: err.Error()}
	}
	return out, nil
}

// TranslateFile reads inputPath, translates it, and returns the generated
// Go source. File I/O glue beyond this is explicitly out of scope (spec.md
// section 2's non-goals); callers own writing the result to disk.
func TranslateFile(inputPath, pkgName string) (string, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", err
	}
	return TranslateString(string(data), pkgName)
}
