package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vippsas/snowballc/sblast"
	"github.com/vippsas/snowballc/sblparse"
	"github.com/vippsas/snowballc/snowball"
)

var (
	pkgName string
	dumpAST bool
	outFmt  string

	compileCmd = &cobra.Command{
		Use:   "compile INPUT.sbl OUTPUT.go",
		Short: "Translate a Snowball source file into a Go source file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				_ = cmd.Help()
				return errors.New("need to specify <INPUT.sbl> <OUTPUT.go>")
			}
			input, output := args[0], args[1]

			log.WithField("input", input).Debug("reading source")
			data, err := os.ReadFile(input)
			if err != nil {
				return err
			}

			if dumpAST {
				prog, err := sblparse.Parse(string(data))
				if err != nil {
					return reportDiagnostic(asDiagnostic(err))
				}
				return writeOutput(output, sblast.Dump(prog))
			}

			generated, err := snowball.TranslateString(string(data), pkgName)
			if err != nil {
				return reportDiagnostic(err)
			}

			log.WithField("output", output).Debug("writing generated source")
			return writeOutput(output, generated)
		},
	}
)

// asDiagnostic wraps a raw sblparse error the same way
// snowball.TranslateString does, so --dump-ast's direct call into
// sblparse.Parse reports through reportDiagnostic identically to the
// normal compile path instead of losing its line/column/message.
func asDiagnostic(err error) error {
	if pe, ok := err.(*sblparse.Error); ok {
		return snowball.Diagnostic{Phase: snowball.PhaseParse, Line: pe.Pos.Line, Col: pe.Pos.Col, Message: pe.Error()}
	}
	return snowball.Diagnostic{Phase: snowball.PhaseParse, Message: err.Error()}
}

func reportDiagnostic(err error) error {
	if outFmt == "yaml" {
		diags := snowball.Diagnostics{}
		if d, ok := err.(snowball.Diagnostic); ok {
			diags = append(diags, d)
		}
		b, marshalErr := yaml.Marshal(diags)
		if marshalErr != nil {
			return err
		}
		os.Stderr.Write(b)
		return errors.New("translation failed")
	}
	return err
}

func writeOutput(path, contents string) error {
	if path == "-" {
		_, err := os.Stdout.WriteString(contents)
		return err
	}
	return os.WriteFile(path, []byte(contents), 0o644)
}

func init() {
	compileCmd.Flags().StringVar(&pkgName, "package", "stemmer", "package name for the generated Go file")
	compileCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST instead of generating code")
	compileCmd.Flags().StringVar(&outFmt, "format", "text", "diagnostic output format: text or yaml")
	rootCmd.AddCommand(compileCmd)
}
