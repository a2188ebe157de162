package sblsem

import (
	"sort"
	"unicode"

	"golang.org/x/text/unicode/rangetable"

	"github.com/vippsas/snowballc/sblast"
)

// RuneSet is a materialized character set: a sorted, deduplicated slice of
// code points (spec.md section 4.5(b)'s "sorted array + binary search"
// runtime representation, which sblgen.genGroupingVars emits verbatim as
// the generated sblRuneSet literal) plus the same set compiled into a
// golang.org/x/text/unicode/rangetable range table, which is what
// Contains actually tests against. Keeping both lets resolveGrouping
// build up unions/diffs over the flat slice (needed for codegen's
// ordered output) while membership testing here goes through the same
// compact-range representation Go's unicode package uses for the
// standard tables (unicode.Letter and friends).
type RuneSet struct {
	Runes []rune
	Table *unicode.RangeTable
}

func (s RuneSet) Contains(r rune) bool {
	return unicode.Is(s.Table, r)
}

func newRuneSet(runes []rune) RuneSet {
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return RuneSet{Runes: runes, Table: rangetable.New(runes...)}
}

func newRuneSetFromString(str string) RuneSet {
	seen := make(map[rune]bool)
	var out []rune
	for _, r := range str {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return newRuneSet(out)
}

func unionRuneSets(a, b RuneSet) RuneSet {
	seen := make(map[rune]bool, len(a.Runes)+len(b.Runes))
	var out []rune
	for _, r := range a.Runes {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	for _, r := range b.Runes {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return newRuneSet(out)
}

func diffRuneSets(a, b RuneSet) RuneSet {
	var out []rune
	for _, r := range a.Runes {
		if !b.Contains(r) {
			out = append(out, r)
		}
	}
	return newRuneSet(out)
}

// resolveGrouping evaluates a GroupingExpr to a concrete RuneSet, resolving
// GroupingRef against already-resolved groupings (groupings may reference
// earlier groupings by name, following declaration order).
func resolveGrouping(expr sblast.GroupingExpr, resolved map[string]RuneSet) (RuneSet, error) {
	switch e := expr.(type) {
	case sblast.GroupingLiteral:
		return newRuneSetFromString(e.Str), nil
	case sblast.GroupingRef:
		rs, ok := resolved[e.Name]
		if !ok {
			return RuneSet{}, &Error{Kind: NameError, Message: "grouping " + e.Name + " used before it is defined"}
		}
		return rs, nil
	case sblast.GroupingUnion:
		a, err := resolveGrouping(e.A, resolved)
		if err != nil {
			return RuneSet{}, err
		}
		b, err := resolveGrouping(e.B, resolved)
		if err != nil {
			return RuneSet{}, err
		}
		return unionRuneSets(a, b), nil
	case sblast.GroupingDiff:
		a, err := resolveGrouping(e.A, resolved)
		if err != nil {
			return RuneSet{}, err
		}
		b, err := resolveGrouping(e.B, resolved)
		if err != nil {
			return RuneSet{}, err
		}
		return diffRuneSets(a, b), nil
	default:
		return RuneSet{}, &Error{Kind: NameError, Message: "unknown grouping expression"}
	}
}
