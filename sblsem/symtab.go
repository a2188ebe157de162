package sblsem

import "github.com/vippsas/snowballc/sblast"

// symtab is the single cross-section symbol table (spec.md section 4.3
// point 1): every name declared in any header section lives in one
// namespace, so a name reused across sections (e.g. both `integers` and
// `groupings`) is a duplicate-declaration error.
type symtab struct {
	kind map[string]string // name -> declaring section, for duplicate diagnostics
}

func newSymtab() *symtab {
	return &symtab{kind: make(map[string]string)}
}

func (s *symtab) declare(section string, names []string) error {
	for _, n := range names {
		if existing, ok := s.kind[n]; ok {
			return &Error{Kind: NameError, Message: "name " + n + " declared in both " + existing + " and " + section}
		}
		s.kind[n] = section
	}
	return nil
}

func (s *symtab) isKind(name, section string) bool {
	return s.kind[name] == section
}

func (s *symtab) declared(name string) bool {
	_, ok := s.kind[name]
	return ok
}

func buildSymtab(prog *sblast.Program) (*symtab, error) {
	st := newSymtab()

	// An external name is itself a routine name (real Snowball does not
	// require externals(...) entries to be repeated in routines(...)), so
	// the two lists are merged into one "routines" declaration, deduping
	// any name a source happens to list in both.
	routineSet := make(map[string]bool)
	var routines []string
	for _, n := range append(append([]string(nil), prog.RoutineNames...), prog.ExternalNames...) {
		if !routineSet[n] {
			routineSet[n] = true
			routines = append(routines, n)
		}
	}
	if err := st.declare("routines", routines); err != nil {
		return nil, err
	}
	if err := st.declare("integers", prog.IntegerNames); err != nil {
		return nil, err
	}
	if err := st.declare("booleans", prog.BooleanNames); err != nil {
		return nil, err
	}
	if err := st.declare("groupings", prog.GroupingNames); err != nil {
		return nil, err
	}
	return st, nil
}
