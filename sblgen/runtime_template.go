// Package sblgen lowers an analyzed sblsem.Program (together with the
// resolved sblast.Command trees it wraps) into Go source text implementing
// the Snowball abstract machine (spec.md section 5).
package sblgen

// runtimePreamble is emitted verbatim at the top of every generated file.
// It implements the cursor/limit/bra/ket/direction machine described in
// spec.md section 5: a single sblState carries the buffer and all control
// slots, and the combinator helpers (sblSeq, sblOr, sblTry, ...) apply the
// save/restore discipline spec.md section 4.4's command table specifies
// for each control structure. Match primitives read s.backward at call
// time rather than coming in separate forward/backward variants; routines
// that need two specialized entry points (sblsem.Routine.NeedsBothForms)
// get thin sblRunForward/sblRunBackward-wrapped entry points instead,
// which pin direction around one shared body — giving the generated code
// the same externally visible _fwd/_bwd split real Snowball backends
// expose (e.g. find_among vs find_among_b) without duplicating the
// matching logic itself.
const runtimePreamble = `// Code generated by snowballc. DO NOT EDIT.

package %[1]s

// sblRuneSet is a sorted, deduplicated set of runes materialized from a
// groupings(...) definition, searched by binary search.
type sblRuneSet []rune

func (s sblRuneSet) contains(r rune) bool {
	lo, hi := 0, len(s)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case s[mid] == r:
			return true
		case s[mid] < r:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return false
}

// sblAmongEntry is one compiled among(...) dispatch candidate: Key is the
// literal text to match, Arm the index of the arm whose action should run.
type sblAmongEntry struct {
	Key string
	Arm int
}

// sblState is the execution state of one stemming run: a rune buffer plus
// the cursor/limit/bra/ket/boolean/integer slots spec.md section 5
// describes. markA/markB hold the raw positions set by [ and ]
// respectively; braKet below recovers the ordered [lo,hi) region
// regardless of which one was set first, which happens in backward mode
// since [ is textually encountered before the cursor has moved down to
// where ] will be set.
type sblState struct {
	buf      []rune
	cursor   int
	limit    int
	backward bool

	markA    int
	markB    int
	markBSet bool

	ints  map[string]int
	bools map[string]bool
}

func newSblState(input string) *sblState {
	buf := []rune(input)
	return &sblState{
		buf:   buf,
		cursor: 0,
		limit: len(buf),
		ints:  make(map[string]int),
		bools: make(map[string]bool),
	}
}

func (s *sblState) String() string { return string(s.buf) }

// braKet recovers the ordered [lo, hi) slice region marked by the most
// recent [. ] is optional: if it was never called since, the current
// cursor stands in as the implicit end of the slice, which is the idiom
// real Snowball stemmers rely on (bra then among/substring then an
// action that deletes or rewrites up to wherever matching left the
// cursor, with no explicit ]).
func (s *sblState) braKet() (int, int) {
	ket := s.markB
	if !s.markBSet {
		ket = s.cursor
	}
	if s.markA <= ket {
		return s.markA, ket
	}
	return ket, s.markA
}

// replaceSlice replaces buf[lo:hi] with repl, adjusting cursor and limit
// for the length delta (spec.md section 5's "adjust cursor/limit for
// length delta" rule for <-, insert, attach, delete).
func (s *sblState) replaceSlice(lo, hi int, repl []rune) {
	delta := len(repl) - (hi - lo)
	next := make([]rune, 0, len(s.buf)+delta)
	next = append(next, s.buf[:lo]...)
	next = append(next, repl...)
	next = append(next, s.buf[hi:]...)
	s.buf = next
	s.limit += delta
	switch {
	case s.cursor >= hi:
		s.cursor += delta
	case s.cursor > lo:
		s.cursor = lo + len(repl)
	}
	s.markA, s.markB, s.markBSet = lo, lo+len(repl), true
}

func sblSetTo(s *sblState, str string) bool {
	lo, hi := s.braKet()
	s.replaceSlice(lo, hi, []rune(str))
	return true
}

func sblDelete(s *sblState) bool {
	lo, hi := s.braKet()
	s.replaceSlice(lo, hi, nil)
	return true
}

func sblInsert(s *sblState, str string) bool {
	r := []rune(str)
	s.replaceSlice(s.cursor, s.cursor, r)
	s.cursor += len(r)
	return true
}

func sblAttach(s *sblState, str string) bool {
	return sblInsert(s, str)
}

func sblBra(s *sblState) bool {
	s.markA = s.cursor
	s.markBSet = false
	return true
}

func sblKet(s *sblState) bool {
	s.markB = s.cursor
	s.markBSet = true
	return true
}

func sblSliceFrom(s *sblState) bool {
	s.markA = s.cursor
	return true
}

func sblSliceTo(s *sblState) bool {
	s.markB = s.cursor
	s.markBSet = true
	return true
}

// --- direction-aware match primitives ---

// sblNext/sblHop/sblMatchGroup/sblMatchLit/sblAmong all read s.backward at
// call time rather than coming in separate forward/backward variants: the
// state already carries the single source of truth for direction, so a
// routine reached from both modes is free to share one matching
// implementation. Entry points still come in _fwd/_bwd pairs where
// spec.md section 4.3 point 2 calls for two specialized forms (see
// sblRunForward/sblRunBackward below) — those pairs just pin s.backward
// for the duration of the call, they don't duplicate this matching logic.

func sblNext(s *sblState) bool {
	if s.backward {
		if s.cursor <= s.limit {
			return false
		}
		s.cursor--
		return true
	}
	if s.cursor >= s.limit {
		return false
	}
	s.cursor++
	return true
}

func sblHop(s *sblState, n int) bool {
	if n < 0 {
		return false
	}
	if s.backward {
		if s.cursor-n < s.limit {
			return false
		}
		s.cursor -= n
		return true
	}
	if s.cursor+n > s.limit {
		return false
	}
	s.cursor += n
	return true
}

func sblMatchGroup(s *sblState, set sblRuneSet) bool {
	if s.backward {
		if s.cursor <= s.limit {
			return false
		}
		if !set.contains(s.buf[s.cursor-1]) {
			return false
		}
		s.cursor--
		return true
	}
	if s.cursor >= s.limit {
		return false
	}
	if !set.contains(s.buf[s.cursor]) {
		return false
	}
	s.cursor++
	return true
}

func sblMatchLit(s *sblState, pat string) bool {
	r := []rune(pat)
	n := len(r)
	if s.backward {
		if s.cursor-n < s.limit {
			return false
		}
		for i := 0; i < n; i++ {
			if s.buf[s.cursor-n+i] != r[i] {
				return false
			}
		}
		s.cursor -= n
		return true
	}
	if s.cursor+n > s.limit {
		return false
	}
	for i := 0; i < n; i++ {
		if s.buf[s.cursor+i] != r[i] {
			return false
		}
	}
	s.cursor += n
	return true
}

// sblAmong tries each pre-sorted entry (longest key first, ties in
// declaration order; sblsem.CompileAmong) and returns the arm index of the
// first that matches at the cursor.
func sblAmong(s *sblState, entries []sblAmongEntry) (int, bool) {
	for _, e := range entries {
		if e.Key == "" {
			return e.Arm, true
		}
		if sblMatchLit(s, e.Key) {
			return e.Arm, true
		}
	}
	return -1, false
}

// sblBackwards runs f with direction flipped to backward: the position
// of the most recent [ (markA, 0 if no [ has run yet) becomes the new
// lower bound, and the cursor jumps to the old limit so scanning starts
// from the far end of the region. Both cursor and limit (and direction)
// are restored on return.
func sblBackwards(s *sblState, f func() bool) bool {
	oldLimit, oldCursor, oldBackward := s.limit, s.cursor, s.backward
	s.limit = s.markA
	s.cursor = oldLimit
	s.backward = true
	ok := f()
	s.limit = oldLimit
	s.cursor = oldCursor
	s.backward = oldBackward
	return ok
}

// sblRunForward/sblRunBackward pin direction for the duration of a call
// into a routine that needs two specialized entry points (spec.md section
// 4.3 point 2): the routine's own body is shared, generated once, and
// read dynamically through s.backward like everything else, but the call
// site still picks "as forward" or "as backward" exactly the way the
// call-graph analysis determined it must.
func sblRunForward(s *sblState, impl func() bool) bool {
	old := s.backward
	s.backward = false
	ok := impl()
	s.backward = old
	return ok
}

func sblRunBackward(s *sblState, impl func() bool) bool {
	old := s.backward
	s.backward = true
	ok := impl()
	s.backward = old
	return ok
}

// --- control-structure combinators, each following the save/restore
// discipline spec.md section 4.4 specifies ---

// sblSnapshot captures everything a failed attempt needs to undo,
// including the buffer: replaceSlice always allocates a fresh backing
// array rather than mutating in place, so holding onto the old slice
// header here is enough to roll back any <-/insert/attach/delete a
// command performed before failing.
type sblSnapshot struct {
	buf          []rune
	cursor       int
	limit        int
	backward     bool
	markA, markB int
	markBSet     bool
}

func sblSnap(s *sblState) sblSnapshot {
	return sblSnapshot{s.buf, s.cursor, s.limit, s.backward, s.markA, s.markB, s.markBSet}
}

func sblRestore(s *sblState, snap sblSnapshot) {
	s.buf = snap.buf
	s.cursor, s.limit, s.backward = snap.cursor, snap.limit, snap.backward
	s.markA, s.markB, s.markBSet = snap.markA, snap.markB, snap.markBSet
}

func sblSeq(s *sblState, fs ...func() bool) bool {
	snap := sblSnap(s)
	for _, f := range fs {
		if !f() {
			sblRestore(s, snap)
			return false
		}
	}
	return true
}

func sblOr(s *sblState, fs ...func() bool) bool {
	snap := sblSnap(s)
	for _, f := range fs {
		if f() {
			return true
		}
		sblRestore(s, snap)
	}
	return false
}

func sblNot(s *sblState, f func() bool) bool {
	snap := sblSnap(s)
	ok := f()
	sblRestore(s, snap)
	return !ok
}

func sblTry(s *sblState, f func() bool) bool {
	snap := sblSnap(s)
	if !f() {
		sblRestore(s, snap)
	}
	return true
}

func sblDo(s *sblState, f func() bool) bool {
	snap := sblSnap(s)
	f()
	sblRestore(s, snap)
	return true
}

func sblFail(s *sblState, f func() bool) bool {
	snap := sblSnap(s)
	f()
	sblRestore(s, snap)
	return false
}

func sblTest(s *sblState, f func() bool) bool {
	snap := sblSnap(s)
	ok := f()
	sblRestore(s, snap)
	return ok
}

func sblRepeat(s *sblState, f func() bool) bool {
	for {
		snap := sblSnap(s)
		if !f() {
			sblRestore(s, snap)
			return true
		}
	}
}

func sblLoop(s *sblState, n int, f func() bool) bool {
	for i := 0; i < n; i++ {
		if !f() {
			return false
		}
	}
	return true
}

func sblAtLeast(s *sblState, n int, f func() bool) bool {
	if !sblLoop(s, n, f) {
		return false
	}
	return sblRepeat(s, f)
}

// sblGoto repeatedly attempts f at successive cursor positions, leaving
// the cursor at the position where f started matching (so a later command
// can re-match the same ground from its start).
func sblGoto(s *sblState, f func() bool) bool {
	for {
		pre := s.cursor
		if f() {
			s.cursor = pre
			return true
		}
		if !sblNext(s) {
			return false
		}
	}
}

// sblGoPast is sblGoto's sibling that leaves the cursor wherever f's
// successful match advanced it to, rather than rewinding to the start.
func sblGoPast(s *sblState, f func() bool) bool {
	for {
		if f() {
			return true
		}
		if !sblNext(s) {
			return false
		}
	}
}

const sblMaxInt = int(^uint(0) >> 1)
const sblMinInt = -sblMaxInt - 1
`
