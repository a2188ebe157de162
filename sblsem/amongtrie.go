package sblsem

import (
	"sort"

	"github.com/vippsas/snowballc/sblast"
)

// AmongEntry is one dispatchable key in a compiled Among: Key is the
// pattern text to match at the cursor, Arm identifies which arm's action
// fires on a match.
//
// spec.md section 4.3 point 4 describes reversing trie keys for backward
// mode so that a left-to-right automaton walk corresponds to a
// right-to-left buffer scan. The generated runtime instead matches each
// candidate key as a whole via sblMatchLit, which reads s.backward at
// call time and already scans the buffer in the correct direction for a
// natural (unreversed) key — so no key reversal is needed to get the
// same observable dispatch behavior (longest match wins, ties broken by
// declaration order; spec.md section 8). Backward is kept as metadata
// only.
type AmongEntry struct {
	Key string
	Arm int
}

// AmongTrie is the compiled longest-match dispatcher for one `among(...)`
// node in one direction. Entries are pre-sorted so that a single linear
// scan picking the first matching entry realizes "longest match wins,
// ties broken by declaration order" without the generated code needing to
// re-sort.
type AmongTrie struct {
	Entries  []AmongEntry
	Backward bool
}

// CompileAmong compiles an among(...) node's arms into a dispatcher.
// Reused for forward and backward occurrences of the same AST node when a
// routine needs both specialized forms (spec.md section 4.4's mode
// flipping).
func CompileAmong(arms []sblast.AmongArm, backward bool) *AmongTrie {
	type scored struct {
		entry AmongEntry
		order int
	}
	var all []scored
	order := 0
	for armIdx, arm := range arms {
		if len(arm.Patterns) == 0 {
			// default arm: matches the empty string, lowest priority
			all = append(all, scored{AmongEntry{Key: "", Arm: armIdx}, order})
			order++
			continue
		}
		for _, pat := range arm.Patterns {
			all = append(all, scored{AmongEntry{Key: pat, Arm: armIdx}, order})
			order++
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		li, lj := len([]rune(all[i].entry.Key)), len([]rune(all[j].entry.Key))
		if li != lj {
			return li > lj // longest first
		}
		return all[i].order < all[j].order // declaration order tiebreak
	})

	t := &AmongTrie{Backward: backward}
	for _, s := range all {
		t.Entries = append(t.Entries, s.entry)
	}
	return t
}
