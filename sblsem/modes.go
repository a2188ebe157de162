package sblsem

import "github.com/vippsas/snowballc/sblast"

// computeModes propagates forward/backward invocation reachability
// through the call graph (spec.md section 4.3 point 2), starting from
// every external (forward) and every routine textually declared inside a
// backwardmode(...) block (backward).
func computeModes(p *Program, backwardModeNames map[string]bool) {
	visited := make(map[string]map[Mode]bool)

	var walk func(name string, m Mode)
	walk = func(name string, m Mode) {
		r, ok := p.Routines[name]
		if !ok {
			return
		}
		if visited[name] == nil {
			visited[name] = make(map[Mode]bool)
		}
		if visited[name][m] {
			return
		}
		visited[name][m] = true

		if m == Forward {
			r.InvokedForward = true
		} else {
			r.InvokedBackward = true
		}

		walkCmd(r.Body, m, walk)
	}

	for _, name := range p.Externals {
		walk(name, Forward)
	}
	for name := range backwardModeNames {
		walk(name, Backward)
	}
}

// walkCmd traverses cmd under the current mode m, flipping to Backward
// under Backwards/Reverse (spec.md section 4.4's mode-flipping rule:
// nesting is flat, so flipping while already Backward is a no-op), and
// invoking onCall(name, mode) for every Call site reached.
func walkCmd(cmd sblast.Command, m Mode, onCall func(name string, m Mode)) {
	switch c := cmd.(type) {
	case sblast.Call:
		onCall(c.Name, m)
	case sblast.Sequence:
		for _, sub := range c.Cmds {
			walkCmd(sub, m, onCall)
		}
	case sblast.Alternative:
		walkCmd(c.Left, m, onCall)
		walkCmd(c.Right, m, onCall)
	case sblast.Not:
		walkCmd(c.Cmd, m, onCall)
	case sblast.Try:
		walkCmd(c.Cmd, m, onCall)
	case sblast.Do:
		walkCmd(c.Cmd, m, onCall)
	case sblast.Fail:
		walkCmd(c.Cmd, m, onCall)
	case sblast.Test:
		walkCmd(c.Cmd, m, onCall)
	case sblast.Repeat:
		walkCmd(c.Cmd, m, onCall)
	case sblast.Loop:
		walkCmd(c.Cmd, m, onCall)
	case sblast.AtLeast:
		walkCmd(c.Cmd, m, onCall)
	case sblast.Goto:
		walkCmd(c.Cmd, m, onCall)
	case sblast.GoPast:
		walkCmd(c.Cmd, m, onCall)
	case sblast.Backwards:
		walkCmd(c.Cmd, Backward, onCall)
	case sblast.Reverse:
		walkCmd(c.Cmd, Backward, onCall)
	case sblast.Among:
		for _, arm := range c.Arms {
			if arm.Action != nil {
				walkCmd(arm.Action, m, onCall)
			}
		}
	}
}
