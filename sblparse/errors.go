package sblparse

import (
	"fmt"

	"github.com/vippsas/snowballc/sbltoken"
)

// Error is a fatal syntax error (spec.md section 4.2/section 7); the
// compiler does not attempt recovery, so the first Error aborts
// translation.
type Error struct {
	Pos      sbltoken.Pos
	Expected string
	Got      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: expected %s, got %s", e.Pos.Line, e.Pos.Col, e.Expected, e.Got)
}
