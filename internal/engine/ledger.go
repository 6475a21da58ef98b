package engine

import (
	"fmt"

	"faraid/internal/types"
)

// ledger is the audit accumulator threaded through the stages. Each stage
// takes a ledger and returns the extended one; nothing downstream reads the
// trace.
type ledger struct {
	trace    []types.Step
	blocked  []types.BlockedRecord
	cases    []types.SpecialCase
	notes    []string
	warnings []string
}

func (l ledger) step(title, format string, args ...interface{}) ledger {
	l.trace = append(l.trace, types.Step{Title: title, Description: fmt.Sprintf(format, args...)})
	return l
}

func (l ledger) block(blocked, by types.Kind, reason types.ReasonCode) ledger {
	l.blocked = append(l.blocked, types.BlockedRecord{Blocked: blocked, BlockedBy: by, Reason: reason})
	return l
}

func (l ledger) special(kind types.SpecialCaseKind, format string, args ...interface{}) ledger {
	l.cases = append(l.cases, types.SpecialCase{Kind: kind, Description: fmt.Sprintf(format, args...)})
	return l
}

func (l ledger) note(format string, args ...interface{}) ledger {
	l.notes = append(l.notes, fmt.Sprintf(format, args...))
	return l
}

func (l ledger) warn(format string, args ...interface{}) ledger {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
	return l
}

func (l ledger) hasCase(kind types.SpecialCaseKind) bool {
	for _, c := range l.cases {
		if c.Kind == kind {
			return true
		}
	}
	return false
}
