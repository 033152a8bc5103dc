package domain

// Scope narrows retrieval to a single machine. The zero value is the
// global scope: every document is eligible.
//
// Scoping is deliberately asymmetric for notes: a note with no machine
// assignment is visible under every scope, so a scoped query sees that
// machine's notes plus all global notes. Manual chunks are scoped through
// the machine-manual link table; a scoped query only sees chunks of
// manuals linked to the machine.
//
// A scope naming an unknown machine behaves as "no scoped documents", not
// as an error - the confidence gate then reports the outcome uniformly.
type Scope struct {
	// MachineID is the machine to restrict retrieval to. Empty means
	// global.
	MachineID string
}

// GlobalScope is the unrestricted scope.
var GlobalScope = Scope{}

// IsGlobal reports whether the scope places no restriction on retrieval.
func (s Scope) IsGlobal() bool {
	return s.MachineID == ""
}

// Key returns a stable cache key for the scope, used by the lexical index
// manager to keep one snapshot per scope.
func (s Scope) Key() string {
	return s.MachineID
}
