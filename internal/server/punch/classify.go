// Package punch holds the pure algorithmic leaves of the ledger: ordinal
// classification, deduplication fingerprints, and payload normalization.
// Nothing in this package performs I/O.
package punch

// Role is the ordinal role tag stored in the ledger's "tip" column.
type Role string

const (
	RoleFirstIn   Role = "ent1"
	RoleFirstOut  Role = "sai1"
	RoleSecondIn  Role = "ent2"
	RoleSecondOut Role = "sai2"
	RoleOverflow  Role = "ext"
)

// Classify maps the count of punches already recorded for an employee-day to
// the ordinal role of the next punch. Total over all non-negative counts.
// This is the single source of truth for punch ordering; registration and
// rectification must both go through it.
func Classify(priorCount int) Role {
	switch priorCount {
	case 0:
		return RoleFirstIn
	case 1:
		return RoleFirstOut
	case 2:
		return RoleSecondIn
	case 3:
		return RoleSecondOut
	default:
		return RoleOverflow
	}
}
