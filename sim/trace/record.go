// Package trace holds the tower-index trace matrix produced by the
// simulators, the per-cycle occupancy aggregation derived from it, and
// summary statistics over both.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// Matrix is a users x cycles matrix of tower indices: Matrix[u][c] is the
// tower user u is attached to at cycle c.
type Matrix [][]int

// Occupancy is a cycles x towers matrix of user counts.
type Occupancy [][]int

// Users returns the number of user rows.
func (m Matrix) Users() int { return len(m) }

// Cycles returns the trace length, or 0 for an empty matrix.
func (m Matrix) Cycles() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Cycles returns the number of cycle rows.
func (o Occupancy) Cycles() int { return len(o) }

// Towers returns the number of tower columns, or 0 for an empty matrix.
func (o Occupancy) Towers() int {
	if len(o) == 0 {
		return 0
	}
	return len(o[0])
}
