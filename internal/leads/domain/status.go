// Package domain holds the pure lead pipeline rules: status transitions and
// source-based scoring. No I/O, no framework types.
package domain

// Status is a lead's position in the sales pipeline.
type Status string

const (
	StatusNew       Status = "New"
	StatusContacted Status = "Contacted"
	StatusQualified Status = "Qualified"
	StatusConverted Status = "Converted"
	StatusLost      Status = "Lost"
)

// pipeline order; terminal states have no outgoing transitions.
var statusRank = map[Status]int{
	StatusNew:       0,
	StatusContacted: 1,
	StatusQualified: 2,
	StatusConverted: 3,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok || s == StatusLost
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusConverted || s == StatusLost
}

// CountsTowardLoad reports whether a lead in this status occupies a slot in
// its agent's active_leads counter.
func (s Status) CountsTowardLoad() bool {
	return s == StatusNew || s == StatusContacted || s == StatusQualified
}

// CanTransition reports whether a lead may move from one status to another.
// The pipeline only advances forward; Lost is reachable from any non-terminal
// state; Converted and Lost are terminal.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() || from == to {
		return false
	}
	if from.IsTerminal() {
		return false
	}
	if to == StatusLost {
		return true
	}
	return statusRank[to] > statusRank[from]
}
