// Package demand holds the passenger demand matrix consumed by the
// assignment core: origin/destination pairs, a departure-time window, and
// a passenger count.
package demand

import "traines.eu/transit-assignment/timetable"

// Entry is one demand group: passengers travelling from Origin to
// Destination, willing to depart anywhere in
// [EarliestDeparture, LatestDeparture].
type Entry struct {
	DemandIndex         int
	Origin, Destination timetable.Vertex
	EarliestDeparture   int
	LatestDeparture     int
	Passengers          int
}

// Demand is the full set of entries to assign.
type Demand struct {
	Entries []Entry
}
