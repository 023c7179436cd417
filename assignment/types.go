// Package assignment implements the stochastic connection-scan passenger
// assignment core: backward PAT profiles per destination, forward
// group-based passenger propagation, optional cycle removal
// and a parallel destination-sharded driver.
package assignment

import (
	"traines.eu/transit-assignment/timetable"
)

// StopID, TripID, ConnectionID and Vertex are re-exported from timetable so
// the assignment package's public API doesn't force callers to import both
// packages for simple identifiers.
type (
	StopID       = timetable.StopID
	TripID       = timetable.TripID
	ConnectionID = timetable.ConnectionID
	Vertex       = timetable.Vertex
)

// NoConnection marks the absence of a connection reference, e.g. in the
// sentinel profile entry.
const NoConnection = ConnectionID(-1)

// NoStop re-exports timetable.NoStop for convenience.
const NoStop = timetable.NoStop

// GroupID is a stable, append-only identifier: groups are never reused or
// recycled, so a GroupID also totally orders groups by creation time.
type GroupID int

// NoGroup marks the absence of a group reference.
const NoGroup = GroupID(-1)
