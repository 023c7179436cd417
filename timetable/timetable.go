// Package timetable holds the immutable, shared read-only schedule data the
// assignment core operates on: stops, trips, timed connections and the
// walking graph that links them.
package timetable

import (
	"fmt"
	"sort"
)

// StopID indexes Timetable.Stops.
type StopID int

// TripID groups connections of the same vehicle journey. Opaque beyond
// equality: the core only uses it to tell connections of one trip from
// another.
type TripID int

// ConnectionID indexes Timetable.Connections.
type ConnectionID int

// Vertex indexes the transfer graph. The first len(Stops) vertices are
// stops, identified by the same integer value as their StopID; the
// remaining vertices are non-stop transfer points (origins, destinations,
// walking-only junctions).
type Vertex int

// NoStop marks a vertex that is not backed by a Stop.
const NoStop = StopID(-1)

// Stop is a boarding/alighting point with a minimum same-stop transfer time.
type Stop struct {
	MinTransferTime int // mtt(s) >= 0
}

// Trip is an opaque vehicle journey, used only to group its Connections.
type Trip struct{}

// Connection is one timetabled vehicle movement between two stops.
// Connections belonging to the same trip are non-overlapping and ordered.
type Connection struct {
	DepStop, ArrStop StopID
	DepTime, ArrTime int
	Trip             TripID
}

// Edge is a directed, weighted arc of the transfer graph; Weight is a
// walking travel time in seconds, always >= 0.
type Edge struct {
	To     Vertex
	Weight int
}

// TransferGraph is a directed weighted graph over stops and non-stop
// vertices. Built once and read concurrently by every assignment worker;
// it is never mutated after construction.
type TransferGraph struct {
	adjacency [][]Edge
}

// NewTransferGraph allocates a graph with the given number of vertices.
func NewTransferGraph(numVertices int) *TransferGraph {
	return &TransferGraph{adjacency: make([][]Edge, numVertices)}
}

// AddEdge appends a directed edge from -> to with the given travel time.
func (g *TransferGraph) AddEdge(from Vertex, to Vertex, weight int) {
	g.adjacency[from] = append(g.adjacency[from], Edge{To: to, Weight: weight})
}

// NumVertices returns the number of vertices in the graph.
func (g *TransferGraph) NumVertices() int { return len(g.adjacency) }

// EdgesFrom returns the outgoing edges of v.
func (g *TransferGraph) EdgesFrom(v Vertex) []Edge {
	if int(v) < 0 || int(v) >= len(g.adjacency) {
		return nil
	}
	return g.adjacency[v]
}

// OutDegree returns the number of outgoing edges of v.
func (g *TransferGraph) OutDegree(v Vertex) int {
	return len(g.EdgesFrom(v))
}

// Reverse builds the reverse view of g: an edge (u -> v, w) in g becomes
// (v -> u, w) in the result.
func (g *TransferGraph) Reverse() *TransferGraph {
	rev := NewTransferGraph(len(g.adjacency))
	for from, edges := range g.adjacency {
		for _, e := range edges {
			rev.AddEdge(e.To, Vertex(from), e.Weight)
		}
	}
	return rev
}

// Timetable is the immutable input consumed by the assignment core. It is
// shared read-only across worker goroutines.
type Timetable struct {
	Stops        []Stop
	Trips        []Trip
	Connections  []Connection // sorted by DepTime ascending
	Graph        *TransferGraph
	ReverseGraph *TransferGraph
}

// NumStops returns the number of stops.
func (t *Timetable) NumStops() int { return len(t.Stops) }

// NumTrips returns the number of trips.
func (t *Timetable) NumTrips() int { return len(t.Trips) }

// NumConnections returns the number of connections.
func (t *Timetable) NumConnections() int { return len(t.Connections) }

// IsStop reports whether v is backed by a Stop.
func (t *Timetable) IsStop(v Vertex) bool {
	return int(v) >= 0 && int(v) < len(t.Stops)
}

// MinTransferTime returns mtt(s).
func (t *Timetable) MinTransferTime(s StopID) int {
	return t.Stops[s].MinTransferTime
}

// IsCombinable reports whether a passenger can walk from source (departing
// at departureTime) and still make it to target by arrivalTime, applying
// the stop's minimum transfer time when source == target and
// applyMinTransferTime is set.
func (t *Timetable) IsCombinable(source Vertex, departureTime int, target Vertex, arrivalTime int, applyMinTransferTime bool) bool {
	if source == target {
		if applyMinTransferTime && t.IsStop(source) {
			return departureTime+t.MinTransferTime(StopID(source)) <= arrivalTime
		}
		return departureTime <= arrivalTime
	}
	for _, e := range t.Graph.EdgesFrom(source) {
		if e.To == target {
			return departureTime+e.Weight <= arrivalTime
		}
	}
	return false
}

// ConnectionsCombinable reports whether second can be boarded right after
// alighting from first: same trip is always combinable; otherwise the
// walk between arrival and departure stop (plus minimum transfer time at
// the same stop) must fit in the gap.
func (t *Timetable) ConnectionsCombinable(first, second Connection) bool {
	if first.ArrTime > second.DepTime {
		return false
	}
	if first.Trip == second.Trip {
		return true
	}
	return t.IsCombinable(Vertex(first.ArrStop), first.ArrTime, Vertex(second.DepStop), second.DepTime, true)
}

// Validate checks the timetable preconditions named in the core's error
// taxonomy: connections sorted by departure time, valid stop/trip ids, and
// depTime <= arrTime per connection. A violation here is fatal to the
// caller: the core's invariants assume a well-formed timetable.
func (t *Timetable) Validate() error {
	if !sort.SliceIsSorted(t.Connections, func(i, j int) bool {
		return t.Connections[i].DepTime < t.Connections[j].DepTime
	}) {
		return fmt.Errorf("timetable: connections are not sorted by departure time")
	}
	for i, c := range t.Connections {
		if c.DepTime > c.ArrTime {
			return fmt.Errorf("timetable: connection %d departs after it arrives (dep=%d, arr=%d)", i, c.DepTime, c.ArrTime)
		}
		if int(c.DepStop) < 0 || int(c.DepStop) >= len(t.Stops) {
			return fmt.Errorf("timetable: connection %d has invalid departure stop %d", i, c.DepStop)
		}
		if int(c.ArrStop) < 0 || int(c.ArrStop) >= len(t.Stops) {
			return fmt.Errorf("timetable: connection %d has invalid arrival stop %d", i, c.ArrStop)
		}
		if int(c.Trip) < 0 || int(c.Trip) >= len(t.Trips) {
			return fmt.Errorf("timetable: connection %d has invalid trip %d", i, c.Trip)
		}
	}
	if t.Graph == nil || t.ReverseGraph == nil {
		return fmt.Errorf("timetable: missing transfer graph")
	}
	return nil
}
