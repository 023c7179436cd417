package assignment

import "traines.eu/transit-assignment/timetable"

// CycleRemoval is a post-pass over a completed forward scan's groups: it
// walks each group's finalized connection list and, in
// its RemoveStopCycles/RemoveStationCycles modes, drops any leading or
// embedded detour that revisits a stop (or station) the group has already
// been at, keeping only the longest prefix/suffix combination that forms
// a cycle-free journey. KeepCycles performs no pruning at all.
type CycleRemoval struct {
	tt   *timetable.Timetable
	mode CycleMode
	// station[stop] is the smallest-numbered stop among stop itself and
	// the stops reachable from it by a single transfer edge; nil outside
	// RemoveStationCycles.
	station []StopID
}

// NewCycleRemoval builds a CycleRemoval for mode. Both removal modes look
// connections up in tt; under RemoveStationCycles it is also used here to
// precompute each stop's station.
func NewCycleRemoval(mode CycleMode, tt *timetable.Timetable) *CycleRemoval {
	c := &CycleRemoval{tt: tt, mode: mode}
	if mode == RemoveStationCycles {
		c.station = make([]StopID, tt.NumStops())
		for s := range c.station {
			c.station[s] = StopID(s)
			for _, e := range tt.Graph.EdgesFrom(Vertex(s)) {
				if tt.IsStop(e.To) && StopID(e.To) < c.station[s] {
					c.station[s] = StopID(e.To)
				}
			}
		}
	}
	return c
}

// Run prunes cycles out of every group's finalized connection list in
// data, per c's mode, then rebuilds data's connection-to-group index from
// the (possibly shortened) results. Groups whose connection list becomes
// empty are recorded as direct-walking.
func (c *CycleRemoval) Run(data *AssignmentData) {
	switch c.mode {
	case RemoveStopCycles:
		c.removeStopCycles(data)
	case RemoveStationCycles:
		c.removeStationCycles(data)
	}
	data.RebuildGroupsPerConnection()
}

// removeStopCycles discards, from each group's connection list, any
// detour that departs from and later returns to the same stop: it first
// records, per stop, the earliest path index at which the group departs
// from (or arrives at) that stop, then reverse-walks the list jumping
// straight from an arrival back to that stop's earliest visit, skipping
// everything in between.
func (c *CycleRemoval) removeStopCycles(data *AssignmentData) {
	stopCycleIndex := make([]int, c.tt.NumStops())
	for id := 0; id < data.NumGroups(); id++ {
		group := data.Group(GroupID(id))
		connections := group.Connections
		size := len(connections)
		if size == 0 {
			continue
		}

		for i := size - 1; i >= 0; i-- {
			conn := c.tt.Connections[connections[i]]
			stopCycleIndex[conn.DepStop] = i
			stopCycleIndex[conn.ArrStop] = i + 1
		}

		var used []ConnectionID
		i := size - 1
		for i >= 0 {
			arr := c.tt.Connections[connections[i]].ArrStop
			i = stopCycleIndex[arr] - 1
			if i < 0 || i >= size {
				break
			}
			used = append(used, connections[i])
			dep := c.tt.Connections[connections[i]].DepStop
			i = stopCycleIndex[dep] - 1
			if i < 0 || i >= size {
				break
			}
		}
		reverseConnections(used)

		if len(used) == 0 {
			data.MarkDirectWalking(GroupID(id))
		}
		if len(used) != size {
			data.RemovedCycleConnections += size - len(used)
			data.RemovedCycles++
		}
		group.Connections = used
	}
}

func reverseConnections(c []ConnectionID) {
	for l, r := 0, len(c)-1; l < r; l, r = l+1, r-1 {
		c[l], c[r] = c[r], c[l]
	}
}

// pathLabel tracks the boarding state CycleRemoval needs while
// re-walking a group's journey: the stop/time/trip it most recently
// boarded or alighted at, and the station that stop belongs to.
type pathLabel struct {
	time    int
	trip    TripID
	stop    StopID
	station StopID
}

func newPathLabel(c timetable.Connection, station []StopID) pathLabel {
	return pathLabel{time: c.DepTime, trip: c.Trip, stop: c.DepStop, station: station[c.DepStop]}
}

func (p *pathLabel) update(c timetable.Connection, arrivalStation StopID) {
	p.time = c.ArrTime
	p.trip = c.Trip
	p.stop = c.ArrStop
	p.station = arrivalStation
}

// removeStationCycles is removeStopCycles's station-aware generalisation:
// a revisit only counts as a cycle if the group departs the revisited
// station on a different trip that the scheduled PAT computation could
// actually have combined with its prior arrival there (same-trip
// continuations and walking transfers that could never have been offered
// are not skipped).
func (c *CycleRemoval) removeStationCycles(data *AssignmentData) {
	stopCycleIndex := make([]int, c.tt.NumStops())
	var path []StopID
	for id := 0; id < data.NumGroups(); id++ {
		group := data.Group(GroupID(id))
		connections := group.Connections
		size := len(connections)
		if size == 0 {
			continue
		}

		label := newPathLabel(c.tt.Connections[connections[0]], c.station)
		path = path[:0]
		path = append(path, label.station)
		for i := 0; i < size; i++ {
			stopCycleIndex[path[len(path)-1]] = i
			path = append(path, c.station[c.tt.Connections[connections[i]].ArrStop])
		}
		destinationStation := path[len(path)-1]

		i := 0
		if stopCycleIndex[label.station] > i {
			j := stopCycleIndex[label.station]
			for j > i {
				if path[j] == path[i] {
					next := c.tt.Connections[connections[j]]
					if next.Trip != label.trip && c.tt.IsCombinable(Vertex(label.stop), label.time, Vertex(next.DepStop), next.DepTime, false) {
						break
					}
				}
				j--
			}
			i = j
		}

		var used []ConnectionID
		for i < size {
			conn := c.tt.Connections[connections[i]]
			if label.station == destinationStation && label.trip != conn.Trip {
				break
			}
			used = append(used, connections[i])
			i++
			if i >= size {
				break
			}
			label.update(conn, path[i])
			if stopCycleIndex[label.station] > i {
				j := stopCycleIndex[label.station]
				for j > i {
					if path[j] == path[i] {
						next := c.tt.Connections[connections[j]]
						if next.Trip != label.trip && c.tt.IsCombinable(Vertex(label.stop), label.time, Vertex(next.DepStop), next.DepTime, true) {
							break
						}
					}
					j--
				}
				i = j
			}
		}

		if len(used) == 0 {
			data.MarkDirectWalking(GroupID(id))
		}
		if len(used) != size {
			data.RemovedCycleConnections += size - len(used)
			data.RemovedCycles++
		}
		group.Connections = used
	}
}
