package assignment

// Group is a cohort of passengers following the same itinerary so far:
// same origin, same sequence of boarded connections, same current
// location. Groups split whenever a decision model assigns a non-trivial
// distribution across alternatives, and never merge back together
// (AssignmentData.Merge folds whole ledgers and renumbers their groups
// without combining any of them).
type Group struct {
	ID          GroupID
	DemandIndex int
	Size        int
	Origin      Vertex
	// CurrentStop is set to NoStop when the group is created and is not
	// updated afterwards: the forward scan tracks where a group is in
	// GroupTrackingData, not here.
	CurrentStop StopID
	// PAT is the PAT the group was created with, in real (non-normalised)
	// units: the chosen initial option's PAT for groups that walk onto the
	// network, 0 for groups seeded at a stop, Unreachable for unassigned
	// groups. It is not updated as the group moves.
	PAT float64
	// Connections boarded so far, oldest first.
	Connections []ConnectionID
}

// AssignmentData is the append-only bookkeeping ledger of one worker's
// forward scan: every group ever created, and the connection-to-group
// cross-reference, rebuilt once the scan and cycle removal are done, that
// lists each connection's groups without scanning every group.
type AssignmentData struct {
	groups []Group

	// groupsPerConnection indexes which groups board each connection, so
	// a connection-centric pass (e.g. a future capacity check) need not
	// scan every group to find its passengers.
	groupsPerConnection map[ConnectionID][]GroupID

	unassignedGroups    []GroupID // groups that never left their origin
	directWalkingGroups []GroupID // groups that reached their destination by walking only, never boarding

	// RemovedCycles counts groups whose finalized connection list
	// CycleRemoval shortened because it detoured back through an
	// already-visited stop or station. RemovedCycleConnections counts the
	// connections pruned out of those lists in total.
	RemovedCycles           int
	RemovedCycleConnections int

	// FilteredDemandEntries counts demand entries dropped before the scan
	// by a demand precondition failure (self-loop, disallowed departure
	// stop, or isolated origin/destination).
	FilteredDemandEntries int
}

// NewAssignmentData returns an empty ledger.
func NewAssignmentData() *AssignmentData {
	return &AssignmentData{
		groupsPerConnection: make(map[ConnectionID][]GroupID),
	}
}

// CreateNewGroup appends a fresh group with a newly minted, monotonically
// increasing GroupID and returns it.
func (a *AssignmentData) CreateNewGroup(demandIndex int, size int, origin Vertex, pat float64) GroupID {
	id := GroupID(len(a.groups))
	a.groups = append(a.groups, Group{
		ID:          id,
		DemandIndex: demandIndex,
		Size:        size,
		Origin:      origin,
		CurrentStop: NoStop,
		PAT:         pat,
	})
	return id
}

// Group returns a pointer to the live group record for id, which callers
// may mutate in place (current stop, PAT, boarded connections) — groups
// are never moved once appended, so the pointer stays valid for the
// ledger's lifetime.
func (a *AssignmentData) Group(id GroupID) *Group {
	return &a.groups[id]
}

// NumGroups returns the number of groups ever created.
func (a *AssignmentData) NumGroups() int { return len(a.groups) }

// SplitGroup reduces the size of id by each of sizes in turn and returns a
// new sibling group per non-zero size, cloning id's itinerary-so-far but
// not its size. sizes must sum to less than id's current size, so id keeps
// at least one passenger; the remainder stays with id. It panics
// otherwise. Zero sizes are skipped, so groups of size zero are never
// created.
func (a *AssignmentData) SplitGroup(id GroupID, sizes []int) []GroupID {
	parent := a.Group(id)
	children := make([]GroupID, 0, len(sizes))
	remaining := parent.Size
	for _, size := range sizes {
		if size <= 0 {
			continue
		}
		if size >= remaining {
			panic("assignment: split sizes would leave the parent group empty")
		}
		remaining -= size
		childID := GroupID(len(a.groups))
		child := *parent
		child.ID = childID
		child.Size = size
		child.Connections = append([]ConnectionID(nil), parent.Connections...)
		a.groups = append(a.groups, child)
		children = append(children, childID)
	}
	a.Group(id).Size = remaining
	return children
}

// AddConnectionToGroup records that id boarded connection. The reverse
// index, GroupsPerConnection, is not kept up to date here: a group's
// connection list can still be pruned by cycle removal after the forward
// scan finishes, so the index is only trustworthy once RebuildGroupsPerConnection
// has run over every group's final list.
func (a *AssignmentData) AddConnectionToGroup(id GroupID, connection ConnectionID) {
	g := a.Group(id)
	g.Connections = append(g.Connections, connection)
}

// GroupsPerConnection returns the groups known to board connection, in
// the order RebuildGroupsPerConnection last encountered them.
func (a *AssignmentData) GroupsPerConnection(connection ConnectionID) []GroupID {
	return a.groupsPerConnection[connection]
}

// RebuildGroupsPerConnection recomputes the connection-to-group index from
// scratch out of every group's final Connections list. Callers run this
// once per worker, after cycle removal has pruned groups' itineraries and
// before merging into a shared result, mirroring how the original
// recomputes its connection index only once boarding decisions are final.
func (a *AssignmentData) RebuildGroupsPerConnection() {
	a.groupsPerConnection = make(map[ConnectionID][]GroupID)
	for _, g := range a.groups {
		for _, c := range g.Connections {
			a.groupsPerConnection[c] = append(a.groupsPerConnection[c], g.ID)
		}
	}
}

// MarkUnassigned records that id never left its origin (e.g. demand with
// no feasible departure).
func (a *AssignmentData) MarkUnassigned(id GroupID) {
	a.unassignedGroups = append(a.unassignedGroups, id)
}

// MarkDirectWalking records that id reached its destination without
// boarding any connection.
func (a *AssignmentData) MarkDirectWalking(id GroupID) {
	a.directWalkingGroups = append(a.directWalkingGroups, id)
}

// UnassignedGroups returns every group marked unassigned.
func (a *AssignmentData) UnassignedGroups() []GroupID { return a.unassignedGroups }

// DirectWalkingGroups returns every group marked direct-walking.
func (a *AssignmentData) DirectWalkingGroups() []GroupID { return a.directWalkingGroups }

// Merge absorbs other's groups into a, renumbering other's GroupIDs by the
// offset a.NumGroups() had before the merge so every reference stays
// consistent. Intended for the driver's single critical section where one
// worker's private ledger is folded into the run-wide result.
func (a *AssignmentData) Merge(other *AssignmentData) {
	offset := GroupID(len(a.groups))
	for _, g := range other.groups {
		g.ID += offset
		a.groups = append(a.groups, g)
	}
	for connection, ids := range other.groupsPerConnection {
		shifted := make([]GroupID, len(ids))
		for i, id := range ids {
			shifted[i] = id + offset
		}
		a.groupsPerConnection[connection] = append(a.groupsPerConnection[connection], shifted...)
	}
	for _, id := range other.unassignedGroups {
		a.unassignedGroups = append(a.unassignedGroups, id+offset)
	}
	for _, id := range other.directWalkingGroups {
		a.directWalkingGroups = append(a.directWalkingGroups, id+offset)
	}
	a.RemovedCycles += other.RemovedCycles
	a.RemovedCycleConnections += other.RemovedCycleConnections
}
