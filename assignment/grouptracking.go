package assignment

import "container/heap"

// GroupArrivalLabel pairs a group with the time it becomes available at
// some location: a demand's earliest departure, or the moment a walk
// finishes.
type GroupArrivalLabel struct {
	Group GroupID
	Time  int
}

// groupArrivalHeap is a min-heap on Time, letting GroupTrackingData pop
// the next group to become available without rescanning every pending
// one on each connection processed.
type groupArrivalHeap []GroupArrivalLabel

func (h groupArrivalHeap) Len() int            { return len(h) }
func (h groupArrivalHeap) Less(i, j int) bool  { return h[i].Time < h[j].Time }
func (h groupArrivalHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *groupArrivalHeap) Push(x any)         { *h = append(*h, x.(GroupArrivalLabel)) }
func (h *groupArrivalHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// GroupTrackingData is the forward scan's bookkeeping of where every
// group currently is: originating at a stop awaiting its earliest
// departure, walking towards a stop, waiting at a stop for a connection,
// or riding a trip between boarding and alighting.
type GroupTrackingData struct {
	originating map[StopID]groupArrivalHeap
	walking     map[StopID]*groupArrivalHeap
	waiting     map[StopID][]GroupID
	inTrip      map[TripID][]GroupID
}

// NewGroupTrackingData returns an empty tracker.
func NewGroupTrackingData() *GroupTrackingData {
	return &GroupTrackingData{
		originating: make(map[StopID]groupArrivalHeap),
		walking:     make(map[StopID]*groupArrivalHeap),
		waiting:     make(map[StopID][]GroupID),
		inTrip:      make(map[TripID][]GroupID),
	}
}

// AddOriginating registers that group starts at stop and is not available
// until departureTime (its demand entry's earliest departure).
func (g *GroupTrackingData) AddOriginating(stop StopID, group GroupID, departureTime int) {
	h := g.originating[stop]
	heap.Push(&h, GroupArrivalLabel{Group: group, Time: departureTime})
	g.originating[stop] = h
}

// ProcessOriginatingGroups pops every group at stop whose earliest
// departure has passed (Time <= currentTime) and returns them, oldest
// first. The forward scan calls this once per connection departing from
// stop, with currentTime non-increasing never happening (scan time only
// moves forward), so each group is popped at most once.
func (g *GroupTrackingData) ProcessOriginatingGroups(stop StopID, currentTime int) []GroupID {
	h, ok := g.originating[stop]
	if !ok {
		return nil
	}
	var released []GroupID
	for len(h) > 0 && h[0].Time <= currentTime {
		label := heap.Pop(&h).(GroupArrivalLabel)
		released = append(released, label.Group)
	}
	g.originating[stop] = h
	return released
}

// AddWalking registers that group is walking and will arrive at stop at
// arrivalTime.
func (g *GroupTrackingData) AddWalking(stop StopID, group GroupID, arrivalTime int) {
	h, ok := g.walking[stop]
	if !ok {
		h = &groupArrivalHeap{}
		g.walking[stop] = h
	}
	heap.Push(h, GroupArrivalLabel{Group: group, Time: arrivalTime})
}

// ProcessWalkingGroups pops every group walking to stop that has arrived
// by currentTime and returns them, earliest arrival first.
func (g *GroupTrackingData) ProcessWalkingGroups(stop StopID, currentTime int) []GroupID {
	h, ok := g.walking[stop]
	if !ok {
		return nil
	}
	var released []GroupID
	for h.Len() > 0 && (*h)[0].Time <= currentTime {
		label := heap.Pop(h).(GroupArrivalLabel)
		released = append(released, label.Group)
	}
	return released
}

// AddWaitingGroup registers that group is now waiting at stop, eligible
// to board the next feasible connection.
func (g *GroupTrackingData) AddWaitingGroup(stop StopID, group GroupID) {
	g.waiting[stop] = append(g.waiting[stop], group)
}

// TakeWaitingGroups returns and clears every group currently waiting at
// stop.
func (g *GroupTrackingData) TakeWaitingGroups(stop StopID) []GroupID {
	groups := g.waiting[stop]
	delete(g.waiting, stop)
	return groups
}

// InTrip returns the groups currently riding trip, boarding order first.
func (g *GroupTrackingData) InTrip(trip TripID) []GroupID {
	return g.inTrip[trip]
}

// SetInTrip replaces the groups currently riding trip with groups, the
// result of boarding and alighting decisions made while processing one of
// trip's connections.
func (g *GroupTrackingData) SetInTrip(trip TripID, groups []GroupID) {
	if len(groups) == 0 {
		delete(g.inTrip, trip)
		return
	}
	g.inTrip[trip] = groups
}

// AddAtTarget discards group: having reached destination by riding a
// connection there, its full itinerary is already recorded in its
// Connections list, so it needs no further bookkeeping (mirrors the
// original's DummyGroupList sink).
func (g *GroupTrackingData) AddAtTarget(group GroupID) {}
