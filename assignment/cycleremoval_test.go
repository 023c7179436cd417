package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traines.eu/transit-assignment/timetable"
)

func buildCycleRemovalTimetable(t *testing.T, connections []timetable.Connection, numStops int, edges [][3]int) *timetable.Timetable {
	t.Helper()
	stops := make([]timetable.Stop, numStops)
	for i := range stops {
		stops[i] = timetable.Stop{MinTransferTime: 60}
	}
	trips := make([]timetable.Trip, numStops+len(connections))
	tt := &timetable.Timetable{Stops: stops, Trips: trips, Connections: connections}
	graph := timetable.NewTransferGraph(numStops)
	for _, e := range edges {
		graph.AddEdge(Vertex(e[0]), Vertex(e[1]), e[2])
	}
	tt.Graph = graph
	tt.ReverseGraph = graph.Reverse()
	require.NoError(t, tt.Validate())
	return tt
}

func groupWithConnections(data *AssignmentData, ids ...ConnectionID) GroupID {
	id := data.CreateNewGroup(0, 10, Vertex(0), 0)
	data.Group(id).Connections = append([]ConnectionID(nil), ids...)
	return id
}

func TestNewCycleRemovalComputesStationByStop(t *testing.T) {
	tt := buildCycleRemovalTimetable(t, nil, 4, [][3]int{
		{1, 0, 10},
		{0, 1, 10},
		{2, 1, 1},
	})
	c := NewCycleRemoval(RemoveStationCycles, tt)
	require.Len(t, c.station, 4)
	assert.Equal(t, StopID(0), c.station[0])
	assert.Equal(t, StopID(0), c.station[1])
	assert.Equal(t, StopID(1), c.station[2])
	assert.Equal(t, StopID(3), c.station[3]) // no outgoing edges: stays its own station
}

func TestRemoveStopCyclesPrunesRevisitedStop(t *testing.T) {
	connections := []timetable.Connection{
		{DepStop: 0, ArrStop: 1, DepTime: 0, ArrTime: 50, Trip: 0},
		{DepStop: 1, ArrStop: 0, DepTime: 60, ArrTime: 110, Trip: 1},
		{DepStop: 0, ArrStop: 2, DepTime: 120, ArrTime: 200, Trip: 2},
	}
	tt := buildCycleRemovalTimetable(t, connections, 3, nil)
	data := NewAssignmentData()
	id := groupWithConnections(data, 0, 1, 2)

	NewCycleRemoval(RemoveStopCycles, tt).Run(data)

	assert.Equal(t, []ConnectionID{2}, data.Group(id).Connections)
	assert.Equal(t, 1, data.RemovedCycles)
	assert.Equal(t, 2, data.RemovedCycleConnections)
	assert.Equal(t, []GroupID{id}, data.GroupsPerConnection(2))
	assert.Empty(t, data.GroupsPerConnection(0))
}

func TestRemoveStopCyclesLeavesAcyclicPathUntouched(t *testing.T) {
	connections := []timetable.Connection{
		{DepStop: 0, ArrStop: 1, DepTime: 0, ArrTime: 50, Trip: 0},
		{DepStop: 1, ArrStop: 2, DepTime: 60, ArrTime: 110, Trip: 1},
	}
	tt := buildCycleRemovalTimetable(t, connections, 3, nil)
	data := NewAssignmentData()
	id := groupWithConnections(data, 0, 1)

	NewCycleRemoval(RemoveStopCycles, tt).Run(data)

	assert.Equal(t, []ConnectionID{0, 1}, data.Group(id).Connections)
	assert.Zero(t, data.RemovedCycles)
	assert.Zero(t, data.RemovedCycleConnections)
}

func TestRemoveStopCyclesMarksDirectWalkingOnFullRoundTrip(t *testing.T) {
	connections := []timetable.Connection{
		{DepStop: 0, ArrStop: 1, DepTime: 0, ArrTime: 50, Trip: 0},
		{DepStop: 1, ArrStop: 0, DepTime: 60, ArrTime: 110, Trip: 1},
	}
	tt := buildCycleRemovalTimetable(t, connections, 2, nil)
	data := NewAssignmentData()
	id := groupWithConnections(data, 0, 1)

	NewCycleRemoval(RemoveStopCycles, tt).Run(data)

	assert.Empty(t, data.Group(id).Connections)
	assert.Equal(t, []GroupID{id}, data.DirectWalkingGroups())
	assert.Equal(t, 1, data.RemovedCycles)
	assert.Equal(t, 2, data.RemovedCycleConnections)
}

func TestRemoveStationCyclesLeavesAcyclicPathUntouched(t *testing.T) {
	connections := []timetable.Connection{
		{DepStop: 0, ArrStop: 1, DepTime: 0, ArrTime: 50, Trip: 0},
		{DepStop: 1, ArrStop: 2, DepTime: 60, ArrTime: 110, Trip: 1},
	}
	tt := buildCycleRemovalTimetable(t, connections, 3, nil)
	data := NewAssignmentData()
	id := groupWithConnections(data, 0, 1)

	NewCycleRemoval(RemoveStationCycles, tt).Run(data)

	assert.Equal(t, []ConnectionID{0, 1}, data.Group(id).Connections)
	assert.Zero(t, data.RemovedCycles)
}

func TestRemoveStationCyclesPrunesRevisitedStationViaCombinableSkip(t *testing.T) {
	// Detours back through stop 0 before continuing to stop 2; stop 0 is
	// reachable again from stop 0 itself with time to spare, so the
	// straight skip from the first departure directly to the connection
	// leaving stop 0 the second time is combinable and the detour is
	// dropped entirely.
	connections := []timetable.Connection{
		{DepStop: 0, ArrStop: 1, DepTime: 0, ArrTime: 50, Trip: 0},
		{DepStop: 1, ArrStop: 0, DepTime: 60, ArrTime: 110, Trip: 1},
		{DepStop: 0, ArrStop: 2, DepTime: 120, ArrTime: 200, Trip: 2},
	}
	tt := buildCycleRemovalTimetable(t, connections, 3, nil)
	data := NewAssignmentData()
	id := groupWithConnections(data, 0, 1, 2)

	NewCycleRemoval(RemoveStationCycles, tt).Run(data)

	assert.Equal(t, []ConnectionID{2}, data.Group(id).Connections)
	assert.Equal(t, 1, data.RemovedCycles)
	assert.Equal(t, 2, data.RemovedCycleConnections)
}

func TestCycleRemovalRunRebuildsIndexEvenWithoutPruning(t *testing.T) {
	connections := []timetable.Connection{
		{DepStop: 0, ArrStop: 1, DepTime: 0, ArrTime: 50, Trip: 0},
	}
	tt := buildCycleRemovalTimetable(t, connections, 2, nil)
	data := NewAssignmentData()
	id := groupWithConnections(data, 0)
	require.Empty(t, data.GroupsPerConnection(0))

	NewCycleRemoval(KeepCycles, tt).Run(data)

	assert.Equal(t, []GroupID{id}, data.GroupsPerConnection(0))
}
