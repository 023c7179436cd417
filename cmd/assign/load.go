package main

import (
	"encoding/json"
	"os"

	"traines.eu/transit-assignment/demand"
	"traines.eu/transit-assignment/timetable"
)

// timetableFile is the on-disk JSON shape for a timetable: plain data,
// converted into timetable.Timetable's graph representation on load since
// TransferGraph builds its adjacency lists incrementally via AddEdge
// rather than round-tripping through JSON directly.
type timetableFile struct {
	NumVertices int `json:"num_vertices"`
	Stops       []struct {
		MinTransferTime int `json:"min_transfer_time"`
	} `json:"stops"`
	Trips       []struct{} `json:"trips"`
	Connections []struct {
		DepStop int `json:"dep_stop"`
		ArrStop int `json:"arr_stop"`
		DepTime int `json:"dep_time"`
		ArrTime int `json:"arr_time"`
		Trip    int `json:"trip"`
	} `json:"connections"`
	TransferEdges []struct {
		From   int `json:"from"`
		To     int `json:"to"`
		Weight int `json:"weight"`
	} `json:"transfer_edges"`
}

// LoadTimetable reads and validates a timetable from a JSON file.
func LoadTimetable(path string) (*timetable.Timetable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file timetableFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, err
	}

	tt := &timetable.Timetable{
		Stops: make([]timetable.Stop, len(file.Stops)),
		Trips: make([]timetable.Trip, len(file.Trips)),
	}
	for i, s := range file.Stops {
		tt.Stops[i] = timetable.Stop{MinTransferTime: s.MinTransferTime}
	}
	tt.Connections = make([]timetable.Connection, len(file.Connections))
	for i, c := range file.Connections {
		tt.Connections[i] = timetable.Connection{
			DepStop: timetable.StopID(c.DepStop),
			ArrStop: timetable.StopID(c.ArrStop),
			DepTime: c.DepTime,
			ArrTime: c.ArrTime,
			Trip:    timetable.TripID(c.Trip),
		}
	}

	numVertices := file.NumVertices
	if numVertices < len(file.Stops) {
		numVertices = len(file.Stops)
	}
	graph := timetable.NewTransferGraph(numVertices)
	for _, e := range file.TransferEdges {
		graph.AddEdge(timetable.Vertex(e.From), timetable.Vertex(e.To), e.Weight)
	}
	tt.Graph = graph
	tt.ReverseGraph = graph.Reverse()

	if err := tt.Validate(); err != nil {
		return nil, err
	}
	return tt, nil
}

// demandFile is the on-disk JSON shape for a demand matrix.
type demandFile struct {
	Entries []struct {
		DemandIndex       int `json:"demand_index"`
		Origin            int `json:"origin"`
		Destination       int `json:"destination"`
		EarliestDeparture int `json:"earliest_departure"`
		LatestDeparture   int `json:"latest_departure"`
		Passengers        int `json:"passengers"`
	} `json:"entries"`
}

// LoadDemand reads a demand matrix from a JSON file.
func LoadDemand(path string) (*demand.Demand, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file demandFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, err
	}

	d := &demand.Demand{Entries: make([]demand.Entry, len(file.Entries))}
	for i, e := range file.Entries {
		d.Entries[i] = demand.Entry{
			DemandIndex:       e.DemandIndex,
			Origin:            timetable.Vertex(e.Origin),
			Destination:       timetable.Vertex(e.Destination),
			EarliestDeparture: e.EarliestDeparture,
			LatestDeparture:   e.LatestDeparture,
			Passengers:        e.Passengers,
		}
	}
	return d, nil
}
