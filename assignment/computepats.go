package assignment

import (
	"math"

	"traines.eu/transit-assignment/timetable"
)

// ConnectionLabel is the backward scan's output for one connection: the
// three alternatives a passenger boarding it can still choose between,
// evaluated towards one fixed destination. A connection's fourth
// alternative, walking straight to destination from its arrival stop
// rather than riding onward or transferring, is not stored here: it
// depends only on the arrival stop, so it is cheap to recompute on demand
// from the targetDistance ComputePATs also returns (see TargetPAT).
type ConnectionLabel struct {
	// TripPAT is the PAT achieved by staying on board past this
	// connection (riding the trip further before alighting).
	TripPAT float64
	// TransferPAT is the PAT achieved by alighting at this connection's
	// arrival stop and continuing from there, discounted by the chance
	// of missing onward connections if this one runs late.
	TransferPAT float64
	// SkipPAT is the PAT of ignoring this connection entirely and
	// waiting for a later boarding option at the same stop.
	SkipPAT float64
}

// ComputePATs runs the backward connection scan towards a single
// destination vertex, producing one ConnectionLabel per timetable
// connection (indexed identically to tt.Connections) and leaving the
// final, queryable per-stop profiles in stopLabels, which callers own and
// must size to tt.NumStops() and Reset before each destination. The
// returned slice is targetDistance, indexed by stop; pass it together with
// a connection to TargetPAT.
func ComputePATs(tt *timetable.Timetable, destination Vertex, settings Settings, stopLabels []*StopLabel) ([]ConnectionLabel, []float64) {
	tripPAT := make([]float64, tt.NumTrips())
	for i := range tripPAT {
		tripPAT[i] = Unreachable
	}

	targetDistance := initializeTargetDistance(tt, destination, settings)

	labels := make([]ConnectionLabel, tt.NumConnections())
	for i := tt.NumConnections() - 1; i >= 0; i-- {
		c := tt.Connections[i]

		label := ConnectionLabel{
			TripPAT:     tripPAT[c.Trip],
			TransferPAT: stopLabels[c.ArrStop].EvaluateWithDelay(c.ArrTime, settings.MaxDelay, settings.WaitingCosts) + settings.TransferCosts,
		}

		skip := stopLabels[c.DepStop].GetSkipEntry()
		label.SkipPAT = skip.Evaluate(c.DepTime, settings.WaitingCosts)

		target := TargetPAT(targetDistance, c)
		best := math.Min(label.TripPAT, math.Min(target, label.TransferPAT))
		tripPAT[c.Trip] = best

		if best < label.SkipPAT {
			addDeparture(tt, c, ConnectionID(i), best, settings, stopLabels)
		}

		labels[i] = label
	}
	return labels, targetDistance
}

// initializeTargetDistance computes, for every stop, the PAT of walking
// straight from that stop to destination and boarding nothing further:
// (1+walkingCosts) times the walk's travel time, read off destination's
// reverse transfer graph edges, or zero for destination itself when it is
// a stop. Stops with no walking edge into destination stay Unreachable.
func initializeTargetDistance(tt *timetable.Timetable, destination Vertex, settings Settings) []float64 {
	distance := make([]float64, tt.NumStops())
	for i := range distance {
		distance[i] = Unreachable
	}
	for _, e := range tt.ReverseGraph.EdgesFrom(destination) {
		if !tt.IsStop(e.To) {
			continue
		}
		distance[StopID(e.To)] = (1 + settings.WalkingCosts) * float64(e.Weight)
	}
	if tt.IsStop(destination) {
		distance[StopID(destination)] = 0
	}
	return distance
}

// TargetPAT returns the PAT of walking straight to destination from c's
// arrival stop, using targetDistance as returned by ComputePATs towards
// that same destination. Unlike TransferPAT it carries no transfer
// surcharge and no delay-weighting: it is a single deterministic walk,
// not a connection that might run late.
func TargetPAT(targetDistance []float64, c timetable.Connection) float64 {
	distance := targetDistance[c.ArrStop]
	if distance >= Unreachable {
		return Unreachable
	}
	return float64(c.ArrTime) + distance
}

// addDeparture records that boarding connection c yields pat, both as a
// waiting-profile entry at c's own departure stop/time, a transfer-profile
// entry at the departure stop itself (for a group already there that
// needs its minimum transfer time before it may board), and, via the
// reverse transfer graph, transfer-profile entries at every other stop
// that can walk to c's departure stop in time to board it.
func addDeparture(tt *timetable.Timetable, c timetable.Connection, id ConnectionID, pat float64, settings Settings, stopLabels []*StopLabel) {
	stopLabels[c.DepStop].AddWaiting(NewWaitingEntry(c.DepTime, id, pat, settings.WaitingCosts))

	bufferTime := tt.MinTransferTime(c.DepStop)
	stopLabels[c.DepStop].AddTransfer(NewTransferEntry(c.DepTime, id, pat, 0, bufferTime, settings.WalkingCosts, settings.WaitingCosts))

	for _, e := range tt.ReverseGraph.EdgesFrom(Vertex(c.DepStop)) {
		if !tt.IsStop(e.To) {
			continue
		}
		neighbor := StopID(e.To)
		stopLabels[neighbor].AddTransfer(NewTransferEntry(c.DepTime, id, pat, e.Weight, 0, settings.WalkingCosts, settings.WaitingCosts))
	}
}
