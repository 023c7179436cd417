package assignment

import (
	"context"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"traines.eu/transit-assignment/decision"
	"traines.eu/transit-assignment/demand"
	"traines.eu/transit-assignment/timetable"
)

// Run assigns d onto tt using settings across numThreads worker
// goroutines, sharding work by destination: each worker processes its
// shard one destination at a time with private stop labels, a fresh
// forward-scan ledger per destination and its own cycle removal, and
// folds each destination's ledger into one AssignmentData under a single
// mutex as soon as that destination is done. log may be nil.
func Run(ctx context.Context, tt *timetable.Timetable, d *demand.Demand, settings Settings, model decision.Model, numThreads int, log *logrus.Entry) (*AssignmentData, error) {
	if err := tt.Validate(); err != nil {
		return nil, err
	}
	if numThreads < 1 {
		numThreads = 1
	}

	var filteredCount int
	d, filteredCount = filterDemand(tt, settings, d, log)
	destinations := distinctDestinations(d)
	progress := xsync.NewCounter()
	perDestinationPassengers := xsync.NewMapOf[Vertex, int64]()

	result := NewAssignmentData()
	result.FilteredDemandEntries = filteredCount
	var mu sync.Mutex

	group, gctx := errgroup.WithContext(ctx)
	shards := shardDestinations(destinations, numThreads)
	for workerIndex, shard := range shards {
		workerIndex, shard := workerIndex, shard
		group.Go(func() error {
			cycles := NewCycleRemoval(settings.CycleMode, tt)
			stopLabels := make([]*StopLabel, tt.NumStops())
			for i := range stopLabels {
				stopLabels[i] = NewStopLabel()
			}
			for _, destination := range shard {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				for _, sl := range stopLabels {
					sl.Reset()
				}
				labels, targetDistance := ComputePATs(tt, destination, settings, stopLabels)

				worker := NewAssignmentWorker(tt, destination, settings, labels, targetDistance, stopLabels, model, settings.RandomSeed+int64(destination))
				if err := worker.Run(d); err != nil {
					return err
				}
				cycles.Run(worker.Data())

				mu.Lock()
				result.Merge(worker.Data())
				mu.Unlock()

				progress.Add(1)
				perDestinationPassengers.Store(destination, int64(worker.Data().NumGroups()))
				if log != nil {
					log.WithFields(logrus.Fields{
						"worker":      workerIndex,
						"destination": destination,
						"done":        progress.Value(),
						"total":       len(destinations),
					}).Debug("destination shard processed")
				}
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// filterDemand drops entries the forward scan could never route: a
// self-loop origin/destination, a stop origin when settings disallows
// departure stops, an origin with no onward edge at all, or a destination
// nothing can walk into. Dropped entries are soft failures, logged and
// counted rather than surfaced as errors.
func filterDemand(tt *timetable.Timetable, settings Settings, d *demand.Demand, log *logrus.Entry) (*demand.Demand, int) {
	filtered := &demand.Demand{Entries: make([]demand.Entry, 0, len(d.Entries))}
	dropped := 0
	for _, e := range d.Entries {
		if err := demandPrecondition(tt, settings, e); err != nil {
			if log != nil {
				log.WithField("demandIndex", e.DemandIndex).Debug(err.Error())
			}
			dropped++
			continue
		}
		filtered.Entries = append(filtered.Entries, e)
	}
	return filtered, dropped
}

// demandPrecondition reports why e cannot be routed, or nil if it can.
// Isolation only disqualifies a non-stop origin/destination: a stop needs
// no transfer-graph edge of its own, since the scan can wait at or arrive
// directly at a stop without ever walking.
func demandPrecondition(tt *timetable.Timetable, settings Settings, e demand.Entry) error {
	switch {
	case e.Origin == e.Destination:
		return &DemandError{Index: e.DemandIndex, Reason: "origin equals destination"}
	case !settings.AllowDepartureStops && tt.IsStop(e.Origin):
		return &DemandError{Index: e.DemandIndex, Reason: "origin is a stop and departure stops are disallowed"}
	case !tt.IsStop(e.Origin) && tt.Graph.OutDegree(e.Origin) == 0:
		return &DemandError{Index: e.DemandIndex, Reason: "origin is isolated"}
	case !tt.IsStop(e.Destination) && tt.ReverseGraph.OutDegree(e.Destination) == 0:
		return &DemandError{Index: e.DemandIndex, Reason: "destination is isolated"}
	default:
		return nil
	}
}

// distinctDestinations returns every distinct destination vertex named by
// d's entries, in first-seen order.
func distinctDestinations(d *demand.Demand) []Vertex {
	seen := make(map[Vertex]struct{})
	var destinations []Vertex
	for _, e := range d.Entries {
		if _, ok := seen[e.Destination]; ok {
			continue
		}
		seen[e.Destination] = struct{}{}
		destinations = append(destinations, e.Destination)
	}
	return destinations
}

// shardDestinations splits destinations into at most numThreads
// contiguous shards, round-robin, so each worker's share of expensive
// destinations (those with more demand) tends to even out.
func shardDestinations(destinations []Vertex, numThreads int) [][]Vertex {
	shards := make([][]Vertex, numThreads)
	for i, d := range destinations {
		shards[i%numThreads] = append(shards[i%numThreads], d)
	}
	return shards
}
