package assignment

import (
	"math"
	"math/rand"

	"github.com/samber/lo"

	"traines.eu/transit-assignment/decision"
	"traines.eu/transit-assignment/demand"
	"traines.eu/transit-assignment/timetable"
)

// AssignmentWorker runs the forward, group-splitting scan towards one
// destination: it consumes the backward scan's ConnectionLabels and
// per-stop profiles, releases demand at its origin, and replays the
// timetable connection by connection, splitting each group it touches
// between its available next moves according to a decision.Model. Cycle
// removal is not part of this scan; it runs as a separate post-pass over
// w.Data() once Run returns.
type AssignmentWorker struct {
	tt             *timetable.Timetable
	destination    Vertex
	settings       Settings
	labels         []ConnectionLabel
	targetDistance []float64
	stopLabels     []*StopLabel
	model          decision.Model
	rng            *rand.Rand

	tracking *GroupTrackingData
	data     *AssignmentData
}

// NewAssignmentWorker builds a worker for one destination. labels,
// targetDistance and stopLabels must come from a ComputePATs call towards
// the same destination.
func NewAssignmentWorker(tt *timetable.Timetable, destination Vertex, settings Settings, labels []ConnectionLabel, targetDistance []float64, stopLabels []*StopLabel, model decision.Model, seed int64) *AssignmentWorker {
	return &AssignmentWorker{
		tt:             tt,
		destination:    destination,
		settings:       settings,
		labels:         labels,
		targetDistance: targetDistance,
		stopLabels:     stopLabels,
		model:          model,
		rng:            rand.New(rand.NewSource(seed)),
		tracking:       NewGroupTrackingData(),
		data:           NewAssignmentData(),
	}
}

// Data returns the worker's assignment ledger, populated once Run has
// completed.
func (w *AssignmentWorker) Data() *AssignmentData { return w.data }

// linearAdaptationCost clamps the magnitude of a schedule deviation
// (seconds, either sign) to [0, max] before it is charged as PAT.
func linearAdaptationCost(deviation float64, max float64) float64 {
	return lo.Clamp(math.Abs(deviation), 0, max)
}

// boxCoxAdaptationCost applies a Box-Cox transform to the clamped
// deviation, penalising large schedule deviations more steeply than
// linearAdaptationCost while keeping small ones nearly linear.
func boxCoxAdaptationCost(deviation float64, max float64, lambda float64) float64 {
	d := linearAdaptationCost(deviation, max)
	if lambda == 0 {
		return math.Log(1 + d)
	}
	return (math.Pow(1+d, lambda) - 1) / lambda
}

// adaptationCost dispatches on w.settings.AdaptationCostMode.
func (w *AssignmentWorker) adaptationCost(deviation float64) float64 {
	switch w.settings.AdaptationCostMode {
	case LinearAdaptationCost:
		return linearAdaptationCost(deviation, w.settings.MaxAdaptationCost)
	case BoxCoxAdaptationCost:
		return boxCoxAdaptationCost(deviation, w.settings.MaxAdaptationCost, w.settings.BoxCoxLambda)
	default:
		return 0
	}
}

// Seed releases entry's passengers into the worker's tracking structures:
// groups originating at a stop simply wait for their earliest departure;
// groups originating off the stop network choose among nearby stops to
// walk to first.
func (w *AssignmentWorker) Seed(entry demand.Entry) error {
	if entry.Passengers <= 0 {
		return nil
	}
	entry.Passengers *= w.settings.PassengerMultiplier
	if w.tt.IsStop(entry.Origin) {
		id := w.data.CreateNewGroup(entry.DemandIndex, entry.Passengers, entry.Origin, 0)
		w.tracking.AddOriginating(StopID(entry.Origin), id, entry.EarliestDeparture)
		return nil
	}
	return w.collectInitialWalkingChoices(entry)
}

// collectInitialWalkingChoices builds a ChoiceSet of "walk to stop s and
// board the best connection reachable from there" options for an origin
// that is not itself a stop, applies the configured departure-time-choice
// rule, and splits entry.Passengers across the surviving options. Every
// released group, whether it started on the stop network or walked onto
// it here, joins the same originating bucket at its chosen stop.
func (w *AssignmentWorker) collectInitialWalkingChoices(entry demand.Entry) error {
	var set ChoiceSet

	for _, e := range w.tt.Graph.EdgesFrom(entry.Origin) {
		if !w.tt.IsStop(e.To) {
			continue
		}
		stop := StopID(e.To)
		arrival := entry.EarliestDeparture + e.Weight
		reader := NewProfileReader(w.stopLabels[stop].WaitingProfile())
		best := reader.FindEntry(arrival)
		value := best.Evaluate(arrival, w.settings.WaitingCosts)
		if value >= Unreachable {
			continue
		}
		pat := float64(e.Weight)*w.settings.WalkingCosts + value
		if arrival > entry.LatestDeparture {
			// Boarding later than the demand's preferred window costs an
			// adaptation penalty on top of the raw PAT.
			pat += w.adaptationCost(float64(arrival - entry.LatestDeparture))
		}
		set.Add(Choice{
			DepartureTime: arrival,
			Connection:    best.ConnectionID,
			PAT:           pat,
			Stop:          stop,
			ArrivalTime:   arrival,
		})
	}
	if set.Len() == 0 {
		w.data.MarkUnassigned(w.data.CreateNewGroup(entry.DemandIndex, entry.Passengers, entry.Origin, Unreachable))
		return nil
	}

	var weights []int
	if w.settings.DepartureTimeChoice == RooftopDepartureTimeChoice {
		weights = set.RooftopDistribution(w.settings.RooftopDelta, w.model)
	} else {
		values := make([]int, set.Len())
		for i, c := range set.Choices() {
			values[i] = int(c.PAT)
		}
		weights = decision.NewOptimal(0).Distribution(values)
	}
	sizes := GetGroupSizes(weights[:len(weights)-1], entry.Passengers, w.rng)

	for i, size := range sizes {
		if size <= 0 {
			continue
		}
		choice := set.Choices()[i]
		id := w.data.CreateNewGroup(entry.DemandIndex, size, entry.Origin, choice.PAT)
		w.tracking.AddOriginating(choice.Stop, id, choice.ArrivalTime)
	}
	return nil
}

// ProcessConnection applies one timetabled connection to every group it
// can affect: groups now ready to board at its departure stop, groups
// already riding its trip, and groups that just hopped off it. i indexes
// both w.tt.Connections and w.labels.
func (w *AssignmentWorker) ProcessConnection(i int) {
	c := w.tt.Connections[i]
	label := w.labels[i]

	for _, g := range w.tracking.ProcessOriginatingGroups(c.DepStop, c.DepTime) {
		w.tracking.AddWaitingGroup(c.DepStop, g)
	}
	for _, g := range w.tracking.ProcessWalkingGroups(c.DepStop, c.DepTime) {
		w.tracking.AddWaitingGroup(c.DepStop, g)
	}

	target := TargetPAT(w.targetDistance, c)
	hopOffPAT := math.Min(target, label.TransferPAT)
	hopOnPAT := math.Min(hopOffPAT, label.TripPAT)

	waiting, boarding := w.moveGroups(w.tracking.TakeWaitingGroups(c.DepStop), label.SkipPAT, hopOnPAT)
	for _, g := range waiting {
		w.tracking.AddWaitingGroup(c.DepStop, g)
	}

	inTrip := append(w.tracking.InTrip(c.Trip), boarding...)
	for _, g := range inTrip {
		w.data.AddConnectionToGroup(g, ConnectionID(i))
	}

	riding, hoppedOff := w.moveGroups(inTrip, label.TripPAT, hopOffPAT)
	w.tracking.SetInTrip(c.Trip, riding)
	if len(hoppedOff) == 0 {
		return
	}

	continuing, atTarget := w.moveGroups(hoppedOff, label.TransferPAT, target)
	for _, g := range atTarget {
		w.tracking.AddAtTarget(g)
	}
	if len(continuing) == 0 {
		return
	}
	w.walkToNextStop(c.ArrStop, continuing, c.ArrTime)
}

// patToInt converts a PAT to the integer form the decision models take,
// capping it at math.MaxInt32 so Unreachable stays the largest value
// instead of overflowing the conversion.
func patToInt(pat float64) int {
	if pat >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(pat)
}

// moveGroups splits every group in from between staying, weighted by
// fromPAT, and moving to a freshly returned list, weighted by toPAT, per
// the decision model's two-option split. This is the single primitive
// behind the board, alight and target decisions ProcessConnection makes;
// walkToNextStop splits across its options with Distribution instead.
func (w *AssignmentWorker) moveGroups(from []GroupID, fromPAT, toPAT float64) (stayed, moved []GroupID) {
	if len(from) == 0 {
		return nil, nil
	}
	weights := w.model.Distribution2(patToInt(fromPAT), patToInt(toPAT))
	stayWeight, moveWeight := weights[0], weights[1]
	stayed = make([]GroupID, 0, len(from))
	for _, g := range from {
		group := w.data.Group(g)
		stayCount, moveCount := GetGroupSizes2(stayWeight, moveWeight, group.Size, w.rng)
		switch {
		case stayCount == 0:
			moved = append(moved, g)
		case moveCount == 0:
			stayed = append(stayed, g)
		default:
			children := w.data.SplitGroup(g, []int{moveCount})
			moved = append(moved, children[0])
			stayed = append(stayed, g)
		}
	}
	return stayed, moved
}

// walkToNextStop routes groups that just hopped off a connection at stop
// from, arriving there at arrivalTime, onward to wherever they wait next:
// if from has no walking neighbours they simply wait longer at from past
// its minimum transfer time; otherwise they split, per the decision
// model, across every reachable neighbour stop plus staying at from.
func (w *AssignmentWorker) walkToNextStop(from StopID, groups []GroupID, arrivalTime int) {
	if w.tt.Graph.OutDegree(Vertex(from)) == 0 {
		w.waitLonger(from, groups, arrivalTime)
		return
	}

	set := w.collectIntermediateWalkingChoices(from, arrivalTime)
	if set.Len() == 0 {
		w.waitLonger(from, groups, arrivalTime)
		return
	}
	if set.Len() == 1 {
		choice := set.Choices()[0]
		for _, g := range groups {
			w.tracking.AddWalking(choice.Stop, g, choice.DepartureTime)
		}
		return
	}

	values := make([]int, set.Len())
	for i, c := range set.Choices() {
		values[i] = int(c.PAT)
	}
	weights := w.model.Distribution(values)

	byOption := make([][]GroupID, set.Len())
	for _, g := range groups {
		group := w.data.Group(g)
		sizes := GetGroupSizes(weights[:len(weights)-1], group.Size, w.rng)
		movedOriginalGroup := false
		for j, size := range sizes {
			if size <= 0 {
				continue
			}
			option := g
			if movedOriginalGroup {
				option = w.data.SplitGroup(g, []int{size})[0]
			}
			movedOriginalGroup = true
			byOption[j] = append(byOption[j], option)
		}
	}
	for j, list := range byOption {
		if len(list) == 0 {
			continue
		}
		choice := set.Choices()[j]
		for _, g := range list {
			w.tracking.AddWalking(choice.Stop, g, choice.DepartureTime)
		}
	}
}

// waitLonger enqueues groups to reappear at from itself, after its
// minimum transfer time: from has nowhere useful to walk to, so the only
// way forward is a later departure from the same stop.
func (w *AssignmentWorker) waitLonger(from StopID, groups []GroupID, arrivalTime int) {
	departure := arrivalTime + w.tt.MinTransferTime(from)
	for _, g := range groups {
		w.tracking.AddWalking(from, g, departure)
	}
}

// collectIntermediateWalkingChoices builds a ChoiceSet of every stop from
// can walk to, plus staying at from itself past its minimum transfer
// time, each evaluated as "board the best connection reachable from there
// after walking and waiting".
func (w *AssignmentWorker) collectIntermediateWalkingChoices(from StopID, time int) ChoiceSet {
	var set ChoiceSet
	for _, e := range w.tt.Graph.EdgesFrom(Vertex(from)) {
		if !w.tt.IsStop(e.To) {
			continue
		}
		w.evaluateIntermediateStop(StopID(e.To), time, e.Weight, 0, &set)
	}
	w.evaluateIntermediateStop(from, time, 0, w.tt.MinTransferTime(from), &set)
	return set
}

// evaluateIntermediateStop appends a candidate to set if boarding the
// best connection at stop, after walking transferTime seconds from time
// and then waiting bufferTime seconds, is reachable at all.
func (w *AssignmentWorker) evaluateIntermediateStop(stop StopID, time, transferTime, bufferTime int, set *ChoiceSet) {
	departureTime := time + transferTime + bufferTime
	reader := NewProfileReader(w.stopLabels[stop].WaitingProfile())
	entry := reader.FindEntry(departureTime)
	value := entry.Evaluate(departureTime-bufferTime, w.settings.WaitingCosts)
	if value >= Unreachable {
		return
	}
	pat := value + float64(transferTime)*w.settings.WalkingCosts
	set.Add(Choice{Stop: stop, DepartureTime: departureTime, PAT: pat, Connection: entry.ConnectionID})
}

// Run executes the full forward scan for the worker's destination: seed
// every relevant demand entry, then replay connections chronologically.
// Cycle removal is a separate step the caller runs afterwards against
// w.Data().
func (w *AssignmentWorker) Run(d *demand.Demand) error {
	for _, entry := range d.Entries {
		if entry.Destination != w.destination {
			continue
		}
		if err := w.Seed(entry); err != nil {
			return err
		}
	}
	for i := range w.tt.Connections {
		w.ProcessConnection(i)
	}
	return nil
}
