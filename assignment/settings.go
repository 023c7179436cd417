package assignment

// CycleMode selects how repeated visits to the same stop or station are
// handled by the CycleRemoval post-pass that runs after the forward scan.
type CycleMode int

const (
	// KeepCycles performs no cycle detection; a group may legitimately
	// revisit a stop (e.g. a loop route).
	KeepCycles CycleMode = iota
	// RemoveStopCycles prunes the detour out of itineraries that revisit
	// the same stop.
	RemoveStopCycles
	// RemoveStationCycles prunes the detour out of itineraries that
	// revisit the same station, where a station is a cluster of stops the
	// timetable considers mutually interchangeable.
	RemoveStationCycles
)

// DepartureTimeChoiceMode selects how a group chooses among multiple
// initial departure options with close PATs.
type DepartureTimeChoiceMode int

const (
	// NoDepartureTimeChoice takes the best initial departure option,
	// splitting evenly between options that tie for best.
	NoDepartureTimeChoice DepartureTimeChoiceMode = iota
	// RooftopDepartureTimeChoice applies the dominance-pruned
	// distribution implemented by ChoiceSet.RooftopDistribution.
	RooftopDepartureTimeChoice
)

// AdaptationCostMode selects how the adaptation cost of an unplanned
// connection is computed from its delay relative to the planned one.
type AdaptationCostMode int

const (
	// NoAdaptationCost disables adaptation cost entirely.
	NoAdaptationCost AdaptationCostMode = iota
	// LinearAdaptationCost clamps the raw delay to
	// [0, MaxAdaptationCost].
	LinearAdaptationCost
	// BoxCoxAdaptationCost applies a Box-Cox transform to the clamped
	// delay, penalising large schedule deviations nonlinearly.
	BoxCoxAdaptationCost
)

// Settings bundles every tunable of one assignment run. Zero-value
// Settings is invalid; use DefaultSettings and override fields as needed.
type Settings struct {
	WaitingCosts  float64 // PAT cost per second spent waiting
	WalkingCosts  float64 // PAT cost per second spent walking
	TransferCosts float64 // fixed PAT cost per additional transfer

	MaxDelay int // seconds; caps the delay distribution in EvaluateWithDelay

	DepartureTimeChoice DepartureTimeChoiceMode
	RooftopDelta        int // seconds; Rooftop dominance window

	AdaptationCostMode AdaptationCostMode
	MaxAdaptationCost  float64
	BoxCoxLambda       float64

	CycleMode CycleMode

	PeriodLength int // seconds; the demand generation period, for time-expansion of repeated entries
	RandomSeed   int64

	// AllowDepartureStops permits demand entries whose origin is itself a
	// stop. When false, such entries are filtered out before the scan,
	// since they model trips that skip the initial walk access leg this
	// assignment is meant to capture.
	AllowDepartureStops bool
	// PassengerMultiplier scales every demand entry's passenger count
	// before groups are created, e.g. to assign a sampled subset of
	// demand and scale the result back up. Must be > 0.
	PassengerMultiplier int
}

// DefaultSettings returns a Settings with reasonable baseline coefficients.
func DefaultSettings() Settings {
	return Settings{
		WaitingCosts:        2.0,
		WalkingCosts:        1.4,
		TransferCosts:       300,
		MaxDelay:            600,
		DepartureTimeChoice: RooftopDepartureTimeChoice,
		RooftopDelta:        120,
		AdaptationCostMode:  LinearAdaptationCost,
		MaxAdaptationCost:   600,
		BoxCoxLambda:        0.5,
		CycleMode:           RemoveStopCycles,
		PeriodLength:        86400,
		RandomSeed:          42,
		AllowDepartureStops: true,
		PassengerMultiplier: 1,
	}
}
