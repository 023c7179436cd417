package assignment

import "math"

// Unreachable is the PAT sentinel larger than any finite value a real
// itinerary can accumulate, matching original_source/Helpers/Types.h's
// Unreachable/INFTY pair (their ratio carries over: this value divided by
// any probability > 1e-7 still compares as "unreachable" against it, and
// summing two of them never overflows float64).
const Unreachable = math.MaxFloat64 / 4

// infiniteDepartureTime is the sentinel departure time for the tail entry
// of every profile, matching INFTY in original_source/Helpers/Types.h.
const infiniteDepartureTime = math.MaxInt32 / 2

// ProfileEntry is one (departureTime, connectionId, normalizedPAT) triple.
// The PAT is stored in normalised form so evaluating it at an earlier time
// t is a single linear step: p - t*waitingCosts.
type ProfileEntry struct {
	DepartureTime int
	ConnectionID  ConnectionID
	normalizedPAT float64
}

func sentinelEntry() ProfileEntry {
	return ProfileEntry{DepartureTime: infiniteDepartureTime, ConnectionID: NoConnection, normalizedPAT: Unreachable}
}

// NewWaitingEntry builds an entry for boarding a connection at d.
func NewWaitingEntry(departureTime int, connectionID ConnectionID, pat float64, waitingCosts float64) ProfileEntry {
	return ProfileEntry{
		DepartureTime: departureTime,
		ConnectionID:  connectionID,
		normalizedPAT: pat + float64(departureTime)*waitingCosts,
	}
}

// NewTransferEntry builds an entry, departing at
// departureTime-transferTime-bufferTime, for walking transferTime seconds
// and waiting bufferTime seconds before boarding at departureTime.
func NewTransferEntry(departureTime int, connectionID ConnectionID, originalPAT float64, transferTime, bufferTime int, walkingCosts, waitingCosts float64) ProfileEntry {
	effectiveDeparture := departureTime - transferTime - bufferTime
	return ProfileEntry{
		DepartureTime: effectiveDeparture,
		ConnectionID:  connectionID,
		normalizedPAT: originalPAT + float64(departureTime-transferTime)*waitingCosts + float64(transferTime)*walkingCosts,
	}
}

// dominates reports whether e strictly precedes other in the profile's
// admission order: e.DepartureTime <= other.DepartureTime and e's PAT is
// strictly better.
func (e ProfileEntry) dominates(other ProfileEntry) bool {
	return e.DepartureTime <= other.DepartureTime && e.normalizedPAT < other.normalizedPAT
}

// patDominates reports whether e's PAT is at least as good as other's,
// ignoring departure time.
func (e ProfileEntry) patDominates(other ProfileEntry) bool {
	return e.normalizedPAT <= other.normalizedPAT
}

// Evaluate returns the PAT of boarding/walking via e when queried at time,
// which must not be later than e.DepartureTime.
func (e ProfileEntry) Evaluate(time int, waitingCosts float64) float64 {
	if e.normalizedPAT >= Unreachable {
		return Unreachable
	}
	return e.normalizedPAT - float64(time)*waitingCosts
}

// Profile is a monotone vector of ProfileEntry, strictly decreasing in both
// departure time and normalised PAT from head to tail: the sentinel entry
// of +infinity departure time and Unreachable PAT sits at the head
// (index 0), and each entry appended after it during the backward scan
// represents an earlier, at-least-as-good departure option.
type Profile []ProfileEntry

func newProfile() Profile {
	return Profile{sentinelEntry()}
}

// delayProbability is the cumulative distribution P(x) of a connection's
// delay, used to weight transfer-profile entries by how likely the
// passenger is to actually need them (earlier entries become relevant only
// if this one is missed due to delay).
func delayProbability(x float64, maxDelay float64) float64 {
	if x < 0 {
		return 0
	}
	if x >= maxDelay {
		return 1
	}
	return 31.0/30.0 - (11.0/30.0)*(maxDelay/(10*x+maxDelay))
}

// StopLabel holds the waiting and transfer profiles of a single stop
// during one destination's backward scan.
type StopLabel struct {
	waitingProfile  Profile
	transferProfile Profile
}

// NewStopLabel returns a label with only the sentinel entries.
func NewStopLabel() *StopLabel {
	return &StopLabel{waitingProfile: newProfile(), transferProfile: newProfile()}
}

// Reset restores a label to its just-constructed state, for reuse across
// destinations without reallocating.
func (s *StopLabel) Reset() {
	s.waitingProfile = s.waitingProfile[:0]
	s.waitingProfile = append(s.waitingProfile, sentinelEntry())
	s.transferProfile = s.transferProfile[:0]
	s.transferProfile = append(s.transferProfile, sentinelEntry())
}

// AddWaiting inserts entry into the waiting profile. Entries arrive in
// strictly decreasing departure-time order (the backward scan's natural
// order), so this is an append, except when the new entry shares its
// departure time with the current back entry, in which case it replaces
// it in place (see DESIGN.md).
func (s *StopLabel) AddWaiting(entry ProfileEntry) {
	back := s.waitingProfile[len(s.waitingProfile)-1]
	if !entry.dominates(back) {
		panic("assignment: waiting profile entry is not dominant over the current back entry")
	}
	if entry.DepartureTime == back.DepartureTime {
		s.waitingProfile[len(s.waitingProfile)-1] = entry
	} else {
		s.waitingProfile = append(s.waitingProfile, entry)
	}
}

// AddTransfer inserts entry into the transfer profile. Unlike AddWaiting,
// entries may arrive out of departure-time order because transfer walking
// shifts times around; this scans back from the tail to find the
// insertion point, drops entry if dominated, and otherwise collapses any
// now-dominated entries in between. Amortised O(1) under the scan's
// natural insertion workload (see original_source's StopLabel.h).
func (s *StopLabel) AddTransfer(entry ProfileEntry) {
	if len(s.transferProfile) <= 1 {
		s.transferProfile = append(s.transferProfile, entry)
		return
	}
	insertionIndex := len(s.transferProfile) - 1
	shift := -1
	for s.transferProfile[insertionIndex].DepartureTime < entry.DepartureTime {
		if insertionIndex == 0 {
			panic("assignment: transfer profile insertion ran past the sentinel")
		}
		if entry.patDominates(s.transferProfile[insertionIndex]) {
			shift++
		}
		insertionIndex--
	}
	if s.transferProfile[insertionIndex].patDominates(entry) {
		return
	}
	if s.transferProfile[insertionIndex].DepartureTime == entry.DepartureTime {
		if insertionIndex == 0 {
			panic("assignment: transfer profile insertion ran past the sentinel")
		}
		shift++
		insertionIndex--
	}
	switch {
	case shift == 0:
		s.transferProfile[insertionIndex+1] = entry
	case shift == -1:
		s.transferProfile = append(s.transferProfile, s.transferProfile[len(s.transferProfile)-1])
		for i := len(s.transferProfile) - 3; i > insertionIndex; i-- {
			s.transferProfile[i+1] = s.transferProfile[i]
		}
		s.transferProfile[insertionIndex+1] = entry
	default:
		s.transferProfile[insertionIndex+1] = entry
		for i := insertionIndex + 2; i+shift < len(s.transferProfile); i++ {
			s.transferProfile[i] = s.transferProfile[i+shift]
		}
		s.transferProfile = s.transferProfile[:len(s.transferProfile)-shift]
	}
}

// EvaluateWithDelay is the transfer profile's delay-weighted evaluation:
// it walks entries forward in time from the first one with departure >=
// time, accumulating probability-weighted PAT contributions until the
// cumulative delay probability reaches 1.
func (s *StopLabel) EvaluateWithDelay(time int, maxDelay int, waitingCosts float64) float64 {
	pat := 0.0
	probability := 0.0
	for i := len(s.transferProfile) - 1; i > 0; i-- {
		if s.transferProfile[i].DepartureTime < time {
			continue
		}
		newProbability := delayProbability(float64(s.transferProfile[i].DepartureTime-time), float64(maxDelay))
		pat += (newProbability - probability) * s.transferProfile[i].Evaluate(time, waitingCosts)
		probability = newProbability
		if probability >= 1 {
			break
		}
	}
	if probability < 1.0 {
		if probability > 0.0000001 {
			pat = pat / probability
		} else {
			return Unreachable
		}
	}
	return pat
}

// GetSkipEntry returns the waiting profile's last (most-future) real
// entry: the cost of skipping the connection currently being scanned.
func (s *StopLabel) GetSkipEntry() ProfileEntry {
	return s.waitingProfile[len(s.waitingProfile)-1]
}

// WaitingProfile exposes the waiting profile for read-only iteration (used
// to seed a ProfileReader for the forward scan).
func (s *StopLabel) WaitingProfile() Profile {
	return s.waitingProfile
}

// ProfileReader is an explicit cursor over a Profile. The forward scan
// queries it with monotonically non-decreasing times, so the cursor only
// ever moves towards the head, never back towards the tail except via
// Reset — amortised O(1) per query over the whole scan.
type ProfileReader struct {
	profile Profile
	i       int
}

// NewProfileReader returns a reader positioned at the tail of profile,
// its best (smallest departure time) entry.
func NewProfileReader(profile Profile) ProfileReader {
	return ProfileReader{profile: profile, i: len(profile) - 1}
}

// Reset repositions the cursor at the tail.
func (r *ProfileReader) Reset() {
	r.i = len(r.profile) - 1
}

// FindEntry returns the best (smallest departure time) entry with
// DepartureTime >= time.
func (r *ProfileReader) FindEntry(time int) ProfileEntry {
	for r.i+1 < len(r.profile) && r.profile[r.i+1].DepartureTime >= time {
		r.i++
	}
	for r.profile[r.i].DepartureTime < time {
		r.i--
	}
	return r.profile[r.i]
}
