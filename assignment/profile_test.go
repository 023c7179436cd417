package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopLabelAddWaitingAppendsInDecreasingTimeOrder(t *testing.T) {
	s := NewStopLabel()
	s.AddWaiting(NewWaitingEntry(1000, 5, 200, 2.0))
	s.AddWaiting(NewWaitingEntry(900, 4, 150, 2.0))
	s.AddWaiting(NewWaitingEntry(800, 3, 100, 2.0))

	require.Len(t, s.waitingProfile, 4) // 3 entries + sentinel
	assert.Equal(t, ConnectionID(3), s.GetSkipEntry().ConnectionID)
	assert.InDelta(t, 100, s.GetSkipEntry().Evaluate(800, 2.0), 1e-9)
}

func TestStopLabelAddWaitingReplacesSameDepartureTime(t *testing.T) {
	s := NewStopLabel()
	s.AddWaiting(NewWaitingEntry(1000, 5, 200, 2.0))
	s.AddWaiting(NewWaitingEntry(1000, 6, 150, 2.0))
	require.Len(t, s.waitingProfile, 2)
	assert.Equal(t, ConnectionID(6), s.waitingProfile[1].ConnectionID)
}

func TestProfileReaderFindsLatestEntryAtOrAfterQueryTime(t *testing.T) {
	s := NewStopLabel()
	s.AddWaiting(NewWaitingEntry(1000, 5, 200, 2.0))
	s.AddWaiting(NewWaitingEntry(900, 4, 150, 2.0))
	s.AddWaiting(NewWaitingEntry(800, 3, 100, 2.0))

	reader := NewProfileReader(s.WaitingProfile())
	e := reader.FindEntry(850)
	assert.Equal(t, ConnectionID(4), e.ConnectionID)

	e = reader.FindEntry(950)
	assert.Equal(t, ConnectionID(5), e.ConnectionID)

	e = reader.FindEntry(1100)
	assert.Equal(t, NoConnection, e.ConnectionID)
}

func TestStopLabelAddTransferInsertsOutOfOrderAndKeepsDomination(t *testing.T) {
	s := NewStopLabel()
	s.AddTransfer(NewTransferEntry(1000, 1, 50, 60, 0, 1.0, 2.0))
	s.AddTransfer(NewTransferEntry(1200, 2, 30, 60, 0, 1.0, 2.0))
	s.AddTransfer(NewTransferEntry(900, 3, 500, 60, 0, 1.0, 2.0)) // much worse, should be dropped

	require.GreaterOrEqual(t, len(s.transferProfile), 2)
	// The worse, dominated entry must not have been kept as an
	// improvement over its neighbours: normalised PAT stays strictly
	// decreasing from the sentinel head to the tail.
	for i := 0; i < len(s.transferProfile)-1; i++ {
		assert.Greater(t, s.transferProfile[i].normalizedPAT, s.transferProfile[i+1].normalizedPAT)
	}
}

func TestDelayProbabilityBounds(t *testing.T) {
	assert.Equal(t, 0.0, delayProbability(-1, 600))
	assert.Equal(t, 1.0, delayProbability(600, 600))
	assert.Equal(t, 1.0, delayProbability(1000, 600))
	p := delayProbability(300, 600)
	assert.Greater(t, p, 0.0)
	assert.Less(t, p, 1.0)
}

func TestEvaluateWithDelayFallsBackToUnreachableWhenEmpty(t *testing.T) {
	s := NewStopLabel()
	got := s.EvaluateWithDelay(500, 600, 2.0)
	assert.Equal(t, Unreachable, got)
}

func TestEvaluateWithDelayUsesNearestFeasibleEntry(t *testing.T) {
	s := NewStopLabel()
	s.AddTransfer(NewTransferEntry(1000, 1, 100, 0, 0, 1.0, 2.0))
	got := s.EvaluateWithDelay(900, 600, 2.0)
	assert.Less(t, got, Unreachable)
}
