package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInTripTracksRidersUntilEmptied(t *testing.T) {
	g := NewGroupTrackingData()
	assert.Empty(t, g.InTrip(TripID(0)))

	g.SetInTrip(TripID(0), []GroupID{1, 2})
	assert.Equal(t, []GroupID{1, 2}, g.InTrip(TripID(0)))

	g.SetInTrip(TripID(0), []GroupID{2})
	assert.Equal(t, []GroupID{2}, g.InTrip(TripID(0)))

	g.SetInTrip(TripID(0), nil)
	assert.Empty(t, g.InTrip(TripID(0)))
}

func TestAddAtTargetIsANoOp(t *testing.T) {
	g := NewGroupTrackingData()
	assert.NotPanics(t, func() {
		g.AddAtTarget(GroupID(7))
	})
}

func TestInTripBucketsAreIndependentPerTrip(t *testing.T) {
	g := NewGroupTrackingData()
	g.SetInTrip(TripID(0), []GroupID{1})
	g.SetInTrip(TripID(1), []GroupID{2})
	assert.Equal(t, []GroupID{1}, g.InTrip(TripID(0)))
	assert.Equal(t, []GroupID{2}, g.InTrip(TripID(1)))
}
