package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"traines.eu/transit-assignment/assignment"
	"traines.eu/transit-assignment/decision"
	"traines.eu/transit-assignment/demand"
	"traines.eu/transit-assignment/timetable"
)

// DefaultSettingsWithSeed returns the library's default Settings with the
// CLI's -seed flag threaded through, so repeated runs against the same
// input are reproducible.
func DefaultSettingsWithSeed(seed int64) assignment.Settings {
	s := assignment.DefaultSettings()
	s.RandomSeed = seed
	return s
}

// RunAssignment wires a Logit decision model, the library's default
// departure-time-choice and cycle-removal behaviour, and dispatches to
// assignment.Run.
func RunAssignment(ctx context.Context, tt *timetable.Timetable, d *demand.Demand, settings assignment.Settings, numThreads int, log *logrus.Entry) (*assignment.AssignmentData, error) {
	model := decision.NewLogit(settings.RooftopDelta, 1.0/600.0)
	return assignment.Run(ctx, tt, d, settings, model, numThreads, log)
}
