package main

import (
	"context"
	"flag"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
)

var (
	timetablePathStr    = flag.String("timetable", "", "timetable JSON file path")
	demandPathStr       = flag.String("demand", "", "demand JSON file path")
	numThreads          = flag.Int("threads", 4, "number of assignment worker goroutines")
	randomSeed          = flag.Int64("seed", 42, "base random seed for group splitting")
	logLevel            = flag.String("log-level", "info", "log level [debug, info, warn, error, fatal, panic]")
	pprofAddr           = flag.String("pprof", "", "pprof listening address (empty disables profiling)")
	allowDepartureStops = flag.Bool("allow-departure-stops", true, "allow demand entries whose origin is itself a stop")
	passengerMultiplier = flag.Int("passenger-multiplier", 1, "scale every demand entry's passenger count before assignment")

	logLevels = map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"fatal": logrus.FatalLevel,
		"panic": logrus.PanicLevel,
	}
)

func main() {
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	flag.Parse()
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		logrus.Fatalf("invalid log level: %s", *logLevel)
	}

	if *timetablePathStr == "" || *demandPathStr == "" {
		logrus.Fatal("-timetable and -demand are required")
	}

	if *pprofAddr != "" {
		startPprofServer(*pprofAddr)
	}

	tt, err := LoadTimetable(*timetablePathStr)
	if err != nil {
		logrus.Fatalf("loading timetable: %s", err)
	}
	d, err := LoadDemand(*demandPathStr)
	if err != nil {
		logrus.Fatalf("loading demand: %s", err)
	}

	settings := DefaultSettingsWithSeed(*randomSeed)
	settings.AllowDepartureStops = *allowDepartureStops
	settings.PassengerMultiplier = *passengerMultiplier
	log := logrus.WithField("module", "assign")

	data, err := RunAssignment(context.Background(), tt, d, settings, *numThreads, log)
	if err != nil {
		logrus.Fatalf("assignment failed: %s", err)
	}

	log.WithFields(logrus.Fields{
		"groups":                    data.NumGroups(),
		"unassigned_groups":         len(data.UnassignedGroups()),
		"direct_walking":            len(data.DirectWalkingGroups()),
		"removed_cycles":            data.RemovedCycles,
		"removed_cycle_connections": data.RemovedCycleConnections,
		"filtered_demand_entries":   data.FilteredDemandEntries,
	}).Info("assignment complete")
}
