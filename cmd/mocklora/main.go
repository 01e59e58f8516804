// The mocklora tool writes a synthetic pair of experiment logs, so prr can be run end to
// end without a field trip.
package main

// go run ./cmd/mocklora 01-01 Cameron 7 13 --packets=600 --heading=200
// go run ./cmd/prr summary 01-01 Cameron 7 13

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skypies/lorarange/experiment"
	"github.com/skypies/lorarange/mocklora"
)

var (
	Log *logrus.Logger

	fConfigPath string
	fResultsDir string
	fPackets    int
	fSeed       int64
	fStep       float64
	fHeading    float64
	fCorrupt    float64
	fForce      bool
)

var rootCmd = &cobra.Command{
	Use:          "mocklora <date> <location> <sf> <tx>",
	Short:        "Generate fake sender/receiver logs for a LoRa range walk",
	Args:         cobra.ExactArgs(4),
	SilenceUsage: true,
	RunE:         generate,
}

func init() {
	Log = logrus.New()
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006/01/02 15:04:05"})

	f := rootCmd.Flags()
	f.StringVar(&fConfigPath, "config", "", "YAML experiment config (defaults built in)")
	f.StringVar(&fResultsDir, "results", "", "directory to write the logs into (overrides the config)")
	f.IntVar(&fPackets, "packets", 400, "how many packets the sender transmits")
	f.Int64Var(&fSeed, "seed", 1, "random seed")
	f.Float64Var(&fStep, "step", 5, "metres walked between packets")
	f.Float64Var(&fHeading, "heading", 45, "direction of the walk, degrees clockwise from north")
	f.Float64Var(&fCorrupt, "corrupt", 0.02, "fraction of receiver lines to mangle")
	f.BoolVar(&fForce, "force", false, "overwrite existing logs")
}

func generate(cmd *cobra.Command, args []string) error {
	cfg, err := experiment.LoadConfig(fConfigPath)
	if err != nil {
		return err
	}
	if fResultsDir != "" {
		cfg.ResultsDir = fResultsDir
	}

	exp, err := experiment.Parse(args[0], args[1], args[2], args[3])
	if err != nil {
		return err
	}
	base, err := cfg.BaseStation(exp.Location)
	if err != nil {
		return err
	}

	w := mocklora.DefaultWalk(base)
	w.SF, w.TxPower = exp.SF, exp.TxPower
	w.Packets, w.Seed, w.StepMeters, w.HeadingDeg, w.CorruptProb = fPackets, fSeed, fStep, fHeading, fCorrupt

	if err := os.MkdirAll(cfg.ResultsDir, 0755); err != nil {
		return err
	}
	sPath, rPath := exp.Paths(cfg.ResultsDir)
	sf, err := create(sPath)
	if err != nil {
		return err
	}
	defer sf.Close()
	rf, err := create(rPath)
	if err != nil {
		sf.Close()
		os.Remove(sPath)
		return err
	}
	defer rf.Close()

	truth, err := w.Generate(sf, rf)
	if err != nil {
		return err
	}

	heard := 0
	for _, r := range truth.Expected {
		if !r.IsDropped() {
			heard++
		}
	}
	Log.WithFields(logrus.Fields{
		"sender":    sPath,
		"receiver":  rPath,
		"packets":   len(truth.Expected),
		"heard":     heard,
		"corrupted": len(truth.Corrupted),
	}).Info("generated")

	if err := sf.Close(); err != nil {
		return err
	}
	return rf.Close()
}

func create(path string) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !fForce {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if os.IsExist(err) {
		return nil, fmt.Errorf("%s already exists (use --force)", path)
	}
	return f, err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		Log.Fatal(err)
	}
}
