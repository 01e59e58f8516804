// The prr tool analyses one LoRa range experiment. It reconciles the sender's and the
// receiver's logs into a per-packet dataset, then reports on it.
package main

// go run ./cmd/prr display 24-04 Cameron 7 13
// go run ./cmd/prr summary 24-04 Reid 9 2 --config=config/experiment.yaml
// go run ./cmd/prr plot 24-04 Cameron 7 13 -o /tmp/plots -v

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/skypies/geo"
	"github.com/spf13/cobra"

	"github.com/skypies/lorarange/experiment"
	"github.com/skypies/lorarange/reception"
)

// {{{ var()

var (
	Log *logrus.Logger

	fConfigPath string
	fResultsDir string
	fVerbose    bool
	fNoFilter   bool
	fStrict     bool
)

// }}}

// {{{ rootCmd

var rootCmd = &cobra.Command{
	Use:   "prr",
	Short: "Packet reception analysis for LoRa range experiments",
	Long: `prr reconciles a LoRa sender's transmit log against the receiver's log, classifying
every transmitted packet as received (with its RSSI) or dropped, and reports on the result.

Experiments are named by four arguments, which select the log files:
  <date> <location> <sf> <tx>   e.g.  24-04 Cameron 7 13
  -> results/24-04-Cameron-SF7-13dBm-{Sender,Receiver}.csv`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if fVerbose {
			Log.SetLevel(logrus.DebugLevel)
		}
	},
}

// }}}
// {{{ init

func init() {
	Log = logrus.New()
	Log.SetOutput(os.Stderr)
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006/01/02 15:04:05"})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&fConfigPath, "config", "", "YAML experiment config (defaults built in)")
	pf.StringVar(&fResultsDir, "results", "", "directory holding the logs (overrides the config)")
	pf.BoolVarP(&fVerbose, "verbose", "v", false, "debug logging, including every skipped log line")
	pf.BoolVar(&fNoFilter, "no-filter", false, "keep records beyond max_distance_m / outside bounds")
	pf.BoolVar(&fStrict, "strict", false, "fail if sequence numbers ever go backwards")

	rootCmd.AddCommand(displayCmd, summaryCmd, gridCmd, radialCmd, exportCmd, plotCmd)
}

// }}}

// {{{ run

// run is one loaded experiment.
type run struct {
	cfg  *experiment.Config
	exp  experiment.Experiment
	base geo.Latlong
	recs []reception.Record
}

// load resolves the four positional args, reconciles the logs and applies the filter.
func load(args []string) (*run, error) {
	cfg, err := experiment.LoadConfig(fConfigPath)
	if err != nil {
		return nil, err
	}
	if fResultsDir != "" {
		cfg.ResultsDir = fResultsDir
	}
	if fStrict {
		cfg.LogFormat.Strict = true
	}

	exp, err := experiment.Parse(args[0], args[1], args[2], args[3])
	if err != nil {
		return nil, err
	}

	skipped := map[reception.Source]int{}
	onSkip := func(r *reception.Reconciler) {
		r.OnSkip = func(src reception.Source, n int, err error) {
			skipped[src]++
			Log.WithFields(logrus.Fields{"log": src, "line": n}).Debug(err)
		}
	}

	recs, base, err := experiment.Load(cfg, exp, onSkip)
	if err != nil {
		return nil, err
	}
	Log.WithFields(logrus.Fields{
		"experiment":       exp.String(),
		"records":          len(recs),
		"skipped_sender":   skipped[reception.SourceSender],
		"skipped_receiver": skipped[reception.SourceReceiver],
	}).Info("reconciled")

	if !fNoFilter {
		n := len(recs)
		recs = experiment.Filter(recs, cfg.Filter)
		if n != len(recs) {
			Log.Infof("filtered out %d of %d records (max_distance_m=%.0f)", n-len(recs), n,
				cfg.Filter.MaxDistanceMeters)
		}
	}

	return &run{cfg: cfg, exp: exp, base: base, recs: recs}, nil
}

// withRun adapts a per-experiment function into a cobra RunE.
func withRun(f func(cmd *cobra.Command, r *run) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		r, err := load(args)
		if errors.Is(err, experiment.ErrFilesNotFound) || errors.Is(err, experiment.ErrBadParams) {
			cmd.Usage()
			return err
		} else if err != nil {
			return err
		}
		return f(cmd, r)
	}
}

// }}}

func main() {
	if err := rootCmd.Execute(); err != nil {
		Log.Error(err)
		os.Exit(1)
	}
}

func experimentArgs() cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 4 {
			cmd.Usage()
			return fmt.Errorf("need 4 arguments (date location sf tx), got %d", len(args))
		}
		return nil
	}
}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
