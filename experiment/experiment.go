// Package experiment ties a field experiment's parameters (date, base station, spreading
// factor, transmit power) to its log files, and loads the reconciled reception dataset.
package experiment

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/skypies/geo"

	"github.com/skypies/lorarange/reception"
)

var (
	// ErrFilesNotFound wraps reception.ErrSourceUnavailable, so either can be tested for.
	ErrFilesNotFound   = fmt.Errorf("files not found for given experiment parameters (%w)", reception.ErrSourceUnavailable)
	ErrUnknownLocation = errors.New("unknown location")
	ErrBadParams       = errors.New("bad experiment parameters")
)

// Experiment identifies one run: e.g. {"24-04", "Cameron", 7, 13}.
type Experiment struct {
	Date     string // as written in the filenames, e.g. "24-04"
	Location string // base station name
	SF       int    // LoRa spreading factor
	TxPower  int    // dBm
}

// {{{ Parse

// Parse builds an Experiment from the four positional CLI arguments.
func Parse(date, location, sf, tx string) (Experiment, error) {
	e := Experiment{Date: date, Location: Capitalize(location)}
	if e.Date == "" || e.Location == "" {
		return e, fmt.Errorf("%w: date and location are required", ErrBadParams)
	}

	var err error
	if e.SF, err = strconv.Atoi(sf); err != nil || e.SF < 6 || e.SF > 12 {
		return e, fmt.Errorf("%w: spreading factor %q (want 6-12)", ErrBadParams, sf)
	}
	if e.TxPower, err = strconv.Atoi(tx); err != nil {
		return e, fmt.Errorf("%w: tx power %q", ErrBadParams, tx)
	}
	return e, nil
}

// }}}

// Capitalize upper-cases the first letter and lower-cases the rest ("REID" -> "Reid").
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func (e Experiment) String() string {
	return fmt.Sprintf("%s-%s-SF%d-%ddBm", e.Date, e.Location, e.SF, e.TxPower)
}

// Paths returns the sender and receiver log paths under dir.
func (e Experiment) Paths(dir string) (sender, receiver string) {
	return filepath.Join(dir, e.String()+"-Sender.csv"), filepath.Join(dir, e.String()+"-Receiver.csv")
}

// {{{ Load

// Load resolves the experiment's base station and files, and reconciles them. Missing files
// come back as ErrFilesNotFound; nothing partial is returned.
func Load(cfg *Config, e Experiment, opts ...func(*reception.Reconciler)) ([]reception.Record, geo.Latlong, error) {
	base, err := cfg.BaseStation(e.Location)
	if err != nil {
		return nil, base, err
	}

	r := cfg.Reconciler()
	for _, opt := range opts {
		opt(r)
	}

	sPath, rPath := e.Paths(cfg.ResultsDir)
	recs, err := r.ReconcileFiles(sPath, rPath, base)
	if errors.Is(err, reception.ErrSourceUnavailable) {
		return nil, base, fmt.Errorf("%w: %s: %v", ErrFilesNotFound, e, err)
	} else if err != nil {
		return nil, base, fmt.Errorf("%s: %w", e, err)
	}

	return recs, base, nil
}

// }}}
