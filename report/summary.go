package report

import (
	"fmt"
	"io"
	"math"

	"github.com/fatih/color"
	"github.com/skypies/util/histogram"

	"github.com/skypies/lorarange/binning"
	"github.com/skypies/lorarange/reception"
)

// The RSSI histogram counts dB above this floor, roughly the SX127x sensitivity at SF12.
const rssiFloor = -130

var (
	goodc = color.New(color.FgGreen, color.Bold)
	fairc = color.New(color.FgYellow)
	badc  = color.New(color.FgRed, color.Bold)
	headc = color.New(color.FgBlue, color.Bold)
)

func prrColor(prr float64) *color.Color {
	switch {
	case prr >= 0.9:
		return goodc
	case prr >= 0.5:
		return fairc
	default:
		return badc
	}
}

// Summary is the headline view of one experiment.
type Summary struct {
	Name  string
	Stats binning.Stats

	Weakest, Strongest int
	HasRSSI            bool

	MaxDistance   float64 // furthest transmission
	MaxHeardAt    float64 // furthest transmission that was received
	LongestOutage int     // most consecutive dropped packets

	Hist histogram.Histogram
}

// {{{ NewSummary

func NewSummary(name string, recs []reception.Record) Summary {
	s := Summary{
		Name:  name,
		Stats: binning.Summarize(recs),
		Hist:  histogram.Histogram{NumBuckets: 26, ValMin: 0, ValMax: 130},
	}
	s.Weakest, s.Strongest, s.HasRSSI = RSSILimits(recs)

	run := 0
	for _, r := range recs {
		s.MaxDistance = math.Max(s.MaxDistance, r.DistanceMeters)
		if r.IsDropped() {
			run++
			if run > s.LongestOutage {
				s.LongestOutage = run
			}
			continue
		}
		run = 0
		s.MaxHeardAt = math.Max(s.MaxHeardAt, r.DistanceMeters)
		s.Hist.Add(histogram.ScalarVal(r.RSSI - rssiFloor))
	}

	return s
}

// }}}
// {{{ s.Write

func (s Summary) Write(w io.Writer) error {
	headc.Fprintf(w, "* %s\n", s.Name)
	fmt.Fprintf(w, "* %d sent, %d received, %d dropped (longest outage: %d packets)\n",
		s.Stats.Sent, s.Stats.Received, s.Stats.Sent-s.Stats.Received, s.LongestOutage)

	fmt.Fprintf(w, "* PRR: ")
	prrColor(s.Stats.PRR()).Fprintf(w, "%.1f%%", 100*s.Stats.PRR())
	fmt.Fprintf(w, "\n")

	if s.HasRSSI {
		fmt.Fprintf(w, "* RSSI: mean %.2f dBm, stddev %.2f, range [%d, %d] dBm\n",
			s.Stats.MeanRSSI(), s.Stats.StdDevRSSI(), s.Weakest, s.Strongest)
		fmt.Fprintf(w, "* RSSI histogram (dB above %d dBm): %s\n", rssiFloor, s.Hist)
	} else {
		badc.Fprintf(w, "* nothing was received\n")
	}

	_, err := fmt.Fprintf(w, "* furthest transmission %.0fm, furthest reception %.0fm\n",
		s.MaxDistance, s.MaxHeardAt)
	return err
}

// }}}

// {{{ WriteGrid, WriteRadial

func WriteGrid(w io.Writer, g *binning.Grid) error {
	headc.Fprintf(w, "%4s %4s %10s %11s %5s %5s %7s %9s\n",
		"row", "col", "lat", "long", "sent", "rcvd", "PRR", "RSSI")
	for _, k := range g.Keys() {
		st := g.Tiles[k]
		c := g.Center(k)
		fmt.Fprintf(w, "%4d %4d %10.5f %11.5f %5d %5d ", k.Row, k.Col, c.Lat, c.Long, st.Sent, st.Received)
		prrColor(st.PRR()).Fprintf(w, "%6.1f%%", 100*st.PRR())
		fmt.Fprintf(w, " %9.2f\n", st.MeanRSSI())
	}
	_, err := fmt.Fprintf(w, "(%d tiles, %d records outside the grid)\n", len(g.Tiles), g.Outside)
	return err
}

func WriteRadial(w io.Writer, rb *binning.Radial) error {
	headc.Fprintf(w, "%15s %5s %5s %7s %9s\n", "band", "sent", "rcvd", "PRR", "RSSI")
	for _, b := range rb.Keys() {
		st := rb.Bands[b]
		lo, hi := rb.Range(b)
		fmt.Fprintf(w, "%6.0f-%6.0fm  %5d %5d ", lo, hi, st.Sent, st.Received)
		prrColor(st.PRR()).Fprintf(w, "%6.1f%%", 100*st.PRR())
		fmt.Fprintf(w, " %9.2f\n", st.MeanRSSI())
	}
	_, err := fmt.Fprintf(w, "(%d bands, %d records beyond %.0fm)\n", len(rb.Bands), rb.Beyond, rb.MaxMeters)
	return err
}

// }}}
