// Package binning groups reconciled records into map tiles or distance bands, and works
// out the packet reception ratio and signal strength of each group.
package binning

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/skypies/lorarange/reception"
)

// Stats accumulates the records that fell into one bin.
type Stats struct {
	Sent     int
	Received int
	rssi     []float64
}

func (s *Stats) Add(r reception.Record) {
	s.Sent++
	if !r.IsDropped() {
		s.Received++
		s.rssi = append(s.rssi, float64(r.RSSI))
	}
}

// PRR is the packet reception ratio, or NaN for an empty bin.
func (s Stats) PRR() float64 {
	if s.Sent == 0 {
		return math.NaN()
	}
	return float64(s.Received) / float64(s.Sent)
}

// MeanRSSI is over received packets only; NaN if there were none.
func (s Stats) MeanRSSI() float64 {
	if len(s.rssi) == 0 {
		return math.NaN()
	}
	return stat.Mean(s.rssi, nil)
}

// StdDevRSSI is NaN with fewer than two received packets.
func (s Stats) StdDevRSSI() float64 {
	if len(s.rssi) < 2 {
		return math.NaN()
	}
	return stat.StdDev(s.rssi, nil)
}

func (s Stats) String() string {
	return fmt.Sprintf("%4d sent, %4d rcvd, PRR %5.1f%%, RSSI %7.2f dBm",
		s.Sent, s.Received, 100*s.PRR(), s.MeanRSSI())
}

// Summarize puts every record into one bin.
func Summarize(recs []reception.Record) Stats {
	s := Stats{}
	for _, r := range recs {
		s.Add(r)
	}
	return s
}
