package binning

import (
	"fmt"
	"sort"

	"github.com/skypies/lorarange/reception"
)

// Radial bins records into rings around the base station, BandMeters wide. Band n covers
// [n*BandMeters, (n+1)*BandMeters). Records at or beyond MaxMeters (if set) are counted in
// Beyond instead.
type Radial struct {
	BandMeters float64
	MaxMeters  float64

	Bands  map[int]*Stats
	Beyond int
}

func NewRadial(bandMeters, maxMeters float64) *Radial {
	return &Radial{BandMeters: bandMeters, MaxMeters: maxMeters, Bands: map[int]*Stats{}}
}

func (rb *Radial) Band(distMeters float64) int { return int(distMeters / rb.BandMeters) }

// Range returns the inner and outer radius of a band.
func (rb *Radial) Range(band int) (float64, float64) {
	return float64(band) * rb.BandMeters, float64(band+1) * rb.BandMeters
}

func (rb *Radial) Add(recs ...reception.Record) {
	for _, r := range recs {
		if rb.MaxMeters > 0 && r.DistanceMeters >= rb.MaxMeters {
			rb.Beyond++
			continue
		}
		b := rb.Band(r.DistanceMeters)
		if _, exists := rb.Bands[b]; !exists {
			rb.Bands[b] = &Stats{}
		}
		rb.Bands[b].Add(r)
	}
}

// Keys returns the occupied bands, nearest first.
func (rb *Radial) Keys() []int {
	keys := []int{}
	for k := range rb.Bands {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func (rb Radial) String() string {
	str := ""
	for _, b := range rb.Keys() {
		lo, hi := rb.Range(b)
		str += fmt.Sprintf(" %6.0f-%6.0fm : %s\n", lo, hi, rb.Bands[b])
	}
	if rb.Beyond > 0 {
		str += fmt.Sprintf(" (%d records beyond %.0fm)\n", rb.Beyond, rb.MaxMeters)
	}
	return str
}
