// Package mocklora fakes a field experiment: a sender walking away from the base station,
// and a receiver at the base station that hears fewer packets the further away it gets.
// The logs it writes look like the real ones, comments and corrupted lines included.
package mocklora

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"

	"github.com/skypies/geo"

	"github.com/skypies/lorarange/reception"
)

const metersPerDegLat = 111320.0

// Receiver sensitivity at 125kHz bandwidth, by spreading factor (SX1276 datasheet).
var sensitivity = map[int]float64{
	6: -118, 7: -123, 8: -126, 9: -129, 10: -132, 11: -134.5, 12: -137,
}

// Walk describes the simulated run.
type Walk struct {
	Base       geo.Latlong
	HeadingDeg float64 // direction of travel, clockwise from north
	StepMeters float64 // distance covered between transmissions
	Packets    int
	StartSeq   int
	Seed       int64

	SF      int
	TxPower int // dBm

	PathLossExp float64 // log-distance exponent; ~2 in open field, ~3 around buildings
	ShadowingDB float64 // std dev of the per-packet fading

	CorruptProb float64 // chance a received packet's log line is truncated
	SkipProb    float64 // chance the sender skips a sequence number
	Annotate    bool    // add block and line comments
}

func DefaultWalk(base geo.Latlong) Walk {
	return Walk{
		Base:        base,
		HeadingDeg:  45,
		StepMeters:  5,
		Packets:     400,
		StartSeq:    1,
		Seed:        1,
		SF:          7,
		TxPower:     13,
		PathLossExp: 3.2,
		ShadowingDB: 6,
		CorruptProb: 0.02,
		SkipProb:    0.01,
		Annotate:    true,
	}
}

// Truth is what the reconciler should make of the generated logs.
type Truth struct {
	Expected  []reception.Record
	Corrupted []int // sequence numbers whose receiver line was mangled
}

// {{{ w.Generate

// Generate writes the sender and receiver logs.
func (w Walk) Generate(sender, receiver io.Writer) (Truth, error) {
	sens, exists := sensitivity[w.SF]
	if !exists {
		return Truth{}, fmt.Errorf("no sensitivity figure for SF%d", w.SF)
	}

	rnd := rand.New(rand.NewSource(w.Seed))
	sw := bufio.NewWriter(sender)
	rw := bufio.NewWriter(receiver)
	truth := Truth{}

	if w.Annotate {
		fmt.Fprintf(sw, "'''\nmocklora walk: SF%d %ddBm, heading %.0f, %.1fm/packet, seed %d\n'''\n",
			w.SF, w.TxPower, w.HeadingDeg, w.StepMeters, w.Seed)
		fmt.Fprintf(rw, "# mocklora receiver at (%.6f,%.6f)\n", w.Base.Lat, w.Base.Long)
	}

	pos := w.Base
	seq := w.StartSeq
	uptime := 0
	for i := 0; i < w.Packets; i++ {
		pos = w.step(pos, rnd)
		if w.SkipProb > 0 && rnd.Float64() < w.SkipProb {
			seq++
		}
		if w.Annotate && i > 0 && i%100 == 0 {
			fmt.Fprintf(sw, "# %d packets sent\n", i)
		}

		lat, long := fmt.Sprintf("%.6f", pos.Lat), fmt.Sprintf("%.6f", pos.Long)
		fmt.Fprintf(sw, "%d,%s,%s\n", seq, lat, long)

		logged := geo.Latlong{Lat: mustFloat(lat), Long: mustFloat(long)}
		rec := reception.Record{
			Seq:            seq,
			RSSI:           reception.Dropped,
			DistanceMeters: reception.GeoDistance(w.Base, logged),
			Pos:            logged,
		}

		rssi := w.rssi(rec.DistanceMeters, rnd)
		uptime += 2000 + rnd.Intn(500)
		if rssi >= sens {
			line := w.receiverLine(uptime, seq, int(math.Round(rssi)), rssi-sens)
			if w.CorruptProb > 0 && rnd.Float64() < w.CorruptProb {
				line = line[:len(line)-2] // loses the last field and its comma
				truth.Corrupted = append(truth.Corrupted, seq)
			} else {
				rec.RSSI = int(math.Round(rssi))
			}
			fmt.Fprintln(rw, line)
		}

		truth.Expected = append(truth.Expected, rec)
		seq++
	}

	if err := sw.Flush(); err != nil {
		return truth, err
	}
	return truth, rw.Flush()
}

// }}}

// {{{ w.step, w.rssi

func (w Walk) step(pos geo.Latlong, rnd *rand.Rand) geo.Latlong {
	h := w.HeadingDeg * math.Pi / 180
	north := w.StepMeters*math.Cos(h) + rnd.NormFloat64()*0.5
	east := w.StepMeters*math.Sin(h) + rnd.NormFloat64()*0.5
	pos.Lat += north / metersPerDegLat
	pos.Long += east / (metersPerDegLat * math.Cos(pos.Lat*math.Pi/180))
	return pos
}

// Log-distance path loss with 40dB at 1m, plus lognormal shadowing.
func (w Walk) rssi(dist float64, rnd *rand.Rand) float64 {
	d := math.Max(dist, 1)
	return float64(w.TxPower) - 40 - 10*w.PathLossExp*math.Log10(d) + rnd.NormFloat64()*w.ShadowingDB
}

// }}}

// receiverLine lays out the 14 fields the receiver firmware logs: uptime, seq, lat, long,
// alt, sats, freq, sf, bw, rssi, snr, len, txpower, crc.
func (w Walk) receiverLine(uptimeMs, seq, rssi int, margin float64) string {
	snr := math.Min(margin-10, 10)
	return fmt.Sprintf("%d,%d,%.6f,%.6f,%.1f,%d,%.1f,%d,%d,%d,%.1f,%d,%d,%d",
		uptimeMs, seq, w.Base.Lat, w.Base.Long, 21.0, 9, 915.0, w.SF, 125, rssi, snr, 12, w.TxPower, 1)
}

func mustFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		panic(err)
	}
	return f
}
