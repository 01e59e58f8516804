// Package reception reconciles a LoRa sender's transmit log against a receiver's log, and
// produces one Record per transmitted packet, saying whether (and how loudly) it was heard.
package reception

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/skypies/geo"
)

// Dropped is the RSSI value given to a packet that was sent but never matched in the
// receiver log. Real readings sit somewhere in [-130,0] dBm.
const Dropped = -999

// Record is the reconciled outcome for a single transmitted packet.
type Record struct {
	Seq            int
	RSSI           int         // dBm, or Dropped
	DistanceMeters float64     // from the base station to Pos
	Pos            geo.Latlong // where the sender was when it transmitted
}

func (r Record) IsDropped() bool { return r.RSSI == Dropped }

// {{{ r.String

// String is the display line: distance rounded to 4 places, then printed in its shortest
// form, always with a decimal point (12.3, 140.0).
func (r Record) String() string {
	return fmt.Sprintf("seq: %d, RSSI: %d, dist: %s, loc: (%s, %s)", r.Seq, r.RSSI,
		shortFloat(math.Round(r.DistanceMeters*1e4)/1e4), shortFloat(r.Pos.Lat), shortFloat(r.Pos.Long))
}

func shortFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// }}}

// SenderRecord is one well-formed line from the sender's log.
type SenderRecord struct {
	Seq int
	Pos geo.Latlong
}

// ReceiverRecord is one well-formed line from the receiver's log. The receiver also logs
// its own position; when those fields don't parse, HasPos is false but the record stands.
type ReceiverRecord struct {
	Seq    int
	RSSI   int
	Pos    geo.Latlong
	HasPos bool
}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
