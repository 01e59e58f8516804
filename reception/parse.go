package reception

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/skypies/geo"
)

// The logs carry no checksum. A truncated write or a serial glitch shows up as the wrong
// number of fields, or a field that won't parse; either way we can't trust the sequence
// number, so the line is treated as if it never existed.
var ErrMalformedRecord = errors.New("malformed record")

type Reason int

const (
	ReasonFieldCount Reason = iota
	ReasonBadSeq
	ReasonBadRSSI
	ReasonBadCoord
)

var reasonNames = [...]string{"field count", "bad sequence number", "bad rssi", "bad coordinate"}

func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// ParseError says why a candidate data line was rejected.
type ParseError struct {
	Reason Reason
	Line   string
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s): %q", ErrMalformedRecord, e.Reason, e.Detail, e.Line)
	}
	return fmt.Sprintf("%s: %s: %q", ErrMalformedRecord, e.Reason, e.Line)
}

func (e *ParseError) Unwrap() error { return ErrMalformedRecord }

// {{{ ReceiverFormat

// ReceiverFormat describes the receiver's 14-field log lines. The RSSI column moved between
// revisions of the receiver firmware (9 in the current one, 10 in an older one), so it is
// configuration rather than a constant. A negative Lat/LongField disables position parsing.
type ReceiverFormat struct {
	FieldCount int `yaml:"field_count"`
	SeqField   int `yaml:"seq_field"`
	RSSIField  int `yaml:"rssi_field"`
	LatField   int `yaml:"lat_field"`
	LongField  int `yaml:"long_field"`
}

const SenderFieldCount = 3

func DefaultReceiverFormat() ReceiverFormat {
	return ReceiverFormat{FieldCount: 14, SeqField: 1, RSSIField: 9, LatField: 2, LongField: 3}
}

func (f ReceiverFormat) Validate() error {
	if f.FieldCount <= 0 {
		return fmt.Errorf("receiver format: field_count must be positive, got %d", f.FieldCount)
	}
	for name, off := range map[string]int{"seq_field": f.SeqField, "rssi_field": f.RSSIField} {
		if off < 0 || off >= f.FieldCount {
			return fmt.Errorf("receiver format: %s=%d outside [0,%d)", name, off, f.FieldCount)
		}
	}
	if f.SeqField == f.RSSIField {
		return fmt.Errorf("receiver format: seq_field and rssi_field are both %d", f.SeqField)
	}
	if f.LatField >= f.FieldCount || f.LongField >= f.FieldCount {
		return fmt.Errorf("receiver format: position fields (%d,%d) outside [0,%d)",
			f.LatField, f.LongField, f.FieldCount)
	}
	return nil
}

// }}}

// {{{ ParseSenderLine

// ParseSenderLine parses `seq,lat,long`.
func ParseSenderLine(line string) (SenderRecord, error) {
	d := splitFields(line)
	if len(d) != SenderFieldCount {
		return SenderRecord{}, &ParseError{Reason: ReasonFieldCount, Line: line,
			Detail: fmt.Sprintf("want %d, got %d", SenderFieldCount, len(d))}
	}

	seq, err := strconv.Atoi(d[0])
	if err != nil {
		return SenderRecord{}, &ParseError{Reason: ReasonBadSeq, Line: line}
	}
	pos, ok := parseLatlong(d[1], d[2])
	if !ok {
		return SenderRecord{}, &ParseError{Reason: ReasonBadCoord, Line: line}
	}

	return SenderRecord{Seq: seq, Pos: pos}, nil
}
// }}}

// Plausible RSSI readings. Anything outside is a corrupted field, and can't be mistaken for
// Dropped.
const (
	MinRSSI = -200
	MaxRSSI = 0
)

// {{{ f.ParseLine

// ParseLine parses one receiver line. Only the sequence number and RSSI are required; the
// receiver's own position is picked up if it parses.
func (f ReceiverFormat) ParseLine(line string) (ReceiverRecord, error) {
	d := splitFields(line)
	if len(d) != f.FieldCount {
		return ReceiverRecord{}, &ParseError{Reason: ReasonFieldCount, Line: line,
			Detail: fmt.Sprintf("want %d, got %d", f.FieldCount, len(d))}
	}

	seq, err := strconv.Atoi(d[f.SeqField])
	if err != nil {
		return ReceiverRecord{}, &ParseError{Reason: ReasonBadSeq, Line: line}
	}
	rssi, err := strconv.Atoi(d[f.RSSIField])
	if err != nil {
		return ReceiverRecord{}, &ParseError{Reason: ReasonBadRSSI, Line: line}
	} else if rssi < MinRSSI || rssi > MaxRSSI {
		return ReceiverRecord{}, &ParseError{Reason: ReasonBadRSSI, Line: line,
			Detail: fmt.Sprintf("%d dBm outside [%d,%d]", rssi, MinRSSI, MaxRSSI)}
	}

	rec := ReceiverRecord{Seq: seq, RSSI: rssi}
	if f.LatField >= 0 && f.LongField >= 0 {
		rec.Pos, rec.HasPos = parseLatlong(d[f.LatField], d[f.LongField])
	}
	return rec, nil
}

// }}}

func splitFields(line string) []string {
	d := strings.Split(strings.TrimRight(line, "\r\n"), ",")
	for i := range d {
		d[i] = strings.TrimSpace(d[i])
	}
	return d
}

func parseLatlong(lat, long string) (geo.Latlong, bool) {
	la, err1 := strconv.ParseFloat(lat, 64)
	lo, err2 := strconv.ParseFloat(long, 64)
	if err1 != nil || err2 != nil {
		return geo.Latlong{}, false
	}
	return geo.Latlong{Lat: la, Long: lo}, true
}
