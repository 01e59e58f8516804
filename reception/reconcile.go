package reception

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/skypies/geo"
)

var (
	// ErrSourceUnavailable means one of the logs couldn't be opened or read; no records are
	// returned in that case.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrPreconditionViolation is only returned in Strict mode, when a log's sequence numbers
	// go backwards (typically a sender reboot). Resets are not supported.
	ErrPreconditionViolation = errors.New("sequence numbers decrease")
)

// Source names which log a line came from, for diagnostics.
type Source string

const (
	SourceSender   Source = "sender"
	SourceReceiver Source = "receiver"
)

// DistanceFunc returns the distance in metres between two points.
type DistanceFunc func(a, b geo.Latlong) float64

// GeoDistance is the great-circle distance, in metres.
func GeoDistance(a, b geo.Latlong) float64 { return a.DistKM(b) * 1000.0 }

// Reconciler matches a sender log against a receiver log by sequence number. The zero value
// is not usable; start from New and override fields as needed. A Reconciler holds no state
// between calls.
type Reconciler struct {
	Format   ReceiverFormat
	Comments CommentSyntax
	Distance DistanceFunc

	// Strict turns a decreasing sequence number, in either log, into ErrPreconditionViolation.
	// Otherwise the output in that region is simply unreliable.
	Strict bool

	// OnSkip, if set, is told about every candidate data line that failed to parse. It does
	// not affect the result.
	OnSkip func(src Source, lineNum int, err error)
}

func New() *Reconciler {
	return &Reconciler{
		Format:   DefaultReceiverFormat(),
		Comments: DefaultCommentSyntax(),
		Distance: GeoDistance,
	}
}

// {{{ r.Reconcile

// Reconcile returns one Record per well-formed sender line, in sender order. A packet is
// Dropped unless a well-formed receiver line carries the same sequence number; if several
// do, the first one in the receiver log wins. Receiver lines for packets the sender never
// logged are ignored.
func (r *Reconciler) Reconcile(senderLines, receiverLines []string, base geo.Latlong) ([]Record, error) {
	if err := r.Format.Validate(); err != nil {
		return nil, err
	}
	dist := r.Distance
	if dist == nil {
		dist = GeoDistance
	}

	received, err := r.indexReceiver(receiverLines)
	if err != nil {
		return nil, err
	}
	sent, err := r.parseSender(senderLines)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(sent))
	for _, s := range sent {
		rec := Record{
			Seq:            s.Seq,
			RSSI:           Dropped,
			DistanceMeters: dist(base, s.Pos),
			Pos:            s.Pos,
		}
		if rr, exists := received[s.Seq]; exists {
			rec.RSSI = rr.RSSI
		}
		out = append(out, rec)
	}

	return out, nil
}

// }}}
// {{{ r.ReconcileReaders

func (r *Reconciler) ReconcileReaders(sender, receiver io.Reader, base geo.Latlong) ([]Record, error) {
	senderLines, err := ReadLines(sender)
	if err != nil {
		return nil, fmt.Errorf("%w: reading sender log: %v", ErrSourceUnavailable, err)
	}
	receiverLines, err := ReadLines(receiver)
	if err != nil {
		return nil, fmt.Errorf("%w: reading receiver log: %v", ErrSourceUnavailable, err)
	}
	return r.Reconcile(senderLines, receiverLines, base)
}

// }}}
// {{{ r.ReconcileFiles

// ReconcileFiles reads both logs completely before matching anything.
func (r *Reconciler) ReconcileFiles(senderPath, receiverPath string, base geo.Latlong) ([]Record, error) {
	senderLines, err := ReadFileLines(senderPath)
	if err != nil {
		return nil, err
	}
	receiverLines, err := ReadFileLines(receiverPath)
	if err != nil {
		return nil, err
	}
	return r.Reconcile(senderLines, receiverLines, base)
}

// }}}

// {{{ r.indexReceiver

func (r *Reconciler) indexReceiver(lines []string) (map[int]ReceiverRecord, error) {
	idx := map[int]ReceiverRecord{}
	prevSeq, first := 0, true

	err := r.eachDataLine(lines, func(i int, line string) error {
		rr, err := r.Format.ParseLine(line)
		if err != nil {
			r.skip(SourceReceiver, i, err)
			return nil
		}
		if r.Strict && !first && rr.Seq < prevSeq {
			return fmt.Errorf("%w: receiver line %d: %d after %d", ErrPreconditionViolation,
				i, rr.Seq, prevSeq)
		}
		prevSeq, first = rr.Seq, false

		if _, exists := idx[rr.Seq]; !exists {
			idx[rr.Seq] = rr
		}
		return nil
	})

	return idx, err
}

// }}}
// {{{ r.parseSender

func (r *Reconciler) parseSender(lines []string) ([]SenderRecord, error) {
	ret := []SenderRecord{}

	err := r.eachDataLine(lines, func(i int, line string) error {
		s, err := ParseSenderLine(line)
		if err != nil {
			r.skip(SourceSender, i, err)
			return nil
		}
		if r.Strict && len(ret) > 0 && s.Seq < ret[len(ret)-1].Seq {
			return fmt.Errorf("%w: sender line %d: %d after %d", ErrPreconditionViolation,
				i, s.Seq, ret[len(ret)-1].Seq)
		}
		ret = append(ret, s)
		return nil
	})

	return ret, err
}

// }}}

// eachDataLine runs f over the data lines of one file, with 1-based line numbers.
func (r *Reconciler) eachDataLine(lines []string, f func(int, string) error) error {
	c := NewClassifier(r.Comments)
	for i, line := range lines {
		if c.Classify(line) != LineData {
			continue
		}
		if err := f(i+1, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) skip(src Source, lineNum int, err error) {
	if r.OnSkip != nil {
		r.OnSkip(src, lineNum, err)
	}
}

// {{{ ReadLines, ReadFileLines

// ReadLines slurps a whole log. Lines are returned without their terminators. There is no
// line length limit: a run of serial garbage comes back as one long line, for the parser
// to reject.
func ReadLines(rd io.Reader) ([]string, error) {
	lines := []string{}
	br := bufio.NewReader(rd)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		if err == io.EOF {
			return lines, nil
		} else if err != nil {
			return nil, err
		}
	}
}

func ReadFileLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrSourceUnavailable, path, err)
	}
	return lines, nil
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
