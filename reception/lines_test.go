package reception

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultCommentSyntax())

	tests := []struct {
		line   string
		kind   LineKind
		inside bool
	}{
		{"1,-31.98,115.81", LineData, false},
		{"", LineBlank, false},
		{"\r", LineBlank, false},
		{"# a note", LineComment, false},
		{"'''", LineDelimiter, true},
		{"1,-31.98,115.81", LineComment, true},
		{"# still inside", LineComment, true},
		{"", LineComment, true},
		{"'''\r", LineDelimiter, false},
		{" '''", LineData, false}, // not exactly the delimiter
		{"2,-31.98,115.81", LineData, false},
	}

	for i, test := range tests {
		if got := c.Classify(test.line); got != test.kind {
			t.Errorf("[%d] %q: expected %s, got %s", i, test.line, test.kind, got)
		}
		if c.InsideComment() != test.inside {
			t.Errorf("[%d] %q: expected inside=%v", i, test.line, test.inside)
		}
	}
}

func TestClassifierStateIsPerInstance(t *testing.T) {
	a := NewClassifier(DefaultCommentSyntax())
	a.Classify("'''")

	b := NewClassifier(DefaultCommentSyntax())
	if got := b.Classify("1,2,3"); got != LineData {
		t.Errorf("fresh classifier should start outside a comment, got %s", got)
	}
	if !a.InsideComment() {
		t.Errorf("first classifier lost its state")
	}
}

func TestCustomSyntax(t *testing.T) {
	c := NewClassifier(CommentSyntax{BlockDelimiter: "/*/", LineMarker: "//"})
	if got := c.Classify("# not a comment here"); got != LineData {
		t.Errorf("expected data, got %s", got)
	}
	if got := c.Classify("// comment"); got != LineComment {
		t.Errorf("expected comment, got %s", got)
	}
	if got := c.Classify("'''"); got != LineData {
		t.Errorf("expected data, got %s", got)
	}
}

func TestParseSenderLine(t *testing.T) {
	s, err := ParseSenderLine(" 12, -31.98 ,115.81")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Seq != 12 || s.Pos.Lat != -31.98 || s.Pos.Long != 115.81 {
		t.Errorf("unexpected %+v", s)
	}

	for _, bad := range []string{"12,-31.98", "12,-31.98,115.81,0", "1.5,-31.98,115.81", "12,,115.81"} {
		if _, err := ParseSenderLine(bad); err == nil {
			t.Errorf("%q: expected a parse error", bad)
		}
	}
}

func TestParseReceiverLine(t *testing.T) {
	f := DefaultReceiverFormat()

	rr, err := f.ParseLine("1,42,-31.98,115.81,x,x,x,x,x,-70,x,x,x,x")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rr.Seq != 42 || rr.RSSI != -70 || !rr.HasPos || rr.Pos.Lat != -31.98 {
		t.Errorf("unexpected %+v", rr)
	}

	// Receiver had no GPS fix; the packet still counts.
	rr, err = f.ParseLine("1,43,nofix,nofix,x,x,x,x,x,-71,x,x,x,x")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rr.HasPos || rr.RSSI != -71 {
		t.Errorf("unexpected %+v", rr)
	}

	for _, rssi := range []string{"-999", "-201", "1"} {
		_, err := f.ParseLine("1,44,-31.98,115.81,x,x,x,x,x," + rssi + ",x,x,x,x")
		var pe *ParseError
		if !errors.As(err, &pe) || pe.Reason != ReasonBadRSSI {
			t.Errorf("RSSI %s: expected ReasonBadRSSI, got %v", rssi, err)
		}
	}
	if rr, err := f.ParseLine("1,45,-31.98,115.81,x,x,x,x,x,-137,x,x,x,x"); err != nil || rr.RSSI != -137 {
		t.Errorf("SF12 floor reading rejected: %+v, %v", rr, err)
	}
}

func TestReceiverFormatValidate(t *testing.T) {
	if err := DefaultReceiverFormat().Validate(); err != nil {
		t.Errorf("default format: %v", err)
	}
	bad := []ReceiverFormat{
		{FieldCount: 0, SeqField: 1, RSSIField: 9},
		{FieldCount: 14, SeqField: 1, RSSIField: 14},
		{FieldCount: 14, SeqField: -1, RSSIField: 9},
		{FieldCount: 14, SeqField: 9, RSSIField: 9},
		{FieldCount: 14, SeqField: 1, RSSIField: 9, LatField: 20, LongField: 3},
	}
	for _, f := range bad {
		if err := f.Validate(); err == nil {
			t.Errorf("%+v: expected an error", f)
		}
	}
}
