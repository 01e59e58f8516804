// go test -v github.com/skypies/lorarange/report
package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/skypies/geo"

	"github.com/skypies/lorarange/binning"
	"github.com/skypies/lorarange/reception"
)

func init() {
	color.NoColor = true
}

var recs = []reception.Record{
	{Seq: 1, RSSI: -70, DistanceMeters: 12.5, Pos: geo.Latlong{Lat: -31.98, Long: 115.81}},
	{Seq: 2, RSSI: reception.Dropped, DistanceMeters: 140, Pos: geo.Latlong{Lat: -31.981, Long: 115.811}},
	{Seq: 3, RSSI: reception.Dropped, DistanceMeters: 260, Pos: geo.Latlong{Lat: -31.982, Long: 115.812}},
	{Seq: 4, RSSI: -95, DistanceMeters: 380, Pos: geo.Latlong{Lat: -31.983, Long: 115.813}},
}

func TestDisplay(t *testing.T) {
	buf := bytes.Buffer{}
	if err := Display(&buf, recs[:2]); err != nil {
		t.Fatal(err)
	}
	expected := "seq: 1, RSSI: -70, dist: 12.5, loc: (-31.98, 115.81)\n" +
		"seq: 2, RSSI: -999, dist: 140.0, loc: (-31.981, 115.811)\n"
	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRSSILimits(t *testing.T) {
	lo, hi, ok := RSSILimits(recs)
	if !ok || lo != -95 || hi != -70 {
		t.Errorf("expected [-95,-70], got [%d,%d] ok=%v", lo, hi, ok)
	}
	if _, _, ok := RSSILimits(recs[1:3]); ok {
		t.Errorf("all dropped: expected ok=false")
	}
}

func TestGradient(t *testing.T) {
	g := NewGradient(recs, 0, 0)
	if g.Min != -95 || g.Max != -70 {
		t.Errorf("data limits: got %+v", g)
	}
	if c := g.Color(-95); c != WeakColor {
		t.Errorf("weakest should be %v, got %v", WeakColor, c)
	}
	if c := g.Color(-70); c != StrongColor {
		t.Errorf("strongest should be %v, got %v", StrongColor, c)
	}
	if c := g.Color(-20); c != StrongColor {
		t.Errorf("should clamp above max, got %v", c)
	}
	if c := g.Color(reception.Dropped); c != DroppedColor {
		t.Errorf("dropped should be grey, got %v", c)
	}
	if f := g.Fraction(-82); f <= 0.4 || f >= 0.6 {
		t.Errorf("midpoint fraction: got %f", f)
	}

	if fixed := NewGradient(recs, -120, -40); fixed.Min != -120 || fixed.Max != -40 {
		t.Errorf("fixed limits ignored: %+v", fixed)
	}
	if def := NewGradient(recs[1:3], 0, 0); def.Min >= def.Max {
		t.Errorf("no data should still give a usable range, got %+v", def)
	}

	if PRRColor(1) != StrongColor || PRRColor(0) != WeakColor {
		t.Errorf("PRR colours wrong")
	}
}

func TestSummary(t *testing.T) {
	s := NewSummary("24-04-Cameron-SF7-13dBm", recs)
	if s.Stats.Sent != 4 || s.Stats.Received != 2 {
		t.Errorf("counts: %s", s.Stats)
	}
	if s.LongestOutage != 2 {
		t.Errorf("expected longest outage 2, got %d", s.LongestOutage)
	}
	if s.MaxDistance != 380 || s.MaxHeardAt != 380 {
		t.Errorf("distances: %f %f", s.MaxDistance, s.MaxHeardAt)
	}

	buf := bytes.Buffer{}
	if err := s.Write(&buf); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"4 sent, 2 received, 2 dropped", "PRR: 50.0%", "range [-95, -70]"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	NewSummary("silent", recs[1:3]).Write(&buf)
	if !strings.Contains(buf.String(), "nothing was received") {
		t.Errorf("expected a no-reception note:\n%s", buf.String())
	}
}

func TestTables(t *testing.T) {
	g := binning.NewGrid(geo.Latlong{Lat: -32, Long: 115.8}, geo.Latlong{Lat: -31.9, Long: 115.9}, 0.01, 0.01)
	g.Add(recs...)
	buf := bytes.Buffer{}
	if err := WriteGrid(&buf, g); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "(1 tiles, 0 records outside the grid)") {
		t.Errorf("grid table:\n%s", buf.String())
	}

	rb := binning.NewRadial(200, 1000)
	rb.Add(recs...)
	buf.Reset()
	if err := WriteRadial(&buf, rb); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "(2 bands, 0 records beyond 1000m)") {
		t.Errorf("radial table:\n%s", buf.String())
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSVFile(path, recs[:2]); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	expected := "seq,rssi,dropped,dist_m,lat,long\n" +
		"1,-70,false,12.5,-31.98,115.81\n" +
		"2,-999,true,140,-31.981,115.811\n"
	if diff := cmp.Diff(expected, string(data)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
