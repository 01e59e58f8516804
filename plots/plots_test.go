// go test -v github.com/skypies/lorarange/plots
package plots

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/plot/vg"

	"github.com/skypies/geo"

	"github.com/skypies/lorarange/binning"
	"github.com/skypies/lorarange/reception"
	"github.com/skypies/lorarange/report"
)

var (
	base = geo.Latlong{Lat: -31.980937, Long: 115.819665}
	recs = []reception.Record{
		{Seq: 1, RSSI: -70, DistanceMeters: 50, Pos: geo.Latlong{Lat: -31.9805, Long: 115.8196}},
		{Seq: 2, RSSI: reception.Dropped, DistanceMeters: 150, Pos: geo.Latlong{Lat: -31.9795, Long: 115.8196}},
		{Seq: 3, RSSI: -101, DistanceMeters: 250, Pos: geo.Latlong{Lat: -31.9785, Long: 115.8196}},
	}
)

func TestSaveAll(t *testing.T) {
	rb := binning.NewRadial(100, 0)
	rb.Add(recs...)

	dir := t.TempDir()
	opts := Options{Width: 4 * vg.Inch, Height: 3 * vg.Inch}
	paths, err := SaveAll(dir, "test", recs, base, rb, report.NewGradient(recs, 0, 0), opts)
	if err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	expected := []string{
		filepath.Join(dir, "rssi_vs_distance.png"),
		filepath.Join(dir, "prr_vs_distance.png"),
		filepath.Join(dir, "coverage.png"),
	}
	if diff := cmp.Diff(expected, paths); diff != "" {
		t.Fatalf("paths (-want +got):\n%s", diff)
	}
	for _, path := range paths {
		if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
			t.Errorf("%s: missing or empty (%v)", path, err)
		}
	}
}

func TestPlotsWithNoData(t *testing.T) {
	if _, err := RSSIvsDistance("empty", nil, -130); err != nil {
		t.Errorf("RSSIvsDistance: %v", err)
	}
	if _, err := PRRvsDistance("empty", binning.NewRadial(100, 0)); err != nil {
		t.Errorf("PRRvsDistance: %v", err)
	}
	if _, err := Coverage("empty", nil, base, report.Gradient{Min: -120, Max: -40}); err != nil {
		t.Errorf("Coverage: %v", err)
	}
}

func TestPRRPoints(t *testing.T) {
	rb := binning.NewRadial(100, 0)
	rb.Add(recs...)
	p, err := PRRvsDistance("prr", rb)
	if err != nil {
		t.Fatal(err)
	}
	if p.Y.Max != 100 {
		t.Errorf("PRR axis should run to 100%%, got %f", p.Y.Max)
	}
}
