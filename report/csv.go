package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/jszwec/csvutil"

	"github.com/skypies/lorarange/reception"
)

// Row is the CSV shape of a reception.Record.
type Row struct {
	Seq            int     `csv:"seq"`
	RSSI           int     `csv:"rssi"`
	Dropped        bool    `csv:"dropped"`
	DistanceMeters float64 `csv:"dist_m"`
	Lat            float64 `csv:"lat"`
	Long           float64 `csv:"long"`
}

func ToRow(r reception.Record) Row {
	return Row{
		Seq:            r.Seq,
		RSSI:           r.RSSI,
		Dropped:        r.IsDropped(),
		DistanceMeters: r.DistanceMeters,
		Lat:            r.Pos.Lat,
		Long:           r.Pos.Long,
	}
}

// WriteCSV writes a header row and one row per record.
func WriteCSV(w io.Writer, recs []reception.Record) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(Row{}); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, r := range recs {
		if err := enc.Encode(ToRow(r)); err != nil {
			return fmt.Errorf("csv row seq=%d: %w", r.Seq, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteCSVFile(path string, recs []reception.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv create %s: %w", path, err)
	}
	if err := WriteCSV(f, recs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
