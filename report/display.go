// Package report renders reconciled reception data as text and CSV.
package report

import (
	"fmt"
	"io"

	"github.com/skypies/lorarange/reception"
)

// Display writes one line per record.
func Display(w io.Writer, recs []reception.Record) error {
	for _, r := range recs {
		if _, err := fmt.Fprintln(w, r); err != nil {
			return err
		}
	}
	return nil
}

// RSSILimits returns the weakest and strongest RSSI among received packets. ok is false if
// nothing was received.
func RSSILimits(recs []reception.Record) (weakest, strongest int, ok bool) {
	for _, r := range recs {
		if r.IsDropped() {
			continue
		}
		if !ok {
			weakest, strongest, ok = r.RSSI, r.RSSI, true
			continue
		}
		if r.RSSI < weakest {
			weakest = r.RSSI
		}
		if r.RSSI > strongest {
			strongest = r.RSSI
		}
	}
	return
}
