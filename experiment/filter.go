package experiment

import (
	"github.com/skypies/lorarange/reception"
)

// Filter drops records the sender logged from implausible places: GPS glitches put the odd
// fix kilometres away. It runs after reconciliation and returns a new slice, in order.
func Filter(recs []reception.Record, fc FilterConfig) []reception.Record {
	ret := make([]reception.Record, 0, len(recs))
	for _, r := range recs {
		if fc.MaxDistanceMeters > 0 && r.DistanceMeters > fc.MaxDistanceMeters {
			continue
		}
		if !fc.Bounds.IsZero() && !fc.Bounds.LatlongBox().Contains(r.Pos) {
			continue
		}
		ret = append(ret, r)
	}
	return ret
}
