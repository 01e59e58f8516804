package report

import (
	"image/color"
	"math"

	"github.com/skypies/lorarange/reception"
)

var (
	WeakColor    = color.RGBA{R: 0xd7, G: 0x19, B: 0x1c, A: 0xff}
	StrongColor  = color.RGBA{R: 0x1a, G: 0x96, B: 0x41, A: 0xff}
	DroppedColor = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// Gradient maps RSSI onto a red (weak) to green (strong) scale. Readings outside
// [Min,Max] are clamped.
type Gradient struct {
	Min, Max int
}

// NewGradient uses the fixed limits if given, else the limits of the data.
func NewGradient(recs []reception.Record, fixedMin, fixedMax int) Gradient {
	if fixedMin != 0 || fixedMax != 0 {
		return Gradient{Min: fixedMin, Max: fixedMax}
	}
	if lo, hi, ok := RSSILimits(recs); ok {
		return Gradient{Min: lo, Max: hi}
	}
	return Gradient{Min: -120, Max: -40}
}

// Fraction places rssi within the gradient: 0 at Min, 1 at Max.
func (g Gradient) Fraction(rssi int) float64 {
	if g.Max <= g.Min {
		return 1
	}
	f := float64(rssi-g.Min) / float64(g.Max-g.Min)
	if f < 0 {
		return 0
	} else if f > 1 {
		return 1
	}
	return f
}

func (g Gradient) Color(rssi int) color.RGBA {
	if rssi == reception.Dropped {
		return DroppedColor
	}
	f := g.Fraction(rssi)
	lerp := func(a, b uint8) uint8 { return uint8(float64(a) + f*(float64(b)-float64(a)) + 0.5) }
	return color.RGBA{
		R: lerp(WeakColor.R, StrongColor.R),
		G: lerp(WeakColor.G, StrongColor.G),
		B: lerp(WeakColor.B, StrongColor.B),
		A: 0xff,
	}
}

// PRRColor is the same scale for a reception ratio in [0,1].
func PRRColor(prr float64) color.RGBA {
	if math.IsNaN(prr) {
		return DroppedColor
	}
	return Gradient{Min: 0, Max: 1000}.Color(int(prr * 1000))
}
