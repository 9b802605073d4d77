// Package zoom maps view resolutions to conventional Web Mercator zoom levels.
//
// A resolution is the number of map units per rendered pixel. Larger zoom
// levels show more detail and have smaller resolutions, so rules gate features
// on with [Within] once the view is zoomed in far enough.
package zoom

import "math"

// MaxLevel is the largest zoom level in the lookup table.
const MaxLevel = 22

// Resolutions at the zoom levels used by the built-in rule tables.
const (
	Z3  = 19567.87924100512
	Z4  = 9783.93962050256
	Z5  = 4891.96981025128
	Z7  = 1222.99245256282
	Z9  = 305.748113140705
	Z11 = 76.43702828517625
	Z12 = 38.21851414258813
	Z13 = 19.109257071294063
	Z14 = 9.554628535647032
	Z15 = 4.777314267823516
	Z16 = 2.388657133911758
	Z17 = 1.194328566955879
)

// Resolutions for 256px tiles in EPSG:3857, indexed by zoom level. Each level
// halves the previous one.
var resolutions = [MaxLevel + 1]float64{
	156543.03392804097,
	78271.51696402048,
	39135.75848201024,
	Z3,
	Z4,
	Z5,
	2445.98490512564,
	Z7,
	611.49622628141,
	Z9,
	152.8740565703525,
	Z11,
	Z12,
	Z13,
	Z14,
	Z15,
	Z16,
	Z17,
	0.5971642834779395,
	0.29858214173896974,
	0.14929107086948487,
	0.07464553543474244,
	0.03732276771737122,
}

// Resolution returns the resolution at zoom level z. Levels outside
// [0, MaxLevel] are clamped.
func Resolution(z int) float64 {
	return resolutions[max(0, min(z, MaxLevel))]
}

// Within reports whether res is at or below threshold, i.e. whether the view
// is zoomed in at least as far as the threshold. This is the only comparison
// rules make against a resolution.
func Within(res, threshold float64) bool {
	return res <= threshold
}

// Level returns the largest zoom level whose resolution is at least res: the
// level a threshold would need to be set at for res to pass it. It returns 0
// for resolutions coarser than level 0, and MaxLevel for finer ones.
func Level(res float64) int {
	if math.IsNaN(res) {
		return 0
	}

	for z := MaxLevel; z >= 0; z-- {
		if resolutions[z] >= res {
			return z
		}
	}

	return 0
}

// Table returns a copy of the zoom level to resolution lookup table.
func Table() []float64 {
	t := make([]float64, len(resolutions))
	copy(t, resolutions[:])

	return t
}
