package zoom_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-spatial/tilestyle/pkg/zoom"
)

func TestTable_Monotonic(t *testing.T) {
	t.Parallel()

	table := zoom.Table()
	require.Len(t, table, zoom.MaxLevel+1)

	for z := 1; z < len(table); z++ {
		assert.Less(t, table[z], table[z-1], "zoom %d", z)
		assert.InDelta(t, table[z-1]/2, table[z], 1e-9, "zoom %d", z)
	}
}

func TestResolution(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		z    int
		want float64
	}{
		"z0":      {z: 0, want: 156543.03392804097},
		"z11":     {z: 11, want: zoom.Z11},
		"z17":     {z: 17, want: zoom.Z17},
		"clamped": {z: 30, want: zoom.Resolution(zoom.MaxLevel)},
		"negative": {
			z:    -1,
			want: 156543.03392804097,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, zoom.Resolution(tc.z)) //nolint:testifylint // Exact table lookup.
		})
	}
}

func TestWithin(t *testing.T) {
	t.Parallel()

	assert.True(t, zoom.Within(zoom.Z11, zoom.Z11))
	assert.True(t, zoom.Within(1, zoom.Z11))
	assert.False(t, zoom.Within(math.Nextafter(zoom.Z11, math.Inf(1)), zoom.Z11))
	assert.False(t, zoom.Within(math.NaN(), zoom.Z11))
}

func TestLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		res  float64
		want int
	}{
		"exact z11":      {res: zoom.Z11, want: 11},
		"between z11/12": {res: 50, want: 11},
		"coarser than 0": {res: 1e9, want: 0},
		"finer than max": {res: 1e-9, want: zoom.MaxLevel},
		"nan":            {res: math.NaN(), want: 0},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := zoom.Level(tc.res)
			assert.Equal(t, tc.want, got)
			assert.True(t, zoom.Within(tc.res, zoom.Resolution(got)) || tc.want == 0)
		})
	}
}
