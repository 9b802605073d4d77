package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-spatial/tilestyle/pkg/style"
)

func TestParseColor(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in      string
		want    string
		wantErr bool
	}{
		"short hex":         {in: "#fde", want: "#ffddee"},
		"hex":               {in: "#f2eae2", want: "#f2eae2"},
		"rgb":               {in: "rgb(242,239,235)", want: "#f2efeb"},
		"rgb with spaces":   {in: "rgb(233, 238, 223)", want: "#e9eedf"},
		"translucent white": {in: "rgba(255,255,255,0.8)", want: "#ffffff"},
		"translucent black": {in: "rgba(0,0,0,0.5)", want: "#808080"},
		"named":             {in: "red", wantErr: true},
		"bad component":     {in: "rgb(1,x,3)", wantErr: true},
		"too few":           {in: "rgb(1,2)", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c, err := parseColor(tc.in)
			if tc.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, c.Hex())
		})
	}
}

func TestSwatches(t *testing.T) {
	t.Parallel()

	p := style.NewPool()

	assert.Empty(t, swatches(&style.Icon{ID: "cafe"}))
	assert.Len(t, strings.Fields(swatches(p.Polygon("#fff"))), 1)
	assert.Len(t, strings.Fields(swatches(p.StrokedPolygon("#fff", "#000", 1))), 2)
	assert.Contains(t, swatches(p.Line("red", 1)), "??")
}

func TestOutputFormat(t *testing.T) {
	t.Parallel()

	var buf strings.Builder

	f, err := outputFormat("", &buf)
	require.NoError(t, err)
	assert.Equal(t, OutputYAML, f)

	f, err = outputFormat("JSON", &buf)
	require.NoError(t, err)
	assert.Equal(t, OutputJSON, f)

	_, err = outputFormat("xml", &buf)
	require.ErrorIs(t, err, ErrUnknownOutput)
}
