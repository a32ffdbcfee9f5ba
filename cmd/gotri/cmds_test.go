package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri/catalog"
	"github.com/2x3systems/gotri/libtri/surfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const figureEightExpr = "(0, 0, 1, [1,3,0,2]), (0, 1, 1, [2,0,3,1]), (0, 2, 1, [0,3,2,1]), (0, 3, 1, [2,1,0,3])"

func TestWriteInfo(t *testing.T) {
	tri, err := catalog.ParseLine(3, figureEightExpr)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, writeInfo(&out, tri))

	text := out.String()
	assert.Contains(t, text, "f=[1 2 4 2]")
	assert.Contains(t, text, "vertex 0: degree 8, link ideal (euler 0)")
	assert.Contains(t, text, "H1: Z\n")
	assert.NotContains(t, text, "invalid")
}

func TestWriteSurfaces(t *testing.T) {
	tri, err := catalog.ParseLine(3, "(0, 0, 0, [1,0,2,3]), (0, 2, 0, [0,1,3,2])")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, writeSurfaces(&out, tri, surfaces.Standard))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "standard: 6 equations in 7 unknowns"))
	assert.Contains(t, out.String(), "link of vertex 1:")
}

func TestParseTristate(t *testing.T) {
	for in, want := range map[string]gotri.Tristate{
		"":       gotri.Either,
		"either": gotri.Either,
		"YES":    gotri.Yes,
		"no":     gotri.No,
	} {
		ts, err := parseTristate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, ts, in)
	}
	_, err := parseTristate("maybe")
	assert.ErrorIs(t, err, gotri.ErrInvalidArgument)
}
