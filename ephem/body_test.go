package ephem_test

import (
	"testing"

	"github.com/echoflaresat/jpleph/ephem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBody(t *testing.T) {
	for _, body := range ephem.Bodies() {
		got, err := ephem.ParseBody(body.String())
		require.NoError(t, err)
		assert.Equal(t, body, got)
	}

	got, err := ephem.ParseBody("  Earth-Moon-Barycenter ")
	require.NoError(t, err)
	assert.Equal(t, ephem.EarthMoonBarycenter, got)

	got, err = ephem.ParseBody("SSB")
	require.NoError(t, err)
	assert.Equal(t, ephem.SolarSystemBarycenter, got)

	_, err = ephem.ParseBody("libration")
	assert.Error(t, err)
	_, err = ephem.ParseBody("vulcan")
	assert.Error(t, err)
}

func TestBodiesAndSlots(t *testing.T) {
	assert.Len(t, ephem.Bodies(), 13)
	assert.Equal(t, "Body(-1)", ephem.Body(-1).String())
	assert.Equal(t, 13, ephem.NumSlots)
	assert.Equal(t, "libration", ephem.SlotLibration.String())
	assert.Equal(t, 2, ephem.SlotNutation.Components())
	assert.Equal(t, 3, ephem.SlotLibration.Components())
	assert.Equal(t, 3, ephem.SlotMoon.Components())
}
