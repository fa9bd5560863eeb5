package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	addis := GeoPoint{Lat: 9.0054, Lon: 38.7636}
	bahirDar := GeoPoint{Lat: 11.5742, Lon: 37.3614}

	// Addis Ababa to Bahir Dar is roughly 320 km great-circle
	d := addis.DistanceKm(bahirDar)
	assert.InDelta(t, 320, d, 15)

	// distance is symmetric
	assert.InDelta(t, d, bahirDar.DistanceKm(addis), 1e-9)

	// distance to self is zero
	assert.InDelta(t, 0, addis.DistanceKm(addis), 1e-9)
}

func TestWithinKm(t *testing.T) {
	origin := GeoPoint{Lat: 9.0, Lon: 38.7}

	// ~0.011 km per 0.0001 degree of latitude
	near := GeoPoint{Lat: 9.001, Lon: 38.7}
	far := GeoPoint{Lat: 9.1, Lon: 38.7}

	assert.True(t, origin.WithinKm(near, 5))
	assert.False(t, origin.WithinKm(far, 5))
	// boundary is inclusive
	assert.True(t, origin.WithinKm(origin, 0))
}
