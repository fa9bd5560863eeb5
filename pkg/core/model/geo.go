package model

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula
const earthRadiusKm = 6371.0

// GeoPoint is a WGS84 coordinate pair in decimal degrees
type GeoPoint struct {
	Lat float64
	Lon float64
}

// DistanceKm returns the great-circle distance to another point in kilometers,
// computed with the haversine formula.
func (p GeoPoint) DistanceKm(q GeoPoint) float64 {
	lat1 := p.Lat * math.Pi / 180
	lat2 := q.Lat * math.Pi / 180
	dLat := (q.Lat - p.Lat) * math.Pi / 180
	dLon := (q.Lon - p.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// WithinKm reports whether the other point lies within radiusKm,
// boundary included.
func (p GeoPoint) WithinKm(q GeoPoint, radiusKm float64) bool {
	return p.DistanceKm(q) <= radiusKm
}
