package geo

import "math"

const earthRadius = 6371000 // meters

type Point struct {
	Latitude  float64
	Longitude float64
}

// Geofence is a circular area around a center point.
type Geofence interface {
	Center() Point
	RadiusMeters() float64
}

// Distance returns the great-circle (haversine) distance between a and b in meters.
func Distance(a, b Point) float64 {
	dLat := (b.Latitude - a.Latitude) * (math.Pi / 180.0)
	dLon := (b.Longitude - a.Longitude) * (math.Pi / 180.0)

	lat1Rad := a.Latitude * (math.Pi / 180.0)
	lat2Rad := b.Latitude * (math.Pi / 180.0)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}

// Contains reports whether p lies inside f. The boundary counts as inside.
func Contains(f Geofence, p Point) bool {
	return Distance(p, f.Center()) <= f.RadiusMeters()
}

// Locate returns the first fence, in slice order, that contains p.
// Overlapping fences are not ranked by distance; callers control precedence
// through the order they pass.
func Locate[F Geofence](p Point, fences []F) (F, bool) {
	for _, f := range fences {
		if Contains(f, p) {
			return f, true
		}
	}
	var zero F
	return zero, false
}
