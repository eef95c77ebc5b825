package geo

import (
	"errors"
	"math"
)

const earthRadiusKm = 6371.0

var ErrInvalidCoords = errors.New("coordinates out of range")

// Point is a WGS84 latitude/longitude pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that the point lies within [-90,90] / [-180,180].
func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) {
		return ErrInvalidCoords
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return ErrInvalidCoords
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return ErrInvalidCoords
	}
	return nil
}

// DistanceKm returns the great-circle distance between two points using the
// haversine formula.
func DistanceKm(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// BoundingBox returns a lat/lon window that fully contains the circle of
// radiusKm around p. Used as a cheap SQL prefilter before the exact
// haversine check. Longitude span degenerates near the poles; clamp there.
func BoundingBox(p Point, radiusKm float64) (minLat, maxLat, minLon, maxLon float64) {
	latDelta := radiusKm / 111.0 // ~111 km per degree of latitude
	minLat = math.Max(-90, p.Latitude-latDelta)
	maxLat = math.Min(90, p.Latitude+latDelta)

	cosLat := math.Cos(p.Latitude * math.Pi / 180)
	if cosLat < 0.01 {
		return minLat, maxLat, -180, 180
	}
	lonDelta := radiusKm / (111.0 * cosLat)
	if lonDelta >= 180 {
		return minLat, maxLat, -180, 180
	}
	minLon = p.Longitude - lonDelta
	maxLon = p.Longitude + lonDelta
	return minLat, maxLat, minLon, maxLon
}
