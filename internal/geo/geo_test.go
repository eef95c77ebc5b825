package geo

import (
	"math"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		lat, lon float64
		ok       bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.01, 0, false},
		{0, 180.5, false},
		{math.NaN(), 0, false},
	}

	for _, tc := range cases {
		err := (Point{Latitude: tc.lat, Longitude: tc.lon}).Validate()
		if (err == nil) != tc.ok {
			t.Fatalf("Validate(%v,%v) err=%v; want ok=%v", tc.lat, tc.lon, err, tc.ok)
		}
	}
}

func TestDistanceKm(t *testing.T) {
	// Paris <-> London, roughly 344 km
	paris := Point{Latitude: 48.8566, Longitude: 2.3522}
	london := Point{Latitude: 51.5074, Longitude: -0.1278}

	d := DistanceKm(paris, london)
	if d < 330 || d > 355 {
		t.Fatalf("Paris-London distance = %.1f km; want ~344", d)
	}

	if got := DistanceKm(paris, paris); got != 0 {
		t.Fatalf("zero distance = %v; want 0", got)
	}

	// symmetry
	if a, b := DistanceKm(paris, london), DistanceKm(london, paris); math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", a, b)
	}
}

func TestBoundingBoxContainsCircle(t *testing.T) {
	center := Point{Latitude: 48.85, Longitude: 2.35}
	minLat, maxLat, minLon, maxLon := BoundingBox(center, 100)

	// points 100 km due north/south/east/west must be inside the box
	probes := []Point{
		{center.Latitude + 100/111.0, center.Longitude},
		{center.Latitude - 100/111.0, center.Longitude},
		{center.Latitude, center.Longitude + 100/(111.0*math.Cos(center.Latitude*math.Pi/180))},
		{center.Latitude, center.Longitude - 100/(111.0*math.Cos(center.Latitude*math.Pi/180))},
	}
	for _, p := range probes {
		if p.Latitude < minLat || p.Latitude > maxLat || p.Longitude < minLon || p.Longitude > maxLon {
			t.Fatalf("probe %v outside box [%v,%v]x[%v,%v]", p, minLat, maxLat, minLon, maxLon)
		}
	}
}

func TestBoundingBoxPolar(t *testing.T) {
	_, _, minLon, maxLon := BoundingBox(Point{Latitude: 89.9, Longitude: 0}, 100)
	if minLon != -180 || maxLon != 180 {
		t.Fatalf("polar box should span all longitudes, got [%v,%v]", minLon, maxLon)
	}
}
