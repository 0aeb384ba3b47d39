package geospatial_test

import (
	"math"
	"testing"

	"github.com/waypost-app/waypost/internal/core/domain"
	"github.com/waypost-app/waypost/internal/pkg/geospatial"
)

var testLine = []domain.GeoPoint{
	{Lat: 37.7749, Lon: -122.4194}, // San Francisco
	{Lat: 36.5786, Lon: -121.2735},
	{Lat: 35.3733, Lon: -119.0187}, // Bakersfield
	{Lat: 34.0522, Lon: -118.2437}, // Los Angeles
}

func TestNearestVertex_PicksClosest(t *testing.T) {
	// A point just east of Bakersfield should resolve to vertex 2.
	p := domain.GeoPoint{Lat: 35.3733, Lon: -118.9}
	d, idx := geospatial.NearestVertex(p, testLine)
	if idx != 2 {
		t.Fatalf("expected vertex 2, got %d", idx)
	}
	want := geospatial.Haversine(p.Lat, p.Lon, testLine[2].Lat, testLine[2].Lon)
	if d != want {
		t.Errorf("expected distance %f, got %f", want, d)
	}
}

func TestNearestVertex_OnVertex(t *testing.T) {
	d, idx := geospatial.NearestVertex(testLine[0], testLine)
	if idx != 0 || d != 0 {
		t.Errorf("expected (0, 0), got (%f, %d)", d, idx)
	}
}

func TestPolylineLength(t *testing.T) {
	var want float64
	for i := 1; i < len(testLine); i++ {
		want += geospatial.Haversine(testLine[i-1].Lat, testLine[i-1].Lon, testLine[i].Lat, testLine[i].Lon)
	}
	got := geospatial.PolylineLength(testLine)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("expected %f, got %f", want, got)
	}
	if got < 500000 {
		t.Errorf("SF-LA polyline suspiciously short: %f m", got)
	}
}

func TestPolylineLength_Degenerate(t *testing.T) {
	if l := geospatial.PolylineLength(nil); l != 0 {
		t.Errorf("expected 0 for empty line, got %f", l)
	}
	if l := geospatial.PolylineLength(testLine[:1]); l != 0 {
		t.Errorf("expected 0 for single point, got %f", l)
	}
}

func TestRouteBounds_ContainsAllVertices(t *testing.T) {
	b := geospatial.RouteBounds(testLine, 20)
	for _, p := range testLine {
		if !b.Contains(p) {
			t.Errorf("bounds do not contain vertex %+v", p)
		}
	}
}

func TestRouteBounds_Padding(t *testing.T) {
	b := geospatial.RouteBounds(testLine, 20)

	// 20 miles is 32.1868 km; latitude pad is km/111 degrees.
	wantLatPad := 20 * 1.60934 / 111.0
	gotLatPad := testLine[3].Lat - b.MinLat // southernmost vertex is LA
	if math.Abs(gotLatPad-wantLatPad) > 1e-9 {
		t.Errorf("expected lat pad %f, got %f", wantLatPad, gotLatPad)
	}

	// Longitude degrees shrink with latitude, so the lon pad must exceed
	// the lat pad anywhere away from the equator.
	if b.MaxLon-testLine[3].Lon <= wantLatPad {
		t.Errorf("longitude pad %f should exceed latitude pad %f at mid latitudes",
			b.MaxLon-testLine[3].Lon, wantLatPad)
	}
}

func TestRouteBounds_ZeroBuffer(t *testing.T) {
	b := geospatial.RouteBounds(testLine, 0)
	if b.MinLat != testLine[3].Lat || b.MaxLat != testLine[0].Lat {
		t.Errorf("zero buffer should yield tight latitude bounds, got %+v", b)
	}
}
