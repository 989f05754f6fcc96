package geo

import (
	"math"
	"testing"
)

func TestCoordinatesValid(t *testing.T) {
	cases := []struct {
		name string
		c    Coordinates
		want bool
	}{
		{"kuala lumpur", Coordinates{Lat: 3.1201, Lng: 101.6544}, true},
		{"zero value means missing", Coordinates{}, false},
		{"lat out of range", Coordinates{Lat: 91, Lng: 0.1}, false},
		{"lng out of range", Coordinates{Lat: 1, Lng: 181}, false},
		{"southern hemisphere", Coordinates{Lat: -37.8, Lng: 144.9}, true},
	}
	for _, tc := range cases {
		if got := tc.c.Valid(); got != tc.want {
			t.Errorf("%s: Valid() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDistanceMeters(t *testing.T) {
	// UM (Kuala Lumpur) to USM (Penang) is roughly 290 km.
	um := Coordinates{Lat: 3.1201, Lng: 101.6544}
	usm := Coordinates{Lat: 5.3558, Lng: 100.3017}
	d := um.DistanceMeters(usm)
	if d < 280_000 || d > 300_000 {
		t.Errorf("DistanceMeters = %.0f, want ~290km", d)
	}
	if um.DistanceMeters(um) != 0 {
		t.Error("distance to self should be 0")
	}
}

func TestBoundsExtend(t *testing.T) {
	var b Bounds
	if !b.Empty() {
		t.Fatal("zero Bounds should be empty")
	}

	b = b.Extend(Coordinates{Lat: 3, Lng: 101})
	if b.Empty() {
		t.Fatal("Bounds with one point should not be empty")
	}
	if b.SouthWest != b.NorthEast {
		t.Error("single-point box should be collapsed")
	}

	b = b.Extend(Coordinates{Lat: 5, Lng: 100})
	if b.SouthWest.Lat != 3 || b.SouthWest.Lng != 100 {
		t.Errorf("SouthWest = %+v", b.SouthWest)
	}
	if b.NorthEast.Lat != 5 || b.NorthEast.Lng != 101 {
		t.Errorf("NorthEast = %+v", b.NorthEast)
	}
}

func TestBoundsOfSkipsInvalid(t *testing.T) {
	b := BoundsOf([]Coordinates{
		{},                        // missing
		{Lat: 95, Lng: 10},        // out of range
		{Lat: 3.1, Lng: 101.65},   // valid
		{Lat: 1.46, Lng: 103.76},  // valid
	})
	if b.Empty() {
		t.Fatal("expected non-empty box")
	}
	if !b.Contains(Coordinates{Lat: 2, Lng: 102}) {
		t.Error("box should contain interior point")
	}

	if !BoundsOf(nil).Empty() {
		t.Error("no points should yield empty box")
	}
	if !BoundsOf([]Coordinates{{}}).Empty() {
		t.Error("only-invalid points should yield empty box")
	}
}

func TestBoundsPadClamps(t *testing.T) {
	b := BoundsOf([]Coordinates{{Lat: 89.5, Lng: 179.5}, {Lat: -89.5, Lng: -179.5}})
	p := b.Pad(1)
	if p.NorthEast.Lat != 90 || p.NorthEast.Lng != 180 {
		t.Errorf("NorthEast not clamped: %+v", p.NorthEast)
	}
	if p.SouthWest.Lat != -90 || p.SouthWest.Lng != -180 {
		t.Errorf("SouthWest not clamped: %+v", p.SouthWest)
	}

	var empty Bounds
	if !empty.Pad(1).Empty() {
		t.Error("padding an empty box should stay empty")
	}
}

func TestBoundsCenter(t *testing.T) {
	b := BoundsOf([]Coordinates{{Lat: 2, Lng: 100}, {Lat: 4, Lng: 102}})
	c := b.Center()
	if math.Abs(c.Lat-3) > 1e-9 || math.Abs(c.Lng-101) > 1e-9 {
		t.Errorf("Center = %+v, want (3,101)", c)
	}
}
