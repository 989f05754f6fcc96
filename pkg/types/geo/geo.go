// Package geo provides the coordinate and bounding-box primitives shared by
// the catalog entities and the map-view layers.
package geo

import "math"

const earthRadiusMeters = 6_371_000.0

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the pair lies inside the WGS84 envelope.  The zero
// value (0,0) is treated as missing geodata: no catalog entity sits at the
// Gulf of Guinea null island, and upstream data uses zeroed fields for
// "coordinates unknown".
func (c Coordinates) Valid() bool {
	if c.Lat == 0 && c.Lng == 0 {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// DistanceMeters returns the great-circle (haversine) distance to other.
func (c Coordinates) DistanceMeters(other Coordinates) float64 {
	lat1 := c.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - c.Lat) * math.Pi / 180
	dLng := (other.Lng - c.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Bounds is a latitude/longitude axis-aligned bounding box.  The zero value
// is the empty box; use Extend to grow it around points.
type Bounds struct {
	SouthWest Coordinates `json:"south_west"`
	NorthEast Coordinates `json:"north_east"`
	nonEmpty  bool
}

// Empty reports whether no point has been added to the box.
func (b Bounds) Empty() bool {
	return !b.nonEmpty
}

// Extend grows the box to include p and returns the result.  The first point
// collapses the box onto p.
func (b Bounds) Extend(p Coordinates) Bounds {
	if !b.nonEmpty {
		return Bounds{SouthWest: p, NorthEast: p, nonEmpty: true}
	}
	if p.Lat < b.SouthWest.Lat {
		b.SouthWest.Lat = p.Lat
	}
	if p.Lng < b.SouthWest.Lng {
		b.SouthWest.Lng = p.Lng
	}
	if p.Lat > b.NorthEast.Lat {
		b.NorthEast.Lat = p.Lat
	}
	if p.Lng > b.NorthEast.Lng {
		b.NorthEast.Lng = p.Lng
	}
	return b
}

// Center returns the midpoint of the box.  Undefined on an empty box; callers
// must check Empty first.
func (b Bounds) Center() Coordinates {
	return Coordinates{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
	}
}

// Pad returns the box expanded by the given number of degrees on every side,
// clamped to the WGS84 envelope.
func (b Bounds) Pad(degrees float64) Bounds {
	if !b.nonEmpty || degrees <= 0 {
		return b
	}
	b.SouthWest.Lat = math.Max(b.SouthWest.Lat-degrees, -90)
	b.SouthWest.Lng = math.Max(b.SouthWest.Lng-degrees, -180)
	b.NorthEast.Lat = math.Min(b.NorthEast.Lat+degrees, 90)
	b.NorthEast.Lng = math.Min(b.NorthEast.Lng+degrees, 180)
	return b
}

// Contains reports whether p lies inside the box (inclusive).
func (b Bounds) Contains(p Coordinates) bool {
	if !b.nonEmpty {
		return false
	}
	return p.Lat >= b.SouthWest.Lat && p.Lat <= b.NorthEast.Lat &&
		p.Lng >= b.SouthWest.Lng && p.Lng <= b.NorthEast.Lng
}

// BoundsOf builds the tightest box around the given points, skipping invalid
// coordinates.  Returns an empty box when no point is valid.
func BoundsOf(points []Coordinates) Bounds {
	var b Bounds
	for _, p := range points {
		if !p.Valid() {
			continue
		}
		b = b.Extend(p)
	}
	return b
}
