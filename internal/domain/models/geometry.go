package models

import (
	"github.com/peterstace/simplefeatures/geom"

	"github.com/turtacn/jalak-hijau/pkg/constants"
)

// Geometry is an opaque planar geometry value. It wraps the underlying
// geometry library so the rest of the domain only sees the three operations
// the analysis needs: intersects, intersection and area. Geometries are never
// mutated after construction.
type Geometry struct {
	g geom.Geometry
}

// GeometryFromWKT parses a WKT string into a Geometry.
func GeometryFromWKT(wkt string) (Geometry, error) {
	g, err := geom.UnmarshalWKT(wkt)
	if err != nil {
		return Geometry{}, err
	}
	return Geometry{g: g}, nil
}

// GeometryFromGeoJSON parses a GeoJSON geometry object into a Geometry.
func GeometryFromGeoJSON(data []byte) (Geometry, error) {
	g, err := geom.UnmarshalGeoJSON(data)
	if err != nil {
		return Geometry{}, err
	}
	return Geometry{g: g}, nil
}

// Intersects reports whether the two geometries share any point.
func (g Geometry) Intersects(other Geometry) bool {
	return geom.Intersects(g.g, other.g)
}

// Intersection computes the shared region of the two geometries. Malformed or
// non-computable inputs surface as an error; callers treat such pairs as
// degenerate rather than aborting their batch.
func (g Geometry) Intersection(other Geometry) (Geometry, error) {
	res, err := geom.Intersection(g.g, other.g)
	if err != nil {
		return Geometry{}, err
	}
	return Geometry{g: res}, nil
}

// Area returns the planar area in squared coordinate units (squared degrees
// for the datasets this service loads).
func (g Geometry) Area() float64 {
	return g.g.Area()
}

// Centroid returns the representative point as (lat, lon). The zero point is
// returned for empty geometries.
func (g Geometry) Centroid() (lat, lon float64) {
	xy, ok := g.g.Centroid().XY()
	if !ok {
		return 0, 0
	}
	// Coordinates are stored (lon, lat) per GeoJSON convention.
	return xy.Y, xy.X
}

// IsEmpty reports whether the geometry contains no points.
func (g Geometry) IsEmpty() bool {
	return g.g.IsEmpty()
}

// WKT renders the geometry as WKT.
func (g Geometry) WKT() string {
	return g.g.AsText()
}

// MarshalJSON renders the geometry as a GeoJSON geometry object.
func (g Geometry) MarshalJSON() ([]byte, error) {
	return g.g.MarshalJSON()
}

// UnmarshalJSON parses a GeoJSON geometry object.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	parsed, err := geom.UnmarshalGeoJSON(data)
	if err != nil {
		return err
	}
	g.g = parsed
	return nil
}

// AreaHectares converts a planar area in squared degrees to whole hectares
// using the equirectangular approximation: scale by MetersPerDegree squared
// to approximate square metres, divide by the hectare factor, truncate.
// Coarse by construction and only acceptable at demo scale near the equator;
// do not rely on it for geodesically accurate area at high latitude.
func AreaHectares(areaSquareDegrees float64) int64 {
	squareMeters := areaSquareDegrees * constants.MetersPerDegree * constants.MetersPerDegree
	return int64(squareMeters / constants.SquareMetersPerHectare)
}
