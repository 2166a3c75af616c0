package model

import (
	"fmt"
	"math"
)

const earthRadiusMeters = 6371008.8

// GeoPoint is a WGS84 coordinate in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks the coordinate ranges.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", p.Lat)
	}
	if math.IsNaN(p.Lng) || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", p.Lng)
	}
	return nil
}

// DistanceMeters returns the haversine distance between two points.
func (p GeoPoint) DistanceMeters(o GeoPoint) float64 {
	lat1 := p.Lat * math.Pi / 180
	lat2 := o.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (o.Lng - p.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}

// BoundingBox is delimited by its top-left (north-west) and bottom-right
// (south-east) corners. A box whose left longitude is greater than its right
// longitude crosses the antimeridian.
type BoundingBox struct {
	TopLeft     GeoPoint `json:"top_left"`
	BottomRight GeoPoint `json:"bottom_right"`
}

// Validate checks both corners and that the top is not below the bottom.
func (b BoundingBox) Validate() error {
	if err := b.TopLeft.Validate(); err != nil {
		return fmt.Errorf("top_left: %w", err)
	}
	if err := b.BottomRight.Validate(); err != nil {
		return fmt.Errorf("bottom_right: %w", err)
	}
	if b.TopLeft.Lat < b.BottomRight.Lat {
		return fmt.Errorf("top_left latitude %v is below bottom_right latitude %v", b.TopLeft.Lat, b.BottomRight.Lat)
	}
	return nil
}

// CrossesAntimeridian reports whether the box wraps around longitude 180.
func (b BoundingBox) CrossesAntimeridian() bool {
	return b.TopLeft.Lng > b.BottomRight.Lng
}

// Contains reports whether p lies inside the box, borders included.
func (b BoundingBox) Contains(p GeoPoint) bool {
	if p.Lat > b.TopLeft.Lat || p.Lat < b.BottomRight.Lat {
		return false
	}
	if b.CrossesAntimeridian() {
		return p.Lng >= b.TopLeft.Lng || p.Lng <= b.BottomRight.Lng
	}
	return p.Lng >= b.TopLeft.Lng && p.Lng <= b.BottomRight.Lng
}

// Split returns one box, or two when the box crosses the antimeridian.
func (b BoundingBox) Split() []BoundingBox {
	if !b.CrossesAntimeridian() {
		return []BoundingBox{b}
	}
	return []BoundingBox{
		{TopLeft: b.TopLeft, BottomRight: GeoPoint{Lat: b.BottomRight.Lat, Lng: 180}},
		{TopLeft: GeoPoint{Lat: b.TopLeft.Lat, Lng: -180}, BottomRight: b.BottomRight},
	}
}

// BoxAround returns the smallest box containing the circle of radius meters
// around center. Longitude is clamped to the full range near the poles.
func BoxAround(center GeoPoint, meters float64) BoundingBox {
	dLat := meters / earthRadiusMeters * 180 / math.Pi
	top := math.Min(90, center.Lat+dLat)
	bottom := math.Max(-90, center.Lat-dLat)

	cosLat := math.Cos(center.Lat * math.Pi / 180)
	if top >= 90 || bottom <= -90 || cosLat < 1e-9 {
		return BoundingBox{TopLeft: GeoPoint{Lat: top, Lng: -180}, BottomRight: GeoPoint{Lat: bottom, Lng: 180}}
	}
	dLng := dLat / cosLat
	if dLng >= 180 {
		return BoundingBox{TopLeft: GeoPoint{Lat: top, Lng: -180}, BottomRight: GeoPoint{Lat: bottom, Lng: 180}}
	}
	left := center.Lng - dLng
	right := center.Lng + dLng
	if left < -180 {
		left += 360
	}
	if right > 180 {
		right -= 360
	}
	return BoundingBox{TopLeft: GeoPoint{Lat: top, Lng: left}, BottomRight: GeoPoint{Lat: bottom, Lng: right}}
}
