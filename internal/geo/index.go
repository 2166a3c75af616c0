package geo

import (
	"math"
	"slices"

	"github.com/gcbaptista/go-ranking-engine/index"
	"github.com/gcbaptista/go-ranking-engine/model"
)

const (
	// cellPrecision 4 gives cells of roughly 39km x 20km.
	cellPrecision = 4
	// maxCellsPerQuery bounds cell enumeration; larger boxes scan every point.
	maxCellsPerQuery = 4096
)

type entry struct {
	id    model.DocumentID
	point model.GeoPoint
}

// Index buckets points by geohash cell. It is built once and then read-only.
type Index struct {
	cells  map[string][]entry
	points map[model.DocumentID]model.GeoPoint
	all    index.PostingSet
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		cells:  make(map[string][]entry),
		points: make(map[model.DocumentID]model.GeoPoint),
		all:    index.NewPostingSet(),
	}
}

// Insert adds or replaces the point of id. It must not be called once the
// index is shared with readers.
func (ix *Index) Insert(id model.DocumentID, p model.GeoPoint) {
	if old, ok := ix.points[id]; ok {
		key := Encode(old.Lat, old.Lng, cellPrecision)
		ix.cells[key] = slices.DeleteFunc(ix.cells[key], func(e entry) bool { return e.id == id })
	}
	key := Encode(p.Lat, p.Lng, cellPrecision)
	ix.cells[key] = append(ix.cells[key], entry{id: id, point: p})
	ix.points[id] = p
	ix.all.Add(id)
}

// Len returns the number of indexed points.
func (ix *Index) Len() int { return len(ix.points) }

// Point returns the point of id.
func (ix *Index) Point(id model.DocumentID) (model.GeoPoint, bool) {
	p, ok := ix.points[id]
	return p, ok
}

// All returns every document with a point.
func (ix *Index) All() index.PostingSet { return ix.all }

// WithinBox returns the documents whose point lies inside box, borders included.
func (ix *Index) WithinBox(box model.BoundingBox) index.PostingSet {
	out := index.NewPostingSet()
	for _, part := range box.Split() {
		ix.collect(part, func(e entry) bool { return part.Contains(e.point) }, &out)
	}
	return out
}

// WithinRadius returns the documents within meters of center.
func (ix *Index) WithinRadius(center model.GeoPoint, meters float64) index.PostingSet {
	out := index.NewPostingSet()
	if meters < 0 {
		return out
	}
	for _, part := range model.BoxAround(center, meters).Split() {
		ix.collect(part, func(e entry) bool { return center.DistanceMeters(e.point) <= meters }, &out)
	}
	return out
}

// collect adds entries of cells overlapping box that satisfy keep. box must
// not cross the antimeridian.
func (ix *Index) collect(box model.BoundingBox, keep func(entry) bool, out *index.PostingSet) {
	cellLat, cellLng := CellSize(cellPrecision)
	latLo := math.Floor((box.BottomRight.Lat + 90) / cellLat)
	latHi := math.Floor((box.TopLeft.Lat + 90) / cellLat)
	lngLo := math.Floor((box.TopLeft.Lng + 180) / cellLng)
	lngHi := math.Floor((box.BottomRight.Lng + 180) / cellLng)
	// Geohash puts points lying on a cell border into the lower cell.
	latLo = math.Max(0, latLo-1)
	lngLo = math.Max(0, lngLo-1)

	if (latHi-latLo+1)*(lngHi-lngLo+1) > maxCellsPerQuery {
		for id, p := range ix.points {
			if keep(entry{id: id, point: p}) {
				out.Add(id)
			}
		}
		return
	}

	for i := latLo; i <= latHi; i++ {
		lat := math.Min(90, -90+(i+0.5)*cellLat)
		for j := lngLo; j <= lngHi; j++ {
			lng := math.Min(180, -180+(j+0.5)*cellLng)
			for _, e := range ix.cells[Encode(lat, lng, cellPrecision)] {
				if keep(e) {
					out.Add(e.id)
				}
			}
		}
	}
}
