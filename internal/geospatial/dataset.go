package geospatial

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/district-analytics/parcelscope/internal/model"
)

// gridThreshold is the parcel count below which a linear scan beats the
// bookkeeping of a grid index.
const gridThreshold = 64

type cellKey struct{ x, y int32 }

// Dataset is the immutable in-memory collection of geolocated parcels.
// Each parcel's point is held in both frames: geographic for containment
// tests, projected for the grid index and metric distances. The dataset is
// safe for concurrent readers after construction.
type Dataset struct {
	parcels []model.GeolocatedParcel
	pts     []Projected

	// grid is a uniform cell index over the projected points; nil for
	// small datasets, where scanning wins anyway. cellLo and cellHi frame
	// the populated cells so a query box can never walk beyond them.
	grid     map[cellKey][]int32
	cellSize float64
	origin   Projected
	cellLo   cellKey
	cellHi   cellKey

	bounds *geom.Bounds
}

// NewDataset builds the spatial dataset over the given parcels. Every
// coordinate must already be projectable; the resolver routes out-of-range
// coordinates to the unmatched set before this point.
func NewDataset(parcels []model.GeolocatedParcel) (*Dataset, error) {
	ds := &Dataset{
		parcels: parcels,
		pts:     make([]Projected, len(parcels)),
		bounds:  geom.NewBounds(geom.XY),
	}
	for i, p := range parcels {
		pt, err := Project(Geographic{Lon: p.Longitude, Lat: p.Latitude})
		if err != nil {
			return nil, eris.Wrapf(err, "geospatial: parcel %s", p.ID)
		}
		ds.pts[i] = pt
		ds.bounds.Extend(geom.NewPointFlat(geom.XY, []float64{p.Longitude, p.Latitude}))
	}

	if len(parcels) >= gridThreshold {
		ds.buildGrid()
	}
	zap.L().Debug("geospatial: dataset built",
		zap.Int("parcels", len(parcels)),
		zap.Bool("indexed", ds.grid != nil),
	)
	return ds, nil
}

// Len returns the number of geolocated parcels in the dataset.
func (ds *Dataset) Len() int { return len(ds.parcels) }

// Bounds returns the geographic bounding box of all parcel points.
func (ds *Dataset) Bounds() *geom.Bounds { return ds.bounds }

// QueryWithin returns every parcel whose point lies inside or on the
// given boundary, ordered by parcel identifier.
func (ds *Dataset) QueryWithin(b *Boundary) []model.GeolocatedParcel {
	var out []model.GeolocatedParcel
	collect := func(i int) {
		p := ds.parcels[i]
		if b.Contains(Geographic{Lon: p.Longitude, Lat: p.Latitude}) {
			out = append(out, p)
		}
	}

	if ds.grid == nil {
		for i := range ds.parcels {
			collect(i)
		}
	} else {
		for _, i := range ds.candidates(b) {
			collect(int(i))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// QueryWithinDistance returns every parcel within radiusMeters of center,
// boundary-inclusive at exactly the radius. The center must be a valid
// geographic coordinate.
func (ds *Dataset) QueryWithinDistance(center Geographic, radiusMeters float64) ([]model.GeolocatedParcel, error) {
	b, err := Buffer(center, radiusMeters, DefaultBufferSegments)
	if err != nil {
		return nil, err
	}
	return ds.QueryWithin(b), nil
}

func (ds *Dataset) buildGrid() {
	minPt := ds.projectedCorner(ds.bounds.Min(0), ds.bounds.Min(1))
	maxPt := ds.projectedCorner(ds.bounds.Max(0), ds.bounds.Max(1))

	extent := math.Max(maxPt.X-minPt.X, maxPt.Y-minPt.Y)
	cell := extent / math.Sqrt(float64(len(ds.parcels)))
	if cell < 1 {
		cell = 1
	}

	ds.origin = minPt
	ds.cellSize = cell
	ds.grid = make(map[cellKey][]int32, len(ds.parcels))
	for i, pt := range ds.pts {
		k := ds.cellFor(pt)
		if len(ds.grid) == 0 {
			ds.cellLo, ds.cellHi = k, k
		} else {
			ds.cellLo.x = min(ds.cellLo.x, k.x)
			ds.cellLo.y = min(ds.cellLo.y, k.y)
			ds.cellHi.x = max(ds.cellHi.x, k.x)
			ds.cellHi.y = max(ds.cellHi.y, k.y)
		}
		ds.grid[k] = append(ds.grid[k], int32(i))
	}
}

func (ds *Dataset) cellFor(p Projected) cellKey {
	return cellKey{
		x: int32(math.Floor((p.X - ds.origin.X) / ds.cellSize)),
		y: int32(math.Floor((p.Y - ds.origin.Y) / ds.cellSize)),
	}
}

// candidates returns the indices of all parcels whose grid cell overlaps
// the boundary's bounding box. Buffered boundaries prefilter with the
// exact circle's box, which covers the inscribed polygon's at any vertex
// count.
func (ds *Dataset) candidates(b *Boundary) []int32 {
	var lo, hi Projected
	if b.circle != nil {
		c := b.circle
		lo = Projected{X: c.center.X - c.radius, Y: c.center.Y - c.radius}
		hi = Projected{X: c.center.X + c.radius, Y: c.center.Y + c.radius}
	} else {
		bounds := b.Bounds()
		lo = ds.projectedCorner(bounds.Min(0), bounds.Min(1))
		hi = ds.projectedCorner(bounds.Max(0), bounds.Max(1))
	}
	return ds.cellsBetween(lo, hi)
}

// cellsBetween walks the grid cells covering the projected box, clamped to
// the populated cell range so an oversized query box only visits the
// dataset's own cells. The box is padded by a sliver before the walk so
// points exactly on the box edge are never dropped.
func (ds *Dataset) cellsBetween(lo, hi Projected) []int32 {
	const pad = 1e-9
	loCell := ds.cellFor(Projected{X: lo.X - pad, Y: lo.Y - pad})
	hiCell := ds.cellFor(Projected{X: hi.X + pad, Y: hi.Y + pad})

	loCell.x = max(loCell.x, ds.cellLo.x)
	loCell.y = max(loCell.y, ds.cellLo.y)
	hiCell.x = min(hiCell.x, ds.cellHi.x)
	hiCell.y = min(hiCell.y, ds.cellHi.y)

	var idx []int32
	for cx := loCell.x; cx <= hiCell.x; cx++ {
		for cy := loCell.y; cy <= hiCell.y; cy++ {
			idx = append(idx, ds.grid[cellKey{x: cx, y: cy}]...)
		}
	}
	return idx
}

// projectedCorner projects a bounding-box corner, clamping latitude to the
// mercator range. Clamping is safe here: the corner only steers the cell
// walk, the containment test itself runs in geographic coordinates.
func (ds *Dataset) projectedCorner(lon, lat float64) Projected {
	lat = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, lat))
	lon = math.Max(-180, math.Min(180, lon))
	p, _ := Project(Geographic{Lon: lon, Lat: lat})
	return p
}
