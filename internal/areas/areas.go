// Package areas defines the named areas of interest evaluated in batch
// mode. Areas are configuration data, loaded from a YAML file, so the list
// can change without touching the aggregation engine.
package areas

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LatLon is a geographic center point as written in the areas file.
type LatLon struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lon float64 `yaml:"lon" json:"lon"`
}

// Area is one named area of interest: either a buffered point (center +
// radius) or an explicit polygon ring of [lon, lat] vertices.
type Area struct {
	Name         string       `yaml:"name" json:"name"`
	Center       *LatLon      `yaml:"center,omitempty" json:"center,omitempty"`
	RadiusMeters float64      `yaml:"radius_m,omitempty" json:"radius_m,omitempty"`
	Polygon      [][2]float64 `yaml:"polygon,omitempty" json:"polygon,omitempty"`
}

// Buffered reports whether the area is defined as a buffered point.
func (a Area) Buffered() bool { return a.Center != nil }

// Validate checks that the area names exactly one geometry form and that
// the form is plausible. Geometric validity proper (self-intersection,
// zero area) is the boundary evaluator's job.
func (a Area) Validate() error {
	if a.Name == "" {
		return eris.New("areas: area missing name")
	}
	switch {
	case a.Center != nil && len(a.Polygon) > 0:
		return eris.Errorf("areas: %s defines both a center and a polygon", a.Name)
	case a.Center != nil:
		if a.RadiusMeters <= 0 {
			return eris.Errorf("areas: %s needs a positive radius_m, got %g", a.Name, a.RadiusMeters)
		}
	case len(a.Polygon) > 0:
		if len(a.Polygon) < 3 {
			return eris.Errorf("areas: %s polygon needs at least 3 vertices, got %d", a.Name, len(a.Polygon))
		}
	default:
		return eris.Errorf("areas: %s defines neither a center nor a polygon", a.Name)
	}
	return nil
}

// Load reads and validates an areas file. An empty path returns the
// built-in defaults.
func Load(path string) ([]Area, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "areas: read %s", path)
	}
	var doc struct {
		Areas []Area `yaml:"areas"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "areas: parse %s", path)
	}
	if len(doc.Areas) == 0 {
		return nil, eris.Errorf("areas: %s defines no areas", path)
	}
	for _, a := range doc.Areas {
		if err := a.Validate(); err != nil {
			return nil, err
		}
	}
	return doc.Areas, nil
}

// Defaults returns the built-in area list: the stadium-site buffer and
// three development-corridor polygons.
func Defaults() []Area {
	return []Area{
		{
			Name:         "RFK Stadium",
			Center:       &LatLon{Lat: 38.890, Lon: -76.972},
			RadiusMeters: 804.67, // half a mile
		},
		{
			Name: "Navy Yard",
			Polygon: [][2]float64{
				{-77.0120, 38.8850},
				{-76.9950, 38.8829},
				{-76.9881, 38.8683},
				{-77.0116, 38.8710},
			},
		},
		{
			Name: "The Wharf",
			Polygon: [][2]float64{
				{-77.03098, 38.88056},
				{-77.01578, 38.88056},
				{-77.01600, 38.86700},
				{-77.03098, 38.86700},
			},
		},
		{
			Name: "Union Market",
			Polygon: [][2]float64{
				{-77.00400, 38.90190},
				{-76.99300, 38.90190},
				{-76.99300, 38.90858},
				{-77.00400, 38.90858},
			},
		},
	}
}
