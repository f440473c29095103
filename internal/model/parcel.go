package model

// ParcelRecord is one row of the parcel attribute table: the tax-assessment
// view of a lot, keyed by its square-suffix-lot identifier.
type ParcelRecord struct {
	ID            string  `json:"id"`
	Address       string  `json:"address,omitempty"`
	LandUseCode   string  `json:"land_use_code,omitempty"`
	AssessedValue float64 `json:"assessed_value"`
}

// GeoCoordinate is one row of the address-point table: a parcel identifier
// with its WGS84 position in decimal degrees.
type GeoCoordinate struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GeolocatedParcel is a ParcelRecord joined with its coordinate. Exactly one
// exists per identifier present in both source tables.
type GeolocatedParcel struct {
	ParcelRecord
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UnmatchedParcel is a parcel that could not be geolocated. It is excluded
// from every spatial query and surfaced only in the data-quality report.
type UnmatchedParcel struct {
	ParcelRecord
	Reason string `json:"reason"`
}
