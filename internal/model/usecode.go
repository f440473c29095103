package model

import "fmt"

// useCodeNames maps common DC use codes to human-readable descriptions.
// The list is not exhaustive; unknown codes fall back to the raw code.
var useCodeNames = map[string]string{
	"011": "Residential - Row House",
	"012": "Residential - Detached",
	"013": "Residential - Semi-Detached",
	"015": "Residential - Mixed Use",
	"016": "Residential - Condo Horizontal",
	"017": "Residential - Condo Vertical",
	"019": "Residential - Flats (Conversion)",
	"021": "Apartment - Walk-Up",
	"022": "Apartment - Elevator",
	"023": "Residential - Small Apartment",
	"024": "Residential - Conversion",
	"041": "Commercial - Retail",
	"042": "Commercial - Office",
	"043": "Commercial - Restaurant",
	"044": "Commercial - Parking",
	"047": "Commercial - Warehouse",
	"063": "Hotel",
	"091": "Vacant - Zoned Residential",
	"093": "Vacant - Zoned Commercial",
	"116": "Industrial - Light",
}

// DescribeUseCode returns a readable label for a land-use code.
func DescribeUseCode(code string) string {
	if code == "" {
		return "Unclassified"
	}
	if name, ok := useCodeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Use Code %s", code)
}
