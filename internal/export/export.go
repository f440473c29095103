// Package export writes parcel detail and data-quality reports as CSV or
// XLSX tables.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/district-analytics/parcelscope/internal/model"
)

// Format selects the output encoding of detail exports.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatXLSX:
		return Format(s), nil
	default:
		return "", eris.Errorf("export: unknown format %q (want csv or xlsx)", s)
	}
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string { return string(f) }

// DetailRow is one exported parcel. Area is empty for interactive-query
// exports, where all rows belong to the same drawn boundary.
type DetailRow struct {
	Area          string
	ID            string
	Address       string
	AssessedValue float64
}

// Rows converts a parcel subset to detail rows tagged with an area name.
func Rows(area string, parcels []model.GeolocatedParcel) []DetailRow {
	rows := make([]DetailRow, 0, len(parcels))
	for _, p := range parcels {
		rows = append(rows, DetailRow{
			Area:          area,
			ID:            p.ID,
			Address:       p.Address,
			AssessedValue: p.AssessedValue,
		})
	}
	return rows
}

func detailHeader(withArea bool) []string {
	if withArea {
		return []string{"Area", "SSL", "Address", "Assessed Value"}
	}
	return []string{"SSL", "Address", "Assessed Value"}
}

func (r DetailRow) strings(withArea bool) []string {
	value := strconv.FormatFloat(r.AssessedValue, 'f', 2, 64)
	if withArea {
		return []string{r.Area, r.ID, r.Address, value}
	}
	return []string{r.ID, r.Address, value}
}

// WriteDetail writes detail rows in the requested format.
func WriteDetail(w io.Writer, format Format, rows []DetailRow, withArea bool) error {
	if format == FormatXLSX {
		return writeDetailXLSX(w, rows, withArea)
	}
	return writeDetailCSV(w, rows, withArea)
}

func writeDetailCSV(w io.Writer, rows []DetailRow, withArea bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(detailHeader(withArea)); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, r := range rows {
		if err := cw.Write(r.strings(withArea)); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

func writeDetailXLSX(w io.Writer, rows []DetailRow, withArea bool) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Parcels")
	if err != nil {
		return eris.Wrap(err, "export: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, h := range detailHeader(withArea) {
		header.AddCell().SetString(h)
	}
	for _, r := range rows {
		row := sheet.AddRow()
		if withArea {
			row.AddCell().SetString(r.Area)
		}
		row.AddCell().SetString(r.ID)
		row.AddCell().SetString(r.Address)
		row.AddCell().SetFloat(r.AssessedValue)
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

// WriteUnmatched writes the unmatched-parcel data-quality report. It is
// always CSV: the report is an input for cleanup scripts, not analysts.
func WriteUnmatched(w io.Writer, unmatched []model.UnmatchedParcel) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"SSL", "Address", "Use Code", "Assessed Value", "Reason"}); err != nil {
		return eris.Wrap(err, "export: write unmatched header")
	}
	for _, u := range unmatched {
		row := []string{
			u.ID,
			u.Address,
			u.LandUseCode,
			strconv.FormatFloat(u.AssessedValue, 'f', 2, 64),
			u.Reason,
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write unmatched row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush unmatched")
}
