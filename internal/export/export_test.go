package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/district-analytics/parcelscope/internal/model"
)

var sampleRows = []DetailRow{
	{Area: "Navy Yard", ID: "0001 0001", Address: "100 M ST SE", AssessedValue: 450000},
	{Area: "Navy Yard", ID: "0001 0002", Address: "102 M ST SE", AssessedValue: 1250000.5},
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestWriteDetail_CSVWithArea(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDetail(&buf, FormatCSV, sampleRows, true))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Area", "SSL", "Address", "Assessed Value"}, records[0])
	assert.Equal(t, []string{"Navy Yard", "0001 0001", "100 M ST SE", "450000.00"}, records[1])
	assert.Equal(t, "1250000.50", records[2][3])
}

func TestWriteDetail_CSVWithoutArea(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDetail(&buf, FormatCSV, sampleRows, false))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"SSL", "Address", "Assessed Value"}, records[0])
	assert.Equal(t, "0001 0001", records[1][0])
}

func TestWriteDetail_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDetail(&buf, FormatXLSX, sampleRows, true))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "Parcels", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "Area", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "0001 0002", sheet.Rows[2].Cells[1].String())

	value, err := sheet.Rows[1].Cells[3].Float()
	require.NoError(t, err)
	assert.InDelta(t, 450000, value, 1e-9)
}

func TestWriteUnmatched(t *testing.T) {
	var buf bytes.Buffer
	unmatched := []model.UnmatchedParcel{
		{
			ParcelRecord: model.ParcelRecord{ID: "0009 0001", Address: "9 LOST LN", LandUseCode: "091", AssessedValue: 10000},
			Reason:       "no coordinate for identifier",
		},
	}
	require.NoError(t, WriteUnmatched(&buf, unmatched))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"SSL", "Address", "Use Code", "Assessed Value", "Reason"}, records[0])
	assert.Equal(t, []string{"0009 0001", "9 LOST LN", "091", "10000.00", "no coordinate for identifier"}, records[1])
}

func TestRows(t *testing.T) {
	parcels := []model.GeolocatedParcel{
		{ParcelRecord: model.ParcelRecord{ID: "a", Address: "1 A ST", AssessedValue: 5}},
	}
	rows := Rows("Union Market", parcels)
	require.Len(t, rows, 1)
	assert.Equal(t, DetailRow{Area: "Union Market", ID: "a", Address: "1 A ST", AssessedValue: 5}, rows[0])
}
