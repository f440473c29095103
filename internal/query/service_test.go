package query

import (
	"fmt"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/district-analytics/parcelscope/internal/geospatial"
)

func newService(t *testing.T, maxHeld int) *Service {
	t.Helper()
	return NewService(NewEngine(threeParcels(t), 0), maxHeld)
}

var westPairRing = [][2]float64{
	{-77.020, 38.870},
	{-76.990, 38.870},
	{-76.990, 38.890},
	{-77.020, 38.890},
}

func TestService_QueryAndExport(t *testing.T) {
	svc := newService(t, 4)

	resp, err := svc.Query(Request{Ring: westPairRing})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.ParcelCount)
	assert.InDelta(t, 300000, resp.TotalValue, 1e-9)
	assert.True(t, resp.ExportAvailable)
	assert.Empty(t, resp.Groups, "grouping off by default")

	rows, err := svc.Export(resp.ExportID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "0001 0001", rows[0].ID)
	assert.Empty(t, rows[0].Area, "interactive exports carry no area tag")
}

func TestService_QueryGrouped(t *testing.T) {
	svc := newService(t, 4)

	resp, err := svc.Query(Request{Ring: westPairRing, GroupByCategory: true})
	require.NoError(t, err)
	require.Len(t, resp.Groups, 2)
	assert.Equal(t, "011", resp.Groups[0].Category)
	assert.Equal(t, "041", resp.Groups[1].Category)
}

func TestService_InvalidPolygonKeepsPreviousResults(t *testing.T) {
	svc := newService(t, 4)

	good, err := svc.Query(Request{Ring: westPairRing})
	require.NoError(t, err)

	_, err = svc.Query(Request{Ring: [][2]float64{{-77, 38.9}, {-76.9, 38.9}}})
	require.Error(t, err)
	assert.True(t, eris.Is(err, geospatial.ErrInvalidGeometry))

	rows, err := svc.Export(good.ExportID)
	require.NoError(t, err)
	assert.Len(t, rows, 2, "failed query must not disturb stored results")
}

func TestService_ExportUnknownID(t *testing.T) {
	svc := newService(t, 4)

	_, err := svc.Export("not-a-uuid")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnknownExport))

	_, err = svc.Export("49d1d4f0-0d7e-4f3a-93e5-0c2a0e4ddbd3")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnknownExport))
}

func TestService_EvictsOldestResult(t *testing.T) {
	svc := newService(t, 2)

	ids := make([]string, 3)
	for i := range ids {
		resp, err := svc.Query(Request{Ring: westPairRing})
		require.NoError(t, err, fmt.Sprintf("query %d", i))
		ids[i] = resp.ExportID
	}

	_, err := svc.Export(ids[0])
	assert.True(t, eris.Is(err, ErrUnknownExport), "oldest handle evicted")

	for _, id := range ids[1:] {
		_, err := svc.Export(id)
		assert.NoError(t, err)
	}
}

func TestService_EmptyResultIsSuccess(t *testing.T) {
	svc := newService(t, 4)

	resp, err := svc.Query(Request{Ring: [][2]float64{{10, 10}, {11, 10}, {11, 11}, {10, 11}}})
	require.NoError(t, err)
	assert.Zero(t, resp.ParcelCount)
	assert.False(t, resp.ExportAvailable)

	rows, err := svc.Export(resp.ExportID)
	require.NoError(t, err, "empty results still get a handle")
	assert.Empty(t, rows)
}
