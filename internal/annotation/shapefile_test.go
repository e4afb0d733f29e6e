package annotation

import (
	"path/filepath"
	"testing"

	shp "github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePolygonFixture writes a two-record shapefile: a single-ring square
// and a two-part polygon, each carrying PANEL_TYPE and NOTES attributes.
func writePolygonFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "truth.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{
		shp.StringField("PANEL_TYPE", 20),
		shp.StringField("NOTES", 64),
	}))

	toPoints := func(ring [][]float64) []shp.Point {
		pts := make([]shp.Point, 0, len(ring))
		for _, pt := range ring {
			pts = append(pts, shp.Point{X: pt[0], Y: pt[1]})
		}
		return pts
	}

	single := shp.Polygon(*shp.NewPolyLine([][]shp.Point{
		toPoints(meterRing(0, 0, 10, 10)),
	}))
	w.Write(&single)
	require.NoError(t, w.WriteAttribute(0, 0, PanelMono))
	require.NoError(t, w.WriteAttribute(0, 1, "east wing"))

	multi := shp.Polygon(*shp.NewPolyLine([][]shp.Point{
		toPoints(meterRing(20, 0, 25, 5)),
		toPoints(meterRing(30, 0, 35, 5)),
	}))
	w.Write(&multi)
	require.NoError(t, w.WriteAttribute(1, 0, PanelPoly))
	require.NoError(t, w.WriteAttribute(1, 1, "two sheds"))

	w.Close()
	return path
}

func TestImportShapefile(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	n, err := e.ImportShapefile(writePolygonFixture(t))
	require.NoError(t, err)

	// One ring from the first record, two from the multi-part record.
	assert.Equal(t, 3, n)

	anns := e.List()
	require.Len(t, anns, 3)

	assert.Equal(t, PanelMono, anns[0].PanelType)
	assert.Equal(t, "east wing", anns[0].Notes)
	assert.InDelta(t, 100, anns[0].AreaSqm, 1)

	// Both parts of the second record share its attributes.
	for _, a := range anns[1:] {
		assert.Equal(t, PanelPoly, a.PanelType)
		assert.Equal(t, "two sheds", a.Notes)
		assert.InDelta(t, 25, a.AreaSqm, 1)
	}
}

func TestImportShapefile_AttributeNamesCaseInsensitive(t *testing.T) {
	t.Parallel()

	// DBF field names are conventionally uppercase; the importer matches
	// them case-insensitively, so the fixture's PANEL_TYPE lands.
	e := NewEngine()
	_, err := e.ImportShapefile(writePolygonFixture(t))
	require.NoError(t, err)

	anns := e.List()
	require.NotEmpty(t, anns)
	assert.NotEqual(t, PanelUnknown, anns[0].PanelType)
}

func TestImportShapefile_SkipsNonPolygonShapes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "points.shp")
	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("NOTES", 16)}))
	pt := shp.Point{X: 77.2090, Y: 28.6139}
	w.Write(&pt)
	w.Close()

	e := NewEngine()
	n, err := e.ImportShapefile(path)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, e.List())
}

func TestImportShapefile_MissingFile(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	_, err := e.ImportShapefile(filepath.Join(t.TempDir(), "nope.shp"))
	assert.Error(t, err)
}

func TestSplitParts(t *testing.T) {
	t.Parallel()

	ring1 := []shp.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}
	ring2 := []shp.Point{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 5}}
	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{ring1, ring2}))

	parts := splitParts(&poly)
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], 4)
	assert.Len(t, parts[1], 4)
	assert.Equal(t, []float64{5, 5}, parts[1][0])
	assert.Equal(t, []float64{6, 6}, parts[1][2])
}
