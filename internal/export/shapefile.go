package export

import (
	"os"
	"path/filepath"

	shp "github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/RandomVariable1470/suryaverify/internal/verify"
)

// writeShapefile writes detection zones as an ESRI shapefile set
// (.shp/.shx/.dbf) named base under dir. Records without detections carry
// no geometry and are skipped; the flat JSON and CSV layers cover them.
func writeShapefile(dir, base string, records []verify.Record) ([]string, error) {
	shpPath := filepath.Join(dir, base+".shp")
	w, err := shp.Create(shpPath, shp.POLYGON)
	if err != nil {
		return nil, eris.Wrap(err, "export: create shapefile writer")
	}

	fields := []shp.Field{
		shp.NumberField("SAMPLE_ID", 10),
		shp.NumberField("ZONE", 4),
		shp.FloatField("CONF", 8, 4),
		shp.FloatField("CAP_KW", 10, 2),
		shp.StringField("QC_STATUS", 20),
	}
	if err := w.SetFields(fields); err != nil {
		w.Close()
		return nil, eris.Wrap(err, "export: set shapefile fields")
	}

	row := 0
	for _, rec := range records {
		for i, poly := range rec.DetectionPolygons {
			ring := poly.Ring()
			pts := make([]shp.Point, 0, len(ring))
			for _, pt := range ring {
				pts = append(pts, shp.Point{X: pt[0], Y: pt[1]})
			}
			pl := shp.NewPolyLine([][]shp.Point{pts})
			shape := shp.Polygon(*pl)
			w.Write(&shape)

			attrs := []struct {
				field int
				value interface{}
			}{
				{0, rec.SampleID},
				{1, i},
				{2, poly.Confidence},
				{3, rec.CapacityKWEst},
				{4, rec.QCStatus},
			}
			for _, a := range attrs {
				if err := w.WriteAttribute(row, a.field, a.value); err != nil {
					w.Close()
					return nil, eris.Wrapf(err, "export: write shapefile attribute for sample %d", rec.SampleID)
				}
			}
			row++
		}
	}
	w.Close()

	// Collect whichever sidecar files the writer produced.
	var paths []string
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		p := filepath.Join(dir, base+ext)
		if _, statErr := os.Stat(p); statErr == nil {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil, eris.New("export: shapefile writer produced no files")
	}
	return paths, nil
}
