package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/RandomVariable1470/suryaverify/internal/annotation"
	"github.com/RandomVariable1470/suryaverify/internal/verify"
)

var (
	compareRecords     string
	compareAnnotations string
)

// annotationFile is the on-disk shape for ground-truth polygons: a JSON
// array of objects with a [lon,lat] ring and optional metadata.
type annotationFile []struct {
	Ring      [][]float64 `json:"ring"`
	PanelType string      `json:"panel_type"`
	Notes     string      `json:"notes"`
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Score AI detections against ground-truth annotations",
	Long: `Compares a verification record's detection polygons against
surveyor-drawn annotations and reports intersection-over-union.

  suryaverify compare --records record.json --annotations truth.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		recData, err := os.ReadFile(compareRecords)
		if err != nil {
			return eris.Wrapf(err, "compare: read records %s", compareRecords)
		}
		var records []verify.Record
		if err := json.Unmarshal(recData, &records); err != nil {
			// A single record object is also accepted.
			var one verify.Record
			if err2 := json.Unmarshal(recData, &one); err2 != nil {
				return eris.Wrapf(err, "compare: parse records %s", compareRecords)
			}
			records = []verify.Record{one}
		}

		engine, err := loadAnnotations(compareAnnotations)
		if err != nil {
			return err
		}

		out := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			cmp := engine.Compare(rec.DetectionPolygons)
			entry := map[string]any{"sample_id": rec.SampleID}
			if cmp == nil {
				entry["comparison"] = nil
			} else {
				entry["comparison"] = cmp
			}
			out = append(out, entry)
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return eris.Wrap(err, "compare: encode")
		}
		fmt.Println(string(data))
		return nil
	},
}

// loadAnnotations builds an engine from either a JSON annotation file or
// an ESRI shapefile, picked by extension.
func loadAnnotations(path string) (*annotation.Engine, error) {
	engine := annotation.NewEngine()

	if strings.EqualFold(filepath.Ext(path), ".shp") {
		if _, err := engine.ImportShapefile(path); err != nil {
			return nil, err
		}
		return engine, nil
	}

	annData, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "compare: read annotations %s", path)
	}
	var anns annotationFile
	if err := json.Unmarshal(annData, &anns); err != nil {
		return nil, eris.Wrapf(err, "compare: parse annotations %s", path)
	}
	for i, a := range anns {
		if _, err := engine.Add(a.Ring, a.PanelType, a.Notes); err != nil {
			return nil, eris.Wrapf(err, "compare: annotation %d", i)
		}
	}
	return engine, nil
}

func init() {
	compareCmd.Flags().StringVar(&compareRecords, "records", "", "flat JSON record or record array (required)")
	compareCmd.Flags().StringVar(&compareAnnotations, "annotations", "", "ground-truth annotations, JSON array or .shp (required)")
	_ = compareCmd.MarkFlagRequired("records")
	_ = compareCmd.MarkFlagRequired("annotations")
	rootCmd.AddCommand(compareCmd)
}
