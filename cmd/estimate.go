package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/RandomVariable1470/suryaverify/internal/solar"
)

var (
	estimateArea   float64
	estimatePoints string
	estimateJSON   bool
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate solar potential for a rooftop area",
	Long: `Citizen-facing estimate from a measured rooftop area or a traced
polygon. Point files hold a JSON array of [x,y,z] meters from an AR trace.

  suryaverify estimate --area 45.5
  suryaverify estimate --points trace.json --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		est := solar.NewEstimator(assumptionsFromConfig(cfg.Solar))

		var result solar.Estimate
		switch {
		case cmd.Flags().Changed("area"):
			result = est.FromArea(estimateArea)
		case estimatePoints != "":
			pts, err := readPointsFile(estimatePoints)
			if err != nil {
				return err
			}
			result = est.FromPoints(pts)
		default:
			return eris.New("estimate: --area or --points is required")
		}

		if estimateJSON {
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return eris.Wrap(err, "estimate: encode")
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("Rooftop area:        %.1f m²\n", result.AreaSqm)
		fmt.Printf("Panels that fit:     %d\n", result.PanelCount)
		fmt.Printf("System capacity:     %.1f kW\n", result.CapacityKW)
		fmt.Printf("Monthly generation:  %.0f kWh\n", result.MonthlyGenerationKWh)
		fmt.Printf("Monthly savings:     %s\n", solar.FormatSavings(result.MonthlySavingsINR))
		fmt.Printf("CO2 avoided:         %.0f kg/year (≈ %d trees)\n", result.CO2ReductionKgYear, result.TreesSaved)
		fmt.Println()
		fmt.Println(est.AssumptionFooter())
		return nil
	},
}

func init() {
	estimateCmd.Flags().Float64Var(&estimateArea, "area", 0, "rooftop area in square meters")
	estimateCmd.Flags().StringVar(&estimatePoints, "points", "", "JSON file with traced [x,y,z] points in meters")
	estimateCmd.Flags().BoolVar(&estimateJSON, "json", false, "emit JSON instead of the summary table")
	rootCmd.AddCommand(estimateCmd)
}

func readPointsFile(path string) ([]solar.Point3, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "estimate: read points %s", path)
	}
	var raw [][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrapf(err, "estimate: parse points %s", path)
	}
	pts := make([]solar.Point3, 0, len(raw))
	for i, p := range raw {
		if len(p) != 3 {
			return nil, eris.Errorf("estimate: point %d has %d coordinates, want 3", i, len(p))
		}
		pts = append(pts, solar.Point3{X: p[0], Y: p[1], Z: p[2]})
	}
	return pts, nil
}
