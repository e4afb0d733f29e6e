package main

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RandomVariable1470/suryaverify/internal/geo"
	"github.com/RandomVariable1470/suryaverify/internal/verify"
)

var (
	verifyLat      float64
	verifyLon      float64
	verifyImage    string
	verifySampleID int
	verifyOutput   string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify one rooftop for solar panels",
	Long: `Verifies a single sample. Two modes:

  # Coordinate mode: fetch satellite imagery and analyze it
  suryaverify verify --lat 28.6139 --lon 77.2090

  # Upload mode: analyze a local image, optionally with its coordinate
  suryaverify verify --image rooftop.jpg --lat 28.6139 --lon 77.2090`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		in, err := buildVerifyInput(cmd)
		if err != nil {
			return err
		}
		in.SampleID = verifySampleID

		rec, err := env.Verifier.Verify(ctx, in)
		if err != nil {
			return err
		}

		if err := persistRecords(ctx, env, "verify", []verify.Record{*rec}, 0); err != nil {
			zap.L().Warn("record persistence failed", zap.Error(err))
		}

		out, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return eris.Wrap(err, "encode record")
		}
		return writeOutput(verifyOutput, out)
	},
}

func init() {
	verifyCmd.Flags().Float64Var(&verifyLat, "lat", 0, "latitude of the sample")
	verifyCmd.Flags().Float64Var(&verifyLon, "lon", 0, "longitude of the sample")
	verifyCmd.Flags().StringVar(&verifyImage, "image", "", "analyze a local image instead of fetching imagery")
	verifyCmd.Flags().IntVar(&verifySampleID, "sample-id", 0, "sample id to assign (default next free)")
	verifyCmd.Flags().StringVarP(&verifyOutput, "output", "o", "", "write the record to a file instead of stdout")
	rootCmd.AddCommand(verifyCmd)
}

// buildVerifyInput turns the verify flags into an orchestrator input.
func buildVerifyInput(cmd *cobra.Command) (verify.Input, error) {
	coord := geo.Coordinate{Lat: verifyLat, Lon: verifyLon}
	hasLocation := cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon")

	if verifyImage == "" {
		if !hasLocation {
			return verify.Input{}, eris.New("verify: --lat and --lon are required without --image")
		}
		return verify.CoordinateInput(coord), nil
	}

	data, err := os.ReadFile(verifyImage)
	if err != nil {
		return verify.Input{}, eris.Wrapf(err, "verify: read image %s", verifyImage)
	}
	mediaType := mime.TypeByExtension(filepath.Ext(verifyImage))
	if mediaType == "" {
		mediaType = "image/jpeg"
	}
	return verify.UploadInput(data, mediaType, coord, hasLocation), nil
}

// persistRecords saves results to the configured store, if any. The failed
// count covers items that produced no record; a run with only failures is
// completed as failed by the store.
func persistRecords(ctx context.Context, env *verifyEnv, label string, recs []verify.Record, failed int) error {
	run, err := env.Store.CreateRun(ctx, label)
	if err != nil {
		return err
	}
	if err := env.Store.SaveRecords(ctx, run.ID, recs); err != nil {
		return err
	}
	return env.Store.CompleteRun(ctx, run.ID, len(recs), failed)
}

// writeOutput writes data to path, or stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	zap.L().Info("output written", zap.String("path", path))
	return nil
}
