package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RandomVariable1470/suryaverify/internal/export"
	"github.com/RandomVariable1470/suryaverify/internal/ingest"
	"github.com/RandomVariable1470/suryaverify/internal/verify"
)

var (
	batchSamples string
	batchLimit   int
	batchOutput  string
	batchFormat  string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Verify a file of sampled coordinates",
	Long: `Reads a CSV or XLSX with header sample_id,lat,lon and verifies each
row in order. Failures are recorded and skipped; the batch continues unless
the inference quota is exhausted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		items, err := ingest.ReadSamples(batchSamples)
		if err != nil {
			return err
		}
		if batchLimit > 0 && len(items) > batchLimit {
			items = items[:batchLimit]
		}
		if len(items) == 0 {
			return eris.Errorf("batch: no samples in %s", batchSamples)
		}

		summary, err := env.Verifier.VerifyBatch(ctx, items, func(p verify.Progress) {
			fmt.Fprintf(os.Stderr, "\rverified %d/%d", p.Completed, p.Total)
		})
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return err
		}
		spend := env.Tracker.Snapshot()
		zap.L().Info("batch complete",
			zap.Int("succeeded", summary.Succeeded),
			zap.Int("failed", summary.Failed),
			zap.Float64("spend_usd", spend.TotalUSD),
			zap.Int64("input_tokens", spend.InputTokens),
			zap.Int64("output_tokens", spend.OutputTokens),
		)
		if len(summary.Failures) > 0 {
			if data, merr := json.MarshalIndent(summary.Failures, "", "  "); merr == nil {
				if werr := os.WriteFile("failed_samples.json", data, 0o644); werr == nil {
					zap.L().Info("failure log written", zap.String("path", "failed_samples.json"))
				}
			}
		}

		records := env.Session.Records()
		if perr := persistRecords(ctx, env, "batch:"+batchSamples, records, summary.Failed); perr != nil {
			zap.L().Warn("record persistence failed", zap.Error(perr))
		}

		format := batchFormat
		if format == "" {
			format = cfg.Export.Format
		}
		var result *export.Result
		if format != "" {
			result, err = env.Exporter.Render(records, export.Format(format))
		} else {
			result, err = env.Exporter.Write(records)
		}
		if err != nil {
			return err
		}

		path := batchOutput
		if path == "" {
			path = filepath.Join(cfg.Export.Dir, result.Filename)
		}
		if err := os.WriteFile(path, result.Data, 0o644); err != nil {
			return eris.Wrapf(err, "batch: write %s", path)
		}
		zap.L().Info("export written", zap.String("path", path), zap.Int("records", len(records)))
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchSamples, "samples", "", "CSV or XLSX file with sample_id,lat,lon rows (required)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of samples to process")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "output path (default derived from format)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "force export format: geojson, json, csv, xlsx, archive")
	_ = batchCmd.MarkFlagRequired("samples")
	rootCmd.AddCommand(batchCmd)
}
