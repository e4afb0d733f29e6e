package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RandomVariable1470/suryaverify/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "suryaverify",
	Short: "Rooftop solar verification from satellite imagery",
	Long:  "Fetches satellite imagery for sampled coordinates, runs vision inference to detect rooftop PV, projects detections to geographic polygons, and exports auditor-ready reports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
