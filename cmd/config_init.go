package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var configInitPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config.yaml with the current effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configInitPath); err == nil {
			return eris.Errorf("config: %s already exists", configInitPath)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return eris.Wrap(err, "config: marshal")
		}
		if err := os.WriteFile(configInitPath, data, 0o644); err != nil {
			return eris.Wrapf(err, "config: write %s", configInitPath)
		}
		zap.L().Info("config written", zap.String("path", configInitPath))
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVarP(&configInitPath, "output", "o", "config.yaml", "where to write the config")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
