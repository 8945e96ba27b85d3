package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kilianp07/deaconrota/config"
	"github.com/kilianp07/deaconrota/core/rotation"
	"github.com/kilianp07/deaconrota/pkg/export"
)

var analyzeFormat string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <schedule>",
	Short: "Report balance and coverage of an exported schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "yaml", "report format: json or yaml")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	rota, err := cfg.Rota.Build()
	if err != nil {
		return err
	}
	in, err := export.ParseFormat(filepath.Ext(args[0]))
	if err != nil {
		return err
	}
	out, err := export.ParseFormat(analyzeFormat)
	if err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	visits, err := export.Read(f, in)
	if err != nil {
		return fmt.Errorf("read schedule: %w", err)
	}
	return export.WriteDiagnostics(cmd.OutOrStdout(), out, rotation.AnalyzeSchedule(visits, rota))
}
