package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kilianp07/deaconrota/app"
	"github.com/kilianp07/deaconrota/config"
	"github.com/kilianp07/deaconrota/core/rotation"
	"github.com/kilianp07/deaconrota/infra/logger"
	"github.com/kilianp07/deaconrota/pkg/export"
)

var (
	genOutput string
	genFormat string
	genReport string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the rota once and write the export file",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "export file, overrides service.output")
	generateCmd.Flags().StringVarP(&genFormat, "format", "f", "", "export format: json, csv or yaml")
	generateCmd.Flags().StringVar(&genReport, "report", "", "print diagnostics as json or yaml instead of a summary")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if genOutput != "" {
		cfg.Service.Output = genOutput
		cfg.Service.Format = filepath.Ext(genOutput)
	}
	if genFormat != "" {
		cfg.Service.Format = genFormat
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("generate-command").Errorf("service close: %v", err)
		}
	}()

	rep, err := svc.Generate(cmd.Context())
	if err != nil {
		return explain(err)
	}
	out := cmd.OutOrStdout()
	if genReport != "" {
		f, err := export.ParseFormat(genReport)
		if err != nil {
			return err
		}
		return export.WriteDiagnostics(out, f, rep.Diagnostics)
	}
	return printSummary(out, rep, cfg.Service.Output)
}

func printSummary(w io.Writer, rep *app.Report, output string) error {
	d := rep.Diagnostics
	if _, err := fmt.Fprintf(w, "run %s: %d visits in %s mode written to %s\n",
		rep.RunID, len(rep.Result.Visits), rep.Result.Mode, output); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "visits per deacon %d..%d (imbalance %d), coverage %.1f%%, rating %s\n",
		d.MinVisits, d.MaxVisits, d.Imbalance, d.CoveragePercentage, d.Rating); err != nil {
		return err
	}
	if warn := rep.Result.Warning(); warn != nil {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warn); err != nil {
			return err
		}
	}
	for _, b := range rep.Result.DoubleBookings {
		if _, err := fmt.Fprintf(w, "double booking: %s visits %v in week %d\n", b.Deacon, b.Households, b.Week); err != nil {
			return err
		}
	}
	return nil
}

// explain adds the user facing hint for generation failures.
func explain(err error) error {
	var fe *rotation.FeasibilityError
	if errors.As(err, &fe) {
		switch fe.Reason {
		case rotation.ReasonTooFrequent:
			return fmt.Errorf("%w; add deacons, lower visit frequency or lengthen the period", err)
		case rotation.ReasonTooLarge:
			return fmt.Errorf("%w; shorten the period or split the households", err)
		}
	}
	var te *rotation.TimeoutError
	if errors.As(err, &te) {
		return fmt.Errorf("%w; raise engine.timeout_seconds or reduce the rota size", err)
	}
	return err
}
