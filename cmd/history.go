package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/deaconrota/config"
	"github.com/kilianp07/deaconrota/infra/runlog"
)

var (
	histSince   time.Duration
	histOutcome string
	histLimit   int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past generation runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().DurationVar(&histSince, "since", 0, "only runs newer than this duration, e.g. 72h")
	historyCmd.Flags().StringVar(&histOutcome, "outcome", "", "filter by outcome, e.g. success or infeasible")
	historyCmd.Flags().IntVarP(&histLimit, "limit", "n", 20, "show at most this many runs, 0 for all")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, err := runlog.Open(cfg.RunLog.Options())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	q := runlog.RunQuery{Outcome: histOutcome, Limit: histLimit}
	if histSince > 0 {
		q.Start = time.Now().Add(-histSince)
	}
	recs, err := store.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tID\tOUTCOME\tMODE\tVISITS\tIMBALANCE\tCOVERAGE\tRATING\tDETAIL")
	for _, r := range recs {
		detail := r.Error
		if detail == "" {
			detail = r.Warning
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%.1f%%\t%s\t%s\n",
			r.Timestamp.Format(time.RFC3339), r.ID, r.Outcome, r.Mode,
			r.Visits, r.Imbalance, r.CoveragePercentage, r.Rating, detail)
	}
	return tw.Flush()
}
