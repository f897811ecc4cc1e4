package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show request journal statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		repo := st.EventRepo()

		summary, err := repo.Summary(ctx)
		if err != nil {
			return fmt.Errorf("summarize journal: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(summary) == 0 {
			fmt.Fprintln(out, "No requests recorded yet.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "OPERATION\tTOTAL\tFAILED\tMEAN LATENCY")
		for _, s := range summary {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%.0fms\n", s.Operation, s.Total, s.Failures, s.MeanLatencyMs)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		if limit <= 0 {
			return nil
		}
		recent, err := repo.Recent(ctx, limit)
		if err != nil {
			return fmt.Errorf("read journal: %w", err)
		}

		fmt.Fprintln(out)
		tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tTIME\tOP\tSESSION\tBLOCK\tSTATUS\tLATENCY\tERROR")
		for _, ev := range recent {
			status := "-"
			if ev.StatusCode > 0 {
				status = fmt.Sprint(ev.StatusCode)
			}
			block := ev.BlockID
			if block == "" {
				block = "-"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%dms\t%s\n",
				ev.Sequence, ev.Timestamp.Local().Format("01-02 15:04:05"),
				ev.Operation, ev.SessionID, block, status, ev.LatencyMs, ev.ErrorMessage)
		}
		return tw.Flush()
	},
}

func init() {
	statsCmd.Flags().Int("limit", 10, "Number of recent requests to list (0 hides the list)")
}
