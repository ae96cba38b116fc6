package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/store"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print visitor and section statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer st.Close()

			stats, err := st.Stats(cmd.Context(), time.Now())
			if err != nil {
				return fmt.Errorf("loading stats: %w", err)
			}
			return writeStats(cmd, root.Format, stats)
		},
	}
}

func writeStats(cmd *cobra.Command, format string, stats *store.Stats) error {
	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Fprintf(out, "visitors: %d total, %d unique, %d today, %d this week\n",
		stats.TotalVisitors, stats.UniqueVisitors, stats.VisitorsToday, stats.VisitorsThisWeek)
	fmt.Fprintf(out, "tracking: %d sessions, %d section views\n", stats.TotalSessions, stats.TotalViews)
	for _, s := range stats.TopSections {
		fmt.Fprintf(out, "  %-12s %5d views %5d sessions %5.1f%% avg progress\n", s.SectionID, s.Views, s.Sessions, s.AvgProgress)
	}
	return nil
}

// NewCleanupCommand creates the cleanup command.
func NewCleanupCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete records older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := st.Cleanup(cmd.Context(), time.Now().AddDate(0, -cfg.RetentionMonths, 0))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d records older than %d months\n", n, cfg.RetentionMonths)
			return nil
		},
	}
}
