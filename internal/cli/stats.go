package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/grimoire/internal/model"
	"github.com/idilsaglam/grimoire/internal/ui"
	"github.com/idilsaglam/grimoire/internal/view"
)

func newStatsCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarise completion, kamas and points",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := st.tracker(cmd.Context(), ui.Console{})
			if err != nil {
				return err
			}
			all := store.Items()
			totals := view.Aggregate(all)
			th := ui.Current()

			lines := []string{
				ui.Header(totals),
				fmt.Sprintf("%s %3d%%", ui.C(th.Muted, ui.ProgressBar(totals.Completed, totals.Total, 28)), totals.Percent()),
				"",
			}
			for _, c := range model.Categories {
				t := view.Aggregate(view.Project(all, "", c))
				if t.Total == 0 {
					continue
				}
				lines = append(lines, fmt.Sprintf("%-10s %s %2d/%-2d  %s K",
					c.Label(),
					ui.C(th.Muted, ui.ProgressBar(t.Completed, t.Total, 14)),
					t.Completed, t.Total,
					ui.Kamas(t.Reward),
				))
			}
			ui.Panel(lines)
			return nil
		},
	}
}
