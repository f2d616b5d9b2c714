package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/grimoire/internal/model"
	"github.com/idilsaglam/grimoire/internal/tui"
	"github.com/idilsaglam/grimoire/internal/ui"
	"github.com/idilsaglam/grimoire/internal/view"
)

type listFlags struct {
	search   string
	category string
	group    bool
	plain    bool
}

func newListCmd(st *state) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List dungeons and quests (interactive on a terminal)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, ok := model.ParseCategory(f.category)
			if !ok {
				return usagef(fmt.Sprintf("unknown category %q (want all, %s)", f.category, categoryNames()))
			}
			if ui.IsTTY() && !f.plain {
				return runInteractive(cmd, st, f.search, category)
			}
			store, _, err := st.tracker(cmd.Context(), ui.Console{})
			if err != nil {
				return err
			}
			all := store.Items()
			items := view.Project(all, f.search, category)
			totals := view.Aggregate(all)

			th := ui.Current()
			lines := []string{
				ui.Header(totals),
				ui.C(th.Muted, ui.ProgressBar(totals.Completed, totals.Total, 28)),
				"",
			}
			if f.group {
				lines = append(lines, ui.GroupLines(items)...)
			} else {
				lines = append(lines, ui.ItemLines(items)...)
			}
			lines = append(lines, "", ui.C(th.Muted, "Tip: toggle with `grimoire done <id>`"))
			ui.Panel(lines)
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "match name or boss")
	cmd.Flags().StringVarP(&f.category, "category", "c", string(model.CategoryAll), "stage filter")
	cmd.Flags().BoolVar(&f.group, "group", false, "group output by pending/done")
	cmd.Flags().BoolVar(&f.plain, "plain", false, "print a panel instead of the interactive list")
	return cmd
}

func runInteractive(cmd *cobra.Command, st *state, search string, category model.Category) error {
	toasts := &tui.Toasts{}
	store, user, err := st.tracker(cmd.Context(), toasts)
	if err != nil {
		return err
	}
	if err := tui.Run(cmd.Context(), store, toasts, tui.Options{
		Search:   search,
		Category: category,
		UserID:   user,
		Logger:   st.logger,
	}); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func categoryNames() string {
	names := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
