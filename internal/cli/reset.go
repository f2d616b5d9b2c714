package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/grimoire/internal/ui"
)

func newResetCmd(st *state) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Mark every item as pending and delete saved progress",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprint(ui.Out, "Reset all progress? [y/N] ")
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
					ui.Info("reset cancelled")
					return nil
				}
			}
			store, user, err := st.tracker(cmd.Context(), ui.Console{})
			if err != nil {
				return err
			}
			return store.ResetAll(cmd.Context(), user)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
