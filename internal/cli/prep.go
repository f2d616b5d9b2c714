package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/grimoire/internal/clip"
	"github.com/idilsaglam/grimoire/internal/prep"
	"github.com/idilsaglam/grimoire/internal/store/jsonstore"
	"github.com/idilsaglam/grimoire/internal/ui"
)

func openChecklist(st *state) (*prep.Checklist, error) {
	store, err := jsonstore.New(st.cfg.PrepPath)
	if err != nil {
		return nil, err
	}
	return prep.Open(st.catalog.Preparations, store)
}

func newPrepCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prep",
		Short: "Show the preparation checklist",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := openChecklist(st)
			if err != nil {
				return err
			}
			th := ui.Current()
			checked, total := cl.Counts()
			lines := []string{
				fmt.Sprintf("%s  %s %d/%d", ui.C(th.Title, "Preparations"), ui.C(th.Success, th.SymDone), checked, total),
				ui.C(th.Muted, ui.ProgressBar(checked, total, 28)),
				"",
			}
			for _, e := range cl.Sorted() {
				box, color := th.BoxUnchecked, th.Muted
				if e.Checked {
					box, color = th.BoxChecked, th.Success
				}
				lines = append(lines, fmt.Sprintf("%s %s %s", ui.C(color, box), e.Label, ui.C(th.Accent, "["+e.ID+"]")))
			}
			if cl.AllChecked() {
				lines = append(lines, "", ui.C(th.Success, "Ready to go."))
			}
			ui.Panel(lines)
			return nil
		},
	}
	cmd.AddCommand(
		newPrepSetCmd(st, "check", true),
		newPrepSetCmd(st, "uncheck", false),
		&cobra.Command{
			Use:   "copy <id>",
			Short: "Copy a preparation label",
			Args:  usageArgs(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				cl, err := openChecklist(st)
				if err != nil {
					return err
				}
				e, ok := cl.Lookup(args[0])
				if !ok {
					return usagef(fmt.Sprintf("unknown preparation %q", args[0]))
				}
				if err := clip.Copy(e.Label, ui.Console{}); err != nil {
					return reported{err}
				}
				return nil
			},
		},
	)
	return cmd
}

func newPrepSetCmd(st *state, name string, checked bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: name + " a preparation",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := openChecklist(st)
			if err != nil {
				return err
			}
			e, ok := cl.Lookup(args[0])
			if !ok {
				return usagef(fmt.Sprintf("unknown preparation %q", args[0]))
			}
			if err := cl.Set(e.ID, checked); err != nil {
				return fmt.Errorf("save: %w", err)
			}
			ui.OK(fmt.Sprintf("%s: %s", name+"ed", e.Label))
			return nil
		},
	}
}
