package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/grimoire/internal/clip"
	"github.com/idilsaglam/grimoire/internal/model"
	"github.com/idilsaglam/grimoire/internal/ui"
)

// reported wraps an error the user has already been told about.
type reported struct{ error }

func (r reported) Unwrap() error { return r.error }

func lookup(st *state, id string) (model.Item, error) {
	for _, it := range st.catalog.Items {
		if it.ID == id {
			return it, nil
		}
	}
	return model.Item{}, usagef(fmt.Sprintf("unknown item %q. Hint: run `grimoire ls --plain` to see ids", id))
}

func newDoneCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle completion of an item",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := lookup(st, args[0]); err != nil {
				return err
			}
			store, _, err := st.tracker(cmd.Context(), ui.Console{})
			if err != nil {
				return err
			}
			if err := store.Toggle(cmd.Context(), args[0]); err != nil {
				return err
			}
			it, _ := store.Item(args[0])
			status := "pending"
			if it.Completed {
				status = "completed"
			}
			ui.OK(fmt.Sprintf("%s marked %s", it.Name, status))
			return nil
		},
	}
}

func newShowCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the card of an item",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := lookup(st, args[0]); err != nil {
				return err
			}
			store, _, err := st.tracker(cmd.Context(), ui.Console{})
			if err != nil {
				return err
			}
			it, _ := store.Item(args[0])
			ui.Panel(ui.Details(it))
			return nil
		},
	}
}

func newCopyCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <id>",
		Short: "Copy the travel command of an item",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := lookup(st, args[0])
			if err != nil {
				return err
			}
			if it.Travel == "" {
				return errors.New(it.Name + " has no travel command")
			}
			if err := clip.Copy(it.Travel, ui.Console{}); err != nil {
				return reported{err}
			}
			return nil
		},
	}
}
