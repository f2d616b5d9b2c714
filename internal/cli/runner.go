// Package cli wires the grimoire commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/grimoire/internal/progress"
	"github.com/idilsaglam/grimoire/internal/ui"
)

// usageError marks a bad invocation; Run maps it to exit code 2.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(msg string) error { return usageError{msg: msg} }

// usageArgs turns cobra's argument validation errors into usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usagef("usage: " + cmd.UseLine())
		}
		return nil
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, args, os.Stdin)
}

func run(ctx context.Context, args []string, in io.Reader) int {
	st := &state{}
	root := newRootCmd(st)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(ui.Out)
	root.SetErr(ui.Err)
	err := root.ExecuteContext(ctx)
	st.close()
	return exitCode(err)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var (
		ue usageError
		re reported
	)
	switch {
	case errors.As(err, &ue):
		ui.Fail(ue.msg)
		return 2
	case errors.As(err, &re),
		errors.Is(err, progress.ErrSyncFailed),
		errors.Is(err, progress.ErrLoadFailed),
		errors.Is(err, progress.ErrResetFailed),
		errors.Is(err, progress.ErrUnauthenticated):
		// already surfaced through the notifier
		return 1
	}
	ui.Fail(err.Error())
	return 1
}

func newRootCmd(st *state) *cobra.Command {
	root := &cobra.Command{
		Use:   "grimoire",
		Short: "grimoire - track dungeon and quest completion",
		Long: `grimoire keeps a checklist of dungeons and quests in sync with your account.

Toggles show up immediately and are saved in the background; a failed save
is reverted and reported.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return usagef("usage: grimoire <command> [flags]")
			}
			msg := fmt.Sprintf("unknown command %q for %q", args[0], cmd.CommandPath())
			if s := cmd.SuggestionsFor(args[0]); len(s) > 0 {
				msg += "\n\nDid you mean this?\n\t" + strings.Join(s, "\n\t")
			}
			return usagef(msg)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usagef(err.Error())
	})

	pf := root.PersistentFlags()
	pf.StringVar(&st.flags.configPath, "config", "", "config file (default ~/.grimoire/config.yaml)")
	pf.BoolVarP(&st.flags.verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&st.flags.theme, "theme", "", "classic, neon or mono")
	pf.BoolVar(&st.flags.noColor, "no-color", false, "disable colors")
	pf.BoolVar(&st.flags.forceColor, "color", false, "force colors when not a TTY")

	root.AddCommand(
		newListCmd(st),
		newDoneCmd(st),
		newResetCmd(st),
		newStatsCmd(st),
		newShowCmd(st),
		newCopyCmd(st),
		newPrepCmd(st),
		newAuthCmd(st),
	)
	return root
}
