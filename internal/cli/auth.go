package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/grimoire/internal/auth"
	"github.com/idilsaglam/grimoire/internal/ui"
)

func newAuthCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Token authentication",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return usagef("usage: grimoire auth <login|logout|status|whoami>")
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "login",
			Short: "Save an access token",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprint(ui.Out, "Paste your token: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && strings.TrimSpace(line) == "" {
					return fmt.Errorf("read token: %w", err)
				}
				if err := auth.SetToken(line); err != nil {
					return fmt.Errorf("save token: %w", err)
				}
				ui.OK("logged in")
				return nil
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Forget the saved token",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				ti, _ := auth.GetToken()
				if ti != nil && ti.Source == "env" {
					ui.OK("token is provided by GRIMOIRE_TOKEN env var (nothing to delete)")
					return nil
				}
				if err := st.session.SignOut(); err != nil {
					return fmt.Errorf("logout: %w", err)
				}
				ui.OK("logged out")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show where the token comes from",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				ti, err := auth.GetToken()
				if err != nil {
					return err
				}
				if ti == nil {
					fmt.Fprintln(ui.Out, ui.C(ui.Current().Muted, "not logged in"))
					fmt.Fprintln(ui.Out, "Run: grimoire auth login")
					return nil
				}
				fmt.Fprintf(ui.Out, "source: %s\n", ti.Source)
				if ti.ExpiresAt != nil {
					fmt.Fprintf(ui.Out, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
				} else {
					fmt.Fprintln(ui.Out, "expires: (unknown)")
				}
				fmt.Fprintln(ui.Out, "env override: GRIMOIRE_TOKEN")
				return nil
			},
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Decode the token subject and expiry",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				ti, _ := auth.GetToken()
				if ti == nil {
					if user, ok := st.session.CurrentUser(); ok {
						fmt.Fprintf(ui.Out, "user: %s (local)\n", user)
						return nil
					}
					return usagef("not logged in. Run: grimoire auth login")
				}
				c, err := auth.ParseClaims(ti.Token)
				if err != nil {
					fmt.Fprintln(ui.Out, "Opaque token (cannot introspect locally).")
					fmt.Fprintln(ui.Out, "source:", ti.Source)
					return nil
				}
				fmt.Fprintf(ui.Out, "user: %s\n", c.Subject)
				if c.Email != "" {
					fmt.Fprintf(ui.Out, "email: %s\n", c.Email)
				}
				if !c.ExpiresAt.IsZero() {
					note := ""
					if c.Expired(time.Now()) {
						note = " " + ui.C(ui.Current().Error, "(expired)")
					}
					fmt.Fprintf(ui.Out, "expires: %s%s\n", c.ExpiresAt.Format(time.RFC3339), note)
				}
				return nil
			},
		},
	)
	return cmd
}
