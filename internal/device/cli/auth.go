package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/pantau-subsidi/internal/device/agent"
)

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("FIELD_PASSWORD")
			}
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password (or FIELD_PASSWORD) are required")
			}
			return withAgent(cmd, rootOpts, func(ctx context.Context, a *agent.Agent) error {
				sess, err := a.Client.Login(ctx, email, password)
				if err != nil {
					return err
				}
				return printResult(cmd, rootOpts, sess, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "signed in as %s (%s)\n", sess.Email, sess.Role)
					return err
				})
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAgent(cmd, rootOpts, func(ctx context.Context, a *agent.Agent) error {
				if err := a.Client.Logout(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "signed out")
				return err
			})
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAgent(cmd, rootOpts, func(ctx context.Context, a *agent.Agent) error {
				sess, ok := a.Client.Session()
				if !ok {
					return fmt.Errorf("not signed in")
				}
				sess.Token = ""
				return printResult(cmd, rootOpts, sess, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "%s (%s) %s\n", sess.Email, sess.Role, sess.AccountID)
					return err
				})
			})
		},
	}
}
