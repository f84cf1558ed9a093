// Package cli is the fieldagent command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/pantau-subsidi/internal/app"
	"github.com/heartmarshall/pantau-subsidi/internal/device/agent"
	"github.com/heartmarshall/pantau-subsidi/internal/device/config"
	"github.com/heartmarshall/pantau-subsidi/internal/device/control"
	"github.com/heartmarshall/pantau-subsidi/internal/device/storage"
)

// Opener opens the device runtime for one command.
type Opener func(ctx context.Context) (*agent.Agent, error)

// DefaultOpener loads the FIELD_* environment and opens the runtime on it.
func DefaultOpener(ctx context.Context) (*agent.Agent, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return agent.Open(ctx, cfg, app.NewLogger(cfg.Log()), nil)
}

// Dialer connects to the control socket of a running agent.
type Dialer func(ctx context.Context) (*control.Client, error)

// DefaultDialer dials the socket under the configured data dir.
func DefaultDialer(ctx context.Context) (*control.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return control.Dial(cfg.SocketPath()), nil
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"
	open   Opener
	dial   Dialer
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the fieldagent root command. dial may be nil, in
// which case commands never hand off to a running agent.
func NewRootCommand(open Opener, dial Dialer) *cobra.Command {
	opts := &RootOptions{open: open, dial: dial}

	cmd := &cobra.Command{
		Use:   "fieldagent",
		Short: "Pantau Subsidi field agent",
		Long: `Field agent for Pantau Subsidi officers.

Reports, verifications and uploads are accepted while offline and synced
once the API is reachable again.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewTasksCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewAgentCommand(opts))
	cmd.AddCommand(NewCacheCommand(opts))

	return cmd
}

// withAgent opens the runtime for the duration of fn.
func withAgent(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, a *agent.Agent) error) error {
	return withDevice(cmd, opts, fn, nil)
}

// withDevice runs local on a freshly opened runtime. When a running agent
// holds the database and remote is set, remote runs against the agent's
// control socket instead.
func withDevice(
	cmd *cobra.Command,
	opts *RootOptions,
	local func(ctx context.Context, a *agent.Agent) error,
	remote func(ctx context.Context, c *control.Client) error,
) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := opts.open(ctx)
	if errors.Is(err, storage.ErrLocked) && remote != nil && opts.dial != nil {
		c, dialErr := opts.dial(ctx)
		if dialErr != nil {
			return fmt.Errorf("open field agent: %w", errors.Join(err, dialErr))
		}
		return remote(ctx, c)
	}
	if err != nil {
		return fmt.Errorf("open field agent: %w", err)
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return local(ctx, a)
}
