package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/pantau-subsidi/internal/device/agent"
	"github.com/heartmarshall/pantau-subsidi/internal/device/control"
	"github.com/heartmarshall/pantau-subsidi/internal/device/syncer"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	var async bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Replay queued writes now",
		Long: `Replay queued writes now.

When an agent is running the drain happens inside it. With --async the
agent is only sent the force-sync message and the command returns at once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			show := func(res syncer.Result) error {
				return printResult(cmd, rootOpts, res, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "synced %d of %d (%d still pending)\n", res.Synced, res.Attempted, res.Failed)
					return err
				})
			}
			return withDevice(cmd, rootOpts,
				func(ctx context.Context, a *agent.Agent) error {
					res, err := a.Syncer.Drain(ctx)
					if err != nil {
						return err
					}
					return show(res)
				},
				func(ctx context.Context, c *control.Client) error {
					if async {
						if err := c.ForceSync(ctx); err != nil {
							return err
						}
						return printResult(cmd, rootOpts, map[string]string{"message": syncer.MessageForceSync}, func(w io.Writer) error {
							_, err := fmt.Fprintln(w, "sync requested from the running agent")
							return err
						})
					}
					res, err := c.Sync(ctx)
					if err != nil {
						return err
					}
					return show(res)
				},
			)
		},
	}

	cmd.Flags().BoolVar(&async, "async", false, "only ask a running agent to sync")
	return cmd
}

// NewAgentCommand creates the long-running agent command.
func NewAgentCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "agent",
		Short: "Run in the background and sync whenever the API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAgent(cmd, rootOpts, func(ctx context.Context, a *agent.Agent) error {
				return a.Run(ctx)
			})
		},
	}
}

// NewCacheCommand creates the cache command group.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "activate",
		Short: "Claim the cache for this version and purge older partitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAgent(cmd, rootOpts, func(ctx context.Context, a *agent.Agent) error {
				again, err := a.Router.Activate(ctx)
				if err != nil {
					return err
				}
				purged := append(a.Purged, again...)
				return printResult(cmd, rootOpts, map[string]any{"purged": purged}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "cache active, purged %d partition(s)\n", len(purged))
					return err
				})
			})
		},
	})
	return cmd
}
