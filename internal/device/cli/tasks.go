package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/pantau-subsidi/internal/device/agent"
)

// NewTasksCommand creates the tasks command.
func NewTasksCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List assigned tasks; served from the device when offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAgent(cmd, rootOpts, func(ctx context.Context, a *agent.Agent) error {
				res, err := a.Client.ListTasks(ctx)
				if err != nil {
					return err
				}
				return printResult(cmd, rootOpts, res, func(w io.Writer) error {
					if res.Stale {
						fmt.Fprintln(w, "(offline: tasks may be out of date)")
					}
					rows := make([][]string, 0, len(res.Tasks))
					for _, t := range res.Tasks {
						rows = append(rows, []string{
							t.ID, t.Title, strconv.FormatFloat(t.KuotaTarget, 'f', -1, 64), t.Status,
						})
					}
					return table(w, []string{"ID", "TITLE", "TARGET", "STATUS"}, rows)
				})
			})
		},
	}
}
