package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/pantau-subsidi/internal/device/agent"
	"github.com/heartmarshall/pantau-subsidi/internal/device/api"
	"github.com/heartmarshall/pantau-subsidi/internal/device/control"
	"github.com/heartmarshall/pantau-subsidi/internal/device/syncqueue"
)

// NewReportCommand creates the report command group.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Submit and inspect distribution reports",
	}
	cmd.AddCommand(newReportSubmitCommand(rootOpts))
	cmd.AddCommand(newReportListCommand(rootOpts))
	cmd.AddCommand(newReportPendingCommand(rootOpts))
	return cmd
}

func newReportSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	var in api.ReportInput

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a report; queued on the device when offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Komoditas == "" {
				return fmt.Errorf("--komoditas is required")
			}
			show := func(res api.WriteResult) error {
				return printResult(cmd, rootOpts, res, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "report %s: %s\n", res.ID, res.Status)
					return err
				})
			}
			return withDevice(cmd, rootOpts,
				func(ctx context.Context, a *agent.Agent) error {
					res, err := a.Client.SubmitReport(ctx, in)
					if err != nil {
						return err
					}
					return show(res)
				},
				func(ctx context.Context, c *control.Client) error {
					res, err := c.SubmitReport(ctx, in)
					if err != nil {
						return err
					}
					return show(res)
				},
			)
		},
	}

	cmd.Flags().StringVar(&in.ID, "id", "", "report id (generated when empty)")
	cmd.Flags().StringVar(&in.TaskID, "task", "", "task id")
	cmd.Flags().StringVar(&in.Komoditas, "komoditas", "", "commodity distributed")
	cmd.Flags().Float64Var(&in.KuotaTersalurkan, "kuota", 0, "quota distributed")
	cmd.Flags().StringVar(&in.Lokasi, "lokasi", "", "location")
	cmd.Flags().StringVar(&in.Catatan, "catatan", "", "notes")
	return cmd
}

func newReportListCommand(rootOpts *RootOptions) *cobra.Command {
	var taskID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAgent(cmd, rootOpts, func(ctx context.Context, a *agent.Agent) error {
				res, err := a.Client.ListReports(ctx, taskID)
				if err != nil {
					return err
				}
				return printResult(cmd, rootOpts, res, func(w io.Writer) error {
					if res.FromCache {
						fmt.Fprintln(w, "(offline: showing saved copy)")
					}
					rows := make([][]string, 0, len(res.Reports))
					for _, r := range res.Reports {
						rows = append(rows, []string{
							r.ID, r.Komoditas, strconv.FormatFloat(r.KuotaTersalurkan, 'f', -1, 64), r.Status,
						})
					}
					return table(w, []string{"ID", "KOMODITAS", "KUOTA", "STATUS"}, rows)
				})
			})
		},
	}

	cmd.Flags().StringVar(&taskID, "task", "", "only reports for this task")
	return cmd
}

func newReportPendingCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List writes waiting to be synced",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			show := func(items []syncqueue.Item) error {
				return printResult(cmd, rootOpts, items, func(w io.Writer) error {
					rows := make([][]string, 0, len(items))
					for _, it := range items {
						rows = append(rows, []string{it.ID, it.Endpoint, it.CreatedAt.Format(time.RFC3339)})
					}
					return table(w, []string{"ID", "ENDPOINT", "QUEUED AT"}, rows)
				})
			}
			return withDevice(cmd, rootOpts,
				func(ctx context.Context, a *agent.Agent) error {
					items, err := a.Queue.ListPending(ctx)
					if err != nil {
						return err
					}
					return show(items)
				},
				func(ctx context.Context, c *control.Client) error {
					items, err := c.Pending(ctx)
					if err != nil {
						return err
					}
					return show(items)
				},
			)
		},
	}
}
