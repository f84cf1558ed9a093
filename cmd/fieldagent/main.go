// Command fieldagent is the field officer's device client. It keeps working
// without a network: writes are queued on the device and synced later.
//
// Configuration is read from FIELD_* environment variables.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/pantau-subsidi/internal/device/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(cli.DefaultOpener, cli.DefaultDialer).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "fieldagent:", err)
		os.Exit(1)
	}
}
