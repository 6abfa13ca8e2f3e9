// SPDX-License-Identifier: MIT

// Command dimscope explores high-dimensional numeric tables: per-dimension
// correlation, low-dimensional embeddings, neighbor queries and trend curves.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "dimscope:", err)
		stop()
		os.Exit(1)
	}
}
