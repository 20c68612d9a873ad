package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"captiongen/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints the user-facing message for a failed run.
func reportError(w io.Writer, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(w, "Interrupted.")
		return
	case errors.Is(err, services.ErrUsage):
		fmt.Fprintln(w, usageLine)
		return
	}
	fmt.Fprintln(w, services.Summary(err))
	for _, hint := range services.Hints(err) {
		fmt.Fprintln(w, hint)
	}
}
