package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"captiongen/internal/logging"
)

// CommandRunner executes an external command and reports failure.
type CommandRunner func(ctx context.Context, name string, args ...string) error

const outputTailLines = 12

func newExecRunner(logger *slog.Logger) CommandRunner {
	return func(ctx context.Context, name string, args ...string) error {
		cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

		// Torch 2.6 made weights_only the torch.load default, which rejects the
		// pickled Whisper and pyannote checkpoints.
		if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
			cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
		}

		var output bytes.Buffer
		cmd.Stdout = &output
		cmd.Stderr = &output

		start := time.Now()
		err := cmd.Run()
		logger.Debug("command finished",
			logging.String("command", name),
			logging.String("args", summarizeArgs(args)),
			logging.Duration("elapsed", time.Since(start)),
			logging.String("output", output.String()),
		)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("%s: %w", name, ctxErr)
			}
			return fmt.Errorf("%s: %w: %s", name, err, tail(output.String(), outputTailLines))
		}
		return nil
	}
}

// summarizeArgs elides inline Python programs so logs stay readable.
func summarizeArgs(args []string) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		if i > 0 && args[i-1] == "-c" {
			parts[i] = "<script>"
			continue
		}
		parts[i] = arg
	}
	return strings.Join(parts, " ")
}

func tail(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
