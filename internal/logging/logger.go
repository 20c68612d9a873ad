package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"captiongen/internal/config"
)

// LogFilePattern matches per-run log files written by NewFromConfig.
const LogFilePattern = "captiongen-*.log"

// NewFromConfig creates the run logger. Console output goes to stderr at the
// configured level; a per-run JSON file under log_dir receives debug detail.
// The returned path is empty when no log directory is configured.
func NewFromConfig(cfg *config.Config) (*slog.Logger, string, error) {
	if cfg == nil {
		return nil, "", errors.New("logging: nil config")
	}
	console, err := consoleFor(os.Stderr, cfg.Logging)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(cfg.Paths.LogDir) == "" {
		return slog.New(console), "", nil
	}

	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("ensure log directory: %w", err)
	}
	logPath := filepath.Join(cfg.Paths.LogDir, runLogName(time.Now(), os.Getpid()))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o664)
	if err != nil {
		return nil, "", fmt.Errorf("open log file %s: %w", logPath, err)
	}

	logger := slog.New(TeeHandler(console, newJSONHandler(file, slog.LevelDebug, true)))
	PruneRunLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, logPath)
	return logger, logPath, nil
}

// consoleFor builds the terminal handler for the [logging] section. Debug
// level adds the caller to each line.
func consoleFor(w io.Writer, lc config.Logging) (slog.Handler, error) {
	level := parseLevel(lc.Level)
	addSource := level <= slog.LevelDebug
	switch format := strings.ToLower(strings.TrimSpace(lc.Format)); format {
	case "", "console":
		return newConsoleHandler(w, level, addSource), nil
	case "json":
		return newJSONHandler(w, level, addSource), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", lc.Format)
	}
}

// runLogName is unique per process: two runs started in the same
// millisecond still differ by pid.
func runLogName(ts time.Time, pid int) string {
	return fmt.Sprintf("captiongen-%s-%d.log", ts.UTC().Format("20060102T150405.000"), pid)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger tags logger with a component attribute. A nil logger
// is replaced by NewNop.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}
