package captions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"captiongen/internal/cache"
	"captiongen/internal/config"
	"captiongen/internal/engine"
	"captiongen/internal/logging"
	"captiongen/internal/media/ffprobe"
	"captiongen/internal/services"
	"captiongen/internal/transcript"
)

// Result summarizes a successful run.
type Result struct {
	RunID    string
	Outputs  []string
	Cached   bool
	Language string
	Segments int
	Elapsed  time.Duration
}

// Generator runs the caption pipeline for single files.
type Generator struct {
	config   *config.Config
	logger   *slog.Logger
	loader   engine.Loader
	reporter Reporter
	store    *cache.Store
	probe    bool
	timeout  time.Duration
	now      func() time.Time
}

// Option customizes a Generator.
type Option func(*Generator)

// WithReporter replaces the console reporter.
func WithReporter(r Reporter) Option {
	return func(g *Generator) {
		if r != nil {
			g.reporter = r
		}
	}
}

// WithCache supplies an already opened transcript cache. Without it the
// cache configured under [cache] is opened per run when enabled.
func WithCache(store *cache.Store) Option {
	return func(g *Generator) {
		g.store = store
	}
}

// WithTranscribeTimeout bounds the transcription step. Zero disables the
// limit. Defaults to transcription.timeout_minutes.
func WithTranscribeTimeout(d time.Duration) Option {
	return func(g *Generator) {
		g.timeout = d
	}
}

// WithoutProbe skips the ffprobe media summary.
func WithoutProbe() Option {
	return func(g *Generator) {
		g.probe = false
	}
}

// NewGenerator constructs a Generator around loader.
func NewGenerator(cfg *config.Config, loader engine.Loader, logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		config:   cfg,
		logger:   logging.NewComponentLogger(logger, "captions"),
		loader:   loader,
		reporter: NewConsoleReporter(os.Stdout, false),
		probe:    true,
		timeout:  time.Duration(cfg.Transcription.TimeoutMinutes) * time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run produces caption files for source.
func (g *Generator) Run(ctx context.Context, source string) (Result, error) {
	start := g.now()
	result := Result{RunID: uuid.NewString()}
	ctx = services.WithRunID(ctx, result.RunID)
	ctx = services.WithSource(ctx, source)
	logger := logging.WithContext(ctx, g.logger)

	if err := CheckSource(source); err != nil {
		return result, err
	}

	lock, err := acquireRunLock(g.config.LockDir(), source)
	if err != nil {
		if errors.Is(err, services.ErrBusy) {
			return result, err
		}
		return result, services.Wrap(services.ErrConfiguration, "lock", "acquire", "could not create run lock", err)
	}
	defer func() {
		if err := lock.release(); err != nil {
			logging.WarnWithContext(logger, "failed to release run lock", "run_lock_release_failed",
				logging.String("lock", lock.path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "next run on this file may report busy"),
			)
		}
	}()

	logger.Info("caption run started",
		logging.String(logging.FieldEngine, g.config.Transcription.Engine),
		logging.String(logging.FieldModel, g.config.Transcription.Model),
	)
	if g.probe {
		g.logMediaSummary(ctx, logger, source)
	}

	store, closeStore := g.openCache(ctx, logger)
	defer closeStore()

	key, tr := g.lookupCache(ctx, logger, store, source)
	if tr != nil {
		result.Cached = true
	} else {
		tr, err = g.transcribe(ctx, logger, source)
		if err != nil {
			return result, err
		}
		g.storeCache(ctx, logger, store, key, source, tr)
	}
	result.Language = tr.Language
	result.Segments = len(tr.Segments)

	outputs, err := g.export(services.WithStage(ctx, "export"), logger, source, tr)
	result.Outputs = outputs
	if err != nil {
		return result, err
	}

	result.Elapsed = g.now().Sub(start)
	logger.Info("caption run completed",
		logging.Int("outputs", len(outputs)),
		logging.Int("segments", result.Segments),
		logging.Bool("cached", result.Cached),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// CheckSource reports ErrNotFound unless source is an existing regular
// path that is not a directory.
func CheckSource(source string) error {
	info, err := os.Stat(source)
	switch {
	case err != nil && errors.Is(err, os.ErrNotExist):
		return services.Wrap(services.ErrNotFound, "", "", fmt.Sprintf("File not found at '%s'", source), nil)
	case err != nil:
		return services.Wrap(services.ErrNotFound, "", "", fmt.Sprintf("Cannot access '%s'", source), err)
	case info.IsDir():
		return services.Wrap(services.ErrNotFound, "", "", fmt.Sprintf("'%s' is a directory, not a media file", source), nil)
	}
	return nil
}

func (g *Generator) transcribe(ctx context.Context, logger *slog.Logger, source string) (*transcript.Transcript, error) {
	tc := g.config.Transcription

	g.reporter.Progress(loadingMessage())
	loadCtx := services.WithStage(ctx, "load")
	loadStart := g.now()
	model, err := g.loader.Load(loadCtx, tc.Model)
	if err != nil {
		return nil, services.Wrap(services.ErrModelLoad, "load", tc.Engine, fmt.Sprintf("load model %q", tc.Model), err)
	}
	logging.WithContext(loadCtx, logger).Debug("model loaded",
		logging.String(logging.FieldModel, model.Name()),
		logging.Duration("load_duration", g.now().Sub(loadStart)),
	)

	g.reporter.Progress(transcribingMessage(filepath.Base(source)))
	runCtx := services.WithStage(ctx, "transcribe")
	if g.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, g.timeout)
		defer cancel()
	}

	workDir, err := os.MkdirTemp(g.config.WorkRoot(), "captiongen-")
	if err != nil {
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "workdir", "create scratch directory", err)
	}
	defer os.RemoveAll(workDir)

	runStart := g.now()
	tr, err := model.Transcribe(runCtx, source, engine.Options{
		Language: tc.Language,
		FP16:     tc.FP16,
		WorkDir:  workDir,
	})
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", g.timeout, err)
		}
		return nil, services.Wrap(services.ErrTranscription, "transcribe", tc.Engine, "transcribe source", err)
	}
	logging.WithContext(runCtx, logger).Info("transcription finished",
		logging.String("language", tr.Language),
		logging.Int("segments", len(tr.Segments)),
		logging.Int("words", tr.WordCount()),
		logging.Float64(logging.FieldDurationSec, tr.Duration()),
		logging.Duration("transcribe_duration", g.now().Sub(runStart)),
	)
	return tr, nil
}

func (g *Generator) export(ctx context.Context, logger *slog.Logger, source string, tr *transcript.Transcript) ([]string, error) {
	opts := transcript.ExportOptions{WordHighlight: g.config.Output.WordHighlight}
	formats := g.config.OrderedFormats()
	written := make([]string, 0, len(formats))
	for _, format := range formats {
		path := OutputPath(source, "."+format)
		var err error
		switch format {
		case config.FormatSRT:
			err = tr.SaveSRT(path, opts)
		case config.FormatVTT:
			err = tr.SaveVTT(path, opts)
		case config.FormatTSV:
			err = tr.SaveTSV(path)
		default:
			err = fmt.Errorf("unsupported format %q", format)
		}
		if err != nil {
			return written, services.Wrap(services.ErrExport, "export", format, fmt.Sprintf("write %s", path), err)
		}
		written = append(written, path)
		g.reporter.Saved(format, path)
		logging.WithContext(ctx, logger).Debug("caption file written",
			logging.String("format", format),
			logging.String("path", path),
		)
	}
	return written, nil
}

func (g *Generator) logMediaSummary(ctx context.Context, logger *slog.Logger, source string) {
	probe, err := ffprobe.Inspect(ctx, g.config.FFprobeBinary(), source)
	if err != nil {
		logger.Debug("media probe skipped", logging.Error(err))
		return
	}
	attrs := []logging.Attr{
		logging.Float64(logging.FieldDurationSec, probe.DurationSeconds()),
		logging.Int64("size_bytes", probe.SizeBytes()),
		logging.Int("audio_streams", probe.AudioStreamCount()),
	}
	if langs := probe.AudioLanguages(); len(langs) > 0 {
		attrs = append(attrs, logging.String("audio_languages", strings.Join(langs, ",")))
	}
	logger.Info("media inspected", logging.Args(attrs...)...)
	if probe.AudioStreamCount() == 0 {
		logging.WarnWithContext(logger, "source has no audio streams", "no_audio_streams",
			logging.String(logging.FieldImpact, "transcription is likely to fail or produce empty captions"),
			logging.String(logging.FieldErrorHint, "check that the file contains an audio track"),
		)
	}
}
