package captions

import (
	"context"
	"log/slog"
	"time"

	"captiongen/internal/cache"
	"captiongen/internal/fileutil"
	"captiongen/internal/logging"
	"captiongen/internal/transcript"
)

// openCache returns the store for this run and a func that releases it. A
// store injected with WithCache is never closed here.
func (g *Generator) openCache(ctx context.Context, logger *slog.Logger) (*cache.Store, func()) {
	if g.store != nil {
		g.pruneCache(ctx, logger, g.store)
		return g.store, func() {}
	}
	if !g.config.Cache.Enabled {
		return nil, func() {}
	}
	store, err := cache.Open(ctx, g.config.Cache.Path)
	if err != nil {
		logging.WarnWithContext(logger, "transcript cache unavailable", "transcript_cache_unavailable",
			logging.String("cache_path", g.config.Cache.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "transcribing without cache"),
			logging.String(logging.FieldErrorHint, "delete the cache database or disable [cache]"),
		)
		return nil, func() {}
	}
	g.pruneCache(ctx, logger, store)
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Debug("transcript cache close failed", logging.Error(err))
		}
	}
}

// pruneCache drops entries older than cache.retention_days. Zero keeps
// everything.
func (g *Generator) pruneCache(ctx context.Context, logger *slog.Logger, store *cache.Store) {
	days := g.config.Cache.RetentionDays
	if days <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	removed, err := store.Prune(ctx, cutoff)
	if err != nil {
		logging.WarnWithContext(logger, "transcript cache prune failed", "transcript_cache_prune_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "stale transcripts kept"),
		)
		return
	}
	if removed > 0 {
		logger.Info("transcript cache pruned",
			logging.Int64("removed", removed),
			logging.Int("retention_days", days),
		)
	}
}

func (g *Generator) cacheKey(source string) (cache.Key, error) {
	hash, err := fileutil.HashFile(source)
	if err != nil {
		return cache.Key{}, err
	}
	tc := g.config.Transcription
	return cache.Key{
		ContentHash: hash,
		Engine:      tc.Engine,
		Model:       tc.Model,
		Language:    tc.Language,
		FP16:        tc.FP16,
	}, nil
}

// lookupCache returns the key for source and the cached transcript, if any.
// Any failure is logged and treated as a miss.
func (g *Generator) lookupCache(ctx context.Context, logger *slog.Logger, store *cache.Store, source string) (cache.Key, *transcript.Transcript) {
	if store == nil {
		return cache.Key{}, nil
	}
	key, err := g.cacheKey(source)
	if err != nil {
		logging.WarnWithContext(logger, "transcript cache key failed", "transcript_cache_key_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "transcribing without cache"),
		)
		return cache.Key{}, nil
	}
	entry, err := store.Get(ctx, key)
	if err != nil {
		logging.WarnWithContext(logger, "transcript cache read failed", "transcript_cache_read_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "transcribing without cache"),
		)
		return key, nil
	}
	if entry == nil {
		logger.Debug("transcript cache miss", logging.String("cache_key", key.String()))
		return key, nil
	}
	logger.Info("transcript cache hit",
		logging.String("cache_key", entry.Key),
		logging.String("cached_source", entry.SourcePath),
		logging.Int("segments", len(entry.Transcript.Segments)),
	)
	return key, entry.Transcript
}

func (g *Generator) storeCache(ctx context.Context, logger *slog.Logger, store *cache.Store, key cache.Key, source string, tr *transcript.Transcript) {
	if store == nil || key.ContentHash == "" {
		return
	}
	if err := store.Put(ctx, key, source, tr); err != nil {
		logging.WarnWithContext(logger, "transcript cache store failed", "transcript_cache_store_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "next run will transcribe again"),
		)
		return
	}
	logger.Debug("transcript cached", logging.String("cache_key", key.String()))
}
