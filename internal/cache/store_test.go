package cache_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"captiongen/internal/cache"
	"captiongen/internal/transcript"
)

func openStore(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.Open(context.Background(), filepath.Join(t.TempDir(), "nested", "transcripts.db"))
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleTranscript(t *testing.T) *transcript.Transcript {
	t.Helper()
	tr, err := transcript.Parse([]byte(`{"language":"en","segments":[{"start":0,"end":1,"text":"Hello."}]}`))
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestPutThenGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	key := cache.Key{ContentHash: "abc", Engine: "stable-ts", Model: "base"}

	if entry, err := store.Get(ctx, key); err != nil || entry != nil {
		t.Fatalf("expected miss on empty cache, got %v, %v", entry, err)
	}

	if err := store.Put(ctx, key, "/media/video.mp4", sampleTranscript(t)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	entry, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry == nil {
		t.Fatal("expected cache hit")
	}
	if entry.SourcePath != "/media/video.mp4" || entry.Model != "base" || entry.Engine != "stable-ts" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if len(entry.Transcript.Segments) != 1 || entry.Transcript.Segments[0].Text != "Hello." {
		t.Fatalf("unexpected transcript: %+v", entry.Transcript)
	}

	if err := store.Put(ctx, key, "/media/renamed.mp4", sampleTranscript(t)); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	entry, err = store.Get(ctx, key)
	if err != nil || entry == nil || entry.SourcePath != "/media/renamed.mp4" {
		t.Fatalf("expected replaced entry, got %+v (%v)", entry, err)
	}
	removed, err := store.Prune(ctx, time.Now().Add(time.Hour))
	if err != nil || removed != 1 {
		t.Fatalf("expected single row after replace, pruned %d (%v)", removed, err)
	}
}

func TestKeyDependsOnSettings(t *testing.T) {
	base := cache.Key{ContentHash: "abc", Engine: "stable-ts", Model: "base"}
	variants := []cache.Key{
		{ContentHash: "abd", Engine: "stable-ts", Model: "base"},
		{ContentHash: "abc", Engine: "whisperx", Model: "base"},
		{ContentHash: "abc", Engine: "stable-ts", Model: "small"},
		{ContentHash: "abc", Engine: "stable-ts", Model: "base", Language: "en"},
		{ContentHash: "abc", Engine: "stable-ts", Model: "base", FP16: true},
	}
	for _, v := range variants {
		if v.String() == base.String() {
			t.Fatalf("expected distinct key for %+v", v)
		}
	}
	if base.String() != (cache.Key{ContentHash: "abc", Engine: "stable-ts", Model: "base"}).String() {
		t.Fatal("expected deterministic key")
	}
}

func TestPrune(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	if err := store.Put(ctx, cache.Key{ContentHash: "a"}, "a.mp4", sampleTranscript(t)); err != nil {
		t.Fatal(err)
	}
	removed, err := store.Prune(ctx, time.Now().Add(-time.Hour))
	if err != nil || removed != 0 {
		t.Fatalf("expected nothing pruned, got %d (%v)", removed, err)
	}
	removed, err = store.Prune(ctx, time.Now().Add(time.Hour))
	if err != nil || removed != 1 {
		t.Fatalf("expected one entry pruned, got %d (%v)", removed, err)
	}
}

func TestPruneOrdersWithinTheSameSecond(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	older := cache.Key{ContentHash: "older"}
	newer := cache.Key{ContentHash: "newer"}

	if err := store.Put(ctx, older, "older.mp4", sampleTranscript(t)); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	cutoff := time.Now()
	time.Sleep(5 * time.Millisecond)
	if err := store.Put(ctx, newer, "newer.mp4", sampleTranscript(t)); err != nil {
		t.Fatal(err)
	}

	removed, err := store.Prune(ctx, cutoff)
	if err != nil || removed != 1 {
		t.Fatalf("expected only the older entry pruned, got %d (%v)", removed, err)
	}
	if entry, _ := store.Get(ctx, older); entry != nil {
		t.Fatal("expected older entry removed")
	}
	entry, err := store.Get(ctx, newer)
	if err != nil || entry == nil {
		t.Fatalf("expected newer entry kept, got %v (%v)", entry, err)
	}
	if entry.CreatedAt.Before(cutoff) {
		t.Fatalf("created_at %v should follow cutoff %v", entry.CreatedAt, cutoff)
	}
}

func TestOpenRejectsOlderSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.db")
	ctx := context.Background()
	store, err := cache.Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 1"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if _, err := cache.Open(ctx, path); !errors.Is(err, cache.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.db")
	ctx := context.Background()
	key := cache.Key{ContentHash: "abc"}

	store, err := cache.Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, key, "video.mp4", sampleTranscript(t)); err != nil {
		t.Fatal(err)
	}
	store.Close()

	reopened, err := cache.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if entry, err := reopened.Get(ctx, key); err != nil || entry == nil {
		t.Fatalf("expected persisted entry, got %v (%v)", entry, err)
	}
}
