package storage

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"adboard/api/internal/config"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(config.StorageConfig{
		RootDir:   t.TempDir(),
		URLPrefix: "/images",
	})
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	return store
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	path, err := store.Write(ctx, CategoryAds, "ad_1_token.jpg", []byte("hello"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if path != "/images/ads/ad_1_token.jpg" {
		t.Fatalf("unexpected path %q", path)
	}

	data, err := store.Read(ctx, path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("got %q, want hello", data)
	}
}

func TestLocalStoreReadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Read(context.Background(), "/images/ads/nope.jpg")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalStoreDeleteIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	path, err := store.Write(ctx, CategoryUsers, "user_2_token.png", []byte("x"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := store.Delete(ctx, path); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, path); err != nil {
		t.Fatalf("second Delete: %v", err)
	}

	if _, err := store.Read(ctx, path); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Write(ctx, CategoryAds, "../../etc/passwd", []byte("x")); err == nil {
		t.Fatal("expected traversal write to fail")
	}
	if _, err := store.Read(ctx, "/images/../../etc/passwd"); err == nil {
		t.Fatal("expected traversal read to fail")
	}
}

func TestLocalStoreList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Write(ctx, CategoryAds, "ad_1_a.jpg", []byte("1")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := store.Write(ctx, CategoryUsers, "user_1_b.png", []byte("2")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	paths, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	sort.Strings(paths)

	want := []string{"/images/ads/ad_1_a.jpg", "/images/users/user_1_b.png"}
	if len(paths) != len(want) {
		t.Fatalf("got %d paths, want %d: %v", len(paths), len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestLocalStoreModTime(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	path, err := store.Write(ctx, CategoryAds, "ad_1_a.jpg", []byte("x"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	modTime, err := store.ModTime(ctx, path)
	if err != nil {
		t.Fatalf("ModTime: %v", err)
	}
	if time.Since(modTime) > time.Minute {
		t.Fatalf("mtime %v is not recent", modTime)
	}

	if _, err := store.ModTime(ctx, "/images/ads/nope.jpg"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalStoreListEmptyRoot(t *testing.T) {
	store := newTestStore(t)

	paths, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected no paths, got %v", paths)
	}
}
