package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"adboard/api/internal/config"
	"adboard/api/internal/models"
	"adboard/api/internal/repository"
	"adboard/api/internal/storage"
)

type pathSet struct {
	paths map[string]bool
}

func (s pathSet) Create(ctx context.Context, image *models.Image) error { return nil }

func (s pathSet) GetByID(ctx context.Context, id int64) (models.Image, error) {
	return models.Image{}, repository.ErrImageNotFound
}

func (s pathSet) FindByUser(ctx context.Context, userID int64) (models.Image, error) {
	return models.Image{}, repository.ErrImageNotFound
}

func (s pathSet) ListByAd(ctx context.Context, adID int64) ([]models.Image, error) {
	return nil, nil
}

func (s pathSet) ExistsByPath(ctx context.Context, filePath string) (bool, error) {
	return s.paths[filePath], nil
}

func (s pathSet) DeleteByID(ctx context.Context, id int64) error { return nil }

func (s pathSet) DeleteByPath(ctx context.Context, filePath string) error { return nil }

// backdate pushes a stored blob's mtime well past the sweep's minimum
// age so the test can treat it as a long-standing orphan.
func backdate(t *testing.T, rootDir, category, filename string) {
	t.Helper()
	old := time.Now().Add(-24 * time.Hour)
	if err := os.Chtimes(filepath.Join(rootDir, category, filename), old, old); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
}

func TestSweepOrphans(t *testing.T) {
	ctx := context.Background()
	rootDir := t.TempDir()
	blobs, err := storage.NewLocalStore(config.StorageConfig{
		RootDir:   rootDir,
		URLPrefix: "/images",
	})
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	kept, err := blobs.Write(ctx, storage.CategoryAds, "ad_1_kept.jpg", []byte("kept"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := blobs.Write(ctx, storage.CategoryAds, "ad_2_orphan.jpg", []byte("orphan")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := blobs.Write(ctx, storage.CategoryUsers, "user_3_orphan.png", []byte("orphan")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	backdate(t, rootDir, storage.CategoryAds, "ad_2_orphan.jpg")
	backdate(t, rootDir, storage.CategoryUsers, "user_3_orphan.png")

	images := pathSet{paths: map[string]bool{kept: true}}

	removed, err := SweepOrphans(ctx, blobs, images, zerolog.Nop())
	if err != nil {
		t.Fatalf("SweepOrphans: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed %d, want 2", removed)
	}

	paths, err := blobs.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 1 || paths[0] != kept {
		t.Fatalf("expected only %q to survive, got %v", kept, paths)
	}
}

func TestSweepOrphansSparesFreshBlobs(t *testing.T) {
	ctx := context.Background()
	blobs, err := storage.NewLocalStore(config.StorageConfig{
		RootDir:   t.TempDir(),
		URLPrefix: "/images",
	})
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	// Unreferenced but just written, like an upload whose record has
	// not landed yet.
	fresh, err := blobs.Write(ctx, storage.CategoryAds, "ad_1_fresh.jpg", []byte("fresh"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	removed, err := SweepOrphans(ctx, blobs, pathSet{paths: map[string]bool{}}, zerolog.Nop())
	if err != nil {
		t.Fatalf("SweepOrphans: %v", err)
	}
	if removed != 0 {
		t.Fatalf("removed %d, want 0", removed)
	}
	if _, err := blobs.Read(ctx, fresh); err != nil {
		t.Fatalf("fresh blob should survive the sweep: %v", err)
	}
}

func TestSweepOrphansEmptyStore(t *testing.T) {
	blobs, err := storage.NewLocalStore(config.StorageConfig{
		RootDir:   t.TempDir(),
		URLPrefix: "/images",
	})
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	removed, err := SweepOrphans(context.Background(), blobs, pathSet{paths: map[string]bool{}}, zerolog.Nop())
	if err != nil {
		t.Fatalf("SweepOrphans: %v", err)
	}
	if removed != 0 {
		t.Fatalf("removed %d, want 0", removed)
	}
}
