package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"adboard/api/internal/config"
)

// LocalStore keeps blobs on the filesystem under rootDir, one
// subdirectory per category.
type LocalStore struct {
	rootDir   string
	urlPrefix string
}

func NewLocalStore(cfg config.StorageConfig) (*LocalStore, error) {
	if strings.TrimSpace(cfg.RootDir) == "" {
		return nil, fmt.Errorf("storage root dir is required")
	}

	prefix := cfg.URLPrefix
	if prefix == "" {
		prefix = "/images"
	}

	return &LocalStore{
		rootDir:   cfg.RootDir,
		urlPrefix: strings.TrimSuffix(prefix, "/"),
	}, nil
}

// EnsureDirs pre-creates the category subdirectories. Write does not
// depend on it; missing parents are created lazily there as well.
func (s *LocalStore) EnsureDirs(ctx context.Context) error {
	for _, category := range []string{CategoryUsers, CategoryAds} {
		if err := os.MkdirAll(filepath.Join(s.rootDir, category), 0o755); err != nil {
			return fmt.Errorf("create %s dir: %w", category, err)
		}
	}
	return nil
}

func (s *LocalStore) Write(ctx context.Context, category, filename string, data []byte) (string, error) {
	target, err := s.resolve(filepath.Join(category, filename))
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create parent dir: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}

	return s.urlPrefix + "/" + category + "/" + filename, nil
}

func (s *LocalStore) Read(ctx context.Context, relPath string) ([]byte, error) {
	target, err := s.resolve(s.stripPrefix(relPath))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, relPath)
		}
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}

func (s *LocalStore) Delete(ctx context.Context, relPath string) error {
	target, err := s.resolve(s.stripPrefix(relPath))
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// List returns the relative paths of every stored blob, used by the
// orphan sweeper.
func (s *LocalStore) List(ctx context.Context) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.rootDir, path)
		if err != nil {
			return err
		}
		paths = append(paths, s.urlPrefix+"/"+filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk storage dir: %w", err)
	}
	return paths, nil
}

func (s *LocalStore) ModTime(ctx context.Context, relPath string) (time.Time, error) {
	target, err := s.resolve(s.stripPrefix(relPath))
	if err != nil {
		return time.Time{}, err
	}

	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, fmt.Errorf("%w: %s", ErrNotFound, relPath)
		}
		return time.Time{}, fmt.Errorf("stat blob: %w", err)
	}
	return info.ModTime(), nil
}

func (s *LocalStore) stripPrefix(relPath string) string {
	p := strings.TrimPrefix(relPath, s.urlPrefix)
	return strings.TrimPrefix(p, "/")
}

// resolve joins rel onto the root and rejects anything that escapes it.
func (s *LocalStore) resolve(rel string) (string, error) {
	target := filepath.Join(s.rootDir, filepath.FromSlash(rel))

	root, err := filepath.Abs(s.rootDir)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	if abs != root && !strings.HasPrefix(abs, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes storage root", rel)
	}
	return target, nil
}
