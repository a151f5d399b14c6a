package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"adboard/api/internal/service"
	"adboard/api/internal/storage"
)

const sweepLockKey = "jobs:orphan_sweep:lock"

// Uploads write the blob before inserting its record, so a blob with no
// record may simply be mid-upload. Blobs younger than this are never
// treated as orphans.
const sweepMinAge = time.Hour

// Scheduler runs the periodic orphan sweep: blobs on disk that no
// image record references are deleted, and records whose blob has gone
// missing are reported. A redis lock keeps multiple instances from
// sweeping at once.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	blobs  storage.BlobStore
	images service.ImageStore
	locker *redis.Client
	log    zerolog.Logger
}

func NewScheduler(spec string, blobs storage.BlobStore, images service.ImageStore, locker *redis.Client, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		spec:   spec,
		blobs:  blobs,
		images: images,
		locker: locker,
		log:    log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runSweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits up to five seconds for an in-flight
// sweep to finish.
func (s *Scheduler) Stop() {
	select {
	case <-s.cron.Stop().Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if s.locker != nil {
		ok, err := s.locker.SetNX(ctx, sweepLockKey, "1", 15*time.Minute).Result()
		if err != nil {
			s.log.Warn().Err(err).Msg("sweep lock unavailable, skipping run")
			return
		}
		if !ok {
			s.log.Debug().Msg("sweep already running elsewhere")
			return
		}
		defer s.locker.Del(context.Background(), sweepLockKey)
	}

	removed, err := SweepOrphans(ctx, s.blobs, s.images, s.log)
	if err != nil {
		s.log.Error().Err(err).Msg("orphan sweep failed")
		return
	}
	s.log.Info().Int("removed", removed).Msg("orphan sweep finished")
}

// SweepOrphans deletes every stored blob older than sweepMinAge that
// has no referencing image record and returns how many were removed.
// Deletion failures are logged and skipped; the next sweep retries
// them.
func SweepOrphans(ctx context.Context, blobs storage.BlobStore, images service.ImageStore, log zerolog.Logger) (int, error) {
	paths, err := blobs.List(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range paths {
		exists, err := images.ExistsByPath(ctx, path)
		if err != nil {
			return removed, err
		}
		if exists {
			continue
		}
		modTime, err := blobs.ModTime(ctx, path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("orphan blob stat failed")
			continue
		}
		if time.Since(modTime) < sweepMinAge {
			continue
		}
		if err := blobs.Delete(ctx, path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("orphan blob delete failed")
			continue
		}
		removed++
	}
	return removed, nil
}
