package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// staleTempAge is how old an unfinished photo write must be before it is
// considered abandoned.
const staleTempAge = 10 * time.Minute

// SweepTemp removes temp files left by interrupted Save calls that are older
// than olderThan. It returns how many files were removed.
func (s *LocalPhotoStorage) SweepTemp(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), ".tmp-") {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

// StartMaintenance schedules the temp photo sweep. The returned scheduler
// must be stopped on shutdown.
func StartMaintenance(schedule string, photos *LocalPhotoStorage, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		n, err := photos.SweepTemp(staleTempAge)
		if err != nil {
			logger.Warn("photo temp sweep failed", zap.Error(err))
			return
		}
		if n > 0 {
			logger.Info("removed stale temp photos", zap.Int("count", n))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule photo sweep: %w", err)
	}
	c.Start()
	return c, nil
}
