// Package monitoring hosts background maintenance workers.
package monitoring

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/isdelr/postboard-be/internal/storage"
	"github.com/isdelr/postboard-be/internal/store"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// minAge protects freshly uploaded files that are not yet attached to a post.
const minAge = time.Hour

// ImageSweeper periodically deletes stored image files that no post
// references. Post mutations remove their own images best-effort; the sweeper
// recovers whatever that cleanup leaked.
type ImageSweeper struct {
	store    *store.Store
	images   *storage.ImageStore
	schedule cron.Schedule
	done     chan bool
}

// NewImageSweeper creates a sweeper firing on the given cron expression.
func NewImageSweeper(st *store.Store, images *storage.ImageStore, cronExpr string) (*ImageSweeper, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &ImageSweeper{
		store:    st,
		images:   images,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run executes sweeps on schedule until Stop is called.
func (s *ImageSweeper) Run() {
	log.Info().Msg("Starting image sweeper...")
	for {
		timer := time.NewTimer(time.Until(s.schedule.Next(time.Now())))
		select {
		case <-s.done:
			timer.Stop()
			log.Info().Msg("Stopping image sweeper.")
			return
		case <-timer.C:
			s.Sweep(context.Background())
		}
	}
}

// Stop halts the sweeper.
func (s *ImageSweeper) Stop() {
	s.done <- true
}

// Sweep removes unreferenced image files older than minAge.
func (s *ImageSweeper) Sweep(ctx context.Context) {
	urls, err := s.store.ImageURLs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Sweeper: failed to list referenced images")
		return
	}
	referenced := make(map[string]bool, len(urls))
	for _, u := range urls {
		referenced[filepath.Base(strings.TrimPrefix(u, "/"))] = true
	}

	files, err := s.images.List()
	if err != nil {
		log.Error().Err(err).Msg("Sweeper: failed to list stored images")
		return
	}

	removed := 0
	for _, name := range files {
		if referenced[name] {
			continue
		}
		info, err := os.Stat(filepath.Join(s.images.Dir(), name))
		if err != nil || time.Since(info.ModTime()) < minAge {
			continue
		}
		s.images.Remove(name)
		removed++
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Sweeper: removed orphaned images")
	}
}
