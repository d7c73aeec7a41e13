package prompt

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// Watch reloads the store whenever a template in the override directory
// changes. It blocks until ctx is cancelled. Without an override directory,
// or when it does not exist, it returns immediately.
func (s *Store) Watch(ctx context.Context) error {
	if s.dir == "" {
		return nil
	}
	if _, err := os.Stat(s.dir); errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("prompt watcher: directory does not exist, not watching", slog.String("dir", s.dir))
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(s.dir); err != nil {
		return err
	}

	s.logger.Info("prompt watcher: started", slog.String("dir", s.dir))

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			s.logger.Info("prompt watcher: stopped")
			return nil

		case <-fire:
			fire = nil
			if err := s.Reload(); err != nil {
				s.logger.Error("prompt watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			s.logger.Info("prompt watcher: templates reloaded")

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(ev.Name) != templateExt {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("prompt watcher: error", slog.String("error", err.Error()))
		}
	}
}
