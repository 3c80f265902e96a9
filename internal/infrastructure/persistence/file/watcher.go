package file

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/turtacn/jalak-hijau/internal/config"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// Watcher invalidates the dataset loaders when files in the data directory
// change, so edits show up on the next request without a restart.
type Watcher struct {
	cfg      *config.DataConfig
	logger   logger.Logger
	watcher  *fsnotify.Watcher
	onChange []func()
}

// NewWatcher creates a Watcher over the configured data directory. onChange
// callbacks run on every relevant filesystem event.
func NewWatcher(cfg *config.DataConfig, log logger.Logger, onChange ...func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(cfg.Dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		cfg:      cfg,
		logger:   log.WithComponent("data-watcher"),
		watcher:  fsw,
		onChange: onChange,
	}, nil
}

// Run processes filesystem events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Info(ctx, "data file changed, invalidating loaders", logger.Fields{
				"file": event.Name,
				"op":   event.Op.String(),
			})
			for _, fn := range w.onChange {
				fn()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, "data watcher error", logger.Fields{"error": err.Error()})
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	switch name {
	case w.cfg.ForestFile, w.cfg.ConcessionFile, w.cfg.TxnFile, w.cfg.CompanyFile:
		return true
	}
	return false
}
