package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	apperrors "github.com/louisbranch/voidsheet/internal/platform/errors"
	"github.com/louisbranch/voidsheet/internal/platform/timeouts"
)

// DefaultDebounce settles rapid saves into one derive.
const DefaultDebounce = timeouts.WatchDebounce

// Watch derives path once, then again every time it changes, until ctx is
// done. Editors often replace files rather than write them, so the parent
// directory is watched and events are filtered by name. onResult receives
// every outcome, including load errors; a bad save never stops the watch.
func (s *Service) Watch(ctx context.Context, path string, debounce time.Duration, onResult func(Result, error)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDocumentReadFail, "resolve watch path", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDocumentReadFail, "create watcher", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return apperrors.Wrap(apperrors.CodeDocumentReadFail, "watch directory", err)
	}

	onResult(s.DeriveFile(ctx, abs))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			s.logger.Debug("sheet document changed", zap.String("path", abs), zap.String("op", event.Op.String()))
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("sheet watcher error", zap.Error(err))
		case <-timer.C:
			onResult(s.DeriveFile(ctx, abs))
		}
	}
}
