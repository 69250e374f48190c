package indexcache

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sgi-dev/sgi/internal/logx"
)

// Watch is the optional live-watch mode: rather than relying solely on the
// next Ensure() call to notice a change, it feeds fsnotify events into the
// same debounced Ensure() path, so a saved file is reflected within
// debounce of the write instead of on the next poll. Grounded on the
// teacher's FileWatcher, trimmed to the one thing this engine needs: "call
// Ensure() soon after something under root changes."
func (c *Cache) Watch(ctx context.Context, debounce time.Duration, onChange func(Result)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(c.root); err != nil {
		return err
	}

	var timer *time.Timer
	fire := func() {
		res, err := c.Ensure()
		if err != nil {
			logx.Errorf("watch ensure: %v", err)
			return
		}
		if res.Changed > 0 || res.Deleted > 0 {
			onChange(res)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, fire)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logx.Errorf("watch: %v", err)
		}
	}
}
