package corpus

import (
	"github.com/fsnotify/fsnotify"

	"github.com/dupscan-labs/dupscan-cli/internal/core/services"
	"github.com/dupscan-labs/dupscan-cli/internal/logger"
)

// Watcher marks the session dirty whenever files are created or written
// in the managed storage directory, so content dropped in out-of-band
// becomes eligible for the next analysis run.
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher starts watching dir and flags sess on changes.
func NewWatcher(dir string, sess *services.Session) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{watcher: fw, done: make(chan struct{})}
	go w.run(sess)
	return w, nil
}

func (w *Watcher) run(sess *services.Session) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				logger.Debug("storage change detected: %s", event.Name)
				sess.MarkDirty()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("storage watcher: %v", err)
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
