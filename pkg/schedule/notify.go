package schedule

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/walteh/filexor/pkg/discovery"
	"gitlab.com/tozd/go/errors"
)

// 👀 FSNotifier wakes the scheduler when a file matching the mask is created
// or written in the input directory.
type FSNotifier struct {
	dir     string
	mask    string
	watcher *fsnotify.Watcher
}

var _ Notifier = (*FSNotifier)(nil)

// 🏭 NewFSNotifier starts watching dir. Events are delivered once Run is called.
func NewFSNotifier(dir, mask string) (*FSNotifier, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, errors.Errorf("watching %s: %w", dir, err)
	}
	return &FSNotifier{
		dir:     dir,
		mask:    mask,
		watcher: watcher,
	}, nil
}

// Run forwards matching events as coalesced wake signals until ctx is done.
// The watcher is closed when Run returns.
func (n *FSNotifier) Run(ctx context.Context, wake chan<- struct{}) error {
	defer n.watcher.Close()
	logger := zerolog.Ctx(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-n.watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Base(ev.Name)
			if discovery.Hidden(name) || !discovery.Match(n.mask, name) {
				continue
			}
			logger.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("waking scheduler")
			select {
			case wake <- struct{}{}:
			default:
			}
		case err, ok := <-n.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Str("dir", n.dir).Msg("watch error")
		}
	}
}

// Close releases the watcher when Run is never called
func (n *FSNotifier) Close() error {
	return n.watcher.Close()
}
