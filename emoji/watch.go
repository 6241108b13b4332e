package emoji

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	. "parrot/common"
)

var watchLog = NewLogger("watcher")

// Asset sets are swapped as whole batches of files, a rebuild per
// event would thrash.
const rebuildDelay = 2 * time.Second

// StartWatcher rebuilds the index whenever the asset directory
// changes. A watcher that cannot start only costs hot reload, the bot
// keeps running with the catalog it has.
func StartWatcher(ctx context.Context, ix *Index) *sync.WaitGroup {
	var watchWait sync.WaitGroup

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		err = watcher.Add(ix.Dir())
	}
	if err != nil {
		watchLog.WithError(err).Error("Asset watching unavailable")
		return &watchWait
	}

	watchLog.Println("Starting")
	watchWait.Add(1)

	go func() {
		defer watchWait.Done()
		defer watcher.Close()

		var rebuild <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				watchLog.Println("Finished")
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename) {
					rebuild = time.After(rebuildDelay)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				watchLog.WithError(err).Warn("Watch error")

			case <-rebuild:
				rebuild = nil

				catalog, err := ix.Rebuild()
				if err != nil {
					watchLog.WithError(err).Error("Rebuild failed, keeping previous catalog")
					continue
				}
				watchLog.Printf("Catalog rebuilt with %d entries", catalog.Len())
			}
		}
	}()

	return &watchWait
}
