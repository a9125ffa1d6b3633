package cli

import (
	"context"
	stdErrors "errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"github.com/robinvdvleuten/cryptofifo/logger"
)

type WatchCmd struct {
	File  string `help:"Trade export to watch, .csv or .xlsx." arg:"" type:"existingfile"`
	Coins bool   `help:"Include the per-coin price summary."`
}

// debounceDelay absorbs editors and exports that write files in several steps.
const debounceDelay = 100 * time.Millisecond

func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	path, err := filepath.Abs(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logger.WithLogger(runCtx, logger.New(ctx.Stderr, globals.LogLevel))

	render := func() {
		s, err := globals.start(runCtx, ctx.Stderr, fmt.Sprintf("report %s", filepath.Base(path)))
		if err != nil {
			printError(ctx.Stderr, err.Error())
			return
		}
		defer s.reportTelemetry()

		file := &FileOrStdin{Filename: path}
		p, err := globals.run(s.ctx, file)
		if runCtx.Err() != nil {
			return
		}
		if err != nil {
			printError(ctx.Stderr, renderLoadError(ctx.Stderr, err, p.source))
			return
		}
		printReport(ctx.Stdout, ctx.Stderr, p.report, globals.quotes(), cmd.Coins)
	}

	render()
	printInfof(ctx.Stderr, "Watching %s (press Ctrl+C to stop)", pathStyle.Render(path))

	err = watchFile(runCtx, path, func() {
		_, _ = fmt.Fprintln(ctx.Stdout)
		printInfof(ctx.Stderr, "%s changed, reloading", pathStyle.Render(filepath.Base(path)))
		render()
	})
	if stdErrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchFile calls onChange after path settles following a write, create, remove or rename.
// It blocks until ctx is done. The parent directory is watched so atomic saves that replace
// the file keep being noticed.
func watchFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	log := logger.FromContext(ctx)
	changed := make(chan struct{}, 1)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-changed:
			onChange()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("file watcher error", "error", err)
		}
	}
}
