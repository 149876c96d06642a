package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/romdo/go-dom"
	"github.com/romdo/go-dom/debounce"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <file> <selector>",
	Short: "Print the text of matching elements every time it changes",
	Long: `Print the text content of the elements matching the selector, then watch the
file and print it again whenever a change to the file alters it. Bursts of
file events are debounced.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 100*time.Millisecond,
		"Quiet period after the last file event before reloading")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if args[0] == "-" {
		return errors.New("watch needs a file, not stdin")
	}

	target, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	selector := args[1]

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file on save, so its directory is watched.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	var (
		mu      sync.Mutex
		last    uint64
		seen    bool
		stopped bool
	)
	load := func() error {
		mu.Lock()
		defer mu.Unlock()

		if stopped {
			return nil
		}

		lines, err := collect(cmd, target, selector, func(el *dom.Element) (string, bool) {
			return dom.GetText(el), true
		})
		if err != nil {
			return err
		}

		text := strings.Join(lines, "\n")
		sum := xxhash.Sum64String(text)
		if seen && sum == last {
			logger.Debug("Unchanged", zap.String("path", target))

			return nil
		}
		last, seen = sum, true

		fmt.Fprintln(cmd.OutOrStdout(), text)

		return nil
	}

	if err := load(); err != nil {
		return err
	}

	trigger, cancel := debounce.New(watchDebounce, func() {
		if err := load(); err != nil {
			logger.Warn("Reload failed", zap.String("path", target), zap.Error(err))
		}
	})

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					logger.Debug("File changed",
						zap.String("path", event.Name),
						zap.String("op", event.Op.String()),
					)
					trigger()
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}

				return fmt.Errorf("watch %s: %w", target, err)
			}
		}
	})

	err = g.Wait()

	cancel()
	mu.Lock()
	stopped = true
	mu.Unlock()

	return err
}
