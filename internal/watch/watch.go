// Package watch re-runs a snippet search whenever the snippet folder
// changes.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"snibbets/internal/logging"
	"snibbets/internal/search"
)

// RenderFunc runs one search and prints its result.
type RenderFunc func(ctx context.Context) error

// Config holds watch configuration
type Config struct {
	Debounce time.Duration
	Query    string
	Header   bool // print a styled header before each render
}

// DefaultConfig returns the default watch configuration
func DefaultConfig() Config {
	return Config{
		Debounce: 300 * time.Millisecond,
		Header:   true,
	}
}

// Watcher renders once, then again after each settled burst of changes.
type Watcher struct {
	folder  string
	render  RenderFunc
	cfg     Config
	out     io.Writer
	watcher *fsnotify.Watcher
	filter  *search.Filter
	pending chan struct{}
	timer   *time.Timer
	logger  *slog.Logger
	now     func() time.Time
}

// New watches folder, calling render on changes. Headers go to out.
func New(folder string, render RenderFunc, cfg Config, out io.Writer, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultConfig().Debounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(folder); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", folder, err)
	}

	return &Watcher{
		folder:  folder,
		render:  render,
		cfg:     cfg,
		out:     out,
		watcher: watcher,
		filter:  search.NewFilter(folder),
		pending: make(chan struct{}, 1),
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Run renders immediately and then on every change until ctx is done or
// the process receives SIGINT or SIGTERM. Renders never overlap.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	w.logger.Info("watching snippet folder", "folder", w.folder, "debounce", w.cfg.Debounce)
	w.renderOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped")
			if w.timer != nil {
				w.timer.Stop()
			}
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		case <-w.pending:
			w.renderOnce(ctx)
		}
	}
}

// handleEvent schedules a render once changes have been quiet for the
// debounce interval.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.relevant(event) {
		return
	}
	w.logger.Debug("snippet folder changed", "path", event.Name, "op", event.Op.String())

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.cfg.Debounce, func() {
		select {
		case w.pending <- struct{}{}:
		default:
			// a render is already queued
		}
	})
}

// relevant reports whether event touches a file that could be a search
// result. Hidden and ignored names are skipped.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return w.filter.Keep(event.Name)
}

func (w *Watcher) renderOnce(ctx context.Context) {
	if w.cfg.Header {
		fmt.Fprintln(w.out, Header(w.cfg.Query, w.folder, w.now()))
	}
	if err := w.render(ctx); err != nil {
		w.logger.Error("search failed", "error", err)
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Header is the line printed above each render.
func Header(query, folder string, at time.Time) string {
	return headerStyle.Render("snibbets: "+query) + " " +
		dimStyle.Render(fmt.Sprintf("in %s at %s", folder, at.Format(time.TimeOnly)))
}
