package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"podshelf/internal/config"
	"podshelf/internal/feed"
	"podshelf/internal/server"
	"podshelf/internal/watch"
	"podshelf/internal/web"
)

// folderIndexHolder swaps in a freshly built FolderIndex when the watcher
// reports filesystem changes. The folder list memoization lives inside each
// index instance, so replacing the instance is the re-scan.
type folderIndexHolder struct {
	build func() *feed.FolderIndex

	mu    sync.RWMutex
	index *feed.FolderIndex
}

func (h *folderIndexHolder) Index() *feed.FolderIndex {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.index
}

func (h *folderIndexHolder) rebuild() {
	fresh := h.build()
	h.mu.Lock()
	h.index = fresh
	h.mu.Unlock()
}

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve DIRECTORY",
		Short: "Serve the RSS feed, web pages and audio files over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			out := cmd.OutOrStdout()

			root, err := resolveRoot(args[0])
			if err != nil {
				return err
			}
			meta, err := opts.resolveFeedMetadata()
			if err != nil {
				return err
			}
			renderer, err := web.NewRenderer()
			if err != nil {
				return err
			}

			rootURL := opts.rootURL()
			srvCfg := server.Config{Root: root, Renderer: renderer}

			fmt.Fprintln(out, "Welcome to the podshelf web server!")
			fmt.Fprintf(out, "\nListening on http://%s:%s\n", opts.host, opts.port)
			if opts.publicURL != "" {
				fmt.Fprintf(out, "Using public URL: %s\n", opts.publicURL)
			}

			if opts.folderFeeds {
				holder := &folderIndexHolder{
					build: func() *feed.FolderIndex {
						return feed.NewFolderIndex(opts.folderIndexConfig(root, meta), logger)
					},
				}
				holder.rebuild()
				srvCfg.Index = holder

				watcher, err := watch.New(root, config.RefreshDebounce(), holder.rebuild, logger)
				if err != nil {
					return err
				}
				defer func() {
					if err := watcher.Close(); err != nil {
						logger.Printf("error closing watcher: %v", err)
					}
				}()

				folders := holder.Index().Folders()
				fmt.Fprintf(out, "\nFound %d folder(s) with audio files:\n", len(folders))
				for _, folder := range folders {
					escaped := url.PathEscape(folder)
					fmt.Fprintf(out, "  - %s\n", folder)
					fmt.Fprintf(out, "    RSS: %s/feed/%s\n", rootURL, escaped)
					fmt.Fprintf(out, "    Web: %s/web/%s\n", rootURL, escaped)
				}
				fmt.Fprintf(out, "\nIndex page available at: %s/web\n\n", rootURL)
			} else {
				srvCfg.Channel = feed.NewChannel(opts.channelConfig(root, meta), logger)

				fmt.Fprintln(out, "\nYour podcast feed is available at:")
				fmt.Fprintf(out, "\n\t%s\n", rootURL)
				fmt.Fprintln(out, "\nThe web interface is available at:")
				fmt.Fprintf(out, "\n\t%s/web\n\n", rootURL)
			}

			handler := server.New(srvCfg, logger)
			httpServer := &http.Server{
				Addr:              net.JoinHostPort(opts.host, opts.port),
				Handler:           handler,
				ReadHeaderTimeout: 5 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       120 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Printf("graceful shutdown error: %v", err)
				}
			}()

			logger.Printf("listening on %s (scan root: %s)", httpServer.Addr, root)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Println("shutdown complete")
			return nil
		},
	}
}
