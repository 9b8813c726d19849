// Package server exposes the generated care feed over local HTTP: the
// suggestion feed as JSON and the card feed as an iCalendar subscription.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/doknotforget/doknotforget/internal/config"
)

// cacheItem stores one rendered feed and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	contentType  string
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// FeedServer serves the JSON suggestion feed and the ICS card feed.
type FeedServer struct {
	// The caches use atomic.Pointer for lock-free reads. Feeds are read
	// frequently by clients but replaced infrequently (once per refresh), so
	// this beats a RWMutex by eliminating contention on the hot path.
	jsonCache atomic.Pointer[cacheItem]
	icsCache  atomic.Pointer[cacheItem]
	Port      string
}

// NewFeedServer creates a new instance of the server.
func NewFeedServer(port string) *FeedServer {
	return &FeedServer{
		Port: port,
	}
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *FeedServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteFeedJSON, s.handleFeed(&s.jsonCache))
	mux.HandleFunc(config.RouteFeedICS, s.handleFeed(&s.icsCache))

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      mux,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// UpdateJSON atomically replaces the served JSON suggestion feed.
func (s *FeedServer) UpdateJSON(data []byte) {
	s.update(&s.jsonCache, data, config.MimeJSON)
}

// UpdateICS atomically replaces the served iCalendar card feed.
func (s *FeedServer) UpdateICS(data []byte) {
	s.update(&s.icsCache, data, config.MimeTextCalendar)
}

func (s *FeedServer) update(cache *atomic.Pointer[cacheItem], data []byte, contentType string) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	lastMod := time.Now().UTC().Format(http.TimeFormat)

	item := &cacheItem{
		data:         data,
		contentType:  contentType,
		etag:         etag,
		lastModified: lastMod,
	}

	// Atomic store: concurrent readers see either the old or the new complete
	// item, never a partial state.
	cache.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// handleFeed serves a cached feed with HTTP caching support.
func (s *FeedServer) handleFeed(cache *atomic.Pointer[cacheItem]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// 1. Method validation
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set(config.HeaderAllow, config.AllowedMethods)
			http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
			return
		}

		// 2. Load data (atomic / lock-free)
		item := cache.Load()

		// 3. Readiness check
		if item == nil {
			w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
			http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
			return
		}

		// 4. Response headers
		w.Header().Set(config.HeaderContentType, item.contentType)
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
		w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
		w.Header().Set(config.HeaderETag, item.etag)
		w.Header().Set(config.HeaderLastModified, item.lastModified)

		// 5. Conditional headers
		if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
			if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
				if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
					if !serverTime.After(clientTime) {
						w.WriteHeader(http.StatusNotModified)
						return
					}
				}
			}
		}

		// 6. Serve content
		if r.Method == http.MethodGet {
			if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
				slog.Error(config.ErrWriteResp,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyError, err,
				)
			}
		}
	}
}
