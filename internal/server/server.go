// Package server publishes the residency calendar and a plain-text progress
// summary on a local HTTP listener, with ETag and Last-Modified caching.
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

	"github.com/tartampluch/go-ilr/internal/config"
)

// Feed identifies one of the documents served.
type Feed int

const (
	FeedCalendar Feed = iota
	FeedSummary
	feedCount
)

func (f Feed) String() string {
	switch f {
	case FeedCalendar:
		return "calendar"
	case FeedSummary:
		return "summary"
	default:
		return fmt.Sprintf("feed(%d)", int(f))
	}
}

func (f Feed) contentType() string {
	if f == FeedSummary {
		return config.MimeTextPlain
	}
	return config.MimeTextCalendar
}

// snapshot is one published version of a feed.
type snapshot struct {
	body         []byte
	etag         string
	lastModified string // http.TimeFormat
}

// FeedServer serves the latest published snapshot of every feed.
type FeedServer struct {
	// Feeds are swapped whole on refresh; readers never take a lock.
	feeds [feedCount]atomic.Pointer[snapshot]
	Port  string
}

// New creates a server bound to the loopback interface on port.
func New(port string) *FeedServer {
	return &FeedServer{Port: port}
}

// Handler routes "/" and "/calendar.ics" to the calendar and "/summary" to
// the text summary.
func (s *FeedServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.serve(FeedCalendar))
	mux.HandleFunc(config.RouteCalendar, s.serve(FeedCalendar))
	mux.HandleFunc(config.RouteSummary, s.serve(FeedSummary))
	return mux
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *FeedServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Publish replaces the content of feed. modified becomes the Last-Modified
// header; pass the time the content was computed.
func (s *FeedServer) Publish(feed Feed, body []byte, modified time.Time) {
	if feed < 0 || feed >= feedCount {
		return
	}

	hash := sha256.Sum256(body)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	s.feeds[feed].Store(&snapshot{
		body:         body,
		etag:         etag,
		lastModified: modified.UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyFeed, feed.String(),
		config.LogKeySizeBytes, len(body),
		config.LogKeyETag, etag,
	)
}

// Ready reports whether every feed has been published at least once.
func (s *FeedServer) Ready() bool {
	for i := range s.feeds {
		if s.feeds[i].Load() == nil {
			return false
		}
	}
	return true
}

func (s *FeedServer) serve(feed Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set(config.HeaderAllow, config.AllowedMethods)
			http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
			return
		}

		item := s.feeds[feed].Load()
		if item == nil {
			w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
			http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
			return
		}

		w.Header().Set(config.HeaderContentType, feed.contentType())
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
		w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
		w.Header().Set(config.HeaderETag, item.etag)
		w.Header().Set(config.HeaderLastModified, item.lastModified)

		if notModified(r, item) {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if r.Method == http.MethodGet {
			if _, err := io.Copy(w, bytes.NewReader(item.body)); err != nil {
				slog.Error(config.ErrWriteResp,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyFeed, feed.String(),
					config.LogKeyError, err,
				)
			}
		}
	}
}

// notModified evaluates If-None-Match first, then If-Modified-Since.
func notModified(r *http.Request, item *snapshot) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == item.etag
	}

	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	clientTime, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	serverTime, err := time.Parse(http.TimeFormat, item.lastModified)
	if err != nil {
		return false
	}
	return !serverTime.After(clientTime)
}
