package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-ilr/internal/config"
)

var published = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func get(t *testing.T, h http.Handler, method, path string, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	resp := w.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHandler_Routes(t *testing.T) {
	srv := New("0")
	ics := []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n")
	summary := []byte("In UK: 1,234 / 1,827 days (67.5%)\n")
	srv.Publish(FeedCalendar, ics, published)
	srv.Publish(FeedSummary, summary, published)

	tests := []struct {
		path        string
		contentType string
		body        []byte
	}{
		{"/", config.MimeTextCalendar, ics},
		{config.RouteCalendar, config.MimeTextCalendar, ics},
		{config.RouteSummary, config.MimeTextPlain, summary},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := get(t, srv.Handler(), http.MethodGet, tt.path, nil)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.contentType, resp.Header.Get(config.HeaderContentType))
			assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
			assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
			assert.Equal(t, "Sat, 01 Mar 2025 09:30:00 GMT", resp.Header.Get(config.HeaderLastModified))
			assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.body, body)
		})
	}

	resp := get(t, srv.Handler(), http.MethodGet, "/unknown", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_HeadHasNoBody(t *testing.T) {
	srv := New("0")
	srv.Publish(FeedCalendar, []byte("BEGIN:VCALENDAR"), published)

	resp := get(t, srv.Handler(), http.MethodHead, config.RouteCalendar, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)
}

func TestHandler_ConditionalRequests(t *testing.T) {
	srv := New("0")
	srv.Publish(FeedSummary, []byte("v1"), published)

	first := get(t, srv.Handler(), http.MethodGet, config.RouteSummary, nil)
	etag := first.Header.Get(config.HeaderETag)
	require.NotEmpty(t, etag)

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"Matching ETag", map[string]string{config.HeaderIfNoneMatch: etag}, http.StatusNotModified},
		{"Stale ETag", map[string]string{config.HeaderIfNoneMatch: `"old"`}, http.StatusOK},
		{"ETag wins over date", map[string]string{
			config.HeaderIfNoneMatch:     `"old"`,
			config.HeaderIfModifiedSince: published.Add(time.Hour).Format(http.TimeFormat),
		}, http.StatusOK},
		{"Same date", map[string]string{config.HeaderIfModifiedSince: published.Format(http.TimeFormat)}, http.StatusNotModified},
		{"Older client copy", map[string]string{config.HeaderIfModifiedSince: published.Add(-time.Hour).Format(http.TimeFormat)}, http.StatusOK},
		{"Unparseable date", map[string]string{config.HeaderIfModifiedSince: "yesterday"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, srv.Handler(), http.MethodGet, config.RouteSummary, tt.headers)
			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.want == http.StatusNotModified {
				body, _ := io.ReadAll(resp.Body)
				assert.Empty(t, body, "304 carries no body")
			}
		})
	}

	// A republish with new content changes the ETag.
	srv.Publish(FeedSummary, []byte("v2"), published.Add(time.Hour))
	resp := get(t, srv.Handler(), http.MethodGet, config.RouteSummary, map[string]string{config.HeaderIfNoneMatch: etag})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := New("0")
	srv.Publish(FeedCalendar, []byte("x"), published)

	resp := get(t, srv.Handler(), http.MethodPost, config.RouteCalendar, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, config.AllowedMethods, resp.Header.Get(config.HeaderAllow))
}

func TestHandler_NotReady(t *testing.T) {
	srv := New("0")
	srv.Publish(FeedCalendar, []byte("x"), published)
	assert.False(t, srv.Ready(), "summary not yet published")

	resp := get(t, srv.Handler(), http.MethodGet, config.RouteSummary, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))

	srv.Publish(FeedSummary, []byte("y"), published)
	assert.True(t, srv.Ready())
}

func TestPublish_IgnoresUnknownFeed(t *testing.T) {
	srv := New("0")
	assert.NotPanics(t, func() { srv.Publish(Feed(7), []byte("x"), published) })
	assert.Equal(t, "feed(7)", Feed(7).String())
}

// TestServer_ConcurrentPublish exercises the atomic swaps under -race.
func TestServer_ConcurrentPublish(t *testing.T) {
	srv := New("0")
	h := srv.Handler()
	var wg sync.WaitGroup
	end := time.Now().Add(300 * time.Millisecond)

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; time.Now().Before(end); i++ {
				srv.Publish(Feed(i%int(feedCount)), []byte(fmt.Sprintf("rev-%d-%d", id, i)), time.Now())
				time.Sleep(time.Microsecond)
			}
		}(w)
	}

	for r := 0; r < 16; r++ {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			for time.Now().Before(end) {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
				if w.Code != http.StatusOK && w.Code != http.StatusServiceUnavailable {
					t.Errorf("unexpected status %d on %s", w.Code, path)
				}
			}
		}([]string{config.RouteCalendar, config.RouteSummary}[r%2])
	}

	wg.Wait()
}

func TestServer_Lifecycle(t *testing.T) {
	const port = "18199"

	srv := New(port)
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() { errChan <- srv.Start(ctx) }()

	url := "http://127.0.0.1:" + port + config.RouteCalendar

	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "server did not start listening")

	resp, err := http.Get(url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	srv.Publish(FeedCalendar, []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"), published)

	resp, err = http.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")

	cancel()
	select {
	case err := <-errChan:
		assert.NoError(t, err, "graceful shutdown returns nil")
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown timed out")
	}
}

func TestServer_StartRequiresPort(t *testing.T) {
	err := New("").Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrPortRequired)
}
