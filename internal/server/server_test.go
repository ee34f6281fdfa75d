package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benvon/content-api/api/openapi"
	"github.com/benvon/content-api/internal/config"
	"github.com/benvon/content-api/internal/content"
	"github.com/benvon/content-api/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:            0,
		Environment:     "test",
		LogLevel:        "debug",
		CORSOrigin:      "*",
		RateLimit:       "100-M",
		MaxBodyBytes:    1 << 20,
		ShutdownTimeout: time.Second,
	}
}

func do(h http.Handler, method, target, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Endpoints(t *testing.T) {
	t.Parallel()

	s := New(testConfig(), zap.NewNop(), ratelimit.New(time.Minute, 1000))

	tests := []struct {
		path    string
		wantKey string
	}{
		{path: "/", wantKey: "message"},
		{path: "/jokes", wantKey: "jokes"},
		{path: "/jokes?limit=2", wantKey: "returned"},
		{path: "/quotes", wantKey: "quotes"},
		{path: "/facts", wantKey: "facts"},
		{path: "/health", wantKey: "uptime"},
		{path: "/api-docs", wantKey: "paths"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			w := do(s.Handler(), "GET", tt.path, "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
			assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Contains(t, body, tt.wantKey)
		})
	}
}

func TestServer_JokesLimit(t *testing.T) {
	t.Parallel()

	s := New(testConfig(), zap.NewNop(), ratelimit.New(time.Minute, 1000),
		WithProvider(content.NewProviderWith([]string{"a", "b", "c"}, []string{"q"}, []string{"f"})))

	w := do(s.Handler(), "GET", "/jokes?limit=2", "")
	var body struct {
		Jokes    []string `json:"jokes"`
		Total    int      `json:"total"`
		Returned int      `json:"returned"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"a", "b"}, body.Jokes)
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 2, body.Returned)
}

func TestServer_OptionsShortCircuits(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	limiter := ratelimit.New(time.Minute, 1)
	s := New(testConfig(), zap.New(core), limiter)

	for i := 0; i < 3; i++ {
		w := do(s.Handler(), "OPTIONS", "/jokes", "203.0.113.7:4000")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Empty(t, w.Header().Get("X-RateLimit-Remaining"))
	}

	_, tracked := limiter.Peek("203.0.113.7", time.Now())
	assert.False(t, tracked, "preflights are never counted")
	assert.Zero(t, logs.Len())

	w := do(s.Handler(), "GET", "/", "203.0.113.7:4000")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_RateLimitExceeded(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	limiter := ratelimit.New(time.Minute, ratelimit.DefaultMaxRequests)
	s := New(testConfig(), zap.New(core), limiter)

	for i := 0; i < ratelimit.DefaultMaxRequests; i++ {
		w := do(s.Handler(), "GET", "/quotes", "198.51.100.20:1000")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := do(s.Handler(), "GET", "/quotes", "198.51.100.20:1000")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "error")
	retry, ok := body["retryAfter"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, retry, 1.0)
	assert.LessOrEqual(t, retry, 60.0)

	assert.Equal(t, ratelimit.DefaultMaxRequests, logs.FilterMessage("http_request").Len(), "rejected request must not reach logging")
	assert.Equal(t, 1, logs.FilterMessage("rate_limit_violation").Len())

	other := do(s.Handler(), "GET", "/quotes", "198.51.100.21:1000")
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestServer_ConcurrentClientNeverExceedsLimit(t *testing.T) {
	t.Parallel()

	const limit = 20
	s := New(testConfig(), zap.NewNop(), ratelimit.New(time.Minute, limit))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := do(s.Handler(), "GET", "/facts", "192.0.2.50:9999")
			if w.Code == http.StatusOK {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, limit, admitted)
}

func TestServer_NotFound(t *testing.T) {
	t.Parallel()

	s := New(testConfig(), zap.NewNop(), ratelimit.New(time.Minute, 1000))

	tests := []struct {
		method string
		path   string
	}{
		{method: "GET", path: "/nonexistent"},
		{method: "GET", path: "/jokes/1"},
		{method: "POST", path: "/jokes"},
		{method: "DELETE", path: "/"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			w := do(s.Handler(), tt.method, tt.path, "")
			require.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Not Found", body["error"])
			assert.Equal(t, tt.path, body["path"])
		})
	}
}

func TestServer_PanicBecomesGeneric500(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	s := New(testConfig(), zap.New(core), ratelimit.New(time.Minute, 1000))
	s.Router().HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("token=hunter2")
	}).Methods("GET")

	w := do(s.Handler(), "GET", "/boom", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter2")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body["error"])
	assert.Equal(t, 1, logs.FilterMessage("panic_recovered").Len())

	after := do(s.Handler(), "GET", "/", "")
	assert.Equal(t, http.StatusOK, after.Code)
}

func TestServer_MalformedBodyIsNotAnError(t *testing.T) {
	t.Parallel()

	s := New(testConfig(), zap.NewNop(), ratelimit.New(time.Minute, 1000))

	req := httptest.NewRequest("GET", "/quotes", strings.NewReader(`{"broken":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_RoutesDocumented(t *testing.T) {
	t.Parallel()

	s := New(testConfig(), zap.NewNop(), ratelimit.New(time.Minute, 1000))
	routes, err := s.Routes()
	require.NoError(t, err)
	require.NotEmpty(t, routes)

	documented, err := openapi.Paths()
	require.NoError(t, err)

	for _, r := range routes {
		assert.Contains(t, documented, r.Path, "route %s %s missing from API document", r.Method, r.Path)
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	t.Parallel()

	s := New(testConfig(), zap.NewNop(), ratelimit.New(time.Minute, 1000))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	require.NoError(t, <-done)
}
