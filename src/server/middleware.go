package server

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mckeenicholas/wca-odds-next/src/logging"
)

// statusRecorder captures the response status for the timing log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withTiming(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.Infof("[%s] %s -> %d executed in %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.cfg.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// clientLimiters hands out one token bucket per client key.
type clientLimiters struct {
	mu      sync.Mutex
	byKey   map[string]*rate.Limiter
	perSec  rate.Limit
	burst   int
	maxKeys int
}

func newClientLimiters(perSec float64, burst int) *clientLimiters {
	return &clientLimiters{
		byKey:   make(map[string]*rate.Limiter),
		perSec:  rate.Limit(perSec),
		burst:   burst,
		maxKeys: 10_000,
	}
}

func (c *clientLimiters) allow(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	lim, ok := c.byKey[key]
	if !ok {
		// Bound the map so a scanning client cannot grow it without limit.
		if len(c.byKey) >= c.maxKeys {
			c.byKey = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(c.perSec, c.burst)
		c.byKey[key] = lim
	}
	return lim.Allow()
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiters.allow(clientKey(r)) {
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the requesting client. Cloudflare's header wins,
// then the first X-Forwarded-For hop, then the peer address.
func clientKey(r *http.Request) string {
	if v := r.Header.Get("Cf-Connecting-Ip"); v != "" {
		return strings.TrimSpace(v)
	}
	if v := r.Header.Get("X-Forwarded-For"); v != "" {
		first := strings.SplitN(v, ",", 2)[0]
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// cachedResponse is one stored response body.
type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

// bufferingWriter accumulates a response so it can be cached after serving.
type bufferingWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (b *bufferingWriter) WriteHeader(code int) {
	b.status = code
	b.ResponseWriter.WriteHeader(code)
}

func (b *bufferingWriter) Write(p []byte) (int, error) {
	b.buf.Write(p)
	return b.ResponseWriter.Write(p)
}

// withCache serves identical POST bodies from a TTL cache. Simulation runs
// are expensive and the underlying results data only changes when oddsync
// reloads the export, so an hour of reuse is safe.
func (s *Server) withCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Unreadable request body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		key := cacheKey(r.URL.Path, body)
		if hit, ok := s.cache.Get(key); ok {
			resp := hit.(cachedResponse)
			w.Header().Set("Content-Type", resp.contentType)
			w.WriteHeader(resp.status)
			w.Write(resp.body)
			return
		}

		bw := &bufferingWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(bw, r)
		if bw.status == http.StatusOK {
			s.cache.SetDefault(key, cachedResponse{
				status:      bw.status,
				contentType: bw.Header().Get("Content-Type"),
				body:        bw.buf.Bytes(),
			})
		}
	})
}

func cacheKey(path string, body []byte) string {
	sum := sha256.Sum256(body)
	return path + ":" + hex.EncodeToString(sum[:])
}
