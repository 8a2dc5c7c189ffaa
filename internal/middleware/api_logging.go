package middleware

import (
	"bufio"
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

const RequestIDKey contextKey = "request_id"

// requestLog is one finished request
type requestLog struct {
	RequestID  string
	Method     string
	Path       string
	StatusCode int
	Duration   time.Duration
	Bytes      int
	UserID     int
	IPAddress  string
}

// APILoggingMiddleware tags every request with an id and logs it off the request path
type APILoggingMiddleware struct {
	logChan chan *requestLog
	logf    func(format string, args ...any)
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

// NewAPILoggingMiddleware creates a new API logging middleware
func NewAPILoggingMiddleware() *APILoggingMiddleware {
	m := &APILoggingMiddleware{
		logChan: make(chan *requestLog, 1000), // Buffer for async logging
		logf:    log.Printf,
	}

	// Start async log writer
	go m.asyncLogWriter()

	return m
}

// asyncLogWriter writes logs asynchronously to avoid blocking requests
func (m *APILoggingMiddleware) asyncLogWriter() {
	for entry := range m.logChan {
		m.logf("[HTTP] %s %s %s %d %dB %.1fms user=%d ip=%s",
			entry.RequestID, entry.Method, entry.Path, entry.StatusCode, entry.Bytes,
			float64(entry.Duration.Microseconds())/1000.0, entry.UserID, entry.IPAddress)
	}
}

// Handler returns the middleware handler
func (m *APILoggingMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)
		r = r.WithContext(context.WithValue(r.Context(), RequestIDKey, requestID))

		// Skip logging for health checks and scrapes
		if shouldSkipLogging(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()

		// Wrap response writer to capture status and size
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Authenticate runs deeper in the chain, so the user id is read back through a holder
		holder := &userHolder{}
		next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), userHolderKey, holder)))

		entry := &requestLog{
			RequestID:  requestID,
			Method:     r.Method,
			Path:       sanitizePath(r.URL.Path),
			StatusCode: wrapped.statusCode,
			Duration:   time.Since(start),
			Bytes:      wrapped.bytesWritten,
			UserID:     holder.userID,
			IPAddress:  getClientIP(r),
		}

		// Send to async writer (non-blocking)
		select {
		case m.logChan <- entry:
		default:
			log.Printf("[APILogging] Log buffer full, dropping log entry for %s", r.URL.Path)
		}
	})
}

const userHolderKey contextKey = "user_holder"

type userHolder struct{ userID int }

// noteUser records the authenticated user for the request log
func noteUser(ctx context.Context, userID int) {
	if h, ok := ctx.Value(userHolderKey).(*userHolder); ok {
		h.userID = userID
	}
}

// GetRequestID returns the id assigned to the current request
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// shouldSkipLogging returns true for paths that shouldn't be logged
func shouldSkipLogging(path string) bool {
	skipPaths := []string{
		"/health",
		"/metrics",
		"/favicon.ico",
	}

	for _, skip := range skipPaths {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}

	return false
}

// sanitizePath removes sensitive data from paths
func sanitizePath(path string) string {
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}

	// Truncate very long paths
	if len(path) > 500 {
		path = path[:500]
	}

	return path
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (for proxies/load balancers)
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		// Take the first IP in the list
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	// Check X-Real-IP header
	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fall back to RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
