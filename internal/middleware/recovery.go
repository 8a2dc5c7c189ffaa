package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"rental-backend/pkg/utils"
)

// PanicRecovery turns a panicking handler into a 500 envelope. It sits
// outside the logging middleware, so the request id is read from the header
// the logger echoed back.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC RECOVERED [%s] %s %s: %v\n%s",
					w.Header().Get(RequestIDHeader), r.Method, r.URL.Path, err, debug.Stack())
				utils.Fail(w, http.StatusInternalServerError, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
