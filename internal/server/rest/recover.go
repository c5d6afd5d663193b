package rest

import (
	"net/http"
	"runtime/debug"
)

// responseWriter records whether the response has been started so that the
// safety net never writes a second one.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// recoverer is the last line of defence for a request: a panic anywhere
// below it is logged and answered with a generic 500.
func (a *API) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := wrapResponseWriter(w)

		defer func() {
			if p := recover(); p != nil {
				a.logger.Error(r.Context(), "panic while handling request",
					"panic", p,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				writeInternalError(rw)
			}
		}()

		next.ServeHTTP(rw, r)
	})
}

// internalError logs err in full and sends the client nothing but a
// generic message.
func (a *API) internalError(w http.ResponseWriter, r *http.Request, err error) {
	a.logger.Error(r.Context(), "request failed",
		"error", err.Error(),
		"method", r.Method,
		"path", r.URL.Path,
	)
	writeInternalError(w)
}

func writeInternalError(w http.ResponseWriter) {
	if rw, ok := w.(*responseWriter); ok && rw.wroteHeader {
		return
	}
	writeJSON(w, http.StatusInternalServerError, messageResponse{Message: internalErrorMessage})
}
