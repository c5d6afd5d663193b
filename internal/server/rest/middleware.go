package rest

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/yeslist/internal/common"
	"github.com/dmitrijs2005/yeslist/internal/server/auth"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type"
	corsMaxAge       = 10 * time.Minute

	requestIDHeader = "X-Request-ID"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// authenticate validates the bearer token and stores the identity in the
// request context. The client only ever learns that it is unauthorized;
// the reason is logged.
func (a *API) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get(common.AuthorizationHeaderName))
		if !ok {
			a.logger.Warn(r.Context(), "missing bearer token", "method", r.Method, "path", r.URL.Path)
			a.writeError(w, r, common.ErrorUnauthorized)
			return
		}

		id, err := a.tokens.Validate(token, a.now())
		if err != nil {
			a.logger.Warn(r.Context(), "bearer token rejected",
				"reason", err.Error(), "method", r.Method, "path", r.URL.Path)
			a.writeError(w, r, common.ErrorUnauthorized)
			return
		}

		next(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	}
}

func (a *API) originAllowed(origin string) bool {
	return slices.Contains(a.allowedOrigins, "*") || slices.Contains(a.allowedOrigins, origin)
}

// cors answers preflight requests and adds CORS headers for allowed origins.
func (a *API) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Add("Vary", "Origin")
		allowed := a.originAllowed(origin)
		if allowed {
			h.Set("Access-Control-Allow-Origin", origin)
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if allowed {
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Max-Age", strconv.Itoa(int(corsMaxAge.Seconds())))
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *API) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := wrapResponseWriter(w)

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			if id, err := common.MakeRandHexString(8); err == nil {
				requestID = id
			}
		}
		rw.Header().Set(requestIDHeader, requestID)

		next.ServeHTTP(rw, r)

		a.logger.Info(r.Context(), "request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", time.Since(start).String(),
		)
	})
}
