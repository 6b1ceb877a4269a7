package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"
)

// ParseOrigins splits a comma separated ALLOWED_ORIGINS value.
func ParseOrigins(appOrigins string) []string {
	var origins []string
	for _, o := range strings.Split(appOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// CORSMiddleware adds the required headers to allow cross-origin requests
func CORSMiddleware(appOrigins string) gin.HandlerFunc {
	origins := ParseOrigins(appOrigins)

	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowWildcard = true
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowWebSockets = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, []string{
		"Accept",
		"Authorization",
		"Accept-Encoding",
		"X-Requested-With",
	}...)

	return cors.New(corsConfig)
}

// OriginChecker returns the websocket upgrader's origin policy for the same origins.
// Requests without an Origin header are not from a browser and are accepted.
func OriginChecker(appOrigins string) func(r *http.Request) bool {
	origins := ParseOrigins(appOrigins)
	allowAll := len(origins) == 0 || slices.Contains(origins, "*")
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if allowAll || origin == "" {
			return true
		}
		for _, allowed := range origins {
			if allowed == origin {
				return true
			}
			if prefix, suffix, ok := strings.Cut(allowed, "*"); ok &&
				strings.HasPrefix(origin, prefix) && strings.HasSuffix(origin, suffix) {
				return true
			}
		}
		return false
	}
}
