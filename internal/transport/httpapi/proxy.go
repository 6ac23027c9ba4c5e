package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/fraudguard/console/pkg/logger"
)

// NewAPIProxy forwards /api requests to upstream when the browser-facing
// backend URL is relative. PDF downloads go through it.
func NewAPIProxy(upstream string, log *logger.Logger) (http.Handler, error) {
	target, err := url.Parse(upstream)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid api upstream %q", upstream)
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.WithContext(r.Context()).WithError(err).Warn("api proxy failed", "path", r.URL.Path)
			http.Error(w, "backend unavailable", http.StatusBadGateway)
		},
	}
	return proxy, nil
}
