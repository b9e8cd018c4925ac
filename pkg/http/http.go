package http

import (
	"net/http"
	"path"
)

var staticContentTypes = map[string]string{
	".js":    "application/javascript",
	".css":   "text/css",
	".html":  "text/html",
	".svg":   "image/svg+xml",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
}

// HandleFileServer serves the built web client. Hashed bundles under
// /assets/ never change, so they are cached for a year.
func HandleFileServer(fs http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if contentType, ok := staticContentTypes[path.Ext(r.URL.Path)]; ok {
			w.Header().Set("Content-Type", contentType)
		}
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}
}
