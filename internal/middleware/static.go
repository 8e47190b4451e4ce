package middleware

import (
	"net/http"
	"os"
	"path/filepath"
)

// placeholderSVG stands in for storefront images that are not on disk.
const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 200"><rect width="200" height="200" fill="#eef2ff"/><rect x="70" y="40" width="60" height="110" rx="10" fill="none" stroke="#6366f1" stroke-width="6"/><circle cx="100" cy="135" r="5" fill="#6366f1"/><text x="100" y="180" text-anchor="middle" font-family="Arial" font-size="14" fill="#4f46e5">SINTHIYA</text></svg>`

// StaticFileServer serves storefront assets from dir. Missing files get the
// placeholder image.
func StaticFileServer(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))

		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			w.Header().Set("Cache-Control", "public, max-age=2592000")
			http.ServeFile(w, r, path)
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Write([]byte(placeholderSVG))
	})
}
