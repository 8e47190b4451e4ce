package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticFileServer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "gadgets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gadgets", "earbuds.txt"), []byte("buds"), 0o644))

	server := StaticFileServer(dir)

	t.Run("existing file", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest("GET", "/gadgets/earbuds.txt", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "buds", w.Body.String())
		assert.Equal(t, "public, max-age=2592000", w.Header().Get("Cache-Control"))
	})

	t.Run("missing file gets placeholder", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest("GET", "/gadgets/power-bank.jpg", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "SINTHIYA")
	})

	t.Run("no escape from the root", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/", nil)
		r.URL.Path = "/../../etc/passwd"
		server.ServeHTTP(w, r)

		assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	})
}
