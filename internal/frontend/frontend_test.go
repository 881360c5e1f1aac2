package frontend

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Index(t *testing.T) {
	r := New(Config{Title: "Acme News"})
	rec := httptest.NewRecorder()

	r.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<title>Acme News</title>")
	assert.Contains(t, rec.Body.String(), "fetch('/newsletter'")
}

func TestRenderer_Logo(t *testing.T) {
	r := New(Config{Title: "A & B"})
	rec := httptest.NewRecorder()

	r.Logo(rec, httptest.NewRequest(http.MethodGet, "/logo", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "A &amp; B")
}

func TestRenderer_NotFoundEscapesPath(t *testing.T) {
	r := New(Config{})
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.URL.Path = "/<script>"
	r.NotFound(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
	assert.NotContains(t, rec.Body.String(), "<script>")
}

func TestRenderer_TemplateDirOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.liquid"), []byte("hello {{ title }}"), 0644))

	r := New(Config{TemplateDir: dir, Title: "custom"})
	out, err := r.Render(PageIndex, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello custom", out)

	_, err = r.Render(PageLogo, nil)
	assert.Error(t, err)
}

func TestRenderer_Static(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "js"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "js", "main.js"), []byte("console.log(1)"), 0644))
	r := New(Config{StaticDir: dir})

	t.Run("file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.Static(rec, httptest.NewRequest(http.MethodGet, "/static/js/main.js", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "console.log(1)", rec.Body.String())
	})

	t.Run("directory", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.Static(rec, httptest.NewRequest(http.MethodGet, "/static/js", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.Static(rec, httptest.NewRequest(http.MethodGet, "/static/nope.css", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("traversal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/static/x", nil)
		req.URL.Path = "/static/../../etc/passwd"
		r.Static(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
