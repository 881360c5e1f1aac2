// Package frontend serves the public landing page, the logo and static
// assets. Pages are Liquid templates, embedded by default and overridable
// from a directory.
package frontend

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/osteele/liquid"
)

//go:embed templates/*.liquid
var embedded embed.FS

// Page names.
const (
	PageIndex    = "index"
	PageLogo     = "logo"
	PageNotFound = "404"
)

// Config controls where templates and static files come from.
type Config struct {
	TemplateDir   string // empty uses the embedded templates
	StaticDir     string
	Title         string
	SubscribePath string
}

// Renderer renders Liquid pages and serves static files.
type Renderer struct {
	engine    *liquid.Engine
	templates fs.FS
	static    http.FileSystem
	staticDir string
	bindings  map[string]interface{}
	cache     sync.Map // map[string]*liquid.Template
}

// New creates a renderer. Templates are parsed lazily and cached.
func New(cfg Config) *Renderer {
	var templates fs.FS
	if cfg.TemplateDir != "" {
		templates = os.DirFS(cfg.TemplateDir)
	} else {
		templates, _ = fs.Sub(embedded, "templates")
	}
	if cfg.Title == "" {
		cfg.Title = "Newsletter"
	}
	if cfg.SubscribePath == "" {
		cfg.SubscribePath = "/newsletter"
	}

	r := &Renderer{
		engine:    liquid.NewEngine(),
		templates: templates,
		staticDir: cfg.StaticDir,
		bindings: map[string]interface{}{
			"title":          cfg.Title,
			"subscribe_path": cfg.SubscribePath,
		},
	}
	if cfg.StaticDir != "" {
		r.static = http.Dir(cfg.StaticDir)
	}
	return r
}

func (r *Renderer) template(name string) (*liquid.Template, error) {
	if cached, ok := r.cache.Load(name); ok {
		return cached.(*liquid.Template), nil
	}
	src, err := fs.ReadFile(r.templates, name+".liquid")
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	tpl, err := r.engine.ParseTemplate(src)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	r.cache.Store(name, tpl)
	return tpl, nil
}

// Render renders the named page with the site bindings plus extra.
func (r *Renderer) Render(name string, extra map[string]interface{}) (string, error) {
	tpl, err := r.template(name)
	if err != nil {
		return "", err
	}
	bindings := make(map[string]interface{}, len(r.bindings)+len(extra))
	for k, v := range r.bindings {
		bindings[k] = v
	}
	for k, v := range extra {
		bindings[k] = v
	}
	out, rerr := tpl.RenderString(bindings)
	if rerr != nil {
		return "", fmt.Errorf("render template %s: %w", name, rerr)
	}
	return out, nil
}

func (r *Renderer) write(w http.ResponseWriter, status int, contentType, name string, extra map[string]interface{}) {
	out, err := r.Render(name, extra)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(out))
}

// Index renders the landing page.
func (r *Renderer) Index(w http.ResponseWriter, _ *http.Request) {
	r.write(w, http.StatusOK, "text/html; charset=utf-8", PageIndex, nil)
}

// Logo renders the site logo.
func (r *Renderer) Logo(w http.ResponseWriter, _ *http.Request) {
	r.write(w, http.StatusOK, "image/svg+xml", PageLogo, nil)
}

// NotFound renders the 404 page.
func (r *Renderer) NotFound(w http.ResponseWriter, req *http.Request) {
	r.write(w, http.StatusNotFound, "text/html; charset=utf-8", PageNotFound,
		map[string]interface{}{"path": req.URL.Path})
}

// Static serves files below the static directory. Directories and missing
// files fall through to the 404 page; the path is expected without the
// /static prefix.
func (r *Renderer) Static(w http.ResponseWriter, req *http.Request) {
	if r.static == nil {
		r.NotFound(w, req)
		return
	}
	name := path.Clean("/" + strings.TrimPrefix(req.URL.Path, "/static"))
	f, err := r.static.Open(name)
	if err != nil {
		r.NotFound(w, req)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		r.NotFound(w, req)
		return
	}
	http.ServeContent(w, req, info.Name(), info.ModTime(), f)
}
