// Package viewer serves rendered figures over HTTP.
//
// Figures are added with Show, which matches the viz.Config.Show hook, and
// listed on an index page that embeds each one as an image.
package viewer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/born-ml/convviz/internal/viz"
)

// Config holds viewer settings.
type Config struct {
	Addr   string // listen address, e.g. "localhost:8080"
	Format string // format the index page embeds: "svg" or "png"
}

// DefaultConfig returns a viewer on localhost:8080 embedding SVG figures.
func DefaultConfig() Config {
	return Config{Addr: "localhost:8080", Format: "svg"}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>convviz</title></head>
<body>
{{- range .Figures}}
<figure>
<img src="/figure/{{.ID}}.{{$.Format}}" alt="{{.Title}}" style="max-width:100%">
<figcaption>{{.Title}} (<a href="/figure/{{.ID}}.png">png</a> <a href="/figure/{{.ID}}.svg">svg</a>)</figcaption>
</figure>
{{- else}}
<p>no figures</p>
{{- end}}
</body>
</html>
`))

type entry struct {
	ID    int
	Title string
}

// Viewer keeps the figures shown so far and serves them.
type Viewer struct {
	cfg    Config
	router *mux.Router

	mu      sync.RWMutex
	figures []*viz.Figure
}

// New creates a viewer.
func New(cfg Config) *Viewer {
	if cfg.Format == "" {
		cfg.Format = "svg"
	}
	v := &Viewer{cfg: cfg}

	r := mux.NewRouter()
	r.HandleFunc("/", v.index).Methods(http.MethodGet)
	r.HandleFunc("/figure/{id:[0-9]+}.{format:(?:png|svg)}", v.figure).Methods(http.MethodGet)
	v.router = r
	return v
}

// Show records f for serving.
func (v *Viewer) Show(f *viz.Figure) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.figures = append(v.figures, f)
	return nil
}

// Len returns the number of figures shown.
func (v *Viewer) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.figures)
}

// Handler returns the HTTP handler.
func (v *Viewer) Handler() http.Handler {
	return v.router
}

// Serve listens on the configured address until ctx is done, then shuts
// down gracefully.
func (v *Viewer) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              v.cfg.Addr,
		Handler:           v.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("viewer: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("viewer: shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}

func (v *Viewer) index(w http.ResponseWriter, _ *http.Request) {
	v.mu.RLock()
	entries := make([]entry, len(v.figures))
	for i, f := range v.figures {
		entries[i] = entry{ID: i, Title: f.Title()}
	}
	v.mu.RUnlock()

	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, struct {
		Figures []entry
		Format  string
	}{entries, v.cfg.Format})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

var contentTypes = map[string]string{
	"png": "image/png",
	"svg": "image/svg+xml",
}

func (v *Viewer) figure(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	v.mu.RLock()
	var f *viz.Figure
	if id < len(v.figures) {
		f = v.figures[id]
	}
	v.mu.RUnlock()
	if f == nil {
		http.NotFound(w, r)
		return
	}

	format := vars["format"]
	data, err := f.Render(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(data)
}
