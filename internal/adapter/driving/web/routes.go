package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers the page and asset routes on the provided mux.
// Pages are plain embedded HTML; all dynamic behavior goes through the JSON
// API under /api/v1.
func RegisterRoutes(mux *http.ServeMux) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	page := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			http.ServeFileFS(w, r, staticFS, name)
		}
	}

	mux.HandleFunc("GET /{$}", page("index.html"))
	mux.HandleFunc("GET /homepage", page("homepage.html"))
	mux.HandleFunc("GET /groups", page("groups.html"))
	mux.HandleFunc("GET /stopwatch", page("stopwatch.html"))
}
