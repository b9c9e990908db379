package server

import (
	"embed"
	"net/http"
)

//go:embed static/*
var staticFiles embed.FS

var (
	indexPage    = mustReadStatic("static/index.html")
	notFoundPage = mustReadStatic("static/notfound.html")
)

func mustReadStatic(name string) []byte {
	content, err := staticFiles.ReadFile(name)
	if err != nil {
		panic("failed to read embedded page " + name + ": " + err.Error())
	}
	return content
}

// IndexHandler serves the home page at the root path and the not-found page,
// with a 404, for everything else that reached the catch-all route.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeHTML)
		if r.URL.Path == "/" || r.URL.Path == "/index.html" {
			_, _ = w.Write(indexPage)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write(notFoundPage)
	}
}
