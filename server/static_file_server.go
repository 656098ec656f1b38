package server

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFiles embed.FS

func FileServerHandler() http.Handler {
	return http.FileServer(http.FS(StaticFilesFS()))
}

func StaticFilesFS() fs.FS {
	subFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("Failed to create sub filesystem: " + err.Error())
	}
	return subFS
}

// ServeStaticFile writes one embedded file with the usual content-type and
// caching handling.
func ServeStaticFile(w http.ResponseWriter, r *http.Request, name string) {
	http.ServeFileFS(w, r, StaticFilesFS(), name)
}
