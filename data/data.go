package data

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed html
var assets embed.FS

// AssetFS the embedded dashboard UI
func AssetFS() http.FileSystem {
	sub, err := fs.Sub(assets, "html")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
