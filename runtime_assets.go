package formengine

import (
	"io/fs"

	"github.com/goliatone/go-formengine/pkg/renderers/html"
)

// RuntimeAssetsFS exposes the stylesheet and live preview script so Go
// applications can serve them without a frontend build step.
//
// Typical mount:
//
//	r.Handle("/static/*",
//	  http.StripPrefix("/static/",
//	    http.FileServerFS(formengine.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return html.AssetsFS()
}
