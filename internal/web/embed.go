package web

import (
	"embed"
	"io/fs"
)

var (
	//go:embed static
	staticFiles embed.FS

	//go:embed templates
	templateFiles embed.FS
)

func subtree(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		// dir is compiled in
		panic(err)
	}

	return sub
}

// TemplateFS returns the compiled in templates rooted at their directory.
func TemplateFS() fs.FS { return subtree(templateFiles, "templates") }

// StaticFS returns the compiled in public assets rooted at their directory.
func StaticFS() fs.FS { return subtree(staticFiles, "static") }
