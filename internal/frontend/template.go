package frontend

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"

	"github.com/labstack/echo/v4"
)

//go:embed views
var viewsFS embed.FS

const (
	layoutPattern = "views/layout/*.html"
	pagesPattern  = "views/pages/*.html"
)

var templateFuncs = template.FuncMap{
	"truncate": truncate,
}

// Template renders a page inside the shared layout. Pages are parsed separately
// so each can define its own "content" block.
type Template struct {
	pages map[string]*template.Template
}

func newTemplate() (*Template, error) {
	files, err := fs.Glob(viewsFS, pagesPattern)
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := path.Base(file)
		page, err := template.New(name).Funcs(templateFuncs).ParseFS(viewsFS, layoutPattern, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = page
	}
	return &Template{pages: pages}, nil
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	page, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return page.ExecuteTemplate(w, "layout", data)
}

// truncate shortens s to at most limit runes, ending with an ellipsis when cut.
func truncate(limit int, s string) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
