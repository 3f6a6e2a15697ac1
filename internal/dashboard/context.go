package dashboard

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"

	"github.com/i474232898/central-west-weather/internal/store"
)

// Context carries everything the views read. It is built once at startup and
// never mutated, so handlers share it freely.
type Context struct {
	Store  *store.MemoryStore
	static map[Page]template.HTML
}

// NewContext renders the static pages and wraps the resident tables.
func NewContext(ms *store.MemoryStore) (*Context, error) {
	dc := &Context{
		Store:  ms,
		static: make(map[Page]template.HTML, len(staticMarkdown)),
	}
	md := goldmark.New()
	for page, src := range staticMarkdown {
		var buf bytes.Buffer
		if err := md.Convert([]byte(src), &buf); err != nil {
			return nil, fmt.Errorf("render %s: %w", page, err)
		}
		// Trusted, compiled-in content.
		dc.static[page] = template.HTML(buf.String())
	}
	return dc, nil
}
