package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/rust-in/site/internal/platform/icons"
)

// out writes markup and keeps the first write error.
type out struct {
	w   io.Writer
	err error
}

func (o *out) raw(s string) {
	if o.err != nil {
		return
	}
	_, o.err = io.WriteString(o.w, s)
}

// text writes s escaped for element content and attribute values.
func (o *out) text(s string) {
	o.raw(templ.EscapeString(s))
}

func (o *out) int(n int) {
	o.raw(strconv.Itoa(n))
}

// attr writes ` name="value"` with value escaped.
func (o *out) attr(name, value string) {
	o.raw(" " + name + `="`)
	o.text(value)
	o.raw(`"`)
}

// href writes an href attribute, replacing unsafe schemes.
func (o *out) href(url string) {
	o.attr("href", string(templ.URL(url)))
}

func (o *out) icon(id icons.ID, class string) {
	o.raw(`<svg class="icon `)
	o.text(class)
	o.raw(`" aria-hidden="true"><use href="#`)
	o.text(icons.LucideSymbolID(icons.LucideNameOrDefault(id)))
	o.raw(`"></use></svg>`)
}

func (o *out) render(ctx context.Context, component templ.Component) {
	if o.err != nil || component == nil {
		return
	}
	o.err = component.Render(ctx, o.w)
}

// component adapts a markup writer to templ.
func component(write func(ctx context.Context, o *out)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		o := &out{w: w}
		write(ctx, o)
		return o.err
	})
}
