//go:build js && wasm

package browser

import (
	"syscall/js"

	"github.com/rust-in/site/internal/services/site/carousel"
	"github.com/rust-in/site/internal/services/site/scrollprogress"
)

// DOM binds the App to the live document.
type DOM struct {
	window   js.Value
	document js.Value
	funcs    []js.Func
}

// NewDOM wraps the global window.
func NewDOM() *DOM {
	window := js.Global()
	return &DOM{window: window, document: window.Get("document")}
}

func (d *DOM) byID(id string) js.Value {
	return d.document.Call("getElementById", id)
}

func present(v js.Value) bool {
	return !v.IsNull() && !v.IsUndefined()
}

// Secure reports whether the page was served over HTTPS.
func (d *DOM) Secure() bool {
	return d.window.Get("location").Get("protocol").String() == "https:"
}

// Cookies implements sessionmarker.CookieJar.
func (d *DOM) Cookies() string {
	return d.document.Get("cookie").String()
}

// SetCookie implements sessionmarker.CookieJar.
func (d *DOM) SetCookie(line string) {
	d.document.Set("cookie", line)
}

func (d *DOM) Splash() (SplashConfig, bool) {
	splash := d.byID("splash")
	if !present(splash) {
		return SplashConfig{}, false
	}
	data := splash.Get("dataset")
	return ParseSplash(
		data.Get("minimumMs").String(),
		data.Get("debounceMs").String(),
		data.Get("safetyMs").String(),
	), true
}

func (d *DOM) SetSplashProgress(percent int) {
	splash := d.byID("splash")
	if !present(splash) {
		return
	}
	splash.Call("setAttribute", "aria-valuenow", percent)
	if fill := splash.Call("querySelector", ".splash__fill"); present(fill) {
		fill.Get("style").Set("width", Percent(percent))
	}
	if label := splash.Call("querySelector", ".splash__percent"); present(label) {
		label.Set("textContent", Percent(percent))
	}
}

func (d *DOM) Reveal() {
	if content := d.byID("content"); present(content) {
		content.Get("classList").Call("remove", "content--hidden")
	}
	splash := d.byID("splash")
	if !present(splash) {
		return
	}
	splash.Get("classList").Call("add", "splash--leaving")
	var remove js.Func
	remove = js.FuncOf(func(js.Value, []js.Value) any {
		remove.Release()
		splash.Call("remove")
		return nil
	})
	d.window.Call("setTimeout", remove, FadeDuration.Milliseconds())
}

func (d *DOM) SetScrollState(state scrollprogress.State) {
	if fill := d.byID("scroll-fill"); present(fill) {
		fill.Get("style").Set("width", FillWidth(state.Fraction))
	}
	if marker := d.byID("scroll-marker"); present(marker) {
		marker.Get("style").Set("transform", MarkerTransform(state.MarkerOffset))
		marker.Get("classList").Call("toggle", "progress__marker--moving", state.ActivelyScrolling)
	}
}

// Metrics implements scrollprogress.Viewport.
func (d *DOM) Metrics() scrollprogress.Metrics {
	root := d.document.Get("documentElement")
	return scrollprogress.Metrics{
		ScrollTop:      d.window.Get("scrollY").Float(),
		DocumentHeight: root.Get("scrollHeight").Float(),
		ViewportHeight: d.window.Get("innerHeight").Float(),
	}
}

// TrackWidth implements scrollprogress.Viewport.
func (d *DOM) TrackWidth() float64 {
	return d.width("scroll-track")
}

// MarkerWidth implements scrollprogress.Viewport.
func (d *DOM) MarkerWidth() float64 {
	return d.width("scroll-marker")
}

func (d *DOM) width(id string) float64 {
	el := d.byID(id)
	if !present(el) {
		return 0
	}
	return el.Call("getBoundingClientRect").Get("width").Float()
}

type frame struct {
	window js.Value
	id     js.Value
	fn     js.Func
	done   bool
}

func (f *frame) Cancel() {
	if f.done {
		return
	}
	f.done = true
	f.window.Call("cancelAnimationFrame", f.id)
	f.fn.Release()
}

// RequestFrame implements scrollprogress.FrameScheduler.
func (d *DOM) RequestFrame(fn func()) scrollprogress.FrameHandle {
	f := &frame{window: d.window}
	f.fn = js.FuncOf(func(js.Value, []js.Value) any {
		if f.done {
			return nil
		}
		f.done = true
		f.fn.Release()
		fn()
		return nil
	})
	f.id = d.window.Call("requestAnimationFrame", f.fn)
	return f
}

// Carousel returns the reviews carousel, or nil when the page has none.
func (d *DOM) Carousel() Carousel {
	track := d.byID("reviews-track")
	if !present(track) {
		return nil
	}
	return &carouselView{root: d.byID("reviews-carousel"), track: track}
}

type carouselView struct {
	root  js.Value
	track js.Value
}

func (c *carouselView) Metrics() carousel.Metrics {
	return carousel.Metrics{
		ScrollLeft:  c.track.Get("scrollLeft").Float(),
		ScrollWidth: c.track.Get("scrollWidth").Float(),
		ClientWidth: c.track.Get("clientWidth").Float(),
	}
}

func (c *carouselView) Reviews() int {
	return c.track.Get("children").Get("length").Int()
}

func (c *carouselView) ScrollTo(left float64) {
	c.track.Call("scrollTo", map[string]any{"left": left, "behavior": "smooth"})
}

func (c *carouselView) SetControls(canLeft, canRight bool) {
	if !present(c.root) {
		return
	}
	if left := c.root.Call("querySelector", `[data-carousel="left"]`); present(left) {
		left.Set("disabled", !canLeft)
	}
	if right := c.root.Call("querySelector", `[data-carousel="right"]`); present(right) {
		right.Set("disabled", !canRight)
	}
}

// Listen forwards DOM events to app.
func (d *DOM) Listen(app *App) {
	passive := map[string]any{"passive": true}
	d.on(d.window, "scroll", passive, app.OnScroll)
	d.on(d.window, "resize", passive, app.OnResize)
	d.on(d.window, "pagehide", nil, func() {
		app.Close()
		d.Release()
	})
	root := d.byID("reviews-carousel")
	if !present(root) {
		return
	}
	if left := root.Call("querySelector", `[data-carousel="left"]`); present(left) {
		d.on(left, "click", nil, func() { app.ScrollCarousel(carousel.Left) })
	}
	if right := root.Call("querySelector", `[data-carousel="right"]`); present(right) {
		d.on(right, "click", nil, func() { app.ScrollCarousel(carousel.Right) })
	}
	if track := d.byID("reviews-track"); present(track) {
		d.on(track, "scroll", passive, app.RefreshCarousel)
	}
}

func (d *DOM) on(target js.Value, event string, options map[string]any, fn func()) {
	handler := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	d.funcs = append(d.funcs, handler)
	if options == nil {
		target.Call("addEventListener", event, handler)
		return
	}
	target.Call("addEventListener", event, handler, options)
}

// Release frees every registered event callback.
func (d *DOM) Release() {
	for _, fn := range d.funcs {
		fn.Release()
	}
	d.funcs = nil
}
