package scene

import (
	"math"

	"textmorph/core"
)

// Page emulates a scrollable document in a native window. Its height is a
// fixed multiple of the viewport height, and scrolling is clamped to the
// document the way a browser clamps scrollTop.
type Page struct {
	screens      float64
	clientHeight float64
	scrollTop    float64
}

// NewPage creates a page screens viewports tall
func NewPage(screens float64, clientHeight int) *Page {
	p := &Page{screens: screens}
	p.Resize(clientHeight)
	return p
}

// Resize changes the viewport height. The scroll position keeps its
// fraction of the scrollable range, as a reflowed document would.
func (p *Page) Resize(clientHeight int) {
	if clientHeight <= 0 {
		return
	}
	fraction := 0.0
	if limit := p.maxScroll(); limit > 0 {
		fraction = p.scrollTop / limit
	}
	p.clientHeight = float64(clientHeight)
	p.scrollTop = fraction * p.maxScroll()
}

// ScrollBy moves the scroll position by dy pixels (positive scrolls down)
func (p *Page) ScrollBy(dy float64) {
	p.ScrollTo(p.scrollTop + dy)
}

// ScrollTo sets the scroll position, clamped to the document
func (p *Page) ScrollTo(top float64) {
	p.scrollTop = math.Max(0, math.Min(top, p.maxScroll()))
}

// Home scrolls to the top
func (p *Page) Home() {
	p.ScrollTo(0)
}

// End scrolls to the bottom
func (p *Page) End() {
	p.ScrollTo(p.maxScroll())
}

// ClientHeight returns the viewport height in pixels
func (p *Page) ClientHeight() float64 {
	return p.clientHeight
}

// Metrics returns the current scroll readouts
func (p *Page) Metrics() core.ScrollMetrics {
	return core.ScrollMetrics{
		ScrollTop:    p.scrollTop,
		ScrollHeight: p.scrollHeight(),
		ClientHeight: p.clientHeight,
	}
}

func (p *Page) scrollHeight() float64 {
	return math.Max(p.clientHeight*p.screens, p.clientHeight)
}

func (p *Page) maxScroll() float64 {
	return math.Max(0, p.scrollHeight()-p.clientHeight)
}
