package core

// ScrollMetrics is a snapshot of a scrollable document, in pixels
type ScrollMetrics struct {
	ScrollTop    float64 `json:"scrollTop"`
	ScrollHeight float64 `json:"scrollHeight"`
	ClientHeight float64 `json:"clientHeight"`
}

// MaxScroll returns how far the document can scroll
func (m ScrollMetrics) MaxScroll() float64 {
	return m.ScrollHeight - m.ClientHeight
}

// MixFactor returns scrollTop / (scrollHeight - clientHeight).
// The result is not clamped: it is NaN when there is no overflow and may
// leave [0,1] when the readouts are inconsistent.
func (m ScrollMetrics) MixFactor() float32 {
	return float32(m.ScrollTop / m.MaxScroll())
}
