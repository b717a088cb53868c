package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"textmorph/core"
)

// ErrInvalidMetrics is returned for scroll readouts no browser would produce
var ErrInvalidMetrics = errors.New("invalid scroll metrics")

// State is the last scroll position received from any client
type State struct {
	Metrics  core.ScrollMetrics `json:"metrics"`
	Mix      *float64           `json:"mix"` // null when the page cannot scroll
	Updates  int                `json:"updates"`
	Sessions int                `json:"sessions"`
}

// Bridge relays document scroll positions from browsers to the render loop.
// Browsers report over a websocket or a plain POST; the loop reads mix
// factors from Updates.
type Bridge struct {
	addr   string
	engine *gin.Engine

	// capacity 1; a new value replaces one the loop has not read yet
	updates chan float32

	mu       sync.Mutex
	last     core.ScrollMetrics
	count    int
	sessions map[string]*session
}

// New creates a bridge that will listen on addr
func New(addr string) *Bridge {
	b := &Bridge{
		addr:     addr,
		updates:  make(chan float32, 1),
		sessions: make(map[string]*session),
	}
	b.engine = b.router()
	return b
}

// Handler exposes the routes, mainly for tests
func (b *Bridge) Handler() http.Handler {
	return b.engine
}

// Updates delivers mix factors, latest value wins
func (b *Bridge) Updates() <-chan float32 {
	return b.updates
}

// Publish records m and forwards its mix factor to the render loop
func (b *Bridge) Publish(m core.ScrollMetrics) (float32, error) {
	if err := validate(m); err != nil {
		return 0, err
	}
	mix := m.MixFactor()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = m
	b.count++

	select {
	case b.updates <- mix:
	default:
		// drop the stale value the loop has not picked up
		select {
		case <-b.updates:
		default:
		}
		b.updates <- mix
	}
	return mix, nil
}

// State returns the last metrics and the number of updates received
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return State{
		Metrics:  b.last,
		Mix:      mixValue(b.last.MixFactor()),
		Updates:  b.count,
		Sessions: len(b.sessions),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (b *Bridge) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              b.addr,
		Handler:           b.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Scroll bridge listening on http://%s\n", displayAddr(b.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	b.closeSessions()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Scroll bridge shutdown: %v", err)
		return err
	}
	return nil
}

// validate accepts a negative or past-the-end scrollTop, which browsers
// report during rubber-band overscroll. Only the page sizes must be non-negative.
func validate(m core.ScrollMetrics) error {
	for _, v := range []float64{m.ScrollTop, m.ScrollHeight, m.ClientHeight} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %+v", ErrInvalidMetrics, m)
		}
	}
	if m.ScrollHeight < 0 || m.ClientHeight < 0 {
		return fmt.Errorf("%w: negative page size: %+v", ErrInvalidMetrics, m)
	}
	return nil
}

// mixValue converts to a JSON-safe value; NaN and infinities become null
func mixValue(mix float32) *float64 {
	v := float64(mix)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
