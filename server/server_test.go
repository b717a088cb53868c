package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"textmorph/core"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestPublishLatestWins(t *testing.T) {
	b := New(":0")
	for _, top := range []float64{100, 200, 300} {
		if _, err := b.Publish(core.ScrollMetrics{ScrollTop: top, ScrollHeight: 1400, ClientHeight: 600}); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case v := <-b.Updates():
		if v != 0.375 {
			t.Errorf("got %v, want the last update 0.375", v)
		}
	default:
		t.Fatal("no update queued")
	}
	select {
	case v := <-b.Updates():
		t.Errorf("stale update %v still queued", v)
	default:
	}

	if s := b.State(); s.Updates != 3 || s.Metrics.ScrollTop != 300 {
		t.Errorf("state = %+v", s)
	}
}

func TestPublishRejectsInvalidMetrics(t *testing.T) {
	b := New(":0")
	tests := []core.ScrollMetrics{
		{ScrollTop: 0, ScrollHeight: -100, ClientHeight: 50},
		{ScrollTop: 10, ScrollHeight: 100, ClientHeight: -50},
		{ScrollTop: math.NaN(), ScrollHeight: 100, ClientHeight: 50},
		{ScrollTop: 10, ScrollHeight: math.Inf(1), ClientHeight: 50},
	}
	for _, m := range tests {
		if _, err := b.Publish(m); !errors.Is(err, ErrInvalidMetrics) {
			t.Errorf("Publish(%+v) = %v, want ErrInvalidMetrics", m, err)
		}
	}
	if s := b.State(); s.Updates != 0 {
		t.Errorf("invalid metrics were recorded: %+v", s)
	}
}

func TestPublishForwardsOverscroll(t *testing.T) {
	tests := []struct {
		name    string
		metrics core.ScrollMetrics
		want    float32
	}{
		{"above the top", core.ScrollMetrics{ScrollTop: -12, ScrollHeight: 3000, ClientHeight: 1000}, float32(-12.0 / 2000.0)},
		{"past the end", core.ScrollMetrics{ScrollTop: 2100, ScrollHeight: 3000, ClientHeight: 1000}, 1.05},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := New(":0")
			mix, err := b.Publish(tc.metrics)
			if err != nil {
				t.Fatalf("Publish(%+v) = %v", tc.metrics, err)
			}
			if mix != tc.want {
				t.Errorf("mix = %v, want %v", mix, tc.want)
			}
			select {
			case v := <-b.Updates():
				if v != tc.want {
					t.Errorf("update = %v, want %v", v, tc.want)
				}
			default:
				t.Fatal("overscroll was not forwarded")
			}
		})
	}
}

func TestNoOverflowPublishesNaN(t *testing.T) {
	b := New(":0")
	mix, err := b.Publish(core.ScrollMetrics{ScrollTop: 0, ScrollHeight: 600, ClientHeight: 600})
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(float64(mix)) {
		t.Errorf("mix = %v, want NaN", mix)
	}
	if s := b.State(); s.Mix != nil {
		t.Errorf("state mix = %v, want null", *s.Mix)
	}
}

func TestScrollEndpoint(t *testing.T) {
	b := New(":0")
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMix    string
	}{
		{"halfway", `{"scrollTop":400,"scrollHeight":1400,"clientHeight":600}`, http.StatusOK, `{"mix":0.5}`},
		{"no overflow", `{"scrollTop":0,"scrollHeight":600,"clientHeight":600}`, http.StatusOK, `{"mix":null}`},
		{"malformed", `{"scrollTop":`, http.StatusBadRequest, ""},
		{"overscroll", `{"scrollTop":-200,"scrollHeight":1400,"clientHeight":600}`, http.StatusOK, `{"mix":-0.25}`},
		{"negative client height", `{"scrollTop":5,"scrollHeight":1400,"clientHeight":-600}`, http.StatusBadRequest, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/scroll", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			b.Handler().ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.wantStatus, w.Body.String())
			}
			if tc.wantMix != "" && strings.TrimSpace(w.Body.String()) != tc.wantMix {
				t.Errorf("body = %s, want %s", w.Body.String(), tc.wantMix)
			}
		})
	}
}

func TestStateAndPage(t *testing.T) {
	b := New(":0")
	body, _ := json.Marshal(core.ScrollMetrics{ScrollTop: 800, ScrollHeight: 1400, ClientHeight: 600})
	w := httptest.NewRecorder()
	b.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/scroll", bytes.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("scroll status %d", w.Code)
	}

	w = httptest.NewRecorder()
	b.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/state", nil))
	var s State
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatal(err)
	}
	if s.Mix == nil || *s.Mix != 1 || s.Updates != 1 {
		t.Errorf("state = %+v", s)
	}

	w = httptest.NewRecorder()
	b.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "new WebSocket") {
		t.Errorf("page status %d", w.Code)
	}
}

func TestWebSocketSession(t *testing.T) {
	b := New(":0")
	srv := httptest.NewServer(b.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello Reply
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatal(err)
	}
	if len(hello.Session) != 36 {
		t.Errorf("session id %q is not a uuid", hello.Session)
	}

	tests := []struct {
		metrics core.ScrollMetrics
		wantMix *float64
		wantErr bool
	}{
		{metrics: core.ScrollMetrics{ScrollTop: 200, ScrollHeight: 1000, ClientHeight: 200}, wantMix: ptr(0.25)},
		{metrics: core.ScrollMetrics{ScrollTop: 0, ScrollHeight: 200, ClientHeight: 200}},
		{metrics: core.ScrollMetrics{ScrollTop: -100, ScrollHeight: 1000, ClientHeight: 200}, wantMix: ptr(-0.125)},
		{metrics: core.ScrollMetrics{ScrollTop: 10, ScrollHeight: 1000, ClientHeight: -200}, wantErr: true},
	}
	for _, tc := range tests {
		if err := conn.WriteJSON(tc.metrics); err != nil {
			t.Fatal(err)
		}
		var r Reply
		if err := conn.ReadJSON(&r); err != nil {
			t.Fatal(err)
		}
		if r.Session != hello.Session {
			t.Errorf("session changed from %s to %s", hello.Session, r.Session)
		}
		if (r.Error != "") != tc.wantErr {
			t.Errorf("%+v: error = %q", tc.metrics, r.Error)
		}
		switch {
		case tc.wantMix == nil && r.Mix != nil:
			t.Errorf("%+v: mix = %v, want null", tc.metrics, *r.Mix)
		case tc.wantMix != nil && (r.Mix == nil || *r.Mix != *tc.wantMix):
			t.Errorf("%+v: mix = %v, want %v", tc.metrics, r.Mix, *tc.wantMix)
		}
	}

	if s := b.State(); s.Sessions != 1 || s.Updates != 3 {
		t.Errorf("state = %+v", s)
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	b := New("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// serverConns upgrades every request and hands the server side of the
// connection to the test
func serverConns(t *testing.T) (*httptest.Server, <-chan *websocket.Conn) {
	t.Helper()
	conns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		conns <- c
	}))
	return srv, conns
}

func TestCloseSessions(t *testing.T) {
	srv, conns := serverConns(t)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	tests := []struct {
		name    string
		broken  bool
		wantLog bool
	}{
		{name: "open peer gets going away"},
		{name: "broken connection is logged", broken: true, wantLog: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logs.Reset()
			client, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				t.Fatalf("dial: %v", err)
			}
			defer client.Close()
			conn := <-conns
			if tc.broken {
				conn.Close()
			}

			b := New(":0")
			b.sessions["s1"] = &session{id: "s1", conn: conn}
			b.closeSessions()

			if got := strings.Contains(logs.String(), "Close message to s1 failed"); got != tc.wantLog {
				t.Errorf("log = %q", logs.String())
			}
			if tc.broken {
				return
			}
			client.SetReadDeadline(time.Now().Add(5 * time.Second))
			_, _, err = client.ReadMessage()
			if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
				t.Errorf("client read = %v, want going away", err)
			}
		})
	}
}

func ptr(v float64) *float64 { return &v }
