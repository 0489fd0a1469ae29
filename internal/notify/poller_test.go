package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sayonika/sayonika-tui/pkg/client"
	"github.com/sayonika/sayonika-tui/pkg/domain"
)

func countServer(t *testing.T, count int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/notifications/unread-count" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(domain.UnreadCount{Count: count}) //nolint:errcheck
	}))
}

func TestPoller_DeliversCount(t *testing.T) {
	srv := countServer(t, 3)
	defer srv.Close()

	e := NewEngine(client.New(srv.URL, "tok"), NewStore())
	p := NewPoller(e, time.Hour) // rely on the immediate initial fetch
	defer p.Stop()

	cmd := p.Start()
	if cmd == nil {
		t.Fatal("Start() returned nil command")
	}

	msg := cmd()
	result, ok := msg.(CountResult)
	if !ok {
		t.Fatalf("msg = %T, want CountResult", msg)
	}
	if result.Err != nil {
		t.Fatalf("result.Err = %v", result.Err)
	}
	if result.Count != 3 {
		t.Errorf("result.Count = %d, want 3", result.Count)
	}
}

func TestPoller_StartIsIdempotent(t *testing.T) {
	srv := countServer(t, 0)
	defer srv.Close()

	e := NewEngine(client.New(srv.URL, "tok"), NewStore())
	p := NewPoller(e, time.Hour)
	defer p.Stop()

	if cmd := p.Start(); cmd == nil {
		t.Fatal("first Start() returned nil")
	}
	if cmd := p.Start(); cmd != nil {
		t.Error("second Start() returned a command, want nil (no double timer)")
	}
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	srv := countServer(t, 0)
	defer srv.Close()

	e := NewEngine(client.New(srv.URL, "tok"), NewStore())
	p := NewPoller(e, time.Hour)
	p.Start()

	p.Stop()
	p.Stop() // second stop must not panic

	if cmd := p.Start(); cmd != nil {
		t.Error("Start() after Stop() returned a command, want nil")
	}
}

func TestPoller_Trigger(t *testing.T) {
	srv := countServer(t, 5)
	defer srv.Close()

	e := NewEngine(client.New(srv.URL, "tok"), NewStore())
	p := NewPoller(e, time.Hour)
	defer p.Stop()

	cmd := p.Start()
	cmd() // drain the initial fetch

	p.Trigger()
	msg := p.WaitForNextResult()()
	result, ok := msg.(CountResult)
	if !ok {
		t.Fatalf("msg = %T, want CountResult", msg)
	}
	if result.Count != 5 {
		t.Errorf("result.Count = %d, want 5", result.Count)
	}
}
