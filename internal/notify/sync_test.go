package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sayonika/sayonika-tui/pkg/client"
	"github.com/sayonika/sayonika-tui/pkg/domain"
)

func TestFetchAll_ReplacesStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		list := []domain.Notification{record(2, false), record(1, true)}
		json.NewEncoder(w).Encode(list) //nolint:errcheck
	}))
	defer srv.Close()

	store := NewStore()
	e := NewEngine(client.New(srv.URL, "tok"), store)
	if err := e.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}

	all := store.All()
	if len(all) != 2 {
		t.Fatalf("len(All()) = %d, want 2", len(all))
	}
	if all[0].ID != 2 {
		t.Errorf("All()[0].ID = %d, want 2", all[0].ID)
	}
	if got := store.UnreadCount(); got != 1 {
		t.Errorf("UnreadCount() = %d, want 1", got)
	}
}

func TestFetchAll_FailureLeavesSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "database on fire"}) //nolint:errcheck
	}))
	defer srv.Close()

	store := NewStore()
	store.ReplaceAll([]domain.Notification{record(1, false)})

	e := NewEngine(client.New(srv.URL, "tok"), store)
	err := e.FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected error from failing fetch")
	}
	if got := client.Message(err); got != "database on fire" {
		t.Errorf("Message(err) = %q, want server message", got)
	}

	// Pre-call snapshot survives.
	all := store.All()
	if len(all) != 1 || all[0].ID != 1 {
		t.Errorf("store changed on failed fetch: %+v", all)
	}
}

func TestFetchAll_StaleResponseDropped(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release // hold the first response until a newer one lands
			json.NewEncoder(w).Encode([]domain.Notification{record(1, false)}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode([]domain.Notification{record(2, false), record(1, false)}) //nolint:errcheck
	}))
	defer srv.Close()

	store := NewStore()
	e := NewEngine(client.New(srv.URL, "tok"), store)

	done := make(chan error, 1)
	go func() { done <- e.FetchAll(context.Background()) }()
	<-entered

	// A second fetch completes while the first is still in flight.
	if err := e.FetchAll(context.Background()); err != nil {
		t.Fatalf("second FetchAll() error: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first FetchAll() error: %v", err)
	}

	// The late single-record response must not overwrite the newer snapshot.
	if got := len(store.All()); got != 2 {
		t.Errorf("len(All()) = %d, want 2 (stale response applied)", got)
	}
}

func TestMarkRead_MutatesStoreOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	store := NewStore()
	store.ReplaceAll([]domain.Notification{record(5, false)})

	e := NewEngine(client.New(srv.URL, "tok"), store)
	if err := e.MarkRead(context.Background(), 5); err != nil {
		t.Fatalf("MarkRead() error: %v", err)
	}
	if got := store.UnreadCount(); got != 0 {
		t.Errorf("UnreadCount() = %d, want 0", got)
	}
}

func TestMarkRead_FailureLeavesStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	store := NewStore()
	store.ReplaceAll([]domain.Notification{record(5, false)})

	e := NewEngine(client.New(srv.URL, "tok"), store)
	if err := e.MarkRead(context.Background(), 5); err == nil {
		t.Fatal("expected error from failing mark-read")
	}
	if got := store.UnreadCount(); got != 1 {
		t.Errorf("UnreadCount() = %d, want 1 (store mutated on failure)", got)
	}
}

func TestDelete_RemovesFromStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	store := NewStore()
	store.ReplaceAll([]domain.Notification{record(1, true), record(2, true)})

	e := NewEngine(client.New(srv.URL, "tok"), store)
	if err := e.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	all := store.All()
	if len(all) != 1 || all[0].ID != 2 {
		t.Errorf("All() = %+v, want single record with ID 2", all)
	}
}

func TestClose_DropsLateResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/notifications":
			json.NewEncoder(w).Encode([]domain.Notification{record(1, false)}) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	store := NewStore()
	store.ReplaceAll([]domain.Notification{record(9, false)})

	e := NewEngine(client.New(srv.URL, "tok"), store)
	e.Close()
	e.Close() // idempotent

	if err := e.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if err := e.MarkRead(context.Background(), 9); err != nil {
		t.Fatalf("MarkRead() error: %v", err)
	}

	all := store.All()
	if len(all) != 1 || all[0].ID != 9 || all[0].Read {
		t.Errorf("store changed after Close: %+v", all)
	}
}
