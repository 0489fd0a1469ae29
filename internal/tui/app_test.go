package tui

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sayonika/sayonika-tui/internal/draft"
	"github.com/sayonika/sayonika-tui/internal/notify"
	"github.com/sayonika/sayonika-tui/pkg/client"
	"github.com/sayonika/sayonika-tui/pkg/domain"
)

func testNotifications(unread, read int) []domain.Notification {
	var out []domain.Notification
	id := int64(1)
	for i := 0; i < unread; i++ {
		out = append(out, domain.Notification{ID: id, Kind: domain.KindGeneral, Title: fmt.Sprintf("note %d", id)})
		id++
	}
	for i := 0; i < read; i++ {
		out = append(out, domain.Notification{ID: id, Kind: domain.KindGeneral, Title: fmt.Sprintf("note %d", id), Read: true})
		id++
	}
	return out
}

func newTestApp(t *testing.T) App {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	t.Cleanup(server.Close)

	c := client.New(server.URL, "token")
	engine := notify.NewEngine(c, notify.NewStore())
	poller := notify.NewPoller(engine, notify.DefaultPollInterval)
	drafts, err := draft.Open(filepath.Join(t.TempDir(), "drafts.db"))
	if err != nil {
		t.Fatalf("draft.Open: %v", err)
	}
	t.Cleanup(func() { drafts.Close() })

	app := NewApp(c, engine, poller, drafts, 50)
	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return model.(App)
}

func TestRenderBadge(t *testing.T) {
	if got := renderBadge(0); !strings.Contains(got, "○") {
		t.Errorf("zero unread badge = %q, want hollow bell", got)
	}
	if got := renderBadge(5); !strings.Contains(got, "5") {
		t.Errorf("badge = %q, want count", got)
	}
	if got := renderBadge(250); !strings.Contains(got, "99+") {
		t.Errorf("badge = %q, want saturated count", got)
	}
}

func TestTabSwitching(t *testing.T) {
	app := newTestApp(t)
	if app.view != viewHome {
		t.Fatalf("initial view = %d, want home", app.view)
	}
	model, cmd := app.Update(keyMsg("2"))
	app = model.(App)
	if app.view != viewMods {
		t.Errorf("view = %d after pressing 2, want mods", app.view)
	}
	if cmd == nil {
		t.Error("switching tabs did not trigger a load")
	}
}

func TestNotificationPanelToggle(t *testing.T) {
	app := newTestApp(t)

	model, cmd := app.Update(keyMsg("b"))
	app = model.(App)
	if !app.notifOpen {
		t.Fatal("panel not open after b")
	}
	if cmd == nil {
		t.Error("opening panel did not trigger a refresh")
	}

	model, _ = app.Update(keyMsg("esc"))
	app = model.(App)
	if app.notifOpen {
		t.Error("panel still open after esc")
	}
}

func TestBadgeFollowsCountResult(t *testing.T) {
	app := newTestApp(t)

	model, _ := app.Update(notify.CountResult{Count: 7})
	app = model.(App)
	if app.unread != 7 {
		t.Errorf("unread = %d, want 7", app.unread)
	}

	// A failed poll keeps the previous value
	model, _ = app.Update(notify.CountResult{Err: fmt.Errorf("boom")})
	app = model.(App)
	if app.unread != 7 {
		t.Errorf("unread = %d after failed poll, want 7", app.unread)
	}
}

func TestBadgeFollowsStoreChanges(t *testing.T) {
	app := newTestApp(t)
	app.engine.Store().ReplaceAll(testNotifications(3, 0))

	model, _ := app.Update(StoreChangedMsg{})
	app = model.(App)
	if app.unread != 3 {
		t.Errorf("unread = %d, want 3", app.unread)
	}
}

func TestMarkAllReadFailureNoticeWhenPanelClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"database unavailable"}`)
	}))
	t.Cleanup(server.Close)

	c := client.New(server.URL, "token")
	engine := notify.NewEngine(c, notify.NewStore())
	poller := notify.NewPoller(engine, notify.DefaultPollInterval)
	drafts, err := draft.Open(filepath.Join(t.TempDir(), "drafts.db"))
	if err != nil {
		t.Fatalf("draft.Open: %v", err)
	}
	t.Cleanup(func() { drafts.Close() })

	app := NewApp(c, engine, poller, drafts, 50)
	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	app = model.(App)

	model, cmd := app.Update(keyMsg("R"))
	app = model.(App)
	if cmd == nil {
		t.Fatal("R issued no command")
	}

	model, _ = app.Update(cmd())
	app = model.(App)
	if app.status == "" {
		t.Fatal("failed mark-all-read left no notice")
	}
	if !strings.Contains(app.View(), "database unavailable") {
		t.Errorf("notice missing from view, status = %q", app.status)
	}

	// Next keystroke dismisses the notice
	model, _ = app.Update(keyMsg("j"))
	app = model.(App)
	if app.status != "" {
		t.Errorf("status = %q after keystroke, want cleared", app.status)
	}
}

func TestQuitStopsBackgroundWork(t *testing.T) {
	app := newTestApp(t)
	_, cmd := app.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("quit issued no command")
	}
	if app.poller.Start() != nil {
		t.Error("poller restartable after quit")
	}
}
