package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sayonika/sayonika-tui/pkg/domain"
)

func TestGetMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/me" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "not authenticated"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.User{ //nolint:errcheck
			Login: "natsuki",
			Admin: true,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	me, err := c.GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe() error: %v", err)
	}
	if me.Login != "natsuki" {
		t.Errorf("Login = %q, want %q", me.Login, "natsuki")
	}
	if !me.Admin {
		t.Error("Admin = false, want true")
	}
}

func TestGetMe_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "not authenticated"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-token")
	_, err := c.GetMe(context.Background())
	if err == nil {
		t.Fatal("expected error for unauthorized request")
	}
	if !IsStatus(err, 401) {
		t.Errorf("IsStatus(err, 401) = false, want true; err = %v", err)
	}
	if got := Message(err); got != "not authenticated" {
		t.Errorf("Message(err) = %q, want %q", got, "not authenticated")
	}
}

func TestNotifications(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/notifications" {
			http.NotFound(w, r)
			return
		}
		list := []domain.Notification{
			{ID: 2, Kind: domain.KindModApproved, Title: "Mod approved", CreatedAt: time.Now()},
			{ID: 1, Kind: domain.KindGeneral, Title: "Welcome", Read: true},
		}
		json.NewEncoder(w).Encode(list) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	list, err := c.Notifications(context.Background())
	if err != nil {
		t.Fatalf("Notifications() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d notifications, want 2", len(list))
	}
	if list[0].ID != 2 {
		t.Errorf("list[0].ID = %d, want 2 (newest first)", list[0].ID)
	}
	if list[0].Kind != domain.KindModApproved {
		t.Errorf("list[0].Kind = %q, want %q", list[0].Kind, domain.KindModApproved)
	}
}

func TestUnreadNotificationCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/notifications/unread-count" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(domain.UnreadCount{Count: 7}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	count, err := c.UnreadNotificationCount(context.Background())
	if err != nil {
		t.Fatalf("UnreadNotificationCount() error: %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7", count)
	}
}

func TestMarkNotificationRead(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	if err := c.MarkNotificationRead(context.Background(), 42); err != nil {
		t.Fatalf("MarkNotificationRead() error: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotPath != "/api/notifications/42/read" {
		t.Errorf("path = %q, want /api/notifications/42/read", gotPath)
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	if err := c.MarkAllNotificationsRead(context.Background()); err != nil {
		t.Fatalf("MarkAllNotificationsRead() error: %v", err)
	}
	if gotPath != "/api/notifications/mark-all-read" {
		t.Errorf("path = %q, want /api/notifications/mark-all-read", gotPath)
	}
}

func TestDeleteNotification(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	if err := c.DeleteNotification(context.Background(), 9); err != nil {
		t.Fatalf("DeleteNotification() error: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", gotMethod)
	}
	if gotPath != "/api/notifications/9" {
		t.Errorf("path = %q, want /api/notifications/9", gotPath)
	}
}

func TestNotifications_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json at all")) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.Notifications(context.Background())
	if err == nil {
		t.Fatal("expected decode error for malformed body")
	}
	if !IsDecode(err) {
		t.Errorf("IsDecode(err) = false, want true; err = %v", err)
	}
}

func TestListMods_Filters(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]domain.Mod{{Title: "Exit Music"}}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	mods, err := c.ListMods(context.Background(), "pending", "horror", "exit", 25, 0)
	if err != nil {
		t.Fatalf("ListMods() error: %v", err)
	}
	if len(mods) != 1 {
		t.Fatalf("got %d mods, want 1", len(mods))
	}
	for _, want := range []string{"status=pending", "category=horror", "q=exit", "limit=25"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestRejectMod_SendsReason(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody) //nolint:errcheck
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	id := uuid.New()
	if err := c.RejectMod(context.Background(), id, "broken download link"); err != nil {
		t.Fatalf("RejectMod() error: %v", err)
	}
	if gotBody["reason"] != "broken download link" {
		t.Errorf("reason = %q, want %q", gotBody["reason"], "broken download link")
	}
}

func TestCreateComment_Reply(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody) //nolint:errcheck
		json.NewEncoder(w).Encode(domain.Comment{Body: "agreed"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	parent := uuid.New()
	created, err := c.CreateComment(context.Background(), uuid.New(), &parent, "agreed")
	if err != nil {
		t.Fatalf("CreateComment() error: %v", err)
	}
	if created.Body != "agreed" {
		t.Errorf("Body = %q, want %q", created.Body, "agreed")
	}
	if gotBody["parent_id"] != parent.String() {
		t.Errorf("parent_id = %v, want %s", gotBody["parent_id"], parent)
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			http.NotFound(w, r)
			return
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
		if req["username"] != "yuri" || req["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "bad credentials"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.Session{Token: "sess-token"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	session, err := c.Login(context.Background(), "yuri", "hunter2")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if session.Token != "sess-token" {
		t.Errorf("Token = %q, want %q", session.Token, "sess-token")
	}

	_, err = c.Login(context.Background(), "yuri", "wrong")
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
	if !IsStatus(err, 401) {
		t.Errorf("IsStatus(err, 401) = false; err = %v", err)
	}
}

func TestCheckUsername(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		taken := r.URL.Query().Get("username") == "monika"
		json.NewEncoder(w).Encode(map[string]bool{"available": !taken}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	available, err := c.CheckUsername(context.Background(), "monika")
	if err != nil {
		t.Fatalf("CheckUsername() error: %v", err)
	}
	if available {
		t.Error("available = true, want false")
	}

	available, err = c.CheckUsername(context.Background(), "sayori")
	if err != nil {
		t.Fatalf("CheckUsername() error: %v", err)
	}
	if !available {
		t.Error("available = false, want true")
	}
}
