package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/sayonika/sayonika-tui/pkg/domain"
)

// Client is the Sayonika API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the server address the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetMe returns the authenticated user's profile.
func (c *Client) GetMe(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/api/me", &u); err != nil {
		return nil, fmt.Errorf("client.GetMe: %w", err)
	}
	return &u, nil
}

// UpdateProfileRequest is the payload for updating the caller's profile.
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Email       string `json:"email,omitempty"`
}

// UpdateProfile updates the authenticated user's profile fields.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) error {
	if err := c.doRequest(ctx, http.MethodPatch, "/api/me", req, nil); err != nil {
		return fmt.Errorf("client.UpdateProfile: %w", err)
	}
	return nil
}

// GetAchievements returns the authenticated user's earned achievements.
func (c *Client) GetAchievements(ctx context.Context) ([]domain.Achievement, error) {
	var list []domain.Achievement
	if err := c.get(ctx, "/api/me/achievements", &list); err != nil {
		return nil, fmt.Errorf("client.GetAchievements: %w", err)
	}
	return list, nil
}

// --- Notifications ---

// Notifications fetches the full notification list, newest first.
func (c *Client) Notifications(ctx context.Context) ([]domain.Notification, error) {
	var list []domain.Notification
	if err := c.get(ctx, "/api/notifications", &list); err != nil {
		return nil, fmt.Errorf("client.Notifications: %w", err)
	}
	return list, nil
}

// UnreadNotificationCount fetches only the unread count, used by the
// background poll to avoid re-fetching the full list.
func (c *Client) UnreadNotificationCount(ctx context.Context) (int, error) {
	var out domain.UnreadCount
	if err := c.get(ctx, "/api/notifications/unread-count", &out); err != nil {
		return 0, fmt.Errorf("client.UnreadNotificationCount: %w", err)
	}
	return out.Count, nil
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	path := "/api/notifications/" + strconv.FormatInt(id, 10) + "/read"
	if err := c.doRequest(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("client.MarkNotificationRead: %w", err)
	}
	return nil
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/notifications/mark-all-read", nil, nil); err != nil {
		return fmt.Errorf("client.MarkAllNotificationsRead: %w", err)
	}
	return nil
}

// DeleteNotification deletes a single notification.
func (c *Client) DeleteNotification(ctx context.Context, id int64) error {
	path := "/api/notifications/" + strconv.FormatInt(id, 10)
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("client.DeleteNotification: %w", err)
	}
	return nil
}

// --- Mods ---

// CreateModRequest is the payload for publishing a new mod.
type CreateModRequest struct {
	Title       string `json:"title"`
	Tagline     string `json:"tagline,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	DownloadURL string `json:"download_url"`
	IconURL     string `json:"icon_url,omitempty"`
}

// ListMods fetches mods with optional status/category filters and a text query.
func (c *Client) ListMods(ctx context.Context, status, category, query string, limit, offset int) ([]domain.Mod, error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	if category != "" {
		params.Set("category", category)
	}
	if query != "" {
		params.Set("q", query)
	}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var mods []domain.Mod
	if err := c.get(ctx, "/api/mods?"+params.Encode(), &mods); err != nil {
		return nil, fmt.Errorf("client.ListMods: %w", err)
	}
	return mods, nil
}

// GetMod fetches a single mod by ID, including its comments.
func (c *Client) GetMod(ctx context.Context, id uuid.UUID) (*domain.Mod, error) {
	var mod domain.Mod
	if err := c.get(ctx, "/api/mods/"+id.String(), &mod); err != nil {
		return nil, fmt.Errorf("client.GetMod: %w", err)
	}
	return &mod, nil
}

// CreateMod publishes a new mod. It enters the moderation queue as pending.
func (c *Client) CreateMod(ctx context.Context, req CreateModRequest) (*domain.Mod, error) {
	var created domain.Mod
	if err := c.post(ctx, "/api/mods", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateMod: %w", err)
	}
	return &created, nil
}

// UpdateMod updates an existing mod's listing fields.
func (c *Client) UpdateMod(ctx context.Context, id uuid.UUID, req CreateModRequest) error {
	if err := c.doRequest(ctx, http.MethodPut, "/api/mods/"+id.String(), req, nil); err != nil {
		return fmt.Errorf("client.UpdateMod: %w", err)
	}
	return nil
}

// DeleteMod removes a mod listing.
func (c *Client) DeleteMod(ctx context.Context, id uuid.UUID) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/mods/"+id.String(), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteMod: %w", err)
	}
	return nil
}

// ApproveMod approves a pending mod. Admin only.
func (c *Client) ApproveMod(ctx context.Context, id uuid.UUID) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/mods/"+id.String()+"/approve", nil, nil); err != nil {
		return fmt.Errorf("client.ApproveMod: %w", err)
	}
	return nil
}

// RejectMod rejects a pending mod with a reason. Admin only.
func (c *Client) RejectMod(ctx context.Context, id uuid.UUID, reason string) error {
	body := map[string]string{"reason": reason}
	if err := c.doRequest(ctx, http.MethodPost, "/api/mods/"+id.String()+"/reject", body, nil); err != nil {
		return fmt.Errorf("client.RejectMod: %w", err)
	}
	return nil
}

// --- Comments ---

// ListComments fetches comments for a mod, oldest first.
func (c *Client) ListComments(ctx context.Context, modID uuid.UUID, limit, offset int) ([]domain.Comment, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var comments []domain.Comment
	if err := c.get(ctx, "/api/mods/"+modID.String()+"/comments?"+params.Encode(), &comments); err != nil {
		return nil, fmt.Errorf("client.ListComments: %w", err)
	}
	return comments, nil
}

// CreateComment posts a comment on a mod. A non-nil parentID makes it a reply.
func (c *Client) CreateComment(ctx context.Context, modID uuid.UUID, parentID *uuid.UUID, body string) (*domain.Comment, error) {
	req := map[string]any{"body": body}
	if parentID != nil {
		req["parent_id"] = parentID.String()
	}
	var created domain.Comment
	if err := c.post(ctx, "/api/mods/"+modID.String()+"/comments", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateComment: %w", err)
	}
	return &created, nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, id uuid.UUID) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/comments/"+id.String(), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteComment: %w", err)
	}
	return nil
}

// --- Tickets ---

// ListTickets fetches support tickets with an optional status filter.
// Non-admin callers only see their own tickets.
func (c *Client) ListTickets(ctx context.Context, status string, limit, offset int) ([]domain.Ticket, error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var tickets []domain.Ticket
	if err := c.get(ctx, "/api/tickets?"+params.Encode(), &tickets); err != nil {
		return nil, fmt.Errorf("client.ListTickets: %w", err)
	}
	return tickets, nil
}

// GetTicket fetches a single ticket with its reply thread.
func (c *Client) GetTicket(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := c.get(ctx, "/api/tickets/"+id.String(), &ticket); err != nil {
		return nil, fmt.Errorf("client.GetTicket: %w", err)
	}
	return &ticket, nil
}

// CreateTicket opens a new support ticket.
func (c *Client) CreateTicket(ctx context.Context, subject, body string) (*domain.Ticket, error) {
	req := map[string]string{"subject": subject, "body": body}
	var created domain.Ticket
	if err := c.post(ctx, "/api/tickets", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateTicket: %w", err)
	}
	return &created, nil
}

// ReplyTicket appends a reply to a ticket thread.
func (c *Client) ReplyTicket(ctx context.Context, id uuid.UUID, body string) (*domain.TicketReply, error) {
	var reply domain.TicketReply
	if err := c.post(ctx, "/api/tickets/"+id.String()+"/replies", map[string]string{"body": body}, &reply); err != nil {
		return nil, fmt.Errorf("client.ReplyTicket: %w", err)
	}
	return &reply, nil
}

// CloseTicket closes a ticket. Admin only.
func (c *Client) CloseTicket(ctx context.Context, id uuid.UUID) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/tickets/"+id.String()+"/close", nil, nil); err != nil {
		return fmt.Errorf("client.CloseTicket: %w", err)
	}
	return nil
}

// --- Auth ---

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	req := map[string]string{"username": username, "password": password}
	var session domain.Session
	if err := c.post(ctx, "/api/auth/login", req, &session); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &session, nil
}

// Register creates a new account and returns its session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.Session, error) {
	var session domain.Session
	if err := c.post(ctx, "/api/auth/register", req, &session); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &session, nil
}

// RequestPasswordReset asks the server to email a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	req := map[string]string{"email": email}
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/reset-password", req, nil); err != nil {
		return fmt.Errorf("client.RequestPasswordReset: %w", err)
	}
	return nil
}

// Logout invalidates the current session server-side.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// CheckUsername reports whether a username is still available.
func (c *Client) CheckUsername(ctx context.Context, username string) (bool, error) {
	var out struct {
		Available bool `json:"available"`
	}
	if err := c.get(ctx, "/api/auth/check-username?username="+url.QueryEscape(username), &out); err != nil {
		return false, fmt.Errorf("client.CheckUsername: %w", err)
	}
	return out.Available, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &DecodeError{Err: err}
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}
