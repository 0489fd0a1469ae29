package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/sayonika/sayonika-tui/internal/notify"
	"github.com/sayonika/sayonika-tui/pkg/client"
	"github.com/sayonika/sayonika-tui/pkg/domain"
)

// maxPanelItems caps how many records the panel lists. The store may hold
// more; only the newest ten are rendered.
const maxPanelItems = 10

// StoreChangedMsg is sent by the session bootstrap whenever the
// notification store mutates, so the badge and panel redraw.
type StoreChangedMsg struct{}

// -- messages --

type notifLoadedMsg struct {
	err error
}

type notifActionMsg struct {
	id  int64 // 0 for mark-all-read
	err error
}

// notifNavigateMsg asks the root model to navigate after an item click.
type notifNavigateMsg struct {
	kind      domain.NotificationKind
	relatedID *uuid.UUID
}

// notifModel is the notification panel: a two-state (closed/open) overlay
// listing the newest records. Opening always refreshes from the server;
// closing has no network effect.
type notifModel struct {
	engine *notify.Engine
	store  *notify.Store
	cursor int
	closed bool

	loading bool
	busy    bool   // a mutation is in flight; actions are disabled
	errMsg  string // non-empty renders the failed-to-load panel
	status  string // transient notice after a failed mutation
	width   int
	height  int
}

func newNotifModel(e *notify.Engine) notifModel {
	return notifModel{engine: e, store: e.Store()}
}

// open resets the panel and triggers the full-list fetch that every open
// performs.
func (m notifModel) open() (notifModel, tea.Cmd) {
	m.closed = false
	m.cursor = 0
	m.busy = false
	m.status = ""
	m.errMsg = ""
	m.loading = true
	return m, m.load()
}

func (m notifModel) load() tea.Cmd {
	e := m.engine
	return func() tea.Msg {
		return notifLoadedMsg{err: e.FetchAll(context.Background())}
	}
}

func (m notifModel) items() []domain.Notification {
	all := m.store.All()
	if len(all) > maxPanelItems {
		all = all[:maxPanelItems]
	}
	return all
}

func (m notifModel) Update(msg tea.Msg) (notifModel, tea.Cmd) {
	switch msg := msg.(type) {
	case notifLoadedMsg:
		m.loading = false
		if msg.err != nil {
			// Last-known-good store state stays; render the error panel.
			m.errMsg = failureNotice(msg.err)
		} else {
			m.errMsg = ""
		}
		return m, nil

	case notifActionMsg:
		m.busy = false
		if msg.err != nil {
			m.status = failureNotice(msg.err)
		} else {
			m.status = ""
		}
		if n := len(m.items()); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m notifModel) updateKeys(msg tea.KeyMsg) (notifModel, tea.Cmd) {
	items := m.items()

	switch msg.String() {
	case "esc", "b", "q":
		m.closed = true
		return m, nil

	case "j", "down":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "r":
		if m.errMsg != "" && !m.loading {
			m.loading = true
			m.errMsg = ""
			return m, m.load()
		}
		return m, nil

	case "a":
		if m.busy {
			return m, nil
		}
		m.busy = true
		e := m.engine
		return m, func() tea.Msg {
			return notifActionMsg{err: e.MarkAllRead(context.Background())}
		}

	case "d":
		if m.busy || len(items) == 0 {
			return m, nil
		}
		m.busy = true
		id := items[m.cursor].ID
		e := m.engine
		return m, func() tea.Msg {
			return notifActionMsg{id: id, err: e.Delete(context.Background(), id)}
		}

	case "enter":
		if m.busy || len(items) == 0 {
			return m, nil
		}
		item := items[m.cursor]
		m.busy = true
		e := m.engine
		markCmd := func() tea.Msg {
			return notifActionMsg{id: item.ID, err: e.MarkRead(context.Background(), item.ID)}
		}
		navCmd := func() tea.Msg {
			return notifNavigateMsg{kind: item.Kind, relatedID: item.RelatedID}
		}
		return m, tea.Batch(markCmd, navCmd)
	}
	return m, nil
}

func (m notifModel) View() string {
	panelWidth := min(56, m.width-4)
	if panelWidth < 36 {
		panelWidth = 36
	}
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Background(surfaceColor).
		Padding(1, 2).
		Width(panelWidth)

	var sb strings.Builder
	header := sectionHeaderStyle.Render("── NOTIFICATIONS ──")
	if unread := m.store.UnreadCount(); unread > 0 {
		header += "  " + badgePulseStyle.Render(formatBadge(unread))
	}
	sb.WriteString(header + "\n\n")

	switch {
	case m.loading:
		sb.WriteString(dimStyle.Render("loading...") + "\n")

	case m.errMsg != "":
		// Recoverable failure state, not an empty state.
		sb.WriteString(errorStyle.Render("failed to load notifications") + "\n")
		sb.WriteString(metaStyle.Render(m.errMsg) + "\n\n")
		sb.WriteString(helpKeyStyle.Render("r") + " " + helpLabelStyle.Render("retry") + "\n")

	case len(m.items()) == 0:
		sb.WriteString(dimStyle.Render("all caught up, nothing new") + "\n")

	default:
		for i, n := range m.items() {
			sb.WriteString(renderNotifRow(n, i == m.cursor, panelWidth-6) + "\n")
		}
	}

	if m.status != "" {
		sb.WriteString("\n" + errorStyle.Render(m.status))
	}

	sb.WriteString("\n")
	sb.WriteString(helpEntry("enter", "open") + "  " + helpEntry("a", "mark all read") + "  " +
		helpEntry("d", "delete") + "  " + helpEntry("esc", "close"))

	return "\n" + border.Render(sb.String())
}

// renderNotifRow renders one record: kind icon, unread dot, title, and a
// relative timestamp.
func renderNotifRow(n domain.Notification, selected bool, width int) string {
	icon := KindStyle(n.Kind).Render(KindIcon(n.Kind))

	dot := " "
	if !n.Read {
		dot = unreadDotStyle.Render("●")
	}

	title := truncStr(cleanText(n.Title), max(10, width-18))
	var titleStr string
	switch {
	case selected:
		titleStr = selectedStyle.Render(title)
	case n.Read:
		titleStr = dimStyle.Render(title)
	default:
		titleStr = normalStyle.Render(title)
	}

	row := " " + dot + " " + icon + " " + titleStr + "  " + commentTimeStyle.Render(formatTime(n.CreatedAt))
	if selected {
		return selectedRowBg.Render(row)
	}
	return row
}

// failureNotice turns a sync error into the short human-readable notice
// shown in the panel, preferring the server's message when present.
func failureNotice(err error) string {
	if msg := client.Message(err); msg != "" {
		return truncStr(msg, 60)
	}
	if client.IsDecode(err) {
		return "unexpected response from server"
	}
	return "network error"
}
