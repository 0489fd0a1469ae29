package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/sayonika/sayonika-tui/internal/draft"
	"github.com/sayonika/sayonika-tui/pkg/client"
	"github.com/sayonika/sayonika-tui/pkg/domain"
)

type ticketsMode int

const (
	ticketsList ticketsMode = iota
	ticketsDetail
	ticketsReply
	ticketsCreate
)

type ticketsLoadedMsg struct {
	tickets []domain.Ticket
	err     error
}

type ticketDetailMsg struct {
	ticket *domain.Ticket
	err    error
}

type ticketActionMsg struct {
	notice string
	err    error
	reload bool
}

var ticketStatusFilters = []string{"", string(domain.TicketOpen), string(domain.TicketAnswered), string(domain.TicketClosed)}

type ticketsModel struct {
	client   *client.Client
	drafts   *draft.Store
	pageSize int
	admin    bool
	login    string

	mode ticketsMode

	tickets   []domain.Ticket
	cursor    int
	offset    int
	statusIdx int
	loading   bool
	errMsg    string

	ticket *domain.Ticket

	// compose state, shared by reply and create
	input     string
	subject   string
	onSubject bool // create mode: editing the subject line
	busy      bool
	status    string
	animFrame int

	width  int
	height int
}

func newTicketsModel(c *client.Client, drafts *draft.Store, pageSize int) ticketsModel {
	return ticketsModel{client: c, drafts: drafts, pageSize: pageSize}
}

func (m ticketsModel) Init() tea.Cmd {
	m.loading = true
	return m.load()
}

func (m ticketsModel) editing() bool {
	return m.mode == ticketsReply || m.mode == ticketsCreate
}

func (m ticketsModel) load() tea.Cmd {
	c := m.client
	status := ticketStatusFilters[m.statusIdx]
	limit, offset := m.pageSize, m.offset
	return func() tea.Msg {
		tickets, err := c.ListTickets(context.Background(), status, limit, offset)
		return ticketsLoadedMsg{tickets: tickets, err: err}
	}
}

func (m ticketsModel) loadDetail(id uuid.UUID) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		t, err := c.GetTicket(context.Background(), id)
		return ticketDetailMsg{ticket: t, err: err}
	}
}

func (m ticketsModel) Update(msg tea.Msg) (ticketsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case meLoadedMsg:
		m.admin = msg.me.Admin
		m.login = msg.me.Login
		return m, nil

	case shimmerTickMsg:
		m.animFrame++
		return m, nil

	case ticketsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = failureNotice(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.tickets = msg.tickets
		if m.cursor >= len(m.tickets) {
			m.cursor = 0
		}
		return m, nil

	case ticketDetailMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = failureNotice(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.ticket = msg.ticket
		return m, nil

	case ticketActionMsg:
		m.busy = false
		if msg.err != nil {
			m.status = errorStyle.Render(failureNotice(msg.err))
			return m, nil
		}
		m.status = dimStyle.Render(msg.notice)
		if msg.reload {
			m.loading = true
			if m.ticket != nil && m.mode != ticketsList {
				return m, m.loadDetail(m.ticket.ID)
			}
			return m, m.load()
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m ticketsModel) updateKeys(msg tea.KeyMsg) (ticketsModel, tea.Cmd) {
	switch m.mode {
	case ticketsReply:
		switch msg.String() {
		case "esc":
			m.mode = ticketsDetail
			body, id := m.input, m.ticket.ID.String()
			m.input = ""
			d := m.drafts
			return m, func() tea.Msg {
				d.Save(context.Background(), draft.KindTicketReply, id, body) //nolint:errcheck
				return nil
			}
		case "ctrl+d":
			body := strings.TrimSpace(m.input)
			if body == "" || m.busy {
				return m, nil
			}
			m.busy = true
			m.mode = ticketsDetail
			m.input = ""
			c, d := m.client, m.drafts
			id := m.ticket.ID
			return m, func() tea.Msg {
				_, err := c.ReplyTicket(context.Background(), id, body)
				if err == nil {
					d.Delete(context.Background(), draft.KindTicketReply, id.String()) //nolint:errcheck
				}
				return ticketActionMsg{notice: "reply sent", err: err, reload: true}
			}
		case "enter":
			if len(m.input) < maxInputLen {
				m.input += "\n"
			}
		default:
			m.input = editRune(m.input, msg.String())
		}
		return m, nil

	case ticketsCreate:
		switch msg.String() {
		case "esc":
			m.mode = ticketsList
			m.subject = ""
			m.input = ""
		case "tab":
			m.onSubject = !m.onSubject
		case "ctrl+d":
			subject := strings.TrimSpace(m.subject)
			body := strings.TrimSpace(m.input)
			if subject == "" || body == "" || m.busy {
				return m, nil
			}
			m.busy = true
			m.mode = ticketsList
			m.subject = ""
			m.input = ""
			c := m.client
			return m, func() tea.Msg {
				_, err := c.CreateTicket(context.Background(), subject, body)
				return ticketActionMsg{notice: "ticket opened", err: err, reload: true}
			}
		case "enter":
			if m.onSubject {
				m.onSubject = false
			} else if len(m.input) < maxInputLen {
				m.input += "\n"
			}
		default:
			if m.onSubject {
				m.subject = editRune(m.subject, msg.String())
				if len(m.subject) > 120 {
					m.subject = m.subject[:120]
				}
			} else {
				m.input = editRune(m.input, msg.String())
			}
		}
		return m, nil

	case ticketsDetail:
		switch msg.String() {
		case "esc":
			m.mode = ticketsList
			m.ticket = nil
			m.status = ""
			m.loading = true
			return m, m.load()
		case "r":
			if m.ticket != nil {
				m.loading = true
				return m, m.loadDetail(m.ticket.ID)
			}
		case "n":
			if m.ticket == nil || m.busy || m.ticket.Status == domain.TicketClosed {
				return m, nil
			}
			m.mode = ticketsReply
			d := m.drafts
			id := m.ticket.ID.String()
			if body, err := d.Get(context.Background(), draft.KindTicketReply, id); err == nil {
				m.input = body
			}
			return m, nil
		case "x":
			if m.ticket == nil || m.busy || m.ticket.Status == domain.TicketClosed {
				return m, nil
			}
			if !m.admin && m.ticket.Opener != m.login {
				return m, nil
			}
			m.busy = true
			c := m.client
			id := m.ticket.ID
			return m, func() tea.Msg {
				err := c.CloseTicket(context.Background(), id)
				return ticketActionMsg{notice: "ticket closed", err: err, reload: true}
			}
		}
		return m, nil
	}

	// list mode
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.tickets)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "s":
		m.statusIdx = (m.statusIdx + 1) % len(ticketStatusFilters)
		m.offset = 0
		m.loading = true
		return m, m.load()
	case "n":
		m.mode = ticketsCreate
		m.onSubject = true
		m.subject = ""
		m.input = ""
		m.status = ""
	case "r":
		m.loading = true
		return m, m.load()
	case "enter":
		if m.cursor < len(m.tickets) {
			m.mode = ticketsDetail
			m.ticket = nil
			m.loading = true
			m.status = ""
			return m, m.loadDetail(m.tickets[m.cursor].ID)
		}
	}
	return m, nil
}

func (m ticketsModel) helpKeys() string {
	switch m.mode {
	case ticketsReply:
		return helpEntry("ctrl+d", "send") + "  " + helpEntry("esc", "save draft")
	case ticketsCreate:
		return helpEntry("tab", "field") + "  " + helpEntry("ctrl+d", "open ticket") + "  " + helpEntry("esc", "cancel")
	case ticketsDetail:
		keys := helpEntry("n", "reply")
		if m.ticket != nil && m.ticket.Status != domain.TicketClosed {
			keys += "  " + helpEntry("x", "close ticket")
		}
		return keys + "  " + helpEntry("esc", "back")
	}
	return helpEntry("n", "new ticket") + "  " + helpEntry("s", "status") + "  " + helpEntry("enter", "open")
}

func ticketStatusStyle(s domain.TicketStatus) string {
	switch s {
	case domain.TicketOpen:
		return pendingStyle.Render(string(s))
	case domain.TicketAnswered:
		return approveStyle.Render(string(s))
	default:
		return dimStyle.Render(string(s))
	}
}

func (m ticketsModel) View() string {
	switch m.mode {
	case ticketsDetail, ticketsReply:
		return m.detailView()
	case ticketsCreate:
		return m.createView()
	}
	return m.listView()
}

func (m ticketsModel) listView() string {
	var b strings.Builder
	header := sectionHeaderStyle.Render("Tickets")
	if f := ticketStatusFilters[m.statusIdx]; f != "" {
		header += "  " + ticketStatusStyle(domain.TicketStatus(f))
	}
	b.WriteString("\n " + header + "\n\n")

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.errMsg != "" {
		b.WriteString(" " + errorStyle.Render(m.errMsg) + "\n")
		b.WriteString(" " + dimStyle.Render("press r to retry") + "\n")
		return b.String()
	}
	if len(m.tickets) == 0 {
		b.WriteString(" " + dimStyle.Render("no tickets, all quiet") + "\n")
		return b.String()
	}

	for i, t := range m.tickets {
		marker := "  "
		subject := truncStr(t.Subject, 48)
		if i == m.cursor {
			marker = accentStyle.Render("> ")
			subject = selectedStyle.Render(subject)
		} else {
			subject = normalStyle.Render(subject)
		}
		line := fmt.Sprintf(" %s%s  %s  %s  %s", marker, subject,
			ticketStatusStyle(t.Status),
			metaStyle.Render("@"+t.Opener),
			dimStyle.Render(formatTime(t.CreatedAt)))
		b.WriteString(line + "\n")
	}
	if m.status != "" {
		b.WriteString("\n " + m.status + "\n")
	}
	return b.String()
}

func (m ticketsModel) detailView() string {
	var b strings.Builder
	if m.loading || m.ticket == nil {
		if m.errMsg != "" {
			b.WriteString("\n " + errorStyle.Render(m.errMsg) + "\n")
			b.WriteString(" " + dimStyle.Render("press r to retry, esc to go back") + "\n")
			return b.String()
		}
		b.WriteString("\n " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}

	t := m.ticket
	b.WriteString("\n " + selectedStyle.Render(t.Subject) + "  " + ticketStatusStyle(t.Status) + "\n")
	b.WriteString(" " + dimStyle.Render(fmt.Sprintf("opened by @%s . %s", t.Opener, formatTime(t.CreatedAt))) + "\n\n")

	for _, r := range t.Replies {
		name := "@" + r.Login
		if r.Staff {
			name += " " + staffStyle.Render("staff")
		}
		b.WriteString(" " + normalStyle.Render(name) + " " + commentTimeStyle.Render(formatTime(r.CreatedAt)) + "\n")
		width := min(m.width-4, 72)
		if width < 20 {
			width = 20
		}
		for _, line := range wrapText(cleanText(r.Body), width) {
			b.WriteString("   " + commentTextStyle.Render(line) + "\n")
		}
		b.WriteString("\n")
	}

	if m.mode == ticketsReply {
		b.WriteString(" " + sectionHeaderStyle.Render("reply") + "\n")
		b.WriteString(renderComposeInput(m.input, "write your reply...", true, m.animFrame) + "\n")
	}
	if m.status != "" {
		b.WriteString(" " + m.status + "\n")
	}
	return b.String()
}

func (m ticketsModel) createView() string {
	var b strings.Builder
	b.WriteString("\n " + sectionHeaderStyle.Render("New ticket") + "\n\n")

	subjectLabel := dimStyle.Render("subject: ")
	subject := m.subject
	if m.onSubject {
		subject += accentStyle.Render("█")
	}
	b.WriteString(" " + subjectLabel + inputPromptStyle.Render(subject) + "\n\n")
	b.WriteString(renderComposeInput(m.input, "describe the problem...", !m.onSubject, m.animFrame) + "\n")
	if m.status != "" {
		b.WriteString("\n " + m.status + "\n")
	}
	return b.String()
}
