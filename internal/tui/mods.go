package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/sayonika/sayonika-tui/internal/draft"
	"github.com/sayonika/sayonika-tui/pkg/client"
	"github.com/sayonika/sayonika-tui/pkg/domain"
)

type modsMode int

const (
	modsList modsMode = iota
	modsSearch
	modsDetail
	modsCompose // writing a comment or reply
	modsReject  // admin typing a rejection reason
)

type modsLoadedMsg struct {
	mods []domain.Mod
	err  error
}

type modDetailMsg struct {
	mod      *domain.Mod
	comments []domain.Comment
	err      error
}

// modActionMsg reports the outcome of approve/reject/comment/delete calls.
type modActionMsg struct {
	notice string
	err    error
	reload bool // refetch the detail view on success
}

// statusFilters cycles on the "s" key. Empty means the server default
// (approved only for regular users, everything for staff).
var statusFilters = []string{"", string(domain.ModPending), string(domain.ModApproved), string(domain.ModRejected)}

type modsModel struct {
	client   *client.Client
	drafts   *draft.Store
	pageSize int
	admin    bool
	login    string

	mode modsMode

	// list state
	mods      []domain.Mod
	cursor    int
	offset    int
	loading   bool
	errMsg    string
	search    string
	searchBuf string
	category  int // index into ValidCategories, -1 for all
	statusIdx int

	// detail state
	mod       *domain.Mod
	comments  []domain.Comment
	comCursor int // 0 = description, 1..len(comments) = comment rows

	// compose state
	input     string
	replyTo   *uuid.UUID
	busy      bool
	status    string
	animFrame int

	width  int
	height int
}

func newModsModel(c *client.Client, drafts *draft.Store, pageSize int) modsModel {
	return modsModel{client: c, drafts: drafts, pageSize: pageSize, category: -1}
}

func (m modsModel) Init() tea.Cmd {
	m.loading = true
	return m.load()
}

func (m modsModel) editing() bool {
	return m.mode == modsSearch || m.mode == modsCompose || m.mode == modsReject
}

func (m modsModel) categoryFilter() string {
	if m.category < 0 {
		return ""
	}
	return domain.ValidCategories[m.category]
}

func (m modsModel) load() tea.Cmd {
	c := m.client
	status := statusFilters[m.statusIdx]
	category := m.categoryFilter()
	query := m.search
	limit, offset := m.pageSize, m.offset
	return func() tea.Msg {
		mods, err := c.ListMods(context.Background(), status, category, query, limit, offset)
		return modsLoadedMsg{mods: mods, err: err}
	}
}

func (m modsModel) loadDetail(id uuid.UUID) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		mod, err := c.GetMod(context.Background(), id)
		if err != nil {
			return modDetailMsg{err: err}
		}
		comments, err := c.ListComments(context.Background(), id, 200, 0)
		if err != nil {
			return modDetailMsg{err: err}
		}
		return modDetailMsg{mod: mod, comments: comments}
	}
}

// openModByID jumps straight to a mod's detail page. Used when following a
// notification or a home feed row.
func (m modsModel) openModByID(id uuid.UUID) (modsModel, tea.Cmd) {
	m.mode = modsDetail
	m.mod = nil
	m.comments = nil
	m.comCursor = 0
	m.loading = true
	m.errMsg = ""
	m.status = ""
	return m, m.loadDetail(id)
}

func (m modsModel) Update(msg tea.Msg) (modsModel, tea.Cmd) {
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

	case modsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = failureNotice(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.mods = msg.mods
		if m.cursor >= len(m.mods) {
			m.cursor = 0
		}
		return m, nil

	case modDetailMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = failureNotice(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.mod = msg.mod
		m.comments = threadOrder(msg.comments)
		if m.comCursor > len(m.comments) {
			m.comCursor = 0
		}
		return m, nil

	case modActionMsg:
		m.busy = false
		if msg.err != nil {
			m.status = errorStyle.Render(failureNotice(msg.err))
			return m, nil
		}
		m.status = dimStyle.Render(msg.notice)
		if msg.reload && m.mod != nil {
			m.loading = true
			return m, m.loadDetail(m.mod.ID)
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m modsModel) updateKeys(msg tea.KeyMsg) (modsModel, tea.Cmd) {
	switch m.mode {
	case modsSearch:
		switch msg.String() {
		case "esc":
			m.mode = modsList
			m.searchBuf = ""
		case "enter":
			m.mode = modsList
			m.search = m.searchBuf
			m.offset = 0
			m.loading = true
			return m, m.load()
		default:
			m.searchBuf = editRune(m.searchBuf, msg.String())
		}
		return m, nil

	case modsCompose:
		switch msg.String() {
		case "esc":
			// Keep the half-written comment around for next time.
			m.mode = modsDetail
			body, modID := m.input, m.mod.ID.String()
			m.input = ""
			m.replyTo = nil
			d := m.drafts
			return m, func() tea.Msg {
				d.Save(context.Background(), draft.KindComment, modID, body) //nolint:errcheck
				return nil
			}
		case "ctrl+d":
			body := strings.TrimSpace(m.input)
			if body == "" || m.busy {
				return m, nil
			}
			m.busy = true
			c, d := m.client, m.drafts
			modID, parent := m.mod.ID, m.replyTo
			m.mode = modsDetail
			m.input = ""
			m.replyTo = nil
			return m, func() tea.Msg {
				_, err := c.CreateComment(context.Background(), modID, parent, body)
				if err == nil {
					d.Delete(context.Background(), draft.KindComment, modID.String()) //nolint:errcheck
				}
				return modActionMsg{notice: "comment posted", err: err, reload: true}
			}
		case "enter":
			if len(m.input) < maxInputLen {
				m.input += "\n"
			}
		default:
			m.input = editRune(m.input, msg.String())
		}
		return m, nil

	case modsReject:
		switch msg.String() {
		case "esc":
			m.mode = modsDetail
			m.input = ""
		case "enter":
			reason := strings.TrimSpace(m.input)
			if reason == "" || m.busy {
				return m, nil
			}
			m.busy = true
			m.mode = modsDetail
			m.input = ""
			c := m.client
			id := m.mod.ID
			return m, func() tea.Msg {
				err := c.RejectMod(context.Background(), id, reason)
				return modActionMsg{notice: "mod rejected", err: err, reload: true}
			}
		default:
			m.input = editRune(m.input, msg.String())
		}
		return m, nil

	case modsDetail:
		return m.updateDetailKeys(msg)
	}

	// list mode
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.mods)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g":
		m.cursor = 0
	case "G":
		if len(m.mods) > 0 {
			m.cursor = len(m.mods) - 1
		}
	case "n":
		if len(m.mods) == m.pageSize {
			m.offset += m.pageSize
			m.cursor = 0
			m.loading = true
			return m, m.load()
		}
	case "p":
		if m.offset > 0 {
			m.offset = max(0, m.offset-m.pageSize)
			m.cursor = 0
			m.loading = true
			return m, m.load()
		}
	case "/":
		m.mode = modsSearch
		m.searchBuf = m.search
	case "c":
		m.category++
		if m.category >= len(domain.ValidCategories) {
			m.category = -1
		}
		m.offset = 0
		m.loading = true
		return m, m.load()
	case "s":
		if !m.admin {
			return m, nil
		}
		m.statusIdx = (m.statusIdx + 1) % len(statusFilters)
		m.offset = 0
		m.loading = true
		return m, m.load()
	case "r":
		m.loading = true
		return m, m.load()
	case "enter":
		if m.cursor < len(m.mods) {
			return m.openModByID(m.mods[m.cursor].ID)
		}
	}
	return m, nil
}

func (m modsModel) updateDetailKeys(msg tea.KeyMsg) (modsModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modsList
		m.mod = nil
		m.status = ""
		m.loading = true
		return m, m.load()
	case "j", "down":
		if m.comCursor < len(m.comments) {
			m.comCursor++
		}
	case "k", "up":
		if m.comCursor > 0 {
			m.comCursor--
		}
	case "r":
		if m.mod != nil {
			m.loading = true
			return m, m.loadDetail(m.mod.ID)
		}
	case "y":
		if m.mod != nil {
			url := m.client.BaseURL() + "/mods/" + m.mod.Slug
			if err := clipboard.WriteAll(url); err != nil {
				m.status = errorStyle.Render("clipboard unavailable")
			} else {
				m.status = dimStyle.Render("link copied")
			}
		}
	case "n":
		if m.mod == nil || m.busy {
			return m, nil
		}
		m.mode = modsCompose
		m.replyTo = nil
		d := m.drafts
		modID := m.mod.ID.String()
		if body, err := d.Get(context.Background(), draft.KindComment, modID); err == nil {
			m.input = body
		}
		return m, nil
	case "R":
		// reply to the selected comment
		if m.mod == nil || m.busy || m.comCursor == 0 || m.comCursor > len(m.comments) {
			return m, nil
		}
		parent := m.comments[m.comCursor-1].ID
		m.mode = modsCompose
		m.replyTo = &parent
		m.input = ""
		return m, nil
	case "d":
		if m.comCursor == 0 || m.comCursor > len(m.comments) || m.busy {
			return m, nil
		}
		com := m.comments[m.comCursor-1]
		if !m.admin && com.Login != m.login {
			return m, nil
		}
		m.busy = true
		c := m.client
		return m, func() tea.Msg {
			err := c.DeleteComment(context.Background(), com.ID)
			return modActionMsg{notice: "comment deleted", err: err, reload: true}
		}
	case "A":
		if !m.admin || m.mod == nil || m.mod.Status != domain.ModPending || m.busy {
			return m, nil
		}
		m.busy = true
		c := m.client
		id := m.mod.ID
		return m, func() tea.Msg {
			err := c.ApproveMod(context.Background(), id)
			return modActionMsg{notice: "mod approved", err: err, reload: true}
		}
	case "X":
		if !m.admin || m.mod == nil || m.mod.Status != domain.ModPending || m.busy {
			return m, nil
		}
		m.mode = modsReject
		m.input = ""
	}
	return m, nil
}

// threadOrder arranges comments so replies sit directly under their parent.
func threadOrder(comments []domain.Comment) []domain.Comment {
	var roots []domain.Comment
	replies := make(map[uuid.UUID][]domain.Comment)
	for _, c := range comments {
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			replies[*c.ParentID] = append(replies[*c.ParentID], c)
		}
	}
	out := make([]domain.Comment, 0, len(comments))
	for _, r := range roots {
		out = append(out, r)
		out = append(out, replies[r.ID]...)
	}
	// Orphaned replies (parent deleted or paged out) go at the end.
	seen := make(map[uuid.UUID]bool, len(out))
	for _, c := range out {
		seen[c.ID] = true
	}
	for _, c := range comments {
		if !seen[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

func (m modsModel) helpKeys() string {
	switch m.mode {
	case modsSearch:
		return helpEntry("enter", "search") + "  " + helpEntry("esc", "cancel")
	case modsCompose:
		return helpEntry("ctrl+d", "post") + "  " + helpEntry("esc", "save draft")
	case modsReject:
		return helpEntry("enter", "reject") + "  " + helpEntry("esc", "cancel")
	case modsDetail:
		keys := helpEntry("n", "comment") + "  " + helpEntry("R", "reply") + "  " + helpEntry("y", "copy link")
		if m.admin && m.mod != nil && m.mod.Status == domain.ModPending {
			keys += "  " + helpEntry("A", "approve") + "  " + helpEntry("X", "reject")
		}
		return keys + "  " + helpEntry("esc", "back")
	}
	keys := helpEntry("/", "search") + "  " + helpEntry("c", "category") + "  " + helpEntry("n/p", "page")
	if m.admin {
		keys += "  " + helpEntry("s", "status")
	}
	return keys + "  " + helpEntry("enter", "open")
}

func (m modsModel) View() string {
	switch m.mode {
	case modsDetail, modsCompose, modsReject:
		return m.detailView()
	}
	return m.listView()
}

func (m modsModel) listView() string {
	var b strings.Builder

	filters := []string{}
	if m.search != "" {
		filters = append(filters, searchStyle.Render("/"+m.search))
	}
	if m.category >= 0 {
		filters = append(filters, CategoryStyle(m.categoryFilter()).Render(m.categoryFilter()))
	}
	if statusFilters[m.statusIdx] != "" {
		filters = append(filters, StatusStyle(domain.ModStatus(statusFilters[m.statusIdx])).Render(statusFilters[m.statusIdx]))
	}
	header := sectionHeaderStyle.Render("Mods")
	if len(filters) > 0 {
		header += "  " + strings.Join(filters, " ")
	}
	if m.offset > 0 {
		header += "  " + dimStyle.Render(fmt.Sprintf("page %d", m.offset/m.pageSize+1))
	}
	b.WriteString("\n " + header + "\n\n")

	if m.mode == modsSearch {
		b.WriteString(" " + searchStyle.Render("/"+m.searchBuf+"█") + "\n\n")
	}
	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.errMsg != "" {
		b.WriteString(" " + errorStyle.Render(m.errMsg) + "\n")
		b.WriteString(" " + dimStyle.Render("press r to retry") + "\n")
		return b.String()
	}
	if len(m.mods) == 0 {
		b.WriteString(" " + dimStyle.Render("no mods match") + "\n")
		return b.String()
	}

	visible := m.height - 5
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(m.mods))
	for i := start; i < end; i++ {
		mod := m.mods[i]
		line := renderModRow(mod, i == m.cursor, m.width)
		if mod.Status != domain.ModApproved {
			line += " " + StatusStyle(mod.Status).Render(string(mod.Status))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m modsModel) detailView() string {
	var b strings.Builder
	if m.loading || m.mod == nil {
		if m.errMsg != "" {
			b.WriteString("\n " + errorStyle.Render(m.errMsg) + "\n")
			b.WriteString(" " + dimStyle.Render("press r to retry, esc to go back") + "\n")
			return b.String()
		}
		b.WriteString("\n " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}

	mod := m.mod
	title := selectedStyle.Render(mod.Title)
	b.WriteString("\n " + title + "  " + CategoryStyle(mod.Category).Render(mod.Category) + "  " + StatusStyle(mod.Status).Render(string(mod.Status)) + "\n")
	if mod.Tagline != "" {
		b.WriteString(" " + metaStyle.Render(mod.Tagline) + "\n")
	}
	author := ""
	if mod.Author != nil {
		author = "by " + mod.Author.Login + " . "
	}
	b.WriteString(" " + dimStyle.Render(fmt.Sprintf("%s%d downloads . %d favorites . %s", author, mod.Downloads, mod.Favorites, formatTime(mod.CreatedAt))) + "\n")
	if mod.Status == domain.ModRejected && mod.RejectReason != "" {
		b.WriteString(" " + rejectStyle.Render("rejected: "+mod.RejectReason) + "\n")
	}
	b.WriteString("\n")

	if mod.Description != "" {
		desc := cleanText(mod.Description)
		width := min(m.width-4, 76)
		if width < 20 {
			width = 20
		}
		prefix := "   "
		if m.comCursor == 0 {
			prefix = accentStyle.Render(" > ")
		}
		for i, line := range wrapText(desc, width) {
			if i == 0 {
				b.WriteString(prefix + commentTextStyle.Render(line) + "\n")
			} else {
				b.WriteString("   " + commentTextStyle.Render(line) + "\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("Comments (%d)", len(m.comments))) + "\n\n")
	if len(m.comments) == 0 {
		b.WriteString(" " + dimStyle.Render("no comments yet") + "\n")
	}
	for i, com := range m.comments {
		selected := m.comCursor == i+1
		b.WriteString(renderComment(com, selected, m.width) + "\n")
	}

	if m.mode == modsCompose {
		label := "new comment"
		if m.replyTo != nil {
			label = "reply"
		}
		b.WriteString("\n " + sectionHeaderStyle.Render(label) + "\n")
		b.WriteString(renderComposeInput(m.input, "say something nice...", true, m.animFrame) + "\n")
	}
	if m.mode == modsReject {
		b.WriteString("\n " + rejectStyle.Render("rejection reason:") + " " + m.input + accentStyle.Render("█") + "\n")
	}
	if m.status != "" {
		b.WriteString("\n " + m.status + "\n")
	}
	return b.String()
}

func renderComment(com domain.Comment, selected bool, width int) string {
	indent := " "
	if com.ParentID != nil {
		indent = "     "
	}
	marker := "  "
	if selected {
		marker = accentStyle.Render("> ")
	}
	head := normalStyle.Render("@"+com.Login) + " " + commentTimeStyle.Render(formatTime(com.CreatedAt))
	bodyWidth := min(width-len(indent)-4, 72)
	if bodyWidth < 20 {
		bodyWidth = 20
	}
	var b strings.Builder
	b.WriteString(indent + marker + head)
	for _, line := range wrapText(cleanText(com.Body), bodyWidth) {
		b.WriteString("\n" + indent + "  " + commentTextStyle.Render(line))
	}
	return b.String()
}

// wrapText does simple greedy word wrapping.
func wrapText(s string, width int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len(line)+1+len(w) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
