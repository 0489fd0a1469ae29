package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/sayonika/sayonika-tui/pkg/client"
	"github.com/sayonika/sayonika-tui/pkg/domain"
)

type homeLoadedMsg struct {
	mods []domain.Mod
	err  error
}

// homeOpenModMsg asks the root model to jump to a mod's detail page.
type homeOpenModMsg struct {
	id uuid.UUID
}

// homeModel shows the latest approved mods, newest first.
type homeModel struct {
	client   *client.Client
	pageSize int

	mods    []domain.Mod
	cursor  int
	loading bool
	errMsg  string
	spin    spinner.Model

	width  int
	height int
}

func newHomeModel(c *client.Client, pageSize int) homeModel {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = accentStyle
	return homeModel{client: c, pageSize: pageSize, spin: sp}
}

func (m homeModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spin.Tick)
}

func (m homeModel) load() tea.Cmd {
	c := m.client
	limit := m.pageSize
	return func() tea.Msg {
		mods, err := c.ListMods(context.Background(), string(domain.ModApproved), "", "", limit, 0)
		return homeLoadedMsg{mods: mods, err: err}
	}
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case homeLoadedMsg:
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

	case tea.KeyMsg:
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
		case "r":
			m.loading = true
			m.errMsg = ""
			return m, tea.Batch(m.load(), m.spin.Tick)
		case "enter":
			if m.cursor < len(m.mods) {
				id := m.mods[m.cursor].ID
				return m, func() tea.Msg { return homeOpenModMsg{id: id} }
			}
		}
	}
	return m, nil
}

func (m homeModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + sectionHeaderStyle.Render("Fresh from the oven") + "\n\n")

	if m.loading {
		b.WriteString(" " + m.spin.View() + dimStyle.Render(" loading...") + "\n")
		return b.String()
	}
	if m.errMsg != "" {
		b.WriteString(" " + errorStyle.Render(m.errMsg) + "\n")
		b.WriteString(" " + dimStyle.Render("press r to retry") + "\n")
		return b.String()
	}
	if len(m.mods) == 0 {
		b.WriteString(" " + dimStyle.Render("nothing here yet") + "\n")
		return b.String()
	}

	visible := m.height - 4
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
		b.WriteString(line + "\n")
	}
	return b.String()
}

// renderModRow renders a single mod list line shared by the home feed and
// the mods browser.
func renderModRow(mod domain.Mod, selected bool, width int) string {
	marker := "  "
	if selected {
		marker = accentStyle.Render("> ")
	}
	title := truncStr(mod.Title, 32)
	if selected {
		title = selectedStyle.Render(title)
	} else {
		title = normalStyle.Render(title)
	}
	author := ""
	if mod.Author != nil {
		author = metaStyle.Render("by " + mod.Author.Login)
	}
	stats := dimStyle.Render(fmt.Sprintf("%d dl . %d fav", mod.Downloads, mod.Favorites))
	cat := CategoryStyle(mod.Category).Render(mod.Category)

	line := fmt.Sprintf(" %s%s %s  %s  %s  %s", marker, title, cat, author, stats, dimStyle.Render(formatTime(mod.CreatedAt)))
	return line
}
