package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sayonika/sayonika-tui/pkg/client"
	"github.com/sayonika/sayonika-tui/pkg/domain"
)

type youMode int

const (
	youView youMode = iota
	youEdit
)

type youLoadedMsg struct {
	me           *domain.User
	achievements []domain.Achievement
	err          error
}

type youSavedMsg struct {
	err error
}

// youModel shows the signed-in user's profile and achievements.
type youModel struct {
	client *client.Client

	mode             youMode
	me               *domain.User
	achievements     []domain.Achievement
	showAchievements bool

	// edit state
	nameBuf string
	bioBuf  string
	onBio   bool

	loading bool
	busy    bool
	errMsg  string
	status  string

	width  int
	height int
}

func newYouModel(c *client.Client) youModel {
	return youModel{client: c}
}

func (m youModel) Init() tea.Cmd {
	m.loading = true
	return m.load()
}

func (m youModel) editing() bool {
	return m.mode == youEdit
}

func (m youModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		me, err := c.GetMe(context.Background())
		if err != nil {
			return youLoadedMsg{err: err}
		}
		achievements, err := c.GetAchievements(context.Background())
		if err != nil {
			return youLoadedMsg{err: err}
		}
		return youLoadedMsg{me: me, achievements: achievements}
	}
}

func (m youModel) Update(msg tea.Msg) (youModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case meLoadedMsg:
		if m.me == nil {
			m.me = msg.me
		}
		return m, nil

	case youLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = failureNotice(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.me = msg.me
		m.achievements = msg.achievements
		return m, nil

	case youSavedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = errorStyle.Render(failureNotice(msg.err))
			return m, nil
		}
		m.status = dimStyle.Render("profile saved")
		m.loading = true
		return m, m.load()

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m youModel) updateKeys(msg tea.KeyMsg) (youModel, tea.Cmd) {
	if m.mode == youEdit {
		switch msg.String() {
		case "esc":
			m.mode = youView
		case "tab":
			m.onBio = !m.onBio
		case "enter":
			if !m.onBio {
				m.onBio = true
			} else if len(m.bioBuf) < maxInputLen {
				m.bioBuf += "\n"
			}
		case "ctrl+d":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.mode = youView
			c := m.client
			req := client.UpdateProfileRequest{
				DisplayName: strings.TrimSpace(m.nameBuf),
				Bio:         strings.TrimSpace(m.bioBuf),
			}
			return m, func() tea.Msg {
				return youSavedMsg{err: c.UpdateProfile(context.Background(), req)}
			}
		default:
			if m.onBio {
				m.bioBuf = editRune(m.bioBuf, msg.String())
			} else {
				m.nameBuf = editRune(m.nameBuf, msg.String())
				if len(m.nameBuf) > 60 {
					m.nameBuf = m.nameBuf[:60]
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "e":
		if m.me == nil || m.busy {
			return m, nil
		}
		m.mode = youEdit
		m.onBio = false
		m.nameBuf = m.me.DisplayName
		m.bioBuf = m.me.Bio
		m.status = ""
	case "a":
		m.showAchievements = !m.showAchievements
	case "r":
		m.loading = true
		m.errMsg = ""
		return m, m.load()
	}
	return m, nil
}

func (m youModel) helpKeys() string {
	if m.mode == youEdit {
		return helpEntry("tab", "field") + "  " + helpEntry("ctrl+d", "save") + "  " + helpEntry("esc", "cancel")
	}
	return helpEntry("e", "edit profile") + "  " + helpEntry("a", "achievements") + "  " + helpEntry("r", "refresh")
}

func (m youModel) View() string {
	var b strings.Builder
	if m.loading || m.me == nil {
		if m.errMsg != "" {
			b.WriteString("\n " + errorStyle.Render(m.errMsg) + "\n")
			b.WriteString(" " + dimStyle.Render("press r to retry") + "\n")
			return b.String()
		}
		b.WriteString("\n " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}

	me := m.me
	name := me.DisplayName
	if name == "" {
		name = me.Login
	}
	title := selectedStyle.Render(name) + "  " + metaStyle.Render("@"+me.Login)
	if me.Admin {
		title += "  " + staffStyle.Render("staff")
	}
	b.WriteString("\n " + title + "\n")
	b.WriteString(" " + dimStyle.Render(fmt.Sprintf("%d mods published . joined %s", me.ModCount, me.CreatedAt.Format("Jan 2, 2006"))) + "\n")
	if me.Email != "" {
		b.WriteString(" " + dimStyle.Render(me.Email) + "\n")
	}
	b.WriteString("\n")

	if m.mode == youEdit {
		nameLine := m.nameBuf
		if !m.onBio {
			nameLine += accentStyle.Render("█")
		}
		b.WriteString(" " + dimStyle.Render("display name: ") + inputPromptStyle.Render(nameLine) + "\n\n")
		b.WriteString(" " + dimStyle.Render("bio:") + "\n")
		b.WriteString(renderComposeInput(m.bioBuf, "tell us about yourself...", m.onBio, 0) + "\n")
		return b.String()
	}

	if me.Bio != "" {
		width := min(m.width-4, 72)
		if width < 20 {
			width = 20
		}
		for _, line := range wrapText(cleanText(me.Bio), width) {
			b.WriteString(" " + commentTextStyle.Render(line) + "\n")
		}
		b.WriteString("\n")
	}

	if m.showAchievements {
		b.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("Achievements (%d)", len(m.achievements))) + "\n\n")
		if len(m.achievements) == 0 {
			b.WriteString(" " + dimStyle.Render("none yet, keep at it") + "\n")
		}
		for _, a := range m.achievements {
			b.WriteString(" " + accentStyle.Render("★ ") + normalStyle.Render(a.Name) + "  " + dimStyle.Render(formatTime(a.EarnedAt)) + "\n")
			if a.Description != "" {
				b.WriteString("   " + metaStyle.Render(a.Description) + "\n")
			}
		}
	} else {
		b.WriteString(" " + dimStyle.Render(fmt.Sprintf("%d achievements earned, press a to show", len(m.achievements))) + "\n")
	}

	if m.status != "" {
		b.WriteString("\n " + m.status + "\n")
	}
	return b.String()
}
