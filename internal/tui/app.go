package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sayonika/sayonika-tui/internal/browser"
	"github.com/sayonika/sayonika-tui/internal/draft"
	"github.com/sayonika/sayonika-tui/internal/notify"
	"github.com/sayonika/sayonika-tui/pkg/client"
	"github.com/sayonika/sayonika-tui/pkg/domain"
)

type view int

const (
	viewHome view = iota
	viewMods
	viewTickets
	viewYou
)

// meLoadedMsg carries the result of GetMe.
type meLoadedMsg struct {
	me  *domain.User
	err error
}

// App is the root Bubbletea model. It owns the notification panel overlay
// and the lifetime of the background unread-count poller: the poller is
// started once in Init and stopped exactly once on quit.
type App struct {
	client *client.Client
	engine *notify.Engine
	poller *notify.Poller

	view    view
	home    homeModel
	mods    modsModel
	tickets ticketsModel
	you     youModel

	notif      notifModel
	notifOpen  bool
	helpOpen   bool
	helpCursor int

	me     *domain.User
	unread int
	status string // transient notice for actions taken outside the panel
	width  int
	height int
	frame  int // logo shimmer animation frame
}

// NewApp creates a new TUI application.
func NewApp(c *client.Client, engine *notify.Engine, poller *notify.Poller, drafts *draft.Store, pageSize int) App {
	return App{
		client:  c,
		engine:  engine,
		poller:  poller,
		home:    newHomeModel(c, pageSize),
		mods:    newModsModel(c, drafts, pageSize),
		tickets: newTicketsModel(c, drafts, pageSize),
		you:     newYouModel(c),
		notif:   newNotifModel(engine),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.home.Init(), shimmerTickCmd(), a.loadMe(), a.poller.Start())
}

func (a App) loadMe() tea.Cmd {
	c := a.client
	return func() tea.Msg {
		me, err := c.GetMe(context.Background())
		return meLoadedMsg{me: me, err: err}
	}
}

// shutdown releases session resources. Both calls are idempotent, so a
// repeated quit keystroke is harmless.
func (a App) shutdown() {
	a.poller.Stop()
	a.engine.Close()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.home, _ = a.home.Update(bodyMsg)
		a.mods, _ = a.mods.Update(bodyMsg)
		a.tickets, _ = a.tickets.Update(bodyMsg)
		a.you, _ = a.you.Update(bodyMsg)
		a.notif, _ = a.notif.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		// Compose cursors blink off the same clock
		a.mods, _ = a.mods.Update(msg)
		a.tickets, _ = a.tickets.Update(msg)
		return a, shimmerTickCmd()

	case meLoadedMsg:
		if msg.err == nil && msg.me != nil {
			a.me = msg.me
			a.mods, _ = a.mods.Update(msg)
			a.tickets, _ = a.tickets.Update(msg)
			a.you, _ = a.you.Update(msg)
		}
		return a, nil

	case notify.CountResult:
		// Poll errors keep the previous badge; the list view surfaces
		// its own failures.
		if msg.Err == nil {
			a.unread = msg.Count
		}
		return a, a.poller.WaitForNextResult()

	case StoreChangedMsg:
		a.unread = a.engine.Store().UnreadCount()
		return a, nil

	case homeOpenModMsg:
		a.view = viewMods
		var cmd tea.Cmd
		a.mods, cmd = a.mods.openModByID(msg.id)
		return a, cmd

	case notifNavigateMsg:
		a.notifOpen = false
		switch msg.kind {
		case domain.KindAchievement:
			a.view = viewYou
			a.you.showAchievements = true
			return a, a.you.Init()
		case domain.KindModApproved, domain.KindModRejected:
			if msg.relatedID != nil {
				a.view = viewMods
				var cmd tea.Cmd
				a.mods, cmd = a.mods.openModByID(*msg.relatedID)
				return a, cmd
			}
			a.view = viewYou
			return a, a.you.Init()
		}
		return a, nil

	case notifActionMsg:
		// The panel tracks the result either way; when it is closed the
		// footer notice is the only place a failure can surface.
		var cmd tea.Cmd
		a.notif, cmd = a.notif.Update(msg)
		if !a.notifOpen {
			if msg.err != nil {
				a.status = failureNotice(msg.err)
			} else {
				a.status = ""
			}
		}
		return a, cmd

	case tea.KeyMsg:
		// Any keystroke dismisses the footer notice
		a.status = ""

		// Help overlay captures all keys when open
		if a.helpOpen {
			switch msg.String() {
			case "h", "esc":
				a.helpOpen = false
			case "q", "ctrl+c":
				a.shutdown()
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(helpItems)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				item := helpItems[a.helpCursor]
				if item.url != "" {
					browser.Open(item.url) //nolint:errcheck // best-effort browser open
				}
			}
			return a, nil
		}

		// Notification panel captures all keys when open
		if a.notifOpen {
			var cmd tea.Cmd
			a.notif, cmd = a.notif.Update(msg)
			if a.notif.closed {
				a.notifOpen = false
			}
			return a, cmd
		}

		// Global keys (only when not editing)
		if !a.isEditing() {
			switch msg.String() {
			case "h":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "q", "ctrl+c":
				a.shutdown()
				return a, tea.Quit
			case "b":
				a.notifOpen = true
				var cmd tea.Cmd
				a.notif, cmd = a.notif.open()
				return a, cmd
			case "R":
				// Mark-all-read works whether or not the panel is open.
				e := a.engine
				return a, func() tea.Msg {
					return notifActionMsg{err: e.MarkAllRead(context.Background())}
				}
			case "1":
				if a.view != viewHome {
					a.view = viewHome
					return a, a.home.Init()
				}
				return a, nil
			case "2":
				if a.view != viewMods {
					a.view = viewMods
					return a, a.mods.Init()
				}
				return a, nil
			case "3":
				if a.view != viewTickets {
					a.view = viewTickets
					return a, a.tickets.Init()
				}
				return a, nil
			case "4":
				if a.view != viewYou {
					a.view = viewYou
					return a, a.you.Init()
				}
				return a, nil
			}
		} else if msg.String() == "ctrl+c" {
			a.shutdown()
			return a, tea.Quit
		}
	}

	// Remaining messages are data results, not keys: keys for an open
	// panel were consumed above. Feed the panel and the active view so a
	// load finishing behind the overlay still lands.
	var cmds []tea.Cmd
	if a.notifOpen {
		var cmd tea.Cmd
		a.notif, cmd = a.notif.Update(msg)
		if a.notif.closed {
			a.notifOpen = false
		}
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	switch a.view {
	case viewHome:
		a.home, cmd = a.home.Update(msg)
	case viewMods:
		a.mods, cmd = a.mods.Update(msg)
	case viewTickets:
		a.tickets, cmd = a.tickets.Update(msg)
	case viewYou:
		a.you, cmd = a.you.Update(msg)
	}
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

func (a App) isEditing() bool {
	switch a.view {
	case viewMods:
		return a.mods.editing()
	case viewTickets:
		return a.tickets.editing()
	case viewYou:
		return a.you.editing()
	}
	return false
}

// renderBadge renders the header bell: a dim outline when nothing is
// unread, a pulsing count otherwise.
func renderBadge(unread int) string {
	if text := formatBadge(unread); text != "" {
		return badgePulseStyle.Render("● " + text)
	}
	return badgeStyle.Render("○")
}

func (a App) View() string {
	// Header: centered shimmer logo
	logo := renderShimmerLogo(a.frame)

	// Identity line below logo, with the notification badge at the end
	parts := []string{}
	if a.me != nil {
		parts = append(parts, "@"+a.me.Login)
		parts = append(parts, fmt.Sprintf("%d mods", a.me.ModCount))
		if a.me.Admin {
			parts = append(parts, staffStyle.Render("staff"))
		}
	}
	statsLine := metaStyle.Render(strings.Join(parts, " . "))
	if statsLine != "" {
		statsLine += "  "
	}
	statsLine += renderBadge(a.unread)

	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	statsWidth := lipgloss.Width(statsLine)
	statsPad := (a.width - statsWidth) / 2
	if statsPad < 0 {
		statsPad = 0
	}
	header += "\n" + strings.Repeat(" ", statsPad) + statsLine

	// Tab bar: 1 Home  2 Mods  3 Tickets  4 You
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Home", viewHome},
		{"2", "Mods", viewMods},
		{"3", "Tickets", viewTickets},
		{"4", "You", viewYou},
	}

	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	centeredTabs := tabBar.String()

	// Body
	var body string
	var help string
	switch a.view {
	case viewHome:
		body = a.home.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("b", "notifications") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
	case viewMods:
		body = a.mods.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + a.mods.helpKeys()
	case viewTickets:
		body = a.tickets.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + a.tickets.helpKeys()
	case viewYou:
		body = a.you.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + a.you.helpKeys()
	}

	// Notification panel overlay
	if a.notifOpen {
		body = a.notif.View()
		help = " " + helpEntry("enter", "open") + "  " + helpEntry("a", "mark all read") + "  " + helpEntry("esc", "close")
	}

	// Help overlay
	if a.helpOpen {
		body = helpView(a.helpCursor)
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
	}

	if a.status != "" {
		help += "  " + errorStyle.Render(a.status)
	}

	// Chrome budget: header(2) + tabs(1) + help(1) = 4 lines + body
	chrome := 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, centeredTabs, body, help)
}
