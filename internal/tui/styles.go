package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sayonika/sayonika-tui/pkg/domain"
)

// Shimmer animation for the SAYONIKA logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "S A Y O N I K A" as a flowing wave of pink
// light. Deep rose (#3a1a28) -> bright sakura (#ff8fb8). No hue drift.
func renderShimmerLogo(frame int) string {
	const text = "SAYONIKA"
	n := len(text)

	var out string

	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		// Flowing phase — one smooth wave advancing through the text
		phase := t*0.1 - x*3.0

		// Gentle speed modulation
		phase += math.Sin(t*0.023) * 2.0

		// Primary brightness wave
		b := math.Sin(phase)*0.5 + 0.5

		// Soft shaping
		b = math.Pow(b, 1.3)

		// Slow breathing tide
		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		// Continuous RGB interpolation: deep rose -> bright sakura
		// Deep:   (58, 26, 40)   #3a1a28
		// Bright: (255, 143, 184) #ff8fb8
		r := clampByte(58 + b*(255-58))
		g := clampByte(26 + b*(143-26))
		bl := clampByte(40 + b*(184-40))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		// Letter spacing — two spaces between each letter
		if i < n-1 {
			out += "  "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles — sayonika neutral palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Search / accent
	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8fb8")).
			Bold(true)

	// Accent / action styles
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f472a8"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#b45555"))

	approveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	rejectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#b45555"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	// Notification badge: pulse style applies when unread > 0.
	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	badgePulseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8fb8")).
			Bold(true)

	unreadDotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f472a8"))

	// Surface colors
	borderColor  = lipgloss.Color("#2a1e24")
	surfaceColor = lipgloss.Color("#181114")

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#2a1e24"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f472a8")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3a343a"))

	commentTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	commentTimeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#505868"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	staffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22d3ee")).
			Bold(true)

	// Category colors
	categoryColors = map[string]lipgloss.Color{
		"story":       lipgloss.Color("#60a0e0"),
		"comedy":      lipgloss.Color("#d4a844"),
		"horror":      lipgloss.Color("#d05050"),
		"romance":     lipgloss.Color("#ff8fb8"),
		"gameplay":    lipgloss.Color("#4ade80"),
		"music":       lipgloss.Color("#c084e0"),
		"art":         lipgloss.Color("#f0944a"),
		"translation": lipgloss.Color("#3ecce4"),
		"utility":     lipgloss.Color("#8890a0"),
		"other":       lipgloss.Color("#606878"),
	}
)

// CategoryStyle returns a bold style colored for the given mod category.
func CategoryStyle(category string) lipgloss.Style {
	if c, ok := categoryColors[category]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// StatusStyle returns the style used for a mod's moderation status.
func StatusStyle(status domain.ModStatus) lipgloss.Style {
	switch status {
	case domain.ModApproved:
		return approveStyle
	case domain.ModRejected:
		return rejectStyle
	default:
		return pendingStyle
	}
}

// kindIcons maps notification kinds to their list icons.
var kindIcons = map[domain.NotificationKind]string{
	domain.KindAchievement: "★",
	domain.KindModApproved: "✓",
	domain.KindModRejected: "✗",
	domain.KindGeneral:     "•",
}

// KindIcon returns the icon shown next to a notification of the given kind.
func KindIcon(kind domain.NotificationKind) string {
	if icon, ok := kindIcons[kind]; ok {
		return icon
	}
	return kindIcons[domain.KindGeneral]
}

// KindStyle returns the style for a notification kind's icon.
func KindStyle(kind domain.NotificationKind) lipgloss.Style {
	switch kind {
	case domain.KindAchievement:
		return pendingStyle
	case domain.KindModApproved:
		return approveStyle
	case domain.KindModRejected:
		return rejectStyle
	default:
		return dimStyle
	}
}

func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

type helpItem struct {
	key   string
	label string
	url   string
}

var helpItems = []helpItem{
	{"1-4", "switch tabs", ""},
	{"b", "notifications", ""},
	{"j/k", "move", ""},
	{"enter", "open", ""},
	{"q", "quit", ""},
	{"web", "sayonika.moe", "https://sayonika.moe"},
	{"docs", "sayonika.moe/docs", "https://sayonika.moe/docs"},
}

func helpView(cursor int) string {
	var sb strings.Builder
	sb.WriteString("\n " + sectionHeaderStyle.Render("── HELP ──") + "\n\n")
	for i, item := range helpItems {
		prefix := "   "
		if i == cursor {
			prefix = " " + accentStyle.Render(">") + " "
		}
		line := prefix + helpKeyStyle.Render(padRight(item.key, 7)) + helpLabelStyle.Render(item.label)
		if i == cursor {
			line = prefix + selectedStyle.Render(padRight(item.key, 7)) + normalStyle.Render(item.label)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
