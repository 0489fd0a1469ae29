package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// badgeCap is where the unread badge saturates: anything above renders "99+".
const badgeCap = 99

// formatTime renders a relative timestamp for notification and list
// displays. Anything older than a week gets an absolute date.
func formatTime(t time.Time) string {
	return formatTimeAt(t, time.Now())
}

// formatTimeAt is formatTime against an explicit "now", for tests.
func formatTimeAt(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// formatBadge renders the unread count for the header badge: "" when zero
// (badge hidden), the count up to 99, then "99+".
func formatBadge(count int) string {
	switch {
	case count <= 0:
		return ""
	case count > badgeCap:
		return fmt.Sprintf("%d+", badgeCap)
	default:
		return fmt.Sprintf("%d", count)
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// cleanText collapses whitespace and strips leading markdown headers from
// mod taglines and descriptions so list rows show meaningful content.
func cleanText(raw string) string {
	s := strings.ReplaceAll(raw, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")

	for strings.HasPrefix(s, "#") {
		s = strings.TrimLeft(s, "#")
		s = strings.TrimLeft(s, " ")
	}

	parts := strings.Fields(s)
	return strings.TrimSpace(strings.Join(parts, " "))
}
